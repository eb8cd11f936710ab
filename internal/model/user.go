package model

import "time"

// User is the investor owning zero or more investments. Authentication is
// handled upstream; this record is the ownership anchor and carries the
// account type lock: once a first investment is submitted, AccountType is
// stamped here and later investments must match it.
type User struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	FirstName   string      `json:"firstName,omitempty"`
	LastName    string      `json:"lastName,omitempty"`
	AccountType AccountType `json:"accountType,omitempty"`
	IsAdmin     bool        `json:"isAdmin"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
