package model

import "time"

// AppSettings is the single-row application settings record. OverrideTime is
// the time-machine value; when set, it replaces wall-clock time everywhere
// the application asks for "now".
type AppSettings struct {
	OverrideTime             *time.Time `json:"overrideTime,omitempty"`
	AutoApproveDistributions bool       `json:"autoApproveDistributions"`
}
