package repository

import (
	"database/sql"
	"fmt"

	"github.com/clearharbor/bond-platform-backend/internal/apperrors"
	"github.com/clearharbor/bond-platform-backend/internal/model"
)

// UserRepository provides data access methods for the user table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, first_name, last_name, account_type, is_admin, created_at, updated_at`

func scanUser(row rowScanner) (model.User, error) {
	var (
		u           model.User
		firstName   sql.NullString
		lastName    sql.NullString
		accountType sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := row.Scan(&u.ID, &u.Email, &firstName, &lastName, &accountType, &u.IsAdmin, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to query user: %w", err)
	}

	u.FirstName = firstName.String
	u.LastName = lastName.String
	u.AccountType = model.AccountType(accountType.String)

	if u.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.User{}, err
	}
	if u.UpdatedAt, err = ParseTime(updatedAt); err != nil {
		return model.User{}, err
	}

	return u, nil
}

// GetUserOnID retrieves a user by its business ID.
func (r *UserRepository) GetUserOnID(userID string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM user WHERE id = ?`
	return scanUser(r.db.QueryRow(query, userID))
}

// GetUserOnEmail retrieves a user by email address.
func (r *UserRepository) GetUserOnEmail(email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM user WHERE email = ?`
	return scanUser(r.db.QueryRow(query, email))
}

// GetUsers retrieves all users, oldest first.
func (r *UserRepository) GetUsers() ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM user ORDER BY id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateUser inserts a new user row.
func (r *UserRepository) CreateUser(u model.User) error {
	query := `
		INSERT INTO user (id, email, first_name, last_name, account_type, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		u.ID,
		u.Email,
		nullString(u.FirstName),
		nullString(u.LastName),
		nullString(string(u.AccountType)),
		u.IsAdmin,
		formatTime(u.CreatedAt),
		formatTime(u.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// SetAccountType stamps the account type lock onto a user. Called when the
// user's first investment is submitted; later investments must match it.
func (r *UserRepository) SetAccountType(userID string, accountType model.AccountType, updatedAt string) error {
	result, err := r.db.Exec(
		`UPDATE user SET account_type = ?, updated_at = ? WHERE id = ?`,
		string(accountType), updatedAt, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user account type: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check user update: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
