package repository

import (
	"database/sql"
	"fmt"

	"github.com/clearharbor/bond-platform-backend/internal/apperrors"
	"github.com/clearharbor/bond-platform-backend/internal/model"
)

// WithdrawalRepository provides data access methods for the withdrawal table.
type WithdrawalRepository struct {
	db *sql.DB
}

// NewWithdrawalRepository creates a new WithdrawalRepository with the provided database connection.
func NewWithdrawalRepository(db *sql.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

const withdrawalColumns = `
	id, user_id, investment_id, status, requested_amount, requested_at,
	processed_at, processed_by, termination_type, override_lockup,
	created_at, updated_at
`

func scanWithdrawal(row rowScanner) (model.Withdrawal, error) {
	var (
		w               model.Withdrawal
		requestedAmount string
		requestedAt     string
		createdAt       string
		updatedAt       string
		processedAt     sql.NullString
		processedBy     sql.NullString
		terminationType sql.NullString
	)

	err := row.Scan(
		&w.ID,
		&w.UserID,
		&w.InvestmentID,
		&w.Status,
		&requestedAmount,
		&requestedAt,
		&processedAt,
		&processedBy,
		&terminationType,
		&w.OverrideLockup,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return model.Withdrawal{}, apperrors.ErrWithdrawalNotFound
	}
	if err != nil {
		return model.Withdrawal{}, fmt.Errorf("failed to scan withdrawal: %w", err)
	}

	w.ProcessedBy = processedBy.String
	w.TerminationType = terminationType.String

	if w.RequestedAmount, err = parseDecimal(requestedAmount); err != nil {
		return model.Withdrawal{}, err
	}
	if w.RequestedAt, err = ParseTime(requestedAt); err != nil {
		return model.Withdrawal{}, err
	}
	if w.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.Withdrawal{}, err
	}
	if w.UpdatedAt, err = ParseTime(updatedAt); err != nil {
		return model.Withdrawal{}, err
	}
	if w.ProcessedAt, err = parseNullTime(processedAt); err != nil {
		return model.Withdrawal{}, err
	}

	return w, nil
}

// GetWithdrawalOnID retrieves a withdrawal by its business ID.
func (r *WithdrawalRepository) GetWithdrawalOnID(withdrawalID string) (model.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal WHERE id = ?`
	return scanWithdrawal(r.db.QueryRow(query, withdrawalID))
}

// GetWithdrawalsOnInvestmentID retrieves all withdrawals for an investment,
// newest first.
func (r *WithdrawalRepository) GetWithdrawalsOnInvestmentID(investmentID string) ([]model.Withdrawal, error) {
	query := `
		SELECT ` + withdrawalColumns + `
		FROM withdrawal
		WHERE investment_id = ?
		ORDER BY requested_at DESC
	`
	return r.queryWithdrawals(query, investmentID)
}

// GetPendingWithdrawals retrieves all withdrawals awaiting admin action,
// oldest first.
func (r *WithdrawalRepository) GetPendingWithdrawals() ([]model.Withdrawal, error) {
	query := `
		SELECT ` + withdrawalColumns + `
		FROM withdrawal
		WHERE status = ?
		ORDER BY requested_at
	`
	return r.queryWithdrawals(query, string(model.WithdrawalPending))
}

func (r *WithdrawalRepository) queryWithdrawals(query string, args ...any) ([]model.Withdrawal, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query withdrawal table: %w", err)
	}
	defer rows.Close()

	withdrawals := []model.Withdrawal{}

	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, w)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating withdrawal table: %w", err)
	}

	return withdrawals, nil
}

// CreateWithdrawal inserts a new withdrawal row.
func (r *WithdrawalRepository) CreateWithdrawal(w model.Withdrawal) error {
	query := `
		INSERT INTO withdrawal (` + withdrawalColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		w.ID,
		w.UserID,
		w.InvestmentID,
		string(w.Status),
		w.RequestedAmount.String(),
		formatTime(w.RequestedAt),
		formatNullTime(w.ProcessedAt),
		nullString(w.ProcessedBy),
		nullString(w.TerminationType),
		w.OverrideLockup,
		formatTime(w.CreatedAt),
		formatTime(w.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert withdrawal: %w", err)
	}
	return nil
}

// UpdateWithdrawal writes the mutable state of a withdrawal back to the
// database.
func (r *WithdrawalRepository) UpdateWithdrawal(w model.Withdrawal) error {
	query := `
		UPDATE withdrawal
		SET status = ?, processed_at = ?, processed_by = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.Exec(query,
		string(w.Status),
		formatNullTime(w.ProcessedAt),
		nullString(w.ProcessedBy),
		formatTime(w.UpdatedAt),
		w.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update withdrawal: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check withdrawal update: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrWithdrawalNotFound
	}
	return nil
}
