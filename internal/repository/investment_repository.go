package repository

import (
	"database/sql"
	"fmt"

	"github.com/clearharbor/bond-platform-backend/internal/apperrors"
	"github.com/clearharbor/bond-platform-backend/internal/model"
)

// InvestmentRepository provides data access methods for the investment table.
type InvestmentRepository struct {
	db *sql.DB
}

// NewInvestmentRepository creates a new InvestmentRepository with the provided database connection.
func NewInvestmentRepository(db *sql.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

const investmentColumns = `
	id, user_id, amount, bonds, status, payment_frequency, lockup_period,
	account_type, payment_method, requires_manual_approval,
	created_at, submitted_at, confirmed_at, lockup_end_date, withdrawn_at, updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvestment(row rowScanner) (model.Investment, error) {
	var (
		inv           model.Investment
		amount        string
		createdAt     string
		updatedAt     string
		submittedAt   sql.NullString
		confirmedAt   sql.NullString
		lockupEndDate sql.NullString
		withdrawnAt   sql.NullString
	)

	err := row.Scan(
		&inv.ID,
		&inv.UserID,
		&amount,
		&inv.Bonds,
		&inv.Status,
		&inv.PaymentFrequency,
		&inv.LockupPeriod,
		&inv.AccountType,
		&inv.PaymentMethod,
		&inv.RequiresManualApproval,
		&createdAt,
		&submittedAt,
		&confirmedAt,
		&lockupEndDate,
		&withdrawnAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return model.Investment{}, apperrors.ErrInvestmentNotFound
	}
	if err != nil {
		return model.Investment{}, fmt.Errorf("failed to scan investment: %w", err)
	}

	if inv.Amount, err = parseDecimal(amount); err != nil {
		return model.Investment{}, err
	}
	if inv.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.Investment{}, err
	}
	if inv.UpdatedAt, err = ParseTime(updatedAt); err != nil {
		return model.Investment{}, err
	}
	if inv.SubmittedAt, err = parseNullTime(submittedAt); err != nil {
		return model.Investment{}, err
	}
	if inv.ConfirmedAt, err = parseNullTime(confirmedAt); err != nil {
		return model.Investment{}, err
	}
	if inv.LockupEndDate, err = parseNullTime(lockupEndDate); err != nil {
		return model.Investment{}, err
	}
	if inv.WithdrawnAt, err = parseNullTime(withdrawnAt); err != nil {
		return model.Investment{}, err
	}

	return inv, nil
}

// GetInvestmentOnID retrieves an investment by its business ID.
func (r *InvestmentRepository) GetInvestmentOnID(investmentID string) (model.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investment WHERE id = ?`
	return scanInvestment(r.db.QueryRow(query, investmentID))
}

// GetInvestments retrieves investments filtered by status and/or user.
// Empty filter values mean "any". Results are ordered newest first.
func (r *InvestmentRepository) GetInvestments(filter model.InvestmentFilter) ([]model.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investment WHERE 1=1`
	var args []any

	if filter.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, filter.UserID)
	}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query investment table: %w", err)
	}
	defer rows.Close()

	investments := []model.Investment{}

	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investment table: %w", err)
	}

	return investments, nil
}

// GetAccruingInvestments retrieves the investments the distribution sweep
// must process: everything in active or withdrawal_notice status.
func (r *InvestmentRepository) GetAccruingInvestments() ([]model.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investment WHERE status IN (?, ?) ORDER BY id`

	rows, err := r.db.Query(query, string(model.StatusActive), string(model.StatusWithdrawalNotice))
	if err != nil {
		return nil, fmt.Errorf("failed to query accruing investments: %w", err)
	}
	defer rows.Close()

	investments := []model.Investment{}

	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accruing investments: %w", err)
	}

	return investments, nil
}

// CreateInvestment inserts a new investment row.
func (r *InvestmentRepository) CreateInvestment(inv model.Investment) error {
	query := `
		INSERT INTO investment (` + investmentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		inv.ID,
		inv.UserID,
		inv.Amount.String(),
		inv.Bonds,
		string(inv.Status),
		string(inv.PaymentFrequency),
		string(inv.LockupPeriod),
		string(inv.AccountType),
		string(inv.PaymentMethod),
		inv.RequiresManualApproval,
		formatTime(inv.CreatedAt),
		formatNullTime(inv.SubmittedAt),
		formatNullTime(inv.ConfirmedAt),
		formatNullTime(inv.LockupEndDate),
		formatNullTime(inv.WithdrawnAt),
		formatTime(inv.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert investment: %w", err)
	}
	return nil
}

// UpdateInvestment writes the full mutable state of an investment back to
// the database. The immutable identity columns (id, user_id, created_at)
// are never touched. The write only lands if the row still carries the
// status the caller read (expectedStatus); a concurrent status change
// surfaces as ErrInvestmentModified so no transition is silently clobbered.
func (r *InvestmentRepository) UpdateInvestment(inv model.Investment, expectedStatus model.InvestmentStatus) error {
	query := `
		UPDATE investment
		SET amount = ?, bonds = ?, status = ?, payment_frequency = ?,
		    lockup_period = ?, account_type = ?, payment_method = ?,
		    requires_manual_approval = ?, submitted_at = ?, confirmed_at = ?,
		    lockup_end_date = ?, withdrawn_at = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`
	result, err := r.db.Exec(query,
		inv.Amount.String(),
		inv.Bonds,
		string(inv.Status),
		string(inv.PaymentFrequency),
		string(inv.LockupPeriod),
		string(inv.AccountType),
		string(inv.PaymentMethod),
		inv.RequiresManualApproval,
		formatNullTime(inv.SubmittedAt),
		formatNullTime(inv.ConfirmedAt),
		formatNullTime(inv.LockupEndDate),
		formatNullTime(inv.WithdrawnAt),
		formatTime(inv.UpdatedAt),
		inv.ID,
		string(expectedStatus),
	)
	if err != nil {
		return fmt.Errorf("failed to update investment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check investment update: %w", err)
	}
	if rows == 0 {
		var current string
		err := r.db.QueryRow(`SELECT status FROM investment WHERE id = ?`, inv.ID).Scan(&current)
		if err == sql.ErrNoRows {
			return apperrors.ErrInvestmentNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check investment update: %w", err)
		}
		return apperrors.ErrInvestmentModified
	}
	return nil
}

// DeleteInvestment removes an investment row. Callers must verify the
// draft-only rule before deleting; ledger rows cascade.
func (r *InvestmentRepository) DeleteInvestment(investmentID string) error {
	result, err := r.db.Exec(`DELETE FROM investment WHERE id = ?`, investmentID)
	if err != nil {
		return fmt.Errorf("failed to delete investment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check investment delete: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrInvestmentNotFound
	}
	return nil
}
