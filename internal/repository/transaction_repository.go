package repository

import (
	"database/sql"
	"fmt"

	"github.com/clearharbor/bond-platform-backend/internal/apperrors"
	"github.com/clearharbor/bond-platform-backend/internal/model"
)

// TransactionRepository provides data access methods for the transaction
// ledger. The ledger is append-only: rows are inserted once and only their
// settlement status fields change afterwards.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `
	id, user_id, investment_id, type, amount, date, month_index, status,
	failure_reason, retry_count, last_retry_at, created_at
`

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var (
		tx            model.Transaction
		amount        string
		date          string
		createdAt     string
		failureReason sql.NullString
		lastRetryAt   sql.NullString
	)

	err := row.Scan(
		&tx.ID,
		&tx.UserID,
		&tx.InvestmentID,
		&tx.Type,
		&amount,
		&date,
		&tx.MonthIndex,
		&tx.Status,
		&failureReason,
		&tx.RetryCount,
		&lastRetryAt,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan transaction: %w", err)
	}

	tx.FailureReason = failureReason.String

	if tx.Amount, err = parseDecimal(amount); err != nil {
		return model.Transaction{}, err
	}
	if tx.Date, err = ParseTime(date); err != nil {
		return model.Transaction{}, err
	}
	if tx.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.Transaction{}, err
	}
	if tx.LastRetryAt, err = parseNullTime(lastRetryAt); err != nil {
		return model.Transaction{}, err
	}

	return tx, nil
}

// GetTransactionOnID retrieves a ledger entry by its business ID.
func (r *TransactionRepository) GetTransactionOnID(transactionID string) (model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM "transaction" WHERE id = ?`
	return scanTransaction(r.db.QueryRow(query, transactionID))
}

// GetTransactionsOnInvestmentID retrieves the full ledger of an investment,
// oldest first.
func (r *TransactionRepository) GetTransactionsOnInvestmentID(investmentID string) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM "transaction"
		WHERE investment_id = ?
		ORDER BY date, month_index
	`
	return r.queryTransactions(query, investmentID)
}

// GetTransactionsOnUserID retrieves every ledger entry across a user's
// investments, newest first.
func (r *TransactionRepository) GetTransactionsOnUserID(userID string) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM "transaction"
		WHERE user_id = ?
		ORDER BY date DESC, month_index DESC
	`
	return r.queryTransactions(query, userID)
}

func (r *TransactionRepository) queryTransactions(query string, args ...any) ([]model.Transaction, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return transactions, nil
}

// MaxMonthIndex returns the highest accrual month already recorded for an
// investment and transaction type, or 0 when no accrual entries exist. The
// distribution sweep uses it as the idempotency watermark.
func (r *TransactionRepository) MaxMonthIndex(investmentID string, txType model.TransactionType) (int, error) {
	query := `
		SELECT COALESCE(MAX(month_index), 0)
		FROM "transaction"
		WHERE investment_id = ? AND type = ?
	`
	var max int
	err := r.db.QueryRow(query, investmentID, string(txType)).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to query max month index: %w", err)
	}
	return max, nil
}

// CreateTransaction inserts a new ledger entry.
func (r *TransactionRepository) CreateTransaction(tx model.Transaction) error {
	query := `
		INSERT INTO "transaction" (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		tx.ID,
		tx.UserID,
		tx.InvestmentID,
		string(tx.Type),
		tx.Amount.String(),
		formatTime(tx.Date),
		tx.MonthIndex,
		string(tx.Status),
		nullString(tx.FailureReason),
		tx.RetryCount,
		formatNullTime(tx.LastRetryAt),
		formatTime(tx.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// UpdateTransactionStatus updates the settlement fields of a ledger entry.
// Amount, type and dates are immutable once written.
func (r *TransactionRepository) UpdateTransactionStatus(tx model.Transaction) error {
	query := `
		UPDATE "transaction"
		SET status = ?, failure_reason = ?, retry_count = ?, last_retry_at = ?
		WHERE id = ?
	`
	result, err := r.db.Exec(query,
		string(tx.Status),
		nullString(tx.FailureReason),
		tx.RetryCount,
		formatNullTime(tx.LastRetryAt),
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check transaction update: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// GetPendingPayouts retrieves all distribution entries awaiting settlement,
// joined with investor and investment context for the admin review queue.
// Oldest accrual dates come first so the queue is processed in order.
func (r *TransactionRepository) GetPendingPayouts() ([]model.PendingPayout, error) {
	query := `
		SELECT t.id, t.user_id, t.investment_id, t.type, t.amount, t.date,
		       t.month_index, t.status, t.failure_reason, t.retry_count,
		       t.last_retry_at, t.created_at,
		       u.email, u.first_name, u.last_name,
		       i.amount, i.lockup_period, i.payment_frequency
		FROM "transaction" t
		JOIN user u ON u.id = t.user_id
		JOIN investment i ON i.id = t.investment_id
		WHERE t.type = ? AND t.status IN (?, ?)
		ORDER BY t.date, t.id
	`
	rows, err := r.db.Query(query,
		string(model.TxDistribution),
		string(model.TxStatusPending),
		string(model.TxStatusFailed),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending payouts: %w", err)
	}
	defer rows.Close()

	payouts := []model.PendingPayout{}

	for rows.Next() {
		var (
			p                model.PendingPayout
			amount           string
			date             string
			createdAt        string
			failureReason    sql.NullString
			lastRetryAt      sql.NullString
			firstName        sql.NullString
			lastName         sql.NullString
			investmentAmount string
		)

		err := rows.Scan(
			&p.ID, &p.UserID, &p.InvestmentID, &p.Type, &amount, &date,
			&p.MonthIndex, &p.Status, &failureReason, &p.RetryCount,
			&lastRetryAt, &createdAt,
			&p.UserEmail, &firstName, &lastName,
			&investmentAmount, &p.LockupPeriod, &p.PaymentFrequency,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending payout: %w", err)
		}

		p.FailureReason = failureReason.String
		p.UserName = joinName(firstName.String, lastName.String)

		if p.Amount, err = parseDecimal(amount); err != nil {
			return nil, err
		}
		if p.InvestmentAmount, err = parseDecimal(investmentAmount); err != nil {
			return nil, err
		}
		if p.Date, err = ParseTime(date); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = ParseTime(createdAt); err != nil {
			return nil, err
		}
		if p.LastRetryAt, err = parseNullTime(lastRetryAt); err != nil {
			return nil, err
		}

		payouts = append(payouts, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending payouts: %w", err)
	}

	return payouts, nil
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
