package repository

import (
	"database/sql"
	"fmt"
)

// CounterRepository hands out the sequential, human-readable business IDs
// (USR-1001, INV-10001, ...). Each entity keeps its own counter row seeded
// at a distinct starting value so IDs are recognizable on sight.
type CounterRepository struct {
	db *sql.DB
}

// NewCounterRepository creates a new CounterRepository with the provided database connection.
func NewCounterRepository(db *sql.DB) *CounterRepository {
	return &CounterRepository{db: db}
}

// Counter names, matching the seed rows created by the initial migration.
const (
	CounterUser        = "user"
	CounterInvestment  = "investment"
	CounterTransaction = "transaction"
	CounterWithdrawal  = "withdrawal"
)

// idFormats maps counter names to their prefix and zero-padding.
var idFormats = map[string]string{
	CounterUser:        "USR-%04d",
	CounterInvestment:  "INV-%05d",
	CounterTransaction: "TXN-%06d",
	CounterWithdrawal:  "WD-%05d",
}

// NextID atomically claims the next value of the named counter and returns
// the formatted business ID. The claim and increment run in one transaction
// so concurrent callers never receive the same ID.
func (r *CounterRepository) NextID(name string) (string, error) {
	format, ok := idFormats[name]
	if !ok {
		return "", fmt.Errorf("unknown id counter: %s", name)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin counter transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	var value int64
	err = tx.QueryRow(`SELECT next_value FROM id_counter WHERE name = ?`, name).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("failed to read counter %s: %w", name, err)
	}

	if _, err := tx.Exec(`UPDATE id_counter SET next_value = next_value + 1 WHERE name = ?`, name); err != nil {
		return "", fmt.Errorf("failed to advance counter %s: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit counter transaction: %w", err)
	}

	return fmt.Sprintf(format, value), nil
}
