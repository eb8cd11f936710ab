package repository

import (
	"database/sql"
	"fmt"

	"github.com/clearharbor/bond-platform-backend/internal/model"
)

// ActivityRepository provides data access methods for the append-only
// activity log.
type ActivityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new ActivityRepository with the provided database connection.
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// CreateEvent appends an activity log entry.
func (r *ActivityRepository) CreateEvent(ev model.ActivityEvent) error {
	query := `
		INSERT INTO activity (id, user_id, investment_id, type, date, description)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		ev.ID,
		ev.UserID,
		nullString(ev.InvestmentID),
		ev.Type,
		formatTime(ev.Date),
		ev.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity event: %w", err)
	}
	return nil
}

// GetEventsOnUserID retrieves a user's activity trail, newest first.
func (r *ActivityRepository) GetEventsOnUserID(userID string) ([]model.ActivityEvent, error) {
	query := `
		SELECT id, user_id, investment_id, type, date, description
		FROM activity
		WHERE user_id = ?
		ORDER BY date DESC, id
	`
	return r.queryEvents(query, userID)
}

// GetEventsOnInvestmentID retrieves the activity trail of one investment,
// newest first.
func (r *ActivityRepository) GetEventsOnInvestmentID(investmentID string) ([]model.ActivityEvent, error) {
	query := `
		SELECT id, user_id, investment_id, type, date, description
		FROM activity
		WHERE investment_id = ?
		ORDER BY date DESC, id
	`
	return r.queryEvents(query, investmentID)
}

func (r *ActivityRepository) queryEvents(query string, args ...any) ([]model.ActivityEvent, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity table: %w", err)
	}
	defer rows.Close()

	events := []model.ActivityEvent{}

	for rows.Next() {
		var (
			ev           model.ActivityEvent
			investmentID sql.NullString
			date         string
		)

		if err := rows.Scan(&ev.ID, &ev.UserID, &investmentID, &ev.Type, &date, &ev.Description); err != nil {
			return nil, fmt.Errorf("failed to scan activity event: %w", err)
		}

		ev.InvestmentID = investmentID.String
		if ev.Date, err = ParseTime(date); err != nil {
			return nil, err
		}

		events = append(events, ev)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity table: %w", err)
	}

	return events, nil
}
