package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/clearharbor/bond-platform-backend/internal/model"
)

// SettingsRepository provides data access for the single-row app_settings
// table: the time-machine override and the distribution auto-approve flag.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository with the provided database connection.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get retrieves the application settings row.
func (r *SettingsRepository) Get() (model.AppSettings, error) {
	query := `
		SELECT override_time, auto_approve_distributions
		FROM app_settings
		WHERE id = 1
	`
	var (
		override sql.NullString
		settings model.AppSettings
	)

	err := r.db.QueryRow(query).Scan(&override, &settings.AutoApproveDistributions)
	if err != nil {
		return model.AppSettings{}, fmt.Errorf("failed to query app settings: %w", err)
	}

	settings.OverrideTime, err = parseNullTime(override)
	if err != nil {
		return model.AppSettings{}, err
	}

	return settings, nil
}

// OverrideTime returns the time-machine override, or nil when the
// application runs on wall-clock time.
func (r *SettingsRepository) OverrideTime() (*time.Time, error) {
	settings, err := r.Get()
	if err != nil {
		return nil, err
	}
	return settings.OverrideTime, nil
}

// SetOverrideTime stores the time-machine override. Passing nil clears it.
func (r *SettingsRepository) SetOverrideTime(t *time.Time) error {
	_, err := r.db.Exec(`UPDATE app_settings SET override_time = ? WHERE id = 1`, formatNullTime(t))
	if err != nil {
		return fmt.Errorf("failed to update override time: %w", err)
	}
	return nil
}

// SetAutoApproveDistributions stores the distribution auto-approve flag.
func (r *SettingsRepository) SetAutoApproveDistributions(enabled bool) error {
	_, err := r.db.Exec(`UPDATE app_settings SET auto_approve_distributions = ? WHERE id = 1`, enabled)
	if err != nil {
		return fmt.Errorf("failed to update auto-approve setting: %w", err)
	}
	return nil
}
