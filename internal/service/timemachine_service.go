package service

import (
	"time"

	"github.com/clearharbor/bond-platform-backend/internal/clock"
	"github.com/clearharbor/bond-platform-backend/internal/model"
	"github.com/clearharbor/bond-platform-backend/internal/repository"
)

// TimeMachineService manages the application-time override. When an
// override is set, every service that asks the app clock for "now" gets the
// override instead of wall-clock time, which lets operators fast-forward
// accrual in demo and test environments.
type TimeMachineService struct {
	settingsRepo *repository.SettingsRepository
	clock        clock.Clock
}

// NewTimeMachineService creates a new TimeMachineService.
func NewTimeMachineService(settingsRepo *repository.SettingsRepository, clk clock.Clock) *TimeMachineService {
	return &TimeMachineService{
		settingsRepo: settingsRepo,
		clock:        clk,
	}
}

// TimeStatus reports the current application time alongside the real time.
type TimeStatus struct {
	AppTime                  time.Time `json:"appTime"`
	RealTime                 time.Time `json:"realTime"`
	IsOverridden             bool      `json:"isOverridden"`
	AutoApproveDistributions bool      `json:"autoApproveDistributions"`
}

// Status returns the current time-machine state.
func (s *TimeMachineService) Status() (TimeStatus, error) {
	settings, err := s.settingsRepo.Get()
	if err != nil {
		return TimeStatus{}, err
	}

	return TimeStatus{
		AppTime:                  s.clock.Now().UTC(),
		RealTime:                 time.Now().UTC(),
		IsOverridden:             settings.OverrideTime != nil,
		AutoApproveDistributions: settings.AutoApproveDistributions,
	}, nil
}

// SetOverride pins application time to t.
func (s *TimeMachineService) SetOverride(t time.Time) error {
	utc := t.UTC()
	return s.settingsRepo.SetOverrideTime(&utc)
}

// ClearOverride returns the application to wall-clock time.
func (s *TimeMachineService) ClearOverride() error {
	return s.settingsRepo.SetOverrideTime(nil)
}

// SetAutoApproveDistributions toggles automatic settlement of swept
// distributions.
func (s *TimeMachineService) SetAutoApproveDistributions(enabled bool) error {
	return s.settingsRepo.SetAutoApproveDistributions(enabled)
}

// Settings returns the raw settings row.
func (s *TimeMachineService) Settings() (model.AppSettings, error) {
	return s.settingsRepo.Get()
}
