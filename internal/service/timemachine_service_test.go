package service_test

import (
	"testing"
	"time"

	"github.com/clearharbor/bond-platform-backend/internal/clock"
	"github.com/clearharbor/bond-platform-backend/internal/repository"
	"github.com/clearharbor/bond-platform-backend/internal/service"
	"github.com/clearharbor/bond-platform-backend/internal/testutil"
)

func TestTimeMachineService_OverrideLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	settingsRepo := repository.NewSettingsRepository(db)
	appClock := clock.NewAppClock(settingsRepo)
	svc := service.NewTimeMachineService(settingsRepo, appClock)

	status, err := svc.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.IsOverridden {
		t.Error("Expected no override on fresh database")
	}
	if status.AppTime.Sub(status.RealTime) > time.Second || status.RealTime.Sub(status.AppTime) > time.Second {
		t.Errorf("Expected app time to track real time, got app=%v real=%v", status.AppTime, status.RealTime)
	}

	override := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	if err := svc.SetOverride(override); err != nil {
		t.Fatalf("SetOverride failed: %v", err)
	}

	status, err = svc.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !status.IsOverridden {
		t.Error("Expected override flagged")
	}
	if !status.AppTime.Equal(override) {
		t.Errorf("Expected app time %v, got %v", override, status.AppTime)
	}
	if !appClock.Now().Equal(override) {
		t.Errorf("Expected app clock to serve the override, got %v", appClock.Now())
	}

	if err := svc.ClearOverride(); err != nil {
		t.Fatalf("ClearOverride failed: %v", err)
	}

	status, err = svc.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.IsOverridden {
		t.Error("Expected override cleared")
	}
}

func TestTimeMachineService_AutoApproveToggle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	settingsRepo := repository.NewSettingsRepository(db)
	svc := service.NewTimeMachineService(settingsRepo, clock.NewAppClock(settingsRepo))

	if err := svc.SetAutoApproveDistributions(true); err != nil {
		t.Fatalf("SetAutoApproveDistributions failed: %v", err)
	}

	settings, err := svc.Settings()
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if !settings.AutoApproveDistributions {
		t.Error("Expected auto-approve enabled")
	}

	status, err := svc.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !status.AutoApproveDistributions {
		t.Error("Expected auto-approve reflected in status")
	}
}
