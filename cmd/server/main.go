package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clearharbor/bond-platform-backend/internal/api"
	"github.com/clearharbor/bond-platform-backend/internal/clock"
	"github.com/clearharbor/bond-platform-backend/internal/config"
	"github.com/clearharbor/bond-platform-backend/internal/database"
	"github.com/clearharbor/bond-platform-backend/internal/repository"
	"github.com/clearharbor/bond-platform-backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	userRepo := repository.NewUserRepository(db)
	investmentRepo := repository.NewInvestmentRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	counterRepo := repository.NewCounterRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Application clock: wall time unless the time machine override is set
	appClock := clock.NewAppClock(settingsRepo)

	// Create services
	systemService := service.NewSystemService(db)
	userService := service.NewUserService(userRepo, counterRepo, appClock)
	investmentService := service.NewInvestmentService(
		investmentRepo,
		userRepo,
		transactionRepo,
		withdrawalRepo,
		activityRepo,
		counterRepo,
		appClock,
	)
	withdrawalService := service.NewWithdrawalService(
		withdrawalRepo,
		investmentRepo,
		transactionRepo,
		activityRepo,
		counterRepo,
		appClock,
	)
	distributionService := service.NewDistributionService(
		investmentRepo,
		transactionRepo,
		settingsRepo,
		counterRepo,
		appClock,
		cfg.Distributions.Concurrency,
	)
	timeMachineService := service.NewTimeMachineService(settingsRepo, appClock)

	var accessTokenService *service.AccessTokenService
	if cfg.Admin.TokenKey != "" {
		accessTokenService, err = service.NewAccessTokenService(cfg.Admin.TokenKey)
		if err != nil {
			log.Fatalf("Failed to initialize access token service: %v", err)
		}
	}

	// Distribution sweep schedule
	scheduler, err := service.NewScheduler(distributionService, cfg.Distributions.Schedule)
	if err != nil {
		log.Fatalf("Failed to create distribution scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create router
	router := api.NewRouter(api.Services{
		System:       systemService,
		User:         userService,
		Investment:   investmentService,
		Withdrawal:   withdrawalService,
		Distribution: distributionService,
		TimeMachine:  timeMachineService,
		AccessToken:  accessTokenService,
		ActivityRepo: activityRepo,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
