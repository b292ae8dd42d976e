package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dispatch-booking-service/internal/infrastructure/config"
	"dispatch-booking-service/internal/infrastructure/oauth"
	"dispatch-booking-service/internal/infrastructure/persistence"
	"dispatch-booking-service/internal/infrastructure/router"
	"dispatch-booking-service/internal/interface/handler"
	bookingRepo "dispatch-booking-service/internal/interface/repository"
	"dispatch-booking-service/internal/interface/websocket"
	"dispatch-booking-service/internal/usecase"
	"dispatch-booking-service/pkg/logger"
	"dispatch-booking-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	// Create logger
	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting Dispatch Booking Service", "version", cfg.AppVersion)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	db := persistence.GetDatabase(mongoClient, cfg.MongoDB)

	log.Info("Connecting to PostgreSQL")
	gormDB, err := persistence.NewPostgresDB(cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	m := metrics.NewMetrics("dispatch_booking", prometheus.DefaultRegisterer)

	// Reference data and booking repositories
	airlineRepository := bookingRepo.NewGormAirlineRepository(gormDB)
	airportRepository := bookingRepo.NewGormAirportRepository(gormDB)
	missionRepository := bookingRepo.NewGormMissionRepository(gormDB)
	chauffeurRepository := bookingRepo.NewGormChauffeurRepository(gormDB)
	bookingRepository := bookingRepo.NewGormBookingRepository(gormDB)

	// Flight schedules come from the provider, cached in MongoDB
	flightAuth := oauth.NewFlightAPIOAuth(
		cfg.FlightAPIClientID,
		cfg.FlightAPIClientSecret,
		cfg.FlightAPITokenURL,
		cfg.FlightAPITimeout,
		log,
	)
	flightAPI := bookingRepo.NewHTTPFlightScheduleRepository(
		flightAuth.HTTPClient(ctx),
		cfg.FlightAPIURL,
		airportRepository,
		airlineRepository,
		log,
	)
	scheduleCache, err := bookingRepo.NewMongoFlightScheduleRepository(ctx, db)
	if err != nil {
		log.Fatal("Failed to set up flight schedule cache", "error", err)
	}
	flights := bookingRepo.NewCachedFlightScheduleRepository(flightAPI, scheduleCache, cfg.FlightScheduleTTL, log, m)

	// Live workflows push lookup results to their websocket watchers
	hub := websocket.NewHub(log)
	go hub.Run(ctx)

	registry := usecase.NewWorkflowRegistry(usecase.WorkflowOptions{
		Flights:       flights,
		Logger:        log,
		Metrics:       m,
		LookupTimeout: cfg.FlightLookupTimeout,
		OnChange:      hub.Publish,
	}, cfg.WorkflowIdleTimeout, log, m)

	assembler := usecase.NewSubmissionAssembler(missionRepository, chauffeurRepository, bookingRepository, time.Now, log, m)
	bookingService := usecase.NewBookingService(registry, assembler)

	// Evict abandoned workflows
	go func() {
		sweepTicker := time.NewTicker(time.Minute)
		defer sweepTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Workflow sweeper stopped")
				return
			case now := <-sweepTicker.C:
				registry.Sweep(now)
			}
		}
	}()

	h := handler.NewHandler(bookingService, hub, log)
	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: router.SetupRouter(h, prometheus.DefaultGatherer,
			persistence.MongoHealthCheck(mongoClient),
			persistence.PostgresHealthCheck(gormDB),
		),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}
	if err := persistence.ClosePostgresDB(gormDB); err != nil {
		log.Error("PostgreSQL close error", "error", err)
	}

	log.Info("Dispatch Booking Service stopped")
}
