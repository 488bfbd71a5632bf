package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"noise-sentinel/internal/auth"
	"noise-sentinel/internal/config"
	"noise-sentinel/internal/db"
	"noise-sentinel/internal/evidence"
	httphandler "noise-sentinel/internal/http"
	"noise-sentinel/internal/http/middleware"
	"noise-sentinel/internal/logger"
	"noise-sentinel/internal/notify"
	"noise-sentinel/internal/publicstore"
	"noise-sentinel/internal/repository"
	"noise-sentinel/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		if err := db.Close(database); err != nil {
			log.Warn().Err(err).Msg("closing database pool")
		}
	}()

	redisClient := publicstore.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, public access will fail until it recovers")
	}

	evidenceStore, err := evidence.New(ctx, evidence.Config{
		Storage: cfg.Evidence.Storage,
		Dir:     cfg.Evidence.Dir,
		S3: evidence.S3Config{
			Bucket:   cfg.Evidence.S3Bucket,
			Region:   cfg.Evidence.S3Region,
			Endpoint: cfg.Evidence.S3Endpoint,
			Prefix:   cfg.Evidence.S3Prefix,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise evidence storage")
	}

	notifier, closeNotifier := buildNotifier(cfg, log)
	defer closeNotifier()

	txr := repository.NewTransactor(database)
	userRepo := repository.NewUserRepository(database)
	stationRepo := repository.NewStationRepository(database)
	courtRepo := repository.NewCourtRepository(database)
	deviceRepo := repository.NewDeviceRepository(database)
	violationRepo := repository.NewViolationRepository(database)
	accusedRepo := repository.NewAccusedRepository(database)
	vehicleRepo := repository.NewVehicleRepository(database)
	changeLogRepo := repository.NewChangeLogRepository(database)
	reportRepo := repository.NewEmissionReportRepository(database)
	challanRepo := repository.NewChallanRepository(database)
	firRepo := repository.NewFirRepository(database)
	caseRepo := repository.NewCaseRepository(database)
	sequenceRepo := repository.NewSequenceRepository(database)

	gate := service.NewLinkageGate(challanRepo, firRepo, caseRepo)
	resolver := service.NewEntityResolver(accusedRepo, vehicleRepo, changeLogRepo)

	tokenIssuer := auth.NewIssuer(cfg.Auth.AccessSecret, cfg.Auth.AccessTTL)
	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	authService := service.NewAuthService(userRepo, stationRepo, courtRepo, tokenIssuer, log)
	if cfg.Auth.AdminUsername != "" && cfg.Auth.AdminPassword != "" {
		if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("failed to bootstrap admin user")
		}
	}

	services := httphandler.Services{
		Auth:      authService,
		Reference: service.NewReferenceService(stationRepo, courtRepo, violationRepo, deviceRepo),
		Emission:  service.NewEmissionService(deviceRepo, reportRepo, log),
		Challan: service.NewChallanService(txr, violationRepo, reportRepo, challanRepo, gate, resolver, evidenceStore, notifier,
			service.ChallanOptions{
				DueDays:          cfg.Workflow.ChallanDueDays,
				EvidenceMaxBytes: cfg.Evidence.MaxBytes,
				JPEGQuality:      cfg.Evidence.JPEGQuality,
			}, log),
		Fir: service.NewFirService(txr, stationRepo, firRepo, sequenceRepo, gate, notifier, log),
		Case: service.NewCaseService(txr, courtRepo, userRepo, firRepo, caseRepo, sequenceRepo, gate, notifier,
			service.CaseOptions{HearingDefaultDays: cfg.Workflow.HearingDefaultDays}, log),
		Public: service.NewPublicService(accusedRepo, vehicleRepo, challanRepo, firRepo, caseRepo,
			publicstore.NewRedisStore(redisClient), notifier,
			service.PublicOptions{
				OTPTTL:      cfg.Public.OTPTTL,
				TokenTTL:    cfg.Public.TokenTTL,
				MaxAttempts: cfg.Public.OTPMaxAttempts,
			}, log),
	}

	handler := httphandler.NewHandler(services, log)
	health := func(ctx context.Context) error {
		if err := db.HealthCheck(ctx, database); err != nil {
			return fmt.Errorf("database: %w", err)
		}
		return nil
	}
	router := httphandler.NewRouter(handler, middleware.Auth(tokenParser), health, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info().Str("addr", addr).Msg("starting noise sentinel")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

// buildNotifier publishes to NATS when a URL is configured and falls back to logging.
func buildNotifier(cfg *config.Config, log zerolog.Logger) (service.Notifier, func()) {
	if cfg.NATS.URL == "" {
		return notify.NewLogNotifier(log), func() {}
	}
	conn, err := notify.Connect(cfg.NATS.URL)
	if err != nil {
		log.Warn().Err(err).Msg("nats unavailable, notifications will only be logged")
		return notify.NewLogNotifier(log), func() {}
	}
	return notify.NewNATSPublisher(conn, cfg.NATS.SubjectPrefix), conn.Close
}
