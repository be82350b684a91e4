package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medicore/clinic-api/internal/config"
	"github.com/medicore/clinic-api/internal/email"
	adminHandler "github.com/medicore/clinic-api/internal/handler/admin"
	appointmentHandler "github.com/medicore/clinic-api/internal/handler/appointment"
	authHandler "github.com/medicore/clinic-api/internal/handler/auth"
	doctorHandler "github.com/medicore/clinic-api/internal/handler/doctor"
	healthHandler "github.com/medicore/clinic-api/internal/handler/health"
	patientHandler "github.com/medicore/clinic-api/internal/handler/patient"
	"github.com/medicore/clinic-api/internal/middleware"
	"github.com/medicore/clinic-api/internal/repository/postgres"
	"github.com/medicore/clinic-api/internal/router"
	appointmentService "github.com/medicore/clinic-api/internal/service/appointment"
	authService "github.com/medicore/clinic-api/internal/service/auth"
	doctorService "github.com/medicore/clinic-api/internal/service/doctor"
	medicalrecordService "github.com/medicore/clinic-api/internal/service/medicalrecord"
	notificationService "github.com/medicore/clinic-api/internal/service/notification"
	reportService "github.com/medicore/clinic-api/internal/service/report"
	"github.com/medicore/clinic-api/pkg/auth"
	"github.com/medicore/clinic-api/pkg/logger"
	"github.com/medicore/clinic-api/pkg/messaging"
	messagingRedis "github.com/medicore/clinic-api/pkg/messaging/redis"
	"github.com/medicore/clinic-api/pkg/metrics"
	"github.com/medicore/clinic-api/pkg/security"
)

const version = "1.0.0"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Setup(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		Output: os.Stderr,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// The broker is optional: without it notifications still hit the
	// database and SMTP, they just aren't fanned out.
	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = messagingRedis.NewRedisBroker(cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, notification fan-out disabled")
			broker = nil
		}
	}

	appMetrics := metrics.NewMetrics("clinic_api")

	base := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(base)
	patientRepo := postgres.NewPatientRepository(base)
	doctorRepo := postgres.NewDoctorRepository(base)
	appointmentRepo := postgres.NewAppointmentRepository(base)
	recordRepo := postgres.NewMedicalRecordRepository(base)
	notificationRepo := postgres.NewNotificationRepository(base)
	reportRepo := postgres.NewReportRepository(base)

	hasher := security.NewBcryptHasher(security.DefaultCost)
	tokens := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	emailSvc := email.NewSMTPService(cfg.Email)

	notifier := notificationService.NewService(notificationRepo, emailSvc, broker, appMetrics)
	authSvc := authService.NewService(userRepo, patientRepo, doctorRepo, hasher, tokens)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, doctorRepo, userRepo, notifier)
	recordSvc := medicalrecordService.NewService(recordRepo, appointmentRepo, doctorRepo, patientRepo)
	doctorSvc := doctorService.NewService(doctorRepo)
	reportSvc := reportService.NewService(reportRepo, appointmentRepo, userRepo)

	authMW := middleware.NewAuthMiddleware(tokens)

	engine := router.New(router.Handlers{
		Auth:        authHandler.NewHandler(authSvc),
		Appointment: appointmentHandler.NewHandler(appointmentSvc),
		Doctor:      doctorHandler.NewHandler(doctorSvc, appointmentSvc, recordSvc),
		Patient:     patientHandler.NewHandler(recordSvc, authSvc),
		Admin:       adminHandler.NewHandler(reportSvc),
		Health:      healthHandler.NewHandler(db, version),
	}, authMW, router.Config{
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimit: middleware.RateLimiterConfig{
			RPS:   cfg.RateLimit.RequestsPerSecond,
			Burst: cfg.RateLimit.Burst,
		},
		CORS:    middleware.DefaultCORSConfig(),
		Metrics: appMetrics,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}

	if broker != nil {
		if err := broker.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close message broker")
		}
	}

	log.Info().Msg("server stopped")
}
