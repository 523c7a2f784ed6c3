package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gearbase/cmms-server-go/internal/authflow"
	"github.com/gearbase/cmms-server-go/internal/config"
	"github.com/gearbase/cmms-server-go/internal/database"
	"github.com/gearbase/cmms-server-go/internal/handler"
	"github.com/gearbase/cmms-server-go/internal/jobs"
	"github.com/gearbase/cmms-server-go/internal/middleware"
	"github.com/gearbase/cmms-server-go/internal/redis"
	"github.com/gearbase/cmms-server-go/internal/repository"
	"github.com/gearbase/cmms-server-go/internal/service"
	"github.com/gearbase/cmms-server-go/internal/sse"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("APP_ENV") == "production"
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	if cfg.RunMigrations {
		if err := db.ApplyMigrations(); err != nil {
			log.Fatal().Err(err).Msg("failed to apply migrations")
		}
		log.Info().Msg("migrations applied")
	}

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	userRepo := repository.NewUserRepository(db.DB)
	sessionRepo := repository.NewAuthSessionRepository(db.DB)
	profileRepo := repository.NewProfileRepository(db.DB)
	companyRepo := repository.NewCompanyRepository(db.DB)
	licenseRepo := repository.NewLicenseRepository(db.DB)
	licenseTypeRepo := repository.NewLicenseTypeRepository(db.DB)
	notificationRepo := repository.NewNotificationRepository(db.DB)
	equipmentRepo := repository.NewEquipmentRepository(db.DB)
	workOrderRepo := repository.NewWorkOrderRepository(db.DB)
	serviceRequestRepo := repository.NewServiceRequestRepository(db.DB)

	broker := sse.NewBroker(redisClient)
	defer broker.Close()

	profileService := service.NewProfileService(profileRepo, cfg.ProfileRetryAttempts, cfg.ProfileRetryBase())
	companyService := service.NewCompanyService(companyRepo, profileRepo)
	licenseService := service.NewLicenseService(licenseRepo, licenseTypeRepo)
	authService := service.NewAuthService(
		userRepo, sessionRepo, profileService,
		service.AuthConfig{
			TokenSecret:  cfg.SessionSecret,
			ResetBaseURL: cfg.PasswordResetBaseURL,
			SessionTTL:   cfg.SessionTTL(),
			RecoveryTTL:  cfg.RecoverySessionTTL(),
		},
	)
	notificationService := service.NewNotificationService(notificationRepo, broker)
	equipmentService := service.NewEquipmentService(equipmentRepo)
	workOrderService := service.NewWorkOrderService(workOrderRepo, equipmentRepo, notificationService)
	serviceRequestService := service.NewServiceRequestService(serviceRequestRepo, workOrderService)
	dashboardService := service.NewDashboardService(equipmentRepo, workOrderRepo, serviceRequestRepo)

	resolver := authflow.NewResolver(
		profileService, companyService, licenseService, authService, broker, db,
	)

	authMiddleware := middleware.NewAuthMiddleware(sessionRepo, profileRepo, cfg.SessionSecret)
	rateLimitMiddleware := middleware.NewRedisRateLimitMiddleware(redisClient.Client)
	loginLimiter := middleware.NewLoginRateLimiter()
	featureGate := middleware.NewFeatureGate(licenseService)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(isProduction)

	authHandler := handler.NewAuthHandler(authService, resolver)
	profileHandler := handler.NewProfileHandler(profileService)
	companyHandler := handler.NewCompanyHandler(companyService, resolver)
	licenseHandler := handler.NewLicenseHandler(licenseService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	eventsHandler := handler.NewEventsHandler(broker, resolver)
	equipmentHandler := handler.NewEquipmentHandler(equipmentService)
	workOrderHandler := handler.NewWorkOrderHandler(workOrderService)
	serviceRequestHandler := handler.NewServiceRequestHandler(serviceRequestService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)
	r.Use(securityHeadersMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/v1/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(loginLimiter.Handler)
			r.Post("/signup", authHandler.SignUp)
			r.Post("/signin", authHandler.SignIn)
			r.Post("/password/reset", authHandler.RequestPasswordReset)
		})
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RecoveryHandler)
			r.Get("/state", authHandler.State)
			r.Post("/password", authHandler.UpdatePassword)
		})
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Handler)
			r.Post("/signout", authHandler.SignOut)
		})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(authMiddleware.Handler)
		r.Use(rateLimitMiddleware.Handler)

		r.Get("/events", eventsHandler.ServeHTTP)
		r.Mount("/profile", profileHandler.Routes())
		r.Mount("/companies", companyHandler.Routes())
		r.Mount("/licenses", licenseHandler.Routes())
		r.Mount("/notifications", notificationHandler.Routes())

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireCompany)
			r.Mount("/dashboard", dashboardHandler.Routes())
			r.With(featureGate.Require("equipment_management")).
				Mount("/equipments", equipmentHandler.Routes())
			r.With(featureGate.Require("work_orders_management")).
				Mount("/work-orders", workOrderHandler.Routes())
			r.With(featureGate.Require("service_requests_management")).
				Mount("/service-requests", serviceRequestHandler.Routes())
		})
	})

	cleanupJob := jobs.NewCleanupJob(
		sessionRepo, licenseRepo, notificationRepo, config.CleanupJobInterval,
	)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
