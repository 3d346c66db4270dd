// @title Carbon Footprint Portal API
// @version 1.0
// @description CO2 savings reporting and two-step login for the Unilink carbon portal
// @contact.name Unilink IT
// @contact.email it@unilinktransportation.com
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name auth_session

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

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	_ "github.com/ithomeportal/unilink-energy/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ithomeportal/unilink-energy/config"
	"github.com/ithomeportal/unilink-energy/internal/database"
	"github.com/ithomeportal/unilink-energy/internal/handlers"
	"github.com/ithomeportal/unilink-energy/internal/logging"
	"github.com/ithomeportal/unilink-energy/internal/middleware"
	"github.com/ithomeportal/unilink-energy/internal/repository"
	"github.com/ithomeportal/unilink-energy/internal/repository/postgres"
	"github.com/ithomeportal/unilink-energy/internal/services"
	"github.com/ithomeportal/unilink-energy/internal/utils"
)

// stores is the pair of repositories the selected driver provides.
type stores struct {
	attempts  repository.AttemptRepository
	shipments repository.ShipmentRepository
	close     func()
}

func main() {
	// `server hash-password <secret>` prints a SITE_PASSWORD_HASH value.
	if len(os.Args) == 3 && os.Args[1] == "hash-password" {
		hash, err := utils.HashPassword(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, "hash password:", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	cfg := config.Load()
	logger := logging.Init(cfg.LogLevel, !cfg.IsProduction())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.SitePassword == "" && cfg.SitePasswordHash == "" {
		logger.Warn().Msg("no SITE_PASSWORD or SITE_PASSWORD_HASH set; every login will be rejected")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open store")
	}
	defer st.close()

	mailer, err := services.NewMailer(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("provider", cfg.MailProvider).Msg("failed to configure mailer")
	}

	// Initialize services
	notifier := services.NewBestEffort(logging.Component("notify"), cfg.MailTimeout+cfg.QueryTimeout)
	authService := services.NewAuthService(services.AuthOptions{
		Attempts: st.attempts,
		Mailer:   mailer,
		Notifier: notifier,
		SitePassword: utils.SitePassword{
			Plain: cfg.SitePassword,
			Hash:  cfg.SitePasswordHash,
		},
		JWTSecret:       cfg.JWTSecret,
		SessionDuration: cfg.SessionDuration,
		CodeTTL:         cfg.CodeTTL,
		MaxAttempts:     cfg.MaxCodeAttempts,
		Logger:          logging.Component("auth"),
	})
	emissionsService := services.NewEmissionsService(
		st.shipments,
		services.DemoDataset{},
		cfg.PolicyStartDate,
		cfg.QueryTimeout,
		logging.Component("emissions"),
	)
	emissionsCache := services.NewEmissionsCache(cfg.CacheTTL, emissionsService.Compute)

	sweeperDone := services.StartAttemptSweeper(ctx, cfg.SweepInterval, cfg.SweepGrace, st.attempts, logging.Component("sweeper"))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg, authService, logging.Component("auth"))
	emissionsHandler := handlers.NewEmissionsHandler(emissionsCache)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logging.Component("http")))
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.SessionGate(cfg))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.Health(cfg.StoreDriver))

		auth := api.Group("/auth")
		{
			auth.POST("/initiate", authHandler.Initiate)
			auth.POST("/verify", authHandler.Verify)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/session", authHandler.Session)
		}

		emissions := api.Group("/emissions")
		{
			emissions.GET("", emissionsHandler.GetEmissions)
			emissions.POST("/refresh", emissionsHandler.Refresh)
			emissions.GET("/states", emissionsHandler.SearchStates)
		}
	}

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Str("mail", cfg.MailProvider).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	<-sweeperDone
	notifier.Wait()
	logger.Info().Msg("server stopped")
}

func openStores(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres store driver")
		}
		db, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		applied, err := db.Migrate(ctx)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info().Int("applied", applied).Msg("connected to PostgreSQL")
		return &stores{
			attempts:  postgres.NewAttemptRepository(db),
			shipments: postgres.NewShipmentRepository(db),
			close:     db.Close,
		}, nil

	case "mongo":
		mongodb, err := database.NewMongoDB(cfg.MongoDBURI, cfg.MongoDBDatabase, logger)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		attempts := repository.NewAttemptRepository(mongodb.Database)
		if err := attempts.EnsureIndexes(ctx); err != nil {
			logger.Warn().Err(err).Msg("could not ensure login_audit_logs indexes")
		}
		return &stores{
			attempts:  attempts,
			shipments: repository.NewShipmentRepository(mongodb.Database),
			close: func() {
				if err := mongodb.Disconnect(); err != nil {
					logger.Error().Err(err).Msg("mongo disconnect failed")
				}
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
