package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sre-norns/catalog/pkg/access"
	"github.com/sre-norns/catalog/pkg/bark"
	"github.com/sre-norns/catalog/pkg/catalog"
	"github.com/sre-norns/catalog/pkg/dbstore"
	"github.com/sre-norns/catalog/pkg/grace"
	"github.com/sre-norns/catalog/pkg/redqueue"
)

const shutdownTimeout = 10 * time.Second

func newAuthenticator(config *ServerConfig, db *gorm.DB) (bark.Authenticator, error) {
	verifier, err := access.NewTokenVerifier([]byte(config.JWTSecret), config.JWTIssuer)
	if err != nil {
		return nil, err
	}

	resolver := access.NewRoleResolver(config.AdminEmails, dbstore.NewUserStore(db))
	return access.NewTokenAuthenticator(verifier, resolver), nil
}

func newService(ctx context.Context, config *ServerConfig, db *gorm.DB, logger log.Logger) (catalog.Service, func() error, error) {
	stores, err := dbstore.NewStores(db)
	if err != nil {
		return nil, nil, err
	}

	options := []catalog.ResourceOption{
		catalog.WithLogger(logger),
	}

	closer := func() error { return nil }
	if config.RedisAddress != "" {
		// Writes do not depend on the queue, an unreachable redis only loses events
		if err := redqueue.Ping(ctx, config.RedisAddress); err != nil {
			level.Warn(logger).Log("msg", "change events may be lost", "err", err)
		}

		notifier := redqueue.NewNotifier(config.RedisAddress, log.With(logger, "component", "notifier"))
		options = append(options, catalog.WithNotifier(notifier))
		closer = notifier.Close
	}

	return catalog.NewService(stores, options...), closer, nil
}

func run(ctx context.Context, config *ServerConfig, logger log.Logger) error {
	db, err := dbstore.Open(config.DatabaseURL, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return err
	}

	if config.AutoMigrate {
		if err := dbstore.AutoMigrate(db); err != nil {
			return err
		}
	}

	srv, closeNotifier, err := newService(ctx, config, db, logger)
	if err != nil {
		return err
	}
	defer closeNotifier()

	auth, err := newAuthenticator(config, db)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	gin.SetMode(config.GinMode)
	router, err := bark.ApiRoutes(srv, auth, bark.RouterOptions{
		Logger:            log.With(logger, "component", "api"),
		Registry:          registry,
		EnableOpenMetrics: config.OpenMetrics,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              config.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			level.Warn(logger).Log("msg", "shutdown did not complete", "err", err)
		}
	}()

	level.Info(logger).Log("msg", "starting API server", "config", config.String())
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}

func main() {
	// Optional, configuration may come from the environment or flags alone
	_ = godotenv.Load()

	var config ServerConfig
	kong.Parse(&config,
		kong.Name("api-server"),
		kong.Description("Catalog API server: role protected games, groceries, songs and hotels"),
	)

	logger := config.NewLogger()
	grace.ExitOrLog(logger, run(grace.SetupSignalHandler(), &config, logger))
}
