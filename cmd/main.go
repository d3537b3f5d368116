package main

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/platform-engineering/copilot-usage-dashboard/internal/api"
	"github.com/platform-engineering/copilot-usage-dashboard/internal/config"
	"github.com/platform-engineering/copilot-usage-dashboard/internal/github"
	"github.com/platform-engineering/copilot-usage-dashboard/internal/service"
	"github.com/platform-engineering/copilot-usage-dashboard/internal/store"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(conf.LogDebug)
	defer logger.Sync()

	logger.Info("starting copilot-usage-dashboard",
		zap.String("storage", string(conf.Storage.Type)),
		zap.String("scope", string(conf.Github.Scope)),
	)

	stores, err := buildStores(conf, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage backends", zap.Error(err))
	}
	defer func() {
		for _, st := range stores {
			if err := st.Close(); err != nil {
				logger.Warn("closing store", zap.String("store", st.Name()), zap.Error(err))
			}
		}
	}()

	client := github.NewClient(conf.Github.BaseURL, conf.Github.Token, conf.Github.Version, logger)
	svc := service.New(conf, client, stores, logger)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(pprof.New())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api.NewHandler(svc, conf, logger).Register(app)

	if err := app.Listen(conf.ListenAddr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(debug bool) *zap.Logger {
	var logger *zap.Logger
	var err error
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return logger
}

// buildStores assembles the backend tiers in fallback order from the
// configured storage mode. The GitHub API is always the terminal tier and
// is not part of this list.
func buildStores(conf *config.Config, logger *zap.Logger) ([]store.Store, error) {
	switch conf.Storage.Type {
	case config.StorageCosmos:
		cosmos, err := store.NewCosmosStore(conf.Cosmos.Endpoint, conf.Cosmos.Key, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("document store configured", zap.String("endpoint", conf.Cosmos.Endpoint))
		return []store.Store{cosmos}, nil
	case config.StorageSQLite:
		logger.Info("relational cache configured", zap.String("path", conf.Storage.SQLitePath))
		return []store.Store{store.NewSQLiteStore(conf.Storage.SQLitePath, logger)}, nil
	default:
		return nil, nil
	}
}
