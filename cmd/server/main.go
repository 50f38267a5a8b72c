package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/vanshika/citynav/internal/config"
	"github.com/vanshika/citynav/internal/graph"
	"github.com/vanshika/citynav/internal/logging"
	"github.com/vanshika/citynav/internal/mapdata"
	"github.com/vanshika/citynav/internal/repository"
	"github.com/vanshika/citynav/internal/server"
	"github.com/vanshika/citynav/internal/service"
)

func main() {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	graphClient, err := buildGraphClient(ctx, cfg)
	if err != nil && !errors.Is(err, graph.ErrMissingURI) {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if graphClient != nil {
			if err := graphClient.Close(context.Background()); err != nil {
				logger.Warn("closing graph client failed", "error", err)
			}
		}
	}()

	var source service.MapSource
	if graphClient != nil {
		source = repository.New(graphClient, cfg.Graph.MapName)
		logger.Info("serving map from graph", "uri", cfg.Graph.URI, "map", cfg.Graph.MapName)
	} else {
		source = mapdata.NewFileSource(cfg.Map.File, logger)
		logger.Info("serving map from file", "path", cfg.Map.File)
	}

	navService := service.NewNavigationService(source, service.Options{
		Workers: cfg.Nav.Workers,
		Lazy:    cfg.Nav.LazyTables,
		Seed:    cfg.Nav.Seed,
		Logger:  logger,
	})
	if err := navService.Reload(ctx); err != nil {
		logger.Error("initial map load failed", "error", err)
		os.Exit(1)
	}

	if graphClient == nil && cfg.Map.Watch {
		watcher, err := mapdata.NewWatcher(cfg.Map.File, cfg.Map.WatchDebounce, func(ctx context.Context) {
			if _, err := navService.ReloadIfChanged(ctx); err != nil {
				logger.Error("map reload failed", "error", err)
			}
		}, logger)
		if err != nil {
			logger.Error("failed to watch map file", "error", err)
			os.Exit(1)
		}
		go watcher.Run(ctx)
	}

	apiHandlers := server.NewAPIHandlers(logger, navService)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health: server.CompositeHealth{
			navService,
			server.GraphHealthService{Client: graphClient},
		},
		API:              apiHandlers,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
		MetricsEnabled:   cfg.HTTP.MetricsEnabled,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func buildGraphClient(ctx context.Context, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, graph.ErrMissingURI
	}

	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	return graph.NewNeo4jClient(ctx, opts)
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
