package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vanshika/citynav/internal/config"
	"github.com/vanshika/citynav/internal/graph"
	"github.com/vanshika/citynav/internal/logging"
	"github.com/vanshika/citynav/internal/mapdata"
	"github.com/vanshika/citynav/internal/repository"
	"github.com/vanshika/citynav/internal/service"
)

func main() {
	var (
		mapPath = flag.String("map", "", "Path to the map file (defaults to MAP_FILE)")
		mapName = flag.String("name", "", "Map name in the graph (defaults to GRAPH_MAP_NAME)")
		workers = flag.Int("workers", 4, "Number of concurrent workers for ingestion")
		replace = flag.Bool("replace", false, "Delete the stored map before ingesting")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "ingest")

	path := *mapPath
	if path == "" {
		path = cfg.Map.File
	}
	world, err := mapdata.Load(path)
	if err != nil {
		logger.Error("failed to load map", "error", err, "path", path)
		os.Exit(1)
	}
	if len(world.Nodes) == 0 {
		logger.Error("map has no nodes", "path", path)
		os.Exit(1)
	}

	name := *mapName
	if name == "" {
		name = cfg.Graph.MapName
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	graphClient, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	repo := repository.New(graphClient, name)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("schema setup failed", "error", err)
		os.Exit(1)
	}
	if *replace {
		if err := repo.Clear(ctx); err != nil {
			logger.Error("failed to clear stored map", "error", err, "map", name)
			os.Exit(1)
		}
	}

	ingestor := service.NewBulkIngestor(repo, *workers)

	start := time.Now()
	logger.Info("ingesting nodes", "count", len(world.Nodes), "workers", *workers, "map", name)
	if err := ingestor.IngestNodes(ctx, world.Nodes); err != nil {
		logger.Error("node ingestion failed", "error", err)
		os.Exit(1)
	}

	conns := world.Connections()
	logger.Info("ingesting connections", "count", len(conns))
	if err := ingestor.IngestConnections(ctx, conns); err != nil {
		if !reportDangling(logger, err) {
			logger.Error("connection ingestion failed", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("ingestion complete", "duration", time.Since(start).String(), "nodes", len(world.Nodes), "connections", len(conns))
}

// reportDangling logs connections that name nodes absent from the map. It
// reports whether every failure was of that kind.
func reportDangling(logger *slog.Logger, err error) bool {
	var taskErr *service.TaskError
	if !errors.As(err, &taskErr) {
		return false
	}
	for _, e := range taskErr.Errors {
		if !errors.Is(e, repository.ErrNodeNotFound) {
			return false
		}
	}
	logger.Warn("dangling connections skipped", "count", len(taskErr.Errors), "first", taskErr.Errors[0].Error())
	return true
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, fmt.Errorf("GRAPH_URI is required for ingestion")
	}
	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	client, err := graph.NewNeo4jClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, nil
}
