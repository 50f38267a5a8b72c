package pathfind

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Tables resolves the path table for a source node. Cache precomputes
// every table up front; LazyCache computes them on first use.
type Tables interface {
	Graph() *Graph
	Table(source int) (*PathTable, error)
	Len() int
}

// BuildOptions tunes BuildAllPathTables.
type BuildOptions struct {
	// Workers bounds how many sources are computed at once. Values below 2
	// build sequentially.
	Workers int
	Logger  *slog.Logger
}

// Cache maps each source node identifier to its precomputed PathTable.
type Cache struct {
	graph  *Graph
	tables map[int]*PathTable
	built  time.Time
}

// BuildAllPathTables runs the engine once per node of g and stores the
// resulting tables. A duplicate source key is logged and skipped, never
// overwritten. Cancelling ctx aborts the build.
func BuildAllPathTables(ctx context.Context, g *Graph, opts BuildOptions) (*Cache, error) {
	if g == nil || g.Len() == 0 {
		return nil, ErrEmptyGraph
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	sources := g.IDs()
	results := make([]*PathTable, len(sources))

	compute := func(i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := ShortestPaths(g, sources[i])
		if err != nil {
			return err
		}
		results[i] = newPathTable(g, res)
		return nil
	}

	if opts.Workers < 2 {
		for i := range sources {
			if err := compute(i); err != nil {
				tableBuildsTotal.WithLabelValues("error").Inc()
				return nil, fmt.Errorf("build path tables: %w", err)
			}
		}
	} else {
		eg, egCtx := errgroup.WithContext(ctx)
		eg.SetLimit(opts.Workers)
		ctx = egCtx
		for i := range sources {
			eg.Go(func() error { return compute(i) })
		}
		if err := eg.Wait(); err != nil {
			tableBuildsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("build path tables: %w", err)
		}
	}

	c := &Cache{graph: g, tables: make(map[int]*PathTable, len(sources)), built: time.Now()}
	for _, t := range results {
		if _, exists := c.tables[t.Source()]; exists {
			logger.Warn("duplicate path table skipped", "source", t.Source())
			continue
		}
		c.tables[t.Source()] = t
	}

	elapsed := time.Since(start)
	tableBuildsTotal.WithLabelValues("ok").Inc()
	tableBuildDuration.Observe(elapsed.Seconds())
	logger.Debug("path tables built",
		"tables", len(c.tables),
		"workers", opts.Workers,
		"duration_ms", elapsed.Milliseconds(),
	)
	return c, nil
}

// Graph returns the graph the tables were computed over.
func (c *Cache) Graph() *Graph { return c.graph }

// Table returns the table rooted at source.
func (c *Cache) Table(source int) (*PathTable, error) {
	t, ok := c.tables[source]
	if !ok {
		return nil, fmt.Errorf("%w: source %d", ErrUnknownNode, source)
	}
	return t, nil
}

// Len returns the number of cached tables.
func (c *Cache) Len() int { return len(c.tables) }

// BuiltAt returns when the cache finished building.
func (c *Cache) BuiltAt() time.Time { return c.built }

// LazyCache computes a source's table on first request and memoizes it.
type LazyCache struct {
	graph *Graph

	mu     sync.Mutex
	tables map[int]*PathTable
}

// NewLazyCache returns an empty LazyCache over g.
func NewLazyCache(g *Graph) *LazyCache {
	return &LazyCache{graph: g, tables: make(map[int]*PathTable)}
}

// Graph returns the underlying graph.
func (c *LazyCache) Graph() *Graph { return c.graph }

// Table returns the memoized table for source, computing it if needed.
func (c *LazyCache) Table(source int) (*PathTable, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.tables[source]; ok {
		return t, nil
	}
	res, err := ShortestPaths(c.graph, source)
	if err != nil {
		return nil, err
	}
	t := newPathTable(c.graph, res)
	c.tables[source] = t
	return t, nil
}

// Len returns the number of tables computed so far.
func (c *LazyCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tables)
}
