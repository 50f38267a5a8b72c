package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vanshika/citynav/internal/domain"
	"github.com/vanshika/citynav/internal/pathfind"
)

var (
	// ErrNotReady is returned by queries issued before the first successful load.
	ErrNotReady = errors.New("navigation graph not loaded")

	// ErrSelfConnection is returned when connecting a node to itself.
	ErrSelfConnection = errors.New("node cannot connect to itself")
)

// Options tunes how the service builds its path tables.
type Options struct {
	// Workers bounds parallel table computation. Values below 2 build
	// sequentially.
	Workers int
	// Lazy computes tables on first use instead of at load time.
	Lazy bool
	// Seed drives random node selection. Zero seeds from the clock.
	Seed   int64
	Logger *slog.Logger
}

// NavigationService keeps the current navigation snapshot for a world map
// and rebuilds it whenever the map changes.
type NavigationService struct {
	source MapSource
	opts   Options
	logger *slog.Logger
	nowFn  func() time.Time

	current    atomic.Pointer[snapshot]
	reloadMu   sync.Mutex
	generation int64
}

// snapshot is immutable once published.
type snapshot struct {
	world   domain.WorldMap
	graph   *pathfind.Graph
	tables  pathfind.Tables
	nav     *pathfind.Navigator
	builtAt time.Time
}

// NewNavigationService constructs a service over source. Call Reload before
// issuing queries.
func NewNavigationService(source MapSource, opts Options) *NavigationService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	return &NavigationService{
		source: source,
		opts:   opts,
		logger: logger.With("component", "navigation"),
		nowFn:  time.Now,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *NavigationService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// Reload fetches the world map and replaces the snapshot with freshly built
// tables. On failure the previous snapshot keeps serving.
func (s *NavigationService) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	return s.reloadLocked(ctx)
}

// ReloadIfChanged reloads the map and rebuilds the tables only when the
// loaded map differs from the one currently served. It reports whether a
// rebuild happened. File watchers use it so a write made by Connect or
// Disconnect, which already rebuilt, does not trigger a second build.
func (s *NavigationService) ReloadIfChanged(ctx context.Context) (bool, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	world, err := s.loadWorld(ctx)
	if err != nil {
		return false, err
	}
	if snap := s.current.Load(); snap != nil && sameWorld(snap.world, world) {
		s.logger.Debug("map unchanged, keeping tables", "map", world.Name)
		return false, nil
	}
	return true, s.rebuildLocked(ctx, world)
}

func (s *NavigationService) reloadLocked(ctx context.Context) error {
	world, err := s.loadWorld(ctx)
	if err != nil {
		return err
	}
	return s.rebuildLocked(ctx, world)
}

func (s *NavigationService) loadWorld(ctx context.Context) (domain.WorldMap, error) {
	world, err := s.source.LoadWorldMap(ctx)
	if err != nil {
		return domain.WorldMap{}, fmt.Errorf("load world map: %w", err)
	}
	return normalizeWorldMap(world), nil
}

func (s *NavigationService) rebuildLocked(ctx context.Context, world domain.WorldMap) error {
	start := s.nowFn()
	graph := pathfind.BuildGraph(world.Nodes, s.logger)

	var tables pathfind.Tables
	if s.opts.Lazy {
		if graph.Len() == 0 {
			return fmt.Errorf("build navigation tables: %w", pathfind.ErrEmptyGraph)
		}
		tables = pathfind.NewLazyCache(graph)
	} else {
		cache, err := pathfind.BuildAllPathTables(ctx, graph, pathfind.BuildOptions{
			Workers: s.opts.Workers,
			Logger:  s.logger,
		})
		if err != nil {
			return fmt.Errorf("build navigation tables: %w", err)
		}
		tables = cache
	}

	s.generation++
	nav := pathfind.NewNavigator(tables,
		pathfind.WithLogger(s.logger),
		pathfind.WithRand(rand.New(rand.NewSource(s.opts.Seed+s.generation))),
	)

	snap := &snapshot{
		world:   world,
		graph:   graph,
		tables:  tables,
		nav:     nav,
		builtAt: s.nowFn().UTC(),
	}
	s.current.Store(snap)

	report := graph.Report()
	s.logger.Info("navigation graph loaded",
		"map", world.Name,
		"nodes", report.Vertices,
		"edges", report.Edges,
		"skipped_edges", report.SkippedEdges,
		"duplicate_nodes", report.DuplicateNodes,
		"lazy", s.opts.Lazy,
		"duration_ms", s.nowFn().Sub(start).Milliseconds(),
	)
	return nil
}

// Connect links two existing nodes, then rebuilds every table.
func (s *NavigationService) Connect(ctx context.Context, a, b int) error {
	return s.mutate(ctx, a, b, s.source.Connect)
}

// Disconnect removes the link between two nodes, then rebuilds every table.
func (s *NavigationService) Disconnect(ctx context.Context, a, b int) error {
	return s.mutate(ctx, a, b, s.source.Disconnect)
}

func (s *NavigationService) mutate(ctx context.Context, a, b int, apply func(context.Context, int, int) error) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	snap := s.current.Load()
	if snap == nil {
		return ErrNotReady
	}
	for _, id := range []int{a, b} {
		if _, ok := snap.graph.Vertex(id); !ok {
			return fmt.Errorf("%w: node %d", pathfind.ErrUnknownNode, id)
		}
	}
	if a == b {
		return fmt.Errorf("%w: %d", ErrSelfConnection, a)
	}
	if err := apply(ctx, a, b); err != nil {
		return fmt.Errorf("update connection %d-%d: %w", a, b, err)
	}
	return s.reloadLocked(ctx)
}

// Path returns the edges of the shortest path from source to dest.
func (s *NavigationService) Path(source, dest int, reverse bool) ([]domain.Edge, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.nav.ReconstructPath(source, dest, reverse)
}

// PathNodes returns the node identifiers along the shortest path.
func (s *NavigationService) PathNodes(source, dest int) ([]int, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.nav.PathNodes(source, dest)
}

// Distance returns the hop count between two nodes.
func (s *NavigationService) Distance(source, dest int) (int, error) {
	snap, err := s.snapshot()
	if err != nil {
		return domain.Unreachable, err
	}
	return snap.nav.GetDistance(source, dest)
}

// RandomNodeAtDistance picks a node exactly distance hops from source.
func (s *NavigationService) RandomNodeAtDistance(source, distance int) (int, error) {
	snap, err := s.snapshot()
	if err != nil {
		return -1, err
	}
	return snap.nav.FindNodeAtDistance(source, distance)
}

// Node returns a single node of the loaded map.
func (s *NavigationService) Node(id int) (domain.MapNode, error) {
	snap, err := s.snapshot()
	if err != nil {
		return domain.MapNode{}, err
	}
	n, ok := snap.world.Node(id)
	if !ok {
		return domain.MapNode{}, fmt.Errorf("%w: node %d", pathfind.ErrUnknownNode, id)
	}
	return n, nil
}

// ListNodes returns a page of nodes whose names contain params.Search.
func (s *NavigationService) ListNodes(params ListNodesParams) (NodesPage, error) {
	snap, err := s.snapshot()
	if err != nil {
		return NodesPage{}, err
	}
	page, pageSize := normalizePagination(params.Page, params.PageSize)
	search := strings.ToLower(sanitizeString(params.Search))

	var matched []domain.MapNode
	for _, n := range snap.world.Nodes {
		if matchesSearch(n, search) {
			matched = append(matched, n)
		}
	}

	offset := (page - 1) * pageSize
	items := []domain.MapNode{}
	if offset < len(matched) {
		end := min(offset+pageSize, len(matched))
		items = matched[offset:end]
	}
	return NodesPage{
		Items:      items,
		Pagination: buildPaginationMeta(page, pageSize, int64(len(matched))),
	}, nil
}

// Stats summarises the loaded graph.
func (s *NavigationService) Stats() (domain.GraphStats, error) {
	snap, err := s.snapshot()
	if err != nil {
		return domain.GraphStats{}, err
	}
	report := snap.graph.Report()
	return domain.GraphStats{
		Nodes:          report.Vertices,
		Edges:          report.Edges,
		Tables:         snap.tables.Len(),
		SkippedEdges:   report.SkippedEdges,
		DuplicateNodes: report.DuplicateNodes,
	}, nil
}

// LoadedAt returns when the current snapshot was built.
func (s *NavigationService) LoadedAt() (time.Time, bool) {
	snap := s.current.Load()
	if snap == nil {
		return time.Time{}, false
	}
	return snap.builtAt, true
}

// Probe reports whether the service has a snapshot to serve.
func (s *NavigationService) Probe(context.Context) error {
	if s.current.Load() == nil {
		return ErrNotReady
	}
	return nil
}

func (s *NavigationService) snapshot() (*snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	return snap, nil
}

func normalizePagination(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	if pageSize > 200 {
		pageSize = 200
	}
	return page, pageSize
}

func buildPaginationMeta(page, pageSize int, total int64) PaginationMeta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(pageSize)))
		if total > 0 && totalPages == 0 {
			totalPages = 1
		}
	}
	return PaginationMeta{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
