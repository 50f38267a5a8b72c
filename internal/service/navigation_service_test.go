package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/vanshika/citynav/internal/domain"
	"github.com/vanshika/citynav/internal/pathfind"
)

type stubSource struct {
	mu      sync.Mutex
	world   domain.WorldMap
	loadErr error
	loads   int
}

func (s *stubSource) LoadWorldMap(ctx context.Context) (domain.WorldMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.loadErr != nil {
		return domain.WorldMap{}, s.loadErr
	}
	return s.world.Clone(), nil
}

func (s *stubSource) Connect(ctx context.Context, a, b int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.world.Connect(a, b)
	return nil
}

func (s *stubSource) Disconnect(ctx context.Context, a, b int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.world.Disconnect(a, b)
	return nil
}

func lineWorld(n int) domain.WorldMap {
	m := domain.WorldMap{Name: "line"}
	for i := 0; i < n; i++ {
		m.Nodes = append(m.Nodes, domain.MapNode{ID: i, Name: fmt.Sprintf("Street %d", i)})
	}
	for i := 0; i+1 < n; i++ {
		m.Connect(i, i+1)
	}
	return m
}

func newTestService(t *testing.T, src MapSource, opts Options) *NavigationService {
	t.Helper()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.Seed == 0 {
		opts.Seed = 1
	}
	svc := NewNavigationService(src, opts)
	if err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	return svc
}

func TestNavigationService_NotReady(t *testing.T) {
	svc := NewNavigationService(&stubSource{}, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	if _, err := svc.Distance(0, 1); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if err := svc.Probe(context.Background()); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected probe to fail before load, got %v", err)
	}
	if err := svc.Connect(context.Background(), 0, 1); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady from Connect, got %v", err)
	}
}

func TestNavigationService_LineQueries(t *testing.T) {
	svc := newTestService(t, &stubSource{world: lineWorld(5)}, Options{})

	dist, err := svc.Distance(0, 4)
	if err != nil {
		t.Fatalf("distance: %v", err)
	}
	if dist != 4 {
		t.Fatalf("expected distance 4, got %d", dist)
	}

	edges, err := svc.Path(0, 4, false)
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	want := []domain.Edge{{From: 0, To: 1}, {From: 1, To: 2}, {From: 2, To: 3}, {From: 3, To: 4}}
	if len(edges) != len(want) {
		t.Fatalf("expected %d edges, got %d", len(want), len(edges))
	}
	for i := range want {
		if edges[i] != want[i] {
			t.Fatalf("edge %d: want %+v got %+v", i, want[i], edges[i])
		}
	}

	node, err := svc.RandomNodeAtDistance(2, 2)
	if err != nil {
		t.Fatalf("random node: %v", err)
	}
	if node != 0 && node != 4 {
		t.Fatalf("expected node 0 or 4, got %d", node)
	}

	if err := svc.Probe(context.Background()); err != nil {
		t.Fatalf("expected probe to pass, got %v", err)
	}
}

func TestNavigationService_IsolatedNodeUnreachable(t *testing.T) {
	world := lineWorld(3)
	world.Nodes = append(world.Nodes, domain.MapNode{ID: 9, Name: "Lighthouse"})
	svc := newTestService(t, &stubSource{world: world}, Options{})

	dist, err := svc.Distance(0, 9)
	if !errors.Is(err, pathfind.ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
	if dist != domain.Unreachable {
		t.Fatalf("expected sentinel distance, got %d", dist)
	}
}

func TestNavigationService_ConnectRebuildsTables(t *testing.T) {
	src := &stubSource{world: lineWorld(5)}
	svc := newTestService(t, src, Options{Workers: 3})
	ctx := context.Background()

	if err := svc.Connect(ctx, 0, 4); err != nil {
		t.Fatalf("connect: %v", err)
	}
	dist, err := svc.Distance(0, 4)
	if err != nil {
		t.Fatalf("distance: %v", err)
	}
	if dist != 1 {
		t.Fatalf("expected distance 1 after new connection, got %d", dist)
	}
	if dist, _ := svc.Distance(4, 0); dist != 1 {
		t.Fatalf("expected symmetric distance 1, got %d", dist)
	}

	if err := svc.Disconnect(ctx, 0, 4); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if dist, _ := svc.Distance(0, 4); dist != 4 {
		t.Fatalf("expected distance 4 after removal, got %d", dist)
	}
	if src.loads != 3 {
		t.Fatalf("expected 3 loads, got %d", src.loads)
	}
}

func TestNavigationService_ReloadIfChangedSkipsSameMap(t *testing.T) {
	src := &stubSource{world: lineWorld(5)}
	svc := newTestService(t, src, Options{})
	ctx := context.Background()

	if err := svc.Connect(ctx, 0, 4); err != nil {
		t.Fatalf("connect: %v", err)
	}
	generation := svc.generation

	rebuilt, err := svc.ReloadIfChanged(ctx)
	if err != nil {
		t.Fatalf("reload if changed: %v", err)
	}
	if rebuilt || svc.generation != generation {
		t.Fatalf("expected tables kept after connect already rebuilt, rebuilt=%v generation=%d", rebuilt, svc.generation)
	}
	if src.loads != 3 {
		t.Fatalf("expected the map to be loaded for comparison, got %d loads", src.loads)
	}

	src.mu.Lock()
	src.world.Disconnect(0, 4)
	src.mu.Unlock()
	rebuilt, err = svc.ReloadIfChanged(ctx)
	if err != nil || !rebuilt {
		t.Fatalf("expected rebuild after external edit, rebuilt=%v err=%v", rebuilt, err)
	}
	if dist, _ := svc.Distance(0, 4); dist != 4 {
		t.Fatalf("expected distance 4 after external edit, got %d", dist)
	}
}

func TestNavigationService_ReloadIfChangedBeforeFirstLoad(t *testing.T) {
	svc := NewNavigationService(&stubSource{world: lineWorld(2)}, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	rebuilt, err := svc.ReloadIfChanged(context.Background())
	if err != nil || !rebuilt {
		t.Fatalf("expected first load to build, rebuilt=%v err=%v", rebuilt, err)
	}
	if dist, err := svc.Distance(0, 1); err != nil || dist != 1 {
		t.Fatalf("expected distance 1, got %d (%v)", dist, err)
	}
}

func TestSameWorldTreatsNilAndEmptyNeighborsAlike(t *testing.T) {
	a := domain.WorldMap{Name: "m", Nodes: []domain.MapNode{{ID: 1, Name: "A"}}}
	b := domain.WorldMap{Name: "m", Nodes: []domain.MapNode{{ID: 1, Name: "A", Neighbors: []int{}}}}
	if !sameWorld(a, b) {
		t.Fatal("expected nil and empty neighbor lists to compare equal")
	}
	b.Nodes[0].Name = "B"
	if sameWorld(a, b) {
		t.Fatal("expected renamed node to differ")
	}
}

func TestNavigationService_ConnectRejectsBadNodes(t *testing.T) {
	svc := newTestService(t, &stubSource{world: lineWorld(3)}, Options{})
	ctx := context.Background()

	if err := svc.Connect(ctx, 0, 42); !errors.Is(err, pathfind.ErrUnknownNode) {
		t.Fatalf("expected ErrUnknownNode, got %v", err)
	}
	if err := svc.Connect(ctx, 1, 1); !errors.Is(err, ErrSelfConnection) {
		t.Fatalf("expected ErrSelfConnection, got %v", err)
	}
}

func TestNavigationService_FailedReloadKeepsSnapshot(t *testing.T) {
	src := &stubSource{world: lineWorld(4)}
	svc := newTestService(t, src, Options{})

	src.loadErr = errors.New("map store offline")
	if err := svc.Reload(context.Background()); err == nil {
		t.Fatal("expected reload error")
	}
	if dist, err := svc.Distance(0, 3); err != nil || dist != 3 {
		t.Fatalf("expected previous snapshot to answer 3, got %d (%v)", dist, err)
	}

	src.loadErr = nil
	src.world = domain.WorldMap{}
	if err := svc.Reload(context.Background()); !errors.Is(err, pathfind.ErrEmptyGraph) {
		t.Fatalf("expected ErrEmptyGraph, got %v", err)
	}
}

func TestNavigationService_LazyTables(t *testing.T) {
	svc := newTestService(t, &stubSource{world: lineWorld(6)}, Options{Lazy: true})

	stats, err := svc.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Tables != 0 {
		t.Fatalf("expected no tables before first query, got %d", stats.Tables)
	}
	if dist, err := svc.Distance(5, 0); err != nil || dist != 5 {
		t.Fatalf("expected distance 5, got %d (%v)", dist, err)
	}
	stats, _ = svc.Stats()
	if stats.Tables != 1 {
		t.Fatalf("expected one table after query, got %d", stats.Tables)
	}
}

func TestNavigationService_NormalizesMap(t *testing.T) {
	world := domain.WorldMap{Nodes: []domain.MapNode{
		{ID: 0, Name: "  Old   Town ", Neighbors: []int{1, 1}},
		{ID: 1, Name: "Harbour", Neighbors: []int{0}},
	}}
	svc := newTestService(t, &stubSource{world: world}, Options{})

	node, err := svc.Node(0)
	if err != nil {
		t.Fatalf("node: %v", err)
	}
	if node.Name != "Old Town" {
		t.Fatalf("expected sanitized name, got %q", node.Name)
	}
	if len(node.Neighbors) != 1 {
		t.Fatalf("expected duplicate neighbor collapsed, got %v", node.Neighbors)
	}
	if _, err := svc.Node(7); !errors.Is(err, pathfind.ErrUnknownNode) {
		t.Fatalf("expected ErrUnknownNode, got %v", err)
	}
}

func TestNavigationService_ListNodes(t *testing.T) {
	svc := newTestService(t, &stubSource{world: lineWorld(12)}, Options{})

	page, err := svc.ListNodes(ListNodesParams{Page: 2, PageSize: 5})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 5 || page.Items[0].ID != 5 {
		t.Fatalf("unexpected page items: %+v", page.Items)
	}
	if page.Pagination.TotalItems != 12 || page.Pagination.TotalPages != 3 {
		t.Fatalf("unexpected pagination: %+v", page.Pagination)
	}

	filtered, _ := svc.ListNodes(ListNodesParams{Search: "street 1"})
	// Street 1, Street 10, Street 11
	if len(filtered.Items) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(filtered.Items))
	}

	empty, _ := svc.ListNodes(ListNodesParams{Page: 9})
	if len(empty.Items) != 0 {
		t.Fatalf("expected empty page, got %d items", len(empty.Items))
	}
}

func TestNavigationService_LoadedAtUsesClock(t *testing.T) {
	now := time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC)
	src := &stubSource{world: lineWorld(2)}
	svc := NewNavigationService(src, Options{Seed: 1, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	svc.WithClock(func() time.Time { return now })

	if _, ok := svc.LoadedAt(); ok {
		t.Fatal("expected no load time before reload")
	}
	if err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	loaded, ok := svc.LoadedAt()
	if !ok || !loaded.Equal(now) {
		t.Fatalf("expected load time %v, got %v", now, loaded)
	}
}
