package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/vanshika/citynav/internal/domain"
)

type recordingStore struct {
	mu          sync.Mutex
	nodes       map[int]domain.MapNode
	connections []domain.Connection
	failNode    int
}

func newRecordingStore() *recordingStore {
	return &recordingStore{nodes: make(map[int]domain.MapNode), failNode: -1}
}

func (r *recordingStore) UpsertNode(ctx context.Context, node domain.MapNode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if node.ID == r.failNode {
		return errors.New("write rejected")
	}
	r.nodes[node.ID] = node
	return nil
}

func (r *recordingStore) Connect(ctx context.Context, a, b int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.nodes[a]; !ok {
		return errors.New("connect before node exists")
	}
	r.connections = append(r.connections, domain.NewConnection(a, b))
	return nil
}

func TestBulkIngestor_Ingest(t *testing.T) {
	store := newRecordingStore()
	ingestor := NewBulkIngestor(store, 3)

	world := lineWorld(6)
	world.Nodes[2].Name = "  Canal   Street "
	if err := ingestor.Ingest(context.Background(), world); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if len(store.nodes) != 6 {
		t.Fatalf("expected 6 nodes, got %d", len(store.nodes))
	}
	if store.nodes[2].Name != "Canal Street" {
		t.Fatalf("expected sanitized name, got %q", store.nodes[2].Name)
	}
	if len(store.connections) != 5 {
		t.Fatalf("expected 5 connections, got %d", len(store.connections))
	}
}

func TestBulkIngestor_AggregatesErrors(t *testing.T) {
	store := newRecordingStore()
	store.failNode = 3
	ingestor := NewBulkIngestor(store, 2)

	err := ingestor.IngestNodes(context.Background(), lineWorld(5).Nodes)
	var taskErr *TaskError
	if !errors.As(err, &taskErr) {
		t.Fatalf("expected TaskError, got %v", err)
	}
	if len(taskErr.Errors) != 1 {
		t.Fatalf("expected one error, got %d", len(taskErr.Errors))
	}
}

func TestBulkIngestor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewBulkIngestor(newRecordingStore(), 2).IngestNodes(ctx, lineWorld(50).Nodes)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
