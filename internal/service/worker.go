package service

import (
	"context"
	"errors"
	"sync"

	"github.com/vanshika/citynav/internal/domain"
)

// TaskError accumulates multiple errors produced during bulk ingestion.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error { return e.Errors }

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// BulkIngestor writes a world map into a MapStore using a worker pool.
type BulkIngestor struct {
	store   MapStore
	workers int
}

// NewBulkIngestor creates a new BulkIngestor instance with the provided concurrency.
func NewBulkIngestor(store MapStore, workers int) *BulkIngestor {
	if workers <= 0 {
		workers = 4
	}
	return &BulkIngestor{
		store:   store,
		workers: workers,
	}
}

// Ingest writes every node first and then every connection, so connections
// never reference a node the store has not seen yet.
func (bi *BulkIngestor) Ingest(ctx context.Context, m domain.WorldMap) error {
	if err := bi.IngestNodes(ctx, m.Nodes); err != nil {
		return err
	}
	return bi.IngestConnections(ctx, m.Connections())
}

// IngestNodes upserts nodes concurrently.
func (bi *BulkIngestor) IngestNodes(ctx context.Context, nodes []domain.MapNode) error {
	return bi.run(ctx, len(nodes), func(idx int) error {
		node := nodes[idx]
		node.Name = sanitizeString(node.Name)
		return bi.store.UpsertNode(ctx, node)
	})
}

// IngestConnections creates connections concurrently.
func (bi *BulkIngestor) IngestConnections(ctx context.Context, conns []domain.Connection) error {
	return bi.run(ctx, len(conns), func(idx int) error {
		return bi.store.Connect(ctx, conns[idx].A, conns[idx].B)
	})
}

func (bi *BulkIngestor) run(ctx context.Context, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := workerFn(idx); err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}

	for i := 0; i < bi.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	if err := ctx.Err(); err != nil {
		return err
	}

	var taskErr TaskError
	for err := range errCh {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}
