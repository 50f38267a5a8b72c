package service

import (
	"context"

	"github.com/vanshika/citynav/internal/domain"
)

// MapSource supplies the world map and applies connection changes to it.
type MapSource interface {
	LoadWorldMap(ctx context.Context) (domain.WorldMap, error)
	Connect(ctx context.Context, a, b int) error
	Disconnect(ctx context.Context, a, b int) error
}

// MapStore is the write side used when bulk loading a map into storage.
type MapStore interface {
	UpsertNode(ctx context.Context, node domain.MapNode) error
	Connect(ctx context.Context, a, b int) error
}

// PaginationMeta captures pagination metadata returned to API clients.
type PaginationMeta struct {
	Page       int
	PageSize   int
	TotalItems int64
	TotalPages int
}

// ListNodesParams filters the node listing.
type ListNodesParams struct {
	Page     int
	PageSize int
	Search   string
}

// NodesPage represents a page of map nodes with metadata.
type NodesPage struct {
	Items      []domain.MapNode
	Pagination PaginationMeta
}
