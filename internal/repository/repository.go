package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vanshika/citynav/internal/domain"
	"github.com/vanshika/citynav/internal/graph"
)

// ErrNodeNotFound is returned when a connection names a node the store
// does not hold.
var ErrNodeNotFound = errors.New("map node not found")

// Repository stores one named world map in the graph database. Nodes are
// :MapNode vertices keyed by (mapName, nodeId); connections are
// undirected :CONNECTED_TO relationships.
type Repository struct {
	client  graph.Client
	mapName string
}

// New instantiates a Repository for mapName backed by the supplied graph client.
func New(client graph.Client, mapName string) *Repository {
	mapName = strings.TrimSpace(mapName)
	if mapName == "" {
		mapName = "default"
	}
	return &Repository{client: client, mapName: mapName}
}

// MapName returns the map this repository is scoped to.
func (r *Repository) MapName() string { return r.mapName }

// EnsureSchema creates the uniqueness constraint backing node upserts.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.client.ExecuteWrite(ctx, nodeConstraintCypher, nil); err != nil {
		return fmt.Errorf("ensure map node constraint: %w", err)
	}
	return nil
}

// LoadWorldMap reads every node of the map together with its neighbor IDs.
func (r *Repository) LoadWorldMap(ctx context.Context) (domain.WorldMap, error) {
	res, err := r.client.ExecuteRead(ctx, loadWorldMapCypher, map[string]any{
		"mapName": r.mapName,
	})
	if err != nil {
		return domain.WorldMap{}, fmt.Errorf("load world map %s: %w", r.mapName, err)
	}

	world := domain.WorldMap{Name: r.mapName, Nodes: make([]domain.MapNode, 0, len(res.Records))}
	for _, record := range res.Records {
		id, err := record.Int("id")
		if err != nil {
			return domain.WorldMap{}, fmt.Errorf("decode map node: %w", err)
		}
		neighbors, err := record.Ints("neighbors")
		if err != nil {
			return domain.WorldMap{}, fmt.Errorf("decode neighbors of node %d: %w", id, err)
		}
		world.Nodes = append(world.Nodes, domain.MapNode{
			ID:        id,
			Name:      record.String("name"),
			Neighbors: neighbors,
		})
	}
	return world, nil
}

// UpsertNode creates or renames a map node.
func (r *Repository) UpsertNode(ctx context.Context, node domain.MapNode) error {
	if node.ID < 0 {
		return fmt.Errorf("invalid node id %d", node.ID)
	}
	_, err := r.client.ExecuteWrite(ctx, upsertNodeCypher, map[string]any{
		"mapName": r.mapName,
		"nodeId":  node.ID,
		"name":    node.Name,
	})
	if err != nil {
		return fmt.Errorf("upsert node %d: %w", node.ID, err)
	}
	return nil
}

// Connect links two existing nodes. Repeated calls keep a single relationship.
func (r *Repository) Connect(ctx context.Context, a, b int) error {
	res, err := r.client.ExecuteWrite(ctx, connectCypher, r.pairParams(a, b))
	if err != nil {
		return fmt.Errorf("connect %d-%d: %w", a, b, err)
	}
	if len(res.Records) == 0 {
		return fmt.Errorf("%w: connect %d-%d", ErrNodeNotFound, a, b)
	}
	return nil
}

// Disconnect removes any connection between a and b.
func (r *Repository) Disconnect(ctx context.Context, a, b int) error {
	if _, err := r.client.ExecuteWrite(ctx, disconnectCypher, r.pairParams(a, b)); err != nil {
		return fmt.Errorf("disconnect %d-%d: %w", a, b, err)
	}
	return nil
}

// Clear deletes every node and connection of the map.
func (r *Repository) Clear(ctx context.Context) error {
	if _, err := r.client.ExecuteWrite(ctx, clearMapCypher, map[string]any{"mapName": r.mapName}); err != nil {
		return fmt.Errorf("clear map %s: %w", r.mapName, err)
	}
	return nil
}

func (r *Repository) pairParams(a, b int) map[string]any {
	return map[string]any{
		"mapName": r.mapName,
		"a":       a,
		"b":       b,
	}
}

const nodeConstraintCypher = `
CREATE CONSTRAINT map_node_key IF NOT EXISTS
FOR (n:MapNode) REQUIRE (n.mapName, n.nodeId) IS UNIQUE
`

const loadWorldMapCypher = `
MATCH (n:MapNode {mapName: $mapName})
OPTIONAL MATCH (n)-[:CONNECTED_TO]-(m:MapNode {mapName: $mapName})
WITH n, collect(DISTINCT m.nodeId) AS neighbors
RETURN n.nodeId AS id, n.name AS name, neighbors
ORDER BY id
`

const upsertNodeCypher = `
MERGE (n:MapNode {mapName: $mapName, nodeId: $nodeId})
SET n.name = $name
RETURN n.nodeId AS id
`

const connectCypher = `
MATCH (a:MapNode {mapName: $mapName, nodeId: $a})
MATCH (b:MapNode {mapName: $mapName, nodeId: $b})
MERGE (a)-[:CONNECTED_TO]-(b)
RETURN a.nodeId AS a, b.nodeId AS b
`

const disconnectCypher = `
MATCH (a:MapNode {mapName: $mapName, nodeId: $a})-[c:CONNECTED_TO]-(b:MapNode {mapName: $mapName, nodeId: $b})
DELETE c
RETURN count(c) AS removed
`

const clearMapCypher = `
MATCH (n:MapNode {mapName: $mapName})
DETACH DELETE n
`
