package pathfind

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vanshika/citynav/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// undirected builds map nodes 0..n-1 joined by the given symmetric edges.
func undirected(n int, edges ...[2]int) []domain.MapNode {
	nodes := make([]domain.MapNode, n)
	for i := range nodes {
		nodes[i] = domain.MapNode{ID: i, Name: fmt.Sprintf("node-%d", i)}
	}
	for _, e := range edges {
		nodes[e[0]].Neighbors = append(nodes[e[0]].Neighbors, e[1])
		nodes[e[1]].Neighbors = append(nodes[e[1]].Neighbors, e[0])
	}
	return nodes
}

func lineGraph(n int) []domain.MapNode {
	var edges [][2]int
	for i := 0; i+1 < n; i++ {
		edges = append(edges, [2]int{i, i + 1})
	}
	return undirected(n, edges...)
}

func starGraph(leaves int) []domain.MapNode {
	var edges [][2]int
	for i := 1; i <= leaves; i++ {
		edges = append(edges, [2]int{0, i})
	}
	return undirected(leaves+1, edges...)
}

func randomGraph(seed int64, n int, p float64) []domain.MapNode {
	rng := rand.New(rand.NewSource(seed))
	var edges [][2]int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < p {
				edges = append(edges, [2]int{i, j})
			}
		}
	}
	return undirected(n, edges...)
}

func buildNavigator(t *testing.T, nodes []domain.MapNode, opts ...Option) *Navigator {
	t.Helper()
	g := BuildGraph(nodes, discardLogger())
	cache, err := BuildAllPathTables(context.Background(), g, BuildOptions{Logger: discardLogger()})
	require.NoError(t, err)
	opts = append([]Option{WithLogger(discardLogger())}, opts...)
	return NewNavigator(cache, opts...)
}

// bfsDistances is an independent reference used to check the engine.
func bfsDistances(nodes []domain.MapNode, source int) map[int]int {
	adj := make(map[int][]int, len(nodes))
	for _, n := range nodes {
		adj[n.ID] = n.Neighbors
	}
	dist := map[int]int{source: 0}
	queue := []int{source}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range adj[cur] {
			if _, seen := dist[nb]; !seen {
				dist[nb] = dist[cur] + 1
				queue = append(queue, nb)
			}
		}
	}
	return dist
}
