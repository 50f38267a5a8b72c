package generator

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/citynav/internal/domain"
	"github.com/vanshika/citynav/internal/mapdata"
	"github.com/vanshika/citynav/internal/pathfind"
)

func TestGenerateIsConnectedAndDeterministic(t *testing.T) {
	cfg := Config{Name: "harbour", Rows: 6, Cols: 5, RemoveStreetChance: 0.9, ShortcutChance: 0.3, IsolatedNodes: 2, Seed: 7}

	first, err := New(cfg).Generate(context.Background())
	require.NoError(t, err)
	second, err := New(cfg).Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.Len(t, first.Nodes, 32)
	require.NoError(t, mapdata.Validate(first))

	g := pathfind.BuildGraph(first.Nodes, nil)
	assert.Zero(t, g.Report().SkippedEdges)

	res, err := pathfind.ShortestPaths(g, 0)
	require.NoError(t, err)
	for id := 0; id < 30; id++ {
		slot := slotIndex(t, g, id)
		assert.NotEqual(t, domain.Unreachable, res.Dist[slot], "corner %d unreachable", id)
	}
	for id := 30; id < 32; id++ {
		node, ok := first.Node(id)
		require.True(t, ok)
		assert.Empty(t, node.Neighbors)
		assert.Equal(t, domain.Unreachable, res.Dist[slotIndex(t, g, id)])
	}
}

func TestGenerateWithoutRemovalKeepsFullGrid(t *testing.T) {
	m, err := New(Config{Rows: 3, Cols: 4, Seed: 1}).Generate(context.Background())
	require.NoError(t, err)

	// 3x4 grid: 3*3 horizontal + 2*4 vertical streets.
	assert.Len(t, m.Connections(), 17)
	assert.Equal(t, "city", m.Name)
}

func TestGenerateHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(DefaultConfig()).Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteMap(t *testing.T) {
	m, err := New(Config{Rows: 2, Cols: 2, Seed: 3}).Generate(context.Background())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "maps", "small.json")
	require.NoError(t, WriteMap(m, path))

	loaded, err := mapdata.Load(path)
	require.NoError(t, err)
	assert.ElementsMatch(t, m.Connections(), loaded.Connections())

	var buf bytes.Buffer
	require.NoError(t, EncodeMap(&buf, m, mapdata.FormatYAML))
	assert.Contains(t, buf.String(), "nodes:")
}

func slotIndex(t *testing.T, g *pathfind.Graph, id int) int {
	t.Helper()
	for i, candidate := range g.IDs() {
		if candidate == id {
			return i
		}
	}
	t.Fatalf("node %d not in graph", id)
	return -1
}
