package pathfind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/citynav/internal/domain"
)

func TestBuildGraph_WiresSymmetricEdges(t *testing.T) {
	g := BuildGraph(lineGraph(3), discardLogger())

	require.Equal(t, 3, g.Len())
	assert.Equal(t, []int{0, 1, 2}, g.IDs())

	mid, ok := g.Vertex(1)
	require.True(t, ok)
	assert.Equal(t, "node-1", mid.Name)
	require.Len(t, mid.Adjacent, 2)
	assert.Equal(t, len(mid.Adjacent), len(mid.Weights))
	for _, w := range mid.Weights {
		assert.Equal(t, 1, w)
	}
	assert.True(t, g.Adjacent(0, 1))
	assert.True(t, g.Adjacent(1, 0))
	assert.False(t, g.Adjacent(0, 2))
	assert.Equal(t, 4, g.Report().Edges)
}

func TestBuildGraph_SkipsDanglingNeighbor(t *testing.T) {
	nodes := []domain.MapNode{
		{ID: 0, Name: "docks", Neighbors: []int{1, 42}},
		{ID: 1, Name: "market", Neighbors: []int{0}},
	}
	g := BuildGraph(nodes, discardLogger())

	require.Equal(t, 2, g.Len())
	v, _ := g.Vertex(0)
	assert.Len(t, v.Adjacent, 1)
	assert.Equal(t, 1, g.Report().SkippedEdges)
}

func TestBuildGraph_DuplicateIdentifierKeepsFirst(t *testing.T) {
	nodes := []domain.MapNode{
		{ID: 0, Name: "docks", Neighbors: []int{1}},
		{ID: 1, Name: "market", Neighbors: []int{0}},
		{ID: 1, Name: "impostor", Neighbors: []int{0}},
	}
	g := BuildGraph(nodes, discardLogger())

	require.Equal(t, 2, g.Len())
	v, _ := g.Vertex(1)
	assert.Equal(t, "market", v.Name)
	assert.Equal(t, 1, g.Report().DuplicateNodes)

	docks, _ := g.Vertex(0)
	assert.Len(t, docks.Adjacent, 1)
}

func TestBuildGraph_SkipsSelfLoopsAndRepeats(t *testing.T) {
	nodes := []domain.MapNode{
		{ID: 7, Name: "plaza", Neighbors: []int{7, 8, 8}},
		{ID: 8, Name: "gate", Neighbors: []int{7}},
	}
	g := BuildGraph(nodes, discardLogger())

	v, _ := g.Vertex(7)
	assert.Len(t, v.Adjacent, 1)
	assert.Equal(t, 1, g.Report().SkippedEdges)
}

func TestBuildGraph_SparseIdentifiers(t *testing.T) {
	nodes := []domain.MapNode{
		{ID: 900, Name: "north", Neighbors: []int{15}},
		{ID: 15, Name: "south", Neighbors: []int{900}},
	}
	g := BuildGraph(nodes, discardLogger())

	assert.Equal(t, []int{15, 900}, g.IDs())
	assert.True(t, g.Adjacent(900, 15))
}
