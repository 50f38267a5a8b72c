package pathfind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/citynav/internal/domain"
)

func TestShortestPaths_LineGraph(t *testing.T) {
	g := BuildGraph(lineGraph(5), discardLogger())

	res, err := ShortestPaths(g, 0)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 3, 4}, res.Order)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, res.Dist)
	assert.Equal(t, []int{0, 0, 1, 2, 3}, res.Pred)
}

func TestShortestPaths_IsolatedSource(t *testing.T) {
	nodes := append(lineGraph(3), domain.MapNode{ID: 9, Name: "island"})
	g := BuildGraph(nodes, discardLogger())

	res, err := ShortestPaths(g, 9)
	require.NoError(t, err)

	assert.Equal(t, []int{9}, res.Order)
	for slot, d := range res.Dist {
		if g.bySlot[slot].ID == 9 {
			assert.Equal(t, 0, d)
			continue
		}
		assert.Equal(t, domain.Unreachable, d)
		assert.Equal(t, -1, res.Pred[slot])
	}
}

func TestShortestPaths_UnknownSource(t *testing.T) {
	g := BuildGraph(lineGraph(3), discardLogger())

	_, err := ShortestPaths(g, 99)
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestShortestPaths_SettledOrderIsNonDecreasing(t *testing.T) {
	nodes := randomGraph(7, 40, 0.08)
	g := BuildGraph(nodes, discardLogger())

	res, err := ShortestPaths(g, 0)
	require.NoError(t, err)

	prev := 0
	for _, id := range res.Order {
		slot, _ := g.slotOf(id)
		assert.GreaterOrEqual(t, res.Dist[slot], prev)
		prev = res.Dist[slot]
	}
}

func TestShortestPaths_MatchesBreadthFirstSearch(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		nodes := randomGraph(seed, 30, 0.1)
		g := BuildGraph(nodes, discardLogger())

		for _, src := range g.IDs() {
			res, err := ShortestPaths(g, src)
			require.NoError(t, err)
			want := bfsDistances(nodes, src)
			assert.Len(t, res.Order, len(want))
			for slot, d := range res.Dist {
				id := g.bySlot[slot].ID
				if wd, ok := want[id]; ok {
					assert.Equal(t, wd, d, "seed %d src %d node %d", seed, src, id)
				} else {
					assert.Equal(t, domain.Unreachable, d, "seed %d src %d node %d", seed, src, id)
				}
			}
		}
	}
}
