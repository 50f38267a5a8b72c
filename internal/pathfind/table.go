package pathfind

import (
	"slices"

	"github.com/vanshika/citynav/internal/domain"
)

// WeightedDistanceUnset fills the weighted-distance array. Weighted terrain
// costs are not implemented; the array is kept so tables keep their shape
// if they ever are.
const WeightedDistanceUnset = -1

// PathTable holds the shortest-path tree rooted at one source node.
// It is immutable after construction.
type PathTable struct {
	graph    *Graph
	source   int
	pred     []int
	dist     []int
	weighted []int
	order    []int

	// byDistance[d] lists nodes at hop distance d in settled order.
	byDistance [][]int
}

func newPathTable(g *Graph, res Result) *PathTable {
	t := &PathTable{
		graph:    g,
		source:   res.Source,
		pred:     slices.Clone(res.Pred),
		dist:     slices.Clone(res.Dist),
		weighted: make([]int, len(res.Dist)),
		order:    slices.Clone(res.Order),
	}
	for i := range t.weighted {
		t.weighted[i] = WeightedDistanceUnset
	}
	for _, id := range t.order {
		slot, _ := g.slotOf(id)
		d := t.dist[slot]
		for len(t.byDistance) <= d {
			t.byDistance = append(t.byDistance, nil)
		}
		t.byDistance[d] = append(t.byDistance[d], id)
	}
	return t
}

// Source returns the node identifier the table is rooted at.
func (t *PathTable) Source() int { return t.source }

// Distance returns the hop count from the source to id. ok is false when id
// is not part of the graph. Unreached nodes report domain.Unreachable.
func (t *PathTable) Distance(id int) (dist int, ok bool) {
	slot, ok := t.graph.slotOf(id)
	if !ok {
		return domain.Unreachable, false
	}
	return t.dist[slot], true
}

// Predecessor returns the node one step closer to the source on the
// shortest path to id. The source is its own predecessor. ok is false for
// unknown or unreached nodes.
func (t *PathTable) Predecessor(id int) (int, bool) {
	slot, ok := t.graph.slotOf(id)
	if !ok || t.pred[slot] < 0 || t.pred[slot] >= len(t.graph.bySlot) {
		return -1, false
	}
	return t.graph.bySlot[t.pred[slot]].ID, true
}

// WeightedDistance always returns WeightedDistanceUnset for known nodes.
func (t *PathTable) WeightedDistance(id int) (int, bool) {
	slot, ok := t.graph.slotOf(id)
	if !ok {
		return WeightedDistanceUnset, false
	}
	return t.weighted[slot], true
}

// Order returns node identifiers in settled order, closest first.
func (t *PathTable) Order() []int { return slices.Clone(t.order) }

// Reachable returns the number of nodes reachable from the source,
// including the source itself.
func (t *PathTable) Reachable() int { return len(t.order) }

// Eccentricity returns the largest finite distance from the source.
func (t *PathTable) Eccentricity() int { return len(t.byDistance) - 1 }

// NodesAtDistance returns the nodes exactly d hops from the source.
func (t *PathTable) NodesAtDistance(d int) []int {
	if d < 0 || d >= len(t.byDistance) {
		return nil
	}
	return slices.Clone(t.byDistance[d])
}
