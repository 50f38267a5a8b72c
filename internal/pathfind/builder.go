package pathfind

import (
	"cmp"
	"log/slog"
	"slices"
)

// Node is the read-only view of a map location consumed by the builder.
type Node interface {
	NodeID() int
	NodeName() string
	NeighborIDs() []int
}

// Vertex mirrors one map node inside a Graph. Adjacent and Weights are
// parallel slices; every weight is 1.
type Vertex struct {
	ID       int
	Name     string
	Adjacent []*Vertex
	Weights  []int

	slot int
}

// BuildReport counts what the builder created and what it had to skip.
type BuildReport struct {
	Vertices       int
	Edges          int
	SkippedEdges   int
	DuplicateNodes int
}

// Graph is the internal adjacency representation of the city map.
type Graph struct {
	vertices map[int]*Vertex
	bySlot   []*Vertex
	report   BuildReport
}

// BuildGraph converts nodes into a Graph in two passes: every vertex is
// created first, then edges are wired. Dangling neighbor references,
// self-loops and duplicate node identifiers are logged and skipped.
func BuildGraph[N Node](nodes []N, logger *slog.Logger) *Graph {
	if logger == nil {
		logger = slog.Default()
	}

	g := &Graph{vertices: make(map[int]*Vertex, len(nodes))}

	owners := make([]N, 0, len(nodes))
	for _, n := range nodes {
		id := n.NodeID()
		if existing, ok := g.vertices[id]; ok {
			logger.Warn("duplicate node identifier skipped",
				"node_id", id,
				"name", n.NodeName(),
				"kept_name", existing.Name,
			)
			g.report.DuplicateNodes++
			continue
		}
		v := &Vertex{ID: id, Name: n.NodeName()}
		g.vertices[id] = v
		owners = append(owners, n)
	}

	// Slots follow identifier order so table layouts are deterministic.
	g.bySlot = make([]*Vertex, 0, len(g.vertices))
	for _, v := range g.vertices {
		g.bySlot = append(g.bySlot, v)
	}
	slices.SortFunc(g.bySlot, func(a, b *Vertex) int { return cmp.Compare(a.ID, b.ID) })
	for i, v := range g.bySlot {
		v.slot = i
	}

	for _, n := range owners {
		v := g.vertices[n.NodeID()]
		for _, nbID := range n.NeighborIDs() {
			nb, ok := g.vertices[nbID]
			if !ok {
				logger.Warn("dangling neighbor reference skipped", "node_id", v.ID, "neighbor_id", nbID)
				g.report.SkippedEdges++
				continue
			}
			if nb == v {
				logger.Warn("self connection skipped", "node_id", v.ID)
				g.report.SkippedEdges++
				continue
			}
			if slices.Contains(v.Adjacent, nb) {
				continue
			}
			v.Adjacent = append(v.Adjacent, nb)
			v.Weights = append(v.Weights, 1)
			g.report.Edges++
		}
	}

	g.report.Vertices = len(g.bySlot)
	skippedEdgesTotal.Add(float64(g.report.SkippedEdges))
	duplicateNodesTotal.Add(float64(g.report.DuplicateNodes))
	return g
}

// Len returns the number of vertices.
func (g *Graph) Len() int { return len(g.bySlot) }

// Vertex looks up a vertex by node identifier.
func (g *Graph) Vertex(id int) (*Vertex, bool) {
	v, ok := g.vertices[id]
	return v, ok
}

// IDs returns every node identifier in ascending order.
func (g *Graph) IDs() []int {
	ids := make([]int, len(g.bySlot))
	for i, v := range g.bySlot {
		ids[i] = v.ID
	}
	return ids
}

// Report returns the counters collected while building.
func (g *Graph) Report() BuildReport { return g.report }

// Adjacent reports whether a and b are directly connected (a to b).
func (g *Graph) Adjacent(a, b int) bool {
	va, ok := g.vertices[a]
	if !ok {
		return false
	}
	return slices.ContainsFunc(va.Adjacent, func(v *Vertex) bool { return v.ID == b })
}

func (g *Graph) slotOf(id int) (int, bool) {
	v, ok := g.vertices[id]
	if !ok {
		return -1, false
	}
	return v.slot, true
}
