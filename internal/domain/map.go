package domain

import (
	"math"
	"slices"
)

// Unreachable is the distance reported for nodes with no path from a source.
const Unreachable = math.MaxInt

// MapNode is a single location on the city map.
type MapNode struct {
	ID        int    `json:"id" yaml:"id" validate:"gte=0"`
	Name      string `json:"name" yaml:"name" validate:"required"`
	Neighbors []int  `json:"neighbors" yaml:"neighbors" validate:"dive,gte=0"`
}

// NodeID returns the stable identifier of the node.
func (n MapNode) NodeID() int { return n.ID }

// NodeName returns the display name of the node.
func (n MapNode) NodeName() string { return n.Name }

// NeighborIDs returns the identifiers of adjacent nodes.
func (n MapNode) NeighborIDs() []int { return n.Neighbors }

// WorldMap is the full node set loaded for a level.
type WorldMap struct {
	Name  string    `json:"name" yaml:"name"`
	Nodes []MapNode `json:"nodes" yaml:"nodes" validate:"dive"`
}

// Node returns the node with the given identifier.
func (m *WorldMap) Node(id int) (MapNode, bool) {
	idx := m.index(id)
	if idx < 0 {
		return MapNode{}, false
	}
	return m.Nodes[idx], true
}

// Connect adds a symmetric connection between a and b. It reports whether
// the map changed.
func (m *WorldMap) Connect(a, b int) bool {
	ia, ib := m.index(a), m.index(b)
	if ia < 0 || ib < 0 || a == b {
		return false
	}
	changed := false
	if !slices.Contains(m.Nodes[ia].Neighbors, b) {
		m.Nodes[ia].Neighbors = append(m.Nodes[ia].Neighbors, b)
		changed = true
	}
	if !slices.Contains(m.Nodes[ib].Neighbors, a) {
		m.Nodes[ib].Neighbors = append(m.Nodes[ib].Neighbors, a)
		changed = true
	}
	return changed
}

// Disconnect removes the connection between a and b in both directions.
// It reports whether the map changed.
func (m *WorldMap) Disconnect(a, b int) bool {
	ia, ib := m.index(a), m.index(b)
	if ia < 0 || ib < 0 {
		return false
	}
	before := len(m.Nodes[ia].Neighbors) + len(m.Nodes[ib].Neighbors)
	m.Nodes[ia].Neighbors = slices.DeleteFunc(m.Nodes[ia].Neighbors, func(id int) bool { return id == b })
	m.Nodes[ib].Neighbors = slices.DeleteFunc(m.Nodes[ib].Neighbors, func(id int) bool { return id == a })
	return len(m.Nodes[ia].Neighbors)+len(m.Nodes[ib].Neighbors) != before
}

// Connections lists every undirected connection once, lower identifier first.
func (m *WorldMap) Connections() []Connection {
	seen := make(map[Connection]struct{})
	var out []Connection
	for _, n := range m.Nodes {
		for _, nb := range n.Neighbors {
			c := NewConnection(n.ID, nb)
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// Clone returns a deep copy of the map.
func (m *WorldMap) Clone() WorldMap {
	out := WorldMap{Name: m.Name, Nodes: make([]MapNode, len(m.Nodes))}
	for i, n := range m.Nodes {
		out.Nodes[i] = MapNode{ID: n.ID, Name: n.Name, Neighbors: slices.Clone(n.Neighbors)}
	}
	return out
}

func (m *WorldMap) index(id int) int {
	return slices.IndexFunc(m.Nodes, func(n MapNode) bool { return n.ID == id })
}
