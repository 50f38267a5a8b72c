package service

import (
	"regexp"
	"slices"
	"strings"

	"github.com/vanshika/citynav/internal/domain"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// sanitizeString collapses whitespace and trims the result.
func sanitizeString(value string) string {
	value = whitespaceRegex.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}

// normalizeWorldMap returns a copy of m with tidy names and sorted,
// de-duplicated neighbor lists. Dangling references and duplicate node IDs
// are left in place for the graph builder to report.
func normalizeWorldMap(m domain.WorldMap) domain.WorldMap {
	out := m.Clone()
	out.Name = sanitizeString(out.Name)
	for i := range out.Nodes {
		n := &out.Nodes[i]
		n.Name = sanitizeString(n.Name)
		slices.Sort(n.Neighbors)
		n.Neighbors = slices.Compact(n.Neighbors)
	}
	return out
}

// sameWorld compares two normalized maps. Nil and empty neighbor lists are equal.
func sameWorld(a, b domain.WorldMap) bool {
	if a.Name != b.Name || len(a.Nodes) != len(b.Nodes) {
		return false
	}
	for i := range a.Nodes {
		x, y := a.Nodes[i], b.Nodes[i]
		if x.ID != y.ID || x.Name != y.Name || !slices.Equal(x.Neighbors, y.Neighbors) {
			return false
		}
	}
	return true
}

func matchesSearch(node domain.MapNode, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(node.Name), search)
}
