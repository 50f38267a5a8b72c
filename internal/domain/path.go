package domain

// Edge is one hop of a path, directed from From to To.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Connection is an undirected link between two map nodes. NewConnection
// normalizes it so A <= B.
type Connection struct {
	A int `json:"from" validate:"gte=0"`
	B int `json:"to" validate:"gte=0"`
}

// NewConnection builds a normalized connection.
func NewConnection(a, b int) Connection {
	if b < a {
		a, b = b, a
	}
	return Connection{A: a, B: b}
}

// GraphStats summarises a built navigation graph. Edges counts adjacency
// entries, so a symmetric connection counts twice.
type GraphStats struct {
	Nodes          int `json:"nodes"`
	Edges          int `json:"edges"`
	Tables         int `json:"tables"`
	SkippedEdges   int `json:"skippedEdges"`
	DuplicateNodes int `json:"duplicateNodes"`
}
