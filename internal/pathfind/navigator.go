package pathfind

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/vanshika/citynav/internal/domain"
)

// Navigator answers path and distance queries against a set of tables.
// It never mutates the tables.
type Navigator struct {
	tables Tables
	logger *slog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithRand sets the random source used by FindNodeAtDistance.
func WithRand(r *rand.Rand) Option {
	return func(n *Navigator) {
		if r != nil {
			n.rng = r
		}
	}
}

// WithLogger sets the logger used to report rejected queries.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Navigator) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// NewNavigator returns a Navigator over tables.
func NewNavigator(tables Tables, opts ...Option) *Navigator {
	n := &Navigator{
		tables: tables,
		logger: slog.Default(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Tables returns the tables the navigator reads from.
func (n *Navigator) Tables() Tables { return n.tables }

// GetDistance returns the hop count from source to node. Unreached nodes
// return domain.Unreachable together with ErrUnreachable.
func (n *Navigator) GetDistance(source, node int) (dist int, err error) {
	defer func() { observeQuery("distance", err) }()

	t, err := n.table(source)
	if err != nil {
		return domain.Unreachable, err
	}
	d, ok := t.Distance(node)
	if !ok {
		n.logger.Warn("distance query for unknown node", "source", source, "node", node)
		return domain.Unreachable, fmt.Errorf("%w: node %d", ErrUnknownNode, node)
	}
	if d == domain.Unreachable {
		return d, fmt.Errorf("%w: %d from %d", ErrUnreachable, node, source)
	}
	return d, nil
}

// ReconstructPath returns the edges of the shortest path from source to
// dest, in source-to-dest order. With reverse set the edges run from dest
// back to source instead. A path from a node to itself is empty.
func (n *Navigator) ReconstructPath(source, dest int, reverse bool) (edges []domain.Edge, err error) {
	defer func() { observeQuery("path", err) }()

	t, err := n.table(source)
	if err != nil {
		return nil, err
	}
	d, ok := t.Distance(dest)
	if !ok {
		n.logger.Warn("path query for unknown node", "source", source, "dest", dest)
		return nil, fmt.Errorf("%w: node %d", ErrUnknownNode, dest)
	}
	if d == domain.Unreachable {
		return nil, fmt.Errorf("%w: %d from %d", ErrUnreachable, dest, source)
	}

	g := n.tables.Graph()
	edges = make([]domain.Edge, 0, d)
	cur := dest
	// A valid chain never needs more steps than there are vertices.
	for steps := 0; cur != source; steps++ {
		if steps >= g.Len() {
			return nil, n.corrupt(source, dest, "predecessor chain does not reach source")
		}
		prev, ok := t.Predecessor(cur)
		if !ok {
			return nil, n.corrupt(source, dest, fmt.Sprintf("no predecessor for %d", cur))
		}
		if !g.Adjacent(prev, cur) {
			return nil, n.corrupt(source, dest, fmt.Sprintf("no connection %d-%d", prev, cur))
		}
		edges = append(edges, domain.Edge{From: cur, To: prev})
		cur = prev
	}

	if reverse {
		return edges, nil
	}
	slices.Reverse(edges)
	for i := range edges {
		edges[i].From, edges[i].To = edges[i].To, edges[i].From
	}
	return edges, nil
}

// PathNodes returns the node identifiers visited from source to dest,
// both included.
func (n *Navigator) PathNodes(source, dest int) ([]int, error) {
	edges, err := n.ReconstructPath(source, dest, false)
	if err != nil {
		return nil, err
	}
	nodes := make([]int, 0, len(edges)+1)
	nodes = append(nodes, source)
	for _, e := range edges {
		nodes = append(nodes, e.To)
	}
	return nodes, nil
}

// FindNodeAtDistance picks uniformly at random one node exactly target hops
// from source. ErrNoNodeAtDistance is returned when there is none.
func (n *Navigator) FindNodeAtDistance(source, target int) (node int, err error) {
	defer func() { observeQuery("at_distance", err) }()

	if target < 0 {
		return -1, fmt.Errorf("%w: %d", ErrInvalidDistance, target)
	}
	t, err := n.table(source)
	if err != nil {
		return -1, err
	}
	candidates := t.NodesAtDistance(target)
	if len(candidates) == 0 {
		return -1, fmt.Errorf("%w: %d hops from %d", ErrNoNodeAtDistance, target, source)
	}

	n.rngMu.Lock()
	pick := candidates[n.rng.Intn(len(candidates))]
	n.rngMu.Unlock()
	return pick, nil
}

func (n *Navigator) table(source int) (*PathTable, error) {
	t, err := n.tables.Table(source)
	if err != nil {
		n.logger.Warn("query for unknown source node", "source", source, "error", err)
		return nil, err
	}
	return t, nil
}

func (n *Navigator) corrupt(source, dest int, detail string) error {
	n.logger.Error("path reconstruction aborted", "source", source, "dest", dest, "detail", detail)
	return fmt.Errorf("%w: %s (source %d, dest %d)", ErrCorruptTable, detail, source, dest)
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnknownNode):
		return "unknown_node"
	case errors.Is(err, ErrInvalidDistance):
		return "invalid"
	case errors.Is(err, ErrCorruptTable):
		return "corrupt"
	default:
		return "error"
	}
}
