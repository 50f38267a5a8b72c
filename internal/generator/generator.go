package generator

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/vanshika/citynav/internal/domain"
)

// Generator produces synthetic city maps: a grid of street corners whose
// streets are thinned and cut through at random while staying connected.
type Generator struct {
	cfg           Config
	rand          *rand.Rand
	nameFragments nameFragments
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.Rows <= 0 {
		cfg.Rows = def.Rows
	}
	if cfg.Cols <= 0 {
		cfg.Cols = def.Cols
	}
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.IsolatedNodes < 0 {
		cfg.IsolatedNodes = 0
	}
	cfg.RemoveStreetChance = clampProbability(cfg.RemoveStreetChance)
	cfg.ShortcutChance = clampProbability(cfg.ShortcutChance)
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:           cfg,
		rand:          rand.New(rand.NewSource(cfg.Seed)),
		nameFragments: defaultNameFragments(),
	}
}

// Config returns the effective configuration after defaults.
func (g *Generator) Config() Config { return g.cfg }

// Generate builds the map. Grid nodes are numbered row by row from 0; the
// isolated nodes follow. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (domain.WorldMap, error) {
	rows, cols := g.cfg.Rows, g.cfg.Cols
	corners := rows * cols
	m := domain.WorldMap{Name: g.cfg.Name, Nodes: make([]domain.MapNode, 0, corners+g.cfg.IsolatedNodes)}

	for id := 0; id < corners; id++ {
		m.Nodes = append(m.Nodes, domain.MapNode{ID: id, Name: g.cornerName(id, id/cols, id%cols)})
	}

	streets := gridStreets(rows, cols)
	g.rand.Shuffle(len(streets), func(i, j int) { streets[i], streets[j] = streets[j], streets[i] })

	sets := newDisjointSet(corners)
	for _, s := range streets {
		if err := ctx.Err(); err != nil {
			return domain.WorldMap{}, err
		}
		spanning := sets.union(s.A, s.B)
		if !spanning && g.rand.Float64() < g.cfg.RemoveStreetChance {
			continue
		}
		m.Connect(s.A, s.B)
	}

	for r := 0; r+1 < rows; r++ {
		for c := 0; c+1 < cols; c++ {
			if g.rand.Float64() >= g.cfg.ShortcutChance {
				continue
			}
			from, to := r*cols+c, (r+1)*cols+c+1
			if g.rand.Intn(2) == 1 {
				from, to = r*cols+c+1, (r+1)*cols+c
			}
			m.Connect(from, to)
		}
	}

	for i := 0; i < g.cfg.IsolatedNodes; i++ {
		m.Nodes = append(m.Nodes, domain.MapNode{
			ID:        corners + i,
			Name:      fmt.Sprintf("%s Ruins", g.pick(g.nameFragments.landmarks)),
			Neighbors: []int{},
		})
	}

	for i := range m.Nodes {
		if m.Nodes[i].Neighbors == nil {
			m.Nodes[i].Neighbors = []int{}
		}
		slices.Sort(m.Nodes[i].Neighbors)
	}
	return m, nil
}

func gridStreets(rows, cols int) []domain.Connection {
	out := make([]domain.Connection, 0, 2*rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			id := r*cols + c
			if c+1 < cols {
				out = append(out, domain.NewConnection(id, id+1))
			}
			if r+1 < rows {
				out = append(out, domain.NewConnection(id, id+cols))
			}
		}
	}
	return out
}

// disjointSet tracks which corners the kept streets already join.
type disjointSet struct {
	parent []int
}

func newDisjointSet(n int) *disjointSet {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &disjointSet{parent: parent}
}

func (d *disjointSet) find(x int) int {
	for d.parent[x] != x {
		d.parent[x] = d.parent[d.parent[x]]
		x = d.parent[x]
	}
	return x
}

// union reports whether a and b were in different sets.
func (d *disjointSet) union(a, b int) bool {
	ra, rb := d.find(a), d.find(b)
	if ra == rb {
		return false
	}
	d.parent[ra] = rb
	return true
}

func (g *Generator) cornerName(id, row, col int) string {
	streets, avenues := g.nameFragments.streets, g.nameFragments.avenues
	name := fmt.Sprintf("%s & %s", streets[row%len(streets)], avenues[col%len(avenues)])
	if row >= len(streets) || col >= len(avenues) {
		name = fmt.Sprintf("%s #%d", name, id)
	}
	return name
}

func (g *Generator) pick(options []string) string {
	return options[g.rand.Intn(len(options))]
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

type nameFragments struct {
	streets   []string
	avenues   []string
	landmarks []string
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		streets:   []string{"Market St", "Mill St", "Harbour St", "Chapel St", "Tanner St", "Bridge St", "Salt St", "Wool St", "Kiln St", "Rope St"},
		avenues:   []string{"Cedar Ave", "Oak Ave", "Pine Ave", "Ash Ave", "Elm Ave", "Birch Ave", "Yew Ave", "Alder Ave", "Rowan Ave", "Hazel Ave"},
		landmarks: []string{"Abbey", "Watchtower", "Granary", "Old Mill", "Lighthouse", "Quarry", "Bastion"},
	}
}
