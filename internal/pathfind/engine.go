package pathfind

import (
	"container/heap"
	"fmt"

	"github.com/vanshika/citynav/internal/domain"
)

// Result is the output of one single-source run. Pred and Dist are indexed
// by vertex slot. The source is its own predecessor; unreached slots carry
// predecessor -1 and distance domain.Unreachable.
type Result struct {
	Source int
	Order  []int
	Pred   []int
	Dist   []int
}

// ShortestPaths runs Dijkstra's algorithm from source over g. All scratch
// state is local to the call, so concurrent runs over the same graph are
// safe.
func ShortestPaths(g *Graph, source int) (Result, error) {
	src, ok := g.slotOf(source)
	if !ok {
		return Result{}, fmt.Errorf("%w: source %d", ErrUnknownNode, source)
	}

	n := g.Len()
	dist := make([]int, n)
	pred := make([]int, n)
	settled := make([]bool, n)
	for i := range dist {
		dist[i] = domain.Unreachable
		pred[i] = -1
	}
	dist[src] = 0
	pred[src] = src

	order := make([]int, 0, n)
	pq := &frontier{}
	heap.Push(pq, frontierItem{slot: src, dist: 0})

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(frontierItem)
		if settled[cur.slot] || cur.dist > dist[cur.slot] {
			continue
		}
		settled[cur.slot] = true
		v := g.bySlot[cur.slot]
		order = append(order, v.ID)

		for i, nb := range v.Adjacent {
			if settled[nb.slot] {
				continue
			}
			alt := cur.dist + v.Weights[i]
			if alt < dist[nb.slot] {
				dist[nb.slot] = alt
				pred[nb.slot] = cur.slot
				heap.Push(pq, frontierItem{slot: nb.slot, dist: alt})
			}
		}
	}

	return Result{Source: source, Order: order, Pred: pred, Dist: dist}, nil
}

type frontierItem struct {
	slot int
	dist int
}

// frontier is a min-heap on tentative distance, ties broken by slot so the
// settled order is deterministic.
type frontier []frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].dist != f[j].dist {
		return f[i].dist < f[j].dist
	}
	return f[i].slot < f[j].slot
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(frontierItem)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}
