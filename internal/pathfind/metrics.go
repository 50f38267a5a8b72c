package pathfind

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tableBuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "citynav_path_table_builds_total",
		Help: "Path table cache builds by outcome",
	}, []string{"result"})

	tableBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "citynav_path_table_build_duration_seconds",
		Help:    "Time to build every path table for a graph",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	skippedEdgesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "citynav_graph_skipped_edges_total",
		Help: "Neighbor references skipped while building graphs",
	})

	duplicateNodesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "citynav_graph_duplicate_nodes_total",
		Help: "Duplicate node identifiers skipped while building graphs",
	})

	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "citynav_path_queries_total",
		Help: "Navigator queries by kind and result",
	}, []string{"query", "result"})
)

func observeQuery(query string, err error) {
	queriesTotal.WithLabelValues(query, resultLabel(err)).Inc()
}
