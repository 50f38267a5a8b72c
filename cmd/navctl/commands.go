package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanshika/citynav/internal/config"
	"github.com/vanshika/citynav/internal/logging"
	"github.com/vanshika/citynav/internal/mapdata"
	"github.com/vanshika/citynav/internal/service"
)

type rootOptions struct {
	mapFile  string
	seed     int64
	workers  int
	lazy     bool
	logLevel string
	asJSON   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "navctl",
		Short:         "Query shortest paths on a city map file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.mapFile, "map", "", "map file (defaults to MAP_FILE)")
	root.PersistentFlags().Int64Var(&opts.seed, "seed", 0, "random seed for wander (defaults to NAV_SEED)")
	root.PersistentFlags().IntVar(&opts.workers, "workers", 0, "parallel table builders (defaults to NAV_WORKERS)")
	root.PersistentFlags().BoolVar(&opts.lazy, "lazy", false, "compute path tables on demand")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print results as JSON")

	root.AddCommand(
		newDistanceCmd(opts),
		newPathCmd(opts),
		newWanderCmd(opts),
		newStatsCmd(opts),
	)
	return root
}

func newDistanceCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "distance FROM TO",
		Short: "Print the hop count between two nodes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			svc, err := opts.load(cmd)
			if err != nil {
				return err
			}
			dist, err := svc.Distance(ids[0], ids[1])
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), map[string]int{"from": ids[0], "to": ids[1], "distance": dist},
				strconv.Itoa(dist))
		},
	}
}

func newPathCmd(opts *rootOptions) *cobra.Command {
	var reverse, nodes bool
	cmd := &cobra.Command{
		Use:   "path FROM TO",
		Short: "Print the shortest path between two nodes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			svc, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if nodes {
				visited, err := svc.PathNodes(ids[0], ids[1])
				if err != nil {
					return err
				}
				parts := make([]string, 0, len(visited))
				for _, id := range visited {
					parts = append(parts, strconv.Itoa(id))
				}
				return opts.print(cmd.OutOrStdout(), visited, strings.Join(parts, " "))
			}
			edges, err := svc.Path(ids[0], ids[1], reverse)
			if err != nil {
				return err
			}
			hops := make([]string, 0, len(edges))
			for _, e := range edges {
				hops = append(hops, fmt.Sprintf("%d->%d", e.From, e.To))
			}
			return opts.print(cmd.OutOrStdout(), edges, strings.Join(hops, " "))
		},
	}
	cmd.Flags().BoolVar(&reverse, "reverse", false, "list edges from destination back to source")
	cmd.Flags().BoolVar(&nodes, "nodes", false, "list visited node ids instead of edges")
	cmd.MarkFlagsMutuallyExclusive("reverse", "nodes")
	return cmd
}

func newWanderCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "wander FROM DISTANCE",
		Short: "Pick a random node exactly DISTANCE hops away",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			svc, err := opts.load(cmd)
			if err != nil {
				return err
			}
			node, err := svc.RandomNodeAtDistance(ids[0], ids[1])
			if err != nil {
				return err
			}
			n, err := svc.Node(node)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), n, fmt.Sprintf("%d %s", n.ID, n.Name))
		},
	}
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarise the navigation graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.load(cmd)
			if err != nil {
				return err
			}
			stats, err := svc.Stats()
			if err != nil {
				return err
			}
			text := fmt.Sprintf("nodes=%d edges=%d tables=%d skipped_edges=%d duplicate_nodes=%d",
				stats.Nodes, stats.Edges, stats.Tables, stats.SkippedEdges, stats.DuplicateNodes)
			return opts.print(cmd.OutOrStdout(), stats, text)
		},
	}
}

// load builds a navigation service over the map file, filling unset flags
// from the environment.
func (o *rootOptions) load(cmd *cobra.Command) (*service.NavigationService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.mapFile != "" {
		cfg.Map.File = o.mapFile
	}
	if o.seed != 0 {
		cfg.Nav.Seed = o.seed
	}
	if o.workers > 0 {
		cfg.Nav.Workers = o.workers
	}
	if o.lazy {
		cfg.Nav.LazyTables = true
	}
	cfg.Logging.Level = o.logLevel

	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging)
	svc := service.NewNavigationService(mapdata.NewFileSource(cfg.Map.File, logger), service.Options{
		Workers: cfg.Nav.Workers,
		Lazy:    cfg.Nav.LazyTables,
		Seed:    cfg.Nav.Seed,
		Logger:  logger,
	})
	if err := svc.Reload(cmd.Context()); err != nil {
		return nil, err
	}
	return svc, nil
}

func (o *rootOptions) print(w io.Writer, value any, text string) error {
	if o.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

func parseIDs(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("argument %q is not an integer", a)
		}
		out[i] = v
	}
	return out, nil
}
