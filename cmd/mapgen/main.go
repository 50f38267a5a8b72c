package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vanshika/citynav/internal/generator"
	"github.com/vanshika/citynav/internal/mapdata"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		name        = flag.String("name", cfg.Name, "map name")
		rows        = flag.Int("rows", cfg.Rows, "number of street corner rows")
		cols        = flag.Int("cols", cfg.Cols, "number of street corner columns")
		removeShare = flag.Float64("remove-chance", cfg.RemoveStreetChance, "probability of dropping a street not needed for connectivity")
		shortcut    = flag.Float64("shortcut-chance", cfg.ShortcutChance, "probability of a diagonal street across a block")
		isolated    = flag.Int("isolated", cfg.IsolatedNodes, "number of unconnected landmarks")
		seed        = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		output      = flag.String("output", "maps/city.yaml", "map file to write (.yaml, .yml or .json)")
		writeStdout = flag.String("stdout", "", "write the map to stdout in this format (yaml|json) instead of a file")
	)
	flag.Parse()

	genCfg := generator.Config{
		Name:               *name,
		Rows:               *rows,
		Cols:               *cols,
		RemoveStreetChance: *removeShare,
		ShortcutChance:     *shortcut,
		IsolatedNodes:      *isolated,
		Seed:               *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	gen := generator.New(genCfg)
	world, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout != "" {
		if err := generator.EncodeMap(os.Stdout, world, mapdata.Format(*writeStdout)); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write map to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteMap(world, *output); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write map: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d nodes and %d connections into %s\n", len(world.Nodes), len(world.Connections()), *output)
}
