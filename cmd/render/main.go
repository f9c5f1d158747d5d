// Command render turns a substrate snapshot JSON file into a PNG without a
// running server. Useful for debugging layout and encoding changes against
// captured basket data.
package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/substratehq/graphview/pkg/graph"
	"github.com/substratehq/graphview/pkg/layout"
	"github.com/substratehq/graphview/pkg/logger"
	"github.com/substratehq/graphview/pkg/logger/console"
	"github.com/substratehq/graphview/pkg/render"
	"github.com/substratehq/graphview/pkg/substrate"
)

func main() {
	input := flag.String("in", "", "path to a snapshot JSON file")
	output := flag.String("out", "graph.png", "path of the PNG to write")
	algorithm := flag.String("layout", "circular", "layout algorithm: circular, hierarchical or scatter")
	zoom := flag.Float64("zoom", 1.0, "zoom level, clamped to [0.5, 2.0]")
	scale := flag.Float64("scale", 1.0, "backing image scale factor")
	labels := flag.Bool("labels", true, "draw node labels")
	weights := flag.Bool("weights", false, "draw edge weights")
	flag.Parse()

	logger.Init(console.New(console.Params{}))

	if *input == "" {
		logger.Fatal("Missing required -in flag")
	}

	raw, err := os.ReadFile(*input)
	if err != nil {
		logger.Fatal("Failed to read snapshot", "path", *input, "err", err)
	}
	var snap substrate.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		logger.Fatal("Failed to parse snapshot", "path", *input, "err", err)
	}

	g := graph.Build(snap, graph.AllVisible())
	g = layout.Apply(g, layout.ParseAlgorithm(*algorithm))

	data, err := render.RenderPNG(render.Frame{
		Graph:       g,
		Zoom:        render.ClampZoom(*zoom),
		ShowLabels:  *labels,
		ShowWeights: *weights,
	}, layout.CanvasWidth, layout.CanvasHeight, *scale)
	if err != nil {
		logger.Fatal("Failed to render graph", "err", err)
	}

	if err := os.WriteFile(*output, data, 0o644); err != nil {
		logger.Fatal("Failed to write image", "path", *output, "err", err)
	}
	logger.Info("Rendered graph", "nodes", len(g.Nodes), "edges", len(g.Edges), "out", *output)
}
