// Package pkg provides the core libraries for Waterfall chart layout and rendering.
//
// # Overview
//
// Waterfall lays out scrollable waterfall charts: given a chart model, a
// viewport, a zoom factor and a scroll offset, it determines which categories
// are visible and where each cluster of bars sits inside the scrollable strip.
// Only the visible window is ever laid out or drawn, so charts with thousands
// of categories stay cheap to page through.
//
// # Architecture
//
// The typical data flow:
//
//	chart file (JSON, TOML, YAML, XLSX)
//	         ↓
//	    [chart] package (model + codecs)
//	         ↓
//	    [axis] package (plot data + visible window)
//	         ↓
//	    [layout] package (cluster geometry + element sequence)
//	         ↓
//	    [render/sink] package (SVG, JSON, PNG, PDF)
//
// [pipeline] ties these stages together with caching, and [server] exposes
// the pipeline over HTTP.
//
// # Quick Start
//
// Lay out and render a chart:
//
//	import (
//	    "github.com/matzehuels/waterfall/pkg/axis"
//	    "github.com/matzehuels/waterfall/pkg/chart"
//	    "github.com/matzehuels/waterfall/pkg/geom"
//	    "github.com/matzehuels/waterfall/pkg/layout"
//	    "github.com/matzehuels/waterfall/pkg/render/sink"
//	)
//
//	m, _ := chart.ReadFile("quarterly.toml")
//	m.Scale, m.StartPos = 4, 600
//
//	viewport := geom.Size{Width: 800, Height: 400}
//	res := layout.Pass(axis.Waterfall{}, m, viewport, 0)
//	svg := sink.RenderSVG(res, sink.WithModel(m), sink.WithLabels())
//
// # Main Packages
//
// [geom] - Plot-space primitives (normalized rects, plot points, windows) and
// the column geometry formulas.
//
// [axis] - Data sources. [axis.Waterfall] computes running totals, normalized
// bar rects and the window of categories visible at a zoom and offset.
//
// [layout] - One layout pass: cluster width, inter-cluster gap, leading gap,
// strip width and the ordered element sequence.
//
// [render] - SVG to PDF/PNG conversion, output sinks and visual styles.
//
// [chart] - The chart model with JSON, TOML, YAML and XLSX codecs.
//
// [cache] - Artifact caching with file, Redis and null backends.
//
// [store] - Persistent chart storage on disk or in MongoDB.
//
// [observability] - Hooks for pipeline, cache and HTTP events, with a
// Prometheus implementation in observability/prom.
//
// [errors] - Coded errors shared by the CLI and the HTTP API.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/layout/...             # Specific package
//	go test -run Example                 # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/geom
// [axis]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/axis
// [axis.Waterfall]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/axis#Waterfall
// [layout]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/render/sink
// [chart]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/chart
// [cache]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/store
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/errors
package pkg
