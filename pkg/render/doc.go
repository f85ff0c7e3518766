// Package render turns layout results into chart artifacts.
//
// # Overview
//
// Rendering consumes a [layout.Result] and never recomputes layout: bar
// positions, widths and the strip offset all come from the layout pass. This
// package provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Output sinks for SVG, JSON, PNG and PDF (in [sink] subpackage)
//   - Visual styles (in [styles] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(res, sink.WithModel(m))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// A missing converter is reported with code UNSUPPORTED.
//
// [layout.Result]: github.com/matzehuels/waterfall/pkg/layout.Result
// [sink]: github.com/matzehuels/waterfall/pkg/render/sink
// [styles]: github.com/matzehuels/waterfall/pkg/render/styles
package render
