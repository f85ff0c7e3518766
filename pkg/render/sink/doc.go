// Package sink writes waterfall layout results to output formats.
//
// # Formats
//
//   - [RenderSVG]: a viewport-sized, clipped SVG drawn through a [styles.Style]
//   - [RenderJSON]: geometry, strip elements and pixel bars for external renderers
//   - [RenderPNG], [RenderPDF]: SVG converted with rsvg-convert
//
// # Positioning
//
// Sinks never recompute layout. A cluster's left edge is
//
//	res.StripLeft() + element.OriginX
//
// and its width is the element width. Bars inside a cluster keep their
// horizontal offset from the cluster's first point, scaled to pixels; their
// vertical position maps normalized Y onto the plot band between the top
// padding and the label band.
//
// Connectors join the running total after one cluster to the next visible
// cluster. No connector leaves the last category.
//
// # Options
//
// Sinks use functional options:
//
//	svg := sink.RenderSVG(res,
//	    sink.WithModel(m),
//	    sink.WithLabels(),
//	    sink.WithConnectors(),
//	)
//
//	png, err := sink.RenderPNG(ctx, res,
//	    sink.WithPNGSVGOptions(sink.WithModel(m)),
//	    sink.WithScale(2),
//	)
//
// [styles.Style]: github.com/matzehuels/waterfall/pkg/render/styles.Style
package sink
