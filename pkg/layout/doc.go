// Package layout computes the horizontal geometry of a waterfall chart inside
// a scrollable, zoomable viewport.
//
// # Overview
//
// A chart with N categories is drawn as N column clusters separated by N-1
// gaps. The gap fraction g is the gap width relative to a cluster width, so
// the normalized distance between two cluster starts is
//
//	inc = 1 / (N - g/(1+g))
//
// and one cluster is inc/(1+g) wide. With these values the last cluster ends
// exactly at 1. Pixel widths multiply by the zoom scale and the viewport
// width.
//
// # Windowing
//
// Only categories inside the visible window are laid out. The window's start
// and end offsets describe how far the first and last visible cluster
// overhang the viewport edges; the strip is widened and re-centered so those
// clusters land at the right viewport position:
//
//	StartOffset < 0: total = W - StartOffset + EndOffset, centerX = (W + StartOffset + EndOffset) / 2
//	otherwise:       total = W + EndOffset,               centerX = (W + EndOffset) / 2
//
// When the first visible category starts inside the viewport, a leading
// spacer pushes it right. The strip's left edge in viewport coordinates is
// [Result.StripLeft].
//
// # Usage
//
// [Pass] runs a complete pass against an [axis.DataSource]:
//
//	res := layout.Pass(axis.Waterfall{}, model, geom.Size{Width: 800, Height: 400}, 0)
//	for _, e := range res.Clusters() {
//	    x := res.StripLeft() + e.OriginX
//	    // draw e.Series at x with width e.Width
//	}
//
// [Compute] is the pure geometry step and can be driven directly by callers
// that resolve plot data and windows themselves. Nothing is cached between
// passes; every call allocates fresh output.
package layout
