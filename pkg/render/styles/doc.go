// Package styles defines how waterfall chart primitives are drawn as SVG.
//
// A [Style] receives fully positioned primitives in viewport pixels: [Bar]
// segments, [Connector] lines between clusters, category [Label] captions,
// and the empty state. Styles never compute layout; they only decide how a
// primitive looks.
//
// [Simple] is the built-in style:
//
//	svg := sink.RenderSVG(res, sink.WithStyle(styles.Simple{}))
package styles
