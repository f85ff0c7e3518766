package styles

import "bytes"

// Style defines the visual appearance of a waterfall chart.
// Implementations control how bars, connectors, labels and the empty state
// are drawn. All coordinates are viewport pixels.
type Style interface {
	// RenderDefs writes SVG <defs> content (gradients, markers).
	RenderDefs(buf *bytes.Buffer)
	// RenderBar writes the SVG for a single bar segment.
	RenderBar(buf *bytes.Buffer, b Bar)
	// RenderConnector writes the line joining two adjacent clusters.
	RenderConnector(buf *bytes.Buffer, c Connector)
	// RenderLabel writes a category label.
	RenderLabel(buf *bytes.Buffer, l Label)
	// RenderEmpty writes the "no data" state for a w×h viewport.
	RenderEmpty(buf *bytes.Buffer, w, h float64)
}

// BarKind classifies a bar segment for coloring.
type BarKind string

const (
	BarIncrease BarKind = "increase"
	BarDecrease BarKind = "decrease"
	BarTotal    BarKind = "total"
)

// Bar is one bar segment in pixel space.
type Bar struct {
	Category   int     // Category index
	Segment    int     // Position within the cluster's stack
	Kind       BarKind // Coloring class
	X, Y, W, H float64 // Top-left corner and size
}

// ID returns a stable SVG element id for the bar.
func (b Bar) ID() string { return barID(b.Category, b.Segment) }

// Connector joins the running total at the end of one cluster to the start
// of the next.
type Connector struct {
	From, To       int     // Category indexes
	X1, Y1, X2, Y2 float64 // Line coordinates
}

// Label is a category caption centered under its cluster.
type Label struct {
	Category int
	Text     string
	CX, Y    float64 // Anchor point (horizontal center, baseline)
	W        float64 // Available width
}
