package layout

import (
	"math"

	"github.com/matzehuels/waterfall/pkg/geom"
)

// Kind identifies an element of the horizontal strip.
type Kind string

const (
	// KindLeadingGap is the spacer before the first cluster when the first
	// visible category starts inside the viewport.
	KindLeadingGap Kind = "leading_gap"
	// KindCluster is one category's column cluster.
	KindCluster Kind = "cluster"
	// KindGap separates a cluster from the next one.
	KindGap Kind = "gap"
)

// Element is one item of the strip, in left-to-right order.
//
// OriginX is measured from the strip's left edge; add [Result.StripLeft] to
// get a viewport coordinate. CategoryIndex is -1 for the leading spacer and
// the index of the preceding cluster for gaps.
type Element struct {
	Kind          Kind            `json:"kind"`
	CategoryIndex int             `json:"category"`
	OriginX       float64         `json:"x"`
	Width         float64         `json:"width"`
	Series        geom.PlotSeries `json:"points,omitempty"`
}

// ClusterGeometry holds the pixel metrics of one layout pass.
type ClusterGeometry struct {
	ColumnXIncrement     float64 `json:"column_x_increment"`
	ClusterWidthFraction float64 `json:"cluster_width_fraction"`
	ClusterWidthPoints   float64 `json:"cluster_width"`
	ClusterGapPoints     float64 `json:"cluster_gap"`
	LeadingGapPoints     float64 `json:"leading_gap"`
	TotalWidthPoints     float64 `json:"total_width"`
	CenterX              float64 `json:"center_x"`
	CenterY              float64 `json:"center_y"`
}

// Input is everything Compute needs for one pass.
type Input struct {
	// N is the total number of categories in the model, not the number of
	// visible ones.
	N           int
	GapFraction float64
	Scale       float64
	StartPos    float64
	Viewport    geom.Size
	Window      geom.Window

	// Series holds the clusters to lay out: the windowed slice when Window
	// is valid, the full sequence otherwise.
	Series []geom.PlotSeries
}

// Result is the output of one layout pass.
type Result struct {
	// Empty marks the "no data" state. Geometry and Elements are zero.
	Empty bool `json:"empty"`

	N        int             `json:"categories"`
	Scale    float64         `json:"scale"`
	StartPos float64         `json:"start_pos"`
	Viewport geom.Size       `json:"viewport"`
	Window   geom.Window     `json:"window"`
	Geometry ClusterGeometry `json:"geometry"`
	Elements []Element       `json:"elements,omitempty"`
}

// StripLeft returns the viewport x coordinate of the strip's left edge.
// It is negative when the first visible cluster is clipped.
func (r Result) StripLeft() float64 {
	return r.Geometry.CenterX - r.Geometry.TotalWidthPoints/2
}

// Clusters returns the cluster elements in order.
func (r Result) Clusters() []Element {
	out := make([]Element, 0, len(r.Elements))
	for _, e := range r.Elements {
		if e.Kind == KindCluster {
			out = append(out, e)
		}
	}
	return out
}

// Compute lays out the visible clusters for one pass. It never fails:
// degenerate inputs yield an empty result, and divisors are guarded.
func Compute(in Input) Result {
	res := Result{
		N:        in.N,
		Scale:    in.Scale,
		StartPos: in.StartPos,
		Viewport: in.Viewport,
		Window:   in.Window,
	}
	if in.N <= 0 || len(in.Series) == 0 {
		res.Empty = true
		return res
	}

	w := in.Viewport.Width
	n := float64(in.N)
	g := in.GapFraction
	so, eo := in.Window.StartOffset, in.Window.EndOffset

	geo := ClusterGeometry{
		ColumnXIncrement:     geom.ColumnXIncrement(in.N, g),
		ClusterWidthFraction: geom.ClusterWidthFraction(in.N, g),
		CenterY:              in.Viewport.Height / 2,
	}
	geo.ClusterWidthPoints = geo.ClusterWidthFraction * in.Scale * w
	geo.ClusterGapPoints = w * (1 - geo.ClusterWidthFraction*n) * in.Scale / math.Max(n-1, 1)
	geo.LeadingGapPoints = leadingGap(in.Series[0], so, in.Scale, w, in.StartPos)

	if so < 0 {
		geo.TotalWidthPoints = w - so + eo
		geo.CenterX = (w + so + eo) / 2
	} else {
		geo.TotalWidthPoints = w + eo
		geo.CenterX = (w + eo) / 2
	}
	res.Geometry = geo
	res.Elements = elements(in, geo)
	return res
}

func leadingGap(first geom.PlotSeries, startOffset, scale, width, startPos float64) float64 {
	if startOffset <= 0 || len(first) == 0 {
		return 0
	}
	return math.Abs(first[0].Rect.X*scale*width - startPos)
}

func elements(in Input, geo ClusterGeometry) []Element {
	out := make([]Element, 0, 2*len(in.Series)+1)
	var x float64
	if geo.LeadingGapPoints > 0 {
		out = append(out, Element{Kind: KindLeadingGap, CategoryIndex: -1, Width: geo.LeadingGapPoints})
		x += geo.LeadingGapPoints
	}
	for i, s := range in.Series {
		idx := s.CategoryIndex()
		if idx < 0 {
			idx = seriesIndex(in.Window, i)
		}
		out = append(out, Element{
			Kind:          KindCluster,
			CategoryIndex: idx,
			OriginX:       x,
			Width:         geo.ClusterWidthPoints,
			Series:        s,
		})
		x += geo.ClusterWidthPoints
		if idx != in.N-1 {
			out = append(out, Element{Kind: KindGap, CategoryIndex: idx, OriginX: x, Width: geo.ClusterGapPoints})
			x += geo.ClusterGapPoints
		}
	}
	return out
}

// seriesIndex recovers the category of an empty series from its position.
func seriesIndex(w geom.Window, pos int) int {
	if w.Windowed() {
		return w.StartIndex + pos
	}
	return pos
}
