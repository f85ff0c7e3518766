package axis

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/geom"
)

// Waterfall is the default DataSource for waterfall charts.
//
// Each category becomes one cluster. Regular categories float between the
// running total before and after them; totals are anchored at the zero
// baseline. Stacked values within a category stack in order.
//
// Visibility is a viewport intersection test on the scaled, scrolled
// columns. When the whole chart fits in the viewport without scrolling the
// window is [geom.NoWindow].
type Waterfall struct {
	// GapFraction is the gap-to-cluster width ratio. Zero means
	// [geom.DefaultGapFraction].
	GapFraction float64
}

func (w Waterfall) gap() float64 {
	if w.GapFraction == 0 {
		return geom.DefaultGapFraction
	}
	return w.GapFraction
}

// Levels returns, per category, the running total before and after it.
// Totals start at the baseline, so their "before" value is zero.
func Levels(m *chart.Model) (before, after []float64) {
	n := m.NumCategories()
	if n == 0 {
		return nil, nil
	}
	deltas := make([]float64, n)
	for i, c := range m.Categories {
		if !c.Total {
			deltas[i] = c.Delta()
		}
	}
	after = floats.CumSum(make([]float64, n), deltas)
	before = make([]float64, n)
	for i, c := range m.Categories {
		if !c.Total {
			before[i] = after[i] - deltas[i]
		}
	}
	return before, after
}

// PlotData implements DataSource.
func (w Waterfall) PlotData(m *chart.Model) []geom.PlotSeries {
	n := m.NumCategories()
	if n == 0 {
		return nil
	}

	before, after := Levels(m)
	segments := make([][][2]float64, n)
	ends := []float64{0}
	for i, c := range m.Categories {
		segments[i] = stackSegments(c, before[i], after[i])
		for _, s := range segments[i] {
			ends = append(ends, s[0], s[1])
		}
	}

	lo, hi := floats.Min(ends), floats.Max(ends)
	span := hi - lo
	if span == 0 {
		span = 1
	}

	inc := geom.ColumnXIncrement(n, w.gap())
	width := geom.ClusterWidthFraction(n, w.gap())

	out := make([]geom.PlotSeries, n)
	for i := range m.Categories {
		series := make(geom.PlotSeries, 0, len(segments[i]))
		for _, s := range segments[i] {
			top := math.Max(s[0], s[1])
			series = append(series, geom.PlotPoint{
				CategoryIndex: i,
				Rect: geom.Rect{
					X:      float64(i) * inc,
					Y:      (hi - top) / span,
					Width:  width,
					Height: math.Abs(s[1]-s[0]) / span,
				},
			})
		}
		out[i] = series
	}
	return out
}

// stackSegments returns the [from, to] value range of every bar segment in
// c. The result always holds at least one segment so that every category
// yields a non-empty series.
func stackSegments(c chart.Category, before, after float64) [][2]float64 {
	if c.Total || len(c.Values) == 0 {
		return [][2]float64{{before, after}}
	}
	segs := make([][2]float64, 0, len(c.Values))
	level := before
	for _, v := range c.Values {
		segs = append(segs, [2]float64{level, level + v})
		level += v
	}
	return segs
}

// VisibleWindow implements DataSource.
func (w Waterfall) VisibleWindow(m *chart.Model, viewport geom.Size) geom.Window {
	n := m.NumCategories()
	if n == 0 || viewport.Width <= 0 {
		return geom.NoWindow
	}

	scale := m.EffectiveScale()
	if scale <= 1 && m.StartPos == 0 {
		return geom.NoWindow
	}

	chartWidth := scale * viewport.Width
	unit := geom.ColumnXIncrement(n, w.gap()) * chartWidth
	column := geom.ClusterWidthFraction(n, w.gap()) * chartWidth
	if unit <= 0 || math.IsInf(unit, 0) || math.IsNaN(unit) {
		return geom.NoWindow
	}

	start := m.StartPos
	end := m.StartPos + viewport.Width

	startIndex := clampIndex(math.Floor(start/unit), 0, n-1)
	endIndex := clampIndex(math.Ceil(end/unit)-1, startIndex, n-1)

	return geom.Window{
		StartIndex:  startIndex,
		EndIndex:    endIndex,
		StartOffset: float64(startIndex)*unit - start,
		EndOffset:   math.Max(0, float64(endIndex)*unit+column-end),
	}
}

// clampIndex clamps in float space so offsets beyond the int range cannot
// wrap around on conversion.
func clampIndex(v float64, lo, hi int) int {
	return int(math.Max(float64(lo), math.Min(float64(hi), v)))
}

var _ DataSource = Waterfall{}
