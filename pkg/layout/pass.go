package layout

import (
	"github.com/matzehuels/waterfall/pkg/axis"
	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/geom"
)

// Pass runs one full layout pass: plot data and visible window from ds, the
// windowing slice, then Compute. A gap fraction of zero or less selects
// [geom.DefaultGapFraction].
//
// Windows from ds that break the index contract are clamped into range. A
// window with either index negative is treated as [geom.NoWindow].
func Pass(ds axis.DataSource, m *chart.Model, viewport geom.Size, gapFraction float64) Result {
	if gapFraction <= 0 {
		gapFraction = geom.DefaultGapFraction
	}
	n := m.NumCategories()
	in := Input{
		N:           n,
		GapFraction: gapFraction,
		Viewport:    viewport,
		Window:      geom.NoWindow,
		Scale:       chart.DefaultScale,
	}
	if m != nil {
		in.Scale = m.EffectiveScale()
		in.StartPos = m.StartPos
	}
	if n == 0 {
		return Compute(in)
	}

	series := ds.PlotData(m)
	in.Window = ClampWindow(ds.VisibleWindow(m, viewport), min(n, len(series)))
	in.Series = series
	if in.Window.Windowed() {
		in.Series = series[in.Window.StartIndex : in.Window.EndIndex+1]
	}
	return Compute(in)
}

// ClampWindow forces w into 0 <= StartIndex <= EndIndex < n. The sentinel,
// partial sentinels and any window over an empty dataset become
// [geom.NoWindow].
func ClampWindow(w geom.Window, n int) geom.Window {
	if !w.Windowed() || n <= 0 {
		return geom.NoWindow
	}
	w.StartIndex = min(w.StartIndex, n-1)
	w.EndIndex = max(w.StartIndex, min(w.EndIndex, n-1))
	return w
}
