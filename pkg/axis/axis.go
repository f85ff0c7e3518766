package axis

import (
	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/geom"
)

// DataSource turns a chart model into plot geometry and decides which
// categories are visible in a viewport.
//
// The layout engine treats a DataSource as an opaque strategy: it relies only
// on the output contract below, never on how visibility is resolved.
type DataSource interface {
	// PlotData returns one series per category, in category order, with
	// rectangles in normalized chart space.
	PlotData(m *chart.Model) []geom.PlotSeries

	// VisibleWindow returns the inclusive range of visible categories and
	// the pixel offsets of its edges relative to the viewport. Returning
	// [geom.NoWindow] means "use every category".
	VisibleWindow(m *chart.Model, viewport geom.Size) geom.Window
}

// Unwindowed wraps a DataSource and disables windowing: every pass lays out
// the full dataset.
type Unwindowed struct {
	DataSource
}

// VisibleWindow always returns [geom.NoWindow].
func (Unwindowed) VisibleWindow(*chart.Model, geom.Size) geom.Window {
	return geom.NoWindow
}

var _ DataSource = Unwindowed{}
