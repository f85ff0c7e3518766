package geom

// PlotPoint is one bar segment of a category.
type PlotPoint struct {
	CategoryIndex int  `json:"category"`
	Rect          Rect `json:"rect"`
}

// PlotSeries is the ordered set of bar segments for one category (a cluster).
// Order is draw order: later points stack on top of earlier ones.
type PlotSeries []PlotPoint

// CategoryIndex returns the category shared by the series, or -1 when empty.
func (s PlotSeries) CategoryIndex() int {
	if len(s) == 0 {
		return -1
	}
	return s[0].CategoryIndex
}

// Window is the contiguous range of categories visible in the viewport.
//
// StartOffset and EndOffset are signed pixel distances between the logical
// bounds of the first/last visible category and the viewport edges. A negative
// StartOffset means the first category begins before the viewport start.
type Window struct {
	StartIndex  int     `json:"start_index"`
	EndIndex    int     `json:"end_index"`
	StartOffset float64 `json:"start_offset"`
	EndOffset   float64 `json:"end_offset"`
}

// NoWindow is the sentinel meaning "use the entire dataset".
var NoWindow = Window{StartIndex: -1, EndIndex: -1}

// Windowed reports whether the window selects a sub-range.
func (w Window) Windowed() bool { return w.StartIndex >= 0 && w.EndIndex >= 0 }

// Len returns the number of categories in the window, or -1 for the sentinel.
func (w Window) Len() int {
	if !w.Windowed() {
		return -1
	}
	return w.EndIndex - w.StartIndex + 1
}
