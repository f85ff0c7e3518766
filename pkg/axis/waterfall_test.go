package axis

import (
	"math"
	"testing"

	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/geom"
)

const eps = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < eps }

func sampleModel() *chart.Model {
	return &chart.Model{
		Categories: []chart.Category{
			{Label: "open", Values: []float64{100}},
			{Label: "churn", Values: []float64{-30}},
			{Label: "upsell", Values: []float64{10, 20}},
			{Label: "close", Total: true},
		},
	}
}

func TestLevels(t *testing.T) {
	before, after := Levels(sampleModel())

	wantBefore := []float64{0, 100, 70, 0}
	wantAfter := []float64{100, 70, 100, 100}
	for i := range wantBefore {
		if before[i] != wantBefore[i] || after[i] != wantAfter[i] {
			t.Errorf("category %d: got (%v, %v), want (%v, %v)",
				i, before[i], after[i], wantBefore[i], wantAfter[i])
		}
	}

	if b, a := Levels(&chart.Model{}); b != nil || a != nil {
		t.Error("empty model should have no levels")
	}
}

func TestPlotData(t *testing.T) {
	m := sampleModel()
	ds := Waterfall{GapFraction: 0.2}
	pd := ds.PlotData(m)

	if len(pd) != 4 {
		t.Fatalf("len(PlotData) = %d, want 4", len(pd))
	}

	inc := geom.ColumnXIncrement(4, 0.2)
	for i, s := range pd {
		if len(s) == 0 {
			t.Fatalf("series %d is empty", i)
		}
		for _, p := range s {
			if p.CategoryIndex != i {
				t.Errorf("series %d has point for category %d", i, p.CategoryIndex)
			}
			if !approx(p.Rect.X, float64(i)*inc) {
				t.Errorf("series %d X = %v, want %v", i, p.Rect.X, float64(i)*inc)
			}
			if !p.Rect.Normalized() {
				t.Errorf("series %d rect %+v not normalized", i, p.Rect)
			}
		}
	}

	// Stacked category keeps one point per value.
	if len(pd[2]) != 2 {
		t.Errorf("stacked category has %d points, want 2", len(pd[2]))
	}

	// Range is [0, 100]: the opening bar spans the full height.
	if !approx(pd[0][0].Rect.Y, 0) || !approx(pd[0][0].Rect.Height, 1) {
		t.Errorf("opening bar = %+v, want full height", pd[0][0].Rect)
	}

	// The churn bar hangs from 100 down to 70.
	if !approx(pd[1][0].Rect.Y, 0) || !approx(pd[1][0].Rect.Height, 0.3) {
		t.Errorf("churn bar = %+v, want y=0 h=0.3", pd[1][0].Rect)
	}

	// The last cluster ends exactly at the right edge.
	last := pd[3][0].Rect
	if !approx(last.Right(), 1) {
		t.Errorf("last cluster right edge = %v, want 1", last.Right())
	}
}

func TestPlotDataNegativeRange(t *testing.T) {
	m := &chart.Model{Categories: []chart.Category{
		{Label: "loss", Values: []float64{-50}},
		{Label: "recovery", Values: []float64{20}},
	}}
	pd := Waterfall{}.PlotData(m)

	// Range is [-50, 0]; the loss bar fills it.
	if r := pd[0][0].Rect; !approx(r.Y, 0) || !approx(r.Height, 1) {
		t.Errorf("loss bar = %+v, want full height", r)
	}
	if r := pd[1][0].Rect; !approx(r.Y, 0.6) || !approx(r.Height, 0.4) {
		t.Errorf("recovery bar = %+v, want y=0.6 h=0.4", r)
	}
}

func TestPlotDataFlat(t *testing.T) {
	m := &chart.Model{Categories: []chart.Category{{Label: "a"}, {Label: "b"}}}
	pd := Waterfall{}.PlotData(m)
	for i, s := range pd {
		if len(s) != 1 || s[0].Rect.Height != 0 {
			t.Errorf("series %d = %+v, want one zero-height point", i, s)
		}
	}

	if pd := (Waterfall{}).PlotData(&chart.Model{}); pd != nil {
		t.Errorf("empty model PlotData = %v, want nil", pd)
	}
}

func TestVisibleWindow(t *testing.T) {
	viewport := geom.Size{Width: 300, Height: 200}
	ds := Waterfall{GapFraction: 0.2}
	n := 10
	cats := make([]chart.Category, n)
	for i := range cats {
		cats[i] = chart.Category{Values: []float64{1}}
	}
	unit := geom.ColumnXIncrement(n, 0.2) * 2 * viewport.Width
	column := geom.ClusterWidthFraction(n, 0.2) * 2 * viewport.Width

	tests := []struct {
		name      string
		scale     float64
		startPos  float64
		want      geom.Window
		wantNoWin bool
	}{
		{name: "fits", scale: 1, wantNoWin: true},
		{name: "zoomed out", scale: 0.5, wantNoWin: true},
		{
			name:  "zoomed at origin",
			scale: 2,
			want: geom.Window{
				StartIndex: 0,
				EndIndex:   int(math.Ceil(300/unit)) - 1,
				EndOffset:  math.Max(0, float64(int(math.Ceil(300/unit))-1)*unit+column-300),
			},
		},
		{
			name:     "scrolled mid-category",
			scale:    2,
			startPos: 1.5 * unit,
			want: geom.Window{
				StartIndex:  1,
				EndIndex:    int(math.Ceil((1.5*unit+300)/unit)) - 1,
				StartOffset: -0.5 * unit,
				EndOffset:   math.Max(0, float64(int(math.Ceil((1.5*unit+300)/unit))-1)*unit+column-1.5*unit-300),
			},
		},
		{
			name:     "scrolled before start",
			scale:    2,
			startPos: -40,
			want: geom.Window{
				StartIndex:  0,
				EndIndex:    int(math.Ceil(260/unit)) - 1,
				StartOffset: 40,
				EndOffset:   math.Max(0, float64(int(math.Ceil(260/unit))-1)*unit+column-260),
			},
		},
		{
			name:     "scrolled to end",
			scale:    2,
			startPos: 300,
			want: geom.Window{
				StartIndex:  int(math.Floor(300 / unit)),
				EndIndex:    n - 1,
				StartOffset: math.Floor(300/unit)*unit - 300,
				EndOffset:   0,
			},
		},
		{
			name:     "scrolled far past end",
			scale:    2,
			startPos: 1e300,
			want: geom.Window{
				StartIndex:  n - 1,
				EndIndex:    n - 1,
				StartOffset: float64(n-1)*unit - 1e300,
				EndOffset:   0,
			},
		},
		{
			name:     "scrolled far before start",
			scale:    2,
			startPos: -1e300,
			want: geom.Window{
				StartIndex:  0,
				EndIndex:    0,
				StartOffset: 1e300,
				EndOffset:   column - (-1e300 + 300),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &chart.Model{Categories: cats, Scale: tt.scale, StartPos: tt.startPos}
			got := ds.VisibleWindow(m, viewport)
			if tt.wantNoWin {
				if got != geom.NoWindow {
					t.Errorf("VisibleWindow() = %+v, want NoWindow", got)
				}
				return
			}
			if got.StartIndex != tt.want.StartIndex || got.EndIndex != tt.want.EndIndex {
				t.Errorf("indexes = [%d, %d], want [%d, %d]",
					got.StartIndex, got.EndIndex, tt.want.StartIndex, tt.want.EndIndex)
			}
			if !approx(got.StartOffset, tt.want.StartOffset) {
				t.Errorf("StartOffset = %v, want %v", got.StartOffset, tt.want.StartOffset)
			}
			if !approx(got.EndOffset, tt.want.EndOffset) {
				t.Errorf("EndOffset = %v, want %v", got.EndOffset, tt.want.EndOffset)
			}
			if got.StartIndex > got.EndIndex || got.EndIndex >= n {
				t.Errorf("window %+v violates 0 <= start <= end < %d", got, n)
			}
		})
	}
}

func TestVisibleWindowDegenerate(t *testing.T) {
	ds := Waterfall{}
	if got := ds.VisibleWindow(&chart.Model{Scale: 3}, geom.Size{Width: 100, Height: 100}); got != geom.NoWindow {
		t.Errorf("empty model window = %+v, want NoWindow", got)
	}
	m := &chart.Model{Scale: 3, Categories: []chart.Category{{Values: []float64{1}}}}
	if got := ds.VisibleWindow(m, geom.Size{}); got != geom.NoWindow {
		t.Errorf("zero viewport window = %+v, want NoWindow", got)
	}
}

func TestUnwindowed(t *testing.T) {
	m := sampleModel()
	m.Scale = 4
	m.StartPos = 100
	ds := Unwindowed{Waterfall{}}

	if got := ds.VisibleWindow(m, geom.Size{Width: 300, Height: 200}); got != geom.NoWindow {
		t.Errorf("Unwindowed.VisibleWindow() = %+v, want NoWindow", got)
	}
	if got := ds.PlotData(m); len(got) != 4 {
		t.Errorf("Unwindowed.PlotData() len = %d, want 4", len(got))
	}
}
