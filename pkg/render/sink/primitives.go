package sink

import (
	"github.com/matzehuels/waterfall/pkg/axis"
	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/layout"
	"github.com/matzehuels/waterfall/pkg/render/styles"
)

const (
	padTop       = 8.0
	padBottom    = 8.0
	labelBand    = 20.0
	labelInset   = 6.0
	minBarHeight = 0.5
)

// plotArea is the vertical band bars are drawn into.
type plotArea struct {
	top, height float64
}

func newPlotArea(viewportHeight float64, labels bool) plotArea {
	bottom := padBottom
	if labels {
		bottom += labelBand
	}
	return plotArea{top: padTop, height: max(0, viewportHeight-padTop-bottom)}
}

// cluster is one laid-out category in viewport pixels.
type cluster struct {
	Category int
	Label    string
	X, W     float64
	Bars     []styles.Bar
	EndY     float64 // Running total after the category
}

// buildClusters positions every bar of every visible cluster. X comes from the
// layout elements; each point keeps its horizontal offset inside the cluster.
func buildClusters(res layout.Result, m *chart.Model, plot plotArea) []cluster {
	if res.Empty {
		return nil
	}
	var after []float64
	if m != nil {
		_, after = axis.Levels(m)
	}

	left := res.StripLeft()
	unit := res.Scale * res.Viewport.Width

	var out []cluster
	for _, e := range res.Elements {
		if e.Kind != layout.KindCluster {
			continue
		}
		c := cluster{
			Category: e.CategoryIndex,
			X:        left + e.OriginX,
			W:        e.Width,
			EndY:     plot.top + plot.height,
		}
		if m != nil && e.CategoryIndex < len(m.Categories) {
			c.Label = m.Categories[e.CategoryIndex].Label
		}
		if len(e.Series) == 0 {
			out = append(out, c)
			continue
		}

		x0 := e.Series[0].Rect.X
		c.Bars = make([]styles.Bar, 0, len(e.Series))
		for j, p := range e.Series {
			c.Bars = append(c.Bars, styles.Bar{
				Category: e.CategoryIndex,
				Segment:  j,
				Kind:     barKind(m, e.CategoryIndex, j),
				X:        c.X + (p.Rect.X-x0)*unit,
				Y:        plot.top + p.Rect.Y*plot.height,
				W:        p.Rect.Width * unit,
				H:        max(minBarHeight, p.Rect.Height*plot.height),
			})
		}
		c.EndY = endY(c.Bars[len(c.Bars)-1], after, e.CategoryIndex)
		out = append(out, c)
	}
	return out
}

func barKind(m *chart.Model, category, segment int) styles.BarKind {
	if m == nil || category >= len(m.Categories) {
		return styles.BarIncrease
	}
	c := m.Categories[category]
	switch {
	case c.Total:
		return styles.BarTotal
	case segment < len(c.Values) && c.Values[segment] < 0:
		return styles.BarDecrease
	default:
		return styles.BarIncrease
	}
}

// endY is the pixel height of the running total after the last segment:
// the top edge of a rising bar, the bottom edge of a falling one.
func endY(last styles.Bar, after []float64, category int) float64 {
	switch last.Kind {
	case styles.BarDecrease:
		return last.Y + last.H
	case styles.BarTotal:
		if category < len(after) && after[category] < 0 {
			return last.Y + last.H
		}
	}
	return last.Y
}

// buildConnectors joins each cluster to the next visible one when they are
// adjacent categories.
func buildConnectors(clusters []cluster) []styles.Connector {
	var out []styles.Connector
	for i := 0; i+1 < len(clusters); i++ {
		a, b := clusters[i], clusters[i+1]
		if b.Category != a.Category+1 || len(a.Bars) == 0 {
			continue
		}
		out = append(out, styles.Connector{
			From: a.Category, To: b.Category,
			X1: a.X + a.W, Y1: a.EndY,
			X2: b.X, Y2: a.EndY,
		})
	}
	return out
}

func buildLabels(res layout.Result, clusters []cluster) []styles.Label {
	out := make([]styles.Label, 0, len(clusters))
	width := res.Geometry.ClusterWidthPoints + res.Geometry.ClusterGapPoints
	for _, c := range clusters {
		if c.Label == "" {
			continue
		}
		out = append(out, styles.Label{
			Category: c.Category,
			Text:     c.Label,
			CX:       c.X + c.W/2,
			Y:        res.Viewport.Height - padBottom - labelInset,
			W:        width,
		})
	}
	return out
}
