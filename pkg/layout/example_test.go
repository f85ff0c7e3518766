package layout_test

import (
	"fmt"

	"github.com/matzehuels/waterfall/pkg/axis"
	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/geom"
	"github.com/matzehuels/waterfall/pkg/layout"
)

func ExamplePass() {
	m := &chart.Model{Categories: []chart.Category{
		{Label: "Q1", Values: []float64{120}},
		{Label: "Q2", Values: []float64{-40}},
		{Label: "Q3", Values: []float64{25}},
		{Label: "Year", Total: true},
	}}

	res := layout.Pass(axis.Waterfall{GapFraction: 0.25}, m, geom.Size{Width: 380, Height: 200}, 0.25)

	for _, e := range res.Elements {
		fmt.Printf("%-7s %d x=%.0f w=%.0f\n", e.Kind, e.CategoryIndex, res.StripLeft()+e.OriginX, e.Width)
	}
	// Output:
	// cluster 0 x=0 w=80
	// gap     0 x=80 w=20
	// cluster 1 x=100 w=80
	// gap     1 x=180 w=20
	// cluster 2 x=200 w=80
	// gap     2 x=280 w=20
	// cluster 3 x=300 w=80
}

func ExampleCompute() {
	res := layout.Compute(layout.Input{
		N:           5,
		GapFraction: 0.2,
		Scale:       1,
		Viewport:    geom.Size{Width: 300, Height: 200},
		Window:      geom.NoWindow,
		Series:      make([]geom.PlotSeries, 5),
	})
	g := res.Geometry
	fmt.Printf("increment=%.4f width=%.4f\n", g.ColumnXIncrement, g.ClusterWidthFraction)
	fmt.Printf("cluster=%.2fpt gap=%.2fpt\n", g.ClusterWidthPoints, g.ClusterGapPoints)
	fmt.Printf("total=%.0f center=(%.0f, %.0f)\n", g.TotalWidthPoints, g.CenterX, g.CenterY)
	// Output:
	// increment=0.2069 width=0.1724
	// cluster=51.72pt gap=10.34pt
	// total=300 center=(150, 100)
}
