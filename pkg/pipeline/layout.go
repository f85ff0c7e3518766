package pipeline

import (
	"github.com/matzehuels/waterfall/pkg/axis"
	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/layout"
)

// DataSource returns the data source the options select: the waterfall
// source, wrapped to disable windowing when NoWindow is set.
func DataSource(opts Options) axis.DataSource {
	ds := axis.Waterfall{GapFraction: opts.GapFraction}
	if opts.NoWindow {
		return axis.Unwindowed{DataSource: ds}
	}
	return ds
}

// ComputeLayout runs one layout pass over m. m must already have overrides
// applied (see [Options.ApplyTo]) and opts must have layout defaults set.
func ComputeLayout(m *chart.Model, opts Options) layout.Result {
	return layout.Pass(DataSource(opts), m, opts.Viewport(), opts.GapFraction)
}
