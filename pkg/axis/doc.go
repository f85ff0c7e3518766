// Package axis provides the data sources that feed the waterfall layout engine.
//
// A [DataSource] has two jobs, both evaluated once per layout pass:
//
//   - PlotData converts the chart model into one [geom.PlotSeries] per
//     category, with bar rectangles in normalized [0,1] chart space.
//   - VisibleWindow decides which categories intersect the viewport for the
//     model's current scale and scroll position, and how far the first and
//     last visible category overhang the viewport edges.
//
// [Waterfall] is the default implementation. [Unwindowed] wraps any data
// source and turns windowing off. Callers may plug in their own
// implementation; the layout engine only depends on the interface contract.
package axis
