// Package geom holds the geometry types shared by the waterfall data sources,
// the layout engine and the renderers.
//
// Two coordinate spaces are in play:
//
//   - Normalized space: [Rect] values span [0,1] on both axes over the full,
//     unscrolled and unscaled chart. Data sources produce geometry here.
//   - Pixel space: [Size] and [Window] offsets are measured in viewport pixels.
//     The layout engine converts between the two using the model's scale.
//
// A [PlotSeries] groups the stacked bar segments of one category. A [Window]
// describes which categories are visible; [NoWindow] opts out of windowing.
package geom
