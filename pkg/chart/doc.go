// Package chart defines the waterfall chart data model.
//
// A [Model] is an ordered list of [Category] values plus the viewport state
// the user is looking at: a zoom [Model.Scale] and a horizontal scroll
// position [Model.StartPos] in pixels. Categories contribute the sum of their
// values to a running total; categories marked Total show the running total
// itself, which is how subtotal and grand-total columns are expressed.
//
// Models can be stored as JSON, TOML, YAML or an .xlsx workbook; [ReadFile]
// and [WriteFile] pick the encoding from the file extension:
//
//	title = "Operating income"
//	scale = 2.0
//
//	[[categories]]
//	label = "Revenue"
//	values = [120.0]
//
//	[[categories]]
//	label = "Cost of sales"
//	values = [-45.0, -12.5]
//
//	[[categories]]
//	label = "Gross profit"
//	total = true
//
// The model is read-only to the layout engine; callers that need to change
// scroll or zoom between passes should [Model.Clone] and mutate the copy.
package chart
