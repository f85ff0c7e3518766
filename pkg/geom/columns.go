package geom

// DefaultGapFraction is the ratio of the gap between two clusters to the
// width of one cluster.
const DefaultGapFraction = 0.333

// ColumnXIncrement returns the normalized distance from the start of one
// cluster to the start of the next for n categories: 1 / (n − g/(1+g)).
// The last cluster carries no trailing gap, so n clusters and n−1 gaps span
// exactly [0,1]. The result is undefined for n < 1.
func ColumnXIncrement(n int, gapFraction float64) float64 {
	return 1.0 / (float64(n) - gapFraction/(1.0+gapFraction))
}

// ClusterWidthFraction returns the normalized width of one cluster without
// its gap.
func ClusterWidthFraction(n int, gapFraction float64) float64 {
	return ColumnXIncrement(n, gapFraction) / (1.0 + gapFraction)
}
