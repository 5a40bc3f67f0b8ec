package pose

// ScoreFunc maps a normalised expected/measured length ratio (always
// >= 1) to a plausibility score. DefaultScore is the parabola
// -(x-1)² + 1, which peaks at 1 for a perfect match and falls off as
// the measured length diverges from the prior in either direction.
type ScoreFunc func(ratio float64) float64

// DefaultScore is the default plausibility score.
func DefaultScore(ratio float64) float64 {
	d := ratio - 1
	return -d*d + 1
}

// lengthRatio returns the ratio between a measured and expected
// length, normalised to be >= 1. Returns 0 (no score) when either
// input is zero; a zero measured distance means coincident hypotheses
// and a zero expected length means an uncalibrated pair.
func lengthRatio(measured, expected float64) (float64, bool) {
	if measured == 0 || expected == 0 {
		return 0, false
	}
	r := measured / expected
	if r < 1 {
		r = 1 / r
	}
	return r, true
}

// ScoreMatrix builds the symmetric plausibility score matrix over all
// hypothesis pairs. Entries whose label pair is absent from the length
// table are zero.
func ScoreMatrix(pop *Population, table *LengthTable, score ScoreFunc) [][]float64 {
	if score == nil {
		score = DefaultScore
	}

	n := pop.Len()
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			expected, ok := table.Get(pop.Label(i), pop.Label(j))
			if !ok {
				// The table is directional (label i < label j); probe
				// the reciprocal pair so the matrix stays symmetric.
				expected, ok = table.Get(pop.Label(j), pop.Label(i))
			}
			if !ok {
				continue
			}
			ratio, ok := lengthRatio(pop.Point(i).Dist(pop.Point(j)), expected)
			if !ok {
				continue
			}
			m[i][j] = score(ratio)
		}
	}
	return m
}

// FilterByPaths zeroes every score except those between population
// members that lie on one of the candidate paths and whose path
// positions are connected in the body graph. Path position k holds the
// hypothesis with label k, so the table lookup is by position.
func FilterByPaths(scores [][]float64, paths [][]int, table *LengthTable) [][]float64 {
	n := len(scores)
	filtered := make([][]float64, n)
	for i := range filtered {
		filtered[i] = make([]float64, n)
	}

	for _, path := range paths {
		for j := range path {
			for k := range path {
				if _, ok := table.Get(j, k); !ok {
					continue
				}
				a, b := path[j], path[k]
				filtered[a][b] = scores[a][b]
				filtered[b][a] = scores[b][a]
			}
		}
	}
	return filtered
}
