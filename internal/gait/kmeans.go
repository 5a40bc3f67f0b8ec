package gait

// twoMeans clusters scalar values into two groups with a Lloyd loop.
// Centroids are seeded at the minimum and maximum of the data, which
// is fully deterministic and converges quickly on the bimodal variance
// signals this stage sees. The returned slice is true for members of
// the lower-centroid cluster.
func twoMeans(values []float64) (low []bool, centLow, centHigh float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	low = make([]bool, len(values))
	centLow, centHigh = lo, hi
	if lo == hi {
		// Constant signal: a single cluster, everything is "low".
		for i := range low {
			low[i] = true
		}
		return low, centLow, centHigh
	}

	const maxIter = 100
	for iter := 0; iter < maxIter; iter++ {
		var sumLow, sumHigh float64
		var nLow, nHigh int

		for i, v := range values {
			// Ties go to the lower cluster.
			if v-centLow <= centHigh-v {
				low[i] = true
				sumLow += v
				nLow++
			} else {
				low[i] = false
				sumHigh += v
				nHigh++
			}
		}

		newLow, newHigh := centLow, centHigh
		if nLow > 0 {
			newLow = sumLow / float64(nLow)
		}
		if nHigh > 0 {
			newHigh = sumHigh / float64(nHigh)
		}
		if newLow == centLow && newHigh == centHigh {
			break
		}
		centLow, centHigh = newLow, newHigh
	}
	return low, centLow, centHigh
}
