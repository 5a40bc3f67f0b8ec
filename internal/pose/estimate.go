package pose

import (
	"fmt"
	"math"
	"sort"
)

// EstimateSegments estimates the expected consecutive segment lengths
// for a subject from the trial's own frames, for use when no
// calibration table is supplied.
//
// Starting from a crude per-frame guess, each iteration builds a chain
// table from the current estimate, traces the minimum-cost path on
// every usable frame, and replaces each segment with the median of the
// measured lengths along those paths. Iteration stops when no segment
// moves by more than eps, or after maxIter rounds.
func EstimateSegments(frames []Frame, nSegments int, cost CostFunc, maxIter int, eps float64) ([]float64, error) {
	if nSegments < 1 {
		return nil, fmt.Errorf("pose: nSegments must be positive, got %d", nSegments)
	}

	segments, err := initialSegments(frames, nSegments)
	if err != nil {
		return nil, err
	}

	chain := make([][2]int, nSegments)
	for k := range chain {
		chain[k] = [2]int{k, k + 1}
	}

	for iter := 0; iter < maxIter; iter++ {
		table := TableFromSegments(segments, chain)

		measured := make([][]float64, nSegments)
		for _, frame := range frames {
			pop := NewPopulation(frame.Hypotheses)
			if !pop.HasAllLabels(nSegments) {
				continue
			}

			graph := BuildGraph(pop, table, cost)
			dist, prev := graph.ShortestPaths(pop.Indices(0))
			paths, pathDist, err := graph.FootPaths(dist, prev)
			if err != nil {
				continue
			}

			best := 0
			for i, d := range pathDist {
				if d < pathDist[best] {
					best = i
				}
			}
			path := paths[best]
			for k := 0; k+1 < len(path); k++ {
				d := pop.Point(path[k]).Dist(pop.Point(path[k+1]))
				measured[k] = append(measured[k], d)
			}
		}

		var maxChange float64
		for k := range segments {
			if len(measured[k]) == 0 {
				continue
			}
			m := median(measured[k])
			if change := math.Abs(m - segments[k]); change > maxChange {
				maxChange = change
			}
			segments[k] = m
		}
		if maxChange < eps {
			break
		}
	}
	return segments, nil
}

// initialSegments seeds the estimate with, for each segment, the
// median over frames of the smallest distance between any hypothesis
// pair carrying the segment's two labels.
func initialSegments(frames []Frame, nSegments int) ([]float64, error) {
	mins := make([][]float64, nSegments)

	for _, frame := range frames {
		pop := NewPopulation(frame.Hypotheses)
		for k := 0; k < nSegments; k++ {
			lower, upper := pop.Indices(k), pop.Indices(k+1)
			if len(lower) == 0 || len(upper) == 0 {
				continue
			}
			min := math.Inf(1)
			for _, i := range lower {
				for _, j := range upper {
					if d := pop.Point(i).Dist(pop.Point(j)); d < min {
						min = d
					}
				}
			}
			mins[k] = append(mins[k], min)
		}
	}

	segments := make([]float64, nSegments)
	for k := range segments {
		if len(mins[k]) == 0 {
			return nil, fmt.Errorf("pose: no frame contains both labels %d and %d", k, k+1)
		}
		segments[k] = median(mins[k])
	}
	return segments, nil
}

// median returns the median of xs. The input is copied, not mutated.
func median(xs []float64) float64 {
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
