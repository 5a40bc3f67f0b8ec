package pose

// insideSpheres reports which population members fall within distance
// r of any of the given sphere centres.
func insideSpheres(dist [][]float64, centres []int, r float64) []bool {
	in := make([]bool, len(dist))
	for _, c := range centres {
		for j, d := range dist[c] {
			if d <= r {
				in[j] = true
			}
		}
	}
	return in
}

// unionScore sums the score matrix restricted to the members inside
// the union of two sphere sets.
func unionScore(scores [][]float64, inA, inB []bool) float64 {
	var total float64
	for i := range scores {
		if !inA[i] && !inB[i] {
			continue
		}
		for j, s := range scores[i] {
			if inA[j] || inB[j] {
				total += s
			}
		}
	}
	return total
}

// SelectBestFeet chooses the pair of foot paths that best represents
// the two physical feet.
//
// For every unordered path pair and every radius, the score matrix is
// restricted to the population members within the union of spheres
// around both paths and summed; the pair(s) with the maximum sum at a
// radius receive one vote. Sweeping radii makes the choice robust to
// the arbitrary distance scale of a single radius. The pair with the
// most votes wins; vote ties break to the lowest combination index in
// (i, j) enumeration order, which is deterministic across runs.
//
// Returns ErrDegeneratePair when fewer than two paths are supplied.
func SelectBestFeet(dist, scores [][]float64, paths [][]int, radii []float64) (int, int, error) {
	if len(paths) < 2 {
		return 0, 0, ErrDegeneratePair
	}

	// Sphere membership per path per radius.
	inSpheres := make([][][]bool, len(paths))
	for i, path := range paths {
		inSpheres[i] = make([][]bool, len(radii))
		for k, r := range radii {
			inSpheres[i][k] = insideSpheres(dist, path, r)
		}
	}

	type combo struct{ a, b int }
	var combos []combo
	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			combos = append(combos, combo{i, j})
		}
	}

	votes := make([]int, len(combos))
	comboScores := make([]float64, len(combos))

	for k := range radii {
		for ci, c := range combos {
			comboScores[ci] = unionScore(scores, inSpheres[c.a][k], inSpheres[c.b][k])
		}

		best := comboScores[0]
		for _, s := range comboScores[1:] {
			if s > best {
				best = s
			}
		}
		// Every pair tied at the maximum gets a vote for this radius.
		for ci, s := range comboScores {
			if s == best {
				votes[ci]++
			}
		}
	}

	winner := 0
	for ci, v := range votes {
		if v > votes[winner] {
			winner = ci
		}
	}
	return combos[winner].a, combos[winner].b, nil
}
