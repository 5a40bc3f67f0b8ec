package gait

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/ajhynes7/depth-gait-analysis/internal/geom"
)

// SideConfig tunes the left/right side assigner.
type SideConfig struct {
	// RANSACIterations is the number of random samples drawn when
	// fitting the travel line.
	RANSACIterations int

	// ResidualFactor scales the MAD-derived residual threshold for
	// inlier classification.
	ResidualFactor float64

	// Seed fixes the RANSAC sampling sequence so side assignment is
	// reproducible for identical inputs.
	Seed int64

	// EpsSpatial and EpsFrames are the spatial and temporal
	// neighbourhood radii of the stance clustering; MinPts is the
	// core-point threshold.
	EpsSpatial float64
	EpsFrames  float64
	MinPts     int
}

// DefaultSideConfig returns the side assigner defaults. EpsSpatial is
// in the coordinate units of the input positions.
func DefaultSideConfig() SideConfig {
	return SideConfig{
		RANSACIterations: 100,
		ResidualFactor:   2.5,
		Seed:             0,
		EpsSpatial:       5,
		EpsFrames:        10,
		MinPts:           7,
	}
}

// Stance is one foot contact event: a cluster of stance frames with a
// resolved side.
type Stance struct {
	// NumStance counts stance events per side (L0, L1, ... and
	// R0, R1, ... independently), ordered by initial frame.
	NumStance int
	Side      Side

	// Position is the componentwise median of the cluster's points in
	// the motion plane.
	Position geom.Vec2

	FrameI, FrameF int
}

// SideAssignment holds the outcome of side assignment for one pass.
// The feet's points are interleaved ("grouped"): element 2i is foot A
// on frame i, element 2i+1 foot B.
type SideAssignment struct {
	Frames []int       // grouped frame numbers
	Points []geom.Vec2 // grouped positions reduced to the motion plane
	Inlier []bool      // RANSAC inlier flags

	// Labels assigns each grouped point a stance cluster (-1 for
	// RANSAC outliers and clustering noise).
	Labels []int

	// RightCluster records, per cluster, whether it was resolved to
	// the right side.
	RightCluster map[int]bool
}

// reduceDimension drops the vertical coordinate, keeping the motion
// plane (x, z).
func reduceDimension(p geom.Vec3) geom.Vec2 {
	return geom.Vec2{X: p.X, Y: p.Z}
}

// fitTravelLine fits a line to the grouped points with RANSAC: sample
// a majority-sized subset, fit by SVD, classify inliers by a residual
// threshold derived from the median absolute deviation, keep the
// consensus model, and refit on its inliers.
func fitTravelLine(points []geom.Vec2, cfg SideConfig) (origin, direction geom.Vec2, inlier []bool, err error) {
	n := len(points)
	minSamples := n / 2
	if minSamples < 2 {
		minSamples = 2
	}
	if n < minSamples {
		return geom.Vec2{}, geom.Vec2{}, nil, fmt.Errorf("%w: %d points", ErrRobustFit, n)
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	threshold := cfg.ResidualFactor * math.Min(MAD(xs), MAD(ys))
	if threshold <= 0 {
		// All points coincide along both axes; no line is defined.
		return geom.Vec2{}, geom.Vec2{}, nil, fmt.Errorf("%w: zero residual threshold", ErrRobustFit)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	sample := make([]geom.Vec2, minSamples)

	bestCount := -1
	var bestOrigin, bestDirection geom.Vec2

	for iter := 0; iter < cfg.RANSACIterations; iter++ {
		for i, idx := range rng.Perm(n)[:minSamples] {
			sample[i] = points[idx]
		}
		o, d, err := geom.BestFitLine2(sample)
		if err != nil {
			continue // degenerate sample
		}

		count := 0
		for _, p := range points {
			if geom.DistPointLine2(p, o, d) < threshold {
				count++
			}
		}
		if count > bestCount {
			bestCount = count
			bestOrigin, bestDirection = o, d
		}
	}

	if bestCount < minSamples {
		return geom.Vec2{}, geom.Vec2{}, nil, fmt.Errorf("%w: best consensus %d of %d", ErrRobustFit, bestCount, n)
	}

	inlier = make([]bool, n)
	var inlierPoints []geom.Vec2
	for i, p := range points {
		if geom.DistPointLine2(p, bestOrigin, bestDirection) < threshold {
			inlier[i] = true
			inlierPoints = append(inlierPoints, p)
		}
	}

	origin, direction, err = geom.BestFitLine2(inlierPoints)
	if err != nil {
		return geom.Vec2{}, geom.Vec2{}, nil, fmt.Errorf("%w: refit failed", ErrRobustFit)
	}
	return origin, direction, inlier, nil
}

// spaceTimeNeighbors returns the indices of points within both the
// spatial and temporal radii of point i.
func spaceTimeNeighbors(points []geom.Vec2, frames []int, i int, cfg SideConfig) []int {
	var neighbors []int
	for j := range points {
		if points[i].Dist(points[j]) <= cfg.EpsSpatial &&
			math.Abs(float64(frames[i]-frames[j])) <= cfg.EpsFrames {
			neighbors = append(neighbors, j)
		}
	}
	return neighbors
}

// dbscanSpaceTime clusters points with DBSCAN using a combined
// spatial/temporal neighbourhood, so frames where a foot dwells in one
// spot group into a single stance event. Returns 0-based cluster
// labels, -1 for noise.
func dbscanSpaceTime(points []geom.Vec2, frames []int, cfg SideConfig) []int {
	const unvisited = 0
	n := len(points)
	labels := make([]int, n) // 0=unvisited, -1=noise, >0=cluster id
	clusterID := 0

	for i := 0; i < n; i++ {
		if labels[i] != unvisited {
			continue
		}
		neighbors := spaceTimeNeighbors(points, frames, i, cfg)
		if len(neighbors) < cfg.MinPts {
			labels[i] = -1
			continue
		}

		clusterID++
		labels[i] = clusterID

		// Queue-based expansion; noise points reached here become
		// border points of the cluster.
		for j := 0; j < len(neighbors); j++ {
			idx := neighbors[j]
			if labels[idx] == -1 {
				labels[idx] = clusterID
			}
			if labels[idx] != unvisited {
				continue
			}
			labels[idx] = clusterID
			more := spaceTimeNeighbors(points, frames, idx, cfg)
			if len(more) >= cfg.MinPts {
				neighbors = append(neighbors, more...)
			}
		}
	}

	// Shift to 0-based cluster ids.
	for i, l := range labels {
		if l > 0 {
			labels[i] = l - 1
		}
	}
	return labels
}

// AssignSides resolves the left/right identity of two concurrently
// measured foot trajectories for one walking pass.
//
// Both feet are interleaved in the motion plane, a travel line is fit
// with RANSAC, and stance events are found by space-time clustering of
// the inliers. Each cluster's lateral position (projection onto the
// axis perpendicular to travel) is compared against the concurrent
// swing foot points on the same frames: the larger side is right.
func AssignSides(frames []int, feetA, feetB []geom.Vec3, cfg SideConfig) (*SideAssignment, error) {
	if len(frames) != len(feetA) || len(frames) != len(feetB) {
		return nil, fmt.Errorf("gait: mismatched trajectory lengths")
	}

	n := len(frames)
	grouped := make([]geom.Vec2, 0, 2*n)
	groupedFrames := make([]int, 0, 2*n)
	for i := 0; i < n; i++ {
		grouped = append(grouped, reduceDimension(feetA[i]), reduceDimension(feetB[i]))
		groupedFrames = append(groupedFrames, frames[i], frames[i])
	}

	origin, forward, inlier, err := fitTravelLine(grouped, cfg)
	if err != nil {
		return nil, err
	}

	// The SVD direction sign is arbitrary; orient it along the actual
	// travel so laterality is defined relative to the walk direction.
	first, last := -1, -1
	for i := range grouped {
		if inlier[i] {
			if first == -1 {
				first = i
			}
			last = i
		}
	}
	if travel := grouped[last].Sub(grouped[first]); travel.Dot(forward) < 0 {
		forward = forward.Scale(-1)
	}
	perp := forward.Perp()

	lateral := make([]float64, len(grouped))
	for i, p := range grouped {
		lateral[i] = p.Sub(origin).Dot(perp)
	}

	// Cluster only the inliers, then scatter labels back to grouped
	// index space.
	var inlierIdx []int
	var inlierPoints []geom.Vec2
	var inlierFrames []int
	for i := range grouped {
		if inlier[i] {
			inlierIdx = append(inlierIdx, i)
			inlierPoints = append(inlierPoints, grouped[i])
			inlierFrames = append(inlierFrames, groupedFrames[i])
		}
	}
	clusterLabels := dbscanSpaceTime(inlierPoints, inlierFrames, cfg)

	labels := make([]int, len(grouped))
	for i := range labels {
		labels[i] = -1
	}
	for k, idx := range inlierIdx {
		labels[idx] = clusterLabels[k]
	}

	sa := &SideAssignment{
		Frames:       groupedFrames,
		Points:       grouped,
		Inlier:       inlier,
		Labels:       labels,
		RightCluster: make(map[int]bool),
	}

	for _, cluster := range sa.clusterIDs() {
		memberFrames := make(map[int]bool)
		var stanceLateral []float64
		for i, l := range labels {
			if l == cluster {
				memberFrames[groupedFrames[i]] = true
				stanceLateral = append(stanceLateral, lateral[i])
			}
		}

		// Concurrent points on the cluster's frames that are not part
		// of the cluster belong to the swinging foot.
		var swingLateral []float64
		for i, l := range labels {
			if l != cluster && memberFrames[groupedFrames[i]] {
				swingLateral = append(swingLateral, lateral[i])
			}
		}

		sa.RightCluster[cluster] = Median(stanceLateral) > swingReference(swingLateral)
	}
	return sa, nil
}

// swingReference returns the lateral reference value for the swing
// foot. When a cluster has no concurrent swing points the reference
// defaults to zero — an approximation inherited from the source
// analysis rather than a principled choice; it is isolated here so a
// calibrated policy can replace it in one place.
func swingReference(swingLateral []float64) float64 {
	if len(swingLateral) == 0 {
		return 0
	}
	return Median(swingLateral)
}

// clusterIDs returns the distinct non-noise cluster labels in
// ascending order.
func (sa *SideAssignment) clusterIDs() []int {
	seen := make(map[int]bool)
	var ids []int
	for _, l := range sa.Labels {
		if l >= 0 && !seen[l] {
			seen[l] = true
			ids = append(ids, l)
		}
	}
	sort.Ints(ids)
	return ids
}

// Stances collapses each cluster into a stance event with its side,
// median position and frame extent, ordered by initial frame and
// numbered per side.
func (sa *SideAssignment) Stances() []Stance {
	var stances []Stance
	for _, cluster := range sa.clusterIDs() {
		var points []geom.Vec2
		frameI, frameF := math.MaxInt, math.MinInt
		for i, l := range sa.Labels {
			if l != cluster {
				continue
			}
			points = append(points, sa.Points[i])
			if f := sa.Frames[i]; f < frameI {
				frameI = f
			}
			if f := sa.Frames[i]; f > frameF {
				frameF = f
			}
		}

		side := SideLeft
		if sa.RightCluster[cluster] {
			side = SideRight
		}
		stances = append(stances, Stance{
			Side:     side,
			Position: medianVec2(points),
			FrameI:   frameI,
			FrameF:   frameF,
		})
	}

	sort.Slice(stances, func(i, j int) bool { return stances[i].FrameI < stances[j].FrameI })

	counts := map[Side]int{}
	for i := range stances {
		stances[i].NumStance = counts[stances[i].Side]
		counts[stances[i].Side]++
	}
	return stances
}
