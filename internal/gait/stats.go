package gait

import (
	"math"
	"sort"

	"github.com/ajhynes7/depth-gait-analysis/internal/geom"
	"github.com/ajhynes7/depth-gait-analysis/internal/pose"
)

// madScale makes the median absolute deviation a consistent estimator
// of the standard deviation for normal data (1 / Φ⁻¹(3/4)).
const madScale = 1.4826

// Median returns the median of xs. The input is not mutated.
func Median(xs []float64) float64 {
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	n := len(s)
	if n == 0 {
		return math.NaN()
	}
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// MAD returns the normal-consistent median absolute deviation of xs.
func MAD(xs []float64) float64 {
	med := Median(xs)
	dev := make([]float64, len(xs))
	for i, x := range xs {
		dev[i] = math.Abs(x - med)
	}
	return madScale * Median(dev)
}

// medianVec3 returns the componentwise median of points.
func medianVec3(points []geom.Vec3) geom.Vec3 {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	zs := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
	}
	return geom.Vec3{X: Median(xs), Y: Median(ys), Z: Median(zs)}
}

// medianVec2 returns the componentwise median of points.
func medianVec2(points []geom.Vec2) geom.Vec2 {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}
	return geom.Vec2{X: Median(xs), Y: Median(ys)}
}

// withinMADBounds reports, per value, whether it lies inside
// median ± c·MAD.
func withinMADBounds(xs []float64, c float64) []bool {
	med := Median(xs)
	mad := MAD(xs)
	lower, upper := med-c*mad, med+c*mad

	keep := make([]bool, len(xs))
	for i, x := range xs {
		keep[i] = x >= lower && x <= upper
	}
	return keep
}

// FilterOutlierFrames drops resolved frames whose foot heights are MAD
// outliers over the trial. Resolution noise occasionally snaps a foot
// to a spurious hypothesis far off the floor; those frames corrupt
// phase detection downstream. Frames already carrying an error are
// dropped as well.
func FilterOutlierFrames(results []pose.FrameResult, c float64) []pose.FrameResult {
	var resolved []pose.FrameResult
	for _, r := range results {
		if r.Err == nil && r.Skeleton != nil {
			resolved = append(resolved, r)
		}
	}
	if len(resolved) == 0 {
		return nil
	}

	heightsA := make([]float64, len(resolved))
	heightsB := make([]float64, len(resolved))
	for i, r := range resolved {
		heightsA[i] = r.Skeleton.FootA().Y
		heightsB[i] = r.Skeleton.FootB().Y
	}

	keepA := withinMADBounds(heightsA, c)
	keepB := withinMADBounds(heightsB, c)

	var out []pose.FrameResult
	for i, r := range resolved {
		if keepA[i] && keepB[i] {
			out = append(out, r)
		}
	}
	return out
}
