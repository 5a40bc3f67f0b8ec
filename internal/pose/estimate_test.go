package pose

import (
	"math"
	"testing"

	"github.com/ajhynes7/depth-gait-analysis/internal/geom"
)

func TestMedian(t *testing.T) {
	if got := median([]float64{3, 1, 2}); got != 2 {
		t.Errorf("median odd = %v, want 2", got)
	}
	if got := median([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Errorf("median even = %v, want 2.5", got)
	}

	// Input must not be mutated.
	xs := []float64{3, 1, 2}
	median(xs)
	if xs[0] != 3 || xs[1] != 1 || xs[2] != 2 {
		t.Errorf("median mutated its input: %v", xs)
	}
}

// noiselessFrames builds frames where each label has exactly one
// hypothesis at the true segment spacing, plus a decoy hypothesis far
// from the body on a middle label.
func noiselessFrames(n int, segments []float64) []Frame {
	frames := make([]Frame, n)
	for f := range frames {
		y := 0.0
		hyps := []Hypothesis{{Point: geom.Vec3{X: float64(f), Y: 0, Z: 0}, Label: 0}}
		for k, s := range segments {
			y -= s
			hyps = append(hyps, Hypothesis{Point: geom.Vec3{X: float64(f), Y: y, Z: 0}, Label: k + 1})
		}
		hyps = append(hyps, Hypothesis{Point: geom.Vec3{X: float64(f), Y: 500, Z: 0}, Label: 1})
		frames[f] = Frame{Index: f, Hypotheses: hyps}
	}
	return frames
}

func TestEstimateSegments(t *testing.T) {
	truth := []float64{62, 20, 42, 40, 22}
	frames := noiselessFrames(10, truth)

	got, err := EstimateSegments(frames, len(truth), nil, 30, 1e-6)
	if err != nil {
		t.Fatalf("EstimateSegments: %v", err)
	}

	if len(got) != len(truth) {
		t.Fatalf("got %d segments, want %d", len(got), len(truth))
	}
	for k := range truth {
		if math.Abs(got[k]-truth[k]) > 1e-6 {
			t.Errorf("segment %d = %v, want %v", k, got[k], truth[k])
		}
	}
}

func TestEstimateSegmentsErrors(t *testing.T) {
	if _, err := EstimateSegments(nil, 0, nil, 10, 0.01); err == nil {
		t.Error("nSegments 0 should fail")
	}

	// No frame contains label 1.
	frames := []Frame{{Hypotheses: []Hypothesis{{Label: 0}}}}
	if _, err := EstimateSegments(frames, 1, nil, 10, 0.01); err == nil {
		t.Error("missing label should fail")
	}
}
