// Package pose reconstructs a single anatomically plausible skeleton
// from noisy, multi-hypothesis 3D body part detections in one video
// frame.
//
// Each frame supplies an unordered population of position hypotheses
// tagged with integer anatomical labels (0 = head, increasing toward
// the feet). The population is turned into a weighted DAG using
// expected-length priors, searched for minimum-cost head-to-foot
// paths, and the best pair of foot paths is chosen with a radius
// voting scheme that is robust to the distance scale.
package pose

import "errors"

// Sentinel errors for per-frame resolution failures. A failed frame is
// skipped by the caller; it does not abort the trial.
var (
	// ErrIncompleteHypotheses indicates a frame population that is
	// missing one or more required anatomical labels.
	ErrIncompleteHypotheses = errors.New("pose: population missing required labels")

	// ErrUnreachableFoot indicates that no foot hypothesis is
	// reachable from any head hypothesis in the candidate graph.
	ErrUnreachableFoot = errors.New("pose: no foot node reachable from a source")

	// ErrDegeneratePair indicates that fewer than two foot paths were
	// available for pair selection.
	ErrDegeneratePair = errors.New("pose: fewer than two foot paths")
)
