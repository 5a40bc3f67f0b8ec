// Package gait analyses the time series of resolved head and foot
// positions for one walking pass: it segments each foot's motion into
// stance and swing phases, groups stance frames into foot contact
// events, assigns left/right laterality, and computes stride
// parameters.
//
// A walking pass is a maximal temporally contiguous run of frames.
// Frames within a pass are processed as one ordered unit; passes are
// independent and may be analysed concurrently.
package gait

import "errors"

// Sentinel errors for per-pass failures. A failed pass is skipped; it
// does not abort the trial.
var (
	// ErrInsufficientSignal indicates a signal shorter than the phase
	// detection window, for which no meaningful variance estimate
	// exists.
	ErrInsufficientSignal = errors.New("gait: signal shorter than variance window")

	// ErrRobustFit indicates that RANSAC could not fit a travel line
	// to the foot trajectories.
	ErrRobustFit = errors.New("gait: RANSAC found no valid travel line")
)

// Phase is the classification of one frame of foot motion.
type Phase int

const (
	// PhaseStance covers frames where the foot is planted (low local
	// signal variance).
	PhaseStance Phase = iota
	// PhaseSwing covers frames where the foot is moving through the
	// air (high local signal variance).
	PhaseSwing
)

func (p Phase) String() string {
	if p == PhaseStance {
		return "stance"
	}
	return "swing"
}

// Side is the laterality of a foot.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "L"
	}
	return "R"
}
