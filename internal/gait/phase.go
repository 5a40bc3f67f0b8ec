package gait

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/ajhynes7/depth-gait-analysis/internal/geom"
)

// PhaseConfig tunes the stance/swing detector.
type PhaseConfig struct {
	// WindowHalfWidth is the half-width of the sliding variance
	// window; the window spans 2*WindowHalfWidth + 1 samples.
	WindowHalfWidth int

	// MinRunLength is the minimum number of consecutive same-phase
	// frames; shorter runs are treated as classification noise and
	// relabelled into the surrounding run.
	MinRunLength int
}

// DefaultPhaseConfig returns the detector defaults.
func DefaultPhaseConfig() PhaseConfig {
	return PhaseConfig{WindowHalfWidth: 5, MinRunLength: 10}
}

// PhaseRun is a maximal contiguous sequence of frames sharing one
// phase classification.
type PhaseRun struct {
	Kind Phase

	// Index counts occurrences of this run's kind within the pass
	// (stance 0, 1, ... and swing 0, 1, ... independently).
	Index int

	FirstFrame int
	LastFrame  int

	// Position is the componentwise median of member positions.
	Position geom.Vec3
}

// localVariance computes the variance of the signal over a sliding
// window with odd-reflected edge padding. Stance periods show low
// local variance (foot stationary), swing periods high.
func localVariance(signal []float64, halfWidth int) ([]float64, error) {
	n := len(signal)
	if n < halfWidth+1 {
		return nil, fmt.Errorf("%w: %d samples, half-width %d", ErrInsufficientSignal, n, halfWidth)
	}

	// Odd reflection extends the signal beyond each edge by mirroring
	// through the edge value, which preserves the local slope.
	padded := make([]float64, n+2*halfWidth)
	copy(padded[halfWidth:], signal)
	for k := 1; k <= halfWidth; k++ {
		padded[halfWidth-k] = 2*signal[0] - signal[k]
		padded[n+halfWidth-1+k] = 2*signal[n-1] - signal[n-1-k]
	}

	width := 2*halfWidth + 1
	out := make([]float64, n)
	for i := range out {
		window := padded[i : i+width]
		mean := stat.Mean(window, nil)
		out[i] = stat.MomentAbout(2, window, mean, nil)
	}
	return out, nil
}

// filterShortRuns relabels runs shorter than minLen into their
// surrounding run, repeating until a fixed point so the result
// contains no short run. Reapplying the filter to an already filtered
// sequence therefore changes nothing. A sequence that is one single
// run is returned unchanged regardless of length.
func filterShortRuns(labels []bool, minLen int) []bool {
	out := append([]bool(nil), labels...)

	for {
		runs := findRuns(out)
		if len(runs) < 2 {
			return out
		}

		// Flip the first shortest offending run, then re-scan: the
		// flip merges it with its neighbours and may lengthen them
		// past the threshold.
		shortest := -1
		for i, r := range runs {
			if r.length() >= minLen {
				continue
			}
			if shortest == -1 || r.length() < runs[shortest].length() {
				shortest = i
			}
		}
		if shortest == -1 {
			return out
		}
		r := runs[shortest]
		for i := r.start; i <= r.end; i++ {
			out[i] = !out[i]
		}
	}
}

type run struct {
	start, end int // inclusive sample indices
	value      bool
}

func (r run) length() int { return r.end - r.start + 1 }

func findRuns(labels []bool) []run {
	var runs []run
	for i := 0; i < len(labels); {
		j := i
		for j+1 < len(labels) && labels[j+1] == labels[i] {
			j++
		}
		runs = append(runs, run{start: i, end: j, value: labels[i]})
		i = j + 1
	}
	return runs
}

// DetectPhases segments one foot's motion during a walking pass into
// stance and swing runs.
//
// The foot positions are projected onto the pass direction to obtain a
// 1D step signal; the local variance of that signal is clustered into
// two groups, and the group with the smaller centroid is stance.
// Returns the phase runs and the per-frame stance flags.
func DetectPhases(frames []int, positions []geom.Vec3, direction geom.Vec3, cfg PhaseConfig) ([]PhaseRun, []bool, error) {
	if len(frames) != len(positions) {
		return nil, nil, fmt.Errorf("gait: %d frames but %d positions", len(frames), len(positions))
	}

	signal := geom.LineCoordinates(geom.Vec3{}, direction, positions)

	variance, err := localVariance(signal, cfg.WindowHalfWidth)
	if err != nil {
		return nil, nil, err
	}

	isStance, _, _ := twoMeans(variance)
	isStance = filterShortRuns(isStance, cfg.MinRunLength)

	var runs []PhaseRun
	counts := map[Phase]int{}
	for _, r := range findRuns(isStance) {
		kind := PhaseSwing
		if r.value {
			kind = PhaseStance
		}
		runs = append(runs, PhaseRun{
			Kind:       kind,
			Index:      counts[kind],
			FirstFrame: frames[r.start],
			LastFrame:  frames[r.end],
			Position:   medianVec3(positions[r.start : r.end+1]),
		})
		counts[kind]++
	}
	return runs, isStance, nil
}
