package gait

import (
	"fmt"
	"sync"

	"github.com/ajhynes7/depth-gait-analysis/internal/geom"
	"github.com/ajhynes7/depth-gait-analysis/internal/pose"
)

// PassConfig tunes the whole-pass analysis.
type PassConfig struct {
	Phase PhaseConfig
	Side  SideConfig

	// FPS converts frame-index differences into durations.
	FPS float64
}

// DefaultPassConfig returns the analysis defaults at 30 frames per
// second.
func DefaultPassConfig() PassConfig {
	return PassConfig{
		Phase: DefaultPhaseConfig(),
		Side:  DefaultSideConfig(),
		FPS:   30,
	}
}

// PassInput is the resolved time series for one walking pass.
type PassInput struct {
	Frames []int
	Head   []geom.Vec3
	FootA  []geom.Vec3
	FootB  []geom.Vec3
}

// PassResult is the analysis output for one walking pass.
type PassResult struct {
	// RunsA and RunsB are the stance/swing phase runs of the two
	// (physically measured, unsided) foot trajectories.
	RunsA []PhaseRun
	RunsB []PhaseRun

	// Stances are the left/right-labelled foot contact events,
	// ordered by initial frame.
	Stances []Stance

	// Params are the stride parameters derived from the stances.
	Params []StrideParams
}

// AnalyzePass runs phase detection, side assignment and stride
// parameter computation over one walking pass. The whole pass must be
// visible at once: the pass direction comes from a best-fit line
// through the head positions and the clustering needs the full
// sequence. Errors mean the pass is skipped, not the trial.
func AnalyzePass(in PassInput, cfg PassConfig) (*PassResult, error) {
	if len(in.Frames) != len(in.Head) || len(in.Frames) != len(in.FootA) || len(in.Frames) != len(in.FootB) {
		return nil, fmt.Errorf("gait: mismatched pass series lengths")
	}

	_, direction, err := geom.BestFitLine(in.Head)
	if err != nil {
		return nil, fmt.Errorf("gait: pass direction: %w", err)
	}

	runsA, _, err := DetectPhases(in.Frames, in.FootA, direction, cfg.Phase)
	if err != nil {
		return nil, err
	}
	runsB, _, err := DetectPhases(in.Frames, in.FootB, direction, cfg.Phase)
	if err != nil {
		return nil, err
	}

	assignment, err := AssignSides(in.Frames, in.FootA, in.FootB, cfg.Side)
	if err != nil {
		return nil, err
	}

	stances := assignment.Stances()
	return &PassResult{
		RunsA:   runsA,
		RunsB:   runsB,
		Stances: stances,
		Params:  StridesFromStances(stances, cfg.FPS),
	}, nil
}

// PassOutcome pairs a pass index with its analysis outcome. Err is
// non-nil for skipped passes.
type PassOutcome struct {
	Index  int
	Result *PassResult
	Err    error
}

// AnalyzePasses analyses passes concurrently with a bounded worker
// pool. Frames within a pass stay one ordered unit; the unit of
// parallelism is the pass. Outcomes are returned in input order.
func AnalyzePasses(passes []PassInput, cfg PassConfig, workers int) []PassOutcome {
	if workers < 1 {
		workers = 1
	}

	outcomes := make([]PassOutcome, len(passes))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := AnalyzePass(passes[i], cfg)
				outcomes[i] = PassOutcome{Index: i, Result: res, Err: err}
			}
		}()
	}

	for i := range passes {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return outcomes
}

// SplitPasses groups resolved frames into walking passes. A new pass
// starts wherever the frame gap exceeds maxGap, or where the head has
// come back toward the pass's starting point by more than minReverse
// from its farthest excursion (the subject turned around). minReverse
// is in input coordinate units; 0 disables reversal splitting. Frames
// that failed resolution must already be filtered out (see
// FilterOutlierFrames).
func SplitPasses(results []pose.FrameResult, maxGap int, minReverse float64) []PassInput {
	var passes []PassInput
	var current *PassInput

	lastFrame := 0
	var start geom.Vec3
	var farDist float64

	for _, r := range results {
		if r.Err != nil || r.Skeleton == nil {
			continue
		}
		head := r.Skeleton.Head

		reversed := false
		if current != nil && minReverse > 0 {
			reversed = farDist-head.Dist(start) > minReverse
		}
		if current == nil || r.Index-lastFrame > maxGap || reversed {
			passes = append(passes, PassInput{})
			current = &passes[len(passes)-1]
			start = head
			farDist = 0
		}
		if d := head.Dist(start); d > farDist {
			farDist = d
		}

		current.Frames = append(current.Frames, r.Index)
		current.Head = append(current.Head, head)
		current.FootA = append(current.FootA, r.Skeleton.FootA())
		current.FootB = append(current.FootB, r.Skeleton.FootB())
		lastFrame = r.Index
	}
	return passes
}
