package pose

import (
	"fmt"
	"sync"

	"github.com/ajhynes7/depth-gait-analysis/internal/geom"
)

// Frame is one frame's labelled hypothesis population as supplied by
// the upstream detector.
type Frame struct {
	Index      int
	Hypotheses []Hypothesis
}

// Skeleton is the resolved output for one frame: the head position and
// the two selected head-to-foot paths. The paths share the head of the
// globally minimum-cost path; their last points are the two feet.
type Skeleton struct {
	Head  geom.Vec3
	PathA []geom.Vec3
	PathB []geom.Vec3
}

// FootA returns the foot position of path A.
func (s *Skeleton) FootA() geom.Vec3 { return s.PathA[len(s.PathA)-1] }

// FootB returns the foot position of path B.
func (s *Skeleton) FootB() geom.Vec3 { return s.PathB[len(s.PathB)-1] }

// FrameResult pairs a frame index with its resolution outcome. Err is
// non-nil for skipped frames (the "unresolved" sentinel).
type FrameResult struct {
	Index    int
	Skeleton *Skeleton
	Err      error
}

// Resolver resolves skeletons frame by frame. The tables, radii and
// functions are read-only after construction, so one Resolver is
// shared safely by concurrent frame workers.
type Resolver struct {
	// Table holds the expected lengths for all body connections,
	// including long-range pairs; it drives scoring.
	Table *LengthTable

	// ChainTable holds only the consecutive-pair lengths; it drives
	// candidate graph construction.
	ChainTable *LengthTable

	// Radii is the list of sphere radii swept during pair selection.
	Radii []float64

	Cost  CostFunc  // nil means SquaredError
	Score ScoreFunc // nil means DefaultScore
}

// ResolveFrame resolves a single frame's population into a skeleton.
// Frames whose population is missing a required label, whose feet are
// unreachable, or which yield fewer than two foot paths return an
// error and are skipped by the caller.
func (r *Resolver) ResolveFrame(frame Frame) (*Skeleton, error) {
	pop := NewPopulation(frame.Hypotheses)

	required := r.Table.MaxLabel()
	if !pop.HasAllLabels(required) {
		return nil, fmt.Errorf("frame %d: %w", frame.Index, ErrIncompleteHypotheses)
	}

	graph := BuildGraph(pop, r.ChainTable, r.Cost)
	dist, prev := graph.ShortestPaths(pop.Indices(0))

	paths, pathDist, err := graph.FootPaths(dist, prev)
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", frame.Index, err)
	}

	distMatrix := pop.DistanceMatrix()
	scores := FilterByPaths(ScoreMatrix(pop, r.Table, r.Score), paths, r.Table)

	footA, footB, err := SelectBestFeet(distMatrix, scores, paths, r.Radii)
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", frame.Index, err)
	}

	// Anchor both paths at the head of the globally cheapest path.
	minPath := 0
	for i, d := range pathDist {
		if d < pathDist[minPath] {
			minPath = i
		}
	}
	head := pop.Point(paths[minPath][0])

	pathPoints := func(path []int) []geom.Vec3 {
		pts := make([]geom.Vec3, len(path))
		for i, idx := range path {
			pts[i] = pop.Point(idx)
		}
		pts[0] = head
		return pts
	}

	return &Skeleton{
		Head:  head,
		PathA: pathPoints(paths[footA]),
		PathB: pathPoints(paths[footB]),
	}, nil
}

// ResolveFrames resolves a batch of frames with a bounded worker pool.
// Each worker owns its frame's graph and path data exclusively; the
// only shared state is the read-only resolver itself. Results are
// returned in input order.
func (r *Resolver) ResolveFrames(frames []Frame, workers int) []FrameResult {
	if workers < 1 {
		workers = 1
	}

	results := make([]FrameResult, len(frames))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				skel, err := r.ResolveFrame(frames[i])
				results[i] = FrameResult{Index: frames[i].Index, Skeleton: skel, Err: err}
			}
		}()
	}

	for i := range frames {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
