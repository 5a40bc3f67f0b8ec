package pose

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ajhynes7/depth-gait-analysis/internal/geom"
)

// chainTable builds a consecutive-pair table directly from segment
// lengths, for tests that don't care about long-range connections.
func chainTable(segments []float64) *LengthTable {
	chain := make([][2]int, len(segments))
	for k := range chain {
		chain[k] = [2]int{k, k + 1}
	}
	return TableFromSegments(segments, chain)
}

func TestShortestPathsPicksCheaperBranch(t *testing.T) {
	// Labels 0 → 1 → 2 with expected lengths 10 and 10. The label-1
	// hypothesis at distance 10 is exact; the other is off by 5.
	pop := NewPopulation([]Hypothesis{
		{Point: geom.Vec3{X: 0, Y: 0, Z: 0}, Label: 0},
		{Point: geom.Vec3{X: 10, Y: 0, Z: 0}, Label: 1},
		{Point: geom.Vec3{X: 15, Y: 0, Z: 0}, Label: 1},
		{Point: geom.Vec3{X: 20, Y: 0, Z: 0}, Label: 2},
	})
	g := BuildGraph(pop, chainTable([]float64{10, 10}), nil)

	dist, prev := g.ShortestPaths(pop.Indices(0))

	if dist[0] != 0 {
		t.Errorf("source dist = %v, want 0", dist[0])
	}
	// Through node 1: (10-10)² + (10-10)² = 0.
	// Through node 2: (10-15)² + (10-5)² = 50.
	if dist[3] != 0 {
		t.Errorf("foot dist = %v, want 0", dist[3])
	}
	if prev[3] != 1 {
		t.Errorf("foot prev = %d, want 1", prev[3])
	}

	path := TracePath(prev, 3)
	if diff := cmp.Diff([]int{0, 1, 3}, path); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
}

func TestShortestPathsMultipleSources(t *testing.T) {
	// Two head hypotheses; the closer one must win.
	pop := NewPopulation([]Hypothesis{
		{Point: geom.Vec3{X: 0, Y: 0, Z: 0}, Label: 0},
		{Point: geom.Vec3{X: 3, Y: 0, Z: 0}, Label: 0},
		{Point: geom.Vec3{X: 10, Y: 0, Z: 0}, Label: 1},
	})
	g := BuildGraph(pop, chainTable([]float64{10}), nil)

	_, prev := g.ShortestPaths(pop.Indices(0))
	if prev[2] != 0 {
		t.Errorf("prev = %d, want 0 (the exact-distance head)", prev[2])
	}
}

func TestShortestPathsLabelMonotone(t *testing.T) {
	// Path labels must be strictly increasing: edges only run from
	// lower to higher labels.
	pop := NewPopulation([]Hypothesis{
		{Point: geom.Vec3{X: 0, Y: 0, Z: 0}, Label: 0},
		{Point: geom.Vec3{X: 9, Y: 0, Z: 0}, Label: 1},
		{Point: geom.Vec3{X: 11, Y: 0, Z: 0}, Label: 1},
		{Point: geom.Vec3{X: 19, Y: 0, Z: 0}, Label: 2},
		{Point: geom.Vec3{X: 31, Y: 0, Z: 0}, Label: 3},
	})
	g := BuildGraph(pop, chainTable([]float64{10, 10, 10}), nil)
	dist, prev := g.ShortestPaths(pop.Indices(0))

	paths, _, err := g.FootPaths(dist, prev)
	if err != nil {
		t.Fatalf("FootPaths: %v", err)
	}
	for _, path := range paths {
		for i := 1; i < len(path); i++ {
			if pop.Label(path[i]) != pop.Label(path[i-1])+1 {
				t.Fatalf("path %v labels are not consecutive", path)
			}
		}
	}
}

func TestFootPathsUnreachable(t *testing.T) {
	// The foot label is present but no edge reaches it: the table
	// lacks the (1, 2) pair.
	pop := NewPopulation([]Hypothesis{
		{Point: geom.Vec3{X: 0, Y: 0, Z: 0}, Label: 0},
		{Point: geom.Vec3{X: 10, Y: 0, Z: 0}, Label: 1},
		{Point: geom.Vec3{X: 20, Y: 0, Z: 0}, Label: 2},
	})
	table := NewLengthTable()
	table.Set(0, 1, 10)
	g := BuildGraph(pop, table, nil)

	dist, prev := g.ShortestPaths(pop.Indices(0))
	if !math.IsInf(dist[2], 1) {
		t.Fatalf("node 2 dist = %v, want +Inf", dist[2])
	}

	if _, _, err := g.FootPaths(dist, prev); !errors.Is(err, ErrUnreachableFoot) {
		t.Errorf("err = %v, want ErrUnreachableFoot", err)
	}
}
