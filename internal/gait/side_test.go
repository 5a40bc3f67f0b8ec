package gait

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajhynes7/depth-gait-analysis/internal/geom"
)

// testSideConfig shrinks the clustering thresholds to suit the short
// synthetic passes used here.
func testSideConfig() SideConfig {
	cfg := DefaultSideConfig()
	cfg.MinPts = 4
	return cfg
}

// stairFeet builds two feet walking in +x with constant lateral
// offsets: foot A at z = -5 (to the right of travel), foot B at z = +5.
// Each foot holds a position for a block of frames, then jumps forward,
// so every block is one stance cluster.
//
// A blocks: frames 0-9 at x=0, 10-19 at x=20, 20-29 at x=40.
// B blocks: frames 0-14 at x=15, 15-29 at x=35.
func stairFeet() (frames []int, feetA, feetB []geom.Vec3) {
	for f := 0; f < 30; f++ {
		frames = append(frames, f)
		feetA = append(feetA, geom.Vec3{X: float64(20 * (f / 10)), Y: 0, Z: -5})
		feetB = append(feetB, geom.Vec3{X: float64(15 + 20*(f/15)), Y: 0, Z: 5})
	}
	return frames, feetA, feetB
}

func TestAssignSides(t *testing.T) {
	frames, feetA, feetB := stairFeet()

	sa, err := AssignSides(frames, feetA, feetB, testSideConfig())
	require.NoError(t, err)

	require.Len(t, sa.Points, 2*len(frames))
	require.Len(t, sa.Labels, 2*len(frames))

	// Every grouped point fits the travel line within the threshold.
	for i, in := range sa.Inlier {
		assert.True(t, in, "point %d marked outlier", i)
	}

	stances := sa.Stances()
	require.Len(t, stances, 5)

	for _, s := range stances {
		switch s.Position.Y {
		case -5:
			assert.Equal(t, SideRight, s.Side, "stance at z=-5 is right of travel")
		case 5:
			assert.Equal(t, SideLeft, s.Side, "stance at z=+5 is left of travel")
		default:
			t.Fatalf("unexpected stance position %v", s.Position)
		}
	}

	// Per-side numbering follows initial frame order.
	var rights, lefts []Stance
	for _, s := range stances {
		if s.Side == SideRight {
			rights = append(rights, s)
		} else {
			lefts = append(lefts, s)
		}
	}
	require.Len(t, rights, 3)
	require.Len(t, lefts, 2)
	for i, s := range rights {
		assert.Equal(t, i, s.NumStance)
		if i > 0 {
			assert.Greater(t, s.FrameI, rights[i-1].FrameI)
		}
	}
	for i, s := range lefts {
		assert.Equal(t, i, s.NumStance)
	}
}

func TestAssignSidesMirrored(t *testing.T) {
	// Swapping the lateral offsets must swap the side labels.
	frames, feetA, feetB := stairFeet()

	sa, err := AssignSides(frames, feetB, feetA, testSideConfig())
	require.NoError(t, err)

	for _, s := range sa.Stances() {
		switch s.Position.Y {
		case -5:
			assert.Equal(t, SideRight, s.Side)
		case 5:
			assert.Equal(t, SideLeft, s.Side)
		}
	}
}

func TestAssignSidesDeterministic(t *testing.T) {
	frames, feetA, feetB := stairFeet()
	cfg := testSideConfig()

	first, err := AssignSides(frames, feetA, feetB, cfg)
	require.NoError(t, err)

	for run := 0; run < 3; run++ {
		again, err := AssignSides(frames, feetA, feetB, cfg)
		require.NoError(t, err)
		assert.Equal(t, first.Labels, again.Labels)
		assert.Equal(t, first.RightCluster, again.RightCluster)
	}
}

func TestAssignSidesMismatched(t *testing.T) {
	_, err := AssignSides([]int{0, 1}, []geom.Vec3{{}}, []geom.Vec3{{}, {}}, testSideConfig())
	assert.Error(t, err)
}

func TestAssignSidesDegenerate(t *testing.T) {
	// All points coincide; no travel line exists.
	frames := make([]int, 20)
	feet := make([]geom.Vec3, 20)
	for i := range frames {
		frames[i] = i
	}

	_, err := AssignSides(frames, feet, feet, testSideConfig())
	assert.True(t, errors.Is(err, ErrRobustFit), "err = %v, want ErrRobustFit", err)
}

func TestFitTravelLine(t *testing.T) {
	// Collinear points with two gross outliers; RANSAC must reject
	// them and recover the line.
	var points []geom.Vec2
	for i := 0; i < 20; i++ {
		points = append(points, geom.Vec2{X: float64(i), Y: 0.1 * float64(i%3)})
	}
	points = append(points, geom.Vec2{X: 5, Y: 80}, geom.Vec2{X: 12, Y: -90})

	origin, direction, inlier, err := fitTravelLine(points, DefaultSideConfig())
	require.NoError(t, err)

	assert.False(t, inlier[20], "outlier at y=80 kept")
	assert.False(t, inlier[21], "outlier at y=-90 kept")

	kept := 0
	for i := 0; i < 20; i++ {
		if inlier[i] {
			kept++
		}
		assert.Less(t, geom.DistPointLine2(points[i], origin, direction), 1.0)
	}
	assert.GreaterOrEqual(t, kept, 15, "most collinear points must survive")
}

func TestDBSCANSpaceTime(t *testing.T) {
	cfg := testSideConfig()

	// Two spatial groups; the second group is split in time as well.
	var points []geom.Vec2
	var frames []int
	for f := 0; f < 6; f++ {
		points = append(points, geom.Vec2{X: 0})
		frames = append(frames, f)
	}
	for f := 0; f < 6; f++ {
		points = append(points, geom.Vec2{X: 100})
		frames = append(frames, f)
	}
	for f := 50; f < 56; f++ {
		points = append(points, geom.Vec2{X: 100})
		frames = append(frames, f)
	}
	// A lone point far from everything.
	points = append(points, geom.Vec2{X: 500})
	frames = append(frames, 0)

	labels := dbscanSpaceTime(points, frames, cfg)

	for i := 1; i < 6; i++ {
		assert.Equal(t, labels[0], labels[i], "first spatial group split")
		assert.Equal(t, labels[6], labels[6+i], "second spatial group split")
		assert.Equal(t, labels[12], labels[12+i], "time-shifted group split")
	}
	assert.NotEqual(t, labels[0], labels[6], "distinct spatial groups merged")
	assert.NotEqual(t, labels[6], labels[12], "groups distant in time merged")
	assert.Equal(t, -1, labels[18], "lone point should be noise")
}
