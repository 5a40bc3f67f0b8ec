package geom

import (
	"errors"
	"math"
	"testing"
)

const tol = 1e-9

func almostEqual(a, b float64) bool { return math.Abs(a-b) < tol }

func vecsAlmostEqual(a, b Vec3) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y) && almostEqual(a.Z, b.Z)
}

func TestVec3Ops(t *testing.T) {
	v := Vec3{1, 2, 3}
	u := Vec3{4, -5, 6}

	if got := v.Add(u); !vecsAlmostEqual(got, Vec3{5, -3, 9}) {
		t.Errorf("Add = %v", got)
	}
	if got := v.Sub(u); !vecsAlmostEqual(got, Vec3{-3, 7, -3}) {
		t.Errorf("Sub = %v", got)
	}
	if got := v.Scale(2); !vecsAlmostEqual(got, Vec3{2, 4, 6}) {
		t.Errorf("Scale = %v", got)
	}
	if got := v.Dot(u); !almostEqual(got, 4-10+18) {
		t.Errorf("Dot = %v", got)
	}
	if got := (Vec3{3, 4, 0}).Norm(); !almostEqual(got, 5) {
		t.Errorf("Norm = %v", got)
	}
	if got := (Vec3{1, 0, 0}).Dist(Vec3{0, 1, 0}); !almostEqual(got, math.Sqrt2) {
		t.Errorf("Dist = %v", got)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	if got := x.Cross(y); !vecsAlmostEqual(got, Vec3{0, 0, 1}) {
		t.Errorf("x × y = %v, want +z", got)
	}
	if got := y.Cross(x); !vecsAlmostEqual(got, Vec3{0, 0, -1}) {
		t.Errorf("y × x = %v, want -z", got)
	}
}

func TestUnitZeroNorm(t *testing.T) {
	if _, err := (Vec3{}).Unit(); !errors.Is(err, ErrZeroNorm) {
		t.Errorf("Unit of zero vector: err = %v, want ErrZeroNorm", err)
	}
	if _, err := (Vec2{}).Unit(); !errors.Is(err, ErrZeroNorm) {
		t.Errorf("Unit of zero Vec2: err = %v, want ErrZeroNorm", err)
	}

	u, err := Vec3{0, 0, -7}.Unit()
	if err != nil {
		t.Fatalf("Unit: %v", err)
	}
	if !vecsAlmostEqual(u, Vec3{0, 0, -1}) {
		t.Errorf("Unit = %v", u)
	}
}

func TestPerp(t *testing.T) {
	// Forward +x, right is -y in the motion plane (x, z): matches the
	// cross product of the embedded forward vector with +Z up.
	if got := (Vec2{1, 0}).Perp(); got != (Vec2{0, -1}) {
		t.Errorf("Perp(+x) = %v, want (0, -1)", got)
	}
	if got := (Vec2{0, 1}).Perp(); got != (Vec2{1, 0}) {
		t.Errorf("Perp(+y) = %v, want (1, 0)", got)
	}
}

func TestProjectPointLine(t *testing.T) {
	p := Vec3{5, 5, 0}
	got, err := ProjectPointLine(p, Vec3{}, Vec3{10, 0, 0})
	if err != nil {
		t.Fatalf("ProjectPointLine: %v", err)
	}
	if !vecsAlmostEqual(got, Vec3{5, 0, 0}) {
		t.Errorf("projection = %v, want (5, 0, 0)", got)
	}

	// Point already on the line projects to itself.
	got, err = ProjectPointLine(Vec3{3, 0, 0}, Vec3{}, Vec3{10, 0, 0})
	if err != nil {
		t.Fatalf("ProjectPointLine: %v", err)
	}
	if !vecsAlmostEqual(got, Vec3{3, 0, 0}) {
		t.Errorf("projection = %v, want (3, 0, 0)", got)
	}

	if _, err := ProjectPointLine(p, Vec3{1, 1, 1}, Vec3{1, 1, 1}); !errors.Is(err, ErrZeroNorm) {
		t.Errorf("coincident line points: err = %v, want ErrZeroNorm", err)
	}
}

func TestProjectPointLine2(t *testing.T) {
	got, err := ProjectPointLine2(Vec2{2, 7}, Vec2{}, Vec2{1, 0})
	if err != nil {
		t.Fatalf("ProjectPointLine2: %v", err)
	}
	if !almostEqual(got.X, 2) || !almostEqual(got.Y, 0) {
		t.Errorf("projection = %v, want (2, 0)", got)
	}
}

func TestProjectPointPlane(t *testing.T) {
	got, err := ProjectPointPlane(Vec3{1, 2, 9}, Vec3{0, 0, 3}, Vec3{0, 0, 5})
	if err != nil {
		t.Fatalf("ProjectPointPlane: %v", err)
	}
	if !vecsAlmostEqual(got, Vec3{1, 2, 3}) {
		t.Errorf("projection = %v, want (1, 2, 3)", got)
	}

	if _, err := ProjectPointPlane(Vec3{1, 2, 3}, Vec3{}, Vec3{}); !errors.Is(err, ErrZeroNorm) {
		t.Errorf("zero normal: err = %v, want ErrZeroNorm", err)
	}
}

func TestAngleBetween(t *testing.T) {
	cases := []struct {
		u, v Vec3
		want float64
	}{
		{Vec3{1, 0, 0}, Vec3{1, 0, 0}, 0},
		{Vec3{1, 0, 0}, Vec3{0, 1, 0}, math.Pi / 2},
		{Vec3{1, 0, 0}, Vec3{-1, 0, 0}, math.Pi},
		// Parallel vectors of different length still give zero; the dot
		// product is clamped against rounding.
		{Vec3{2, 2, 2}, Vec3{5, 5, 5}, 0},
	}
	for _, c := range cases {
		got, err := AngleBetween(c.u, c.v)
		if err != nil {
			t.Fatalf("AngleBetween(%v, %v): %v", c.u, c.v, err)
		}
		if !almostEqual(got, c.want) {
			t.Errorf("AngleBetween(%v, %v) = %v, want %v", c.u, c.v, got, c.want)
		}
	}

	if _, err := AngleBetween(Vec3{}, Vec3{1, 0, 0}); !errors.Is(err, ErrZeroNorm) {
		t.Errorf("zero input: err = %v, want ErrZeroNorm", err)
	}
}

func TestSideValue(t *testing.T) {
	forward := Vec3{1, 0, 0}
	up := Vec3{0, 1, 0}

	right, err := SideValue(forward, up, Vec3{0, 0, -4})
	if err != nil {
		t.Fatalf("SideValue: %v", err)
	}
	left, err := SideValue(forward, up, Vec3{0, 0, 4})
	if err != nil {
		t.Fatalf("SideValue: %v", err)
	}

	if right <= 0 {
		t.Errorf("target at -z should be positive (right), got %v", right)
	}
	if left >= 0 {
		t.Errorf("target at +z should be negative (left), got %v", left)
	}
	if !almostEqual(right, -left) {
		t.Errorf("mirrored targets should have opposite values: %v vs %v", right, left)
	}
}

func TestLineCoordinates(t *testing.T) {
	points := []Vec3{{0, 0, 0}, {2, 0, 0}, {5, 3, 0}, {-1, 0, 0}}
	got := LineCoordinates(Vec3{}, Vec3{1, 0, 0}, points)
	want := []float64{0, 2, 5, -1}
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Errorf("coords[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
