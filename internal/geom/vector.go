// Package geom provides the geometric primitives used by skeleton
// resolution and gait analysis: small value-type vectors, projections
// onto lines and planes, and line fitting.
//
// All operations are pure functions over immutable values. Degenerate
// geometry (zero-length vectors, coincident line points) is reported
// with ErrZeroNorm rather than coerced to zero or NaN, so callers can
// distinguish "no data" from "bad data".
package geom

import (
	"errors"
	"math"
)

// ErrZeroNorm is returned when an operation requires a vector or line
// segment with non-zero length.
var ErrZeroNorm = errors.New("geom: zero-norm vector")

// Vec3 is a point or direction in 3D space.
type Vec3 struct {
	X, Y, Z float64
}

// Vec2 is a point or direction in 2D space.
type Vec2 struct {
	X, Y float64
}

func (v Vec3) Add(u Vec3) Vec3 { return Vec3{v.X + u.X, v.Y + u.Y, v.Z + u.Z} }

func (v Vec3) Sub(u Vec3) Vec3 { return Vec3{v.X - u.X, v.Y - u.Y, v.Z - u.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Dot(u Vec3) float64 { return v.X*u.X + v.Y*u.Y + v.Z*u.Z }

// Cross returns the cross product v × u.
func (v Vec3) Cross(u Vec3) Vec3 {
	return Vec3{
		X: v.Y*u.Z - v.Z*u.Y,
		Y: v.Z*u.X - v.X*u.Z,
		Z: v.X*u.Y - v.Y*u.X,
	}
}

func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Dist returns the Euclidean distance between two points.
func (v Vec3) Dist(u Vec3) float64 { return v.Sub(u).Norm() }

// Unit returns the unit vector in the direction of v.
// Returns ErrZeroNorm when the norm of v is (close to) zero.
func (v Vec3) Unit() (Vec3, error) {
	n := v.Norm()
	if n < normEps {
		return Vec3{}, ErrZeroNorm
	}
	return v.Scale(1 / n), nil
}

func (v Vec2) Add(u Vec2) Vec2 { return Vec2{v.X + u.X, v.Y + u.Y} }

func (v Vec2) Sub(u Vec2) Vec2 { return Vec2{v.X - u.X, v.Y - u.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

func (v Vec2) Dot(u Vec2) float64 { return v.X*u.X + v.Y*u.Y }

func (v Vec2) Norm() float64 { return math.Sqrt(v.Dot(v)) }

func (v Vec2) Dist(u Vec2) float64 { return v.Sub(u).Norm() }

// Unit returns the unit vector in the direction of v.
// Returns ErrZeroNorm when the norm of v is (close to) zero.
func (v Vec2) Unit() (Vec2, error) {
	n := v.Norm()
	if n < normEps {
		return Vec2{}, ErrZeroNorm
	}
	return v.Scale(1 / n), nil
}

// Perp returns v rotated 90 degrees clockwise. For a forward direction
// in the ground plane this is the rightward lateral axis, matching the
// cross product of the embedded 3D forward vector with +Z up.
func (v Vec2) Perp() Vec2 { return Vec2{v.Y, -v.X} }

// normEps is the threshold below which a norm is treated as zero.
const normEps = 1e-12

// ProjectPointLine projects point p onto the line through a and b.
// Returns ErrZeroNorm when a and b coincide.
func ProjectPointLine(p, a, b Vec3) (Vec3, error) {
	ap := p.Sub(a)
	ab := b.Sub(a)

	denom := ab.Dot(ab)
	if denom < normEps {
		return Vec3{}, ErrZeroNorm
	}
	return a.Add(ab.Scale(ap.Dot(ab) / denom)), nil
}

// ProjectPointLine2 projects 2D point p onto the line through a and b.
func ProjectPointLine2(p, a, b Vec2) (Vec2, error) {
	ap := p.Sub(a)
	ab := b.Sub(a)

	denom := ab.Dot(ab)
	if denom < normEps {
		return Vec2{}, ErrZeroNorm
	}
	return a.Add(ab.Scale(ap.Dot(ab) / denom)), nil
}

// ProjectPointPlane projects a point onto the plane defined by a point
// on the plane and its normal vector.
func ProjectPointPlane(p, planePoint, normal Vec3) (Vec3, error) {
	n, err := normal.Unit()
	if err != nil {
		return Vec3{}, err
	}
	return p.Sub(n.Scale(p.Sub(planePoint).Dot(n))), nil
}

// AngleBetween returns the angle between u and v in radians.
func AngleBetween(u, v Vec3) (float64, error) {
	uu, err := u.Unit()
	if err != nil {
		return 0, err
	}
	vv, err := v.Unit()
	if err != nil {
		return 0, err
	}

	// Clamp to the arccos domain; rounding can push the dot product
	// slightly outside [-1, 1].
	c := uu.Dot(vv)
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return math.Acos(c), nil
}

// SideValue returns a signed value locating target relative to an
// orientation given by forward and up directions. Positive means the
// target lies to the right, negative to the left; the magnitude grows
// with lateral distance.
func SideValue(forward, up, target Vec3) (float64, error) {
	n, err := forward.Cross(up).Unit()
	if err != nil {
		return 0, err
	}
	return n.Dot(target), nil
}

// LineCoordinates represents points in the 1D coordinate system of a
// line: the origin maps to zero and direction is the positive axis.
// The direction need not be normalised; pass a unit vector when the
// coordinates must be metric.
func LineCoordinates(origin, direction Vec3, points []Vec3) []float64 {
	coords := make([]float64, len(points))
	for i, p := range points {
		coords[i] = p.Sub(origin).Dot(direction)
	}
	return coords
}
