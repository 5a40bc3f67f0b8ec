package geom

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrUnderdefined is returned when too few points are supplied to
// define a line of best fit.
var ErrUnderdefined = errors.New("geom: at least two points required")

// BestFitLine returns the centroid and unit direction of the line of
// best fit through a set of 3D points. The direction is the right
// singular vector with the largest singular value; its sign is
// arbitrary, so orient it against a known reference when it matters.
func BestFitLine(points []Vec3) (centroid, direction Vec3, err error) {
	if len(points) < 2 {
		return Vec3{}, Vec3{}, ErrUnderdefined
	}

	for _, p := range points {
		centroid = centroid.Add(p)
	}
	centroid = centroid.Scale(1 / float64(len(points)))

	m := mat.NewDense(len(points), 3, nil)
	for i, p := range points {
		d := p.Sub(centroid)
		m.Set(i, 0, d.X)
		m.Set(i, 1, d.Y)
		m.Set(i, 2, d.Z)
	}

	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDThinV); !ok {
		return Vec3{}, Vec3{}, fmt.Errorf("geom: SVD failed to converge")
	}
	var v mat.Dense
	svd.VTo(&v)

	direction = Vec3{v.At(0, 0), v.At(1, 0), v.At(2, 0)}
	if direction.Norm() < normEps {
		return Vec3{}, Vec3{}, ErrZeroNorm
	}
	return centroid, direction, nil
}

// BestFitLine2 returns the centroid and unit direction of the line of
// best fit through a set of 2D points.
func BestFitLine2(points []Vec2) (centroid, direction Vec2, err error) {
	if len(points) < 2 {
		return Vec2{}, Vec2{}, ErrUnderdefined
	}

	for _, p := range points {
		centroid = centroid.Add(p)
	}
	centroid = centroid.Scale(1 / float64(len(points)))

	m := mat.NewDense(len(points), 2, nil)
	for i, p := range points {
		d := p.Sub(centroid)
		m.Set(i, 0, d.X)
		m.Set(i, 1, d.Y)
	}

	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDThinV); !ok {
		return Vec2{}, Vec2{}, fmt.Errorf("geom: SVD failed to converge")
	}
	var v mat.Dense
	svd.VTo(&v)

	direction = Vec2{v.At(0, 0), v.At(1, 0)}
	if direction.Norm() < normEps {
		return Vec2{}, Vec2{}, ErrZeroNorm
	}
	return centroid, direction, nil
}

// DistPointLine2 returns the perpendicular distance from a 2D point to
// the line through origin with the given unit direction.
func DistPointLine2(p, origin, direction Vec2) float64 {
	d := p.Sub(origin)
	along := d.Dot(direction)
	return d.Sub(direction.Scale(along)).Norm()
}
