// Package geom implements the arc and helix geometry spec.md §4.5
// requires: directed circular arcs in a plane, and helices that add a
// linear third-axis advance across the arc's sweep. Grounded on the
// teacher's radiusCenter/arcTo pair (leftmike-gcode's arc.go), which
// this package generalizes from a single XY-plane, single-winding
// implementation into named 2D/3D constructors with an explicit
// parametric sampler instead of a step-emitting callback.
package geom

import "math"

// tolerance is the default distance/equidistance tolerance used when a
// caller doesn't supply one (spec.md §4.5's default arc tolerance).
const tolerance = 0.015

// Point2 is a point in the arc's plane.
type Point2 struct {
	X, Y float64
}

func (p Point2) sub(q Point2) Point2    { return Point2{p.X - q.X, p.Y - q.Y} }
func (p Point2) add(q Point2) Point2    { return Point2{p.X + q.X, p.Y + q.Y} }
func (p Point2) scale(s float64) Point2 { return Point2{p.X * s, p.Y * s} }

func dist2(p, q Point2) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Point3 adds a third-axis coordinate, the helix/CIP advance direction.
type Point3 struct {
	X, Y, Z float64
}

func (p Point3) To2() Point2 { return Point2{p.X, p.Y} }
