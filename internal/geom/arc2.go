package geom

import (
	"errors"
	"math"
)

// DirectedArc2 is a circular arc in a plane, swept from Start to End
// around Center in the direction Clockwise indicates, possibly wound
// through more than one full turn (spec.md §4.5).
type DirectedArc2 struct {
	Center     Point2
	Radius     float64
	Start      Point2
	End        Point2
	Clockwise  bool
	Turns      int // windings including the final sweep to End, >=1; Turns-1 full extra turns come first
	startAngle float64
	sweep      float64 // total sweep angle in radians, always positive; Clockwise gives the direction
}

// Create2PointsCenter builds an arc from explicit start/end/center
// points (the I/J/K center-offset form). It fails if start and end are
// not equidistant from center within tol (spec.md §4.5's center
// equidistance invariant).
func Create2PointsCenter(start, end, center Point2, clockwise bool, turns int, tol float64) (*DirectedArc2, error) {
	if tol <= 0 {
		tol = tolerance
	}
	if turns < 1 {
		turns = 1
	}
	rs := dist2(start, center)
	re := dist2(end, center)
	if math.Abs(rs-re) > tol {
		return nil, errors.New("geom: start and end are not equidistant from center")
	}
	return newArc(center, (rs+re)/2, start, end, clockwise, turns), nil
}

// Create2PointsRadius builds an arc from start/end points and a signed
// radius: positive radius takes the minor arc (sweep <= pi), negative
// the major arc (sweep > pi) — the S840D R-word convention. Grounded on
// the teacher's radiusCenter (leftmike-gcode's arc.go), generalized from
// a fixed clockwise/counter-clockwise pair into any DirectedArc2.
func Create2PointsRadius(start, end Point2, radius float64, clockwise bool) (*DirectedArc2, error) {
	if start == end {
		return nil, errors.New("geom: start and end must differ for a radius arc")
	}
	if radius == 0 {
		return nil, errors.New("geom: radius must be nonzero")
	}

	chord := dist2(start, end)
	r := math.Abs(radius)
	if chord > 2*r {
		if chord-2*r > tolerance {
			return nil, errors.New("geom: radius too small for chord length")
		}
		r = chord / 2
	}

	mid := start.add(end).scale(0.5)
	theta := math.Atan2(end.Y-start.Y, end.X-start.X)
	if (clockwise && radius > 0) || (!clockwise && radius < 0) {
		theta -= math.Pi / 2
	} else {
		theta += math.Pi / 2
	}
	offset := r * math.Cos(math.Asin(chord/(2*r)))
	center := Point2{
		X: mid.X + offset*math.Cos(theta),
		Y: mid.Y + offset*math.Sin(theta),
	}

	return newArc(center, r, start, end, clockwise, 1), nil
}

// Create3Points builds the arc through three points, with p1 and p3 as
// the start/end and p2 an intermediate point on the arc (the CIP form).
// clockwise sets the sweep direction from p1 to p3; the swept arc passes
// through p2 only when that direction matches the side of the p1-p3
// chord that p2 lies on.
func Create3Points(p1, p2, p3 Point2, clockwise bool) (*DirectedArc2, error) {
	center, radius, err := circumcenter(p1, p2, p3)
	if err != nil {
		return nil, err
	}
	return newArc(center, radius, p1, p3, clockwise, 1), nil
}

// circumcenter returns the center and radius of the circle through three
// non-collinear points.
func circumcenter(a, b, c Point2) (Point2, float64, error) {
	ax, ay := a.X, a.Y
	bx, by := b.X, b.Y
	cx, cy := c.X, c.Y

	d := 2 * (ax*(by-cy) + bx*(cy-ay) + cx*(ay-by))
	if math.Abs(d) < 1e-12 {
		return Point2{}, 0, errors.New("geom: three points are collinear")
	}

	ux := ((ax*ax+ay*ay)*(by-cy) + (bx*bx+by*by)*(cy-ay) + (cx*cx+cy*cy)*(ay-by)) / d
	uy := ((ax*ax+ay*ay)*(cx-bx) + (bx*bx+by*by)*(ax-cx) + (cx*cx+cy*cy)*(bx-ax)) / d

	center := Point2{X: ux, Y: uy}
	return center, dist2(center, a), nil
}

func newArc(center Point2, radius float64, start, end Point2, clockwise bool, turns int) *DirectedArc2 {
	startAngle := math.Atan2(start.Y-center.Y, start.X-center.X)
	endAngle := math.Atan2(end.Y-center.Y, end.X-center.X)

	var sweep float64
	if clockwise {
		sweep = startAngle - endAngle
	} else {
		sweep = endAngle - startAngle
	}
	for sweep < 0 {
		sweep += 2 * math.Pi
	}
	if sweep == 0 {
		sweep = 2 * math.Pi
	}
	sweep += float64(turns-1) * 2 * math.Pi

	return &DirectedArc2{
		Center: center, Radius: radius, Start: start, End: end,
		Clockwise: clockwise, Turns: turns,
		startAngle: startAngle, sweep: sweep,
	}
}

// Sweep returns the total sweep angle in radians, including any extra
// full turns. It is always positive; Clockwise gives the direction.
func (a *DirectedArc2) Sweep() float64 { return a.sweep }

// Sample returns the point at parameter t in [0,1] along the arc, t=0 at
// Start and t=1 at End.
func (a *DirectedArc2) Sample(t float64) Point2 {
	dir := 1.0
	if a.Clockwise {
		dir = -1.0
	}
	angle := a.startAngle + dir*a.sweep*t
	return Point2{
		X: a.Center.X + a.Radius*math.Cos(angle),
		Y: a.Center.Y + a.Radius*math.Sin(angle),
	}
}

// Length returns the arc's total path length.
func (a *DirectedArc2) Length() float64 {
	return a.Radius * a.sweep
}
