package geom

import "math"

// Helix is a planar arc (spec.md §4.5's G2/G3 in a fixed coordinate
// plane) combined with a linear advance along the plane's normal axis,
// the S840D helical-interpolation motion. Grounded on the teacher's
// arcTo, which computes a "normal" Z delta and divides it evenly across
// the arc's sampled steps (leftmike-gcode's arc.go) — generalized here
// from a fixed XY-plane/Z-normal pair into any Arc2 plus any advance
// axis, with the step-emitting callback replaced by a parametric
// sampler.
type Helix struct {
	Arc    *DirectedArc2
	StartZ float64
	EndZ   float64
}

// NewHelix pairs a plane arc with the third-axis advance across its sweep.
func NewHelix(arc *DirectedArc2, startZ, endZ float64) *Helix {
	return &Helix{Arc: arc, StartZ: startZ, EndZ: endZ}
}

// Sample returns the point at parameter t in [0,1]: the arc's XY
// position at t paired with the Z advance linearly interpolated between
// StartZ and EndZ.
func (h *Helix) Sample(t float64) Point3 {
	p := h.Arc.Sample(t)
	z := h.StartZ + (h.EndZ-h.StartZ)*t
	return Point3{X: p.X, Y: p.Y, Z: z}
}

// Length returns the 3D path length: the arc length and the axis
// advance combined as the hypotenuse of a right triangle, matching the
// teacher's travelTotal computation (leftmike-gcode's arc.go).
func (h *Helix) Length() float64 {
	return math.Hypot(h.Arc.Length(), h.EndZ-h.StartZ)
}
