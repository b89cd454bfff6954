// Package controller implements the modal interpreter: it threads
// G-group state, the work-offset frame, and axis position through a
// parsed program's blocks, dispatching motion to a Listener and control
// flow via block-index jumps (spec.md §5). Grounded on the teacher's
// single big engine struct and its Evaluate dispatch loop
// (leftmike-gcode's engine.go), generalized from the teacher's one
// linear/arc motion mode into the full 30 S840D G-group vector and
// label/GOTO/IF/FOR control flow the teacher's RS274 dialect doesn't have.
package controller

import (
	"math"

	"github.com/leftmike/s840d/internal/geom"
)

// NumGGroups is the number of S840D G-groups (spec.md §5, grounded on
// original_source/src/ggroupenum.h). Groups 5 and 8 are not defined by
// the controller this spec targets; they are carried as always-UNDEF,
// MAX=0 slots rather than removed, so $P_GG[65] keeps the full-width
// layout the control expects.
const NumGGroups = 30

// ggroupMax holds each group's maximum valid code index (index 0 is
// UNDEF in every group), transcribed from ggroupenum.h. Only the groups
// this controller actually dispatches (1, 3, 6, 14) drive behavior;
// the rest are recorded faithfully but never change the motion or frame
// state, since machining semantics beyond geometry are out of scope.
var ggroupMax = [NumGGroups + 1]int{
	0,  // unused index 0
	21, // 1: motion (G0, G1, G2, G3, CIP, splines, ...)
	18, // 2: dwell/retrace
	18, // 3: frame (TRANS, ROT, SCALE, MIRROR, ...)
	3,  // 4: FIFO control
	0,  // 5: not defined
	3,  // 6: plane selection (G17, G18, G19)
	3,  // 7: tool radius compensation
	0,  // 8: not defined
	3,  // 9: SUPA/G53 frame suppression
	7,  // 10: path/corner behavior
	1,  // 11: exact stop (G9)
	3,  // 12: spline interpolation mode
	4,  // 13: inch/metric feed units
	2,  // 14: absolute/incremental (G90, G91)
	13, // 15: feedrate mode
	3,  // 16: tool-tip/center feedrate reference
	4,  // 17: corner behavior for contour
	2,  // 18: tool-radius-compensation corner
	3,  // 19: path start behavior
	3,  // 20: path end behavior
	3,  // 21: jerk limiting
	11, // 22: 3D tool compensation
	3,  // 23: contour-dependent speed
	2,  // 24: feedforward
	2,  // 25: tool orientation reference
	4,  // 26: tool orientation rotation mode
	2,  // 27: tool orientation interpolation
	2,  // 28: working area limitation
	4,  // 29: diameter programming
	5,  // 30: tool radius compensation build-up
}

// GGroupVector is the 30-group modal state, one selected code index per
// group (0 == UNDEF, nothing selected yet).
type GGroupVector [NumGGroups + 1]int

// Set validates code against group's MAX before storing it (alarm
// InvalidG on overflow).
func (v *GGroupVector) Set(group, code int) bool {
	if group < 1 || group > NumGGroups || code < 0 || code > ggroupMax[group] {
		return false
	}
	v[group] = code
	return true
}

// Motion group (1) code indices, in ggroupenum.h order.
const (
	MotionUndef = iota
	MotionG0
	MotionG1
	MotionG2
	MotionG3
	MotionCIP
	MotionASpline
	MotionBSpline
	MotionCSpline
)

// Plane group (6) code indices.
const (
	PlaneUndef = iota
	PlaneG17 // XY
	PlaneG18 // ZX
	PlaneG19 // YZ
)

// Distance mode group (14) code indices.
const (
	DistanceUndef = iota
	DistanceG90 // absolute
	DistanceG91 // incremental
)

// Frame group (3) code indices, for the commands this controller applies.
const (
	FrameUndef = iota
	FrameTrans
	FrameRot
	FrameScale
	FrameMirror
	FrameATrans
	FrameARot
	FrameAScale
	FrameAMirror
)

// Frame is the active work-offset transform: translation and a Z-axis
// rotation are applied to programmed positions; Scale and Mirror are
// recorded but not yet folded into the transform (spec.md's Non-goals
// exclude general machining semantics, and S840D SCALE/MIRROR interact
// with tool radius compensation in ways this geometry-only core doesn't
// model — see DESIGN.md).
type Frame struct {
	Offset   geom.Point3
	RotZDeg  float64
	Scale    geom.Point3
	MirrorX  bool
	MirrorY  bool
	MirrorZ  bool
}

// IdentityFrame returns the frame with no offset, rotation, scale or
// mirroring applied.
func IdentityFrame() Frame {
	return Frame{Scale: geom.Point3{X: 1, Y: 1, Z: 1}}
}

// Apply maps a point from work coordinates to base coordinates through
// this frame's rotation then translation.
func (f Frame) Apply(p geom.Point3) geom.Point3 {
	rad := f.RotZDeg * math.Pi / 180
	x := p.X*math.Cos(rad) - p.Y*math.Sin(rad)
	y := p.X*math.Sin(rad) + p.Y*math.Cos(rad)
	return geom.Point3{X: x + f.Offset.X, Y: y + f.Offset.Y, Z: p.Z + f.Offset.Z}
}

// Translate composes an additional translation (TRANS: replaces the
// offset; ATRANS: accumulates onto it).
func (f Frame) Translate(d geom.Point3, additive bool) Frame {
	if additive {
		f.Offset = geom.Point3{X: f.Offset.X + d.X, Y: f.Offset.Y + d.Y, Z: f.Offset.Z + d.Z}
	} else {
		f.Offset = d
	}
	return f
}

// Rotate composes an additional Z rotation (ROT: replaces; AROT: accumulates).
func (f Frame) Rotate(deg float64, additive bool) Frame {
	if additive {
		f.RotZDeg += deg
	} else {
		f.RotZDeg = deg
	}
	return f
}

// Position is the current tool-tip position in work coordinates.
type Position struct {
	X, Y, Z float64
}

func (p Position) ToPoint3() geom.Point3 { return geom.Point3{X: p.X, Y: p.Y, Z: p.Z} }
