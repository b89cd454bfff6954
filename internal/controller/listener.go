package controller

import "github.com/leftmike/s840d/internal/geom"

// Listener receives motion and program events as the interpreter
// executes a program, synchronously and from a single goroutine
// (spec.md §5). The controller never calls the next method until the
// previous one returns. CircularMotion/HelicalMotion carry the
// constructed arc/helix alongside the frame-transformed endpoint, since
// the per-block I/J/K, CR, TURN and working-plane inputs that built them
// don't survive past the block that programmed them.
type Listener interface {
	StartPoint(x, y, z float64)
	BlockChange(blockIndex int)
	LinearMotion(x, y, z, feed float64)
	CircularMotion(arc *geom.DirectedArc2, x, y, z float64)
	HelicalMotion(h *geom.Helix, x, y, z float64)
	EndOfProgram()
}

// NullListener implements Listener with no-ops, for callers that only
// want the interpreter's side effects on variables/alarms.
type NullListener struct{}

func (NullListener) StartPoint(x, y, z float64)                             {}
func (NullListener) BlockChange(blockIndex int)                             {}
func (NullListener) LinearMotion(x, y, z, feed float64)                     {}
func (NullListener) CircularMotion(arc *geom.DirectedArc2, x, y, z float64) {}
func (NullListener) HelicalMotion(h *geom.Helix, x, y, z float64)           {}
func (NullListener) EndOfProgram()                                          {}
