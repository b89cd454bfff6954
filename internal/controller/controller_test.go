package controller

import (
	"testing"

	"github.com/leftmike/s840d/internal/alarm"
	"github.com/leftmike/s840d/internal/geom"
)

// recorder is a Listener that records every call it receives except
// BlockChange, in order, for assertions (grounded on the teacher's test style of collecting
// engine.Evaluate's motion callbacks into a slice in engine_test.go).
// It also keeps the last arc/helix/feed it was handed, so tests can
// assert on the geometry and feed a plain event-kind log can't show.
type recorder struct {
	events   []string
	lastArc  *geom.DirectedArc2
	lastHx   *geom.Helix
	lastFeed float64
}

func (r *recorder) StartPoint(x, y, z float64) {
	r.events = append(r.events, event("start", x, y, z))
}
func (r *recorder) BlockChange(i int) {}
func (r *recorder) LinearMotion(x, y, z, feed float64) {
	r.lastFeed = feed
	r.events = append(r.events, event("linear", x, y, z))
}
func (r *recorder) CircularMotion(arc *geom.DirectedArc2, x, y, z float64) {
	r.lastArc = arc
	r.events = append(r.events, event("circular", x, y, z))
}
func (r *recorder) HelicalMotion(h *geom.Helix, x, y, z float64) {
	r.lastHx = h
	r.events = append(r.events, event("helical", x, y, z))
}
func (r *recorder) EndOfProgram() {
	r.events = append(r.events, "end")
}

func event(kind string, x, y, z float64) string {
	return kind
}

func approx(a, b float64) bool {
	d := a - b
	return d > -1e-6 && d < 1e-6
}

func TestSeedLinearRapidWithExpression(t *testing.T) {
	rec := &recorder{}
	c := New(rec)
	if err := c.Run([]string{"G0 X=(10+2*3)"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(c.Pos.X, 16) || !approx(c.Pos.Y, 0) || !approx(c.Pos.Z, 0) {
		t.Fatalf("Pos = %+v, want (16,0,0)", c.Pos)
	}
	wantEvents(t, rec, "start", "linear", "end")
	if rec.lastFeed != 0 {
		t.Fatalf("feed = %v, want 0 (rapid)", rec.lastFeed)
	}
}

func TestSeedLinearWithFeed(t *testing.T) {
	rec := &recorder{}
	c := New(rec)
	if err := c.Run([]string{"G1 F100 X10 Y0"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(c.Pos.X, 10) {
		t.Fatalf("Pos.X = %v, want 10", c.Pos.X)
	}
	wantEvents(t, rec, "start", "linear", "end")
	if !approx(rec.lastFeed, 100) {
		t.Fatalf("feed = %v, want 100", rec.lastFeed)
	}
}

func TestSeedCircularMotion(t *testing.T) {
	rec := &recorder{}
	c := New(rec)
	if err := c.Run([]string{"G17 G2 F100 X10 Y10 I10 J0"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantEvents(t, rec, "start", "circular", "end")
	if rec.lastArc == nil {
		t.Fatal("CircularMotion was not given an arc")
	}
	if !approx(rec.lastArc.Center.X, 10) || !approx(rec.lastArc.Center.Y, 0) {
		t.Fatalf("arc center = %+v, want (10,0)", rec.lastArc.Center)
	}
	if !rec.lastArc.Clockwise {
		t.Fatal("arc direction = CCW, want CW (G2)")
	}
}

func TestSeedHelicalMotion(t *testing.T) {
	rec := &recorder{}
	c := New(rec)
	err := c.Run([]string{
		"G0 X10 Y0",
		"G17 G2 F100 X0 Y0 I0 J0 TURN=2 Z10",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantEvents(t, rec, "start", "linear", "helical", "end")
	if !approx(c.Pos.Z, 10) {
		t.Fatalf("Pos.Z = %v, want 10", c.Pos.Z)
	}
	if rec.lastHx == nil {
		t.Fatal("HelicalMotion was not given a helix")
	}
	if !approx(rec.lastHx.StartZ, 0) || !approx(rec.lastHx.EndZ, 10) {
		t.Fatalf("helix Z = [%v,%v], want [0,10]", rec.lastHx.StartZ, rec.lastHx.EndZ)
	}
	// TURN=2 must trace 2 extra full revolutions before the closing sweep.
	if rec.lastHx.Arc.Turns != 3 {
		t.Fatalf("Arc.Turns = %v, want 3 (TURN=2 plus the closing sweep)", rec.lastHx.Arc.Turns)
	}
}

func TestTurnWithoutZChangeIsStillHelical(t *testing.T) {
	rec := &recorder{}
	c := New(rec)
	err := c.Run([]string{
		"G0 X10 Y0",
		"G17 G2 F100 X0 Y0 I0 J0 TURN=1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantEvents(t, rec, "start", "linear", "helical", "end")
	if rec.lastHx.Arc.Turns != 2 {
		t.Fatalf("Arc.Turns = %v, want 2 (TURN=1 plus the closing sweep)", rec.lastHx.Arc.Turns)
	}
}

func TestNegativeTurnCountAlarm(t *testing.T) {
	c := New(nil)
	err := c.Run([]string{"G17 G2 F100 X0 Y0 I0 J0 TURN=-1"})
	assertAlarm(t, err, alarm.BadTurnCount)
}

func TestCircularMotionFromRadius(t *testing.T) {
	rec := &recorder{}
	c := New(rec)
	err := c.Run([]string{
		"G0 X10 Y0",
		"G17 G2 F100 X0 Y10 CR=10",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantEvents(t, rec, "start", "linear", "circular", "end")
}

func TestCIPCircularMotion(t *testing.T) {
	rec := &recorder{}
	c := New(rec)
	err := c.Run([]string{
		"CIP F100 X10 Y0 I1=5 J1=5",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantEvents(t, rec, "start", "circular", "end")
	if rec.lastArc == nil {
		t.Fatal("CircularMotion was not given an arc")
	}
}

func TestCIPHelicalMotion(t *testing.T) {
	rec := &recorder{}
	c := New(rec)
	err := c.Run([]string{
		"CIP F100 X10 Y0 Z5 I1=5 J1=5",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantEvents(t, rec, "start", "helical", "end")
	if rec.lastHx == nil {
		t.Fatal("HelicalMotion was not given a helix")
	}
	if !approx(rec.lastHx.StartZ, 0) || !approx(rec.lastHx.EndZ, 5) {
		t.Fatalf("helix Z = [%v,%v], want [0,5]", rec.lastHx.StartZ, rec.lastHx.EndZ)
	}
}

func TestSeedRParamAssignThenAddress(t *testing.T) {
	rec := &recorder{}
	c := New(rec)
	err := c.Run([]string{
		"R1=5",
		"X=R[1]",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(c.Pos.X, 5) {
		t.Fatalf("Pos.X = %v, want 5", c.Pos.X)
	}
}

func TestSeedIfFalseSkipsBranch(t *testing.T) {
	rec := &recorder{}
	c := New(rec)
	err := c.Run([]string{
		"IF 1==2",
		"X1",
		"ENDIF",
		"X2",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(c.Pos.X, 2) {
		t.Fatalf("Pos.X = %v, want 2 (the IF body must be skipped)", c.Pos.X)
	}
	// Exactly one motion event plus start/end.
	wantEvents(t, rec, "start", "linear", "end")
}

func TestSeedForLoopThreeIterations(t *testing.T) {
	rec := &recorder{}
	c := New(rec)
	err := c.Run([]string{
		"FOR R1=1 TO 3",
		"X=R1",
		"ENDFOR",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantEvents(t, rec, "start", "linear", "linear", "linear", "end")
	if !approx(c.Pos.X, 3) {
		t.Fatalf("Pos.X = %v, want 3 after three iterations", c.Pos.X)
	}
}

func TestDoubleSetAxisAlarm(t *testing.T) {
	c := New(nil)
	err := c.Run([]string{"X1 X2"})
	assertAlarm(t, err, alarm.DoubleSetAxis)
}

func TestNoFeedAlarmOnG1(t *testing.T) {
	c := New(nil)
	err := c.Run([]string{"G1 X10"})
	assertAlarm(t, err, alarm.NoFeed)
}

func TestArrayOutOfBoundsAlarm(t *testing.T) {
	c := New(nil)
	err := c.Run([]string{"R[200]=1"})
	assertAlarm(t, err, alarm.ArrayOutOfBounds)
}

func TestDefAfterMotionBlockAlarm(t *testing.T) {
	c := New(nil)
	err := c.Run([]string{
		"X1",
		"DEF REAL MYVAR",
	})
	assertAlarm(t, err, alarm.DefAfterCode)
}

func TestGotoLabelJumpsForward(t *testing.T) {
	rec := &recorder{}
	c := New(rec)
	err := c.Run([]string{
		`GOTOF "TARGET"`,
		"X1",
		"TARGET: X2",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(c.Pos.X, 2) {
		t.Fatalf("Pos.X = %v, want 2 (X1 block must be skipped)", c.Pos.X)
	}
}

func wantEvents(t *testing.T, rec *recorder, want ...string) {
	t.Helper()
	if len(rec.events) != len(want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Fatalf("events = %v, want %v", rec.events, want)
		}
	}
}

func assertAlarm(t *testing.T, err error, code alarm.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected alarm %d, got no error", code)
	}
	a, ok := alarm.As(err)
	if !ok {
		t.Fatalf("expected alarm %d, got non-alarm error: %v", code, err)
	}
	if a.Code != code {
		t.Fatalf("got alarm %d, want %d", a.Code, code)
	}
}
