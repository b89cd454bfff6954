package controller

import (
	"log"
	"strconv"

	"github.com/leftmike/s840d/internal/alarm"
	"github.com/leftmike/s840d/internal/ast"
	"github.com/leftmike/s840d/internal/eval"
	"github.com/leftmike/s840d/internal/geom"
	"github.com/leftmike/s840d/internal/parser"
	"github.com/leftmike/s840d/internal/value"
	"github.com/leftmike/s840d/internal/vars"
)

// MaxJumps bounds GOTO execution so a runaway program (a GOTO cycle with
// no terminating condition) can't spin the interpreter forever.
const MaxJumps = 1000000

// Tolerance is the default arc/equidistance tolerance passed to
// internal/geom constructors (spec.md §4.5, matching the teacher's
// hard-coded arc.go constant; see internal/geom.tolerance).
const Tolerance = 0.015

// gcode maps a numeric G-code to the group/index it sets, for the groups
// this controller actually dispatches (motion, plane, distance mode). A G-code outside this table is accepted silently and leaves
// modal state unchanged: the full S840D G-code set reaches into tool
// compensation, retraction and path-behavior semantics that spec.md's
// Non-goals place out of scope, but programs that use them shouldn't
// fail to parse or run on that account.
var gcode = map[string]struct{ group, index int }{
	"0": {1, MotionG0}, "1": {1, MotionG1}, "2": {1, MotionG2}, "3": {1, MotionG3},
	"17": {6, PlaneG17}, "18": {6, PlaneG18}, "19": {6, PlaneG19},
	"90": {14, DistanceG90}, "91": {14, DistanceG91},
}

// Controller is the modal interpreter: G-group state, work-offset frame
// and axis position threaded across a parsed program's blocks (spec.md
// §5). Grounded on the teacher's single engine struct and its per-block
// Evaluate dispatch (leftmike-gcode's engine.go), generalized from one
// linear/arc motion mode into the full G-group/frame/control-flow model.
type Controller struct {
	Listener Listener
	Vars     *vars.Store
	GGroups  GGroupVector
	Frame    Frame
	Pos      Position
	Feed     float64

	// MaxJumps and Tolerance override the package defaults when nonzero,
	// for callers wiring in internal/config settings.
	MaxJumps  int
	Tolerance float64

	blocks     []*ast.Block
	defAllowed bool
	jumps      int
	halted     bool
}

// New returns a Controller ready to Run a program, with identity frame,
// zero position and a fresh variable store.
func New(listener Listener) *Controller {
	if listener == nil {
		listener = NullListener{}
	}
	return &Controller{
		Listener:   listener,
		Vars:       vars.New(),
		Frame:      IdentityFrame(),
		defAllowed: true,
		MaxJumps:   MaxJumps,
		Tolerance:  Tolerance,
	}
}

// maxJumps returns c.MaxJumps, falling back to the package default if the
// caller left it at zero.
func (c *Controller) maxJumps() int {
	if c.MaxJumps == 0 {
		return MaxJumps
	}
	return c.MaxJumps
}

// tolerance returns c.Tolerance, falling back to the package default if
// the caller left it at zero.
func (c *Controller) tolerance() float64 {
	if c.Tolerance == 0 {
		return Tolerance
	}
	return c.Tolerance
}

// loopFrame tracks one active FOR loop, keyed by nesting level.
type loopFrame struct {
	forPC int
	target ast.LValue
	bound  ast.Expr
}

// Run parses every line (phase 1) then evaluates the parsed blocks in
// order (phase 2), per spec.md §5's two-phase design. A parse alarm
// stops phase 1 early but evaluation still runs over whatever blocks
// were successfully parsed before it; the alarm is returned once
// evaluation completes. An alarm raised during evaluation aborts the
// whole run immediately; any other error during one block's evaluation
// is logged and execution continues at the next block.
func (c *Controller) Run(lines []string) error {
	p := parser.New()
	var parseErr error
	c.blocks = nil
	for _, line := range lines {
		b, err := p.ParseBlock(line)
		if err != nil {
			parseErr = err
			break
		}
		c.blocks = append(c.blocks, b)
	}

	c.jumps = 0
	c.defAllowed = true
	c.GGroups = GGroupVector{}
	c.Frame = IdentityFrame()
	c.Pos = Position{}
	c.halted = false

	c.Listener.StartPoint(c.Pos.X, c.Pos.Y, c.Pos.Z)

	loops := map[int]*loopFrame{}
	pc := 0
	for pc < len(c.blocks) {
		b := c.blocks[pc]
		c.Listener.BlockChange(pc)

		// DEF-section policy (spec.md §4.6 step 4): any non-DEF block
		// permanently disables further DEF blocks, regardless of
		// whether this block is a control-flow block or an ordinary one.
		wasAllowed := c.defAllowed
		if !isDefBlock(b) {
			c.defAllowed = false
		}

		next, err := c.stepControl(b, pc, loops)
		if err != nil {
			if _, ok := alarm.As(err); ok {
				return err
			}
			log.Printf("controller: block %d: unexpected error: %v", pc, err)
			pc++
			continue
		}
		if next >= 0 {
			pc = next
			continue
		}

		if err := c.execBlock(b, wasAllowed); err != nil {
			if _, ok := alarm.As(err); ok {
				return err
			}
			log.Printf("controller: block %d: unexpected error: %v", pc, err)
		}
		if c.halted {
			break
		}
		pc++
	}

	c.Listener.EndOfProgram()
	return parseErr
}

func isDefBlock(b *ast.Block) bool {
	if len(b.Content) != 1 {
		return false
	}
	_, ok := b.Content[0].(*ast.DefStmt)
	return ok
}

// stepControl handles the control-flow node kinds that change pc rather
// than variable/motion state: IF/ELSE/ENDIF, FOR/ENDFOR, GOTO family. It
// returns next >= 0 when pc should jump there instead of falling through
// to execBlock/pc+1.
func (c *Controller) stepControl(b *ast.Block, pc int, loops map[int]*loopFrame) (int, error) {
	if len(b.Content) != 1 {
		return -1, nil
	}

	switch n := b.Content[0].(type) {
	case *ast.IfStmt:
		cond, err := eval.Eval(n.Condition, c.Vars)
		if err != nil {
			return -1, err
		}
		bv, err := value.AssignCast(cond, value.BOOL)
		if err != nil {
			return -1, err
		}
		if bv.B {
			return -1, nil // fall into the if-body
		}
		target, err := c.findBranch(pc, b.NestingLevel, true)
		if err != nil {
			return -1, err
		}
		return target + 1, nil

	case *ast.ElseStmt:
		// Reached by falling through an executed if-body: skip the else
		// branch and resume after the matching ENDIF.
		target, err := c.findBranch(pc, b.NestingLevel, false)
		if err != nil {
			return -1, err
		}
		return target, nil

	case *ast.EndIfStmt:
		return -1, nil

	case *ast.ForStmt:
		lf := loops[b.NestingLevel]
		if lf == nil || lf.forPC != pc {
			init, err := eval.Eval(n.Init, c.Vars)
			if err != nil {
				return -1, err
			}
			if err := c.assign(n.Var, init); err != nil {
				return -1, err
			}
			lf = &loopFrame{forPC: pc, target: n.Var, bound: n.Bound}
			loops[b.NestingLevel] = lf
		}
		ok, err := c.forContinues(lf)
		if err != nil {
			return -1, err
		}
		if ok {
			return -1, nil
		}
		delete(loops, b.NestingLevel)
		target, err := c.findBranch(pc, b.NestingLevel, true)
		if err != nil {
			return -1, err
		}
		return target + 1, nil

	case *ast.EndForStmt:
		lf := loops[b.NestingLevel]
		if lf == nil {
			return -1, alarm.New(alarm.BadNesting, "ENDFOR without matching FOR")
		}
		cur, err := c.lvalue(lf.target)
		if err != nil {
			return -1, err
		}
		next, err := value.Add(cur, value.Int(1))
		if err != nil {
			return -1, err
		}
		next, err = value.AssignCast(next, cur.Tag)
		if err != nil {
			return -1, err
		}
		if err := c.assign(lf.target, next); err != nil {
			return -1, err
		}
		return lf.forPC, nil

	case *ast.GotoStmt:
		target, err := c.resolveGoto(n, pc)
		if err != nil {
			return -1, err
		}
		return target, nil

	case *ast.ConditionalGotoStmt:
		return c.stepConditionalGoto(n, pc)
	}

	return -1, nil
}

func (c *Controller) stepConditionalGoto(n *ast.ConditionalGotoStmt, pc int) (int, error) {
	for n != nil {
		cond, err := eval.Eval(n.Condition, c.Vars)
		if err != nil {
			return -1, err
		}
		bv, err := value.AssignCast(cond, value.BOOL)
		if err != nil {
			return -1, err
		}
		if bv.B {
			return c.resolveGoto(n.Goto, pc)
		}
		n = n.Next
	}
	return -1, nil
}

func (c *Controller) forContinues(lf *loopFrame) (bool, error) {
	cur, err := c.lvalue(lf.target)
	if err != nil {
		return false, err
	}
	bound, err := eval.Eval(lf.bound, c.Vars)
	if err != nil {
		return false, err
	}
	ok, err := value.Compare(cur, bound, "LE")
	if err != nil {
		return false, err
	}
	return ok, nil
}

// findBranch scans forward from pc for the next block at nestLevel whose
// sole content node is an EndIfStmt/EndForStmt, or also an ElseStmt when
// wantElse is set, returning its index.
func (c *Controller) findBranch(pc, nestLevel int, wantElse bool) (int, error) {
	for i := pc + 1; i < len(c.blocks); i++ {
		b := c.blocks[i]
		if !b.IsControl || b.NestingLevel != nestLevel || len(b.Content) != 1 {
			continue
		}
		switch b.Content[0].(type) {
		case *ast.ElseStmt:
			if wantElse {
				return i, nil
			}
		case *ast.EndIfStmt, *ast.EndForStmt:
			return i, nil
		}
	}
	return 0, alarm.New(alarm.BadNesting, "no matching ELSE/ENDIF/ENDFOR")
}

// gotoName evaluates a GOTO target, which must be a STRING (alarm
// 12150 otherwise), and reports whether it names a block number (it
// begins with a digit) or a label (spec.md §4.6's GOTO* target rule).
func gotoName(target ast.Expr, store *vars.Store) (name string, isNumber bool, err error) {
	v, err := eval.Eval(target, store)
	if err != nil {
		return "", false, err
	}
	if v.Tag != value.STRING {
		return "", false, alarm.New(alarm.TypeMismatch, "GOTO target must be STRING")
	}
	if len(v.S) > 0 && v.S[0] >= '0' && v.S[0] <= '9' {
		return v.S, true, nil
	}
	return v.S, false, nil
}

func matchesTarget(b *ast.Block, name string, isNumber bool) bool {
	if isNumber {
		return b.Number != nil && b.Number.Digits == name
	}
	return b.Label == name
}

// resolveGoto finds the block index a GOTO/GOTOB/GOTOF/GOTOC names.
// GOTOF/GOTOB search strictly forward/backward from pc; plain GOTO
// searches forward then backward; GOTOC is the same as GOTO except a
// miss isn't an alarm, it just falls through to the next block.
func (c *Controller) resolveGoto(g *ast.GotoStmt, pc int) (int, error) {
	c.jumps++
	if c.jumps > c.maxJumps() {
		return 0, alarm.New(alarm.JumpLimitExceeded, "more than %d jumps executed", c.maxJumps())
	}

	name, isNumber, err := gotoName(g.Target, c.Vars)
	if err != nil {
		return 0, err
	}

	forward := func() (int, bool) {
		for i := pc + 1; i < len(c.blocks); i++ {
			if matchesTarget(c.blocks[i], name, isNumber) {
				return i, true
			}
		}
		return 0, false
	}
	backward := func() (int, bool) {
		for i := pc - 1; i >= 0; i-- {
			if matchesTarget(c.blocks[i], name, isNumber) {
				return i, true
			}
		}
		return 0, false
	}

	switch g.Kind {
	case ast.GotoF:
		if idx, ok := forward(); ok {
			return idx, nil
		}
	case ast.GotoB:
		if idx, ok := backward(); ok {
			return idx, nil
		}
	case ast.GotoC:
		if idx, ok := forward(); ok {
			return idx, nil
		}
		if idx, ok := backward(); ok {
			return idx, nil
		}
		return pc + 1, nil
	default: // Goto: forward then backward
		if idx, ok := forward(); ok {
			return idx, nil
		}
		if idx, ok := backward(); ok {
			return idx, nil
		}
	}
	return 0, alarm.New(alarm.GotoTargetMissing, "%s", name)
}

// lvalue reads an LValue's current value from the store.
func (c *Controller) lvalue(lv ast.LValue) (value.Value, error) {
	if lv.Indices == nil {
		v, res := c.Vars.GetValue(lv.Name)
		if res != vars.Success {
			return value.Value{}, alarm.New(alarm.UnknownName, "%s", lv.Name)
		}
		return v, nil
	}
	indices, err := evalIndices(lv.Indices, c.Vars)
	if err != nil {
		return value.Value{}, err
	}
	v, res := c.Vars.GetArrayValue(lv.Name, indices)
	if res != vars.Success {
		return value.Value{}, alarm.New(alarm.ArrayOutOfBounds, "%s", lv.Name)
	}
	return v, nil
}

// assign writes v into an LValue, casting to the target's stored type.
func (c *Controller) assign(lv ast.LValue, v value.Value) error {
	if lv.Indices == nil {
		tag, ok := c.Vars.ScalarTag(lv.Name)
		if !ok {
			return alarm.New(alarm.UnknownName, "%s", lv.Name)
		}
		cv, err := value.AssignCast(v, tag)
		if err != nil {
			return err
		}
		if res := c.Vars.SetValue(lv.Name, cv); res != vars.Success {
			return alarm.New(alarm.TypeMismatch, "%s", lv.Name)
		}
		return nil
	}

	indices, err := evalIndices(lv.Indices, c.Vars)
	if err != nil {
		return err
	}
	tag, ok := c.Vars.ArrayElementTag(lv.Name)
	if !ok {
		return alarm.New(alarm.UnknownName, "%s", lv.Name)
	}
	cv, err := value.AssignCast(v, tag)
	if err != nil {
		return err
	}
	if res := c.Vars.SetArrayValue(lv.Name, indices, cv); res != vars.Success {
		return alarm.New(alarm.ArrayOutOfBounds, "%s%v", lv.Name, indices)
	}
	return nil
}

func evalIndices(exprs []ast.Expr, store *vars.Store) ([]int, error) {
	indices := make([]int, len(exprs))
	for i, e := range exprs {
		v, err := eval.Eval(e, store)
		if err != nil {
			return nil, err
		}
		iv, err := value.AssignCast(v, value.INT)
		if err != nil {
			return nil, err
		}
		indices[i] = int(iv.I)
	}
	return indices, nil
}

// motionAccum collects the address words of one block before dispatch,
// the way a single S840D block combines several axis/address letters
// into one programmed move (grounded on the teacher's per-block codes
// map in leftmike-gcode's engine.go Evaluate).
type motionAccum struct {
	target      Position
	setAxis     map[byte]bool
	centerSet   bool
	center      geom.Point3
	cip         bool
	cipPoint    geom.Point3
	motionCoded bool
	frameSet    bool
	feedSet     bool
	turns       int
	turnSet     bool
	radius      float64
	radiusSet   bool
}

// execBlock executes one non-control-flow block: address assigns,
// extended-address assigns, LValue assigns, named G-commands and DEF,
// then applies the block's frame update or dispatches its motion (the
// two are mutually exclusive: spec.md §4.6's frame-or-motion selection).
func (c *Controller) execBlock(b *ast.Block, defWasAllowed bool) error {
	if b.IsControl {
		return nil
	}

	ma := &motionAccum{target: c.Pos, setAxis: map[byte]bool{}, turns: 1}

	for _, node := range b.Content {
		switch n := node.(type) {
		case *ast.DefStmt:
			if !defWasAllowed {
				return alarm.New(alarm.DefAfterCode, "")
			}
			if err := c.execDef(n); err != nil {
				return err
			}

		case *ast.AddressAssign:
			if err := c.execAddress(n, ma); err != nil {
				return err
			}

		case *ast.ExtAddressAssign:
			if err := c.execExtAddress(n, ma); err != nil {
				return err
			}

		case *ast.LValueAssign:
			v, err := eval.Eval(n.Value, c.Vars)
			if err != nil {
				return err
			}
			if err := c.assign(n.Target, v); err != nil {
				return err
			}

		case *ast.GCommand:
			if err := c.execGCommand(n, ma); err != nil {
				return err
			}

		case *ast.TurnSpec:
			v, err := eval.Eval(n.Value, c.Vars)
			if err != nil {
				return err
			}
			iv, err := value.AssignCast(v, value.INT)
			if err != nil {
				return err
			}
			if iv.I < 0 {
				return alarm.New(alarm.BadTurnCount, "TURN=%d", iv.I)
			}
			// Create2PointsCenter's turns is 1-based (turns=1 means no
			// extra winding beyond the closing sweep), so TURN=n's n
			// extra revolutions need turns=n+1.
			ma.turns = int(iv.I) + 1
			ma.turnSet = true

		case *ast.RadiusSpec:
			v, err := eval.Eval(n.Value, c.Vars)
			if err != nil {
				return err
			}
			rv, err := value.ConvertToReal(v)
			if err != nil {
				return err
			}
			ma.radius = rv
			ma.radiusSet = true
		}
	}

	defer func() { c.GGroups[3] = FrameUndef }() // group 3 is non-modal (spec.md §4.6 step 7)

	if ma.frameSet {
		return nil
	}
	return c.dispatchMotion(ma)
}

func (c *Controller) execDef(n *ast.DefStmt) error {
	tag, err := defTag(n.ElementType)
	if err != nil {
		return err
	}
	for _, s := range n.Scalars {
		init := zeroValue(tag)
		if s.Init != nil {
			v, err := eval.Eval(s.Init, c.Vars)
			if err != nil {
				return err
			}
			init, err = value.AssignCast(v, tag)
			if err != nil {
				return err
			}
		}
		if res := c.Vars.Define(s.Name, init); res != vars.Success {
			return alarm.New(alarm.Redefinition, "%s", s.Name)
		}
	}
	for _, a := range n.Arrays {
		dims := make([]int, len(a.Dims))
		for i, de := range a.Dims {
			v, err := eval.Eval(de, c.Vars)
			if err != nil {
				return err
			}
			iv, err := value.AssignCast(v, value.INT)
			if err != nil {
				return err
			}
			dims[i] = int(iv.I)
		}
		switch c.Vars.DefineArray(a.Name, tag, dims) {
		case vars.Success:
		case vars.AlreadyExists:
			return alarm.New(alarm.Redefinition, "%s", a.Name)
		case vars.InvalidArraySize, vars.InvalidDimensionCount:
			return alarm.New(alarm.InvalidIndex, "%s", a.Name)
		case vars.OutOfMemory:
			return alarm.New(alarm.OutOfMemory, "%s", a.Name)
		default:
			return alarm.New(alarm.Syntax, "DEF %s", a.Name)
		}
	}
	return nil
}

func defTag(elementType byte) (value.Tag, error) {
	switch elementType {
	case 'I':
		return value.INT, nil
	case 'R':
		return value.REAL, nil
	case 'B':
		return value.BOOL, nil
	case 'C':
		return value.CHAR, nil
	case 'S':
		return value.STRING, nil
	default:
		return 0, alarm.New(alarm.Syntax, "unknown DEF element type %c", elementType)
	}
}

func zeroValue(tag value.Tag) value.Value {
	switch tag {
	case value.INT:
		return value.Int(0)
	case value.REAL:
		return value.Real(0)
	case value.BOOL:
		return value.Bool(false)
	case value.CHAR:
		return value.Char(0)
	default:
		return value.Str("")
	}
}

// execAddress applies one plain address assign (X10, G1, F100, ...) to
// the block's motion accumulator or to controller state.
func (c *Controller) execAddress(n *ast.AddressAssign, ma *motionAccum) error {
	v, err := eval.Eval(n.Value, c.Vars)
	if err != nil {
		return err
	}

	switch n.Letter {
	case 'X', 'Y', 'Z':
		if ma.setAxis[n.Letter] {
			return alarm.New(alarm.DoubleSetAxis, "%c", n.Letter)
		}
		ma.setAxis[n.Letter] = true
		f, err := value.ConvertToReal(v)
		if err != nil {
			return err
		}
		abs := n.CoordType == ast.AC || (n.CoordType == ast.DEFAULT && c.GGroups[14] != DistanceG91)
		var cur *float64
		switch n.Letter {
		case 'X':
			cur = &ma.target.X
		case 'Y':
			cur = &ma.target.Y
		case 'Z':
			cur = &ma.target.Z
		}
		if abs {
			*cur = f
		} else {
			*cur += f
		}

	case 'I', 'J', 'K':
		f, err := value.ConvertToReal(v)
		if err != nil {
			return err
		}
		ma.centerSet = true
		switch n.Letter {
		case 'I':
			ma.center.X = c.Pos.X + f
		case 'J':
			ma.center.Y = c.Pos.Y + f
		case 'K':
			ma.center.Z = c.Pos.Z + f
		}

	case 'F':
		if ma.feedSet {
			return alarm.New(alarm.DuplicateAddress, "F")
		}
		ma.feedSet = true
		f, err := value.ConvertToReal(v)
		if err != nil {
			return err
		}
		c.Feed = f

	case 'G':
		return c.execG(v, ma)

	case 'M':
		f, err := value.ConvertToReal(v)
		if err != nil {
			return err
		}
		if f == 2 || f == 17 || f == 30 {
			c.halted = true
		}
	}
	return nil
}

func (c *Controller) execG(v value.Value, ma *motionAccum) error {
	f, err := value.ConvertToReal(v)
	if err != nil {
		return err
	}
	key := strconv.FormatFloat(f, 'g', -1, 64)
	gc, ok := gcode[key]
	if !ok {
		return nil
	}
	if gc.group == 1 {
		if ma.frameSet {
			return alarm.New(alarm.SyntaxDefiningConflict, "G-code with frame group set")
		}
		ma.motionCoded = true
	}
	if !c.GGroups.Set(gc.group, gc.index) {
		return alarm.New(alarm.InvalidG, "%s", key)
	}
	c.mirrorGGroup(gc.group)
	return nil
}

// mirrorGGroup copies a group's current code into $P_GG[group] (spec.md
// §4.6's address handling), best-effort: $P_GG is only 65 elements and a
// group this controller tracks never exceeds that.
func (c *Controller) mirrorGGroup(group int) {
	c.Vars.SetArrayValue("$P_GG", []int{group}, value.Int(int32(c.GGroups[group])))
}

// execExtAddress applies an extended address assign (G[1]=2, I1=.../J1=...
// for a CIP intermediate point). Any other letter, such as the D1=5
// tool-offset form, is ignored by this geometry-only controller.
func (c *Controller) execExtAddress(n *ast.ExtAddressAssign, ma *motionAccum) error {
	ext, err := eval.Eval(n.Extension, c.Vars)
	if err != nil {
		return err
	}
	v, err := eval.Eval(n.Value, c.Vars)
	if err != nil {
		return err
	}

	iv, err := value.AssignCast(ext, value.INT)
	if err != nil {
		return err
	}

	switch n.Letter {
	case 'I', 'J', 'K':
		if iv.I != 1 {
			return nil
		}
		f, err := value.ConvertToReal(v)
		if err != nil {
			return err
		}
		ma.cip = true
		switch n.Letter {
		case 'I':
			ma.cipPoint.X = c.Pos.X + f
		case 'J':
			ma.cipPoint.Y = c.Pos.Y + f
		case 'K':
			ma.cipPoint.Z = c.Pos.Z + f
		}

	case 'G':
		group := int(iv.I)
		if group >= 2 && group <= 5 {
			return alarm.New(alarm.UnknownG, "G[%d]=... is a syntax-defining group", group)
		}
		code, err := value.AssignCast(v, value.INT)
		if err != nil {
			return err
		}
		if !c.GGroups.Set(group, int(code.I)) {
			return alarm.New(alarm.InvalidG, "G[%d]=%d", group, code.I)
		}
		c.mirrorGGroup(group)
	}
	return nil
}

// execGCommand applies a named G-command: TRANS/ROT/SCALE/MIRROR family
// (frame group) directly against the controller's Frame, or CIP/spline
// (motion group) as a motion-accumulator marker.
func (c *Controller) execGCommand(n *ast.GCommand, ma *motionAccum) error {
	switch n.Kind {
	case ast.GCTrans, ast.GCATrans:
		if ma.motionCoded {
			return alarm.New(alarm.SyntaxDefiningConflict, "TRANS with motion group set")
		}
		ma.frameSet = true
		c.Frame = c.Frame.Translate(ma.target.ToPoint3(), n.Kind == ast.GCATrans)
		c.GGroups.Set(3, pick(n.Kind == ast.GCATrans, FrameATrans, FrameTrans))

	case ast.GCRot, ast.GCARot:
		if ma.motionCoded {
			return alarm.New(alarm.SyntaxDefiningConflict, "ROT with motion group set")
		}
		ma.frameSet = true
		c.Frame = c.Frame.Rotate(ma.target.X, n.Kind == ast.GCARot)
		c.GGroups.Set(3, pick(n.Kind == ast.GCARot, FrameARot, FrameRot))

	case ast.GCScale, ast.GCAScale:
		if ma.motionCoded {
			return alarm.New(alarm.SyntaxDefiningConflict, "SCALE with motion group set")
		}
		ma.frameSet = true
		c.Frame.Scale = ma.target.ToPoint3()
		c.GGroups.Set(3, pick(n.Kind == ast.GCAScale, FrameAScale, FrameScale))

	case ast.GCMirror, ast.GCAMirror:
		if ma.motionCoded {
			return alarm.New(alarm.SyntaxDefiningConflict, "MIRROR with motion group set")
		}
		ma.frameSet = true
		c.Frame.MirrorX = ma.target.X != 0
		c.Frame.MirrorY = ma.target.Y != 0
		c.Frame.MirrorZ = ma.target.Z != 0
		c.GGroups.Set(3, pick(n.Kind == ast.GCAMirror, FrameAMirror, FrameMirror))

	case ast.GCCip:
		if ma.frameSet {
			return alarm.New(alarm.SyntaxDefiningConflict, "CIP with frame group set")
		}
		ma.motionCoded = true
		c.GGroups.Set(1, MotionCIP)

	case ast.GCSpline, ast.GCASpline:
		if ma.frameSet {
			return alarm.New(alarm.SyntaxDefiningConflict, "SPLINE with frame group set")
		}
		ma.motionCoded = true
		c.GGroups.Set(1, MotionASpline)
	case ast.GCBSpline:
		if ma.frameSet {
			return alarm.New(alarm.SyntaxDefiningConflict, "BSPLINE with frame group set")
		}
		ma.motionCoded = true
		c.GGroups.Set(1, MotionBSpline)
	case ast.GCCSpline:
		if ma.frameSet {
			return alarm.New(alarm.SyntaxDefiningConflict, "CSPLINE with frame group set")
		}
		ma.motionCoded = true
		c.GGroups.Set(1, MotionCSpline)
	}
	c.mirrorGGroup(3)
	return nil
}

func pick(cond bool, a, b int) int {
	if cond {
		return a
	}
	return b
}

// dispatchMotion reports the block's programmed move, if any, to the
// Listener, and always advances c.Pos to the accumulated target (a
// no-axis block leaves position unchanged since target starts at Pos).
func (c *Controller) dispatchMotion(ma *motionAccum) error {
	if !ma.motionCoded && len(ma.setAxis) == 0 {
		return nil
	}

	start := c.Pos.ToPoint3()
	end := ma.target.ToPoint3()

	switch c.GGroups[1] {
	case MotionG2, MotionG3:
		clockwise := c.GGroups[1] == MotionG2
		var arc *geom.DirectedArc2
		var err error
		switch {
		case ma.radiusSet:
			var radArc *geom.DirectedArc2
			radArc, err = geom.Create2PointsRadius(start.To2(), end.To2(), ma.radius, clockwise)
			if err == nil {
				arc, err = geom.Create2PointsCenter(start.To2(), end.To2(), radArc.Center, clockwise, ma.turns, c.tolerance())
			}
		case ma.centerSet:
			arc, err = geom.Create2PointsCenter(start.To2(), end.To2(), ma.center.To2(), clockwise, ma.turns, c.tolerance())
		default:
			return alarm.New(alarm.BadArcEndPoint, "G2/G3 without I/J/K center or CR radius")
		}
		if err != nil {
			return err
		}
		if start.Z != end.Z || ma.turnSet {
			h := geom.NewHelix(arc, start.Z, end.Z)
			fp := c.Frame.Apply(h.Sample(1))
			c.Listener.HelicalMotion(h, fp.X, fp.Y, fp.Z)
		} else {
			fp := c.Frame.Apply(end)
			c.Listener.CircularMotion(arc, fp.X, fp.Y, fp.Z)
		}

	case MotionCIP:
		if !ma.cip {
			return alarm.New(alarm.BadArcEndPoint, "CIP without intermediate point")
		}
		s, m, e := start.To2(), ma.cipPoint.To2(), end.To2()
		// The arc runs clockwise when the intermediate point lies to the
		// left of the start-to-end chord.
		clockwise := (e.X-s.X)*(m.Y-s.Y)-(e.Y-s.Y)*(m.X-s.X) > 0
		arc, err := geom.Create3Points(s, m, e, clockwise)
		if err != nil {
			return err
		}
		if start.Z != end.Z {
			h := geom.NewHelix(arc, start.Z, end.Z)
			fp := c.Frame.Apply(h.Sample(1))
			c.Listener.HelicalMotion(h, fp.X, fp.Y, fp.Z)
		} else {
			fp := c.Frame.Apply(end)
			c.Listener.CircularMotion(arc, fp.X, fp.Y, fp.Z)
		}

	default: // G0, G1 or no motion code reprogrammed: linear
		if end == start {
			return nil
		}
		if c.GGroups[1] == MotionG1 && c.Feed == 0 {
			return alarm.New(alarm.NoFeed, "")
		}
		feed := 0.0
		if c.GGroups[1] == MotionG1 {
			feed = c.Feed
		}
		fp := c.Frame.Apply(end)
		c.Listener.LinearMotion(fp.X, fp.Y, fp.Z, feed)
	}

	c.Pos = ma.target
	return nil
}
