// Package parser implements the S840D recursive-descent parser: it turns
// one pre-passed, tokenized block into an *ast.Block (spec.md §4.3). The
// precedence ladder and expression-parsing shape are grounded on the
// teacher's opPrecedence table and expression-parsing functions
// (leftmike-gcode's parser.go); the statement/control-flow shape is
// grounded on leftmike-basic__basic.go's statement parsing
// (other_examples, same author's BASIC interpreter). Per spec.md §9's
// design note, this uses typed recursive descent rather than translating
// the original LALR parser-generator stack.
package parser

import (
	"strconv"

	"github.com/leftmike/s840d/internal/alarm"
	"github.com/leftmike/s840d/internal/ast"
	"github.com/leftmike/s840d/internal/lexer"
	"github.com/leftmike/s840d/internal/value"
)

// Parser holds the cross-block state needed to assign nesting levels to
// control-structure blocks as the whole program is parsed in order
// (spec.md §4.6: IF/FOR open a level, ELSE takes the level of its IF,
// ENDIF/ENDFOR close it).
type Parser struct {
	nestDepth int
	lastLevel int // nesting level assigned to the control node just parsed
}

// New returns a Parser ready to parse a program from its first block.
func New() *Parser {
	return &Parser{}
}

// toks is the per-block token buffer plus a read cursor, local to one
// call to ParseBlock.
type toks struct {
	list []lexer.Token
	pos  int
}

func (t *toks) peek() lexer.Token {
	if t.pos >= len(t.list) {
		return lexer.Token{Kind: lexer.TokEOF}
	}
	return t.list[t.pos]
}

func (t *toks) peekAt(n int) lexer.Token {
	if t.pos+n >= len(t.list) {
		return lexer.Token{Kind: lexer.TokEOF}
	}
	return t.list[t.pos+n]
}

func (t *toks) next() lexer.Token {
	tok := t.peek()
	if t.pos < len(t.list) {
		t.pos++
	}
	return tok
}

func (t *toks) atEnd() bool {
	return t.peek().Kind == lexer.TokEOF
}

// ParseBlock tokenizes and parses one source line into an *ast.Block.
func (p *Parser) ParseBlock(line string) (*ast.Block, error) {
	pp, err := lexer.Run(line)
	if err != nil {
		return nil, err
	}

	lx := lexer.New(pp.Content)
	var list []lexer.Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.TokEOF {
			break
		}
		list = append(list, tok)
	}

	b := &ast.Block{Source: line, SkipLevel: pp.SkipLevel, Label: pp.Label}
	if pp.HasNumber {
		kind := ast.Regular
		if pp.NumberKind == ':' {
			kind = ast.Main
		}
		b.Number = &ast.BlockNumber{Digits: pp.Number, Kind: kind}
	}

	t := &toks{list: list}
	var content []ast.Node
	for !t.atEnd() {
		node, isControl, err := p.parseItem(t)
		if err != nil {
			return nil, err
		}
		content = append(content, node)
		if isControl {
			b.IsControl = true
			b.NestingLevel = p.lastLevel
		}
	}
	b.Content = content

	if b.IsControl && (pp.Label != "" || pp.SkipLevel >= 0) {
		return nil, alarm.New(alarm.LabelOnControlBlock, "%s", line)
	}
	if b.IsControl && len(content) != 1 {
		return nil, alarm.New(alarm.Syntax, "control structure block must contain exactly one statement")
	}

	return b, nil
}

// parseItem parses one top-level block-content item and reports whether
// it is a control-structure node (which carries a nesting level instead
// of participating in skip-level data blocks).
func (p *Parser) parseItem(t *toks) (ast.Node, bool, error) {
	tok := t.peek()

	switch tok.Kind {
	case lexer.TokKeyword:
		switch tok.Text {
		case "IF":
			return p.parseIf(t)
		case "ELSE":
			t.next()
			p.lastLevel = p.nestDepth - 1
			return &ast.ElseStmt{}, true, nil
		case "ENDIF":
			t.next()
			p.nestDepth--
			p.lastLevel = p.nestDepth
			return &ast.EndIfStmt{}, true, nil
		case "FOR":
			return p.parseFor(t)
		case "ENDFOR":
			t.next()
			p.nestDepth--
			p.lastLevel = p.nestDepth
			return &ast.EndForStmt{}, true, nil
		case "GOTO", "GOTOB", "GOTOF", "GOTOC":
			g, err := p.parseGoto(t)
			return g, false, err
		case "DEF":
			d, err := p.parseDef(t)
			return d, false, err
		case "TRANS":
			t.next()
			return &ast.GCommand{Kind: ast.GCTrans}, false, nil
		case "ATRANS":
			t.next()
			return &ast.GCommand{Kind: ast.GCATrans}, false, nil
		case "ROT":
			t.next()
			return &ast.GCommand{Kind: ast.GCRot}, false, nil
		case "AROT":
			t.next()
			return &ast.GCommand{Kind: ast.GCARot}, false, nil
		case "SCALE":
			t.next()
			return &ast.GCommand{Kind: ast.GCScale}, false, nil
		case "ASCALE":
			t.next()
			return &ast.GCommand{Kind: ast.GCAScale}, false, nil
		case "MIRROR":
			t.next()
			return &ast.GCommand{Kind: ast.GCMirror}, false, nil
		case "AMIRROR":
			t.next()
			return &ast.GCommand{Kind: ast.GCAMirror}, false, nil
		case "CIP":
			t.next()
			return &ast.GCommand{Kind: ast.GCCip}, false, nil
		case "SPLINE":
			t.next()
			return &ast.GCommand{Kind: ast.GCSpline}, false, nil
		case "ASPLINE":
			t.next()
			return &ast.GCommand{Kind: ast.GCASpline}, false, nil
		case "BSPLINE":
			t.next()
			return &ast.GCommand{Kind: ast.GCBSpline}, false, nil
		case "CSPLINE":
			t.next()
			return &ast.GCommand{Kind: ast.GCCSpline}, false, nil
		case "TURN":
			t.next()
			if err := expectPunct(t, "="); err != nil {
				return nil, false, err
			}
			e, err := p.parseExpr(t)
			if err != nil {
				return nil, false, err
			}
			return &ast.TurnSpec{Value: e}, false, nil
		case "CR":
			t.next()
			if err := expectPunct(t, "="); err != nil {
				return nil, false, err
			}
			e, err := p.parseExpr(t)
			if err != nil {
				return nil, false, err
			}
			return &ast.RadiusSpec{Value: e}, false, nil
		default:
			return nil, false, alarm.New(alarm.Syntax, "unexpected keyword %s", tok.Text)
		}

	case lexer.TokLetter:
		n, err := p.parseAddressWord(t)
		return n, false, err

	case lexer.TokIdent:
		n, err := p.parseLValueAssign(t)
		return n, false, err

	default:
		return nil, false, alarm.New(alarm.Syntax, "unexpected token %q", tok.Text)
	}
}

// parseAddressWord parses one address-letter-led item: a plain literal
// (G1, M3, X10), an expression form (F=100, X=(10+2*3)), an AC/IC
// coordinate-type form (X=AC(10)), a digit-attached extended form
// (R1=5), or a bracketed extended form (G[1]=2). R1=5 and R[1]=5 both
// become an assignment to the predefined R array.
func (p *Parser) parseAddressWord(t *toks) (ast.Node, error) {
	letterTok := t.next()
	letter := letterTok.Text[0]

	switch t.peek().Kind {
	case lexer.TokInteger, lexer.TokFloat:
		numTok := t.next()
		litVal, err := lexer.LiteralValue(numTok)
		if err != nil {
			return nil, err
		}

		if t.peek().Kind == lexer.TokPunct && t.peek().Text == "=" {
			t.next() // consume '='
			valExpr, err := p.parseExpr(t)
			if err != nil {
				return nil, err
			}
			if letter == 'R' {
				idx, err := literalIntIndex(litVal)
				if err != nil {
					return nil, err
				}
				return &ast.LValueAssign{
					Target: ast.LValue{Name: "R", Indices: []ast.Expr{&ast.Literal{Value: value.Int(int32(idx))}}},
					Value:  valExpr,
				}, nil
			}
			return &ast.ExtAddressAssign{Letter: letter, Extension: &ast.Literal{Value: litVal}, Value: valExpr}, nil
		}

		return &ast.AddressAssign{Letter: letter, Value: &ast.Literal{Value: litVal}, CoordType: ast.DEFAULT}, nil

	case lexer.TokPunct:
		switch t.peek().Text {
		case "=":
			t.next()
			if t.peek().Kind == lexer.TokKeyword && (t.peek().Text == "AC" || t.peek().Text == "IC") {
				ct := ast.AC
				if t.peek().Text == "IC" {
					ct = ast.IC
				}
				t.next()
				if err := expectPunct(t, "("); err != nil {
					return nil, err
				}
				e, err := p.parseExpr(t)
				if err != nil {
					return nil, err
				}
				if err := expectPunct(t, ")"); err != nil {
					return nil, err
				}
				return &ast.AddressAssign{Letter: letter, Value: e, CoordType: ct}, nil
			}
			e, err := p.parseExpr(t)
			if err != nil {
				return nil, err
			}
			return &ast.AddressAssign{Letter: letter, Value: e, CoordType: ast.DEFAULT}, nil

		case "[":
			t.next()
			ext, err := p.parseExpr(t)
			if err != nil {
				return nil, err
			}
			if err := expectPunct(t, "]"); err != nil {
				return nil, err
			}
			if err := expectPunct(t, "="); err != nil {
				return nil, err
			}
			val, err := p.parseExpr(t)
			if err != nil {
				return nil, err
			}
			if letter == 'R' {
				return &ast.LValueAssign{
					Target: ast.LValue{Name: "R", Indices: []ast.Expr{ext}},
					Value:  val,
				}, nil
			}
			return &ast.ExtAddressAssign{Letter: letter, Extension: ext, Value: val}, nil
		}
	}

	return nil, alarm.New(alarm.Syntax, "unexpected token after address letter %c", letter)
}

func literalIntIndex(v value.Value) (int32, error) {
	iv, err := value.AssignCast(v, value.INT)
	if err != nil {
		return 0, err
	}
	return iv.I, nil
}

func expectPunct(t *toks, text string) error {
	tok := t.next()
	if tok.Kind != lexer.TokPunct || tok.Text != text {
		return alarm.New(alarm.Syntax, "expected %q, got %q", text, tok.Text)
	}
	return nil
}

func expectKeyword(t *toks, text string) error {
	tok := t.next()
	if tok.Kind != lexer.TokKeyword || tok.Text != text {
		return alarm.New(alarm.Syntax, "expected %s, got %q", text, tok.Text)
	}
	return nil
}

// parseLValue parses a variable or array-element target: IDENT, IDENT
// '[' expr (',' expr)* ']', or the R-parameter digit-attached shorthand
// (R1, sugar for R[1]) used by FOR loop targets as well as assignments.
func (p *Parser) parseLValue(t *toks) (ast.LValue, error) {
	if t.peek().Kind == lexer.TokLetter && toUpperByte(t.peek().Text[0]) == 'R' {
		t.next()
		if t.peek().Kind != lexer.TokInteger {
			return ast.LValue{}, alarm.New(alarm.Syntax, "expected index after R")
		}
		numTok := t.next()
		return ast.LValue{Name: "R", Indices: []ast.Expr{&ast.Literal{Value: value.Int(int32(numTok.Int))}}}, nil
	}

	idTok := t.next()
	if idTok.Kind != lexer.TokIdent {
		return ast.LValue{}, alarm.New(alarm.Syntax, "expected identifier, got %q", idTok.Text)
	}
	if len(idTok.Text) > 32 {
		return ast.LValue{}, alarm.New(alarm.IdentTooLong, "%s", idTok.Text)
	}

	lv := ast.LValue{Name: idTok.Text}
	if t.peek().Kind == lexer.TokPunct && t.peek().Text == "[" {
		t.next()
		for {
			e, err := p.parseExpr(t)
			if err != nil {
				return ast.LValue{}, err
			}
			lv.Indices = append(lv.Indices, e)
			if t.peek().Kind == lexer.TokPunct && t.peek().Text == "," {
				t.next()
				continue
			}
			break
		}
		if err := expectPunct(t, "]"); err != nil {
			return ast.LValue{}, err
		}
	}
	return lv, nil
}

func (p *Parser) parseLValueAssign(t *toks) (ast.Node, error) {
	lv, err := p.parseLValue(t)
	if err != nil {
		return nil, err
	}
	if err := expectPunct(t, "="); err != nil {
		return nil, err
	}
	e, err := p.parseExpr(t)
	if err != nil {
		return nil, err
	}
	return &ast.LValueAssign{Target: lv, Value: e}, nil
}

// parseIf parses either "IF <expr>" (opens a control-structure IfStmt,
// spanning blocks until the matching ENDIF) or "IF <expr> GOTOx <target>
// [IF <expr> GOTOy <target>]..." (a single-block conditional GOTO chain,
// spec.md §4.6).
func (p *Parser) parseIf(t *toks) (ast.Node, bool, error) {
	t.next() // IF
	cond, err := p.parseExpr(t)
	if err != nil {
		return nil, false, err
	}

	if isGotoKeyword(t.peek()) {
		chain, err := p.parseConditionalGotoChain(t, cond)
		return chain, false, err
	}

	p.lastLevel = p.nestDepth
	p.nestDepth++
	return &ast.IfStmt{Condition: cond}, true, nil
}

func isGotoKeyword(tok lexer.Token) bool {
	if tok.Kind != lexer.TokKeyword {
		return false
	}
	switch tok.Text {
	case "GOTO", "GOTOB", "GOTOF", "GOTOC":
		return true
	default:
		return false
	}
}

func gotoKind(text string) ast.GotoKind {
	switch text {
	case "GOTOB":
		return ast.GotoB
	case "GOTOF":
		return ast.GotoF
	case "GOTOC":
		return ast.GotoC
	default:
		return ast.Goto
	}
}

// parseGotoTarget parses the GOTO operand: a bare label identifier or
// block-number integer is wrapped as a STRING literal; anything else is
// parsed as a general expression that must evaluate to STRING (alarm
// 12150 otherwise, checked at evaluation time).
func (p *Parser) parseGotoTarget(t *toks) (ast.Expr, error) {
	tok := t.peek()
	switch tok.Kind {
	case lexer.TokIdent, lexer.TokLetter:
		t.next()
		return &ast.Literal{Value: value.Str(tok.Text)}, nil
	case lexer.TokInteger:
		t.next()
		return &ast.Literal{Value: value.Str(strconv.FormatInt(tok.Int, 10))}, nil
	case lexer.TokString:
		t.next()
		return &ast.Literal{Value: value.Str(tok.Text)}, nil
	default:
		return p.parseExpr(t)
	}
}

func (p *Parser) parseGoto(t *toks) (ast.Node, error) {
	kw := t.next()
	target, err := p.parseGotoTarget(t)
	if err != nil {
		return nil, err
	}
	return &ast.GotoStmt{Kind: gotoKind(kw.Text), Target: target}, nil
}

func (p *Parser) parseConditionalGotoChain(t *toks, cond ast.Expr) (*ast.ConditionalGotoStmt, error) {
	kw := t.next()
	target, err := p.parseGotoTarget(t)
	if err != nil {
		return nil, err
	}
	head := &ast.ConditionalGotoStmt{
		Condition: cond,
		Goto:      &ast.GotoStmt{Kind: gotoKind(kw.Text), Target: target},
	}

	if t.peek().Kind == lexer.TokKeyword && t.peek().Text == "IF" {
		t.next()
		nextCond, err := p.parseExpr(t)
		if err != nil {
			return nil, err
		}
		if !isGotoKeyword(t.peek()) {
			return nil, alarm.New(alarm.Syntax, "expected GOTO after chained IF")
		}
		next, err := p.parseConditionalGotoChain(t, nextCond)
		if err != nil {
			return nil, err
		}
		head.Next = next
	}
	return head, nil
}

func (p *Parser) parseFor(t *toks) (ast.Node, bool, error) {
	t.next() // FOR
	lv, err := p.parseLValue(t)
	if err != nil {
		return nil, false, err
	}
	if err := expectPunct(t, "="); err != nil {
		return nil, false, err
	}
	init, err := p.parseExpr(t)
	if err != nil {
		return nil, false, err
	}
	if err := expectKeyword(t, "TO"); err != nil {
		return nil, false, err
	}
	bound, err := p.parseExpr(t)
	if err != nil {
		return nil, false, err
	}
	p.lastLevel = p.nestDepth
	p.nestDepth++
	return &ast.ForStmt{Var: lv, Init: init, Bound: bound}, true, nil
}

// elementTypeByte maps a DEF type keyword to the DefStmt.ElementType byte.
func elementTypeByte(kw string) (byte, error) {
	switch kw {
	case "INT":
		return 'I', nil
	case "REAL":
		return 'R', nil
	case "BOOL":
		return 'B', nil
	case "CHAR":
		return 'C', nil
	case "STRING":
		return 'S', nil
	default:
		return 0, alarm.New(alarm.Syntax, "expected a DEF element type, got %s", kw)
	}
}

func (p *Parser) parseDef(t *toks) (ast.Node, error) {
	t.next() // DEF
	typTok := t.next()
	if typTok.Kind != lexer.TokKeyword {
		return nil, alarm.New(alarm.Syntax, "expected DEF element type")
	}
	elemType, err := elementTypeByte(typTok.Text)
	if err != nil {
		return nil, err
	}

	stmt := &ast.DefStmt{ElementType: elemType}
	for {
		nameTok := t.next()
		if nameTok.Kind != lexer.TokIdent {
			return nil, alarm.New(alarm.Syntax, "expected identifier in DEF, got %q", nameTok.Text)
		}
		if len(nameTok.Text) > 32 {
			return nil, alarm.New(alarm.IdentTooLong, "%s", nameTok.Text)
		}

		if t.peek().Kind == lexer.TokPunct && t.peek().Text == "[" {
			t.next()
			var dims []ast.Expr
			for {
				d, err := p.parseExpr(t)
				if err != nil {
					return nil, err
				}
				dims = append(dims, d)
				if t.peek().Kind == lexer.TokPunct && t.peek().Text == "," {
					t.next()
					continue
				}
				break
			}
			if err := expectPunct(t, "]"); err != nil {
				return nil, err
			}
			if len(dims) > 3 {
				return nil, alarm.New(alarm.InvalidIndex, "%s has more than 3 dimensions", nameTok.Text)
			}
			stmt.Arrays = append(stmt.Arrays, ast.ArrayDef{Name: nameTok.Text, Dims: dims})
		} else {
			var init ast.Expr
			if t.peek().Kind == lexer.TokPunct && t.peek().Text == "=" {
				t.next()
				init, err = p.parseExpr(t)
				if err != nil {
					return nil, err
				}
			}
			stmt.Scalars = append(stmt.Scalars, ast.ScalarDef{Name: nameTok.Text, Init: init})
		}

		if t.peek().Kind == lexer.TokPunct && t.peek().Text == "," {
			t.next()
			continue
		}
		break
	}

	return stmt, nil
}

// --- expression grammar, lowest to highest precedence (spec.md §4.3):
// comparison, OR, XOR, AND, B_OR, B_XOR, B_AND, +/-, * / DIV MOD, unary
// NOT/B_NOT/negate.

func (p *Parser) parseExpr(t *toks) (ast.Expr, error) {
	return p.parseComparison(t)
}

func (p *Parser) parseComparison(t *toks) (ast.Expr, error) {
	left, err := p.parseOr(t)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := comparisonOp(t.peek())
		if !ok {
			return left, nil
		}
		t.next()
		right, err := p.parseOr(t)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func comparisonOp(tok lexer.Token) (ast.BinaryOp, bool) {
	if tok.Kind != lexer.TokPunct {
		return 0, false
	}
	switch tok.Text {
	case "==":
		return ast.OpEQ, true
	case "<>":
		return ast.OpNE, true
	case ">":
		return ast.OpGT, true
	case "<":
		return ast.OpLT, true
	case ">=":
		return ast.OpGE, true
	case "<=":
		return ast.OpLE, true
	default:
		return 0, false
	}
}

func (p *Parser) parseOr(t *toks) (ast.Expr, error) {
	return p.parseLeftAssocKeyword(t, p.parseXor, map[string]ast.BinaryOp{"OR": ast.OpOr})
}

func (p *Parser) parseXor(t *toks) (ast.Expr, error) {
	return p.parseLeftAssocKeyword(t, p.parseAnd, map[string]ast.BinaryOp{"XOR": ast.OpXor})
}

func (p *Parser) parseAnd(t *toks) (ast.Expr, error) {
	return p.parseLeftAssocKeyword(t, p.parseBOr, map[string]ast.BinaryOp{"AND": ast.OpAnd})
}

func (p *Parser) parseBOr(t *toks) (ast.Expr, error) {
	return p.parseLeftAssocKeyword(t, p.parseBXor, map[string]ast.BinaryOp{"B_OR": ast.OpBOr})
}

func (p *Parser) parseBXor(t *toks) (ast.Expr, error) {
	return p.parseLeftAssocKeyword(t, p.parseBAnd, map[string]ast.BinaryOp{"B_XOR": ast.OpBXor})
}

func (p *Parser) parseBAnd(t *toks) (ast.Expr, error) {
	return p.parseLeftAssocKeyword(t, p.parseAddSub, map[string]ast.BinaryOp{"B_AND": ast.OpBAnd})
}

func (p *Parser) parseLeftAssocKeyword(t *toks, next func(*toks) (ast.Expr, error), ops map[string]ast.BinaryOp) (ast.Expr, error) {
	left, err := next(t)
	if err != nil {
		return nil, err
	}
	for {
		tok := t.peek()
		if tok.Kind != lexer.TokKeyword {
			return left, nil
		}
		op, ok := ops[tok.Text]
		if !ok {
			return left, nil
		}
		t.next()
		right, err := next(t)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseAddSub(t *toks) (ast.Expr, error) {
	left, err := p.parseMulDiv(t)
	if err != nil {
		return nil, err
	}
	for {
		tok := t.peek()
		if tok.Kind != lexer.TokPunct {
			return left, nil
		}
		var op ast.BinaryOp
		switch tok.Text {
		case "+":
			op = ast.OpAdd
		case "-":
			op = ast.OpSub
		default:
			return left, nil
		}
		t.next()
		right, err := p.parseMulDiv(t)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseMulDiv(t *toks) (ast.Expr, error) {
	left, err := p.parseUnary(t)
	if err != nil {
		return nil, err
	}
	for {
		tok := t.peek()
		var op ast.BinaryOp
		switch {
		case tok.Kind == lexer.TokPunct && tok.Text == "*":
			op = ast.OpMul
		case tok.Kind == lexer.TokPunct && tok.Text == "/":
			op = ast.OpDiv
		case tok.Kind == lexer.TokKeyword && tok.Text == "DIV":
			op = ast.OpIDiv
		case tok.Kind == lexer.TokKeyword && tok.Text == "MOD":
			op = ast.OpMod
		default:
			return left, nil
		}
		t.next()
		right, err := p.parseUnary(t)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseUnary(t *toks) (ast.Expr, error) {
	tok := t.peek()
	switch {
	case tok.Kind == lexer.TokPunct && tok.Text == "-":
		t.next()
		operand, err := p.parseUnary(t)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: ast.OpNeg, Operand: operand}, nil
	case tok.Kind == lexer.TokPunct && tok.Text == "+":
		t.next()
		return p.parseUnary(t)
	case tok.Kind == lexer.TokKeyword && tok.Text == "NOT":
		t.next()
		operand, err := p.parseUnary(t)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: ast.OpNot, Operand: operand}, nil
	case tok.Kind == lexer.TokKeyword && tok.Text == "B_NOT":
		t.next()
		operand, err := p.parseUnary(t)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: ast.OpBNot, Operand: operand}, nil
	default:
		return p.parsePrimary(t)
	}
}

var oneArgFuncs = map[string]ast.Func{
	"SIN": ast.FnSin, "COS": ast.FnCos, "TAN": ast.FnTan,
	"ASIN": ast.FnAsin, "ACOS": ast.FnAcos, "SQRT": ast.FnSqrt,
	"ABS": ast.FnAbs, "POT": ast.FnPot, "TRUNC": ast.FnTrunc,
	"ROUND": ast.FnRound, "LN": ast.FnLn, "EXP": ast.FnExp,
}

var twoArgFuncs = map[string]ast.Func{
	"ATAN2": ast.FnAtan2, "MINVAL": ast.FnMinval, "MAXVAL": ast.FnMaxval,
}

func (p *Parser) parsePrimary(t *toks) (ast.Expr, error) {
	tok := t.peek()

	switch tok.Kind {
	case lexer.TokInteger, lexer.TokFloat, lexer.TokString:
		t.next()
		v, err := lexer.LiteralValue(tok)
		if err != nil {
			return nil, err
		}
		return &ast.Literal{Value: v}, nil

	case lexer.TokPunct:
		if tok.Text == "(" {
			t.next()
			e, err := p.parseExpr(t)
			if err != nil {
				return nil, err
			}
			if err := expectPunct(t, ")"); err != nil {
				return nil, err
			}
			return e, nil
		}
		return nil, alarm.New(alarm.Syntax, "unexpected token %q", tok.Text)

	case lexer.TokLetter:
		// Only 'R' has an expression-context meaning: R1 or R[n], sugar
		// for the predefined R array (spec.md §8 seed scenario 5).
		if toUpperByte(tok.Text[0]) != 'R' {
			return nil, alarm.New(alarm.Syntax, "unexpected address letter %q in expression", tok.Text)
		}
		t.next()
		if t.peek().Kind == lexer.TokInteger {
			numTok := t.next()
			return &ast.ArrayRef{Name: "R", Indices: []ast.Expr{&ast.Literal{Value: value.Int(int32(numTok.Int))}}}, nil
		}
		if t.peek().Kind == lexer.TokPunct && t.peek().Text == "[" {
			t.next()
			idx, err := p.parseExpr(t)
			if err != nil {
				return nil, err
			}
			if err := expectPunct(t, "]"); err != nil {
				return nil, err
			}
			return &ast.ArrayRef{Name: "R", Indices: []ast.Expr{idx}}, nil
		}
		return nil, alarm.New(alarm.Syntax, "expected index after R")

	case lexer.TokDollarName:
		t.next()
		name := tok.Text
		if t.peek().Kind == lexer.TokPunct && t.peek().Text == "[" {
			t.next()
			var indices []ast.Expr
			for {
				e, err := p.parseExpr(t)
				if err != nil {
					return nil, err
				}
				indices = append(indices, e)
				if t.peek().Kind == lexer.TokPunct && t.peek().Text == "," {
					t.next()
					continue
				}
				break
			}
			if err := expectPunct(t, "]"); err != nil {
				return nil, err
			}
			return &ast.ArrayRef{Name: name, Indices: indices}, nil
		}
		return &ast.VarRef{Name: name}, nil

	case lexer.TokKeyword:
		if fn, ok := oneArgFuncs[tok.Text]; ok {
			return p.parseCall(t, fn, 1)
		}
		if fn, ok := twoArgFuncs[tok.Text]; ok {
			return p.parseCall(t, fn, 2)
		}
		return nil, alarm.New(alarm.Syntax, "unexpected keyword %s in expression", tok.Text)

	case lexer.TokIdent:
		t.next()
		if t.peek().Kind == lexer.TokPunct && t.peek().Text == "[" {
			t.next()
			var indices []ast.Expr
			for {
				e, err := p.parseExpr(t)
				if err != nil {
					return nil, err
				}
				indices = append(indices, e)
				if t.peek().Kind == lexer.TokPunct && t.peek().Text == "," {
					t.next()
					continue
				}
				break
			}
			if err := expectPunct(t, "]"); err != nil {
				return nil, err
			}
			return &ast.ArrayRef{Name: tok.Text, Indices: indices}, nil
		}
		return &ast.VarRef{Name: tok.Text}, nil

	default:
		return nil, alarm.New(alarm.Syntax, "unexpected token %q", tok.Text)
	}
}

func (p *Parser) parseCall(t *toks, fn ast.Func, arity int) (ast.Expr, error) {
	t.next() // function keyword
	if err := expectPunct(t, "("); err != nil {
		return nil, err
	}
	var args []ast.Expr
	for {
		e, err := p.parseExpr(t)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		if t.peek().Kind == lexer.TokPunct && t.peek().Text == "," {
			t.next()
			continue
		}
		break
	}
	if err := expectPunct(t, ")"); err != nil {
		return nil, err
	}
	if len(args) != arity {
		return nil, alarm.New(alarm.BadFunctionArgs, "expected %d argument(s)", arity)
	}
	return &ast.CallExpr{Fn: fn, Args: args}, nil
}

func toUpperByte(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
