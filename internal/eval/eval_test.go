package eval

import (
	"testing"

	"github.com/leftmike/s840d/internal/ast"
	"github.com/leftmike/s840d/internal/value"
	"github.com/leftmike/s840d/internal/vars"
)

func lit(v value.Value) ast.Expr { return &ast.Literal{Value: v} }

func TestEvalArithmetic(t *testing.T) {
	store := vars.New()
	expr := &ast.BinaryExpr{
		Op:   ast.OpAdd,
		Left: lit(value.Int(10)),
		Right: &ast.BinaryExpr{
			Op:    ast.OpMul,
			Left:  lit(value.Int(2)),
			Right: lit(value.Int(3)),
		},
	}
	got, err := Eval(expr, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != value.Int(16) {
		t.Fatalf("got %v, want 16", got)
	}
}

func TestEvalVarRef(t *testing.T) {
	store := vars.New()
	store.Define("R1", value.Real(5))
	got, err := Eval(&ast.VarRef{Name: "r1"}, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != value.Real(5) {
		t.Fatalf("got %v", got)
	}
}

func TestEvalArrayRef(t *testing.T) {
	store := vars.New()
	store.DefineArray("ARR", value.INT, []int{5})
	store.SetArrayValue("ARR", []int{2}, value.Int(42))
	got, err := Eval(&ast.ArrayRef{Name: "ARR", Indices: []ast.Expr{lit(value.Int(2))}}, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != value.Int(42) {
		t.Fatalf("got %v", got)
	}
}

func TestEvalComparisonAndLogic(t *testing.T) {
	store := vars.New()
	// IF 1==2 must be false.
	got, err := Eval(&ast.BinaryExpr{Op: ast.OpEQ, Left: lit(value.Int(1)), Right: lit(value.Int(2))}, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != value.Bool(false) {
		t.Fatalf("got %v", got)
	}
	// TRUE AND (1==2) must be false.
	got, err = Eval(&ast.BinaryExpr{
		Op:    ast.OpAnd,
		Left:  lit(value.Bool(true)),
		Right: &ast.BinaryExpr{Op: ast.OpEQ, Left: lit(value.Int(1)), Right: lit(value.Int(2))},
	}, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != value.Bool(false) {
		t.Fatalf("TRUE AND FALSE = %v, want FALSE", got)
	}
}

func TestEvalFunctionsDegrees(t *testing.T) {
	store := vars.New()
	got, err := Eval(&ast.CallExpr{Fn: ast.FnSin, Args: []ast.Expr{lit(value.Real(90))}}, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !value.CompareEps(got.R, 1.0) {
		t.Fatalf("SIN(90) = %v, want 1", got.R)
	}
}

func TestEvalAtan2Degrees(t *testing.T) {
	store := vars.New()
	got, err := Eval(&ast.CallExpr{Fn: ast.FnAtan2, Args: []ast.Expr{lit(value.Real(1)), lit(value.Real(0))}}, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !value.CompareEps(got.R, 90.0) {
		t.Fatalf("ATAN2(1,0) = %v, want 90", got.R)
	}
}

func TestEvalRemainingFunctions(t *testing.T) {
	store := vars.New()
	tests := []struct {
		name string
		call *ast.CallExpr
		want float64
	}{
		{"COS", &ast.CallExpr{Fn: ast.FnCos, Args: []ast.Expr{lit(value.Real(0))}}, 1},
		{"TAN", &ast.CallExpr{Fn: ast.FnTan, Args: []ast.Expr{lit(value.Real(45))}}, 1},
		{"ASIN", &ast.CallExpr{Fn: ast.FnAsin, Args: []ast.Expr{lit(value.Real(1))}}, 90},
		{"ACOS", &ast.CallExpr{Fn: ast.FnAcos, Args: []ast.Expr{lit(value.Real(1))}}, 0},
		{"SQRT", &ast.CallExpr{Fn: ast.FnSqrt, Args: []ast.Expr{lit(value.Real(9))}}, 3},
		{"ABS", &ast.CallExpr{Fn: ast.FnAbs, Args: []ast.Expr{lit(value.Real(-4))}}, 4},
		{"POT", &ast.CallExpr{Fn: ast.FnPot, Args: []ast.Expr{lit(value.Real(4))}}, 16},
		{"TRUNC", &ast.CallExpr{Fn: ast.FnTrunc, Args: []ast.Expr{lit(value.Real(4.7))}}, 4},
		{"ROUND", &ast.CallExpr{Fn: ast.FnRound, Args: []ast.Expr{lit(value.Real(4.5))}}, 5},
		{"LN", &ast.CallExpr{Fn: ast.FnLn, Args: []ast.Expr{lit(value.Real(1))}}, 0},
		{"EXP", &ast.CallExpr{Fn: ast.FnExp, Args: []ast.Expr{lit(value.Real(0))}}, 1},
		{"MINVAL", &ast.CallExpr{Fn: ast.FnMinval, Args: []ast.Expr{lit(value.Real(3)), lit(value.Real(7))}}, 3},
		{"MAXVAL", &ast.CallExpr{Fn: ast.FnMaxval, Args: []ast.Expr{lit(value.Real(3)), lit(value.Real(7))}}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Eval(tt.call, store)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !value.CompareEps(got.R, tt.want) {
				t.Fatalf("%s = %v, want %v", tt.name, got.R, tt.want)
			}
		})
	}
}

func TestEvalUnknownName(t *testing.T) {
	store := vars.New()
	_, err := Eval(&ast.VarRef{Name: "NOPE"}, store)
	if err == nil {
		t.Fatal("expected alarm for unknown name")
	}
}

func TestEvalWrongArity(t *testing.T) {
	store := vars.New()
	_, err := Eval(&ast.CallExpr{Fn: ast.FnSin, Args: []ast.Expr{lit(value.Real(1)), lit(value.Real(2))}}, store)
	if err == nil {
		t.Fatal("expected alarm for wrong arity")
	}
}
