// Package eval implements the S840D expression evaluator: it recursively
// evaluates an ast.Expr against a vars.Store, applying the type promotion,
// overflow, and epsilon-comparison rules of spec.md §4.2. Generalized from
// the teacher's (*unary).evaluate/(*binary).evaluate/(*call).evaluate
// visitor methods (leftmike-gcode's parser.go), which operated over a
// single int64 Number type; this evaluator carries the full five-tag
// value.Value union instead.
package eval

import (
	"math"

	"github.com/leftmike/s840d/internal/alarm"
	"github.com/leftmike/s840d/internal/ast"
	"github.com/leftmike/s840d/internal/value"
	"github.com/leftmike/s840d/internal/vars"
)

const degToRad = math.Pi / 180.0
const radToDeg = 180.0 / math.Pi

// Eval evaluates an expression node against store.
func Eval(e ast.Expr, store *vars.Store) (value.Value, error) {
	switch n := e.(type) {
	case *ast.Literal:
		return n.Value, nil

	case *ast.VarRef:
		return evalVarRef(n, store)

	case *ast.ArrayRef:
		return evalArrayRef(n, store)

	case *ast.UnaryExpr:
		return evalUnary(n, store)

	case *ast.BinaryExpr:
		return evalBinary(n, store)

	case *ast.CallExpr:
		return evalCall(n, store)

	default:
		return value.Value{}, alarm.New(alarm.Syntax, "unknown expression node")
	}
}

func evalVarRef(n *ast.VarRef, store *vars.Store) (value.Value, error) {
	v, res := store.GetValue(n.Name)
	if res == vars.Success {
		return v, nil
	}
	return value.Value{}, alarm.New(alarm.UnknownName, "%s", n.Name)
}

func evalIndices(exprs []ast.Expr, store *vars.Store) ([]int, error) {
	indices := make([]int, len(exprs))
	for i, ie := range exprs {
		v, err := Eval(ie, store)
		if err != nil {
			return nil, err
		}
		iv, err := value.AssignCast(v, value.INT)
		if err != nil {
			return nil, alarm.New(alarm.BadIndexType, "array index must be INT")
		}
		indices[i] = int(iv.I)
	}
	return indices, nil
}

func evalArrayRef(n *ast.ArrayRef, store *vars.Store) (value.Value, error) {
	indices, err := evalIndices(n.Indices, store)
	if err != nil {
		return value.Value{}, err
	}
	v, res := store.GetArrayValue(n.Name, indices)
	switch res {
	case vars.Success:
		return v, nil
	case vars.ArrayIndexOutOfBounds:
		return value.Value{}, alarm.New(alarm.ArrayOutOfBounds, "%s%v", n.Name, indices)
	case vars.DimensionMismatch:
		return value.Value{}, alarm.New(alarm.Syntax, "dimension mismatch on %s", n.Name)
	default:
		return value.Value{}, alarm.New(alarm.UnknownName, "%s", n.Name)
	}
}

func evalUnary(n *ast.UnaryExpr, store *vars.Store) (value.Value, error) {
	v, err := Eval(n.Operand, store)
	if err != nil {
		return value.Value{}, err
	}
	switch n.Op {
	case ast.OpNeg:
		return value.Neg(v)
	case ast.OpNot:
		return value.LogicalNot(v)
	case ast.OpBNot:
		return value.BitNot(v)
	default:
		return value.Value{}, alarm.New(alarm.Syntax, "unknown unary op")
	}
}

func evalBinary(n *ast.BinaryExpr, store *vars.Store) (value.Value, error) {
	l, err := Eval(n.Left, store)
	if err != nil {
		return value.Value{}, err
	}
	r, err := Eval(n.Right, store)
	if err != nil {
		return value.Value{}, err
	}

	switch n.Op {
	case ast.OpAdd:
		return value.Add(l, r)
	case ast.OpSub:
		return value.Sub(l, r)
	case ast.OpMul:
		return value.Mul(l, r)
	case ast.OpDiv:
		return value.Div(l, r)
	case ast.OpIDiv:
		return value.IntDiv(l, r)
	case ast.OpMod:
		return value.Mod(l, r)
	case ast.OpAnd:
		return value.LogicalAnd(l, r)
	case ast.OpOr:
		return value.LogicalOr(l, r)
	case ast.OpXor:
		return value.LogicalXor(l, r)
	case ast.OpBAnd:
		return value.BitAnd(l, r)
	case ast.OpBOr:
		return value.BitOr(l, r)
	case ast.OpBXor:
		return value.BitXor(l, r)
	case ast.OpEQ:
		ok, err := value.Compare(l, r, "EQ")
		return boolVal(ok, err)
	case ast.OpNE:
		ok, err := value.Compare(l, r, "NE")
		return boolVal(ok, err)
	case ast.OpGT:
		ok, err := value.Compare(l, r, "GT")
		return boolVal(ok, err)
	case ast.OpLT:
		ok, err := value.Compare(l, r, "LT")
		return boolVal(ok, err)
	case ast.OpGE:
		ok, err := value.Compare(l, r, "GE")
		return boolVal(ok, err)
	case ast.OpLE:
		ok, err := value.Compare(l, r, "LE")
		return boolVal(ok, err)
	default:
		return value.Value{}, alarm.New(alarm.Syntax, "unknown binary op")
	}
}

func boolVal(ok bool, err error) (value.Value, error) {
	if err != nil {
		return value.Value{}, err
	}
	return value.Bool(ok), nil
}

func evalCall(n *ast.CallExpr, store *vars.Store) (value.Value, error) {
	args := make([]float64, len(n.Args))
	for i, a := range n.Args {
		v, err := Eval(a, store)
		if err != nil {
			return value.Value{}, err
		}
		f, err := value.ConvertToReal(v)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = f
	}

	switch n.Fn {
	case ast.FnSin, ast.FnCos, ast.FnTan, ast.FnAsin, ast.FnAcos, ast.FnSqrt, ast.FnAbs,
		ast.FnPot, ast.FnTrunc, ast.FnRound, ast.FnLn, ast.FnExp:
		if len(args) != 1 {
			return value.Value{}, alarm.New(alarm.BadFunctionArgs, "expected 1 argument")
		}
		return value.Real(unaryFn(n.Fn, args[0])), nil

	case ast.FnAtan2, ast.FnMinval, ast.FnMaxval:
		if len(args) != 2 {
			return value.Value{}, alarm.New(alarm.BadFunctionArgs, "expected 2 arguments")
		}
		return value.Real(binaryFn(n.Fn, args[0], args[1])), nil

	default:
		return value.Value{}, alarm.New(alarm.Syntax, "unknown function")
	}
}

func unaryFn(fn ast.Func, x float64) float64 {
	switch fn {
	case ast.FnSin:
		return math.Sin(x * degToRad)
	case ast.FnCos:
		return math.Cos(x * degToRad)
	case ast.FnTan:
		return math.Tan(x * degToRad)
	case ast.FnAsin:
		return math.Asin(x) * radToDeg
	case ast.FnAcos:
		return math.Acos(x) * radToDeg
	case ast.FnSqrt:
		return math.Sqrt(x)
	case ast.FnAbs:
		return math.Abs(x)
	case ast.FnPot:
		return x * x
	case ast.FnTrunc:
		return math.Trunc(x)
	case ast.FnRound:
		if x >= 0 {
			return math.Floor(x + 0.5)
		}
		return math.Ceil(x - 0.5)
	case ast.FnLn:
		return math.Log(x)
	case ast.FnExp:
		return math.Exp(x)
	default:
		return math.NaN()
	}
}

func binaryFn(fn ast.Func, x, y float64) float64 {
	switch fn {
	case ast.FnAtan2:
		return math.Atan2(x, y) * radToDeg
	case ast.FnMinval:
		return math.Min(x, y)
	case ast.FnMaxval:
		return math.Max(x, y)
	default:
		return math.NaN()
	}
}
