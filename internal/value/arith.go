package value

import (
	"math"

	"github.com/leftmike/s840d/internal/alarm"
)

// promote implements the binary-arithmetic type promotion rule of spec.md
// §4.2: CHAR+CHAR->CHAR (no overflow check); else widen to INT if both
// convert to INT; else REAL.
func promote(a, b Value) Tag {
	if a.Tag == CHAR && b.Tag == CHAR {
		return CHAR
	}
	if isIntLike(a) && isIntLike(b) {
		return INT
	}
	return REAL
}

func isIntLike(v Value) bool {
	switch v.Tag {
	case INT, BOOL, CHAR:
		return true
	default:
		return false
	}
}

func toInt(v Value) (int64, error) {
	switch v.Tag {
	case INT:
		return int64(v.I), nil
	case BOOL:
		if v.B {
			return 1, nil
		}
		return 0, nil
	case CHAR:
		return int64(v.C), nil
	default:
		return 0, alarm.New(alarm.TypeMismatch, "%s is not integer-like", v.Tag)
	}
}

// Add, Sub, Mul, Div implement the arithmetic operators with S840D
// overflow detection (alarm 14051 on overflow, NaN or integer
// division/modulo by zero).
func Add(a, b Value) (Value, error) { return arith2(a, b, '+') }
func Sub(a, b Value) (Value, error) { return arith2(a, b, '-') }
func Mul(a, b Value) (Value, error) { return arith2(a, b, '*') }

// Div is S840D's floating '/' operator: always produces REAL.
func Div(a, b Value) (Value, error) {
	x, err := ConvertToReal(a)
	if err != nil {
		return Value{}, err
	}
	y, err := ConvertToReal(b)
	if err != nil {
		return Value{}, err
	}
	r := x / y
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return Value{}, alarm.New(alarm.ArithOverflow, "%v / %v", x, y)
	}
	return Real(r), nil
}

// IntDiv is S840D's integer-truncating DIV operator.
func IntDiv(a, b Value) (Value, error) {
	x, err := toInt(a)
	if err != nil {
		return Value{}, err
	}
	y, err := toInt(b)
	if err != nil {
		return Value{}, err
	}
	if y == 0 {
		return Value{}, alarm.New(alarm.ArithOverflow, "integer division by zero")
	}
	q := x / y
	if q > math.MaxInt32 || q < math.MinInt32 {
		return Value{}, alarm.New(alarm.ArithOverflow, "DIV overflow")
	}
	return Int(int32(q)), nil
}

// Mod is S840D's integer MOD operator.
func Mod(a, b Value) (Value, error) {
	x, err := toInt(a)
	if err != nil {
		return Value{}, err
	}
	y, err := toInt(b)
	if err != nil {
		return Value{}, err
	}
	if y == 0 {
		return Value{}, alarm.New(alarm.ArithOverflow, "modulo by zero")
	}
	return Int(int32(x % y)), nil
}

func arith2(a, b Value, op byte) (Value, error) {
	tag := promote(a, b)
	switch tag {
	case CHAR:
		ai, _ := toInt(a)
		bi, _ := toInt(b)
		var r int64
		switch op {
		case '+':
			r = ai + bi
		case '-':
			r = ai - bi
		case '*':
			r = ai * bi
		}
		return Char(uint8(r)), nil // CHAR arithmetic is not overflow-checked

	case INT:
		ai, err := toInt(a)
		if err != nil {
			return Value{}, err
		}
		bi, err := toInt(b)
		if err != nil {
			return Value{}, err
		}
		var r int64
		switch op {
		case '+':
			r = ai + bi
		case '-':
			r = ai - bi
		case '*':
			r = ai * bi
		}
		if r > math.MaxInt32 || r < math.MinInt32 {
			return Value{}, alarm.New(alarm.ArithOverflow, "INT overflow")
		}
		return Int(int32(r)), nil

	default: // REAL
		ar, err := ConvertToReal(a)
		if err != nil {
			return Value{}, err
		}
		br, err := ConvertToReal(b)
		if err != nil {
			return Value{}, err
		}
		var r float64
		switch op {
		case '+':
			r = ar + br
		case '-':
			r = ar - br
		case '*':
			r = ar * br
		}
		if math.IsInf(r, 0) || math.IsNaN(r) {
			return Value{}, alarm.New(alarm.ArithOverflow, "REAL overflow")
		}
		return Real(r), nil
	}
}

// Neg negates a value, preserving INT/REAL tag.
func Neg(v Value) (Value, error) {
	switch v.Tag {
	case INT:
		if v.I == math.MinInt32 {
			return Value{}, alarm.New(alarm.ArithOverflow, "INT negate overflow")
		}
		return Int(-v.I), nil
	case REAL:
		return Real(-v.R), nil
	default:
		r, err := ConvertToReal(v)
		if err != nil {
			return Value{}, err
		}
		return Real(-r), nil
	}
}

// Compare implements EQ/NE/GT/LT/GE/LE across mixed types: strings compare
// byte-wise, everything else promotes through ConvertToReal with epsilon
// tolerance for equality/ordering bias (spec.md §4.2).
func Compare(a, b Value, op string) (bool, error) {
	if a.Tag == STRING || b.Tag == STRING {
		if a.Tag != STRING || b.Tag != STRING {
			return false, alarm.New(alarm.TypeMismatch, "cannot compare STRING with %s/%s", a.Tag, b.Tag)
		}
		switch op {
		case "EQ":
			return a.S == b.S, nil
		case "NE":
			return a.S != b.S, nil
		case "GT":
			return a.S > b.S, nil
		case "LT":
			return a.S < b.S, nil
		case "GE":
			return a.S >= b.S, nil
		case "LE":
			return a.S <= b.S, nil
		}
		return false, alarm.New(alarm.Syntax, "unknown comparison %s", op)
	}

	x, err := ConvertToReal(a)
	if err != nil {
		return false, err
	}
	y, err := ConvertToReal(b)
	if err != nil {
		return false, err
	}

	switch op {
	case "EQ":
		return CompareEps(x, y), nil
	case "NE":
		return !CompareEps(x, y), nil
	case "GT":
		return GreaterEps(x, y), nil
	case "LT":
		return LessEps(x, y), nil
	case "GE":
		return !LessEps(x, y), nil
	case "LE":
		return !GreaterEps(x, y), nil
	}
	return false, alarm.New(alarm.Syntax, "unknown comparison %s", op)
}

// LogicalAnd/Or/Xor/Not operate over values converted to BOOL.
func LogicalAnd(a, b Value) (Value, error) { return logic2(a, b, func(x, y bool) bool { return x && y }) }
func LogicalOr(a, b Value) (Value, error)  { return logic2(a, b, func(x, y bool) bool { return x || y }) }
func LogicalXor(a, b Value) (Value, error) {
	return logic2(a, b, func(x, y bool) bool { return x != y })
}

func logic2(a, b Value, f func(x, y bool) bool) (Value, error) {
	ab, err := AssignCast(a, BOOL)
	if err != nil {
		return Value{}, err
	}
	bb, err := AssignCast(b, BOOL)
	if err != nil {
		return Value{}, err
	}
	return Bool(f(ab.B, bb.B)), nil
}

func LogicalNot(a Value) (Value, error) {
	ab, err := AssignCast(a, BOOL)
	if err != nil {
		return Value{}, err
	}
	return Bool(!ab.B), nil
}

// BitAnd/BitOr/BitXor/BitNot operate over INT-coerced operands.
func BitAnd(a, b Value) (Value, error) { return bit2(a, b, func(x, y int32) int32 { return x & y }) }
func BitOr(a, b Value) (Value, error)  { return bit2(a, b, func(x, y int32) int32 { return x | y }) }
func BitXor(a, b Value) (Value, error) { return bit2(a, b, func(x, y int32) int32 { return x ^ y }) }

func bit2(a, b Value, f func(x, y int32) int32) (Value, error) {
	ai, err := AssignCast(a, INT)
	if err != nil {
		return Value{}, err
	}
	bi, err := AssignCast(b, INT)
	if err != nil {
		return Value{}, err
	}
	return Int(f(ai.I, bi.I)), nil
}

func BitNot(a Value) (Value, error) {
	ai, err := AssignCast(a, INT)
	if err != nil {
		return Value{}, err
	}
	return Int(^ai.I), nil
}
