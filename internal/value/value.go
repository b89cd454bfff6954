// Package value implements the S840D tagged value type and its implicit
// conversion ("assignCast") rules, generalized from the teacher's
// int64-backed Number type (leftmike-gcode's parser.go) into the five-way
// tagged union spec.md §3/§4.1 requires.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/leftmike/s840d/internal/alarm"
)

// Tag identifies the dynamic type carried by a Value.
type Tag int

const (
	INT Tag = iota
	REAL
	BOOL
	CHAR
	STRING
)

func (t Tag) String() string {
	switch t {
	case INT:
		return "INT"
	case REAL:
		return "REAL"
	case BOOL:
		return "BOOL"
	case CHAR:
		return "CHAR"
	case STRING:
		return "STRING"
	default:
		return "UNKNOWN"
	}
}

// Value is a tagged union over {int32, float64, bool, uint8, string}.
// Every Value carries its tag; only the field matching Tag is meaningful.
type Value struct {
	Tag Tag
	I   int32
	R   float64
	B   bool
	C   uint8
	S   string
}

// Epsilon is the S840D comparison tolerance (spec.md §4.2).
const Epsilon = 4e-12

func Int(i int32) Value    { return Value{Tag: INT, I: i} }
func Real(r float64) Value { return Value{Tag: REAL, R: r} }
func Bool(b bool) Value    { return Value{Tag: BOOL, B: b} }
func Char(c uint8) Value   { return Value{Tag: CHAR, C: c} }
func Str(s string) Value   { return Value{Tag: STRING, S: s} }

// AsFloat returns the value's numeric reading as a float64, for tags
// where that is meaningful (INT, REAL, BOOL, CHAR).
func (v Value) AsFloat() float64 {
	switch v.Tag {
	case INT:
		return float64(v.I)
	case REAL:
		return v.R
	case BOOL:
		if v.B {
			return 1
		}
		return 0
	case CHAR:
		return float64(v.C)
	default:
		return 0
	}
}

func (v Value) String() string {
	switch v.Tag {
	case INT:
		return strconv.FormatInt(int64(v.I), 10)
	case REAL:
		return strconv.FormatFloat(v.R, 'g', -1, 64)
	case BOOL:
		if v.B {
			return "TRUE"
		}
		return "FALSE"
	case CHAR:
		return string(rune(v.C))
	case STRING:
		return v.S
	default:
		return "?"
	}
}

// CompareEps reports whether x and y are equal within Epsilon*max(|x|,|y|),
// the tolerance spec.md §4.2 specifies for REAL equality.
func CompareEps(x, y float64) bool {
	if x == y {
		return true
	}
	m := math.Abs(x)
	if a := math.Abs(y); a > m {
		m = a
	}
	return math.Abs(x-y) <= Epsilon*m
}

// LessEps and GreaterEps bias strict comparisons by the same epsilon band,
// so that values within tolerance never compare as strictly less/greater.
func LessEps(x, y float64) bool {
	if CompareEps(x, y) {
		return false
	}
	return x < y
}

func GreaterEps(x, y float64) bool {
	if CompareEps(x, y) {
		return false
	}
	return x > y
}

// roundHalfAwayFromZero implements the S840D INT<-REAL rounding rule.
func roundHalfAwayFromZero(r float64) float64 {
	if r >= 0 {
		return math.Floor(r + 0.5)
	}
	return math.Ceil(r - 0.5)
}

// AssignCast performs the implicit conversion used on assignment, function
// arguments, and address values (spec.md §4.1's cast table). Range
// violations and illegal conversions raise alarm 12150.
func AssignCast(v Value, to Tag) (Value, error) {
	if v.Tag == to {
		return v, nil
	}

	switch to {
	case INT:
		switch v.Tag {
		case REAL:
			r := roundHalfAwayFromZero(v.R)
			if r > math.MaxInt32 || r < math.MinInt32 || math.IsNaN(r) {
				return Value{}, alarm.New(alarm.TypeMismatch, "REAL %v out of INT range", v.R)
			}
			return Int(int32(r)), nil
		case BOOL:
			if v.B {
				return Int(1), nil
			}
			return Int(0), nil
		case CHAR:
			return Int(int32(v.C)), nil
		case STRING:
			return Value{}, alarm.New(alarm.TypeMismatch, "STRING to INT")
		}

	case REAL:
		switch v.Tag {
		case INT:
			return Real(float64(v.I)), nil
		case BOOL:
			if v.B {
				return Real(1), nil
			}
			return Real(0), nil
		case CHAR:
			return Real(float64(v.C)), nil
		case STRING:
			return Value{}, alarm.New(alarm.TypeMismatch, "STRING to REAL")
		}

	case BOOL:
		switch v.Tag {
		case INT:
			return Bool(v.I != 0), nil
		case REAL:
			return Bool(math.Abs(v.R) != 0), nil
		case CHAR:
			return Bool(v.C != 0), nil
		case STRING:
			return Bool(v.S != ""), nil
		}

	case CHAR:
		switch v.Tag {
		case INT:
			if v.I < 0 || v.I > 255 {
				return Value{}, alarm.New(alarm.TypeMismatch, "INT %d out of CHAR range", v.I)
			}
			return Char(uint8(v.I)), nil
		case REAL:
			r := roundHalfAwayFromZero(v.R)
			if r < 0 || r > 255 {
				return Value{}, alarm.New(alarm.TypeMismatch, "REAL %v out of CHAR range", v.R)
			}
			return Char(uint8(r)), nil
		case BOOL:
			if v.B {
				return Char(1), nil
			}
			return Char(0), nil
		case STRING:
			if len([]rune(v.S)) != 1 {
				return Value{}, alarm.New(alarm.TypeMismatch, "STRING not length 1 for CHAR")
			}
			return Char(uint8([]rune(v.S)[0])), nil
		}

	case STRING:
		switch v.Tag {
		case INT:
			return Value{}, alarm.New(alarm.TypeMismatch, "INT to STRING")
		case REAL:
			return Value{}, alarm.New(alarm.TypeMismatch, "REAL to STRING")
		case BOOL:
			if v.B {
				return Str(strconv.Itoa(1)), nil
			}
			return Str(strconv.Itoa(0)), nil
		case CHAR:
			return Str(string(rune(v.C))), nil
		}
	}

	return Value{}, alarm.New(alarm.TypeMismatch, "unsupported conversion %s -> %s", v.Tag, to)
}

// ConvertToReal widens any numeric-ish tag to REAL, used when comparing or
// computing across mixed types (spec.md §4.2).
func ConvertToReal(v Value) (float64, error) {
	switch v.Tag {
	case INT, REAL, BOOL, CHAR:
		return v.AsFloat(), nil
	default:
		return 0, alarm.New(alarm.TypeMismatch, "cannot convert %s to REAL", v.Tag)
	}
}

// Parse constructs a Value of the given tag from a decimal literal string.
// The lexer does not use it; it builds literal values through
// lexer.LiteralValue.
func Parse(tag Tag, s string) (Value, error) {
	switch tag {
	case INT:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return Value{}, alarm.New(alarm.OutOfRange, "%s", s)
		}
		return Int(int32(n)), nil
	case REAL:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, alarm.New(alarm.OutOfRange, "%s", s)
		}
		return Real(f), nil
	default:
		return Value{}, fmt.Errorf("value: cannot parse tag %s", tag)
	}
}

// Quote formats a STRING value the way S840D string literals are written.
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	b.WriteString(s)
	b.WriteByte('"')
	return b.String()
}
