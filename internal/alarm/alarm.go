// Package alarm implements the S840D typed domain-error taxonomy: a fixed
// set of integer alarm codes raised by the lexer, parser, evaluator and
// controller for expected, specified conditions (as opposed to unexpected
// "bug" panics, which callers handle separately).
package alarm

import "fmt"

// Code is an S840D alarm number.
type Code int

// The exhaustive set used by this module (spec.md §6).
const (
	NoFeed                Code = 10860
	DuplicateAddress       Code = 12010
	SyntaxDefiningConflict Code = 12070
	Syntax                 Code = 12080
	TypeMismatch           Code = 12150
	OutOfRange             Code = 12160
	Redefinition           Code = 12170
	OutOfMemory            Code = 12380
	BadIndexType           Code = 12410
	IdentTooLong           Code = 12420
	InvalidIndex           Code = 12430
	UnknownG               Code = 12470
	InvalidG               Code = 12475
	UnknownName            Code = 12550
	LabelOnControlBlock    Code = 12630
	BadNesting             Code = 12640
	BadFunctionArgs        Code = 14020
	BadArcEndPoint         Code = 14040
	BadTurnCount           Code = 14048
	ArithOverflow          Code = 14051
	SkipLevel              Code = 14060
	GotoTargetMissing      Code = 14080
	TooManyInits           Code = 14130
	DefAfterCode           Code = 14500
	DoubleSetAxis          Code = 16420
	ArrayOutOfBounds       Code = 17020
	JumpLimitExceeded      Code = 14090
)

// text holds the fixed short description for each code, grounded on
// original_source/src/s840d_alarm.cpp's code->text table.
var text = map[Code]string{
	NoFeed:                 "no feedrate programmed",
	DuplicateAddress:       "address programmed twice in the same block",
	SyntaxDefiningConflict: "syntax-defining G-group set more than once in a block",
	Syntax:                 "syntax error",
	TypeMismatch:           "illegal type conversion",
	OutOfRange:             "value out of range",
	Redefinition:           "variable already defined",
	OutOfMemory:            "array too large",
	BadIndexType:           "array index must be an integer",
	IdentTooLong:           "identifier too long",
	InvalidIndex:           "array index out of range in DEF",
	UnknownG:               "unknown G function",
	InvalidG:               "invalid value for G-group",
	UnknownName:            "unknown variable or label",
	LabelOnControlBlock:    "label not allowed on a control-structure block",
	BadNesting:             "control-structure nesting mismatch",
	BadFunctionArgs:        "wrong number of arguments for function",
	BadArcEndPoint:         "arc end point cannot be reached",
	BadTurnCount:           "invalid number of turns",
	ArithOverflow:          "arithmetic overflow or division by zero",
	SkipLevel:              "invalid skip level",
	GotoTargetMissing:      "GOTO target not found",
	TooManyInits:           "too many initializers in DEF",
	DefAfterCode:           "DEF not allowed after the first executable block",
	DoubleSetAxis:          "axis or coordinate set twice in the same block",
	ArrayOutOfBounds:       "array index out of bounds",
	JumpLimitExceeded:      "too many GOTO jumps executed",
}

// Alarm is a raised S840D alarm: a typed, coded error.
type Alarm struct {
	Code   Code
	Detail string // optional extra context appended to the fixed message
}

func (a *Alarm) Error() string {
	msg := a.Message()
	if a.Detail == "" {
		return fmt.Sprintf("alarm %d: %s", a.Code, msg)
	}
	return fmt.Sprintf("alarm %d: %s: %s", a.Code, msg, a.Detail)
}

// Message returns the fixed short description for the alarm's code.
func (a *Alarm) Message() string {
	if m, ok := text[a.Code]; ok {
		return m
	}
	return "unknown alarm"
}

// New constructs an Alarm with an optional formatted detail.
func New(code Code, format string, args ...any) *Alarm {
	var detail string
	if format != "" {
		detail = fmt.Sprintf(format, args...)
	}
	return &Alarm{Code: code, Detail: detail}
}

// As reports whether err is an *Alarm and, if so, returns it.
func As(err error) (*Alarm, bool) {
	a, ok := err.(*Alarm)
	return a, ok
}
