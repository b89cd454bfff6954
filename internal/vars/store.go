// Package vars implements the S840D variable store: name->value and
// name->array-of-value (1/2/3 dimensions), case-insensitive, generalized
// from the teacher's flat eng.numParams/eng.nameParams maps
// (leftmike-gcode's engine.go/parameters.go) into the typed store of
// spec.md §4.4.
package vars

import (
	"strings"

	"github.com/leftmike/s840d/internal/value"
)

// Result is the outcome of a store operation (spec.md §4.4).
type Result int

const (
	Success Result = iota
	DoNotExist
	AlreadyExists
	ArrayIndexOutOfBounds
	InvalidDimensionCount
	DimensionMismatch
	TypeMismatch
	InvalidArraySize
	OutOfMemory
)

// MaxArrayDim is the largest size allowed for a single array dimension.
const MaxArrayDim = 32767

// maxElements bounds the product of an array's dimensions so that a
// pathological DEF (e.g. 32767^3) is rejected as OutOfMemory instead of
// silently wrapping or allocating an unreasonable slice (spec.md §9 open
// question on the DEF array-size rule).
const maxElements = 1 << 24

// array holds a dense, row-major array of a single fixed element tag.
type array struct {
	tag  value.Tag
	dims []int
	data []value.Value
}

func (a *array) index(indices []int) (int, Result) {
	if len(indices) != len(a.dims) {
		return 0, DimensionMismatch
	}
	idx := 0
	for i, d := range indices {
		if d < 0 || d >= a.dims[i] {
			return 0, ArrayIndexOutOfBounds
		}
		idx = idx*a.dims[i] + d
	}
	return idx, Success
}

// Store is the S840D variable store: a name exists in at most one of its
// two dictionaries (scalars, and arrays of any rank 1-3), both keyed by
// uppercased name.
type Store struct {
	scalar map[string]value.Value
	arrays map[string]*array
}

// New returns an empty store, then seeds it per Reset.
func New() *Store {
	s := &Store{
		scalar: map[string]value.Value{},
		arrays: map[string]*array{},
	}
	s.Reset()
	return s
}

func key(name string) string { return strings.ToUpper(name) }

// Reset clears the store and reseeds it with R[100] (REAL) and
// $P_GG[65] (INT), the lifetime rule of spec.md §3.
func (s *Store) Reset() {
	s.scalar = map[string]value.Value{}
	s.arrays = map[string]*array{}
	s.defineArrayNoCheck("R", value.REAL, []int{100})
	s.defineArrayNoCheck("$P_GG", value.INT, []int{65})
}

func (s *Store) defineArrayNoCheck(name string, tag value.Tag, dims []int) {
	n := 1
	for _, d := range dims {
		n *= d
	}
	data := make([]value.Value, n)
	zero := zeroOf(tag)
	for i := range data {
		data[i] = zero
	}
	s.arrays[key(name)] = &array{tag: tag, dims: dims, data: data}
}

func zeroOf(tag value.Tag) value.Value {
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

func (s *Store) exists(k string) bool {
	if _, ok := s.scalar[k]; ok {
		return true
	}
	_, ok := s.arrays[k]
	return ok
}

// Define creates a scalar variable. initValue's tag fixes the element
// type; to define an uninitialized scalar, pass the zero value of the
// wanted tag.
func (s *Store) Define(name string, initValue value.Value) Result {
	k := key(name)
	if s.exists(k) {
		return AlreadyExists
	}
	s.scalar[k] = initValue
	return Success
}

// DefineArray creates a 1-3 dimensional array of the given element type.
func (s *Store) DefineArray(name string, tag value.Tag, dims []int) Result {
	k := key(name)
	if s.exists(k) {
		return AlreadyExists
	}
	if len(dims) == 0 || len(dims) > 3 {
		return InvalidDimensionCount
	}
	total := 1
	for _, d := range dims {
		if d <= 0 || d > MaxArrayDim {
			return InvalidArraySize
		}
		total *= d
		if total > maxElements {
			return OutOfMemory
		}
	}
	s.defineArrayNoCheck(name, tag, dims)
	return Success
}

// GetValue returns a scalar's value.
func (s *Store) GetValue(name string) (value.Value, Result) {
	v, ok := s.scalar[key(name)]
	if !ok {
		return value.Value{}, DoNotExist
	}
	return v, Success
}

// SetValue assigns a scalar. Callers must pre-cast via value.AssignCast;
// a tag mismatch between incoming and stored value raises TypeMismatch.
func (s *Store) SetValue(name string, v value.Value) Result {
	k := key(name)
	old, ok := s.scalar[k]
	if !ok {
		return DoNotExist
	}
	if old.Tag != v.Tag {
		return TypeMismatch
	}
	s.scalar[k] = v
	return Success
}

// GetArrayValue reads one element of an array variable.
func (s *Store) GetArrayValue(name string, indices []int) (value.Value, Result) {
	a, ok := s.arrays[key(name)]
	if !ok {
		return value.Value{}, DoNotExist
	}
	idx, res := a.index(indices)
	if res != Success {
		return value.Value{}, res
	}
	return a.data[idx], Success
}

// SetArrayValue writes one element of an array variable.
func (s *Store) SetArrayValue(name string, indices []int, v value.Value) Result {
	a, ok := s.arrays[key(name)]
	if !ok {
		return DoNotExist
	}
	idx, res := a.index(indices)
	if res != Success {
		return res
	}
	if a.tag != v.Tag {
		return TypeMismatch
	}
	a.data[idx] = v
	return Success
}

// ArrayElementTag reports the element type of a defined array, for
// callers (the controller's assignment path) that need to pre-cast a value
// before SetArrayValue.
func (s *Store) ArrayElementTag(name string) (value.Tag, bool) {
	a, ok := s.arrays[key(name)]
	if !ok {
		return 0, false
	}
	return a.tag, true
}

// ScalarTag reports the type of a defined scalar.
func (s *Store) ScalarTag(name string) (value.Tag, bool) {
	v, ok := s.scalar[key(name)]
	if !ok {
		return 0, false
	}
	return v.Tag, true
}

// IsArray reports whether name is defined as an array (of any rank).
func (s *Store) IsArray(name string) bool {
	_, ok := s.arrays[key(name)]
	return ok
}

// IsScalar reports whether name is defined as a scalar.
func (s *Store) IsScalar(name string) bool {
	_, ok := s.scalar[key(name)]
	return ok
}
