package vars

import (
	"testing"

	"github.com/leftmike/s840d/internal/value"
)

func TestDefineAndGetScalar(t *testing.T) {
	s := New()
	if res := s.Define("MyVar", value.Int(5)); res != Success {
		t.Fatalf("Define: %v", res)
	}
	v, res := s.GetValue("myvar")
	if res != Success {
		t.Fatalf("GetValue: %v", res)
	}
	if v != value.Int(5) {
		t.Fatalf("got %v", v)
	}
}

func TestDefineAlreadyExists(t *testing.T) {
	s := New()
	s.Define("X", value.Int(1))
	if res := s.Define("x", value.Int(2)); res != AlreadyExists {
		t.Fatalf("expected AlreadyExists, got %v", res)
	}
	if res := s.DefineArray("x", value.INT, []int{3}); res != AlreadyExists {
		t.Fatalf("expected AlreadyExists across dictionaries, got %v", res)
	}
}

func TestDefineArrayAndAccess(t *testing.T) {
	s := New()
	if res := s.DefineArray("ARR", value.REAL, []int{3, 4}); res != Success {
		t.Fatalf("DefineArray: %v", res)
	}
	if res := s.SetArrayValue("arr", []int{1, 2}, value.Real(9.5)); res != Success {
		t.Fatalf("SetArrayValue: %v", res)
	}
	got, res := s.GetArrayValue("ARR", []int{1, 2})
	if res != Success || got != value.Real(9.5) {
		t.Fatalf("got %v, %v", got, res)
	}
}

func TestArrayIndexOutOfBounds(t *testing.T) {
	s := New()
	s.DefineArray("ARR", value.INT, []int{3})
	if _, res := s.GetArrayValue("ARR", []int{5}); res != ArrayIndexOutOfBounds {
		t.Fatalf("expected ArrayIndexOutOfBounds, got %v", res)
	}
}

func TestDimensionMismatch(t *testing.T) {
	s := New()
	s.DefineArray("ARR", value.INT, []int{3})
	if _, res := s.GetArrayValue("ARR", []int{1, 2}); res != DimensionMismatch {
		t.Fatalf("expected DimensionMismatch, got %v", res)
	}
}

func TestInvalidArraySize(t *testing.T) {
	s := New()
	if res := s.DefineArray("ARR", value.INT, []int{0}); res != InvalidArraySize {
		t.Fatalf("expected InvalidArraySize for 0, got %v", res)
	}
	if res := s.DefineArray("ARR2", value.INT, []int{32768}); res != InvalidArraySize {
		t.Fatalf("expected InvalidArraySize for >32767, got %v", res)
	}
}

func TestInvalidDimensionCount(t *testing.T) {
	s := New()
	if res := s.DefineArray("ARR", value.INT, []int{1, 2, 3, 4}); res != InvalidDimensionCount {
		t.Fatalf("expected InvalidDimensionCount, got %v", res)
	}
}

func TestOutOfMemory(t *testing.T) {
	s := New()
	if res := s.DefineArray("ARR", value.INT, []int{32767, 32767, 32767}); res != OutOfMemory {
		t.Fatalf("expected OutOfMemory for oversized 3D array, got %v", res)
	}
}

func TestResetReseedsRAndPGG(t *testing.T) {
	s := New()
	if _, res := s.GetArrayValue("R", []int{99}); res != Success {
		t.Fatalf("expected R[100] seeded at reset, got %v", res)
	}
	if _, res := s.GetArrayValue("R", []int{100}); res != ArrayIndexOutOfBounds {
		t.Fatalf("index 100 against R[100] sizing should be out of bounds, got %v", res)
	}
	if _, res := s.GetArrayValue("$P_GG", []int{64}); res != Success {
		t.Fatalf("expected $P_GG[65] seeded at reset, got %v", res)
	}
}

func TestTypeMismatchOnSet(t *testing.T) {
	s := New()
	s.Define("X", value.Int(1))
	if res := s.SetValue("X", value.Real(1.0)); res != TypeMismatch {
		t.Fatalf("expected TypeMismatch, got %v", res)
	}
}
