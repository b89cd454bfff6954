package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	d := Default()
	if d.AxisLetters != [3]string{"X", "Y", "Z"} {
		t.Fatalf("AxisLetters = %v", d.AxisLetters)
	}
	if d.CircleLetters != [3]string{"I", "J", "K"} {
		t.Fatalf("CircleLetters = %v", d.CircleLetters)
	}
	if d.ArcTolerance != 0.015 {
		t.Fatalf("ArcTolerance = %v", d.ArcTolerance)
	}
	if d.MaxJumps != 1000000 {
		t.Fatalf("MaxJumps = %v", d.MaxJumps)
	}
	if d.Epsilon != 4e-12 {
		t.Fatalf("Epsilon = %v", d.Epsilon)
	}
}

func TestLoadFillsOmittedKeysFromDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s840d.toml")
	if err := os.WriteFile(path, []byte("arc_tolerance = 0.05\n"), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ArcTolerance != 0.05 {
		t.Fatalf("ArcTolerance = %v, want 0.05", cfg.ArcTolerance)
	}
	if cfg.MaxJumps != 1000000 {
		t.Fatalf("MaxJumps = %v, want default 1000000", cfg.MaxJumps)
	}
	if cfg.AxisLetters != [3]string{"X", "Y", "Z"} {
		t.Fatalf("AxisLetters = %v, want default", cfg.AxisLetters)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
