// Package config loads this module's small, fixed settings surface from a
// TOML file, falling back to the built-in S840D defaults for any key the
// file omits (spec.md §6's "Configuration" item). Grounded on the
// teacher-pack's msto63-mDW/foundation/core/config package's
// toml.Decode-based loading, simplified to a typed struct since this
// module's settings surface doesn't need that package's dot-notation
// map, env-var layering or file-watching machinery.
package config

import (
	"github.com/BurntSushi/toml"
)

// Config is the full set of tunables the file can hold. cmd/s840d applies
// only ArcTolerance and MaxJumps to the controller; AxisLetters,
// CircleLetters and Epsilon are loaded but not read by any package.
type Config struct {
	// AxisLetters names the three linear axis addresses (default X,Y,Z).
	// The controller's axis letters are fixed at X, Y, Z.
	AxisLetters [3]string `toml:"axis_letters"`
	// CircleLetters names the three arc-center-offset addresses (default I,J,K).
	// The controller's center-offset letters are fixed at I, J, K.
	CircleLetters [3]string `toml:"circle_letters"`
	// ArcTolerance is the equidistance tolerance passed to
	// internal/geom's arc constructors.
	ArcTolerance float64 `toml:"arc_tolerance"`
	// MaxJumps bounds GOTO execution per program run.
	MaxJumps int `toml:"max_jumps"`
	// Epsilon is the REAL comparison tolerance. internal/value compares
	// with its own value.Epsilon constant (also 4e-12), not this field.
	Epsilon float64 `toml:"epsilon"`
}

// Default returns the built-in S840D defaults (spec.md §6), for callers
// that skip a config file entirely.
func Default() Config {
	return Config{
		AxisLetters:   [3]string{"X", "Y", "Z"},
		CircleLetters: [3]string{"I", "J", "K"},
		ArcTolerance:  0.015,
		MaxJumps:      1000000,
		Epsilon:       4e-12,
	}
}

// Load reads path as TOML into a copy of Default(), so any key the file
// omits keeps its built-in default rather than zeroing out.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
