// Package preset loads named JSON configuration files for the DDSP
// pipeline's default control values: ADSR envelope timings, harmonic and
// noise output gains, and a default pitch-shift offset. Optional-pointer
// fields plus a validating ApplyFile keep the schema permissive — a
// preset only needs to override what it cares about.
package preset

import (
	"encoding/json"
	"fmt"
	"os"
)

// Params holds the default control values a shell.Engine or cmd/ tool
// applies at startup, before any live control input arrives.
type Params struct {
	F0Hz                float32
	LoudnessNorm        float32
	PitchShiftSemitones float32
	HarmonicGain        float32
	NoiseGain           float32

	AttackSec    float32
	DecaySec     float32
	SustainLevel float32
	ReleaseSec   float32
}

// NewDefaultParams returns the built-in defaults: A4 at half loudness, no
// pitch shift, unity gains, and the MidiInputProcessor default envelope.
func NewDefaultParams() *Params {
	return &Params{
		F0Hz:                440.0,
		LoudnessNorm:        0.5,
		PitchShiftSemitones: 0.0,
		HarmonicGain:        1.0,
		NoiseGain:           1.0,

		AttackSec:    0.01,
		DecaySec:     0.1,
		SustainLevel: 0.7,
		ReleaseSec:   0.2,
	}
}

// File is the JSON schema for DDSP presets. Every field is optional; a
// preset only needs to name the values it wants to override.
type File struct {
	F0Hz                *float32 `json:"f0_hz"`
	LoudnessNorm        *float32 `json:"loudness_norm"`
	PitchShiftSemitones *float32 `json:"pitch_shift_semitones"`
	HarmonicGain        *float32 `json:"harmonic_gain"`
	NoiseGain           *float32 `json:"noise_gain"`

	AttackSec    *float32 `json:"attack_sec"`
	DecaySec     *float32 `json:"decay_sec"`
	SustainLevel *float32 `json:"sustain_level"`
	ReleaseSec   *float32 `json:"release_sec"`
}

// LoadJSON loads a preset JSON file and applies it on top of default
// params.
func LoadJSON(path string) (*Params, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preset: read %q: %w", path, err)
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("preset: parse %q: %w", path, err)
	}

	p := NewDefaultParams()
	if err := ApplyFile(p, &f); err != nil {
		return nil, fmt.Errorf("preset: apply %q: %w", path, err)
	}
	return p, nil
}

// ApplyFile applies a parsed preset file onto an existing Params object,
// validating each field's range before mutating dst.
func ApplyFile(dst *Params, f *File) error {
	if dst == nil {
		return fmt.Errorf("preset: nil destination params")
	}
	if f == nil {
		return nil
	}

	if f.F0Hz != nil {
		if *f.F0Hz <= 0 {
			return fmt.Errorf("preset: f0_hz must be > 0")
		}
		dst.F0Hz = *f.F0Hz
	}
	if f.LoudnessNorm != nil {
		if *f.LoudnessNorm < 0 || *f.LoudnessNorm > 1 {
			return fmt.Errorf("preset: loudness_norm must be in [0,1]")
		}
		dst.LoudnessNorm = *f.LoudnessNorm
	}
	if f.PitchShiftSemitones != nil {
		dst.PitchShiftSemitones = *f.PitchShiftSemitones
	}
	if f.HarmonicGain != nil {
		if *f.HarmonicGain < 0 || *f.HarmonicGain > 10 {
			return fmt.Errorf("preset: harmonic_gain must be in [0,10]")
		}
		dst.HarmonicGain = *f.HarmonicGain
	}
	if f.NoiseGain != nil {
		if *f.NoiseGain < 0 || *f.NoiseGain > 10 {
			return fmt.Errorf("preset: noise_gain must be in [0,10]")
		}
		dst.NoiseGain = *f.NoiseGain
	}
	if f.AttackSec != nil {
		if *f.AttackSec < 0 {
			return fmt.Errorf("preset: attack_sec must be >= 0")
		}
		dst.AttackSec = *f.AttackSec
	}
	if f.DecaySec != nil {
		if *f.DecaySec < 0 {
			return fmt.Errorf("preset: decay_sec must be >= 0")
		}
		dst.DecaySec = *f.DecaySec
	}
	if f.SustainLevel != nil {
		if *f.SustainLevel < 0 || *f.SustainLevel > 1 {
			return fmt.Errorf("preset: sustain_level must be in [0,1]")
		}
		dst.SustainLevel = *f.SustainLevel
	}
	if f.ReleaseSec != nil {
		if *f.ReleaseSec < 0 {
			return fmt.Errorf("preset: release_sec must be >= 0")
		}
		dst.ReleaseSec = *f.ReleaseSec
	}
	return nil
}
