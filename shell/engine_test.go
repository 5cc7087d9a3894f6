package shell

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/ddsp-synth/control"
	"github.com/cwbudde/ddsp-synth/ddsp"
	"github.com/cwbudde/ddsp-synth/feature"
	"github.com/cwbudde/ddsp-synth/predictor"
)

func TestEngineRendersThroughParamSource(t *testing.T) {
	e := NewEngine()
	block := control.New()
	src := feature.NewParamSource(block)

	if err := e.Prepare(ddsp.ModelSampleRateHz, src); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	e.LoadModel(predictor.NewStub(func(f ddsp.AudioFeatures) (ddsp.SynthesisControls, error) {
		var c ddsp.SynthesisControls
		c.Amplitude = 1.0
		c.F0Hz = f.F0Hz
		c.Harmonics[0] = 1.0
		return c, nil
	}))

	e.SetF0Hz(220)
	e.TriggerRender()

	out := make([]float32, ddsp.ModelHopSize)
	n := e.Pop(out)
	if n != ddsp.ModelHopSize {
		t.Fatalf("Pop() = %d, want %d", n, ddsp.ModelHopSize)
	}
}

func TestEngineLoadPresetAppliesControlsAndReturnsADSR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lead.json")
	body := `{"f0_hz": 220.0, "loudness_norm": 0.8, "harmonic_gain": 0.5, "attack_sec": 0.02}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	e := NewEngine()
	block := control.New()
	src := feature.NewParamSource(block)
	if err := e.Prepare(ddsp.ModelSampleRateHz, src); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	e.LoadModel(predictor.NewStub(nil))

	params, err := e.LoadPreset(path)
	if err != nil {
		t.Fatalf("LoadPreset() error = %v", err)
	}
	if params.AttackSec != 0.02 {
		t.Fatalf("params.AttackSec = %v, want 0.02 (for the caller to forward to a MidiSource)", params.AttackSec)
	}

	e.TriggerRender()
	// CurrentRMS is published from what the ParamSource reads off its own
	// block (still at control.New's 0.5 default), not the preset's
	// loudness_norm: LoadPreset only reaches the pipeline's own block.
	// The glide filter settles within float32 rounding of the input, so
	// compare with a tight tolerance rather than exact equality.
	if rms := e.CurrentRMS(); rms < 0.5-1e-6 || rms > 0.5+1e-6 {
		t.Fatalf("CurrentRMS() = %v, want 0.5 (ParamSource reads its own block, untouched by LoadPreset)", rms)
	}
}

func TestEngineLoadPresetMissingFileReturnsError(t *testing.T) {
	e := NewEngine()
	if _, err := e.LoadPreset(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("LoadPreset() error = nil, want an error for a missing file")
	}
}

func TestEngineResetClearsState(t *testing.T) {
	e := NewEngine()
	block := control.New()
	src := feature.NewParamSource(block)
	if err := e.Prepare(ddsp.ModelSampleRateHz, src); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	e.LoadModel(predictor.NewStub(nil))
	e.Reset()
	// Reset empties the output ring and re-fills it with the silent
	// latency cushion (ModelFrameSize samples at the 16kHz model rate).
	if e.NumReadySamples() != ddsp.ModelFrameSize {
		t.Fatalf("NumReadySamples() = %d, want %d (latency cushion only)", e.NumReadySamples(), ddsp.ModelFrameSize)
	}
}
