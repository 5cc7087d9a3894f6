// Package shell defines the narrow, C-callable-friendly surface a host
// binding (a plugin wrapper, a cgo shim, a wasm build) needs from a
// pipeline.Pipeline. It deliberately carries no audio-thread scheduling
// or FFI of its own — it is the seam an external binding or a cmd/ tool
// binds against.
package shell

import (
	"github.com/cwbudde/ddsp-synth/feature"
	"github.com/cwbudde/ddsp-synth/pipeline"
	"github.com/cwbudde/ddsp-synth/predictor"
	"github.com/cwbudde/ddsp-synth/preset"
)

// Engine wraps a pipeline.Pipeline with the handful of calls a binding
// layer needs, all of them safe to call from the binding's own thread
// once Prepare/LoadModel have completed.
type Engine struct {
	p *pipeline.Pipeline
}

// NewEngine creates an unprepared Engine.
func NewEngine() *Engine {
	return &Engine{p: pipeline.New()}
}

// Prepare configures the underlying pipeline for hostSampleRate using
// source as the feature supplier (a feature.ParamSource for plugin mode,
// a feature.MidiSource for synth mode).
func (e *Engine) Prepare(hostSampleRate float64, source feature.Source) error {
	return e.p.Prepare(hostSampleRate, source)
}

// LoadModel installs the ControlPredictor backend.
func (e *Engine) LoadModel(model predictor.ControlPredictor) {
	e.p.LoadModel(model)
}

// Start begins background rendering.
func (e *Engine) Start() { e.p.Start() }

// Stop halts background rendering.
func (e *Engine) Stop() { e.p.Stop() }

// Pop drains rendered audio into out, returning the sample count written.
func (e *Engine) Pop(out []float32) int { return e.p.Pop(out) }

// NumReadySamples reports how many rendered samples are waiting.
func (e *Engine) NumReadySamples() int { return e.p.NumReadySamples() }

// TriggerRender runs one render hop synchronously.
func (e *Engine) TriggerRender() { e.p.TriggerRender() }

// SetF0Hz sets the live f0 control (plugin mode).
func (e *Engine) SetF0Hz(hz float32) { e.p.SetF0Hz(hz) }

// SetLoudnessNorm sets the live normalized loudness control (plugin mode).
func (e *Engine) SetLoudnessNorm(v float32) { e.p.SetLoudnessNorm(v) }

// SetLoudnessDb sets the live loudness control in dB (plugin mode).
func (e *Engine) SetLoudnessDb(db float32) { e.p.SetLoudnessDb(db) }

// SetPitchShift sets the pitch-shift offset in semitones.
func (e *Engine) SetPitchShift(semitones float32) { e.p.SetPitchShift(semitones) }

// SetHarmonicGain sets the harmonic output gain.
func (e *Engine) SetHarmonicGain(gain float32) { e.p.SetHarmonicGain(gain) }

// SetNoiseGain sets the noise output gain.
func (e *Engine) SetNoiseGain(gain float32) { e.p.SetNoiseGain(gain) }

// CurrentPitch reports the last-published normalized pitch, for UI
// feedback.
func (e *Engine) CurrentPitch() float32 { return e.p.CurrentPitch() }

// CurrentRMS reports the last-published normalized loudness, for UI
// feedback.
func (e *Engine) CurrentRMS() float32 { return e.p.CurrentRMS() }

// LoadPreset loads a preset.File JSON document from path and applies its
// f0/loudness/pitch-shift/gain fields to the underlying control block. It
// returns the full preset.Params, including the ADSR fields, so a caller
// driving the pipeline with a feature.MidiSource can forward those to the
// source's own SetADSR — Engine has no reference to the concrete Source
// and so cannot apply them itself.
func (e *Engine) LoadPreset(path string) (*preset.Params, error) {
	params, err := preset.LoadJSON(path)
	if err != nil {
		return nil, err
	}
	e.p.SetF0Hz(params.F0Hz)
	e.p.SetLoudnessNorm(params.LoudnessNorm)
	e.p.SetPitchShift(params.PitchShiftSemitones)
	e.p.SetHarmonicGain(params.HarmonicGain)
	e.p.SetNoiseGain(params.NoiseGain)
	return params, nil
}

// Reset clears all synthesis state.
func (e *Engine) Reset() { e.p.Reset() }
