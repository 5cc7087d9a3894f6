package feature

import (
	"github.com/cwbudde/ddsp-synth/control"
	"github.com/cwbudde/ddsp-synth/ddsp"
	"github.com/cwbudde/ddsp-synth/dsp"
	"github.com/cwbudde/ddsp-synth/normalize"
)

// hopRateHz is the rate at which ParamSource is polled: once per render
// hop, i.e. 1000/ModelInferenceIntervalMs.
const hopRateHz = 1000.0 / ddsp.ModelInferenceIntervalMs

// glideCutoffHz is the corner frequency of the lowpass smoothers applied
// to live f0/loudness changes, chosen to remove zipper noise from abrupt
// UI moves without perceptibly lagging a performer's gesture.
const glideCutoffHz = 8.0

// ParamSource reads f0/loudness/pitch-shift straight from a control.Block.
// Pitch normalization here is MIDI-linear (normalize.NormalizedPitch),
// deliberately distinct from MidiSource's log10-range mapping. Both
// parameters are glided through a second-order lowpass (dsp.Biquad) running
// at the hop rate to remove zipper noise from abrupt UI moves.
type ParamSource struct {
	block *control.Block

	f0Glide       *dsp.Biquad
	loudnessGlide *dsp.Biquad
	primed        bool
}

// NewParamSource creates a Source that reads live parameters from block.
func NewParamSource(block *control.Block) *ParamSource {
	return &ParamSource{
		block:         block,
		f0Glide:       dsp.NewLowpass(glideCutoffHz, hopRateHz, 0.707),
		loudnessGlide: dsp.NewLowpass(glideCutoffHz, hopRateHz, 0.707),
	}
}

func (p *ParamSource) NextHop() ddsp.AudioFeatures {
	f0Hz := p.block.F0Hz()
	loudnessNorm := p.block.LoudnessNorm()
	pitchShift := p.block.PitchShiftSemitones()

	f0Hz = normalize.OffsetPitch(f0Hz, pitchShift)
	f0Hz = normalize.ClampPitch(f0Hz)

	if !p.primed {
		// Settle the filters on the first hop's values instead of ramping
		// up from zero.
		for i := 0; i < 64; i++ {
			p.f0Glide.Process(f0Hz)
			p.loudnessGlide.Process(loudnessNorm)
		}
		p.primed = true
	}
	f0Hz = p.f0Glide.Process(f0Hz)
	loudnessNorm = normalize.ClampLoudnessNorm(p.loudnessGlide.Process(loudnessNorm))
	f0Norm := normalize.NormalizedPitch(f0Hz)

	return ddsp.AudioFeatures{
		F0Hz:         f0Hz,
		F0Norm:       f0Norm,
		LoudnessNorm: loudnessNorm,
		LoudnessDB:   normalize.DenormalizeLoudness(loudnessNorm),
	}
}

func (p *ParamSource) Reset() {
	p.f0Glide.Reset()
	p.loudnessGlide.Reset()
	p.primed = false
}
