// Package ddsp holds the data model and fixed numeric contract shared by
// the synthesis pipeline: the neural control predictor's tensor shapes, the
// per-hop feature/control structs that flow between components, and the
// model-rate constants every other package renders against.
package ddsp

// Model timing and tensor-size constants, bit-compatible with the original
// DDSP-VST plugin this package reimplements.
const (
	ModelSampleRateHz             = 16000.0
	ModelFrameSize                = 1024
	ModelHopSize                  = 320
	ModelInferenceIntervalMs      = 20.0
	TotalInferenceLatencyMs       = 64.0
	NumHarmonics                  = 60
	NumNoiseBands                 = 65
	PredictorStateSize            = 512
	RingBufferSize                = 61440
	PitchRangeMinHz       float32 = 8.18
	PitchRangeMaxHz       float32 = 12543.84
)

// Name-addressable tensor contract for a ControlPredictor implementation.
const (
	InputTensorF0       = "call_f0_scaled:0"
	InputTensorLoudness = "call_pw_scaled:0"
	InputTensorState    = "call_state:0"

	OutputTensorAmplitude = "StatefulPartitionedCall:0"
	OutputTensorHarmonics = "StatefulPartitionedCall:1"
	OutputTensorNoiseAmps = "StatefulPartitionedCall:2"
	OutputTensorState     = "StatefulPartitionedCall:3"
)

// AudioFeatures is the per-hop input to a ControlPredictor.
type AudioFeatures struct {
	F0Hz         float32
	F0Norm       float32
	LoudnessDB   float32
	LoudnessNorm float32
}

// SynthesisControls is the per-hop output of a ControlPredictor, consumed by
// the harmonic and noise synthesizers.
type SynthesisControls struct {
	Amplitude float32
	F0Hz      float32
	Harmonics [NumHarmonics]float32
	NoiseAmps [NumNoiseBands]float32
}

// Sanitize applies the NaN kill-switch: any NaN harmonic is zeroed and, if
// one was present, amplitude is forced to zero so a faulty model frame
// cannot produce an unbounded or undefined excitation.
func (c *SynthesisControls) Sanitize() {
	sawNaN := false
	for i, h := range c.Harmonics {
		if h != h { // NaN check without importing math in the hot path
			c.Harmonics[i] = 0
			sawNaN = true
		}
	}
	if sawNaN {
		c.Amplitude = 0
	}
}

// PredictorState is the opaque recurrent state carried between predictor
// calls. It survives across calls and is cleared only by Reset.
type PredictorState [PredictorStateSize]float32

// Reset clears the state vector.
func (s *PredictorState) Reset() {
	*s = PredictorState{}
}
