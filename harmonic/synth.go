// Package harmonic implements phase-continuous additive synthesis of a
// fixed harmonic series over one inference hop, keeping a per-sample
// working-buffer discipline: fields own all scratch memory, with no
// allocation inside Render after construction.
package harmonic

import "math"

const twoPi = 2.0 * math.Pi

// Synthesizer renders H sinusoidal partials of a fundamental f0 into L
// output samples at a fixed sample rate, interpolating amplitude and
// frequency envelopes across the hop so consecutive Render calls never
// glitch at the frame boundary.
type Synthesizer struct {
	numHarmonics int
	numSamples   int
	sampleRate   float32

	harmonicSeries []float32 // [1, 2, 3, ..., H]

	previousPhase      float32
	previousF0         float32
	havePreviousF0     bool
	previousAmplitude  float32
	previousDist       []float32

	frameFrequencies  []float32
	frequencyEnvelope []float32
	phases            []float32
	harmonicAmps      [][]float32 // [H][L]
	renderBuffer      []float32
}

// New creates a Synthesizer for numHarmonics partials, numSamples samples
// per hop, at sampleRate Hz.
func New(numHarmonics, numSamples int, sampleRate float32) *Synthesizer {
	s := &Synthesizer{
		numHarmonics: numHarmonics,
		numSamples:   numSamples,
		sampleRate:   sampleRate,

		harmonicSeries:    make([]float32, numHarmonics),
		previousDist:      make([]float32, numHarmonics),
		frameFrequencies:  make([]float32, numHarmonics),
		frequencyEnvelope: make([]float32, numSamples),
		phases:            make([]float32, numSamples),
		renderBuffer:      make([]float32, numSamples),
		harmonicAmps:      make([][]float32, numHarmonics),
	}
	for h := 0; h < numHarmonics; h++ {
		s.harmonicSeries[h] = float32(h + 1)
		s.harmonicAmps[h] = make([]float32, numSamples)
	}
	return s
}

// Reset clears all phase and envelope history; the next Render behaves as
// if it were the synthesizer's first call.
func (s *Synthesizer) Reset() {
	s.previousPhase = 0
	s.havePreviousF0 = false
	s.previousF0 = 0
	s.previousAmplitude = 0
	for i := range s.previousDist {
		s.previousDist[i] = 0
	}
	for i := range s.renderBuffer {
		s.renderBuffer[i] = 0
	}
}

// Render synthesizes one hop of audio from a harmonic distribution, an
// overall amplitude, and a fundamental frequency. distribution is mutated
// in place (normalized and Nyquist-filtered); the returned slice aliases
// the synthesizer's internal render buffer and is valid until the next
// Render or Reset call.
func (s *Synthesizer) Render(distribution []float32, amplitude float32, f0Hz float32) []float32 {
	s.normalizeDistribution(distribution, amplitude, f0Hz)
	s.previousAmplitude = amplitude

	prevF0 := f0Hz
	if s.havePreviousF0 {
		prevF0 = s.previousF0
	}
	midwayLerp(prevF0, f0Hz, s.frequencyEnvelope)
	s.previousF0 = f0Hz
	s.havePreviousF0 = true

	for h := 0; h < s.numHarmonics; h++ {
		midwayLerp(s.previousDist[h], distribution[h], s.harmonicAmps[h])
	}
	copy(s.previousDist, distribution)

	return s.synthesize()
}

// normalizeDistribution zeroes harmonics at or above Nyquist, renormalizes
// the survivors to sum to 1, then scales by amplitude.
func (s *Synthesizer) normalizeDistribution(distribution []float32, amplitude float32, f0Hz float32) {
	nyquist := s.sampleRate / 2.0
	for h := 0; h < s.numHarmonics; h++ {
		s.frameFrequencies[h] = s.harmonicSeries[h] * f0Hz
		if s.frameFrequencies[h] >= nyquist {
			distribution[h] = 0
		}
	}

	var total float32
	for h := 0; h < s.numHarmonics; h++ {
		total += distribution[h]
	}
	if total != 0 {
		scale := 1.0 / total
		for h := 0; h < s.numHarmonics; h++ {
			distribution[h] *= scale
		}
	}
	for h := 0; h < s.numHarmonics; h++ {
		distribution[h] *= amplitude
	}
}

// midwayLerp fills result with a linear ramp from first to last over the
// first half, then holds at last for the second half. This suppresses
// audible pitch "swoops" across a 20 ms hop.
func midwayLerp(first, last float32, result []float32) {
	mid := len(result) / 2
	n := mid
	for i := 0; i < n; i++ {
		t := float32(i) / float32(n)
		result[i] = first + t*(last-first)
	}
	for i := mid; i < len(result); i++ {
		result[i] = last
	}
}

// synthesize converts the frequency envelope to instantaneous phase,
// continues it from the previous hop's phase, and sums sin(h*phase)
// weighted by each harmonic's amplitude envelope.
func (s *Synthesizer) synthesize() []float32 {
	rad := float32(twoPi) / s.sampleRate
	for i := range s.frequencyEnvelope {
		s.frequencyEnvelope[i] *= rad
	}

	var acc float32
	for i, v := range s.frequencyEnvelope {
		acc += v
		s.phases[i] = acc
	}
	for i := range s.phases {
		s.phases[i] += s.previousPhase
	}
	s.previousPhase = float32(math.Mod(float64(s.phases[len(s.phases)-1]), twoPi))

	for i := range s.renderBuffer {
		s.renderBuffer[i] = 0
	}
	for h := 0; h < s.numHarmonics; h++ {
		order := float32(h + 1)
		amps := s.harmonicAmps[h]
		for i := 0; i < s.numSamples; i++ {
			s.renderBuffer[i] += float32(math.Sin(float64(s.phases[i]*order))) * amps[i]
		}
	}
	return s.renderBuffer
}
