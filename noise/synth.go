// Package noise implements the filtered-noise synthesizer: a
// frequency-sampling FIR filter design from per-band magnitudes, applied to
// white noise via FFT-based convolution, using github.com/cwbudde/algo-fft
// for the transforms.
package noise

import (
	"math"
	"math/rand"

	algofft "github.com/cwbudde/algo-fft"
	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
)

const twoPi = 2.0 * math.Pi

// Synthesizer renders numOutputSamples of noise per hop, shaped by a
// numBands-bin magnitude spectrum.
type Synthesizer struct {
	numBands            int
	numOutputSamples    int
	impulseResponseSize int // M = (numBands-1)*2
	convolveSize        int // K: 512, or the next power of two >= 2*M if that is larger

	windowPlan   *algofft.PlanRealT[float64, complex128]
	convolvePlan *algofft.PlanRealT[float64, complex128]

	zeroPhaseHann []float64

	rng *rand.Rand

	magnitudesSpectrum []complex128 // length numBands, padded with zeros to windowPlan's bin count
	impulseResponse    []float64    // length impulseResponseSize, scratch
	rotateScratch      []float64    // length impulseResponseSize, scratch for the causal rotation
	windowedIR         []float64    // length convolveSize, zero-padded
	whiteNoise         []float64    // length convolveSize
	irSpectrum         []complex128
	noiseSpectrum      []complex128
	convolved          []float64

	noiseAudio []float32
}

// New creates a Synthesizer for numBands magnitude bins and
// numOutputSamples output samples per hop. M = (numBands-1)*2 must be a
// power of two for the windowing FFT, and convolveSize (512, raised to the
// next power of two at least 2*M when 2*M exceeds 512) is used for the
// linear/circular convolution with white noise.
func New(numBands, numOutputSamples int) *Synthesizer {
	m := (numBands - 1) * 2
	k := 512 // fixed for the default B=65 (M=128) band count
	if k < 2*m {
		k = nextPowerOfTwo(2 * m)
	}

	windowPlan, err := algofft.NewPlanReal64(m)
	if err != nil {
		panic(err)
	}
	convolvePlan, err := algofft.NewPlanReal64(k)
	if err != nil {
		panic(err)
	}

	s := &Synthesizer{
		numBands:            numBands,
		numOutputSamples:    numOutputSamples,
		impulseResponseSize: m,
		convolveSize:        k,

		windowPlan:   windowPlan,
		convolvePlan: convolvePlan,

		rng: rand.New(rand.NewSource(rand.Int63())),

		magnitudesSpectrum: make([]complex128, m/2+1),
		impulseResponse:    make([]float64, m),
		rotateScratch:      make([]float64, m),
		windowedIR:         make([]float64, k),
		whiteNoise:         make([]float64, k),
		irSpectrum:         make([]complex128, k/2+1),
		noiseSpectrum:      make([]complex128, k/2+1),
		convolved:          make([]float64, k),

		noiseAudio: make([]float32, numOutputSamples),
	}
	s.zeroPhaseHann = zeroPhaseHannWindow(m)
	return s
}

// Reset clears the scratch buffers. The noise source itself needs no reset
// — each frame is independent white noise.
func (s *Synthesizer) Reset() {
	for i := range s.noiseAudio {
		s.noiseAudio[i] = 0
	}
	for i := range s.windowedIR {
		s.windowedIR[i] = 0
	}
	for i := range s.whiteNoise {
		s.whiteNoise[i] = 0
	}
}

// Render designs a linear-phase FIR from magnitudes (one real bin per
// band, up to numBands) and convolves it with a fresh white-noise buffer,
// returning numOutputSamples samples with the filter's group delay
// compensated. The returned slice aliases internal storage and is valid
// until the next Render or Reset call.
func (s *Synthesizer) Render(magnitudes []float32) []float32 {
	s.designImpulseResponse(magnitudes)
	s.convolve()
	return s.noiseAudio
}

// designImpulseResponse builds the zero-phase-windowed, causally-rotated,
// zero-padded FIR impulse response from the target magnitude spectrum.
func (s *Synthesizer) designImpulseResponse(magnitudes []float32) {
	for i := range s.magnitudesSpectrum {
		s.magnitudesSpectrum[i] = 0
	}
	n := len(magnitudes)
	if n > len(s.magnitudesSpectrum) {
		n = len(s.magnitudesSpectrum)
	}
	for i := 0; i < n; i++ {
		s.magnitudesSpectrum[i] = complex(float64(magnitudes[i]), 0)
	}

	s.windowPlan.Inverse(s.impulseResponse, s.magnitudesSpectrum)

	for i := range s.impulseResponse {
		s.impulseResponse[i] = dspcore.FlushDenormals(s.impulseResponse[i] * s.zeroPhaseHann[i])
	}

	for i := range s.windowedIR {
		s.windowedIR[i] = 0
	}
	s.rotateLeftInto(s.windowedIR, s.impulseResponse, s.impulseResponseSize/2)
}

// rotateLeftInto writes src rotated left by n positions into
// the front of dst (dst[len(src):] is left untouched, so callers must zero
// it first if dst is longer than src), using s.rotateScratch so the
// rotation itself allocates nothing.
func (s *Synthesizer) rotateLeftInto(dst, src []float64, n int) {
	copy(s.rotateScratch, src[n:])
	copy(s.rotateScratch[len(src)-n:], src[:n])
	copy(dst, s.rotateScratch)
}

// convolve generates a fresh white-noise buffer and filters it through the
// designed impulse response via a single frequency-domain multiply.
func (s *Synthesizer) convolve() {
	for i := range s.whiteNoise {
		s.whiteNoise[i] = s.rng.Float64()*2 - 1
	}

	s.convolvePlan.Forward(s.noiseSpectrum, s.whiteNoise)
	s.convolvePlan.Forward(s.irSpectrum, s.windowedIR)

	for i := range s.noiseSpectrum {
		s.noiseSpectrum[i] *= s.irSpectrum[i]
	}

	s.convolvePlan.Inverse(s.convolved, s.noiseSpectrum)

	s.cropAndCompensateDelay()
}

// cropAndCompensateDelay discards the linear-phase FIR's group delay,
// (M-1)/2, less one extra sample — the off-by-one is intentionally
// preserved from the reference implementation rather than corrected — and
// copies the next L samples out.
func (s *Synthesizer) cropAndCompensateDelay() {
	delay := (s.impulseResponseSize-1)/2 - 1
	for i := 0; i < s.numOutputSamples; i++ {
		srcIdx := delay + i
		if srcIdx >= 0 && srcIdx < len(s.convolved) {
			s.noiseAudio[i] = float32(s.convolved[srcIdx])
		} else {
			s.noiseAudio[i] = 0
		}
	}
}

// zeroPhaseHannWindow returns a length-m Hann window rotated by m/2 so it
// is centered at index 0 (symmetric around the wrap-around point), ready
// to apply to a time-domain impulse response before causal rotation.
func zeroPhaseHannWindow(m int) []float64 {
	w := make([]float64, m)
	for i := 0; i < m; i++ {
		w[i] = 0.5 * (1.0 - math.Cos(twoPi*float64(i)/float64(m)))
	}
	return rotateLeft(w, m/2)
}

// rotateLeft returns a new slice equal to x rotated left by n positions
// (x[n], x[n+1], ..., x[len-1], x[0], ..., x[n-1]).
func rotateLeft(x []float64, n int) []float64 {
	out := make([]float64, len(x))
	copy(out, x[n:])
	copy(out[len(x)-n:], x[:n])
	return out
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
