// Package pipeline orchestrates the full render path: a feature.Source
// feeds a predictor.ControlPredictor, whose SynthesisControls drive a
// harmonic.Synthesizer and a noise.Synthesizer in parallel; their sum is
// resampled from the fixed 16kHz model rate to the host sample rate and
// handed to a ring.Buffer for the audio thread to drain. A background
// goroutine runs the render loop off the audio thread.
package pipeline

import (
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	dspresample "github.com/cwbudde/algo-dsp/dsp/resample"

	"github.com/cwbudde/ddsp-synth/control"
	"github.com/cwbudde/ddsp-synth/ddsp"
	"github.com/cwbudde/ddsp-synth/feature"
	"github.com/cwbudde/ddsp-synth/harmonic"
	"github.com/cwbudde/ddsp-synth/noise"
	"github.com/cwbudde/ddsp-synth/normalize"
	"github.com/cwbudde/ddsp-synth/predictor"
	"github.com/cwbudde/ddsp-synth/ring"
)

const renderIntervalMs = ddsp.ModelInferenceIntervalMs

// Pipeline is the top-level synthesis engine. It is safe for one goroutine
// to call the control setters and a second to call Pop, matching the
// audio-thread/background-thread split of the original plugin.
type Pipeline struct {
	hostSampleRate float64

	control *control.Block
	source  feature.Source
	model   predictor.ControlPredictor

	harmonicSynth *harmonic.Synthesizer
	noiseSynth    *noise.Synthesizer

	resampler       *dspresample.Resampler
	hopScratch      []float32
	hopScratch64    []float64
	hopScratchOut32 []float32

	output        *ring.Buffer
	userFrameSize int

	logger *log.Logger

	running atomic.Bool
	stop    chan struct{}
	wg      sync.WaitGroup

	mu    sync.Mutex
	ready bool
}

// New creates a Pipeline with a fresh control block and output ring.
func New() *Pipeline {
	return &Pipeline{
		control: control.New(),
		output:  ring.New(ddsp.RingBufferSize),
		stop:    make(chan struct{}),
		logger:  log.Default(),
	}
}

// SetLogger installs the logger used for non-fatal runtime diagnostics
// (inference failures, ring overflow). Passing nil restores log.Default().
func (p *Pipeline) SetLogger(logger *log.Logger) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if logger == nil {
		logger = log.Default()
	}
	p.logger = logger
}

// Control returns the pipeline's atomic control block, for wiring to a
// ParamSource or a host UI.
func (p *Pipeline) Control() *control.Block { return p.control }

// Prepare configures the pipeline for a host sample rate, builds the
// harmonic and noise synthesizers, and installs the resampler from the
// fixed 16kHz model rate to hostSampleRate.
func (p *Pipeline) Prepare(hostSampleRate float64, source feature.Source) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.hostSampleRate = hostSampleRate
	p.source = source

	p.harmonicSynth = harmonic.New(ddsp.NumHarmonics, ddsp.ModelHopSize, ddsp.ModelSampleRateHz)
	p.noiseSynth = noise.New(ddsp.NumNoiseBands, ddsp.ModelHopSize)

	if hostSampleRate != ddsp.ModelSampleRateHz {
		r, err := dspresample.NewForRates(ddsp.ModelSampleRateHz, hostSampleRate,
			dspresample.WithQuality(dspresample.QualityBest))
		if err != nil {
			return fmt.Errorf("pipeline: prepare resampler: %w", err)
		}
		p.resampler = r
	} else {
		p.resampler = nil
	}

	p.hopScratch = make([]float32, ddsp.ModelHopSize)
	p.hopScratch64 = make([]float64, ddsp.ModelHopSize)
	// Preallocate the resampled-output scratch buffer to the expected
	// host-rate hop size, with a few samples of headroom for the
	// resampler's fractional-phase rounding jitter between calls. Render
	// (TriggerRender, called once per hop on the worker) must not allocate,
	// so this is sized once here, not per hop.
	p.hopScratchOut32 = make([]float32, 0, userHopSize(hostSampleRate)+4)
	p.userFrameSize = userFrameSize(hostSampleRate)
	p.output.Reset()
	p.fillLatencyCushion()
	p.ready = true
	return nil
}

// userFrameSize computes the host-rate equivalent of the model's 1024-
// sample frame: ceil(hostSampleRate * ModelFrameSize / ModelSampleRateHz).
func userFrameSize(hostSampleRate float64) int {
	return int(math.Ceil(hostSampleRate * ddsp.ModelFrameSize / ddsp.ModelSampleRateHz))
}

// userHopSize computes the host-rate equivalent of the model's 320-sample
// hop: floor(hostSampleRate * ModelHopSize / ModelSampleRateHz).
func userHopSize(hostSampleRate float64) int {
	return int(hostSampleRate * ddsp.ModelHopSize / ddsp.ModelSampleRateHz)
}

// fillLatencyCushion zero-pads the output ring with userFrameSize samples
// of silence, the 64ms-equivalent latency cushion that absorbs inference
// jitter before the first real hop lands.
func (p *Pipeline) fillLatencyCushion() {
	silence := make([]float32, p.userFrameSize)
	p.output.Write(silence)
}

// LoadModel installs the ControlPredictor used for subsequent hops.
func (p *Pipeline) LoadModel(model predictor.ControlPredictor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.model = model
}

// IsReady reports whether Prepare and LoadModel have both completed.
func (p *Pipeline) IsReady() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready && p.model != nil
}

// Start launches the background render loop, ticking once per
// ModelInferenceIntervalMs.
func (p *Pipeline) Start() {
	if !p.running.CompareAndSwap(false, true) {
		return
	}
	p.stop = make(chan struct{})
	p.wg.Add(1)
	go p.renderLoop()
}

// Stop halts the background render loop and waits for it to exit.
func (p *Pipeline) Stop() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.stop)
	p.wg.Wait()
}

func (p *Pipeline) renderLoop() {
	defer p.wg.Done()
	interval := time.Duration(renderIntervalMs * float64(time.Millisecond))
	for {
		select {
		case <-p.stop:
			return
		default:
		}
		start := time.Now()
		p.TriggerRender()
		elapsed := time.Since(start)
		if sleep := interval - elapsed; sleep > 0 {
			select {
			case <-time.After(sleep):
			case <-p.stop:
				return
			}
		}
	}
}

// TriggerRender runs a single hop synchronously: pull features, run
// inference, synthesize, resample, and push to the output ring. Exposed
// so tests and offline render tools can drive the pipeline without the
// background goroutine.
func (p *Pipeline) TriggerRender() {
	p.mu.Lock()
	source, model := p.source, p.model
	harmonicSynth, noiseSynth := p.harmonicSynth, p.noiseSynth
	resampler := p.resampler
	p.mu.Unlock()

	if source == nil || model == nil || harmonicSynth == nil || noiseSynth == nil {
		return
	}

	features := source.NextHop()
	p.control.SetCurrentPitch(features.F0Norm)
	p.control.SetCurrentRMS(features.LoudnessNorm)

	controls, err := model.Call(features)
	if err != nil {
		p.logf("pipeline: inference failed: %v", err)
		return
	}
	controls.Sanitize()

	harmonicOut := harmonicSynth.Render(controls.Harmonics[:], controls.Amplitude, controls.F0Hz)
	noiseOut := noiseSynth.Render(controls.NoiseAmps[:])

	harmonicGain := p.control.HarmonicGain()
	noiseGain := p.control.NoiseGain()

	mix := p.hopScratch
	for i := range mix {
		mix[i] = harmonicOut[i]*harmonicGain + noiseOut[i]*noiseGain
	}

	if resampler == nil {
		p.writeOutput(mix)
		return
	}

	for i, v := range mix {
		p.hopScratch64[i] = float64(v)
	}
	out64 := resampler.Process(p.hopScratch64)
	if cap(p.hopScratchOut32) < len(out64) {
		p.hopScratchOut32 = make([]float32, len(out64))
	} else {
		p.hopScratchOut32 = p.hopScratchOut32[:len(out64)]
	}
	for i, v := range out64 {
		p.hopScratchOut32[i] = float32(v)
	}
	p.writeOutput(p.hopScratchOut32)
}

// writeOutput pushes samples to the output ring and logs a diagnostic if
// the ring overflowed and had to truncate the batch.
func (p *Pipeline) writeOutput(samples []float32) {
	written := p.output.Write(samples)
	if written < len(samples) {
		p.logf("pipeline: ring overflow, dropped %d samples", len(samples)-written)
	}
}

// logf writes a diagnostic through the installed logger.
func (p *Pipeline) logf(format string, args ...any) {
	p.mu.Lock()
	logger := p.logger
	p.mu.Unlock()
	if logger != nil {
		logger.Printf(format, args...)
	}
}

// Pop drains up to len(out) samples of rendered audio into out, returning
// the number of samples written; the caller must silence any remainder.
func (p *Pipeline) Pop(out []float32) int {
	return p.output.Read(out)
}

// NumReadySamples reports how many samples are waiting in the output ring.
func (p *Pipeline) NumReadySamples() int {
	return p.output.NumReady()
}

// SetF0Hz forwards to the control block.
func (p *Pipeline) SetF0Hz(hz float32) { p.control.SetF0Hz(hz) }

// SetLoudnessNorm forwards to the control block.
func (p *Pipeline) SetLoudnessNorm(v float32) { p.control.SetLoudnessNorm(v) }

// SetLoudnessDb converts from dB and forwards to the control block.
func (p *Pipeline) SetLoudnessDb(db float32) {
	p.control.SetLoudnessNorm(normalize.ClampLoudnessNorm(normalize.LoudnessNorm(db)))
}

// SetPitchShift forwards to the control block.
func (p *Pipeline) SetPitchShift(semitones float32) { p.control.SetPitchShiftSemitones(semitones) }

// SetHarmonicGain forwards to the control block.
func (p *Pipeline) SetHarmonicGain(gain float32) { p.control.SetHarmonicGain(gain) }

// SetNoiseGain forwards to the control block.
func (p *Pipeline) SetNoiseGain(gain float32) { p.control.SetNoiseGain(gain) }

// CurrentPitch reports the last-published normalized pitch for UI feedback.
func (p *Pipeline) CurrentPitch() float32 { return p.control.CurrentPitch() }

// CurrentRMS reports the last-published normalized loudness for UI feedback.
func (p *Pipeline) CurrentRMS() float32 { return p.control.CurrentRMS() }

// Reset clears synthesis state: phase history, noise scratch buffers,
// the feature source, and the predictor's recurrent state. It empties the
// output ring and then re-fills it with the userFrameSize-sample silent
// latency cushion, as Prepare does.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.harmonicSynth != nil {
		p.harmonicSynth.Reset()
	}
	if p.noiseSynth != nil {
		p.noiseSynth.Reset()
	}
	if p.source != nil {
		p.source.Reset()
	}
	if p.model != nil {
		p.model.Reset()
	}
	p.output.Reset()
	p.fillLatencyCushion()
}
