// Command ddsp-render offline-renders a fixed-pitch tone through the DDSP
// pipeline to a WAV file. No bundled ControlPredictor backend ships in
// this repo (see predictor.ControlPredictor): by default this tool drives
// the pipeline with a deterministic predictor.Stub that puts energy in the
// first three harmonics and none in the noise bands, useful for exercising the render path and
// the resampler end to end. Pass -model to get a short explanation of
// what a real backend would need to provide instead. Pass -preset to load
// the control defaults from a preset.File JSON document instead of the
// -f0/-loudness/-pitch-shift flags; this repo ships no bundled preset
// asset, so the flag has no default path.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"

	"github.com/cwbudde/ddsp-synth/control"
	"github.com/cwbudde/ddsp-synth/ddsp"
	"github.com/cwbudde/ddsp-synth/feature"
	"github.com/cwbudde/ddsp-synth/pipeline"
	"github.com/cwbudde/ddsp-synth/predictor"
	"github.com/cwbudde/ddsp-synth/preset"
)

func main() {
	f0 := flag.Float64("f0", 440.0, "Fundamental frequency in Hz (ignored if -preset is set)")
	loudness := flag.Float64("loudness", 0.7, "Normalized loudness [0,1] (ignored if -preset is set)")
	pitchShift := flag.Float64("pitch-shift", 0.0, "Pitch shift in semitones (ignored if -preset is set)")
	duration := flag.Float64("duration", 2.0, "Duration in seconds")
	sampleRate := flag.Int("sample-rate", 48000, "Render sample rate in Hz")
	modelPath := flag.String("model", "", "Path to a ControlPredictor model (unsupported in this build)")
	presetPath := flag.String("preset", "", "Path to a JSON preset file to load the control defaults from")
	output := flag.String("output", "output.wav", "Output WAV file path")
	flag.Parse()

	if *modelPath != "" {
		fmt.Fprintf(os.Stderr,
			"ddsp-render: -model %q requested, but this repo ships no bundled\n"+
				"ControlPredictor backend. Implement predictor.ControlPredictor\n"+
				"(e.g. over ONNX Runtime or a TFLite cgo binding) and wire it in\n"+
				"place of predictor.Stub below.\n", *modelPath)
		os.Exit(1)
	}

	block := control.New()
	if *presetPath != "" {
		params, err := preset.LoadJSON(*presetPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading preset %q: %v\n", *presetPath, err)
			os.Exit(1)
		}
		block.SetF0Hz(params.F0Hz)
		block.SetLoudnessNorm(params.LoudnessNorm)
		block.SetPitchShiftSemitones(params.PitchShiftSemitones)
		block.SetHarmonicGain(params.HarmonicGain)
		block.SetNoiseGain(params.NoiseGain)
	} else {
		block.SetF0Hz(float32(*f0))
		block.SetLoudnessNorm(float32(*loudness))
		block.SetPitchShiftSemitones(float32(*pitchShift))
	}

	p := pipeline.New()
	source := feature.NewParamSource(block)
	if err := p.Prepare(float64(*sampleRate), source); err != nil {
		fmt.Fprintf(os.Stderr, "Error preparing pipeline: %v\n", err)
		os.Exit(1)
	}
	p.LoadModel(predictor.NewStub(demoPredict))

	fmt.Printf("Rendering f0=%.2fHz loudness=%.2f for %.2fs at %dHz...\n",
		block.F0Hz(), block.LoudnessNorm(), *duration, *sampleRate)

	hostHopSamples := int(float64(*sampleRate) * ddsp.ModelInferenceIntervalMs / 1000.0)
	if hostHopSamples < 1 {
		hostHopSamples = 1
	}
	totalFrames := int(float64(*sampleRate) * (*duration))
	if totalFrames < 1 {
		totalFrames = 1
	}

	samples := make([]float32, 0, totalFrames)
	hop := make([]float32, hostHopSamples)
	for len(samples) < totalFrames {
		p.TriggerRender()
		n := p.Pop(hop)
		samples = append(samples, hop[:n]...)
		if n == 0 {
			break
		}
	}
	if len(samples) > totalFrames {
		samples = samples[:totalFrames]
	}

	file, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	encoder := wav.NewEncoder(file, *sampleRate, 16, 1, 1)
	defer encoder.Close()

	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  *sampleRate,
			NumChannels: 1,
		},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := encoder.Write(buf); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing WAV file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully wrote %s (%d frames)\n", *output, len(samples))
}

// demoPredict is a stand-in ControlPredictor callback: a steady amplitude
// with energy in the first few harmonics and no noise, just enough to
// exercise the full render and resample path without a real model.
func demoPredict(features ddsp.AudioFeatures) (ddsp.SynthesisControls, error) {
	var controls ddsp.SynthesisControls
	controls.F0Hz = features.F0Hz
	controls.Amplitude = features.LoudnessNorm
	controls.Harmonics[0] = 1.0
	controls.Harmonics[1] = 0.5
	controls.Harmonics[2] = 0.25
	return controls, nil
}
