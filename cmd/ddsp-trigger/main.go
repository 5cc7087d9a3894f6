// Command ddsp-trigger is a synchronous test bench for the render path:
// it fires a MIDI note through pipeline.Pipeline for a fixed number of
// hops, calling TriggerRender/NumReadySamples directly instead of the
// background render loop, and reports per-hop timing.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cwbudde/ddsp-synth/ddsp"
	"github.com/cwbudde/ddsp-synth/feature"
	"github.com/cwbudde/ddsp-synth/pipeline"
	"github.com/cwbudde/ddsp-synth/predictor"
)

type hopResult struct {
	Hop            int     `json:"hop"`
	ElapsedUs      int64   `json:"elapsed_us"`
	ReadySample    int     `json:"ready_samples"`
	NormalizedF0   float32 `json:"normalized_f0"`
	NormalizedRMS  float32 `json:"normalized_rms"`
}

func main() {
	note := flag.Int("note", 69, "MIDI note number (69 = A4)")
	velocity := flag.Float64("velocity", 1.0, "MIDI velocity [0,1]")
	hops := flag.Int("hops", 50, "Number of synchronous hops to trigger")
	attack := flag.Float64("attack", 0.01, "ADSR attack time in seconds")
	decay := flag.Float64("decay", 0.1, "ADSR decay time in seconds")
	sustain := flag.Float64("sustain", 0.7, "ADSR sustain level [0,1]")
	release := flag.Float64("release", 0.2, "ADSR release time in seconds")
	releaseAfterHop := flag.Int("release-after-hop", -1, "Hop index to send note-off at, -1 to never release")
	jsonOut := flag.Bool("json", false, "Print per-hop results as JSON")
	flag.Parse()

	midi := feature.NewMidiSource(ddsp.ModelSampleRateHz, ddsp.ModelHopSize)
	midi.SetADSR(float32(*attack), float32(*decay), float32(*sustain), float32(*release))
	midi.NoteOn(*note, float32(*velocity))

	p := pipeline.New()
	if err := p.Prepare(ddsp.ModelSampleRateHz, midi); err != nil {
		fmt.Fprintf(os.Stderr, "Error preparing pipeline: %v\n", err)
		os.Exit(1)
	}
	p.LoadModel(predictor.NewStub(func(f ddsp.AudioFeatures) (ddsp.SynthesisControls, error) {
		var controls ddsp.SynthesisControls
		controls.F0Hz = f.F0Hz
		controls.Amplitude = f.LoudnessNorm
		controls.Harmonics[0] = 1.0
		return controls, nil
	}))

	results := make([]hopResult, 0, *hops)
	for i := 0; i < *hops; i++ {
		if *releaseAfterHop >= 0 && i == *releaseAfterHop {
			midi.NoteOff()
		}
		start := time.Now()
		p.TriggerRender()
		elapsed := time.Since(start)
		results = append(results, hopResult{
			Hop:           i,
			ElapsedUs:     elapsed.Microseconds(),
			ReadySample:   p.NumReadySamples(),
			NormalizedF0:  p.CurrentPitch(),
			NormalizedRMS: p.CurrentRMS(),
		})
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
			os.Exit(1)
		}
		return
	}

	for _, r := range results {
		fmt.Printf("hop %3d: %6dus elapsed, %6d samples ready, pitch=%.4f rms=%.4f\n",
			r.Hop, r.ElapsedUs, r.ReadySample, r.NormalizedF0, r.NormalizedRMS)
	}
}
