// Package feature turns live control input, from either the parameter UI
// or a MIDI device, into the per-hop AudioFeatures the ControlPredictor
// consumes. It keeps two independent input paths: a parameter-driven
// Source for audio plugin mode and a MIDI-driven Source for synth mode,
// each with its own pitch-normalization convention.
package feature

import "github.com/cwbudde/ddsp-synth/ddsp"

// Source produces one AudioFeatures value per render hop.
type Source interface {
	// NextHop advances internal state by one hop (20ms at the model rate)
	// and returns the features for that hop.
	NextHop() ddsp.AudioFeatures

	// Reset clears any internal envelope or state history.
	Reset()
}
