// Package predictor defines the ControlPredictor contract: the neural
// network that turns per-hop AudioFeatures into SynthesisControls is an
// external collaborator, out of scope for this repo. This package only
// fixes the interface and its name-addressable tensor contract so a real
// backend — ONNX Runtime, TFLite via cgo, a pure-Go inference runtime —
// can implement it, and ships a Stub test double for exercising the rest
// of the pipeline without one.
package predictor

import (
	"errors"
	"fmt"

	"github.com/cwbudde/ddsp-synth/ddsp"
)

// Kinds of errors a ControlPredictor may surface.
var (
	ErrModelLoad           = errors.New("predictor: model load failed")
	ErrModelInference      = errors.New("predictor: inference failed")
	ErrModelTensorContract = errors.New("predictor: missing or mis-shaped tensor")
)

// ControlPredictor runs one recurrent inference step per hop. Implementations
// own their model handles and must release them in Close. State carried
// between calls is entirely internal to the implementation — callers never
// see or manage it directly.
type ControlPredictor interface {
	// Call runs one inference step and returns the synthesis controls for
	// this hop. On error, the caller must treat the hop as producing no
	// output (the pipeline logs and drops the hop).
	Call(features ddsp.AudioFeatures) (ddsp.SynthesisControls, error)

	// Reset clears the predictor's recurrent state to zero.
	Reset()

	// Close releases any model handles owned by the predictor.
	Close() error
}

// TensorContractError reports a predictor implementation that could not
// locate a required named tensor in its loaded model.
type TensorContractError struct {
	TensorName string
}

func (e *TensorContractError) Error() string {
	return fmt.Sprintf("%v: %q", ErrModelTensorContract, e.TensorName)
}

func (e *TensorContractError) Unwrap() error {
	return ErrModelTensorContract
}
