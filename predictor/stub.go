package predictor

import "github.com/cwbudde/ddsp-synth/ddsp"

// Stub is a ControlPredictor test double that hands each Call to a
// caller-supplied function instead of running a real model. It exists so
// pipeline and shell tests can exercise the full render path without a
// neural backend, using a minimal inline fake rather than a mocking
// framework.
type Stub struct {
	// CallFunc is invoked for every Call. If nil, Call returns zeroed
	// controls carrying the requested f0 through unchanged.
	CallFunc func(ddsp.AudioFeatures) (ddsp.SynthesisControls, error)

	resetCount int
	closed     bool
}

// NewStub creates a Stub that delegates to callFunc.
func NewStub(callFunc func(ddsp.AudioFeatures) (ddsp.SynthesisControls, error)) *Stub {
	return &Stub{CallFunc: callFunc}
}

func (s *Stub) Call(features ddsp.AudioFeatures) (ddsp.SynthesisControls, error) {
	if s.CallFunc != nil {
		return s.CallFunc(features)
	}
	return ddsp.SynthesisControls{F0Hz: features.F0Hz}, nil
}

func (s *Stub) Reset() {
	s.resetCount++
}

func (s *Stub) Close() error {
	s.closed = true
	return nil
}

// ResetCount reports how many times Reset has been called, for test
// assertions.
func (s *Stub) ResetCount() int { return s.resetCount }

// Closed reports whether Close has been called.
func (s *Stub) Closed() bool { return s.closed }
