package predictor

import (
	"errors"
	"testing"

	"github.com/cwbudde/ddsp-synth/ddsp"
)

func TestStubDefaultPassesThroughF0(t *testing.T) {
	s := NewStub(nil)
	out, err := s.Call(ddsp.AudioFeatures{F0Hz: 440})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.F0Hz != 440 {
		t.Fatalf("F0Hz = %v, want 440", out.F0Hz)
	}
	if out.Amplitude != 0 {
		t.Fatalf("Amplitude = %v, want 0", out.Amplitude)
	}
}

func TestStubDelegatesToCallFunc(t *testing.T) {
	wantErr := errors.New("boom")
	s := NewStub(func(f ddsp.AudioFeatures) (ddsp.SynthesisControls, error) {
		return ddsp.SynthesisControls{}, wantErr
	})
	_, err := s.Call(ddsp.AudioFeatures{})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestStubResetAndClose(t *testing.T) {
	s := NewStub(nil)
	s.Reset()
	s.Reset()
	if s.ResetCount() != 2 {
		t.Fatalf("ResetCount() = %d, want 2", s.ResetCount())
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !s.Closed() {
		t.Fatalf("expected Closed() to be true")
	}
}
