package dsp

import "testing"

func TestLowpassAttenuatesAboveCutoff(t *testing.T) {
	f := NewLowpass(100, 1000, 0.707)
	for i := 0; i < 200; i++ {
		f.Process(1.0)
	}
	settled := f.Process(1.0)
	if settled < 0.9 {
		t.Fatalf("DC response = %v, want close to 1.0", settled)
	}
}

func TestBiquadResetClearsState(t *testing.T) {
	f := NewLowpass(100, 1000, 0.707)
	for i := 0; i < 10; i++ {
		f.Process(1.0)
	}
	f.Reset()
	first := f.Process(0.0)
	if first != 0 {
		t.Fatalf("Process(0) after Reset = %v, want 0", first)
	}
}
