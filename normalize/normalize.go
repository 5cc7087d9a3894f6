// Package normalize implements the pure numeric conversions shared across
// the synthesis pipeline: Hz<->MIDI, dB<->normalized loudness, dB<->linear
// amplitude, and the log-range pitch mapping used by MIDI mode.
package normalize

import (
	"math"
)

const (
	semitonesPerOctave = 12.0
	midiNoteA4         = 69.0
	freqA4Hz           = 440.0

	pitchBendRange        = 16384.0
	pitchBendBase         = pitchBendRange / 2.0
	pitchRangePerSemitone = pitchBendRange / 4.0

	PitchRangeMinHz = 8.18
	PitchRangeMaxHz = 12543.84
)

// FreqToMIDI converts a frequency in Hz to a (possibly fractional) MIDI
// note number: 12*log2(f/440) + 69.
func FreqToMIDI(freqHz float32) float32 {
	return float32(semitonesPerOctave*log2(float64(freqHz)/freqA4Hz) + midiNoteA4)
}

// MIDIToFreq converts a MIDI note number to a frequency in Hz: the inverse
// of FreqToMIDI.
func MIDIToFreq(midiNote float32) float32 {
	return freqA4Hz * float32(math.Pow(2, float64(midiNote-midiNoteA4)/semitonesPerOctave))
}

// NormalizedPitch clamps freqHz to the valid pitch range and maps it to
// [0, 1] via the MIDI scale (midi note / 127).
func NormalizedPitch(freqHz float32) float32 {
	freqHz = ClampPitch(freqHz)
	return FreqToMIDI(freqHz) / 127.0
}

// OffsetPitch applies a semitone shift to a frequency.
func OffsetPitch(freqHz, semitoneOffset float32) float32 {
	return freqHz * float32(math.Pow(2, float64(semitoneOffset)/semitonesPerOctave))
}

// FreqFromNoteAndBend converts a MIDI note plus a raw 14-bit pitch bend
// value (0..16383, center 8192) into a frequency in Hz. Full pitch bend
// travel is +-2 semitones.
func FreqFromNoteAndBend(midiNote int, pitchBend int) float32 {
	noteInOctave := (float64(midiNote) - midiNoteA4) / semitonesPerOctave
	bendInOctave := (float64(pitchBend) - pitchBendBase) / pitchRangePerSemitone / semitonesPerOctave
	return float32(math.Pow(2, noteInOctave+bendInOctave) * freqA4Hz)
}

// MapFromLog10 maps freqHz logarithmically to [0, 1] across the pitch
// range. Used by MIDI mode; deliberately different from NormalizedPitch's
// MIDI-linear scale.
func MapFromLog10(freqHz float32) float32 {
	freqHz = ClampPitch(freqHz)
	logMin := math.Log10(PitchRangeMinHz)
	logMax := math.Log10(PitchRangeMaxHz)
	logVal := math.Log10(float64(freqHz))
	return float32((logVal - logMin) / (logMax - logMin))
}

// ClampPitch clamps freqHz to [PitchRangeMinHz, PitchRangeMaxHz].
func ClampPitch(freqHz float32) float32 {
	if freqHz < PitchRangeMinHz {
		return PitchRangeMinHz
	}
	if freqHz > PitchRangeMaxHz {
		return PitchRangeMaxHz
	}
	return freqHz
}

// LoudnessNorm maps a dB value (typically [-80, 0]) to [0, 1] using the
// 80 dB range DDSP's Python reference normalization uses.
func LoudnessNorm(loudnessDB float32) float32 {
	return loudnessDB/80.0 + 1.0
}

// DenormalizeLoudness inverts LoudnessNorm.
func DenormalizeLoudness(loudnessNorm float32) float32 {
	return (loudnessNorm - 1.0) * 80.0
}

// ClampLoudnessNorm clamps a normalized loudness value to [0, 1].
func ClampLoudnessNorm(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// DBToLinear converts a dB value to a linear amplitude: 10^(db/20).
func DBToLinear(db float32) float32 {
	return float32(math.Pow(10, float64(db)/20.0))
}

// LinearToDB converts a linear amplitude to dB, floored to avoid -Inf.
func LinearToDB(linear float32) float32 {
	if linear < 1e-10 {
		linear = 1e-10
	}
	return 20.0 * float32(math.Log10(float64(linear)))
}

// Lerp performs linear interpolation between a and b at t.
func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// MapValue rescales value from [inMin, inMax] to [outMin, outMax].
func MapValue(value, inMin, inMax, outMin, outMax float32) float32 {
	return outMin + (outMax-outMin)*(value-inMin)/(inMax-inMin)
}

func log2(x float64) float64 {
	return math.Log2(x)
}
