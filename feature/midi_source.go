package feature

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/ddsp-synth/ddsp"
	"github.com/cwbudde/ddsp-synth/normalize"
)

// MidiSource turns live MIDI note/velocity/pitch-bend state into
// AudioFeatures for synth mode, the Go analog of MidiInputProcessor.
// NoteOn/NoteOff/SetPitchBend are called from the MIDI-handling thread;
// NextHop runs on the render worker and is the only method that advances
// the ADSR envelope.
type MidiSource struct {
	hopSize int

	currentNote     atomic.Int32
	currentBend     atomic.Int32
	currentVelocity atomic.Uint32

	adsr *ADSR
}

// NewMidiSource creates a MidiSource at the given model sample rate and
// hop size, defaulting to A4 with no bend and the envelope silent.
func NewMidiSource(sampleRate float32, hopSize int) *MidiSource {
	m := &MidiSource{hopSize: hopSize, adsr: NewADSR(sampleRate)}
	m.currentNote.Store(69)
	m.currentBend.Store(8192)
	return m
}

// SetADSR configures the envelope's attack/decay/sustain/release.
func (m *MidiSource) SetADSR(attackSec, decaySec, sustainLevel, releaseSec float32) {
	m.adsr.SetParameters(attackSec, decaySec, sustainLevel, releaseSec)
}

// NoteOn latches a new note and velocity and triggers the envelope.
func (m *MidiSource) NoteOn(midiNote int, velocity float32) {
	m.currentNote.Store(int32(midiNote))
	m.currentVelocity.Store(math.Float32bits(velocity))
	m.adsr.NoteOn()
}

// NoteOff releases the envelope; the note/bend state is left untouched so
// a re-trigger without an explicit pitch change keeps the last pitch.
func (m *MidiSource) NoteOff() {
	m.adsr.NoteOff()
}

// SetPitchBend stores a raw 14-bit pitch bend value (0..16383, center
// 8192).
func (m *MidiSource) SetPitchBend(pitchBend int) {
	m.currentBend.Store(int32(pitchBend))
}

// MIDI channel-voice status nibbles (channel bits masked off).
const (
	midiStatusNoteOff   = 0x80
	midiStatusNoteOn    = 0x90
	midiStatusPitchBend = 0xE0
	midiStatusMask      = 0xF0
)

// ProcessMIDIMessage decodes a raw three-byte MIDI channel message
// (status, data1, data2) and dispatches to NoteOn, NoteOff, or
// SetPitchBend. The channel nibble is ignored; non-voice status bytes are
// no-ops. A Note On with velocity 0 is treated as a Note Off, per the
// MIDI running-status convention.
func (m *MidiSource) ProcessMIDIMessage(status, data1, data2 byte) {
	switch status & midiStatusMask {
	case midiStatusNoteOn:
		if data2 == 0 {
			m.NoteOff()
			return
		}
		m.NoteOn(int(data1), float32(data2)/127.0)
	case midiStatusNoteOff:
		m.NoteOff()
	case midiStatusPitchBend:
		m.SetPitchBend(int(data1) | int(data2)<<7)
	}
}

func (m *MidiSource) NextHop() ddsp.AudioFeatures {
	note := int(m.currentNote.Load())
	bend := int(m.currentBend.Load())
	velocity := math.Float32frombits(m.currentVelocity.Load())

	f0Hz := normalize.FreqFromNoteAndBend(note, bend)
	f0Norm := normalize.MapFromLog10(f0Hz)

	var loudnessNorm float32
	for i := 0; i < m.hopSize; i++ {
		loudnessNorm = m.adsr.NextSample() * velocity
	}

	return ddsp.AudioFeatures{
		F0Hz:         f0Hz,
		F0Norm:       f0Norm,
		LoudnessNorm: loudnessNorm,
		LoudnessDB:   normalize.DenormalizeLoudness(loudnessNorm),
	}
}

func (m *MidiSource) Reset() {
	m.adsr.Reset()
	m.currentNote.Store(69)
	m.currentBend.Store(8192)
	m.currentVelocity.Store(0)
}
