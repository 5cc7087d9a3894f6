// Package ring implements a single-producer/single-consumer sample ring
// buffer for handing rendered audio from the background render worker to
// the realtime audio callback without locks or allocation. Independent
// atomic read/write cursors make it safe to use across the two goroutines
// without a mutex.
package ring

import "sync/atomic"

// Buffer is a fixed-size SPSC ring of float32 samples. Exactly one
// goroutine may call Write and exactly one (possibly different) goroutine
// may call Read; concurrent calls to Write or concurrent calls to Read
// are not safe.
type Buffer struct {
	data []float32
	size uint64

	writeCursor atomic.Uint64
	readCursor  atomic.Uint64
}

// New creates a Buffer holding size samples.
func New(size int) *Buffer {
	return &Buffer{
		data: make([]float32, size),
		size: uint64(size),
	}
}

// Write appends samples, truncating the incoming batch at the buffer's
// free capacity rather than blocking if it would overflow — the render
// worker must never stall waiting for the audio thread, and already
// buffered, not-yet-read samples are never evicted to make room. It
// returns the number of samples actually written; a result short of
// len(samples) means the buffer overflowed and the tail of the batch was
// dropped.
func (b *Buffer) Write(samples []float32) int {
	wc := b.writeCursor.Load()
	rc := b.readCursor.Load()
	free := b.size - (wc - rc)
	n := uint64(len(samples))
	if n > free {
		n = free
	}
	for i := uint64(0); i < n; i++ {
		b.data[wc%b.size] = samples[i]
		wc++
	}
	b.writeCursor.Store(wc)
	return int(n)
}

// Read copies up to len(out) ready samples into out and returns how many
// were copied. It never blocks; if fewer samples are ready than
// len(out), the caller must fill the remainder itself (e.g. with
// silence) to avoid an audio dropout.
func (b *Buffer) Read(out []float32) int {
	wc := b.writeCursor.Load()
	rc := b.readCursor.Load()
	ready := wc - rc
	n := uint64(len(out))
	if n > ready {
		n = ready
	}
	for i := uint64(0); i < n; i++ {
		out[i] = b.data[(rc+i)%b.size]
	}
	b.readCursor.Store(rc + n)
	return int(n)
}

// NumReady reports how many samples are available to Read.
func (b *Buffer) NumReady() int {
	return int(b.writeCursor.Load() - b.readCursor.Load())
}

// Reset empties the buffer, discarding any unread samples. Only safe to
// call when neither Read nor Write is concurrently in progress.
func (b *Buffer) Reset() {
	b.writeCursor.Store(0)
	b.readCursor.Store(0)
}

// Cap returns the buffer's total capacity in samples.
func (b *Buffer) Cap() int {
	return int(b.size)
}
