package ring

import "testing"

func TestWriteThenReadRoundTrips(t *testing.T) {
	b := New(16)
	in := []float32{1, 2, 3, 4, 5}
	b.Write(in)
	if got := b.NumReady(); got != 5 {
		t.Fatalf("NumReady() = %d, want 5", got)
	}
	out := make([]float32, 5)
	n := b.Read(out)
	if n != 5 {
		t.Fatalf("Read() = %d, want 5", n)
	}
	for i, v := range in {
		if out[i] != v {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], v)
		}
	}
	if b.NumReady() != 0 {
		t.Fatalf("NumReady() = %d, want 0 after drain", b.NumReady())
	}
}

func TestReadUnderrunReturnsWhatsAvailable(t *testing.T) {
	b := New(16)
	b.Write([]float32{1, 2})
	out := make([]float32, 8)
	n := b.Read(out)
	if n != 2 {
		t.Fatalf("Read() = %d, want 2 (partial)", n)
	}
}

func TestWrapsAroundCapacity(t *testing.T) {
	b := New(4)
	b.Write([]float32{1, 2, 3})
	out := make([]float32, 3)
	b.Read(out)
	b.Write([]float32{4, 5, 6})
	got := make([]float32, 3)
	n := b.Read(got)
	if n != 3 {
		t.Fatalf("Read() = %d, want 3", n)
	}
	want := []float32{4, 5, 6}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestOverflowTruncatesIncomingBatchWithoutBlocking(t *testing.T) {
	b := New(4)
	b.Write([]float32{1, 2, 3, 4, 5, 6})
	if got := b.NumReady(); got != 4 {
		t.Fatalf("NumReady() = %d, want 4 (capped at capacity)", got)
	}
	out := make([]float32, 4)
	b.Read(out)
	want := []float32{1, 2, 3, 4}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %v, want %v (tail of the batch truncated, not the buffered head)", i, out[i], want[i])
		}
	}
}

func TestOverflowWriteNeverEvictsBufferedSamples(t *testing.T) {
	b := New(4)
	b.Write([]float32{1, 2, 3})
	b.Write([]float32{4, 5, 6})
	if got := b.NumReady(); got != 4 {
		t.Fatalf("NumReady() = %d, want 4", got)
	}
	out := make([]float32, 4)
	b.Read(out)
	want := []float32{1, 2, 3, 4}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %v, want %v (already-buffered samples must survive a second overflowing Write)", i, out[i], want[i])
		}
	}
}

func TestInterleavedWritesAndReadsPreserveOrder(t *testing.T) {
	b := New(8)
	var produced, consumed []float32
	next := float32(0)
	for round := 0; round < 20; round++ {
		// Each round reads more than it writes, so NumReady never exceeds
		// capacity and no batch is ever truncated.
		burst := make([]float32, 2)
		for i := range burst {
			burst[i] = next
			next++
		}
		b.Write(burst)
		produced = append(produced, burst...)

		out := make([]float32, 3)
		n := b.Read(out)
		consumed = append(consumed, out[:n]...)
	}
	// Drain the rest.
	for {
		out := make([]float32, 4)
		n := b.Read(out)
		if n == 0 {
			break
		}
		consumed = append(consumed, out[:n]...)
	}
	if len(consumed) != len(produced) {
		t.Fatalf("consumed %d samples, want %d (no overflow should occur)", len(consumed), len(produced))
	}
	for i, v := range produced {
		if consumed[i] != v {
			t.Fatalf("consumed[%d] = %v, want %v", i, consumed[i], v)
		}
	}
}

func TestResetEmptiesBuffer(t *testing.T) {
	b := New(8)
	b.Write([]float32{1, 2, 3})
	b.Reset()
	if b.NumReady() != 0 {
		t.Fatalf("NumReady() = %d, want 0 after Reset", b.NumReady())
	}
	out := make([]float32, 4)
	if n := b.Read(out); n != 0 {
		t.Fatalf("Read() = %d, want 0 after Reset", n)
	}
}
