package audio

import "testing"

func TestDynamicBufferRoundTrip(t *testing.T) {
	b := NewDynamicBuffer(16000, 1)
	chunk := []byte{1, 2, 3, 4}
	b.Write(chunk)
	b.Write(chunk)

	if got := b.Len(); got != 8 {
		t.Fatalf("expected len 8, got %d", got)
	}
	out := b.ReadAll()
	want := []byte{1, 2, 3, 4, 1, 2, 3, 4}
	if len(out) != len(want) {
		t.Fatalf("expected %d bytes, got %d", len(want), len(out))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("byte %d: expected %d, got %d", i, want[i], out[i])
		}
	}
	if b.Len() != 0 {
		t.Fatalf("expected empty buffer after ReadAll, got len %d", b.Len())
	}
}

func TestDynamicBufferGrowsInIncrements(t *testing.T) {
	// sampleRate=100 -> initial=100*2*1=200 bytes, growth=100*2*15=3000 bytes.
	b := NewDynamicBuffer(100, 1)
	if cap(b.data) != 200 {
		t.Fatalf("expected initial capacity 200, got %d", cap(b.data))
	}
	b.Write(make([]byte, 250))
	if cap(b.data) < 250 {
		t.Fatalf("expected capacity to grow to cover 250 bytes, got %d", cap(b.data))
	}
	if cap(b.data)%3000 != 0 {
		t.Fatalf("expected capacity to land on a multiple of the growth increment, got %d", cap(b.data))
	}
}

func TestDynamicBufferSnapshotDoesNotDrain(t *testing.T) {
	b := NewDynamicBuffer(16000, 1)
	b.Write([]byte{9, 8, 7})
	snap := b.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected snapshot of 3 bytes, got %d", len(snap))
	}
	if b.Len() != 3 {
		t.Fatalf("expected Snapshot to leave the buffer intact, got len %d", b.Len())
	}
	snap[0] = 0
	if b.data[0] != 9 {
		t.Fatalf("expected Snapshot to return a copy, mutation leaked into the buffer")
	}
}

func TestDynamicBufferReset(t *testing.T) {
	b := NewDynamicBuffer(16000, 1)
	b.Write([]byte{1, 2, 3})
	b.Reset()
	if b.Len() != 0 {
		t.Fatalf("expected len 0 after Reset, got %d", b.Len())
	}
	if cap(b.data) != b.initialCapacity {
		t.Fatalf("expected Reset to shrink capacity back to initial, got %d", cap(b.data))
	}
}
