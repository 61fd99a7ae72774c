// Package audio implements the capture-side primitives: a growable capture
// buffer, a lossy real-time ring buffer, bit-exact sample conversion, and the
// worker-backed Recorder that owns the input device.
package audio

const (
	bytesPerSample = 2 // 16-bit mono PCM
	// GrowthSeconds is the number of seconds' worth of audio in each growth
	// increment.
	GrowthSeconds = 15
)

// DynamicBuffer is a contiguous byte buffer that grows in fixed increments,
// rounding its capacity up to a multiple of the growth increment. It is not
// itself safe for concurrent use — callers hold an external mutex (the
// Recorder worker's buffer lock) around every method call, exactly as the
// design requires.
type DynamicBuffer struct {
	data            []byte
	initialCapacity int
	growthIncrement int

	// lastLoggedCapacity throttles growth logging to once per increment, so
	// a long recording doesn't emit a line for every appended chunk.
	lastLoggedCapacity int
	log                Logger
}

// NewDynamicBuffer sizes the buffer for sampleRate Hz mono 16-bit audio:
// initial_capacity = sampleRate * 2 * initialBufferSeconds,
// growth_increment = sampleRate * 2 * 15.
func NewDynamicBuffer(sampleRate, initialBufferSeconds int) *DynamicBuffer {
	initial := sampleRate * bytesPerSample * initialBufferSeconds
	growth := sampleRate * bytesPerSample * GrowthSeconds
	return &DynamicBuffer{
		data:               make([]byte, 0, initial),
		initialCapacity:    initial,
		growthIncrement:    growth,
		lastLoggedCapacity: initial,
	}
}

// SetLogger enables growth/reset logging; a nil logger keeps the buffer
// silent.
func (b *DynamicBuffer) SetLogger(log Logger) { b.log = log }

// Write appends data, growing capacity to the next multiple of
// growthIncrement at or above the required size if necessary.
func (b *DynamicBuffer) Write(data []byte) {
	required := len(b.data) + len(data)
	if required > cap(b.data) {
		target := b.nextCapacity(required)
		grown := make([]byte, len(b.data), target)
		copy(grown, b.data)
		b.data = grown
		if b.log != nil && target >= b.lastLoggedCapacity+b.growthIncrement {
			b.log.Debug("capture buffer grew", "from_bytes", b.lastLoggedCapacity, "to_bytes", target, "used_bytes", required)
			b.lastLoggedCapacity = target
		}
	}
	b.data = append(b.data, data...)
}

func (b *DynamicBuffer) nextCapacity(required int) int {
	if b.growthIncrement <= 0 {
		return required
	}
	steps := (required + b.growthIncrement - 1) / b.growthIncrement
	target := steps * b.growthIncrement
	if target < required {
		target = required
	}
	return target
}

// ReadAll returns the accumulated bytes by move and reinstalls a fresh empty
// buffer at initialCapacity.
func (b *DynamicBuffer) ReadAll() []byte {
	out := b.data
	b.data = make([]byte, 0, b.initialCapacity)
	return out
}

// Reset clears length and shrinks capacity back to initialCapacity.
func (b *DynamicBuffer) Reset() {
	b.data = make([]byte, 0, b.initialCapacity)
	b.lastLoggedCapacity = b.initialCapacity
}

// Len reports the current accumulated length.
func (b *DynamicBuffer) Len() int {
	return len(b.data)
}

// Snapshot returns a best-effort copy of the currently accumulated bytes
// without draining the buffer.
func (b *DynamicBuffer) Snapshot() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}
