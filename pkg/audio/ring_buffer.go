package audio

import "sync"

// RingBuffer is a bounded, lossy, single-producer single-consumer byte ring
// for real-time observers. Writes beyond available space are silently
// dropped at the tail; the producer never blocks on a full buffer.
type RingBuffer struct {
	mu       sync.Mutex
	buf      []byte
	head     int // next read position
	tail     int // next write position
	size     int // bytes currently stored
	capacity int
}

// NewRingBuffer sizes the ring for seconds of sampleRate Hz mono 16-bit
// audio.
func NewRingBuffer(seconds, sampleRate int) *RingBuffer {
	capacity := seconds * sampleRate * bytesPerSample
	return &RingBuffer{
		buf:      make([]byte, capacity),
		capacity: capacity,
	}
}

// Write appends up to len(data) bytes, dropping whatever doesn't fit.
func (r *RingBuffer) Write(data []byte) (written int, dropped int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	free := r.capacity - r.size
	if free <= 0 {
		return 0, len(data)
	}
	n := len(data)
	if n > free {
		dropped = n - free
		n = free
	}
	for i := 0; i < n; i++ {
		r.buf[r.tail] = data[i]
		r.tail = (r.tail + 1) % r.capacity
	}
	r.size += n
	return n, dropped
}

// ReadChunk returns up to maxSize of the available bytes (or all of them, if
// maxSize <= 0) when at least minSize bytes are present, else (nil, false).
func (r *RingBuffer) ReadChunk(minSize, maxSize int) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.size < minSize {
		return nil, false
	}
	n := r.size
	if maxSize > 0 && n > maxSize {
		n = maxSize
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = r.buf[(r.head+i)%r.capacity]
	}
	r.head = (r.head + n) % r.capacity
	r.size -= n
	return out, true
}

// AvailableBytes is a snapshot of currently-buffered byte count.
func (r *RingBuffer) AvailableBytes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// ResetReader atomically drains the consumer side to empty.
func (r *RingBuffer) ResetReader() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.head = r.tail
	r.size = 0
}
