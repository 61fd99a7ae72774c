package audio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gen2brain/malgo"
)

// Error kinds the recorder reports. These are never fatal to the worker.
var (
	ErrAlreadyRecording = errors.New("audio: already recording")
	ErrNotRecording     = errors.New("audio: not recording")
	ErrAlreadyPaused    = errors.New("audio: already paused")
	ErrNotPaused        = errors.New("audio: not paused")
	ErrNoInputDevice    = errors.New("audio: no input device available")
	ErrBuildStream      = errors.New("audio: failed to build input stream")
	ErrReplyTimeout     = errors.New("audio: worker reply timed out")
	ErrChannelFull      = errors.New("audio: command channel full")
)

// AudioData is the immutable result of Stop/Pause.
type AudioData struct {
	Samples    []byte
	SampleRate int
	Channels   int
	DurationMs int64
}

type commandKind int

const (
	cmdStart commandKind = iota
	cmdStop
	cmdPause
	cmdResume
	cmdSnapshot
	cmdShutdown
)

type command struct {
	kind  commandKind
	reply chan response
}

type response struct {
	started  bool
	resumed  bool
	audio    AudioData
	snapshot []byte
	err      error
}

// Logger is the minimal logging capability the recorder needs.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Recorder owns a worker goroutine that serializes access to the input
// device and the capture buffers. All public methods are synchronous
// request/response round-trips over a bounded channel.
type Recorder struct {
	sampleRate    int
	initialBufSec int
	realtime      bool

	commands chan command

	isRecording atomic.Bool
	isPaused    atomic.Bool

	log Logger

	malgoCtx *malgo.AllocatedContext
	ring     *RingBuffer

	done chan struct{}
}

// NewRecorder starts the worker goroutine. sampleRate is fixed at 48000 by
// the configuration surface, but is accepted as a parameter for testability.
func NewRecorder(sampleRate, initialBufferSeconds int, realtime bool, log Logger) (*Recorder, error) {
	if log == nil {
		log = noopLogger{}
	}
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("audio: init device context: %w", err)
	}
	r := &Recorder{
		sampleRate:    sampleRate,
		initialBufSec: initialBufferSeconds,
		realtime:      realtime,
		commands:      make(chan command, 10),
		log:           log,
		malgoCtx:      ctx,
		done:          make(chan struct{}),
	}
	if realtime {
		r.ring = NewRingBuffer(2, sampleRate)
	}
	go r.run()
	return r, nil
}

func (r *Recorder) send(ctx context.Context, kind commandKind, timeout time.Duration) (response, error) {
	reply := make(chan response, 1)
	// A full command channel blocks the sender (bounded by timeout and ctx)
	// rather than queuing without limit.
	select {
	case r.commands <- command{kind: kind, reply: reply}:
	case <-time.After(timeout):
		return response{}, ErrChannelFull
	case <-ctx.Done():
		return response{}, ctx.Err()
	}
	select {
	case resp := <-reply:
		return resp, resp.err
	case <-time.After(timeout):
		return response{}, ErrReplyTimeout
	case <-ctx.Done():
		return response{}, ctx.Err()
	}
}

// StartRecording begins a new capture session.
func (r *Recorder) StartRecording(ctx context.Context) error {
	_, err := r.send(ctx, cmdStart, 5*time.Second)
	return err
}

// StopRecording ends the session and returns the concatenated AudioData.
func (r *Recorder) StopRecording(ctx context.Context) (AudioData, error) {
	resp, err := r.send(ctx, cmdStop, 5*time.Second)
	return resp.audio, err
}

// PauseRecording ends the current segment and returns its AudioData.
func (r *Recorder) PauseRecording(ctx context.Context) (AudioData, error) {
	resp, err := r.send(ctx, cmdPause, 5*time.Second)
	return resp.audio, err
}

// ResumeRecording starts a new segment after a pause.
func (r *Recorder) ResumeRecording(ctx context.Context) error {
	_, err := r.send(ctx, cmdResume, 5*time.Second)
	return err
}

// GetBufferSnapshot returns a best-effort copy of the currently-captured
// bytes.
func (r *Recorder) GetBufferSnapshot(ctx context.Context) ([]byte, error) {
	resp, err := r.send(ctx, cmdSnapshot, 1*time.Second)
	return resp.snapshot, err
}

// IsRecording reports the recorder's flag without round-tripping the worker.
func (r *Recorder) IsRecording() bool { return r.isRecording.Load() }

// IsPaused reports the recorder's flag without round-tripping the worker.
func (r *Recorder) IsPaused() bool { return r.isPaused.Load() }

// Shutdown stops the worker goroutine and releases the device context.
func (r *Recorder) Shutdown(ctx context.Context) error {
	_, err := r.send(ctx, cmdShutdown, 5*time.Second)
	<-r.done
	r.malgoCtx.Uninit()
	return err
}

// RingBufferFor returns the worker's real-time ring buffer, if realtime
// observation is enabled. Safe to call at any time; the pointer is fixed for
// the recorder's lifetime.
func (r *Recorder) RingBufferFor() *RingBuffer { return r.ring }

type workerState struct {
	device    *malgo.Device
	buf       *DynamicBuffer
	bufMu     sync.Mutex
	segments  [][]byte
	startedAt time.Time
	paused    bool
}

func (r *Recorder) run() {
	defer close(r.done)
	var st workerState

	for cmd := range r.commands {
		switch cmd.kind {
		case cmdStart:
			cmd.reply <- r.handleStart(&st)
		case cmdStop:
			cmd.reply <- r.handleStop(&st)
		case cmdPause:
			cmd.reply <- r.handlePause(&st)
		case cmdResume:
			cmd.reply <- r.handleResume(&st)
		case cmdSnapshot:
			cmd.reply <- r.handleSnapshot(&st)
		case cmdShutdown:
			r.isRecording.Store(false)
			r.isPaused.Store(false)
			if st.device != nil {
				st.device.Uninit()
			}
			cmd.reply <- response{}
			return
		}
	}
}

func (r *Recorder) handleStart(st *workerState) response {
	if st.device != nil {
		return response{err: ErrAlreadyRecording}
	}
	st.buf = NewDynamicBuffer(r.sampleRate, r.initialBufSec)
	st.buf.SetLogger(r.log)
	st.segments = nil
	st.paused = false

	device, err := r.buildStream(st)
	if err != nil {
		time.Sleep(100 * time.Millisecond)
		device, err = r.buildStream(st)
		if err != nil {
			return response{err: fmt.Errorf("%w: %v", ErrBuildStream, err)}
		}
	}
	st.device = device
	st.startedAt = time.Now()
	r.isRecording.Store(true)
	r.isPaused.Store(false)
	return response{started: true}
}

func (r *Recorder) handleStop(st *workerState) response {
	if st.device == nil && !st.paused {
		return response{err: ErrNotRecording}
	}
	// Let the last in-flight callback land before draining.
	time.Sleep(500 * time.Millisecond)

	var final []byte
	st.bufMu.Lock()
	if st.buf != nil {
		final = st.buf.ReadAll()
	}
	st.bufMu.Unlock()

	samples := concatSegments(st.segments, final)
	duration := time.Since(st.startedAt).Milliseconds()

	if st.device != nil {
		st.device.Uninit()
	}
	st.device = nil
	st.buf = nil
	st.segments = nil
	st.paused = false
	st.startedAt = time.Time{}
	r.isRecording.Store(false)
	r.isPaused.Store(false)

	return response{audio: AudioData{
		Samples:    samples,
		SampleRate: r.sampleRate,
		Channels:   1,
		DurationMs: duration,
	}}
}

func (r *Recorder) handlePause(st *workerState) response {
	if st.device == nil {
		return response{err: ErrNotRecording}
	}
	if st.paused {
		return response{err: ErrAlreadyPaused}
	}
	st.bufMu.Lock()
	drained := st.buf.ReadAll()
	st.bufMu.Unlock()

	st.segments = append(st.segments, drained)
	st.device.Uninit()
	st.device = nil
	st.paused = true
	r.isPaused.Store(true)

	return response{audio: AudioData{
		Samples:    drained,
		SampleRate: r.sampleRate,
		Channels:   1,
		DurationMs: time.Since(st.startedAt).Milliseconds(),
	}}
}

func (r *Recorder) handleResume(st *workerState) response {
	if !st.paused {
		return response{err: ErrNotPaused}
	}
	device, err := r.buildStream(st)
	if err != nil {
		time.Sleep(100 * time.Millisecond)
		device, err = r.buildStream(st)
		if err != nil {
			return response{err: fmt.Errorf("%w: %v", ErrBuildStream, err)}
		}
	}
	st.device = device
	st.paused = false
	r.isPaused.Store(false)
	return response{resumed: true}
}

func (r *Recorder) handleSnapshot(st *workerState) response {
	if st.buf == nil {
		return response{snapshot: []byte{}}
	}
	st.bufMu.Lock()
	snap := st.buf.Snapshot()
	st.bufMu.Unlock()
	return response{snapshot: snap}
}

func concatSegments(segments [][]byte, final []byte) []byte {
	total := len(final)
	for _, s := range segments {
		total += len(s)
	}
	out := make([]byte, 0, total)
	for _, s := range segments {
		out = append(out, s...)
	}
	out = append(out, final...)
	return out
}

func (r *Recorder) buildStream(st *workerState) (*malgo.Device, error) {
	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = uint32(r.sampleRate)
	deviceConfig.Alsa.NoMMap = 1

	onSamples := func(_ []byte, pInput []byte, _ uint32) {
		if len(pInput) == 0 {
			return
		}
		chunk, err := ToMonoPCM16LE(FormatI16, pInput, 1)
		if err != nil {
			r.log.Warn("audio: dropping unsupported-format chunk", "err", err)
			return
		}
		if st.bufMu.TryLock() {
			st.buf.Write(chunk)
			st.bufMu.Unlock()
		}
		// The callback lock-contention path deliberately drops the
		// DynamicBuffer write, never blocks; the ring buffer write below is
		// still attempted independently, it has its own internal lock.
		if r.ring != nil {
			if _, dropped := r.ring.Write(chunk); dropped > 0 {
				r.log.Warn("audio: ring buffer overflow, dropping bytes", "dropped", dropped)
			}
		}
	}

	device, err := malgo.InitDevice(r.malgoCtx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onSamples})
	if err != nil {
		return nil, err
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return nil, err
	}
	return device, nil
}
