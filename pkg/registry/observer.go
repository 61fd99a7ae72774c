package registry

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lokutor-ai/pushkey/pkg/audio"
)

const (
	observerMinChunkBytes = 38400
	observerMaxChunkBytes = 76800
	observerPollInterval  = 100 * time.Millisecond
)

// TranscribeFunc performs a real-time (non-blocking from the caller's
// perspective, but synchronous within the observer's own goroutine)
// transcription of an accumulated speech segment.
type TranscribeFunc func(segment []byte) (string, error)

// TranscriptionObserver polls a RingBuffer on a fixed interval, feeds
// chunks through a SmartCollector, and synchronously transcribes whatever
// segment the collector emits. It only runs when Enabled is true, which
// follows the realtime configuration option.
type TranscriptionObserver struct {
	BaseComponent

	Enabled    bool
	SampleRate int
	Ring       *audio.RingBuffer
	Transcribe TranscribeFunc
	Log        Logger

	running   atomic.Bool
	mu        sync.Mutex
	collector *SmartCollector
	done      chan struct{}
	stopped   chan struct{}
}

func NewTranscriptionObserver(enabled bool, sampleRate int, ring *audio.RingBuffer, transcribe TranscribeFunc, log Logger) *TranscriptionObserver {
	if log == nil {
		log = noopLogger{}
	}
	return &TranscriptionObserver{
		BaseComponent: BaseComponent{ComponentName: "TranscriptionObserver", Mode: Sequential},
		Enabled:       enabled,
		SampleRate:    sampleRate,
		Ring:          ring,
		Transcribe:    transcribe,
		Log:           log,
		collector:     NewSmartCollector(sampleRate),
	}
}

func (o *TranscriptionObserver) OnStart() error {
	if !o.Enabled {
		return nil
	}
	if o.running.Swap(true) {
		return nil
	}
	o.Ring.ResetReader()
	o.done = make(chan struct{})
	o.stopped = make(chan struct{})
	go o.poll(o.done, o.stopped)
	return nil
}

func (o *TranscriptionObserver) poll(done, stopped chan struct{}) {
	defer close(stopped)
	ticker := time.NewTicker(observerPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if !o.running.Load() {
				return
			}
			available := o.Ring.AvailableBytes()
			if available < observerMinChunkBytes {
				continue
			}
			chunk, ok := o.Ring.ReadChunk(observerMinChunkBytes, observerMaxChunkBytes)
			if !ok {
				continue
			}
			o.mu.Lock()
			segment := o.collector.ProcessChunk(chunk)
			o.mu.Unlock()
			if segment != nil {
				o.handleSegment(segment)
			}
		}
	}
}

func (o *TranscriptionObserver) handleSegment(segment []byte) {
	bytesPerSecond := float64(o.SampleRate) * 2
	duration := float64(len(segment)) / bytesPerSecond
	o.Log.Info("real-time transcription triggered", "bytes", len(segment), "duration_sec", duration)

	text, err := o.Transcribe(segment)
	if err != nil {
		o.Log.Error("real-time transcription failed", "error", err)
		return
	}
	if text == "" {
		o.Log.Info("real-time transcription returned empty text")
		return
	}
	o.Log.Info("real-time transcription result", "chars", len(text))
}

func (o *TranscriptionObserver) OnStop() error {
	if !o.Enabled {
		return nil
	}
	o.stopWorker()
	o.mu.Lock()
	final := o.collector.ExtractFinalSegment()
	o.collector.Reset()
	o.mu.Unlock()
	if final != nil {
		o.handleSegment(final)
	}
	return nil
}

func (o *TranscriptionObserver) OnCancel() error {
	if !o.Enabled {
		return nil
	}
	o.stopWorker()
	o.mu.Lock()
	o.collector.Reset()
	o.mu.Unlock()
	return nil
}

// stopWorker signals the poll goroutine and joins it, so no chunk is still
// being fed to the collector while the caller extracts or resets it.
func (o *TranscriptionObserver) stopWorker() {
	if !o.running.Swap(false) {
		return
	}
	if o.done != nil {
		close(o.done)
		o.done = nil
	}
	if o.stopped != nil {
		<-o.stopped
		o.stopped = nil
	}
}
