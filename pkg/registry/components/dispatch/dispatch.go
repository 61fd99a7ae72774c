// Package dispatch implements the transcription dispatch component: the
// bridge between a completed (or paused) recording session's captured
// audio and a batch Transcriber, bracketed by the processing-start/
// processing-complete lifecycle hooks (for a pause, the partial-processing
// pair) so other components (delivery,
// ducking, audio feedback) can react to the round trip.
package dispatch

import (
	"context"
	"time"

	"github.com/lokutor-ai/pushkey/pkg/registry"
)

// Transcriber is the narrow collaborator this component drives — any
// concrete Transcriber (batch HTTP or streaming) satisfies this simply by
// having a matching method signature.
type Transcriber interface {
	Transcribe(ctx context.Context, pcm []byte, language string) (string, error)
}

// AudioSource returns the most recently captured session's audio — the
// controller hands this component a read-only accessor rather than pushing
// audio in, so the bridge can pull exactly once per stop/pause.
type AudioSource func() ([]byte, error)

type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type Component struct {
	registry.BaseComponent

	transcriber       Transcriber
	audioSource       AudioSource
	registryRef       *registry.ComponentRegistry
	language          string
	transcribeOnPause bool
	timeout           time.Duration
	log               Logger
}

func New(transcriber Transcriber, audioSource AudioSource, reg *registry.ComponentRegistry, language string, transcribeOnPause bool, timeout time.Duration, log Logger) *Component {
	if log == nil {
		log = noopLogger{}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Component{
		BaseComponent:     registry.BaseComponent{ComponentName: "TranscriptionDispatch", Mode: registry.Sequential},
		transcriber:       transcriber,
		audioSource:       audioSource,
		registryRef:       reg,
		language:          language,
		transcribeOnPause: transcribeOnPause,
		timeout:           timeout,
		log:               log,
	}
}

func (c *Component) OnStop() error {
	c.runTranscription(false)
	return nil
}

// OnPause transcribes the just-ended segment through the partial-processing
// hooks, so a pause-time result is distinguishable from a final one by
// every other component. Cancel deliberately has no hook here: a cancelled
// session is discarded without a processing round trip.
func (c *Component) OnPause() error {
	if c.transcribeOnPause {
		c.runTranscription(true)
	}
	return nil
}

// runTranscription pulls the captured audio, brackets the call with
// processing-start/complete notifications on the shared registry, and never
// returns an error — a failed transcription is reported via on_error
// instead, since it must not block sibling components from observing the
// session's end.
func (c *Component) runTranscription(partial bool) {
	if c.transcriber == nil || c.audioSource == nil {
		return
	}
	pcm, err := c.audioSource()
	if err != nil {
		c.notifyError(err.Error())
		return
	}
	if len(pcm) == 0 {
		return
	}

	if c.registryRef != nil {
		if partial {
			c.registryRef.NotifyPartialProcessingStart()
		} else {
			c.registryRef.NotifyProcessingStart()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	text, err := c.transcriber.Transcribe(ctx, pcm, c.language)
	if err != nil {
		c.log.Error("dispatch: transcription failed", "error", err)
		c.notifyError(err.Error())
		return
	}

	c.log.Info("dispatch: transcription complete", "partial", partial, "chars", len(text))
	if c.registryRef != nil {
		if partial {
			c.registryRef.NotifyPartialProcessingComplete(text)
		} else {
			c.registryRef.NotifyProcessingComplete(text)
		}
	}
}

func (c *Component) notifyError(msg string) {
	if c.registryRef != nil {
		c.registryRef.NotifyError(msg)
	}
}
