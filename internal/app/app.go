// Package app wires every subsystem into the running process: the evdev
// listener, the shortcut engine, the audio recorder, the component
// registry, and the selected ASR transcriber. It is the root controller —
// it owns the long-lived collaborators and exposes a small verb-based API
// rather than leaking their wiring to main.go.
package app

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/lokutor-ai/pushkey/pkg/asr"
	"github.com/lokutor-ai/pushkey/pkg/audio"
	"github.com/lokutor-ai/pushkey/pkg/config"
	"github.com/lokutor-ai/pushkey/pkg/listener"
	"github.com/lokutor-ai/pushkey/pkg/registry"
	"github.com/lokutor-ai/pushkey/pkg/registry/components/deliver"
	"github.com/lokutor-ai/pushkey/pkg/registry/components/dispatch"
	"github.com/lokutor-ai/pushkey/pkg/registry/components/duck"
	"github.com/lokutor-ai/pushkey/pkg/registry/components/notifysound"
	"github.com/lokutor-ai/pushkey/pkg/shortcut"
)

// VolumeSetter is the ducking component's external collaborator; see
// pkg/registry/components/duck.
type VolumeSetter = duck.VolumeSetter

// Inserter is the delivery component's external collaborator; see
// pkg/registry/components/deliver.
type Inserter = deliver.Inserter

// Player is the audio-feedback component's external collaborator; see
// pkg/registry/components/notifysound.
type Player = notifysound.Player

// Deps bundles the platform-specific collaborators main.go must supply.
// Any may be nil; the corresponding component then skips that work (the
// delivery component logs a warning instead of inserting text).
type Deps struct {
	Volume   VolumeSetter
	Inserter Inserter
	Player   Player
	Log      config.Logger

	StartTone, StopTone, CompleteTone []byte
}

// App is the running process: a listener feeding a shortcut engine, an
// audio recorder driven by the engine's actions, and a component registry
// broadcasting lifecycle notifications to every registered observer.
type App struct {
	cfg         *config.AppConfig
	log         config.Logger
	engine      *shortcut.Engine
	recorder    *audio.Recorder
	lsn         *listener.Listener
	reg         *registry.ComponentRegistry
	observer    *registry.TranscriptionObserver
	transcriber asr.Transcriber

	mu        sync.Mutex
	lastAudio audio.AudioData
}

// New assembles every subsystem from cfg and deps. It initializes the audio
// context and starts the recorder's worker goroutine, but opens no capture
// or keyboard device; call Run to start listening.
func New(cfg *config.AppConfig, deps Deps) (*App, error) {
	log := deps.Log
	if log == nil {
		log = config.NoOpLogger{}
	}

	specs, parseErrs := buildSpecs(cfg)
	for _, e := range parseErrs {
		log.Warn("app: dropping unparsable shortcut pattern", "error", e)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("app: no shortcut patterns parsed from configuration")
	}

	engine := shortcut.NewEngine(
		specs,
		cfg.ShortcutResolutionDelayMs,
		time.Duration(cfg.ActivityIdleTimeoutMs)*time.Millisecond,
		log,
	)

	recorder, err := audio.NewRecorder(cfg.SampleRate, cfg.InitialBufferSeconds, cfg.Realtime, log)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	transcriber, err := asr.New(cfg)
	if err != nil {
		recorder.Shutdown(context.Background())
		return nil, fmt.Errorf("app: %w", err)
	}

	a := &App{cfg: cfg, log: log, engine: engine, recorder: recorder, transcriber: transcriber}

	builder := registry.NewRegistryBuilder(log)
	builder.WithComponent(duck.New(deps.Volume, log, cfg.SpotifyRecordingVolume, cfg.SpotifyReduceBy))
	builder.WithComponent(deliver.New(deps.Inserter, log, cfg.Paste, toDeliverSubs(cfg.TranscriptionReplaceText)))
	builder.WithComponent(notifysound.New(deps.Player, deps.StartTone, deps.StopTone, deps.CompleteTone))

	reg, err := builder.BuildWithoutInit()
	if err != nil {
		recorder.Shutdown(context.Background())
		return nil, fmt.Errorf("app: %w", err)
	}
	a.reg = reg
	// dispatch notifies the registry it is itself a member of, so it is
	// constructed with reg only once reg exists, then registered directly.
	if err := reg.Register(dispatch.New(transcriber, a.lastCapturedAudio, reg, "", cfg.TranscribeOnPause, 30*time.Second, log)); err != nil {
		recorder.Shutdown(context.Background())
		return nil, fmt.Errorf("app: %w", err)
	}

	if cfg.Realtime {
		a.observer = registry.NewTranscriptionObserver(true, cfg.SampleRate, recorder.RingBufferFor(), a.transcribeSegment, log)
		if err := reg.Register(a.observer); err != nil {
			recorder.Shutdown(context.Background())
			return nil, fmt.Errorf("app: %w", err)
		}
	}

	if err := a.reg.InitializeAll(); err != nil {
		recorder.Shutdown(context.Background())
		return nil, fmt.Errorf("app: %w", err)
	}

	a.lsn = listener.New(engine, a.handleAction, log)
	return a, nil
}

func buildSpecs(cfg *config.AppConfig) ([]shortcut.PatternSpec, []error) {
	var all []shortcut.PatternSpec
	var errs []error
	add := func(dsl string, action shortcut.Action) {
		if dsl == "" {
			return
		}
		built, e := shortcut.ParsePatterns(dsl, action)
		errs = append(errs, e...)
		all = append(all, built...)
	}
	add(cfg.StartKeys, shortcut.ActionStart)
	add(cfg.StopKeys, shortcut.ActionStop)
	add(cfg.CancelKeys, shortcut.ActionCancel)
	add(cfg.PauseKeys, shortcut.ActionPause)
	return all, errs
}

func toDeliverSubs(in []config.Substitution) []deliver.Substitution {
	out := make([]deliver.Substitution, len(in))
	for i, s := range in {
		out[i] = deliver.Substitution{Find: s.Find, Replace: s.Replace}
	}
	return out
}

// Run opens the evdev devices and blocks until ctx is cancelled, at which
// point every subsystem is shut down in reverse dependency order.
func (a *App) Run(ctx context.Context) error {
	if err := a.lsn.Start(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if a.cfg.MemoryMonitor {
		go a.monitorMemory(ctx)
	}
	<-ctx.Done()
	a.lsn.Stop()
	return a.recorder.Shutdown(context.Background())
}

// monitorMemory periodically reports process heap usage while the app runs.
func (a *App) monitorMemory(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			a.log.Info("memory usage",
				"heap_alloc_mb", m.HeapAlloc/1024/1024,
				"sys_mb", m.Sys/1024/1024,
				"goroutines", runtime.NumGoroutine(),
			)
		}
	}
}

// handleAction is the listener's ActionHandler: it drives the recorder and
// broadcasts the corresponding lifecycle notification — device operation
// first, observer notification second, so components always observe a
// recorder that has already changed state.
func (a *App) handleAction(action shortcut.Action) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch action {
	case shortcut.ActionStart:
		if err := a.recorder.StartRecording(ctx); err != nil {
			a.log.Error("app: start recording failed", "error", err)
			return
		}
		a.reg.NotifyStart()
	case shortcut.ActionStop:
		data, err := a.recorder.StopRecording(ctx)
		if err != nil {
			a.log.Error("app: stop recording failed", "error", err)
			return
		}
		a.storeAudio(data)
		a.reg.NotifyStop()
	case shortcut.ActionPause:
		// Pause toggles: from Active it suspends the stream, from Paused it
		// resumes it (the engine maps Pause to Paused->Active).
		if a.recorder.IsPaused() {
			if err := a.recorder.ResumeRecording(ctx); err != nil {
				a.log.Error("app: resume recording failed", "error", err)
				return
			}
			a.reg.NotifyResume()
			return
		}
		data, err := a.recorder.PauseRecording(ctx)
		if err != nil {
			a.log.Error("app: pause recording failed", "error", err)
			return
		}
		a.storeAudio(data)
		a.reg.NotifyPause()
	case shortcut.ActionCancel:
		if _, err := a.recorder.StopRecording(ctx); err != nil {
			a.log.Error("app: cancel (stop) recording failed", "error", err)
		}
		a.reg.NotifyCancel()
	}
}

func (a *App) storeAudio(data audio.AudioData) {
	a.mu.Lock()
	a.lastAudio = data
	a.mu.Unlock()
}

func (a *App) lastCapturedAudio() ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastAudio.Samples, nil
}

func (a *App) transcribeSegment(segment []byte) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return a.transcriber.Transcribe(ctx, segment, "")
}

// State reports the engine's current Idle/Active/Paused state, for a status
// indicator or tests.
func (a *App) State() shortcut.State { return a.engine.State() }
