// Package notifysound implements the audio-feedback component: short
// pre-rendered PCM tones played through a shared playback buffer on every
// recording lifecycle transition.
package notifysound

import (
	"sync"

	"github.com/lokutor-ai/pushkey/pkg/registry"
)

// Player is the narrow playback collaborator this component drives;
// cmd/dictate supplies audio.TonePlayer, a playback-only malgo device kept
// separate from the recorder's capture device.
type Player interface {
	Enqueue(pcm []byte)
}

// Component plays a short blip on start/stop/pause/resume/cancel/complete.
// Enqueue reports no errors, so none of its hooks ever returns one.
type Component struct {
	registry.BaseComponent

	player Player
	mu     sync.Mutex

	startTone, stopTone, completeTone []byte
}

func New(player Player, startTone, stopTone, completeTone []byte) *Component {
	return &Component{
		BaseComponent: registry.BaseComponent{ComponentName: "AudioFeedback", Mode: registry.Parallel},
		player:        player,
		startTone:     startTone,
		stopTone:      stopTone,
		completeTone:  completeTone,
	}
}

func (c *Component) play(tone []byte) {
	if c.player == nil || len(tone) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.player.Enqueue(tone)
}

func (c *Component) OnStart() error  { c.play(c.startTone); return nil }
func (c *Component) OnStop() error   { c.play(c.stopTone); return nil }
func (c *Component) OnPause() error  { c.play(c.stopTone); return nil }
func (c *Component) OnResume() error { c.play(c.startTone); return nil }
func (c *Component) OnCancel() error { c.play(c.stopTone); return nil }

func (c *Component) OnProcessingComplete(string) error {
	c.play(c.completeTone)
	return nil
}
