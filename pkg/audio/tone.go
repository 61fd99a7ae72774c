package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gen2brain/malgo"
)

// TonePlayer is the playback collaborator for the audio-feedback component:
// a mono 16-bit output device fed from a pending-bytes queue. The device
// callback drains whatever is queued and pads the rest of the period with
// silence, so playback is always glitch-free and Enqueue never blocks.
type TonePlayer struct {
	ctx    *malgo.AllocatedContext
	device *malgo.Device

	mu      sync.Mutex
	pending []byte
}

// NewTonePlayer opens the default output device at sampleRate Hz and starts
// it immediately; an idle player just emits silence.
func NewTonePlayer(sampleRate int) (*TonePlayer, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("audio: init playback context: %w", err)
	}
	p := &TonePlayer{ctx: ctx}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = 1
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.Alsa.NoMMap = 1

	onSamples := func(pOutput, _ []byte, _ uint32) {
		n := p.take(pOutput)
		for i := n; i < len(pOutput); i++ {
			pOutput[i] = 0
		}
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onSamples})
	if err != nil {
		ctx.Uninit()
		return nil, fmt.Errorf("audio: init playback device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		ctx.Uninit()
		return nil, fmt.Errorf("audio: start playback device: %w", err)
	}
	p.device = device
	return p, nil
}

// Enqueue appends pcm to the playback queue. Safe for concurrent use.
func (p *TonePlayer) Enqueue(pcm []byte) {
	p.mu.Lock()
	p.pending = append(p.pending, pcm...)
	p.mu.Unlock()
}

// take copies queued bytes into dst and returns how many were consumed.
func (p *TonePlayer) take(dst []byte) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := copy(dst, p.pending)
	p.pending = p.pending[n:]
	return n
}

// Close stops the output device and releases the device context.
func (p *TonePlayer) Close() {
	if p.device != nil {
		p.device.Uninit()
		p.device = nil
	}
	if p.ctx != nil {
		p.ctx.Uninit()
		p.ctx = nil
	}
}

// SineTone synthesizes a mono 16-bit little-endian sine burst with a short
// linear fade at both ends to avoid clicks.
func SineTone(freqHz float64, dur time.Duration, sampleRate int) []byte {
	n := int(float64(sampleRate) * dur.Seconds())
	if n <= 0 {
		return nil
	}
	fade := sampleRate / 100 // 10 ms
	if fade > n/2 {
		fade = n / 2
	}
	const amplitude = 0.25
	out := make([]byte, n*2)
	for i := 0; i < n; i++ {
		env := 1.0
		if i < fade {
			env = float64(i) / float64(fade)
		} else if n-1-i < fade {
			env = float64(n-1-i) / float64(fade)
		}
		s := math.Sin(2*math.Pi*freqHz*float64(i)/float64(sampleRate)) * amplitude * env
		binary.LittleEndian.PutUint16(out[i*2:i*2+2], uint16(int16(s*32767)))
	}
	return out
}
