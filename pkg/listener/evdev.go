// Package listener implements the OS-level keyboard hook: it opens the
// Linux evdev keyboard devices, translates raw key/value pairs into
// shortcut.KeyEvents, and feeds them to a shortcut.Engine. A second
// goroutine polls the engine for delayed actions every 10 ms so a
// DelayedFire single can trigger without waiting for the next key event.
package listener

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	evdev "github.com/holoplot/go-evdev"

	"github.com/lokutor-ai/pushkey/pkg/shortcut"
)

// Logger is the minimal logging capability this package needs.
type Logger interface {
	Debug(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

const pollInterval = 10 * time.Millisecond

// ActionHandler receives every action the engine fires, whether produced
// immediately from a live key event or later from the delayed-poll
// goroutine.
type ActionHandler func(shortcut.Action)

// Listener owns the evdev device handles and the engine that both the
// hook-reading goroutines and the delayed-poll goroutine drive; the engine
// serializes their calls with its own lock.
type Listener struct {
	engine   *shortcut.Engine
	onAction ActionHandler
	log      Logger

	devices []*evdev.InputDevice

	shouldStop atomic.Bool
	wg         sync.WaitGroup
}

func New(engine *shortcut.Engine, onAction ActionHandler, log Logger) *Listener {
	if log == nil {
		log = noopLogger{}
	}
	return &Listener{engine: engine, onAction: onAction, log: log}
}

// Start opens every keyboard-capable evdev device and spawns one reader
// goroutine per device plus the 10 ms delayed-action poll goroutine.
func (l *Listener) Start() error {
	devices, err := findKeyboardDevices()
	if err != nil {
		return fmt.Errorf("listener: %w", err)
	}
	if len(devices) == 0 {
		return fmt.Errorf("listener: no keyboard devices found")
	}
	l.devices = devices
	l.shouldStop.Store(false)

	for _, dev := range devices {
		l.wg.Add(1)
		go l.readDevice(dev)
	}
	l.wg.Add(1)
	go l.pollDelayed()
	return nil
}

// Stop signals both the reader and poll goroutines to exit, closes every
// device handle (which unblocks any pending ReadOne call), and waits for
// all goroutines to finish.
func (l *Listener) Stop() {
	l.shouldStop.Store(true)
	for _, dev := range l.devices {
		_ = dev.Close()
	}
	l.wg.Wait()
}

func (l *Listener) readDevice(dev *evdev.InputDevice) {
	defer l.wg.Done()
	for {
		if l.shouldStop.Load() {
			return
		}
		event, err := dev.ReadOne()
		if err != nil {
			if !l.shouldStop.Load() {
				l.log.Warn("listener: device read error", "error", err)
			}
			return
		}
		if event.Type != evdev.EV_KEY {
			continue
		}
		l.handleRaw(event.Code, event.Value)
	}
}

func (l *Listener) handleRaw(code evdev.EvCode, value int32) {
	// 0 = release, 1 = press, 2 = autorepeat; autorepeat carries no new
	// matching information so it is dropped here.
	if value == 2 {
		return
	}
	key, ok := keyNameForCode(code)
	if !ok {
		return
	}
	kind := shortcut.Release
	if value == 1 {
		kind = shortcut.Press
	}

	action := l.engine.ProcessEventWithTime(shortcut.KeyEvent{Kind: kind, Key: key}, time.Now())

	if action != nil && l.onAction != nil {
		l.onAction(*action)
	}
}

func (l *Listener) pollDelayed() {
	defer l.wg.Done()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for range ticker.C {
		if l.shouldStop.Load() {
			return
		}
		action := l.engine.PollDelayedAction()
		if action != nil && l.onAction != nil {
			l.onAction(*action)
		}
	}
}

func findKeyboardDevices() ([]*evdev.InputDevice, error) {
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, fmt.Errorf("failed to list input devices: %w", err)
	}
	var devices []*evdev.InputDevice
	for _, path := range paths {
		dev, err := evdev.Open(path)
		if err != nil {
			continue
		}
		name, _ := dev.Name()
		if strings.Contains(strings.ToLower(name), "keyboard") || isKeyboardDevice(dev) {
			devices = append(devices, dev)
		} else {
			_ = dev.Close()
		}
	}
	return devices, nil
}

func isKeyboardDevice(dev *evdev.InputDevice) bool {
	hasKeyType := false
	for _, t := range dev.CapableTypes() {
		if t == evdev.EV_KEY {
			hasKeyType = true
			break
		}
	}
	if !hasKeyType {
		return false
	}
	common := map[evdev.EvCode]bool{
		evdev.KEY_Q: true, evdev.KEY_A: true, evdev.KEY_Z: true, evdev.KEY_SPACE: true,
	}
	for _, code := range dev.CapableEvents(evdev.EV_KEY) {
		if common[code] {
			return true
		}
	}
	return false
}
