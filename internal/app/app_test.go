package app

import (
	"testing"

	"github.com/lokutor-ai/pushkey/pkg/audio"
	"github.com/lokutor-ai/pushkey/pkg/config"
	"github.com/lokutor-ai/pushkey/pkg/shortcut"
)

func TestBuildSpecsParsesEveryConfiguredDSL(t *testing.T) {
	cfg := &config.AppConfig{
		StartKeys:  "double(ControlLeft, 300)",
		StopKeys:   "ControlLeft",
		CancelKeys: "double(Escape, 300)",
		PauseKeys:  "",
	}
	specs, errs := buildSpecs(cfg)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if len(specs) == 0 {
		t.Fatal("expected at least one parsed pattern spec")
	}

	var sawStart, sawStop, sawCancel bool
	for _, s := range specs {
		switch s.Action {
		case shortcut.ActionStart:
			sawStart = true
		case shortcut.ActionStop:
			sawStop = true
		case shortcut.ActionCancel:
			sawCancel = true
		}
	}
	if !sawStart || !sawStop || !sawCancel {
		t.Errorf("missing expected actions: start=%v stop=%v cancel=%v", sawStart, sawStop, sawCancel)
	}
}

func TestBuildSpecsDropsUnparsablePatternsButKeepsTheRest(t *testing.T) {
	cfg := &config.AppConfig{
		StartKeys: "ControlLeft;Frobnicate",
		StopKeys:  "ControlRight",
	}
	specs, errs := buildSpecs(cfg)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one parse error, got %d: %v", len(errs), errs)
	}
	if len(specs) == 0 {
		t.Fatal("valid patterns must still be returned alongside the dropped one")
	}
}

func TestToDeliverSubsPreservesOrderAndContent(t *testing.T) {
	in := []config.Substitution{
		{Find: "foo", Replace: "bar"},
		{Find: "baz", Replace: ""},
	}
	out := toDeliverSubs(in)
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if out[0].Find != "foo" || out[0].Replace != "bar" {
		t.Errorf("out[0] = %+v", out[0])
	}
	if out[1].Find != "baz" || out[1].Replace != "" {
		t.Errorf("out[1] = %+v", out[1])
	}
}

func TestToDeliverSubsEmptyInput(t *testing.T) {
	out := toDeliverSubs(nil)
	if len(out) != 0 {
		t.Errorf("len(out) = %d, want 0", len(out))
	}
}

func TestStoreAndFetchLastCapturedAudio(t *testing.T) {
	a := &App{}
	want := []byte{1, 2, 3, 4}
	a.storeAudio(audio.AudioData{Samples: want, SampleRate: 48000, Channels: 1})

	got, err := a.lastCapturedAudio()
	if err != nil {
		t.Fatalf("lastCapturedAudio: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
