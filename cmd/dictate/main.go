// Command dictate is the push-to-talk dictation utility: trigger the start
// shortcut (a double-tap of the left Control key by default) to record from
// the default microphone, trigger the stop shortcut to transcribe, and have
// the result delivered to the clipboard or pasted at the cursor.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lokutor-ai/pushkey/internal/app"
	"github.com/lokutor-ai/pushkey/pkg/audio"
	"github.com/lokutor-ai/pushkey/pkg/config"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("dictate: config: %v", err)
	}

	logger := config.NewLogger(cfg.Debug)

	fmt.Printf("dictate: stt_provider=%s sample_rate=%dHz realtime=%v paste=%v\n",
		cfg.STTProvider, cfg.SampleRate, cfg.Realtime, cfg.Paste)
	fmt.Printf("dictate: start=%q stop=%q cancel=%q pause=%q\n",
		cfg.StartKeys, cfg.StopKeys, cfg.CancelKeys, cfg.PauseKeys)

	deps := app.Deps{
		Volume:   nil, // no system mixer integration on this platform yet
		Inserter: newClipboardInserter(),
		Log:      logger,
	}
	if player, err := audio.NewTonePlayer(cfg.SampleRate); err != nil {
		logger.Warn("dictate: audio feedback disabled", "error", err)
	} else {
		defer player.Close()
		deps.Player = player
		deps.StartTone = audio.SineTone(880, 80*time.Millisecond, cfg.SampleRate)
		deps.StopTone = audio.SineTone(440, 80*time.Millisecond, cfg.SampleRate)
		deps.CompleteTone = audio.SineTone(660, 120*time.Millisecond, cfg.SampleRate)
	}

	a, err := app.New(cfg, deps)
	if err != nil {
		log.Fatalf("dictate: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		fmt.Println("\ndictate: shutting down")
		cancel()
	}()

	fmt.Println("dictate: listening for shortcuts, press Ctrl+C to exit")
	if err := a.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("dictate: %v", err)
	}
}
