// Package config assembles the process-wide immutable configuration
// snapshot: command-line flags, environment variables, and an optional
// .env file. Config is built once at startup and passed by shared
// reference into every subsystem; nothing here is a mutable singleton.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Substitution is a single ordered find/replace applied to transcribed text
// before delivery.
type Substitution struct {
	Find    string
	Replace string
}

// AppConfig is the immutable, process-wide configuration snapshot. It is
// constructed once by Load and never mutated afterward; tests build their
// own instance directly rather than reaching for a global.
type AppConfig struct {
	Debug    bool
	Paste    bool
	Realtime bool

	SpotifyRecordingVolume int // 0 = unset
	SpotifyReduceBy        int // 0 = unset

	StartKeys  string
	StopKeys   string
	CancelKeys string
	PauseKeys  string

	TranscribeOnPause         bool
	ShortcutResolutionDelayMs int64
	MemoryMonitor             bool

	SampleRate            int
	InitialBufferSeconds  int
	ActivityIdleTimeoutMs int64

	TranscriptionReplaceText []Substitution

	Model       string
	STTProvider string

	GroqAPIKey       string
	OpenAIAPIKey     string
	DeepgramAPIKey   string
	AssemblyAIAPIKey string
	RealtimeHost     string
	RealtimeAPIKey   string
}

const (
	defaultStartKeys  = "double(ControlLeft, 300)"
	defaultStopKeys   = "ControlLeft"
	defaultCancelKeys = "double(Escape, 300)"
)

// Load builds an AppConfig from, in increasing precedence: built-in
// defaults, a .env file (if present, via godotenv.Load — its absence is not
// an error), process environment variables, and the subset of options that
// make sense as CLI flags.
func Load(args []string) (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{
		StartKeys:                 envOr("PUSHKEY_START_KEYS", defaultStartKeys),
		StopKeys:                  envOr("PUSHKEY_STOP_KEYS", defaultStopKeys),
		CancelKeys:                envOr("PUSHKEY_CANCEL_KEYS", defaultCancelKeys),
		PauseKeys:                 os.Getenv("PUSHKEY_PAUSE_KEYS"),
		TranscribeOnPause:         envBool("PUSHKEY_TRANSCRIBE_ON_PAUSE", false),
		ShortcutResolutionDelayMs: envInt64("PUSHKEY_SHORTCUT_RESOLUTION_DELAY_MS", 50),
		MemoryMonitor:             envBool("PUSHKEY_MEMORY_MONITOR", false),
		SampleRate:                48000,
		InitialBufferSeconds:      envInt("PUSHKEY_INITIAL_BUFFER_SECONDS", 15),
		ActivityIdleTimeoutMs:     envInt64("PUSHKEY_ACTIVITY_IDLE_TIMEOUT_MS", 30000),
		Model:                     os.Getenv("PUSHKEY_MODEL"),
		STTProvider:               envOr("STT_PROVIDER", "groq"),
		GroqAPIKey:                os.Getenv("GROQ_API_KEY"),
		OpenAIAPIKey:              os.Getenv("OPENAI_API_KEY"),
		DeepgramAPIKey:            os.Getenv("DEEPGRAM_API_KEY"),
		AssemblyAIAPIKey:          os.Getenv("ASSEMBLYAI_API_KEY"),
		RealtimeHost:              os.Getenv("PUSHKEY_REALTIME_HOST"),
		RealtimeAPIKey:            os.Getenv("PUSHKEY_REALTIME_API_KEY"),
		SpotifyRecordingVolume:    envInt("SPOTIFY_RECORDING_VOLUME", 0),
		SpotifyReduceBy:           envInt("SPOTIFY_REDUCE_BY", 0),
	}
	cfg.TranscriptionReplaceText = parseReplacements(os.Getenv("PUSHKEY_TRANSCRIPTION_REPLACE_TEXT"))

	fs := flag.NewFlagSet("dictate", flag.ContinueOnError)
	debug := fs.Bool("debug", envBool("PUSHKEY_DEBUG", false), "enable verbose logging")
	paste := fs.Bool("paste", envBool("PUSHKEY_PASTE", false), "synthesize a paste instead of only setting the clipboard")
	realtime := fs.Bool("realtime", envBool("PUSHKEY_REALTIME", false), "enable the real-time transcription observer")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Debug = *debug
	cfg.Paste = *paste
	cfg.Realtime = *realtime

	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

// parseReplacements parses a "from=to;from2=to2" substring-substitution map;
// "from=" with an empty right side means deletion. Malformed entries (no
// "=") are skipped rather than failing the whole load.
func parseReplacements(raw string) []Substitution {
	if raw == "" {
		return nil
	}
	var out []Substitution
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		idx := strings.Index(entry, "=")
		if idx < 0 {
			continue
		}
		out = append(out, Substitution{Find: entry[:idx], Replace: entry[idx+1:]})
	}
	return out
}
