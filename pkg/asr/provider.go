package asr

import (
	"fmt"

	"github.com/lokutor-ai/pushkey/pkg/config"
)

// New selects a Transcriber by cfg.STTProvider: groq is the default, and a
// selected provider with a missing API key fails loudly at startup rather
// than at first use.
func New(cfg *config.AppConfig) (Transcriber, error) {
	switch cfg.STTProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("asr: OPENAI_API_KEY must be set for openai provider")
		}
		return NewOpenAITranscriber(cfg.OpenAIAPIKey, cfg.Model, cfg.SampleRate), nil
	case "deepgram":
		if cfg.DeepgramAPIKey == "" {
			return nil, fmt.Errorf("asr: DEEPGRAM_API_KEY must be set for deepgram provider")
		}
		return NewDeepgramTranscriber(cfg.DeepgramAPIKey, cfg.Model, cfg.SampleRate), nil
	case "assemblyai":
		if cfg.AssemblyAIAPIKey == "" {
			return nil, fmt.Errorf("asr: ASSEMBLYAI_API_KEY must be set for assemblyai provider")
		}
		return NewAssemblyAITranscriber(cfg.AssemblyAIAPIKey), nil
	case "realtime":
		if cfg.RealtimeAPIKey == "" {
			return nil, fmt.Errorf("asr: PUSHKEY_REALTIME_API_KEY must be set for realtime provider")
		}
		return NewStreamingWSTranscriber(cfg.RealtimeAPIKey, cfg.RealtimeHost), nil
	case "groq", "":
		if cfg.GroqAPIKey == "" {
			return nil, fmt.Errorf("asr: GROQ_API_KEY must be set for groq provider")
		}
		return NewGroqTranscriber(cfg.GroqAPIKey, cfg.Model, cfg.SampleRate), nil
	default:
		return nil, fmt.Errorf("asr: unknown stt_provider %q", cfg.STTProvider)
	}
}
