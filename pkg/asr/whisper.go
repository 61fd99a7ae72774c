package asr

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
)

// WhisperTranscriber is the one client behind every Whisper-compatible
// multipart endpoint: Groq and OpenAI accept the same form fields and reply
// with the same {"text"} envelope, so only the host, default model, and key
// differ between them.
type WhisperTranscriber struct {
	name       string
	url        string
	apiKey     string
	model      string
	sampleRate int
}

func NewGroqTranscriber(apiKey, model string, sampleRate int) *WhisperTranscriber {
	return newWhisper("groq", "https://api.groq.com/openai/v1/audio/transcriptions",
		apiKey, model, "whisper-large-v3-turbo", sampleRate)
}

func NewOpenAITranscriber(apiKey, model string, sampleRate int) *WhisperTranscriber {
	return newWhisper("openai", "https://api.openai.com/v1/audio/transcriptions",
		apiKey, model, "whisper-1", sampleRate)
}

func newWhisper(name, url, apiKey, model, defaultModel string, sampleRate int) *WhisperTranscriber {
	if model == "" {
		model = defaultModel
	}
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	return &WhisperTranscriber{name: name, url: url, apiKey: apiKey, model: model, sampleRate: sampleRate}
}

func (t *WhisperTranscriber) Name() string { return t.name }

func (t *WhisperTranscriber) Transcribe(ctx context.Context, pcm []byte, language string) (string, error) {
	contentType, body, err := t.buildForm(pcm, language)
	if err != nil {
		return "", fmt.Errorf("asr: %s: building form: %w", t.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, body)
	if err != nil {
		return "", fmt.Errorf("asr: %s: %w", t.name, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	var reply struct {
		Text string `json:"text"`
	}
	if err := sendJSON(req, t.name, &reply); err != nil {
		return "", err
	}
	return reply.Text, nil
}

// buildForm assembles the multipart payload: the model field, the language
// field when one is configured, and the capture as a WAV attachment.
func (t *WhisperTranscriber) buildForm(pcm []byte, language string) (string, *bytes.Buffer, error) {
	body := new(bytes.Buffer)
	form := multipart.NewWriter(body)

	if err := form.WriteField("model", t.model); err != nil {
		return "", nil, err
	}
	if language != "" {
		if err := form.WriteField("language", language); err != nil {
			return "", nil, err
		}
	}
	attachment, err := form.CreateFormFile("file", "capture.wav")
	if err != nil {
		return "", nil, err
	}
	if _, err := attachment.Write(wavEncode(pcm, t.sampleRate)); err != nil {
		return "", nil, err
	}
	if err := form.Close(); err != nil {
		return "", nil, err
	}
	return form.FormDataContentType(), body, nil
}
