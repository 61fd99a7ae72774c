package asr

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// DeepgramTranscriber posts raw PCM directly to the /listen endpoint; no
// container wrapping is needed because the content type carries the sample
// layout.
type DeepgramTranscriber struct {
	apiKey     string
	url        string
	model      string
	sampleRate int
}

func NewDeepgramTranscriber(apiKey, model string, sampleRate int) *DeepgramTranscriber {
	if model == "" {
		model = "nova-2"
	}
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	return &DeepgramTranscriber{
		apiKey:     apiKey,
		url:        "https://api.deepgram.com/v1/listen",
		model:      model,
		sampleRate: sampleRate,
	}
}

func (t *DeepgramTranscriber) Name() string { return "deepgram" }

// deepgramReply is the slice of Deepgram's response envelope this client
// cares about.
type deepgramReply struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// transcript returns the first non-empty alternative across channels; the
// capture is mono so there is normally exactly one of each, but a missing
// or empty level must not panic.
func (r *deepgramReply) transcript() string {
	for _, ch := range r.Results.Channels {
		for _, alt := range ch.Alternatives {
			if alt.Transcript != "" {
				return alt.Transcript
			}
		}
	}
	return ""
}

func (t *DeepgramTranscriber) Transcribe(ctx context.Context, pcm []byte, language string) (string, error) {
	query := url.Values{
		"model":        {t.model},
		"smart_format": {"true"},
	}
	if language != "" {
		query.Set("language", language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url+"?"+query.Encode(), bytes.NewReader(pcm))
	if err != nil {
		return "", fmt.Errorf("asr: deepgram: %w", err)
	}
	req.Header.Set("Authorization", "Token "+t.apiKey)
	req.Header.Set("Content-Type", fmt.Sprintf("audio/l16; rate=%d; channels=1", t.sampleRate))

	var reply deepgramReply
	if err := sendJSON(req, "deepgram", &reply); err != nil {
		return "", err
	}
	return reply.transcript(), nil
}
