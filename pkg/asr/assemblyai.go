package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const assemblyAIPollInterval = 500 * time.Millisecond

// AssemblyAITranscriber drives the asynchronous upload -> submit -> poll
// flow. Unlike the single-request providers it needs three round trips per
// transcription, all funneled through one authenticated request helper.
type AssemblyAITranscriber struct {
	apiKey       string
	baseURL      string
	pollInterval time.Duration
}

func NewAssemblyAITranscriber(apiKey string) *AssemblyAITranscriber {
	return &AssemblyAITranscriber{
		apiKey:       apiKey,
		baseURL:      "https://api.assemblyai.com/v2",
		pollInterval: assemblyAIPollInterval,
	}
}

func (t *AssemblyAITranscriber) Name() string { return "assemblyai" }

func (t *AssemblyAITranscriber) Transcribe(ctx context.Context, pcm []byte, language string) (string, error) {
	var uploaded struct {
		UploadURL string `json:"upload_url"`
	}
	if err := t.request(ctx, http.MethodPost, "/upload", "", bytes.NewReader(pcm), &uploaded); err != nil {
		return "", err
	}
	if uploaded.UploadURL == "" {
		return "", fmt.Errorf("asr: assemblyai: upload returned no URL")
	}

	job := map[string]string{"audio_url": uploaded.UploadURL}
	if language != "" {
		job["language_code"] = language
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("asr: assemblyai: %w", err)
	}
	var submitted struct {
		ID string `json:"id"`
	}
	if err := t.request(ctx, http.MethodPost, "/transcript", "application/json", bytes.NewReader(payload), &submitted); err != nil {
		return "", err
	}
	if submitted.ID == "" {
		return "", fmt.Errorf("asr: assemblyai: submit returned no transcript id")
	}

	return t.waitForTranscript(ctx, submitted.ID)
}

// waitForTranscript polls the job until it settles; queued and processing
// states keep polling, and the caller's ctx bounds the total wait.
func (t *AssemblyAITranscriber) waitForTranscript(ctx context.Context, id string) (string, error) {
	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		var job struct {
			Status string `json:"status"`
			Text   string `json:"text"`
			Error  string `json:"error"`
		}
		if err := t.request(ctx, http.MethodGet, "/transcript/"+id, "", nil, &job); err != nil {
			return "", err
		}
		switch job.Status {
		case "completed":
			return job.Text, nil
		case "error":
			return "", fmt.Errorf("asr: assemblyai: transcription failed: %s", job.Error)
		}
	}
}

// request is the single authenticated round trip every step goes through.
func (t *AssemblyAITranscriber) request(ctx context.Context, method, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("asr: assemblyai: %w", err)
	}
	req.Header.Set("Authorization", t.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return sendJSON(req, "assemblyai", out)
}
