package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWhisperTranscribeSendsModelLanguageAndWav(t *testing.T) {
	var gotModel, gotLanguage string
	var gotFile []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization header = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		gotModel = r.FormValue("model")
		gotLanguage = r.FormValue("language")
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		defer file.Close()
		gotFile, _ = io.ReadAll(file)
		json.NewEncoder(w).Encode(map[string]string{"text": "hello world"})
	}))
	defer srv.Close()

	s := NewGroqTranscriber("test-key", "", 48000)
	s.url = srv.URL

	pcm := make([]byte, 100)
	text, err := s.Transcribe(context.Background(), pcm, "en")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "hello world" {
		t.Errorf("text = %q, want %q", text, "hello world")
	}
	if gotModel != "whisper-large-v3-turbo" {
		t.Errorf("model field = %q, want the groq default", gotModel)
	}
	if gotLanguage != "en" {
		t.Errorf("language field = %q, want en", gotLanguage)
	}
	if !bytes.HasPrefix(gotFile, []byte("RIFF")) {
		t.Error("uploaded file must be WAV-wrapped")
	}
	if len(gotFile) != 44+len(pcm) {
		t.Errorf("uploaded file is %d bytes, want %d", len(gotFile), 44+len(pcm))
	}
}

func TestWhisperTranscribeOmitsEmptyLanguage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		if _, present := r.MultipartForm.Value["language"]; present {
			t.Error("language field must be absent when none is configured")
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "ok"})
	}))
	defer srv.Close()

	s := NewOpenAITranscriber("k", "", 48000)
	s.url = srv.URL
	if _, err := s.Transcribe(context.Background(), make([]byte, 10), ""); err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
}

func TestWhisperTranscribeErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid api key"})
	}))
	defer srv.Close()

	s := NewGroqTranscriber("bad-key", "", 48000)
	s.url = srv.URL

	_, err := s.Transcribe(context.Background(), make([]byte, 10), "")
	if err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}

func TestWhisperProviderDefaults(t *testing.T) {
	tests := []struct {
		name      string
		got       *WhisperTranscriber
		wantModel string
	}{
		{"groq", NewGroqTranscriber("k", "", 48000), "whisper-large-v3-turbo"},
		{"openai", NewOpenAITranscriber("k", "", 48000), "whisper-1"},
		{"explicit model wins", NewGroqTranscriber("k", "custom", 48000), "custom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.model != tt.wantModel {
				t.Errorf("model = %q, want %q", tt.got.model, tt.wantModel)
			}
		})
	}
	if got := NewGroqTranscriber("k", "", 48000).Name(); got != "groq" {
		t.Errorf("Name() = %q, want groq", got)
	}
	if got := NewOpenAITranscriber("k", "", 48000).Name(); got != "openai" {
		t.Errorf("Name() = %q, want openai", got)
	}
}
