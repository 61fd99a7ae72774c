package asr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const deepgramReplyJSON = `{"results":{"channels":[{"alternatives":[{"transcript":"dictated text"}]}]}}`

func TestDeepgramTranscribeSendsRawPCMWithQueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Token dg-key" {
			t.Errorf("Authorization header = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "audio/l16; rate=48000; channels=1" {
			t.Errorf("Content-Type = %q", got)
		}
		q := r.URL.Query()
		if q.Get("model") != "nova-2" {
			t.Errorf("model param = %q, want nova-2", q.Get("model"))
		}
		if q.Get("language") != "en" {
			t.Errorf("language param = %q, want en", q.Get("language"))
		}
		w.Write([]byte(deepgramReplyJSON))
	}))
	defer srv.Close()

	s := NewDeepgramTranscriber("dg-key", "", 48000)
	s.url = srv.URL

	text, err := s.Transcribe(context.Background(), make([]byte, 32), "en")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "dictated text" {
		t.Errorf("text = %q, want %q", text, "dictated text")
	}
}

func TestDeepgramTranscribeEmptyEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":{"channels":[]}}`))
	}))
	defer srv.Close()

	s := NewDeepgramTranscriber("dg-key", "", 48000)
	s.url = srv.URL

	text, err := s.Transcribe(context.Background(), make([]byte, 8), "")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "" {
		t.Errorf("text = %q, want empty for a silent capture", text)
	}
}

func TestDeepgramTranscribeErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewDeepgramTranscriber("dg-key", "", 48000)
	s.url = srv.URL

	if _, err := s.Transcribe(context.Background(), make([]byte, 8), ""); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}
