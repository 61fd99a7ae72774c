package asr

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// StreamingWSTranscriber is a websocket-based StreamingTranscriber with a
// lazy-dial, mutex-guarded connection lifecycle: dial once on first use,
// stream binary audio frames out, decode JSON transcript frames back in.
type StreamingWSTranscriber struct {
	apiKey string
	host   string

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewStreamingWSTranscriber(apiKey, host string) *StreamingWSTranscriber {
	if host == "" {
		host = "asr.lokutor.com"
	}
	return &StreamingWSTranscriber{apiKey: apiKey, host: host}
}

func (t *StreamingWSTranscriber) Name() string { return "realtime" }

func (t *StreamingWSTranscriber) getConn(ctx context.Context) (*websocket.Conn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn != nil {
		return t.conn, nil
	}

	u := url.URL{Scheme: "wss", Host: t.host, Path: "/ws/transcribe", RawQuery: "api_key=" + t.apiKey}
	conn, _, err := websocket.Dial(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("asr: failed to connect to realtime transcriber: %w", err)
	}
	t.conn = conn
	return conn, nil
}

type streamFrame struct {
	Transcript string `json:"transcript"`
	IsFinal    bool   `json:"is_final"`
}

// StreamTranscribe dials (if needed), then spawns a writer goroutine that
// forwards PCM chunks as binary frames and a reader goroutine that decodes
// {transcript, is_final} JSON frames via wsjson.Read into PartialResults.
// The caller owns the chunks channel and closes it to end the stream;
// results closes when the stream ends, ctx is cancelled, or the connection
// errors.
func (t *StreamingWSTranscriber) StreamTranscribe(ctx context.Context, sampleRate int) (chan<- []byte, <-chan PartialResult, error) {
	conn, err := t.getConn(ctx)
	if err != nil {
		return nil, nil, err
	}

	chunks := make(chan []byte, 8)
	results := make(chan PartialResult, 8)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case chunk, ok := <-chunks:
				if !ok {
					return
				}
				if err := conn.Write(ctx, websocket.MessageBinary, chunk); err != nil {
					t.invalidateConn()
					return
				}
			}
		}
	}()

	go func() {
		defer close(results)
		for {
			var frame streamFrame
			if err := wsjson.Read(ctx, conn, &frame); err != nil {
				t.invalidateConn()
				return
			}
			select {
			case results <- PartialResult{Transcript: frame.Transcript, IsFinal: frame.IsFinal}:
			case <-ctx.Done():
				return
			}
			if frame.IsFinal {
				return
			}
		}
	}()

	return chunks, results, nil
}

func (t *StreamingWSTranscriber) invalidateConn() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn != nil {
		t.conn.Close(websocket.StatusAbnormalClosure, "stream ended")
		t.conn = nil
	}
}

// Transcribe implements the batch Transcriber interface atop the streaming
// connection: it writes the whole PCM buffer as one chunk, then blocks for
// the first final result.
func (t *StreamingWSTranscriber) Transcribe(ctx context.Context, pcm []byte, _ string) (string, error) {
	chunks, results, err := t.StreamTranscribe(ctx, 48000)
	if err != nil {
		return "", err
	}

	select {
	case chunks <- pcm:
		close(chunks)
	case <-ctx.Done():
		return "", ctx.Err()
	}

	for {
		select {
		case r, ok := <-results:
			if !ok {
				return "", fmt.Errorf("asr: realtime stream closed before a final result")
			}
			if r.IsFinal {
				return r.Transcript, nil
			}
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// Close releases the underlying websocket connection, if open.
func (t *StreamingWSTranscriber) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn != nil {
		err := t.conn.Close(websocket.StatusNormalClosure, "")
		t.conn = nil
		return err
	}
	return nil
}
