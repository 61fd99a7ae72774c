package asr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// sendJSON executes req with the default client, enforces a 2xx status, and
// decodes the JSON response body into out (skipped when out is nil). Every
// batch provider funnels its round trips through here so error messages
// carry the provider name and a bounded excerpt of the failure body —
// enough to attribute a bad key or quota error from the log line alone.
func sendJSON(req *http.Request, provider string, out interface{}) error {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("asr: %s: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("asr: %s returned status %d: %s", provider, resp.StatusCode, bytes.TrimSpace(detail))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("asr: %s: decoding response: %w", provider, err)
	}
	return nil
}
