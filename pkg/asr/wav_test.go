package asr

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestWavEncodeHeaderFields(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	wav := wavEncode(pcm, 48000)

	if !bytes.HasPrefix(wav, []byte("RIFF")) {
		t.Error("expected RIFF prefix")
	}
	if string(wav[8:12]) != "WAVE" {
		t.Errorf("format identifier = %q, want WAVE", wav[8:12])
	}
	if len(wav) != 44+len(pcm) {
		t.Errorf("length = %d, want %d", len(wav), 44+len(pcm))
	}

	if got := binary.LittleEndian.Uint16(wav[22:24]); got != 1 {
		t.Errorf("channels = %d, want 1 (mono)", got)
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != 48000 {
		t.Errorf("sample rate = %d, want 48000", got)
	}
	if got := binary.LittleEndian.Uint16(wav[34:36]); got != 16 {
		t.Errorf("bits per sample = %d, want 16", got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != uint32(len(pcm)) {
		t.Errorf("data chunk size = %d, want %d", got, len(pcm))
	}
	if !bytes.Equal(wav[44:], pcm) {
		t.Error("payload bytes must follow the header unchanged")
	}
}

func TestWavEncodeEmptyPayload(t *testing.T) {
	wav := wavEncode(nil, 48000)
	if len(wav) != 44 {
		t.Errorf("empty payload should still produce a 44-byte header, got %d", len(wav))
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != 0 {
		t.Errorf("data chunk size = %d, want 0", got)
	}
}
