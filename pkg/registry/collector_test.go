package registry

import "testing"

func silenceChunk(size int) []byte {
	return make([]byte, size)
}

func speechChunk(value byte, size int) []byte {
	out := make([]byte, size)
	for i := range out {
		out[i] = value
	}
	return out
}

// Collector tests use sampleRate=100: pre-speech context caps at 200 bytes
// (1s), post-speech completion needs 400 bytes (2s) of trailing silence.

func TestCollectorSilenceOnlyNeverEmits(t *testing.T) {
	c := NewSmartCollector(100)
	for i := 0; i < 10; i++ {
		if seg := c.ProcessChunk(silenceChunk(100)); seg != nil {
			t.Fatalf("chunk %d: pure silence must never produce a segment", i)
		}
	}
}

func TestCollectorTrimsPreSpeechContextToOneSecond(t *testing.T) {
	c := NewSmartCollector(100)
	for i := 0; i < 10; i++ {
		c.ProcessChunk(silenceChunk(100))
	}
	if got := sumLens(c.preSpeechBuffer); got > 200 {
		t.Fatalf("pre-speech buffer holds %d bytes, want <= 200", got)
	}
}

func TestCollectorEmitsPreSpeechPlusPostOnTrailingSilence(t *testing.T) {
	c := NewSmartCollector(100)

	c.ProcessChunk(silenceChunk(100)) // becomes pre-speech context
	c.ProcessChunk(speechChunk(0x20, 100))
	c.ProcessChunk(silenceChunk(200))
	seg := c.ProcessChunk(silenceChunk(200)) // post-speech reaches 2s here

	if seg == nil {
		t.Fatal("expected a completed segment once 2s of trailing silence accumulated")
	}
	want := 100 + 100 + 400
	if len(seg) != want {
		t.Fatalf("segment length = %d, want %d (pre + speech + post)", len(seg), want)
	}
	// pre-context first, then the speech bytes, then the trailing silence.
	if seg[0] != 0 || seg[100] != 0x20 || seg[200] != 0 {
		t.Fatalf("segment layout wrong: seg[0]=%d seg[100]=%d seg[200]=%d", seg[0], seg[100], seg[200])
	}
	if c.speechDetected || len(c.accumulatedSpeech) != 0 {
		t.Fatal("expected the collector to reset after emitting a segment")
	}
}

func TestCollectorResumedSpeechDiscardsInterimSilence(t *testing.T) {
	c := NewSmartCollector(100)

	c.ProcessChunk(speechChunk(0x20, 100))
	c.ProcessChunk(silenceChunk(200)) // not enough to complete
	if seg := c.ProcessChunk(speechChunk(0x20, 100)); seg != nil {
		t.Fatal("resumed speech must not complete the segment")
	}
	if c.silenceStarted {
		t.Fatal("resumed speech must clear the silence marker")
	}
	if got := sumLens(c.postSpeechBuffer); got != 0 {
		t.Fatalf("resumed speech must clear the post-speech buffer, %d bytes remain", got)
	}
	if len(c.accumulatedSpeech) != 200 {
		t.Fatalf("accumulated speech = %d bytes, want 200", len(c.accumulatedSpeech))
	}
}

func TestCollectorExtractFinalSegmentMidUtterance(t *testing.T) {
	c := NewSmartCollector(100)

	c.ProcessChunk(speechChunk(0x20, 100))
	seg := c.ExtractFinalSegment()
	if len(seg) != 100 {
		t.Fatalf("expected the accumulated speech to flush, got %d bytes", len(seg))
	}
	if c.ExtractFinalSegment() != nil {
		t.Fatal("a second extract must find nothing")
	}
}

func TestCollectorResetDiscardsInFlightSegment(t *testing.T) {
	c := NewSmartCollector(100)

	c.ProcessChunk(speechChunk(0x20, 100))
	c.Reset()
	if c.ExtractFinalSegment() != nil {
		t.Fatal("Reset must discard the in-flight segment")
	}
}

func TestCalculateRMSQuietVsLoud(t *testing.T) {
	if rms := calculateRMS(silenceChunk(64)); rms >= speechRMSThreshold {
		t.Fatalf("silence RMS = %f, want below threshold", rms)
	}
	if rms := calculateRMS(speechChunk(0x20, 64)); rms < speechRMSThreshold {
		t.Fatalf("loud chunk RMS = %f, want at or above threshold", rms)
	}
}
