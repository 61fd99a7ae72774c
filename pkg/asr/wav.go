package asr

import "encoding/binary"

// wavEncode wraps the recorder's mono 16-bit little-endian PCM in the
// 44-byte RIFF header the upload endpoints expect. The layout is written by
// offset into one allocation; there is nothing configurable here beyond the
// sample rate because the capture format is fixed upstream.
func wavEncode(pcm []byte, sampleRate int) []byte {
	out := make([]byte, 44+len(pcm))
	le := binary.LittleEndian

	copy(out[0:4], "RIFF")
	le.PutUint32(out[4:8], uint32(36+len(pcm)))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	le.PutUint32(out[16:20], 16) // PCM fmt chunk size
	le.PutUint16(out[20:22], 1)  // linear PCM
	le.PutUint16(out[22:24], 1)  // mono
	le.PutUint32(out[24:28], uint32(sampleRate))
	le.PutUint32(out[28:32], uint32(sampleRate*2)) // byte rate
	le.PutUint16(out[32:34], 2)                    // frame size
	le.PutUint16(out[34:36], 16)                   // sample depth

	copy(out[36:40], "data")
	le.PutUint32(out[40:44], uint32(len(pcm)))
	copy(out[44:], pcm)

	return out
}
