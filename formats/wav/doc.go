// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes PCM WAV files.
//
// Decoding goes through github.com/go-audio/wav. Decoder is an audio.Demuxer
// and produces a single track of 8, 16, 24 or 32-bit integer PCM. 8-bit
// files are unsigned and come out as u8, 24-bit files are aligned to the top
// of s32. IEEE float WAV files are rejected with ErrUnsupportedWavLayout.
//
//	registry.Register(wav.Format, wav.Decoder{})
//
// # Writing WAV Files
//
// SinkKind registers the "wav" stage, which writes the samples passing
// through a chain to a file:
//
//	chain.Append("wav", audio.Options{"filename": "out.wav", "bitdepth": "24"})
//
// Seekable outputs are encoded as packets arrive with the go-audio encoder.
// Other outputs, such as stdout, receive the whole file when the chain is
// closed.
//
// WriteWAV and WriteWAV16 write a canonical 44-byte header followed by the
// samples for callers that already hold the data:
//
//	samples := []int16{100, -100, 200, -200}
//	err := wav.WriteWAV16(file, 8000, samples)
package wav
