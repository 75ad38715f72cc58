// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// This package uses github.com/hajimehoshi/go-mp3 to decode MP3 files.
// Decoder is an audio.Demuxer whose single track is always 16-bit stereo,
// handed out one 1152-sample frame per unit.
//
//	registry.Register(mp3.Format, mp3.Decoder{})
//
// To convert to mono or resample, append stages to the chain:
//
//	chain, _ := audio.Open(env, "decode", audio.Options{"filename": "in.mp3"})
//	_ = chain.Append("mono", nil)
//	_ = chain.Append("resample", audio.Options{"rate": "8000"})
//
// MP3 writing is not supported.
package mp3
