// SPDX-License-Identifier: EPL-2.0

// Package audpipe wires the audio chain to the bundled container formats.
//
// The audio subpackage holds the chain itself: a decode source stage that
// serves arbitrary forward-moving sample ranges out of a sliding cache,
// followed by filter and sink stages. This package adds a registry that
// knows every supported format and a few helpers for the common cases.
//
// # Supported Formats
//
//   - WAV (8, 16, 24 and 32-bit PCM) via formats/wav
//   - AIFF via formats/aiff
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - FLAC via formats/flac
//
// # Quick Start
//
//	chain, err := audpipe.OpenFile(audpipe.NewEnv(nil, nil), "audio.flac", nil)
//	if err != nil {
//	    return err
//	}
//	defer chain.Close()
//
//	// 8kHz mono, 16-bit PCM
//	samples, rate, err := audpipe.ResampleToMono16(chain, 8000, 4096)
//
// # Building Chains
//
// For more control, append stages by kind:
//
//	chain.Append("mono", nil)
//	chain.Append("resample", audio.Options{"rate": "16000"})
//	chain.Append("wav", audio.Options{"filename": "out.wav"})
//
//	n, err := audpipe.Drain(chain, 4096, nil)
//
// Every stage kind is listed by DefaultRegistry().Kinds().
package audpipe
