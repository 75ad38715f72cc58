// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff to decode AIFF files.
// AIFF is Apple's standard audio file format, commonly used on macOS.
//
// Decoder is an audio.Demuxer producing one integer PCM track. Sample sizes
// from 8 to 32 bits are accepted and aligned to the top of the narrowest
// format that holds them: 8-bit files become u8, 12 and 16-bit files s16,
// 24 and 32-bit files s32.
//
//	registry.Register(aiff.Format, aiff.Decoder{})
//	registry.Register("aif", aiff.Decoder{})
//
// Inputs that cannot seek are read into memory first.
package aiff
