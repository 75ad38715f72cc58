// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis audio file decoding.
//
// This package uses github.com/jfreymuth/oggvorbis to decode Ogg Vorbis files.
// Vorbis is a free, open-source lossy audio compression format.
//
// Decoder is an audio.Demuxer with one float track carrying the channels
// and rate of the file. Units hold up to FrameLen samples.
//
//	registry.Register(vorbis.Format, vorbis.Decoder{})
//	registry.Register("oga", vorbis.Decoder{})
//
// Ask the decode stage for another sample format to get integers:
//
//	audio.Options{"filename": "in.ogg", "sampleformat": "s16"}
package vorbis
