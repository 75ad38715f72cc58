// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC files with github.com/mewkiz/flac.
//
// Decoder is an audio.Demuxer producing one integer track. Each unit is one
// FLAC frame, so FrameLen is the largest block size announced by the stream.
// Samples are aligned to the top of u8, s16 or s32 depending on the bit depth.
//
// A frame whose CRC-16 fails is reported with audio.ErrCorruptUnit, which the
// decode stage drops or turns fatal depending on its errors option. Damage to
// a frame header ends the stream.
package flac
