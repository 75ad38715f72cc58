// SPDX-License-Identifier: EPL-2.0

// Package pcm converts raw PCM buffers between sample representations.
//
// Five formats are supported, all little-endian:
//
//	u8   unsigned 8-bit, zero point 0x80
//	s16  signed 16-bit
//	s32  signed 32-bit
//	flt  32-bit IEEE-754 float, nominal range [-1, 1)
//	dbl  64-bit IEEE-754 float, nominal range [-1, 1)
//
// Conversion is defined for every ordered pair:
//
//	// 16-bit PCM to float
//	f := pcm.Convert(pcm.Float, data, pcm.S16)
//
//	// and back, rounding to nearest and saturating
//	s := pcm.Convert(pcm.S16, f, pcm.Float)
//
// Integer to integer conversions shift by the width difference. Integer to
// float divides by the full scale (2^15 for s16). Float to integer multiplies
// by the full scale, rounds to the nearest integer and clips, so 1.0 becomes
// 32767 and -1.5 becomes -32768 in s16.
//
// Layout helpers move between interleaved buffers (channels cycle fastest)
// and planar buffers (one slice per channel):
//
//	planes := pcm.Deinterleave(data, pcm.S16.Width(), 2)
//	data, _ = pcm.Interleave(planes, pcm.S16.Width())
//
// DeinterleaveFloat and InterleaveFloat combine the transpose with a
// conversion to or from float32, which is what the mixing stages work on.
package pcm
