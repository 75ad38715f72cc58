// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"encoding/binary"
	"math"

	"github.com/ik5/audpipe/utils"
)

// Len returns the number of whole single-channel samples held by data.
func Len(data []byte, f Format) int {
	if !f.Valid() {
		return 0
	}
	return len(data) / f.Width()
}

// Size returns the number of bytes needed to hold n samples of format f.
func Size(n int, f Format) int { return n * f.Width() }

// Convert returns a new buffer holding src converted from srcFmt to dstFmt.
// Trailing bytes that do not form a whole sample are ignored.
func Convert(dstFmt Format, src []byte, srcFmt Format) []byte {
	dst := make([]byte, Size(Len(src, srcFmt), dstFmt))
	ConvertInto(dst, dstFmt, src, srcFmt)
	return dst
}

// ConvertInto converts src into dst and returns the number of bytes written.
// dst must hold at least Size(Len(src, srcFmt), dstFmt) bytes.
//
// Integer to integer conversions shift by the width difference, U8 carrying a
// 0x80 zero point. Integer to float divides by the full scale 2^(bits-1).
// Float to integer multiplies by the full scale, rounds to nearest and
// saturates.
func ConvertInto(dst []byte, dstFmt Format, src []byte, srcFmt Format) int {
	n := Len(src, srcFmt)
	if !dstFmt.Valid() || n == 0 {
		return 0
	}
	if dstFmt == srcFmt {
		return copy(dst, src[:Size(n, srcFmt)])
	}

	dw := dstFmt.Width()
	switch {
	case srcFmt.IsFloat() && dstFmt.IsFloat():
		for i := range n {
			putFloat(dst[i*dw:], dstFmt, getFloat(src, srcFmt, i))
		}
	case srcFmt.IsFloat():
		bits := dstFmt.Bits()
		for i := range n {
			putInt(dst[i*dw:], dstFmt, utils.FloatToInt(getFloat(src, srcFmt, i), bits))
		}
	case dstFmt.IsFloat():
		scale := utils.FullScale(srcFmt.Bits())
		for i := range n {
			putFloat(dst[i*dw:], dstFmt, float64(getInt(src, srcFmt, i))/scale)
		}
	default:
		sb, db := srcFmt.Bits(), dstFmt.Bits()
		for i := range n {
			v := getInt(src, srcFmt, i)
			if db > sb {
				v <<= uint(db - sb)
			} else {
				v >>= uint(sb - db)
			}
			putInt(dst[i*dw:], dstFmt, v)
		}
	}
	return Size(n, dstFmt)
}

// SampleFloat decodes the i-th sample of data as a value in [-1, 1).
func SampleFloat(data []byte, f Format, i int) float64 {
	if f.IsFloat() {
		return getFloat(data, f, i)
	}
	return float64(getInt(data, f, i)) / utils.FullScale(f.Bits())
}

// PutSampleFloat encodes x as the i-th sample of data.
func PutSampleFloat(data []byte, f Format, i int, x float64) {
	off := i * f.Width()
	if f.IsFloat() {
		putFloat(data[off:], f, x)
		return
	}
	putInt(data[off:], f, utils.FloatToInt(x, f.Bits()))
}

// getInt returns the i-th sample as a signed value in the format's own range.
func getInt(data []byte, f Format, i int) int64 {
	switch f {
	case U8:
		return int64(data[i]) - 0x80
	case S16:
		return int64(int16(binary.LittleEndian.Uint16(data[i*2:])))
	case S32:
		return int64(int32(binary.LittleEndian.Uint32(data[i*4:])))
	}
	return 0
}

func putInt(b []byte, f Format, v int64) {
	switch f {
	case U8:
		b[0] = byte(utils.Saturate(v, 8) + 0x80)
	case S16:
		binary.LittleEndian.PutUint16(b, uint16(int16(utils.Saturate(v, 16))))
	case S32:
		binary.LittleEndian.PutUint32(b, uint32(int32(utils.Saturate(v, 32))))
	}
}

func getFloat(data []byte, f Format, i int) float64 {
	if f == Double {
		return math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
	}
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:])))
}

func putFloat(b []byte, f Format, x float64) {
	if f == Double {
		binary.LittleEndian.PutUint64(b, math.Float64bits(x))
		return
	}
	binary.LittleEndian.PutUint32(b, math.Float32bits(float32(x)))
}
