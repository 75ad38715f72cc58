// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"fmt"
	"strings"
)

// Format identifies the in-memory representation of one sample of one channel.
// All multi-byte formats are little-endian.
type Format int

const (
	FormatNone Format = iota
	U8
	S16
	S32
	Float
	Double
)

var formatNames = map[Format]string{
	U8:     "u8",
	S16:    "s16",
	S32:    "s32",
	Float:  "flt",
	Double: "dbl",
}

// Width returns the byte width of a single sample, or 0 for an unknown format.
func (f Format) Width() int {
	switch f {
	case U8:
		return 1
	case S16:
		return 2
	case S32, Float:
		return 4
	case Double:
		return 8
	}
	return 0
}

// Bits returns the bit width of a single sample.
func (f Format) Bits() int { return f.Width() * 8 }

// IsFloat reports whether samples are stored as IEEE-754 values.
func (f Format) IsFloat() bool { return f == Float || f == Double }

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool { return f.Width() > 0 }

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// ParseFormat maps a short name (u8, s16, s32, flt, dbl) to a Format.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	switch name {
	case "float", "f32":
		return Float, nil
	case "double", "f64":
		return Double, nil
	}
	return FormatNone, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// ForBits returns the narrowest integer format able to carry samples of the
// given bit depth, and the left shift that aligns them to its full scale.
func ForBits(bits int) (Format, uint, error) {
	switch {
	case bits <= 0 || bits > 32:
		return FormatNone, 0, fmt.Errorf("%w: %d bits", ErrUnsupportedDepth, bits)
	case bits <= 8:
		return U8, uint(8 - bits), nil
	case bits <= 16:
		return S16, uint(16 - bits), nil
	default:
		return S32, uint(32 - bits), nil
	}
}
