// SPDX-License-Identifier: EPL-2.0

// Package intpcm adapts go-audio style PCM readers, which hand out
// interleaved ints, to the audio container interfaces.
package intpcm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/pcm"
	"github.com/ik5/audpipe/utils"
)

// FrameLen is the number of samples read per unit.
const FrameLen = 4096

// Reader is implemented by the go-audio wav and aiff decoders.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Stream describes the PCM a Reader produces.
type Stream struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
	// Unsigned8 marks 8-bit samples stored 0..255 instead of -128..127.
	Unsigned8 bool
}

// Container serves a single PCM track read through a Reader.
type Container struct {
	r      Reader
	info   audio.Info
	stream Stream
	shift  uint
	buf    *goaudio.IntBuffer
	done   bool
}

// NewContainer validates s and wraps r.
func NewContainer(r Reader, s Stream) (*Container, error) {
	if s.SampleRate <= 0 || s.Channels <= 0 {
		return nil, fmt.Errorf("%s: invalid stream %d Hz %d channels", s.Codec, s.SampleRate, s.Channels)
	}
	f, shift, err := pcm.ForBits(s.BitDepth)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Codec, err)
	}

	return &Container{
		r:      r,
		info:   audio.NewInfo(s.Codec, s.SampleRate, s.Channels, f, FrameLen),
		stream: s,
		shift:  shift,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: s.Channels, SampleRate: s.SampleRate},
			Data:           make([]int, FrameLen*s.Channels),
			SourceBitDepth: s.BitDepth,
		},
	}, nil
}

func (c *Container) Tracks() []audio.Track {
	return []audio.Track{{Index: 0, Type: audio.TrackAudio, Info: c.info}}
}

// ReadUnit reads up to FrameLen samples. The ints travel in Payload.
func (c *Container) ReadUnit() (*audio.Unit, error) {
	if c.done {
		return nil, io.EOF
	}

	c.buf.Data = c.buf.Data[:cap(c.buf.Data)]
	n, err := c.r.PCMBuffer(c.buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("%s: %w", c.stream.Codec, err)
	}
	if err != nil || n < len(c.buf.Data) {
		c.done = true
	}
	if n == 0 {
		return nil, io.EOF
	}

	return &audio.Unit{Track: 0, Payload: append([]int(nil), c.buf.Data[:n]...)}, nil
}

func (c *Container) Decoder(track int) (audio.UnitDecoder, error) {
	if track != 0 {
		return nil, fmt.Errorf("%w: track %d", audio.ErrTrack, track)
	}
	return &decoder{f: c.info.Format, shift: c.shift, unsigned: c.stream.Unsigned8}, nil
}

func (c *Container) Close() error { return nil }

type decoder struct {
	f        pcm.Format
	shift    uint
	unsigned bool
}

// DecodeUnit packs the ints of a unit into little-endian samples, aligned
// to the full scale of the native format.
func (d *decoder) DecodeUnit(u *audio.Unit) ([]byte, error) {
	ints, ok := u.Payload.([]int)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected payload %T", audio.ErrCorruptUnit, u.Payload)
	}
	return Pack(ints, d.f, d.shift, d.unsigned), nil
}

func (d *decoder) Close() error { return nil }

// Pack converts ints of a bit depth aligned by shift into samples of f.
func Pack(ints []int, f pcm.Format, shift uint, unsigned8 bool) []byte {
	out := make([]byte, len(ints)*f.Width())
	for i, v := range ints {
		switch f {
		case pcm.U8:
			s := int64(v)
			if unsigned8 {
				s -= 0x80
			}
			out[i] = byte(utils.Saturate(s<<shift, 8) + 0x80)
		case pcm.S16:
			binary.LittleEndian.PutUint16(out[2*i:], uint16(utils.Saturate(int64(v)<<shift, 16)))
		case pcm.S32:
			binary.LittleEndian.PutUint32(out[4*i:], uint32(utils.Saturate(int64(v)<<shift, 32)))
		}
	}
	return out
}

// Seekable returns r when it can seek, and otherwise reads it into memory.
// The go-audio decoders need to seek between chunks.
func Seekable(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return bytes.NewReader(data), nil
}
