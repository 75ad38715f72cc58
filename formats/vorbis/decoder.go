// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/pcm"
)

// Format is the name the demuxer is registered under.
const Format = "ogg"

// FrameLen is the number of samples read per unit.
const FrameLen = 2048

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	// Read fills p with interleaved values and returns how many it wrote.
	Read(p []float32) (int, error)
}

type container struct {
	dec  oggReader
	info audio.Info
	buf  []float32
	done bool
}

type Decoder struct{}

func (Decoder) Demux(r io.Reader) (audio.Container, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return newContainer(dec)
}

func newContainer(dec oggReader) (*container, error) {
	if dec.SampleRate() <= 0 || dec.Channels() <= 0 {
		return nil, fmt.Errorf("vorbis: invalid stream %d Hz %d channels", dec.SampleRate(), dec.Channels())
	}
	return &container{
		dec:  dec,
		info: audio.NewInfo("vorbis", dec.SampleRate(), dec.Channels(), pcm.Float, FrameLen),
		buf:  make([]float32, FrameLen*dec.Channels()),
	}, nil
}

func (c *container) Tracks() []audio.Track {
	return []audio.Track{{Index: 0, Type: audio.TrackAudio, Info: c.info}}
}

// ReadUnit decodes up to FrameLen samples. The Ogg pages are demuxed and
// decoded together inside oggvorbis, so units already hold PCM.
func (c *container) ReadUnit() (*audio.Unit, error) {
	if c.done {
		return nil, io.EOF
	}

	n, err := c.dec.Read(c.buf)
	switch {
	case errors.Is(err, io.EOF):
		c.done = true
	case err != nil:
		return nil, fmt.Errorf("vorbis: %w", err)
	}
	if n == 0 && c.done {
		return nil, io.EOF
	}

	data := make([]byte, 4*n)
	for i, v := range c.buf[:n] {
		binary.LittleEndian.PutUint32(data[4*i:], math.Float32bits(v))
	}
	return &audio.Unit{Track: 0, Data: data}, nil
}

func (c *container) Decoder(track int) (audio.UnitDecoder, error) {
	if track != 0 {
		return nil, fmt.Errorf("%w: track %d", audio.ErrTrack, track)
	}
	return passthrough{}, nil
}

func (c *container) Close() error { return nil }

type passthrough struct{}

func (passthrough) DecodeUnit(u *audio.Unit) ([]byte, error) { return u.Data, nil }

func (passthrough) Close() error { return nil }
