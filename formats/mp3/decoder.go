// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/pcm"
)

// Format is the name the demuxer is registered under.
const Format = "mp3"

const (
	// FrameLen is the number of samples in one MPEG-1 layer III frame.
	FrameLen = 1152
	// go-mp3 always produces 16-bit stereo
	channels = 2
	unitSize = FrameLen * channels * 2
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

// container hands out one decoded MP3 frame worth of PCM per unit. go-mp3
// does not expose its frames, so demuxing and decoding happen in ReadUnit
// and the unit decoder passes the bytes through.
type container struct {
	dec  mp3Reader
	info audio.Info
	done bool
}

type Decoder struct{}

func (Decoder) Demux(r io.Reader) (audio.Container, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return newContainer(dec)
}

func newContainer(dec mp3Reader) (*container, error) {
	if dec.SampleRate() <= 0 {
		return nil, fmt.Errorf("mp3: invalid sample rate %d", dec.SampleRate())
	}
	return &container{
		dec:  dec,
		info: audio.NewInfo("mp3", dec.SampleRate(), channels, pcm.S16, FrameLen),
	}, nil
}

func (c *container) Tracks() []audio.Track {
	return []audio.Track{{Index: 0, Type: audio.TrackAudio, Info: c.info}}
}

func (c *container) ReadUnit() (*audio.Unit, error) {
	if c.done {
		return nil, io.EOF
	}

	buf := make([]byte, unitSize)
	n, err := io.ReadFull(c.dec, buf)
	switch {
	case errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF):
		c.done = true
	case err != nil:
		return nil, fmt.Errorf("mp3: %w", err)
	}
	if n == 0 {
		return nil, io.EOF
	}
	return &audio.Unit{Track: 0, Data: buf[:n]}, nil
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
