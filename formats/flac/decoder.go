// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/formats/intpcm"
	"github.com/ik5/audpipe/pcm"
)

// Format is the name the demuxer is registered under.
const Format = "flac"

// ErrNotFlacFile indicates the input has no FLAC signature or stream info.
var ErrNotFlacFile = errors.New("not a FLAC file")

type Decoder struct{}

func (Decoder) Demux(r io.Reader) (audio.Container, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}

	si := stream.Info
	f, shift, err := pcm.ForBits(int(si.BitsPerSample))
	if err != nil {
		return nil, fmt.Errorf("flac: %w", err)
	}
	info := audio.NewInfo("flac", int(si.SampleRate), int(si.NChannels), f, int(si.BlockSizeMax))
	if err := info.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}

	return &container{
		stream: stream,
		info:   info,
		shift:  shift,
	}, nil
}

// container reads FLAC frames. ReadUnit parses a whole frame, since the
// next header can only be found once the subframes are consumed. A frame
// whose CRC-16 does not match is still handed out and fails in DecodeUnit.
type container struct {
	stream *flac.Stream
	info   audio.Info
	shift  uint
}

func (c *container) Tracks() []audio.Track {
	return []audio.Track{{Index: 0, Type: audio.TrackAudio, Info: c.info}}
}

type badFrame struct{ err error }

func (c *container) ReadUnit() (*audio.Unit, error) {
	f, err := c.stream.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("flac: %w", err)
	}

	if err := f.Parse(); err != nil {
		if !isChecksum(err) {
			return nil, fmt.Errorf("flac: frame %d: %w", f.Num, err)
		}
		return &audio.Unit{Track: 0, Payload: badFrame{err: err}}, nil
	}
	return &audio.Unit{Track: 0, Payload: f}, nil
}

func isChecksum(err error) bool {
	return strings.Contains(err.Error(), "checksum mismatch")
}

func (c *container) Decoder(track int) (audio.UnitDecoder, error) {
	if track != 0 {
		return nil, fmt.Errorf("%w: track %d", audio.ErrTrack, track)
	}
	return &decoder{f: c.info.Format, shift: c.shift, channels: c.info.Channels}, nil
}

// Close leaves the input to its owner.
func (c *container) Close() error { return nil }

type decoder struct {
	f        pcm.Format
	shift    uint
	channels int
	ints     []int
}

func (d *decoder) DecodeUnit(u *audio.Unit) ([]byte, error) {
	switch p := u.Payload.(type) {
	case *frame.Frame:
		return d.pack(p)
	case badFrame:
		return nil, fmt.Errorf("%w: %w", audio.ErrCorruptUnit, p.err)
	}
	return nil, fmt.Errorf("%w: unexpected payload %T", audio.ErrCorruptUnit, u.Payload)
}

// pack interleaves the subframes of f.
func (d *decoder) pack(f *frame.Frame) ([]byte, error) {
	if len(f.Subframes) != d.channels {
		return nil, fmt.Errorf("%w: frame %d has %d channels, stream has %d",
			audio.ErrCorruptUnit, f.Num, len(f.Subframes), d.channels)
	}

	n := int(f.BlockSize)
	for ch, sub := range f.Subframes {
		if len(sub.Samples) < n {
			return nil, fmt.Errorf("%w: frame %d channel %d holds %d of %d samples",
				audio.ErrCorruptUnit, f.Num, ch, len(sub.Samples), n)
		}
	}

	if cap(d.ints) < n*d.channels {
		d.ints = make([]int, n*d.channels)
	}
	ints := d.ints[:n*d.channels]
	for i := range n {
		for ch, sub := range f.Subframes {
			ints[i*d.channels+ch] = int(sub.Samples[i])
		}
	}
	return intpcm.Pack(ints, d.f, d.shift, false), nil
}

func (d *decoder) Close() error { return nil }
