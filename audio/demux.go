// SPDX-License-Identifier: EPL-2.0

package audio

import "io"

// TrackType tells audio tracks apart from anything else a container holds.
type TrackType int

const (
	TrackAudio TrackType = iota
	TrackOther
)

// Track is one elementary stream of a container.
type Track struct {
	Index int
	Type  TrackType
	// Info is the native PCM layout the track decodes to. Only meaningful
	// for audio tracks.
	Info Info
}

// Unit is one demuxed packet of compressed (or raw) data.
type Unit struct {
	Track   int
	Data    []byte
	Payload any // backend specific decoded state
}

// Demuxer opens a container from an input stream.
type Demuxer interface {
	Demux(r io.Reader) (Container, error)
}

// Container yields the units of every track in stream order.
type Container interface {
	Tracks() []Track
	// ReadUnit returns the next unit. io.EOF ends the stream.
	ReadUnit() (*Unit, error)
	// Decoder opens a decoder for an audio track.
	Decoder(track int) (UnitDecoder, error)
	Close() error
}

// UnitDecoder turns units into interleaved samples in the track's native
// format. Errors wrapping ErrCorruptUnit only affect the unit at hand.
type UnitDecoder interface {
	DecodeUnit(u *Unit) ([]byte, error)
	Close() error
}

// DemuxerFunc adapts a function to Demuxer.
type DemuxerFunc func(r io.Reader) (Container, error)

func (f DemuxerFunc) Demux(r io.Reader) (Container, error) { return f(r) }
