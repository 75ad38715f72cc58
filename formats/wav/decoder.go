// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/formats/intpcm"
)

// Format is the name the demuxer is registered under.
const Format = "wav"

const (
	formatPCM        = 1
	formatExtensible = 0xfffe
)

// Decoder demuxes integer PCM WAV files.
type Decoder struct{}

func (Decoder) Demux(r io.Reader) (audio.Container, error) {
	rs, err := intpcm.Seekable(r)
	if err != nil {
		return nil, err
	}

	d := gowav.NewDecoder(rs)
	if !d.IsValidFile() {
		if err := d.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
		}
		return nil, ErrNotWavFile
	}

	if d.WavAudioFormat != formatPCM && d.WavAudioFormat != formatExtensible {
		return nil, fmt.Errorf("%w: format tag %#x", ErrUnsupportedWavLayout, d.WavAudioFormat)
	}
	switch d.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, d.BitDepth)
	}

	c, err := intpcm.NewContainer(d, intpcm.Stream{
		Codec:      "pcm_wav",
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
		Unsigned8:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}
	return c, nil
}
