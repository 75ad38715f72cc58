// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/formats/intpcm"
)

// Format is the name the demuxer is registered under. The ".aif" extension
// is registered as well by the default registry.
const Format = "aiff"

// Decoder demuxes big-endian integer PCM AIFF files.
type Decoder struct{}

func (Decoder) Demux(r io.Reader) (audio.Container, error) {
	// go-audio needs to seek between chunks
	rs, err := intpcm.Seekable(r)
	if err != nil {
		return nil, fmt.Errorf("reading aiff data: %w", err)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil {
		return nil, ErrUnsupportedAiffLayout
	}
	if dec.BitDepth < 8 || dec.BitDepth > 32 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	c, err := intpcm.NewContainer(dec, intpcm.Stream{
		Codec:      "pcm_aiff",
		SampleRate: format.SampleRate,
		Channels:   format.NumChannels,
		BitDepth:   int(dec.BitDepth),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedAiffLayout, err)
	}
	return c, nil
}
