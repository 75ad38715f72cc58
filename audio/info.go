// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	"github.com/ik5/audpipe/pcm"
)

// Rational is a timebase expressed as Num/Den seconds.
type Rational struct {
	Num int
	Den int
}

// Common channel layout masks (WAVE_FORMAT_EXTENSIBLE speaker bits).
const (
	LayoutMono   uint64 = 0x4
	LayoutStereo uint64 = 0x3
)

// Info describes the PCM stream a stage produces. A stage gets its own copy
// of its predecessor's Info when it is appended and never shares it.
type Info struct {
	Codec         string
	SampleRate    int        // Hz
	Channels      int        // channel count
	ChannelLayout uint64     // speaker bitmask, 0 if unknown
	Format        pcm.Format // sample format of every channel
	ChanSize      int        // bytes per sample per channel
	SampleSize    int        // bytes per sample across all channels
	FrameLen      int        // samples in one native decode unit
	FrameSize     int        // bytes in one native decode unit
	TimeBase      Rational
	ExtraData     []byte // codec specific configuration
}

// Clone returns a deep copy of i.
func (i Info) Clone() Info {
	c := i
	if i.ExtraData != nil {
		c.ExtraData = append([]byte(nil), i.ExtraData...)
	}
	return c
}

// WithFormat returns a copy of i whose samples are stored as f, keeping the
// byte accounting fields consistent.
func (i Info) WithFormat(f pcm.Format) Info {
	c := i.Clone()
	c.Format = f
	c.recompute()
	return c
}

// WithChannels returns a copy of i with a new channel count and layout.
func (i Info) WithChannels(channels int, layout uint64) Info {
	c := i.Clone()
	c.Channels = channels
	c.ChannelLayout = layout
	c.recompute()
	return c
}

func (i *Info) recompute() {
	i.ChanSize = i.Format.Width()
	i.SampleSize = i.ChanSize * i.Channels
	i.FrameSize = i.FrameLen * i.SampleSize
}

// Validate checks the fields every stage relies on.
func (i Info) Validate() error {
	switch {
	case i.SampleRate <= 0:
		return fmt.Errorf("invalid sample rate %d", i.SampleRate)
	case i.Channels <= 0:
		return fmt.Errorf("invalid channel count %d", i.Channels)
	case !i.Format.Valid():
		return fmt.Errorf("invalid sample format %v", i.Format)
	case i.SampleSize != i.Format.Width()*i.Channels:
		return fmt.Errorf("sample size %d does not match %d x %v", i.SampleSize, i.Channels, i.Format)
	}
	return nil
}

// NewInfo fills the derived fields of an Info from its essentials.
func NewInfo(codec string, sampleRate, channels int, f pcm.Format, frameLen int) Info {
	i := Info{
		Codec:      codec,
		SampleRate: sampleRate,
		Channels:   channels,
		Format:     f,
		FrameLen:   frameLen,
		TimeBase:   Rational{Num: 1, Den: sampleRate},
	}
	switch channels {
	case 1:
		i.ChannelLayout = LayoutMono
	case 2:
		i.ChannelLayout = LayoutStereo
	}
	i.recompute()
	return i
}

func (i Info) String() string {
	return fmt.Sprintf("%s %dHz %dch %v", i.Codec, i.SampleRate, i.Channels, i.Format)
}
