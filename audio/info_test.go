// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ik5/audpipe/pcm"
)

func TestNewInfo(t *testing.T) {
	t.Parallel()

	i := NewInfo("pcm", 48000, 2, pcm.S16, 1024)

	assert.Equal(t, 2, i.ChanSize)
	assert.Equal(t, 4, i.SampleSize)
	assert.Equal(t, 4096, i.FrameSize)
	assert.Equal(t, LayoutStereo, i.ChannelLayout)
	assert.Equal(t, Rational{Num: 1, Den: 48000}, i.TimeBase)
	assert.NoError(t, i.Validate())
}

func TestInfoCloneIsDeep(t *testing.T) {
	t.Parallel()

	i := NewInfo("aac", 44100, 1, pcm.Float, 1024)
	i.ExtraData = []byte{1, 2}

	c := i.Clone()
	c.ExtraData[0] = 9

	assert.Equal(t, byte(1), i.ExtraData[0])
}

func TestInfoDerivations(t *testing.T) {
	t.Parallel()

	i := NewInfo("pcm", 8000, 2, pcm.S16, 100)

	f := i.WithFormat(pcm.Double)
	assert.Equal(t, 16, f.SampleSize)
	assert.Equal(t, 1600, f.FrameSize)
	assert.Equal(t, pcm.S16, i.Format)

	m := i.WithChannels(1, LayoutMono)
	assert.Equal(t, 2, m.SampleSize)
	assert.Equal(t, LayoutMono, m.ChannelLayout)
}

func TestInfoValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		info Info
	}{
		{name: "zero rate", info: NewInfo("x", 0, 1, pcm.S16, 0)},
		{name: "zero channels", info: NewInfo("x", 8000, 0, pcm.S16, 0)},
		{name: "no format", info: NewInfo("x", 8000, 1, pcm.FormatNone, 0)},
		{name: "sample size", info: func() Info {
			i := NewInfo("x", 8000, 2, pcm.S16, 0)
			i.SampleSize = 3
			return i
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Error(t, tt.info.Validate())
		})
	}
}
