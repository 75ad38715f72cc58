// SPDX-License-Identifier: EPL-2.0

package audpipe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/internal/audiotest"
	"github.com/ik5/audpipe/pcm"
)

func mockChain(t testing.TB, c *audiotest.MockContainer) *audio.Chain {
	t.Helper()

	chain, err := OpenFile(audiotest.Env(c), "input.mock", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = chain.Close() })
	return chain
}

func TestResampleToMono16_Basic(t *testing.T) {
	t.Parallel()

	// 1 second of stereo audio at 44.1kHz
	chain := mockChain(t, audiotest.NewSineContainer(44100, 2, pcm.S16, 1152, 44100, 440.0))

	pcm16, rate, err := ResampleToMono16(chain, 8000, 4096)
	require.NoError(t, err)

	assert.Equal(t, 8000, rate)
	assert.Len(t, pcm16, 8000)

	info := chain.Info()
	assert.Equal(t, 1, info.Channels)
	assert.Equal(t, 8000, info.SampleRate)
	assert.Equal(t, pcm.S16, info.Format)
}

func TestResampleToMono16_AlreadyMono(t *testing.T) {
	t.Parallel()

	chain := mockChain(t, audiotest.NewConstantContainer(16000, 1, pcm.Float, 1024, 16000, 0.5))

	pcm16, rate, err := ResampleToMono16(chain, 8000, 4096)
	require.NoError(t, err)

	assert.Equal(t, 8000, rate)
	assert.Len(t, pcm16, 8000)

	// constant 0.5 input stays 0.5 through the cubic kernel
	for i, s := range pcm16 {
		if math.Abs(float64(s)-16384) > 1 {
			t.Fatalf("pcm16[%d] = %d, want 16384", i, s)
		}
	}
}

func TestResampleToMono16_Silence(t *testing.T) {
	t.Parallel()

	chain := mockChain(t, audiotest.NewConstantContainer(44100, 2, pcm.S16, 1152, 44100, 0))

	pcm16, _, err := ResampleToMono16(chain, 8000, 4096)
	require.NoError(t, err)

	for i, s := range pcm16 {
		if s != 0 {
			t.Fatalf("pcm16[%d] = %d, want 0 (silence)", i, s)
		}
	}
}

func TestResampleToMono16_VariousRates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		srcRate    int
		dstRate    int
		srcSamples int
		want       int
	}{
		{name: "44.1k to 8k", srcRate: 44100, dstRate: 8000, srcSamples: 44100, want: 8000},
		{name: "48k to 16k", srcRate: 48000, dstRate: 16000, srcSamples: 48000, want: 16000},
		{name: "8k to 16k", srcRate: 8000, dstRate: 16000, srcSamples: 8000, want: 16000},
		{name: "22.05k to 44.1k", srcRate: 22050, dstRate: 44100, srcSamples: 22050, want: 44100},
		{name: "same rate", srcRate: 16000, dstRate: 16000, srcSamples: 16000, want: 16000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			chain := mockChain(t, audiotest.NewSineContainer(tt.srcRate, 2, pcm.S16, 1024, tt.srcSamples, 440))

			pcm16, rate, err := ResampleToMono16(chain, tt.dstRate, 1000)
			require.NoError(t, err)
			assert.Equal(t, tt.dstRate, rate)
			assert.Len(t, pcm16, tt.want)
		})
	}
}

func TestResampleToMono16_Clamping(t *testing.T) {
	t.Parallel()

	// full scale float input saturates instead of wrapping
	chain := mockChain(t, audiotest.NewConstantContainer(8000, 1, pcm.Float, 160, 800, 1.5))

	pcm16, _, err := ResampleToMono16(chain, 8000, 256)
	require.NoError(t, err)
	require.Len(t, pcm16, 800)
	for _, s := range pcm16 {
		assert.Equal(t, int16(32767), s)
	}
}

func TestResampleToMono16_BadRate(t *testing.T) {
	t.Parallel()

	chain := mockChain(t, audiotest.NewMockContainer(8000, 1, pcm.S16, 160, 800))

	_, _, err := ResampleToMono16(chain, 0, 256)
	assert.ErrorIs(t, err, audio.ErrConfig)
}

func BenchmarkResampleToMono16(b *testing.B) {
	for b.Loop() {
		chain := mockChain(b, audiotest.NewSineContainer(44100, 2, pcm.S16, 1152, 44100, 440))
		_, _, _ = ResampleToMono16(chain, 8000, 4096)
	}
}
