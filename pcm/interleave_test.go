// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeinterleave(t *testing.T) {
	t.Parallel()

	// L0 R0 L1 R1 L2 R2
	data := s16Bytes(1, -1, 2, -2, 3, -3)
	planes := Deinterleave(data, S16.Width(), 2)

	require.Len(t, planes, 2)
	assert.Equal(t, []int16{1, 2, 3}, s16Values(planes[0]))
	assert.Equal(t, []int16{-1, -2, -3}, s16Values(planes[1]))
}

func TestInterleave_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		width    int
		channels int
		data     []byte
	}{
		{"mono u8", 1, 1, []byte{1, 2, 3, 4}},
		{"stereo s16", 2, 2, s16Bytes(10, 20, 30, 40, 50, 60)},
		{"5ch s32", 4, 5, s32Bytes(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)},
		{"stereo dbl", 8, 2, dblBytes(0.1, 0.2, 0.3, 0.4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			planes := Deinterleave(tt.data, tt.width, tt.channels)
			require.Len(t, planes, tt.channels)

			back, err := Interleave(planes, tt.width)
			require.NoError(t, err)
			assert.Equal(t, tt.data, back)
		})
	}
}

func TestInterleave_PlaneMismatch(t *testing.T) {
	t.Parallel()

	_, err := Interleave([][]byte{{1, 2}, {3}}, 1)
	assert.ErrorIs(t, err, ErrPlaneMismatch)
}

func TestDeinterleave_InvalidShape(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Deinterleave([]byte{1, 2}, 0, 2))
	assert.Nil(t, Deinterleave([]byte{1, 2}, 1, 0))
}

func TestDeinterleaveFloat(t *testing.T) {
	t.Parallel()

	planes := DeinterleaveFloat(s16Bytes(16384, -16384, 0, -32768), S16, 2)

	require.Len(t, planes, 2)
	assert.Equal(t, []float32{0.5, 0}, planes[0])
	assert.Equal(t, []float32{-0.5, -1}, planes[1])
}

func TestInterleaveFloat(t *testing.T) {
	t.Parallel()

	out := InterleaveFloat(S16, [][]float32{{0.5, 1.5}, {-0.5, -1.5, 0.25}})

	// the shortest plane decides the count, out of range values saturate
	assert.Equal(t, []int16{16384, -16384, 32767, -32768}, s16Values(out))
}

func TestInterleaveFloat_RoundTrip(t *testing.T) {
	t.Parallel()

	data := fltBytes(0.1, -0.2, 0.3, -0.4, 0.5, -0.6)
	planes := DeinterleaveFloat(data, Float, 3)
	assert.Equal(t, data, InterleaveFloat(Float, planes))
}
