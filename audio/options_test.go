// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audpipe/pcm"
)

func TestOptions(t *testing.T) {
	t.Parallel()

	opts := Options{"rate": "16000", "bad": "x1", "sampleformat": "flt", "empty": ""}

	assert.Equal(t, "16000", opts.String("rate", ""))
	assert.Equal(t, "def", opts.String("empty", "def"))
	assert.Equal(t, "def", opts.String("missing", "def"))

	n, err := opts.Int("rate", 0)
	require.NoError(t, err)
	assert.Equal(t, 16000, n)

	n, err = opts.Int("missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = opts.Int("bad", 0)
	assert.ErrorIs(t, err, ErrInvalidOption)

	f, err := opts.SampleFormat("sampleformat", pcm.FormatNone)
	require.NoError(t, err)
	assert.Equal(t, pcm.Float, f)

	_, err = Options{"sampleformat": "s24"}.SampleFormat("sampleformat", pcm.FormatNone)
	assert.ErrorIs(t, err, ErrInvalidOption)
	assert.ErrorIs(t, err, pcm.ErrUnknownFormat)
}

func TestOptionsOnly(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Options{"a": "1"}.Only("a", "b"))
	assert.NoError(t, Options(nil).Only())
	assert.ErrorIs(t, Options{"c": "1"}.Only("a", "b"), ErrInvalidOption)
}
