// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/internal/audiotest"
	"github.com/ik5/audpipe/pcm"
)

// recorder is a pass-through stage that logs its Close call.
type recorder struct {
	name  string
	up    audio.Upstream
	log   *[]string
	err   error
	short bool // drop the last sample of every packet
}

func (r *recorder) Info() audio.Info { return r.up.Info() }

func (r *recorder) Samples(first, last int64) (*audio.Packet, error) {
	p, err := r.up.Samples(first, last)
	if err != nil || !r.short {
		return p, err
	}
	ss := r.up.Info().SampleSize
	out := audio.NewPacket(append([]byte(nil), p.Data[:len(p.Data)-ss]...), p.Format, p.Channels)
	p.Free()
	return out, nil
}

func (r *recorder) Release(*audio.Packet) {}

func (r *recorder) Close() error {
	*r.log = append(*r.log, r.name)
	return r.err
}

func recorderFactory(name string, log *[]string, err error) audio.Factory {
	return func(_ audio.Env, up audio.Upstream, _ audio.Options) (audio.Stage, error) {
		if err := audio.CheckUpstream(name, false, up); err != nil {
			return nil, err
		}
		return &recorder{name: name, up: up, log: log, err: err}, nil
	}
}

func openChain(t *testing.T, c *audiotest.MockContainer, opts audio.Options) *audio.Chain {
	t.Helper()

	if opts == nil {
		opts = audio.Options{}
	}
	opts["filename"] = "input.mock"
	chain, err := audio.Open(audiotest.Env(c), "decode", opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = chain.Close() })
	return chain
}

func TestOpenErrors(t *testing.T) {
	t.Parallel()

	env := audiotest.Env(audiotest.NewMockContainer(8000, 1, pcm.S16, 64, 1000))

	tests := []struct {
		name string
		env  audio.Env
		kind string
		opts audio.Options
		want error
	}{
		{name: "no registry", env: audio.Env{}, kind: "decode", want: audio.ErrConfig},
		{name: "unknown kind", env: env, kind: "nope", want: audio.ErrUnknownKind},
		{name: "filter as source", env: env, kind: "mono", want: audio.ErrNoPredecessor},
		{name: "missing filename", env: env, kind: "decode", opts: audio.Options{}, want: audio.ErrInvalidOption},
		{name: "unknown option", env: env, kind: "decode", opts: audio.Options{"filename": "a.mock", "x": "1"}, want: audio.ErrInvalidOption},
		{name: "unknown format", env: env, kind: "decode", opts: audio.Options{"filename": "a.xyz"}, want: audio.ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			chain, err := audio.Open(tt.env, tt.kind, tt.opts)
			assert.Nil(t, chain)
			assert.ErrorIs(t, err, audio.ErrConfig)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAppendSourceKindRejected(t *testing.T) {
	t.Parallel()

	chain := openChain(t, audiotest.NewMockContainer(8000, 1, pcm.S16, 64, 1000), nil)

	err := chain.Append("decode", audio.Options{"filename": "b.mock"})
	assert.ErrorIs(t, err, audio.ErrConfig)
	assert.ErrorIs(t, err, audio.ErrHasPredecessor)
	assert.Equal(t, 1, chain.Len())
}

func TestFailedAppendLeavesChainUnchanged(t *testing.T) {
	t.Parallel()

	chain := openChain(t, audiotest.NewMockContainer(8000, 2, pcm.S16, 64, 1000), nil)
	before := chain.Info()

	err := chain.Append("format", audio.Options{"sampleformat": "s24"})
	require.ErrorIs(t, err, audio.ErrConfig)

	err = chain.Append("nope", nil)
	require.ErrorIs(t, err, audio.ErrUnknownKind)

	err = chain.AppendFactory("broken", func(audio.Env, audio.Upstream, audio.Options) (audio.Stage, error) {
		return nil, errors.New("broken")
	}, nil)
	require.ErrorIs(t, err, audio.ErrConfig)

	assert.Equal(t, 1, chain.Len())
	assert.Equal(t, before, chain.Info())
	assert.Equal(t, []string{"decode"}, chain.Kinds())

	p, err := chain.Samples(0, 10)
	require.NoError(t, err)
	defer p.Free()
	assert.Equal(t, int64(10), p.SampleCount)
}

func TestAppendCopiesInfo(t *testing.T) {
	t.Parallel()

	c := audiotest.NewMockContainer(8000, 2, pcm.S16, 64, 1000)
	chain := openChain(t, c, nil)

	require.NoError(t, chain.Append("format", audio.Options{"sampleformat": "flt"}))
	require.NoError(t, chain.Append("mono", nil))

	info := chain.Info()
	assert.Equal(t, pcm.Float, info.Format)
	assert.Equal(t, 1, info.Channels)
	assert.Equal(t, 4, info.SampleSize)
	assert.Equal(t, pcm.S16, c.Info().Format)
}

func TestCloseOrderAndJoinedErrors(t *testing.T) {
	t.Parallel()

	c := audiotest.NewMockContainer(8000, 1, pcm.S16, 64, 1000)
	chain := openChain(t, c, nil)

	var log []string
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	require.NoError(t, chain.AppendFactory("a", recorderFactory("a", &log, errA), nil))
	require.NoError(t, chain.AppendFactory("b", recorderFactory("b", &log, nil), nil))
	require.NoError(t, chain.AppendFactory("c", recorderFactory("c", &log, errB), nil))

	err := chain.Close()
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Equal(t, []string{"a", "b", "c"}, log)
	assert.True(t, c.Closed, "source closed")
	assert.False(t, c.DecoderOpen)

	assert.NoError(t, chain.Close())
	assert.Equal(t, []string{"a", "b", "c"}, log)

	_, err = chain.Samples(0, 1)
	assert.ErrorIs(t, err, audio.ErrStream)
	assert.ErrorIs(t, err, audio.ErrClosed)

	assert.ErrorIs(t, chain.Append("mono", nil), audio.ErrClosed)
}

func TestChainSamplesFillsCountAndEOF(t *testing.T) {
	t.Parallel()

	chain := openChain(t, audiotest.NewMockContainer(8000, 2, pcm.S16, 64, 1000), nil)

	var log []string
	require.NoError(t, chain.AppendFactory("short", func(env audio.Env, up audio.Upstream, opts audio.Options) (audio.Stage, error) {
		return &recorder{name: "short", up: up, log: &log, short: true}, nil
	}, nil))

	p, err := chain.Samples(0, 100)
	require.NoError(t, err)
	defer p.Free()

	assert.Equal(t, int64(99), p.SampleCount)
	assert.True(t, p.EOF())
}

func TestChainSamplesInvalidRange(t *testing.T) {
	t.Parallel()

	chain := openChain(t, audiotest.NewMockContainer(8000, 1, pcm.S16, 64, 1000), nil)

	for _, r := range [][2]int64{{-1, 10}, {10, 10}, {10, 5}} {
		_, err := chain.Samples(r[0], r[1])
		assert.ErrorIs(t, err, audio.ErrStream)
		assert.ErrorIs(t, err, audio.ErrInvalidRange)
	}
}

func TestFilterRequiresPredecessor(t *testing.T) {
	t.Parallel()

	for _, k := range audio.Builtins() {
		if k.Source {
			continue
		}
		_, err := k.New(audio.Env{}, nil, nil)
		assert.ErrorIs(t, err, audio.ErrConfig, k.Name)
		assert.ErrorIs(t, err, audio.ErrNoPredecessor, k.Name)
	}
}

func TestChainID(t *testing.T) {
	t.Parallel()

	c := audiotest.NewMockContainer(8000, 1, pcm.S16, 64, 1000)
	a := openChain(t, c, nil)
	assert.Len(t, a.ID(), 36)
}
