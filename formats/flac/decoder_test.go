// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/pcm"
)

func testFrame(num uint64, channels [][]int32) *frame.Frame {
	f := &frame.Frame{
		Header: frame.Header{
			HasFixedBlockSize: true,
			BlockSize:         uint16(len(channels[0])),
			SampleRate:        8000,
			BitsPerSample:     16,
			Num:               num,
		},
	}
	switch len(channels) {
	case 1:
		f.Channels = frame.ChannelsMono
	case 2:
		f.Channels = frame.ChannelsLR
	}
	for _, samples := range channels {
		f.Subframes = append(f.Subframes, &frame.Subframe{
			SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
			Samples:   samples,
			NSamples:  len(samples),
		})
	}
	return f
}

// encode builds a verbatim FLAC stream with frames of blockSize samples.
func encode(t *testing.T, rate int, channels [][]int32, blockSize int) []byte {
	t.Helper()

	n := len(channels[0])
	info := &meta.StreamInfo{
		BlockSizeMin:  uint16(blockSize),
		BlockSizeMax:  uint16(blockSize),
		SampleRate:    uint32(rate),
		NChannels:     uint8(len(channels)),
		BitsPerSample: 16,
		NSamples:      uint64(n),
	}

	buf := new(bytes.Buffer)
	enc, err := flac.NewEncoder(buf, info)
	require.NoError(t, err)

	for first, num := 0, uint64(0); first < n; first, num = first+blockSize, num+1 {
		last := min(first+blockSize, n)
		block := make([][]int32, len(channels))
		for ch := range channels {
			block[ch] = channels[ch][first:last]
		}
		f := testFrame(num, block)
		f.SampleRate = uint32(rate)
		require.NoError(t, enc.WriteFrame(f))
	}
	require.NoError(t, enc.Close())
	return buf.Bytes()
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Demux(bytes.NewReader([]byte("This is not FLAC data")))
	assert.ErrorIs(t, err, ErrNotFlacFile)

	_, err = Decoder{}.Demux(bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrNotFlacFile)
}

func TestDecoder_Interleave(t *testing.T) {
	t.Parallel()

	d := &decoder{f: pcm.S16, channels: 2}
	data, err := d.DecodeUnit(&audio.Unit{Payload: testFrame(0, [][]int32{{1, 2, 3}, {-1, -2, -3}})})
	require.NoError(t, err)

	want := []int16{1, -1, 2, -2, 3, -3}
	require.Len(t, data, 2*len(want))
	for i, w := range want {
		assert.Equal(t, w, int16(binary.LittleEndian.Uint16(data[2*i:])))
	}
}

func TestDecoder_CorruptFrames(t *testing.T) {
	t.Parallel()

	d := &decoder{f: pcm.S16, channels: 2}

	tests := []struct {
		name string
		unit *audio.Unit
	}{
		{name: "checksum", unit: &audio.Unit{Payload: badFrame{err: errors.New("CRC-16 checksum mismatch")}}},
		{name: "channel count", unit: &audio.Unit{Payload: testFrame(3, [][]int32{{1, 2}})}},
		{name: "short subframe", unit: &audio.Unit{Payload: func() *frame.Frame {
			f := testFrame(4, [][]int32{{1, 2}, {3, 4}})
			f.Subframes[1].Samples = f.Subframes[1].Samples[:1]
			return f
		}()}},
		{name: "payload", unit: &audio.Unit{Payload: 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := d.DecodeUnit(tt.unit)
			assert.ErrorIs(t, err, audio.ErrCorruptUnit)
		})
	}
}

func TestIsChecksum(t *testing.T) {
	t.Parallel()

	assert.True(t, isChecksum(errors.New("frame.Frame.Parse: CRC-16 checksum mismatch; expected 0x1234, got 0x4321")))
	assert.False(t, isChecksum(io.ErrUnexpectedEOF))
}

func TestDecoder_RoundTrip(t *testing.T) {
	t.Parallel()

	const n = 2500
	left := make([]int32, n)
	right := make([]int32, n)
	for i := range n {
		left[i] = int32(i*11 - 9000)
		right[i] = int32(7000 - i*5)
	}
	file := encode(t, 16000, [][]int32{left, right}, 1024)

	reg := audio.NewRegistry()
	_ = reg.RegisterKind(audio.DecodeKind)
	reg.Register(Format, Decoder{})
	env := audio.Env{
		Registry: reg,
		Open: func(string) (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(file)), nil
		},
	}

	chain, err := audio.Open(env, "decode", audio.Options{"filename": "in.flac"})
	require.NoError(t, err)
	defer chain.Close()

	info := chain.Info()
	assert.Equal(t, 16000, info.SampleRate)
	assert.Equal(t, 2, info.Channels)
	assert.Equal(t, pcm.S16, info.Format)
	assert.Equal(t, 1024, info.FrameLen)

	p, err := chain.Samples(1000, 3000)
	require.NoError(t, err)
	defer p.Free()

	require.Equal(t, int64(1500), p.SampleCount)
	assert.True(t, p.EOF())
	for i := range 1500 {
		assert.Equal(t, int16(left[1000+i]), int16(binary.LittleEndian.Uint16(p.Data[4*i:])))
		assert.Equal(t, int16(right[1000+i]), int16(binary.LittleEndian.Uint16(p.Data[4*i+2:])))
	}
}
