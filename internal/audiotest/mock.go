// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides fake containers and decoders for tests.
package audiotest

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/internal/logging"
	"github.com/ik5/audpipe/pcm"
)

// ErrFatal is the error injected by FailAt and DemuxFailAt.
var ErrFatal = errors.New("injected fatal error")

// MockContainer is a container holding one generated audio track, optionally
// preceded by non-audio tracks whose units are interleaved with the audio.
type MockContainer struct {
	SampleRate   int
	Channels     int
	Format       pcm.Format
	FrameLen     int // samples per unit; the last unit may be shorter
	TotalSamples int
	Waveform     func(sample int, channel int) float32

	// OtherTracks puts that many non-audio tracks before the audio track.
	OtherTracks int
	// UnitSizes overrides FrameLen unit by unit; cycled when shorter than the
	// stream.
	UnitSizes []int
	// Corrupt makes the decoder fail the listed audio units as recoverable.
	Corrupt map[int]bool
	// FailAt makes the decoder fail audio unit FailAt fatally. -1 disables.
	FailAt int
	// DemuxFailAt makes ReadUnit fail fatally once that many units were read.
	// -1 disables.
	DemuxFailAt int

	UnitsRead    int
	UnitsDecoded int
	Closed       bool
	DecoderOpen  bool

	pos       int // next audio sample
	audioUnit int
	other     int // other-track units still due before the next audio unit
}

// NewMockContainer creates a container with a deterministic ramp waveform.
func NewMockContainer(sampleRate, channels int, f pcm.Format, frameLen, totalSamples int) *MockContainer {
	return &MockContainer{
		SampleRate:   sampleRate,
		Channels:     channels,
		Format:       f,
		FrameLen:     frameLen,
		TotalSamples: totalSamples,
		Waveform:     Ramp,
		FailAt:       -1,
		DemuxFailAt:  -1,
	}
}

// Ramp is a waveform that differs for every sample and channel and stays
// exactly representable in every sample format.
func Ramp(sample int, channel int) float32 {
	v := (sample*7 + channel*31) % 255
	return float32(v-127) / 128
}

// NewSineContainer creates a container that generates a sine wave.
func NewSineContainer(sampleRate, channels int, f pcm.Format, frameLen, totalSamples int, frequency float64) *MockContainer {
	c := NewMockContainer(sampleRate, channels, f, frameLen, totalSamples)
	c.Waveform = func(sample int, channel int) float32 {
		t := float64(sample) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	}
	return c
}

// NewConstantContainer creates a container with constant value.
func NewConstantContainer(sampleRate, channels int, f pcm.Format, frameLen, totalSamples int, value float32) *MockContainer {
	c := NewMockContainer(sampleRate, channels, f, frameLen, totalSamples)
	c.Waveform = func(int, int) float32 { return value }
	return c
}

// Info returns the native layout of the audio track.
func (m *MockContainer) Info() audio.Info {
	return audio.NewInfo("mock", m.SampleRate, m.Channels, m.Format, m.FrameLen)
}

// AudioTrack is the index of the audio track.
func (m *MockContainer) AudioTrack() int { return m.OtherTracks }

// Expected encodes samples [first, last) exactly as the decoder produces
// them, clamped to the stream length.
func (m *MockContainer) Expected(first, last int) []byte {
	last = min(last, m.TotalSamples)
	if first >= last {
		return nil
	}
	return m.encode(first, last)
}

func (m *MockContainer) encode(first, last int) []byte {
	out := make([]byte, (last-first)*m.Channels*m.Format.Width())
	for s := first; s < last; s++ {
		for c := range m.Channels {
			pcm.PutSampleFloat(out, m.Format, (s-first)*m.Channels+c, float64(m.Waveform(s, c)))
		}
	}
	return out
}

func (m *MockContainer) Tracks() []audio.Track {
	tracks := make([]audio.Track, 0, m.OtherTracks+1)
	for i := range m.OtherTracks {
		tracks = append(tracks, audio.Track{Index: i, Type: audio.TrackOther})
	}
	return append(tracks, audio.Track{Index: m.OtherTracks, Type: audio.TrackAudio, Info: m.Info()})
}

func (m *MockContainer) unitSize(n int) int {
	if len(m.UnitSizes) > 0 {
		return m.UnitSizes[n%len(m.UnitSizes)]
	}
	return m.FrameLen
}

func (m *MockContainer) ReadUnit() (*audio.Unit, error) {
	if m.Closed {
		return nil, audio.ErrClosed
	}
	if m.DemuxFailAt >= 0 && m.UnitsRead >= m.DemuxFailAt {
		return nil, ErrFatal
	}
	if m.other > 0 {
		m.other--
		m.UnitsRead++
		return &audio.Unit{Track: m.OtherTracks - 1 - m.other, Data: []byte{0xff}}, nil
	}
	if m.pos >= m.TotalSamples {
		return nil, io.EOF
	}

	n := min(m.unitSize(m.audioUnit), m.TotalSamples-m.pos)
	u := &audio.Unit{
		Track:   m.OtherTracks,
		Data:    m.encode(m.pos, m.pos+n),
		Payload: m.audioUnit,
	}
	m.pos += n
	m.audioUnit++
	m.other = m.OtherTracks
	m.UnitsRead++
	return u, nil
}

func (m *MockContainer) Decoder(track int) (audio.UnitDecoder, error) {
	if track != m.OtherTracks {
		return nil, fmt.Errorf("mock: track %d has no decoder", track)
	}
	m.DecoderOpen = true
	return &mockDecoder{m: m}, nil
}

func (m *MockContainer) Close() error {
	m.Closed = true
	return nil
}

type mockDecoder struct {
	m *MockContainer
}

func (d *mockDecoder) DecodeUnit(u *audio.Unit) ([]byte, error) {
	n, _ := u.Payload.(int)
	switch {
	case n == d.m.FailAt:
		return nil, ErrFatal
	case d.m.Corrupt[n]:
		return nil, fmt.Errorf("mock unit %d: %w", n, audio.ErrCorruptUnit)
	}
	d.m.UnitsDecoded++
	return u.Data, nil
}

func (d *mockDecoder) Close() error {
	d.m.DecoderOpen = false
	return nil
}

// Demuxer hands out a prepared container whatever the input.
type Demuxer struct {
	Container audio.Container
	Err       error
}

func (d Demuxer) Demux(r io.Reader) (audio.Container, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	return d.Container, nil
}

// NopInput is an Env.Open that returns an empty input for every name.
func NopInput(string) (io.ReadCloser, error) {
	return io.NopCloser(eofReader{}), nil
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }

// Env returns an environment whose registry serves c under the "mock"
// format, with the built-in stage kinds registered. Logs are discarded.
func Env(c audio.Container) audio.Env {
	reg := audio.NewRegistry()
	for _, k := range audio.Builtins() {
		_ = reg.RegisterKind(k)
	}
	reg.Register("mock", Demuxer{Container: c})
	return audio.Env{Registry: reg, Open: NopInput, Logger: logging.Discard()}
}
