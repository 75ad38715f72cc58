// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/pcm"
)

const sinkKind = "wav"

// SinkKind writes the samples passing through it to a WAV file.
var SinkKind = audio.Kind{
	Name:        sinkKind,
	Description: "writes the samples passing through it to a WAV file",
	Help:        "filename=PATH (- for stdout) bitdepth=16|24|32",
	New:         NewSink,
}

// Sink encodes every packet it returns, then hands the packet on unchanged.
// Seekable outputs are written as packets arrive; other outputs get the
// whole file on Close, once the data size is known.
type Sink struct {
	up   audio.Upstream
	info audio.Info
	out  io.WriteCloser
	bits int
	log  *slog.Logger

	enc     *gowav.Encoder
	buf     *goaudio.IntBuffer
	pending []byte

	samples int64
}

func NewSink(env audio.Env, up audio.Upstream, opts audio.Options) (audio.Stage, error) {
	if err := audio.CheckUpstream(sinkKind, false, up); err != nil {
		return nil, err
	}
	if err := opts.Only("filename", "bitdepth"); err != nil {
		return nil, audio.ConfigErr(sinkKind, err)
	}
	name := opts.String("filename", "")
	if name == "" {
		return nil, audio.ConfigErr(sinkKind, fmt.Errorf("%w: filename is required", audio.ErrInvalidOption))
	}
	bits, err := opts.Int("bitdepth", 16)
	if err != nil {
		return nil, audio.ConfigErr(sinkKind, err)
	}
	if bits != 16 && bits != 24 && bits != 32 {
		return nil, audio.ConfigErr(sinkKind, fmt.Errorf("%w: bitdepth %d", audio.ErrInvalidOption, bits))
	}

	out, err := env.CreateOutput(name)
	if err != nil {
		return nil, audio.ConfigErr(sinkKind, err)
	}

	info := up.Info().Clone()
	s := &Sink{
		up:   up,
		info: info,
		out:  out,
		bits: bits,
		log:  env.StageLogger(sinkKind).With("file", name),
	}
	if ws, ok := out.(io.WriteSeeker); ok {
		s.enc = gowav.NewEncoder(ws, info.SampleRate, bits, info.Channels, formatPCM)
		s.buf = &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: info.Channels, SampleRate: info.SampleRate},
			SourceBitDepth: bits,
		}
	} else {
		s.log.Debug("output cannot seek, holding samples until close")
	}
	return s, nil
}

func (s *Sink) Info() audio.Info { return s.info }

func (s *Sink) Samples(first, last int64) (*audio.Packet, error) {
	p, err := s.up.Samples(first, last)
	if err != nil {
		return nil, audio.Classify(sinkKind, err)
	}

	if err := s.write(p); err != nil {
		p.Free()
		return nil, audio.StreamErr(sinkKind, err)
	}
	s.samples += p.SampleCount
	return p, nil
}

// write stores p as samples of s.bits, taken from the top of a 32-bit
// rendition.
func (s *Sink) write(p *audio.Packet) error {
	wide := pcm.Convert(pcm.S32, p.Data, p.Format)
	width := s.bits / 8

	if s.enc == nil {
		for i := 0; i+4 <= len(wide); i += 4 {
			s.pending = append(s.pending, wide[i+4-width:i+4]...)
		}
		return nil
	}

	n := len(wide) / 4
	if cap(s.buf.Data) < n {
		s.buf.Data = make([]int, n)
	}
	s.buf.Data = s.buf.Data[:n]
	for i := range n {
		v := int32(uint32(wide[4*i]) | uint32(wide[4*i+1])<<8 | uint32(wide[4*i+2])<<16 | uint32(wide[4*i+3])<<24)
		s.buf.Data[i] = int(v >> (32 - s.bits))
	}
	if err := s.enc.Write(s.buf); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// Written returns the number of samples written so far.
func (s *Sink) Written() int64 { return s.samples }

// Release is never reached: packets keep the owner they came with.
func (s *Sink) Release(*audio.Packet) {}

// Close finishes the file and closes the output.
func (s *Sink) Close() error {
	var err error
	if s.enc != nil {
		err = s.enc.Close()
	} else {
		err = WriteWAV(s.out, s.info.SampleRate, s.info.Channels, s.bits, s.pending)
		s.pending = nil
	}
	s.log.Debug("wav written", "samples", s.samples, "bits", s.bits)
	return errors.Join(err, s.out.Close())
}
