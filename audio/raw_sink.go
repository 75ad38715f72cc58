// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

const rawKind = "raw"

// RawKind writes the samples passing through it to a file.
var RawKind = Kind{
	Name:        rawKind,
	Description: "writes raw interleaved samples to a file",
	Help:        "filename=PATH (- for stdout)",
	New:         NewRawSink,
}

// RawSink writes every packet it returns to an output, then hands the packet
// on unchanged. Packets stay owned by the predecessor.
type RawSink struct {
	up      Upstream
	info    Info
	out     io.WriteCloser
	written int64
}

func NewRawSink(env Env, up Upstream, opts Options) (Stage, error) {
	if err := CheckUpstream(rawKind, false, up); err != nil {
		return nil, err
	}
	if err := opts.Only("filename"); err != nil {
		return nil, configErr(rawKind, err)
	}
	name := opts.String("filename", "")
	if name == "" {
		return nil, configErr(rawKind, fmt.Errorf("%w: filename is required", ErrInvalidOption))
	}

	out, err := env.CreateOutput(name)
	if err != nil {
		return nil, configErr(rawKind, err)
	}
	return &RawSink{up: up, info: up.Info().Clone(), out: out}, nil
}

func (s *RawSink) Info() Info { return s.info }

func (s *RawSink) Samples(first, last int64) (*Packet, error) {
	p, err := s.up.Samples(first, last)
	if err != nil {
		return nil, classify(rawKind, err)
	}

	n, err := s.out.Write(p.Data)
	s.written += int64(n)
	if err != nil {
		p.Free()
		return nil, streamErr(rawKind, err)
	}
	return p, nil
}

// Written returns the number of bytes written so far.
func (s *RawSink) Written() int64 { return s.written }

// Release is never reached: packets keep the owner they came with.
func (s *RawSink) Release(*Packet) {}

func (s *RawSink) Close() error {
	if err := s.out.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
