// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	"github.com/ik5/audpipe/pcm"
)

const formatKind = "format"

// FormatKind converts the samples of its predecessor to another format.
var FormatKind = Kind{
	Name:        formatKind,
	Description: "converts samples to another sample format",
	Help:        "sampleformat=u8|s16|s32|flt|dbl",
	New:         NewFormatStage,
}

// FormatStage rewrites every packet it passes into its own sample format.
type FormatStage struct {
	up   Upstream
	info Info
}

func NewFormatStage(_ Env, up Upstream, opts Options) (Stage, error) {
	if err := CheckUpstream(formatKind, false, up); err != nil {
		return nil, err
	}
	if err := opts.Only("sampleformat"); err != nil {
		return nil, configErr(formatKind, err)
	}
	f, err := opts.SampleFormat("sampleformat", pcm.FormatNone)
	if err != nil {
		return nil, configErr(formatKind, err)
	}
	if f == pcm.FormatNone {
		return nil, configErr(formatKind, fmt.Errorf("%w: sampleformat is required", ErrInvalidOption))
	}

	return &FormatStage{up: up, info: up.Info().WithFormat(f)}, nil
}

func (s *FormatStage) Info() Info { return s.info }

func (s *FormatStage) Samples(first, last int64) (*Packet, error) {
	in, err := s.up.Samples(first, last)
	if err != nil {
		return nil, classify(formatKind, err)
	}
	if in.Format == s.info.Format {
		return in, nil
	}

	out := NewPacket(pcm.Convert(s.info.Format, in.Data, in.Format), s.info.Format, in.Channels)
	out.Flags = in.Flags
	in.Free()
	return out, nil
}

// Release is a no-op: converted packets are self-contained.
func (s *FormatStage) Release(*Packet) {}

func (s *FormatStage) Close() error { return nil }
