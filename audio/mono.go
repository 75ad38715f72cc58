// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"github.com/ik5/audpipe/pcm"
)

const monoKind = "mono"

// MonoKind downmixes every channel into one.
var MonoKind = Kind{
	Name:        monoKind,
	Description: "averages all channels into a mono stream",
	New:         NewMonoMixer,
}

// MonoMixer averages the channels of its predecessor. Mono input passes
// through untouched.
type MonoMixer struct {
	up       Upstream
	info     Info
	channels int
}

func NewMonoMixer(_ Env, up Upstream, opts Options) (Stage, error) {
	if err := CheckUpstream(monoKind, false, up); err != nil {
		return nil, err
	}
	if err := opts.Only(); err != nil {
		return nil, configErr(monoKind, err)
	}

	in := up.Info()
	return &MonoMixer{
		up:       up,
		info:     in.WithChannels(1, LayoutMono),
		channels: in.Channels,
	}, nil
}

func (m *MonoMixer) Info() Info { return m.info }

func (m *MonoMixer) Samples(first, last int64) (*Packet, error) {
	in, err := m.up.Samples(first, last)
	if err != nil {
		return nil, classify(monoKind, err)
	}
	if m.channels == 1 {
		return in, nil
	}

	planes := pcm.DeinterleaveFloat(in.Data, in.Format, m.channels)
	mixed := mix(planes)
	out := NewPacket(pcm.InterleaveFloat(in.Format, [][]float32{mixed}), in.Format, 1)
	out.Flags = in.Flags
	in.Free()
	return out, nil
}

func mix(planes [][]float32) []float32 {
	frames := len(planes[0])
	dst := make([]float32, frames)

	switch len(planes) {
	case 2: // Stereo (most common)
		l, r := planes[0], planes[1]
		for f := range frames {
			dst[f] = (l[f] + r[f]) * 0.5
		}
	case 4:
		for f := range frames {
			sum := planes[0][f] + planes[1][f] + planes[2][f] + planes[3][f]
			dst[f] = sum * 0.25
		}
	default:
		inv := float32(1.0) / float32(len(planes))
		for f := range frames {
			sum := float32(0)
			for _, p := range planes {
				sum += p[f]
			}
			dst[f] = sum * inv
		}
	}
	return dst
}

// Release is a no-op: mixed packets are self-contained.
func (m *MonoMixer) Release(*Packet) {}

func (m *MonoMixer) Close() error { return nil }
