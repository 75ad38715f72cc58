// SPDX-License-Identifier: EPL-2.0

package audio

import "github.com/ik5/audpipe/pcm"

// Flags annotate a Packet.
type Flags uint8

const (
	FlagNone Flags = 0
	// FlagEOF is set when the stream ended before the requested range did.
	FlagEOF Flags = 1
)

// Releaser is implemented by stages that hand out packets they must reclaim.
type Releaser interface {
	Release(p *Packet)
}

// Packet carries interleaved samples from a stage to its caller. The caller
// owns it and must call Free exactly once; further calls are no-ops.
type Packet struct {
	Data        []byte // interleaved little-endian samples
	Format      pcm.Format
	Channels    int
	SampleCount int64
	Flags       Flags

	owner Releaser // nil: self-contained
	priv  any      // producer private state, interpreted by owner only
	freed bool
}

// NewPacket returns a self-contained packet holding data.
func NewPacket(data []byte, f pcm.Format, channels int) *Packet {
	p := &Packet{Data: data, Format: f, Channels: channels}
	p.SampleCount = p.count()
	return p
}

// NewOwnedPacket returns a packet whose release is delegated to owner. priv
// is handed back to owner untouched through Private.
func NewOwnedPacket(owner Releaser, data []byte, f pcm.Format, channels int, priv any) *Packet {
	p := NewPacket(data, f, channels)
	p.owner = owner
	p.priv = priv
	return p
}

// EOF reports whether FlagEOF is set.
func (p *Packet) EOF() bool { return p.Flags&FlagEOF != 0 }

// Owner returns the stage the release is delegated to, or nil.
func (p *Packet) Owner() Releaser { return p.owner }

// Private returns the producer private state.
func (p *Packet) Private() any { return p.priv }

// Freed reports whether Free has run.
func (p *Packet) Freed() bool { return p.freed }

// Free releases the packet through its owner, or drops its data when the
// packet is self-contained.
func (p *Packet) Free() {
	if p == nil || p.freed {
		return
	}
	p.freed = true
	if p.owner != nil {
		p.owner.Release(p)
	}
	p.Data = nil
	p.priv = nil
	p.owner = nil
}

// Size returns the number of valid bytes.
func (p *Packet) Size() int { return len(p.Data) }

func (p *Packet) count() int64 {
	frame := p.Format.Width() * p.Channels
	if frame == 0 {
		return 0
	}
	return int64(len(p.Data) / frame)
}
