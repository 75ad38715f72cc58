// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	"github.com/ik5/audpipe/pcm"
	"github.com/ik5/audpipe/utils"
)

const resampleKind = "resample"

// ResampleKind changes the sample rate.
var ResampleKind = Kind{
	Name:        resampleKind,
	Description: "resamples to another rate with cubic interpolation",
	Help:        "rate=HZ",
	New:         NewResampler,
}

// Resampler maps output sample k to the source position k*srcRate/dstRate
// and interpolates it from the four surrounding source samples. Positions
// are absolute, so any output range resolves to a fixed source range and
// requests need not be contiguous.
type Resampler struct {
	up      Upstream
	info    Info
	srcRate int64
	dstRate int64
}

func NewResampler(_ Env, up Upstream, opts Options) (Stage, error) {
	if err := CheckUpstream(resampleKind, false, up); err != nil {
		return nil, err
	}
	if err := opts.Only("rate"); err != nil {
		return nil, configErr(resampleKind, err)
	}
	rate, err := opts.Int("rate", 0)
	if err != nil {
		return nil, configErr(resampleKind, err)
	}
	if rate <= 0 {
		return nil, configErr(resampleKind, fmt.Errorf("%w: rate must be positive", ErrInvalidOption))
	}

	in := up.Info()
	info := in.Clone()
	info.SampleRate = rate
	info.TimeBase = Rational{Num: 1, Den: rate}
	// Keep the unit duration roughly constant.
	info.FrameLen = int(int64(in.FrameLen) * int64(rate) / int64(in.SampleRate))
	info.FrameSize = info.FrameLen * info.SampleSize

	return &Resampler{
		up:      up,
		info:    info,
		srcRate: int64(in.SampleRate),
		dstRate: int64(rate),
	}, nil
}

func (r *Resampler) Info() Info { return r.info }

// source returns the integer source index and fractional offset of output
// sample k.
func (r *Resampler) source(k int64) (int64, float64) {
	n := k * r.srcRate
	return n / r.dstRate, float64(n%r.dstRate) / float64(r.dstRate)
}

func (r *Resampler) Samples(first, last int64) (*Packet, error) {
	if r.srcRate == r.dstRate {
		p, err := r.up.Samples(first, last)
		return p, classify(resampleKind, err)
	}
	if err := CheckRange(resampleKind, first, last); err != nil {
		return nil, err
	}

	i0, _ := r.source(first)
	i1, _ := r.source(last - 1)
	lo, hi := max(0, i0-1), i1+3

	in, err := r.up.Samples(lo, hi)
	if err != nil {
		return nil, classify(resampleKind, err)
	}
	defer in.Free()

	channels := r.info.Channels
	planes := pcm.DeinterleaveFloat(in.Data, in.Format, channels)
	avail := lo + int64(len(planes[0]))

	// Output samples whose base source sample exists.
	n := last - first
	if in.EOF() {
		n = 0
		for k := first; k < last; k++ {
			if i, _ := r.source(k); i >= avail {
				break
			}
			n++
		}
		if n == 0 {
			return nil, ErrEndOfStream
		}
	}

	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, n)
	}
	for j := range n {
		i, frac := r.source(first + j)
		pos := float64(i) + frac
		for c := range channels {
			out[c][j] = utils.CubicAt(planes[c], lo, pos)
		}
	}

	p := NewPacket(pcm.InterleaveFloat(in.Format, out), in.Format, channels)
	if n < last-first {
		p.Flags |= FlagEOF
	}
	return p, nil
}

// Release is a no-op: resampled packets are self-contained.
func (r *Resampler) Release(*Packet) {}

func (r *Resampler) Close() error { return nil }
