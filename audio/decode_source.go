// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"sync"

	"golang.org/x/time/rate"

	"github.com/ik5/audpipe/metrics"
	"github.com/ik5/audpipe/pcm"
)

const (
	// DefaultBufSize is the sample cache size in bytes when none is given.
	DefaultBufSize = 384000
	// DefaultFrameLen stands in for the native unit length of codecs that
	// do not report one.
	DefaultFrameLen = 4096

	decodeKind = "decode"
)

// ErrorPolicy decides what a decode source does with a unit that fails to
// decode.
type ErrorPolicy string

const (
	// PolicyDrop skips the unit and keeps decoding.
	PolicyDrop ErrorPolicy = "drop"
	// PolicyFail stops the stream.
	PolicyFail ErrorPolicy = "fail"
)

// DecodeKind is the source stage that demuxes and decodes one audio track
// into a sliding sample cache.
var DecodeKind = Kind{
	Name:        decodeKind,
	Description: "decodes an audio track from a container",
	Help: "filename=PATH (- for stdin), track=any|N, format=KEY, " +
		"sampleformat=u8|s16|s32|flt|dbl, bufsize=BYTES, errors=drop|fail",
	Source: true,
	New:    NewDecodeSource,
}

// DecodeSource serves arbitrary forward-moving sample ranges from a single
// track. It keeps a window of decoded native samples, [bytepos,
// bytepos+len(buf)) in absolute bytes, which only ever moves forward.
type DecodeSource struct {
	info   Info // produced stream
	native Info // cached stream
	log    *slog.Logger
	warn   rate.Sometimes
	stats  *metrics.Cache
	policy ErrorPolicy

	in    io.ReadCloser
	ctr   Container
	dec   UnitDecoder
	track int

	buf     []byte
	bytepos int64
	bufsize int
	surplus int
	ss      int

	// floor is the lowest absolute byte the request in progress still needs.
	floor   int64
	pending []byte

	exhausted bool
	fatal     error
	splits    int
	pool      sync.Pool
	closed    bool
}

// NewDecodeSource is the Factory of DecodeKind.
func NewDecodeSource(env Env, up Upstream, opts Options) (st Stage, err error) {
	if err := CheckUpstream(decodeKind, true, up); err != nil {
		return nil, err
	}
	if err := opts.Only("filename", "track", "format", "sampleformat", "bufsize", "errors"); err != nil {
		return nil, configErr(decodeKind, err)
	}

	name := opts.String("filename", "")
	if name == "" {
		return nil, configErr(decodeKind, fmt.Errorf("%w: filename is required", ErrInvalidOption))
	}
	policy := ErrorPolicy(opts.String("errors", string(PolicyDrop)))
	if policy != PolicyDrop && policy != PolicyFail {
		return nil, configErr(decodeKind, fmt.Errorf("%w: errors=%q", ErrInvalidOption, policy))
	}
	want, err := parseTrack(opts.String("track", "any"))
	if err != nil {
		return nil, configErr(decodeKind, err)
	}
	outFmt, err := opts.SampleFormat("sampleformat", pcm.FormatNone)
	if err != nil {
		return nil, configErr(decodeKind, err)
	}
	bufsize, err := opts.Int("bufsize", 0)
	if err != nil {
		return nil, configErr(decodeKind, err)
	}

	format := opts.String("format", filepath.Ext(name))
	if env.Registry == nil {
		return nil, configErr(decodeKind, fmt.Errorf("%w: %q", ErrUnknownFormat, format))
	}
	demuxer, ok := env.Registry.Get(format)
	if !ok {
		return nil, configErr(decodeKind, fmt.Errorf("%w: %q", ErrUnknownFormat, format))
	}

	s := &DecodeSource{
		log:    env.StageLogger(decodeKind).With("filename", name),
		warn:   rate.Sometimes{First: 1},
		stats:  env.Metrics,
		policy: policy,
	}
	s.pool.New = func() any { return new([]byte) }
	defer func() {
		if err != nil {
			_ = s.Close()
		}
	}()

	if s.in, err = env.open(name); err != nil {
		return nil, configErr(decodeKind, err)
	}
	if s.ctr, err = demuxer.Demux(s.in); err != nil {
		return nil, configErr(decodeKind, fmt.Errorf("demux %s: %w", name, err))
	}

	tr, err := selectTrack(s.ctr.Tracks(), want)
	if err != nil {
		return nil, configErr(decodeKind, err)
	}
	s.track = tr.Index
	s.native = tr.Info.Clone()
	if err := s.native.Validate(); err != nil {
		return nil, configErr(decodeKind, fmt.Errorf("track %d: %w", tr.Index, err))
	}
	if s.dec, err = s.ctr.Decoder(tr.Index); err != nil {
		return nil, configErr(decodeKind, fmt.Errorf("track %d: %w", tr.Index, err))
	}

	if err := s.size(bufsize); err != nil {
		return nil, configErr(decodeKind, err)
	}

	s.info = s.native.Clone()
	if outFmt != pcm.FormatNone {
		s.info = s.native.WithFormat(outFmt)
	}

	// Prime the cache so an input without any audio fails here.
	if err := s.fill(int64(s.ss)); err != nil {
		return nil, configErr(decodeKind, err)
	}
	if len(s.buf) == 0 {
		if s.fatal != nil {
			return nil, configErr(decodeKind, s.fatal)
		}
		return nil, configErr(decodeKind, ErrNoAudio)
	}

	s.log.Debug("decode source ready",
		"track", s.track,
		"native", s.native.String(),
		"output", s.info.Format.String(),
		"bufsize", s.bufsize,
		"surplus", s.surplus)
	return s, nil
}

// size derives the window geometry from the native unit size. An explicit
// bufsize has to fit two units of slack plus one sample; the default grows
// to do so.
func (s *DecodeSource) size(bufsize int) error {
	s.ss = s.native.SampleSize
	framelen := s.native.FrameLen
	if framelen <= 0 {
		framelen = DefaultFrameLen
	}
	s.surplus = framelen * s.ss * 3 / 2

	if bufsize == 0 {
		bufsize = max(DefaultBufSize, 4*s.surplus)
	}
	if bufsize <= 2*s.surplus || bufsize-2*s.surplus < s.ss {
		return fmt.Errorf("%w: bufsize %d too small for surplus %d and sample size %d",
			ErrInvalidOption, bufsize, s.surplus, s.ss)
	}
	s.bufsize = bufsize
	s.buf = make([]byte, 0, bufsize/s.ss*s.ss)
	return nil
}

func parseTrack(v string) (int, error) {
	if v == "any" {
		return -1, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: track=%q", ErrInvalidOption, v)
	}
	return n, nil
}

// selectTrack picks track want, or the first audio track when want is -1.
func selectTrack(tracks []Track, want int) (Track, error) {
	for _, t := range tracks {
		if want < 0 && t.Type == TrackAudio {
			return t, nil
		}
		if t.Index == want {
			if t.Type != TrackAudio {
				return Track{}, fmt.Errorf("%w: track %d", ErrTrack, want)
			}
			return t, nil
		}
	}
	if want < 0 {
		return Track{}, fmt.Errorf("%w: no audio track", ErrTrack)
	}
	return Track{}, fmt.Errorf("%w: track %d", ErrTrack, want)
}

func (s *DecodeSource) Info() Info { return s.info }

// Bounds returns the absolute byte range held by the cache.
func (s *DecodeSource) Bounds() (bytepos, length int64) {
	return s.bytepos, int64(len(s.buf))
}

// BufSize returns the cache capacity in bytes.
func (s *DecodeSource) BufSize() int { return s.bufsize }

// Surplus returns the slack kept for one and a half native units.
func (s *DecodeSource) Surplus() int { return s.surplus }

// Splits counts the requests that had to be split so far.
func (s *DecodeSource) Splits() int { return s.splits }

// Position reports where sample lies relative to the window: -1 before it,
// 0 inside, 1 after.
func (s *DecodeSource) Position(sample int64) int {
	b := sample * int64(s.ss)
	switch {
	case b < s.bytepos:
		return -1
	case b >= s.end():
		return 1
	}
	return 0
}

func (s *DecodeSource) end() int64 { return s.bytepos + int64(len(s.buf)) }

func (s *DecodeSource) Samples(first, last int64) (*Packet, error) {
	if s.closed {
		return nil, streamErr(decodeKind, ErrClosed)
	}
	if err := CheckRange(decodeKind, first, last); err != nil {
		return nil, err
	}
	if s.fatal != nil {
		return nil, streamErr(decodeKind, s.fatal)
	}

	span := (last - first) * int64(s.ss)
	if span+int64(s.surplus) > int64(s.bufsize) {
		return s.split(first, last)
	}
	return s.serve(first, last)
}

// split serves a range larger than the window as two requests.
// [first, pivot) always fits, so only the tail can recurse, and the tail
// shrinks by the fixed window on every level.
func (s *DecodeSource) split(first, last int64) (*Packet, error) {
	s.splits++
	s.stats.Split()
	pivot := first + int64((s.bufsize-2*s.surplus)/s.ss)

	head, err := s.serve(first, pivot)
	if err != nil {
		return nil, err
	}
	if head.EOF() {
		return head, nil
	}

	tail, err := s.Samples(pivot, last)
	if err != nil {
		// The stream ending exactly at pivot still truncates this call.
		if errors.Is(err, ErrEndOfStream) || (s.fatal != nil && errors.Is(err, s.fatal)) {
			head.Flags |= FlagEOF
			return head, nil
		}
		head.Free()
		return nil, err
	}

	hold := s.get(len(head.Data) + len(tail.Data))
	data := append((*hold)[:0], head.Data...)
	data = append(data, tail.Data...)
	*hold = data
	flags := tail.Flags
	head.Free()
	tail.Free()

	p := NewOwnedPacket(s, data, s.info.Format, s.info.Channels, hold)
	p.Flags = flags
	return p, nil
}

func (s *DecodeSource) serve(first, last int64) (*Packet, error) {
	ss := int64(s.ss)
	lo, hi := first*ss, last*ss
	if lo < s.bytepos {
		return nil, streamErr(decodeKind, fmt.Errorf("%w: sample %d is before cache start %d",
			ErrBackwardSeek, first, s.bytepos/ss))
	}

	s.floor = lo
	if err := s.fill(lo + ss); err != nil {
		return nil, streamErr(decodeKind, err)
	}
	if lo >= s.end() {
		if s.fatal != nil {
			return nil, streamErr(decodeKind, s.fatal)
		}
		return nil, ErrEndOfStream
	}

	if err := s.fill(hi); err != nil {
		return nil, streamErr(decodeKind, err)
	}

	var flags Flags
	if hi > s.end() {
		hi = s.end()
		flags = FlagEOF
	}

	src := s.buf[lo-s.bytepos : hi-s.bytepos]
	count := len(src) / s.ss
	hold := s.get(count * s.info.SampleSize)
	data := (*hold)[:count*s.info.SampleSize]
	pcm.ConvertInto(data, s.info.Format, src, s.native.Format)
	*hold = data
	s.stats.Served(int64(count))

	p := NewOwnedPacket(s, data, s.info.Format, s.info.Channels, hold)
	p.Flags = flags
	return p, nil
}

// fill decodes until the window reaches the absolute byte target or the
// stream runs out. A fatal decode failure ends the stream and is kept in
// s.fatal; it does not fail the call that hit it.
func (s *DecodeSource) fill(target int64) error {
	for s.end() < target && (!s.exhausted || len(s.pending) > 0) {
		if len(s.pending) == 0 {
			data, err := s.next()
			switch {
			case errors.Is(err, io.EOF):
				s.exhausted = true
				continue
			case err != nil:
				s.exhausted = true
				s.fatal = err
				s.log.Error("decoding stopped", "error", err, "bytepos", s.end())
				continue
			}
			s.pending = data
		}
		if err := s.store(); err != nil {
			return err
		}
	}
	return nil
}

// next returns the decoded samples of the next unit of the selected track.
func (s *DecodeSource) next() ([]byte, error) {
	for {
		u, err := s.ctr.ReadUnit()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("demux: %w", err)
		}
		if u.Track != s.track {
			continue
		}

		data, err := s.dec.DecodeUnit(u)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			if errors.Is(err, ErrCorruptUnit) && s.policy == PolicyDrop {
				s.stats.UnitDropped()
				s.warn.Do(func() {
					s.log.Warn("dropping undecodable units", "error", err)
				})
				continue
			}
			return nil, fmt.Errorf("decode: %w", err)
		}

		data = data[:len(data)/s.ss*s.ss]
		if len(data) == 0 {
			continue
		}
		s.stats.UnitDecoded()
		return data, nil
	}
}

// store moves pending samples into the window. When they do not fit, the
// front is compacted by the overflow, never past floor, and whatever still
// does not fit stays pending for the next call.
func (s *DecodeSource) store() error {
	room := cap(s.buf) - len(s.buf)
	if room < len(s.pending) {
		over := len(s.pending) - room
		drop := int64((over + s.ss - 1) / s.ss * s.ss)
		drop = min(drop, s.floor-s.bytepos, int64(len(s.buf)))
		if drop > 0 {
			n := copy(s.buf, s.buf[drop:])
			s.buf = s.buf[:n]
			s.bytepos += drop
			s.stats.Discarded(drop)
		}
		room = cap(s.buf) - len(s.buf)
	}
	if room == 0 {
		return ErrCacheFull
	}

	n := min(room, len(s.pending))
	s.buf = append(s.buf, s.pending[:n]...)
	s.pending = s.pending[n:]
	return nil
}

func (s *DecodeSource) get(n int) *[]byte {
	hold := s.pool.Get().(*[]byte)
	if cap(*hold) < n {
		*hold = make([]byte, 0, n)
	}
	return hold
}

// Release returns the packet buffer to the pool.
func (s *DecodeSource) Release(p *Packet) {
	if hold, ok := p.Private().(*[]byte); ok {
		*hold = (*hold)[:0]
		s.pool.Put(hold)
	}
}

// Close releases the decoder, the container and the input.
func (s *DecodeSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.buf = nil
	s.pending = nil

	var errs []error
	if s.dec != nil {
		errs = append(errs, s.dec.Close())
	}
	if s.ctr != nil {
		errs = append(errs, s.ctr.Close())
	}
	if s.in != nil {
		errs = append(errs, s.in.Close())
	}
	return errors.Join(errs...)
}
