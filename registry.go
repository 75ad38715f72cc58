// SPDX-License-Identifier: EPL-2.0

package audpipe

import (
	"log/slog"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/formats/aiff"
	"github.com/ik5/audpipe/formats/flac"
	"github.com/ik5/audpipe/formats/mp3"
	"github.com/ik5/audpipe/formats/vorbis"
	"github.com/ik5/audpipe/formats/wav"
	"github.com/ik5/audpipe/metrics"
)

// DefaultRegistry returns a registry holding the built-in stage kinds, the
// wav sink and a demuxer for every bundled format.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	for _, k := range append(audio.Builtins(), wav.SinkKind) {
		// every built-in kind has a name and a factory
		_ = reg.RegisterKind(k)
	}

	reg.Register(wav.Format, wav.Decoder{})
	reg.Register("wave", wav.Decoder{})
	reg.Register(aiff.Format, aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register(mp3.Format, mp3.Decoder{})
	reg.Register(vorbis.Format, vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})
	reg.Register(flac.Format, flac.Decoder{})
	return reg
}

// NewEnv returns an environment backed by DefaultRegistry and the file
// system. Both arguments may be nil.
func NewEnv(logger *slog.Logger, m *metrics.Cache) audio.Env {
	return audio.Env{
		Registry: DefaultRegistry(),
		Logger:   logger,
		Metrics:  m,
	}
}
