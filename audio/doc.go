// SPDX-License-Identifier: EPL-2.0

// Package audio provides the decode-and-filter pipeline.
//
// This package contains the core building blocks:
//   - Stage interface and Chain for composing sources, filters and sinks
//   - DecodeSource, a sliding sample cache over a forward-only decoder
//   - FormatStage, MonoMixer and Resampler filters
//   - RawSink for writing samples as they pass
//   - Registry for stage kinds and container demuxers
//
// # Chains
//
// A chain starts with a source and grows one stage at a time:
//
//	env := audio.Env{Registry: registry, Logger: slog.Default()}
//	chain, err := audio.Open(env, "decode", audio.Options{"filename": "in.wav"})
//	if err != nil {
//	    return err
//	}
//	defer chain.Close()
//
//	err = chain.Append("format", audio.Options{"sampleformat": "s16"})
//
// Every stage copies the Info of its predecessor when it is appended and
// then adjusts its own copy.
//
// # Requesting Samples
//
// Samples are addressed by absolute index. A request returns a Packet that
// the caller owns and must Free:
//
//	p, err := chain.Samples(0, 4096)
//	if errors.Is(err, audio.ErrEndOfStream) {
//	    return nil // Normal end of stream
//	}
//	if err != nil {
//	    return err
//	}
//	defer p.Free()
//
// A packet shorter than the request carries FlagEOF. Requests may skip
// forward but never backward past the start of the decode cache.
//
// # Decode Cache
//
// The decode source keeps a window of bufsize bytes of native samples and
// decodes ahead on demand. Requests wider than the window are split and
// served piecewise. Units that fail to decode are dropped with a single
// warning unless the errors=fail option is set.
//
// # Error Handling
//
// Errors are either a *ConfigError, while a chain is being built, or a
// *StreamError, while samples are produced. They match ErrConfig and
// ErrStream with errors.Is. ErrEndOfStream also matches io.EOF.
package audio
