// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrConfig and ErrStream classify every error a chain returns, other than
	// ErrEndOfStream.
	ErrConfig = errors.New("audio configuration error")
	ErrStream = errors.New("audio stream error")

	// ErrEndOfStream is returned when a request starts past the last decodable
	// sample. It matches io.EOF.
	ErrEndOfStream = fmt.Errorf("end of audio stream: %w", io.EOF)

	// ErrCorruptUnit marks a decode failure limited to a single unit. Decoders
	// wrap it so the source can drop the unit and continue.
	ErrCorruptUnit = errors.New("corrupt decode unit")

	ErrBackwardSeek   = errors.New("backwards seeking not supported")
	ErrInvalidRange   = errors.New("invalid sample range")
	ErrNoPredecessor  = errors.New("stage requires a previous stage")
	ErrHasPredecessor = errors.New("source stage must be the first stage")
	ErrUnknownKind    = errors.New("unknown stage kind")
	ErrUnknownFormat  = errors.New("unknown container format")
	ErrTrack          = errors.New("requested track is unavailable or not audio")
	ErrNoAudio        = errors.New("no decodable audio")
	ErrCacheFull      = errors.New("sample cache cannot hold the requested window")
	ErrInvalidOption  = errors.New("invalid option")
	ErrClosed         = errors.New("chain is closed")
)

// ConfigError reports a bad option, a missing predecessor or an unselectable
// track while a stage is initialised.
type ConfigError struct {
	Stage string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Is makes every ConfigError match ErrConfig.
func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// StreamError reports a failure while samples are produced. The chain should
// be closed after it.
type StreamError struct {
	Stage string
	Err   error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }

// Is makes every StreamError match ErrStream.
func (e *StreamError) Is(target error) bool { return target == ErrStream }

func configErr(stage string, err error) error {
	return &ConfigError{Stage: stage, Err: err}
}

func streamErr(stage string, err error) error {
	return &StreamError{Stage: stage, Err: err}
}

// classify keeps errors that already carry a category and files the rest
// under StreamError.
func classify(stage string, err error) error {
	if err == nil || errors.Is(err, ErrConfig) || errors.Is(err, ErrStream) || errors.Is(err, ErrEndOfStream) {
		return err
	}
	return streamErr(stage, err)
}
