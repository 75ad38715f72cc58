// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ik5/audpipe/metrics"
)

// Stage is one node of a Chain. Sources decode input, filters transform the
// packets of their predecessor, sinks consume them as they pass through.
type Stage interface {
	// Info describes the stream the stage produces.
	Info() Info
	// Samples returns samples [first, last). Fewer samples come back, with
	// FlagEOF set, when the stream ends inside the range.
	Samples(first, last int64) (*Packet, error)
	// Release reclaims a packet this stage returned from Samples.
	Releaser
	// Close frees the stage's own resources. It never closes other stages.
	Close() error
}

// Upstream is the view a stage has of its predecessor.
type Upstream interface {
	Info() Info
	Samples(first, last int64) (*Packet, error)
}

// Factory creates a stage. up is nil for source stages.
type Factory func(env Env, up Upstream, opts Options) (Stage, error)

// Kind describes a stage that can be created by name.
type Kind struct {
	Name        string
	Description string
	Help        string
	Source      bool
	New         Factory
}

// Env carries the collaborators shared by every stage of a chain.
type Env struct {
	Registry *Registry
	Logger   *slog.Logger
	Metrics  *metrics.Cache

	// Open opens an input by name. Defaults to os.Open, with "-" for stdin.
	Open func(name string) (io.ReadCloser, error)
	// Create opens an output by name. Defaults to os.Create, with "-" for
	// stdout.
	Create func(name string) (io.WriteCloser, error)
}

func (e Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// StageLogger returns the env logger scoped to a stage kind.
func (e Env) StageLogger(kind string) *slog.Logger {
	return e.logger().With("stage", kind)
}

func (e Env) open(name string) (io.ReadCloser, error) {
	if e.Open != nil {
		return e.Open(name)
	}
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(name)
}

// CreateOutput opens an output through Env.Create or the file system.
func (e Env) CreateOutput(name string) (io.WriteCloser, error) {
	if e.Create != nil {
		return e.Create(name)
	}
	if name == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(name)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// CheckUpstream enforces the init contract of a kind: sources take no
// predecessor, every other stage needs one.
func CheckUpstream(kind string, source bool, up Upstream) error {
	switch {
	case source && up != nil:
		return configErr(kind, ErrHasPredecessor)
	case !source && up == nil:
		return configErr(kind, ErrNoPredecessor)
	}
	return nil
}

// ConfigErr wraps err as a ConfigError of stage kind.
func ConfigErr(kind string, err error) error { return configErr(kind, err) }

// StreamErr wraps err as a StreamError of stage kind.
func StreamErr(kind string, err error) error { return streamErr(kind, err) }

// CheckRange validates a sample range request.
func CheckRange(kind string, first, last int64) error {
	if first < 0 || last <= first {
		return streamErr(kind, fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, first, last))
	}
	return nil
}

// Classify files err under StreamError unless it already carries a category
// or marks the end of the stream.
func Classify(kind string, err error) error { return classify(kind, err) }
