// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Chain is a linear pipeline of stages, a source followed by any number of
// filters and sinks. Stages are kept in append order and each one reaches
// its predecessor through an index, so the chain owns every stage outright.
//
// A Chain is driven by one goroutine at a time.
type Chain struct {
	id     string
	env    Env
	stages []Stage
	kinds  []string
	closed bool
}

// link is the Upstream handle bound to the stage at idx.
type link struct {
	c   *Chain
	idx int
}

func (l link) Info() Info { return l.c.stages[l.idx].Info() }

func (l link) Samples(first, last int64) (*Packet, error) {
	return l.c.stages[l.idx].Samples(first, last)
}

// Open starts a chain with the source stage kind registered in env.Registry.
func Open(env Env, kind string, opts Options) (*Chain, error) {
	if env.Registry == nil {
		return nil, configErr(kind, errors.New("no registry"))
	}
	k, ok := env.Registry.Kind(kind)
	if !ok {
		return nil, configErr(kind, ErrUnknownKind)
	}
	if !k.Source {
		return nil, configErr(kind, ErrNoPredecessor)
	}

	c := &Chain{id: uuid.NewString()}
	c.env = env
	c.env.Logger = env.logger().With("chain", c.id)

	if err := c.add(k.Name, k.New, opts); err != nil {
		return nil, err
	}
	return c, nil
}

// Append adds a stage of a registered kind after the current terminal stage.
// On failure the chain is left as it was.
func (c *Chain) Append(kind string, opts Options) error {
	if c.closed {
		return configErr(kind, ErrClosed)
	}
	k, ok := c.env.Registry.Kind(kind)
	if !ok {
		return configErr(kind, ErrUnknownKind)
	}
	if k.Source {
		return configErr(kind, ErrHasPredecessor)
	}
	return c.add(k.Name, k.New, opts)
}

// AppendFactory adds a stage built by f, for stages that are not registered.
func (c *Chain) AppendFactory(name string, f Factory, opts Options) error {
	if c.closed {
		return configErr(name, ErrClosed)
	}
	return c.add(name, f, opts)
}

func (c *Chain) add(name string, f Factory, opts Options) error {
	var up Upstream
	if len(c.stages) > 0 {
		up = link{c: c, idx: len(c.stages) - 1}
	}

	s, err := f(c.env, up, opts)
	if err != nil {
		var ce *ConfigError
		var se *StreamError
		if errors.As(err, &ce) || errors.As(err, &se) {
			return err
		}
		return configErr(name, err)
	}

	c.stages = append(c.stages, s)
	c.kinds = append(c.kinds, name)
	c.env.logger().Debug("stage appended", "stage", name, "index", len(c.stages)-1, "info", s.Info().String())
	return nil
}

// ID is the identifier attached to every log line of the chain.
func (c *Chain) ID() string { return c.id }

// Len returns the number of stages.
func (c *Chain) Len() int { return len(c.stages) }

// Kinds lists the stage names in append order.
func (c *Chain) Kinds() []string { return append([]string(nil), c.kinds...) }

// Info describes the stream of the terminal stage.
func (c *Chain) Info() Info {
	if len(c.stages) == 0 {
		return Info{}
	}
	return c.stages[len(c.stages)-1].Info()
}

// Samples pulls samples [first, last) through the whole chain. The returned
// packet belongs to the caller, who must Free it.
func (c *Chain) Samples(first, last int64) (*Packet, error) {
	if c.closed || len(c.stages) == 0 {
		return nil, streamErr("chain", ErrClosed)
	}
	if err := CheckRange("chain", first, last); err != nil {
		return nil, err
	}

	p, err := c.stages[len(c.stages)-1].Samples(first, last)
	if err != nil {
		return nil, err
	}

	if ss := c.Info().SampleSize; ss > 0 {
		p.SampleCount = int64(len(p.Data) / ss)
	}
	if p.SampleCount < last-first {
		p.Flags |= FlagEOF
	}
	return p, nil
}

// Close closes every stage, source first. Errors are joined. Closing twice
// is a no-op.
func (c *Chain) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error
	for i, s := range c.stages {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.kinds[i], err))
		}
	}
	c.stages = nil
	return errors.Join(errs...)
}
