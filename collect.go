// SPDX-License-Identifier: EPL-2.0

package audpipe

import (
	"errors"
	"fmt"

	"github.com/ik5/audpipe/audio"
)

// OpenFile starts a chain decoding path. opts may add any decode option.
func OpenFile(env audio.Env, path string, opts audio.Options) (*audio.Chain, error) {
	o := audio.Options{}
	for k, v := range opts {
		o[k] = v
	}
	o["filename"] = path
	return audio.Open(env, "decode", o)
}

// Drain pulls the chain from sample 0 in requests of step samples until the
// stream ends, handing every packet to fn before freeing it. fn may be nil.
// It returns the number of samples pulled. A stream cut short by a decode
// failure is reported once its last samples were handed out.
func Drain(chain *audio.Chain, step int, fn func(p *audio.Packet) error) (int64, error) {
	if step <= 0 {
		return 0, fmt.Errorf("%w: step %d", audio.ErrInvalidOption, step)
	}

	var total int64
	for first := int64(0); ; first += int64(step) {
		p, err := chain.Samples(first, first+int64(step))
		if errors.Is(err, audio.ErrEndOfStream) {
			return total, nil
		}
		if err != nil {
			return total, err
		}

		n, eof := p.SampleCount, p.EOF()
		total += n
		if fn != nil {
			err = fn(p)
		}
		p.Free()
		if err != nil {
			return total, err
		}
		if eof {
			return total, ended(chain, first+n)
		}
	}
}

// ended tells a clean end of stream from a fatal one at sample next.
func ended(chain *audio.Chain, next int64) error {
	p, err := chain.Samples(next, next+1)
	if errors.Is(err, audio.ErrEndOfStream) {
		return nil
	}
	if err == nil {
		p.Free()
	}
	return err
}

// Collect drains the chain and returns all of its samples.
func Collect(chain *audio.Chain, step int) ([]byte, error) {
	var out []byte
	_, err := Drain(chain, step, func(p *audio.Packet) error {
		out = append(out, p.Data...)
		return nil
	})
	return out, err
}
