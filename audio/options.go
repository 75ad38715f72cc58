// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ik5/audpipe/pcm"
)

// Options are the named arguments a stage is initialised with.
type Options map[string]string

// String returns the value of key, or def when it is unset or empty.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok && v != "" {
		return v
	}
	return def
}

// Int parses key as an integer.
func (o Options) Int(key string, def int) (int, error) {
	v := o.String(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidOption, key, v)
	}
	return n, nil
}

// SampleFormat parses key as a pcm format name.
func (o Options) SampleFormat(key string, def pcm.Format) (pcm.Format, error) {
	v := o.String(key, "")
	if v == "" {
		return def, nil
	}
	f, err := pcm.ParseFormat(v)
	if err != nil {
		return pcm.FormatNone, fmt.Errorf("%w: %s: %w", ErrInvalidOption, key, err)
	}
	return f, nil
}

// Only rejects keys outside allowed.
func (o Options) Only(allowed ...string) error {
	for k := range o {
		if !slices.Contains(allowed, k) {
			return fmt.Errorf("%w: unknown option %q", ErrInvalidOption, k)
		}
	}
	return nil
}
