// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Registry maps stage kinds by name and demuxers by format key (e.g. "wav",
// "mp3", "ogg"). It is safe for concurrent use.
type Registry struct {
	kinds   map[string]Kind
	formats map[string]Demuxer

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		kinds:   make(map[string]Kind),
		formats: make(map[string]Demuxer),
		mtx:     &sync.Mutex{},
	}
}

// Register adds a demuxer for a format key. Keys are case insensitive and a
// leading dot is ignored, so file extensions can be passed as is.
func (r *Registry) Register(format string, d Demuxer) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.formats[formatKey(format)] = d
}

// Get returns the demuxer registered for format.
func (r *Registry) Get(format string) (Demuxer, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.formats[formatKey(format)]
	return d, ok
}

// Formats lists the registered format keys in order.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return slices.Sorted(maps.Keys(r.formats))
}

// RegisterKind adds a stage kind. Registering a name twice replaces the
// earlier kind.
func (r *Registry) RegisterKind(k Kind) error {
	if k.Name == "" || k.New == nil {
		return fmt.Errorf("%w: kind %q has no name or factory", ErrUnknownKind, k.Name)
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.kinds[k.Name] = k
	return nil
}

// Kind returns the stage kind registered under name.
func (r *Registry) Kind(name string) (Kind, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	k, ok := r.kinds[name]
	return k, ok
}

// Kinds lists the registered kinds sorted by name.
func (r *Registry) Kinds() []Kind {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	out := make([]Kind, 0, len(r.kinds))
	for _, name := range slices.Sorted(maps.Keys(r.kinds)) {
		out = append(out, r.kinds[name])
	}
	return out
}

func formatKey(format string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(format)), ".")
}

// Builtins returns the stage kinds implemented by this package.
func Builtins() []Kind {
	return []Kind{DecodeKind, FormatKind, MonoKind, ResampleKind, RawKind}
}
