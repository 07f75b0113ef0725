package snap

import (
	"sort"
	"sync"
)

// Codec is a named serialization strategy bound to exactly one type tag.
// Codecs are stateless: per-pass state (the resource table, the target
// document, the namespace allow-list) travels in the Context.
type Codec interface {
	// Tag returns the codec's unique type tag.
	Tag() string

	// Matches reports whether this codec handles the given runtime value.
	Matches(v any) bool

	// Encode turns a matched value into its envelope payload.
	Encode(v any, ctx *Context) (*Node, error)

	// Decode reconstructs a value from an envelope payload.
	Decode(data *Node, ctx *Context) (any, error)
}

// Prioritized is optionally implemented by codecs whose predicate may
// overlap another codec's. Higher priority wins; the default is 0.
type Prioritized interface {
	Priority() int
}

// Externalizer is optionally implemented by codecs whose payload moves to
// a sidecar file during store. Both hooks mutate data in place: Externalize
// replaces the heavy payload with a file reference after writing the
// sidecar under dir, Reinflate reads it back.
type Externalizer interface {
	Externalize(data *Node, dir string) error
	Reinflate(data *Node, dir string) error
}

// Registry maps type tags to codecs. Registration is idempotent and
// order-independent: untagged dispatch scans codecs by descending
// priority, ties broken by ascending tag, so the winner never depends on
// registration order.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Codec
	order  []Codec
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Codec)}
}

// Register inserts a codec, replacing any previous codec with the same tag.
func (r *Registry) Register(c Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[c.Tag()] = c

	r.order = r.order[:0]
	for _, codec := range r.codecs {
		r.order = append(r.order, codec)
	}
	sort.Slice(r.order, func(i, j int) bool {
		pi, pj := priorityOf(r.order[i]), priorityOf(r.order[j])
		if pi != pj {
			return pi > pj
		}
		return r.order[i].Tag() < r.order[j].Tag()
	})
}

func priorityOf(c Codec) int {
	if p, ok := c.(Prioritized); ok {
		return p.Priority()
	}
	return 0
}

// Lookup returns the codec for a tag.
func (r *Registry) Lookup(tag string) (Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.codecs[tag]
	return c, ok
}

// Match returns the first codec, in deterministic scan order, whose
// predicate accepts v.
func (r *Registry) Match(v any) (Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.order {
		if c.Matches(v) {
			return c, true
		}
	}
	return nil, false
}

// Tags returns the registered tags in scan order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.order))
	for _, c := range r.order {
		tags = append(tags, c.Tag())
	}
	return tags
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry, populated with the built-in
// codec set on first use.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		RegisterDefaults(defaultRegistry)
	})
	return defaultRegistry
}

// RegisterDefaults installs the built-in codecs into r. Calling it more
// than once is harmless.
func RegisterDefaults(r *Registry) {
	r.Register(pointCodec{})
	r.Register(sizeCodec{})
	r.Register(rectCodec{})
	r.Register(gridCodec{})
	r.Register(colorCodec{})
	r.Register(propertiesCodec{})
	r.Register(imageCodec{})
	r.Register(frameCodec{})
	r.Register(tagCodec{})
	r.Register(sliceCodec{})
	r.Register(celCodec{})
	r.Register(layerCodec{})
	r.Register(tileCodec{})
	r.Register(tilesetCodec{})
	r.Register(paletteCodec{})
	r.Register(documentCodec{})
}
