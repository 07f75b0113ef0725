package snap

import (
	"fmt"
)

// ResourceTable deduplicates heavyweight shared payloads within one
// serialize/deserialize pass. Encode side: the first codec to touch a
// resource encodes it once under an id derived from the resource's own
// identity; every owner stores a "res:" reference instead of an inline
// envelope. Decode side: references resolve through the table, decoding
// each resource on first use so all owners share one reconstructed
// instance.
//
// The table lives exactly as long as one pass. It is embedded as a field
// of the document envelope and never persisted standalone.
type ResourceTable struct {
	ids      []string
	entries  map[string]*Node
	decoded  map[string]any
	interned map[string]string
}

// NewResourceTable creates an empty table.
func NewResourceTable() *ResourceTable {
	return &ResourceTable{
		entries:  make(map[string]*Node),
		decoded:  make(map[string]any),
		interned: make(map[string]string),
	}
}

// Intern records that the table id was assigned to a resource identity
// key (an image's intrinsic id). Ids are pass-local sequence numbers, so
// re-encoding the same document yields a byte-identical snapshot; the
// identity key only guarantees dedup within the pass.
func (t *ResourceTable) Intern(key, id string) {
	t.interned[key] = id
}

// InternedID returns the table id previously assigned to an identity key.
func (t *ResourceTable) InternedID(key string) (string, bool) {
	id, ok := t.interned[key]
	return id, ok
}

// Has reports whether an id is present.
func (t *ResourceTable) Has(id string) bool {
	_, ok := t.entries[id]
	return ok
}

// Add inserts an encoded resource under id. Re-adding an existing id is a
// no-op: one pass encodes each resource exactly once.
func (t *ResourceTable) Add(id string, env *Node) {
	if _, ok := t.entries[id]; ok {
		return
	}
	t.ids = append(t.ids, id)
	t.entries[id] = env
}

// Get returns the encoded resource for id.
func (t *ResourceTable) Get(id string) (*Node, bool) {
	env, ok := t.entries[id]
	return env, ok
}

// Len returns the number of distinct resources.
func (t *ResourceTable) Len() int { return len(t.ids) }

// IDs returns the ids in insertion order.
func (t *ResourceTable) IDs() []string { return t.ids }

// Node renders the table as a map node in insertion order, for embedding
// in the document envelope.
func (t *ResourceTable) Node() *Node {
	m := Map()
	for _, id := range t.ids {
		m.Set(id, t.entries[id])
	}
	return m
}

// ResourceTableFromNode rebuilds a table from its embedded map node.
func ResourceTableFromNode(n *Node) (*ResourceTable, error) {
	t := NewResourceTable()
	if n.IsNull() {
		return t, nil
	}
	entries, err := n.AsMap()
	if err != nil {
		return nil, fmt.Errorf("spritevault: resource table: %w", err)
	}
	for _, e := range entries {
		t.Add(e.Key, e.Value)
	}
	return t, nil
}

// Resolve decodes the resource behind id, caching the result so every
// later reference shares the same instance. A missing id is fatal.
func (t *ResourceTable) Resolve(id string, ctx *Context) (any, error) {
	if v, ok := t.decoded[id]; ok {
		return v, nil
	}
	env, ok := t.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingResource, id)
	}
	v, err := Deserialize(env, ctx)
	if err != nil {
		return nil, fmt.Errorf("resource %q: %w", id, err)
	}
	if t.decoded == nil {
		t.decoded = make(map[string]any)
	}
	t.decoded[id] = v
	return v, nil
}
