package snap

import (
	"fmt"
	"sort"

	"github.com/Tessella/spritevault/sprite"
)

// propertiesCodec persists an entity's namespaced property bags. The
// unnamed namespace always persists; named namespaces persist only when
// the pass's allow-list includes them. Values go through the dispatcher,
// so nested points, rectangles and colors serialize as envelopes.
type propertiesCodec struct{}

func (propertiesCodec) Tag() string { return "properties" }

func (propertiesCodec) Matches(v any) bool {
	_, ok := v.(*sprite.Properties)
	return ok
}

func (propertiesCodec) Encode(v any, ctx *Context) (*Node, error) {
	props := v.(*sprite.Properties)
	out := Map()
	for _, ns := range props.Namespaces() {
		if ns != "" && !ctx.namespaceAllowed(ns) {
			continue
		}
		bag := props.Namespace(ns)
		keys := make([]string, 0, len(bag))
		for k := range bag {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		bagNode := Map()
		for _, k := range keys {
			n, err := Serialize(bag[k], ctx)
			if err != nil {
				return nil, fmt.Errorf("property %q/%q: %w", ns, k, err)
			}
			bagNode.Set(k, n)
		}
		out.Set(ns, bagNode)
	}
	return out, nil
}

func (propertiesCodec) Decode(data *Node, ctx *Context) (any, error) {
	props := sprite.NewProperties()
	entries, err := data.AsMap()
	if err != nil {
		return nil, err
	}
	for _, nsEntry := range entries {
		bag := props.Namespace(nsEntry.Key)
		bagEntries, err := nsEntry.Value.AsMap()
		if err != nil {
			return nil, fmt.Errorf("namespace %q: %w", nsEntry.Key, err)
		}
		for _, e := range bagEntries {
			v, err := Deserialize(e.Value, ctx)
			if err != nil {
				return nil, fmt.Errorf("property %q/%q: %w", nsEntry.Key, e.Key, err)
			}
			bag[e.Key] = v
		}
	}
	return props, nil
}

// encodeProps is the shared helper entity codecs use to attach their
// property bags under the "properties" wire key.
func encodeProps(m *Node, props *sprite.Properties, ctx *Context) error {
	n, err := Serialize(props, ctx)
	if err != nil {
		return err
	}
	m.Set("properties", n)
	return nil
}

// decodeProps merges an encoded property set into dst. A missing
// "properties" field is fine; old snapshots may predate it.
func decodeProps(data *Node, dst *sprite.Properties, ctx *Context) error {
	child := data.Get("properties")
	if child == nil || child.IsNull() {
		return nil
	}
	v, err := Deserialize(child, ctx)
	if err != nil {
		return err
	}
	props, ok := v.(*sprite.Properties)
	if !ok {
		return fmt.Errorf("spritevault: properties field decoded to %T", v)
	}
	dst.CopyFrom(props)
	return nil
}
