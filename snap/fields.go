package snap

import (
	"fmt"
	"reflect"
	"sort"
	"unicode"
	"unicode/utf8"
)

// ============================================================
// Field copier
// ============================================================
//
// Plain codecs declare an ordered list of struct field names instead of
// writing bespoke encode/decode logic. encodeFields reads each named field,
// routes it through the dispatcher (so nested values such as a slice's
// bounds rectangle serialize themselves), and stores it in a map node under
// the lower-camel wire key. decodeFields is the exact inverse.

// wireKey converts a Go field name to its wire form: "Duration" → "duration".
func wireKey(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToLower(r)) + name[size:]
}

// encodeFields copies named fields from a struct (or struct pointer) into
// a fresh map node, dispatching each value.
func encodeFields(v any, names []string, ctx *Context) (*Node, error) {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("spritevault: encodeFields on %T", v)
	}
	m := Map()
	for _, name := range names {
		f := rv.FieldByName(name)
		if !f.IsValid() {
			return nil, fmt.Errorf("spritevault: %T has no field %q", v, name)
		}
		n, err := Serialize(f.Interface(), ctx)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		m.Set(wireKey(name), n)
	}
	return m, nil
}

// decodeFields copies named fields from a map node onto a struct pointer,
// dispatching each value. Fields absent from the node are left at their
// current value.
func decodeFields(n *Node, target any, names []string, ctx *Context) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("spritevault: decodeFields needs a struct pointer, got %T", target)
	}
	rv = rv.Elem()
	for _, name := range names {
		child := n.Get(wireKey(name))
		if child == nil {
			continue
		}
		v, err := Deserialize(child, ctx)
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		f := rv.FieldByName(name)
		if !f.IsValid() {
			return fmt.Errorf("spritevault: %T has no field %q", target, name)
		}
		if err := assignField(f, v); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}
	return nil
}

// assignField sets a struct field, converting between the node model's
// canonical scalar types (int64, float64) and narrower field types.
func assignField(f reflect.Value, v any) error {
	if v == nil {
		f.Set(reflect.Zero(f.Type()))
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(f.Type()) {
		f.Set(rv)
		return nil
	}
	if rv.Type().ConvertibleTo(f.Type()) {
		f.Set(rv.Convert(f.Type()))
		return nil
	}
	return fmt.Errorf("spritevault: cannot assign %T to %s", v, f.Type())
}

// sortedKeys returns a map's keys in sorted order, for deterministic
// encoding of pass-through Go maps.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
