package sprite

import "sort"

// Properties is a namespaced key/value bag attached to documents, layers,
// cels, frames, tags, slices and tiles.
//
// The empty namespace "" is the owner's own bag; named namespaces belong to
// extensions (e.g. "com.example.tool"). Values are plain data: bool, int64,
// float64, string, Point, Size, Rect, Color, nested []any and
// map[string]any.
type Properties struct {
	bags map[string]map[string]any
}

// NewProperties creates an empty property set.
func NewProperties() *Properties {
	return &Properties{bags: make(map[string]map[string]any)}
}

// Namespace returns the bag for the given namespace, creating it on first
// access. The empty string addresses the owner's own bag.
func (p *Properties) Namespace(name string) map[string]any {
	if p.bags == nil {
		p.bags = make(map[string]map[string]any)
	}
	bag, ok := p.bags[name]
	if !ok {
		bag = make(map[string]any)
		p.bags[name] = bag
	}
	return bag
}

// Has returns true if the namespace exists and is non-empty.
func (p *Properties) Has(name string) bool {
	if p == nil || p.bags == nil {
		return false
	}
	return len(p.bags[name]) > 0
}

// Namespaces returns all non-empty namespace names: "" first if present,
// the rest sorted.
func (p *Properties) Namespaces() []string {
	if p == nil || p.bags == nil {
		return nil
	}
	var named []string
	hasOwn := false
	for name, bag := range p.bags {
		if len(bag) == 0 {
			continue
		}
		if name == "" {
			hasOwn = true
			continue
		}
		named = append(named, name)
	}
	sort.Strings(named)
	if hasOwn {
		return append([]string{""}, named...)
	}
	return named
}

// CopyFrom merges every namespace of o into p, overwriting existing keys.
func (p *Properties) CopyFrom(o *Properties) {
	if o == nil {
		return
	}
	for _, name := range o.Namespaces() {
		dst := p.Namespace(name)
		for k, v := range o.bags[name] {
			dst[k] = v
		}
	}
}
