package snap

import (
	"fmt"
	"strings"
)

// Kind identifies the variant held by a Node.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindStr
	KindBytes
	KindList
	KindMap
	KindEnvelope
	KindRef
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStr:
		return "str"
	case KindBytes:
		return "bytes"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindEnvelope:
		return "envelope"
	case KindRef:
		return "ref"
	default:
		return "unknown"
	}
}

// Ref is a lightweight reference: "res:<id>" points into the resource
// table, "file:<name>" points at a sidecar file written during store.
type Ref struct {
	Prefix string
	Value  string
}

// String returns the reference as "prefix:value".
func (r Ref) String() string {
	if r.Prefix == "" {
		return r.Value
	}
	return r.Prefix + ":" + r.Value
}

// ParseRef splits "prefix:value" into a Ref.
func ParseRef(s string) Ref {
	if i := strings.Index(s, ":"); i >= 0 {
		return Ref{Prefix: s[:i], Value: s[i+1:]}
	}
	return Ref{Value: s}
}

// Entry is one key/value pair of a map node. Map nodes keep insertion
// order so snapshots emit deterministically.
type Entry struct {
	Key   string
	Value *Node
}

// Node is one node of an encoded value tree.
type Node struct {
	kind Kind

	boolVal  bool
	intVal   int64
	floatVal float64
	strVal   string
	bytesVal []byte

	listVal []*Node
	mapVal  []Entry

	envTag  string
	envData *Node

	refVal Ref
}

// ============================================================
// Constructors
// ============================================================

// Null creates a null node.
func Null() *Node { return &Node{kind: KindNull} }

// Bool creates a boolean node.
func Bool(v bool) *Node { return &Node{kind: KindBool, boolVal: v} }

// Int creates an integer node.
func Int(v int64) *Node { return &Node{kind: KindInt, intVal: v} }

// Float creates a float node.
func Float(v float64) *Node { return &Node{kind: KindFloat, floatVal: v} }

// Str creates a string node.
func Str(v string) *Node { return &Node{kind: KindStr, strVal: v} }

// Bytes creates a binary payload node.
func Bytes(v []byte) *Node { return &Node{kind: KindBytes, bytesVal: v} }

// List creates a list node.
func List(items ...*Node) *Node { return &Node{kind: KindList, listVal: items} }

// Map creates an ordered map node.
func Map(entries ...Entry) *Node { return &Node{kind: KindMap, mapVal: entries} }

// Field creates a map entry, for use with Map.
func Field(key string, value *Node) Entry { return Entry{Key: key, Value: value} }

// Envelope wraps encoded data under a codec tag.
func Envelope(tag string, data *Node) *Node {
	return &Node{kind: KindEnvelope, envTag: tag, envData: data}
}

// NewRef creates a reference node.
func NewRef(prefix, value string) *Node {
	return &Node{kind: KindRef, refVal: Ref{Prefix: prefix, Value: value}}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the node variant. A nil node is null.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindNull
	}
	return n.kind
}

// IsNull returns true for nil and null nodes.
func (n *Node) IsNull() bool { return n == nil || n.kind == KindNull }

// AsBool returns the boolean value.
func (n *Node) AsBool() (bool, error) {
	if n.Kind() != KindBool {
		return false, fmt.Errorf("spritevault: expected bool node, got %s", n.Kind())
	}
	return n.boolVal, nil
}

// AsInt returns the integer value.
func (n *Node) AsInt() (int64, error) {
	if n.Kind() != KindInt {
		return 0, fmt.Errorf("spritevault: expected int node, got %s", n.Kind())
	}
	return n.intVal, nil
}

// AsFloat returns the float value.
func (n *Node) AsFloat() (float64, error) {
	if n.Kind() != KindFloat {
		return 0, fmt.Errorf("spritevault: expected float node, got %s", n.Kind())
	}
	return n.floatVal, nil
}

// AsStr returns the string value.
func (n *Node) AsStr() (string, error) {
	if n.Kind() != KindStr {
		return "", fmt.Errorf("spritevault: expected str node, got %s", n.Kind())
	}
	return n.strVal, nil
}

// AsBytes returns the binary payload.
func (n *Node) AsBytes() ([]byte, error) {
	if n.Kind() != KindBytes {
		return nil, fmt.Errorf("spritevault: expected bytes node, got %s", n.Kind())
	}
	return n.bytesVal, nil
}

// AsList returns the list elements.
func (n *Node) AsList() ([]*Node, error) {
	if n.Kind() != KindList {
		return nil, fmt.Errorf("spritevault: expected list node, got %s", n.Kind())
	}
	return n.listVal, nil
}

// AsMap returns the map entries in insertion order.
func (n *Node) AsMap() ([]Entry, error) {
	if n.Kind() != KindMap {
		return nil, fmt.Errorf("spritevault: expected map node, got %s", n.Kind())
	}
	return n.mapVal, nil
}

// AsEnvelope returns the tag and data of an envelope node.
func (n *Node) AsEnvelope() (string, *Node, error) {
	if n.Kind() != KindEnvelope {
		return "", nil, fmt.Errorf("spritevault: expected envelope node, got %s", n.Kind())
	}
	return n.envTag, n.envData, nil
}

// AsRef returns the reference value.
func (n *Node) AsRef() (Ref, error) {
	if n.Kind() != KindRef {
		return Ref{}, fmt.Errorf("spritevault: expected ref node, got %s", n.Kind())
	}
	return n.refVal, nil
}

// Tag returns an envelope's tag, or "" for other kinds.
func (n *Node) Tag() string {
	if n.Kind() != KindEnvelope {
		return ""
	}
	return n.envTag
}

// Data returns an envelope's payload, or nil for other kinds.
func (n *Node) Data() *Node {
	if n.Kind() != KindEnvelope {
		return nil
	}
	return n.envData
}

// Len returns the length of a list or map.
func (n *Node) Len() int {
	switch n.Kind() {
	case KindList:
		return len(n.listVal)
	case KindMap:
		return len(n.mapVal)
	default:
		return 0
	}
}

// Get returns a map value by key, or nil.
func (n *Node) Get(key string) *Node {
	if n.Kind() != KindMap {
		return nil
	}
	for _, e := range n.mapVal {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

// Set inserts or replaces a map entry, preserving insertion order.
func (n *Node) Set(key string, val *Node) {
	if n.Kind() != KindMap {
		panic("spritevault: Set on non-map node")
	}
	for i := range n.mapVal {
		if n.mapVal[i].Key == key {
			n.mapVal[i].Value = val
			return
		}
	}
	n.mapVal = append(n.mapVal, Entry{Key: key, Value: val})
}

// Append adds an element to a list node.
func (n *Node) Append(val *Node) {
	if n.Kind() != KindList {
		panic("spritevault: Append on non-list node")
	}
	n.listVal = append(n.listVal, val)
}

// ============================================================
// Typed map helpers
// ============================================================

// GetInt reads an integer map entry.
func (n *Node) GetInt(key string) (int64, error) {
	child := n.Get(key)
	if child == nil {
		return 0, fmt.Errorf("spritevault: missing field %q", key)
	}
	return child.AsInt()
}

// GetStr reads a string map entry.
func (n *Node) GetStr(key string) (string, error) {
	child := n.Get(key)
	if child == nil {
		return "", fmt.Errorf("spritevault: missing field %q", key)
	}
	return child.AsStr()
}

// GetList reads a list map entry; a missing field reads as empty.
func (n *Node) GetList(key string) ([]*Node, error) {
	child := n.Get(key)
	if child == nil || child.IsNull() {
		return nil, nil
	}
	return child.AsList()
}
