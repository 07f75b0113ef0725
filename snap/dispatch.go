package snap

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/Tessella/spritevault/sprite"
)

// Context is the per-pass state threaded through every nested serialize or
// deserialize call. The pass's initiator (normally the document assembler)
// owns the resource table; codecs use it through the context and never
// retain it between calls.
type Context struct {
	Registry  *Registry
	Resources *ResourceTable

	// Decode targets. Doc is the document under reconstruction; Layer and
	// Tileset are set by tree codecs for their nested cel and tile decodes.
	Doc     *sprite.Document
	Layer   *sprite.Layer
	Tileset *sprite.Tileset

	// AllowedNamespaces lists the named property namespaces that codecs
	// persist in addition to the owner's unnamed namespace.
	AllowedNamespaces []string

	Log *zap.Logger
}

// NewContext creates a context over the default registry with a fresh
// resource table and a no-op logger.
func NewContext() *Context {
	return &Context{
		Registry:  Default(),
		Resources: NewResourceTable(),
		Log:       zap.NewNop(),
	}
}

// child returns a shallow copy for nested decodes that need a different
// target (a cel's layer, a tile's tileset).
func (ctx *Context) child() *Context {
	c := *ctx
	return &c
}

// namespaceAllowed reports whether a named namespace is on the allow-list.
// The unnamed namespace is always persisted and never consulted here.
func (ctx *Context) namespaceAllowed(ns string) bool {
	for _, allowed := range ctx.AllowedNamespaces {
		if ns == allowed {
			return true
		}
	}
	return false
}

// Option adjusts a single Serialize call.
type Option func(*serializeOpts)

type serializeOpts struct {
	tag string
}

// WithTag forces the codec registered under tag instead of scanning
// predicates.
func WithTag(tag string) Option {
	return func(o *serializeOpts) { o.tag = tag }
}

// Serialize encodes an arbitrary runtime value. A value matched by a codec
// becomes a tagged envelope; primitives with no codec pass through as plain
// nodes. A non-primitive value with no codec is ErrUnsupportedValue.
func Serialize(v any, ctx *Context, opts ...Option) (*Node, error) {
	var o serializeOpts
	for _, opt := range opts {
		opt(&o)
	}

	if o.tag != "" {
		codec, ok := ctx.Registry.Lookup(o.tag)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTag, o.tag)
		}
		data, err := codec.Encode(v, ctx)
		if err != nil {
			return nil, err
		}
		return Envelope(codec.Tag(), data), nil
	}

	if codec, ok := ctx.Registry.Match(v); ok {
		data, err := codec.Encode(v, ctx)
		if err != nil {
			return nil, err
		}
		return Envelope(codec.Tag(), data), nil
	}
	return fromGoValue(v, ctx)
}

// Deserialize decodes a node tree. Envelopes dispatch to their codec; an
// envelope with an unregistered tag is returned unchanged, since the input
// may be a value this engine never serialized. Plain nodes convert back to
// Go primitives.
func Deserialize(n *Node, ctx *Context) (any, error) {
	if n.Kind() == KindEnvelope {
		codec, ok := ctx.Registry.Lookup(n.envTag)
		if !ok {
			return n, nil
		}
		return codec.Decode(n.envData, ctx)
	}
	return toGoValue(n, ctx)
}

// ============================================================
// Primitive pass-through
// ============================================================

func fromGoValue(v any, ctx *Context) (*Node, error) {
	switch val := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(int64(val)), nil
	case int32:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint32:
		return Int(int64(val)), nil
	case float32:
		return Float(float64(val)), nil
	case float64:
		return Float(val), nil
	case string:
		return Str(val), nil
	case []byte:
		return Bytes(val), nil
	case []any:
		list := List()
		for i, item := range val {
			n, err := Serialize(item, ctx)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			list.Append(n)
		}
		return list, nil
	case map[string]any:
		m := Map()
		for _, k := range sortedKeys(val) {
			n, err := Serialize(val[k], ctx)
			if err != nil {
				return nil, fmt.Errorf("map[%q]: %w", k, err)
			}
			m.Set(k, n)
		}
		return m, nil
	default:
		// Named scalar types (blend modes, animation directions) pass
		// through as their underlying kind.
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Bool:
			return Bool(rv.Bool()), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return Int(rv.Int()), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return Int(int64(rv.Uint())), nil
		case reflect.Float32, reflect.Float64:
			return Float(rv.Float()), nil
		case reflect.String:
			return Str(rv.String()), nil
		}
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

func toGoValue(n *Node, ctx *Context) (any, error) {
	switch n.Kind() {
	case KindNull:
		return nil, nil
	case KindBool:
		return n.boolVal, nil
	case KindInt:
		return n.intVal, nil
	case KindFloat:
		return n.floatVal, nil
	case KindStr:
		return n.strVal, nil
	case KindBytes:
		return n.bytesVal, nil
	case KindRef:
		return n.refVal, nil
	case KindList:
		out := make([]any, 0, len(n.listVal))
		for i, item := range n.listVal {
			v, err := Deserialize(item, ctx)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			out = append(out, v)
		}
		return out, nil
	case KindMap:
		out := make(map[string]any, len(n.mapVal))
		for _, e := range n.mapVal {
			v, err := Deserialize(e.Value, ctx)
			if err != nil {
				return nil, fmt.Errorf("map[%q]: %w", e.Key, err)
			}
			out[e.Key] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: node kind %s", ErrUnsupportedValue, n.Kind())
	}
}
