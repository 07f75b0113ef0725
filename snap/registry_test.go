package snap

import (
	"errors"
	"testing"
)

// stubCodec matches a single concrete type through a flag, for exercising
// dispatch without the real codec set.
type stubCodec struct {
	tag      string
	priority int
	accepts  func(v any) bool
}

func (c stubCodec) Tag() string        { return c.tag }
func (c stubCodec) Priority() int      { return c.priority }
func (c stubCodec) Matches(v any) bool { return c.accepts(v) }

func (c stubCodec) Encode(v any, ctx *Context) (*Node, error) {
	return Str(c.tag), nil
}

func (c stubCodec) Decode(data *Node, ctx *Context) (any, error) {
	return c.tag, nil
}

type opaque struct{ n int }

func acceptOpaque(v any) bool {
	_, ok := v.(opaque)
	return ok
}

func TestRegistry_LookupAndReplace(t *testing.T) {
	r := NewRegistry()
	r.Register(stubCodec{tag: "x", accepts: acceptOpaque})
	r.Register(stubCodec{tag: "x", priority: 9, accepts: acceptOpaque})

	c, ok := r.Lookup("x")
	if !ok {
		t.Fatal("tag not found")
	}
	if priorityOf(c) != 9 {
		t.Error("re-registration should replace the codec")
	}
	if _, ok := r.Lookup("y"); ok {
		t.Error("unregistered tag found")
	}
}

func TestRegistry_MatchIsDeterministic(t *testing.T) {
	// Three codecs whose predicates all accept the value. The winner must
	// be the same no matter the registration order: highest priority first,
	// ties broken by ascending tag.
	codecs := []Codec{
		stubCodec{tag: "zeta", priority: 5, accepts: acceptOpaque},
		stubCodec{tag: "beta", priority: 5, accepts: acceptOpaque},
		stubCodec{tag: "alpha", priority: 1, accepts: acceptOpaque},
	}

	orders := [][]int{{0, 1, 2}, {2, 1, 0}, {1, 0, 2}, {2, 0, 1}}
	for _, order := range orders {
		r := NewRegistry()
		for _, i := range order {
			r.Register(codecs[i])
		}
		c, ok := r.Match(opaque{})
		if !ok {
			t.Fatal("no codec matched")
		}
		if c.Tag() != "beta" {
			t.Errorf("registration order %v picked %q, want beta", order, c.Tag())
		}
	}
}

func TestRegistry_TagsInScanOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(stubCodec{tag: "low", priority: 0, accepts: acceptOpaque})
	r.Register(stubCodec{tag: "high", priority: 3, accepts: acceptOpaque})
	tags := r.Tags()
	if len(tags) != 2 || tags[0] != "high" || tags[1] != "low" {
		t.Errorf("scan order %v", tags)
	}
}

// ============================================================
// Dispatch Tests
// ============================================================

func testContext(r *Registry) *Context {
	ctx := NewContext()
	ctx.Registry = r
	return ctx
}

func TestSerialize_ExplicitTag(t *testing.T) {
	r := NewRegistry()
	r.Register(stubCodec{tag: "x", accepts: func(any) bool { return false }})
	ctx := testContext(r)

	env, err := Serialize(opaque{}, ctx, WithTag("x"))
	if err != nil {
		t.Fatal(err)
	}
	if env.Tag() != "x" {
		t.Errorf("envelope tag %q", env.Tag())
	}

	_, err = Serialize(opaque{}, ctx, WithTag("nope"))
	if !errors.Is(err, ErrUnknownTag) {
		t.Errorf("want ErrUnknownTag, got %v", err)
	}
}

func TestSerialize_PrimitivesPassThrough(t *testing.T) {
	ctx := testContext(NewRegistry())
	tests := []struct {
		name string
		in   any
		kind Kind
	}{
		{"nil", nil, KindNull},
		{"bool", true, KindBool},
		{"int", 7, KindInt},
		{"int64", int64(7), KindInt},
		{"float", 1.5, KindFloat},
		{"string", "s", KindStr},
		{"bytes", []byte{1}, KindBytes},
		{"list", []any{1, "a"}, KindList},
		{"map", map[string]any{"k": 1}, KindMap},
	}
	for _, tt := range tests {
		n, err := Serialize(tt.in, ctx)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if n.Kind() != tt.kind {
			t.Errorf("%s: kind %s, want %s", tt.name, n.Kind(), tt.kind)
		}
	}
}

func TestSerialize_NamedScalarTypes(t *testing.T) {
	type direction uint8
	ctx := testContext(NewRegistry())
	n, err := Serialize(direction(2), ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := n.AsInt(); v != 2 {
		t.Errorf("named uint8 encoded as %v", n.Kind())
	}
}

func TestSerialize_OpaqueValueRejected(t *testing.T) {
	ctx := testContext(NewRegistry())
	if _, err := Serialize(opaque{}, ctx); !errors.Is(err, ErrUnsupportedValue) {
		t.Errorf("want ErrUnsupportedValue, got %v", err)
	}
}

func TestDeserialize_UnknownTagPassesThrough(t *testing.T) {
	ctx := testContext(NewRegistry())
	env := Envelope("from-the-future", Map(Field("x", Int(1))))
	v, err := Deserialize(env, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v != env {
		t.Errorf("unknown envelope should come back unchanged, got %T", v)
	}
}

func TestDeserialize_PlainNodes(t *testing.T) {
	ctx := testContext(NewRegistry())
	v, err := Deserialize(List(Int(1), Str("a")), ctx)
	if err != nil {
		t.Fatal(err)
	}
	list, ok := v.([]any)
	if !ok || len(list) != 2 || list[0] != int64(1) || list[1] != "a" {
		t.Errorf("got %#v", v)
	}
}

func TestSerializeDeserialize_MapIsSortedOnEncode(t *testing.T) {
	ctx := testContext(NewRegistry())
	n, err := Serialize(map[string]any{"b": 1, "a": 2}, ctx)
	if err != nil {
		t.Fatal(err)
	}
	entries, _ := n.AsMap()
	if entries[0].Key != "a" || entries[1].Key != "b" {
		t.Errorf("pass-through map not sorted: %v", entries)
	}
}
