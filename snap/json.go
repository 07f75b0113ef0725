package snap

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ============================================================
// JSON wire format
// ============================================================
//
// The snapshot text file is plain JSON with three markers:
//   - envelope:  {"tag": "<codec>", "data": <payload>}, exactly two keys
//   - reference: {"$ref": "prefix:value"}
//   - bytes:     {"$bytes": "<base64>"}, only reached when a binary
//     payload was never externalized to a sidecar file
//
// Emit preserves map entry insertion order; parse preserves object key
// order through the token stream, so store → load → store is byte-stable.

// EmitJSON renders a node tree as indented JSON.
func EmitJSON(n *Node) ([]byte, error) {
	var sb strings.Builder
	if err := emitJSON(&sb, n, 0); err != nil {
		return nil, err
	}
	sb.WriteByte('\n')
	return []byte(sb.String()), nil
}

func emitJSON(sb *strings.Builder, n *Node, depth int) error {
	switch n.Kind() {
	case KindNull:
		sb.WriteString("null")

	case KindBool:
		if n.boolVal {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}

	case KindInt:
		sb.WriteString(strconv.FormatInt(n.intVal, 10))

	case KindFloat:
		if math.IsNaN(n.floatVal) || math.IsInf(n.floatVal, 0) {
			return fmt.Errorf("spritevault: NaN/Infinity not representable in JSON")
		}
		s := strconv.FormatFloat(n.floatVal, 'g', -1, 64)
		sb.WriteString(s)
		// Make sure the value reads back as a float, not an int.
		if !strings.ContainsAny(s, ".eE") {
			sb.WriteString(".0")
		}

	case KindStr:
		writeJSONString(sb, n.strVal)

	case KindBytes:
		sb.WriteString(`{"$bytes": `)
		writeJSONString(sb, base64.StdEncoding.EncodeToString(n.bytesVal))
		sb.WriteString("}")

	case KindRef:
		sb.WriteString(`{"$ref": `)
		writeJSONString(sb, n.refVal.String())
		sb.WriteString("}")

	case KindList:
		if len(n.listVal) == 0 {
			sb.WriteString("[]")
			return nil
		}
		sb.WriteString("[")
		for i, item := range n.listVal {
			if i > 0 {
				sb.WriteString(",")
			}
			newlineIndent(sb, depth+1)
			if err := emitJSON(sb, item, depth+1); err != nil {
				return err
			}
		}
		newlineIndent(sb, depth)
		sb.WriteString("]")

	case KindMap:
		if len(n.mapVal) == 0 {
			sb.WriteString("{}")
			return nil
		}
		sb.WriteString("{")
		for i, e := range n.mapVal {
			if i > 0 {
				sb.WriteString(",")
			}
			newlineIndent(sb, depth+1)
			writeJSONString(sb, e.Key)
			sb.WriteString(": ")
			if err := emitJSON(sb, e.Value, depth+1); err != nil {
				return err
			}
		}
		newlineIndent(sb, depth)
		sb.WriteString("}")

	case KindEnvelope:
		sb.WriteString("{")
		newlineIndent(sb, depth+1)
		sb.WriteString(`"tag": `)
		writeJSONString(sb, n.envTag)
		sb.WriteString(",")
		newlineIndent(sb, depth+1)
		sb.WriteString(`"data": `)
		if err := emitJSON(sb, n.envData, depth+1); err != nil {
			return err
		}
		newlineIndent(sb, depth)
		sb.WriteString("}")

	default:
		return fmt.Errorf("spritevault: unsupported node kind %s", n.Kind())
	}
	return nil
}

func newlineIndent(sb *strings.Builder, depth int) {
	sb.WriteString("\n")
	for i := 0; i < depth; i++ {
		sb.WriteString("  ")
	}
}

func writeJSONString(sb *strings.Builder, s string) {
	b, _ := json.Marshal(s)
	sb.Write(b)
}

// ============================================================
// Parsing
// ============================================================

// ParseJSON parses snapshot JSON back into a node tree.
func ParseJSON(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	n, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	// The document must be a single JSON value.
	if dec.More() {
		return nil, fmt.Errorf("spritevault: trailing data after JSON value")
	}
	return n, nil
}

func parseValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("spritevault: JSON parse: %w", err)
	}
	return parseToken(dec, tok)
}

func parseToken(dec *json.Decoder, tok json.Token) (*Node, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil

	case bool:
		return Bool(t), nil

	case string:
		return Str(t), nil

	case json.Number:
		if i, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("spritevault: bad number %q: %w", t.String(), err)
		}
		return Float(f), nil

	case json.Delim:
		switch t {
		case '[':
			list := List()
			for dec.More() {
				item, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				list.Append(item)
			}
			if _, err := dec.Token(); err != nil { // closing ]
				return nil, fmt.Errorf("spritevault: JSON parse: %w", err)
			}
			return list, nil

		case '{':
			m := Map()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, fmt.Errorf("spritevault: JSON parse: %w", err)
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("spritevault: non-string object key %v", keyTok)
				}
				val, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // closing }
				return nil, fmt.Errorf("spritevault: JSON parse: %w", err)
			}
			return recognizeMarkers(m)
		}
	}
	return nil, fmt.Errorf("spritevault: unexpected JSON token %v", tok)
}

// recognizeMarkers turns marker objects back into their node kinds. An
// object with exactly the keys "tag" and "data" (tag a string) is an
// envelope; any extra key at that level makes it an ordinary map.
func recognizeMarkers(m *Node) (*Node, error) {
	entries, _ := m.AsMap()
	if len(entries) == 1 {
		switch entries[0].Key {
		case "$ref":
			s, err := entries[0].Value.AsStr()
			if err != nil {
				return nil, fmt.Errorf("spritevault: malformed $ref marker")
			}
			ref := ParseRef(s)
			return NewRef(ref.Prefix, ref.Value), nil
		case "$bytes":
			s, err := entries[0].Value.AsStr()
			if err != nil {
				return nil, fmt.Errorf("spritevault: malformed $bytes marker")
			}
			raw, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return nil, fmt.Errorf("spritevault: malformed $bytes payload: %w", err)
			}
			return Bytes(raw), nil
		}
	}
	if len(entries) == 2 {
		tagNode, dataNode := m.Get("tag"), m.Get("data")
		if tagNode != nil && dataNode != nil && tagNode.Kind() == KindStr {
			return Envelope(tagNode.strVal, dataNode), nil
		}
	}
	return m, nil
}

// ============================================================
// Comparison
// ============================================================

// JSONEqual reports whether two JSON documents encode the same value,
// ignoring key order and whitespace.
func JSONEqual(a, b []byte) (bool, error) {
	var va, vb any
	if err := json.Unmarshal(a, &va); err != nil {
		return false, fmt.Errorf("spritevault: parse a: %w", err)
	}
	if err := json.Unmarshal(b, &vb); err != nil {
		return false, fmt.Errorf("spritevault: parse b: %w", err)
	}
	return jsonValueEqual(va, vb), nil
}

func jsonValueEqual(a, b any) bool {
	switch va := a.(type) {
	case nil:
		return b == nil
	case bool:
		vb, ok := b.(bool)
		return ok && va == vb
	case float64:
		vb, ok := b.(float64)
		return ok && va == vb
	case string:
		vb, ok := b.(string)
		return ok && va == vb
	case []any:
		vb, ok := b.([]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for i := range va {
			if !jsonValueEqual(va[i], vb[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		vb, ok := b.(map[string]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for k, av := range va {
			bv, exists := vb[k]
			if !exists || !jsonValueEqual(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
