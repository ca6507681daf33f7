package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
)

// MarshalJSON renders a Value the way the wire format expects: big
// integers as a sigil-suffixed string, everything else as plain JSON.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindInt:
		return json.Marshal(v.i)
	case KindBigInt:
		return json.Marshal(v.big.String() + "n")
	case KindFloat:
		return json.Marshal(v.f)
	case KindString:
		return json.Marshal(v.s)
	case KindList:
		return json.Marshal(v.list)
	case KindMap:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			vb, err := json.Marshal(v.m[k])
			if err != nil {
				return nil, err
			}
			buf.Write(vb)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("value: unknown kind %d", v.kind)
	}
}

// UnmarshalJSON decodes any JSON value into a Value, recognizing the
// trailing-"n" big-int sigil on string literals.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = fromJSONAny(raw)
	return nil
}

func fromJSONAny(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case string:
		if bigIntSigil.MatchString(t) {
			n := new(big.Int)
			n.SetString(t[:len(t)-1], 10)
			return BigInt(n)
		}
		return String(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i)
		}
		if n, ok := new(big.Int).SetString(t.String(), 10); ok {
			return BigInt(n)
		}
		f, _ := t.Float64()
		return Float(f)
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			items[i] = fromJSONAny(e)
		}
		return List(items)
	case map[string]any:
		// json.Decode doesn't preserve key order; re-derive a stable
		// (sorted) order since the wire format doesn't rely on map
		// field ordering for semantics.
		return FromGo(t)
	default:
		return Null()
	}
}
