// Package value implements the recursive Value sum type that backs every
// piece of data the condition engine passes around: context bindings,
// call parameters, call results, and ReturnValueTest comparands.
package value

import (
	"encoding/json"
	"fmt"
	"math/big"
	"regexp"
	"sort"
)

// Kind discriminates the Value sum type.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindBigInt
	KindFloat
	KindString
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindBigInt:
		return "bigint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a recursive, typed JSON-ish value tree. Exactly one of the
// typed fields is meaningful for a given Kind.
type Value struct {
	kind Kind
	b    bool
	i    int64
	big  *big.Int
	f    float64
	s    string
	list []Value
	m    map[string]Value
	// keys preserves map insertion order for deterministic re-serialization.
	keys []string
}

// bigIntSigil matches the wire format for arbitrary-precision integers
// that exceed 64 bits in transport.
var bigIntSigil = regexp.MustCompile(`^-?[0-9]+n$`)

func Null() Value                   { return Value{kind: KindNull} }
func Bool(b bool) Value             { return Value{kind: KindBool, b: b} }
func Int(i int64) Value             { return Value{kind: KindInt, i: i} }
func Float(f float64) Value         { return Value{kind: KindFloat, f: f} }
func String(s string) Value         { return Value{kind: KindString, s: s} }
func List(items []Value) Value      { return Value{kind: KindList, list: items} }

// BigInt wraps an arbitrary-precision integer. A nil n is treated as zero.
func BigInt(n *big.Int) Value {
	if n == nil {
		n = big.NewInt(0)
	}
	return Value{kind: KindBigInt, big: new(big.Int).Set(n)}
}

// Map builds a Value from a Go map, preserving the iteration order given
// in keys (callers constructing from JSON should pass the decode order).
func Map(m map[string]Value, keys []string) Value {
	if keys == nil {
		keys = make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}
	return Value{kind: KindMap, m: m, keys: keys}
}

func (v Value) Kind() Kind  { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

func (v Value) AsBigInt() (*big.Int, bool) {
	switch v.kind {
	case KindBigInt:
		return new(big.Int).Set(v.big), true
	case KindInt:
		return big.NewInt(v.i), true
	default:
		return nil, false
	}
}

func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	case KindBigInt:
		f := new(big.Float).SetInt(v.big)
		out, _ := f.Float64()
		return out, true
	default:
		return 0, false
	}
}

func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.list, true
}

func (v Value) AsMap() (map[string]Value, []string, bool) {
	if v.kind != KindMap {
		return nil, nil, false
	}
	return v.m, v.keys, true
}

// Index returns the i'th element of a list-or-tuple-typed value, used by
// ReturnValueTest's optional index selector.
func (v Value) Index(i int) (Value, error) {
	list, ok := v.AsList()
	if !ok {
		return Value{}, fmt.Errorf("value of kind %s is not indexable", v.kind)
	}
	if i < 0 || i >= len(list) {
		return Value{}, fmt.Errorf("index %d out of range for list of length %d", i, len(list))
	}
	return list[i], nil
}

// ToGo converts a Value into a plain Go value (bool, int64, *big.Int,
// float64, string, []any, map[string]any) suitable for ABI packing or
// generic JSON re-encoding.
func (v Value) ToGo() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindBigInt:
		return new(big.Int).Set(v.big)
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.ToGo()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.m))
		for _, k := range v.keys {
			out[k] = v.m[k].ToGo()
		}
		return out
	default:
		return nil
	}
}

// FromGo converts a plain Go value (as produced by encoding/json.Unmarshal
// into interface{}, or returned from an ABI unpack) into a Value.
func FromGo(x any) Value {
	switch t := x.(type) {
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
		return fromJSONAny(t)
	case int:
		return Int(int64(t))
	case int8:
		return Int(int64(t))
	case int16:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint8:
		return Int(int64(t))
	case uint16:
		return Int(int64(t))
	case uint32:
		return Int(int64(t))
	case uint64:
		return BigInt(new(big.Int).SetUint64(t))
	case float64:
		if t == float64(int64(t)) {
			return Int(int64(t))
		}
		return Float(t)
	case *big.Int:
		return BigInt(t)
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			items[i] = FromGo(e)
		}
		return List(items)
	case []Value:
		return List(t)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := make(map[string]Value, len(t))
		for _, k := range keys {
			m[k] = FromGo(t[k])
		}
		return Map(m, keys)
	default:
		return String(fmt.Sprintf("%v", t))
	}
}

// Equal reports whether two values are the same kind and content,
// numeric kinds compared by mathematical value.
func (v Value) Equal(other Value) bool {
	cmp, ok := compareNumeric(v, other)
	if ok {
		return cmp == 0
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindString:
		return v.s == other.s
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.keys) != len(other.keys) {
			return false
		}
		for _, k := range v.keys {
			ov, ok := other.m[k]
			if !ok || !v.m[k].Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func isNumeric(v Value) bool {
	switch v.kind {
	case KindInt, KindBigInt, KindFloat:
		return true
	default:
		return false
	}
}

// compareNumeric compares two numeric-kinded values; ok is false if either
// side is not numeric.
func compareNumeric(a, b Value) (int, bool) {
	if !isNumeric(a) || !isNumeric(b) {
		return 0, false
	}
	if a.kind == KindFloat || b.kind == KindFloat {
		af, _ := a.AsFloat()
		bf, _ := b.AsFloat()
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	ai, _ := a.AsBigInt()
	bi, _ := b.AsBigInt()
	return ai.Cmp(bi), true
}

// String implements fmt.Stringer for debugging/log output.
func (v Value) String() string {
	return fmt.Sprintf("%v", v.ToGo())
}
