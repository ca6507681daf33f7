// Package context implements the context resolver: it substitutes
// ":name" tokens in a Value tree with caller-supplied bindings, and
// verifies reserved authenticated-claim slots.
//
// The Go package identifier is evalctx so it never collides with the
// standard library's "context" package in files that need both.
package evalctx

import (
	"regexp"
	"sort"
	"strings"

	"github.com/nucypher/condition-lingo-go/pkg/lingo/value"
	"github.com/nucypher/condition-lingo-go/pkg/lingoerr"
)

// Reserved context-variable names for authenticated claims.
const (
	UserAddressContext         = ":userAddress"
	UserAddressEIP4361Context  = ":userAddressEIP4361"
)

// contextVarPattern matches a bare context-variable token.
var contextVarPattern = regexp.MustCompile(`^:[A-Za-z_][A-Za-z0-9_]*$`)

// IsContextVariable reports whether s is a well-formed ":name" token.
func IsContextVariable(s string) bool {
	return contextVarPattern.MatchString(s)
}

// Context is the caller-supplied evaluation context: plain bindings for
// ordinary ":name" variables, and AuthMessage payloads for the two
// reserved user-address slots.
type Context map[string]value.Value

// Clone returns a shallow copy, used to build the per-step overlay for
// SequentialCondition.
func (c Context) Clone() Context {
	out := make(Context, len(c)+1)
	for k, v := range c {
		out[k] = v
	}
	return out
}

// WithBinding returns a new Context with name bound to v, leaving the
// receiver untouched.
func (c Context) WithBinding(name string, v value.Value) Context {
	out := c.Clone()
	out[":"+strings.TrimPrefix(name, ":")] = v
	return out
}

// Resolve walks v, replacing every context-variable occurrence with its
// bound value from ctx. Resolution is non-recursive: a value substituted
// in is never re-scanned for further tokens.
func Resolve(v value.Value, ctx Context) (value.Value, error) {
	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()
		if IsContextVariable(s) {
			return resolveToken(s, ctx)
		}
		return resolveWithinString(s, ctx)
	case value.KindList:
		items, _ := v.AsList()
		out := make([]value.Value, len(items))
		for i, item := range items {
			resolved, err := Resolve(item, ctx)
			if err != nil {
				return value.Value{}, err
			}
			out[i] = resolved
		}
		return value.List(out), nil
	case value.KindMap:
		m, keys, _ := v.AsMap()
		out := make(map[string]value.Value, len(m))
		for _, k := range keys {
			resolved, err := Resolve(m[k], ctx)
			if err != nil {
				return value.Value{}, err
			}
			out[k] = resolved
		}
		return value.Map(out, keys), nil
	default:
		return v, nil
	}
}

// resolveToken resolves a bare ":name" token, dispatching reserved
// user-address slots to authenticated-claim verification.
func resolveToken(token string, ctx Context) (value.Value, error) {
	if token == UserAddressContext || token == UserAddressEIP4361Context {
		return verifyAuthMessage(token, ctx)
	}
	bound, ok := ctx[token]
	if !ok {
		return value.Value{}, lingoerr.Newf(lingoerr.KindMissingContextVariable, nil,
			"no value bound for context variable %q", token)
	}
	return bound, nil
}

// resolveWithinString performs textual substitution of every bound
// context-variable name that appears inside s, longest-name-first so a
// shorter name never shadows a longer one that shares its prefix.
func resolveWithinString(s string, ctx Context) (value.Value, error) {
	names := make([]string, 0, len(ctx))
	for k := range ctx {
		if k != UserAddressContext && k != UserAddressEIP4361Context {
			names = append(names, k)
		}
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	pairs := make([]string, 0, 2*len(names))
	for _, name := range names {
		pairs = append(pairs, name, stringifyForSubstitution(ctx[name]))
	}
	// A single Replacer pass never re-scans substituted text, and trying
	// names in descending-length order lets the longest name win at each
	// position.
	return value.String(strings.NewReplacer(pairs...).Replace(s)), nil
}

func stringifyForSubstitution(v value.Value) string {
	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()
		return s
	default:
		return v.String()
	}
}
