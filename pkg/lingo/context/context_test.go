package evalctx

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nucypher/condition-lingo-go/pkg/lingo/value"
	"github.com/nucypher/condition-lingo-go/pkg/lingoerr"
)

func TestIsContextVariable(t *testing.T) {
	assert.True(t, IsContextVariable(":foo"))
	assert.True(t, IsContextVariable(":userAddress"))
	assert.False(t, IsContextVariable("foo"))
	assert.False(t, IsContextVariable(":"))
	assert.False(t, IsContextVariable(":1foo"))
}

func TestResolveBareToken(t *testing.T) {
	ctx := Context{":amount": value.Int(42)}
	got, err := Resolve(value.String(":amount"), ctx)
	require.NoError(t, err)
	assert.Equal(t, value.KindInt, got.Kind())
	i, _ := got.AsInt()
	assert.Equal(t, int64(42), i)
}

func TestResolveMissingTokenIsMissingContextVariable(t *testing.T) {
	_, err := Resolve(value.String(":missing"), Context{})
	require.Error(t, err)
	kind, ok := lingoerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, lingoerr.KindMissingContextVariable, kind)
}

func TestResolveWithinStringLongestMatchFirst(t *testing.T) {
	ctx := Context{
		":id":      value.String("short"),
		":idLarge": value.String("long"),
	}
	got, err := Resolve(value.String("path/:idLarge/:id"), ctx)
	require.NoError(t, err)
	s, _ := got.AsString()
	assert.Equal(t, "path/long/short", s)
}

func TestResolveWithinStringBigIntSubstitution(t *testing.T) {
	maxUint256, _ := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)
	ctx := Context{":value": value.BigInt(maxUint256)}
	got, err := Resolve(value.String("amount=:value"), ctx)
	require.NoError(t, err)
	s, _ := got.AsString()
	assert.Equal(t, "amount="+maxUint256.String(), s)
}

func TestResolveListAndMap(t *testing.T) {
	ctx := Context{":x": value.Int(7)}
	tree := value.List([]value.Value{
		value.String(":x"),
		value.Map(map[string]value.Value{"k": value.String(":x")}, []string{"k"}),
	})
	got, err := Resolve(tree, ctx)
	require.NoError(t, err)
	items, _ := got.AsList()
	require.Len(t, items, 2)
	i, _ := items[0].AsInt()
	assert.Equal(t, int64(7), i)
	m, _, _ := items[1].AsMap()
	ki, _ := m["k"].AsInt()
	assert.Equal(t, int64(7), ki)
}

func TestResolveIsNonRecursive(t *testing.T) {
	ctx := Context{
		":a": value.String(":b"),
		":b": value.Int(1),
	}
	got, err := Resolve(value.String(":a"), ctx)
	require.NoError(t, err)
	s, ok := got.AsString()
	require.True(t, ok)
	assert.Equal(t, ":b", s)
}

func TestWithBindingDoesNotMutateParent(t *testing.T) {
	parent := Context{":x": value.Int(1)}
	child := parent.WithBinding(":y", value.Int(2))
	_, existsInParent := parent[":y"]
	assert.False(t, existsInParent)
	got, err := Resolve(value.String(":y"), child)
	require.NoError(t, err)
	i, _ := got.AsInt()
	assert.Equal(t, int64(2), i)
}

func TestVerifyAuthMessageMissingSlot(t *testing.T) {
	_, err := Resolve(value.String(UserAddressContext), Context{})
	require.Error(t, err)
	kind, ok := lingoerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, lingoerr.KindMissingContextVariable, kind)
}

func TestVerifyAuthMessageNotAnObject(t *testing.T) {
	ctx := Context{UserAddressContext: value.String("not-an-object")}
	_, err := Resolve(value.String(UserAddressContext), ctx)
	require.Error(t, err)
	kind, ok := lingoerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, lingoerr.KindInvalidContextVariableData, kind)
}

func TestVerifyAuthMessageMissingAddress(t *testing.T) {
	claim := value.Map(map[string]value.Value{
		"signature": value.String("0x" + "00"),
	}, []string{"signature"})
	ctx := Context{UserAddressContext: claim}
	_, err := Resolve(value.String(UserAddressContext), ctx)
	require.Error(t, err)
	kind, ok := lingoerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, lingoerr.KindInvalidContextVariableData, kind)
}

func TestVerifyAuthMessageCrossSchemeRejected(t *testing.T) {
	claim := value.Map(map[string]value.Value{
		"address":     value.String("0x5cEE006d8Fc5F8E3D430D6f3d62fC533b61e21E2"),
		"signature":   value.String("0x00"),
		"siweMessage": value.String("anything"),
	}, []string{"address", "signature", "siweMessage"})
	ctx := Context{UserAddressContext: claim}
	_, err := Resolve(value.String(UserAddressContext), ctx)
	require.Error(t, err)
	kind, ok := lingoerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, lingoerr.KindUnexpectedScheme, kind)
	assert.Contains(t, err.Error(), "UnexpectedScheme")
}

func TestVerifyAuthMessageMalformedSignatureIsInvalidData(t *testing.T) {
	claim := value.Map(map[string]value.Value{
		"address":   value.String("0x5cEE006d8Fc5F8E3D430D6f3d62fC533b61e21E2"),
		"signature": value.String("0xdead"),
		"typedData": value.Map(map[string]value.Value{}, nil),
	}, []string{"address", "signature", "typedData"})
	ctx := Context{UserAddressContext: claim}
	_, err := Resolve(value.String(UserAddressContext), ctx)
	require.Error(t, err)
	kind, ok := lingoerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, lingoerr.KindInvalidContextVariableData, kind)
}
