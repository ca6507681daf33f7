package lingo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nucypher/condition-lingo-go/pkg/lingo/condition"
)

func TestDecode_TimeCondition(t *testing.T) {
	raw := []byte(`{
		"version": "1.0.0",
		"condition": {
			"conditionType": "time",
			"chain": 1,
			"method": "blocktime",
			"returnValueTest": {"comparator": ">", "value": 0}
		}
	}`)
	doc, err := Decode(raw)
	require.NoError(t, err)
	require.NoError(t, doc.Validate())
	tc, ok := doc.Condition.(*condition.TimeCondition)
	require.True(t, ok)
	assert.Equal(t, int64(1), tc.Chain)
}

func TestDecode_CompoundOfTimeConditions(t *testing.T) {
	raw := []byte(`{
		"version": "1.0.0",
		"condition": {
			"conditionType": "compound",
			"operator": "and",
			"operands": [
				{"conditionType": "time", "chain": 1, "returnValueTest": {"comparator": ">", "value": 0}},
				{"conditionType": "time", "chain": 1, "returnValueTest": {"comparator": "<", "value": 99999999999}}
			]
		}
	}`)
	doc, err := Decode(raw)
	require.NoError(t, err)
	require.NoError(t, doc.Validate())
	cc, ok := doc.Condition.(*condition.CompoundCondition)
	require.True(t, ok)
	assert.Len(t, cc.Operands, 2)
}

func TestDecode_MissingConditionType(t *testing.T) {
	raw := []byte(`{"version": "1.0.0", "condition": {"chain": 1}}`)
	_, err := Decode(raw)
	require.Error(t, err)
}

func TestDecode_RejectsTooDeepNesting(t *testing.T) {
	raw := []byte(`{
		"version": "1.0.0",
		"condition": {
			"conditionType": "compound",
			"operator": "and",
			"operands": [
				{
					"conditionType": "compound",
					"operator": "and",
					"operands": [
						{
							"conditionType": "compound",
							"operator": "and",
							"operands": [
								{"conditionType": "time", "chain": 1, "returnValueTest": {"comparator": ">", "value": 0}},
								{"conditionType": "time", "chain": 1, "returnValueTest": {"comparator": ">", "value": 0}}
							]
						},
						{"conditionType": "time", "chain": 1, "returnValueTest": {"comparator": ">", "value": 0}}
					]
				},
				{"conditionType": "time", "chain": 1, "returnValueTest": {"comparator": ">", "value": 0}}
			]
		}
	}`)
	doc, err := Decode(raw)
	require.NoError(t, err)
	err = doc.Validate()
	require.Error(t, err)
}

func TestEncodeDecodeRoundTrip_RpcCondition(t *testing.T) {
	original := &Lingo{
		Version: CurrentVersion,
		Condition: &condition.RpcCondition{
			Chain:  1,
			Method: "eth_getBalance",
		},
	}
	encoded, err := Encode(original)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	rc, ok := decoded.Condition.(*condition.RpcCondition)
	require.True(t, ok)
	assert.Equal(t, "eth_getBalance", rc.Method)
}
