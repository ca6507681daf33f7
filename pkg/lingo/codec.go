package lingo

import (
	"encoding/json"
	"strings"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/nucypher/condition-lingo-go/pkg/lingo/condition"
	"github.com/nucypher/condition-lingo-go/pkg/lingo/value"
	"github.com/nucypher/condition-lingo-go/pkg/lingoerr"
)

// lingoWire is the wire shape of a Lingo document.
type lingoWire struct {
	Version   string          `json:"version"`
	Condition json.RawMessage `json:"condition"`
}

// conditionWire is the union of every field any condition-node kind may
// carry; only the fields relevant to ConditionType are populated.
type conditionWire struct {
	ConditionType string `json:"conditionType"`

	// time / rpc / contract
	Chain           int64                  `json:"chain,omitempty"`
	Method          string                 `json:"method,omitempty"`
	Parameters      []value.Value          `json:"parameters,omitempty"`
	ReturnValueTest *value.ReturnValueTest `json:"returnValueTest,omitempty"`

	// contract
	ContractAddress      string          `json:"contractAddress,omitempty"`
	StandardContractType string          `json:"standardContractType,omitempty"`
	FunctionABI          json.RawMessage `json:"functionAbi,omitempty"`

	// json-api / json-rpc
	Endpoint           string          `json:"endpoint,omitempty"`
	AuthorizationToken string          `json:"authorizationToken,omitempty"`
	Query              string          `json:"query,omitempty"`
	ParametersMap      map[string]value.Value `json:"parametersMap,omitempty"`
	Params             *value.Value    `json:"params,omitempty"`

	// compound
	Operator string            `json:"operator,omitempty"`
	Operands []json.RawMessage `json:"operands,omitempty"`

	// sequential
	ConditionVariables []conditionVariableWire `json:"conditionVariables,omitempty"`
}

type conditionVariableWire struct {
	VarName   string          `json:"varName"`
	Condition json.RawMessage `json:"condition"`
}

// Decode parses a Lingo document from its wire JSON form.
func Decode(data []byte) (*Lingo, error) {
	var w lingoWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, lingoerr.New(lingoerr.KindInvalidConditionLingo, "malformed Lingo document", err)
	}
	cond, err := decodeCondition(w.Condition)
	if err != nil {
		return nil, err
	}
	return &Lingo{Version: w.Version, Condition: cond}, nil
}

// Encode serializes l into its wire JSON form.
func Encode(l *Lingo) ([]byte, error) {
	condRaw, err := encodeCondition(l.Condition)
	if err != nil {
		return nil, err
	}
	return json.Marshal(lingoWire{Version: l.Version, Condition: condRaw})
}

func decodeCondition(raw json.RawMessage) (condition.Condition, error) {
	if len(raw) == 0 {
		return nil, lingoerr.New(lingoerr.KindInvalidConditionLingo, "missing condition node", nil)
	}
	var w conditionWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, lingoerr.New(lingoerr.KindInvalidCondition, "malformed condition node", err)
	}

	switch condition.Type(w.ConditionType) {
	case condition.TypeTime:
		return &condition.TimeCondition{
			Chain:           w.Chain,
			ReturnValueTest: derefRVT(w.ReturnValueTest),
		}, nil

	case condition.TypeRPC:
		return &condition.RpcCondition{
			Chain:           w.Chain,
			Method:          w.Method,
			Parameters:      w.Parameters,
			ReturnValueTest: derefRVT(w.ReturnValueTest),
		}, nil

	case condition.TypeContract:
		var fn *ethabi.Method
		if len(w.FunctionABI) > 0 {
			parsed, err := decodeFunctionABI(w.FunctionABI, w.Method)
			if err != nil {
				return nil, err
			}
			fn = parsed
		}
		return &condition.ContractCondition{
			Chain:                w.Chain,
			ContractAddress:      w.ContractAddress,
			StandardContractType: w.StandardContractType,
			FunctionABI:          fn,
			Method:               w.Method,
			Parameters:           w.Parameters,
			ReturnValueTest:      derefRVT(w.ReturnValueTest),
		}, nil

	case condition.TypeJSONAPI:
		return &condition.JsonApiCondition{
			Endpoint:           w.Endpoint,
			Parameters:         w.ParametersMap,
			AuthorizationToken: w.AuthorizationToken,
			Query:              w.Query,
			ReturnValueTest:    derefRVT(w.ReturnValueTest),
		}, nil

	case condition.TypeJSONRPC:
		var params value.Value
		if w.Params != nil {
			params = *w.Params
		} else {
			params = value.List(nil)
		}
		return &condition.JsonRpcCondition{
			Endpoint:           w.Endpoint,
			Method:             w.Method,
			Params:             params,
			AuthorizationToken: w.AuthorizationToken,
			Query:              w.Query,
			ReturnValueTest:    derefRVT(w.ReturnValueTest),
		}, nil

	case condition.TypeCompound:
		operands := make([]condition.Condition, len(w.Operands))
		for i, raw := range w.Operands {
			op, err := decodeCondition(raw)
			if err != nil {
				return nil, err
			}
			operands[i] = op
		}
		return &condition.CompoundCondition{
			Operator: condition.Operator(w.Operator),
			Operands: operands,
		}, nil

	case condition.TypeSequential:
		vars := make([]condition.ConditionVariable, len(w.ConditionVariables))
		for i, cv := range w.ConditionVariables {
			sub, err := decodeCondition(cv.Condition)
			if err != nil {
				return nil, err
			}
			vars[i] = condition.ConditionVariable{VarName: cv.VarName, Condition: sub}
		}
		return &condition.SequentialCondition{ConditionVariables: vars}, nil

	default:
		return nil, lingoerr.Newf(lingoerr.KindInvalidConditionLingo, nil,
			"unrecognized conditionType %q", w.ConditionType)
	}
}

func derefRVT(rvt *value.ReturnValueTest) value.ReturnValueTest {
	if rvt == nil {
		return value.ReturnValueTest{}
	}
	return *rvt
}

// decodeFunctionABI parses a single function-ABI JSON object (as the wire
// format embeds it) into an *abi.Method, by wrapping it as a one-element
// ABI array and looking up the named method (go-ethereum's abi.JSON only
// parses whole-contract ABI arrays).
func decodeFunctionABI(raw json.RawMessage, method string) (*ethabi.Method, error) {
	wrapped := "[" + string(raw) + "]"
	parsed, err := ethabi.JSON(strings.NewReader(wrapped))
	if err != nil {
		return nil, lingoerr.New(lingoerr.KindInvalidCondition, "invalid function ABI", err)
	}
	fn, ok := parsed.Methods[method]
	if !ok {
		return nil, lingoerr.Newf(lingoerr.KindInvalidCondition, nil,
			"function ABI does not define method %q", method)
	}
	return &fn, nil
}

func encodeCondition(c condition.Condition) (json.RawMessage, error) {
	switch n := c.(type) {
	case *condition.TimeCondition:
		return json.Marshal(conditionWire{
			ConditionType:   string(condition.TypeTime),
			Chain:           n.Chain,
			Method:          "blocktime",
			ReturnValueTest: &n.ReturnValueTest,
		})

	case *condition.RpcCondition:
		return json.Marshal(conditionWire{
			ConditionType:   string(condition.TypeRPC),
			Chain:           n.Chain,
			Method:          n.Method,
			Parameters:      n.Parameters,
			ReturnValueTest: &n.ReturnValueTest,
		})

	case *condition.ContractCondition:
		return json.Marshal(conditionWire{
			ConditionType:        string(condition.TypeContract),
			Chain:                n.Chain,
			ContractAddress:      n.ContractAddress,
			StandardContractType: n.StandardContractType,
			Method:               n.Method,
			Parameters:           n.Parameters,
			ReturnValueTest:      &n.ReturnValueTest,
		})

	case *condition.JsonApiCondition:
		return json.Marshal(conditionWire{
			ConditionType:      string(condition.TypeJSONAPI),
			Endpoint:           n.Endpoint,
			ParametersMap:      n.Parameters,
			AuthorizationToken: n.AuthorizationToken,
			Query:              n.Query,
			ReturnValueTest:    &n.ReturnValueTest,
		})

	case *condition.JsonRpcCondition:
		params := n.Params
		return json.Marshal(conditionWire{
			ConditionType:      string(condition.TypeJSONRPC),
			Endpoint:           n.Endpoint,
			Method:             n.Method,
			Params:             &params,
			AuthorizationToken: n.AuthorizationToken,
			Query:              n.Query,
			ReturnValueTest:    &n.ReturnValueTest,
		})

	case *condition.CompoundCondition:
		operands := make([]json.RawMessage, len(n.Operands))
		for i, operand := range n.Operands {
			raw, err := encodeCondition(operand)
			if err != nil {
				return nil, err
			}
			operands[i] = raw
		}
		return json.Marshal(conditionWire{
			ConditionType: string(condition.TypeCompound),
			Operator:      string(n.Operator),
			Operands:      operands,
		})

	case *condition.SequentialCondition:
		vars := make([]conditionVariableWire, len(n.ConditionVariables))
		for i, cv := range n.ConditionVariables {
			raw, err := encodeCondition(cv.Condition)
			if err != nil {
				return nil, err
			}
			vars[i] = conditionVariableWire{VarName: cv.VarName, Condition: raw}
		}
		return json.Marshal(conditionWire{
			ConditionType:      string(condition.TypeSequential),
			ConditionVariables: vars,
		})

	default:
		return nil, lingoerr.Newf(lingoerr.KindInvalidConditionLingo, nil,
			"cannot encode condition of unknown Go type %T", c)
	}
}
