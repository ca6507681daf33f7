package condition

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/nucypher/condition-lingo-go/pkg/lingo/calls"
	evalctx "github.com/nucypher/condition-lingo-go/pkg/lingo/context"
	"github.com/nucypher/condition-lingo-go/pkg/lingo/providers"
	"github.com/nucypher/condition-lingo-go/pkg/lingo/value"
	"github.com/nucypher/condition-lingo-go/pkg/lingoerr"
)

// TimeCondition wraps a TimeCall and a comparator against the latest block
// timestamp.
type TimeCondition struct {
	Chain           int64
	ReturnValueTest value.ReturnValueTest
}

func (c *TimeCondition) Type() Type { return TypeTime }

func (c *TimeCondition) Verify(goCtx context.Context, mgr *providers.Manager, ctx evalctx.Context, opts EvalOptions) (Result, error) {
	return verifyLeaf(goCtx, ctx, c.ReturnValueTest, nil, func() (value.Value, error) {
		return calls.TimeCall{Chain: c.Chain}.Execute(goCtx, mgr)
	})
}

// RpcCondition wraps an allow-listed RPCCall.
type RpcCondition struct {
	Chain           int64
	Method          string
	Parameters      []value.Value
	ReturnValueTest value.ReturnValueTest
}

func (c *RpcCondition) Type() Type { return TypeRPC }

func (c *RpcCondition) Verify(goCtx context.Context, mgr *providers.Manager, ctx evalctx.Context, opts EvalOptions) (Result, error) {
	return verifyLeaf(goCtx, ctx, c.ReturnValueTest, nil, func() (value.Value, error) {
		resolvedParams, err := resolveParameters(c.Parameters, ctx)
		if err != nil {
			return value.Value{}, err
		}
		return calls.RPCCall{Chain: c.Chain, Method: c.Method, Parameters: resolvedParams}.Execute(goCtx, mgr)
	})
}

// ContractCondition wraps a ContractCall. Exactly one of
// StandardContractType/FunctionABI is expected to be set;
// validation.ValidateContractTypeXORFunctionABI checks this, but neither
// decoding nor Verify calls it.
type ContractCondition struct {
	Chain                int64
	ContractAddress      string
	StandardContractType string
	FunctionABI          *abi.Method
	Method               string
	Parameters           []value.Value
	ReturnValueTest      value.ReturnValueTest
}

func (c *ContractCondition) Type() Type { return TypeContract }

func (c *ContractCondition) Verify(goCtx context.Context, mgr *providers.Manager, ctx evalctx.Context, opts EvalOptions) (Result, error) {
	call := calls.ContractCall{
		Chain:                c.Chain,
		ContractAddress:      c.ContractAddress,
		StandardContractType: c.StandardContractType,
		FunctionABI:          c.FunctionABI,
		Method:               c.Method,
	}
	return verifyLeaf(goCtx, ctx, c.ReturnValueTest, call.AlignComparatorValue, func() (value.Value, error) {
		resolvedParams, err := resolveParameters(c.Parameters, ctx)
		if err != nil {
			return value.Value{}, err
		}
		call.Parameters = resolvedParams
		return call.Execute(goCtx, mgr)
	})
}

// JsonApiCondition wraps a JsonApiCall.
type JsonApiCondition struct {
	Endpoint           string
	Parameters         map[string]value.Value
	AuthorizationToken string
	Query              string
	ReturnValueTest    value.ReturnValueTest
}

func (c *JsonApiCondition) Type() Type { return TypeJSONAPI }

func (c *JsonApiCondition) Verify(goCtx context.Context, mgr *providers.Manager, ctx evalctx.Context, opts EvalOptions) (Result, error) {
	return verifyLeaf(goCtx, ctx, c.ReturnValueTest, nil, func() (value.Value, error) {
		resolvedParams, err := resolveParameterMap(c.Parameters, ctx)
		if err != nil {
			return value.Value{}, err
		}
		token, err := resolveAuthorizationToken(c.AuthorizationToken, ctx)
		if err != nil {
			return value.Value{}, err
		}
		call := calls.JsonApiCall{
			Endpoint:           c.Endpoint,
			Parameters:         resolvedParams,
			AuthorizationToken: token,
			Query:              c.Query,
		}
		return call.Execute(goCtx)
	})
}

// JsonRpcCondition wraps a JsonRpcCall.
type JsonRpcCondition struct {
	Endpoint           string
	Method             string
	Params             value.Value
	AuthorizationToken string
	Query              string
	ReturnValueTest    value.ReturnValueTest
}

func (c *JsonRpcCondition) Type() Type { return TypeJSONRPC }

func (c *JsonRpcCondition) Verify(goCtx context.Context, mgr *providers.Manager, ctx evalctx.Context, opts EvalOptions) (Result, error) {
	return verifyLeaf(goCtx, ctx, c.ReturnValueTest, nil, func() (value.Value, error) {
		resolvedParams, err := evalctx.Resolve(c.Params, ctx)
		if err != nil {
			return value.Value{}, err
		}
		token, err := resolveAuthorizationToken(c.AuthorizationToken, ctx)
		if err != nil {
			return value.Value{}, err
		}
		call := calls.JsonRpcCall{
			Endpoint:           c.Endpoint,
			Method:             c.Method,
			Params:             resolvedParams,
			AuthorizationToken: token,
			Query:              c.Query,
		}
		return call.Execute(goCtx)
	})
}

// verifyLeaf implements the shared leaf verify flow: resolve the
// return-value test's expected value against the context, optionally align
// it with the call's own result type (align is nil for call kinds that
// need no alignment), execute the call, then compare.
func verifyLeaf(goCtx context.Context, ctx evalctx.Context, rvt value.ReturnValueTest, align func(value.Value) value.Value, execute func() (value.Value, error)) (Result, error) {
	resolvedExpected, err := evalctx.Resolve(rvt.Value, ctx)
	if err != nil {
		return Result{}, err
	}
	if align != nil {
		resolvedExpected = align(resolvedExpected)
	}
	resolved := value.ReturnValueTest{Comparator: rvt.Comparator, Value: resolvedExpected, Index: rvt.Index}

	result, err := execute()
	if err != nil {
		return Result{}, err
	}

	satisfied, evalErr := resolved.Eval(result)
	if evalErr != nil {
		return Result{}, lingoerr.New(lingoerr.KindRPCExecutionFailed, evalErr.Error(), evalErr)
	}

	return Result{Satisfied: satisfied, Values: []value.Value{result}}, nil
}

func resolveParameters(params []value.Value, ctx evalctx.Context) ([]value.Value, error) {
	out := make([]value.Value, len(params))
	for i, p := range params {
		resolved, err := evalctx.Resolve(p, ctx)
		if err != nil {
			return nil, err
		}
		out[i] = resolved
	}
	return out, nil
}

func resolveParameterMap(params map[string]value.Value, ctx evalctx.Context) (map[string]value.Value, error) {
	if params == nil {
		return nil, nil
	}
	out := make(map[string]value.Value, len(params))
	for k, p := range params {
		resolved, err := evalctx.Resolve(p, ctx)
		if err != nil {
			return nil, err
		}
		out[k] = resolved
	}
	return out, nil
}

// resolveAuthorizationToken resolves the token context variable into its
// bound bearer-token string.
func resolveAuthorizationToken(token string, ctx evalctx.Context) (string, error) {
	if token == "" {
		return "", nil
	}
	resolved, err := evalctx.Resolve(value.String(token), ctx)
	if err != nil {
		return "", err
	}
	s, _ := resolved.AsString()
	return s, nil
}
