// Package calls implements the leaf execution calls that back the RPC and
// Contract conditions, grounded on
// original_source/nucypher/policy/conditions/evm.py's RPCCall/ContractCall.
package calls

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nucypher/condition-lingo-go/pkg/lingo/providers"
	"github.com/nucypher/condition-lingo-go/pkg/lingo/value"
	"github.com/nucypher/condition-lingo-go/pkg/lingoerr"
)

// AllowedRPCMethods is the fixed allow-list of RPC methods a RPCCall may
// invoke, mirroring evm.py's RPCCall.ALLOWED_METHODS. Unlike the Python
// original (which tracks a TODO to widen this), the engine only needs to
// expose read-only balance queries today.
var AllowedRPCMethods = map[string]bool{
	"eth_getBalance": true,
}

// RPCCall executes a single allow-listed JSON-RPC method against the first
// reachable endpoint for Chain, failing over across the provider manager's
// configured endpoint list.
type RPCCall struct {
	Chain      int64
	Method     string
	Parameters []value.Value
}

// Execute runs the call, returning its result as a Value.
func (c RPCCall) Execute(ctx context.Context, mgr *providers.Manager) (value.Value, error) {
	if !AllowedRPCMethods[c.Method] {
		return value.Value{}, lingoerr.Newf(lingoerr.KindInvalidCondition, nil,
			"%q is not a permitted RPC method for condition evaluation", c.Method)
	}

	var result value.Value
	err := mgr.ForEachEndpoint(c.Chain, func(rpcURL string) error {
		client, dialErr := mgr.ClientFor(ctx, rpcURL)
		if dialErr != nil {
			return dialErr
		}
		r, callErr := c.dispatch(ctx, client, rpcURL)
		if callErr != nil {
			return callErr
		}
		result = r
		return nil
	})
	if err != nil {
		return value.Value{}, err
	}
	return result, nil
}

// dispatch performs the actual eth_* call named by Method. Only
// eth_getBalance is implemented today, matching AllowedRPCMethods.
func (c RPCCall) dispatch(ctx context.Context, client EthClient, rpcURL string) (value.Value, error) {
	switch c.Method {
	case "eth_getBalance":
		if len(c.Parameters) == 0 {
			return value.Value{}, lingoerr.New(lingoerr.KindInvalidContextVariableData,
				"eth_getBalance requires an address parameter", nil)
		}
		addrStr, ok := c.Parameters[0].AsString()
		if !ok || !common.IsHexAddress(addrStr) {
			return value.Value{}, lingoerr.Newf(lingoerr.KindInvalidContextVariableData, nil,
				"eth_getBalance address parameter %v is not a valid address", c.Parameters[0])
		}
		balance, err := client.BalanceAt(ctx, common.HexToAddress(addrStr), nil)
		if err != nil {
			return value.Value{}, lingoerr.Newf(lingoerr.KindRPCExecutionFailed, err,
				"eth_getBalance failed against %s", rpcURL)
		}
		return value.BigInt(balance), nil
	default:
		return value.Value{}, lingoerr.Newf(lingoerr.KindInvalidCondition, nil,
			"unsupported RPC method %q", c.Method)
	}
}

// EthClient is the subset of *ethclient.Client the calls package depends
// on, so tests can substitute a fake without dialing a real endpoint.
type EthClient interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}
