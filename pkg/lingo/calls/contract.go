package calls

import (
	"context"
	"math/big"
	"reflect"
	"strings"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/nucypher/condition-lingo-go/pkg/lingo/providers"
	"github.com/nucypher/condition-lingo-go/pkg/lingo/value"
	"github.com/nucypher/condition-lingo-go/pkg/lingoerr"
)

// StandardContractTypes is the fixed set of built-in ABIs a ContractCall may
// reference by name instead of an explicit functionAbi.
var StandardContractTypes = map[string]bool{
	"ERC20":   true,
	"ERC721":  true,
	"ERC1155": true,
}

// erc20ABIJSON, erc721ABIJSON and erc1155ABIJSON cover the read-only view
// methods a condition is plausibly written against; a custom functionAbi is
// required for anything else.
const erc20ABIJSON = `[
  {"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},
  {"constant":true,"inputs":[],"name":"totalSupply","outputs":[{"name":"","type":"uint256"}],"type":"function"},
  {"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"type":"function"},
  {"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"},
  {"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"type":"function"}
]`

const erc721ABIJSON = `[
  {"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},
  {"constant":true,"inputs":[{"name":"tokenId","type":"uint256"}],"name":"ownerOf","outputs":[{"name":"","type":"address"}],"type":"function"},
  {"constant":true,"inputs":[{"name":"tokenId","type":"uint256"}],"name":"getApproved","outputs":[{"name":"","type":"address"}],"type":"function"}
]`

const erc1155ABIJSON = `[
  {"constant":true,"inputs":[{"name":"account","type":"address"},{"name":"id","type":"uint256"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"}
]`

func standardABI(contractType string) (abi.ABI, error) {
	var raw string
	switch contractType {
	case "ERC20":
		raw = erc20ABIJSON
	case "ERC721":
		raw = erc721ABIJSON
	case "ERC1155":
		raw = erc1155ABIJSON
	default:
		return abi.ABI{}, lingoerr.Newf(lingoerr.KindInvalidCondition, nil,
			"unknown standard contract type %q", contractType)
	}
	return abi.JSON(strings.NewReader(raw))
}

// ContractCall executes a read-only ABI-encoded call against ContractAddress
// on Chain, resolving the ABI from either StandardContractType or an
// explicit FunctionABI (FunctionABI is used when set, otherwise
// StandardContractType; validation.ValidateContractTypeXORFunctionABI checks
// that exactly one is set but is not called on this path), and fails over
// across endpoints the same way RPCCall does.
type ContractCall struct {
	Chain               int64
	ContractAddress     string
	StandardContractType string
	FunctionABI         *abi.Method
	Method              string
	Parameters          []value.Value
}

// resolveABI returns the abi.ABI to pack/unpack Method against.
func (c ContractCall) resolveABI() (abi.ABI, error) {
	if c.FunctionABI != nil {
		return abi.ABI{Methods: map[string]abi.Method{c.Method: *c.FunctionABI}}, nil
	}
	return standardABI(c.StandardContractType)
}

// Execute runs the call, returning its result as a Value. Address-typed
// return values are normalized to EIP-55 checksum form.
func (c ContractCall) Execute(ctx context.Context, mgr *providers.Manager) (value.Value, error) {
	if !common.IsHexAddress(c.ContractAddress) {
		return value.Value{}, lingoerr.Newf(lingoerr.KindInvalidCondition, nil,
			"invalid checksum address: %q", c.ContractAddress)
	}
	contractABI, err := c.resolveABI()
	if err != nil {
		return value.Value{}, err
	}

	inputs := contractABI.Methods[c.Method].Inputs
	bigIntType := reflect.TypeOf((*big.Int)(nil))
	args := make([]any, len(c.Parameters))
	for i, p := range c.Parameters {
		args[i] = p.ToGo()
		if i < len(inputs) && inputs[i].Type.GetType() == bigIntType {
			if n, ok := p.AsBigInt(); ok {
				args[i] = n
			}
		}
	}

	packed, err := contractABI.Pack(c.Method, args...)
	if err != nil {
		return value.Value{}, lingoerr.Newf(lingoerr.KindInvalidContextVariableData, err,
			"could not encode parameters for %s.%s", c.ContractAddress, c.Method)
	}

	contractAddr := common.HexToAddress(c.ContractAddress)
	var result value.Value
	execErr := mgr.ForEachEndpoint(c.Chain, func(rpcURL string) error {
		client, dialErr := mgr.ClientFor(ctx, rpcURL)
		if dialErr != nil {
			return dialErr
		}
		out, callErr := client.CallContract(ctx, ethereum.CallMsg{To: &contractAddr, Data: packed}, nil)
		if callErr != nil {
			return callErr
		}
		unpacked, unpackErr := contractABI.Unpack(c.Method, out)
		if unpackErr != nil || len(unpacked) == 0 {
			return lingoerr.Newf(lingoerr.KindRPCExecutionFailed, unpackErr,
				"failed to decode result of %s", c.Method)
		}
		result = normalizeContractResult(unpacked[0])
		return nil
	})
	if execErr != nil {
		return value.Value{}, execErr
	}
	return result, nil
}

// normalizeContractResult converts a raw ABI-unpacked Go value into a
// Value, checksum-normalizing address-typed results.
func normalizeContractResult(raw any) value.Value {
	if addr, ok := raw.(common.Address); ok {
		return value.String(addr.Hex())
	}
	return value.FromGo(raw)
}

// AlignComparatorValue normalizes expected, the comparator literal from a
// ReturnValueTest evaluated against this call's result, to match the
// method's output ABI type. An address-typed output means Execute's result
// is always an EIP-55 checksum string; a comparator value that names the
// same address in a different letter case would otherwise fail a
// case-sensitive string comparison, so it is checksum-normalized the same
// way here. Any other output type, or an expected value that isn't a valid
// address string, is returned unchanged.
func (c ContractCall) AlignComparatorValue(expected value.Value) value.Value {
	contractABI, err := c.resolveABI()
	if err != nil {
		return expected
	}
	method, ok := contractABI.Methods[c.Method]
	if !ok || len(method.Outputs) != 1 || method.Outputs[0].Type.T != abi.AddressTy {
		return expected
	}
	s, ok := expected.AsString()
	if !ok || !common.IsHexAddress(s) {
		return expected
	}
	return value.String(common.HexToAddress(s).Hex())
}
