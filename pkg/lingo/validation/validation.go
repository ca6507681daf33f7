// Package validation implements structural and semantic checks for a
// condition tree, grounded on the marshmallow Schema validators in
// original_source/nucypher/policy/conditions/evm.py. Of these, only
// ValidateNestingDepth is applied by the engine (through Lingo.Validate,
// before evaluation); Decode and direct construction do not call the
// others.
package validation

import (
	"net/url"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nucypher/condition-lingo-go/pkg/lingo/calls"
	"github.com/nucypher/condition-lingo-go/pkg/lingo/condition"
	"github.com/nucypher/condition-lingo-go/pkg/lingoerr"
)

// AllowedChains is the statically permitted set of chain IDs a leaf
// condition's "chain" field may name. Tests may extend this by adding
// entries to the map.
var AllowedChains = map[int64]bool{
	1:        true, // Ethereum mainnet
	137:      true, // Polygon
	80002:    true, // Polygon Amoy testnet
	11155111: true, // Sepolia testnet
}

// ValidateChain checks chainID against AllowedChains.
func ValidateChain(chainID int64) error {
	if !AllowedChains[chainID] {
		return lingoerr.Newf(lingoerr.KindInvalidCondition, nil,
			"chain %d is not in the permitted set of chains", chainID)
	}
	return nil
}

// ValidateHTTPSURL enforces the "https, absolute form" URL invariant.
func ValidateHTTPSURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return lingoerr.Newf(lingoerr.KindInvalidCondition, nil,
			"%q is not an absolute URL", raw)
	}
	if u.Scheme != "https" {
		return lingoerr.Newf(lingoerr.KindInvalidCondition, nil,
			"%q must use the https scheme", raw)
	}
	return nil
}

// ValidateRPCMethod checks method against the RPC allow-list.
func ValidateRPCMethod(method string) error {
	if !calls.AllowedRPCMethods[method] {
		return lingoerr.Newf(lingoerr.KindInvalidCondition, nil,
			"%q is not a permitted RPC method for condition evaluation", method)
	}
	return nil
}

// ValidateContractAddress checks addr can be parsed as a checksum address,
// grounded on evm.py's validate_contract_address.
func ValidateContractAddress(addr string) error {
	if !common.IsHexAddress(addr) {
		return lingoerr.Newf(lingoerr.KindInvalidCondition, nil,
			"invalid checksum address: %q", addr)
	}
	return nil
}

// ValidateContractTypeXORFunctionABI enforces that exactly one of
// standardContractType/functionAbi is set, and that a set functionAbi's
// name matches method.
func ValidateContractTypeXORFunctionABI(standardContractType, method string, functionABIName string, hasFunctionABI bool) error {
	hasStandardType := standardContractType != ""
	if hasStandardType == hasFunctionABI {
		return lingoerr.Newf(lingoerr.KindInvalidCondition, nil,
			"provide a standard contract type or function ABI; got (%q, present=%v)",
			standardContractType, hasFunctionABI)
	}
	if hasStandardType && !calls.StandardContractTypes[standardContractType] {
		return lingoerr.Newf(lingoerr.KindInvalidCondition, nil,
			"invalid standard contract type: %q", standardContractType)
	}
	if hasFunctionABI && functionABIName != method {
		return lingoerr.Newf(lingoerr.KindInvalidCondition, nil,
			"function ABI name %q does not match method %q", functionABIName, method)
	}
	return nil
}

// ValidateCompoundArity enforces operator-specific operand counts: `not`
// is unary, `and`/`or` take 2..MAX operands, grounded on
// original_source/tests/unit/conditions/test_compound_condition.py.
func ValidateCompoundArity(operator condition.Operator, operandCount int) error {
	switch operator {
	case condition.OperatorNot:
		if operandCount != 1 {
			return lingoerr.Newf(lingoerr.KindInvalidCondition, nil,
				"'not' requires exactly 1 operand, got %d", operandCount)
		}
	case condition.OperatorAnd, condition.OperatorOr:
		if operandCount < 2 || operandCount > condition.MaxOperands {
			return lingoerr.Newf(lingoerr.KindInvalidCondition, nil,
				"%q requires 2..%d operands, got %d", operator, condition.MaxOperands, operandCount)
		}
	default:
		return lingoerr.Newf(lingoerr.KindInvalidCondition, nil, "unknown compound operator %q", operator)
	}
	return nil
}

// ValidateSequentialArity enforces the sequential condition's variable-count
// bound.
func ValidateSequentialArity(count int) error {
	if count == 0 || count > condition.MaxOperands {
		return lingoerr.Newf(lingoerr.KindInvalidCondition, nil,
			"sequential condition requires 1..%d condition variables, got %d", condition.MaxOperands, count)
	}
	return nil
}

// ValidateAuthorizationToken enforces that a non-empty authorizationToken
// names a context variable, grounded on rpc.py's validate_auth_token.
func ValidateAuthorizationToken(token string, isContextVariable func(string) bool) error {
	if token == "" {
		return nil
	}
	if !isContextVariable(token) {
		return lingoerr.Newf(lingoerr.KindInvalidCondition, nil,
			"invalid value for authorization token; expected a context variable, but got %q", token)
	}
	return nil
}

// NestingDepth computes the depth of multi-conditions (compound/sequential)
// in the given tree, where a leaf is depth 0 and each nested
// compound/sequential layer adds 1.
func NestingDepth(c condition.Condition) int {
	switch n := c.(type) {
	case *condition.CompoundCondition:
		maxChild := 0
		for _, operand := range n.Operands {
			if d := NestingDepth(operand); d > maxChild {
				maxChild = d
			}
		}
		return 1 + maxChild
	case *condition.SequentialCondition:
		maxChild := 0
		for _, cv := range n.ConditionVariables {
			if d := NestingDepth(cv.Condition); d > maxChild {
				maxChild = d
			}
		}
		return 1 + maxChild
	default:
		return 0
	}
}

// ValidateNestingDepth enforces MaxNestingDepth on the whole tree.
func ValidateNestingDepth(c condition.Condition) error {
	if depth := NestingDepth(c); depth > condition.MaxNestingDepth {
		return lingoerr.Newf(lingoerr.KindInvalidCondition, nil,
			"condition tree nesting depth %d exceeds maximum of %d", depth, condition.MaxNestingDepth)
	}
	return nil
}
