// Package condition implements the condition AST and its verify dispatch:
// leaf conditions wrapping an execution call and a ReturnValueTest, and
// compound/sequential combinators over them.
package condition

import (
	"context"

	evalctx "github.com/nucypher/condition-lingo-go/pkg/lingo/context"
	"github.com/nucypher/condition-lingo-go/pkg/lingo/providers"
	"github.com/nucypher/condition-lingo-go/pkg/lingo/value"
)

// Type tags the seven condition-node kinds the wire format recognizes.
type Type string

const (
	TypeTime       Type = "time"
	TypeRPC        Type = "rpc"
	TypeContract   Type = "contract"
	TypeJSONAPI    Type = "json-api"
	TypeJSONRPC    Type = "json-rpc"
	TypeCompound   Type = "compound"
	TypeSequential Type = "sequential"
)

// MaxOperands is the upper bound on CompoundCondition and SequentialCondition
// operand counts.
const MaxOperands = 5

// MaxNestingDepth is the deepest a tree of compound/sequential nodes may go.
const MaxNestingDepth = 2

// EvalOptions tunes evaluation behavior not fixed by the wire format.
type EvalOptions struct {
	// RedactPartialResults, if true, omits the Values slice from every
	// compound/sequential Result, whether or not evaluation short-circuited,
	// instead of returning the leaf values observed.
	RedactPartialResults bool
}

// Result is what Verify returns: the boolean outcome plus every leaf value
// observed along the way, in evaluation order.
type Result struct {
	Satisfied bool
	Values    []value.Value
}

// Condition is any node in the tree: leaf (Time/Rpc/Contract/JsonApi/JsonRpc),
// compound (And/Or/Not), or sequential.
type Condition interface {
	Type() Type
	// Verify evaluates the condition against ctx using mgr for any network
	// calls, returning the satisfaction result.
	Verify(goCtx context.Context, mgr *providers.Manager, ctx evalctx.Context, opts EvalOptions) (Result, error)
}

func redact(opts EvalOptions, values []value.Value) []value.Value {
	if opts.RedactPartialResults {
		return nil
	}
	return values
}
