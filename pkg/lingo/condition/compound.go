package condition

import (
	"context"

	evalctx "github.com/nucypher/condition-lingo-go/pkg/lingo/context"
	"github.com/nucypher/condition-lingo-go/pkg/lingo/providers"
	"github.com/nucypher/condition-lingo-go/pkg/lingo/value"
	"github.com/nucypher/condition-lingo-go/pkg/lingoerr"
)

// Operator is one of the three compound operators.
type Operator string

const (
	OperatorAnd Operator = "and"
	OperatorOr  Operator = "or"
	OperatorNot Operator = "not"
)

// CompoundCondition is And/Or/Not over a list of operands. Verify checks
// arity before evaluating any operand: Not takes exactly one operand;
// And/Or take 2..MaxOperands.
type CompoundCondition struct {
	Operator Operator
	Operands []Condition
}

func (c *CompoundCondition) Type() Type { return TypeCompound }

func (c *CompoundCondition) Verify(goCtx context.Context, mgr *providers.Manager, ctx evalctx.Context, opts EvalOptions) (Result, error) {
	switch c.Operator {
	case OperatorNot:
		return c.verifyNot(goCtx, mgr, ctx, opts)
	case OperatorAnd:
		return c.verifyAndOr(goCtx, mgr, ctx, opts, true)
	case OperatorOr:
		return c.verifyAndOr(goCtx, mgr, ctx, opts, false)
	default:
		return Result{}, lingoerr.Newf(lingoerr.KindInvalidCondition, nil, "unknown compound operator %q", c.Operator)
	}
}

func (c *CompoundCondition) verifyNot(goCtx context.Context, mgr *providers.Manager, ctx evalctx.Context, opts EvalOptions) (Result, error) {
	if len(c.Operands) != 1 {
		return Result{}, lingoerr.Newf(lingoerr.KindInvalidCondition, nil,
			"'not' requires exactly 1 operand, got %d", len(c.Operands))
	}
	inner, err := c.Operands[0].Verify(goCtx, mgr, ctx, opts)
	if err != nil {
		return Result{}, err
	}
	return Result{Satisfied: !inner.Satisfied, Values: redact(opts, inner.Values)}, nil
}

// verifyAndOr implements both And and Or: evaluate operands left-to-right,
// short-circuiting on the first true result for Or or the first false
// result for And.
func (c *CompoundCondition) verifyAndOr(goCtx context.Context, mgr *providers.Manager, ctx evalctx.Context, opts EvalOptions, isAnd bool) (Result, error) {
	if len(c.Operands) < 2 || len(c.Operands) > MaxOperands {
		return Result{}, lingoerr.Newf(lingoerr.KindInvalidCondition, nil,
			"%q requires 2..%d operands, got %d", c.Operator, MaxOperands, len(c.Operands))
	}

	var collected []value.Value
	for _, operand := range c.Operands {
		r, err := operand.Verify(goCtx, mgr, ctx, opts)
		if err != nil {
			return Result{}, err
		}
		collected = append(collected, r.Values...)

		shortCircuit := (isAnd && !r.Satisfied) || (!isAnd && r.Satisfied)
		if shortCircuit {
			return Result{Satisfied: r.Satisfied, Values: redact(opts, collected)}, nil
		}
	}

	return Result{Satisfied: isAnd, Values: redact(opts, collected)}, nil
}
