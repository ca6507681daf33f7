package condition

import (
	"context"

	evalctx "github.com/nucypher/condition-lingo-go/pkg/lingo/context"
	"github.com/nucypher/condition-lingo-go/pkg/lingo/providers"
	"github.com/nucypher/condition-lingo-go/pkg/lingo/value"
	"github.com/nucypher/condition-lingo-go/pkg/lingoerr"
)

// ConditionVariable is one (name, condition) pair of a SequentialCondition.
type ConditionVariable struct {
	VarName   string
	Condition Condition
}

// SequentialCondition evaluates an ordered list of named condition
// variables, binding each result into a scoped context for subsequent
// positions.
type SequentialCondition struct {
	ConditionVariables []ConditionVariable
}

func (c *SequentialCondition) Type() Type { return TypeSequential }

func (c *SequentialCondition) Verify(goCtx context.Context, mgr *providers.Manager, ctx evalctx.Context, opts EvalOptions) (Result, error) {
	if len(c.ConditionVariables) == 0 || len(c.ConditionVariables) > MaxOperands {
		return Result{}, lingoerr.Newf(lingoerr.KindInvalidCondition, nil,
			"sequential condition requires 1..%d condition variables, got %d", MaxOperands, len(c.ConditionVariables))
	}

	scoped := ctx
	var collected []value.Value

	for _, cv := range c.ConditionVariables {
		r, err := cv.Condition.Verify(goCtx, mgr, scoped, opts)
		if err != nil {
			return Result{}, err
		}
		collected = append(collected, r.Values...)

		if !r.Satisfied {
			return Result{Satisfied: false, Values: redact(opts, collected)}, nil
		}

		var bound value.Value
		if len(r.Values) > 0 {
			bound = r.Values[len(r.Values)-1]
		}
		scoped = scoped.WithBinding(cv.VarName, bound)
	}

	return Result{Satisfied: true, Values: redact(opts, collected)}, nil
}
