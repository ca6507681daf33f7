// Package lingo implements the top-level versioned condition document: a
// single condition tree wrapped with a schema version, plus the Evaluate
// entry point that ties the resolver, provider manager, and condition tree
// together.
package lingo

import (
	"context"

	evalctx "github.com/nucypher/condition-lingo-go/pkg/lingo/context"
	"github.com/nucypher/condition-lingo-go/pkg/lingo/providers"
	"github.com/nucypher/condition-lingo-go/pkg/lingo/condition"
	"github.com/nucypher/condition-lingo-go/pkg/lingo/validation"
	"github.com/nucypher/condition-lingo-go/pkg/lingoerr"
)

// CurrentVersion is the schema version this package writes. Decode and
// Validate accept any non-empty version string; it is not compared against
// CurrentVersion.
const CurrentVersion = "1.0.0"

// Lingo is the versioned root document wrapping a single condition tree.
type Lingo struct {
	Version   string
	Condition condition.Condition
}

// Validate checks that the version and condition are present and enforces
// the nesting-depth limit (validation.ValidateNestingDepth) on the whole
// tree. The other checks in pkg/lingo/validation (chain, URL, RPC method,
// contract address and ABI, authorization token, arity) are not applied
// here; compound and sequential arity is checked when the tree is verified.
func (l *Lingo) Validate() error {
	if l.Version == "" {
		return lingoerr.New(lingoerr.KindInvalidConditionLingo, "missing version", nil)
	}
	if l.Condition == nil {
		return lingoerr.New(lingoerr.KindInvalidConditionLingo, "missing condition", nil)
	}
	return validation.ValidateNestingDepth(l.Condition)
}

// Evaluate validates and then verifies the wrapped condition tree against
// ctx, using mgr for any network calls.
func (l *Lingo) Evaluate(goCtx context.Context, mgr *providers.Manager, ctx evalctx.Context, opts condition.EvalOptions) (condition.Result, error) {
	if err := l.Validate(); err != nil {
		return condition.Result{}, err
	}
	return l.Condition.Verify(goCtx, mgr, ctx, opts)
}
