// Package lingoerr defines the error kinds surfaced by the condition engine
// to its host.
package lingoerr

import (
	"errors"
	"fmt"
)

// Kind identifies one of the nine error kinds the core may raise.
type Kind string

const (
	KindInvalidCondition                 Kind = "InvalidCondition"
	KindInvalidConditionLingo            Kind = "InvalidConditionLingo"
	KindMissingContextVariable           Kind = "MissingContextVariable"
	KindInvalidContextVariableData       Kind = "InvalidContextVariableData"
	KindContextVariableVerificationFailed Kind = "ContextVariableVerificationFailed"
	KindUnexpectedScheme                 Kind = "UnexpectedScheme"
	KindNoConnectionToChain              Kind = "NoConnectionToChain"
	KindRPCExecutionFailed               Kind = "RPCExecutionFailed"
	KindJsonRequestException             Kind = "JsonRequestException"
)

// Error wraps a Kind with a human-readable message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Err.Error())
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, lingoerr.New(KindX, "", nil)) to match on Kind
// alone, against one of the sentinel values below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New constructs an *Error of the given kind.
func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// Newf constructs an *Error with a formatted message.
func Newf(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf extracts the Kind from err if it is (or wraps) a *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// sentinels, one per kind, so callers can do errors.Is(err, lingoerr.ErrMissingContextVariable)
var (
	ErrInvalidCondition                  = &Error{Kind: KindInvalidCondition}
	ErrInvalidConditionLingo             = &Error{Kind: KindInvalidConditionLingo}
	ErrMissingContextVariable            = &Error{Kind: KindMissingContextVariable}
	ErrInvalidContextVariableData        = &Error{Kind: KindInvalidContextVariableData}
	ErrContextVariableVerificationFailed = &Error{Kind: KindContextVariableVerificationFailed}
	ErrUnexpectedScheme                  = &Error{Kind: KindUnexpectedScheme}
	ErrNoConnectionToChain               = &Error{Kind: KindNoConnectionToChain}
	ErrRPCExecutionFailed                = &Error{Kind: KindRPCExecutionFailed}
	ErrJsonRequestException              = &Error{Kind: KindJsonRequestException}
)
