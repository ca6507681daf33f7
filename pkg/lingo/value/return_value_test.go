package value

import (
	"encoding/json"
	"fmt"
)

// Comparator is one of the six operators a ReturnValueTest may apply.
type Comparator string

const (
	ComparatorEQ Comparator = "=="
	ComparatorNE Comparator = "!="
	ComparatorGT Comparator = ">"
	ComparatorGE Comparator = ">="
	ComparatorLT Comparator = "<"
	ComparatorLE Comparator = "<="
)

var validComparators = map[Comparator]bool{
	ComparatorEQ: true, ComparatorNE: true,
	ComparatorGT: true, ComparatorGE: true,
	ComparatorLT: true, ComparatorLE: true,
}

// IsValid reports whether c is one of the six recognized comparators.
func (c Comparator) IsValid() bool { return validComparators[c] }

// ReturnValueTest is {comparator, value, index?}. Value may itself carry
// an unresolved context-variable token until resolution.
type ReturnValueTest struct {
	Comparator Comparator
	Value      Value
	Index      *int
}

type returnValueTestWire struct {
	Comparator Comparator `json:"comparator"`
	Value      Value      `json:"value"`
	Index      *int       `json:"index,omitempty"`
}

func (r ReturnValueTest) MarshalJSON() ([]byte, error) {
	return json.Marshal(returnValueTestWire{Comparator: r.Comparator, Value: r.Value, Index: r.Index})
}

func (r *ReturnValueTest) UnmarshalJSON(data []byte) error {
	var w returnValueTestWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Index != nil && *w.Index < 0 {
		return fmt.Errorf("return value test: index must be non-negative, got %d", *w.Index)
	}
	r.Comparator = w.Comparator
	r.Value = w.Value
	r.Index = w.Index
	return nil
}

// Eval applies the comparator between the (possibly index-selected)
// result and the test's expected value.
func (r ReturnValueTest) Eval(result Value) (bool, error) {
	candidate := result
	if r.Index != nil {
		selected, err := result.Index(*r.Index)
		if err != nil {
			return false, err
		}
		candidate = selected
	}
	return compare(r.Comparator, candidate, r.Value)
}

func compare(c Comparator, a, b Value) (bool, error) {
	switch c {
	case ComparatorEQ:
		return a.Equal(b), nil
	case ComparatorNE:
		return !a.Equal(b), nil
	case ComparatorGT, ComparatorGE, ComparatorLT, ComparatorLE:
		cmp, ok := compareNumeric(a, b)
		if !ok {
			return false, fmt.Errorf("cannot order-compare values of kind %s and %s", a.Kind(), b.Kind())
		}
		switch c {
		case ComparatorGT:
			return cmp > 0, nil
		case ComparatorGE:
			return cmp >= 0, nil
		case ComparatorLT:
			return cmp < 0, nil
		case ComparatorLE:
			return cmp <= 0, nil
		}
	}
	return false, fmt.Errorf("unknown comparator %q", c)
}
