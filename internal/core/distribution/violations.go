package distribution

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Reason codes carried by violations, machine-checkable by callers that
// render user-facing messages.
const (
	ReasonUnbalanced         = "UNBALANCED"
	ReasonTotalMismatch      = "TOTAL_MISMATCH"
	ReasonIncompleteSegments = "INCOMPLETE_SEGMENTS"
	ReasonEmptyDistribution  = "EMPTY_DISTRIBUTION"
)

// Violation is one problem found in a distribution line set. Validation
// collects every violation rather than stopping at the first, so the caller
// can present all of them at once.
type Violation interface {
	error
	Reason() string
}

// UnbalancedError reports that debits and credits do not match.
type UnbalancedError struct {
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

func (e *UnbalancedError) Reason() string { return ReasonUnbalanced }

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("distribution is unbalanced: debits %s, credits %s", e.DebitTotal, e.CreditTotal)
}

// TotalMismatchError reports that the balanced side does not equal the
// document total.
type TotalMismatchError struct {
	DebitTotal    decimal.Decimal
	DocumentTotal decimal.Decimal
}

func (e *TotalMismatchError) Reason() string { return ReasonTotalMismatch }

func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("distribution total %s does not match document total %s", e.DebitTotal, e.DocumentTotal)
}

// IncompleteSegmentsError reports a line missing a postable child segment for
// a required segment type. A parent or sub_parent segment in that slot counts
// as missing; hierarchy nodes are navigation aids, not postable dimensions.
type IncompleteSegmentsError struct {
	LineIndex     int
	SegmentTypeID string
	SegmentType   string
}

func (e *IncompleteSegmentsError) Reason() string { return ReasonIncompleteSegments }

func (e *IncompleteSegmentsError) Error() string {
	return fmt.Sprintf("line %d is missing a child segment for required segment type %s", e.LineIndex, e.SegmentType)
}

// EmptyDistributionError reports a line set too small to balance. A lone
// debit has no offsetting credit, so fewer than two lines is rejected unless
// every amount is exactly zero.
type EmptyDistributionError struct {
	LineCount int
}

func (e *EmptyDistributionError) Reason() string { return ReasonEmptyDistribution }

func (e *EmptyDistributionError) Error() string {
	return fmt.Sprintf("distribution must have at least two lines, got %d", e.LineCount)
}

// ViolationsFrom walks an error tree and collects every Violation in it.
// It returns nil when the error carries none, so callers can branch on
// validation failures without knowing how the violations were wrapped.
func ViolationsFrom(err error) []Violation {
	if err == nil {
		return nil
	}
	if v, ok := err.(Violation); ok {
		return []Violation{v}
	}
	switch unwrapped := err.(type) {
	case interface{ Unwrap() []error }:
		var all []Violation
		for _, e := range unwrapped.Unwrap() {
			all = append(all, ViolationsFrom(e)...)
		}
		return all
	case interface{ Unwrap() error }:
		return ViolationsFrom(unwrapped.Unwrap())
	}
	return nil
}
