package distribution

import (
	"errors"
	"fmt"

	"github.com/finerp-io/finerp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// epsilon tolerates one minor unit of rounding noise in total comparisons.
var epsilon = decimal.New(1, -2) // 0.01

// ErrMalformedInput marks line data the balancer cannot reason about, e.g. a
// negative amount or an unknown line type. Fatal to the operation; amounts are
// never clamped.
var ErrMalformedInput = errors.New("malformed distribution input")

// SegmentLookup resolves segment IDs against the chart-of-accounts segment
// service. The balancer only consults it to verify required segment types are
// satisfied; it does not own the hierarchy.
type SegmentLookup interface {
	FindSegment(segmentID string) (*domain.Segment, bool)
}

// Result aggregates every violation found in one validation pass.
type Result struct {
	Violations []Violation
}

// Ok reports whether the line set passed every check.
func (r *Result) Ok() bool { return len(r.Violations) == 0 }

// Err joins all violations into a single error, or returns nil when valid.
func (r *Result) Err() error {
	if r.Ok() {
		return nil
	}
	errs := make([]error, len(r.Violations))
	for i, v := range r.Violations {
		errs[i] = v
	}
	return errors.Join(errs...)
}

// Validate checks that a distribution line set is balanced, matches the
// document total, and is dimensionally complete. All checks run regardless of
// earlier failures and the result carries every violation found.
//
// Validate is pure: same lines, same result, every time. The only error
// return is malformed input (negative amounts, unknown line types), which is
// fatal rather than a user-correctable rejection.
func Validate(lines []domain.DistributionLine, documentTotal decimal.Decimal, requiredTypes []domain.SegmentType, segments SegmentLookup) (*Result, error) {
	debitTotal := decimal.Zero
	creditTotal := decimal.Zero
	allZero := true

	for i, line := range lines {
		if line.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: line %d has negative amount %s", ErrMalformedInput, i, line.Amount)
		}
		if !line.Amount.IsZero() {
			allZero = false
		}
		switch line.LineType {
		case domain.Debit:
			debitTotal = debitTotal.Add(line.Amount)
		case domain.Credit:
			creditTotal = creditTotal.Add(line.Amount)
		default:
			return nil, fmt.Errorf("%w: line %d has unknown line type %q", ErrMalformedInput, i, line.LineType)
		}
	}

	result := &Result{}

	if debitTotal.Sub(creditTotal).Abs().GreaterThan(epsilon) {
		result.Violations = append(result.Violations, &UnbalancedError{
			DebitTotal:  debitTotal,
			CreditTotal: creditTotal,
		})
	}

	if debitTotal.Sub(documentTotal).Abs().GreaterThan(epsilon) {
		result.Violations = append(result.Violations, &TotalMismatchError{
			DebitTotal:    debitTotal,
			DocumentTotal: documentTotal,
		})
	}

	for i, line := range lines {
		for _, st := range requiredTypes {
			if !st.IsRequired {
				continue
			}
			if !lineCarriesChildSegment(line, st, segments) {
				result.Violations = append(result.Violations, &IncompleteSegmentsError{
					LineIndex:     i,
					SegmentTypeID: st.SegmentTypeID,
					SegmentType:   st.Name,
				})
			}
		}
	}

	// A single line cannot balance against anything unless it carries no value
	// at all, and an empty set posts nothing.
	if len(lines) == 0 || (len(lines) < 2 && !allZero) {
		result.Violations = append(result.Violations, &EmptyDistributionError{LineCount: len(lines)})
	}

	return result, nil
}

// lineCarriesChildSegment reports whether the line's segment assignment for
// the given type resolves to a postable child node of that same type.
func lineCarriesChildSegment(line domain.DistributionLine, st domain.SegmentType, segments SegmentLookup) bool {
	segmentID, ok := line.Segments[st.SegmentTypeID]
	if !ok || segmentID == "" {
		return false
	}
	if segments == nil {
		return false
	}
	seg, found := segments.FindSegment(segmentID)
	if !found {
		return false
	}
	return seg.SegmentTypeID == st.SegmentTypeID && seg.NodeType.IsPostable()
}
