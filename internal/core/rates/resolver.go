package rates

import (
	"fmt"
	"time"

	"github.com/finerp-io/finerp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Resolve answers what 1 unit of from is worth in to on the given date, using
// quotes of the given rate type. Lookup order is deliberate: identity, then a
// direct quote, then the inverse of the opposite quote, then a single-hop
// triangulation through the base currency. Preferring a direct quote over
// triangulation avoids the rounding error of an unnecessary two-hop conversion
// when a direct market quote exists.
//
// Returns ErrRateNotFound when no path exists. A quote with a non-positive
// rate or an ill-formed base currency set yields a *MalformedInputError.
func (s *Snapshot) Resolve(from, to string, date time.Time, rateType domain.RateType) (decimal.Decimal, error) {
	if from == to {
		return one, nil
	}

	if rate, found, err := s.directOrInverse(from, to, date, rateType); err != nil {
		return decimal.Zero, err
	} else if found {
		return rate, nil
	}

	return s.triangulate(from, to, date, rateType)
}

// directOrInverse tries a direct quote first, then the inverse of a quote
// going the other way. The bool result distinguishes "no quote" from an error.
func (s *Snapshot) directOrInverse(from, to string, date time.Time, rateType domain.RateType) (decimal.Decimal, bool, error) {
	if q := s.findQuote(from, to, date, rateType); q != nil {
		if q.Rate.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, false, &MalformedInputError{
				Reason: fmt.Sprintf("quote %s has non-positive rate %s", q.QuoteID, q.Rate),
			}
		}
		return q.Rate, true, nil
	}

	if q := s.findQuote(to, from, date, rateType); q != nil {
		if q.Rate.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, false, &MalformedInputError{
				Reason: fmt.Sprintf("quote %s has non-positive rate %s", q.QuoteID, q.Rate),
			}
		}
		return one.Div(q.Rate), true, nil
	}

	return decimal.Zero, false, nil
}

// triangulate converts through the base currency, one hop on each side. Both
// legs themselves resolve via direct-or-inverse only; chains beyond the base
// are never followed.
func (s *Snapshot) triangulate(from, to string, date time.Time, rateType domain.RateType) (decimal.Decimal, error) {
	if len(s.baseCodes) > 1 {
		return decimal.Zero, &MalformedInputError{
			Reason: fmt.Sprintf("expected exactly one base currency, found %d", len(s.baseCodes)),
		}
	}
	if len(s.baseCodes) == 0 {
		// Without a base currency triangulation is unavailable; fail explicit.
		return decimal.Zero, ErrRateNotFound
	}

	base := s.baseCodes[0]
	if base == from || base == to {
		// The direct and inverse attempts already covered every path through
		// the base; nothing more to try.
		return decimal.Zero, ErrRateNotFound
	}

	fromToBase, found, err := s.directOrInverse(from, base, date, rateType)
	if err != nil {
		return decimal.Zero, err
	}
	if !found {
		return decimal.Zero, ErrRateNotFound
	}

	baseToTarget, found, err := s.directOrInverse(base, to, date, rateType)
	if err != nil {
		return decimal.Zero, err
	}
	if !found {
		return decimal.Zero, ErrRateNotFound
	}

	return fromToBase.Mul(baseToTarget), nil
}
