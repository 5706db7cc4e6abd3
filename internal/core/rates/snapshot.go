package rates

import (
	"time"

	"github.com/finerp-io/finerp_backend/internal/core/domain"
)

// Snapshot is an immutable, caller-fetched view of currencies and exchange
// rate quotes. It performs no I/O; building one from repository data and
// resolving against it are separate concerns, which keeps Resolve pure and
// safe to call concurrently.
type Snapshot struct {
	quotes    []domain.ExchangeRateQuote
	baseCodes []string
}

// NewSnapshot builds a snapshot from already-fetched currency and quote data.
// Inactive quotes are dropped up front; everything else is validated lazily at
// resolution time so that a bad quote only poisons lookups that touch it.
func NewSnapshot(currencies []domain.Currency, quotes []domain.ExchangeRateQuote) *Snapshot {
	s := &Snapshot{quotes: make([]domain.ExchangeRateQuote, 0, len(quotes))}
	for _, q := range quotes {
		if q.IsActive {
			s.quotes = append(s.quotes, q)
		}
	}
	for _, c := range currencies {
		if c.IsBase {
			s.baseCodes = append(s.baseCodes, c.CurrencyCode)
		}
	}
	return s
}

// findQuote returns the active quote for (from, to, date, rateType), or nil.
// When several quotes match, the most recently created wins; ties break on the
// larger quote ID so the choice is deterministic. Averaging is never done.
func (s *Snapshot) findQuote(from, to string, date time.Time, rateType domain.RateType) *domain.ExchangeRateQuote {
	var best *domain.ExchangeRateQuote
	for i := range s.quotes {
		q := &s.quotes[i]
		if q.FromCurrencyCode != from || q.ToCurrencyCode != to || q.RateType != rateType {
			continue
		}
		if !sameDay(q.DateEffective, date) {
			continue
		}
		if best == nil || q.CreatedAt.After(best.CreatedAt) ||
			(q.CreatedAt.Equal(best.CreatedAt) && q.QuoteID > best.QuoteID) {
			best = q
		}
	}
	return best
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
