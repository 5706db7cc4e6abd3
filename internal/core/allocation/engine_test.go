package allocation_test

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/finerp-io/finerp_backend/internal/core/allocation"
	"github.com/finerp-io/finerp_backend/internal/core/domain"
	"github.com/finerp-io/finerp_backend/internal/core/rates"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var paymentDate = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func snapshotWith(quotes ...domain.ExchangeRateQuote) *rates.Snapshot {
	currs := []domain.Currency{
		{CurrencyCode: "USD", IsBase: true},
		{CurrencyCode: "EUR"},
		{CurrencyCode: "GBP"},
	}
	return rates.NewSnapshot(currs, quotes)
}

func spotQuote(id, from, to string, rate float64) domain.ExchangeRateQuote {
	return domain.ExchangeRateQuote{
		QuoteID:          id,
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		RateType:         domain.RateTypeSpot,
		Rate:             decimal.NewFromFloat(rate),
		DateEffective:    paymentDate,
		IsActive:         true,
	}
}

func usdPayment(amount float64) allocation.PaymentInput {
	return allocation.PaymentInput{
		Amount:       decimal.NewFromFloat(amount),
		CurrencyCode: "USD",
		Date:         paymentDate,
	}
}

func TestAllocate_SameCurrency(t *testing.T) {
	in := allocation.Input{
		Payment: usdPayment(500),
		Candidates: []allocation.Candidate{
			{InvoiceID: "inv-1", Outstanding: decimal.NewFromInt(300), CurrencyCode: "USD"},
			{InvoiceID: "inv-2", Outstanding: decimal.NewFromInt(400), CurrencyCode: "USD"},
		},
		Requests: []allocation.Request{
			{InvoiceID: "inv-1", Amount: decimal.NewFromInt(300)},
			{InvoiceID: "inv-2", Amount: decimal.NewFromInt(200)},
		},
		RateType: domain.RateTypeSpot,
	}

	plan, err := allocation.Allocate(in, snapshotWith())
	require.NoError(t, err)
	require.Len(t, plan.Lines, 2)

	assert.True(t, plan.TotalAllocated.Equal(decimal.NewFromInt(500)))
	assert.True(t, plan.Remaining.IsZero())
	for _, line := range plan.Lines {
		assert.True(t, line.Rate.Equal(decimal.NewFromInt(1)))
		assert.True(t, line.Amount.Equal(line.InvoiceAmount), "same currency keeps amounts identical")
	}
}

func TestAllocate_CrossCurrencyBackConversion(t *testing.T) {
	// EUR invoice paid in USD at EUR->USD = 1.25.
	in := allocation.Input{
		Payment: usdPayment(100),
		Candidates: []allocation.Candidate{
			{InvoiceID: "inv-1", Outstanding: decimal.NewFromInt(200), CurrencyCode: "EUR"},
		},
		Requests: []allocation.Request{
			{InvoiceID: "inv-1", Amount: decimal.NewFromInt(100)},
		},
		RateType: domain.RateTypeSpot,
	}

	plan, err := allocation.Allocate(in, snapshotWith(spotQuote("q1", "EUR", "USD", 1.25)))
	require.NoError(t, err)
	require.Len(t, plan.Lines, 1)

	line := plan.Lines[0]
	assert.True(t, line.Amount.Equal(decimal.NewFromInt(100)))
	assert.True(t, line.Rate.Equal(decimal.NewFromFloat(1.25)))
	assert.True(t, line.InvoiceAmount.Equal(decimal.NewFromInt(80)), "100 USD back-converts to 80 EUR, got %s", line.InvoiceAmount)
}

func TestAllocate_UnknownInvoice(t *testing.T) {
	in := allocation.Input{
		Payment: usdPayment(100),
		Candidates: []allocation.Candidate{
			{InvoiceID: "inv-1", Outstanding: decimal.NewFromInt(100), CurrencyCode: "USD"},
		},
		Requests: []allocation.Request{
			{InvoiceID: "inv-404", Amount: decimal.NewFromInt(50)},
		},
		RateType: domain.RateTypeSpot,
	}

	_, err := allocation.Allocate(in, snapshotWith())
	var unknown *allocation.UnknownInvoiceError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "inv-404", unknown.InvoiceID)
}

func TestAllocate_MissingExchangeRate(t *testing.T) {
	// EUR invoice, USD payment, no USD/EUR quote and no base-currency path:
	// must reject, never fall back to rate 1.
	in := allocation.Input{
		Payment: usdPayment(100),
		Candidates: []allocation.Candidate{
			{InvoiceID: "inv-1", Outstanding: decimal.NewFromInt(100), CurrencyCode: "EUR"},
		},
		Requests: []allocation.Request{
			{InvoiceID: "inv-1", Amount: decimal.NewFromInt(50)},
		},
		RateType: domain.RateTypeSpot,
	}

	_, err := allocation.Allocate(in, snapshotWith())
	var missing *allocation.MissingExchangeRateError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "inv-1", missing.InvoiceID)
	assert.Equal(t, "EUR", missing.FromCurrencyCode)
	assert.Equal(t, "USD", missing.ToCurrencyCode)
}

func TestAllocate_ExceedsOutstanding(t *testing.T) {
	in := allocation.Input{
		Payment: usdPayment(500),
		Candidates: []allocation.Candidate{
			{InvoiceID: "inv-1", Outstanding: decimal.NewFromInt(100), CurrencyCode: "USD"},
		},
		Requests: []allocation.Request{
			{InvoiceID: "inv-1", Amount: decimal.NewFromInt(150)},
		},
		RateType: domain.RateTypeSpot,
	}

	_, err := allocation.Allocate(in, snapshotWith())
	var exceeds *allocation.ExceedsOutstandingError
	require.ErrorAs(t, err, &exceeds)
	assert.Equal(t, "inv-1", exceeds.InvoiceID)
	assert.True(t, exceeds.Requested.Equal(decimal.NewFromInt(150)))
	assert.True(t, exceeds.MaxAllowed.Equal(decimal.NewFromInt(100)))
}

func TestAllocate_ExceedsPaymentTotal(t *testing.T) {
	in := allocation.Input{
		Payment: usdPayment(100),
		Candidates: []allocation.Candidate{
			{InvoiceID: "inv-1", Outstanding: decimal.NewFromInt(80), CurrencyCode: "USD"},
			{InvoiceID: "inv-2", Outstanding: decimal.NewFromInt(80), CurrencyCode: "USD"},
		},
		Requests: []allocation.Request{
			{InvoiceID: "inv-1", Amount: decimal.NewFromInt(80)},
			{InvoiceID: "inv-2", Amount: decimal.NewFromInt(80)},
		},
		RateType: domain.RateTypeSpot,
	}

	_, err := allocation.Allocate(in, snapshotWith())
	var exceeds *allocation.ExceedsPaymentTotalError
	require.ErrorAs(t, err, &exceeds)
	assert.True(t, exceeds.TotalRequested.Equal(decimal.NewFromInt(160)))
	assert.True(t, exceeds.PaymentAmount.Equal(decimal.NewFromInt(100)))
}

func TestAllocate_UnderAllocationAllowed(t *testing.T) {
	in := allocation.Input{
		Payment: usdPayment(1000),
		Candidates: []allocation.Candidate{
			{InvoiceID: "inv-1", Outstanding: decimal.NewFromInt(400), CurrencyCode: "USD"},
		},
		Requests: []allocation.Request{
			{InvoiceID: "inv-1", Amount: decimal.NewFromInt(250)},
		},
		RateType: domain.RateTypeSpot,
	}

	plan, err := allocation.Allocate(in, snapshotWith())
	require.NoError(t, err)
	assert.True(t, plan.Remaining.Equal(decimal.NewFromInt(750)))
}

func TestAllocate_MalformedRequests(t *testing.T) {
	candidates := []allocation.Candidate{
		{InvoiceID: "inv-1", Outstanding: decimal.NewFromInt(100), CurrencyCode: "USD"},
	}

	negative := allocation.Input{
		Payment:    usdPayment(100),
		Candidates: candidates,
		Requests:   []allocation.Request{{InvoiceID: "inv-1", Amount: decimal.NewFromInt(-5)}},
		RateType:   domain.RateTypeSpot,
	}
	_, err := allocation.Allocate(negative, snapshotWith())
	assert.ErrorIs(t, err, allocation.ErrMalformedInput)

	duplicate := allocation.Input{
		Payment:    usdPayment(100),
		Candidates: candidates,
		Requests: []allocation.Request{
			{InvoiceID: "inv-1", Amount: decimal.NewFromInt(30)},
			{InvoiceID: "inv-1", Amount: decimal.NewFromInt(30)},
		},
		RateType: domain.RateTypeSpot,
	}
	_, err = allocation.Allocate(duplicate, snapshotWith())
	assert.ErrorIs(t, err, allocation.ErrMalformedInput)
}

// TestAllocate_ConservationProperty exercises randomized currency pairs and
// rates: every accepted plan keeps the payment-currency total within the
// payment amount and every line within its invoice's outstanding balance.
func TestAllocate_ConservationProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	epsilon := decimal.New(1, -2)
	codes := []string{"USD", "EUR", "GBP"}

	for iter := 0; iter < 200; iter++ {
		quotes := []domain.ExchangeRateQuote{
			spotQuote("q-eur", "EUR", "USD", 0.5+rng.Float64()*2),
			spotQuote("q-gbp", "GBP", "USD", 0.5+rng.Float64()*2),
		}
		snap := snapshotWith(quotes...)

		payment := usdPayment(float64(rng.Intn(900) + 100))
		var candidates []allocation.Candidate
		var requests []allocation.Request
		for i := 0; i < rng.Intn(4)+1; i++ {
			invoiceID := fmt.Sprintf("inv-%d-%d", iter, i)
			outstanding := decimal.NewFromFloat(float64(rng.Intn(500) + 50))
			candidates = append(candidates, allocation.Candidate{
				InvoiceID:    invoiceID,
				Outstanding:  outstanding,
				CurrencyCode: codes[rng.Intn(len(codes))],
			})
			requests = append(requests, allocation.Request{
				InvoiceID: invoiceID,
				Amount:    decimal.NewFromFloat(float64(rng.Intn(200) + 1)),
			})
		}

		plan, err := allocation.Allocate(allocation.Input{
			Payment:    payment,
			Candidates: candidates,
			Requests:   requests,
			RateType:   domain.RateTypeSpot,
		}, snap)
		if err != nil {
			continue // rejected inputs are fine; the property covers accepted plans
		}

		assert.True(t, plan.TotalAllocated.LessThanOrEqual(payment.Amount.Add(epsilon)),
			"iteration %d: allocated %s exceeds payment %s", iter, plan.TotalAllocated, payment.Amount)

		outstandingByID := make(map[string]decimal.Decimal)
		for _, c := range candidates {
			outstandingByID[c.InvoiceID] = c.Outstanding
		}
		for _, line := range plan.Lines {
			converted := outstandingByID[line.InvoiceID].Mul(line.Rate)
			assert.True(t, line.Amount.LessThanOrEqual(converted.Add(epsilon)),
				"iteration %d: allocation %s exceeds converted outstanding %s", iter, line.Amount, converted)
		}
	}
}
