package services

import (
	"fmt"
	"strings"

	"github.com/pesa-dev/networth_snapshot_service/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ValuationService converts account balances into the reporting currency
// using a fixed rate table. This is a deliberate approximation: snapshots are
// historical estimates of net worth, not accounting-grade valuations, and a
// live-rate lookup would make historical snapshots non-reproducible.
//
// Pure computation, no I/O.
type ValuationService struct {
	reportingCurrency string
	rates             map[string]decimal.Decimal
}

// NewValuationService builds a valuation service over the configured rate
// table. Rates are keyed by uppercase currency code and express one unit of
// that currency in the reporting currency.
func NewValuationService(reportingCurrency string, rates map[string]decimal.Decimal) *ValuationService {
	normalized := make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		normalized[strings.ToUpper(code)] = rate
	}
	return &ValuationService{
		reportingCurrency: strings.ToUpper(reportingCurrency),
		rates:             normalized,
	}
}

// ReportingCurrency returns the currency all snapshot totals are expressed in.
func (s *ValuationService) ReportingCurrency() string {
	return s.reportingCurrency
}

// Convert returns the balance expressed in the reporting currency. Amounts
// already in the reporting currency pass through unchanged. A currency with
// no configured rate is a validation error rather than a silent pass-through,
// so a misconfigured rate table cannot corrupt totals.
func (s *ValuationService) Convert(balance decimal.Decimal, fromCurrency string) (decimal.Decimal, error) {
	code := strings.ToUpper(fromCurrency)
	if code == s.reportingCurrency {
		return balance, nil
	}
	rate, ok := s.rates[code]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no conversion rate for currency %q", apperrors.ErrValidation, fromCurrency)
	}
	return balance.Mul(rate), nil
}
