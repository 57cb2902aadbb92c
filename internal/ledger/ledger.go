// Package ledger holds the pure bookkeeping computations: cross-currency
// aggregation, category grouping, and debt reconciliation. Everything here
// operates on already-loaded records, performs no I/O, and never returns an
// error for malformed data — degraded output is always preferred over a
// failed aggregate.
package ledger

import "github.com/shopspring/decimal"

// Converter resolves an amount denominated in one currency into another.
// The bool result is false when no rate is available.
type Converter interface {
	Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, bool)
}

// Money pairs an amount with the currency code it is denominated in.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}
