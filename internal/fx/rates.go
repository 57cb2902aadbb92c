// Package fx provides currency conversion backed by a rate-table snapshot.
// The table is loaded once from a JSON file (openexchangerates format, USD
// base) and held in memory; a missing or unreadable file leaves the table
// empty so every lookup reports no rate and callers can degrade.
package fx

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/shopspring/decimal"

	"moneta/internal/logger"
)

// snapshot mirrors the on-disk rates file.
type snapshot struct {
	Disclaimer string                     `json:"disclaimer"`
	License    string                     `json:"license"`
	Timestamp  int64                      `json:"timestamp"`
	Base       string                     `json:"base"`
	Rates      map[string]decimal.Decimal `json:"rates"`
}

// RateTable converts amounts between currencies using a fixed snapshot of
// exchange rates. Safe for concurrent use after Load.
type RateTable struct {
	mu    sync.RWMutex
	once  sync.Once
	rates map[string]decimal.Decimal
	base  string
}

// NewRateTable creates an empty, unloaded rate table.
func NewRateTable() *RateTable {
	return &RateTable{}
}

// Load reads the rates file. Repeated calls are no-ops, so every call site
// that needs rates may trigger initialization without coordination. A load
// failure is logged and leaves the table empty; it is not an error because
// aggregation is specified to degrade rather than fail on missing rates.
func (t *RateTable) Load(path string) {
	t.once.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Get().Warnw("exchange rates unavailable", "path", path, "error", err)
			return
		}

		var snap snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			logger.Get().Warnw("exchange rates file is malformed", "path", path, "error", err)
			return
		}

		t.mu.Lock()
		t.rates = snap.Rates
		t.base = snap.Base
		t.mu.Unlock()

		logger.Get().Infow("exchange rates loaded", "currencies", len(snap.Rates), "base", snap.Base)
	})
}

// Loaded reports whether a rate snapshot is available.
func (t *RateTable) Loaded() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rates != nil
}

// Rate returns the exchange rate from one currency to another, or false when
// either side is missing from the snapshot.
func (t *RateTable) Rate(from, to string) (decimal.Decimal, bool) {
	if from == to {
		return decimal.NewFromInt(1), true
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	fromRate, ok := t.rates[from]
	if !ok || fromRate.IsZero() {
		return decimal.Zero, false
	}
	toRate, ok := t.rates[to]
	if !ok {
		return decimal.Zero, false
	}
	return toRate.Div(fromRate), true
}

// Convert converts an amount between currencies via the base currency.
// The bool result is false when no rate is available; the amount is then
// returned unchanged so callers can choose to fall back to it.
func (t *RateTable) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, bool) {
	if from == to {
		return amount, true
	}

	rate, ok := t.Rate(from, to)
	if !ok {
		return amount, false
	}
	return amount.Mul(rate), true
}
