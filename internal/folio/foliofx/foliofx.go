// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package foliofx provides currency conversion into the home currency.
//
// A Table is an immutable map from currency code to the value of one unit in
// the home currency. Tables start from the static rates in foliodata and can be
// refreshed from frankfurter.dev, which produces a new Table.
package foliofx

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/bufdev/folioctl/internal/folio/foliodata"
	"github.com/bufdev/folioctl/internal/pkg/backoff"
	"github.com/bufdev/folioctl/internal/pkg/frankfurter"
)

const (
	// refreshMaxAttempts is the maximum number of attempts for a rate refresh.
	refreshMaxAttempts = 3
	// refreshInitialDelay is the delay before the first retry.
	refreshInitialDelay = 500 * time.Millisecond
	// refreshMaxDelay caps the delay between retries.
	refreshMaxDelay = 5 * time.Second
)

// Table converts amounts into the home currency.
type Table struct {
	homeCurrency string
	// rates maps currency codes to the value of one unit in the home currency.
	rates map[string]float64
}

// NewTable returns a new Table for the home currency from rates expressed in a base currency.
//
// Rates are the value of one unit of each currency in baseCurrency. They are
// rebased to homeCurrency, which must have a rate unless it equals baseCurrency.
func NewTable(homeCurrency string, baseCurrency string, baseRates map[string]float64) (*Table, error) {
	homeCurrency = strings.ToUpper(homeCurrency)
	baseCurrency = strings.ToUpper(baseCurrency)
	homeRate := 1.0
	if homeCurrency != baseCurrency {
		rate, ok := baseRates[homeCurrency]
		if !ok || rate <= 0 {
			return nil, fmt.Errorf("no %s rate for home currency %s", baseCurrency, homeCurrency)
		}
		homeRate = rate
	}
	rates := make(map[string]float64, len(baseRates)+1)
	for code, rate := range baseRates {
		if rate <= 0 {
			continue
		}
		rates[strings.ToUpper(code)] = rate / homeRate
	}
	rates[homeCurrency] = 1
	return &Table{
		homeCurrency: homeCurrency,
		rates:        rates,
	}, nil
}

// NewDefaultTable returns a new Table for the home currency from the static foliodata rates.
func NewDefaultTable(homeCurrency string) (*Table, error) {
	tables := foliodata.Default()
	return NewTable(homeCurrency, tables.BaseCurrency(), tables.CurrencyRates())
}

// HomeCurrency returns the home currency.
func (t *Table) HomeCurrency() string {
	return t.homeCurrency
}

// Rate returns the value of one unit of the currency in the home currency.
func (t *Table) Rate(currency string) (float64, bool) {
	rate, ok := t.rates[strings.ToUpper(strings.TrimSpace(currency))]
	return rate, ok
}

// RateOrOne returns the rate of the currency, or 1.0 for unknown currencies.
func (t *Table) RateOrOne(currency string) float64 {
	if rate, ok := t.Rate(currency); ok {
		return rate
	}
	return 1
}

// ToHome converts an amount in the currency to the home currency.
//
// Unknown currencies convert at 1.0.
func (t *Table) ToHome(amount float64, currency string) float64 {
	return amount * t.RateOrOne(currency)
}

// Currencies returns the sorted currency codes with a rate.
func (t *Table) Currencies() []string {
	return slices.Sorted(maps.Keys(t.rates))
}

// WithRates returns a new Table with the given rates, expressed in the home currency, overriding existing rates.
func (t *Table) WithRates(rates map[string]float64) *Table {
	merged := maps.Clone(t.rates)
	for code, rate := range rates {
		if rate > 0 {
			merged[strings.ToUpper(code)] = rate
		}
	}
	merged[t.homeCurrency] = 1
	return &Table{
		homeCurrency: t.homeCurrency,
		rates:        merged,
	}
}

// Refresh returns a new Table with the latest rates from frankfurter.dev.
//
// Currencies frankfurter.dev does not publish keep their rate from the given table.
// Transient failures are retried with exponential backoff.
func Refresh(ctx context.Context, logger *slog.Logger, client frankfurter.Client, table *Table) (*Table, error) {
	var symbols []string
	for _, currency := range table.Currencies() {
		if currency != table.homeCurrency {
			symbols = append(symbols, currency)
		}
	}
	latest, err := backoff.Retry(
		ctx,
		func(ctx context.Context) (*frankfurter.LatestRates, error) {
			return client.GetLatestRates(ctx, table.homeCurrency, symbols)
		},
		backoff.RetryWithMaxAttempts(refreshMaxAttempts),
		backoff.RetryWithDelays(refreshInitialDelay, refreshMaxDelay),
		backoff.RetryWithIsRetryable(frankfurter.IsRetryable),
		backoff.RetryWithOnRetry(func(attempt int, delay time.Duration, err error) {
			logger.Debug("fx refresh failed, retrying", "attempt", attempt, "delay", delay, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("refreshing %s rates: %w", table.homeCurrency, err)
	}
	// frankfurter.dev quotes units of each currency per home unit, invert to home per unit.
	rates := make(map[string]float64, len(latest.Rates))
	for code, perHome := range latest.Rates {
		if perHome > 0 {
			rates[code] = 1 / perHome
		}
	}
	logger.Debug("fx rates refreshed", "base", latest.Base, "date", latest.Date, "count", len(rates))
	return table.WithRates(rates), nil
}
