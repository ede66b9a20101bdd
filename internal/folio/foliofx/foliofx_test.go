// Copyright 2026 Peter Edge
//
// All rights reserved.

package foliofx

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/bufdev/folioctl/internal/pkg/frankfurter"
	"github.com/stretchr/testify/require"
)

func TestNewTableRebase(t *testing.T) {
	t.Parallel()
	table, err := NewTable("EUR", "CHF", map[string]float64{"CHF": 1, "EUR": 0.8, "USD": 0.4})
	require.NoError(t, err)
	require.Equal(t, "EUR", table.HomeCurrency())
	rate, ok := table.Rate("CHF")
	require.True(t, ok)
	require.InDelta(t, 1.25, rate, 1e-9)
	rate, ok = table.Rate("usd")
	require.True(t, ok)
	require.InDelta(t, 0.5, rate, 1e-9)
	require.InDelta(t, 1.0, table.RateOrOne("EUR"), 1e-9)

	_, err = NewTable("JPY", "CHF", map[string]float64{"CHF": 1})
	require.Error(t, err)
}

func TestToHomeUnknownCurrency(t *testing.T) {
	t.Parallel()
	table, err := NewDefaultTable("CHF")
	require.NoError(t, err)
	require.Equal(t, 100.0, table.ToHome(100, "XYZ"))
	require.Equal(t, 100.0, table.ToHome(100, "CHF"))
	require.Less(t, table.ToHome(100, "USD"), 100.0)
}

func TestRefresh(t *testing.T) {
	t.Parallel()
	table, err := NewTable("CHF", "CHF", map[string]float64{"CHF": 1, "USD": 0.9, "ZAR": 0.05})
	require.NoError(t, err)
	client := &fakeClient{
		latest: &frankfurter.LatestRates{
			Base:  "CHF",
			Date:  "2026-01-02",
			Rates: map[string]float64{"USD": 1.25},
		},
		failures: 1,
	}
	refreshed, err := Refresh(context.Background(), slog.New(slog.DiscardHandler), client, table)
	require.NoError(t, err)
	require.Equal(t, int32(2), client.calls.Load())
	require.Equal(t, []string{"USD", "ZAR"}, client.symbols)
	rate, ok := refreshed.Rate("USD")
	require.True(t, ok)
	require.InDelta(t, 0.8, rate, 1e-9)
	// Unpublished currencies keep their static rate.
	rate, ok = refreshed.Rate("ZAR")
	require.True(t, ok)
	require.InDelta(t, 0.05, rate, 1e-9)
	// The original table is unchanged.
	rate, _ = table.Rate("USD")
	require.InDelta(t, 0.9, rate, 1e-9)
}

func TestRefreshNonRetryable(t *testing.T) {
	t.Parallel()
	table, err := NewDefaultTable("CHF")
	require.NoError(t, err)
	client := &fakeClient{err: &frankfurter.StatusError{StatusCode: 400}}
	_, err = Refresh(context.Background(), slog.New(slog.DiscardHandler), client, table)
	require.Error(t, err)
	require.Equal(t, int32(1), client.calls.Load())
}

type fakeClient struct {
	latest   *frankfurter.LatestRates
	err      error
	failures int32
	calls    atomic.Int32
	symbols  []string
}

func (c *fakeClient) GetLatestRates(_ context.Context, _ string, symbols []string) (*frankfurter.LatestRates, error) {
	call := c.calls.Add(1)
	c.symbols = symbols
	if c.err != nil {
		return nil, c.err
	}
	if call <= c.failures {
		return nil, errors.New("connection reset")
	}
	return c.latest, nil
}
