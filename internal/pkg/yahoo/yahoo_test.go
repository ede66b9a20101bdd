// Copyright 2026 Peter Edge
//
// All rights reserved.

package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/piquette/finance-go"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/finance/search", r.URL.Path)
		require.Equal(t, "NESN", r.URL.Query().Get("q"))
		require.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"quotes":[
			{"symbol":"NESN.SW","shortname":"NESTLE N","longname":"Nestlé S.A.","exchange":"EBS","exchDisp":"Swiss","quoteType":"EQUITY"},
			{"symbol":"","shortname":"dropped"},
			{"symbol":"NSRGY","shortname":"Nestle SA","exchange":"PNK","quoteType":"EQUITY"}
		]}`))
	}))
	t.Cleanup(server.Close)
	client := newTestClient(t, server)
	results, err := client.Search(context.Background(), "NESN")
	require.NoError(t, err)
	require.Equal(
		t,
		[]SearchResult{
			{Symbol: "NESN.SW", Name: "Nestlé S.A.", Exchange: "Swiss", QuoteType: "EQUITY"},
			{Symbol: "NSRGY", Name: "Nestle SA", Exchange: "PNK", QuoteType: "EQUITY"},
		},
		results,
	)
}

func TestGetProfileSendsSession(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v10/finance/quoteSummary/NESN.SW", r.URL.Path)
		require.Equal(t, "assetProfile,price", r.URL.Query().Get("modules"))
		require.Equal(t, "abc123", r.URL.Query().Get("crumb"))
		cookie, err := r.Cookie("A3")
		require.NoError(t, err)
		require.Equal(t, "session", cookie.Value)
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":[{
			"assetProfile":{"sector":"Consumer Defensive","industry":"Packaged Foods","country":"Switzerland"},
			"price":{"symbol":"NESN.SW","shortName":"NESTLE N","longName":"Nestlé S.A.","quoteType":"EQUITY","exchangeName":"Swiss","currency":"CHF"}
		}],"error":null}}`))
	}))
	t.Cleanup(server.Close)
	client := newTestClient(t, server, ClientWithCookie("A3=session"), ClientWithCrumb("abc123"))
	profile, err := client.GetProfile(context.Background(), "NESN.SW")
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(
		&Profile{
			Symbol:    "NESN.SW",
			Name:      "Nestlé S.A.",
			QuoteType: "EQUITY",
			Exchange:  "Swiss",
			Currency:  "CHF",
			Sector:    "Consumer Defensive",
			Industry:  "Packaged Foods",
			Country:   "Switzerland",
		},
		profile,
	))
}

func TestGetProfileNotFound(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"quoteSummary":{"result":null,"error":{"code":"Not Found"}}}`, http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	profile, err := newTestClient(t, server).GetProfile(context.Background(), "ZZZZ")
	require.NoError(t, err)
	require.Nil(t, profile)
}

func TestGetFundHoldings(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "topHoldings,fundProfile", r.URL.Query().Get("modules"))
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":[{
			"topHoldings":{
				"holdings":[{"symbol":"AAPL","holdingName":"Apple Inc","holdingPercent":{"raw":0.07,"fmt":"7.00%"}}],
				"sectorWeightings":[{"technology":{"raw":0.3}},{"healthcare":{"raw":0.125}},{"realestate":{"raw":0}}]
			},
			"fundProfile":{"family":"iShares","legalType":"Exchange Traded Fund"}
		}]}}`))
	}))
	t.Cleanup(server.Close)
	fundHoldings, err := newTestClient(t, server).GetFundHoldings(context.Background(), "CSSPX.SW")
	require.NoError(t, err)
	require.Equal(t, "iShares", fundHoldings.Family)
	require.Equal(t, "Exchange Traded Fund", fundHoldings.LegalType)
	require.Len(t, fundHoldings.SectorWeightings, 2)
	require.InDelta(t, 30.0, fundHoldings.SectorWeightings["technology"], 1e-9)
	require.InDelta(t, 12.5, fundHoldings.SectorWeightings["healthcare"], 1e-9)
	require.Len(t, fundHoldings.Holdings, 1)
	require.Equal(t, "AAPL", fundHoldings.Holdings[0].Symbol)
	require.InDelta(t, 7.0, fundHoldings.Holdings[0].Weight, 1e-9)
}

func TestGetJSONDoesNotRetry(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)
	_, err := newTestClient(t, server).Search(context.Background(), "AAPL")
	var statusError *StatusError
	require.True(t, errors.As(err, &statusError))
	require.Equal(t, http.StatusServiceUnavailable, statusError.StatusCode)
	require.Equal(t, int32(1), calls.Load())
}

func TestGetQuote(t *testing.T) {
	t.Parallel()
	client, err := NewClient(
		ClientWithQuoteFunc(func(symbol string) (*finance.Quote, error) {
			require.Equal(t, "VOD.L", symbol)
			return &finance.Quote{
				Symbol:                     "VOD.L",
				ShortName:                  "VODAFONE GROUP PLC",
				QuoteType:                  finance.QuoteTypeEquity,
				FullExchangeName:           "LSE",
				CurrencyID:                 "GBp",
				RegularMarketPrice:         72.5,
				RegularMarketChange:        0.5,
				RegularMarketChangePercent: 0.69,
			}, nil
		}),
	)
	require.NoError(t, err)
	quote, err := client.GetQuote(context.Background(), "VOD.L")
	require.NoError(t, err)
	require.Equal(t, "GBp", quote.Currency)
	require.Equal(t, 72.5, quote.Price)
	require.Equal(t, "EQUITY", quote.QuoteType)
	require.Equal(t, 0.69, quote.ChangePercent)
}

func TestGetQuoteHonorsContext(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	client, err := NewClient(
		ClientWithQuoteFunc(func(string) (*finance.Quote, error) {
			<-release
			return nil, nil
		}),
	)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.GetQuote(ctx, "AAPL")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewClientErrors(t *testing.T) {
	t.Parallel()
	_, err := NewClient(ClientWithRequestsPerSecond(0))
	require.Error(t, err)
	_, err = NewClient(ClientWithCookie(";;;"))
	require.Error(t, err)
}

func newTestClient(t *testing.T, server *httptest.Server, options ...ClientOption) Client {
	t.Helper()
	client, err := NewClient(
		append(
			[]ClientOption{
				ClientWithBaseURL(server.URL),
				ClientWithHTTPClient(server.Client()),
				ClientWithRequestsPerSecond(1000),
			},
			options...,
		)...,
	)
	require.NoError(t, err)
	return client
}
