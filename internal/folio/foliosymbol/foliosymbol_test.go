// Copyright 2026 Peter Edge
//
// All rights reserved.

package foliosymbol

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bufdev/folioctl/internal/folio/folioportfolio"
	mock_folioprovider "github.com/bufdev/folioctl/internal/folio/folioprovider/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCandidates(t *testing.T) {
	t.Parallel()
	resolver := NewResolver(nil, ResolverWithOverrides(map[string]string{"vwrl": "vwrl.l"}))
	require.Equal(t, []string{"AAPL"}, resolver.Candidates(" aapl "))
	require.Equal(t, []string{"NESN", "NESN.SW"}, resolver.Candidates("NESN"))
	require.Equal(t, []string{"NESN.SW"}, resolver.Candidates("NESN.SW"))
	require.Equal(
		t,
		[]string{"CSSPX", "CSSPX.SW", "CSSPX.DE", "CSSPX.L", "CSSPX.PA", "CSSPX.AS", "CSSPX.MI"},
		resolver.Candidates("CSSPX"),
	)
	// The override comes right after the original and is not repeated.
	require.Equal(
		t,
		[]string{"VWRL", "VWRL.L", "VWRL.SW", "VWRL.DE", "VWRL.PA", "VWRL.AS", "VWRL.MI"},
		resolver.Candidates("VWRL"),
	)
	require.Empty(t, resolver.Candidates("  "))
}

func TestResolveRegionalSuffix(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	searchClient := mock_folioprovider.NewMockSearchClient(ctrl)
	searchClient.EXPECT().Search(gomock.Any(), "NESN").Return(nil, nil)
	searchClient.EXPECT().Search(gomock.Any(), "NESN.SW").Return(&folioportfolio.AssetMetadata{
		Symbol:   "NESN.SW",
		Name:     "Nestlé S.A.",
		Exchange: "EBS",
		Currency: "CHF",
		Type:     "EQUITY",
	}, nil)

	result := NewResolver(searchClient).Resolve(context.Background(), "NESN")
	require.True(t, result.IsConfirmed())
	require.Equal(t, "NESN", result.OriginalSymbol)
	require.Equal(t, "NESN.SW", result.ResolvedSymbol)
	require.Equal(t, "EBS", result.Exchange)
	require.Equal(t, "CHF", result.Currency)
}

func TestResolveUSSymbolStays(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	searchClient := mock_folioprovider.NewMockSearchClient(ctrl)
	searchClient.EXPECT().Search(gomock.Any(), "AAPL").Return(&folioportfolio.AssetMetadata{
		Symbol: "AAPL",
	}, nil).Times(1)

	resolver := NewResolver(searchClient)
	result := resolver.Resolve(context.Background(), "AAPL")
	require.Equal(t, "AAPL", result.ResolvedSymbol)
	require.Equal(t, unspecifiedExchange, result.Exchange)
	require.True(t, result.IsConfirmed())
	// The second resolution is served from the cache.
	require.Equal(t, result, resolver.Resolve(context.Background(), "aapl"))
}

func TestResolveRejectsUnechoedSymbol(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	searchClient := mock_folioprovider.NewMockSearchClient(ctrl)
	searchClient.EXPECT().Search(gomock.Any(), "ROG").Return(&folioportfolio.AssetMetadata{Symbol: "ROG.PA"}, nil)
	searchClient.EXPECT().Search(gomock.Any(), "ROG.SW").Return(nil, errors.New("timeout"))

	result := NewResolver(searchClient).Resolve(context.Background(), "ROG")
	require.False(t, result.IsConfirmed())
	require.Equal(t, "ROG", result.ResolvedSymbol)
	require.Equal(t, folioportfolio.Unknown, result.Exchange)
}

func TestResolveISIN(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	searchClient := mock_folioprovider.NewMockSearchClient(ctrl)
	searchClient.EXPECT().Search(gomock.Any(), "IE00B5BMR087").Return(&folioportfolio.AssetMetadata{
		Symbol:   "CSSPX.SW",
		Exchange: "EBS",
	}, nil)

	result := NewResolver(searchClient).Resolve(context.Background(), "IE00B5BMR087")
	require.Equal(t, "CSSPX.SW", result.ResolvedSymbol)
}

func TestResolveCachesFallbackUntilExpiry(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	ctrl := gomock.NewController(t)
	searchClient := mock_folioprovider.NewMockSearchClient(ctrl)
	searchClient.EXPECT().Search(gomock.Any(), "ZZZZ").Return(nil, nil).Times(2)

	resolver := NewResolver(searchClient, ResolverWithClock(clock.Now))
	first := resolver.Resolve(context.Background(), "ZZZZ")
	require.False(t, first.IsConfirmed())
	clock.Advance(CacheTTL - time.Minute)
	require.Equal(t, first, resolver.Resolve(context.Background(), "ZZZZ"))
	clock.Advance(2 * time.Minute)
	second := resolver.Resolve(context.Background(), "ZZZZ")
	require.False(t, second.IsConfirmed())
	require.True(t, second.Timestamp.After(first.Timestamp))
}

func TestResolveAppliesTimeout(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	searchClient := mock_folioprovider.NewMockSearchClient(ctrl)
	searchClient.EXPECT().Search(gomock.Any(), "AAPL").DoAndReturn(
		func(ctx context.Context, _ string) (*folioportfolio.AssetMetadata, error) {
			deadline, ok := ctx.Deadline()
			require.True(t, ok)
			require.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)
			return &folioportfolio.AssetMetadata{Symbol: "AAPL", Exchange: "NMS"}, nil
		},
	)
	result := NewResolver(searchClient, ResolverWithTimeout(time.Second)).Resolve(context.Background(), "AAPL")
	require.Equal(t, "NMS", result.Exchange)
}

type fakeClock struct {
	lock sync.Mutex
	now  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now = c.now.Add(d)
}
