// Copyright 2026 Peter Edge
//
// All rights reserved.

package folioenrich

import (
	"context"
	"errors"
	"testing"

	"github.com/bufdev/folioctl/internal/folio/folioportfolio"
	"github.com/bufdev/folioctl/internal/folio/folioprovider"
	mock_folioprovider "github.com/bufdev/folioctl/internal/folio/folioprovider/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestEnrichEquity(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	client := mock_folioprovider.NewMockClient(ctrl)
	client.EXPECT().Search(gomock.Any(), "NESN").Return(nil, nil).Times(1)
	client.EXPECT().Search(gomock.Any(), "NESN.SW").Return(&folioportfolio.AssetMetadata{
		Symbol:   "NESN.SW",
		Name:     "Nestlé S.A.",
		Sector:   "Consumer Defensive",
		Country:  "Switzerland",
		Currency: "CHF",
		Type:     "EQUITY",
		Exchange: "EBS",
	}, nil).Times(1)
	client.EXPECT().GetQuote(gomock.Any(), "NESN.SW").Return(&folioprovider.Quote{
		Symbol:        "NESN.SW",
		Price:         99,
		Currency:      "CHF",
		ChangePercent: 1.25,
	}, nil).Times(1)

	position := &folioportfolio.Position{
		Symbol:         "NESN",
		Quantity:       100,
		Price:          98.5,
		UnitCost:       90,
		Currency:       "CHF",
		TotalValueHome: 9850,
		Category:       "Aktien",
		ISIN:           "CH0038863350",
	}
	enriched := NewEnricher(client).Enrich(context.Background(), position)

	require.Equal(t, "NESN.SW", enriched.ResolvedSymbol)
	require.Equal(t, "EBS", enriched.Exchange)
	require.Equal(t, "EQUITY", enriched.InstrumentType)
	require.Equal(t, 99.0, *enriched.CurrentPrice)
	require.Equal(t, 1.25, enriched.DailyChangePercent)
	require.Equal(t, 900.0, *enriched.UnrealizedGainLoss)
	require.InDelta(t, 10.0, *enriched.UnrealizedGainLossPercent, 1e-9)
	require.Equal(t, "Consumer Defensive", enriched.Sector)
	require.Equal(t, "Switzerland", enriched.Geography)
	require.Equal(t, "Nestlé S.A.", enriched.Name)
	require.Equal(t, "CH", enriched.Domicile)
	require.Nil(t, enriched.TaxOptimized)
	require.Nil(t, enriched.Composition)
	// The statement position is not mutated.
	require.Nil(t, position.CurrentPrice)
	require.Empty(t, position.Sector)
}

func TestEnrichAllMetadataFailureDegrades(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	client := mock_folioprovider.NewMockClient(ctrl)
	client.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, errors.New("unavailable")).AnyTimes()
	client.EXPECT().GetQuote(gomock.Any(), gomock.Any()).Return(nil, errors.New("unavailable")).AnyTimes()

	positions := []*folioportfolio.Position{
		{Symbol: "ZZZZ", Quantity: 1, Price: 10, Currency: "CHF", TotalValueHome: 10, Category: "Equities"},
		{Symbol: "QQQQ", Quantity: 2, Price: 20, Currency: "CHF", TotalValueHome: 40, Category: "Equities"},
	}
	enriched := NewEnricher(client, EnricherWithConcurrency(2)).EnrichAll(context.Background(), positions)

	require.Len(t, enriched, 2)
	for i, position := range enriched {
		require.Equal(t, positions[i].Symbol, position.Symbol)
		require.Equal(t, folioportfolio.Unknown, position.Sector)
		require.Equal(t, folioportfolio.Unknown, position.Geography)
		require.Nil(t, position.CurrentPrice)
		require.Equal(t, positions[i].Price, position.Price)
		require.Empty(t, position.ResolvedSymbol)
	}
}

func TestEnrichAllFundComposition(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	client := newMapClient(
		ctrl,
		map[string]*folioportfolio.AssetMetadata{
			"CSSPX.SW": {Symbol: "CSSPX.SW", Exchange: "EBS", Type: "ETF", Sector: folioportfolio.Unknown, Country: folioportfolio.Unknown},
		},
		map[string]*folioprovider.Quote{
			"CSSPX.SW": {Symbol: "CSSPX.SW", Price: 612, Currency: "USD"},
		},
	)
	composition := &folioportfolio.ETFComposition{
		Symbol: "CSSPX.SW",
		Sector: []folioportfolio.Weight{
			{Key: "Technology", Weight: 40},
			{Key: "Healthcare", Weight: 12},
		},
		Country:        []folioportfolio.Weight{{Key: "US", Weight: 99}},
		Domicile:       "IE",
		WithholdingTax: 15,
	}
	// Both positions share a single fetch.
	client.EXPECT().GetComposition(gomock.Any(), "CSSPX.SW").Return(composition, nil).Times(1)
	staticClient := mock_folioprovider.NewMockCompositionClient(ctrl)
	staticClient.EXPECT().GetComposition(gomock.Any(), "CSSPX.SW").Return(nil, nil).Times(1)

	fund := &folioportfolio.Position{
		Symbol:         "CSSPX",
		Quantity:       10,
		Price:          610,
		Currency:       "USD",
		TotalValueHome: 5368,
		Category:       "ETF",
		ISIN:           "IE00B5BMR087",
	}
	enricher := NewEnricher(client, EnricherWithCompositionClients(staticClient), EnricherWithConcurrency(4))
	enriched := enricher.EnrichAll(context.Background(), []*folioportfolio.Position{fund, fund.Clone()})

	for _, position := range enriched {
		require.Equal(t, "CSSPX.SW", position.ResolvedSymbol)
		require.NotNil(t, position.Composition)
		require.Equal(t, "Technology", position.Composition.Sector[0].Key)
		require.Equal(t, "IE", position.Domicile)
		require.True(t, *position.TaxOptimized)
		require.Equal(t, 15.0, *position.WithholdingTax)
		require.Equal(t, 612.0, *position.CurrentPrice)
	}
	// Compositions are copies.
	enriched[0].Composition.Sector[0].Weight = 0
	require.Equal(t, 40.0, enriched[1].Composition.Sector[0].Weight)
}

func TestEnrichMinorUnitQuote(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	client := newMapClient(
		ctrl,
		map[string]*folioportfolio.AssetMetadata{
			"VOD.L": {Symbol: "VOD.L", Exchange: "LSE", Sector: "Communication Services", Country: "United Kingdom"},
		},
		map[string]*folioprovider.Quote{
			"VOD.L": {Symbol: "VOD.L", Price: 7250, Currency: "GBp"},
		},
	)
	enriched := NewEnricher(client).Enrich(context.Background(), &folioportfolio.Position{
		Symbol:   "VOD.L",
		Quantity: 100,
		Price:    71,
		UnitCost: 70,
		Currency: "GBP",
		Category: "Equities",
	})
	require.Equal(t, 72.5, *enriched.CurrentPrice)
	require.Equal(t, 250.0, *enriched.UnrealizedGainLoss)
}

func TestEnrichOfflineUsesStaticFallback(t *testing.T) {
	t.Parallel()
	enriched := NewEnricher(nil).Enrich(context.Background(), &folioportfolio.Position{
		Symbol:   "NESN",
		Quantity: 100,
		Price:    98.5,
		Currency: "CHF",
		Category: "Equities",
	})
	require.Equal(t, "Consumer Defensive", enriched.Sector)
	require.Equal(t, "Switzerland", enriched.Geography)
	require.Equal(t, "Nestlé SA", enriched.Name)
	require.Equal(t, "EQUITY", enriched.InstrumentType)
	require.Empty(t, enriched.ResolvedSymbol)
	require.Nil(t, enriched.CurrentPrice)
}

func TestEnrichSymbolOverrideWins(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	client := newMapClient(
		ctrl,
		map[string]*folioportfolio.AssetMetadata{
			"PRIV.SW": {Symbol: "PRIV.SW", Exchange: "EBS", Sector: "Financial Services", Country: "Switzerland"},
		},
		nil,
	)
	enricher := NewEnricher(
		client,
		EnricherWithSymbolOverrides(map[string]SymbolOverride{
			"priv": {Resolved: "PRIV.SW", Sector: "Private Equity", Domicile: "gg"},
		}),
	)
	enriched := enricher.Enrich(context.Background(), &folioportfolio.Position{
		Symbol:   "PRIV",
		Quantity: 1,
		Price:    100,
		Currency: "CHF",
		Category: "Alternative",
	})
	require.Equal(t, "PRIV.SW", enriched.ResolvedSymbol)
	require.Equal(t, "Private Equity", enriched.Sector)
	require.Equal(t, "Switzerland", enriched.Geography)
	require.Equal(t, "GG", enriched.Domicile)
}

// newMapClient returns a mock client answering searches and quotes from maps.
//
// Symbols missing from the maps have no data.
func newMapClient(
	ctrl *gomock.Controller,
	metadata map[string]*folioportfolio.AssetMetadata,
	quotes map[string]*folioprovider.Quote,
) *mock_folioprovider.MockClient {
	client := mock_folioprovider.NewMockClient(ctrl)
	client.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, symbol string) (*folioportfolio.AssetMetadata, error) {
			return metadata[symbol], nil
		},
	).AnyTimes()
	client.EXPECT().GetQuote(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, symbol string) (*folioprovider.Quote, error) {
			return quotes[symbol], nil
		},
	).AnyTimes()
	return client
}
