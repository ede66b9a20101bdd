// Copyright 2026 Peter Edge
//
// All rights reserved.

package folioprovider

import (
	"context"
	"sort"
	"strings"

	"github.com/bufdev/folioctl/internal/folio/folioportfolio"
	"github.com/bufdev/folioctl/internal/pkg/yahoo"
)

// NewYahooClient returns a new Client backed by Yahoo Finance.
//
// Search combines the search endpoint with the quoteSummary profile of the
// matched symbol. Profile failures degrade to Unknown sector and country.
func NewYahooClient(yahooClient yahoo.Client) Client {
	return &yahooProviderClient{
		yahooClient: yahooClient,
	}
}

// *** PRIVATE ***

// yahooSectorNames maps the topHoldings sector keys to the sector names used by assetProfile.
var yahooSectorNames = map[string]string{
	"basic_materials":        "Basic Materials",
	"communication_services": "Communication Services",
	"consumer_cyclical":      "Consumer Cyclical",
	"consumer_defensive":     "Consumer Defensive",
	"energy":                 "Energy",
	"financial_services":     "Financial Services",
	"healthcare":             "Healthcare",
	"industrials":            "Industrials",
	"realestate":             "Real Estate",
	"technology":             "Technology",
	"utilities":              "Utilities",
}

type yahooProviderClient struct {
	yahooClient yahoo.Client
}

func (c *yahooProviderClient) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	yahooQuote, err := c.yahooClient.GetQuote(ctx, symbol)
	if err != nil || yahooQuote == nil {
		return nil, err
	}
	return &Quote{
		Symbol:        yahooQuote.Symbol,
		Price:         yahooQuote.Price,
		Currency:      yahooQuote.Currency,
		Change:        yahooQuote.Change,
		ChangePercent: yahooQuote.ChangePercent,
	}, nil
}

func (c *yahooProviderClient) Search(ctx context.Context, symbol string) (*folioportfolio.AssetMetadata, error) {
	results, err := c.yahooClient.Search(ctx, symbol)
	if err != nil || len(results) == 0 {
		return nil, err
	}
	// An exact match beats the ranking.
	match := results[0]
	for _, result := range results {
		if strings.EqualFold(result.Symbol, symbol) {
			match = result
			break
		}
	}
	metadata := folioportfolio.UnknownMetadata(match.Symbol)
	metadata.Name = match.Name
	metadata.Exchange = match.Exchange
	metadata.Type = match.QuoteType
	profile, err := c.yahooClient.GetProfile(ctx, match.Symbol)
	if err != nil || profile == nil {
		return metadata, nil
	}
	metadata.Sector = folioportfolio.ValueOrUnknown(profile.Sector)
	metadata.Country = folioportfolio.ValueOrUnknown(profile.Country)
	metadata.Currency = profile.Currency
	if profile.Name != "" {
		metadata.Name = profile.Name
	}
	if metadata.Type == "" {
		metadata.Type = profile.QuoteType
	}
	return metadata, nil
}

func (c *yahooProviderClient) GetComposition(ctx context.Context, symbol string) (*folioportfolio.ETFComposition, error) {
	fundHoldings, err := c.yahooClient.GetFundHoldings(ctx, symbol)
	if err != nil || fundHoldings == nil {
		return nil, err
	}
	composition := &folioportfolio.ETFComposition{
		Symbol: symbol,
	}
	for key, weight := range fundHoldings.SectorWeightings {
		name, ok := yahooSectorNames[key]
		if !ok {
			name = key
		}
		composition.Sector = append(composition.Sector, folioportfolio.Weight{Key: name, Weight: weight})
	}
	sort.Slice(composition.Sector, func(i int, j int) bool {
		if composition.Sector[i].Weight != composition.Sector[j].Weight {
			return composition.Sector[i].Weight > composition.Sector[j].Weight
		}
		return composition.Sector[i].Key < composition.Sector[j].Key
	})
	for _, holding := range fundHoldings.Holdings {
		composition.Holdings = append(composition.Holdings, folioportfolio.Holding{
			Symbol: holding.Symbol,
			Name:   holding.Name,
			Weight: holding.Weight,
		})
	}
	if composition.IsEmpty() {
		return nil, nil
	}
	return composition, nil
}
