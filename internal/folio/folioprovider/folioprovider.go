// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package folioprovider defines the market-data collaborators used by symbol
// resolution and enrichment.
//
// Every method returns nil and a nil error when the provider has no data for
// the symbol. Errors are transport or decoding failures; callers degrade them
// to "no data".
package folioprovider

//go:generate mockgen -source=folioprovider.go -destination=mocks/mock_folioprovider.go -package=mock_folioprovider

import (
	"context"
	"errors"

	"github.com/bufdev/folioctl/internal/folio/folioportfolio"
)

// Quote is a market quote.
type Quote struct {
	// Symbol is the provider symbol.
	Symbol string `json:"symbol"`
	// Price is the last price in Currency.
	Price float64 `json:"price"`
	// Currency is the quote currency, possibly a minor unit such as "GBp".
	Currency string `json:"currency"`
	// Change is the absolute daily change in Currency.
	Change float64 `json:"change"`
	// ChangePercent is the daily change in percent.
	ChangePercent float64 `json:"change_percent"`
}

// QuoteClient fetches market quotes.
type QuoteClient interface {
	// GetQuote returns the latest quote for the provider symbol.
	GetQuote(ctx context.Context, symbol string) (*Quote, error)
}

// SearchClient searches instruments.
type SearchClient interface {
	// Search returns the canonical symbol and metadata for a symbol or ISIN.
	//
	// The returned Symbol is the provider's canonical symbol, which may differ from the query.
	Search(ctx context.Context, symbol string) (*folioportfolio.AssetMetadata, error)
}

// CompositionClient fetches fund compositions.
type CompositionClient interface {
	// GetComposition returns the look-through composition of a fund.
	GetComposition(ctx context.Context, symbol string) (*folioportfolio.ETFComposition, error)
}

// Client combines all market-data collaborators.
type Client interface {
	QuoteClient
	SearchClient
	CompositionClient
}

// NewCompositionChain returns a CompositionClient that tries each client in order.
//
// The first non-empty composition wins. Errors from earlier clients are
// returned only if no later client has data.
func NewCompositionChain(clients ...CompositionClient) CompositionClient {
	return compositionChain(clients)
}

// *** PRIVATE ***

type compositionChain []CompositionClient

func (c compositionChain) GetComposition(ctx context.Context, symbol string) (*folioportfolio.ETFComposition, error) {
	var errs []error
	for _, client := range c {
		if client == nil {
			continue
		}
		composition, err := client.GetComposition(ctx, symbol)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !composition.IsEmpty() {
			return composition, nil
		}
	}
	return nil, errors.Join(errs...)
}
