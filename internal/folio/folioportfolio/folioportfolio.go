// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package folioportfolio defines the portfolio data model shared by the
// statement parser, the enrichment pipeline, and the allocation engine.
package folioportfolio

import (
	"strings"
	"time"
)

// Unknown is the sentinel used for missing classification values.
//
// Unknown is a value, not an error: downstream code groups it like any other bucket.
const Unknown = "Unknown"

// Position is a single holding from a statement.
type Position struct {
	// Symbol is the ticker, valor, or ISIN as written in the statement.
	Symbol string `json:"symbol"`
	// Name is the security name.
	Name string `json:"name,omitempty"`
	// Quantity is the number of units held.
	Quantity float64 `json:"quantity"`
	// Price is the price per unit in Currency as stated on the statement.
	Price float64 `json:"price"`
	// UnitCost is the average cost per unit in Currency, 0 if unknown.
	UnitCost float64 `json:"unit_cost,omitempty"`
	// Currency is the ISO 4217 code of Price.
	Currency string `json:"currency"`
	// TotalValueHome is the position value in the home currency.
	TotalValueHome float64 `json:"total_value_home"`
	// PositionPercent is the share of the portfolio in percent as stated.
	PositionPercent float64 `json:"position_percent,omitempty"`
	// DailyChangePercent is the daily price change in percent.
	DailyChangePercent float64 `json:"daily_change_percent,omitempty"`
	// Category is the statement category such as "Equities", or Unknown.
	Category string `json:"category"`
	// Domicile is the ISO country code of the fund or issuer domicile.
	Domicile string `json:"domicile,omitempty"`
	// ISIN is the International Securities Identification Number.
	ISIN string `json:"isin,omitempty"`
	// Sector is the sector classification.
	Sector string `json:"sector,omitempty"`
	// Geography is the country classification.
	Geography string `json:"geography,omitempty"`
	// CurrentPrice is the latest market price, set by enrichment.
	CurrentPrice *float64 `json:"current_price,omitempty"`
	// UnrealizedGainLoss is the unrealized gain or loss in Currency.
	UnrealizedGainLoss *float64 `json:"unrealized_gain_loss,omitempty"`
	// UnrealizedGainLossPercent is the unrealized gain or loss in percent of cost.
	UnrealizedGainLossPercent *float64 `json:"unrealized_gain_loss_percent,omitempty"`
	// TaxOptimized is whether the fund domicile avoids a second withholding tax layer.
	TaxOptimized *bool `json:"tax_optimized,omitempty"`
	// WithholdingTax is the withholding tax rate in percent.
	WithholdingTax *float64 `json:"withholding_tax,omitempty"`
	// ResolvedSymbol is the provider symbol confirmed by symbol resolution.
	ResolvedSymbol string `json:"resolved_symbol,omitempty"`
	// Exchange is the exchange of ResolvedSymbol.
	Exchange string `json:"exchange,omitempty"`
	// InstrumentType is the provider instrument type such as "EQUITY" or "ETF".
	InstrumentType string `json:"instrument_type,omitempty"`
	// Composition is the look-through composition of a fund.
	Composition *ETFComposition `json:"-"`
}

// Clone returns a deep copy of the position.
func (p *Position) Clone() *Position {
	if p == nil {
		return nil
	}
	clone := *p
	clone.CurrentPrice = clonePointer(p.CurrentPrice)
	clone.UnrealizedGainLoss = clonePointer(p.UnrealizedGainLoss)
	clone.UnrealizedGainLossPercent = clonePointer(p.UnrealizedGainLossPercent)
	clone.TaxOptimized = clonePointer(p.TaxOptimized)
	clone.WithholdingTax = clonePointer(p.WithholdingTax)
	clone.Composition = p.Composition.Clone()
	return &clone
}

// AccountOverview holds the portfolio totals.
type AccountOverview struct {
	// TotalValue is the portfolio value in the home currency.
	TotalValue float64 `json:"total_value"`
	// CashBalance is the cash held in the home currency.
	CashBalance float64 `json:"cash_balance"`
	// SecuritiesValue is the value of all positions in the home currency.
	SecuritiesValue float64 `json:"securities_value"`
}

// AllocationBucket is one row of an allocation breakdown.
type AllocationBucket struct {
	// Name is the bucket label such as "Technology" or "CHF".
	Name string `json:"name"`
	// Value is the bucket value in the home currency.
	Value float64 `json:"value"`
	// Percentage is the share of the portfolio total in percent.
	Percentage float64 `json:"percentage"`
}

// Allocations are the portfolio breakdowns computed by the allocation engine.
type Allocations struct {
	Asset    []AllocationBucket `json:"asset"`
	Currency []AllocationBucket `json:"currency"`
	Country  []AllocationBucket `json:"country"`
	Sector   []AllocationBucket `json:"sector"`
	Domicile []AllocationBucket `json:"domicile"`
}

// Portfolio is the result of parsing a statement.
type Portfolio struct {
	// Positions are the parsed positions in statement order.
	Positions []*Position `json:"positions"`
	// AccountOverview holds the portfolio totals.
	AccountOverview AccountOverview `json:"account_overview"`
	// AssetAllocation is the breakdown by statement category.
	AssetAllocation []AllocationBucket `json:"asset_allocation"`
	// Allocations is set once positions are enriched and allocated.
	Allocations *Allocations `json:"allocations,omitempty"`
}

// AssetMetadata is descriptive data about an instrument.
//
// Sector and Country are Unknown when the provider does not know them.
type AssetMetadata struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name,omitempty"`
	Sector   string `json:"sector"`
	Country  string `json:"country"`
	Currency string `json:"currency,omitempty"`
	Type     string `json:"type,omitempty"`
	Exchange string `json:"exchange,omitempty"`
}

// IsInformative returns true if both sector and country are known.
func (m *AssetMetadata) IsInformative() bool {
	return m != nil && IsKnown(m.Sector) && IsKnown(m.Country)
}

// UnknownMetadata returns metadata with Unknown sector and country.
func UnknownMetadata(symbol string) *AssetMetadata {
	return &AssetMetadata{
		Symbol:  symbol,
		Sector:  Unknown,
		Country: Unknown,
	}
}

// Weight is one entry of a composition breakdown, in percent of net assets.
type Weight struct {
	Key    string  `json:"key"`
	Weight float64 `json:"weight"`
}

// Holding is an underlying holding of a fund.
type Holding struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// ETFComposition is the look-through breakdown of a fund.
type ETFComposition struct {
	// Symbol is the fund symbol.
	Symbol string `json:"symbol"`
	// Currency is the breakdown by currency.
	Currency []Weight `json:"currency,omitempty"`
	// Country is the breakdown by country.
	Country []Weight `json:"country,omitempty"`
	// Sector is the breakdown by sector.
	Sector []Weight `json:"sector,omitempty"`
	// Holdings are the top holdings.
	Holdings []Holding `json:"holdings,omitempty"`
	// Domicile is the ISO country code of the fund domicile.
	Domicile string `json:"domicile,omitempty"`
	// WithholdingTax is the withholding tax rate in percent.
	WithholdingTax float64 `json:"withholding_tax,omitempty"`
	// LastUpdated is when the composition was retrieved.
	LastUpdated time.Time `json:"last_updated"`
}

// IsEmpty returns true if the composition has no breakdown at all.
func (c *ETFComposition) IsEmpty() bool {
	return c == nil || (len(c.Currency) == 0 && len(c.Country) == 0 && len(c.Sector) == 0 && len(c.Holdings) == 0)
}

// Clone returns a deep copy of the composition.
func (c *ETFComposition) Clone() *ETFComposition {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Currency = append([]Weight(nil), c.Currency...)
	clone.Country = append([]Weight(nil), c.Country...)
	clone.Sector = append([]Weight(nil), c.Sector...)
	clone.Holdings = append([]Holding(nil), c.Holdings...)
	return &clone
}

// SymbolResolutionResult is the outcome of resolving a statement symbol to a provider symbol.
type SymbolResolutionResult struct {
	OriginalSymbol string    `json:"original_symbol"`
	ResolvedSymbol string    `json:"resolved_symbol"`
	Exchange       string    `json:"exchange"`
	Type           string    `json:"type,omitempty"`
	Currency       string    `json:"currency,omitempty"`
	Name           string    `json:"name,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// IsConfirmed returns true if the provider confirmed the resolved symbol.
func (r *SymbolResolutionResult) IsConfirmed() bool {
	return r != nil && r.Exchange != Unknown
}

// IsKnown returns true if the value is neither empty nor Unknown.
func IsKnown(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed != "" && !strings.EqualFold(trimmed, Unknown)
}

// ValueOrUnknown returns the value, or Unknown if the value is not known.
func ValueOrUnknown(value string) string {
	if !IsKnown(value) {
		return Unknown
	}
	return strings.TrimSpace(value)
}

// *** PRIVATE ***

func clonePointer[T any](value *T) *T {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
