// Copyright 2026 Peter Edge
//
// All rights reserved.

package folioportfolio

import (
	"strconv"

	"github.com/Rhymond/go-money"
)

// PositionRecord is the flat CSV form of a position.
type PositionRecord struct {
	Symbol             string `csv:"symbol"`
	ResolvedSymbol     string `csv:"resolved_symbol"`
	Name               string `csv:"name"`
	ISIN               string `csv:"isin"`
	Category           string `csv:"category"`
	Currency           string `csv:"currency"`
	Quantity           string `csv:"quantity"`
	Price              string `csv:"price"`
	CurrentPrice       string `csv:"current_price"`
	TotalValueHome     string `csv:"total_value_home"`
	PositionPercent    string `csv:"position_percent"`
	DailyChangePercent string `csv:"daily_change_percent"`
	UnrealizedGainLoss string `csv:"unrealized_gain_loss"`
	Sector             string `csv:"sector"`
	Geography          string `csv:"geography"`
	Domicile           string `csv:"domicile"`
}

// PositionHeaders returns the column headers for table output.
func PositionHeaders() []string {
	return []string{"SYMBOL", "NAME", "CATEGORY", "CURRENCY", "QUANTITY", "PRICE", "VALUE", "%", "SECTOR", "COUNTRY", "DOMICILE"}
}

// PositionToRow converts a position to a string slice for table output.
//
// The value column is formatted in the home currency.
func PositionToRow(position *Position, homeCurrency string) []string {
	price := position.Price
	if position.CurrentPrice != nil {
		price = *position.CurrentPrice
	}
	return []string{
		displaySymbol(position),
		position.Name,
		position.Category,
		position.Currency,
		formatFloat(position.Quantity),
		formatFloat(price),
		FormatAmount(position.TotalValueHome, homeCurrency),
		formatPercent(position.PositionPercent),
		position.Sector,
		position.Geography,
		position.Domicile,
	}
}

// PositionToRecord converts a position to its CSV form.
func PositionToRecord(position *Position) *PositionRecord {
	record := &PositionRecord{
		Symbol:             position.Symbol,
		ResolvedSymbol:     position.ResolvedSymbol,
		Name:               position.Name,
		ISIN:               position.ISIN,
		Category:           position.Category,
		Currency:           position.Currency,
		Quantity:           formatFloat(position.Quantity),
		Price:              formatFloat(position.Price),
		TotalValueHome:     formatFloat(position.TotalValueHome),
		PositionPercent:    formatFloat(position.PositionPercent),
		DailyChangePercent: formatFloat(position.DailyChangePercent),
		Sector:             position.Sector,
		Geography:          position.Geography,
		Domicile:           position.Domicile,
	}
	if position.CurrentPrice != nil {
		record.CurrentPrice = formatFloat(*position.CurrentPrice)
	}
	if position.UnrealizedGainLoss != nil {
		record.UnrealizedGainLoss = formatFloat(*position.UnrealizedGainLoss)
	}
	return record
}

// BucketHeaders returns the column headers for allocation table output.
func BucketHeaders(dimension string) []string {
	return []string{dimension, "VALUE", "%"}
}

// BucketToRow converts an allocation bucket to a string slice for table output.
func BucketToRow(bucket AllocationBucket, homeCurrency string) []string {
	return []string{
		bucket.Name,
		FormatAmount(bucket.Value, homeCurrency),
		formatPercent(bucket.Percentage),
	}
}

// FormatAmount formats an amount with the display conventions of its currency.
//
// Currencies unknown to the ISO 4217 table fall back to "1234.50 XYZ".
func FormatAmount(value float64, currency string) string {
	if money.GetCurrency(currency) == nil {
		return strconv.FormatFloat(value, 'f', 2, 64) + " " + currency
	}
	return money.NewFromFloat(value, currency).Display()
}

// *** PRIVATE ***

func displaySymbol(position *Position) string {
	if position.ResolvedSymbol != "" && position.ResolvedSymbol != position.Symbol {
		return position.Symbol + " (" + position.ResolvedSymbol + ")"
	}
	return position.Symbol
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func formatPercent(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
