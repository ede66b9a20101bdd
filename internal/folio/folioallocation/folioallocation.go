// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package folioallocation computes portfolio allocation breakdowns.
//
// Positions with a look-through composition are decomposed into the sector,
// country, and currency exposure of the fund. All other positions are
// attributed to their own classification. Cash is attributed to the home
// currency and to a Cash bucket in every other table.
//
// Each table closes with an Unallocated bucket when its buckets do not add up
// to the portfolio total, so percentages always sum to 100.
package folioallocation

import (
	"math"
	"sort"
	"strings"

	"github.com/bufdev/folioctl/internal/folio/foliodata"
	"github.com/bufdev/folioctl/internal/folio/folioportfolio"
	"github.com/shopspring/decimal"
)

const (
	// Cash is the bucket name of the cash balance.
	Cash = "Cash"
	// Unallocated is the bucket name of value not attributed to any other bucket.
	Unallocated = "Unallocated"
)

// Dimension is an allocation dimension.
type Dimension string

const (
	DimensionAsset    Dimension = "asset"
	DimensionCurrency Dimension = "currency"
	DimensionCountry  Dimension = "country"
	DimensionSector   Dimension = "sector"
	DimensionDomicile Dimension = "domicile"
)

// AllDimensions returns all dimensions in display order.
func AllDimensions() []Dimension {
	return []Dimension{
		DimensionAsset,
		DimensionCurrency,
		DimensionCountry,
		DimensionSector,
		DimensionDomicile,
	}
}

// ParseDimension parses a dimension name.
func ParseDimension(value string) (Dimension, bool) {
	for _, dimension := range AllDimensions() {
		if strings.EqualFold(value, string(dimension)) {
			return dimension, true
		}
	}
	return "", false
}

// Buckets returns the table of the dimension.
func Buckets(allocations *folioportfolio.Allocations, dimension Dimension) []folioportfolio.AllocationBucket {
	if allocations == nil {
		return nil
	}
	switch dimension {
	case DimensionAsset:
		return allocations.Asset
	case DimensionCurrency:
		return allocations.Currency
	case DimensionCountry:
		return allocations.Country
	case DimensionSector:
		return allocations.Sector
	case DimensionDomicile:
		return allocations.Domicile
	default:
		return nil
	}
}

// Compute computes all allocation tables.
//
// An empty position list yields empty tables.
func Compute(
	overview folioportfolio.AccountOverview,
	positions []*folioportfolio.Position,
	homeCurrency string,
	tables *foliodata.Tables,
) *folioportfolio.Allocations {
	if tables == nil {
		tables = foliodata.Default()
	}
	allocations := &folioportfolio.Allocations{
		Asset:    []folioportfolio.AllocationBucket{},
		Currency: []folioportfolio.AllocationBucket{},
		Country:  []folioportfolio.AllocationBucket{},
		Sector:   []folioportfolio.AllocationBucket{},
		Domicile: []folioportfolio.AllocationBucket{},
	}
	if len(positions) == 0 {
		return allocations
	}
	asset := newAccumulator()
	currency := newAccumulator()
	country := newAccumulator()
	sector := newAccumulator()
	domicile := newAccumulator()
	for _, position := range positions {
		value, ok := positionValue(position)
		if !ok {
			continue
		}
		asset.add(folioportfolio.ValueOrUnknown(position.Category), value)
		domicile.add(countryName(position.Domicile, tables), value)

		composition := position.Composition
		if composition != nil && len(composition.Currency) > 0 {
			currency.addWeights(composition.Currency, value, currencyName)
		} else {
			currency.add(currencyName(position.Currency), value)
		}
		if composition != nil && len(composition.Country) > 0 {
			country.addWeights(composition.Country, value, func(key string) string { return countryName(key, tables) })
		} else {
			country.add(countryName(position.Geography, tables), value)
		}
		if composition != nil && len(composition.Sector) > 0 {
			sector.addWeights(composition.Sector, value, folioportfolio.ValueOrUnknown)
		} else {
			sector.add(folioportfolio.ValueOrUnknown(position.Sector), value)
		}
	}
	if cash, ok := finitePositive(overview.CashBalance); ok {
		asset.add(Cash, cash)
		currency.add(strings.ToUpper(homeCurrency), cash)
		country.add(Cash, cash)
		sector.add(Cash, cash)
		domicile.add(Cash, cash)
	}
	total := overview.TotalValue
	allocations.Asset = asset.buckets(total)
	allocations.Currency = currency.buckets(total)
	allocations.Country = country.buckets(total)
	allocations.Sector = sector.buckets(total)
	allocations.Domicile = domicile.buckets(total)
	return allocations
}

// AssetAllocation computes the breakdown by statement category.
//
// The cash balance is a Cash bucket. An empty position list yields an empty table.
func AssetAllocation(overview folioportfolio.AccountOverview, positions []*folioportfolio.Position) []folioportfolio.AllocationBucket {
	if len(positions) == 0 {
		return []folioportfolio.AllocationBucket{}
	}
	asset := newAccumulator()
	for _, position := range positions {
		if value, ok := positionValue(position); ok {
			asset.add(folioportfolio.ValueOrUnknown(position.Category), value)
		}
	}
	if cash, ok := finitePositive(overview.CashBalance); ok {
		asset.add(Cash, cash)
	}
	return asset.buckets(overview.TotalValue)
}

// *** PRIVATE ***

// unallocatedThreshold is the smallest residual that gets an Unallocated bucket.
var unallocatedThreshold = decimal.NewFromFloat(0.005)

type accumulator struct {
	values map[string]decimal.Decimal
}

func newAccumulator() *accumulator {
	return &accumulator{values: make(map[string]decimal.Decimal)}
}

func (a *accumulator) add(name string, value decimal.Decimal) {
	a.values[name] = a.values[name].Add(value)
}

// addWeights attributes weight/100 of the value to each key.
//
// Weights summing above 100 are scaled down to 100. The residual below 100 is
// not attributed and ends up in Unallocated.
func (a *accumulator) addWeights(weights []folioportfolio.Weight, value decimal.Decimal, name func(string) string) {
	sum := 0.0
	for _, weight := range weights {
		if weight.Weight > 0 && !math.IsInf(weight.Weight, 0) {
			sum += weight.Weight
		}
	}
	if sum <= 0 {
		return
	}
	scale := decimal.NewFromInt(100)
	if sum > 100 {
		scale = decimal.NewFromFloat(sum)
	}
	for _, weight := range weights {
		if weight.Weight <= 0 || math.IsInf(weight.Weight, 0) {
			continue
		}
		a.add(name(weight.Key), value.Mul(decimal.NewFromFloat(weight.Weight)).Div(scale))
	}
}

// buckets returns the sorted buckets with percentages of the total.
//
// If the bucket values exceed the total, the percentages are of the bucket sum instead.
func (a *accumulator) buckets(total float64) []folioportfolio.AllocationBucket {
	if len(a.values) == 0 {
		return []folioportfolio.AllocationBucket{}
	}
	sum := decimal.Zero
	for _, value := range a.values {
		sum = sum.Add(value)
	}
	base := sum
	if total, ok := finitePositive(total); ok && total.GreaterThan(sum) {
		base = total
		if residual := total.Sub(sum); residual.GreaterThanOrEqual(unallocatedThreshold) {
			a.add(Unallocated, residual)
		}
	}
	if !base.IsPositive() {
		return []folioportfolio.AllocationBucket{}
	}
	buckets := make([]folioportfolio.AllocationBucket, 0, len(a.values))
	for name, value := range a.values {
		buckets = append(buckets, folioportfolio.AllocationBucket{
			Name:       name,
			Value:      value.Round(2).InexactFloat64(),
			Percentage: value.Div(base).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64(),
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Value != buckets[j].Value {
			return buckets[i].Value > buckets[j].Value
		}
		return buckets[i].Name < buckets[j].Name
	})
	return buckets
}

func positionValue(position *folioportfolio.Position) (decimal.Decimal, bool) {
	if position == nil {
		return decimal.Zero, false
	}
	return finitePositive(position.TotalValueHome)
}

func finitePositive(value float64) (decimal.Decimal, bool) {
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(value), true
}

func currencyName(code string) string {
	if !folioportfolio.IsKnown(code) {
		return folioportfolio.Unknown
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// countryName maps ISO codes to country names. Missing values are Unknown.
func countryName(value string, tables *foliodata.Tables) string {
	if !folioportfolio.IsKnown(value) {
		return folioportfolio.Unknown
	}
	return tables.CountryName(value)
}
