// Copyright 2026 Peter Edge
//
// All rights reserved.

package folioallocation

import (
	"testing"

	"github.com/bufdev/folioctl/internal/folio/foliodata"
	"github.com/bufdev/folioctl/internal/folio/folioportfolio"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestComputeLookThrough(t *testing.T) {
	t.Parallel()
	overview, positions := testPortfolio()
	allocations := Compute(overview, positions, "CHF", foliodata.Default())

	require.Empty(t, cmp.Diff(
		[]folioportfolio.AllocationBucket{
			{Name: "Consumer Defensive", Value: 5000, Percentage: 29.41},
			{Name: "Technology", Value: 4000, Percentage: 23.53},
			{Name: Unallocated, Value: 4000, Percentage: 23.53},
			{Name: "Healthcare", Value: 3000, Percentage: 17.65},
			{Name: Cash, Value: 1000, Percentage: 5.88},
		},
		allocations.Sector,
	))
	require.Empty(t, cmp.Diff(
		[]folioportfolio.AllocationBucket{
			{Name: "USD", Value: 10000, Percentage: 58.82},
			{Name: "CHF", Value: 6000, Percentage: 35.29},
			{Name: Unallocated, Value: 1000, Percentage: 5.88},
		},
		allocations.Currency,
	))
	country := bucketMap(allocations.Country)
	require.Equal(t, 6000.0, country["United States"])
	require.Equal(t, 6000.0, country["Switzerland"])
	domicile := bucketMap(allocations.Domicile)
	require.Equal(t, 10000.0, domicile["Ireland"])
	require.Equal(t, 5000.0, domicile["Switzerland"])
}

func TestComputeTablesSumToHundred(t *testing.T) {
	t.Parallel()
	overview, positions := testPortfolio()
	allocations := Compute(overview, positions, "CHF", nil)
	for _, dimension := range AllDimensions() {
		buckets := Buckets(allocations, dimension)
		require.NotEmpty(t, buckets, dimension)
		require.InDelta(t, 100, percentageSum(buckets), 0.5, dimension)
	}
}

func TestComputeFundContributesSectorWeight(t *testing.T) {
	t.Parallel()
	const value = 25000.0
	positions := []*folioportfolio.Position{
		{
			Symbol:         "CSSPX",
			Category:       "ETF",
			Currency:       "USD",
			TotalValueHome: value,
			Composition: &folioportfolio.ETFComposition{
				Sector: []folioportfolio.Weight{
					{Key: "Technology", Weight: 40},
					{Key: "Financial Services", Weight: 60},
				},
			},
		},
	}
	allocations := Compute(folioportfolio.AccountOverview{TotalValue: value, SecuritiesValue: value}, positions, "CHF", nil)
	require.GreaterOrEqual(t, bucketMap(allocations.Sector)["Technology"], 0.4*value)
}

func TestComputeScalesWeightsAboveHundred(t *testing.T) {
	t.Parallel()
	positions := []*folioportfolio.Position{
		{
			Symbol:         "VT",
			TotalValueHome: 1000,
			Composition: &folioportfolio.ETFComposition{
				Country: []folioportfolio.Weight{
					{Key: "US", Weight: 90},
					{Key: "JP", Weight: 30},
				},
			},
		},
	}
	allocations := Compute(folioportfolio.AccountOverview{TotalValue: 1000}, positions, "CHF", nil)
	country := bucketMap(allocations.Country)
	require.InDelta(t, 750, country["United States"], 0.01)
	require.InDelta(t, 250, country["Japan"], 0.01)
	require.NotContains(t, country, Unallocated)
}

func TestComputeBucketsExceedTotal(t *testing.T) {
	t.Parallel()
	positions := []*folioportfolio.Position{
		{Symbol: "A", Sector: "Technology", TotalValueHome: 600},
		{Symbol: "B", Sector: "Energy", TotalValueHome: 400},
	}
	// A stale total smaller than the positions uses the bucket sum as the base.
	allocations := Compute(folioportfolio.AccountOverview{TotalValue: 500}, positions, "CHF", nil)
	require.Empty(t, cmp.Diff(
		[]folioportfolio.AllocationBucket{
			{Name: "Technology", Value: 600, Percentage: 60},
			{Name: "Energy", Value: 400, Percentage: 40},
		},
		allocations.Sector,
	))
}

func TestComputeUnknownIsKept(t *testing.T) {
	t.Parallel()
	positions := []*folioportfolio.Position{
		{Symbol: "A", Sector: "Technology", Geography: "US", TotalValueHome: 300},
		{Symbol: "B", TotalValueHome: 700},
	}
	allocations := Compute(folioportfolio.AccountOverview{TotalValue: 1000}, positions, "CHF", nil)
	require.Equal(t, folioportfolio.Unknown, allocations.Sector[0].Name)
	require.Equal(t, 70.0, allocations.Sector[0].Percentage)
	require.Equal(t, folioportfolio.Unknown, allocations.Domicile[0].Name)
	require.Equal(t, 100.0, allocations.Domicile[0].Percentage)
}

func TestComputeEmpty(t *testing.T) {
	t.Parallel()
	allocations := Compute(folioportfolio.AccountOverview{CashBalance: 100, TotalValue: 100}, nil, "CHF", nil)
	for _, dimension := range AllDimensions() {
		require.Empty(t, Buckets(allocations, dimension))
	}
	require.Empty(t, AssetAllocation(folioportfolio.AccountOverview{}, nil))
}

func TestAssetAllocation(t *testing.T) {
	t.Parallel()
	overview, positions := testPortfolio()
	buckets := AssetAllocation(overview, positions)
	require.Empty(t, cmp.Diff(
		[]folioportfolio.AllocationBucket{
			{Name: "ETF", Value: 10000, Percentage: 58.82},
			{Name: "Equities", Value: 5000, Percentage: 29.41},
			{Name: Cash, Value: 1000, Percentage: 5.88},
			{Name: Unallocated, Value: 1000, Percentage: 5.88},
		},
		buckets,
	))
}

func TestParseDimension(t *testing.T) {
	t.Parallel()
	dimension, ok := ParseDimension("Sector")
	require.True(t, ok)
	require.Equal(t, DimensionSector, dimension)
	_, ok = ParseDimension("region")
	require.False(t, ok)
}

func testPortfolio() (folioportfolio.AccountOverview, []*folioportfolio.Position) {
	positions := []*folioportfolio.Position{
		{
			Symbol:         "NESN",
			Category:       "Equities",
			Currency:       "CHF",
			Sector:         "Consumer Defensive",
			Geography:      "Switzerland",
			Domicile:       "CH",
			TotalValueHome: 5000,
		},
		{
			Symbol:         "CSSPX",
			Category:       "ETF",
			Currency:       "USD",
			Domicile:       "IE",
			TotalValueHome: 10000,
			Composition: &folioportfolio.ETFComposition{
				Currency: []folioportfolio.Weight{{Key: "usd", Weight: 100}},
				Country: []folioportfolio.Weight{
					{Key: "US", Weight: 60},
					{Key: "CH", Weight: 10},
				},
				Sector: []folioportfolio.Weight{
					{Key: "Technology", Weight: 40},
					{Key: "Healthcare", Weight: 30},
				},
			},
		},
	}
	// The explicit total is larger than the itemized value.
	overview := folioportfolio.AccountOverview{
		TotalValue:      17000,
		CashBalance:     1000,
		SecuritiesValue: 15000,
	}
	return overview, positions
}

func bucketMap(buckets []folioportfolio.AllocationBucket) map[string]float64 {
	m := make(map[string]float64, len(buckets))
	for _, bucket := range buckets {
		m[bucket.Name] = bucket.Value
	}
	return m
}

func percentageSum(buckets []folioportfolio.AllocationBucket) float64 {
	sum := 0.0
	for _, bucket := range buckets {
		sum += bucket.Percentage
	}
	return sum
}
