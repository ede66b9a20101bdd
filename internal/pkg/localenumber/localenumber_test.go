// Copyright 2026 Peter Edge
//
// All rights reserved.

package localenumber

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected float64
		ok       bool
	}{
		{name: "plain_integer", input: "1234", expected: 1234, ok: true},
		{name: "plain_decimal", input: "1234.56", expected: 1234.56, ok: true},
		{name: "swiss_apostrophe", input: "1'234'567.89", expected: 1234567.89, ok: true},
		{name: "typographic_apostrophe", input: "1’234.50", expected: 1234.5, ok: true},
		{name: "modifier_apostrophe", input: "12ʼ000", expected: 12000, ok: true},
		{name: "space_grouping", input: "1 234 567.5", expected: 1234567.5, ok: true},
		{name: "nbsp_grouping", input: "1 234,50", expected: 1234.5, ok: true},
		{name: "english_grouping", input: "1,234,567.89", expected: 1234567.89, ok: true},
		{name: "single_comma_grouping", input: "1,234", expected: 1234, ok: true},
		{name: "comma_decimal_two_digits", input: "98,50", expected: 98.5, ok: true},
		{name: "comma_decimal_one_digit", input: "12,5", expected: 12.5, ok: true},
		{name: "continental", input: "1.234,56", expected: 1234.56, ok: true},
		{name: "continental_millions", input: "1.234.567,89", expected: 1234567.89, ok: true},
		{name: "dot_grouping_only", input: "1.234.567", expected: 1234567, ok: true},
		{name: "leading_minus", input: "-1'234.50", expected: -1234.5, ok: true},
		{name: "trailing_minus", input: "1'234.50-", expected: -1234.5, ok: true},
		{name: "parentheses", input: "(1'234.50)", expected: -1234.5, ok: true},
		{name: "currency_prefix", input: "CHF 1'234.50", expected: 1234.5, ok: true},
		{name: "currency_suffix", input: "1'234.50 USD", expected: 1234.5, ok: true},
		{name: "dollar_symbol", input: "$1,234.50", expected: 1234.5, ok: true},
		{name: "percent", input: "12.5%", expected: 12.5, ok: true},
		{name: "leading_dot", input: ".5", expected: 0.5, ok: true},
		{name: "empty", input: "", expected: 0, ok: false},
		{name: "whitespace", input: "   ", expected: 0, ok: false},
		{name: "dash_placeholder", input: "–", expected: 0, ok: false},
		{name: "letters", input: "n/a", expected: 0, ok: false},
		{name: "minus_between_digits", input: "2024-12-31", expected: 0, ok: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			value, ok := Parse(test.input)
			require.Equal(t, test.ok, ok)
			require.InDelta(t, test.expected, value, 1e-9)
		})
	}
}

func TestParseLocaleNumberGroupingEqualsSeparatorFree(t *testing.T) {
	t.Parallel()
	for _, pair := range [][2]string{
		{"1'234'567.89", "1234567.89"},
		{"1,234,567.89", "1234567.89"},
		{"1 234 567.89", "1234567.89"},
		{"12’345.6", "12345.6"},
	} {
		require.Equal(t, ParseLocaleNumber(pair[1]), ParseLocaleNumber(pair[0]), pair[0])
	}
}

func TestParseLocaleNumberNeverFails(t *testing.T) {
	t.Parallel()
	for _, input := range []string{"", "abc", "--", "()", ",", ".", "1,2,3,4,5,6", "1.2,3,4", "%"} {
		require.NotPanics(t, func() {
			_ = ParseLocaleNumber(input)
		})
	}
	require.Zero(t, ParseLocaleNumber("abc"))
}

func TestParsePercent(t *testing.T) {
	t.Parallel()
	value, ok := ParsePercent("-0,8 %")
	require.True(t, ok)
	require.InDelta(t, -0.8, value, 1e-9)
	value, ok = ParsePercent("12.25%")
	require.True(t, ok)
	require.InDelta(t, 12.25, value, 1e-9)
	_, ok = ParsePercent("%")
	require.False(t, ok)
}

func TestClassifiers(t *testing.T) {
	t.Parallel()
	require.True(t, IsNumeric("1'234.50"))
	require.True(t, IsNumeric("CHF 1'234.50"))
	require.True(t, IsNumeric("12.5%"))
	require.False(t, IsNumeric("AAPL"))
	require.False(t, IsNumeric("Apple Inc."))
	require.False(t, IsNumeric("31.12.2024"))
	require.False(t, IsNumeric("2024-12-31"))
	require.False(t, IsNumeric(""))

	require.True(t, IsIntegerLike("100"))
	require.True(t, IsIntegerLike("1'000"))
	require.False(t, IsIntegerLike("98.50"))
	require.True(t, IsDecimalLike("98.50"))
	require.True(t, IsDecimalLike("98,50"))
	require.False(t, IsDecimalLike("100"))

	require.True(t, IsPercent("12.5%"))
	require.False(t, IsPercent("12.5"))
}

func TestCurrencyCode(t *testing.T) {
	t.Parallel()
	code, ok := CurrencyCode("chf")
	require.True(t, ok)
	require.Equal(t, "CHF", code)
	code, ok = CurrencyCode(" USD ")
	require.True(t, ok)
	require.Equal(t, "USD", code)
	code, ok = CurrencyCode("€")
	require.True(t, ok)
	require.Equal(t, "EUR", code)
	_, ok = CurrencyCode("XYZ")
	require.False(t, ok)
	_, ok = CurrencyCode("NESN")
	require.False(t, ok)

	code, ok = CurrencyCodeIn("CHF 1'234.50")
	require.True(t, ok)
	require.Equal(t, "CHF", code)
	code, ok = CurrencyCodeIn("1'234.50 EUR")
	require.True(t, ok)
	require.Equal(t, "EUR", code)
	_, ok = CurrencyCodeIn("1'234.50")
	require.False(t, ok)
}
