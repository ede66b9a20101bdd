// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package localenumber parses numbers as they appear in regional statement exports.
//
// Swiss exports group thousands with apostrophes ("1'234'567.89"), continental
// exports use "." for grouping and "," as decimal separator ("1.234,56"), and
// English exports use "," for grouping. Cells may carry currency tokens
// ("CHF 1'234.50", "1'234.50 USD"), percent signs, or accounting negatives
// ("(1'234.50)", "1'234.50-").
package localenumber

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/Rhymond/go-money"
)

// currencySymbols maps currency symbols and local abbreviations to ISO 4217 codes.
var currencySymbols = map[string]string{
	"$":    "USD",
	"US$":  "USD",
	"€":    "EUR",
	"£":    "GBP",
	"¥":    "JPY",
	"FR.":  "CHF",
	"SFR.": "CHF",
	"SFR":  "CHF",
}

// attachedCurrencySymbols are symbols that may be written without a space, as in "$1,234".
var attachedCurrencySymbols = []string{"US$", "$", "€", "£", "¥"}

// datePattern matches date-like cells such as "31.12.2024" or "2024-12-31".
var datePattern = regexp.MustCompile(`^\d{1,4}[./-]\d{1,2}[./-]\d{1,4}$`)

// ParseLocaleNumber parses a region-formatted numeric string.
//
// Returns 0 for input that contains no parseable number.
func ParseLocaleNumber(raw string) float64 {
	value, _ := Parse(raw)
	return value
}

// Parse parses a region-formatted numeric string, reporting whether a number was found.
func Parse(raw string) (float64, bool) {
	normalized, negative, ok := normalize(raw)
	if !ok {
		return 0, false
	}
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	if negative {
		value = -value
	}
	return value, true
}

// ParsePercent parses a percentage cell such as "12.5%" or "-0,8 %".
//
// The returned value is in percent, "12.5%" returns 12.5.
func ParsePercent(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimSuffix(trimmed, "%")
	return Parse(trimmed)
}

// IsNumeric returns true if the cell holds a number and nothing else besides
// currency tokens, grouping separators, signs, and a percent sign.
func IsNumeric(cell string) bool {
	_, ok := classify(cell)
	return ok
}

// IsIntegerLike returns true if the cell is numeric without a decimal fraction.
func IsIntegerLike(cell string) bool {
	normalized, ok := classify(cell)
	return ok && !strings.Contains(normalized, ".")
}

// IsDecimalLike returns true if the cell is numeric with a decimal fraction.
func IsDecimalLike(cell string) bool {
	normalized, ok := classify(cell)
	return ok && strings.Contains(normalized, ".")
}

// IsPercent returns true if the cell is numeric and carries a percent sign.
func IsPercent(cell string) bool {
	trimmed := strings.TrimSpace(cell)
	return strings.HasSuffix(trimmed, "%") && IsNumeric(strings.TrimSuffix(trimmed, "%"))
}

// CurrencyCode returns the ISO 4217 code if the cell is a currency token.
//
// Accepts three-letter ISO codes known to the ISO 4217 table and common
// currency symbols. The returned code is upper case.
func CurrencyCode(cell string) (string, bool) {
	token := strings.ToUpper(strings.TrimSpace(cell))
	if token == "" {
		return "", false
	}
	if code, ok := currencySymbols[token]; ok {
		return code, true
	}
	if len(token) != 3 {
		return "", false
	}
	for _, r := range token {
		if r < 'A' || r > 'Z' {
			return "", false
		}
	}
	if money.GetCurrency(token) == nil {
		return "", false
	}
	return token, true
}

// CurrencyCodeIn returns the first currency token embedded in a cell such as "CHF 1'234.50".
func CurrencyCodeIn(cell string) (string, bool) {
	for _, token := range strings.FieldsFunc(cell, isTokenSeparator) {
		if code, ok := CurrencyCode(token); ok {
			return code, true
		}
	}
	return "", false
}

// *** PRIVATE ***

// normalize reduces raw to a string accepted by strconv.ParseFloat.
//
// Returns the unsigned normalized number, whether it is negative, and false if
// no number could be found.
func normalize(raw string) (string, bool, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false, false
	}
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	var builder strings.Builder
	sawDigit := false
	trailingMinus := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			if trailingMinus {
				// A minus between digits is a range or a date, not a number.
				return "", false, false
			}
			sawDigit = true
			builder.WriteRune(r)
		case r == '.' || r == ',':
			builder.WriteRune(r)
		case r == '-' || r == '−' || r == '–':
			if sawDigit {
				trailingMinus = true
			} else {
				negative = !negative
			}
		}
	}
	if !sawDigit {
		return "", false, false
	}
	if trailingMinus {
		negative = !negative
	}
	normalized, ok := normalizeSeparators(builder.String())
	if !ok {
		return "", false, false
	}
	return normalized, negative, true
}

// normalizeSeparators resolves "." and "," into a single "." decimal point.
func normalizeSeparators(s string) (string, bool) {
	s = strings.TrimRight(s, ".,")
	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")
	switch {
	case dots > 0 && commas > 0:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			// Continental form: "1.234,56".
			if commas > 1 {
				return "", false
			}
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case commas == 1:
		index := strings.Index(s, ",")
		if trailing := len(s) - index - 1; trailing >= 1 && trailing <= 2 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case commas > 1:
		s = strings.ReplaceAll(s, ",", "")
	case dots > 1:
		// Dots used as grouping: "1.234.567".
		s = strings.ReplaceAll(s, ".", "")
	}
	if s == "" {
		return "", false
	}
	return s, true
}

// classify returns the normalized number if the cell is strictly numeric.
func classify(cell string) (string, bool) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" || datePattern.MatchString(trimmed) {
		return "", false
	}
	trimmed = strings.TrimSuffix(trimmed, "%")
	for _, token := range strings.FieldsFunc(trimmed, isTokenSeparator) {
		if _, ok := CurrencyCode(token); ok {
			trimmed = strings.Replace(trimmed, token, "", 1)
		}
	}
	for _, symbol := range attachedCurrencySymbols {
		trimmed = strings.ReplaceAll(trimmed, symbol, "")
	}
	for _, r := range trimmed {
		if !isNumberRune(r) {
			return "", false
		}
	}
	normalized, _, ok := normalize(trimmed)
	return normalized, ok
}

func isNumberRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r == '.', r == ',', r == '\'', r == '’', r == 'ʼ', r == '-', r == '−', r == '–', r == '+', r == '(', r == ')':
		return true
	default:
		return unicode.IsSpace(r)
	}
}

func isTokenSeparator(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsDigit(r) || r == '(' || r == ')' || r == '-' || r == '+'
}
