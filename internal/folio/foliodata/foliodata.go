// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package foliodata provides the static lookup tables used across folioctl:
// currency rates and inference, regional symbol suffixes, fund-family patterns,
// symbol classification fallbacks, country names, and statement labels.
//
// Tables are embedded YAML files decoded once into an immutable Tables value.
package foliodata

import (
	"bytes"
	"embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/bufdev/folioctl/internal/pkg/tabular"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// SymbolFallback is the static classification of a symbol.
type SymbolFallback struct {
	Name    string `yaml:"name"`
	Sector  string `yaml:"sector"`
	Country string `yaml:"country"`
	Type    string `yaml:"type"`
}

// Tables are the decoded static lookup tables.
//
// Tables are immutable after construction and safe for concurrent use.
type Tables struct {
	baseCurrency          string
	currencyRates         map[string]float64
	minorUnits            map[string]string
	suffixCurrencies      map[string]string
	isinCurrencies        map[string]string
	regionalSuffixes      []string
	fundFamilyPatterns    []*regexp.Regexp
	singleMarketEquities  map[string]string
	symbolFallbacks       map[string]SymbolFallback
	countryNames          map[string]string
	taxOptimizedDomiciles map[string]struct{}
	grandTotalLabels      map[string]struct{}
	subtotalPrefixes      []string
	cashLabels            map[string]struct{}
	securitiesLabels      map[string]struct{}
	cashCategories        map[string]struct{}
	fundCategoryKeywords  []string
	fundInstrumentTypes   map[string]struct{}
}

// Default returns the tables decoded from the embedded data files.
//
// Panics if the embedded data is invalid, which is caught by tests.
func Default() *Tables {
	return defaultTables()
}

// Load decodes the tables from the embedded data files.
func Load() (*Tables, error) {
	var currencies externalCurrencies
	if err := readYAML("data/currencies.yaml", &currencies); err != nil {
		return nil, err
	}
	var symbols externalSymbols
	if err := readYAML("data/symbols.yaml", &symbols); err != nil {
		return nil, err
	}
	var countries externalCountries
	if err := readYAML("data/countries.yaml", &countries); err != nil {
		return nil, err
	}
	var labels externalLabels
	if err := readYAML("data/labels.yaml", &labels); err != nil {
		return nil, err
	}
	if currencies.Base == "" {
		return nil, fmt.Errorf("currencies.yaml: base is required")
	}
	tables := &Tables{
		baseCurrency:          strings.ToUpper(currencies.Base),
		currencyRates:         make(map[string]float64, len(currencies.Rates)),
		minorUnits:            make(map[string]string),
		suffixCurrencies:      upperValues(currencies.SuffixCurrencies),
		isinCurrencies:        upperValues(currencies.ISINCurrencies),
		regionalSuffixes:      symbols.RegionalSuffixes,
		singleMarketEquities:  upperKeys(symbols.SingleMarketEquities),
		symbolFallbacks:       make(map[string]SymbolFallback, len(symbols.Fallbacks)),
		countryNames:          upperKeys(countries.Countries),
		taxOptimizedDomiciles: toSet(countries.TaxOptimizedDomiciles, strings.ToUpper),
		grandTotalLabels:      toSet(labels.GrandTotals, tabular.NormalizeLabel),
		cashLabels:            toSet(labels.CashLabels, tabular.NormalizeLabel),
		securitiesLabels:      toSet(labels.SecuritiesLabels, tabular.NormalizeLabel),
		cashCategories:        toSet(labels.CashCategories, tabular.NormalizeLabel),
		fundInstrumentTypes:   toSet(labels.FundInstrumentTypes, strings.ToUpper),
	}
	for code, rate := range currencies.Rates {
		if rate <= 0 {
			return nil, fmt.Errorf("currencies.yaml: rate for %s must be positive", code)
		}
		tables.currencyRates[strings.ToUpper(code)] = rate
	}
	if _, ok := tables.currencyRates[tables.baseCurrency]; !ok {
		return nil, fmt.Errorf("currencies.yaml: no rate for base currency %s", tables.baseCurrency)
	}
	for major, minors := range currencies.MinorUnits {
		for _, minor := range minors {
			tables.minorUnits[minor] = strings.ToUpper(major)
		}
	}
	for _, pattern := range symbols.FundFamilyPatterns {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("symbols.yaml: invalid fund family pattern %q: %w", pattern, err)
		}
		tables.fundFamilyPatterns = append(tables.fundFamilyPatterns, compiled)
	}
	for symbol, fallback := range symbols.Fallbacks {
		tables.symbolFallbacks[strings.ToUpper(symbol)] = fallback
	}
	for _, prefix := range labels.SubtotalPrefixes {
		tables.subtotalPrefixes = append(tables.subtotalPrefixes, tabular.NormalizeLabel(prefix))
	}
	for _, keyword := range labels.FundCategoryKeywords {
		tables.fundCategoryKeywords = append(tables.fundCategoryKeywords, tabular.NormalizeLabel(keyword))
	}
	return tables, nil
}

// BaseCurrency returns the currency the static rates are expressed in.
func (t *Tables) BaseCurrency() string {
	return t.baseCurrency
}

// CurrencyRates returns a copy of the static rates, the value of one unit in the base currency.
func (t *Tables) CurrencyRates() map[string]float64 {
	rates := make(map[string]float64, len(t.currencyRates))
	for code, rate := range t.currencyRates {
		rates[code] = rate
	}
	return rates
}

// MajorCurrency returns the major currency of a minor-unit quote currency such as "GBp".
func (t *Tables) MajorCurrency(currency string) (string, bool) {
	major, ok := t.minorUnits[currency]
	return major, ok
}

// InferCurrency infers the trading currency from a symbol's exchange suffix or an ISIN's country prefix.
func (t *Tables) InferCurrency(symbol string, isin string) (string, bool) {
	if index := strings.LastIndex(symbol, "."); index > 0 && index < len(symbol)-1 {
		if currency, ok := t.suffixCurrencies[strings.ToUpper(symbol[index+1:])]; ok {
			return currency, true
		}
	}
	for _, candidate := range []string{isin, symbol} {
		if IsISIN(candidate) {
			if currency, ok := t.isinCurrencies[strings.ToUpper(candidate[:2])]; ok {
				return currency, true
			}
		}
	}
	return "", false
}

// RegionalSuffixes returns the exchange suffixes tried for fund-family symbols, in order.
func (t *Tables) RegionalSuffixes() []string {
	return append([]string(nil), t.regionalSuffixes...)
}

// MatchesFundFamily returns true if the symbol matches a known fund-family pattern.
func (t *Tables) MatchesFundFamily(symbol string) bool {
	for _, pattern := range t.fundFamilyPatterns {
		if pattern.MatchString(symbol) {
			return true
		}
	}
	return false
}

// SingleMarketSuffix returns the hard-coded exchange suffix of a single-market equity.
func (t *Tables) SingleMarketSuffix(symbol string) (string, bool) {
	suffix, ok := t.singleMarketEquities[strings.ToUpper(symbol)]
	return suffix, ok
}

// SymbolFallback returns the static classification of a symbol.
//
// Symbols with an exchange suffix are looked up without it as well.
func (t *Tables) SymbolFallback(symbol string) (SymbolFallback, bool) {
	upper := strings.ToUpper(strings.TrimSpace(symbol))
	if fallback, ok := t.symbolFallbacks[upper]; ok {
		return fallback, true
	}
	if index := strings.Index(upper, "."); index > 0 {
		fallback, ok := t.symbolFallbacks[upper[:index]]
		return fallback, ok
	}
	return SymbolFallback{}, false
}

// CountryName returns the country name for an ISO code, or the input if it is not a known code.
func (t *Tables) CountryName(code string) string {
	trimmed := strings.TrimSpace(code)
	if name, ok := t.countryNames[strings.ToUpper(trimmed)]; ok {
		return name
	}
	return trimmed
}

// IsTaxOptimizedDomicile returns true if funds domiciled in the country reclaim foreign withholding tax.
func (t *Tables) IsTaxOptimizedDomicile(code string) bool {
	_, ok := t.taxOptimizedDomiciles[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// IsGrandTotalLabel returns true if the label denotes the portfolio grand total.
func (t *Tables) IsGrandTotalLabel(label string) bool {
	_, ok := t.grandTotalLabels[tabular.NormalizeLabel(label)]
	return ok
}

// IsSubtotalLabel returns true if the label starts with a total or subtotal keyword.
func (t *Tables) IsSubtotalLabel(label string) bool {
	normalized := tabular.NormalizeLabel(label)
	for _, prefix := range t.subtotalPrefixes {
		if normalized == prefix || strings.HasPrefix(normalized, prefix+" ") {
			return true
		}
	}
	return false
}

// IsCashLabel returns true if the label denotes a cash balance.
func (t *Tables) IsCashLabel(label string) bool {
	return hasLabelPrefix(t.cashLabels, tabular.NormalizeLabel(label))
}

// IsSecuritiesLabel returns true if the label denotes the securities value.
func (t *Tables) IsSecuritiesLabel(label string) bool {
	return hasLabelPrefix(t.securitiesLabels, tabular.NormalizeLabel(label))
}

// IsCashCategory returns true if the category holds cash rather than securities.
func (t *Tables) IsCashCategory(category string) bool {
	_, ok := t.cashCategories[tabular.NormalizeLabel(category)]
	return ok
}

// IsFundCategory returns true if the category holds funds or ETFs.
func (t *Tables) IsFundCategory(category string) bool {
	normalized := tabular.NormalizeLabel(category)
	if normalized == "" {
		return false
	}
	for _, keyword := range t.fundCategoryKeywords {
		if strings.Contains(normalized, keyword) {
			return true
		}
	}
	return false
}

// IsFundInstrumentType returns true if the provider instrument type is a fund type.
func (t *Tables) IsFundInstrumentType(instrumentType string) bool {
	_, ok := t.fundInstrumentTypes[strings.ToUpper(strings.TrimSpace(instrumentType))]
	return ok
}

// IsISIN returns true if the value has the shape of an ISIN: two letters,
// nine alphanumerics, and a check digit.
func IsISIN(value string) bool {
	return isinPattern.MatchString(strings.ToUpper(strings.TrimSpace(value)))
}

// *** PRIVATE ***

var (
	isinPattern   = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)
	defaultTables = sync.OnceValue(func() *Tables {
		tables, err := Load()
		if err != nil {
			panic(err)
		}
		return tables
	})
)

type externalCurrencies struct {
	Base             string              `yaml:"base"`
	Rates            map[string]float64  `yaml:"rates"`
	MinorUnits       map[string][]string `yaml:"minor_units"`
	SuffixCurrencies map[string]string   `yaml:"suffix_currencies"`
	ISINCurrencies   map[string]string   `yaml:"isin_currencies"`
}

type externalSymbols struct {
	RegionalSuffixes     []string                  `yaml:"regional_suffixes"`
	FundFamilyPatterns   []string                  `yaml:"fund_family_patterns"`
	SingleMarketEquities map[string]string         `yaml:"single_market_equities"`
	Fallbacks            map[string]SymbolFallback `yaml:"fallbacks"`
}

type externalCountries struct {
	Countries             map[string]string `yaml:"countries"`
	TaxOptimizedDomiciles []string          `yaml:"tax_optimized_domiciles"`
}

type externalLabels struct {
	GrandTotals          []string `yaml:"grand_totals"`
	SubtotalPrefixes     []string `yaml:"subtotal_prefixes"`
	CashLabels           []string `yaml:"cash_labels"`
	SecuritiesLabels     []string `yaml:"securities_labels"`
	CashCategories       []string `yaml:"cash_categories"`
	FundCategoryKeywords []string `yaml:"fund_category_keywords"`
	FundInstrumentTypes  []string `yaml:"fund_instrument_types"`
}

// readYAML decodes an embedded YAML file with strict field checking.
func readYAML(path string, v any) error {
	data, err := dataFS.ReadFile(path)
	if err != nil {
		return err
	}
	yamlDecoder := yaml.NewDecoder(bytes.NewReader(data))
	// Reject unknown fields.
	yamlDecoder.KnownFields(true)
	if err := yamlDecoder.Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// hasLabelPrefix returns true if the label equals a known label or starts with one followed by a space.
func hasLabelPrefix(labels map[string]struct{}, normalized string) bool {
	if _, ok := labels[normalized]; ok {
		return true
	}
	for label := range labels {
		if strings.HasPrefix(normalized, label+" ") {
			return true
		}
	}
	return false
}

func toSet(values []string, normalize func(string) string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		set[normalize(value)] = struct{}{}
	}
	return set
}

func upperKeys(m map[string]string) map[string]string {
	upper := make(map[string]string, len(m))
	for key, value := range m {
		upper[strings.ToUpper(key)] = value
	}
	return upper
}

func upperValues(m map[string]string) map[string]string {
	upper := make(map[string]string, len(m))
	for key, value := range m {
		upper[strings.ToUpper(key)] = strings.ToUpper(value)
	}
	return upper
}
