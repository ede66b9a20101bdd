// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package foliostatement parses free-form brokerage and bank statement exports
// into positions and an account overview.
//
// Parsing is pure and deterministic. Several strategies are tried in order and
// the first one producing positions wins:
//
//  1. HTML tables, converted to tab-separated lines and parsed as a table.
//  2. IBKR Activity Statement CSVs.
//  3. Delimited tables with a detected header or positional columns.
//  4. Summary text: labelled totals and loose "SYMBOL NAME QTY PRICE CCY TOTAL" lines.
//
// Rows that cannot be parsed are dropped rather than failing the statement.
package foliostatement

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/bufdev/folioctl/internal/folio/folioallocation"
	"github.com/bufdev/folioctl/internal/folio/foliodata"
	"github.com/bufdev/folioctl/internal/folio/foliofx"
	"github.com/bufdev/folioctl/internal/folio/folioportfolio"
)

// DefaultHomeCurrency is the home currency used when none is configured.
const DefaultHomeCurrency = "CHF"

// ErrNoPositionsFound is returned when a statement yields no valid positions.
var ErrNoPositionsFound = errors.New("no positions found")

// Parser parses statements.
type Parser interface {
	// Parse parses the statement text.
	//
	// Returns an error wrapping ErrNoPositionsFound if no valid position survives.
	Parse(text string) (*folioportfolio.Portfolio, error)
}

// ParserOption is an option for a new Parser.
type ParserOption func(*parserOptions)

// ParserWithHomeCurrency returns a new ParserOption that sets the home currency.
//
// The default is CHF.
func ParserWithHomeCurrency(homeCurrency string) ParserOption {
	return func(parserOptions *parserOptions) {
		parserOptions.homeCurrency = strings.ToUpper(strings.TrimSpace(homeCurrency))
	}
}

// ParserWithFXTable returns a new ParserOption that sets the conversion table.
//
// The table's home currency becomes the parser's home currency.
func ParserWithFXTable(fxTable *foliofx.Table) ParserOption {
	return func(parserOptions *parserOptions) {
		parserOptions.fxTable = fxTable
	}
}

// ParserWithTables returns a new ParserOption that sets the static lookup tables.
func ParserWithTables(tables *foliodata.Tables) ParserOption {
	return func(parserOptions *parserOptions) {
		parserOptions.tables = tables
	}
}

// ParserWithLogger returns a new ParserOption that sets the logger for dropped rows.
func ParserWithLogger(logger *slog.Logger) ParserOption {
	return func(parserOptions *parserOptions) {
		parserOptions.logger = logger
	}
}

// NewParser returns a new Parser.
func NewParser(options ...ParserOption) (Parser, error) {
	parserOptions := &parserOptions{}
	for _, option := range options {
		option(parserOptions)
	}
	if parserOptions.tables == nil {
		parserOptions.tables = foliodata.Default()
	}
	if parserOptions.logger == nil {
		parserOptions.logger = slog.New(slog.DiscardHandler)
	}
	fxTable := parserOptions.fxTable
	switch {
	case fxTable == nil:
		homeCurrency := parserOptions.homeCurrency
		if homeCurrency == "" {
			homeCurrency = DefaultHomeCurrency
		}
		var err error
		fxTable, err = foliofx.NewTable(homeCurrency, parserOptions.tables.BaseCurrency(), parserOptions.tables.CurrencyRates())
		if err != nil {
			return nil, err
		}
	case parserOptions.homeCurrency != "" && parserOptions.homeCurrency != fxTable.HomeCurrency():
		return nil, fmt.Errorf("home currency %s does not match conversion table home currency %s", parserOptions.homeCurrency, fxTable.HomeCurrency())
	}
	return &parser{
		logger:  parserOptions.logger,
		tables:  parserOptions.tables,
		fxTable: fxTable,
	}, nil
}

// *** PRIVATE ***

type parserOptions struct {
	homeCurrency string
	fxTable      *foliofx.Table
	tables       *foliodata.Tables
	logger       *slog.Logger
}

type parser struct {
	logger  *slog.Logger
	tables  *foliodata.Tables
	fxTable *foliofx.Table
}

// strategy is one way of reading a statement.
type strategy struct {
	name string
	// parse returns the positions and totals found, or nil if the strategy does not apply.
	parse func(text string, lines []string) (*statement, error)
}

// statement is the intermediate result of a strategy.
type statement struct {
	positions []*folioportfolio.Position
	totals    totals
}

// totals are the labelled amounts of a statement in the home currency, 0 if absent.
type totals struct {
	grandTotal      float64
	cashBalance     float64
	securitiesValue float64
}

func (t *totals) merge(other totals) {
	t.grandTotal = max(t.grandTotal, other.grandTotal)
	t.cashBalance += other.cashBalance
	t.securitiesValue = max(t.securitiesValue, other.securitiesValue)
}

func (p *parser) Parse(text string) (*folioportfolio.Portfolio, error) {
	lines := normalizeLines(text)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrNoPositionsFound)
	}
	for _, strategy := range p.strategies() {
		statement, err := strategy.parse(text, lines)
		if err != nil {
			// A strategy that fails to read the text does not apply to it.
			p.logger.Debug("statement strategy failed", "strategy", strategy.name, "error", err)
			continue
		}
		if statement == nil || len(statement.positions) == 0 {
			continue
		}
		p.logger.Debug("statement parsed", "strategy", strategy.name, "positions", len(statement.positions))
		return p.newPortfolio(statement), nil
	}
	return nil, fmt.Errorf("%w: no row has a symbol, quantity, and price", ErrNoPositionsFound)
}

func (p *parser) strategies() []strategy {
	return []strategy{
		{name: "html", parse: p.parseHTML},
		{name: "ibkr_activity", parse: p.parseIBKRActivity},
		{name: "tabular", parse: p.parseTabular},
		{name: "summary_text", parse: p.parseSummaryText},
	}
}

// newPortfolio builds the portfolio from the positions and labelled totals.
//
// The explicit grand total wins over the computed total only if it is larger.
// Short and negative-value positions are kept but do not count towards the
// securities value, as they are in no allocation bucket.
func (p *parser) newPortfolio(statement *statement) *folioportfolio.Portfolio {
	securitiesValue := 0.0
	for _, position := range statement.positions {
		if position.TotalValueHome > 0 {
			securitiesValue += position.TotalValueHome
		}
	}
	securitiesValue = max(securitiesValue, statement.totals.securitiesValue)
	cashBalance := statement.totals.cashBalance
	totalValue := securitiesValue + cashBalance
	if statement.totals.grandTotal > totalValue {
		totalValue = statement.totals.grandTotal
	}
	overview := folioportfolio.AccountOverview{
		TotalValue:      totalValue,
		CashBalance:     cashBalance,
		SecuritiesValue: securitiesValue,
	}
	return &folioportfolio.Portfolio{
		Positions:       statement.positions,
		AccountOverview: overview,
		AssetAllocation: folioallocation.AssetAllocation(overview, statement.positions),
	}
}

// normalizeLines splits the text into non-blank lines.
//
// Leading tabs are kept since they are empty cells of tab-separated lines.
func normalizeLines(text string) []string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, strings.TrimLeft(strings.TrimRightFunc(line, unicode.IsSpace), " "))
	}
	return lines
}
