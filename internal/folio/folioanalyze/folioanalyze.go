// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package folioanalyze runs the statement pipeline: parse, enrich, allocate.
package folioanalyze

import (
	"context"
	"log/slog"
	"time"

	"github.com/bufdev/folioctl/internal/folio/folioallocation"
	"github.com/bufdev/folioctl/internal/folio/foliodata"
	"github.com/bufdev/folioctl/internal/folio/folioenrich"
	"github.com/bufdev/folioctl/internal/folio/folioportfolio"
	"github.com/bufdev/folioctl/internal/folio/foliostatement"
)

// Analyzer analyzes statements.
type Analyzer interface {
	// Parse parses the statement text without enrichment or allocation.
	//
	// Returns an error wrapping foliostatement.ErrNoPositionsFound if the text has no positions.
	Parse(text string) (*folioportfolio.Portfolio, error)
	// Analyze parses the statement text, enriches the positions, and computes the allocations.
	//
	// Only parsing can fail. Enrichment degrades to statement data.
	Analyze(ctx context.Context, text string) (*folioportfolio.Portfolio, error)
}

// AnalyzerOption is an option for a new Analyzer.
type AnalyzerOption func(*analyzer)

// AnalyzerWithLogger returns a new AnalyzerOption that sets the logger.
func AnalyzerWithLogger(logger *slog.Logger) AnalyzerOption {
	return func(analyzer *analyzer) {
		analyzer.logger = logger
	}
}

// AnalyzerWithTables returns a new AnalyzerOption that sets the static lookup tables used for allocation.
func AnalyzerWithTables(tables *foliodata.Tables) AnalyzerOption {
	return func(analyzer *analyzer) {
		analyzer.tables = tables
	}
}

// AnalyzerWithEnricher returns a new AnalyzerOption that sets the enricher.
//
// Without an enricher, positions are allocated with statement data only.
func AnalyzerWithEnricher(enricher folioenrich.Enricher) AnalyzerOption {
	return func(analyzer *analyzer) {
		analyzer.enricher = enricher
	}
}

// NewAnalyzer returns a new Analyzer.
func NewAnalyzer(parser foliostatement.Parser, homeCurrency string, options ...AnalyzerOption) Analyzer {
	analyzer := &analyzer{
		parser:       parser,
		homeCurrency: homeCurrency,
		logger:       slog.New(slog.DiscardHandler),
		tables:       foliodata.Default(),
	}
	for _, option := range options {
		option(analyzer)
	}
	return analyzer
}

// *** PRIVATE ***

type analyzer struct {
	parser       foliostatement.Parser
	homeCurrency string
	logger       *slog.Logger
	tables       *foliodata.Tables
	enricher     folioenrich.Enricher
}

func (a *analyzer) Parse(text string) (*folioportfolio.Portfolio, error) {
	return a.parser.Parse(text)
}

func (a *analyzer) Analyze(ctx context.Context, text string) (*folioportfolio.Portfolio, error) {
	portfolio, err := a.parser.Parse(text)
	if err != nil {
		return nil, err
	}
	positions := portfolio.Positions
	if a.enricher != nil {
		start := time.Now()
		positions = a.enricher.EnrichAll(ctx, positions)
		a.logger.Debug("enrichment done", "positions", len(positions), "duration", time.Since(start))
	}
	allocations := folioallocation.Compute(portfolio.AccountOverview, positions, a.homeCurrency, a.tables)
	return &folioportfolio.Portfolio{
		Positions:       positions,
		AccountOverview: portfolio.AccountOverview,
		AssetAllocation: allocations.Asset,
		Allocations:     allocations,
	}, nil
}
