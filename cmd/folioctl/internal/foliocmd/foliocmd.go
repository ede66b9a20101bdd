// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package foliocmd provides shared wiring for folioctl commands (reading config,
// building the FX table, and constructing the provider clients and the analyzer).
package foliocmd

import (
	"context"
	"net/http"

	"buf.build/go/app/appext"
	"github.com/bufdev/folioctl/internal/folio/folioanalyze"
	"github.com/bufdev/folioctl/internal/folio/foliocomposition"
	"github.com/bufdev/folioctl/internal/folio/folioconfig"
	"github.com/bufdev/folioctl/internal/folio/foliodata"
	"github.com/bufdev/folioctl/internal/folio/folioenrich"
	"github.com/bufdev/folioctl/internal/folio/foliofx"
	"github.com/bufdev/folioctl/internal/folio/folioprovider"
	"github.com/bufdev/folioctl/internal/folio/foliostatement"
	"github.com/bufdev/folioctl/internal/pkg/frankfurter"
	"github.com/bufdev/folioctl/internal/pkg/yahoo"
	"github.com/spf13/pflag"
)

const (
	// DirFlagName is the flag name for the folioctl directory containing folioctl.yaml.
	DirFlagName = "dir"
	// OfflineFlagName is the flag name for skipping all network calls.
	OfflineFlagName = "offline"
)

// BindDirFlag binds the --dir flag.
func BindDirFlag(flagSet *pflag.FlagSet, dir *string) {
	flagSet.StringVar(dir, DirFlagName, ".", "The folioctl directory containing folioctl.yaml")
}

// ReadConfig reads the configuration in the directory.
//
// Credentials are read from the container environment first, then from the .env file.
func ReadConfig(container appext.Container, dirPath string) (*folioconfig.Config, error) {
	return folioconfig.ReadConfig(dirPath, container.Env)
}

// NewFXTable returns the FX table for the config.
//
// Configured rates override the embedded defaults. If the config asks for a refresh
// and offline is false, rates are refreshed from frankfurter.dev. A failed refresh
// keeps the static rates.
func NewFXTable(ctx context.Context, container appext.Container, config *folioconfig.Config, offline bool) (*foliofx.Table, error) {
	table, err := foliofx.NewDefaultTable(config.HomeCurrency)
	if err != nil {
		return nil, err
	}
	if len(config.FXRates) > 0 {
		table = table.WithRates(config.FXRates)
	}
	if !config.FXRefresh || offline {
		return table, nil
	}
	logger := container.Logger()
	refreshed, err := foliofx.Refresh(ctx, logger, frankfurter.NewClient(), table)
	if err != nil {
		logger.Warn("fx refresh failed, using static rates", "error", err)
		return table, nil
	}
	return refreshed, nil
}

// NewParser returns a statement parser for the config.
func NewParser(ctx context.Context, container appext.Container, config *folioconfig.Config, offline bool) (foliostatement.Parser, error) {
	table, err := NewFXTable(ctx, container, config, offline)
	if err != nil {
		return nil, err
	}
	return foliostatement.NewParser(
		foliostatement.ParserWithHomeCurrency(config.HomeCurrency),
		foliostatement.ParserWithFXTable(table),
		foliostatement.ParserWithTables(foliodata.Default()),
		foliostatement.ParserWithLogger(container.Logger()),
	)
}

// NewProviderClient returns the Yahoo Finance backed provider client for the config.
func NewProviderClient(config *folioconfig.Config) (folioprovider.Client, error) {
	yahooClient, err := yahoo.NewClient(
		yahoo.ClientWithHTTPClient(&http.Client{Timeout: config.ProviderTimeout}),
		yahoo.ClientWithCookie(config.YahooCookie),
		yahoo.ClientWithCrumb(config.YahooCrumb),
		yahoo.ClientWithRequestsPerSecond(config.ProviderRequestsPerSecond),
	)
	if err != nil {
		return nil, err
	}
	return folioprovider.NewYahooClient(yahooClient), nil
}

// NewEnricher returns an enricher for the config.
//
// If offline is true, only static fallbacks, the compositions file, and symbol
// overrides are applied.
func NewEnricher(container appext.Container, config *folioconfig.Config, offline bool) (folioenrich.Enricher, error) {
	options := []folioenrich.EnricherOption{
		folioenrich.EnricherWithLogger(container.Logger()),
		folioenrich.EnricherWithTimeout(config.ProviderTimeout),
		folioenrich.EnricherWithConcurrency(config.ProviderConcurrency),
		folioenrich.EnricherWithTables(foliodata.Default()),
		folioenrich.EnricherWithSymbolOverrides(symbolOverrides(config)),
	}
	if config.CompositionsFilePath != "" {
		compositionFile, err := foliocomposition.ReadFile(config.CompositionsFilePath)
		if err != nil {
			return nil, err
		}
		options = append(options, folioenrich.EnricherWithCompositionClients(compositionFile))
	}
	var client folioprovider.Client
	if !offline {
		var err error
		client, err = NewProviderClient(config)
		if err != nil {
			return nil, err
		}
	}
	return folioenrich.NewEnricher(client, options...), nil
}

// NewAnalyzer returns the full statement pipeline for the config.
func NewAnalyzer(ctx context.Context, container appext.Container, config *folioconfig.Config, offline bool) (folioanalyze.Analyzer, error) {
	parser, err := NewParser(ctx, container, config, offline)
	if err != nil {
		return nil, err
	}
	enricher, err := NewEnricher(container, config, offline)
	if err != nil {
		return nil, err
	}
	return folioanalyze.NewAnalyzer(
		parser,
		config.HomeCurrency,
		folioanalyze.AnalyzerWithLogger(container.Logger()),
		folioanalyze.AnalyzerWithTables(foliodata.Default()),
		folioanalyze.AnalyzerWithEnricher(enricher),
	), nil
}

// *** PRIVATE ***

func symbolOverrides(config *folioconfig.Config) map[string]folioenrich.SymbolOverride {
	symbolOverrides := make(map[string]folioenrich.SymbolOverride, len(config.SymbolConfigs))
	for symbol, symbolConfig := range config.SymbolConfigs {
		symbolOverrides[symbol] = folioenrich.SymbolOverride{
			Resolved: symbolConfig.Resolved,
			Category: symbolConfig.Category,
			Sector:   symbolConfig.Sector,
			Country:  symbolConfig.Country,
			Domicile: symbolConfig.Domicile,
		}
	}
	return symbolOverrides
}
