// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package symbolresolve implements the "symbol resolve" command.
package symbolresolve

import (
	"context"
	"strings"

	"buf.build/go/app/appcmd"
	"buf.build/go/app/appext"
	"github.com/bufdev/folioctl/cmd/folioctl/internal/foliocmd"
	"github.com/bufdev/folioctl/internal/folio/foliodata"
	"github.com/bufdev/folioctl/internal/folio/folioportfolio"
	"github.com/bufdev/folioctl/internal/folio/foliosymbol"
	"github.com/bufdev/folioctl/internal/pkg/cliio"
	"github.com/spf13/pflag"
)

// candidatesFlagName is the flag name for printing the candidates without searching.
const candidatesFlagName = "candidates"

// NewCommand returns a new symbol resolve command.
func NewCommand(name string, builder appext.SubCommandBuilder) *appcmd.Command {
	flags := newFlags()
	return &appcmd.Command{
		Use:   name + " <symbol>...",
		Short: "Resolve statement symbols to Yahoo Finance symbols",
		Long: `Resolve statement symbols to Yahoo Finance symbols.

Each candidate symbol is searched in order until the provider confirms one.
Symbols that cannot be confirmed are printed unchanged with an Unknown exchange.
With --candidates, prints the candidates that would be searched without
making any network calls.`,
		Args: appcmd.MinimumNArgs(1),
		Run: builder.NewRunFunc(
			func(ctx context.Context, container appext.Container) error {
				return run(ctx, container, flags)
			},
		),
		BindFlags: flags.Bind,
	}
}

type flags struct {
	// Dir is the folioctl directory containing folioctl.yaml.
	Dir string
	// Format is the output format (table, csv, json).
	Format string
	// Candidates prints the candidates without searching.
	Candidates bool
}

func newFlags() *flags {
	return &flags{}
}

// Bind registers the flag definitions with the given flag set.
func (f *flags) Bind(flagSet *pflag.FlagSet) {
	foliocmd.BindDirFlag(flagSet, &f.Dir)
	foliocmd.BindFormatFlag(flagSet, &f.Format)
	flagSet.BoolVar(&f.Candidates, candidatesFlagName, false, "Print the candidate symbols without searching")
}

func run(ctx context.Context, container appext.Container, flags *flags) error {
	format, err := foliocmd.ParseFormat(flags.Format)
	if err != nil {
		return err
	}
	config, err := foliocmd.ReadConfig(container, flags.Dir)
	if err != nil {
		return err
	}
	overrides := make(map[string]string, len(config.SymbolConfigs))
	for symbol, symbolConfig := range config.SymbolConfigs {
		if symbolConfig.Resolved != "" {
			overrides[symbol] = symbolConfig.Resolved
		}
	}
	options := []foliosymbol.ResolverOption{
		foliosymbol.ResolverWithLogger(container.Logger()),
		foliosymbol.ResolverWithTimeout(config.ProviderTimeout),
		foliosymbol.ResolverWithTables(foliodata.Default()),
		foliosymbol.ResolverWithOverrides(overrides),
	}
	symbols := make([]string, 0, container.NumArgs())
	for i := range container.NumArgs() {
		symbols = append(symbols, container.Arg(i))
	}
	if flags.Candidates {
		resolver := foliosymbol.NewResolver(nil, options...)
		return writeCandidates(container, format, resolver, symbols)
	}
	client, err := foliocmd.NewProviderClient(config)
	if err != nil {
		return err
	}
	resolver := foliosymbol.NewResolver(client, options...)
	results := make([]*folioportfolio.SymbolResolutionResult, 0, len(symbols))
	for _, symbol := range symbols {
		results = append(results, resolver.Resolve(ctx, symbol))
	}
	writer := container.Stdout()
	switch format {
	case cliio.FormatTable, cliio.FormatCSV:
		headers := []string{"SYMBOL", "RESOLVED", "EXCHANGE", "TYPE", "CURRENCY", "NAME"}
		rows := make([][]string, 0, len(results))
		for _, result := range results {
			rows = append(rows, []string{
				result.OriginalSymbol,
				result.ResolvedSymbol,
				result.Exchange,
				result.Type,
				result.Currency,
				result.Name,
			})
		}
		if format == cliio.FormatCSV {
			return cliio.WriteCSVRecords(writer, append([][]string{headers}, rows...))
		}
		return cliio.WriteTable(writer, headers, rows)
	case cliio.FormatJSON:
		return cliio.WriteJSON(writer, results...)
	default:
		return appcmd.NewInvalidArgumentErrorf("unsupported format: %s", format)
	}
}

func writeCandidates(container appext.Container, format cliio.Format, resolver foliosymbol.Resolver, symbols []string) error {
	writer := container.Stdout()
	type symbolCandidates struct {
		Symbol     string   `json:"symbol"`
		Candidates []string `json:"candidates"`
	}
	switch format {
	case cliio.FormatTable:
		rows := make([][]string, 0, len(symbols))
		for _, symbol := range symbols {
			rows = append(rows, []string{symbol, strings.Join(resolver.Candidates(symbol), " ")})
		}
		return cliio.WriteTable(writer, []string{"SYMBOL", "CANDIDATES"}, rows)
	case cliio.FormatCSV:
		records := [][]string{{"symbol", "candidate"}}
		for _, symbol := range symbols {
			for _, candidate := range resolver.Candidates(symbol) {
				records = append(records, []string{symbol, candidate})
			}
		}
		return cliio.WriteCSVRecords(writer, records)
	case cliio.FormatJSON:
		objects := make([]symbolCandidates, 0, len(symbols))
		for _, symbol := range symbols {
			objects = append(objects, symbolCandidates{Symbol: symbol, Candidates: resolver.Candidates(symbol)})
		}
		return cliio.WriteJSON(writer, objects...)
	default:
		return appcmd.NewInvalidArgumentErrorf("unsupported format: %s", format)
	}
}
