// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package portfoliooverview implements the "portfolio overview" command.
package portfoliooverview

import (
	"context"

	"buf.build/go/app/appcmd"
	"buf.build/go/app/appext"
	"github.com/bufdev/folioctl/cmd/folioctl/internal/foliocmd"
	"github.com/bufdev/folioctl/internal/folio/folioportfolio"
	"github.com/bufdev/folioctl/internal/pkg/cliio"
	"github.com/spf13/pflag"
)

// NewCommand returns a new portfolio overview command.
func NewCommand(name string, builder appext.SubCommandBuilder) *appcmd.Command {
	flags := newFlags()
	return &appcmd.Command{
		Use:   name + " <file>",
		Short: "Display enriched positions and look-through allocations",
		Long: `Display enriched positions and look-through allocations.

Parses the statement, resolves symbols and fetches quotes, metadata, and fund
compositions from Yahoo Finance, then prints the allocation by asset class,
currency, country, sector, and domicile. Use "-" to read from stdin.

With --offline, only static fallbacks, the compositions file, and the symbol
overrides from folioctl.yaml are used.`,
		Args: appcmd.ExactArgs(1),
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
	// Offline skips all network calls.
	Offline bool
}

func newFlags() *flags {
	return &flags{}
}

// Bind registers the flag definitions with the given flag set.
func (f *flags) Bind(flagSet *pflag.FlagSet) {
	foliocmd.BindDirFlag(flagSet, &f.Dir)
	foliocmd.BindFormatFlag(flagSet, &f.Format)
	flagSet.BoolVar(&f.Offline, foliocmd.OfflineFlagName, false, "Skip all network calls and use static data only")
}

func run(ctx context.Context, container appext.Container, flags *flags) error {
	format, err := foliocmd.ParseFormat(flags.Format)
	if err != nil {
		return err
	}
	data, err := cliio.ReadInput(container.Stdin(), container.Arg(0))
	if err != nil {
		return err
	}
	config, err := foliocmd.ReadConfig(container, flags.Dir)
	if err != nil {
		return err
	}
	analyzer, err := foliocmd.NewAnalyzer(ctx, container, config, flags.Offline)
	if err != nil {
		return err
	}
	portfolio, err := analyzer.Analyze(ctx, string(data))
	if err != nil {
		return err
	}
	logDegraded(container, portfolio)
	return foliocmd.WritePortfolio(container.Stdout(), format, portfolio, config.HomeCurrency)
}

// logDegraded warns about positions that could not be classified.
func logDegraded(container appext.Container, portfolio *folioportfolio.Portfolio) {
	logger := container.Logger()
	for _, position := range portfolio.Positions {
		if !folioportfolio.IsKnown(position.Sector) && position.Composition == nil {
			logger.Warn("position not classified", "symbol", position.Symbol, "name", position.Name)
		}
	}
}
