// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package statementparse implements the "statement parse" command.
package statementparse

import (
	"context"

	"buf.build/go/app/appcmd"
	"buf.build/go/app/appext"
	"github.com/bufdev/folioctl/cmd/folioctl/internal/foliocmd"
	"github.com/bufdev/folioctl/internal/pkg/cliio"
	"github.com/spf13/pflag"
)

// NewCommand returns a new statement parse command.
func NewCommand(name string, builder appext.SubCommandBuilder) *appcmd.Command {
	flags := newFlags()
	return &appcmd.Command{
		Use:   name + " <file>",
		Short: "Parse a statement into positions without enrichment",
		Long: `Parse a statement into positions without enrichment.

The statement may be delimited text, an HTML table, an Interactive Brokers
activity statement, or free-form summary text. Use "-" to read from stdin.
Values are converted to the home currency with the configured FX rates.`,
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
	// Offline skips the FX rate refresh.
	Offline bool
}

func newFlags() *flags {
	return &flags{}
}

// Bind registers the flag definitions with the given flag set.
func (f *flags) Bind(flagSet *pflag.FlagSet) {
	foliocmd.BindDirFlag(flagSet, &f.Dir)
	foliocmd.BindFormatFlag(flagSet, &f.Format)
	flagSet.BoolVar(&f.Offline, foliocmd.OfflineFlagName, false, "Skip the FX rate refresh")
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
	parser, err := foliocmd.NewParser(ctx, container, config, flags.Offline)
	if err != nil {
		return err
	}
	portfolio, err := parser.Parse(string(data))
	if err != nil {
		return err
	}
	return foliocmd.WritePortfolio(container.Stdout(), format, portfolio, config.HomeCurrency)
}
