// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package configvalidate implements the "config validate" command.
package configvalidate

import (
	"context"

	"buf.build/go/app/appcmd"
	"buf.build/go/app/appext"
	"github.com/bufdev/folioctl/cmd/folioctl/internal/foliocmd"
	"github.com/bufdev/folioctl/internal/folio/folioconfig"
	"github.com/spf13/pflag"
)

// NewCommand returns a new config validate command that validates a configuration file.
func NewCommand(name string, builder appext.SubCommandBuilder) *appcmd.Command {
	flags := newFlags()
	return &appcmd.Command{
		Use:   name,
		Short: "Validate the configuration file",
		Args:  appcmd.NoArgs,
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
}

func newFlags() *flags {
	return &flags{}
}

// Bind registers the flag definitions with the given flag set.
func (f *flags) Bind(flagSet *pflag.FlagSet) {
	foliocmd.BindDirFlag(flagSet, &f.Dir)
}

func run(_ context.Context, _ appext.Container, flags *flags) error {
	if flags.Dir == "" {
		return appcmd.NewInvalidArgumentErrorf("--%s is required", foliocmd.DirFlagName)
	}
	return folioconfig.ValidateConfigFile(folioconfig.ConfigFilePath(flags.Dir))
}
