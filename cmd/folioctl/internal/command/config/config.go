// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package config implements the "config" command group.
package config

import (
	"buf.build/go/app/appcmd"
	"buf.build/go/app/appext"
	"github.com/bufdev/folioctl/cmd/folioctl/internal/command/config/configedit"
	"github.com/bufdev/folioctl/cmd/folioctl/internal/command/config/configinit"
	"github.com/bufdev/folioctl/cmd/folioctl/internal/command/config/configvalidate"
)

// NewCommand returns a new config command group with init, edit, and validate sub-commands.
func NewCommand(name string, builder appext.SubCommandBuilder) *appcmd.Command {
	return &appcmd.Command{
		Use:   name,
		Short: "Manage folioctl configuration",
		Long: `Manage folioctl.yaml.

The file sets the home currency, static FX rates, provider limits, the fund
compositions file, and per-symbol overrides of the resolved symbol and
classification. Yahoo Finance credentials are read from the environment or a
.env file next to folioctl.yaml, never from folioctl.yaml itself.`,
		SubCommands: []*appcmd.Command{
			configinit.NewCommand("init", builder),
			configedit.NewCommand("edit", builder),
			configvalidate.NewCommand("validate", builder),
		},
	}
}
