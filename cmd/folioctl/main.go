// Copyright 2026 Peter Edge
//
// All rights reserved.

package main

import (
	"context"

	"buf.build/go/app/appcmd"
	"buf.build/go/app/appext"
	"github.com/bufdev/folioctl/cmd/folioctl/internal/command/config"
	"github.com/bufdev/folioctl/cmd/folioctl/internal/command/portfolio"
	"github.com/bufdev/folioctl/cmd/folioctl/internal/command/serve"
	"github.com/bufdev/folioctl/cmd/folioctl/internal/command/statement"
	"github.com/bufdev/folioctl/cmd/folioctl/internal/command/symbol"
)

func main() {
	appcmd.Main(context.Background(), newRootCommand("folioctl"))
}

// newRootCommand creates the root folioctl command with all sub-commands.
func newRootCommand(name string) *appcmd.Command {
	builder := appext.NewBuilder(name)
	return &appcmd.Command{
		Use:                 name,
		Short:               "Parse portfolio statements and compute look-through allocations",
		Long: `Parse portfolio statements and compute look-through allocations.

Statements are bank or broker exports pasted as text: delimited tables, HTML
tables, IBKR activity statements, or loose summary text. "statement parse"
extracts the positions, cash, and totals without any network calls.
"portfolio overview" additionally resolves symbols and fund compositions
through Yahoo Finance and prints the allocation by asset class, currency,
country, sector, and domicile. "serve" exposes both over HTTP.

Configuration is read from folioctl.yaml in the directory given by --dir.`,
		BindPersistentFlags: builder.BindRoot,
		SubCommands: []*appcmd.Command{
			config.NewCommand("config", builder),
			statement.NewCommand("statement", builder),
			portfolio.NewCommand("portfolio", builder),
			symbol.NewCommand("symbol", builder),
			serve.NewCommand("serve", builder),
		},
	}
}
