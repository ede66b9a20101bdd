// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package portfolio implements the "portfolio" command group.
package portfolio

import (
	"buf.build/go/app/appcmd"
	"buf.build/go/app/appext"
	"github.com/bufdev/folioctl/cmd/folioctl/internal/command/portfolio/portfoliooverview"
)

// NewCommand returns a new portfolio command group.
func NewCommand(name string, builder appext.SubCommandBuilder) *appcmd.Command {
	return &appcmd.Command{
		Use:   name,
		Short: "Analyze portfolios",
		SubCommands: []*appcmd.Command{
			portfoliooverview.NewCommand("overview", builder),
		},
	}
}
