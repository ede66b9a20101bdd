// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package symbol implements the "symbol" command group.
package symbol

import (
	"buf.build/go/app/appcmd"
	"buf.build/go/app/appext"
	"github.com/bufdev/folioctl/cmd/folioctl/internal/command/symbol/symbolresolve"
)

// NewCommand returns a new symbol command group.
func NewCommand(name string, builder appext.SubCommandBuilder) *appcmd.Command {
	return &appcmd.Command{
		Use:   name,
		Short: "Work with provider symbols",
		SubCommands: []*appcmd.Command{
			symbolresolve.NewCommand("resolve", builder),
		},
	}
}
