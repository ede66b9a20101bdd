// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package serve implements the "serve" command.
package serve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"buf.build/go/app/appcmd"
	"buf.build/go/app/appext"
	"github.com/bufdev/folioctl/cmd/folioctl/internal/foliocmd"
	"github.com/bufdev/folioctl/internal/folio/folioapi"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

const (
	// hostFlagName is the flag name for the listen host.
	hostFlagName = "host"
	// portFlagName is the flag name for the listen port.
	portFlagName = "port"

	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// NewCommand returns a new serve command.
func NewCommand(name string, builder appext.SubCommandBuilder) *appcmd.Command {
	flags := newFlags()
	return &appcmd.Command{
		Use:   name,
		Short: "Serve the statement API over HTTP",
		Long: `Serve the statement API over HTTP.

POST /v1/statements/parse parses the statement text in the request body.
POST /v1/portfolio/analyze also enriches the positions and computes the
allocations. Both return JSON.`,
		Args: appcmd.NoArgs,
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
	// Host is the listen host.
	Host string
	// Port is the listen port.
	Port int
	// Offline skips all network calls.
	Offline bool
}

func newFlags() *flags {
	return &flags{}
}

// Bind registers the flag definitions with the given flag set.
func (f *flags) Bind(flagSet *pflag.FlagSet) {
	foliocmd.BindDirFlag(flagSet, &f.Dir)
	flagSet.StringVar(&f.Host, hostFlagName, "localhost", "The host to listen on")
	flagSet.IntVar(&f.Port, portFlagName, 8080, "The port to listen on")
	flagSet.BoolVar(&f.Offline, foliocmd.OfflineFlagName, false, "Skip all network calls and use static data only")
}

func run(ctx context.Context, container appext.Container, flags *flags) error {
	if flags.Port < 0 || flags.Port > 65535 {
		return appcmd.NewInvalidArgumentErrorf("invalid --%s: %d", portFlagName, flags.Port)
	}
	config, err := foliocmd.ReadConfig(container, flags.Dir)
	if err != nil {
		return err
	}
	analyzer, err := foliocmd.NewAnalyzer(ctx, container, config, flags.Offline)
	if err != nil {
		return err
	}
	logger := container.Logger()
	server := &http.Server{
		Addr:              net.JoinHostPort(flags.Host, strconv.Itoa(flags.Port)),
		Handler:           folioapi.NewHandler(analyzer, folioapi.HandlerWithLogger(logger)),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("serving", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return group.Wait()
}
