package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	asynchttp "github.com/frankli0324/async-http-client"
	"github.com/frankli0324/async-http-client/internal/ctxlog"
)

type app struct {
	out, errOut io.Writer
	configFile  string
	cfg         *config
	logger      *slog.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}
	root := &cobra.Command{
		Use:     "ahc",
		Short:   "ahc sends HTTP/1.1 requests and serves the stub test server",
		Version: asynchttp.Version,
		Long: `ahc is a small HTTP/1.1 client. Responses are printed as the status
line, the headers sorted by name and a short preview of the body.

Settings are read from ./ahc.yaml (or --config), AHC_* environment
variables and flags, the latter taking precedence.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default: ./ahc.yaml)")
	flags.String("log-level", "info", "one of debug, info, warn, error")
	flags.Duration("timeout", defaultTimeout, "timeout of a whole request")
	flags.StringArrayP("header", "H", nil, `extra request header "Name: value", repeatable`)

	root.AddCommand(a.getCmd(), a.postCmd(), a.stubCmd(), versionCmd())
	return root
}

func (a *app) init(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(a.configFile, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: cfg.LogLevel}))
	return nil
}

// context returns the command context carrying the configured logger.
func (a *app) context(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctxlog.WithLogger(ctx, a.logger)
}
