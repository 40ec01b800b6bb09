package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/frankli0324/async-http-client/internal/stubserver"
)

func (a *app) stubCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Run the stub server requests could be tested against",
		Long: `Run the stub server until interrupted:

  GET  /           200 "hello, world!"
  POST /post-test  204, no body`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(a.context(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return stubserver.New(stubserver.Options{
				Addr:            a.cfg.Addr,
				CloseConnection: a.cfg.Close,
			}).ListenAndServe(ctx)
		},
	}
	cmd.Flags().String("addr", stubserver.DefaultAddr, "address to listen on")
	cmd.Flags().Bool("close", false, `answer "GET /" with "Connection: close"`)
	return cmd
}
