// Package main provides ahc, a command line front end of the client and
// the stub server it is tested against.
package main

import (
	"fmt"
	"log/slog"
	"os"
)

func main() {
	// replaced once the configured level is known
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
