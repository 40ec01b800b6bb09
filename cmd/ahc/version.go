package main

import (
	"fmt"

	"github.com/spf13/cobra"

	asynchttp "github.com/frankli0324/async-http-client"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "ahc", asynchttp.Version)
		},
	}
}
