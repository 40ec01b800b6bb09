package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	asynchttp "github.com/frankli0324/async-http-client"
)

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <url>",
		Short: "Send a GET request and print the response",
		Example: `  ahc get http://localhost:3000/
  ahc get -H "Accept: text/plain" https://example.com/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := asynchttp.Get(args[0])
			if err != nil {
				return fmt.Errorf("new request: %w", err)
			}
			return a.do(cmd, req)
		},
	}
}

func (a *app) postCmd() *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:     "post <url>",
		Short:   "Send a POST request and print the response",
		Example: `  ahc post http://localhost:3000/post-test --data abcd`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := asynchttp.Post(args[0], data)
			if err != nil {
				return fmt.Errorf("new request: %w", err)
			}
			return a.do(cmd, req)
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "request body")
	return cmd
}

func (a *app) do(cmd *cobra.Command, req *asynchttp.Request) error {
	for name, values := range a.cfg.Header {
		for _, v := range values {
			req.WithHeader(name, v)
		}
	}
	ctx := a.context(cmd)
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	client := &asynchttp.Client{}
	client.Use(asynchttp.RequestID(""), asynchttp.Logging())
	resp, err := client.CtxDo(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, resp.String())
	return nil
}
