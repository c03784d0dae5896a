package main

import (
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/unisearch/internal/domain/search/page"
)

func newCompileCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "compile",
		Short: "Print the search document for a request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := opts.readRequest(cmd)
			if err != nil {
				return err
			}
			w, err := page.ComputeWindow(req.Arguments())
			if err != nil {
				return err
			}
			c, err := opts.compiler()
			if err != nil {
				return err
			}
			return opts.print(cmd, c.Build(req.Params(w)))
		},
	}
}
