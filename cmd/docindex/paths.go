package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grafana/docindex/internal/apiindex"
)

func newPathsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "List the version/section/page/tab paths a static site generates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			once, ok := apiindex.OnceFromContext(ctx)
			if !ok {
				once = apiindex.NewOnce(newBuilder(cfg, opts.buildLogger(cmd.ErrOrStderr())))
				ctx = apiindex.WithOnce(ctx, once)
			}

			paths, err := apiindex.NewResolver(apiindex.BuildLoader(once)).Paths(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range paths {
				if _, err := fmt.Fprintln(out, p.String()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
