package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grafana/docindex/internal/config"
	"github.com/grafana/docindex/internal/output"
)

func newTreeCmd(opts *rootOptions) *cobra.Command {
	var version, indexURL string

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the index as a version, section, page and tab tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, _, err := opts.openCatalog(indexURL, opts.buildLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}

			index, err := catalog.Resolver.Index(cmd.Context())
			if err != nil {
				return err
			}
			if version != "" && !index.HasVersion(version) {
				return fmt.Errorf("version not found: %s", version)
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), output.IndexTree(index, version))
			return err
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "Only print this version")
	cmd.Flags().StringVar(&indexURL, "index-url", envOrDefault(config.EnvIndexURL, ""),
		"Base URL serving apiIndex.json")

	return cmd
}
