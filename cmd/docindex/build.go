package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/grafana/docindex/internal/apiindex"
	"github.com/grafana/docindex/internal/output"
)

func newBuildCmd(opts *rootOptions) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Scan every content collection and write " + apiindex.FileName,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if outputDir != "" {
				cfg.OutputDir = outputDir
			}

			logger := opts.buildLogger(cmd.ErrOrStderr())
			ctx := apiindex.WithOnce(cmd.Context(), apiindex.NewOnce(newBuilder(cfg, logger)))

			return runBuild(ctx, apiindex.NewStore(cfg.OutputDir), cmd.OutOrStdout(), logger)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (overrides outputDir)")

	return cmd
}

// runBuild builds the index with the memoized builder carried by ctx and
// persists it. A failed write keeps the previous index when there is one.
func runBuild(ctx context.Context, store *apiindex.Store, stdout io.Writer, logger logrus.FieldLogger) error {
	once, ok := apiindex.OnceFromContext(ctx)
	if !ok {
		return errors.New("no index builder in context")
	}

	start := time.Now()
	index, err := once.Build(ctx)
	if err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	hadPrevious := store.Exists()
	writeErr := store.Write(index)

	output.FormatBuildSummary(stdout, output.BuildSummary{
		Path:     store.Path(),
		Counts:   output.CountIndex(index),
		Duration: time.Since(start),
		WriteErr: writeErr,
	})

	if writeErr == nil {
		logger.WithField("path", store.Path()).Info("index written")
		return nil
	}
	if hadPrevious {
		logger.WithError(writeErr).WithField("path", store.Path()).
			Warn("failed to write index, keeping the previous one")
		return nil
	}
	return fmt.Errorf("failed to write index: %w", writeErr)
}
