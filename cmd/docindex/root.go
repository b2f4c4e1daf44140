package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/grafana/docindex/internal/apiindex"
	"github.com/grafana/docindex/internal/buildinfo"
	"github.com/grafana/docindex/internal/config"
	"github.com/grafana/docindex/internal/content"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "docindex",
		Short: "Build and serve the hierarchical content index of a documentation site",
		Long: `docindex scans the content collections of every documentation version and
writes apiIndex.json, a version -> section -> page -> tab -> example index.
The index can then be browsed from the terminal, over HTTP or through MCP tools.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Version = buildinfo.Version
	cmd.SetVersionTemplate(fmt.Sprintf("docindex %s (commit %s, built %s)\n",
		buildinfo.Version, buildinfo.Commit, buildinfo.Date))

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"Configuration file (default $"+config.EnvConfig+" or "+config.DefaultFile+")")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Log build progress at debug level")

	cmd.AddCommand(
		newBuildCmd(opts),
		newServeCmd(opts),
		newMCPCmd(opts),
		newTreeCmd(opts),
		newPathsCmd(opts),
	)

	return cmd
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}
	if path == "" {
		path = config.DefaultFile
	}
	return config.Load(path)
}

func (o *rootOptions) buildLogger(w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if o.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func newBuilder(cfg *config.Config, logger logrus.FieldLogger) *apiindex.Builder {
	return apiindex.NewBuilder(
		cfg.Versions,
		cfg.Descriptors(),
		content.NewFileScanner(cfg.Root),
		apiindex.WithDefaultVersion(cfg.DefaultVersion),
		apiindex.WithTabResolver(cfg.TabResolver()),
		apiindex.WithLogger(logger),
	)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
