// Package config loads the typed configuration of the content index.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/grafana/docindex/internal/apiindex"
	"github.com/grafana/docindex/internal/content"
)

// DefaultFile is the configuration file used when none is given.
const DefaultFile = "docindex.yaml"

// Environment variables overriding configuration values.
const (
	EnvConfig    = "DOCINDEX_CONFIG"
	EnvRoot      = "DOCINDEX_ROOT"
	EnvOutputDir = "DOCINDEX_OUTPUT_DIR"
	EnvAddr      = "DOCINDEX_ADDR"
	EnvIndexURL  = "DOCINDEX_INDEX_URL"
)

var (
	// ErrNoDescriptors is returned when no content collections are configured.
	ErrNoDescriptors = errors.New("no content descriptors configured: set `content` in the configuration file")

	// ErrNoOutputDir is returned when the output directory cannot be resolved.
	ErrNoOutputDir = errors.New("no output directory configured: set `outputDir` or " + EnvOutputDir)

	// ErrNoVersions is returned when no version is declared or implied by the collections.
	ErrNoVersions = errors.New("no versions configured: set `versions` or tag collections with `version`")
)

// Config is the content index configuration.
type Config struct {
	// Root is the project root collection directories are resolved against.
	Root string `yaml:"root"`

	// OutputDir is where apiIndex.json is written.
	OutputDir string `yaml:"outputDir"`

	// Versions lists the documentation versions to index.
	Versions []string `yaml:"versions"`

	// DefaultVersion receives collections without a version.
	DefaultVersion string `yaml:"defaultVersion"`

	// Content lists the collections to scan.
	Content []content.Descriptor `yaml:"content"`

	// TabPackages overrides the package-to-tab table.
	TabPackages map[string]string `yaml:"tabPackages"`
}

// LookupFunc looks up an environment variable.
type LookupFunc func(key string) (string, bool)

// Load reads the configuration file at path and applies environment overrides.
// Relative directories are resolved against the file's directory.
func Load(path string) (*Config, error) {
	// #nosec G304 -- path is provided by the operator
	//nolint:forbidigo // File I/O necessary for reading configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration %s: %w", path, err)
	}

	return Parse(data, filepath.Dir(path), os.LookupEnv)
}

// Parse decodes configuration data, applies overrides from lookup and validates it.
func Parse(data []byte, baseDir string, lookup LookupFunc) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if lookup != nil {
		if v, ok := lookup(EnvRoot); ok && v != "" {
			cfg.Root = v
		}
		if v, ok := lookup(EnvOutputDir); ok && v != "" {
			cfg.OutputDir = v
		}
	}

	if cfg.Root == "" {
		cfg.Root = "."
	}
	cfg.Root = resolve(baseDir, cfg.Root)
	if cfg.OutputDir != "" {
		cfg.OutputDir = resolve(baseDir, cfg.OutputDir)
	}

	if len(cfg.Versions) == 0 {
		cfg.Versions = cfg.collectionVersions()
	}
	if cfg.DefaultVersion == "" && len(cfg.Versions) > 0 {
		cfg.DefaultVersion = cfg.Versions[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration can drive a build.
func (c *Config) Validate() error {
	if len(c.Content) == 0 {
		return ErrNoDescriptors
	}
	if c.OutputDir == "" {
		return ErrNoOutputDir
	}
	if len(c.Versions) == 0 {
		return ErrNoVersions
	}
	if c.DefaultVersion != "" && !slices.Contains(c.Versions, c.DefaultVersion) {
		return fmt.Errorf("`defaultVersion` %q is not listed in `versions`", c.DefaultVersion)
	}
	for i, d := range c.Content {
		if d.Name == "" {
			return fmt.Errorf("content[%d]: `name` is required", i)
		}
		if d.Base == "" && d.PackageName == "" {
			return fmt.Errorf("content %q: one of `base` or `packageName` is required", d.Name)
		}
		if d.Version != "" && !slices.Contains(c.Versions, d.Version) {
			return fmt.Errorf("content %q: version %q is not listed in `versions`", d.Name, d.Version)
		}
	}
	return nil
}

// Descriptors returns the configured content collections.
func (c *Config) Descriptors() []content.Descriptor {
	return slices.Clone(c.Content)
}

// TabResolver returns a tab resolver using the default package table with the
// configured entries layered on top.
func (c *Config) TabResolver() *apiindex.TabResolver {
	if len(c.TabPackages) == 0 {
		return apiindex.NewTabResolver(nil)
	}
	packages := maps.Clone(apiindex.DefaultTabPackages)
	maps.Copy(packages, c.TabPackages)
	return apiindex.NewTabResolver(packages)
}

func (c *Config) collectionVersions() []string {
	var versions []string
	for _, d := range c.Content {
		if d.Version != "" && !slices.Contains(versions, d.Version) {
			versions = append(versions, d.Version)
		}
	}
	return versions
}

func resolve(baseDir, p string) string {
	if filepath.IsAbs(p) || baseDir == "" {
		return p
	}
	return filepath.Join(baseDir, p)
}
