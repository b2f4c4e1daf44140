// Package content describes documentation content collections and scans them
// into entries.
package content

import (
	"context"
	"path"
)

// Descriptor identifies a scannable content collection.
type Descriptor struct {
	// Name is the collection name used in logs and errors.
	Name string `yaml:"name" json:"name"`

	// Base is a directory, relative to the project root, holding the collection.
	Base string `yaml:"base,omitempty" json:"base,omitempty"`

	// PackageName is an npm package resolved under node_modules instead of Base.
	PackageName string `yaml:"packageName,omitempty" json:"packageName,omitempty"`

	// Pattern is a glob relative to the collection directory (e.g. "**/*.md").
	Pattern string `yaml:"pattern" json:"pattern"`

	// Version is the documentation version the collection belongs to.
	Version string `yaml:"version,omitempty" json:"version,omitempty"`
}

// Dir returns the collection directory relative to the project root.
func (d Descriptor) Dir() string {
	if d.PackageName != "" {
		return path.Join("node_modules", d.PackageName)
	}
	return d.Base
}

// EntryData is the frontmatter metadata of an entry.
type EntryData struct {
	// Section groups pages within a version (e.g. "components").
	Section string `yaml:"section"`

	// ID is the free-form page title; its kebab-cased form is the page slug.
	ID string `yaml:"id"`

	// Tab explicitly names the variant the entry documents.
	Tab string `yaml:"tab"`

	// Source is an alternative to Tab used by some collections.
	Source string `yaml:"source"`
}

// Entry is a single documentation unit produced by a scan.
type Entry struct {
	ID       string
	FilePath string
	Body     string
	Data     EntryData
}

// Scanner turns a descriptor into its entries.
type Scanner interface {
	Scan(ctx context.Context, descriptor Descriptor) ([]Entry, error)
}

// ScannerFunc adapts a function to the Scanner interface.
type ScannerFunc func(ctx context.Context, descriptor Descriptor) ([]Entry, error)

// Scan calls f.
func (f ScannerFunc) Scan(ctx context.Context, descriptor Descriptor) ([]Entry, error) {
	return f(ctx, descriptor)
}
