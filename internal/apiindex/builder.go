package apiindex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/grafana/docindex/internal/content"
)

// ErrNoVersions is returned when a builder has no versions to index.
var ErrNoVersions = errors.New("no versions specified")

// Builder assembles an ApiIndex from content collections.
type Builder struct {
	versions       []string
	defaultVersion string
	descriptors    []content.Descriptor
	scanner        content.Scanner
	tabs           *TabResolver
	logger         logrus.FieldLogger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithDefaultVersion assigns descriptors without a version to version.
func WithDefaultVersion(version string) BuilderOption {
	return func(b *Builder) { b.defaultVersion = version }
}

// WithTabResolver overrides the package-to-tab table.
func WithTabResolver(r *TabResolver) BuilderOption {
	return func(b *Builder) { b.tabs = r }
}

// WithLogger sets the progress logger.
func WithLogger(logger logrus.FieldLogger) BuilderOption {
	return func(b *Builder) { b.logger = logger }
}

// NewBuilder creates a builder for the given versions and collections.
func NewBuilder(
	versions []string,
	descriptors []content.Descriptor,
	scanner content.Scanner,
	opts ...BuilderOption,
) *Builder {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	b := &Builder{
		versions:    versions,
		descriptors: descriptors,
		scanner:     scanner,
		tabs:        NewTabResolver(nil),
		logger:      discard,
	}
	if len(versions) > 0 {
		b.defaultVersion = versions[0]
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build scans every collection of every version and returns the index.
// A failed scan fails the whole build.
func (b *Builder) Build(ctx context.Context) (*ApiIndex, error) {
	if len(b.versions) == 0 {
		return nil, ErrNoVersions
	}

	versions := slices.Clone(b.versions)
	slices.Sort(versions)
	versions = slices.Compact(versions)

	results := make([]*accumulator, len(versions))
	g, gctx := errgroup.WithContext(ctx)
	for i, version := range versions {
		g.Go(func() error {
			acc, err := b.buildVersion(gctx, version)
			if err != nil {
				return err
			}
			results[i] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	index := New()
	index.Versions = versions
	for _, acc := range results {
		acc.writeTo(index)
	}

	return index, nil
}

// descriptorsFor returns the descriptors tagged with version.
func (b *Builder) descriptorsFor(version string) []content.Descriptor {
	var selected []content.Descriptor
	for _, d := range b.descriptors {
		v := d.Version
		if v == "" {
			v = b.defaultVersion
		}
		if v == version {
			selected = append(selected, d)
		}
	}
	return selected
}

func (b *Builder) buildVersion(ctx context.Context, version string) (*accumulator, error) {
	descriptors := b.descriptorsFor(version)
	logger := b.logger.WithField("version", version)

	scanned := make([][]content.Entry, len(descriptors))
	g, gctx := errgroup.WithContext(ctx)
	for i, descriptor := range descriptors {
		g.Go(func() error {
			entries, err := b.scanner.Scan(gctx, descriptor)
			if err != nil {
				return fmt.Errorf("failed to scan collection %q for version %s: %w", descriptor.Name, version, err)
			}
			logger.WithFields(logrus.Fields{
				"descriptor": descriptor.Name,
				"entries":    len(entries),
			}).Debug("Scanned content collection")
			scanned[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	acc := newAccumulator(version)
	for _, entries := range scanned {
		for _, entry := range entries {
			acc.add(entry, b.tabs)
		}
	}

	logger.WithFields(logrus.Fields{
		"collections": len(descriptors),
		"sections":    len(acc.pages),
	}).Info("Indexed version")

	return acc, nil
}

// accumulator collects the index structures of a single version.
type accumulator struct {
	version  string
	pages    map[string]map[string]bool // section -> page set
	tabs     map[string]map[string]bool // section::page -> tab set
	examples map[string][]ExampleRecord // section::page::tab -> examples
}

func newAccumulator(version string) *accumulator {
	return &accumulator{
		version:  version,
		pages:    make(map[string]map[string]bool),
		tabs:     make(map[string]map[string]bool),
		examples: make(map[string][]ExampleRecord),
	}
}

func (a *accumulator) add(entry content.Entry, tabs *TabResolver) {
	section := entry.Data.Section
	if section == "" {
		return
	}

	page := pageSlug(entry)
	if page == "" {
		return
	}

	if a.pages[section] == nil {
		a.pages[section] = make(map[string]bool)
	}
	a.pages[section][page] = true

	tab := tabs.Resolve(entry.FilePath, entry.Data.Tab, entry.Data.Source)
	if tab == "" {
		return
	}

	pageKey := Key(section, page)
	if a.tabs[pageKey] == nil {
		a.tabs[pageKey] = make(map[string]bool)
	}
	a.tabs[pageKey][tab] = true

	if examples := ExtractExamples(entry.Body); len(examples) > 0 {
		tabKey := Key(section, page, tab)
		a.examples[tabKey] = mergeExamples(a.examples[tabKey], examples)
	}
}

func (a *accumulator) writeTo(index *ApiIndex) {
	index.Sections[a.version] = sortedKeys(a.pages)

	for section, pages := range a.pages {
		index.Pages[Key(a.version, section)] = sortedKeys(pages)
	}
	for pageKey, tabs := range a.tabs {
		index.Tabs[Key(a.version, pageKey)] = SortTabs(mapKeys(tabs))
	}
	for tabKey, examples := range a.examples {
		index.Examples[Key(a.version, tabKey)] = examples
	}
}

// pageSlug returns the kebab-cased page id of an entry.
func pageSlug(entry content.Entry) string {
	id := entry.Data.ID
	if id == "" {
		id = entry.ID
	}
	return KebabCase(id)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := mapKeys(m)
	sort.Strings(keys)
	return keys
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
