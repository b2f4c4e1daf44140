package apiindex

import (
	"context"
	"errors"
	"fmt"

	"github.com/grafana/docindex/internal/content"
)

// ErrContentNotFound is returned when no entry backs a page path.
var ErrContentNotFound = errors.New("content not found")

// Locator maps an indexed page path back to the entry it was built from, using
// the same resolution rules as the builder.
type Locator struct {
	builder *Builder
}

// NewLocator creates a locator sharing the builder's collections and tab rules.
func NewLocator(builder *Builder) *Locator {
	return &Locator{builder: builder}
}

// Locate rescans the version's collections and returns the first entry, in
// scan order, that resolves to the given section, page and tab.
func (l *Locator) Locate(ctx context.Context, path PagePath) (*content.Entry, error) {
	for _, descriptor := range l.builder.descriptorsFor(path.Version) {
		entries, err := l.builder.scanner.Scan(ctx, descriptor)
		if err != nil {
			return nil, fmt.Errorf("failed to scan collection %q for version %s: %w", descriptor.Name, path.Version, err)
		}

		for i := range entries {
			entry := &entries[i]
			if entry.Data.Section != path.Section {
				continue
			}
			if pageSlug(*entry) != path.Page {
				continue
			}
			if l.builder.tabs.Resolve(entry.FilePath, entry.Data.Tab, entry.Data.Source) == path.Tab {
				return entry, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrContentNotFound, path)
}
