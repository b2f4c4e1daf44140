package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrCollectionNotFound is returned when a descriptor's directory does not exist.
var ErrCollectionNotFound = errors.New("content collection directory not found")

// FileScanner scans collections on the local filesystem.
type FileScanner struct {
	root string
}

// NewFileScanner creates a scanner resolving descriptor directories against root.
func NewFileScanner(root string) *FileScanner {
	return &FileScanner{root: root}
}

// Scan walks the descriptor's directory and parses every file matching its pattern.
// Entries are returned sorted by file path.
func (s *FileScanner) Scan(ctx context.Context, descriptor Descriptor) ([]Entry, error) {
	dir := filepath.Join(s.root, filepath.FromSlash(descriptor.Dir()))

	//nolint:forbidigo // File system check necessary for collection validation
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s (collection %s)", ErrCollectionNotFound, dir, descriptor.Name)
	}

	pattern := descriptor.Pattern
	if pattern == "" {
		pattern = "**/*.md"
	}

	var entries []Entry
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return fmt.Errorf("failed to compute relative path: %w", err)
		}
		if !MatchGlob(pattern, filepath.ToSlash(rel)) {
			return nil
		}

		entry, err := readEntry(p)
		if err != nil {
			return err
		}
		entries = append(entries, *entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan collection %s: %w", descriptor.Name, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].FilePath < entries[j].FilePath
	})

	return entries, nil
}

func readEntry(p string) (*Entry, error) {
	// #nosec G304 -- path comes from a controlled collection walk
	//nolint:forbidigo // File I/O necessary for reading collection entries
	raw, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p, err)
	}

	data, body, err := ParseDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", p, err)
	}

	return &Entry{
		ID:       data.ID,
		FilePath: filepath.ToSlash(p),
		Body:     body,
		Data:     data,
	}, nil
}

// MatchGlob reports whether a slash-separated path matches a glob pattern.
// A "**" segment matches zero or more segments and "{a,b}" alternatives are
// expanded. Malformed patterns match nothing.
func MatchGlob(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}
