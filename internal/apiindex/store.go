package apiindex

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644

	workInProgressSuffix = ".wip"
)

var (
	// ErrIndexNotFound is returned when no index has been written yet.
	ErrIndexNotFound = errors.New("content index not found; run `docindex build` to generate it")

	// ErrIndexMalformed is returned when the index file is not valid JSON,
	// including files truncated by an interrupted write.
	ErrIndexMalformed = errors.New("content index is malformed; run `docindex build` to regenerate it")

	// ErrIndexInvalid is returned when the index is valid JSON with the wrong shape.
	ErrIndexInvalid = errors.New("content index has an invalid structure")
)

const indexSchemaURL = "https://grafana.com/schemas/docindex/apiIndex.json"

const indexSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["versions", "examples"],
  "properties": {
    "versions": {"type": "array", "items": {"type": "string"}},
    "sections": {"$ref": "#/$defs/stringLists"},
    "pages": {"$ref": "#/$defs/stringLists"},
    "tabs": {"$ref": "#/$defs/stringLists"},
    "examples": {
      "type": "object",
      "additionalProperties": {"type": "array", "items": {"$ref": "#/$defs/example"}}
    }
  },
  "$defs": {
    "stringLists": {
      "type": "object",
      "additionalProperties": {"type": "array", "items": {"type": "string"}}
    },
    "example": {
      "type": "object",
      "required": ["exampleName"],
      "properties": {
        "exampleName": {"type": "string"},
        "title": {"type": ["string", "null"]}
      }
    }
  }
}`

//nolint:gochecknoglobals // Schema is compiled once on first use.
var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(indexSchema)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse index schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(indexSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("failed to add index schema: %w", err)
	}
	return c.Compile(indexSchemaURL)
})

// Store persists the index to a single JSON file in an output directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at the output directory.
func NewStore(outputDir string) *Store {
	return &Store{dir: outputDir}
}

// Path returns the location of the persisted index.
func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName)
}

// Exists reports whether an index file is present.
func (s *Store) Exists() bool {
	//nolint:forbidigo // File system check necessary to detect a previous index
	_, err := os.Stat(s.Path())
	return err == nil
}

// Write serializes the index atomically: readers observe either the previous
// file or the complete new one. The caller's index is left untouched.
func (s *Store) Write(index *ApiIndex) error {
	out := *index
	out.normalize()

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	//nolint:forbidigo // Directory creation necessary for writing index file
	if err := os.MkdirAll(s.dir, dirPermissions); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	//nolint:forbidigo // File I/O necessary for writing the index
	tmp, err := os.CreateTemp(s.dir, FileName+".*"+workInProgressSuffix)
	if err != nil {
		return fmt.Errorf("failed to create temporary index file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		// No-op once the rename succeeded.
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write index file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync index file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close index file: %w", err)
	}
	//nolint:forbidigo,gosec // The index is a public build artifact
	if err := os.Chmod(tmpPath, filePermissions); err != nil {
		return fmt.Errorf("failed to set index file permissions: %w", err)
	}

	//nolint:forbidigo // Atomic replace of the index file
	if err := os.Rename(tmpPath, s.Path()); err != nil {
		return fmt.Errorf("replacing index file (%s) with working copy (%s) failed: %w", s.Path(), tmpPath, err)
	}

	return nil
}

// Read loads and validates the persisted index.
func (s *Store) Read() (*ApiIndex, error) {
	// #nosec G304 -- path is derived from configuration
	//nolint:forbidigo // File I/O necessary for reading the index
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w (expected at %s)", ErrIndexNotFound, s.Path())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}

	return Decode(data)
}

// Decode parses and validates a serialized index. It never returns a
// partially decoded index.
func Decode(data []byte) (*ApiIndex, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexMalformed, err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexInvalid, err)
	}

	var index ApiIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexMalformed, err)
	}

	index.normalize()

	return &index, nil
}
