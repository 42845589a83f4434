package configstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

var (
	// ErrInvalidJSON marks a save rejected for JSON syntax; the on-disk
	// document is left untouched.
	ErrInvalidJSON = errors.New("invalid json")

	// ErrInvalidSchema marks a save rejected by the optional schema check.
	ErrInvalidSchema = errors.New("invalid configuration schema")
)

// State is the unsaved-changes indicator shown next to the editor title.
type State string

const (
	StateClean State = "clean"
	StateDirty State = "dirty"
)

// Store manages the pipeline model configuration document: a JSON text file
// edited through the page. It keeps the snapshot taken at construction time
// so the editor can reset past any number of saves.
type Store struct {
	mu             sync.Mutex
	path           string
	starting       string
	state          State
	validateSchema bool
}

// New builds a Store around the document at path. The starting snapshot is
// passed in explicitly rather than read here, so the caller decides when in
// the process lifecycle it is captured.
func New(path, starting string) *Store {
	return &Store{path: path, starting: starting, state: StateClean}
}

// EnableSchemaValidation turns on the semantic check applied after the JSON
// syntax check on save. Off by default.
func (s *Store) EnableSchemaValidation() {
	s.mu.Lock()
	s.validateSchema = true
	s.mu.Unlock()
}

// Load reads the current document from disk.
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read config document: %w", err)
	}
	return string(data), nil
}

// Save validates text as JSON and, when valid, overwrites the document with
// it verbatim. A syntax failure leaves the file unchanged.
func (s *Store) Save(text string) error {
	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.validateSchema {
		if err := validateModels(doc); err != nil {
			return err
		}
	}

	if err := os.WriteFile(s.path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write config document: %w", err)
	}
	s.state = StateClean
	return nil
}

// Undo re-reads the document from disk, discarding in-memory edits.
func (s *Store) Undo() (string, error) {
	text, err := s.Load()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.state = StateClean
	s.mu.Unlock()
	return text, nil
}

// Reset returns the snapshot captured at construction, regardless of any
// saves made since. It never touches the disk.
func (s *Store) Reset() string {
	s.mu.Lock()
	s.state = StateClean
	s.mu.Unlock()
	return s.starting
}

// MarkDirty records that the editor buffer has diverged from disk.
func (s *Store) MarkDirty() {
	s.mu.Lock()
	s.state = StateDirty
	s.mu.Unlock()
}

// State returns the current unsaved-changes indicator.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// validateModels is the schema extension point: when enabled, the document
// must be an object whose entries are objects carrying string "name" and
// "api_base" fields.
func validateModels(doc any) error {
	models, ok := doc.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: top level must be an object", ErrInvalidSchema)
	}
	for key, entry := range models {
		fields, ok := entry.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %q must be an object", ErrInvalidSchema, key)
		}
		for _, required := range []string{"name", "api_base"} {
			if _, ok := fields[required].(string); !ok {
				return fmt.Errorf("%w: %q missing string field %q", ErrInvalidSchema, key, required)
			}
		}
	}
	return nil
}
