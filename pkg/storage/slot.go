package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Slot is a single named slot of durable client storage. It holds at
// most one JSON document and survives process restarts. Absence of the
// backing file is a valid initial state, not an error.
type Slot struct {
	path string
}

// NewSlot returns a slot backed by the file at path. The parent
// directory is created on the first write, not here.
func NewSlot(path string) *Slot {
	return &Slot{path: path}
}

// Path returns the backing file path.
func (s *Slot) Path() string {
	return s.path
}

// Read unmarshals the slot contents into v. It returns (false, nil)
// when the slot is empty and (false, err) only for read failures other
// than absence. Corrupt contents are treated as absence so a bad write
// never wedges the caller.
func (s *Slot) Read(v interface{}) (bool, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read slot %s: %w", s.path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, nil
	}
	return true, nil
}

// Write marshals v and replaces the slot contents. The write is
// synchronous and atomic: the document lands in a temp file that is
// renamed over the slot, so a reload immediately after Write observes
// either the old or the new document, never a partial one.
func (s *Slot) Write(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal slot value: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create slot directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".slot-*")
	if err != nil {
		return fmt.Errorf("failed to create temp slot file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write slot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync slot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close slot: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace slot %s: %w", s.path, err)
	}
	return nil
}

// Clear removes the slot contents. Clearing an already-empty slot is
// a no-op.
func (s *Slot) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear slot %s: %w", s.path, err)
	}
	return nil
}
