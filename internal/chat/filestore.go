package chat

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileFlagStore persists pending flags as a JSON file, so a restart in the
// middle of a generation keeps the waiting state until it resolves or the
// TTL expires.
type FileFlagStore struct {
	path string
}

// NewFileFlagStore creates a store at the given path, creating parent
// directories as needed.
func NewFileFlagStore(path string) (*FileFlagStore, error) {
	if path == "" {
		return nil, fmt.Errorf("flag store path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create flag store directory: %w", err)
	}
	return &FileFlagStore{path: path}, nil
}

// Load reads the persisted flags. A missing file is an empty store.
func (f *FileFlagStore) Load() (map[string]Flag, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Flag{}, nil
		}
		return nil, fmt.Errorf("failed to read flag store: %w", err)
	}

	var flags map[string]Flag
	if err := json.Unmarshal(data, &flags); err != nil {
		// A corrupt store resets to empty rather than blocking startup.
		return map[string]Flag{}, nil
	}
	return flags, nil
}

// Save writes the flags atomically via a rename.
func (f *FileFlagStore) Save(flags map[string]Flag) error {
	data, err := json.Marshal(flags)
	if err != nil {
		return fmt.Errorf("failed to encode flags: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write flag store: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace flag store: %w", err)
	}
	return nil
}
