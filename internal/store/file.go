package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
)

// FileBackend keeps every key in one JSON object on disk.
type FileBackend struct {
	mu   sync.Mutex
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// DefaultFilePath is <user config dir>/weather-widget/preferences.json.
func DefaultFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "weather-widget", "preferences.json")
}

func (b *FileBackend) Get(key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries, err := b.read()
	if err != nil {
		return nil, err
	}
	raw, ok := entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return raw, nil
}

func (b *FileBackend) Set(key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries, err := b.read()
	if err != nil && !errors.Is(err, ErrNotFound) {
		// An unreadable file is replaced rather than blocking every write.
		entries = nil
	}
	if entries == nil {
		entries = make(map[string]json.RawMessage)
	}
	entries[key] = json.RawMessage(value)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}

	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, b.path)
}

func (b *FileBackend) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode preferences file: %w", err)
	}
	return entries, nil
}
