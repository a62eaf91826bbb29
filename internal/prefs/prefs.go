// Package prefs persists small client-side state for fauna: column layouts,
// the last criteria of every list, the theme.
//
// Callers see a synchronous key/value Store that never fails. Backend errors
// (unwritable files, locked databases) are logged and swallowed so the UI
// keeps working with in-memory values.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// Store is a synchronous key/value store for string blobs.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// Backend is a Store owning resources that must be released.
type Backend interface {
	Store
	io.Closer
}

// Prefs is the on-disk shape of the TOML backend.
type Prefs struct {
	Entries map[string]string `toml:"entries"`
}

const (
	defaultPrefsPath  = "~/.config/fauna/prefs.toml"
	defaultSQLitePath = "~/.config/fauna/prefs.db"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path, falling back to empty
// preferences if missing or unreadable.
func Load(path string) (Prefs, error) {
	prefs := Prefs{Entries: map[string]string{}}

	resolved, err := resolvePath(path, defaultPrefsPath)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	var decoded Prefs
	if err := toml.Unmarshal(bytes, &decoded); err != nil {
		return prefs, fmt.Errorf("parse prefs: %w", err)
	}
	for k, v := range decoded.Entries {
		prefs.Entries[k] = v
	}
	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path, defaultPrefsPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	tmp := resolved + ".tmp"
	if err := os.WriteFile(tmp, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp, resolved); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

// FileStore keeps every entry in memory and writes the whole TOML file on
// each change.
type FileStore struct {
	mu      sync.Mutex
	path    string
	entries map[string]string
	logger  *slog.Logger
}

// OpenFile loads the TOML preferences at path. A corrupt file is logged and
// replaced on the next write.
func OpenFile(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p, err := Load(path)
	if err != nil {
		logger.Warn("discarding unreadable preferences", "path", path, "error", err)
	}
	return &FileStore{path: path, entries: p.Entries, logger: logger}
}

// Get implements Store.
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	return v, ok
}

// Set implements Store.
func (s *FileStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.entries[key]; ok && cur == value {
		return
	}
	s.entries[key] = value
	s.flushLocked()
}

// Delete implements Store.
func (s *FileStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		return
	}
	delete(s.entries, key)
	s.flushLocked()
}

// Close implements io.Closer.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) flushLocked() {
	if err := Save(s.path, Prefs{Entries: s.entries}); err != nil {
		s.logger.Error("write preferences", "path", s.path, "error", err)
	}
}

// MemoryStore is a Store without persistence.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewMemory returns an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{entries: map[string]string{}}
}

// Get implements Store.
func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	return v, ok
}

// Set implements Store.
func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
}

// Delete implements Store.
func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Close implements io.Closer.
func (s *MemoryStore) Close() error { return nil }

// Open builds the backend named by kind: "file" (default), "sqlite" or
// "memory". An empty path uses the backend's default location.
func Open(kind, path string, logger *slog.Logger) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "file", "toml":
		return OpenFile(path, logger), nil
	case "sqlite":
		resolved, err := resolvePath(path, defaultSQLitePath)
		if err != nil {
			return nil, fmt.Errorf("resolve sqlite path: %w", err)
		}
		return OpenSQLite(resolved, logger)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown preference store %q", kind)
	}
}

func resolvePath(path, fallback string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(fallback)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
