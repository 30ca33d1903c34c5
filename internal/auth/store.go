package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

// Store persists the current grant between CLI invocations.
// Load returns (nil, nil) when nothing is stored.
type Store interface {
	Load() (*Grant, error)
	Save(g *Grant) error
	Clear() error
}

// FileStore keeps the grant in a TOML file readable only by the owner.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (*Grant, error) {
	var g Grant
	if _, err := toml.DecodeFile(s.path, &g); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session file: %w", err)
	}
	if g.AccessToken == "" {
		return nil, nil
	}
	return &g, nil
}

func (s *FileStore) Save(g *Grant) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(g); err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

// MemoryStore keeps the grant in process. Used by tests.
type MemoryStore struct {
	mu    sync.Mutex
	grant *Grant
}

func (s *MemoryStore) Load() (*Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.grant == nil {
		return nil, nil
	}
	g := *s.grant
	return &g, nil
}

func (s *MemoryStore) Save(g *Grant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *g
	s.grant = &cp
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grant = nil
	return nil
}
