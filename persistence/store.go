package persistence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/milk9111/tileengine/levels"
)

// ErrSnapshotNotFound is returned when a store has no snapshot by that name.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Store persists named snapshots.
type Store interface {
	Save(name string, lines []string) error
	Load(name string) ([]string, error)
	List() ([]string, error)
	Close() error
}

// FileStore keeps each snapshot as <dir>/<name>.txt in level design format,
// so the directory can be loaded with levels.Load.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("persistence: create %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\:`) {
		return "", fmt.Errorf("persistence: invalid snapshot name %q", name)
	}
	return filepath.Join(s.dir, name+levels.Ext), nil
}

func (s *FileStore) Save(name string, lines []string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	data := strings.Join(lines, "\n") + "\n"
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, []byte(data), 0o644); err != nil {
		return fmt.Errorf("persistence: write %s: %w", name, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		return fmt.Errorf("persistence: write %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) Load(name string) ([]string, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("persistence: load %s: %w", name, ErrSnapshotNotFound)
		}
		return nil, fmt.Errorf("persistence: load %s: %w", name, err)
	}
	return levels.ParseDesign(string(b)), nil
}

func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("persistence: list %s: %w", s.dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != levels.Ext {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), levels.Ext))
	}
	sort.Strings(names)
	return names, nil
}

func (s *FileStore) Close() error { return nil }
