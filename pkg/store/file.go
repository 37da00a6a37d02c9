package store

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/vinisalazar/bioprov/pkg/document"
	"github.com/vinisalazar/bioprov/pkg/errors"
	"github.com/vinisalazar/bioprov/pkg/model"
)

// FileStore keeps one JSON document per project in a directory.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore opens a file store rooted at dir, creating it if needed.
// An empty dir defaults to ~/.bioprov/db.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "resolve home dir")
		}
		dir = filepath.Join(home, ".bioprov", "db")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create store dir %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(tag string) string {
	return filepath.Join(s.dir, tag+".json")
}

func (s *FileStore) Get(ctx context.Context, tag string) (*model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return document.ReadFile(s.path(tag))
}

func (s *FileStore) Put(ctx context.Context, p *model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return document.WriteFile(p, s.path(p.Tag))
}

func (s *FileStore) Delete(ctx context.Context, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(tag)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeInternal, err, "remove %s", tag)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read store dir")
	}
	var tags []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		tags = append(tags, strings.TrimSuffix(e.Name(), ".json"))
	}
	slices.Sort(tags)
	return tags, nil
}

func (s *FileStore) Close(ctx context.Context) error { return nil }
