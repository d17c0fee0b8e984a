package kv

import (
	"os"
	"path/filepath"
)

// Store is the durable key-value port used for work-item snapshots, the saved
// form code list and the operations banner. Readers must tolerate absence;
// malformed content is the caller's problem to degrade from.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// FileStore keeps one file per key under a directory. Writes are atomic
// (tmp + rename) so a crash never leaves a half-written snapshot.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Get(key string) (string, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (s *FileStore) Set(key, value string) error {
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	m map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[string]string{}}
}

func (s *MemStore) Get(key string) (string, bool) {
	v, ok := s.m[key]
	return v, ok
}

func (s *MemStore) Set(key, value string) error {
	s.m[key] = value
	return nil
}
