package app

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Storage is the durable key-value port behind identity persistence. The auth
// service is the only writer; keys survive process restarts.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// FileStorage keeps keys in a single JSON file, created on first write.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

func DefaultStoragePath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "rag-chat", "credentials.json")
	}
	return filepath.Join(base, "rag-chat", "credentials.json")
}

func NewFileStorage(path string) *FileStorage {
	if path == "" {
		path = DefaultStoragePath()
	}
	return &FileStorage{path: path}
}

func (s *FileStorage) load() map[string]string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return map[string]string{}
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		return map[string]string{}
	}
	return m
}

func (s *FileStorage) save(m map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

func (s *FileStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.load()[key]
	return v, ok
}

func (s *FileStorage) Set(key, value string) error {
	if key == "" {
		return errors.New("missing key")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.load()
	m[key] = value
	return s.save(m)
}

func (s *FileStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.load()
	if _, ok := m[key]; !ok {
		return nil
	}
	delete(m, key)
	return s.save(m)
}

// MemoryStorage is the in-memory Storage used by tests.
type MemoryStorage struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{m: map[string]string{}}
}

func (s *MemoryStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *MemoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *MemoryStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}
