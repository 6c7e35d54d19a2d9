package storage

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// File is a Port backed by a single JSON file, written through on every
// mutation. Good enough for single-instance deployments without a database.
type File struct {
	mu   sync.Mutex
	path string
	data map[string][]byte
}

// OpenFile loads the data file at path, creating the store empty when the
// file does not exist. An unreadable file is reset rather than refusing
// to boot.
func OpenFile(path string) (*File, error) {
	f := &File{path: path, data: make(map[string][]byte)}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(raw, &f.data); err != nil {
		log.Printf("storage: resetting unreadable data file %s: %v", path, err)
		f.data = make(map[string][]byte)
	}
	return f, nil
}

func (f *File) Get(key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	value, ok := f.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

func (f *File) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b := make([]byte, len(value))
	copy(b, value)
	f.data[key] = b
	return f.flushLocked()
}

func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.data, key)
	return f.flushLocked()
}

func (f *File) flushLocked() error {
	raw, err := json.Marshal(f.data)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(f.path, raw, 0o644)
}
