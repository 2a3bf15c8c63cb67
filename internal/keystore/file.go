package keystore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists shared keys in a single JSON file mapping
// namespace to key. The file holds secrets, so it is written with 0600
// permissions inside a 0700 directory.
type FileStore struct {
	path      string
	namespace string
	mu        sync.Mutex
}

// NewFileStore opens (or prepares to create) the key file at path for
// the given namespace.
func NewFileStore(path, namespace string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create key store directory: %w", err)
	}
	return &FileStore{path: path, namespace: namespace}, nil
}

// DefaultPath returns the key file location under the user's home
// directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".keysearch", "keys.json"), nil
}

func (f *FileStore) Get(_ context.Context) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys, err := f.load()
	if err != nil {
		return "", false, err
	}
	v := keys[f.namespace]
	if !present(v) {
		return "", false, nil
	}
	return v, true, nil
}

func (f *FileStore) Set(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys, err := f.load()
	if err != nil {
		return err
	}
	keys[f.namespace] = key
	return f.save(keys)
}

func (f *FileStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := keys[f.namespace]; !ok {
		return nil
	}
	delete(keys, f.namespace)
	return f.save(keys)
}

func (f *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read key store: %w", err)
	}
	keys := map[string]string{}
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("decode key store: %w", err)
	}
	return keys, nil
}

func (f *FileStore) save(keys map[string]string) error {
	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return fmt.Errorf("encode key store: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write key store: %w", err)
	}
	return nil
}
