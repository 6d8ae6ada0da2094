package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ricesearch/rank-eval/internal/pkg/errors"
	"github.com/ricesearch/rank-eval/internal/pkg/hash"
)

// Storage persists encoded evaluation results keyed by query id.
type Storage interface {
	// Save stores data under id, replacing any previous value.
	Save(ctx context.Context, id string, data []byte) error

	// Load returns the bytes stored under id.
	Load(ctx context.Context, id string) ([]byte, error)

	// Delete removes id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the stored ids in sorted order.
	List(ctx context.Context) ([]string, error)

	// Close releases resources.
	Close() error
}

// MemoryStorage stores results in memory (for testing and one-shot runs).
type MemoryStorage struct {
	results map[string][]byte
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		results: make(map[string][]byte),
	}
}

func (m *MemoryStorage) Save(ctx context.Context, id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Copy to avoid mutations
	m.results[id] = bytes.Clone(data)
	return nil
}

func (m *MemoryStorage) Load(ctx context.Context, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, exists := m.results[id]
	if !exists {
		return nil, errors.NotFoundError("result " + id)
	}
	return bytes.Clone(data), nil
}

func (m *MemoryStorage) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.results, id)
	return nil
}

func (m *MemoryStorage) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.results))
	for id := range m.results {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MemoryStorage) Close() error {
	return nil
}

// FileStorage stores each result in its own binary file. File names are
// derived from a hash of the id, so ids never reach the filesystem; the id
// itself is kept in a sidecar so List can report it.
type FileStorage struct {
	basePath string
	mu       sync.RWMutex
}

const (
	resultExt = ".bin"
	idExt     = ".id"
)

// NewFileStorage creates a new file-based storage.
func NewFileStorage(basePath string) *FileStorage {
	return &FileStorage{
		basePath: basePath,
	}
}

func (f *FileStorage) resultPath(id string) string {
	return filepath.Join(f.basePath, hash.SHA256Short([]byte(id), 32)+resultExt)
}

func (f *FileStorage) idPath(id string) string {
	return strings.TrimSuffix(f.resultPath(id), resultExt) + idExt
}

func (f *FileStorage) Save(ctx context.Context, id string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Ensure directory exists
	if err := os.MkdirAll(f.basePath, 0755); err != nil {
		return errors.Wrap(errors.CodeUnavailable, "failed to create storage directory", err)
	}

	// Write to a temp file and rename so readers never see a partial result
	path := f.resultPath(id)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrap(errors.CodeUnavailable, "failed to write result file", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(errors.CodeUnavailable, "failed to write result file", err)
	}

	if err := os.WriteFile(f.idPath(id), []byte(id), 0644); err != nil {
		return errors.Wrap(errors.CodeUnavailable, "failed to write id file", err)
	}

	return nil
}

func (f *FileStorage) Load(ctx context.Context, id string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.resultPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundError("result " + id)
		}
		return nil, errors.Wrap(errors.CodeUnavailable, "failed to read result file", err)
	}

	return data, nil
}

func (f *FileStorage) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, path := range []string{f.resultPath(id), f.idPath(id)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(errors.CodeUnavailable, "failed to delete result file", err)
		}
	}

	return nil
}

func (f *FileStorage) List(ctx context.Context) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	// Ensure directory exists
	if _, err := os.Stat(f.basePath); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(f.basePath)
	if err != nil {
		return nil, errors.Wrap(errors.CodeUnavailable, "failed to read storage directory", err)
	}

	ids := []string{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != idExt {
			continue
		}

		data, err := os.ReadFile(filepath.Join(f.basePath, entry.Name()))
		if err != nil {
			continue // Skip files we can't read
		}
		ids = append(ids, string(data))
	}

	sort.Strings(ids)
	return ids, nil
}

func (f *FileStorage) Close() error {
	return nil
}
