package bookmark

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// FileStore keeps all bookmark lists in a single JSON file, rewritten after
// every change.
type FileStore struct {
	filePath string
	lists    map[string][]string
	mu       sync.RWMutex
}

// NewFileStore creates a file store and loads any existing data
func NewFileStore(filePath string) (*FileStore, error) {
	fs := &FileStore{
		filePath: filePath,
		lists:    make(map[string][]string),
	}
	if err := fs.Load(); err != nil {
		return nil, err
	}
	return fs, nil
}

// Load reads bookmark lists from disk. A missing or empty file is an empty store.
func (fs *FileStore) Load() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read bookmark file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	lists := make(map[string][]string)
	if err := json.Unmarshal(data, &lists); err != nil {
		return fmt.Errorf("failed to unmarshal bookmarks: %w", err)
	}
	fs.lists = lists
	return nil
}

// saveLocked writes the lists to a temp file and renames it into place
func (fs *FileStore) saveLocked() error {
	data, err := json.MarshalIndent(fs.lists, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal bookmarks: %w", err)
	}

	if dir := filepath.Dir(fs.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create bookmark dir: %w", err)
		}
	}

	tmp := fs.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write bookmark file: %w", err)
	}
	if err := os.Rename(tmp, fs.filePath); err != nil {
		return fmt.Errorf("failed to replace bookmark file: %w", err)
	}
	return nil
}

func (fs *FileStore) List(_ context.Context, namespace string) ([]string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return append([]string{}, fs.lists[namespace]...), nil
}

func (fs *FileStore) Add(_ context.Context, namespace, id string) error {
	if err := validate(namespace, id); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if slices.Contains(fs.lists[namespace], id) {
		return nil
	}
	fs.lists[namespace] = append(fs.lists[namespace], id)
	return fs.saveLocked()
}

func (fs *FileStore) Remove(_ context.Context, namespace, id string) error {
	if err := validate(namespace, id); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	list := fs.lists[namespace]
	idx := slices.Index(list, id)
	if idx < 0 {
		return nil
	}
	list = slices.Delete(list, idx, idx+1)
	if len(list) == 0 {
		delete(fs.lists, namespace)
	} else {
		fs.lists[namespace] = list
	}
	return fs.saveLocked()
}

func (fs *FileStore) Contains(_ context.Context, namespace, id string) (bool, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return slices.Contains(fs.lists[namespace], id), nil
}

func (fs *FileStore) Toggle(ctx context.Context, namespace, id string) (bool, error) {
	if err := validate(namespace, id); err != nil {
		return false, err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	list := fs.lists[namespace]
	if idx := slices.Index(list, id); idx >= 0 {
		list = slices.Delete(list, idx, idx+1)
		if len(list) == 0 {
			delete(fs.lists, namespace)
		} else {
			fs.lists[namespace] = list
		}
		return false, fs.saveLocked()
	}

	fs.lists[namespace] = append(list, id)
	return true, fs.saveLocked()
}

// GetStats returns store statistics
func (fs *FileStore) GetStats() map[string]int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	total := 0
	for _, list := range fs.lists {
		total += len(list)
	}
	return map[string]int{
		"namespaces":  len(fs.lists),
		"total_items": total,
	}
}

func (fs *FileStore) Close() error {
	return nil
}
