// Package store is the persistence collaborator: it round-trips the full
// engine snapshot through JSON files on disk. The engine itself never touches
// storage.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/model"
)

const snapshotFile = "state.json"

// FileRepo persists the engine snapshot to a JSON file.
type FileRepo struct {
	mu      sync.RWMutex
	dataDir string
	cache   *model.State
}

// NewFileRepo creates the repository, making the data directory on demand.
func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &FileRepo{dataDir: dataDir}, nil
}

func (r *FileRepo) path() string {
	return filepath.Join(r.dataDir, snapshotFile)
}

// Load returns the persisted snapshot, or an empty one when none exists yet.
func (r *FileRepo) Load() (model.State, error) {
	r.mu.RLock()
	if r.cache != nil {
		s := r.cache.Clone()
		r.mu.RUnlock()
		return s, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cache != nil {
		return r.cache.Clone(), nil
	}

	data, err := os.ReadFile(r.path())
	if err != nil {
		if os.IsNotExist(err) {
			s := model.NewState()
			r.cache = &s
			return s.Clone(), nil
		}
		return model.State{}, err
	}

	var s model.State
	if err := json.Unmarshal(data, &s); err != nil {
		return model.State{}, err
	}
	r.cache = &s
	return s.Clone(), nil
}

// Save persists the snapshot and refreshes the cache.
func (r *FileRepo) Save(s model.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := s.Clone()
	r.cache = &snapshot

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path(), data, 0o644)
}
