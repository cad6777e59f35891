package devserver

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"notepad/internal/types"
)

const noteSchemaVersion = 1

// Store persists the served notes between devserver runs.
type Store interface {
	Load() ([]types.Note, error)
	Save(notes []types.Note) error
}

// FileStore keeps notes in a versioned JSON file, replaced atomically on
// every save.
type FileStore struct {
	path string
	mu   sync.Mutex
}

type noteFile struct {
	Version int          `json:"version"`
	Notes   []types.Note `json:"notes"`
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Load returns the stored notes. A missing file is an empty store.
func (s *FileStore) Load() ([]types.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file := noteFile{}
	if err := readJSON(s.path, &file); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []types.Note{}, nil
		}
		return nil, err
	}
	if file.Notes == nil {
		file.Notes = []types.Note{}
	}
	return file.Notes, nil
}

func (s *FileStore) Save(notes []types.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if notes == nil {
		notes = []types.Note{}
	}
	return writeJSONAtomic(s.path, noteFile{Version: noteSchemaVersion, Notes: notes})
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return errors.New("empty file")
	}
	return json.Unmarshal(data, v)
}

func writeJSONAtomic(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	file, err := os.CreateTemp(dir, ".tmp-*.json")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(file.Name())
	}()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	return os.Rename(file.Name(), path)
}
