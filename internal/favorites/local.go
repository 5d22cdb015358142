package favorites

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kzhou/cryptobubbles/internal/model"
)

// ErrStorageCorrupt reports that the local favorites file held something
// other than a JSON array of favorites. Callers recover by starting empty.
var ErrStorageCorrupt = errors.New("favorites: local storage corrupt")

// LocalFile persists favorites as a JSON array on disk. It is the local side
// of the store, not a Service backend; reads and writes are whole-file.
type LocalFile struct {
	path string
}

// NewLocalFile stores favorites at path, creating parent directories on the
// first save.
func NewLocalFile(path string) *LocalFile {
	return &LocalFile{path: path}
}

// Load reads the favorites file. A missing file yields an empty list. A file
// whose contents are not a JSON array yields an empty list and
// ErrStorageCorrupt so the caller can log and continue.
func (l *LocalFile) Load() ([]model.Favorite, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Favorite{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", l.path, err)
	}

	var favs []model.Favorite
	if err := json.Unmarshal(raw, &favs); err != nil {
		return []model.Favorite{}, fmt.Errorf("%w: %v", ErrStorageCorrupt, err)
	}
	if favs == nil {
		favs = []model.Favorite{}
	}
	return favs, nil
}

// Save writes the full favorites list, replacing any previous contents.
func (l *LocalFile) Save(favs []model.Favorite) error {
	if favs == nil {
		favs = []model.Favorite{}
	}
	raw, err := json.MarshalIndent(favs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding favorites: %w", err)
	}

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(l.path, raw, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", l.path, err)
	}
	return nil
}
