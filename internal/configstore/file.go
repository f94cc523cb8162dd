package configstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// FileStore reads payloads from a directory tree. Names are slash-separated
// paths relative to Root, e.g. "targets/atomic.json".
type FileStore struct {
	Root string
}

func NewFileStore(root string) *FileStore {
	return &FileStore{Root: root}
}

func (s *FileStore) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	logrus.Debugf("read config %s (%d bytes)", path, len(data))
	return data, nil
}

// resolve keeps lookups inside Root
func (s *FileStore) resolve(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid config name %q", name)
	}
	return filepath.Join(s.Root, clean), nil
}
