package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
)

var slotNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileSlots keeps every slot in its own file under a directory.
type FileSlots struct {
	dir string
}

func NewFileSlots(dir string) (*FileSlots, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty storage directory", ErrUnavailable)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, unavailable("mkdir", dir, err)
	}
	return &FileSlots{dir: dir}, nil
}

func (f *FileSlots) path(key string) (string, error) {
	if !slotNamePattern.MatchString(key) {
		return "", fmt.Errorf("invalid slot name %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

func (f *FileSlots) Get(key string) (string, bool, error) {
	path, err := f.path(key)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable("get", key, err)
	}
	return string(data), true, nil
}

// Set replaces the slot atomically: temp file in the same directory, then rename.
func (f *FileSlots) Set(key, value string) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, "."+key+"-*.tmp")
	if err != nil {
		return unavailable("set", key, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return unavailable("set", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return unavailable("set", key, err)
	}
	if err := tmp.Close(); err != nil {
		return unavailable("set", key, err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return unavailable("set", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return unavailable("set", key, err)
	}
	return nil
}
