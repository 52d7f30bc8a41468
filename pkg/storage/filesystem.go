package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// LocalStorage keeps files under a base directory. Writes go through a temp file
// and a rename so readers never see a partial file.
type LocalStorage struct {
	baseDir string
	perm    os.FileMode
}

// NewLocalStorage ensures baseDir exists. perm applies to written files; zero means 0o644.
func NewLocalStorage(baseDir string, perm os.FileMode) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "."
	}
	if perm == 0 {
		perm = 0o644
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir, perm: perm}, nil
}

// Save replaces filename with data and returns its full path.
func (s *LocalStorage) Save(filename string, data []byte) (string, error) {
	path := s.Path(filename)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("prepare storage directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	if err := tmp.Chmod(s.perm); err != nil {
		tmp.Close() //nolint:errcheck
		return "", fmt.Errorf("chmod %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", filename, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("replace %s: %w", filename, err)
	}
	return path, nil
}

// Read returns the file contents. A missing file yields an error matching os.ErrNotExist.
func (s *LocalStorage) Read(filename string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(filename))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	return data, nil
}

// Delete removes a stored file if present.
func (s *LocalStorage) Delete(filename string) error {
	if err := os.Remove(s.Path(filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", filename, err)
	}
	return nil
}

// Path resolves filename against the base directory.
func (s *LocalStorage) Path(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(s.baseDir, filename)
}
