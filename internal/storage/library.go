package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ansdev/patternhub/internal/apperr"
	"github.com/ansdev/patternhub/internal/checksum"
	"github.com/ansdev/patternhub/internal/models"
)

// Ext is the file extension every pattern document carries on disk.
const Ext = ".md"

// Library implements Provider backed by a flat directory of .md files.
type Library struct {
	root string // absolute path to the library directory
}

// NewLibrary creates a Library rooted at the given directory.
// The directory must already exist.
func NewLibrary(root string) (*Library, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &Library{root: abs}, nil
}

// Root returns the absolute library directory.
func (l *Library) Root() string {
	return l.root
}

// ValidateName rejects identifiers that are empty or could escape the
// library directory. Identifiers are bare file stems, so any separator or
// parent-directory sequence is refused outright.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("storage: empty name: %w", apperr.ErrInvalidName)
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("storage: name %q: %w", name, apperr.ErrInvalidName)
	}
	return nil
}

func (l *Library) filePath(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(l.root, name+Ext), nil
}

// List enumerates every .md file in the library (non-recursive) and returns
// metadata with the extension stripped from each name.
func (l *Library) List() ([]models.PatternMetadata, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	var out []models.PatternMetadata
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("storage: stat %s: %w", e.Name(), err)
		}
		data, err := os.ReadFile(filepath.Join(l.root, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("storage: read %s: %w", e.Name(), err)
		}
		out = append(out, models.PatternMetadata{
			Name:      strings.TrimSuffix(e.Name(), Ext),
			Checksum:  checksum.Sum(data),
			UpdatedAt: info.ModTime(),
		})
	}
	return out, nil
}

// Read returns the raw bytes of the document for name. A missing file maps
// to apperr.ErrNotFound; any other failure carries the underlying cause.
func (l *Library) Read(name string) ([]byte, error) {
	path, err := l.filePath(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("storage: pattern %q: %w", name, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("storage: read %q: %w", name, err)
	}
	return data, nil
}

// Write atomically replaces content: tmp file → fsync → rename.
func (l *Library) Write(name string, content []byte) error {
	path, err := l.filePath(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(l.root, ".patternhub-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}
