package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidName is returned for file names that would escape the target
// directory
var ErrInvalidName = errors.New("invalid file name")

// tempPrefix marks in-flight writes so they are never mistaken for images
const tempPrefix = ".wallget-"

// Manager handles writes into the target directory and duplicate detection
type Manager struct {
	outputDir string
}

// NewManager creates a storage manager for an existing directory. The
// directory is never created.
func NewManager(outputDir string) (*Manager, error) {
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("the path %q does not exist", abs)
		}
		return nil, fmt.Errorf("failed to stat output directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("the path %q is not a directory", abs)
	}

	return &Manager{outputDir: abs}, nil
}

// validateName rejects names that are not a single entry of the directory
func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Path returns the final path for name inside the target directory
func (m *Manager) Path(name string) string {
	return filepath.Join(m.outputDir, name)
}

// Exists reports whether anything is present at the final path for name
func (m *Manager) Exists(name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}

	_, err := os.Lstat(m.Path(name))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check %s: %w", name, err)
	}
}

// Save streams r into a temporary file beside the final path, then renames
// it into place. On failure the temporary file is removed and nothing
// appears at the final path.
func (m *Manager) Save(r io.Reader, name string) (int64, error) {
	if err := validateName(name); err != nil {
		return 0, err
	}

	out, err := os.CreateTemp(m.outputDir, tempPrefix+"*.tmp")
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempFile := out.Name()

	written, err := io.Copy(out, r)
	if err != nil {
		out.Close()
		os.Remove(tempFile)
		return written, fmt.Errorf("failed to save image data: %w", err)
	}

	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(tempFile)
		return written, fmt.Errorf("failed to sync file: %w", err)
	}

	if err := out.Close(); err != nil {
		os.Remove(tempFile)
		return written, fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Chmod(tempFile, 0644); err != nil {
		os.Remove(tempFile)
		return written, fmt.Errorf("failed to set file mode: %w", err)
	}

	if err := os.Rename(tempFile, m.Path(name)); err != nil {
		os.Remove(tempFile)
		return written, fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return written, nil
}

// RemoveStaleTemp deletes temporary files left behind by an interrupted
// earlier run and returns how many were removed
func (m *Manager) RemoveStaleTemp() (int, error) {
	matches, err := filepath.Glob(filepath.Join(m.outputDir, tempPrefix+"*.tmp"))
	if err != nil {
		return 0, fmt.Errorf("failed to list temporary files: %w", err)
	}

	removed := 0
	for _, match := range matches {
		if err := os.Remove(match); err == nil {
			removed++
		}
	}
	return removed, nil
}

// OutputDir returns the absolute target directory
func (m *Manager) OutputDir() string {
	return m.outputDir
}
