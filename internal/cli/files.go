package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/cardsmith/internal/failure"
	"github.com/roach88/cardsmith/internal/project"
)

// readProjectFile reads and decodes the project at path.
func readProjectFile(path string) (project.Project, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return project.Project{}, failure.NotFound("project file not found: %s", path)
	}
	if err != nil {
		return project.Project{}, fmt.Errorf("failed to read project: %w", err)
	}
	return project.Decode(data)
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
