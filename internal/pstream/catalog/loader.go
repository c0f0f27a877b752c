package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tturner/pclscope/internal/pstream/tags"
)

// Load reads a catalog from a YAML file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}

	return &file, nil
}

// LoadAndValidate reads a catalog and validates it.
func LoadAndValidate(path string) (*File, error) {
	file, err := Load(path)
	if err != nil {
		return nil, err
	}

	if err := file.Validate(); err != nil {
		return nil, fmt.Errorf("validate catalog %s: %w", path, err)
	}

	return file, nil
}

// Save writes a catalog to a YAML file.
func Save(path string, file *File) error {
	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write catalog file: %w", err)
	}

	return nil
}

// Find searches for a catalog by file name, first in startDir and then in
// catalogs/ directories walking up from startDir.
func Find(startDir, name string) (string, error) {
	if _, err := os.Stat(filepath.Join(startDir, name)); err == nil {
		return filepath.Join(startDir, name), nil
	}

	dir := startDir
	for i := 0; i < 10; i++ {
		path := filepath.Join(dir, "catalogs", name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%s not found in %s or parent directories", name, startDir)
}

// Overlay loads and validates each catalog in order and returns base with
// their entries applied. Later catalogs win on key collisions.
func Overlay(base *tags.Dictionary, paths ...string) (*tags.Dictionary, error) {
	if base == nil {
		base = tags.Default()
	}
	var extra []tags.Descriptor
	for _, path := range paths {
		file, err := LoadAndValidate(path)
		if err != nil {
			return nil, err
		}
		extra = append(extra, file.Descriptors()...)
	}
	return base.Overlay(extra), nil
}
