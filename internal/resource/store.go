package resource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/tordrt/resourcekit/internal/naming"
)

var (
	// ErrResourceNotFound is returned when a resource file does not exist
	ErrResourceNotFound = errors.New("resource file not found")
	// ErrResourceExists is returned when creating over an existing file without force
	ErrResourceExists = errors.New("resource file already exists")
)

// Store reads and writes resource files in one directory
type Store struct {
	Dir    string
	logger *zap.Logger
}

// NewStore creates a store rooted at dir. A nil logger disables logging.
func NewStore(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{Dir: dir, logger: logger}
}

// FileName maps a model name to its resource file name: "BlogPost" ->
// "blog_posts.json". Names that already carry a resource extension are
// returned unchanged.
func FileName(model string) string {
	switch strings.ToLower(filepath.Ext(model)) {
	case ".json", ".yaml", ".yml":
		return model
	}
	return naming.TableName(model) + ".json"
}

// Path returns the full path of the model's resource file
func (s *Store) Path(model string) string {
	return filepath.Join(s.Dir, FileName(model))
}

// Exists reports whether the model's resource file exists
func (s *Store) Exists(model string) bool {
	info, err := os.Stat(s.Path(model))
	return err == nil && !info.IsDir()
}

// Load reads the model's resource file
func (s *Store) Load(model string) (*Resource, error) {
	path := s.Path(model)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, path)
		}
		return nil, fmt.Errorf("failed to read resource file: %w", err)
	}

	res, err := Decode(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	s.logger.Debug("loaded resource file",
		zap.String("path", path),
		zap.Int("fields", len(res.Fields)),
		zap.Int("relations", len(res.Relations)),
		zap.Int("indexes", len(res.Indexes)))
	return res, nil
}

// Save validates and writes the model's resource file, creating the
// directory if needed. It returns the written path.
func (s *Store) Save(model string, res *Resource) (string, error) {
	if err := res.Validate(); err != nil {
		return "", fmt.Errorf("invalid resource: %w", err)
	}

	path := s.Path(model)
	data, err := Encode(res, FormatForPath(path))
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create resource directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write resource file: %w", err)
	}

	s.logger.Debug("saved resource file", zap.String("path", path), zap.Int("bytes", len(data)))
	return path, nil
}

// Create writes a new resource file. Without force an existing file is an error.
func (s *Store) Create(model string, res *Resource, force bool) (string, error) {
	if !force && s.Exists(model) {
		return "", fmt.Errorf("%w: %s (use --force to overwrite)", ErrResourceExists, s.Path(model))
	}
	return s.Save(model, res)
}

// Delete removes the model's resource file
func (s *Store) Delete(model string) error {
	path := s.Path(model)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrResourceNotFound, path)
		}
		return fmt.Errorf("failed to delete resource file: %w", err)
	}

	s.logger.Debug("deleted resource file", zap.String("path", path))
	return nil
}

// List returns the resource file names in the store directory, sorted
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list resource files: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
