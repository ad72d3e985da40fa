// Package generator renders artifacts from resource files: SQL migrations,
// per-locale language files and HTML form fragments.
package generator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tordrt/resourcekit/internal/naming"
	"github.com/tordrt/resourcekit/internal/resource"
	"github.com/tordrt/resourcekit/internal/stub"
)

// ErrTargetExists is returned when a generated file already exists and
// overwriting was not requested
var ErrTargetExists = errors.New("target file already exists")

// Options are shared by every generator
type Options struct {
	// Loader resolves stubs; nil uses the embedded defaults
	Loader *stub.Loader
	// Force overwrites existing targets
	Force bool
	// Now is the clock used for timestamps; nil means time.Now
	Now    func() time.Time
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Loader == nil {
		o.Loader = stub.NewLoader("", o.Logger)
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Result describes one generated file
type Result struct {
	Path string
	// Unresolved lists stub tokens that had no value
	Unresolved []string
}

// Subject is the resource a generator works on together with its names
type Subject struct {
	Model    string
	Table    string
	Resource *resource.Resource
}

// NewSubject derives the table name from the resource, falling back to the
// model name
func NewSubject(model string, res *resource.Resource) Subject {
	model = strings.TrimSuffix(model, filepath.Ext(model))
	table := res.TableName
	if table == "" {
		table = naming.TableName(model)
	}
	return Subject{Model: naming.ToStudlyCase(naming.Singular(naming.ToSnakeCase(model))), Table: table, Resource: res}
}

// writeTarget writes data to path, refusing to replace an existing file
// unless force is set
func writeTarget(path string, data []byte, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrTargetExists, path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func appendUnique(list []string, items ...string) []string {
	for _, item := range items {
		found := false
		for _, existing := range list {
			if existing == item {
				found = true
				break
			}
		}
		if !found {
			list = append(list, item)
		}
	}
	return list
}
