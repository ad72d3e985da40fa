// Package stub loads text stubs and substitutes their [% token %] placeholders.
// Stubs are looked up in an optional override directory before the defaults
// compiled into the binary.
package stub

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
)

//go:embed stubs
var defaults embed.FS

// Extension is the file extension of stub files
const Extension = ".stub"

// ErrStubNotFound is returned when neither the override directory nor the
// defaults hold the requested stub
var ErrStubNotFound = errors.New("stub not found")

var tokenPattern = regexp.MustCompile(`\[%\s*([A-Za-z0-9_.-]+)\s*%\]`)

// Tokens maps token names to their replacement text
type Tokens map[string]string

// Loader resolves stubs by name, e.g. "form/input"
type Loader struct {
	overrideDir string
	logger      *zap.Logger
}

// NewLoader creates a loader. overrideDir may be empty.
func NewLoader(overrideDir string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{overrideDir: overrideDir, logger: logger}
}

// Load returns the content of the named stub
func (l *Loader) Load(name string) (string, error) {
	clean, err := cleanName(name)
	if err != nil {
		return "", err
	}
	file := clean + Extension

	if l.overrideDir != "" {
		p := filepath.Join(l.overrideDir, filepath.FromSlash(file))
		data, err := os.ReadFile(p)
		if err == nil {
			l.logger.Debug("using stub override", zap.String("stub", name), zap.String("path", p))
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to read stub %s: %w", p, err)
		}
	}

	data, err := defaults.ReadFile(path.Join("stubs", file))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrStubNotFound, name)
	}
	return string(data), nil
}

// Render loads the named stub and replaces its tokens. It returns the
// names of tokens that had no value.
func (l *Loader) Render(name string, tokens Tokens) (string, []string, error) {
	content, err := l.Load(name)
	if err != nil {
		return "", nil, err
	}
	out, unresolved := Replace(content, tokens)
	if len(unresolved) > 0 {
		l.logger.Debug("unresolved stub tokens", zap.String("stub", name), zap.Strings("tokens", unresolved))
	}
	return out, unresolved, nil
}

// Names lists the stubs available from the defaults and the override directory
func (l *Loader) Names() ([]string, error) {
	seen := map[string]bool{}
	collect := func(fsys fs.FS, root string) error {
		return fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(p, Extension) {
				return nil
			}
			rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
			seen[strings.TrimSuffix(rel, Extension)] = true
			return nil
		})
	}

	if err := collect(defaults, "stubs"); err != nil {
		return nil, fmt.Errorf("failed to list default stubs: %w", err)
	}
	if l.overrideDir != "" {
		if _, err := os.Stat(l.overrideDir); err == nil {
			if err := collect(os.DirFS(l.overrideDir), "."); err != nil {
				return nil, fmt.Errorf("failed to list stub overrides: %w", err)
			}
		}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Replace substitutes every known token in content. Unknown tokens are left
// in place and returned once each, in order of first appearance.
func Replace(content string, tokens Tokens) (string, []string) {
	var unresolved []string
	reported := map[string]bool{}

	out := tokenPattern.ReplaceAllStringFunc(content, func(match string) string {
		name := tokenPattern.FindStringSubmatch(match)[1]
		if value, ok := tokens[name]; ok {
			return value
		}
		if !reported[name] {
			reported[name] = true
			unresolved = append(unresolved, name)
		}
		return match
	})
	return out, unresolved
}

// TokenNames returns the distinct token names used in content
func TokenNames(content string) []string {
	var names []string
	seen := map[string]bool{}
	for _, m := range tokenPattern.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// cleanName rejects stub names that would escape the stub directories
func cleanName(name string) (string, error) {
	name = strings.TrimSuffix(filepath.ToSlash(strings.TrimSpace(name)), Extension)
	clean := path.Clean(name)
	if name == "" || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("invalid stub name %q", name)
	}
	return clean, nil
}
