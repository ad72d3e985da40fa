package generator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tordrt/resourcekit/internal/naming"
	"github.com/tordrt/resourcekit/internal/resource"
)

// LanguageGenerator writes one JSON language file per locale
type LanguageGenerator struct {
	opts Options
}

// NewLanguageGenerator creates a language generator
func NewLanguageGenerator(opts Options) *LanguageGenerator {
	return &LanguageGenerator{opts: opts.withDefaults()}
}

// Path returns the language file for a locale: <dir>/<locale>/<table>.json
func (g *LanguageGenerator) Path(dir, locale, table string) string {
	return filepath.Join(dir, locale, table+".json")
}

// Entries builds the translation keys of a subject for one locale
func (g *LanguageGenerator) Entries(subject Subject, locale string) map[string]interface{} {
	model := naming.Humanize(subject.Model)
	plural := naming.Humanize(naming.TableName(subject.Model))

	fields := map[string]interface{}{}
	options := map[string]interface{}{}
	for _, f := range subject.Resource.Fields {
		fields[f.Name] = f.Label(locale)
		if len(f.Options) == 0 {
			continue
		}
		labels := map[string]interface{}{}
		for _, o := range f.Options {
			labels[o.Value] = optionLabel(o, locale)
		}
		options[f.Name] = labels
	}

	entries := map[string]interface{}{
		"model_name":        model,
		"model_name_plural": plural,
		"create":            "Create " + model,
		"edit":              "Edit " + model,
		"show":              "View " + model,
		"delete":            "Delete " + model,
		"index":             plural,
		"fields":            fields,
	}
	if len(options) > 0 {
		entries["options"] = options
	}
	return entries
}

func optionLabel(o resource.Option, locale string) string {
	if l := o.Labels[locale]; l != "" {
		return l
	}
	if l := o.Labels[resource.DefaultLocale]; l != "" {
		return l
	}
	return naming.Humanize(o.Value)
}

// Generate writes or merges the language file of every locale. Keys already
// present in an existing file keep their value unless Force is set; keys
// missing from it are always added.
func (g *LanguageGenerator) Generate(subject Subject, dir string, locales []string) ([]*Result, error) {
	if len(locales) == 0 {
		locales = []string{resource.DefaultLocale}
	}

	var results []*Result
	for _, locale := range locales {
		path := g.Path(dir, locale, subject.Table)
		generated := g.Entries(subject, locale)

		existing, err := readLanguageFile(path)
		if err != nil {
			return results, err
		}

		merged := generated
		if existing != nil {
			if g.opts.Force {
				merged = mergeEntries(generated, existing)
			} else {
				merged = mergeEntries(existing, generated)
			}
		}

		data, err := encodeLanguageFile(merged)
		if err != nil {
			return results, err
		}
		if err := writeTarget(path, data, true); err != nil {
			return results, err
		}

		g.opts.Logger.Debug("generated language file", zap.String("locale", locale), zap.String("path", path))
		results = append(results, &Result{Path: path})
	}
	return results, nil
}

// mergeEntries returns primary with every key of secondary it lacks added,
// recursing into nested objects. Values from primary win.
func mergeEntries(primary, secondary map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(primary))
	for k, v := range primary {
		out[k] = v
	}
	for k, v := range secondary {
		current, ok := out[k]
		if !ok {
			out[k] = v
			continue
		}
		currentMap, ok1 := current.(map[string]interface{})
		otherMap, ok2 := v.(map[string]interface{})
		if ok1 && ok2 {
			out[k] = mergeEntries(currentMap, otherMap)
		}
	}
	return out
}

func readLanguageFile(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read language file: %w", err)
	}

	entries := map[string]interface{}{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse language file %s: %w", path, err)
	}
	return entries, nil
}

func encodeLanguageFile(entries map[string]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("failed to encode language file: %w", err)
	}
	return buf.Bytes(), nil
}
