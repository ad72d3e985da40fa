package resource

import (
	"fmt"
	"strings"
)

// Separators of the compact command-line grammar:
//
//	name:title;data-type:string;is-nullable:true#name:body;html-type:textarea
const (
	itemSeparator     = "#"
	propertySeparator = ";"
	valueSeparator    = ":"
	listSeparator     = "|"
)

var dataTypeAliases = map[string]string{
	"varchar":    TypeString,
	"str":        TypeString,
	"int":        TypeInteger,
	"tinyint":    TypeTinyInteger,
	"smallint":   TypeSmallInteger,
	"mediumint":  TypeMediumInteger,
	"bigint":     TypeBigInteger,
	"bool":       TypeBoolean,
	"datetime":   TypeDateTime,
	"mediumtext": TypeMediumText,
	"longtext":   TypeLongText,
	"numeric":    TypeDecimal,
	"real":       TypeFloat,
}

// NormalizeDataType resolves a data type name, accepting common aliases
// and any letter case
func NormalizeDataType(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if IsDataType(s) {
		return s, true
	}
	lower := strings.ToLower(s)
	for t := range dataTypes {
		if strings.ToLower(t) == lower {
			return t, true
		}
	}
	t, ok := dataTypeAliases[lower]
	return t, ok
}

type property struct {
	key   string
	value string
}

// splitItems splits grammar input into items, dropping empty ones
func splitItems(input string) []string {
	var items []string
	for _, item := range strings.Split(input, itemSeparator) {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// splitList splits a "|" list, dropping empty entries
func splitList(value string) []string {
	var out []string
	for _, v := range strings.Split(value, listSeparator) {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseProperties splits one item into key/value pairs. A single bare token
// is shorthand for "name:<token>".
func parseProperties(item string) ([]property, error) {
	var props []property
	parts := strings.Split(item, propertySeparator)
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, found := strings.Cut(part, valueSeparator)
		if !found {
			if i == 0 {
				props = append(props, property{key: "name", value: part})
				continue
			}
			return nil, fmt.Errorf("property %q has no %q separator", part, valueSeparator)
		}
		props = append(props, property{
			key:   strings.ToLower(strings.TrimSpace(key)),
			value: strings.TrimSpace(value),
		})
	}
	return props, nil
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true", "1", "yes", "y", "on":
		return true, nil
	case "false", "0", "no", "n", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", value)
}

// ParseFields parses field descriptors. Labels given with "label:" apply to
// every locale in locales. Malformed items are skipped; the returned warnings
// explain why.
func ParseFields(input string, locales []string) ([]*Field, []string) {
	if len(locales) == 0 {
		locales = []string{DefaultLocale}
	}

	items := splitItems(input)
	// "title,body,author_id" is shorthand for three bare names
	if len(items) == 1 && !strings.ContainsAny(items[0], valueSeparator+propertySeparator) {
		items = nil
		for _, name := range strings.Split(input, ",") {
			if name = strings.TrimSpace(name); name != "" {
				items = append(items, name)
			}
		}
	}

	var fields []*Field
	var warnings []string
	for i, item := range items {
		field, itemWarnings, err := parseField(item, locales)
		for _, w := range itemWarnings {
			warnings = append(warnings, fmt.Sprintf("field #%d (%q): %s", i+1, item, w))
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("field #%d (%q): %v; skipped", i+1, item, err))
			continue
		}
		fields = append(fields, field)
	}
	return fields, warnings
}

func parseField(item string, locales []string) (*Field, []string, error) {
	props, err := parseProperties(item)
	if err != nil {
		return nil, nil, err
	}

	field := NewField("")
	var warnings []string

	for _, p := range props {
		switch p.key {
		case "name":
			field.Name = p.value
		case "label":
			for _, locale := range locales {
				field.SetLabel(locale, p.value)
			}
		case "labels":
			for _, pair := range splitList(p.value) {
				locale, text, ok := strings.Cut(pair, "=")
				if !ok || strings.TrimSpace(locale) == "" {
					return nil, nil, fmt.Errorf("label %q must be written locale=text", pair)
				}
				field.SetLabel(strings.TrimSpace(locale), strings.TrimSpace(text))
			}
		case "html-type":
			if !IsHTMLType(p.value) {
				return nil, nil, fmt.Errorf("unknown html type %q", p.value)
			}
			field.HTMLType = p.value
		case "data-type":
			t, ok := NormalizeDataType(p.value)
			if !ok {
				return nil, nil, fmt.Errorf("unknown data type %q", p.value)
			}
			field.DataType = t
		case "data-type-params":
			field.DataTypeParams = Params(splitList(strings.ReplaceAll(p.value, ",", listSeparator)))
		case "data-value", "default":
			v := p.value
			field.DataValue = &v
		case "validation":
			field.Validation = ParseRules(p.value)
		case "options":
			for _, v := range splitList(p.value) {
				field.Options = append(field.Options, Option{Value: v})
			}
		case "comment":
			field.Comment = p.value
		case "foreign-constraint":
			fc, err := parseForeignConstraint(p.value)
			if err != nil {
				return nil, nil, err
			}
			field.ForeignConstraint = fc
		case "is-nullable", "is-primary", "is-unique", "is-index", "is-auto-increment",
			"is-unsigned", "is-on-index", "is-on-form", "is-on-show":
			b, err := parseBool(p.value)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", p.key, err)
			}
			*boolAttribute(field, p.key) = b
		default:
			warnings = append(warnings, fmt.Sprintf("unknown key %q ignored", p.key))
		}
	}

	if field.Name == "" {
		return nil, warnings, fmt.Errorf("missing name")
	}
	if field.ForeignConstraint != nil {
		field.ForeignConstraint.Field = field.Name
	}
	return field, warnings, nil
}

func boolAttribute(f *Field, key string) *bool {
	switch key {
	case "is-nullable":
		return &f.IsNullable
	case "is-primary":
		return &f.IsPrimary
	case "is-unique":
		return &f.IsUnique
	case "is-index":
		return &f.IsIndex
	case "is-auto-increment":
		return &f.IsAutoIncrement
	case "is-unsigned":
		return &f.IsUnsigned
	case "is-on-index":
		return &f.IsOnIndex
	case "is-on-form":
		return &f.IsOnForm
	default:
		return &f.IsOnShow
	}
}

// parseForeignConstraint reads "references|on|on-delete|on-update"
func parseForeignConstraint(value string) (*ForeignConstraint, error) {
	parts := strings.Split(value, listSeparator)
	if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return nil, fmt.Errorf("foreign-constraint %q must be written references|on[|on-delete[|on-update]]", value)
	}
	fc := &ForeignConstraint{
		References: strings.TrimSpace(parts[0]),
		On:         strings.TrimSpace(parts[1]),
	}
	if len(parts) > 2 {
		fc.OnDelete = strings.TrimSpace(parts[2])
	}
	if len(parts) > 3 {
		fc.OnUpdate = strings.TrimSpace(parts[3])
	}
	return fc, nil
}

// ParseRelations parses relation descriptors such as
// "name:comments;type:hasMany;params:Comment|post_id|id;field:body"
func ParseRelations(input string) ([]*ForeignRelationship, []string) {
	var relations []*ForeignRelationship
	var warnings []string

	for i, item := range splitItems(input) {
		rel, itemWarnings, err := parseRelation(item)
		for _, w := range itemWarnings {
			warnings = append(warnings, fmt.Sprintf("relation #%d (%q): %s", i+1, item, w))
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("relation #%d (%q): %v; skipped", i+1, item, err))
			continue
		}
		relations = append(relations, rel)
	}
	return relations, warnings
}

func parseRelation(item string) (*ForeignRelationship, []string, error) {
	props, err := parseProperties(item)
	if err != nil {
		return nil, nil, err
	}

	rel := &ForeignRelationship{Params: []string{}}
	var warnings []string
	for _, p := range props {
		switch p.key {
		case "name":
			rel.Name = p.value
		case "type":
			rel.Type = p.value
		case "params":
			rel.Params = splitList(p.value)
		case "field":
			rel.Field = p.value
		default:
			warnings = append(warnings, fmt.Sprintf("unknown key %q ignored", p.key))
		}
	}

	if rel.Name == "" {
		return nil, warnings, fmt.Errorf("missing name")
	}
	if !IsRelationType(rel.Type) {
		return nil, warnings, fmt.Errorf("unknown relation type %q", rel.Type)
	}
	return rel, warnings, nil
}

// ParseIndexes parses index descriptors such as
// "name:title_slug_unique;type:unique;columns:title|slug". The name may be
// omitted and is then derived from the columns.
func ParseIndexes(input string) ([]*Index, []string) {
	var indexes []*Index
	var warnings []string

	for i, item := range splitItems(input) {
		idx, itemWarnings, err := parseIndex(item)
		for _, w := range itemWarnings {
			warnings = append(warnings, fmt.Sprintf("index #%d (%q): %s", i+1, item, w))
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("index #%d (%q): %v; skipped", i+1, item, err))
			continue
		}
		indexes = append(indexes, idx)
	}
	return indexes, warnings
}

func parseIndex(item string) (*Index, []string, error) {
	props, err := parseProperties(item)
	if err != nil {
		return nil, nil, err
	}

	idx := &Index{Type: IndexTypeIndex}
	var warnings []string
	for _, p := range props {
		switch p.key {
		case "name":
			idx.Name = p.value
		case "type":
			idx.Type = strings.ToLower(p.value)
		case "columns":
			idx.Columns = splitList(strings.ReplaceAll(p.value, ",", listSeparator))
		default:
			warnings = append(warnings, fmt.Sprintf("unknown key %q ignored", p.key))
		}
	}

	if !IsIndexType(idx.Type) {
		return nil, warnings, fmt.Errorf("unknown index type %q", idx.Type)
	}
	if len(idx.Columns) == 0 {
		return nil, warnings, fmt.Errorf("no columns")
	}
	if idx.Name == "" {
		idx.Name = DefaultIndexName(idx.Columns, idx.Type)
	}
	return idx, warnings, nil
}

// ParseNames splits a comma or "|" separated list of names, as used by reduce
func ParseNames(input string) []string {
	var names []string
	seen := map[string]bool{}
	for _, n := range strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == '|' || r == '#'
	}) {
		if n = strings.TrimSpace(n); n != "" && !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	return names
}
