// Package resource models resource files: the fields, relations and indexes
// that describe one model, plus the grammars and merge operations that edit them.
package resource

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Data types understood by the generators
const (
	TypeString        = "string"
	TypeChar          = "char"
	TypeText          = "text"
	TypeMediumText    = "mediumText"
	TypeLongText      = "longText"
	TypeInteger       = "integer"
	TypeTinyInteger   = "tinyInteger"
	TypeSmallInteger  = "smallInteger"
	TypeMediumInteger = "mediumInteger"
	TypeBigInteger    = "bigInteger"
	TypeBoolean       = "boolean"
	TypeDecimal       = "decimal"
	TypeFloat         = "float"
	TypeDouble        = "double"
	TypeDate          = "date"
	TypeDateTime      = "dateTime"
	TypeTime          = "time"
	TypeTimestamp     = "timestamp"
	TypeEnum          = "enum"
	TypeJSON          = "json"
	TypeUUID          = "uuid"
	TypeBinary        = "binary"
)

// HTML input types used by the form generator
const (
	HTMLText     = "text"
	HTMLTextarea = "textarea"
	HTMLNumber   = "number"
	HTMLEmail    = "email"
	HTMLPassword = "password"
	HTMLCheckbox = "checkbox"
	HTMLSelect   = "select"
	HTMLRadio    = "radio"
	HTMLDate     = "date"
	HTMLDateTime = "datetime"
	HTMLTime     = "time"
	HTMLFile     = "file"
	HTMLHidden   = "hidden"
)

var dataTypes = map[string]bool{
	TypeString: true, TypeChar: true, TypeText: true, TypeMediumText: true, TypeLongText: true,
	TypeInteger: true, TypeTinyInteger: true, TypeSmallInteger: true, TypeMediumInteger: true,
	TypeBigInteger: true, TypeBoolean: true, TypeDecimal: true, TypeFloat: true, TypeDouble: true,
	TypeDate: true, TypeDateTime: true, TypeTime: true, TypeTimestamp: true, TypeEnum: true,
	TypeJSON: true, TypeUUID: true, TypeBinary: true,
}

var htmlTypes = map[string]bool{
	HTMLText: true, HTMLTextarea: true, HTMLNumber: true, HTMLEmail: true, HTMLPassword: true,
	HTMLCheckbox: true, HTMLSelect: true, HTMLRadio: true, HTMLDate: true, HTMLDateTime: true,
	HTMLTime: true, HTMLFile: true, HTMLHidden: true,
}

// IsDataType reports whether t is a known data type
func IsDataType(t string) bool { return dataTypes[t] }

// IsHTMLType reports whether t is a known html type
func IsHTMLType(t string) bool { return htmlTypes[t] }

// IsIntegerType reports whether t is one of the integer data types
func IsIntegerType(t string) bool {
	switch t {
	case TypeInteger, TypeTinyInteger, TypeSmallInteger, TypeMediumInteger, TypeBigInteger:
		return true
	}
	return false
}

// IsNumericType reports whether t holds numbers
func IsNumericType(t string) bool {
	switch t {
	case TypeDecimal, TypeFloat, TypeDouble:
		return true
	}
	return IsIntegerType(t)
}

// DefaultLocale is used when no locale is configured
const DefaultLocale = "en"

// Labels maps a locale to display text
type Labels map[string]string

// Option is one allowed value of an enum or select field
type Option struct {
	Value  string `json:"value" yaml:"value"`
	Labels Labels `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// ForeignConstraint describes the foreign key a field carries
type ForeignConstraint struct {
	Field      string `json:"field" yaml:"field"`
	References string `json:"references" yaml:"references"`
	On         string `json:"on" yaml:"on"`
	OnDelete   string `json:"on-delete,omitempty" yaml:"on-delete,omitempty"`
	OnUpdate   string `json:"on-update,omitempty" yaml:"on-update,omitempty"`
}

// Field is one attribute of a resource
type Field struct {
	Name              string             `json:"name" yaml:"name"`
	Labels            Labels             `json:"labels,omitempty" yaml:"labels,omitempty"`
	HTMLType          string             `json:"html-type" yaml:"html-type"`
	DataType          string             `json:"data-type" yaml:"data-type"`
	DataTypeParams    Params             `json:"data-type-params,omitempty" yaml:"data-type-params,omitempty"`
	DataValue         *string            `json:"data-value" yaml:"data-value"`
	IsNullable        bool               `json:"is-nullable" yaml:"is-nullable"`
	IsPrimary         bool               `json:"is-primary" yaml:"is-primary"`
	IsUnique          bool               `json:"is-unique" yaml:"is-unique"`
	IsIndex           bool               `json:"is-index" yaml:"is-index"`
	IsAutoIncrement   bool               `json:"is-auto-increment" yaml:"is-auto-increment"`
	IsUnsigned        bool               `json:"is-unsigned" yaml:"is-unsigned"`
	Validation        Rules              `json:"validation" yaml:"validation"`
	Options           []Option           `json:"options,omitempty" yaml:"options,omitempty"`
	Comment           string             `json:"comment,omitempty" yaml:"comment,omitempty"`
	IsOnIndex         bool               `json:"is-on-index" yaml:"is-on-index"`
	IsOnForm          bool               `json:"is-on-form" yaml:"is-on-form"`
	IsOnShow          bool               `json:"is-on-show" yaml:"is-on-show"`
	ForeignConstraint *ForeignConstraint `json:"foreign-constraint,omitempty" yaml:"foreign-constraint,omitempty"`
}

// NewField creates a field with the default visibility flags
func NewField(name string) *Field {
	return &Field{
		Name:      strings.TrimSpace(name),
		IsOnIndex: true,
		IsOnForm:  true,
		IsOnShow:  true,
	}
}

// Label returns the label for locale, falling back to English, then the name
func (f *Field) Label(locale string) string {
	if l := f.Labels[locale]; l != "" {
		return l
	}
	if l := f.Labels[DefaultLocale]; l != "" {
		return l
	}
	return f.Name
}

// SetLabel sets the label for one locale
func (f *Field) SetLabel(locale, text string) {
	if f.Labels == nil {
		f.Labels = Labels{}
	}
	f.Labels[locale] = text
}

// HasRule reports whether a validation rule with the given name is present.
// "max" matches "max:255".
func (f *Field) HasRule(name string) bool {
	for _, r := range f.Validation {
		if r == name || strings.HasPrefix(r, name+":") {
			return true
		}
	}
	return false
}

// OptionValues returns the option values in order
func (f *Field) OptionValues() []string {
	values := make([]string, 0, len(f.Options))
	for _, o := range f.Options {
		values = append(values, o.Value)
	}
	return values
}

// fieldAlias drops Field's methods so decoding does not recurse
type fieldAlias Field

// UnmarshalJSON applies field defaults before decoding so visibility flags
// missing from older files stay true
func (f *Field) UnmarshalJSON(data []byte) error {
	a := fieldAlias(*NewField(""))
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*f = Field(a)
	return nil
}

// UnmarshalYAML applies field defaults before decoding
func (f *Field) UnmarshalYAML(node *yaml.Node) error {
	a := fieldAlias(*NewField(""))
	if err := node.Decode(&a); err != nil {
		return err
	}
	*f = Field(a)
	return nil
}

// Rules is an ordered list of validation rules, stored as one "|"-joined string
type Rules []string

// ParseRules splits a "|"-joined rule string, dropping empty rules
func ParseRules(s string) Rules {
	var rules Rules
	for _, r := range strings.Split(s, "|") {
		if r = strings.TrimSpace(r); r != "" {
			rules = append(rules, r)
		}
	}
	return rules
}

// String joins the rules with "|"
func (r Rules) String() string {
	return strings.Join(r, "|")
}

// MarshalJSON writes the rules as a single string
func (r Rules) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts either a "|"-joined string or an array of rules
func (r *Rules) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = ParseRules(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("validation must be a string or an array of strings: %w", err)
	}
	*r = ParseRules(strings.Join(list, "|"))
	return nil
}

// MarshalYAML writes the rules as a single string
func (r Rules) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

// UnmarshalYAML accepts either a "|"-joined string or a sequence of rules
func (r *Rules) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*r = ParseRules(strings.Join(list, "|"))
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	*r = ParseRules(s)
	return nil
}

// Params holds data type parameters such as a length or precision and scale
type Params []string

// Ints returns the parameters that parse as integers
func (p Params) Ints() []int {
	var out []int
	for _, s := range p {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// UnmarshalJSON accepts numbers as well as strings
func (p *Params) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("data-type-params must be an array: %w", err)
	}
	out := make(Params, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		out = append(out, strings.TrimSpace(string(item)))
	}
	*p = out
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
