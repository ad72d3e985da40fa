package resource

import (
	"fmt"
	"strings"

	"github.com/tordrt/resourcekit/internal/naming"
)

// DefaultStringLength is the length given to string fields without params
const DefaultStringLength = "255"

var textareaNames = map[string]bool{
	"description": true, "content": true, "body": true, "notes": true, "summary": true, "bio": true,
}

// Optimize fills in whatever a field descriptor left unset: data type,
// html type, labels for every locale, and validation rules. Attributes that
// are already set are kept.
func Optimize(f *Field, locales []string) {
	if len(locales) == 0 {
		locales = []string{DefaultLocale}
	}

	if f.DataType == "" {
		guessDataType(f)
	}
	if f.DataType == TypeString && len(f.DataTypeParams) == 0 {
		f.DataTypeParams = Params{DefaultStringLength}
	}
	if f.IsAutoIncrement {
		f.IsUnsigned = true
	}
	if f.HTMLType == "" {
		f.HTMLType = guessHTMLType(f)
	}
	if isGeneratedKey(f) {
		f.IsOnForm = false
	}
	if f.HTMLType == HTMLPassword {
		f.IsOnIndex = false
		f.IsOnShow = false
	}

	for _, locale := range locales {
		if f.Labels[locale] == "" {
			f.SetLabel(locale, naming.Humanize(f.Name))
		}
		for i := range f.Options {
			if f.Options[i].Labels == nil {
				f.Options[i].Labels = Labels{}
			}
			if f.Options[i].Labels[locale] == "" {
				f.Options[i].Labels[locale] = naming.Humanize(f.Options[i].Value)
			}
		}
	}

	if len(f.Validation) == 0 {
		f.Validation = DefaultRules(f)
	}
}

func guessDataType(f *Field) {
	name := strings.ToLower(f.Name)
	switch {
	case name == "id":
		f.DataType = TypeInteger
		f.IsPrimary = true
		f.IsAutoIncrement = true
	case strings.HasSuffix(name, "_id"):
		f.DataType = TypeBigInteger
		f.IsUnsigned = true
	case strings.HasPrefix(name, "is_") || strings.HasPrefix(name, "has_"):
		f.DataType = TypeBoolean
	case strings.HasSuffix(name, "_at"):
		f.DataType = TypeDateTime
	case strings.HasSuffix(name, "_on") || strings.HasSuffix(name, "_date") || name == "date":
		f.DataType = TypeDate
	case len(f.Options) > 0:
		f.DataType = TypeEnum
	case textareaNames[name]:
		f.DataType = TypeText
	default:
		f.DataType = TypeString
	}
}

// isGeneratedKey reports whether the database assigns the field's value: an
// auto-increment primary key, or an integer "id" which a resource without
// a flagged primary field uses as its key
func isGeneratedKey(f *Field) bool {
	if f.IsPrimary && f.IsAutoIncrement {
		return true
	}
	return strings.EqualFold(f.Name, "id") && IsIntegerType(f.DataType)
}

func guessHTMLType(f *Field) string {
	name := strings.ToLower(f.Name)
	switch {
	case isGeneratedKey(f):
		return HTMLHidden
	case name == "email" || strings.HasSuffix(name, "_email"):
		return HTMLEmail
	case name == "password" || strings.HasSuffix(name, "_password"):
		return HTMLPassword
	case textareaNames[name]:
		return HTMLTextarea
	case f.ForeignConstraint != nil || (IsIntegerType(f.DataType) && strings.HasSuffix(name, "_id")):
		return HTMLSelect
	}

	switch f.DataType {
	case TypeBoolean:
		return HTMLCheckbox
	case TypeEnum:
		return HTMLSelect
	case TypeText, TypeMediumText, TypeLongText, TypeJSON:
		return HTMLTextarea
	case TypeDate:
		return HTMLDate
	case TypeDateTime, TypeTimestamp:
		return HTMLDateTime
	case TypeTime:
		return HTMLTime
	case TypeBinary:
		return HTMLFile
	}
	if IsNumericType(f.DataType) {
		return HTMLNumber
	}
	return HTMLText
}

// DefaultRules derives validation rules from a field's type and flags
func DefaultRules(f *Field) Rules {
	if isGeneratedKey(f) {
		return Rules{}
	}

	var rules Rules
	switch {
	case f.IsNullable:
		rules = append(rules, "nullable")
	case f.DataType == TypeBoolean:
		// an unchecked checkbox submits nothing
	default:
		rules = append(rules, "required")
	}

	switch f.DataType {
	case TypeString, TypeChar:
		rules = append(rules, "string")
		if !f.IsNullable {
			rules = append(rules, "min:1")
		}
		if ints := f.DataTypeParams.Ints(); len(ints) > 0 {
			rules = append(rules, fmt.Sprintf("max:%d", ints[0]))
		}
	case TypeText, TypeMediumText, TypeLongText:
		rules = append(rules, "string")
	case TypeBoolean:
		rules = append(rules, "boolean")
	case TypeDecimal, TypeFloat, TypeDouble:
		rules = append(rules, "numeric")
	case TypeDate, TypeDateTime, TypeTimestamp:
		rules = append(rules, "date")
	case TypeTime:
		rules = append(rules, "date_format:H:i:s")
	case TypeEnum:
		if len(f.Options) > 0 {
			rules = append(rules, "in:"+strings.Join(f.OptionValues(), ","))
		}
	case TypeJSON:
		rules = append(rules, "json")
	case TypeUUID:
		rules = append(rules, "uuid")
	case TypeBinary:
		rules = append(rules, "file")
	}
	if IsIntegerType(f.DataType) {
		rules = append(rules, "integer")
		if f.IsUnsigned {
			rules = append(rules, "min:0")
		}
	}

	if f.HTMLType == HTMLEmail {
		rules = append(rules, "email")
	}
	if fc := f.ForeignConstraint; fc != nil {
		rules = append(rules, fmt.Sprintf("exists:%s,%s", fc.On, fc.References))
	}
	return rules
}
