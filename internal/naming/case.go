// Package naming converts between the identifier styles used in resource
// files, database tables and generated artifacts.
package naming

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ToSnakeCase converts CamelCase to snake_case
// Handles acronyms properly (HTTPRequest -> http_request)
func ToSnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(strings.TrimSpace(s))

	for i, r := range runes {
		switch {
		case r == '-' || r == ' ':
			result.WriteRune('_')
		case unicode.IsUpper(r):
			if i > 0 {
				prev := runes[i-1]
				if unicode.IsLower(prev) || unicode.IsDigit(prev) {
					result.WriteRune('_')
				} else if unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
					result.WriteRune('_')
				}
			}
			result.WriteRune(unicode.ToLower(r))
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}

// ToStudlyCase converts snake_case or kebab-case to StudlyCase
func ToStudlyCase(s string) string {
	var b strings.Builder
	for _, part := range words(s) {
		runes := []rune(part)
		b.WriteRune(unicode.ToUpper(runes[0]))
		b.WriteString(string(runes[1:]))
	}
	return b.String()
}

// ToCamelCase converts snake_case to camelCase
func ToCamelCase(s string) string {
	studly := []rune(ToStudlyCase(s))
	if len(studly) == 0 {
		return ""
	}
	studly[0] = unicode.ToLower(studly[0])
	return string(studly)
}

// Humanize turns an identifier into a display label: "first_name" -> "First Name".
// A trailing "_id" is dropped so "author_id" reads "Author".
func Humanize(s string) string {
	snake := ToSnakeCase(s)
	if snake != "id" {
		snake = strings.TrimSuffix(snake, "_id")
	}
	return cases.Title(language.Und).String(strings.Join(words(snake), " "))
}

// Plural returns the plural of an English word
func Plural(s string) string {
	return inflection.Plural(s)
}

// Singular returns the singular of an English word
func Singular(s string) string {
	return inflection.Singular(s)
}

// TableName derives a table name from a model name: "BlogPost" -> "blog_posts"
func TableName(model string) string {
	snake := ToSnakeCase(model)
	parts := strings.Split(snake, "_")
	parts[len(parts)-1] = Plural(parts[len(parts)-1])
	return strings.Join(parts, "_")
}

// ModelName derives a model name from a table name: "blog_posts" -> "BlogPost"
func ModelName(table string) string {
	parts := strings.Split(ToSnakeCase(table), "_")
	parts[len(parts)-1] = Singular(parts[len(parts)-1])
	return ToStudlyCase(strings.Join(parts, "_"))
}

func words(s string) []string {
	return strings.FieldsFunc(ToSnakeCase(s), func(r rune) bool {
		return r == '_'
	})
}
