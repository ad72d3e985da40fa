// Package ui writes colored console messages for the resourcekit CLI.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Level represents the severity of a message
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level        Level
	Context      string
	Problem      string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

func levelColors(level Level, noColor bool) (*color.Color, *color.Color, string) {
	var header, body *color.Color
	var symbol string
	switch level {
	case LevelWarning:
		header = color.New(color.FgYellow, color.Bold)
		body = color.New(color.FgYellow)
		symbol = "!"
	case LevelInfo:
		header = color.New(color.FgCyan, color.Bold)
		body = color.New(color.FgCyan)
		symbol = "i"
	default:
		header = color.New(color.FgRed, color.Bold)
		body = color.New(color.FgRed)
		symbol = "✗"
	}
	if noColor {
		header.DisableColor()
		body.DisableColor()
	}
	return header, body, symbol
}

// FormatError creates a standardized error message with suggestions and help commands
//
// Example output:
//
//	✗ RESOURCE NOT FOUND: Pst
//	   No resource file for 'Pst'.
//
//	   Did you mean: Post, User?
//
//	   → Create it: resourcekit resource create Pst
func FormatError(opts ErrorOptions) string {
	var b strings.Builder
	header, body, symbol := levelColors(opts.Level, opts.NoColor)

	if opts.Context != "" {
		header.Fprintf(&b, "%s %s\n", symbol, strings.ToUpper(opts.Context))
		body.Fprintf(&b, "   %s\n", opts.Problem)
	} else {
		header.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		yellow := color.New(color.FgYellow)
		if opts.NoColor {
			yellow.DisableColor()
		}
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		cyan := color.New(color.FgCyan)
		if opts.NoColor {
			cyan.DisableColor()
		}
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

// ResourceNotFoundError creates the message shown when a resource file is missing
func ResourceNotFoundError(model string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       LevelError,
		Context:     "resource not found",
		Problem:     fmt.Sprintf("No resource file for '%s'.", model),
		Suggestions: suggestions,
		HelpCommands: []string{
			"Create it: resourcekit resource create " + model,
			"Build resources from a database: resourcekit resource from-database",
		},
		NoColor: noColor,
	})
}

// Console prints success, warning, error and info lines
type Console struct {
	Out     io.Writer
	Err     io.Writer
	NoColor bool
}

// NewConsole creates a console writing normal output to out and problems to errOut
func NewConsole(out, errOut io.Writer, noColor bool) *Console {
	return &Console{Out: out, Err: errOut, NoColor: noColor}
}

func (c *Console) line(w io.Writer, attrs []color.Attribute, symbol, format string, args ...interface{}) {
	col := color.New(attrs...)
	if c.NoColor {
		col.DisableColor()
	}
	_, _ = col.Fprintf(w, "%s %s\n", symbol, fmt.Sprintf(format, args...))
}

// Success prints a green check line
func (c *Console) Success(format string, args ...interface{}) {
	c.line(c.Out, []color.Attribute{color.FgGreen, color.Bold}, "✓", format, args...)
}

// Info prints a cyan line
func (c *Console) Info(format string, args ...interface{}) {
	c.line(c.Out, []color.Attribute{color.FgCyan}, "→", format, args...)
}

// Warning prints a yellow line to the error stream
func (c *Console) Warning(format string, args ...interface{}) {
	c.line(c.Err, []color.Attribute{color.FgYellow}, "!", format, args...)
}

// Warnings prints one warning line per message
func (c *Console) Warnings(messages []string) {
	for _, m := range messages {
		c.Warning("%s", m)
	}
}

// Error prints a red line to the error stream
func (c *Console) Error(format string, args ...interface{}) {
	c.line(c.Err, []color.Attribute{color.FgRed, color.Bold}, "✗", format, args...)
}

// Block writes a preformatted message, such as one from FormatError, to the error stream
func (c *Console) Block(message string) {
	_, _ = fmt.Fprint(c.Err, message)
}
