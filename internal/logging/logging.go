// Package logging builds the zap logger shared by the CLI and its packages.
package logging

import "go.uber.org/zap"

// New returns a development logger when verbose is set and a no-op logger
// otherwise. Construction failures fall back to the no-op logger.
func New(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
