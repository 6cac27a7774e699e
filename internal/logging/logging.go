// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Fields re-exports logrus.Fields so callers don't import logrus directly.
type Fields = logrus.Fields

// Configure sets the global log level and, when file is non-empty,
// redirects output there. Returns the file's closer when one was opened.
func Configure(level, file string) (io.Closer, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(os.Stderr)

	if file == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	logrus.SetOutput(f)
	return f, nil
}

// Named returns an entry tagged with a component field.
func Named(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}
