package credentials

import (
	"fmt"
	"strings"
)

// ConfigError reports a credentials source that exists but cannot be used.
// It is fatal even when lower-priority sources are available: falling
// through would hide a mistyped path or a truncated download.
type ConfigError struct {
	Source string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("client credentials from %s: %v", e.Source, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func (e *ConfigError) WithCause(err error) *ConfigError {
	e.Err = err
	return e
}

// NoCredentialsError reports that no source in the chain had a document.
type NoCredentialsError struct {
	Checked []string
}

func (e *NoCredentialsError) Error() string {
	return fmt.Sprintf("no OAuth client credentials found (checked: %s)", strings.Join(e.Checked, ", "))
}
