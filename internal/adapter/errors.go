package adapter

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a missing adapter, locale, or format
// configuration. It is returned at construction time and is never
// retried.
type ConfigurationError struct {
	Provider string // what could not be provided: DateAdapter, DateFormats
	Detail   string
	Err      error
}

func (e *ConfigurationError) Error() string {
	msg := "datefield: No provider found for " + e.Provider
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

func noFormats(detail string, args ...any) error {
	return &ConfigurationError{Provider: "DateFormats", Detail: fmt.Sprintf(detail, args...)}
}
