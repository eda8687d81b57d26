package adapter

import (
	"fmt"
	"strings"
)

// Provider names select an adapter implementation from configuration
const (
	ProviderNative   = "native"
	ProviderCalendar = "calendar"
)

// Providers lists the known adapter implementations
func Providers() []string {
	return []string{ProviderCalendar, ProviderNative}
}

// ResolveProvider normalizes a provider name. An empty name selects the
// native adapter; an unknown name is a ConfigurationError.
func ResolveProvider(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ProviderNative, "time":
		return ProviderNative, nil
	case ProviderCalendar, "civil", "day":
		return ProviderCalendar, nil
	}
	return "", &ConfigurationError{
		Provider: "DateAdapter",
		Detail:   fmt.Sprintf("adapter %q, known: %s", name, strings.Join(Providers(), ", ")),
	}
}
