package locale

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// ErrUnknownLocale is returned when no registered locale matches a tag
var ErrUnknownLocale = errors.New("unknown locale")

// Registry stores locales by BCP 47 tag and resolves requested tags with
// the x/text language matcher.
type Registry struct {
	mu      sync.RWMutex
	locales map[string]*Locale
	tags    []language.Tag
	keys    []string
	matcher language.Matcher
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{locales: make(map[string]*Locale)}
}

// Default is the registry populated with the built-in locales.
var Default = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, l := range []*Locale{EnglishUS, EnglishGB, GermanDE, FrenchFR, SpanishES} {
		r.MustRegister(l)
	}
	return r
}

// Register adds a locale. Duplicate or malformed tags return an error.
func (r *Registry) Register(l *Locale) error {
	if l == nil {
		return fmt.Errorf("locale: locale is required")
	}
	tag, err := language.Parse(l.Tag)
	if err != nil {
		return fmt.Errorf("locale: invalid tag %q: %w", l.Tag, err)
	}
	key := normalizeTag(tag.String())

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.locales[key]; exists {
		return fmt.Errorf("locale: %q already registered", key)
	}
	r.locales[key] = l
	r.tags = append(r.tags, tag)
	r.keys = append(r.keys, key)
	r.matcher = language.NewMatcher(r.tags)
	return nil
}

// MustRegister panics on registration failure
func (r *Registry) MustRegister(l *Locale) {
	if err := r.Register(l); err != nil {
		panic(err)
	}
}

// Lookup resolves a requested tag to a registered locale. An exact tag
// wins; otherwise the language matcher must report at least High
// confidence ("de" resolves to de-DE, "ja-JP" does not resolve to anything).
func (r *Registry) Lookup(requested string) (*Locale, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return nil, fmt.Errorf("%w: empty tag", ErrUnknownLocale)
	}
	tag, err := language.Parse(requested)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnknownLocale, requested, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if l, ok := r.locales[normalizeTag(tag.String())]; ok {
		return l, nil
	}
	if r.matcher == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, requested)
	}

	_, index, confidence := r.matcher.Match(tag)
	if confidence < language.High || index < 0 || index >= len(r.keys) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, requested)
	}
	return r.locales[r.keys[index]], nil
}

// List returns the registered tags, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]string, 0, len(r.locales))
	for _, l := range r.locales {
		tags = append(tags, l.Tag)
	}
	sort.Strings(tags)
	return tags
}

// Lookup resolves a tag against the default registry
func Lookup(requested string) (*Locale, error) {
	return Default.Lookup(requested)
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(tag), "_", "-"))
}
