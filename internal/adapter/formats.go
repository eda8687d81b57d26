package adapter

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DateFormats configures how a pipeline parses and displays dates.
// Parse patterns are tried strictly in order: the first one that yields a
// valid date wins even if a later one would also match.
type DateFormats struct {
	Parse   ParseFormats   `yaml:"parse"`
	Display DisplayFormats `yaml:"display"`
}

type ParseFormats struct {
	DateInput PatternList `yaml:"dateInput"`
}

type DisplayFormats struct {
	DateInput          string `yaml:"dateInput"`
	MonthYearLabel     string `yaml:"monthYearLabel,omitempty"`
	DateA11yLabel      string `yaml:"dateA11yLabel,omitempty"`
	MonthYearA11yLabel string `yaml:"monthYearA11yLabel,omitempty"`
}

// PatternList is an ordered list of patterns. In YAML it may be written as
// a single scalar or as a sequence.
type PatternList []string

func (p *PatternList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*p = PatternList{s}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*p = list
		return nil
	}
	return fmt.Errorf("line %d: dateInput must be a pattern or a list of patterns", node.Line)
}

// DefaultFormats returns locale-driven formats: parse the short preset
// first, then ISO dates.
func DefaultFormats() DateFormats {
	return DateFormats{
		Parse: ParseFormats{DateInput: PatternList{"l", "YYYY-MM-DD"}},
		Display: DisplayFormats{
			DateInput:          "l",
			MonthYearLabel:     "MMM YYYY",
			DateA11yLabel:      "LL",
			MonthYearA11yLabel: "MMMM YYYY",
		},
	}
}

// WithDefaults fills empty display labels from DefaultFormats
func (f DateFormats) WithDefaults() DateFormats {
	d := DefaultFormats()
	if f.Display.MonthYearLabel == "" {
		f.Display.MonthYearLabel = d.Display.MonthYearLabel
	}
	if f.Display.DateA11yLabel == "" {
		f.Display.DateA11yLabel = d.Display.DateA11yLabel
	}
	if f.Display.MonthYearA11yLabel == "" {
		f.Display.MonthYearA11yLabel = d.Display.MonthYearA11yLabel
	}
	return f
}

// Validate checks that the formats are complete and that every pattern
// compiles for the adapter's locale. Failures are ConfigurationErrors.
func (f DateFormats) Validate(validate func(pattern string) error) error {
	if len(f.Parse.DateInput) == 0 {
		return noFormats("no parse patterns")
	}
	if strings.TrimSpace(f.Display.DateInput) == "" {
		return noFormats("no display pattern")
	}
	if validate == nil {
		return nil
	}

	patterns := append([]string{}, f.Parse.DateInput...)
	patterns = append(patterns, f.Display.DateInput, f.Display.MonthYearLabel,
		f.Display.DateA11yLabel, f.Display.MonthYearA11yLabel)
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if err := validate(p); err != nil {
			return &ConfigurationError{Provider: "DateFormats", Detail: fmt.Sprintf("pattern %q", p), Err: err}
		}
	}
	return nil
}

// LoadFormats reads DateFormats from a YAML file
func LoadFormats(path string) (DateFormats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DateFormats{}, fmt.Errorf("failed to read formats file: %w", err)
	}
	var f DateFormats
	if err := yaml.Unmarshal(data, &f); err != nil {
		return DateFormats{}, fmt.Errorf("failed to parse formats file: %w", err)
	}
	return f.WithDefaults(), nil
}
