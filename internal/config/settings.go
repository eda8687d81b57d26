package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MikeBiancalana/datefield/internal/adapter"
	"github.com/MikeBiancalana/datefield/internal/locale"
	"github.com/MikeBiancalana/datefield/internal/pipeline"
)

// ErrConfigExists is returned by Init when the file is already present
var ErrConfigExists = errors.New("config file already exists")

// Settings is the contents of config.yaml. Changing any of it requires
// rebuilding the pipeline.
type Settings struct {
	Locale   string              `yaml:"locale"`
	Adapter  string              `yaml:"adapter"`
	Timezone string              `yaml:"timezone,omitempty"`
	Profile  string              `yaml:"profile,omitempty"`
	Formats  adapter.DateFormats `yaml:"formats"`
	Min      string              `yaml:"min,omitempty"`
	Max      string              `yaml:"max,omitempty"`
	Filter   pipeline.Rules      `yaml:"filter,omitempty"`
}

// Default returns the settings used when no config file exists
func Default() Settings {
	return Settings{
		Locale:  "en-US",
		Adapter: adapter.ProviderNative,
		Formats: adapter.DefaultFormats(),
	}
}

// Load reads settings from path. A missing file yields Default. Keys absent
// from the file keep their default values. DATEFIELD_LOCALE,
// DATEFIELD_ADAPTER and DATEFIELD_TZ override the file.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return Settings{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	s.applyEnv()
	s.Formats = s.Formats.WithDefaults()
	return s, nil
}

// LoadDefault reads settings from ConfigPath
func LoadDefault() (Settings, error) {
	path, err := ConfigPath()
	if err != nil {
		return Settings{}, err
	}
	return Load(path)
}

func (s *Settings) applyEnv() {
	if v := os.Getenv("DATEFIELD_LOCALE"); v != "" {
		s.Locale = v
	}
	if v := os.Getenv("DATEFIELD_ADAPTER"); v != "" {
		s.Adapter = v
	}
	if v := os.Getenv("DATEFIELD_TZ"); v != "" {
		s.Timezone = v
	}
}

// Validate checks the adapter name, locale and timezone. It does not
// compile patterns; that happens when the pipeline is built.
func (s Settings) Validate() error {
	if _, err := adapter.ResolveProvider(s.Adapter); err != nil {
		return err
	}
	if _, err := locale.Lookup(s.Locale); err != nil {
		return &adapter.ConfigurationError{Provider: "DateAdapter", Detail: fmt.Sprintf("locale %q", s.Locale), Err: err}
	}
	if _, err := s.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone, defaulting to the local zone
func (s Settings) Location() (*time.Location, error) {
	if strings.TrimSpace(s.Timezone) == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

// Save writes settings to path
func Save(path string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Init writes default settings to path. It refuses to overwrite an
// existing file unless force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	return Save(path, Default())
}
