package cli

import (
	"fmt"
	"time"

	"github.com/MikeBiancalana/datefield/internal/adapter"
	"github.com/MikeBiancalana/datefield/internal/binding"
	"github.com/MikeBiancalana/datefield/internal/config"
	"github.com/MikeBiancalana/datefield/internal/logger"
	"github.com/MikeBiancalana/datefield/internal/pipeline"
	"github.com/MikeBiancalana/datefield/internal/storage"
)

// handlers holds one implementation of a command per adapter. Commands are
// written once as generic functions and instantiated for both date types.
type handlers struct {
	native   func(*pipeline.Pipeline[time.Time]) error
	calendar func(*pipeline.Pipeline[adapter.Day]) error
}

// dispatch builds the pipeline selected by s and runs the matching handler
func dispatch(s config.Settings, h handlers) error {
	provider, err := adapter.ResolveProvider(s.Adapter)
	if err != nil {
		return err
	}

	if provider == adapter.ProviderCalendar {
		p, err := newCalendarPipeline(s)
		if err != nil {
			return err
		}
		return h.calendar(p)
	}
	p, err := newNativePipeline(s)
	if err != nil {
		return err
	}
	return h.native(p)
}

func newNativePipeline(s config.Settings) (*pipeline.Pipeline[time.Time], error) {
	loc, err := s.Location()
	if err != nil {
		return nil, err
	}
	a, err := adapter.NewTimeAdapter(s.Locale, adapter.WithLocation(loc))
	if err != nil {
		return nil, err
	}
	return newPipeline[time.Time](a, s)
}

func newCalendarPipeline(s config.Settings) (*pipeline.Pipeline[adapter.Day], error) {
	loc, err := s.Location()
	if err != nil {
		return nil, err
	}
	a, err := adapter.NewCalendarAdapter(s.Locale, adapter.WithLocation(loc))
	if err != nil {
		return nil, err
	}
	return newPipeline[adapter.Day](a, s)
}

// sameProvider wraps build so that it rejects settings selecting a
// different adapter than provider. The date type of a running pipeline
// cannot change.
func sameProvider[D any](provider string, build func(config.Settings) (*pipeline.Pipeline[D], error)) func(config.Settings) (*pipeline.Pipeline[D], error) {
	return func(s config.Settings) (*pipeline.Pipeline[D], error) {
		applyFlags(&s)
		next, err := adapter.ResolveProvider(s.Adapter)
		if err != nil {
			return nil, err
		}
		if next != provider {
			return nil, fmt.Errorf("switching adapter from %s to %s requires a restart", provider, next)
		}
		return build(s)
	}
}

// newPipeline assembles a pipeline from settings: the selected profile's
// formats (or the inline ones), the filter rules and the min/max bounds
func newPipeline[D any](a adapter.DateAdapter[D], s config.Settings) (*pipeline.Pipeline[D], error) {
	formats, err := resolveFormats(s)
	if err != nil {
		return nil, err
	}
	filter, err := pipeline.CompileRules(a, s.Filter)
	if err != nil {
		return nil, err
	}
	min, err := pipeline.ParseBound(a, s.Min)
	if err != nil {
		return nil, fmt.Errorf("invalid min: %w", err)
	}
	max, err := pipeline.ParseBound(a, s.Max)
	if err != nil {
		return nil, fmt.Errorf("invalid max: %w", err)
	}

	return pipeline.New(pipeline.Config[D]{
		Adapter: a,
		Formats: formats,
		Filter:  filter,
		Min:     min,
		Max:     max,
		Logger:  logger.GetLogger(),
	})
}

// resolveFormats returns the formats of the selected profile, or the
// formats from the config file when no profile is selected
func resolveFormats(s config.Settings) (adapter.DateFormats, error) {
	if s.Profile == "" {
		return s.Formats, nil
	}
	formats, info, err := storage.NewFileStore().ReadProfile(s.Profile)
	if err != nil {
		return adapter.DateFormats{}, err
	}
	if !info.Exists {
		return adapter.DateFormats{}, &adapter.ConfigurationError{
			Provider: "DateFormats",
			Detail:   fmt.Sprintf("profile %q not found", s.Profile),
		}
	}
	return formats, nil
}

// openRepository opens the field database at its default location
func openRepository() (*binding.Repository, func(), error) {
	dbPath, err := config.DatabasePath()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get database path: %w", err)
	}
	db, err := storage.NewDatabase(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return binding.NewRepository(db, logger.GetLogger()), func() { db.Close() }, nil
}
