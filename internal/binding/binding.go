// Package binding keeps a named date field in the database in step with a
// pipeline. Values typed by the user are written to the store; values
// assigned from the store are not written back.
package binding

import (
	"log/slog"

	"github.com/MikeBiancalana/datefield/internal/pipeline"
)

// Binding connects one pipeline to one stored field
type Binding[D any] struct {
	name        string
	repo        *Repository
	pipeline    *pipeline.Pipeline[D]
	logger      *slog.Logger
	unsubscribe func()
	err         error
}

// Bind loads the stored value of name into p and starts recording changes.
// The initial load is not recorded.
func Bind[D any](name string, repo *Repository, p *pipeline.Pipeline[D], logger *slog.Logger) (*Binding[D], error) {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Binding[D]{name: name, repo: repo, pipeline: p, logger: logger}
	if err := b.Load(); err != nil {
		return nil, err
	}
	b.unsubscribe = p.Subscribe(b.handle)
	return b, nil
}

// Load assigns the stored value to the pipeline as a model change
func (b *Binding[D]) Load() error {
	rec, err := b.repo.GetField(b.name)
	if err != nil {
		return err
	}
	if rec == nil || rec.Value == "" {
		b.pipeline.OnProgrammaticSet(nil)
		return nil
	}
	if !b.pipeline.SetFromString(rec.Value) {
		b.logger.Warn("Load", "field", b.name, "error", "stored value is not a date", "value", rec.Value)
	}
	return nil
}

// Name returns the field name
func (b *Binding[D]) Name() string {
	return b.name
}

// Pipeline returns the bound pipeline
func (b *Binding[D]) Pipeline() *pipeline.Pipeline[D] {
	return b.pipeline
}

// Err returns the last persistence error, if any
func (b *Binding[D]) Err() error {
	return b.err
}

// Close stops recording changes
func (b *Binding[D]) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
}

func (b *Binding[D]) handle(change pipeline.Change[D]) {
	a := b.pipeline.Adapter()
	value := ""
	if change.Value != nil {
		value = a.ToISO(*change.Value)
	}

	_, err := b.repo.AppendEvent(Event{
		FieldName: b.name,
		Kind:      change.Kind.String(),
		RawText:   b.pipeline.RawText(),
		Value:     value,
		Valid:     b.pipeline.Valid(),
	})
	if err != nil {
		b.fail(err)
		return
	}

	if change.Kind != pipeline.UserInput {
		return
	}

	switch {
	case change.Value == nil && b.pipeline.State() == pipeline.StateEmpty:
		err = b.repo.ClearField(b.name)
	case b.pipeline.Valid():
		err = b.repo.SaveField(FieldRecord{
			Name:        b.name,
			Value:       value,
			DisplayText: a.Format(*change.Value, b.pipeline.Formats().Display.DateInput),
			Locale:      a.Locale().Tag,
		})
	default:
		b.logger.Debug("handle", "field", b.name, "skipped", "invalid value", "error", b.pipeline.Validity().Err())
		return
	}
	if err != nil {
		b.fail(err)
	}
}

func (b *Binding[D]) fail(err error) {
	b.err = err
	b.logger.Error("Binding", "field", b.name, "error", err)
}
