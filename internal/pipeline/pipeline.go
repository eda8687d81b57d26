// Package pipeline turns raw text typed into a date field into a parsed,
// validated date value.
//
// A Pipeline is driven from two directions. The host calls OnUserInput on
// every input event and OnProgrammaticSet when its model assigns a value.
// Subscribers receive a Change tagged UserInput or ModelChange so that only
// user-typed values flow back into a bound model.
//
// Parse formats are tried strictly in configured order and the first that
// yields a valid date wins, so the order of DateFormats.Parse.DateInput is
// significant: with ["D/M/YYYY", "M/D/YYYY"], "2/3/2017" is 2 March.
//
// A Pipeline is not safe for concurrent use; calls are expected to be
// serialized by the host's event loop.
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/MikeBiancalana/datefield/internal/adapter"
)

// State is the observable state of the input
type State int

const (
	StateEmpty State = iota
	StatePopulated
)

func (s State) String() string {
	if s == StateEmpty {
		return "empty"
	}
	return "populated"
}

// ChangeKind tags where a value change came from
type ChangeKind int

const (
	UserInput ChangeKind = iota + 1
	ModelChange
)

func (k ChangeKind) String() string {
	switch k {
	case UserInput:
		return "user_input"
	case ModelChange:
		return "model_change"
	}
	return fmt.Sprintf("ChangeKind(%d)", int(k))
}

// Change is sent to subscribers when the value changes
type Change[D any] struct {
	Kind  ChangeKind
	Value *D
}

// InputState is a snapshot of the field
type InputState[D any] struct {
	RawText string
	Value   *D
	Valid   bool
}

// Config is required to construct a Pipeline
type Config[D any] struct {
	Adapter adapter.DateAdapter[D]
	Formats adapter.DateFormats
	Filter  func(D) bool
	Min     *D
	Max     *D
	Logger  *slog.Logger
}

type subscriber[D any] struct {
	id int
	fn func(Change[D])
}

// Pipeline holds the input state of one date field
type Pipeline[D any] struct {
	adapter adapter.DateAdapter[D]
	formats adapter.DateFormats
	filter  func(D) bool
	min     *D
	max     *D
	logger  *slog.Logger

	rawText  string
	value    *D
	validity Validity[D]

	subscribers []subscriber[D]
	nextID      int
}

// New validates the configuration and returns an empty pipeline. A missing
// adapter or incomplete formats is a ConfigurationError.
func New[D any](cfg Config[D]) (*Pipeline[D], error) {
	if cfg.Adapter == nil {
		return nil, &adapter.ConfigurationError{Provider: "DateAdapter", Detail: "no adapter configured"}
	}
	formats := cfg.Formats.WithDefaults()
	if err := formats.Validate(cfg.Adapter.ValidatePattern); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	p := &Pipeline[D]{
		adapter: cfg.Adapter,
		formats: formats,
		filter:  cfg.Filter,
		min:     validOrNil(cfg.Adapter, cfg.Min),
		max:     validOrNil(cfg.Adapter, cfg.Max),
		logger:  logger,
	}
	p.revalidate()
	return p, nil
}

// OnUserInput handles a raw input event. It never fails: unparseable text
// leaves the value nil and the pipeline invalid. Subscribers are notified
// only when the parsed value differs from the previous one.
func (p *Pipeline[D]) OnUserInput(text string) {
	previous := p.value
	p.rawText = text
	p.value = nil
	if text != "" {
		if v, ok := p.adapter.Parse(text, p.formats.Parse.DateInput); ok && p.adapter.IsValid(v) {
			p.value = &v
		}
	}
	p.revalidate()

	p.logger.Debug("OnUserInput", "raw_text", text, "parsed", p.value != nil, "valid", p.validity.Valid())

	if !p.sameValue(previous, p.value) {
		p.emit(Change[D]{Kind: UserInput, Value: p.copyValue()})
	}
}

// OnProgrammaticSet assigns a value from the host's model. Parsing is
// bypassed and the input text is re-rendered with the display pattern.
// Values the adapter reports as invalid are treated as nil.
func (p *Pipeline[D]) OnProgrammaticSet(value *D) {
	p.value = validOrNil(p.adapter, value)
	if p.value == nil {
		p.rawText = ""
	} else {
		p.rawText = p.adapter.Format(*p.value, p.formats.Display.DateInput)
	}
	p.revalidate()

	p.logger.Debug("OnProgrammaticSet", "raw_text", p.rawText, "valid", p.validity.Valid())

	p.emit(Change[D]{Kind: ModelChange, Value: p.copyValue()})
}

// SetFromString assigns a serialized value (ISO 8601 date or RFC 3339
// timestamp). An empty string clears the value. It reports false, and
// clears the value, when s cannot be deserialized.
func (p *Pipeline[D]) SetFromString(s string) bool {
	if s == "" {
		p.OnProgrammaticSet(nil)
		return true
	}
	v, ok := p.adapter.Deserialize(s)
	if !ok {
		p.logger.Warn("SetFromString", "error", "cannot deserialize", "value", s)
		p.OnProgrammaticSet(nil)
		return false
	}
	p.OnProgrammaticSet(&v)
	return true
}

// Commit re-renders the input text from the parsed value, as a field does
// when it loses focus. Text that did not parse is left untouched.
func (p *Pipeline[D]) Commit() string {
	if p.value != nil {
		p.rawText = p.adapter.Format(*p.value, p.formats.Display.DateInput)
	}
	return p.rawText
}

// InputText renders value the way a user would type it: in the first parse
// pattern whose text parses back to the same date. Patterns that drop
// information, such as a two-digit year, are skipped when they would read
// back as a different date.
func (p *Pipeline[D]) InputText(value D) (string, error) {
	if !p.adapter.IsValid(value) {
		return "", ErrNotTypeable
	}
	for _, pattern := range p.formats.Parse.DateInput {
		text := p.adapter.Format(value, pattern)
		if got, ok := p.adapter.Parse(text, p.formats.Parse.DateInput); ok && p.adapter.SameDate(got, value) {
			return text, nil
		}
	}
	return "", fmt.Errorf("%s: %w", p.adapter.ToISO(value), ErrNotTypeable)
}

// Clear empties the field as if the user deleted the text
func (p *Pipeline[D]) Clear() {
	p.OnUserInput("")
}

// SetFilter replaces the filter predicate and revalidates. No change is
// emitted since the value itself does not change.
func (p *Pipeline[D]) SetFilter(filter func(D) bool) {
	p.filter = filter
	p.revalidate()
}

// SetMin replaces the lower bound and revalidates
func (p *Pipeline[D]) SetMin(min *D) {
	p.min = validOrNil(p.adapter, min)
	p.revalidate()
}

// SetMax replaces the upper bound and revalidates
func (p *Pipeline[D]) SetMax(max *D) {
	p.max = validOrNil(p.adapter, max)
	p.revalidate()
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (p *Pipeline[D]) Subscribe(fn func(Change[D])) func() {
	p.nextID++
	id := p.nextID
	p.subscribers = append(p.subscribers, subscriber[D]{id: id, fn: fn})
	return func() {
		for i, s := range p.subscribers {
			if s.id == id {
				p.subscribers = append(p.subscribers[:i:i], p.subscribers[i+1:]...)
				return
			}
		}
	}
}

// State reports whether the input text is empty
func (p *Pipeline[D]) State() State {
	if p.rawText == "" {
		return StateEmpty
	}
	return StatePopulated
}

// Snapshot returns the current input state
func (p *Pipeline[D]) Snapshot() InputState[D] {
	return InputState[D]{RawText: p.rawText, Value: p.copyValue(), Valid: p.validity.Valid()}
}

// RawText returns the text last typed or rendered into the field
func (p *Pipeline[D]) RawText() string {
	return p.rawText
}

// DisplayText is the text the host should render in the input
func (p *Pipeline[D]) DisplayText() string {
	return p.rawText
}

// Value returns the parsed value, if any. It may be set even when the
// pipeline is invalid because of a filter or bound.
func (p *Pipeline[D]) Value() (D, bool) {
	if p.value == nil {
		var zero D
		return zero, false
	}
	return *p.value, true
}

// Validity returns the current validation signals
func (p *Pipeline[D]) Validity() Validity[D] {
	return p.validity
}

// Valid reports whether there is a parsed value that passes the filter and
// bounds.
func (p *Pipeline[D]) Valid() bool {
	return p.validity.Valid()
}

// A11yLabel renders the value with the accessibility label pattern
func (p *Pipeline[D]) A11yLabel() string {
	if p.value == nil {
		return ""
	}
	return p.adapter.Format(*p.value, p.formats.Display.DateA11yLabel)
}

// MonthYearLabel renders the value's month and year
func (p *Pipeline[D]) MonthYearLabel() string {
	if p.value == nil {
		return ""
	}
	return p.adapter.Format(*p.value, p.formats.Display.MonthYearLabel)
}

// Formats returns the effective formats
func (p *Pipeline[D]) Formats() adapter.DateFormats {
	return p.formats
}

// Adapter returns the adapter the pipeline was built with
func (p *Pipeline[D]) Adapter() adapter.DateAdapter[D] {
	return p.adapter
}

func (p *Pipeline[D]) revalidate() {
	p.validity = validate(p.adapter, p.rawText, p.value, p.filter, p.min, p.max)
}

func (p *Pipeline[D]) emit(change Change[D]) {
	// copy so subscribers may unsubscribe while being notified
	subs := append([]subscriber[D](nil), p.subscribers...)
	for _, s := range subs {
		s.fn(change)
	}
}

func (p *Pipeline[D]) sameValue(a, b *D) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return p.adapter.SameDate(*a, *b)
}

func (p *Pipeline[D]) copyValue() *D {
	if p.value == nil {
		return nil
	}
	v := *p.value
	return &v
}

func validOrNil[D any](a adapter.DateAdapter[D], v *D) *D {
	if v == nil || !a.IsValid(*v) {
		return nil
	}
	c := *v
	return &c
}
