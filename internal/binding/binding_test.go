package binding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeBiancalana/datefield/internal/adapter"
	"github.com/MikeBiancalana/datefield/internal/pipeline"
)

func newTestPipeline(t *testing.T, cfg pipeline.Config[time.Time]) *pipeline.Pipeline[time.Time] {
	t.Helper()
	a, err := adapter.NewTimeAdapter("en-US", adapter.WithLocation(time.UTC))
	require.NoError(t, err)
	cfg.Adapter = a
	if len(cfg.Formats.Parse.DateInput) == 0 {
		cfg.Formats = adapter.DefaultFormats()
	}
	p, err := pipeline.New(cfg)
	require.NoError(t, err)
	return p
}

func TestBind_LoadsStoredValueWithoutWritingBack(t *testing.T) {
	repo := setupTestRepo(t)
	require.NoError(t, repo.SaveField(FieldRecord{Name: "due", Value: "2017-03-04"}))

	p := newTestPipeline(t, pipeline.Config[time.Time]{})
	b, err := Bind("due", repo, p, nil)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, "3/4/2017", p.DisplayText())
	assert.True(t, p.Valid())

	events, err := repo.ListEvents("due", 0)
	require.NoError(t, err)
	assert.Empty(t, events, "the initial load is not recorded")
}

func TestBind_UserInputIsPersisted(t *testing.T) {
	repo := setupTestRepo(t)
	p := newTestPipeline(t, pipeline.Config[time.Time]{})
	b, err := Bind("due", repo, p, nil)
	require.NoError(t, err)
	defer b.Close()

	p.OnUserInput("1/1/2017")
	require.NoError(t, b.Err())

	rec, err := repo.GetField("due")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "2017-01-01", rec.Value)
	assert.Equal(t, "1/1/2017", rec.DisplayText)
	assert.Equal(t, "en-US", rec.Locale)

	// ISO text parses through the second default pattern
	p.OnUserInput("2018-06-30")
	rec, err = repo.GetField("due")
	require.NoError(t, err)
	assert.Equal(t, "2018-06-30", rec.Value)
	assert.Equal(t, "6/30/2018", rec.DisplayText)

	events, err := repo.ListEvents("due", 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "user_input", events[0].Kind)
}

func TestBind_ModelChangeIsNotPersisted(t *testing.T) {
	repo := setupTestRepo(t)
	p := newTestPipeline(t, pipeline.Config[time.Time]{})
	b, err := Bind("due", repo, p, nil)
	require.NoError(t, err)
	defer b.Close()

	v := time.Date(2019, time.May, 5, 0, 0, 0, 0, time.UTC)
	p.OnProgrammaticSet(&v)

	rec, err := repo.GetField("due")
	require.NoError(t, err)
	require.NotNil(t, rec, "the event creates the field row")
	assert.Equal(t, "", rec.Value)

	events, err := repo.ListEvents("due", 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "model_change", events[0].Kind)
	assert.Equal(t, "2019-05-05", events[0].Value)
}

func TestBind_InvalidValuesAreNotPersisted(t *testing.T) {
	repo := setupTestRepo(t)
	max := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	p := newTestPipeline(t, pipeline.Config[time.Time]{Max: &max})
	b, err := Bind("due", repo, p, nil)
	require.NoError(t, err)
	defer b.Close()

	p.OnUserInput("1/1/2017")
	p.OnUserInput("1/1/2030")
	p.OnUserInput("nonsense")

	rec, err := repo.GetField("due")
	require.NoError(t, err)
	assert.Equal(t, "2017-01-01", rec.Value, "out of range and unparsed input keep the last valid value")

	events, err := repo.ListEvents("due", 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "nonsense", events[0].RawText)
	assert.False(t, events[0].Valid)
	assert.Equal(t, "2030-01-01", events[1].Value)
	assert.False(t, events[1].Valid)
}

func TestBind_ClearIsPersisted(t *testing.T) {
	repo := setupTestRepo(t)
	require.NoError(t, repo.SaveField(FieldRecord{Name: "due", Value: "2017-03-04"}))

	p := newTestPipeline(t, pipeline.Config[time.Time]{})
	b, err := Bind("due", repo, p, nil)
	require.NoError(t, err)
	defer b.Close()

	p.Clear()

	rec, err := repo.GetField("due")
	require.NoError(t, err)
	assert.Equal(t, "", rec.Value)
}

func TestBind_CloseStopsRecording(t *testing.T) {
	repo := setupTestRepo(t)
	p := newTestPipeline(t, pipeline.Config[time.Time]{})
	b, err := Bind("due", repo, p, nil)
	require.NoError(t, err)

	b.Close()
	b.Close()
	p.OnUserInput("1/1/2017")

	rec, err := repo.GetField("due")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestBind_CalendarAdapter(t *testing.T) {
	repo := setupTestRepo(t)
	require.NoError(t, repo.SaveField(FieldRecord{Name: "birthday", Value: "1990-09-01"}))

	a, err := adapter.NewCalendarAdapter("de-DE")
	require.NoError(t, err)
	p, err := pipeline.New(pipeline.Config[adapter.Day]{Adapter: a, Formats: adapter.DefaultFormats()})
	require.NoError(t, err)

	b, err := Bind("birthday", repo, p, nil)
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, "1.9.1990", p.DisplayText())

	p.OnUserInput("2.9.1990")
	rec, err := repo.GetField("birthday")
	require.NoError(t, err)
	assert.Equal(t, "1990-09-02", rec.Value)
	assert.Equal(t, "de-DE", rec.Locale)
}
