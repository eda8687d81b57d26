package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeBiancalana/datefield/internal/adapter"
	"github.com/MikeBiancalana/datefield/internal/binding"
	"github.com/MikeBiancalana/datefield/internal/config"
	"github.com/MikeBiancalana/datefield/internal/pipeline"
	"github.com/MikeBiancalana/datefield/internal/storage"
)

func newTestRepository(t *testing.T) *binding.Repository {
	t.Helper()
	db, err := storage.NewDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return binding.NewRepository(db, nil)
}

func testSettings() config.Settings {
	s := config.Default()
	s.Timezone = "UTC"
	return s
}

func TestPromptValidator(t *testing.T) {
	s := testSettings()
	s.Max = "2020-01-01"
	p, err := newNativePipeline(s)
	require.NoError(t, err)
	validate := promptValidator(p)

	tests := []struct {
		input string
		want  string
	}{
		{"", "Please enter a date"},
		{"13/45/2017", "invalid date"},
		{"1/1/2030", "date out of range (after 1/1/2020)"},
		{"1/1/2017", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := validate(tt.input)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestStorePickedAndLoadStored(t *testing.T) {
	repo := newTestRepository(t)

	p, err := newCalendarPipeline(testSettings())
	require.NoError(t, err)
	require.NoError(t, storePicked("due", repo, p, adapter.NewDay(2017, time.March, 4)))

	rec, err := repo.GetField("due")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "2017-03-04", rec.Value)
	assert.Equal(t, "3/4/2017", rec.DisplayText)

	// a fresh pipeline in another locale is prefilled from the store
	s := testSettings()
	s.Locale = "de-DE"
	other, err := newNativePipeline(s)
	require.NoError(t, err)
	require.NoError(t, loadStored("due", repo, other))
	assert.Equal(t, "4.3.2017", other.Commit())

	// loading does not keep a subscription
	other.OnUserInput("5.3.2017")
	rec, err = repo.GetField("due")
	require.NoError(t, err)
	assert.Equal(t, "2017-03-04", rec.Value)

	// without a name nothing is read or written
	assert.NoError(t, loadStored("", repo, other))
	assert.NoError(t, storePicked("", nil, other, time.Now()))
}

func TestStorePicked_RejectsConstraintViolation(t *testing.T) {
	repo := newTestRepository(t)
	s := testSettings()
	s.Filter.ExcludeWeekdays = []string{"saturday"}
	p, err := newCalendarPipeline(s)
	require.NoError(t, err)

	err = storePicked("due", repo, p, adapter.NewDay(2017, time.March, 4))
	assert.Error(t, err)

	rec, err := repo.GetField("due")
	require.NoError(t, err)
	assert.True(t, rec == nil || rec.Value == "")
}

func TestStorePicked_TwoDigitYearPattern(t *testing.T) {
	repo := newTestRepository(t)
	a, err := adapter.NewCalendarAdapter("en-US", adapter.WithLocation(time.UTC))
	require.NoError(t, err)
	formats := adapter.DefaultFormats()
	formats.Parse.DateInput = adapter.PatternList{"M/D/YY", "YYYY-MM-DD"}
	p, err := pipeline.New(pipeline.Config[adapter.Day]{Adapter: a, Formats: formats})
	require.NoError(t, err)

	require.NoError(t, storePicked("due", repo, p, adapter.NewDay(2075, time.March, 4)))
	rec, err := repo.GetField("due")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "2075-03-04", rec.Value)

	require.NoError(t, storePicked("due", repo, p, adapter.NewDay(2017, time.March, 4)))
	rec, err = repo.GetField("due")
	require.NoError(t, err)
	assert.Equal(t, "2017-03-04", rec.Value)
}

func TestStorePicked_NoTypeablePattern(t *testing.T) {
	repo := newTestRepository(t)
	a, err := adapter.NewCalendarAdapter("en-US", adapter.WithLocation(time.UTC))
	require.NoError(t, err)
	formats := adapter.DefaultFormats()
	formats.Parse.DateInput = adapter.PatternList{"MMMM D"}
	p, err := pipeline.New(pipeline.Config[adapter.Day]{Adapter: a, Formats: formats})
	require.NoError(t, err)

	err = storePicked("due", repo, p, adapter.NewDay(1999, time.March, 4))
	assert.ErrorIs(t, err, pipeline.ErrNotTypeable)
	rec, err := repo.GetField("due")
	require.NoError(t, err)
	assert.True(t, rec == nil || rec.Value == "")
}

func TestSameProvider(t *testing.T) {
	resetFlags()
	build := sameProvider(adapter.ProviderNative, newNativePipeline)

	s := testSettings()
	s.Locale = "de-DE"
	p, err := build(s)
	require.NoError(t, err)
	assert.Equal(t, "de-DE", p.Adapter().Locale().Tag)

	s.Adapter = adapter.ProviderCalendar
	_, err = build(s)
	assert.ErrorContains(t, err, "requires a restart")
}

func TestPickTitleAndReport(t *testing.T) {
	resetFlags()
	assert.Equal(t, "Date", pickTitle(""))
	assert.Equal(t, "due", pickTitle("due"))
	pickTitleFlag = "Due date"
	assert.Equal(t, "Due date", pickTitle("due"))
	resetFlags()

	var buf bytes.Buffer
	reportPicked(&buf, "", "2017-01-01")
	reportPicked(&buf, "due", "2017-01-01")
	assert.Equal(t, "2017-01-01\n✓ Set due: 2017-01-01\n", buf.String())
}
