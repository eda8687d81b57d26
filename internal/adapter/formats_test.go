package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPatternList_UnmarshalScalarOrList(t *testing.T) {
	var single DateFormats
	require.NoError(t, yaml.Unmarshal([]byte("parse:\n  dateInput: M/D/YYYY\ndisplay:\n  dateInput: l\n"), &single))
	assert.Equal(t, PatternList{"M/D/YYYY"}, single.Parse.DateInput)
	assert.Equal(t, "l", single.Display.DateInput)

	var multi DateFormats
	require.NoError(t, yaml.Unmarshal([]byte("parse:\n  dateInput: [M/D/YYYY, 'MMMM D, YYYY']\n"), &multi))
	assert.Equal(t, PatternList{"M/D/YYYY", "MMMM D, YYYY"}, multi.Parse.DateInput)

	var bad DateFormats
	assert.Error(t, yaml.Unmarshal([]byte("parse:\n  dateInput: {a: b}\n"), &bad))
}

func TestDateFormats_Validate(t *testing.T) {
	a := newTestTimeAdapter(t, "en-US")

	assert.NoError(t, DefaultFormats().Validate(a.ValidatePattern))

	missingParse := DefaultFormats()
	missingParse.Parse.DateInput = nil
	err := missingParse.Validate(a.ValidatePattern)
	assert.True(t, IsConfigurationError(err))
	assert.Contains(t, err.Error(), "No provider found for DateFormats")

	missingDisplay := DefaultFormats()
	missingDisplay.Display.DateInput = " "
	assert.True(t, IsConfigurationError(missingDisplay.Validate(nil)))

	badPattern := DefaultFormats()
	badPattern.Parse.DateInput = PatternList{"M/D/YYYY", "QQ"}
	err = badPattern.Validate(a.ValidatePattern)
	assert.True(t, IsConfigurationError(err))
	assert.Contains(t, err.Error(), `"QQ"`)
}

func TestLoadFormats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "formats.yaml")
	content := "parse:\n  dateInput:\n    - M/D/YYYY\n    - MMMM D, YYYY\ndisplay:\n  dateInput: l\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	f, err := LoadFormats(path)
	require.NoError(t, err)
	assert.Equal(t, PatternList{"M/D/YYYY", "MMMM D, YYYY"}, f.Parse.DateInput)
	assert.Equal(t, "LL", f.Display.DateA11yLabel)
	assert.Equal(t, "MMM YYYY", f.Display.MonthYearLabel)

	_, err = LoadFormats(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
