package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeBiancalana/datefield/internal/adapter"
	"github.com/MikeBiancalana/datefield/internal/config"
	"github.com/MikeBiancalana/datefield/internal/logger"
	"github.com/MikeBiancalana/datefield/internal/perf"
	"github.com/MikeBiancalana/datefield/internal/pipeline"
)

var (
	parsePatternsFlag []string
	parseMinFlag      string
	parseMaxFlag      string
	parseOutputFlag   string
	parseStatsFlag    bool
	formatPatternFlag string
)

// ErrInvalidInput is returned when at least one input did not produce a
// valid date
var ErrInvalidInput = errors.New("invalid input")

// parseResult is the outcome of feeding one line of text to a pipeline
type parseResult struct {
	Input   string `json:"input"`
	Value   string `json:"value,omitempty"`
	Display string `json:"display,omitempty"`
	Label   string `json:"label,omitempty"`
	Valid   bool   `json:"valid"`
	Error   string `json:"error,omitempty"`
}

var parseCmd = &cobra.Command{
	Use:   "parse [text...]",
	Short: "Parse text the way a date field would",
	Long: `Parse each argument against the configured formats, first match wins.
With no arguments, lines are read from stdin.

Examples:
  df parse "January 1, 2017"
  df parse -p D.M.YYYY --locale de-DE 1.9.2017
  cat dates.txt | df parse --stats -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := parseFormat(parseOutputFlag)
		if err != nil {
			return err
		}
		s, err := loadSettings()
		if err != nil {
			return err
		}
		applyParseFlags(&s)

		inputs := args
		if len(inputs) == 0 {
			inputs, err = readLines(cmd.InOrStdin())
			if err != nil {
				return err
			}
		}

		var results []parseResult
		rec := perf.NewRecorder("parse", logger.GetLogger(), time.Millisecond)
		failures := perf.NewOpCounter("parse_failures")
		err = dispatch(s, handlers{
			native: func(p *pipeline.Pipeline[time.Time]) error {
				results = parseInputs(p, inputs, rec, failures)
				return nil
			},
			calendar: func(p *pipeline.Pipeline[adapter.Day]) error {
				results = parseInputs(p, inputs, rec, failures)
				return nil
			},
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if err := writeParseResults(out, format, results); err != nil {
			return err
		}
		if parseStatsFlag {
			rec.LogStats(slog.LevelInfo)
			writeStats(cmd.ErrOrStderr(), rec.Stats(), failures.Value())
		}
		if failures.Value() > 0 {
			return fmt.Errorf("%w: %d of %d", ErrInvalidInput, failures.Value(), len(results))
		}
		return nil
	},
}

var formatCmd = &cobra.Command{
	Use:   "format ISO_DATE",
	Short: "Render an ISO 8601 date with a display pattern",
	Long: `Render an ISO 8601 date in the configured locale. Without -p the
display format of the date input is used.

Examples:
  df format 2017-09-01 --locale de-DE
  df format 2017-09-01 -p "dddd, MMMM D"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}

		var text string
		err = dispatch(s, handlers{
			native: func(p *pipeline.Pipeline[time.Time]) error {
				text, err = formatISO(p, args[0], formatPatternFlag)
				return err
			},
			calendar: func(p *pipeline.Pipeline[adapter.Day]) error {
				text, err = formatISO(p, args[0], formatPatternFlag)
				return err
			},
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	parseCmd.Flags().StringArrayVarP(&parsePatternsFlag, "pattern", "p", nil, "parse pattern, repeat for fallbacks in priority order (replaces configured formats)")
	parseCmd.Flags().StringVar(&parseMinFlag, "min", "", "earliest allowed date (ISO 8601)")
	parseCmd.Flags().StringVar(&parseMaxFlag, "max", "", "latest allowed date (ISO 8601)")
	parseCmd.Flags().StringVarP(&parseOutputFlag, "output", "o", "table", "output format (table, json, tsv, csv)")
	parseCmd.Flags().BoolVar(&parseStatsFlag, "stats", false, "print parse timing to stderr")

	formatCmd.Flags().StringVarP(&formatPatternFlag, "pattern", "p", "", "display pattern, e.g. LL or D.M.YYYY")
}

func applyParseFlags(s *config.Settings) {
	if len(parsePatternsFlag) > 0 {
		s.Profile = ""
		s.Formats.Parse.DateInput = adapter.PatternList(parsePatternsFlag)
	}
	if parseMinFlag != "" {
		s.Min = parseMinFlag
	}
	if parseMaxFlag != "" {
		s.Max = parseMaxFlag
	}
}

// parseInputs feeds each input to p as typed text and records the outcome
func parseInputs[D any](p *pipeline.Pipeline[D], inputs []string, rec *perf.Recorder, failures *perf.OpCounter) []parseResult {
	results := make([]parseResult, 0, len(inputs))
	for _, input := range inputs {
		rec.Time(func() { p.OnUserInput(input) })
		results = append(results, resultOf(p, input))
		if !p.Valid() {
			failures.Inc()
		}
	}
	return results
}

func resultOf[D any](p *pipeline.Pipeline[D], input string) parseResult {
	r := parseResult{Input: input, Valid: p.Valid()}
	if v, ok := p.Value(); ok {
		r.Value = p.Adapter().ToISO(v)
		r.Display = p.Adapter().Format(v, p.Formats().Display.DateInput)
		r.Label = p.A11yLabel()
	}
	if err := p.Validity().Err(); err != nil {
		r.Error = err.Error()
	}
	return r
}

// formatISO renders an ISO date through p. An empty pattern uses the
// display format of the date input.
func formatISO[D any](p *pipeline.Pipeline[D], iso, pattern string) (string, error) {
	if !p.SetFromString(iso) {
		return "", fmt.Errorf("not an ISO 8601 date: %q", iso)
	}
	if pattern == "" {
		return p.DisplayText(), nil
	}
	if err := p.Adapter().ValidatePattern(pattern); err != nil {
		return "", err
	}
	v, _ := p.Value()
	return p.Adapter().Format(v, pattern), nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return lines, nil
}

func writeParseResults(w io.Writer, format OutputFormat, results []parseResult) error {
	header := []string{"INPUT", "VALUE", "DISPLAY", "STATUS"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := "ok"
		if !r.Valid {
			status = r.Error
		}
		rows = append(rows, []string{r.Input, r.Value, r.Display, status})
	}
	return writeRows(w, format, header, rows, results)
}

func writeStats(w io.Writer, s perf.Stats, failures int64) {
	fmt.Fprintf(w, "parsed %d inputs (%d invalid) in %s, avg %s, min %s, max %s, slow %d\n",
		s.Count, failures, s.TotalDuration, s.AvgDuration(), s.MinDuration, s.MaxDuration, s.SlowOps)
}
