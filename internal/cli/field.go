package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeBiancalana/datefield/internal/adapter"
	"github.com/MikeBiancalana/datefield/internal/binding"
	"github.com/MikeBiancalana/datefield/internal/logger"
	"github.com/MikeBiancalana/datefield/internal/pipeline"
)

var (
	fieldOutputFlag string
	historyLimit    int
)

// fieldCmd represents the field command
var fieldCmd = &cobra.Command{
	Use:   "field",
	Short: "Manage stored date fields",
	Long:  "Read and write named date fields. Values are typed as text, validated, and stored as ISO 8601 dates.",
}

var fieldGetCmd = &cobra.Command{
	Use:   "get NAME",
	Short: "Show a field's value in the current locale",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, iso, err := runField(args[0], fieldBinding.get)
		if err != nil {
			return err
		}
		if iso == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: (not set)\n", args[0])
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", args[0], text, iso)
		return nil
	},
}

var fieldSetCmd = &cobra.Command{
	Use:   "set NAME TEXT",
	Short: "Type a date into a field",
	Long: `Type TEXT into the field as a user would. The value is stored only
when it parses and passes the configured filter and bounds.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, iso, err := runField(args[0], func(b fieldBinding) (string, string, error) {
			return b.set(args[1])
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Set %s: %s (%s)\n", args[0], text, iso)
		return nil
	},
}

var fieldClearCmd = &cobra.Command{
	Use:   "clear NAME",
	Short: "Clear a field's value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, _, err := runField(args[0], fieldBinding.clear); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared %s\n", args[0])
		return nil
	},
}

var fieldDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a field and its history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closeDB, err := openRepository()
		if err != nil {
			return err
		}
		defer closeDB()

		if err := repo.DeleteField(args[0]); err != nil {
			return fmt.Errorf("failed to delete field: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", args[0])
		return nil
	},
}

var fieldListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := parseFormat(fieldOutputFlag)
		if err != nil {
			return err
		}
		repo, closeDB, err := openRepository()
		if err != nil {
			return err
		}
		defer closeDB()

		fields, err := repo.ListFields()
		if err != nil {
			return fmt.Errorf("failed to list fields: %w", err)
		}
		return writeFields(cmd.OutOrStdout(), format, fields)
	},
}

var fieldHistoryCmd = &cobra.Command{
	Use:   "history NAME",
	Short: "Show a field's change history, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := parseFormat(fieldOutputFlag)
		if err != nil {
			return err
		}
		repo, closeDB, err := openRepository()
		if err != nil {
			return err
		}
		defer closeDB()

		events, err := repo.ListEvents(args[0], historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}
		return writeEvents(cmd.OutOrStdout(), format, events)
	},
}

// GetFieldCommand returns the field command with its subcommands
func GetFieldCommand() *cobra.Command {
	return fieldCmd
}

func init() {
	fieldListCmd.Flags().StringVarP(&fieldOutputFlag, "output", "o", "table", "output format (table, json, tsv, csv)")
	fieldHistoryCmd.Flags().StringVarP(&fieldOutputFlag, "output", "o", "table", "output format (table, json, tsv, csv)")
	fieldHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of events (0 for all)")

	fieldCmd.AddCommand(fieldGetCmd)
	fieldCmd.AddCommand(fieldSetCmd)
	fieldCmd.AddCommand(fieldClearCmd)
	fieldCmd.AddCommand(fieldDeleteCmd)
	fieldCmd.AddCommand(fieldListCmd)
	fieldCmd.AddCommand(fieldHistoryCmd)
}

// fieldBinding is the part of a binding the field commands need,
// independent of the date type
type fieldBinding interface {
	get() (string, string, error)
	set(text string) (string, string, error)
	clear() (string, string, error)
}

// fieldFunc runs one operation on a bound field and returns the display
// text and ISO value afterwards
type fieldFunc func(fieldBinding) (string, string, error)

type boundField[D any] struct {
	b *binding.Binding[D]
}

func (f boundField[D]) result() (string, string, error) {
	if err := f.b.Err(); err != nil {
		return "", "", fmt.Errorf("failed to store field: %w", err)
	}
	p := f.b.Pipeline()
	v, ok := p.Value()
	if !ok {
		return p.DisplayText(), "", nil
	}
	return p.Commit(), p.Adapter().ToISO(v), nil
}

func (f boundField[D]) get() (string, string, error) {
	return f.result()
}

// set types text into the field. Invalid text is reported and not stored.
func (f boundField[D]) set(text string) (string, string, error) {
	p := f.b.Pipeline()
	p.OnUserInput(text)
	if !p.Valid() {
		return "", "", fmt.Errorf("%q: %w", text, p.Validity().Err())
	}
	return f.result()
}

func (f boundField[D]) clear() (string, string, error) {
	f.b.Pipeline().Clear()
	return f.result()
}

// runField binds the pipeline selected by the settings to the named field
// and runs op on it
func runField(name string, op fieldFunc) (string, string, error) {
	s, err := loadSettings()
	if err != nil {
		return "", "", err
	}
	repo, closeDB, err := openRepository()
	if err != nil {
		return "", "", err
	}
	defer closeDB()

	var text, iso string
	err = dispatch(s, handlers{
		native: func(p *pipeline.Pipeline[time.Time]) error {
			var opErr error
			text, iso, opErr = runBound(name, repo, p, op)
			return opErr
		},
		calendar: func(p *pipeline.Pipeline[adapter.Day]) error {
			var opErr error
			text, iso, opErr = runBound(name, repo, p, op)
			return opErr
		},
	})
	return text, iso, err
}

func runBound[D any](name string, repo *binding.Repository, p *pipeline.Pipeline[D], op fieldFunc) (string, string, error) {
	b, err := binding.Bind(name, repo, p, logger.GetLogger())
	if err != nil {
		return "", "", fmt.Errorf("failed to load field: %w", err)
	}
	defer b.Close()
	return op(boundField[D]{b: b})
}

func writeFields(w io.Writer, format OutputFormat, fields []binding.FieldRecord) error {
	header := []string{"NAME", "VALUE", "DISPLAY", "LOCALE", "UPDATED"}
	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []string{f.Name, f.Value, f.DisplayText, f.Locale, f.UpdatedAt.Format(time.RFC3339)})
	}
	return writeRows(w, format, header, rows, fields)
}

func writeEvents(w io.Writer, format OutputFormat, events []binding.Event) error {
	header := []string{"ID", "KIND", "RAW", "VALUE", "VALID", "CREATED"}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{e.ID, e.Kind, e.RawText, e.Value, strconv.FormatBool(e.Valid), e.CreatedAt.Format(time.RFC3339)})
	}
	return writeRows(w, format, header, rows, events)
}
