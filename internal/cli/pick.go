package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/MikeBiancalana/datefield/internal/adapter"
	"github.com/MikeBiancalana/datefield/internal/binding"
	"github.com/MikeBiancalana/datefield/internal/config"
	"github.com/MikeBiancalana/datefield/internal/logger"
	"github.com/MikeBiancalana/datefield/internal/pipeline"
	"github.com/MikeBiancalana/datefield/internal/sync"
	"github.com/MikeBiancalana/datefield/internal/tui"
	"github.com/MikeBiancalana/datefield/internal/tui/components"
)

// ErrCancelled is returned when the user leaves a picker or prompt
// without confirming a date
var ErrCancelled = errors.New("cancelled")

var pickTitleFlag string

var pickCmd = &cobra.Command{
	Use:   "pick [NAME]",
	Short: "Pick a date interactively",
	Long: `Open a date picker. With NAME the field's stored value is shown and
the picked date is stored back. Without NAME the picked date is printed
as ISO 8601.

Shortcuts: t, tm, y, mon-sun, +3d, -2w, +1m, +1y. Tab expands a shortcut.
Changes to the config file are applied while the picker is open.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		if err := logger.InitializeWithConfig(tuiLoggerConfig()); err != nil {
			return err
		}

		name := fieldName(args)
		var repo *binding.Repository
		if name != "" {
			r, closeDB, err := openRepository()
			if err != nil {
				return err
			}
			defer closeDB()
			repo = r
		}

		configPath, err := resolveConfigPath()
		if err != nil {
			return err
		}

		var iso string
		err = dispatch(s, handlers{
			native: func(p *pipeline.Pipeline[time.Time]) error {
				build := sameProvider(adapter.ProviderNative, newNativePipeline)
				iso, err = runPicker(name, pickTitle(name), repo, p, build, configPath)
				return err
			},
			calendar: func(p *pipeline.Pipeline[adapter.Day]) error {
				build := sameProvider(adapter.ProviderCalendar, newCalendarPipeline)
				iso, err = runPicker(name, pickTitle(name), repo, p, build, configPath)
				return err
			},
		})
		if err != nil {
			return err
		}
		reportPicked(cmd.OutOrStdout(), name, iso)
		return nil
	},
}

var promptCmd = &cobra.Command{
	Use:   "prompt [NAME]",
	Short: "Prompt for a date on the terminal",
	Long: `Ask for a date with an inline prompt. Input is validated as it is
typed. With NAME the field's stored value is prefilled and the answer is
stored back.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}

		name := fieldName(args)
		var repo *binding.Repository
		if name != "" {
			r, closeDB, err := openRepository()
			if err != nil {
				return err
			}
			defer closeDB()
			repo = r
		}

		var iso string
		err = dispatch(s, handlers{
			native: func(p *pipeline.Pipeline[time.Time]) error {
				iso, err = runPrompt(name, pickTitle(name), repo, p)
				return err
			},
			calendar: func(p *pipeline.Pipeline[adapter.Day]) error {
				iso, err = runPrompt(name, pickTitle(name), repo, p)
				return err
			},
		})
		if err != nil {
			return err
		}
		reportPicked(cmd.OutOrStdout(), name, iso)
		return nil
	},
}

func init() {
	pickCmd.Flags().StringVarP(&pickTitleFlag, "title", "t", "", "title shown above the input")
	promptCmd.Flags().StringVarP(&pickTitleFlag, "title", "t", "", "title shown above the input")
}

func fieldName(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func pickTitle(name string) string {
	switch {
	case pickTitleFlag != "":
		return pickTitleFlag
	case name != "":
		return name
	}
	return "Date"
}

func tuiLoggerConfig() logger.Config {
	cfg := logger.ConfigFromEnv()
	cfg.TUIMode = true
	return cfg
}

func reportPicked(w io.Writer, name, iso string) {
	if name == "" {
		fmt.Fprintln(w, iso)
		return
	}
	fmt.Fprintf(w, "✓ Set %s: %s\n", name, iso)
}

// loadStored prefills p with the stored value of name
func loadStored[D any](name string, repo *binding.Repository, p *pipeline.Pipeline[D]) error {
	if name == "" || repo == nil {
		return nil
	}
	b, err := binding.Bind(name, repo, p, logger.GetLogger())
	if err != nil {
		return fmt.Errorf("failed to load field: %w", err)
	}
	b.Close()
	return nil
}

// storePicked types value into a freshly bound pipeline so the binding
// records it as user input. Text typed while picking is not stored.
func storePicked[D any](name string, repo *binding.Repository, p *pipeline.Pipeline[D], value D) error {
	if name == "" || repo == nil {
		return nil
	}
	b, err := binding.Bind(name, repo, p, logger.GetLogger())
	if err != nil {
		return fmt.Errorf("failed to load field: %w", err)
	}
	defer b.Close()

	a := p.Adapter()
	text, err := p.InputText(value)
	if err != nil {
		return fmt.Errorf("picked date: %w", err)
	}
	p.OnUserInput(text)
	if !p.Valid() {
		return fmt.Errorf("picked date %s: %w", a.ToISO(value), p.Validity().Err())
	}
	if err := b.Err(); err != nil {
		return fmt.Errorf("failed to store field: %w", err)
	}
	return nil
}

// runPicker runs the TUI picker over p and returns the picked date as ISO
// 8601. build is used to rebuild the pipeline when the config changes.
func runPicker[D any](name, title string, repo *binding.Repository, p *pipeline.Pipeline[D], build func(config.Settings) (*pipeline.Pipeline[D], error), configPath string) (string, error) {
	if err := loadStored(name, repo, p); err != nil {
		return "", err
	}

	model := tui.NewModel(title, p)
	if watcher, err := sync.NewWatcher(configPath, logger.GetLogger()); err != nil {
		logger.Warn("runPicker", "error", err)
	} else {
		model.WithReload(build, watcher)
	}

	if _, err := tea.NewProgram(model).Run(); err != nil {
		return "", fmt.Errorf("failed to run picker: %w", err)
	}
	value, _, ok := model.Picked()
	if !ok {
		return "", ErrCancelled
	}

	final := model.Pipeline()
	if err := storePicked(name, repo, final, value); err != nil {
		return "", err
	}
	return final.Adapter().ToISO(value), nil
}

// runPrompt asks for a date with a huh input validated by p
func runPrompt[D any](name, title string, repo *binding.Repository, p *pipeline.Pipeline[D]) (string, error) {
	if err := loadStored(name, repo, p); err != nil {
		return "", err
	}

	text := p.Commit()
	input := huh.NewInput().
		Title(title).
		Placeholder(p.Formats().Parse.DateInput[0]).
		Value(&text).
		Validate(promptValidator(p))

	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	p.OnUserInput(text)
	value, ok := p.Value()
	if !ok || !p.Valid() {
		return "", ErrCancelled
	}
	if err := storePicked(name, repo, p, value); err != nil {
		return "", err
	}
	return p.Adapter().ToISO(value), nil
}

// promptValidator feeds each answer to p and rejects it unless p is valid
func promptValidator[D any](p *pipeline.Pipeline[D]) func(string) error {
	return func(s string) error {
		p.OnUserInput(s)
		if msg := components.ValidationMessage(p); msg != "" {
			return errors.New(msg)
		}
		return nil
	}
}
