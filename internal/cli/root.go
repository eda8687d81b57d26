package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MikeBiancalana/datefield/internal/config"
	"github.com/MikeBiancalana/datefield/internal/logger"
	"github.com/MikeBiancalana/datefield/internal/perf"
)

var (
	configPathFlag string
	localeFlag     string
	adapterFlag    string
	timezoneFlag   string
	profileFlag    string
)

// RootCmd is the root command for the CLI
var RootCmd = &cobra.Command{
	Use:   "df",
	Short: "datefield - locale-aware date input",
	Long: `Parse, format and store dates the way a date input field does:
text is read against an ordered list of formats, checked against a filter
and min/max bounds, and rendered back in the locale's display format.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initLogger)

	RootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "config file (default $DATEFIELD_DATA_DIR/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&localeFlag, "locale", "", "locale tag, e.g. en-US or de-DE")
	RootCmd.PersistentFlags().StringVar(&adapterFlag, "adapter", "", "date adapter: native or calendar")
	RootCmd.PersistentFlags().StringVar(&timezoneFlag, "tz", "", "IANA time zone for today and ISO values")
	RootCmd.PersistentFlags().StringVar(&profileFlag, "profile", "", "named format profile")

	RootCmd.AddCommand(parseCmd)
	RootCmd.AddCommand(formatCmd)
	RootCmd.AddCommand(GetFieldCommand())
	RootCmd.AddCommand(pickCmd)
	RootCmd.AddCommand(promptCmd)
	RootCmd.AddCommand(GetConfigCommand())
	RootCmd.AddCommand(GetProfileCommand())
}

// initLogger sets up logging from the environment
func initLogger() {
	if err := logger.InitializeWithConfig(logger.ConfigFromEnv()); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
}

// resolveConfigPath returns the --config flag or the default location
func resolveConfigPath() (string, error) {
	if configPathFlag != "" {
		return configPathFlag, nil
	}
	return config.ConfigPath()
}

// loadSettings reads the config file and applies command line overrides
func loadSettings() (config.Settings, error) {
	defer perf.Measure("cli.loadSettings", logger.GetLogger(), 50)()

	path, err := resolveConfigPath()
	if err != nil {
		return config.Settings{}, err
	}
	s, err := config.Load(path)
	if err != nil {
		return config.Settings{}, err
	}
	applyFlags(&s)
	if err := s.Validate(); err != nil {
		return config.Settings{}, err
	}
	return s, nil
}

func applyFlags(s *config.Settings) {
	if localeFlag != "" {
		s.Locale = localeFlag
	}
	if adapterFlag != "" {
		s.Adapter = adapterFlag
	}
	if timezoneFlag != "" {
		s.Timezone = timezoneFlag
	}
	if profileFlag != "" {
		s.Profile = profileFlag
	}
}

// Execute runs the root command
func Execute() error {
	defer logger.Close()
	return RootCmd.Execute()
}
