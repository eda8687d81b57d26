package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/MikeBiancalana/datefield/internal/adapter"
	"github.com/MikeBiancalana/datefield/internal/config"
	"github.com/MikeBiancalana/datefield/internal/storage"
)

var (
	configInitForce bool
	profileFromFile string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and initialize the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Long:  "Print the settings after applying the config file, environment and flags.",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to encode settings: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		if err := config.Init(path, configInitForce); err != nil {
			if errors.Is(err, config.ErrConfigExists) {
				return fmt.Errorf("%w (use --force to overwrite)", err)
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage named format profiles",
	Long: `A profile is a YAML file of parse and display formats stored in the
profiles directory. Select one with --profile or "profile:" in the config.`,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := storage.NewFileStore().ListProfiles()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No profiles")
			return nil
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Print a profile's formats",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formats, info, err := storage.NewFileStore().ReadProfile(args[0])
		if err != nil {
			return err
		}
		if !info.Exists {
			return fmt.Errorf("profile not found: %s", args[0])
		}
		data, err := yaml.Marshal(formats)
		if err != nil {
			return fmt.Errorf("failed to encode profile: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var profileSaveCmd = &cobra.Command{
	Use:   "save NAME",
	Short: "Save formats as a profile",
	Long: `Save the formats of the current settings, or of a YAML file given
with --from, as a named profile. Patterns are checked before saving.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		formats, err := resolveFormats(s)
		if err != nil {
			return err
		}
		if profileFromFile != "" {
			if formats, err = adapter.LoadFormats(profileFromFile); err != nil {
				return err
			}
		}
		if err := checkPatterns(s.Locale, formats); err != nil {
			return err
		}

		if err := storage.NewFileStore().WriteProfile(args[0], formats); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved profile %s\n", args[0])
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := storage.NewFileStore().DeleteProfile(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted profile %s\n", args[0])
		return nil
	},
}

// GetConfigCommand returns the config command with its subcommands
func GetConfigCommand() *cobra.Command {
	return configCmd
}

// GetProfileCommand returns the profile command with its subcommands
func GetProfileCommand() *cobra.Command {
	return profileCmd
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
	profileSaveCmd.Flags().StringVar(&profileFromFile, "from", "", "read formats from a YAML file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSaveCmd)
	profileCmd.AddCommand(profileDeleteCmd)
}

// checkPatterns compiles every pattern against the locale's month and
// weekday names
func checkPatterns(localeTag string, formats adapter.DateFormats) error {
	a, err := adapter.NewTimeAdapter(localeTag)
	if err != nil {
		return err
	}
	return formats.WithDefaults().Validate(a.ValidatePattern)
}
