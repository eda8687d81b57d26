package config

import (
	"os"
	"path/filepath"
)

const (
	AppName    = "datefield"
	DbName     = "datefield.db"
	ConfigName = "config.yaml"
)

// DataDir returns the path to the datefield data directory (~/.datefield/)
// Creates the directory if it doesn't exist
// Can be overridden with DATEFIELD_DATA_DIR environment variable (primarily for testing)
func DataDir() (string, error) {
	// Check for test override
	if dataDir := os.Getenv("DATEFIELD_DATA_DIR"); dataDir != "" {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return "", err
		}
		return dataDir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dataDir := filepath.Join(home, "."+AppName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	return dataDir, nil
}

// ProfilesDir returns the path to the format profiles directory (~/.datefield/profiles/)
// Creates the directory if it doesn't exist
func ProfilesDir() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}

	profilesDir := filepath.Join(dataDir, "profiles")
	if err := os.MkdirAll(profilesDir, 0755); err != nil {
		return "", err
	}

	return profilesDir, nil
}

// ConfigPath returns the path to the settings file (~/.datefield/config.yaml)
func ConfigPath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dataDir, ConfigName), nil
}

// DatabasePath returns the path to the SQLite database (~/.datefield/datefield.db)
func DatabasePath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dataDir, DbName), nil
}

// LogDir returns the path to the log directory (~/.datefield/logs/)
// Creates the directory if it doesn't exist
func LogDir() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}

	logDir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", err
	}

	return logDir, nil
}
