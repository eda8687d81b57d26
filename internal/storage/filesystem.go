package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MikeBiancalana/datefield/internal/adapter"
	"github.com/MikeBiancalana/datefield/internal/config"
)

// ErrInvalidProfileName is returned for names that are not plain file names
var ErrInvalidProfileName = errors.New("invalid profile name")

var profileName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// FileStore handles named format profiles stored as YAML files
type FileStore struct{}

// NewFileStore creates a new file store
func NewFileStore() *FileStore {
	return &FileStore{}
}

// FileInfo holds file metadata
type FileInfo struct {
	Path         string
	LastModified time.Time
	Exists       bool
}

// ReadProfile reads a profile and returns its formats and metadata. A
// missing profile is reported through FileInfo.Exists, not as an error.
func (fs *FileStore) ReadProfile(name string) (adapter.DateFormats, FileInfo, error) {
	filePath, err := fs.GetProfilePath(name)
	if err != nil {
		return adapter.DateFormats{}, FileInfo{}, err
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return adapter.DateFormats{}, FileInfo{Path: filePath, Exists: false}, nil
	}
	if err != nil {
		return adapter.DateFormats{}, FileInfo{}, fmt.Errorf("failed to stat file: %w", err)
	}

	formats, err := adapter.LoadFormats(filePath)
	if err != nil {
		return adapter.DateFormats{}, FileInfo{}, err
	}

	return formats, FileInfo{
		Path:         filePath,
		LastModified: fileInfo.ModTime(),
		Exists:       true,
	}, nil
}

// WriteProfile writes formats to a profile file
func (fs *FileStore) WriteProfile(name string, formats adapter.DateFormats) error {
	filePath, err := fs.GetProfilePath(name)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(formats)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// GetProfilePath returns the file path for a profile name
func (fs *FileStore) GetProfilePath(name string) (string, error) {
	if !profileName.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidProfileName, name)
	}

	profilesDir, err := config.ProfilesDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(profilesDir, name+".yaml"), nil
}

// ListProfiles returns all profile names (sorted)
func (fs *FileStore) ListProfiles() ([]string, error) {
	profilesDir, err := config.ProfilesDir()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(profilesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read profiles directory: %w", err)
	}

	names := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if filepath.Ext(name) == ".yaml" {
			names = append(names, name[:len(name)-len(".yaml")])
		}
	}
	sort.Strings(names)

	return names, nil
}

// ProfileExists checks if a profile file exists
func (fs *FileStore) ProfileExists(name string) (bool, error) {
	filePath, err := fs.GetProfilePath(name)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(filePath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// DeleteProfile deletes a profile file
func (fs *FileStore) DeleteProfile(name string) error {
	filePath, err := fs.GetProfilePath(name)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	return nil
}
