package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// DefaultDir returns the configuration directory used when none is given.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".seashell"
	}
	return filepath.Join(home, ".seashell")
}

// Load loads the configuration from the directory.
func Load(fsys afero.Fs, path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	configContents, err := afero.ReadFile(fsys, filepath.Join(path, ConfigurationName))
	if err != nil {
		return nil, err
	}
	var out Configuration
	if err := yaml.UnmarshalStrict(configContents, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigurationName, err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigurationName, err)
	}
	out.configurationDir = path
	return &out, nil
}

// LoadOrDefault loads the configuration from the directory, falling back to
// the built-in defaults if the directory has no configuration file.
func LoadOrDefault(fsys afero.Fs, path string) (*Configuration, error) {
	cfg, err := Load(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		if filepath.Base(path) == ConfigurationName {
			path = filepath.Dir(path)
		}
		return Default(path), nil
	}
	return cfg, err
}

// Initialize writes the default configuration to dir, creating it if needed.
// Existing configurations are left untouched.
func Initialize(fsys afero.Fs, dir string) (*Configuration, error) {
	if err := fsys.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, ConfigurationName)
	exists, err := afero.Exists(fsys, configPath)
	switch {
	case err != nil:
		return nil, err
	case !exists:
		if err := afero.WriteFile(fsys, configPath, defaultConfigData, 0600); err != nil {
			return nil, err
		}
	}

	return Load(fsys, dir)
}
