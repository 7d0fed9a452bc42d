// Package config loads persistent application settings from a TOML file.
// Command-line flags override anything read here; the file is optional and
// missing files fall back to defaults.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Hangghost/youtube-converter/internal/platform"
	"github.com/Hangghost/youtube-converter/internal/quality"
)

// Default values
const (
	DefaultOutputDir   = "downloads"
	DefaultMaxParallel = 2
	MaxParallelLimit   = 10
)

// Config file location under the user config directory
const (
	appDirName     = "youtube-converter"
	configFileName = "config.toml"
)

// Settings holds the persistent application configuration
type Settings struct {
	OutputDir    string `toml:"output_dir"`
	Quality      string `toml:"quality"`
	AudioBitrate int    `toml:"audio_bitrate"`
	MaxParallel  int    `toml:"max_parallel"`
	RateLimit    int64  `toml:"rate_limit"` // download rate limit in bytes/s, 0 = unlimited
	NoProgress   bool   `toml:"no_progress"`
}

// DefaultSettings returns settings with all defaults applied
func DefaultSettings() *Settings {
	return &Settings{
		OutputDir:    DefaultOutputDir,
		Quality:      quality.DefaultLabel,
		AudioBitrate: quality.DefaultBitrate,
		MaxParallel:  DefaultMaxParallel,
		RateLimit:    0,
		NoProgress:   false,
	}
}

// DefaultPath returns the default config file location
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, appDirName, configFileName), nil
}

// Load reads settings from the given path. An empty path means the default
// location, where a missing file is not an error. An explicitly given path
// must exist.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultPath()
		if err != nil {
			return settings, nil
		}
		path = defaultPath
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return settings, nil
	}

	if _, err := toml.DecodeFile(path, settings); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	settings.normalize()
	return settings, nil
}

// Save writes settings to the given path, creating the parent directory
// when needed. An empty path means the default location.
func Save(path string, settings *Settings) error {
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return err
		}
		path = defaultPath
	}

	if err := platform.CreateDirectoryIfNotExists(filepath.Dir(path)); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(settings); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// normalize brings loaded values back into supported ranges
func (s *Settings) normalize() {
	if s.OutputDir == "" {
		s.OutputDir = DefaultOutputDir
	}
	if s.Quality == "" {
		s.Quality = quality.DefaultLabel
	}

	if s.AudioBitrate <= 0 {
		s.AudioBitrate = quality.DefaultBitrate
	} else if s.AudioBitrate < quality.MinBitrate {
		s.AudioBitrate = quality.MinBitrate
	} else if s.AudioBitrate > quality.MaxBitrate {
		s.AudioBitrate = quality.MaxBitrate
	}

	if s.MaxParallel <= 0 {
		s.MaxParallel = DefaultMaxParallel
	} else if s.MaxParallel > MaxParallelLimit {
		s.MaxParallel = MaxParallelLimit
	}

	if s.RateLimit < 0 {
		s.RateLimit = 0
	}
}
