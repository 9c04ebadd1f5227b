// Package config reads and writes the repository's .minigit/config
// file, round-tripping a small [core] table through a real TOML codec.
package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// FileName is the config file's name under .minigit.
const FileName = "config"

// Core mirrors the [core] table of a git-style repo config.
type Core struct {
	RepositoryFormatVersion int  `toml:"repositoryformatversion"`
	FileMode                bool `toml:"filemode"`
	Bare                    bool `toml:"bare"`
}

// Config is the full on-disk repository configuration.
type Config struct {
	Core Core `toml:"core"`
}

// Default returns the configuration written by Repository.Init.
func Default() Config {
	return Config{Core: Core{RepositoryFormatVersion: 0, FileMode: false, Bare: false}}
}

// Write serializes cfg as TOML to minigitDir/config.
func Write(minigitDir string, cfg Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return errors.Wrap(err, "encoding config")
	}
	if err := os.WriteFile(filepath.Join(minigitDir, FileName), buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "writing config")
	}
	return nil
}

// Read loads minigitDir/config. A missing file yields Default().
func Read(minigitDir string) (Config, error) {
	b, err := os.ReadFile(filepath.Join(minigitDir, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, errors.Wrap(err, "reading config")
	}

	var cfg Config
	if _, err := toml.Decode(string(b), &cfg); err != nil {
		return Config{}, errors.Wrap(err, "decoding config")
	}
	return cfg, nil
}
