package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/teranos/itemgen/errors"
	"github.com/teranos/itemgen/logger"
)

// EnvPrefix prefixes environment variables, e.g. ITEMGEN_TABLES.
const EnvPrefix = "ITEMGEN"

// Load reads defaults, the nearest itemgen.toml at or above dir, and
// ITEMGEN_* variables. An explicit path skips the search.
func Load(dir, path string) (*Config, error) {
	v, err := NewViper(dir, path)
	if err != nil {
		return nil, err
	}
	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	cfg.Source = v.ConfigFileUsed()
	return cfg, nil
}

// NewViper returns a viper instance with defaults, the project file and
// environment binding in place.
func NewViper(dir, path string) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if path == "" {
		path = FindProjectConfig(dir)
	}
	if path == "" {
		return v, nil
	}

	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	warnUnknownKeys(path)

	return v, nil
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path, without
// environment variables.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", configPath)
	}
	cfg.Source = configPath
	return cfg, nil
}

// FindProjectConfig searches for itemgen.toml by walking up the directory
// tree from dir. Returns the path to the first file found, or empty string.
func FindProjectConfig(dir string) string {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = wd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return ""
		}
		dir = parent
	}
}

// UnknownKeys returns the keys in a config file that no option reads,
// sorted.
func UnknownKeys(path string) ([]string, error) {
	var fileConfig Config
	md, err := toml.DecodeFile(path, &fileConfig)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}

	var keys []string
	for _, key := range md.Undecoded() {
		keys = append(keys, key.String())
	}
	sort.Strings(keys)
	return keys, nil
}

func warnUnknownKeys(path string) {
	keys, err := UnknownKeys(path)
	if err != nil {
		logger.Debugw("Skipping unknown key check", "path", path, "error", err)
		return
	}
	for _, key := range keys {
		logger.Warnw("Unknown key in config file", "path", path, "key", key)
	}
}
