package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "flexplan.db"
)

type Config struct {
	DBPath       string `toml:"db_path"`
	UserID       string `toml:"user_id"`
	DefaultColor string `toml:"default_color"`
}

// DefaultPath is the config location under the user config dir.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "flexplan", DefaultConfigFileName), nil
}

// LoadOrCreate reads the config at path, writing the defaults first if no
// file exists yet. FLEXPLAN_* environment variables override file values.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return fromEnv(cfg), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(path), DefaultDBName)
	}
	return fromEnv(cfg), nil
}

func fromEnv(cfg Config) Config {
	if v, ok := getEnv("FLEXPLAN_DB"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnv("FLEXPLAN_USER"); ok {
		cfg.UserID = v
	}
	if v, ok := getEnv("FLEXPLAN_COLOR"); ok {
		cfg.DefaultColor = v
	}
	return cfg
}

func getEnv(name string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	return v, v != ""
}

func write(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig(dir string) Config {
	return Config{
		DBPath:       filepath.Join(dir, DefaultDBName),
		DefaultColor: "#0a7ea4",
	}
}
