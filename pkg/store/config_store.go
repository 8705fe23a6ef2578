package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/borgmon/zooom/pkg/models"
)

const (
	envPrefix = "ZOOOM"
	appDir    = "zooom"
)

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"buffer-start": "buffer_start",
	"buffer-end":   "buffer_end",
	"chooser":      "chooser",
	"chime":        "chime",
	"dry-run":      "dry_run",
	"log-level":    "log_level",
	"log-format":   "log_format",
}

// ConfigStore resolves configuration from flags, ZOOOM_* environment
// variables, an optional config file and defaults, in that order.
type ConfigStore struct {
	v     *viper.Viper
	flags *pflag.FlagSet
}

// NewConfigStore creates a new ConfigStore instance bound to flags
func NewConfigStore(flags *pflag.FlagSet) (*ConfigStore, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	for flag, key := range flagKeys {
		if f := flags.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", flag, err)
			}
		}
	}

	return &ConfigStore{v: v, flags: flags}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("buffer_start", 0)
	v.SetDefault("buffer_end", 0)
	v.SetDefault("chooser", string(models.ChooserFirst))
	v.SetDefault("chime", false)
	v.SetDefault("dry_run", false)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "")
}

// DefaultConfigDir returns the directory searched for config.{yaml,toml,json}.
func DefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, appDir), nil
}

// Load resolves the configuration. configFile is optional; when empty the
// default config directory is searched and a missing file is not an error.
func (cs *ConfigStore) Load(configFile string) (*models.Config, error) {
	if configFile != "" {
		cs.v.SetConfigFile(configFile)
	} else {
		cs.v.SetConfigName("config")
		if dir, err := DefaultConfigDir(); err == nil {
			cs.v.AddConfigPath(dir)
		}
	}

	if err := cs.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	config := &models.Config{}
	if err := cs.v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	config.Sources = cs.sources()

	if !config.ValidChooser() {
		return nil, fmt.Errorf("invalid chooser %q: expected first, prompt or gui", config.Chooser)
	}
	return config, nil
}

// sources applies flag > env > file precedence. The environment variable
// holds a single path, spaces included.
func (cs *ConfigStore) sources() []string {
	if f := cs.flags.Lookup("source"); f != nil && f.Changed {
		if values, err := cs.flags.GetStringArray("source"); err == nil {
			return values
		}
	}
	if env, ok := os.LookupEnv(envPrefix + "_SOURCE"); ok && env != "" {
		return []string{env}
	}
	return cs.v.GetStringSlice("source")
}
