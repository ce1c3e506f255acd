// Package config resolves where Recipe+ keeps its data and how it logs.
// Values come, in increasing priority, from built-in defaults, a config
// file, .env files, RECIPEPLUS_* environment variables and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the app reads.
const EnvPrefix = "RECIPEPLUS"

// Keys.
const (
	KeyDB       = "db"
	KeySettings = "settings"
	KeyLogLevel = "log-level"
	KeyLogFile  = "log-file"
	KeyMemory   = "memory"
)

// Config is the resolved application configuration.
type Config struct {
	DBPath       string
	SettingsPath string
	LogLevel     string
	LogFile      string // "stderr" logs to the console
	Memory       bool   // keep recipes in memory only
}

// Dir is the data directory: $RECIPEPLUS_HOME, else ~/.recipeplus.
func Dir() string {
	if d := os.Getenv(EnvPrefix + "_HOME"); d != "" {
		return d
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".recipeplus"
	}
	return filepath.Join(home, ".recipeplus")
}

// LoadDotEnv loads .env files into the environment without overriding
// variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	dir := Dir()
	v.SetDefault(KeyDB, filepath.Join(dir, "recipes.db"))
	v.SetDefault(KeySettings, filepath.Join(dir, "settings.yaml"))
	v.SetDefault(KeyLogLevel, "normal")
	v.SetDefault(KeyLogFile, filepath.Join(dir, "recipeplus.log"))
	v.SetDefault(KeyMemory, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load resolves the configuration. file may name an explicit config file;
// otherwise config.yaml in Dir() is read if present. flags, when non-nil,
// override everything else for the flags the user actually set.
func Load(v *viper.Viper, file string, flags *pflag.FlagSet) (Config, error) {
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("binding flags: %w", err)
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading %s: %w", file, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	return Config{
		DBPath:       expandHome(v.GetString(KeyDB)),
		SettingsPath: expandHome(v.GetString(KeySettings)),
		LogLevel:     v.GetString(KeyLogLevel),
		LogFile:      expandHome(v.GetString(KeyLogFile)),
		Memory:       v.GetBool(KeyMemory),
	}, nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
