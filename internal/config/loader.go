package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"task-calendar/internal/logging"
)

// ConfigFileEnv names the environment variable pointing at an optional YAML config file
const ConfigFileEnv = "TC_CONFIG_FILE"

// Loader layers defaults, an optional YAML file, the environment and a
// dotenv file.
type Loader struct {
	config  *Config
	envFile string
	getenv  func(string) string
}

// NewLoader reads ".env" from the working directory when present.
func NewLoader() *Loader {
	return &Loader{
		config:  NewConfig(),
		envFile: ".env",
		getenv:  os.Getenv,
	}
}

// WithEnvFile sets the dotenv file consulted for values missing from the
// process environment. An empty path disables dotenv loading.
func (l *Loader) WithEnvFile(path string) *Loader {
	l.envFile = path
	return l
}

// Load resolves each setting from the highest layer that has it: process
// environment, then dotenv, then the YAML file named by TC_CONFIG_FILE, then
// defaults.
func (l *Loader) Load() (*Config, error) {
	dotenv, err := l.readEnvFile()
	if err != nil {
		return nil, err
	}
	lookup := func(key string) string {
		if v := l.getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}

	if path := lookup(ConfigFileEnv); path != "" {
		if err := l.config.LoadFromFile(path); err != nil {
			return nil, err
		}
		logging.Debugln("config file applied:", path)
	}

	if err := l.config.LoadFromLookup(lookup); err != nil {
		return nil, err
	}
	// verbose from any layer means debug unless a level was set explicitly
	if app := &l.config.Application; app.Verbose && app.LogLevel == defaultLogLevel {
		app.LogLevel = "debug"
	}
	if err := l.config.Validate(); err != nil {
		return nil, err
	}
	return l.config, nil
}

// LoadWithOverrides is Load followed by the command line layer. The merged
// result is validated again.
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	cfg, err := l.Load()
	if err != nil || overrides == nil {
		return cfg, err
	}
	overrides.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) readEnvFile() (map[string]string, error) {
	if l.envFile == "" {
		return map[string]string{}, nil
	}
	if _, err := os.Stat(l.envFile); os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	values, err := godotenv.Read(l.envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", l.envFile, err)
	}
	logging.Debugf("read %d values from %s", len(values), l.envFile)
	return values, nil
}

// LoadFromFile overlays values from a YAML config file. Keys absent from the
// file keep their current values.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// ConfigOverrides carries command line flags. Nil fields were not given.
type ConfigOverrides struct {
	Backend         *string
	DataDir         *string
	Filename        *string
	WriteTimeout    *time.Duration
	PasswordHashing *string
	HumanizeDates   *bool
	Timeout         *time.Duration
	Verbose         *bool
	LogLevel        *string
}

func override[T any](dst *T, flag *T) {
	if flag != nil {
		*dst = *flag
	}
}

// apply writes the given flags over cfg. --verbose implies debug logging
// unless --log-level says otherwise.
func (o *ConfigOverrides) apply(cfg *Config) {
	override(&cfg.Store.Backend, o.Backend)
	override(&cfg.Store.Dir, o.DataDir)
	override(&cfg.Store.Filename, o.Filename)
	override(&cfg.Store.WriteTimeout, o.WriteTimeout)
	override(&cfg.Security.PasswordHashing, o.PasswordHashing)
	override(&cfg.Display.HumanizeDates, o.HumanizeDates)
	override(&cfg.Application.Timeout, o.Timeout)
	override(&cfg.Application.Verbose, o.Verbose)
	if cfg.Application.Verbose && o.Verbose != nil {
		cfg.Application.LogLevel = "debug"
	}
	override(&cfg.Application.LogLevel, o.LogLevel)
}
