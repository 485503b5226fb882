package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/sirupsen/logrus"
)

// Store backends
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Password hashing schemes
const (
	HashingPlain  = "plain"
	HashingBcrypt = "bcrypt"
)

// Config holds all configuration options for the task calendar
type Config struct {
	Store       StoreConfig       `yaml:"store"`
	Validation  ValidationConfig  `yaml:"validation"`
	Security    SecurityConfig    `yaml:"security"`
	Display     DisplayConfig     `yaml:"display"`
	Application ApplicationConfig `yaml:"application"`
}

// StoreConfig holds snapshot persistence configuration
type StoreConfig struct {
	Backend                   string        `yaml:"backend" env:"TC_STORE_BACKEND"`
	Dir                       string        `yaml:"dir" env:"TC_DATA_DIR"`
	Filename                  string        `yaml:"filename" env:"TC_SNAPSHOT_FILENAME"`
	SQLiteFilename            string        `yaml:"sqlite_filename" env:"TC_SQLITE_FILENAME"`
	LegacyCredentialsFilename string        `yaml:"legacy_credentials_filename" env:"TC_LEGACY_CREDENTIALS_FILENAME"`
	LegacyTasksFilename       string        `yaml:"legacy_tasks_filename" env:"TC_LEGACY_TASKS_FILENAME"`
	DirPermissions            uint32        `yaml:"dir_permissions" env:"TC_DATA_DIR_PERMISSIONS"`
	WriteTimeout              time.Duration `yaml:"write_timeout" env:"TC_STORE_WRITE_TIMEOUT"`
}

// ValidationConfig bounds task and account input.
type ValidationConfig struct {
	PasswordMinLength int `yaml:"password_min_length" env:"TC_VALIDATION_PASSWORD_MIN"`
	MaxAssignees      int `yaml:"max_assignees" env:"TC_VALIDATION_MAX_ASSIGNEES"`
	TaskNameMaxLength int `yaml:"task_name_max_length" env:"TC_VALIDATION_TASK_NAME_MAX"`
}

// SecurityConfig holds credential storage configuration
type SecurityConfig struct {
	PasswordHashing string `yaml:"password_hashing" env:"TC_PASSWORD_HASHING"`
	BcryptCost      int    `yaml:"bcrypt_cost" env:"TC_BCRYPT_COST"`
}

type DisplayConfig struct {
	DateFormat    string `yaml:"date_format" env:"TC_DISPLAY_DATE_FORMAT"`
	HumanizeDates bool   `yaml:"humanize_dates" env:"TC_DISPLAY_HUMANIZE_DATES"`
}

type ApplicationConfig struct {
	Timeout   time.Duration `yaml:"timeout" env:"TC_APP_TIMEOUT"`
	Verbose   bool          `yaml:"verbose" env:"TC_APP_VERBOSE"`
	LogLevel  string        `yaml:"log_level" env:"TC_LOG_LEVEL"`
	LogFormat string        `yaml:"log_format" env:"TC_LOG_FORMAT"`
}

const defaultLogLevel = "warn"

// NewConfig returns the built-in defaults. Data lives under ~/.tcal.
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDataDir := filepath.Join(homeDir, ".tcal")

	return &Config{
		Store: StoreConfig{
			Backend:                   BackendJSON,
			Dir:                       defaultDataDir,
			Filename:                  "users_and_tasks.json",
			SQLiteFilename:            "tcal.db",
			LegacyCredentialsFilename: "credentials.json",
			LegacyTasksFilename:       "tasks.json",
			DirPermissions:            0755,
			WriteTimeout:              5 * time.Second,
		},
		Validation: ValidationConfig{
			PasswordMinLength: 8,
			MaxAssignees:      5,
			TaskNameMaxLength: 0,
		},
		Security: SecurityConfig{
			PasswordHashing: HashingPlain,
			BcryptCost:      10,
		},
		Display: DisplayConfig{
			DateFormat:    "2006-01-02",
			HumanizeDates: true,
		},
		Application: ApplicationConfig{
			Timeout:   30 * time.Second,
			Verbose:   false,
			LogLevel:  defaultLogLevel,
			LogFormat: "text",
		},
	}
}

// GetSnapshotPath is where the JSON backend keeps its snapshot.
func (c *Config) GetSnapshotPath() string {
	return filepath.Join(c.Store.Dir, c.Store.Filename)
}

func (c *Config) GetSQLitePath() string {
	return filepath.Join(c.Store.Dir, c.Store.SQLiteFilename)
}

// WriteTimeout bounds a single snapshot save.
func (c *Config) WriteTimeout() time.Duration {
	return c.Store.WriteTimeout
}

// LoadFromEnvironment reads the process environment.
func (c *Config) LoadFromEnvironment() error {
	return c.LoadFromLookup(os.Getenv)
}

// LoadFromLookup sets every field whose env tag names a non-empty key.
// Values that do not parse leave the field unchanged.
func (c *Config) LoadFromLookup(getenv func(string) string) error {
	bindEnv(reflect.ValueOf(c).Elem(), getenv)
	return nil
}

// Validate reports the first setting that is out of bounds.
func (c *Config) Validate() error {
	_, levelErr := logrus.ParseLevel(c.Application.LogLevel)
	bcrypt := c.Security.PasswordHashing == HashingBcrypt

	checks := []struct {
		ok      bool
		field   string
		message string
	}{
		{oneOf(c.Store.Backend, BackendJSON, BackendSQLite), "store.backend", "backend must be one of: json, sqlite"},
		{c.Store.Dir != "", "store.dir", "data directory cannot be empty"},
		{c.Store.Filename != "", "store.filename", "snapshot filename cannot be empty"},
		{c.Store.SQLiteFilename != "", "store.sqlite_filename", "sqlite filename cannot be empty"},
		{c.Store.WriteTimeout > 0, "store.write_timeout", "write timeout must be positive"},
		{c.Validation.PasswordMinLength >= 1, "validation.password_min_length", "password minimum length must be at least 1"},
		{c.Validation.MaxAssignees >= 1, "validation.max_assignees", "maximum assignees must be at least 1"},
		{c.Validation.TaskNameMaxLength >= 0, "validation.task_name_max_length", "task name maximum length cannot be negative"},
		{oneOf(c.Security.PasswordHashing, HashingPlain, HashingBcrypt), "security.password_hashing", "password hashing must be one of: plain, bcrypt"},
		{!bcrypt || (c.Security.BcryptCost >= 4 && c.Security.BcryptCost <= 31), "security.bcrypt_cost", "bcrypt cost must be between 4 and 31"},
		{c.Display.DateFormat != "", "display.date_format", "date format cannot be empty"},
		{c.Application.Timeout > 0, "application.timeout", "application timeout must be positive"},
		{levelErr == nil, "application.log_level", fmt.Sprintf("not a logrus level: %q", c.Application.LogLevel)},
		{oneOf(c.Application.LogFormat, "text", "json"), "application.log_format", "log format must be one of: text, json"},
	}
	for _, check := range checks {
		if !check.ok {
			return &ConfigError{Field: check.field, Message: check.message}
		}
	}
	return nil
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// ConfigError names the setting that failed validation.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
