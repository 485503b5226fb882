package cli

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"task-calendar/internal/api"
	"task-calendar/internal/config"
	"task-calendar/internal/domain"
	"task-calendar/internal/errors"
	"task-calendar/internal/logging"
)

// Environment variables consulted when --email or --password is not given
const (
	EmailEnv    = "TC_EMAIL"
	PasswordEnv = "TC_PASSWORD"
)

// timeNow is swapped out by tests.
var timeNow = time.Now

// RootCommand is the tcal entry point. It owns the configuration and the
// API opened for the duration of one invocation.
type RootCommand struct {
	cmd    *cobra.Command
	loader *config.Loader
	getenv func(string) string

	// set by the pre-run hook
	config *config.Config
	logger *logrus.Logger
	api    api.API

	errors *ErrorHandler
}

// NewRootCommand creates the root command reading configuration from the
// environment, ".env" and TC_CONFIG_FILE
func NewRootCommand() *RootCommand {
	return NewRootCommandWithLoader(config.NewLoader())
}

// NewRootCommandWithLoader creates the root command with a custom loader
func NewRootCommandWithLoader(loader *config.Loader) *RootCommand {
	root := &RootCommand{
		loader: loader,
		getenv: os.Getenv,
		errors: NewErrorHandler(),
	}

	root.cmd = &cobra.Command{
		Use:   "tcal",
		Short: "A command-line task calendar",
		Long: `Task Calendar (tcal) keeps a dated, prioritised task list per account.

FEATURES:
  • Sign up and log in with an email and password
  • Add tasks with an end date, status, priority, progress and assignees
  • Edit a task by ID or by its position in the list
  • Filter by end date, status, priority, progress and assignee

EXAMPLES:
  tcal signup --email ana@example.com --password secret123
  tcal task add --name "Write report" --end-date 2025-06-01 --status "In Progress" \
      --priority 2 --progress 40 --assignees "ana, bo"
  tcal task list --max-priority 3 --min-progress 10
  tcal task edit '#0' --name "Write report" --end-date 2025-06-01 --status Completed \
      --priority 2 --progress 100

CREDENTIALS:
  --email and --password may be replaced by TC_EMAIL and TC_PASSWORD.

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment
  variables > .env file > TC_CONFIG_FILE (YAML) > defaults

    TC_STORE_BACKEND                       json or sqlite (default: json)
    TC_DATA_DIR                            Data directory (default: ~/.tcal)
    TC_SNAPSHOT_FILENAME                   JSON snapshot (default: users_and_tasks.json)
    TC_STORE_WRITE_TIMEOUT                 Save timeout (default: 5s)
    TC_PASSWORD_HASHING                    plain or bcrypt (default: plain)
    TC_DISPLAY_HUMANIZE_DATES              Relative due dates (default: true)
    TC_APP_TIMEOUT                         Per-command timeout (default: 30s)
    TC_LOG_LEVEL                           Log level (default: warn)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup(cmd)
		},
	}

	root.addGlobalFlags()
	root.cmd.AddCommand(
		newSignupCommand(root),
		newLoginCommand(root),
		newTaskCommand(root),
	)

	return root
}

// Execute runs the root command and releases the store afterwards
func (r *RootCommand) Execute() error {
	return r.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx as the parent of every
// command context
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	err := r.cmd.ExecuteContext(ctx)
	if err != nil && r.logger != nil && errors.ShouldLogError(err) {
		entry := r.logger.WithError(err)
		if appErr, ok := errors.AsAppError(err); ok {
			entry = entry.WithFields(appErr.LogFields())
		}
		entry.Error("command failed")
	}
	if r.api != nil {
		if closeErr := r.api.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		r.api = nil
	}
	return err
}

// Command exposes the underlying cobra command
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	// Credentials
	flags.String("email", "", "Account email (overrides TC_EMAIL)")
	flags.String("password", "", "Account password (overrides TC_PASSWORD)")

	// Store configuration
	flags.String("backend", "", "Store backend, json or sqlite (overrides TC_STORE_BACKEND)")
	flags.String("data-dir", "", "Data directory (overrides TC_DATA_DIR)")
	flags.String("filename", "", "JSON snapshot filename (overrides TC_SNAPSHOT_FILENAME)")
	flags.Duration("write-timeout", 0, "Snapshot save timeout (overrides TC_STORE_WRITE_TIMEOUT)")

	// Security configuration
	flags.String("password-hashing", "", "plain or bcrypt (overrides TC_PASSWORD_HASHING)")

	flags.Bool("humanize-dates", true, "Show due dates relative to today (overrides TC_DISPLAY_HUMANIZE_DATES)")

	flags.Duration("timeout", 0, "Per-command timeout (overrides TC_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable debug logging (overrides TC_APP_VERBOSE)")
	flags.String("log-level", "", "Log level (overrides TC_LOG_LEVEL)")
}

// overridesFromFlags collects the flags the user actually set
func overridesFromFlags(flags *pflag.FlagSet) *config.ConfigOverrides {
	overrides := &config.ConfigOverrides{}
	stringFlag := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	durationFlag := func(name string) *time.Duration {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetDuration(name)
		return &v
	}
	boolFlag := func(name string) *bool {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetBool(name)
		return &v
	}

	overrides.Backend = stringFlag("backend")
	overrides.DataDir = stringFlag("data-dir")
	overrides.Filename = stringFlag("filename")
	overrides.WriteTimeout = durationFlag("write-timeout")
	overrides.PasswordHashing = stringFlag("password-hashing")
	overrides.HumanizeDates = boolFlag("humanize-dates")
	overrides.Timeout = durationFlag("timeout")
	overrides.Verbose = boolFlag("verbose")
	overrides.LogLevel = stringFlag("log-level")
	return overrides
}

// setup loads configuration and opens the store before any command runs
func (r *RootCommand) setup(cmd *cobra.Command) error {
	cfg, err := r.loader.LoadWithOverrides(overridesFromFlags(r.cmd.PersistentFlags()))
	if err != nil {
		return r.errors.Handle("load configuration", err)
	}
	r.config = cfg
	r.logger = logging.New(logging.Options{
		Level:  cfg.Application.LogLevel,
		Format: cfg.Application.LogFormat,
		Output: cmd.ErrOrStderr(),
	})

	r.api, err = api.Open(cmd.Context(), cfg, r.logger)
	if err != nil {
		return r.errors.Handle("open task store", err)
	}
	r.logger.WithFields(logrus.Fields{
		"backend": cfg.Store.Backend,
		"dir":     cfg.Store.Dir,
	}).Debug("task store opened")
	return nil
}

// commandContext bounds a command by the configured application timeout
func (r *RootCommand) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout := 30 * time.Second
	if r.config != nil {
		timeout = r.config.Application.Timeout
	}
	return context.WithTimeout(cmd.Context(), timeout)
}

// credentials returns the email and password from flags or the environment
func (r *RootCommand) credentials() (string, string, error) {
	flags := r.cmd.PersistentFlags()
	email, _ := flags.GetString("email")
	password, _ := flags.GetString("password")
	if email == "" {
		email = r.getenv(EmailEnv)
	}
	if password == "" {
		password = r.getenv(PasswordEnv)
	}
	if email == "" || password == "" {
		return "", "", errors.NewInvalidInputError("credentials", email,
			"set --email and --password, or TC_EMAIL and TC_PASSWORD")
	}
	return email, password, nil
}

// login authenticates with the configured credentials
func (r *RootCommand) login(ctx context.Context) (domain.Session, error) {
	email, password, err := r.credentials()
	if err != nil {
		return domain.Session{}, err
	}
	session, err := r.api.Login(ctx, email, password)
	if err != nil {
		return domain.Session{}, err
	}
	r.logger.WithField("email", session.Email).Debug("logged in")
	return session, nil
}
