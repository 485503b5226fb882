package cli

import (
	"fmt"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"
)

func newSignupCommand(r *RootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Long: `Create an account from --email and --password (or TC_EMAIL and TC_PASSWORD).

Passwords need at least 8 characters with one letter and one digit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			email, password, err := r.credentials()
			if err != nil {
				return r.errors.Handle("sign up", err)
			}
			if err := r.api.Signup(ctx, email, password); err != nil {
				return r.errors.Handle("sign up", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account created for %s\n", email)
			return nil
		},
	}
}

func newLoginCommand(r *RootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Check credentials and show the task count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			session, err := r.login(ctx)
			if err != nil {
				return r.errors.Handle("log in", err)
			}
			tasks, err := r.api.ListTasks(ctx, session)
			if err != nil {
				return r.errors.Handle("log in", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", session.Email, english.Plural(len(tasks), "task", ""))
			return nil
		},
	}
}
