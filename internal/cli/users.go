package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ftoledo/fiberbudget/internal/store"
)

// userView is the JSON shape of one account. The password is never
// included in output.
type userView struct {
	Username string `json:"username"`
	Level    string `json:"level"`
}

// NewUsersCommand creates the users command and its subcommands. All of
// them require an administrator account.
func NewUsersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "users",
		Short:         "Manage accounts (administrator only)",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newUsersListCommand(rootOpts))
	cmd.AddCommand(newUsersAddCommand(rootOpts))
	cmd.AddCommand(newUsersRmCommand(rootOpts))

	return cmd
}

func newUsersListCommand(rootOpts *RootOptions) *cobra.Command {
	creds := &credentials{}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List all accounts",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUsersList(rootOpts, *creds, cmd)
		},
	}

	addCredentialFlags(cmd, creds)

	return cmd
}

func runUsersList(opts *RootOptions, creds credentials, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts)

	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	sess, err := login(cmd, st, creds, formatter)
	if err != nil {
		return err
	}
	defer sess.Logout()

	users, err := sess.Users(cmd.Context())
	if err != nil {
		return domainError(formatter, err)
	}

	if formatter.Format == "json" {
		views := make([]userView, 0, len(users))
		for _, u := range users {
			views = append(views, userView{Username: u.Username, Level: string(u.Level)})
		}
		return formatter.Success(views)
	}

	for _, u := range users {
		fmt.Fprintf(formatter.Writer, "%-20s  %s\n", u.Username, u.Level)
	}
	return nil
}

func newUsersAddCommand(rootOpts *RootOptions) *cobra.Command {
	creds := &credentials{}
	var (
		name     string
		password string
		level    string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an account",
		Long: `Create an account with the given level.

Levels: administrator, advanced, basic. A taken username is rejected
without touching the existing account.

Example:
  fiberbudget users add -u admin -p admin123 --name tech1 --pass secret --level basic`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			u := store.User{Username: name, Password: password, Level: store.Level(level)}
			return runUsersAdd(rootOpts, *creds, u, cmd)
		},
	}

	addCredentialFlags(cmd, creds)
	cmd.Flags().StringVar(&name, "name", "", "username of the new account (required)")
	cmd.Flags().StringVar(&password, "pass", "", "password of the new account (required)")
	cmd.Flags().StringVar(&level, "level", string(store.LevelBasic), "account level (administrator|advanced|basic)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func runUsersAdd(opts *RootOptions, creds credentials, u store.User, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts)

	if !u.Level.Valid() {
		return outputError(formatter, ExitCommandError, ErrCodeValidation, fmt.Sprintf("invalid level %q", u.Level), nil)
	}

	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	sess, err := login(cmd, st, creds, formatter)
	if err != nil {
		return err
	}
	defer sess.Logout()

	if err := sess.AddUser(cmd.Context(), u); err != nil {
		return domainError(formatter, err)
	}

	return formatter.Success(fmt.Sprintf("Created %s account %q", u.Level, u.Username))
}

func newUsersRmCommand(rootOpts *RootOptions) *cobra.Command {
	creds := &credentials{}

	cmd := &cobra.Command{
		Use:           "rm <username>",
		Short:         "Delete an account",
		Long:          "Delete the named account. Deleting your own account is rejected.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUsersRm(rootOpts, *creds, args[0], cmd)
		},
	}

	addCredentialFlags(cmd, creds)

	return cmd
}

func runUsersRm(opts *RootOptions, creds credentials, username string, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts)

	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	sess, err := login(cmd, st, creds, formatter)
	if err != nil {
		return err
	}
	defer sess.Logout()

	if err := sess.RemoveUser(cmd.Context(), username); err != nil {
		return domainError(formatter, err)
	}

	return formatter.Success(fmt.Sprintf("Deleted account %q", username))
}
