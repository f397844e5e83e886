package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Hayal27/sininning-pro-sub000/internal/auth"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
	"github.com/Hayal27/sininning-pro-sub000/internal/repository"
)

// adminPasswordEnv supplies the password for users create when --password
// is omitted, keeping it out of shell history.
const adminPasswordEnv = "AUTH_ADMIN_PASSWORD"

const minPasswordLength = 8

var errPasswordRequired = errors.New("a password is required: pass --password or set " + adminPasswordEnv)

var newUser struct {
	username string
	email    string
	fullName string
	role     string
	password string
}

func usersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage staff accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a staff account",
		Long: `Create a staff account. An existing account with the same username or
email is left untouched, so the command is safe to run on every deploy.`,
		Args: cobra.NoArgs,
		RunE: runCreateUser,
	}
	f := create.Flags()
	f.StringVar(&newUser.username, "username", "", "login name")
	f.StringVar(&newUser.email, "email", "", "email address")
	f.StringVar(&newUser.fullName, "full-name", "", "display name")
	f.StringVar(&newUser.role, "role", string(models.RoleAdmin), "admin or editor")
	f.StringVar(&newUser.password, "password", "", "password (defaults to $"+adminPasswordEnv+")")
	_ = create.MarkFlagRequired("username")
	_ = create.MarkFlagRequired("email")

	list := &cobra.Command{
		Use:   "list",
		Short: "List staff accounts",
		Args:  cobra.NoArgs,
		RunE:  runListUsers,
	}

	cmd.AddCommand(create, list)
	return cmd
}

// resolvePassword prefers the flag and falls back to the environment.
func resolvePassword(flagValue string) (string, error) {
	password := flagValue
	if password == "" {
		password = os.Getenv(adminPasswordEnv)
	}
	if password == "" {
		return "", errPasswordRequired
	}
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return password, nil
}

func runCreateUser(cmd *cobra.Command, _ []string) error {
	role := models.Role(newUser.role)
	if !role.Valid() {
		return fmt.Errorf("invalid role %q: must be admin or editor", newUser.role)
	}
	password, err := resolvePassword(newUser.password)
	if err != nil {
		return err
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	users := repository.NewUserRepository(e.db, e.logger)
	out := cmd.OutOrStdout()

	for _, login := range []string{newUser.username, newUser.email} {
		existing, lookupErr := users.GetByLogin(ctx, login)
		switch {
		case lookupErr == nil:
			fmt.Fprintf(out, "User %s already exists (id %s), skipping\n", existing.Username, existing.ID)
			return nil
		case !errors.Is(lookupErr, models.ErrNotFound):
			return lookupErr
		}
	}

	req := &models.UserCreateRequest{
		Username: newUser.username,
		Email:    newUser.email,
		Password: password,
		FullName: newUser.fullName,
		Role:     role,
	}
	if err = req.Validate(); err != nil {
		return err
	}

	hash, err := auth.NewPasswordHasher(e.cfg.Auth.BcryptCost).Hash(password)
	if err != nil {
		return err
	}

	user, err := users.Create(ctx, req, hash)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	fmt.Fprintf(out, "Created %s user %s (id %s)\n", user.Role, user.Username, user.ID)
	return nil
}

func runListUsers(cmd *cobra.Command, _ []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	users, total, err := repository.NewUserRepository(e.db, e.logger).List(cmd.Context(), repository.UserFilter{
		Page: repository.Page{Limit: repository.MaxLimit},
	})
	if err != nil {
		return err
	}

	renderUsers(cmd.OutOrStdout(), users, total)
	return nil
}

func renderUsers(out io.Writer, users []models.User, total int) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Username", "Email", "Role", "Active", "Last Login"})

	for i := range users {
		u := &users[i]
		lastLogin := "never"
		if u.LastLoginAt != nil {
			lastLogin = u.LastLoginAt.UTC().Format("2006-01-02 15:04")
		}
		t.AppendRow(table.Row{u.ID, u.Username, u.Email, u.Role, u.IsActive, lastLogin})
	}

	if total > len(users) {
		t.AppendFooter(table.Row{"", "", "", "", "", fmt.Sprintf("%d of %d", len(users), total)})
	}
	t.Render()
}
