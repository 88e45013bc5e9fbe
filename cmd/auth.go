// ABOUTME: Account commands: login, signup, logout and whoami
// ABOUTME: Credentials are checked locally before any request is sent

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/markalston/forum-client/internal/client"
	"github.com/markalston/forum-client/internal/validate"
)

var (
	authUsername string
	authPassword string
)

// promptCredentials asks for whatever is missing. Replaced in tests.
var promptCredentials = func(username, password *string) error {
	var fields []huh.Field
	if *username == "" {
		fields = append(fields, huh.NewInput().Title("Username").Value(username))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	Args:  cobra.NoArgs,
	Run: runWithEnv(func(ctx context.Context, w io.Writer, e *forumEnv, _ []string) int {
		return runAuth(ctx, w, e, e.client.Login, authUsername, passwordFromEnv(authPassword))
	}),
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and log in",
	Args:  cobra.NoArgs,
	Run: runWithEnv(func(ctx context.Context, w io.Writer, e *forumEnv, _ []string) int {
		return runAuth(ctx, w, e, e.client.Signup, authUsername, passwordFromEnv(authPassword))
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	Args:  cobra.NoArgs,
	Run: runWithEnv(func(ctx context.Context, w io.Writer, e *forumEnv, _ []string) int {
		return runLogout(ctx, w, e)
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	Run: runWithEnv(func(ctx context.Context, w io.Writer, e *forumEnv, _ []string) int {
		return runWhoami(w, e)
	}),
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, signupCmd} {
		c.Flags().StringVarP(&authUsername, "username", "u", "", "Username")
		c.Flags().StringVarP(&authPassword, "password", "p", "", "Password (default: FORUM_PASSWORD, else prompt)")
		rootCmd.AddCommand(c)
	}
	rootCmd.AddCommand(logoutCmd, whoamiCmd)
}

func passwordFromEnv(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv("FORUM_PASSWORD")
}

type authFunc func(ctx context.Context, creds client.Credentials) (*client.AuthResponse, error)

// runAuth validates credentials, exchanges them for a token, and stores it.
func runAuth(ctx context.Context, w io.Writer, e *forumEnv, call authFunc, username, password string) int {
	if username == "" || password == "" {
		if err := promptCredentials(&username, &password); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}
	if err := validate.Credentials(username, password); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	resp, err := call(ctx, client.Credentials{Username: username, Password: password})
	if err != nil {
		return reportError(w, err)
	}

	e.session.SetFromToken(ctx, resp.Token)
	s := e.session.Snapshot()
	if !s.IsAuthenticated {
		fmt.Fprintln(w, "Error: backend returned an unusable token")
		return 2
	}

	if IsJSONOutput() {
		printJSON(w, sessionView(s.Username, s.ExpiresAt))
		return 0
	}
	fmt.Fprintf(w, "Logged in as %s\n", s.Username)
	return 0
}

func runLogout(ctx context.Context, w io.Writer, e *forumEnv) int {
	e.session.Reset(ctx)
	fmt.Fprintln(w, "Logged out")
	return 0
}

func runWhoami(w io.Writer, e *forumEnv) int {
	s := e.session.Snapshot()
	if IsJSONOutput() {
		printJSON(w, sessionView(s.Username, s.ExpiresAt))
		return 0
	}
	fmt.Fprintln(w, formatSession(s.Username, s.ExpiresAt))
	return 0
}

type sessionJSON struct {
	LoggedIn  bool       `json:"logged_in"`
	Username  string     `json:"username,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func sessionView(username string, expires time.Time) sessionJSON {
	v := sessionJSON{LoggedIn: username != "", Username: username}
	if !expires.IsZero() {
		v.ExpiresAt = &expires
	}
	return v
}

func formatSession(username string, expires time.Time) string {
	if username == "" {
		return "Not logged in"
	}
	if expires.IsZero() {
		return "Logged in as " + username
	}
	return fmt.Sprintf("Logged in as %s (session expires %s)", username, expires.Local().Format(time.DateTime))
}
