// ABOUTME: Account commands: login, logout, whoami, register, and password reset
// ABOUTME: Prompts with huh for anything not given as a flag

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/flyair/flyair-cli/internal/client"
)

// loginInput holds the credentials for runLogin. AskCode is called when the
// backend requires a second factor and Code is empty.
type loginInput struct {
	Username string
	Password string
	Code     string
	AskCode  func() (string, error)
}

var loginFlags loginInput

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Long: `Sign in to FlyAir. Missing credentials are prompted for. When the account
has two-factor authentication enabled, the authenticator code is requested
as well (or taken from --code).`,
	Run: func(cmd *cobra.Command, args []string) {
		in := loginFlags
		if in.Username == "" || in.Password == "" {
			if err := promptCredentials(&in); err != nil {
				fmt.Println("Error:", err)
				os.Exit(exitFailure)
			}
		}
		in.AskCode = promptCode
		run(func(ctx context.Context, w io.Writer) int { return runLogin(ctx, w, in) })
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		run(runLogout)
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Run: func(cmd *cobra.Command, args []string) {
		run(runWhoami)
	},
}

var registerFlags client.RegisterRequest

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a traveler account",
	Run: func(cmd *cobra.Command, args []string) {
		req := registerFlags
		if req.Password == "" {
			if err := huh.NewInput().
				Title("Choose a password").
				EchoMode(huh.EchoModePassword).
				Value(&req.Password).
				Run(); err != nil {
				fmt.Println("Error:", err)
				os.Exit(exitFailure)
			}
		}
		run(func(ctx context.Context, w io.Writer) int { return runRegister(ctx, w, req) })
	},
}

var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password <email>",
	Short: "Request a password reset email",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int { return runForgotPassword(ctx, w, args[0]) })
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <token> <new-password>",
	Short: "Set a new password using the token from the reset email",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int { return runResetPassword(ctx, w, args[0], args[1]) })
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginFlags.Username, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&loginFlags.Password, "password", "p", "", "Password")
	loginCmd.Flags().StringVar(&loginFlags.Code, "code", "", "Two-factor authentication code")

	registerCmd.Flags().StringVar(&registerFlags.Username, "username", "", "Username")
	registerCmd.Flags().StringVar(&registerFlags.Email, "email", "", "Email address")
	registerCmd.Flags().StringVar(&registerFlags.Password, "password", "", "Password (prompted when omitted)")
	registerCmd.Flags().StringVar(&registerFlags.FirstName, "first-name", "", "First name")
	registerCmd.Flags().StringVar(&registerFlags.LastName, "last-name", "", "Last name")
	registerCmd.Flags().StringVar(&registerFlags.Phone, "phone", "", "Phone number")
	for _, f := range []string{"username", "email", "first-name", "last-name"} {
		registerCmd.MarkFlagRequired(f)
	}

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, registerCmd, forgotPasswordCmd, resetPasswordCmd)
}

func promptCredentials(in *loginInput) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Username").Value(&in.Username),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&in.Password),
		),
	).Run()
}

func promptCode() (string, error) {
	var code string
	err := huh.NewInput().
		Title("Authentication code").
		Description("Enter the 6-digit code from your authenticator app").
		Value(&code).
		Run()
	return code, err
}

// runLogin authenticates and stores the session
func runLogin(ctx context.Context, w io.Writer, in loginInput) int {
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		fmt.Fprintln(w, "Error: username and password are required")
		return exitFailure
	}

	return withEnv(ctx, w, func(e *env) int {
		resp, err := e.client.Login(ctx, strings.TrimSpace(in.Username), in.Password)
		if err != nil {
			return report(w, err)
		}

		if resp.RequiresTwoFactor {
			code := in.Code
			if code == "" && in.AskCode != nil {
				if code, err = in.AskCode(); err != nil {
					return report(w, err)
				}
			}
			if strings.TrimSpace(code) == "" {
				fmt.Fprintln(w, "Error: two-factor code required (use --code)")
				return exitFailure
			}
			if resp, err = e.client.VerifyTwoFactor(ctx, resp.TemporaryToken, strings.TrimSpace(code)); err != nil {
				return report(w, err)
			}
		}

		if err := e.session.Login(ctx, resp.AccessToken, resp.User); err != nil {
			// The session is still set for this process, but the next
			// command will not see it.
			return report(w, err)
		}

		if IsJSONOutput() {
			return printJSON(w, resp.User)
		}
		fmt.Fprintf(w, "Logged in as %s (%s)\n", resp.User.FullName(), resp.User.Username)
		return exitOK
	})
}

// runLogout clears the stored session
func runLogout(ctx context.Context, w io.Writer) int {
	return withEnv(ctx, w, func(e *env) int {
		if err := e.session.Logout(ctx); err != nil {
			return report(w, err)
		}
		fmt.Fprintln(w, "Logged out.")
		return exitOK
	})
}

// runWhoami refreshes the profile and prints it
func runWhoami(ctx context.Context, w io.Writer) int {
	return withSession(ctx, w, func(e *env) int {
		if err := e.session.RefreshProfile(ctx); err != nil {
			if errors.Is(err, client.ErrUnauthorized) {
				return report(w, err)
			}
			fmt.Fprintf(w, "Warning: showing cached profile: %v\n", err)
		}
		st := e.session.State()
		if st.User == nil {
			return report(w, client.ErrUnauthorized)
		}
		if IsJSONOutput() {
			return printJSON(w, st.User)
		}
		fmt.Fprint(w, formatUser(st.User))
		return exitOK
	})
}

func formatUser(u *client.User) string {
	twoFactor := "disabled"
	if u.TwoFactorEnabled {
		twoFactor = "enabled"
	}
	return fmt.Sprintf(`Name:       %s
Username:   %s
Email:      %s
Phone:      %s
Role:       %s
Two-factor: %s
`, u.FullName(), u.Username, orDash(u.Email), orDash(u.Phone), u.Role, twoFactor)
}

// runRegister creates an account. It does not log in.
func runRegister(ctx context.Context, w io.Writer, req client.RegisterRequest) int {
	return withEnv(ctx, w, func(e *env) int {
		user, err := e.client.Register(ctx, req)
		if err != nil {
			return report(w, err)
		}
		if IsJSONOutput() {
			return printJSON(w, user)
		}
		fmt.Fprintf(w, "Account %s created. Run `flyair login` to sign in.\n", req.Username)
		return exitOK
	})
}

func runForgotPassword(ctx context.Context, w io.Writer, email string) int {
	return withEnv(ctx, w, func(e *env) int {
		if err := e.client.ForgotPassword(ctx, email); err != nil {
			return report(w, err)
		}
		fmt.Fprintln(w, "If the address is registered, a reset link is on its way.")
		return exitOK
	})
}

func runResetPassword(ctx context.Context, w io.Writer, token, password string) int {
	return withEnv(ctx, w, func(e *env) int {
		if err := e.client.ResetPassword(ctx, token, password); err != nil {
			return report(w, err)
		}
		fmt.Fprintln(w, "Password updated. Run `flyair login` to sign in.")
		return exitOK
	})
}
