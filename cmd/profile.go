// ABOUTME: Profile commands: update details, change password, and set up two-factor auth
// ABOUTME: A successful update is written back to the stored session

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/flyair/flyair-cli/internal/client"
)

var profileUpdate client.ProfileUpdate

var passwordFlags struct {
	Current string
	New     string
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show and manage your profile",
	Run: func(cmd *cobra.Command, args []string) {
		run(runWhoami)
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your name, email, or phone",
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int { return runProfileUpdate(ctx, w, profileUpdate) })
	},
}

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change your password",
	Run: func(cmd *cobra.Command, args []string) {
		current, next := passwordFlags.Current, passwordFlags.New
		if current == "" || next == "" {
			err := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().Title("Current password").EchoMode(huh.EchoModePassword).Value(&current),
					huh.NewInput().Title("New password").EchoMode(huh.EchoModePassword).Value(&next),
				),
			).Run()
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(exitFailure)
			}
		}
		run(func(ctx context.Context, w io.Writer) int { return runChangePassword(ctx, w, current, next) })
	},
}

var enableTwoFactorCmd = &cobra.Command{
	Use:   "enable-2fa",
	Short: "Start two-factor authentication setup",
	Run: func(cmd *cobra.Command, args []string) {
		run(runEnableTwoFactor)
	},
}

var confirmTwoFactorCmd = &cobra.Command{
	Use:   "confirm-2fa <code>",
	Short: "Finish two-factor setup with a code from your authenticator",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int { return runConfirmTwoFactor(ctx, w, args[0]) })
	},
}

func init() {
	profileUpdateCmd.Flags().StringVar(&profileUpdate.Email, "email", "", "Email address")
	profileUpdateCmd.Flags().StringVar(&profileUpdate.FirstName, "first-name", "", "First name")
	profileUpdateCmd.Flags().StringVar(&profileUpdate.LastName, "last-name", "", "Last name")
	profileUpdateCmd.Flags().StringVar(&profileUpdate.Phone, "phone", "", "Phone number")

	passwordCmd.Flags().StringVar(&passwordFlags.Current, "current", "", "Current password")
	passwordCmd.Flags().StringVar(&passwordFlags.New, "new", "", "New password")

	profileCmd.AddCommand(profileUpdateCmd, passwordCmd, enableTwoFactorCmd, confirmTwoFactorCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileUpdate(ctx context.Context, w io.Writer, update client.ProfileUpdate) int {
	if update == (client.ProfileUpdate{}) {
		fmt.Fprintln(w, "Error: nothing to update")
		return exitFailure
	}
	return withSession(ctx, w, func(e *env) int {
		if _, err := e.client.UpdateProfile(ctx, update); err != nil {
			return report(w, err)
		}
		if err := e.session.RefreshProfile(ctx); err != nil {
			fmt.Fprintf(w, "Warning: profile saved but not reloaded: %v\n", err)
		}
		st := e.session.State()
		if IsJSONOutput() {
			return printJSON(w, st.User)
		}
		fmt.Fprintln(w, "Profile updated.")
		if st.User != nil {
			fmt.Fprint(w, formatUser(st.User))
		}
		return exitOK
	})
}

func runChangePassword(ctx context.Context, w io.Writer, current, next string) int {
	if current == "" || next == "" {
		fmt.Fprintln(w, "Error: current and new password are required")
		return exitFailure
	}
	return withSession(ctx, w, func(e *env) int {
		if err := e.client.ChangePassword(ctx, current, next); err != nil {
			return report(w, err)
		}
		fmt.Fprintln(w, "Password changed.")
		return exitOK
	})
}

func runEnableTwoFactor(ctx context.Context, w io.Writer) int {
	return withSession(ctx, w, func(e *env) int {
		setup, err := e.client.EnableTwoFactor(ctx)
		if err != nil {
			return report(w, err)
		}
		if setup == nil || setup.Secret == "" {
			fmt.Fprintln(w, "Error: backend did not return a two-factor secret")
			return exitError
		}
		if IsJSONOutput() {
			return printJSON(w, setup)
		}
		fmt.Fprintf(w, "Add this secret to your authenticator app:\n\n  %s\n\n", setup.Secret)
		fmt.Fprintln(w, "Then run `flyair profile confirm-2fa <code>` with the code it shows.")
		return exitOK
	})
}

func runConfirmTwoFactor(ctx context.Context, w io.Writer, code string) int {
	return withSession(ctx, w, func(e *env) int {
		if err := e.client.ConfirmTwoFactor(ctx, code); err != nil {
			return report(w, err)
		}
		if err := e.session.RefreshProfile(ctx); err != nil {
			slog.Warn("Profile not reloaded after enabling two-factor", "error", err)
		}
		fmt.Fprintln(w, "Two-factor authentication enabled.")
		return exitOK
	})
}
