// ABOUTME: Launches the interactive terminal application
// ABOUTME: Logs go to debug.log in the config directory while the TUI owns the screen

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/flyair/flyair-cli/internal/tui"
	"github.com/flyair/flyair-cli/internal/tui/recentsearches"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive booking application",
	Run: func(cmd *cobra.Command, args []string) {
		run(runTUI)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(ctx context.Context, w io.Writer) int {
	e, err := newEnv(ctx, true)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	defer e.Close()

	deps := tui.Deps{
		Client:  e.client,
		Session: e.session,
		Recent:  recentsearches.New(e.cfg.ConfigDir),
	}
	if err := tui.Run(ctx, deps); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}
