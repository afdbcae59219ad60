// ABOUTME: Entry point for the flyair CLI
// ABOUTME: Scriptable booking commands plus the interactive TUI

package main

import (
	"fmt"
	"os"

	"github.com/flyair/flyair-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
