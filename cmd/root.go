// ABOUTME: Root command for the flyair CLI
// ABOUTME: Handles global flags and builds the config, session, and API client for subcommands

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flyair/flyair-cli/internal/client"
	"github.com/flyair/flyair-cli/internal/config"
	"github.com/flyair/flyair-cli/internal/logger"
	"github.com/flyair/flyair-cli/internal/session"
	"github.com/flyair/flyair-cli/internal/storage"
)

var (
	apiURL     string
	jsonOutput bool
	configDir  string
	logLevel   string
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "flyair",
	Short: "Book and manage FlyAir flights from the terminal",
	Long: `flyair is a command-line client for the FlyAir booking service.

Search flights, book seats, and manage tickets from scripts, or run
"flyair tui" for the interactive application.

Environment Variables:
  FLYAIR_API_URL     Backend API URL (default: http://localhost:8086)
  FLYAIR_CONFIG_DIR  Directory for config.yaml, the session, and debug.log
  FLYAIR_STORAGE     Session storage: file, memory, or a redis:// URL
  FLYAIR_ALL_PROXY   ssh+socks5://user@host:port?private-key=PATH
  FLYAIR_LOG_LEVEL   debug, info, warn, or error`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides FLYAIR_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (overrides FLYAIR_CONFIG_DIR)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// run wraps a command body with signal handling and exits with its code.
func run(body func(ctx context.Context, w io.Writer) int) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	exitCode := body(ctx, os.Stdout)
	if exitCode != exitOK {
		cancel()
		os.Exit(exitCode)
	}
}

// env bundles what a command needs to talk to the backend.
type env struct {
	cfg     *config.Config
	session *session.Manager
	client  *client.Client
	closers []func() error
}

// newEnv resolves configuration, sets up logging, and restores the session.
// In TUI mode logs go to the debug file instead of stderr.
func newEnv(ctx context.Context, tuiMode bool) (*env, error) {
	cfg, err := config.Load(ctx, config.Overrides{APIURL: apiURL, ConfigDir: configDir, LogLevel: logLevel})
	if err != nil {
		return nil, err
	}

	logOpts := logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr}
	if tuiMode {
		logOpts.FileDir = cfg.ConfigDir
	}
	closeLog, err := logger.Init(logOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	e := &env{cfg: cfg, closers: []func() error{closeLog}}

	store, err := storage.Open(cfg.Storage, cfg.ConfigDir)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("failed to open session storage: %w", err)
	}
	if c, ok := store.(io.Closer); ok {
		e.closers = append(e.closers, c.Close)
	}

	e.session = session.New(store)
	opts := []client.Option{client.WithTimeout(cfg.Timeout), client.WithCredentials(e.session)}
	if cfg.ProxyURL != "" {
		dial, err := client.NewProxyDialer(cfg.ProxyURL)
		if err != nil {
			e.Close()
			return nil, err
		}
		opts = append(opts, client.WithDialContext(dial))
	}
	e.client = client.New(cfg.APIURL, opts...)
	e.session.SetProfileFetcher(e.client)
	e.session.Initialize(ctx)
	return e, nil
}

// Close releases storage connections and the log file.
func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i]())
	}
	return errors.Join(errs...)
}

// requireLogin reports whether a session exists, telling the user otherwise.
func (e *env) requireLogin(w io.Writer) bool {
	if e.session.State().IsAuthenticated {
		return true
	}
	fmt.Fprintln(w, "Not logged in. Run `flyair login` first.")
	return false
}

// requireAdmin reports whether the session belongs to an administrator.
func (e *env) requireAdmin(w io.Writer) int {
	if !e.requireLogin(w) {
		return exitAuth
	}
	if !e.session.State().IsAdmin {
		fmt.Fprintln(w, "Error: this command requires an administrator account")
		return exitFailure
	}
	return exitOK
}

// withEnv runs fn with a fresh env, reporting setup failures.
func withEnv(ctx context.Context, w io.Writer, fn func(e *env) int) int {
	e, err := newEnv(ctx, false)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	defer e.Close()
	return fn(e)
}

// withSession is withEnv for commands that need a logged-in user.
func withSession(ctx context.Context, w io.Writer, fn func(e *env) int) int {
	return withEnv(ctx, w, func(e *env) int {
		if !e.requireLogin(w) {
			return exitAuth
		}
		return fn(e)
	})
}

// withAdmin is withEnv for commands restricted to administrators.
func withAdmin(ctx context.Context, w io.Writer, fn func(e *env) int) int {
	return withEnv(ctx, w, func(e *env) int {
		if code := e.requireAdmin(w); code != exitOK {
			return code
		}
		return fn(e)
	})
}
