package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"logref/internal/logging"
	"logref/internal/version"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitSetup   = 2
)

var rootCmd = &cobra.Command{
	Use:   "logref",
	Short: "Assign stable reference IDs to log statements",
	Long: `logref scans Rust sources for configured logging macros and gives every
log statement a unique, stable reference ID. Without --check it inserts the
missing IDs in place; with --check it only reports them.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		quiet, _ := cmd.Flags().GetBool("quiet")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		logging.Setup(logging.Options{Verbose: verbose, Quiet: quiet, JSON: jsonLogs})
	},
	RunE: runRoot,
}

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func setupError(err error) error { return &exitError{code: exitSetup, err: err} }
func failureError(err error) error { return &exitError{code: exitFailure, err: err} }

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitSetup
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to logref.yaml|yml|toml (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "log errors only")
	rootCmd.PersistentFlags().Bool("verbose", false, "log debug details to stderr")
	rootCmd.PersistentFlags().Bool("log-json", false, "write log lines as JSON")

	rootCmd.Flags().Bool("check", false, "report missing references without editing files")
	rootCmd.Flags().Int("jobs", 0, "number of files processed in parallel (0 = GOMAXPROCS)")
	rootCmd.Flags().String("format", "pretty", "report format (pretty|json|short)")
	rootCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	rootCmd.Flags().Bool("timings", false, "show phase timings")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logref: %v\n", err)
	}
	os.Exit(exitCode(err))
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func useColor(cmd *cobra.Command) (bool, error) {
	flag, err := cmd.Flags().GetString("color")
	if err != nil {
		return false, err
	}
	switch flag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(os.Stdout) && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", flag)
	}
}
