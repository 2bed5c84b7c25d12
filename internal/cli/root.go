// Package cli implements the quotedb command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/quotelens/quotedb/internal/cache"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the quotedb CLI.
func NewRootCommand() *cobra.Command {
	cmd, _ := newRootCommand()
	return cmd
}

// Execute runs the CLI and returns the process exit code. Failures are
// rendered in the selected output format, so a json caller always reads a
// well-formed error envelope.
func Execute(ctx context.Context) int {
	cmd, opts := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		out := &OutputFormatter{
			Format:    opts.Format,
			Writer:    os.Stdout,
			ErrWriter: os.Stderr,
			Verbose:   opts.Verbose,
		}
		reportError(out, err)
		return GetExitCode(err)
	}
	return ExitSuccess
}

// reportError renders a command failure through the formatter's error
// envelope.
func reportError(out *OutputFormatter, err error) {
	var details interface{}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err != nil {
		details = exitErr.Err.Error()
	}
	_ = out.Error(errorCode(err), err.Error(), details)
}

// errorCode maps an error chain onto the envelope's machine code. Load
// failures keep their own codes; everything else reports by exit class.
func errorCode(err error) string {
	var loadErr *cache.LoadError
	if errors.As(err, &loadErr) {
		return string(loadErr.Code)
	}
	if GetExitCode(err) == ExitCommandError {
		return "COMMAND_ERROR"
	}
	return "FAILURE"
}

func newRootCommand() (*cobra.Command, *RootOptions) {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "quotedb",
		Short: "quotedb - vendor quote database",
		Long:  "Cache, query, and statistically analyze historical vendor-quote line items.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			configureLogging(opts.Verbose)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to quotedb.yaml")

	// Add subcommands
	cmd.AddCommand(NewRefreshCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewConvertCommand(opts))

	return cmd, opts
}

// configureLogging installs the default slog handler for the process.
func configureLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
