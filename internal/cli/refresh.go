package cli

import (
	"github.com/spf13/cobra"

	"github.com/quotelens/quotedb/internal/record"
)

// RefreshOptions holds flags for the refresh command.
type RefreshOptions struct {
	*RootOptions
	Force bool
}

// refreshSummary is the refresh command's output payload.
type refreshSummary struct {
	Records int    `json:"records"`
	Version string `json:"version"`
	Forced  bool   `json:"forced"`
}

// NewRefreshCommand creates the refresh command.
func NewRefreshCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RefreshOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Load the dataset and warm the local cache",
		Long: `Load the authoritative record set, fetching from the remote dataset
endpoint when the local cache is empty or stale, and persist it for the
next session.

Example:
  quotedb refresh --config quotedb.yaml
  quotedb refresh --config quotedb.yaml --force`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefresh(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "discard cached data and refetch unconditionally")

	return cmd
}

func runRefresh(opts *RefreshOptions, cmd *cobra.Command) error {
	c, err := openCore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer c.close()

	ctx := cmd.Context()

	var records []record.QuoteRecord
	if opts.Force {
		records, err = c.manager.ForceRefresh(ctx)
	} else {
		records, err = c.manager.Records(ctx)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load dataset", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	summary := refreshSummary{
		Records: len(records),
		Version: record.Fingerprint(records),
		Forced:  opts.Force,
	}
	if opts.Format == "json" {
		return out.JSON(summary)
	}

	out.Printf("dataset ready: %d records (version %s)\n", summary.Records, summary.Version)
	return nil
}
