package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quotelens/quotedb/internal/etl"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	Output     string
	Encoding   string
	SkipHeader bool
}

// convertSummary reports what a conversion produced.
type convertSummary struct {
	Input   string `json:"input"`
	Output  string `json:"output"`
	Records int    `json:"records"`
	Skipped int    `json:"skipped"`
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert a TSV or XLSX export into a dataset file",
		Long: `Parse a tab-separated or Excel export of quote line items and write
it as a JSON dataset, gzip-compressed when the output path ends in .gz.
The input format is chosen by extension: .xlsx is parsed as Excel,
everything else as TSV.

Example:
  quotedb convert quotes.txt -o quotes.json.gz
  quotedb convert legacy.txt -o quotes.json --encoding euckr
  quotedb convert quotes.xlsx -o quotes.json.gz`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "dataset file to write (required)")
	cmd.Flags().StringVar(&opts.Encoding, "encoding", "utf8", "TSV input encoding (utf8|euckr)")
	cmd.Flags().BoolVar(&opts.SkipHeader, "skip-header", true, "treat the first row as a header")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runConvert(opts *ConvertOptions, cmd *cobra.Command, input string) error {
	enc, err := etl.ParseEncoding(opts.Encoding)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid encoding", err)
	}

	f, err := os.Open(input)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open input file", err)
	}
	defer f.Close()

	var result etl.Result
	if strings.EqualFold(filepath.Ext(input), ".xlsx") {
		result, err = etl.ParseXLSX(f, opts.SkipHeader)
	} else {
		result, err = etl.ParseTSV(f, enc, opts.SkipHeader)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "failed to parse input", err)
	}

	if len(result.Records) == 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("no valid records in %s (%d rows skipped)", input, result.Skipped))
	}

	if err := etl.WriteDataset(opts.Output, result.Records); err != nil {
		return WrapExitError(ExitFailure, "failed to write dataset", err)
	}

	summary := convertSummary{
		Input:   input,
		Output:  opts.Output,
		Records: len(result.Records),
		Skipped: result.Skipped,
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		return out.JSON(summary)
	}

	out.Printf("wrote %d records to %s (%d rows skipped)\n", summary.Records, summary.Output, summary.Skipped)
	return nil
}
