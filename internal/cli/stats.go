package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quotelens/quotedb/internal/config"
	"github.com/quotelens/quotedb/internal/record"
	"github.com/quotelens/quotedb/internal/stats"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	criteriaFlags
	DatasetPath string
	Buckets     int
	Against     string
	Inline      bool
}

// attributeNames are the building attributes a correlation can run against.
var attributeNames = []string{"floors", "unit-rows", "units", "construction-area", "total-area"}

// statsSummary is the stats command payload.
type statsSummary struct {
	Count       int                `json:"count"`
	Prices      stats.PriceSummary `json:"prices"`
	Median      float64            `json:"median"`
	Buckets     []stats.Bucket     `json:"buckets"`
	Correlation *correlationResult `json:"correlation,omitempty"`
}

type correlationResult struct {
	Against     string  `json:"against"`
	Coefficient float64 `json:"coefficient"`
	OK          bool    `json:"ok"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Price statistics over matching records",
		Long: `Filter the cached record set with the given predicates and compute
price statistics over every matching record: min/avg/max, the median,
and a histogram of unit prices. With --against, also the Pearson
correlation between unit price and a building attribute.

Example:
  quotedb stats --item rebar
  quotedb stats --region East --buckets 12
  quotedb stats --item concrete --against floors`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, cmd)
		},
	}

	opts.criteriaFlags.register(cmd)
	cmd.Flags().StringVar(&opts.DatasetPath, "dataset", "", "compute over a local dataset file instead of the cached store")
	cmd.Flags().IntVar(&opts.Buckets, "buckets", 0, "histogram bucket count (0 = config default)")
	cmd.Flags().StringVar(&opts.Against, "against", "", fmt.Sprintf("building attribute to correlate unit price with %v", attributeNames))
	cmd.Flags().BoolVar(&opts.Inline, "inline", false, "skip the filter worker and run inline")

	return cmd
}

func runStats(opts *StatsOptions, cmd *cobra.Command) error {
	criteria, err := opts.criteriaFlags.build()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid criteria", err)
	}

	if opts.Against != "" {
		if _, err := attributeValue(record.QuoteRecord{}, opts.Against); err != nil {
			return WrapExitError(ExitCommandError, "invalid --against attribute", err)
		}
	}

	ctx := cmd.Context()

	records, cfg, cleanup, err := loadRecords(ctx, opts.RootOptions, opts.DatasetPath)
	if err != nil {
		return err
	}
	defer cleanup()

	buckets := opts.Buckets
	if buckets <= 0 {
		buckets = cfg.BucketCount
	}
	if buckets <= 0 {
		buckets = config.DefaultBucketCount
	}

	matched := flattenGroups(runFilter(ctx, records, criteria, opts.Inline))

	prices := make([]float64, len(matched))
	for i, r := range matched {
		prices[i] = r.UnitPrice
	}

	summary := statsSummary{
		Count:   len(matched),
		Prices:  stats.PriceStats(prices),
		Median:  stats.Median(prices),
		Buckets: stats.ValueRanges(prices, buckets),
	}

	if opts.Against != "" {
		attrs := make([]float64, len(matched))
		for i, r := range matched {
			attrs[i], _ = attributeValue(r, opts.Against)
		}
		r, ok := stats.Correlation(prices, attrs)
		summary.Correlation = &correlationResult{Against: opts.Against, Coefficient: r, OK: ok}
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		return out.JSON(summary)
	}

	renderStats(out, summary)
	return nil
}

// flattenGroups collects the member records of every group.
func flattenGroups(groups []record.ItemGroup) []record.QuoteRecord {
	var records []record.QuoteRecord
	for _, g := range groups {
		records = append(records, g.Records...)
	}
	return records
}

// attributeValue resolves a building attribute by its flag name.
func attributeValue(r record.QuoteRecord, name string) (float64, error) {
	switch name {
	case "floors":
		return r.Floors, nil
	case "unit-rows":
		return r.UnitRows, nil
	case "units":
		return r.Units, nil
	case "construction-area":
		return r.ConstructionArea, nil
	case "total-area":
		return r.TotalFloorArea, nil
	default:
		return 0, fmt.Errorf("unknown attribute %q: must be one of %v", name, attributeNames)
	}
}

func renderStats(out *OutputFormatter, s statsSummary) {
	out.Printf("records: %d\n", s.Count)
	out.Printf("min: %s  avg: %s  max: %s  median: %s\n",
		ftoa(s.Prices.Min), ftoa(s.Prices.Avg), ftoa(s.Prices.Max), ftoa(s.Median))

	if len(s.Buckets) > 0 {
		out.Printf("\nprice distribution:\n")
		for _, b := range s.Buckets {
			out.Printf("  %-20s %d\n", b.Label, b.Count)
		}
	}

	if s.Correlation != nil {
		if s.Correlation.OK {
			out.Printf("\ncorrelation (price vs %s): %.4f\n", s.Correlation.Against, s.Correlation.Coefficient)
		} else {
			out.Printf("\ncorrelation (price vs %s): undefined\n", s.Correlation.Against)
		}
	}
}
