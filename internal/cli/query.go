package cli

import (
	"context"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quotelens/quotedb/internal/config"
	"github.com/quotelens/quotedb/internal/engine"
	"github.com/quotelens/quotedb/internal/etl"
	"github.com/quotelens/quotedb/internal/record"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	criteriaFlags
	DatasetPath string
	Limit       int
	Inline      bool
}

// groupRow is one result row of the query command: the group summary
// without its member records.
type groupRow struct {
	Item     string  `json:"item"`
	Spec     string  `json:"spec"`
	Unit     string  `json:"unit"`
	Count    int     `json:"count"`
	MinPrice float64 `json:"minPrice"`
	AvgPrice float64 `json:"avgPrice"`
	MaxPrice float64 `json:"maxPrice"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Filter and group quote records",
		Long: `Filter the cached record set with the given predicates, group the
matches by (item, specification), and print per-group price statistics
ordered by descending match count.

Example:
  quotedb query --item rebar --region East
  quotedb query --criteria narrow.yaml --date-from 20230101 --format json
  quotedb query --dataset quotes.json.gz --vendor hanil`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, cmd)
		},
	}

	opts.criteriaFlags.register(cmd)
	cmd.Flags().StringVar(&opts.DatasetPath, "dataset", "", "query a local dataset file instead of the cached store")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum groups to print (0 = all)")
	cmd.Flags().BoolVar(&opts.Inline, "inline", false, "skip the filter worker and run inline")

	return cmd
}

func runQuery(opts *QueryOptions, cmd *cobra.Command) error {
	criteria, err := opts.criteriaFlags.build()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid criteria", err)
	}

	ctx := cmd.Context()

	records, _, cleanup, err := loadRecords(ctx, opts.RootOptions, opts.DatasetPath)
	if err != nil {
		return err
	}
	defer cleanup()

	groups := runFilter(ctx, records, criteria, opts.Inline)
	if opts.Limit > 0 && len(groups) > opts.Limit {
		groups = groups[:opts.Limit]
	}

	rows := make([]groupRow, len(groups))
	for i, g := range groups {
		rows[i] = groupRow{
			Item:     g.Item,
			Spec:     g.Spec,
			Unit:     g.Unit,
			Count:    g.Count(),
			MinPrice: g.MinPrice,
			AvgPrice: g.AvgPrice,
			MaxPrice: g.MaxPrice,
		}
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		return out.JSON(rows)
	}

	renderGroupRows(cmd.OutOrStdout(), rows)
	return nil
}

// runFilter executes one filter pass through the engine, honoring the
// inline override.
func runFilter(ctx context.Context, records []record.QuoteRecord, criteria record.FilterCriteria, inline bool) []record.ItemGroup {
	var engineOpts []engine.Option
	if inline {
		engineOpts = append(engineOpts, engine.WithInlineOnly())
	}

	eng := engine.New(ctx, engineOpts...)
	defer eng.Close()

	return eng.ApplyFilters(ctx, engine.BuildGroups(records), criteria)
}

// loadRecords produces the record set: a local dataset file when given,
// otherwise the cache manager's authoritative copy. The loaded config is
// returned alongside so commands can honor its tuning fields on both
// paths.
func loadRecords(ctx context.Context, rootOpts *RootOptions, datasetPath string) ([]record.QuoteRecord, config.Config, func(), error) {
	if datasetPath != "" {
		cfg, err := config.Load(rootOpts.ConfigPath)
		if err != nil {
			return nil, cfg, nil, WrapExitError(ExitCommandError, "failed to load config", err)
		}
		records, err := etl.ReadDataset(datasetPath)
		if err != nil {
			return nil, cfg, nil, WrapExitError(ExitCommandError, "failed to read dataset file", err)
		}
		return records, cfg, func() {}, nil
	}

	c, err := openCore(rootOpts)
	if err != nil {
		return nil, config.Config{}, nil, err
	}

	records, err := c.manager.Records(ctx)
	if err != nil {
		c.close()
		return nil, c.cfg, nil, WrapExitError(ExitFailure, "failed to load dataset", err)
	}
	return records, c.cfg, c.close, nil
}

// renderGroupRows prints the text table for query results.
func renderGroupRows(w io.Writer, rows []groupRow) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	defer tw.Flush()

	writeRow(tw, "ITEM", "SPEC", "UNIT", "COUNT", "MIN", "AVG", "MAX")
	for _, r := range rows {
		writeRow(tw,
			r.Item,
			r.Spec,
			r.Unit,
			itoa(r.Count),
			ftoa(r.MinPrice),
			ftoa(r.AvgPrice),
			ftoa(r.MaxPrice),
		)
	}
}
