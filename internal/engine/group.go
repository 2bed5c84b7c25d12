package engine

import (
	"sort"

	"github.com/quotelens/quotedb/internal/record"
	"github.com/quotelens/quotedb/internal/stats"
)

// BuildGroups buckets records by the composite (item, spec) key.
//
// Groups appear in first-seen order of their key. Within each group the
// member records are sorted ascending by order date (stable, so records
// sharing a date keep their input order; empty dates sort first). Price
// statistics are computed per group in a single pass.
//
// Pure function: the input slice is not mutated and the result shares no
// mutable state with it.
func BuildGroups(records []record.QuoteRecord) []record.ItemGroup {
	byKey := make(map[string]int, len(records))
	groups := make([]record.ItemGroup, 0)

	for _, r := range records {
		key := r.Item + "|" + r.Spec
		idx, ok := byKey[key]
		if !ok {
			idx = len(groups)
			byKey[key] = idx
			groups = append(groups, record.ItemGroup{
				Item: r.Item,
				Spec: r.Spec,
				Unit: r.Unit,
			})
		}
		groups[idx].Records = append(groups[idx].Records, r)
	}

	for i := range groups {
		sortByOrderDate(groups[i].Records)
		applyPriceStats(&groups[i])
	}

	return groups
}

// sortByOrderDate orders members ascending by order date. YYYYMMDD strings
// compare chronologically as plain strings; empty dates sort first.
func sortByOrderDate(records []record.QuoteRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].OrderDate < records[j].OrderDate
	})
}

// applyPriceStats recomputes the derived min/avg/max from the group members.
func applyPriceStats(g *record.ItemGroup) {
	prices := make([]float64, len(g.Records))
	for i, r := range g.Records {
		prices[i] = r.UnitPrice
	}
	summary := stats.PriceStats(prices)
	g.MinPrice = summary.Min
	g.MaxPrice = summary.Max
	g.AvgPrice = summary.Avg
}

// ApplyFilters narrows groups to the given criteria and recomputes their
// statistics. It is the engine's one pure entry point; both execution
// strategies run exactly this function.
//
// A candidate group survives only if:
//  1. no item keyword is given, OR its item/spec matches the keyword, AND
//  2. at least one member record matches the record-level predicates.
//
// Surviving groups keep only their matching members (still sorted by order
// date) with freshly computed price statistics. Groups left empty are
// dropped entirely rather than emitted empty.
//
// Results are ordered by descending count of matching records; ties keep
// input relative order (stable sort).
func ApplyFilters(groups []record.ItemGroup, criteria record.FilterCriteria) []record.ItemGroup {
	result := make([]record.ItemGroup, 0, len(groups))

	for _, g := range groups {
		if !matchGroupKeyword(g, criteria) {
			continue
		}

		matched := make([]record.QuoteRecord, 0, len(g.Records))
		for _, r := range g.Records {
			if MatchRecord(r, criteria) {
				matched = append(matched, r)
			}
		}
		if len(matched) == 0 {
			continue
		}

		filtered := record.ItemGroup{
			Item:    g.Item,
			Spec:    g.Spec,
			Unit:    g.Unit,
			Records: matched,
		}
		applyPriceStats(&filtered)
		result = append(result, filtered)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return len(result[i].Records) > len(result[j].Records)
	})

	return result
}
