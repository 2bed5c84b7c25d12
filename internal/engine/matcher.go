package engine

import (
	"strings"

	"github.com/quotelens/quotedb/internal/record"
)

// MatchRecord reports whether a record satisfies every record-level
// predicate in the criteria. Predicates are ANDed; empty predicates match.
//
// The item keyword is deliberately NOT checked here - it gates whole groups
// (see matchGroupKeyword), not individual records.
//
// Pure function: same record and criteria always yield the same result.
func MatchRecord(r record.QuoteRecord, c record.FilterCriteria) bool {
	if !containsFold(r.Project, c.ProjectKeyword) {
		return false
	}
	if !memberOf(r.Region, c.Regions) {
		return false
	}
	if !memberOf(r.MajorCode, c.MajorCodes) {
		return false
	}
	if !containsFold(r.Vendor, c.VendorKeyword) {
		return false
	}
	if !dateInRange(r.OrderDate, c.DateFrom, c.DateTo) {
		return false
	}
	if !c.Floors.Contains(r.Floors) {
		return false
	}
	if !c.UnitRows.Contains(r.UnitRows) {
		return false
	}
	if !c.Units.Contains(r.Units) {
		return false
	}
	if !c.ConstructionArea.Contains(r.ConstructionArea) {
		return false
	}
	if !c.TotalFloorArea.Contains(r.TotalFloorArea) {
		return false
	}
	return true
}

// matchGroupKeyword applies the group-level item keyword gate: with no
// keyword every group passes; otherwise the group's item or spec must
// contain the keyword (case-insensitive).
func matchGroupKeyword(g record.ItemGroup, c record.FilterCriteria) bool {
	if c.ItemKeyword == "" {
		return true
	}
	return containsFold(g.Item, c.ItemKeyword) || containsFold(g.Spec, c.ItemKeyword)
}

// containsFold is a case-insensitive substring match.
// An empty needle matches everything.
func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// memberOf checks categorical set membership. An empty set matches all.
func memberOf(value string, set []string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}

// dateInRange checks the inclusive YYYYMMDD string range. Empty bounds are
// unbounded. Records without an order date only match an unbounded range:
// an empty date cannot satisfy an explicit lower bound.
func dateInRange(date, from, to string) bool {
	if from == "" && to == "" {
		return true
	}
	if date == "" {
		return false
	}
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}
