package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/quotelens/quotedb/internal/record"
)

// criteriaFlags collects the filter predicate flags shared by the query
// and stats commands.
type criteriaFlags struct {
	CriteriaFile string

	Project string
	Item    string
	Vendor  string

	Regions    []string
	MajorCodes []string

	DateFrom string
	DateTo   string

	FloorsMin, FloorsMax                     float64
	UnitRowsMin, UnitRowsMax                 float64
	UnitsMin, UnitsMax                       float64
	ConstructionAreaMin, ConstructionAreaMax float64
	TotalFloorAreaMin, TotalFloorAreaMax     float64
}

// register attaches the filter flags to cmd.
func (cf *criteriaFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()

	fl.StringVar(&cf.CriteriaFile, "criteria", "", "YAML file with filter criteria (flags override it)")

	fl.StringVar(&cf.Project, "project", "", "project name keyword (case-insensitive substring)")
	fl.StringVar(&cf.Item, "item", "", "item/spec keyword (case-insensitive substring)")
	fl.StringVar(&cf.Vendor, "vendor", "", "vendor keyword (case-insensitive substring)")

	fl.StringArrayVar(&cf.Regions, "region", nil, "region filter (repeatable; empty = all)")
	fl.StringArrayVar(&cf.MajorCodes, "major-code", nil, "major work-item code filter (repeatable; empty = all)")

	fl.StringVar(&cf.DateFrom, "date-from", "", "inclusive order-date lower bound (YYYYMMDD)")
	fl.StringVar(&cf.DateTo, "date-to", "", "inclusive order-date upper bound (YYYYMMDD)")

	fl.Float64Var(&cf.FloorsMin, "floors-min", -1, "minimum floor count")
	fl.Float64Var(&cf.FloorsMax, "floors-max", -1, "maximum floor count")
	fl.Float64Var(&cf.UnitRowsMin, "unit-rows-min", -1, "minimum unit-row count")
	fl.Float64Var(&cf.UnitRowsMax, "unit-rows-max", -1, "maximum unit-row count")
	fl.Float64Var(&cf.UnitsMin, "units-min", -1, "minimum residential-unit count")
	fl.Float64Var(&cf.UnitsMax, "units-max", -1, "maximum residential-unit count")
	fl.Float64Var(&cf.ConstructionAreaMin, "construction-area-min", -1, "minimum construction area")
	fl.Float64Var(&cf.ConstructionAreaMax, "construction-area-max", -1, "maximum construction area")
	fl.Float64Var(&cf.TotalFloorAreaMin, "total-area-min", -1, "minimum total floor area")
	fl.Float64Var(&cf.TotalFloorAreaMax, "total-area-max", -1, "maximum total floor area")
}

// build assembles the FilterCriteria: the YAML criteria file (if any) as
// the base, with any explicitly set flags layered on top.
func (cf *criteriaFlags) build() (record.FilterCriteria, error) {
	var criteria record.FilterCriteria

	if cf.CriteriaFile != "" {
		raw, err := os.ReadFile(cf.CriteriaFile)
		if err != nil {
			return criteria, fmt.Errorf("read criteria file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &criteria); err != nil {
			return criteria, fmt.Errorf("parse criteria file: %w", err)
		}
	}

	if cf.Project != "" {
		criteria.ProjectKeyword = cf.Project
	}
	if cf.Item != "" {
		criteria.ItemKeyword = cf.Item
	}
	if cf.Vendor != "" {
		criteria.VendorKeyword = cf.Vendor
	}
	if len(cf.Regions) > 0 {
		criteria.Regions = cf.Regions
	}
	if len(cf.MajorCodes) > 0 {
		criteria.MajorCodes = cf.MajorCodes
	}
	if cf.DateFrom != "" {
		criteria.DateFrom = cf.DateFrom
	}
	if cf.DateTo != "" {
		criteria.DateTo = cf.DateTo
	}

	applyBound(&criteria.Floors, cf.FloorsMin, cf.FloorsMax)
	applyBound(&criteria.UnitRows, cf.UnitRowsMin, cf.UnitRowsMax)
	applyBound(&criteria.Units, cf.UnitsMin, cf.UnitsMax)
	applyBound(&criteria.ConstructionArea, cf.ConstructionAreaMin, cf.ConstructionAreaMax)
	applyBound(&criteria.TotalFloorArea, cf.TotalFloorAreaMin, cf.TotalFloorAreaMax)

	if !record.ValidOrderDate(criteria.DateFrom) || !record.ValidOrderDate(criteria.DateTo) {
		return criteria, fmt.Errorf("date bounds must be YYYYMMDD, got from=%q to=%q", criteria.DateFrom, criteria.DateTo)
	}

	return criteria, nil
}

// applyBound maps the flag sentinel (-1 = unset) onto nullable bounds.
// Building attributes are non-negative, so -1 can never be a real bound.
func applyBound(r *record.BoundedRange, min, max float64) {
	if min >= 0 {
		v := min
		r.Min = &v
	}
	if max >= 0 {
		v := max
		r.Max = &v
	}
}
