package record

// BoundedRange is an inclusive numeric range with nullable open bounds.
// A nil bound is unbounded on that side.
type BoundedRange struct {
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// Contains reports whether v falls inside the range (inclusive).
func (r BoundedRange) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// IsOpen reports whether neither bound is set.
func (r BoundedRange) IsOpen() bool {
	return r.Min == nil && r.Max == nil
}

// FilterCriteria is the full set of user-selected predicates narrowing the
// record set. Predicates are independent and ANDed together.
//
// Keyword fields match case-insensitive substrings. Set-membership fields
// with an empty set match everything. Date bounds are inclusive YYYYMMDD
// strings; an empty bound is unbounded.
type FilterCriteria struct {
	ProjectKeyword string `json:"projectKeyword,omitempty" yaml:"project,omitempty"`
	ItemKeyword    string `json:"itemKeyword,omitempty" yaml:"item,omitempty"`
	VendorKeyword  string `json:"vendorKeyword,omitempty" yaml:"vendor,omitempty"`

	Regions    []string `json:"regions,omitempty" yaml:"regions,omitempty"`
	MajorCodes []string `json:"majorCodes,omitempty" yaml:"majorCodes,omitempty"`

	DateFrom string `json:"dateFrom,omitempty" yaml:"dateFrom,omitempty"`
	DateTo   string `json:"dateTo,omitempty" yaml:"dateTo,omitempty"`

	Floors           BoundedRange `json:"floors,omitempty" yaml:"floors,omitempty"`
	UnitRows         BoundedRange `json:"unitRows,omitempty" yaml:"unitRows,omitempty"`
	Units            BoundedRange `json:"units,omitempty" yaml:"units,omitempty"`
	ConstructionArea BoundedRange `json:"constructionArea,omitempty" yaml:"constructionArea,omitempty"`
	TotalFloorArea   BoundedRange `json:"totalFloorArea,omitempty" yaml:"totalFloorArea,omitempty"`
}

// IsEmpty reports whether every predicate is empty or unbounded.
// Filtering with empty criteria returns every input record.
func (c FilterCriteria) IsEmpty() bool {
	return c.ProjectKeyword == "" &&
		c.ItemKeyword == "" &&
		c.VendorKeyword == "" &&
		len(c.Regions) == 0 &&
		len(c.MajorCodes) == 0 &&
		c.DateFrom == "" &&
		c.DateTo == "" &&
		c.Floors.IsOpen() &&
		c.UnitRows.IsOpen() &&
		c.Units.IsOpen() &&
		c.ConstructionArea.IsOpen() &&
		c.TotalFloorArea.IsOpen()
}
