package record

import "fmt"

// zeroDate stands in for the latest order date when no record carries one.
const zeroDate = "00000000"

// Fingerprint derives the freshness version string for a dataset:
// "v<count>_<max order date>". It is a cheap change detector, not a content
// hash: it changes whenever the record count or the latest order date
// changes, and is stable under repeated computation on an unchanged dataset.
//
// Datasets with no dated records use "00000000" as the date component so the
// fingerprint stays well-formed.
func Fingerprint(records []QuoteRecord) string {
	maxDate := zeroDate
	for _, r := range records {
		if r.OrderDate != "" && r.OrderDate > maxDate {
			maxDate = r.OrderDate
		}
	}
	return fmt.Sprintf("v%d_%s", len(records), maxDate)
}
