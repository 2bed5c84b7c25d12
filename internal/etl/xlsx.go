package etl

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads the first sheet of an XLSX export and maps it to
// QuoteRecords. Semantics match ParseTSV: skipHeader drops the first row
// and invalid rows are counted, not fatal.
func ParseXLSX(r io.Reader, skipHeader bool) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Result{}, fmt.Errorf("xlsx has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Result{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	// excelize trims trailing empty cells per row; pad back to the fixed
	// column count so the row mapper sees a uniform shape.
	for i, row := range rows {
		for len(row) < columnCount {
			row = append(row, "")
		}
		rows[i] = row
	}

	return collectRows(rows, skipHeader), nil
}
