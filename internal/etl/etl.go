// Package etl converts spreadsheet exports of historical vendor quotes into
// the JSON dataset the dashboard's remote endpoint serves.
//
// Inputs are TSV (UTF-8 or EUC-KR, the encoding most legacy spreadsheet
// exports in the source data use) and XLSX. The pipeline is deliberately
// linear: decode, map rows to QuoteRecords, validate, write. Rows failing
// validation are skipped and counted, never repaired.
package etl

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/quotelens/quotedb/internal/record"
)

// columnCount is the fixed number of columns in an export row:
// region, project, major code, minor code, item, spec, unit, quantity,
// unit price, vendor, order date, floors, unit rows, units,
// construction area, total floor area.
const columnCount = 16

// Result summarizes one conversion pass.
type Result struct {
	Records []record.QuoteRecord
	Skipped int // rows dropped by validation
}

// rowToRecord maps one export row to a QuoteRecord.
// Numeric cells may carry thousands separators; dates may carry dashes.
func rowToRecord(cells []string) (record.QuoteRecord, error) {
	if len(cells) < columnCount {
		return record.QuoteRecord{}, fmt.Errorf("row has %d columns, want %d", len(cells), columnCount)
	}

	quantity, err := parseNumber(cells[7])
	if err != nil {
		return record.QuoteRecord{}, fmt.Errorf("quantity: %w", err)
	}
	unitPrice, err := parseNumber(cells[8])
	if err != nil {
		return record.QuoteRecord{}, fmt.Errorf("unit price: %w", err)
	}

	attrs := make([]float64, 5)
	for i, name := range []string{"floors", "unit rows", "units", "construction area", "total floor area"} {
		v, err := parseNumber(cells[11+i])
		if err != nil {
			return record.QuoteRecord{}, fmt.Errorf("%s: %w", name, err)
		}
		attrs[i] = v
	}

	r := record.QuoteRecord{
		Region:           strings.TrimSpace(cells[0]),
		Project:          strings.TrimSpace(cells[1]),
		MajorCode:        strings.TrimSpace(cells[2]),
		MinorCode:        strings.TrimSpace(cells[3]),
		Item:             strings.TrimSpace(cells[4]),
		Spec:             strings.TrimSpace(cells[5]),
		Unit:             strings.TrimSpace(cells[6]),
		Quantity:         quantity,
		UnitPrice:        unitPrice,
		Vendor:           strings.TrimSpace(cells[9]),
		OrderDate:        normalizeDate(cells[10]),
		Floors:           attrs[0],
		UnitRows:         attrs[1],
		Units:            attrs[2],
		ConstructionArea: attrs[3],
		TotalFloorArea:   attrs[4],
	}

	if err := r.Validate(); err != nil {
		return record.QuoteRecord{}, err
	}
	return r, nil
}

// parseNumber parses a numeric cell, tolerating thousands separators and
// surrounding whitespace. Empty cells parse to 0.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	return v, nil
}

// normalizeDate strips common date punctuation so "2024-01-15" and
// "2024.01.15" become "20240115". The result is validated downstream by
// QuoteRecord.Validate.
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("-", "", ".", "", "/", "").Replace(s)
	return s
}

// collectRows runs the shared row pipeline over pre-split cells.
func collectRows(rows [][]string, skipHeader bool) Result {
	var res Result
	for i, cells := range rows {
		if skipHeader && i == 0 {
			continue
		}
		if isBlankRow(cells) {
			continue
		}
		r, err := rowToRecord(cells)
		if err != nil {
			res.Skipped++
			continue
		}
		res.Records = append(res.Records, r)
	}
	return res
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// scannerWithLongLines returns a line scanner sized for wide export rows.
func scannerWithLongLines(r *bufio.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return sc
}
