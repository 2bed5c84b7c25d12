package etl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// Encoding names the supported TSV input encodings.
type Encoding string

const (
	EncodingUTF8  Encoding = "utf8"
	EncodingEUCKR Encoding = "euckr"
)

// ParseEncoding validates an encoding flag value.
func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(strings.ToLower(s)) {
	case EncodingUTF8:
		return EncodingUTF8, nil
	case EncodingEUCKR:
		return EncodingEUCKR, nil
	default:
		return "", fmt.Errorf("unknown encoding %q (supported: utf8, euckr)", s)
	}
}

// ParseTSV reads a tab-separated export and maps it to QuoteRecords.
// skipHeader drops the first line. Rows failing validation are counted in
// Result.Skipped rather than aborting the conversion.
func ParseTSV(r io.Reader, enc Encoding, skipHeader bool) (Result, error) {
	if enc == EncodingEUCKR {
		r = transform.NewReader(r, korean.EUCKR.NewDecoder())
	}

	sc := scannerWithLongLines(bufio.NewReader(r))

	var rows [][]string
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		rows = append(rows, strings.Split(line, "\t"))
	}
	if err := sc.Err(); err != nil {
		return Result{}, fmt.Errorf("read tsv: %w", err)
	}

	return collectRows(rows, skipHeader), nil
}
