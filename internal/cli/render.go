package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// writeRow writes one tab-separated row.
func writeRow(w io.Writer, cols ...string) {
	fmt.Fprintln(w, strings.Join(cols, "\t"))
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// ftoa renders a price or attribute value without trailing zeros.
func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
