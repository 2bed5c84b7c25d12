package etl

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/quotelens/quotedb/internal/record"
)

// WriteDataset writes records as a JSON array to path. Paths ending in .gz
// are gzip-compressed; the cache fetcher decompresses transparently on the
// way back in.
func WriteDataset(path string, records []record.QuoteRecord) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}

	if strings.HasSuffix(path, ".gz") {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(raw); err != nil {
			return fmt.Errorf("compress dataset: %w", err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("compress dataset: %w", err)
		}
		raw = buf.Bytes()
	}

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write dataset %s: %w", path, err)
	}
	return nil
}

// ReadDataset loads a local dataset file written by WriteDataset.
// Compression is detected by magic bytes, not the file name.
func ReadDataset(path string) ([]record.QuoteRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	if len(raw) >= 2 && raw[0] == 0x1f && raw[1] == 0x8b {
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("decompress dataset %s: %w", path, err)
		}
		defer zr.Close()
		raw, err = io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("decompress dataset %s: %w", path, err)
		}
	}

	var records []record.QuoteRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}
	return records, nil
}
