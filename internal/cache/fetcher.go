package cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quotelens/quotedb/internal/record"
)

// Fetcher is the canonical dataset source.
//
// FetchVersion returns the source's current freshness fingerprint cheaply,
// without downloading the dataset. FetchRecords downloads and decodes the
// full dataset. Tests inject fakes; production uses HTTPFetcher.
type Fetcher interface {
	FetchVersion(ctx context.Context) (string, error)
	FetchRecords(ctx context.Context) ([]record.QuoteRecord, error)
}

// HTTPFetcher fetches the dataset over HTTP GET.
//
// The dataset endpoint returns a JSON array of QuoteRecords, optionally
// gzip-compressed; compression is detected by magic bytes and decompressed
// transparently before parsing. The version endpoint returns the current
// fingerprint as a small plain-text body.
type HTTPFetcher struct {
	client     *http.Client
	datasetURL string
	versionURL string
}

// NewHTTPFetcher creates a fetcher for the given endpoints.
// versionURL may be empty, in which case FetchVersion always reports the
// canonical source unreachable (version checks are skipped).
func NewHTTPFetcher(datasetURL, versionURL string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client:     &http.Client{Timeout: timeout},
		datasetURL: datasetURL,
		versionURL: versionURL,
	}
}

// FetchVersion GETs the canonical fingerprint.
func (f *HTTPFetcher) FetchVersion(ctx context.Context) (string, error) {
	if f.versionURL == "" {
		return "", NewTransientIOError("no version endpoint configured", nil)
	}

	body, err := f.get(ctx, f.versionURL)
	if err != nil {
		return "", err
	}

	version := strings.TrimSpace(string(body))
	if version == "" {
		return "", NewDataUnavailableError("version endpoint returned empty body", nil)
	}
	return version, nil
}

// FetchRecords GETs and decodes the full dataset.
//
// Returns DataUnavailable if the payload is malformed or the array is
// empty, TransientIO for network-level failures.
func (f *HTTPFetcher) FetchRecords(ctx context.Context) ([]record.QuoteRecord, error) {
	body, err := f.get(ctx, f.datasetURL)
	if err != nil {
		return nil, err
	}

	// Transparent gzip: sniff the magic bytes rather than trusting headers,
	// since .json.gz files are often served as application/octet-stream.
	if isGzip(body) {
		zr, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, NewDataUnavailableError("dataset gzip header invalid", err)
		}
		defer zr.Close()

		body, err = io.ReadAll(zr)
		if err != nil {
			return nil, NewDataUnavailableError("dataset gzip stream truncated", err)
		}
	}

	var records []record.QuoteRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, NewDataUnavailableError("dataset is not a JSON record array", err)
	}
	if len(records) == 0 {
		return nil, NewDataUnavailableError("remote dataset is empty", nil)
	}

	return records, nil
}

// get performs one HTTP GET and returns the raw body.
func (f *HTTPFetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewTransientIOError(fmt.Sprintf("build request for %s", url), err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, NewTransientIOError(fmt.Sprintf("GET %s", url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, NewTransientIOError(fmt.Sprintf("GET %s: status %d", url, resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewTransientIOError(fmt.Sprintf("read body of %s", url), err)
	}

	return body, nil
}

// isGzip reports whether data starts with the gzip magic bytes.
func isGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}
