package cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipJSON(t *testing.T, v any) []byte {
	t.Helper()

	raw, err := json.Marshal(v)
	require.NoError(t, err)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err = zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestFetchRecords_PlainJSON(t *testing.T) {
	dataset := makeDataset(3)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(dataset)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, "", 5*time.Second)
	records, err := f.FetchRecords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dataset, records)
}

func TestFetchRecords_GzipCompressed(t *testing.T) {
	dataset := makeDataset(2)
	payload := gzipJSON(t, dataset)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(payload)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, "", 5*time.Second)
	records, err := f.FetchRecords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dataset, records, "gzip payload is decompressed transparently")
}

func TestFetchRecords_EmptyDatasetIsDataUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, "", 5*time.Second)
	_, err := f.FetchRecords(context.Background())
	assert.True(t, IsDataUnavailable(err))
}

func TestFetchRecords_MalformedPayloadIsDataUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, "", 5*time.Second)
	_, err := f.FetchRecords(context.Background())
	assert.True(t, IsDataUnavailable(err))
}

func TestFetchRecords_ServerErrorIsTransientIO(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, "", 5*time.Second)
	_, err := f.FetchRecords(context.Background())
	assert.True(t, IsTransientIO(err))
}

func TestFetchVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("v10_20240115\n"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher("", srv.URL, 5*time.Second)
	version, err := f.FetchVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v10_20240115", version, "surrounding whitespace is trimmed")
}

func TestFetchVersion_NoEndpointConfigured(t *testing.T) {
	f := NewHTTPFetcher("http://example.invalid/data.json", "", 5*time.Second)
	_, err := f.FetchVersion(context.Background())
	assert.True(t, IsTransientIO(err), "missing version endpoint counts as unreachable source")
}
