package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotelens/quotedb/internal/record"
)

// openTestStore opens a store in a fresh temp directory and closes it when
// the test finishes.
func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "quotes.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func makeTestRecords(n int) []record.QuoteRecord {
	records := make([]record.QuoteRecord, n)
	for i := range records {
		records[i] = record.QuoteRecord{
			Region:    "East",
			Project:   "Riverside Tower",
			MajorCode: "03",
			MinorCode: "03-100",
			Item:      "ready-mix concrete",
			Spec:      "25-24-150",
			Unit:      "m3",
			Quantity:  float64(10 + i),
			UnitPrice: float64(90000 + i),
			Vendor:    "Hanil Concrete",
			OrderDate: "20240115",
		}
	}
	return records
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	// Second open against the same file must succeed and keep the data.
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	count, err := s2.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestOpen_AppliesPragmas(t *testing.T) {
	s := openTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
}

func TestOpen_FailsFastOnUnusablePath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing-dir", "quotes.db"))
	assert.Error(t, err)
}

func TestBulkInsert_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	want := makeTestRecords(3)
	require.NoError(t, s.BulkInsert(ctx, want))

	got, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestBulkInsert_EmptyBatch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.BulkInsert(ctx, nil))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestGetAll_EmptyStoreReturnsEmptySlice(t *testing.T) {
	s := openTestStore(t)

	got, err := s.GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestClear_RemovesRecordsKeepsMeta(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.BulkInsert(ctx, makeTestRecords(2)))
	require.NoError(t, s.SetMeta(ctx, MetaDataVersion, "v2_20240115"))

	require.NoError(t, s.Clear(ctx))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	version, err := s.GetMeta(ctx, MetaDataVersion)
	require.NoError(t, err)
	assert.Equal(t, "v2_20240115", version)
}

func TestReplace_SwapsWholeDataset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.BulkInsert(ctx, makeTestRecords(5)))

	replacement := makeTestRecords(2)
	replacement[0].Vendor = "Daesung Materials"
	require.NoError(t, s.Replace(ctx, replacement))

	got, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Daesung Materials", got[0].Vendor)
}

func TestMeta_GetSetOverwrite(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.GetMeta(ctx, MetaDataVersion)
	assert.ErrorIs(t, err, ErrMetaNotFound)

	require.NoError(t, s.SetMeta(ctx, MetaDataVersion, "v10_20240115"))
	require.NoError(t, s.SetMeta(ctx, MetaDataVersion, "v11_20240201"))

	got, err := s.GetMeta(ctx, MetaDataVersion)
	require.NoError(t, err)
	assert.Equal(t, "v11_20240201", got)
}

func TestMetadata_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	want := record.CacheMetadata{
		Version:     "v10_20240115",
		RecordCount: 10,
		LastUpdated: time.Date(2024, 1, 20, 9, 30, 0, 0, time.UTC),
	}
	require.NoError(t, s.WriteMetadata(ctx, want))

	got, err := s.ReadMetadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadMetadata_NeverPersisted(t *testing.T) {
	s := openTestStore(t)

	_, err := s.ReadMetadata(context.Background())
	assert.ErrorIs(t, err, ErrMetaNotFound)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.db")
	ctx := context.Background()

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.BulkInsert(ctx, makeTestRecords(4)))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	count, err := s2.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count, "records survive a reopen")
}
