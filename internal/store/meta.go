package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/quotelens/quotedb/internal/record"
)

// Metadata keys used by the cache manager.
const (
	MetaDataVersion = "dataVersion"
	MetaRecordCount = "recordCount"
	MetaLastUpdated = "lastUpdated"
)

// ErrMetaNotFound is returned by GetMeta for a key that has never been set.
var ErrMetaNotFound = errors.New("meta key not found")

// GetMeta returns the value for a metadata key.
// Returns ErrMetaNotFound if the key has never been set.
func (s *Store) GetMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("meta %q: %w", key, ErrMetaNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get meta %q: %w", key, err)
	}
	return value, nil
}

// SetMeta writes a metadata key, overwriting any previous value.
func (s *Store) SetMeta(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set meta %q: %w", key, err)
	}
	return nil
}

// WriteMetadata stores a complete CacheMetadata under the well-known keys.
func (s *Store) WriteMetadata(ctx context.Context, meta record.CacheMetadata) error {
	if err := s.SetMeta(ctx, MetaDataVersion, meta.Version); err != nil {
		return err
	}
	if err := s.SetMeta(ctx, MetaRecordCount, strconv.Itoa(meta.RecordCount)); err != nil {
		return err
	}
	return s.SetMeta(ctx, MetaLastUpdated, meta.LastUpdated.UTC().Format(time.RFC3339))
}

// ReadMetadata reassembles CacheMetadata from the well-known keys.
// Returns ErrMetaNotFound (wrapped) if no snapshot has ever been persisted.
func (s *Store) ReadMetadata(ctx context.Context) (record.CacheMetadata, error) {
	var meta record.CacheMetadata

	version, err := s.GetMeta(ctx, MetaDataVersion)
	if err != nil {
		return meta, err
	}
	meta.Version = version

	countStr, err := s.GetMeta(ctx, MetaRecordCount)
	if err != nil {
		return meta, err
	}
	count, err := strconv.Atoi(countStr)
	if err != nil {
		return meta, fmt.Errorf("parse %s %q: %w", MetaRecordCount, countStr, err)
	}
	meta.RecordCount = count

	updatedStr, err := s.GetMeta(ctx, MetaLastUpdated)
	if err != nil {
		return meta, err
	}
	updated, err := time.Parse(time.RFC3339, updatedStr)
	if err != nil {
		return meta, fmt.Errorf("parse %s %q: %w", MetaLastUpdated, updatedStr, err)
	}
	meta.LastUpdated = updated

	return meta, nil
}
