// Package cache implements the dataset load manager: it returns the
// authoritative record set as fast as possible while keeping the durable
// store eventually consistent.
//
// Load order: session memory cache, then the persisted copy (when its
// version fingerprint is acceptable), then a remote fetch. Persistence of a
// freshly fetched dataset happens in the background and never blocks the
// caller; the in-memory copy is authoritative for the session.
//
// The Manager is the store's only writer. It is constructed once at the
// composition root and passed to consumers; its memory cache is invalidated
// only by an explicit ForceRefresh call.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/quotelens/quotedb/internal/record"
	"github.com/quotelens/quotedb/internal/store"
)

// Manager decides freshness, fetches the remote dataset, populates the
// store, and maintains the in-session memory cache.
type Manager struct {
	fetcher Fetcher
	store   *store.Store // nil when durable storage is unavailable

	mu      sync.Mutex
	records []record.QuoteRecord // session memory cache; nil = not loaded

	// persisting tracks the background persistence goroutine so shutdown
	// and tests can wait for it.
	persisting sync.WaitGroup
}

// NewManager creates a Manager over the given store and fetcher.
//
// st may be nil: when the store cannot be opened the session runs
// memory-only and loses nothing but next-session durability.
func NewManager(st *store.Store, fetcher Fetcher) *Manager {
	return &Manager{
		fetcher: fetcher,
		store:   st,
	}
}

// Records returns the authoritative record set for this session.
//
// Resolution order:
//  1. The session memory cache, if already populated - no I/O.
//  2. The persisted copy, if non-empty and its stored version matches the
//     canonical fingerprint. When the canonical source is unreachable the
//     persisted copy is trusted outright rather than discarded.
//  3. A remote fetch. Fetch failure is terminal and surfaced; persistence
//     of fetched data happens in the background.
func (m *Manager) Records(ctx context.Context) ([]record.QuoteRecord, error) {
	m.mu.Lock()
	if m.records != nil {
		defer m.mu.Unlock()
		return m.records, nil
	}
	m.mu.Unlock()

	if records, ok := m.loadPersisted(ctx); ok {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.records == nil {
			m.records = records
		}
		return m.records, nil
	}

	return m.refresh(ctx)
}

// ForceRefresh discards the memory cache and fetches the dataset anew,
// regardless of persisted freshness. This is the only invalidation path.
func (m *Manager) ForceRefresh(ctx context.Context) ([]record.QuoteRecord, error) {
	m.mu.Lock()
	m.records = nil
	m.mu.Unlock()

	return m.refresh(ctx)
}

// Flush blocks until any in-flight background persistence has finished.
// Intended for shutdown paths and tests; interactive callers never need it
// because the memory copy is authoritative for the session.
func (m *Manager) Flush() {
	m.persisting.Wait()
}

// loadPersisted tries to satisfy the load from the durable store.
// Returns ok=false when the store is unavailable, empty, stale, or errors;
// store-read problems degrade to a refresh rather than failing the load.
func (m *Manager) loadPersisted(ctx context.Context) ([]record.QuoteRecord, bool) {
	if m.store == nil {
		return nil, false
	}

	count, err := m.store.Count(ctx)
	if err != nil {
		slog.Warn("record store unreadable, refreshing from source", "error", err)
		return nil, false
	}
	if count == 0 {
		return nil, false
	}

	meta, err := m.store.ReadMetadata(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrMetaNotFound) {
			slog.Warn("cache metadata unreadable, refreshing from source", "error", err)
		}
		return nil, false
	}

	remoteVersion, err := m.fetcher.FetchVersion(ctx)
	switch {
	case err != nil:
		// Canonical source unreachable: trust the persisted copy outright.
		slog.Warn("canonical version unreachable, serving persisted dataset", "storedVersion", meta.Version, "error", err)
	case remoteVersion != meta.Version:
		slog.Info("persisted dataset is stale", "storedVersion", meta.Version, "remoteVersion", remoteVersion)
		return nil, false
	}

	records, err := m.store.GetAll(ctx)
	if err != nil {
		slog.Warn("record store unreadable, refreshing from source", "error", err)
		return nil, false
	}
	if len(records) == 0 {
		return nil, false
	}

	slog.Debug("dataset served from persistent store", "records", len(records), "version", meta.Version)
	return records, true
}

// refresh fetches the dataset from the canonical source, caches it in
// memory, and kicks off background persistence.
//
// Fetch failure is terminal: it is surfaced to the caller with no internal
// retry. A persistence failure afterward is non-fatal - the fetched
// records stay usable from memory, only next-session durability is lost.
func (m *Manager) refresh(ctx context.Context) ([]record.QuoteRecord, error) {
	records, err := m.fetcher.FetchRecords(ctx)
	if err != nil {
		return nil, err
	}

	version := record.Fingerprint(records)

	m.mu.Lock()
	m.records = records
	m.mu.Unlock()

	if m.store != nil {
		meta := record.CacheMetadata{
			Version:     version,
			RecordCount: len(records),
			LastUpdated: time.Now().UTC(),
		}
		m.persisting.Add(1)
		go m.persist(records, meta)
	}

	slog.Info("dataset refreshed from source", "records", len(records), "version", version)
	return records, nil
}

// persist replaces the stored dataset and writes fresh metadata.
//
// Runs detached from the caller's context: the request that triggered the
// refresh must not be able to cancel durability mid-write. There is no
// ordering guarantee between this write and subsequent store reads;
// observing a still-empty store right after a successful fetch is expected
// and harmless.
func (m *Manager) persist(records []record.QuoteRecord, meta record.CacheMetadata) {
	defer m.persisting.Done()

	ctx := context.Background()
	if err := m.store.Replace(ctx, records); err != nil {
		slog.Warn("dataset persistence failed, next-session durability lost", "error", err)
		return
	}
	if err := m.store.WriteMetadata(ctx, meta); err != nil {
		slog.Warn("cache metadata write failed, next-session durability lost", "error", err)
		return
	}

	slog.Debug("dataset persisted", "records", meta.RecordCount, "version", meta.Version)
}
