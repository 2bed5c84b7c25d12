// Package store provides SQLite-backed durable storage for the quote
// dataset cache, surviving sessions on the same machine.
//
// Two logical collections back the cache:
//   - records: identity-keyed QuoteRecords with secondary indexes on
//     region, vendor, item, major code, order date, and the composite
//     (item, spec) grouping key
//   - meta:    key/value freshness metadata (dataVersion, recordCount,
//     lastUpdated)
//
// # Write discipline
//
// The store has exactly one writer: the cache manager. The dataset is
// replaced wholesale (Clear + BulkInsert inside one transaction), never
// patched row by row, so readers observe either the previous snapshot or
// the complete new one - no partial batch is ever visible.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
//
// Open failure (storage path unusable, SQLite unavailable) fails fast; the
// cache manager falls back to a memory-only record set for the session.
package store
