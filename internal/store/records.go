package store

import (
	"context"
	"fmt"

	"github.com/quotelens/quotedb/internal/record"
)

// BulkInsert inserts a batch of records inside a single transaction.
// All-or-nothing with respect to readers: either every record in the batch
// becomes visible or none does. An empty batch commits trivially.
func (s *Store) BulkInsert(ctx context.Context, records []record.QuoteRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("bulk insert: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records
		(region, project, major_code, minor_code, item, spec, unit,
		 quantity, unit_price, vendor, order_date,
		 floors, unit_rows, units, construction_area, total_floor_area)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("bulk insert: prepare: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		_, err := stmt.ExecContext(ctx,
			r.Region,
			r.Project,
			r.MajorCode,
			r.MinorCode,
			r.Item,
			r.Spec,
			r.Unit,
			r.Quantity,
			r.UnitPrice,
			r.Vendor,
			r.OrderDate,
			r.Floors,
			r.UnitRows,
			r.Units,
			r.ConstructionArea,
			r.TotalFloorArea,
		)
		if err != nil {
			return fmt.Errorf("bulk insert: record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("bulk insert: commit: %w", err)
	}

	return nil
}

// GetAll returns every stored record in insertion order.
// Returns an empty slice (not nil) for an empty store.
func (s *Store) GetAll(ctx context.Context) ([]record.QuoteRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT region, project, major_code, minor_code, item, spec, unit,
		       quantity, unit_price, vendor, order_date,
		       floors, unit_rows, units, construction_area, total_floor_area
		FROM records
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []record.QuoteRecord
	for rows.Next() {
		var r record.QuoteRecord
		err := rows.Scan(
			&r.Region,
			&r.Project,
			&r.MajorCode,
			&r.MinorCode,
			&r.Item,
			&r.Spec,
			&r.Unit,
			&r.Quantity,
			&r.UnitPrice,
			&r.Vendor,
			&r.OrderDate,
			&r.Floors,
			&r.UnitRows,
			&r.Units,
			&r.ConstructionArea,
			&r.TotalFloorArea,
		)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	// Return empty slice instead of nil
	if records == nil {
		records = []record.QuoteRecord{}
	}

	return records, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

// Clear removes every stored record. Metadata is left untouched; the cache
// manager overwrites it after the replacement batch lands.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	return nil
}

// Replace atomically swaps the full dataset: Clear plus BulkInsert inside
// one transaction. Readers observe either the old snapshot or the complete
// new one, never a mix.
func (s *Store) Replace(ctx context.Context, records []record.QuoteRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace records: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("replace records: clear: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records
		(region, project, major_code, minor_code, item, spec, unit,
		 quantity, unit_price, vendor, order_date,
		 floors, unit_rows, units, construction_area, total_floor_area)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("replace records: prepare: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		_, err := stmt.ExecContext(ctx,
			r.Region,
			r.Project,
			r.MajorCode,
			r.MinorCode,
			r.Item,
			r.Spec,
			r.Unit,
			r.Quantity,
			r.UnitPrice,
			r.Vendor,
			r.OrderDate,
			r.Floors,
			r.UnitRows,
			r.Units,
			r.ConstructionArea,
			r.TotalFloorArea,
		)
		if err != nil {
			return fmt.Errorf("replace records: record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace records: commit: %w", err)
	}

	return nil
}
