// Package catalog persists location records. Every entry is written to two
// related tables in one transaction: the locations row (with an embedded
// JSON activity map for display) and one activity_scores row per activity.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/adalundhe/trailhead/core/database"
	"github.com/adalundhe/trailhead/core/errors"
	"github.com/adalundhe/trailhead/core/schema"
)

type Store struct {
	pool *database.Pool
}

func NewStore(pool *database.Pool) *Store {
	return &Store{pool: pool}
}

// ListNames returns all location names, ascending. This is also the source
// for the known-location set; callers re-fetch it before each research or
// suggestion attempt rather than caching it.
func (s *Store) ListNames(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, "SELECT DISTINCT name FROM locations ORDER BY name ASC")
	if err != nil {
		return nil, errors.Wrap(errors.KindStore, "list names", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(errors.KindStore, "list names", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.KindStore, "list names", err)
	}
	return names, nil
}

// ListAll returns every stored record ordered by name ascending.
func (s *Store) ListAll(ctx context.Context) ([]schema.LocationRecord, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, name, latitude, longitude, description, activities FROM locations ORDER BY name ASC")
	if err != nil {
		return nil, errors.Wrap(errors.KindStore, "list all", err)
	}
	defer rows.Close()

	var records []schema.LocationRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.KindStore, "list all", err)
	}
	return records, nil
}

// GetByName fetches one record by name. Comparison is case-insensitive and
// trimmed. Returns a not-found error for absent names.
func (s *Store) GetByName(ctx context.Context, name string) (*schema.LocationRecord, error) {
	name = schema.NormalizeName(name)
	row := s.pool.QueryRow(ctx,
		"SELECT id, name, latitude, longitude, description, activities FROM locations WHERE name = ? COLLATE NOCASE",
		name)

	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, errors.Newf(errors.KindNotFound, "get", "no record for %q", name)
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// GetByID fetches one record by its store identity.
func (s *Store) GetByID(ctx context.Context, id int64) (*schema.LocationRecord, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT id, name, latitude, longitude, description, activities FROM locations WHERE id = ?", id)

	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, errors.Newf(errors.KindNotFound, "get", "no record with id %d", id)
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Insert persists a validated record and returns its assigned identity. The
// base row and every activity-score row commit in one transaction; any
// failure rolls back the whole record.
func (s *Store) Insert(ctx context.Context, record *schema.LocationRecord) (int64, error) {
	activitiesJSON, err := json.Marshal(record.Activities)
	if err != nil {
		return 0, errors.Wrap(errors.KindStore, "insert", err)
	}

	var id int64
	err = s.pool.Transaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO locations (name, latitude, longitude, description, activities) VALUES (?, ?, ?, ?, ?)",
			schema.NormalizeName(record.Name),
			record.Latitude,
			record.Longitude,
			record.Description,
			string(activitiesJSON),
		)
		if err != nil {
			return fmt.Errorf("base row: %w", err)
		}

		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("base row id: %w", err)
		}

		for activity, score := range record.Activities {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO activity_scores (location_id, activity_type, score) VALUES (?, ?, ?)",
				id, activity, score,
			); err != nil {
				return fmt.Errorf("score row %q: %w", activity, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(errors.KindStore, "insert", err)
	}
	return id, nil
}

// Update rewrites a record in place by id. The base row and the full
// replacement set of score rows commit in one transaction.
func (s *Store) Update(ctx context.Context, id int64, record *schema.LocationRecord) error {
	activitiesJSON, err := json.Marshal(record.Activities)
	if err != nil {
		return errors.Wrap(errors.KindStore, "update", err)
	}

	return s.pool.Transaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE locations SET name = ?, latitude = ?, longitude = ?, description = ?, activities = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
			schema.NormalizeName(record.Name),
			record.Latitude,
			record.Longitude,
			record.Description,
			string(activitiesJSON),
			id,
		)
		if err != nil {
			return errors.Wrap(errors.KindStore, "update", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(errors.KindStore, "update", err)
		}
		if affected == 0 {
			return errors.Newf(errors.KindNotFound, "update", "no record with id %d", id)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM activity_scores WHERE location_id = ?", id); err != nil {
			return errors.Wrap(errors.KindStore, "update", err)
		}
		for activity, score := range record.Activities {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO activity_scores (location_id, activity_type, score) VALUES (?, ?, ?)",
				id, activity, score,
			); err != nil {
				return errors.Wrap(errors.KindStore, "update",
					fmt.Errorf("score row %q: %w", activity, err))
			}
		}
		return nil
	})
}

// DeleteByID removes a record (and, by cascade, its score rows) by its
// store identity.
func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	res, err := s.pool.Exec(ctx, "DELETE FROM locations WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(errors.KindStore, "delete", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(errors.KindStore, "delete", err)
	}
	if affected == 0 {
		return errors.Newf(errors.KindNotFound, "delete", "no record with id %d", id)
	}
	return nil
}

// Delete removes a record (and, by cascade, its score rows) by name.
// Returns a not-found error if no row matched.
func (s *Store) Delete(ctx context.Context, name string) error {
	name = schema.NormalizeName(name)
	res, err := s.pool.Exec(ctx, "DELETE FROM locations WHERE name = ? COLLATE NOCASE", name)
	if err != nil {
		return errors.Wrap(errors.KindStore, "delete", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(errors.KindStore, "delete", err)
	}
	if affected == 0 {
		return errors.Newf(errors.KindNotFound, "delete", "no record for %q", name)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*schema.LocationRecord, error) {
	var (
		record         schema.LocationRecord
		description    sql.NullString
		activitiesJSON sql.NullString
	)
	err := row.Scan(&record.ID, &record.Name, &record.Latitude, &record.Longitude, &description, &activitiesJSON)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrap(errors.KindStore, "scan", err)
	}

	record.Description = description.String
	raw := activitiesJSON.String
	if raw == "" {
		raw = "{}"
	}
	if err := json.Unmarshal([]byte(raw), &record.Activities); err != nil {
		return nil, errors.Wrap(errors.KindStore, "scan activities", err)
	}
	return &record, nil
}
