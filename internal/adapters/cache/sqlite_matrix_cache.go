package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/platform/obs"
)

// SQLite backed cache of origin->destination durations per travel mode.
// Keys are expected to be coordinate keys produced by the caller.
type SqliteMatrixCache struct {
	DB *sql.DB
}

func NewSqliteMatrixCache(db *sql.DB) *SqliteMatrixCache {
	return &SqliteMatrixCache{DB: db}
}

// Fetch cached durations for one origin and multiple destinations.
func (s *SqliteMatrixCache) GetMany(
	ctx context.Context,
	mode domain.TravelMode,
	origin string,
	destinations []string,
) (_ map[string]int64, err error) {
	defer obs.Time(ctx, "matrix.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("matrix cache: db is nil")
	}

	if origin == "" {
		return nil, errors.New("get matrix cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]int64{}, nil
	}

	args := make([]any, 0, 2+len(uniq))
	args = append(args, string(mode), origin)
	for _, d := range uniq {
		args = append(args, d)
	}

	q := fmt.Sprintf(`
	SELECT
        destination,
        duration_ms
    FROM matrix_cache
    WHERE mode = ?
        AND origin = ?
        AND destination IN (%s);
	`, placeholders(len(uniq)))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get matrix cache: query matrix_cache table: %w", err)
	}
	defer rows.Close()

	return scanDurations(rows, len(uniq))
}

// Store many cached durations for a single origin.
func (s *SqliteMatrixCache) PutMany(
	ctx context.Context,
	mode domain.TravelMode,
	origin string,
	durations map[string]int64,
) error {
	if s.DB == nil {
		return errors.New("matrix cache: db is nil")
	}

	if origin == "" {
		return errors.New("insert matrix cache: origin must not be empty")
	}

	if len(durations) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert matrix cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO matrix_cache (
        mode,
        origin,
        destination,
        duration_ms
    )
    VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("insert matrix cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for dest, ms := range durations {
		if strings.TrimSpace(dest) == "" {
			return fmt.Errorf("insert matrix cache: empty destination key")
		}

		if _, err := stmt.ExecContext(ctx, string(mode), origin, dest, ms); err != nil {
			return fmt.Errorf("insert matrix cache dest=%q: %w", dest, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert matrix cache commit: %w", err)
	}

	return nil
}
