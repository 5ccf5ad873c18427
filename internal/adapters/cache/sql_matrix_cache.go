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

// SQLMatrixCache is a Postgres-backed cache of origin->destination durations
// per travel mode. Keys are coordinate keys (domain.Coordinates.Key).
type SQLMatrixCache struct {
	DB *sql.DB
}

func NewSQLMatrixCache(db *sql.DB) *SQLMatrixCache {
	return &SQLMatrixCache{DB: db}
}

// Fetch cached durations for one origin and multiple destinations.
func (s *SQLMatrixCache) GetMany(
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

	q := `
	SELECT destination, duration_ms
    FROM matrix_cache
    WHERE mode = $1
        AND origin = $2
        AND destination = ANY($3::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, string(mode), origin, uniq)
	if err != nil {
		return nil, fmt.Errorf("get matrix cache: query matrix_cache table: %w", err)
	}
	defer rows.Close()

	return scanDurations(rows, len(uniq))
}

// Store many cached durations for a single origin.
func (s *SQLMatrixCache) PutMany(
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
	INSERT INTO matrix_cache (mode, origin, destination, duration_ms)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (mode, origin, destination) DO UPDATE
	SET duration_ms = EXCLUDED.duration_ms;
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

func scanDurations(rows *sql.Rows, size int) (map[string]int64, error) {
	out := make(map[string]int64, size)
	for rows.Next() {
		var dest string
		var ms int64
		if err := rows.Scan(&dest, &ms); err != nil {
			return nil, fmt.Errorf("get matrix cache: scan rows: %w", err)
		}
		out[dest] = ms
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get matrix cache: row iteration: %w", err)
	}
	return out, nil
}
