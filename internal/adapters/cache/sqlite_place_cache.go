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

// SQLite backed cache mapping place ids to geographic coordinates.
type SqlitePlaceCache struct {
	DB *sql.DB
}

func NewSqlitePlaceCache(db *sql.DB) *SqlitePlaceCache {
	return &SqlitePlaceCache{DB: db}
}

// Fetch cached coordinates for the given place ids.
func (s *SqlitePlaceCache) GetMany(
	ctx context.Context,
	placeIDs []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "place.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("place cache: db is nil")
	}

	uniq := uniqueKeys(placeIDs)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	args := make([]any, 0, len(uniq))
	for _, id := range uniq {
		args = append(args, id)
	}

	// SQLite does not support binding slices directly in an IN (...) clause.
	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := fmt.Sprintf(`
	SELECT
        place_id,
        lat,
        lng
    FROM place_cache
    WHERE place_id IN (%s);
	`, placeholders(len(uniq)))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get place cache: query place_cache table: %w", err)
	}
	defer rows.Close()

	return scanPlaces(rows, len(uniq))
}

// Store place id -> coordinate mappings in the cache.
func (s *SqlitePlaceCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("place cache: db is nil")
	}

	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert place cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO place_cache (
        place_id,
        lat,
        lng
    )
    VALUES (?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("insert place cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for id, c := range results {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("insert place cache: empty place id key")
		}

		if _, err := stmt.ExecContext(ctx, id, c.Lat, c.Lng); err != nil {
			return fmt.Errorf("insert place cache place_id=%q: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert place cache commit: %w", err)
	}

	return nil
}

func placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = "?"
	}
	return strings.Join(ph, ",")
}
