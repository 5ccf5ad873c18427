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

// SQLPlaceCache is a Postgres-backed cache mapping place ids to coordinates.
type SQLPlaceCache struct {
	DB *sql.DB
}

func NewSQLPlaceCache(db *sql.DB) *SQLPlaceCache {
	return &SQLPlaceCache{DB: db}
}

// Fetch cached coordinates for the given place ids.
func (s *SQLPlaceCache) GetMany(
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

	q := `
	SELECT place_id, lat, lng
    FROM place_cache
    WHERE place_id = ANY($1::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq)
	if err != nil {
		return nil, fmt.Errorf("get place cache: query place_cache table: %w", err)
	}
	defer rows.Close()

	return scanPlaces(rows, len(uniq))
}

// Store place id -> coordinate mappings in the cache.
func (s *SQLPlaceCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) error {
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
	INSERT INTO place_cache (place_id, lat, lng)
    VALUES ($1, $2, $3)
	ON CONFLICT (place_id) DO UPDATE
	SET lat = EXCLUDED.lat,
		lng = EXCLUDED.lng;
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

// uniqueKeys trims, drops empties and deduplicates while keeping order.
func uniqueKeys(keys []string) []string {
	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}

		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	return uniq
}

func scanPlaces(rows *sql.Rows, size int) (map[string]domain.Coordinates, error) {
	out := make(map[string]domain.Coordinates, size)
	for rows.Next() {
		var id string
		var lat, lng float64
		if err := rows.Scan(&id, &lat, &lng); err != nil {
			return nil, fmt.Errorf("get place cache: scan rows: %w", err)
		}
		out[id] = domain.Coordinates{Lat: lat, Lng: lng}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get place cache: row iteration: %w", err)
	}
	return out, nil
}
