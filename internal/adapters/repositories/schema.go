package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Dialect selects SQL syntax differences between the supported stores.
type Dialect string

const (
	Sqlite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// Rebind rewrites ? placeholders to $n for Postgres.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) realType() string {
	if d == Postgres {
		return "DOUBLE PRECISION"
	}
	return "REAL"
}

// Initialize the database schema for the given dialect.
func InitSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	floatType := d.realType()

	createItinerariesQuery := `
	CREATE TABLE IF NOT EXISTS itineraries (
		itinerary_id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		updated_at BIGINT NOT NULL
	);
	`

	createStopsQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS itinerary_stops (
		itinerary_id TEXT NOT NULL REFERENCES itineraries(itinerary_id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		place_id TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		lat %[1]s,
		lng %[1]s,
		PRIMARY KEY (itinerary_id, position)
	);
	`, floatType)

	createPlaceCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS place_cache (
        place_id TEXT PRIMARY KEY,
        lat %[1]s NOT NULL,
        lng %[1]s NOT NULL
    );
	`, floatType)

	createMatrixCacheQuery := `
	CREATE TABLE IF NOT EXISTS matrix_cache (
        mode TEXT NOT NULL,
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        duration_ms BIGINT NOT NULL,
        PRIMARY KEY (mode, origin, destination)
    );
	`

	statements := []string{
		createItinerariesQuery,
		createStopsQuery,
		createPlaceCacheQuery,
		createMatrixCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type LocationSeed struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type StopSeed struct {
	PlaceID  string        `json:"place_id"`
	Name     string        `json:"name"`
	Address  string        `json:"address"`
	Location *LocationSeed `json:"location"`
}

type ItinerarySeed struct {
	ItineraryID string     `json:"itinerary_id"`
	Name        string     `json:"name"`
	Items       []StopSeed `json:"items"`
}

// Populate the database with itineraries from a JSON file. Existing
// itineraries with the same id are replaced.
func SeedFromJSON(ctx context.Context, db *sql.DB, d Dialect, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed itineraries: read %q: %w", jsonPath, err)
	}

	var data []ItinerarySeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed itineraries: parse json: %w", err)
	}

	return Seed(ctx, db, d, data)
}

// Seed writes itineraries in one transaction.
func Seed(ctx context.Context, db *sql.DB, d Dialect, data []ItinerarySeed) error {
	for i, it := range data {
		if strings.TrimSpace(it.ItineraryID) == "" {
			return fmt.Errorf("seed itineraries: item at index %d: itinerary_id cannot be empty", i+1)
		}
		for j, s := range it.Items {
			if strings.TrimSpace(s.PlaceID) == "" {
				return fmt.Errorf("seed itineraries: %q item %d: place_id cannot be empty", it.ItineraryID, j+1)
			}
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed itineraries: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().Unix()
	for _, it := range data {
		id := strings.TrimSpace(it.ItineraryID)

		if _, err := tx.ExecContext(ctx, d.Rebind(`
		INSERT INTO itineraries (itinerary_id, name, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (itinerary_id) DO UPDATE
		SET name = EXCLUDED.name,
			updated_at = EXCLUDED.updated_at;
		`), id, it.Name, now); err != nil {
			return fmt.Errorf("seed itineraries: upsert itinerary_id=%q: %w", id, err)
		}

		if _, err := tx.ExecContext(ctx, d.Rebind(`DELETE FROM itinerary_stops WHERE itinerary_id = ?;`), id); err != nil {
			return fmt.Errorf("seed itineraries: clear stops itinerary_id=%q: %w", id, err)
		}

		for pos, s := range it.Items {
			var lat, lng sql.NullFloat64
			if s.Location != nil {
				lat = sql.NullFloat64{Float64: s.Location.Lat, Valid: true}
				lng = sql.NullFloat64{Float64: s.Location.Lng, Valid: true}
			}

			if _, err := tx.ExecContext(ctx, d.Rebind(`
			INSERT INTO itinerary_stops (itinerary_id, position, place_id, name, address, lat, lng)
			VALUES (?, ?, ?, ?, ?, ?, ?);
			`), id, pos, strings.TrimSpace(s.PlaceID), s.Name, s.Address, lat, lng); err != nil {
				return fmt.Errorf("seed itineraries: insert stop %d of %q: %w", pos, id, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed itineraries: commit tx: %w", err)
	}

	return nil
}
