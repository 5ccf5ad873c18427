package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"trip-route-service/internal/domain"
)

// SQL-backed implementation of the ItineraryRepository port for SQLite and Postgres.
type SQLItineraryRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLItineraryRepository(db *sql.DB, d Dialect) *SQLItineraryRepository {
	return &SQLItineraryRepository{DB: db, Dialect: d}
}

// Return every itinerary with its stop count, ordered by id.
func (s *SQLItineraryRepository) ListItineraries(ctx context.Context) ([]domain.ItinerarySummary, error) {
	if s.DB == nil {
		return nil, errors.New("itinerary repository: DB is nil")
	}

	query := `
	SELECT
		i.itinerary_id,
		i.name,
		i.updated_at,
		COUNT(st.position)
	FROM itineraries i
	LEFT JOIN itinerary_stops st ON st.itinerary_id = i.itinerary_id
	GROUP BY i.itinerary_id, i.name, i.updated_at
	ORDER BY i.itinerary_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list itineraries: query itineraries table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ItinerarySummary, 0, 16)
	for rows.Next() {
		var it domain.ItinerarySummary
		var updated int64
		if err := rows.Scan(&it.ItineraryID, &it.Name, &updated, &it.StopCount); err != nil {
			return nil, fmt.Errorf("list itineraries: scan row: %w", err)
		}
		it.UpdatedAt = time.Unix(updated, 0).UTC()
		out = append(out, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list itineraries: row iteration: %w", err)
	}

	return out, nil
}

// Return one itinerary with stops in display order.
func (s *SQLItineraryRepository) GetItinerary(ctx context.Context, itineraryID string) (*domain.Itinerary, error) {
	if s.DB == nil {
		return nil, errors.New("itinerary repository: DB is nil")
	}

	it := &domain.Itinerary{ItineraryID: itineraryID}

	var updated int64
	err := s.DB.QueryRowContext(ctx, s.Dialect.Rebind(`
	SELECT name, updated_at
	FROM itineraries
	WHERE itinerary_id = ?;
	`), itineraryID).Scan(&it.Name, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get itinerary %q: %w", itineraryID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get itinerary %q: query itineraries table: %w", itineraryID, err)
	}
	it.UpdatedAt = time.Unix(updated, 0).UTC()

	rows, err := s.DB.QueryContext(ctx, s.Dialect.Rebind(`
	SELECT
		place_id,
		name,
		address,
		lat,
		lng
	FROM itinerary_stops
	WHERE itinerary_id = ?
	ORDER BY position;
	`), itineraryID)
	if err != nil {
		return nil, fmt.Errorf("get itinerary %q: query stops: %w", itineraryID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var st domain.Stop
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&st.ID, &st.DisplayName, &st.DisplayAddress, &lat, &lng); err != nil {
			return nil, fmt.Errorf("get itinerary %q: scan stop: %w", itineraryID, err)
		}
		if lat.Valid && lng.Valid {
			st.Coordinate = &domain.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
		}
		it.Stops = append(it.Stops, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get itinerary %q: row iteration: %w", itineraryID, err)
	}

	return it, nil
}
