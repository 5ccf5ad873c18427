package cache

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"trip-route-service/internal/adapters/repositories"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/platform/db"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPostgresDB connects to DATABASE_URL and skips the test when it is unset.
func newPostgresDB(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	conn, err := db.Open(url)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, repositories.InitSchema(context.Background(), conn, repositories.Postgres))
	return conn
}

func TestSQLPlaceCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	conn := newPostgresDB(t)
	c := NewSQLPlaceCache(conn)

	p1, p2 := "test-"+uuid.NewString(), "test-"+uuid.NewString()
	t.Cleanup(func() {
		conn.Exec(`DELETE FROM place_cache WHERE place_id = ANY($1::text[])`, []string{p1, p2})
	})

	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{
		p1: {Lat: 33.1, Lng: -112.2},
		p2: {Lat: 34.5, Lng: -111.0},
	}))

	got, err := c.GetMany(ctx, []string{p1, p1, "missing-" + uuid.NewString(), " "})
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.Coordinates{p1: {Lat: 33.1, Lng: -112.2}}, got)

	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{p1: {Lat: 1, Lng: 2}}))
	got, err = c.GetMany(ctx, []string{p1, p2})
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{Lat: 1, Lng: 2}, got[p1])
	assert.Len(t, got, 2)
}

func TestSQLMatrixCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	conn := newPostgresDB(t)
	c := NewSQLMatrixCache(conn)

	origin := "test-" + uuid.NewString()
	t.Cleanup(func() {
		conn.Exec(`DELETE FROM matrix_cache WHERE origin = $1`, origin)
	})

	require.NoError(t, c.PutMany(ctx, domain.Walking, origin, map[string]int64{"d1": 1000, "d2": 2000}))
	require.NoError(t, c.PutMany(ctx, domain.Driving, origin, map[string]int64{"d1": 50}))

	got, err := c.GetMany(ctx, domain.Walking, origin, []string{"d1", "d2", "d3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"d1": 1000, "d2": 2000}, got)

	require.NoError(t, c.PutMany(ctx, domain.Driving, origin, map[string]int64{"d1": 75}))
	got, err = c.GetMany(ctx, domain.Driving, origin, []string{"d1", "d2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"d1": 75}, got)

	_, err = c.GetMany(ctx, domain.Driving, "", []string{"d1"})
	assert.Error(t, err)
}
