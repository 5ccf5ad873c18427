package places

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
	"trip-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlacesResolverResolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/places/ChIJabc", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("X-Goog-Api-Key"))
		assert.Equal(t, "location", r.Header.Get("X-Goog-FieldMask"))
		w.Write([]byte(`{"location": {"latitude": 33.45, "longitude": -112.07}}`))
	}))
	defer server.Close()

	p, err := NewPlacesResolver("k", time.Second)
	require.NoError(t, err)
	p.client.BaseURL = server.URL

	got, err := p.Resolve(context.Background(), "ChIJabc")
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{Lat: 33.45, Lng: -112.07}, got)
}

func TestPlacesResolverNotFound(t *testing.T) {
	for name, handler := range map[string]http.HandlerFunc{
		"404": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
		"no location": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		},
	} {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(handler)
			defer server.Close()

			p, err := NewPlacesResolver("k", time.Second)
			require.NoError(t, err)
			p.client.BaseURL = server.URL

			_, err = p.Resolve(context.Background(), "gone")
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestPlaceDetailsResolverResolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/place/details/json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "ChIJabc", q.Get("place_id"))
		assert.Equal(t, "geometry", q.Get("fields"))
		assert.Equal(t, "k", q.Get("key"))
		w.Write([]byte(`{"status": "OK", "result": {"geometry": {"location": {"lat": 40.1, "lng": -75.2}}}}`))
	}))
	defer server.Close()

	p, err := NewPlaceDetailsResolver("k", time.Second)
	require.NoError(t, err)
	p.client.BaseURL = server.URL

	got, err := p.Resolve(context.Background(), "ChIJabc")
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{Lat: 40.1, Lng: -75.2}, got)
}

func TestPlaceDetailsResolverStatuses(t *testing.T) {
	tests := []struct {
		body     string
		notFound bool
	}{
		{`{"status": "NOT_FOUND"}`, true},
		{`{"status": "ZERO_RESULTS"}`, true},
		{`{"status": "OK", "result": {}}`, true},
		{`{"status": "OVER_QUERY_LIMIT", "error_message": "slow down"}`, false},
	}

	for _, tc := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(tc.body))
		}))

		p, err := NewPlaceDetailsResolver("k", time.Second)
		require.NoError(t, err)
		p.client.BaseURL = server.URL

		_, err = p.Resolve(context.Background(), "x")
		require.Error(t, err, tc.body)
		assert.Equal(t, tc.notFound, errors.Is(err, domain.ErrNotFound), tc.body)

		server.Close()
	}
}

type countingResolver struct {
	mu    sync.Mutex
	calls int
	c     domain.Coordinates
	err   error
}

func (r *countingResolver) Resolve(ctx context.Context, placeID string) (domain.Coordinates, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return r.c, r.err
}

type memPlaceCache struct {
	mu   sync.Mutex
	data map[string]domain.Coordinates
}

func (m *memPlaceCache) GetMany(ctx context.Context, ids []string) (map[string]domain.Coordinates, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]domain.Coordinates)
	for _, id := range ids {
		if c, ok := m.data[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (m *memPlaceCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, c := range results {
		m.data[id] = c
	}
	return nil
}

func TestCachedResolverStoresAndReuses(t *testing.T) {
	next := &countingResolver{c: domain.Coordinates{Lat: 1, Lng: 2}}
	cache := &memPlaceCache{data: make(map[string]domain.Coordinates)}
	r := NewCachedResolver(next, cache)

	for range 3 {
		got, err := r.Resolve(context.Background(), "p1")
		require.NoError(t, err)
		assert.Equal(t, domain.Coordinates{Lat: 1, Lng: 2}, got)
	}

	assert.Equal(t, 1, next.calls)
	assert.Contains(t, cache.data, "p1")
}

func TestCachedResolverDoesNotCacheFailures(t *testing.T) {
	next := &countingResolver{err: domain.ErrNotFound}
	cache := &memPlaceCache{data: make(map[string]domain.Coordinates)}
	r := NewCachedResolver(next, cache)

	for range 2 {
		_, err := r.Resolve(context.Background(), "p1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}

	assert.Equal(t, 2, next.calls)
	assert.Empty(t, cache.data)
}
