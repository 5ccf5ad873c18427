package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
	"trip-route-service/internal/adapters/cache"
	"trip-route-service/internal/adapters/distance"
	"trip-route-service/internal/adapters/places"
	"trip-route-service/internal/adapters/repositories"
	"trip-route-service/internal/api"
	"trip-route-service/internal/config"
	"trip-route-service/internal/platform/db"
	"trip-route-service/internal/ports"
	"trip-route-service/internal/services"

	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (SQL store, Google/ORS, caches) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	conn, dialect, err := openStore(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(ctx, conn, dialect, cfg.SeedPath); err != nil {
		log.Fatal(err)
	}

	resolver, err := newResolver(ctx, cfg, conn, dialect)
	if err != nil {
		log.Fatal(err)
	}

	provider, err := newMatrixProvider(cfg, conn, dialect)
	if err != nil {
		log.Fatal(err)
	}

	repo := repositories.NewSQLItineraryRepository(conn, dialect)
	planner := services.NewRoutePlanner(resolver, provider)
	sessions := services.NewSessionRegistry(planner, cfg.SessionIdleTTL)
	go sessions.RunJanitor(ctx, time.Minute)
	router := api.NewRouter(repo, planner, sessions)

	// Timeouts are tuned for cold-cache route planning (external API latency).
	log.Printf("Server listening addr=:%s store=%s matrix=%s", cfg.Port, cfg.Store, cfg.MatrixProvider)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openStore(cfg config.Config) (*sql.DB, repositories.Dialect, error) {
	if cfg.Store == config.StorePostgres {
		conn, err := db.Open(cfg.DatabaseURL)
		return conn, repositories.Postgres, err
	}
	conn, err := db.OpenSqlite(cfg.DBPath)
	return conn, repositories.Sqlite, err
}

func initAndSeed(ctx context.Context, conn *sql.DB, d repositories.Dialect, seedPath string) error {
	if err := repositories.InitSchema(ctx, conn, d); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if _, err := os.Stat(seedPath); errors.Is(err, os.ErrNotExist) {
		log.Printf("seed file not found, skipping path=%s", seedPath)
		return nil
	}

	if err := repositories.SeedFromJSON(ctx, conn, d, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

// newResolver builds Places (New) with the legacy details lookup as fallback,
// behind Redis when REDIS_ADDR is set and the SQL place cache otherwise.
func newResolver(ctx context.Context, cfg config.Config, conn *sql.DB, d repositories.Dialect) (ports.PlaceResolver, error) {
	primary, err := places.NewPlacesResolver(cfg.GoogleMapsKey, cfg.HTTPTimeout)
	if err != nil {
		return nil, err
	}
	legacy, err := places.NewPlaceDetailsResolver(cfg.GoogleMapsKey, cfg.HTTPTimeout)
	if err != nil {
		return nil, err
	}

	var placeCache ports.PlaceCache
	switch {
	case cfg.RedisAddr != "":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect redis %q: %w", cfg.RedisAddr, err)
		}
		placeCache = cache.NewRedisPlaceCache(rdb, 30*24*time.Hour)
	case d == repositories.Postgres:
		placeCache = cache.NewSQLPlaceCache(conn)
	default:
		placeCache = cache.NewSqlitePlaceCache(conn)
	}

	return places.NewCachedResolver(services.NewCoordinateResolver(primary, legacy), placeCache), nil
}

func newMatrixProvider(cfg config.Config, conn *sql.DB, d repositories.Dialect) (ports.TravelMatrixProvider, error) {
	var (
		next ports.TravelMatrixProvider
		err  error
	)
	switch cfg.MatrixProvider {
	case config.ProviderORS:
		next, err = distance.NewORSMatrixProvider(cfg.ORSKey, cfg.HTTPTimeout)
	default:
		next, err = distance.NewGoogleMatrixProvider(cfg.GoogleMapsKey, cfg.HTTPTimeout)
	}
	if err != nil {
		return nil, err
	}

	var matrixCache ports.MatrixCache = cache.NewSqliteMatrixCache(conn)
	if d == repositories.Postgres {
		matrixCache = cache.NewSQLMatrixCache(conn)
	}

	return distance.NewCachedMatrixProvider(next, matrixCache), nil
}
