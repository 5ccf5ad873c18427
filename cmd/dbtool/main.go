package main

import (
	"context"
	"database/sql"
	"log"
	"trip-route-service/internal/adapters/repositories"
	"trip-route-service/internal/config"
	"trip-route-service/internal/platform/db"

	"github.com/joho/godotenv"
)

// dbtool creates the schema and loads the seed itineraries without starting
// the server. It honours STORE, DB_PATH, DATABASE_URL and SEED_PATH.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	var (
		conn    *sql.DB
		dialect = repositories.Sqlite
		err     error
	)
	switch config.Get("STORE", config.StoreSqlite) {
	case config.StorePostgres:
		dialect = repositories.Postgres
		conn, err = db.Open(config.Get("DATABASE_URL", ""))
	default:
		conn, err = db.OpenSqlite(config.Get("DB_PATH", "data/app.db"))
	}
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/itineraries.json")
	if err := initAndSeed(context.Background(), conn, dialect, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, d repositories.Dialect, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn, d); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding database...")
	if err := repositories.SeedFromJSON(ctx, conn, d, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")

	return nil
}
