// Command seed populates the configured storage backend with demo
// donors, recipients and donations.
package main

import (
	"context"
	"flag"
	"log"

	"foodsaver/internal/config"
	"foodsaver/internal/seed"
	"foodsaver/internal/storage"
)

func main() {
	donors := flag.Int("donors", 6, "number of donor accounts to create")
	recipients := flag.Int("recipients", 4, "number of recipient accounts to create")
	donations := flag.Int("donations", 60, "number of donations to create")
	maxDays := flag.Int("max-days", 150, "spread created_at over the past N days")
	seedVal := flag.Int64("seed", 0, "random seed (0 uses the current time)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var store storage.Store
	switch cfg.StorageBackend {
	case config.BackendRedis:
		client := storage.NewRedisClient(cfg.RedisURL)
		if client == nil {
			log.Fatalf("Redis connection failed for %q", cfg.RedisURL)
		}
		defer client.Close()
		store = storage.NewRedisStore(client, "foodsaver:")
	case config.BackendGorm:
		db, err := storage.OpenDB(cfg.DatabaseDSN)
		if err != nil {
			log.Fatalf("Database connection failed: %v", err)
		}
		store, err = storage.NewGormStore(db)
		if err != nil {
			log.Fatalf("Database migration failed: %v", err)
		}
	default:
		log.Fatalf("Seeding the %q backend is pointless: data would vanish with this process. Set STORAGE_BACKEND to redis or gorm.", cfg.StorageBackend)
	}

	seeder := seed.New(store, seed.Options{
		Donors:     *donors,
		Recipients: *recipients,
		Donations:  *donations,
		MaxDays:    *maxDays,
		Seed:       *seedVal,
	})

	res, err := seeder.Run(context.Background())
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d users and %d donations (%d claimed) into the %s backend",
		res.Users, res.Donations, res.Claimed, cfg.StorageBackend)
}
