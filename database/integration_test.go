package database

import (
	"os"
	"testing"

	"github.com/gmpi-ec/gmpi-backend/model"
)

// These tests need a running Postgres configured through the usual DB_*
// environment variables. They are skipped unless explicitly enabled.
func integrationStore(t *testing.T) *GORMStore {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("set RUN_INTEGRATION_TESTS=true to run database integration tests")
	}

	store, err := StartGORM()
	if err != nil {
		t.Fatalf("StartGORM: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestHealthCheck(t *testing.T) {
	store := integrationStore(t)

	if err := store.HealthCheck(); err != nil {
		t.Errorf("HealthCheck: %v", err)
	}
}

func TestSeedAllIsIdempotent(t *testing.T) {
	store := integrationStore(t)
	seeder := NewSeeder(store.GetDB())

	if err := seeder.SeedAll(); err != nil {
		t.Fatalf("first SeedAll: %v", err)
	}

	var before int64
	if err := store.GetDB().Model(&model.Institution{}).Count(&before).Error; err != nil {
		t.Fatalf("count: %v", err)
	}

	if err := seeder.SeedAll(); err != nil {
		t.Fatalf("second SeedAll: %v", err)
	}

	var after int64
	if err := store.GetDB().Model(&model.Institution{}).Count(&after).Error; err != nil {
		t.Fatalf("count: %v", err)
	}

	if before != after {
		t.Errorf("seeding ran twice: %d -> %d institutions", before, after)
	}
}
