package database

import (
	"fmt"
	"log"
	"time"

	"github.com/gmpi-ec/gmpi-backend/config"
	"github.com/gmpi-ec/gmpi-backend/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage is the lifecycle contract every store implementation satisfies.
type Storage interface {
	Init() error
	Close() error
	HealthCheck() error
	GetDB() *gorm.DB
}

// GORMStore is the PostgreSQL-backed store.
type GORMStore struct {
	db *gorm.DB
}

// StartGORM opens the GORM connection to PostgreSQL.
func StartGORM() (*GORMStore, error) {
	getEnv, err := config.Get()
	if err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		getEnv.DB_HOST,
		getEnv.DB_USER_NAME,
		getEnv.DB_PASSWORD,
		getEnv.DB_NAME,
		getEnv.DB_PORT,
		getEnv.DB_SSL_MODE,
	)

	gormLogger := logger.Default.LogMode(logger.Info)
	if getEnv.GO_ENV == "production" {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: true,
	})
	if err != nil {
		log.Println("Unable to connect to PostgreSQL:", err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Successfully connected to PostgreSQL database.")

	return &GORMStore{db: db}, nil
}

// Init creates tables and indexes. AutoMigrate is idempotent, so running it
// on every process start is safe; it never drops or rewrites existing data.
func (s *GORMStore) Init() error {
	log.Println("Running migrations...")

	err := s.db.AutoMigrate(
		&model.User{},
		&model.Institution{},
		&model.Infrastructure{},
		&model.MaintenanceRecord{},
		&model.Attachment{},
		&model.SystemConfig{},
	)
	if err != nil {
		log.Println("Error running migrations:", err)
		return err
	}

	log.Println("Migrations completed.")
	return nil
}

// Close closes the database connection.
func (s *GORMStore) Close() error {
	log.Println("Closing PostgreSQL connection...")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the GORM handle for handlers and services.
func (s *GORMStore) GetDB() *gorm.DB {
	return s.db
}

// HealthCheck verifies the database connection is alive.
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
