package database

import (
	"errors"
	"fmt"
	"time"

	"mosquefund/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Manager owns the two connection pools of the service.
type Manager struct {
	db         *gorm.DB
	elevated   *gorm.DB
	migrateURL string
}

// NewManager opens the restricted pool and, when configured, a separate elevated pool.
func NewManager(config *Config) (*Manager, error) {
	db, err := open(config.DSN(config.Restricted), 100)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	elevated := db
	if config.SeparateElevated() {
		elevated, err = open(config.DSN(config.Elevated), 10)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database with service credentials: %w", err)
		}
	}

	return &Manager{
		db:         db,
		elevated:   elevated,
		migrateURL: config.URL(config.Elevated),
	}, nil
}

func open(dsn string, maxOpen int) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // Required for Supabase Supavisor; harmless for direct connections
	}), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// RunMigrations applies pending SQL migrations from source (e.g. "file://migrations")
// using the elevated login.
func (m *Manager) RunMigrations(source string) error {
	logger.Get().Info("Running database migrations...")

	mig, err := migrate.New(source, m.migrateURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil {
			logger.Get().Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnf("migrate database close error: %v", dbErr)
		}
	}()

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Get().Info("Database migrations completed successfully")
	return nil
}

// DB returns the restricted GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// ElevatedDB returns the GORM instance that bypasses row-level policy.
func (m *Manager) ElevatedDB() *gorm.DB {
	return m.elevated
}

// Ping checks both pools are reachable.
func (m *Manager) Ping() error {
	for _, db := range []*gorm.DB{m.db, m.elevated} {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Ping(); err != nil {
			return err
		}
	}
	return nil
}

// Close releases both pools.
func (m *Manager) Close() error {
	var errs []error
	for _, db := range uniq(m.db, m.elevated) {
		sqlDB, err := db.DB()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		errs = append(errs, sqlDB.Close())
	}
	return errors.Join(errs...)
}

func uniq(dbs ...*gorm.DB) []*gorm.DB {
	out := make([]*gorm.DB, 0, len(dbs))
	for _, db := range dbs {
		dup := false
		for _, o := range out {
			if o == db {
				dup = true
			}
		}
		if !dup {
			out = append(out, db)
		}
	}
	return out
}
