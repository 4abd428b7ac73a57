// Package store owns persistence: schema migration, seed data, and the
// transaction boundary every ledger operation runs inside.
package store

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/edificio-dev/edificio/internal/model"
)

// Sentinel errors surfaced by lookups and reference-data rules.
var (
	ErrNotFound          = errors.New("store: not found")
	ErrDuplicate         = errors.New("store: already exists")
	ErrProtectedCategory = errors.New("store: category is protected")
	ErrCategoryInUse     = errors.New("store: category has movements")
)

// Store wraps the database handle. All ledger mutations go through
// WithTx so each logical operation commits or rolls back as a unit.
type Store struct {
	db  *gorm.DB
	log *logrus.Logger
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string, log *logrus.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	return &Store{db: db, log: log}, nil
}

// DB exposes the raw handle for read-only queries outside a transaction.
func (s *Store) DB() *gorm.DB { return s.db }

// Migrate creates or updates the schema for all entities.
func (s *Store) Migrate() error {
	err := s.db.AutoMigrate(
		&model.Account{},
		&model.Category{},
		&model.Unit{},
		&model.Contact{},
		&model.Counterparty{},
		&model.Movement{},
		&model.Parameter{},
		&model.Equipment{},
		&model.MaintenanceRecord{},
	)
	if err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// WithTx runs fn inside one database transaction. Any returned error
// rolls back every mutation fn made.
func (s *Store) WithTx(fn func(tx *gorm.DB) error) error {
	return s.db.Transaction(fn)
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// notFound maps gorm's record-not-found onto the store sentinel.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
