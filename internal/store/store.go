// Package store persists plans, assumptions, IST totals and snapshots with GORM.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/iwvelando/liquidity-forecast/internal/config"
	apperrors "github.com/iwvelando/liquidity-forecast/internal/errors"
	"github.com/iwvelando/liquidity-forecast/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Store wraps a GORM handle. All methods scope their queries to the context.
type Store struct {
	db *gorm.DB
}

// New creates a store on an open database.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open connects to the configured database and migrates the schema.
func Open(cfg config.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.New(postgres.Config{DSN: cfg.DSN})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Info("Database ready",
		zap.String("op", "store.Open"),
		zap.String("driver", cfg.Driver),
	)
	return db, nil
}

// Migrate creates or updates all tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Transaction runs fn against a store bound to one database transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// notFound maps gorm.ErrRecordNotFound onto the given sentinel.
func notFound(err error, sentinel *apperrors.AppError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
