package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories sharing one database handle, so a caller can
// run work across several tables in a single transaction.
type Store struct {
	Attractions   AttractionRepository
	Categories    CategoryRepository
	MetroStations MetroStationRepository
	Users         UserRepository

	db *gorm.DB
}

// NewStore builds every repository on db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		Attractions:   NewAttractionRepository(db),
		Categories:    NewCategoryRepository(db),
		MetroStations: NewMetroStationRepository(db),
		Users:         NewUserRepository(db),
		db:            db,
	}
}

// WithTransaction executes fn with a Store bound to a single transaction.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewStore(tx))
	})
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
