package database

import (
	"log"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iganosaigo/saigo.info-backend/config"
)

// Open connects to the configured database, migrates the schema and makes
// sure the fixed roles exist.
func Open(cfg config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.PostgresDSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, errors.Errorf("unknown database driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Printf("Connected to %s database", cfg.DBDriver)
	return db, nil
}

// Migrate creates the tables and seeds the role registry. Roles are not
// managed through the API, their ids are fixed.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Role{}, &Account{}, &Post{}, &Tag{}); err != nil {
		return errors.Wrap(err, "migrating schema")
	}

	roles := []Role{
		{ID: 1, Name: "admin"},
		{ID: 2, Name: "user"},
	}
	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&roles).Error
	if err != nil {
		return errors.Wrap(err, "seeding roles")
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting database handle: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}

// ErrNotFound is returned by store operations that require an existing row.
var ErrNotFound = errors.New("record not found")

// Store bundles all typed database operations. One store is shared by every
// request; it holds no state besides the connection pool.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}
