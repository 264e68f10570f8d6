package repository

import (
	"errors"

	"github.com/kendall-kelly/restaurant-ms/models"
	"gorm.io/gorm"
)

// Store groups the tables of the application
type Store struct {
	Users     *Table[models.User]
	Menus     *Table[models.Menu]
	Orders    *Table[models.Order]
	Bills     *Table[models.Bill]
	Feedbacks *Table[models.Feedback]
}

// NewStore builds a Store over db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		Users:     NewTable[models.User](db),
		Menus:     NewTable[models.Menu](db),
		Orders:    NewTable[models.Order](db),
		Bills:     NewTable[models.Bill](db),
		Feedbacks: NewTable[models.Feedback](db),
	}
}

// Migrate creates or updates every application table
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// IsDuplicateKey reports whether err is a unique constraint violation. The
// database must be opened with TranslateError so drivers map theirs to
// gorm.ErrDuplicatedKey.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
