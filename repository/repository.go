// Package repository is the data access layer: one generic table wrapper
// per model, all backed by the same GORM connection.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when no row matches an id or filter
var ErrNotFound = errors.New("record not found")

// Filter maps column names to the exact values a row must hold
type Filter map[string]interface{}

// Query describes a select over a single table
type Query struct {
	Filter  Filter
	OrderBy string
	Desc    bool
}

// Table provides select, insert, update and delete over the table of T
type Table[T any] struct {
	db *gorm.DB
}

// NewTable wraps db for the model type T
func NewTable[T any](db *gorm.DB) *Table[T] {
	return &Table[T]{db: db}
}

// Select returns every row matching q.Filter ordered by q.OrderBy.
// Rows that tie on the order column are ordered by id in the same direction.
func (t *Table[T]) Select(ctx context.Context, q Query) ([]T, error) {
	tx := t.db.WithContext(ctx).Model(new(T))
	if len(q.Filter) > 0 {
		tx = tx.Where(map[string]interface{}(q.Filter))
	}

	direction := "ASC"
	if q.Desc {
		direction = "DESC"
	}
	if q.OrderBy != "" {
		tx = tx.Order(fmt.Sprintf("%s %s", q.OrderBy, direction))
	}
	tx = tx.Order("id " + direction)

	rows := make([]T, 0)
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// First returns the first row matching filter, or ErrNotFound
func (t *Table[T]) First(ctx context.Context, filter Filter) (*T, error) {
	var row T
	err := t.db.WithContext(ctx).
		Where(map[string]interface{}(filter)).
		Order("id ASC").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByID returns the row with the given primary key, or ErrNotFound
func (t *Table[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	return t.First(ctx, Filter{"id": id})
}

// Insert creates row and fills in its generated columns
func (t *Table[T]) Insert(ctx context.Context, row *T) error {
	return t.db.WithContext(ctx).Create(row).Error
}

// UpdateByID applies fields to the row with the given id and returns the
// row as stored afterwards
func (t *Table[T]) UpdateByID(ctx context.Context, id uint, fields map[string]interface{}) (*T, error) {
	result := t.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Updates reports zero rows when the values were already equal on
		// some drivers, so confirm the row is really missing.
		if _, err := t.FindByID(ctx, id); err != nil {
			return nil, err
		}
	}
	return t.FindByID(ctx, id)
}

// DeleteByID removes the row with the given id
func (t *Table[T]) DeleteByID(ctx context.Context, id uint) error {
	result := t.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of rows matching filter
func (t *Table[T]) Count(ctx context.Context, filter Filter) (int64, error) {
	var count int64
	tx := t.db.WithContext(ctx).Model(new(T))
	if len(filter) > 0 {
		tx = tx.Where(map[string]interface{}(filter))
	}
	err := tx.Count(&count).Error
	return count, err
}
