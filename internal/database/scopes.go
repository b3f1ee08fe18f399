package database

import (
	"gorm.io/gorm"
)

// Paginate applies offset pagination to a GORM query
func Paginate(offset, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(offset).Limit(limit)
	}
}

// TopLevel restricts a thread query to threads without a parent
func TopLevel(db *gorm.DB) *gorm.DB {
	return db.Where("parent_id IS NULL")
}

// OldestFirst orders preloaded collections in insertion order
func OldestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}
