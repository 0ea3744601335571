package database

import (
	"gorm.io/gorm"

	"github.com/surveyhq/survey-management-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// OnDay matches rows whose date column falls on the given calendar day
// (YYYY-MM-DD). DATE() keeps the comparison a whole-day one on both
// mysql and sqlite, where the column may carry a time part.
func OnDay(column, day string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("DATE("+column+") = ?", day)
	}
}

// BeforeDay matches rows whose date column falls strictly before the
// given calendar day.
func BeforeDay(column, day string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("DATE("+column+") < ?", day)
	}
}
