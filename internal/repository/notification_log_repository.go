package repository

import (
	"github.com/surveyhq/survey-management-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormNotificationLogRepository is a GORM implementation of NotificationLogRepository
type GormNotificationLogRepository struct {
	db *gorm.DB
}

// NewNotificationLogRepository creates a new NotificationLogRepository
func NewNotificationLogRepository(db *gorm.DB) NotificationLogRepository {
	return &GormNotificationLogRepository{db: db}
}

// AlreadySent reports whether the reminder was logged for the day
func (r *GormNotificationLogRepository) AlreadySent(surveyID, employeeID uint64, kind models.NotificationKind, sentOn string) (bool, error) {
	var count int64
	err := r.db.Model(&models.NotificationLog{}).
		Where("survey_id = ? AND employee_id = ? AND kind = ? AND sent_on = ?",
			surveyID, employeeID, kind, sentOn).
		Count(&count).Error
	return count > 0, err
}

// Record logs a sent reminder; duplicate records are ignored
func (r *GormNotificationLogRepository) Record(entry *models.NotificationLog) error {
	return r.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(entry).Error
}
