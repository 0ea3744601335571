package models

import (
	"time"

	"gorm.io/gorm"
)

// SurveyStatus is the tri-state completion indicator. The zero value is
// deliberately invalid; new surveys are created as SurveyNotStarted.
type SurveyStatus string

const (
	SurveyNotStarted SurveyStatus = "not_started"
	SurveyPending    SurveyStatus = "pending"
	SurveyCompleted  SurveyStatus = "completed"
)

// Display renders the status the way admin listings show it.
func (s SurveyStatus) Display() string {
	switch s {
	case SurveyCompleted:
		return "Completed"
	case SurveyPending:
		return "Pending"
	default:
		return "Not started"
	}
}

type Survey struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	Name           string         `gorm:"type:varchar(200);not null" json:"name"`
	Description    string         `gorm:"type:varchar(200)" json:"description"`
	StartDate      *time.Time     `gorm:"type:date" json:"start_date"`
	EndDate        *time.Time     `gorm:"type:date" json:"end_date"`
	Status         SurveyStatus   `gorm:"type:varchar(20);not null;default:'not_started'" json:"status"`
	OrganizationID uint64         `gorm:"not null;index" json:"organization_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Questions    []Question   `gorm:"many2many:survey_questions" json:"questions,omitempty"`
	Employees    []Employee   `gorm:"many2many:survey_assignments" json:"employees,omitempty"`
}
