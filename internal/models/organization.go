package models

import (
	"time"

	"gorm.io/gorm"
)

type Organization struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(200);not null" json:"name"`
	Location    string         `gorm:"type:varchar(100)" json:"location"`
	Description string         `gorm:"type:varchar(200)" json:"description"`
	Archived    bool           `gorm:"not null;default:false" json:"archived"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Employees []Employee `gorm:"foreignKey:OrganizationID" json:"employees,omitempty"`
	Surveys   []Survey   `gorm:"foreignKey:OrganizationID" json:"surveys,omitempty"`
}

// Status renders the archived flag the way admin listings show it.
func (o Organization) Status() string {
	if o.Archived {
		return "Archived"
	}
	return "Enabled"
}
