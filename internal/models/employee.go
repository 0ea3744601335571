package models

import (
	"time"

	"gorm.io/gorm"
)

type Employee struct {
	ID   uint64 `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(200);not null" json:"name"`
	// Username is the employee's email address; unique across the
	// whole system, not just within the organization.
	Username       string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash   string         `gorm:"type:varchar(255);not null" json:"-"`
	Designation    string         `gorm:"type:varchar(100)" json:"designation"`
	Address        string         `gorm:"type:varchar(200)" json:"address"`
	OrganizationID uint64         `gorm:"not null;index" json:"organization_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Responses    []Response   `gorm:"foreignKey:EmployeeID" json:"-"`
}
