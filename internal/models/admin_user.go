package models

import (
	"time"

	"gorm.io/gorm"
)

// AdminUser is an administrative console account. Superusers see every
// organization; everyone else is confined to their own.
type AdminUser struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	Username       string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash   string         `gorm:"type:varchar(255);not null" json:"-"`
	Superuser      bool           `gorm:"not null;default:false" json:"superuser"`
	OrganizationID *uint64        `json:"organization_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}
