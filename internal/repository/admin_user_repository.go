package repository

import (
	"github.com/surveyhq/survey-management-api/internal/models"
	"gorm.io/gorm"
)

// GormAdminUserRepository is a GORM implementation of AdminUserRepository
type GormAdminUserRepository struct {
	db *gorm.DB
}

// NewAdminUserRepository creates a new AdminUserRepository
func NewAdminUserRepository(db *gorm.DB) AdminUserRepository {
	return &GormAdminUserRepository{db: db}
}

// Create creates a new admin user
func (r *GormAdminUserRepository) Create(user *models.AdminUser) error {
	return r.db.Create(user).Error
}

// FindByID finds an admin user by ID
func (r *GormAdminUserRepository) FindByID(id uint64) (*models.AdminUser, error) {
	var user models.AdminUser
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds an admin user by username
func (r *GormAdminUserRepository) FindByUsername(username string) (*models.AdminUser, error) {
	var user models.AdminUser
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
