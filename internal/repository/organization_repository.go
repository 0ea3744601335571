package repository

import (
	"github.com/surveyhq/survey-management-api/internal/database"
	"github.com/surveyhq/survey-management-api/internal/models"
	"github.com/surveyhq/survey-management-api/internal/utils"
	"gorm.io/gorm"
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// Create creates a new organization
func (r *GormOrganizationRepository) Create(org *models.Organization) error {
	return r.db.Create(org).Error
}

// FindByID finds an organization visible under the scope
func (r *GormOrganizationRepository) FindByID(id uint64, scope ScopeFunc) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.Scopes(scope).First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// List retrieves organizations visible under the scope
func (r *GormOrganizationRepository) List(scope ScopeFunc, params utils.PaginationParams) ([]models.Organization, int64, error) {
	var orgs []models.Organization

	query := r.db.Model(&models.Organization{}).Scopes(scope)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Scopes(database.Paginate(params)).Find(&orgs).Error; err != nil {
		return nil, 0, err
	}

	return orgs, total, nil
}

// Update updates an organization
func (r *GormOrganizationRepository) Update(org *models.Organization) error {
	return r.db.Save(org).Error
}

// Delete soft deletes an organization
func (r *GormOrganizationRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Organization{}, id).Error
}

// SetArchived flips the archival flag. An unknown id reports
// gorm.ErrRecordNotFound; a zero-row update would otherwise pass
// silently.
func (r *GormOrganizationRepository) SetArchived(id uint64, archived bool) error {
	res := r.db.Model(&models.Organization{}).
		Where("id = ?", id).
		Update("archived", archived)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
