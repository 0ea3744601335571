package repository

import (
	"github.com/surveyhq/survey-management-api/internal/database"
	"github.com/surveyhq/survey-management-api/internal/models"
	"github.com/surveyhq/survey-management-api/internal/utils"
	"gorm.io/gorm"
)

// GormEmployeeRepository is a GORM implementation of EmployeeRepository
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// Create creates a new employee
func (r *GormEmployeeRepository) Create(emp *models.Employee) error {
	return r.db.Create(emp).Error
}

// FindByID finds an employee visible under the scope
func (r *GormEmployeeRepository) FindByID(id uint64, scope ScopeFunc) (*models.Employee, error) {
	var emp models.Employee
	if err := r.db.Scopes(scope).Where("employees.id = ?", id).First(&emp).Error; err != nil {
		return nil, err
	}
	return &emp, nil
}

// FindByUsername finds an employee by login identifier
func (r *GormEmployeeRepository) FindByUsername(username string) (*models.Employee, error) {
	var emp models.Employee
	if err := r.db.Where("username = ?", username).First(&emp).Error; err != nil {
		return nil, err
	}
	return &emp, nil
}

// List retrieves employees visible under the scope
func (r *GormEmployeeRepository) List(scope ScopeFunc, params utils.PaginationParams) ([]models.Employee, int64, error) {
	var employees []models.Employee

	query := r.db.Model(&models.Employee{}).Scopes(scope)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Scopes(database.Paginate(params)).Find(&employees).Error; err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

// Update updates an employee
func (r *GormEmployeeRepository) Update(emp *models.Employee) error {
	return r.db.Save(emp).Error
}

// Delete soft deletes an employee
func (r *GormEmployeeRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Employee{}, id).Error
}

// CountByIDs counts how many of the given employee IDs belong to the organization
func (r *GormEmployeeRepository) CountByIDs(ids []uint64, organizationID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Employee{}).
		Where("id IN ? AND organization_id = ?", ids, organizationID).
		Count(&count).Error
	return count, err
}
