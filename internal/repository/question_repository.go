package repository

import (
	"github.com/surveyhq/survey-management-api/internal/database"
	"github.com/surveyhq/survey-management-api/internal/models"
	"github.com/surveyhq/survey-management-api/internal/utils"
	"gorm.io/gorm"
)

// GormQuestionRepository is a GORM implementation of QuestionRepository
type GormQuestionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository creates a new QuestionRepository
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &GormQuestionRepository{db: db}
}

// Create creates a new question
func (r *GormQuestionRepository) Create(q *models.Question) error {
	return r.db.Create(q).Error
}

// FindByID finds a question visible under the scope
func (r *GormQuestionRepository) FindByID(id uint64, scope ScopeFunc) (*models.Question, error) {
	var question models.Question
	if err := r.db.Scopes(scope).Where("questions.id = ?", id).First(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

// List retrieves questions visible under the scope
func (r *GormQuestionRepository) List(scope ScopeFunc, params utils.PaginationParams) ([]models.Question, int64, error) {
	var questions []models.Question

	query := r.db.Model(&models.Question{}).Scopes(scope)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Scopes(database.Paginate(params)).Find(&questions).Error; err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

// Update updates a question
func (r *GormQuestionRepository) Update(q *models.Question) error {
	return r.db.Save(q).Error
}

// Delete soft deletes a question
func (r *GormQuestionRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Question{}, id).Error
}

// CountByIDs counts how many of the given question IDs belong to the organization
func (r *GormQuestionRepository) CountByIDs(ids []uint64, organizationID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Question{}).
		Where("id IN ? AND organization_id = ?", ids, organizationID).
		Count(&count).Error
	return count, err
}
