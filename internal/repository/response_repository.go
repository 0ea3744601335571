package repository

import (
	"github.com/surveyhq/survey-management-api/internal/database"
	"github.com/surveyhq/survey-management-api/internal/models"
	"github.com/surveyhq/survey-management-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormResponseRepository is a GORM implementation of ResponseRepository
type GormResponseRepository struct {
	db *gorm.DB
}

// NewResponseRepository creates a new ResponseRepository
func NewResponseRepository(db *gorm.DB) ResponseRepository {
	return &GormResponseRepository{db: db}
}

// CreateIgnoreDuplicate inserts an answer row unless one already exists
// for the (employee, survey, question) triple. The conflict-ignoring
// clause makes the existence check and the insert a single atomic
// statement, so concurrent duplicate submissions collapse to one row.
func (r *GormResponseRepository) CreateIgnoreDuplicate(resp *models.Response) (bool, error) {
	result := r.db.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "employee_id"},
				{Name: "survey_id"},
				{Name: "question_id"},
			},
			DoNothing: true,
		}).
		Create(resp)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListForSubmission lists all answer rows of one employee for one survey
func (r *GormResponseRepository) ListForSubmission(surveyID, employeeID uint64) ([]models.Response, error) {
	var responses []models.Response
	err := r.db.
		Where("survey_id = ? AND employee_id = ?", surveyID, employeeID).
		Order("question_id ASC").
		Find(&responses).Error
	return responses, err
}

// HasAny reports whether the employee has any row for the survey
func (r *GormResponseRepository) HasAny(surveyID, employeeID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Response{}).
		Where("survey_id = ? AND employee_id = ?", surveyID, employeeID).
		Count(&count).Error
	return count > 0, err
}

// HasFinal reports whether the employee has a final row for the survey
func (r *GormResponseRepository) HasFinal(surveyID, employeeID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Response{}).
		Where("survey_id = ? AND employee_id = ? AND status = ?",
			surveyID, employeeID, models.ResponseFinal).
		Count(&count).Error
	return count > 0, err
}

// Finalize marks every row of the (employee, survey) pair final and the
// survey completed. One transaction: either all rows flip or none do.
func (r *GormResponseRepository) Finalize(surveyID, employeeID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Response{}).
			Where("survey_id = ? AND employee_id = ?", surveyID, employeeID).
			Update("status", models.ResponseFinal).Error; err != nil {
			return err
		}

		return tx.Model(&models.Survey{}).
			Where("id = ?", surveyID).
			Update("status", models.SurveyCompleted).Error
	})
}

// List retrieves answer rows visible under the scope
func (r *GormResponseRepository) List(scope ScopeFunc, params utils.PaginationParams) ([]models.Response, int64, error) {
	var responses []models.Response

	query := r.db.Model(&models.Response{}).Scopes(scope)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Scopes(database.Paginate(params)).Find(&responses).Error; err != nil {
		return nil, 0, err
	}

	return responses, total, nil
}
