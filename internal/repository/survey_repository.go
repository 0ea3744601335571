package repository

import (
	"github.com/surveyhq/survey-management-api/internal/database"
	"github.com/surveyhq/survey-management-api/internal/models"
	"github.com/surveyhq/survey-management-api/internal/utils"
	"gorm.io/gorm"
)

// GormSurveyRepository is a GORM implementation of SurveyRepository
type GormSurveyRepository struct {
	db *gorm.DB
}

// NewSurveyRepository creates a new SurveyRepository
func NewSurveyRepository(db *gorm.DB) SurveyRepository {
	return &GormSurveyRepository{db: db}
}

// Create creates a survey together with its question/employee assignments
func (r *GormSurveyRepository) Create(survey *models.Survey, questionIDs, employeeIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(survey).Error; err != nil {
			return err
		}
		return replaceAssignments(tx, survey, questionIDs, employeeIDs)
	})
}

// FindByID finds a survey by ID with optional preloading
func (r *GormSurveyRepository) FindByID(id uint64, preload ...string) (*models.Survey, error) {
	var survey models.Survey
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&survey, id).Error; err != nil {
		return nil, err
	}
	return &survey, nil
}

// FindScoped finds a survey visible under the scope
func (r *GormSurveyRepository) FindScoped(id uint64, scope ScopeFunc, preload ...string) (*models.Survey, error) {
	var survey models.Survey
	query := r.db.Scopes(scope)
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.Where("surveys.id = ?", id).First(&survey).Error; err != nil {
		return nil, err
	}
	return &survey, nil
}

// List retrieves surveys visible under the scope
func (r *GormSurveyRepository) List(scope ScopeFunc, params utils.PaginationParams) ([]models.Survey, int64, error) {
	var surveys []models.Survey

	query := r.db.Model(&models.Survey{}).Scopes(scope)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Scopes(database.Paginate(params)).
		Preload("Questions").Preload("Employees").
		Find(&surveys).Error; err != nil {
		return nil, 0, err
	}

	return surveys, total, nil
}

// Update updates a survey and replaces its assignments
func (r *GormSurveyRepository) Update(survey *models.Survey, questionIDs, employeeIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(survey).Error; err != nil {
			return err
		}
		return replaceAssignments(tx, survey, questionIDs, employeeIDs)
	})
}

// Delete soft deletes a survey
func (r *GormSurveyRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Survey{}, id).Error
}

// SetStatus updates the tri-state completion status
func (r *GormSurveyRepository) SetStatus(id uint64, status models.SurveyStatus) error {
	return r.db.Model(&models.Survey{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// IsAssigned reports whether the employee is assigned to the survey
func (r *GormSurveyRepository) IsAssigned(surveyID, employeeID uint64) (bool, error) {
	var count int64
	err := r.db.Table("survey_assignments").
		Where("survey_id = ? AND employee_id = ?", surveyID, employeeID).
		Count(&count).Error
	return count > 0, err
}

// ListAssigned lists surveys assigned to an employee
func (r *GormSurveyRepository) ListAssigned(employeeID uint64) ([]models.Survey, error) {
	var surveys []models.Survey
	err := r.db.
		Joins("JOIN survey_assignments ON survey_assignments.survey_id = surveys.id").
		Where("survey_assignments.employee_id = ?", employeeID).
		Find(&surveys).Error
	return surveys, err
}

// ListByStartDate lists surveys whose start date equals the given day
func (r *GormSurveyRepository) ListByStartDate(day string) ([]models.Survey, error) {
	var surveys []models.Survey
	err := r.db.Preload("Employees").
		Scopes(database.OnDay("start_date", day)).
		Find(&surveys).Error
	return surveys, err
}

// ListByEndDate lists surveys whose end date equals the given day
func (r *GormSurveyRepository) ListByEndDate(day string) ([]models.Survey, error) {
	var surveys []models.Survey
	err := r.db.Preload("Employees").
		Scopes(database.OnDay("end_date", day)).
		Find(&surveys).Error
	return surveys, err
}

// ListByEndDateBefore lists surveys whose end date is before the given day
func (r *GormSurveyRepository) ListByEndDateBefore(day string) ([]models.Survey, error) {
	var surveys []models.Survey
	err := r.db.Preload("Employees").
		Scopes(database.BeforeDay("end_date", day)).
		Find(&surveys).Error
	return surveys, err
}

// replaceAssignments swaps the survey's question and employee sets.
func replaceAssignments(tx *gorm.DB, survey *models.Survey, questionIDs, employeeIDs []uint64) error {
	questions := make([]models.Question, len(questionIDs))
	for i, id := range questionIDs {
		questions[i] = models.Question{ID: id}
	}
	if err := tx.Model(survey).Association("Questions").Replace(questions); err != nil {
		return err
	}

	employees := make([]models.Employee, len(employeeIDs))
	for i, id := range employeeIDs {
		employees[i] = models.Employee{ID: id}
	}
	return tx.Model(survey).Association("Employees").Replace(employees)
}
