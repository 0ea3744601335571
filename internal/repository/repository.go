package repository

import (
	"github.com/surveyhq/survey-management-api/internal/models"
	"github.com/surveyhq/survey-management-api/internal/utils"
	"gorm.io/gorm"
)

// ScopeFunc narrows a query to what the caller may see. Repositories
// apply it before any list or read so tenant visibility is enforced in
// one place (see the access package).
type ScopeFunc func(db *gorm.DB) *gorm.DB

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates a new organization
	Create(org *models.Organization) error

	// FindByID finds an organization visible under the scope
	FindByID(id uint64, scope ScopeFunc) (*models.Organization, error)

	// List retrieves organizations visible under the scope
	List(scope ScopeFunc, params utils.PaginationParams) ([]models.Organization, int64, error)

	// Update updates an organization
	Update(org *models.Organization) error

	// Delete soft deletes an organization
	Delete(id uint64) error

	// SetArchived flips the archival flag
	SetArchived(id uint64, archived bool) error
}

// AdminUserRepository defines the interface for admin account data access
type AdminUserRepository interface {
	// Create creates a new admin user
	Create(user *models.AdminUser) error

	// FindByID finds an admin user by ID
	FindByID(id uint64) (*models.AdminUser, error)

	// FindByUsername finds an admin user by username
	FindByUsername(username string) (*models.AdminUser, error)
}

// EmployeeRepository defines the interface for employee data access
type EmployeeRepository interface {
	// Create creates a new employee
	Create(emp *models.Employee) error

	// FindByID finds an employee visible under the scope
	FindByID(id uint64, scope ScopeFunc) (*models.Employee, error)

	// FindByUsername finds an employee by login identifier
	FindByUsername(username string) (*models.Employee, error)

	// List retrieves employees visible under the scope
	List(scope ScopeFunc, params utils.PaginationParams) ([]models.Employee, int64, error)

	// Update updates an employee
	Update(emp *models.Employee) error

	// Delete soft deletes an employee
	Delete(id uint64) error

	// CountByIDs counts how many of the given employee IDs belong to the organization
	CountByIDs(ids []uint64, organizationID uint64) (int64, error)
}

// QuestionRepository defines the interface for question data access
type QuestionRepository interface {
	// Create creates a new question
	Create(q *models.Question) error

	// FindByID finds a question visible under the scope
	FindByID(id uint64, scope ScopeFunc) (*models.Question, error)

	// List retrieves questions visible under the scope
	List(scope ScopeFunc, params utils.PaginationParams) ([]models.Question, int64, error)

	// Update updates a question
	Update(q *models.Question) error

	// Delete soft deletes a question
	Delete(id uint64) error

	// CountByIDs counts how many of the given question IDs belong to the organization
	CountByIDs(ids []uint64, organizationID uint64) (int64, error)
}

// SurveyRepository defines the interface for survey data access
type SurveyRepository interface {
	// Create creates a survey together with its question/employee assignments
	Create(survey *models.Survey, questionIDs, employeeIDs []uint64) error

	// FindByID finds a survey by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Survey, error)

	// FindScoped finds a survey visible under the scope
	FindScoped(id uint64, scope ScopeFunc, preload ...string) (*models.Survey, error)

	// List retrieves surveys visible under the scope
	List(scope ScopeFunc, params utils.PaginationParams) ([]models.Survey, int64, error)

	// Update updates a survey and replaces its assignments
	Update(survey *models.Survey, questionIDs, employeeIDs []uint64) error

	// Delete soft deletes a survey
	Delete(id uint64) error

	// SetStatus updates the tri-state completion status
	SetStatus(id uint64, status models.SurveyStatus) error

	// IsAssigned reports whether the employee is assigned to the survey
	IsAssigned(surveyID, employeeID uint64) (bool, error)

	// ListAssigned lists surveys assigned to an employee
	ListAssigned(employeeID uint64) ([]models.Survey, error)

	// ListByStartDate lists surveys whose start date equals the given day,
	// with assigned employees preloaded
	ListByStartDate(day string) ([]models.Survey, error)

	// ListByEndDate lists surveys whose end date equals the given day,
	// with assigned employees preloaded
	ListByEndDate(day string) ([]models.Survey, error)

	// ListByEndDateBefore lists surveys whose end date is before the given
	// day, with assigned employees preloaded
	ListByEndDateBefore(day string) ([]models.Survey, error)
}

// ResponseRepository defines the interface for answer row data access
type ResponseRepository interface {
	// CreateIgnoreDuplicate inserts an answer row unless one already
	// exists for the (employee, survey, question) triple. Reports whether
	// a row was inserted; a conflicting insert is a silent no-op.
	CreateIgnoreDuplicate(resp *models.Response) (bool, error)

	// ListForSubmission lists all answer rows of one employee for one survey
	ListForSubmission(surveyID, employeeID uint64) ([]models.Response, error)

	// HasAny reports whether the employee has any row for the survey
	HasAny(surveyID, employeeID uint64) (bool, error)

	// HasFinal reports whether the employee has a final row for the survey
	HasFinal(surveyID, employeeID uint64) (bool, error)

	// Finalize marks every row of the (employee, survey) pair final and
	// the survey completed, in a single transaction.
	Finalize(surveyID, employeeID uint64) error

	// List retrieves answer rows visible under the scope
	List(scope ScopeFunc, params utils.PaginationParams) ([]models.Response, int64, error)
}

// NotificationLogRepository defines the interface for reminder audit rows
type NotificationLogRepository interface {
	// AlreadySent reports whether the reminder was logged for the day
	AlreadySent(surveyID, employeeID uint64, kind models.NotificationKind, sentOn string) (bool, error)

	// Record logs a sent reminder; duplicate records are ignored
	Record(entry *models.NotificationLog) error
}
