package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/surveyhq/survey-management-api/internal/access"
	"github.com/surveyhq/survey-management-api/internal/models"
	"github.com/surveyhq/survey-management-api/internal/repository"
	"github.com/surveyhq/survey-management-api/internal/utils"
)

var (
	ErrUsernameTaken        = errors.New("an account with this email exists")
	ErrChoicesRequired      = errors.New("choice questions must provide a comma-separated list of at least two options")
	ErrEmployeeNotVisible   = errors.New("employee not found")
	ErrQuestionNotVisible   = errors.New("question not found")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrOrganizationRequired = errors.New("an organization must be specified")
)

// AdminService backs the admin console: tenant-scoped CRUD over
// employees, questions, and organizations.
type AdminService struct {
	orgRepo      repository.OrganizationRepository
	employeeRepo repository.EmployeeRepository
	questionRepo repository.QuestionRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	orgRepo repository.OrganizationRepository,
	employeeRepo repository.EmployeeRepository,
	questionRepo repository.QuestionRepository,
) *AdminService {
	return &AdminService{
		orgRepo:      orgRepo,
		employeeRepo: employeeRepo,
		questionRepo: questionRepo,
	}
}

// CreateEmployeeInput represents input for creating an employee.
type CreateEmployeeInput struct {
	Name           string
	Username       string
	Designation    string
	Address        string
	OrganizationID uint64
}

// CreateEmployee creates an employee in the caller's organization with
// a generated temporary password, returned once in plaintext.
func (s *AdminService) CreateEmployee(caller access.Caller, input CreateEmployeeInput) (*models.Employee, string, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, "", fmt.Errorf("username is required")
	}

	if _, err := s.employeeRepo.FindByUsername(username); err == nil {
		return nil, "", ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("failed to check username: %w", err)
	}

	tempPassword, err := utils.GenerateTempPassword()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate password: %w", err)
	}
	hashed, err := HashPassword(tempPassword)
	if err != nil {
		return nil, "", err
	}

	orgID := access.ForceOrganization(caller, input.OrganizationID)
	if orgID == 0 {
		return nil, "", ErrOrganizationRequired
	}

	emp := &models.Employee{
		Name:           input.Name,
		Username:       username,
		PasswordHash:   hashed,
		Designation:    input.Designation,
		Address:        input.Address,
		OrganizationID: orgID,
	}

	if err := s.employeeRepo.Create(emp); err != nil {
		return nil, "", fmt.Errorf("failed to create employee: %w", err)
	}

	return emp, tempPassword, nil
}

// UpdateEmployeeInput represents input for updating an employee.
type UpdateEmployeeInput struct {
	Name        *string
	Designation *string
	Address     *string
}

// UpdateEmployee updates an employee visible to the caller.
func (s *AdminService) UpdateEmployee(caller access.Caller, id uint64, input UpdateEmployeeInput) (*models.Employee, error) {
	emp, err := s.employeeRepo.FindByID(id, access.Scope(access.EntityEmployee, caller))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotVisible
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}

	if input.Name != nil {
		emp.Name = *input.Name
	}
	if input.Designation != nil {
		emp.Designation = *input.Designation
	}
	if input.Address != nil {
		emp.Address = *input.Address
	}

	if err := s.employeeRepo.Update(emp); err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	return emp, nil
}

// SaveQuestionInput represents input for creating or updating a question.
type SaveQuestionInput struct {
	Text           string
	Type           models.QuestionType
	Required       bool
	Choices        string
	OrganizationID uint64
}

// CreateQuestion creates a question in the caller's organization.
func (s *AdminService) CreateQuestion(caller access.Caller, input SaveQuestionInput) (*models.Question, error) {
	if input.Type == "" {
		input.Type = models.QuestionTypeText
	}
	if err := validateChoices(input.Type, input.Choices); err != nil {
		return nil, err
	}

	orgID := access.ForceOrganization(caller, input.OrganizationID)
	if orgID == 0 {
		return nil, ErrOrganizationRequired
	}

	question := &models.Question{
		Text:           input.Text,
		Type:           input.Type,
		Required:       input.Required,
		Choices:        input.Choices,
		OrganizationID: orgID,
	}

	if err := s.questionRepo.Create(question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return question, nil
}

// UpdateQuestion updates a question visible to the caller.
func (s *AdminService) UpdateQuestion(caller access.Caller, id uint64, input SaveQuestionInput) (*models.Question, error) {
	question, err := s.questionRepo.FindByID(id, access.Scope(access.EntityQuestion, caller))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotVisible
		}
		return nil, fmt.Errorf("failed to find question: %w", err)
	}

	if input.Type == "" {
		input.Type = question.Type
	}
	if err := validateChoices(input.Type, input.Choices); err != nil {
		return nil, err
	}

	question.Text = input.Text
	question.Type = input.Type
	question.Required = input.Required
	question.Choices = input.Choices

	if err := s.questionRepo.Update(question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	return question, nil
}

// SetOrganizationArchived archives or restores an organization.
// Archived organizations and all their rows disappear from every
// non-superuser query while the rows themselves stay in storage.
func (s *AdminService) SetOrganizationArchived(id uint64, archived bool) error {
	if err := s.orgRepo.SetArchived(id, archived); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrganizationNotFound
		}
		return fmt.Errorf("failed to update organization: %w", err)
	}
	return nil
}

// validateChoices enforces the choice-list rule: choice types need a
// comma-separated list with more than one non-blank item. Trailing
// commas and whitespace-only segments do not count as options.
func validateChoices(t models.QuestionType, choices string) error {
	if !t.IsChoiceType() {
		return nil
	}
	var items int
	for _, choice := range strings.Split(choices, ",") {
		if strings.TrimSpace(choice) != "" {
			items++
		}
	}
	if items < 2 {
		return ErrChoicesRequired
	}
	return nil
}
