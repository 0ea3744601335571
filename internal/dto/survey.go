package dto

import (
	"time"

	"github.com/surveyhq/survey-management-api/internal/models"
)

// EmployeeDTO represents an employee in API responses
type EmployeeDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	Designation string `json:"designation"`
	Address     string `json:"address"`
}

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// QuestionDTO represents a question in API responses
type QuestionDTO struct {
	ID       uint64              `json:"id"`
	Text     string              `json:"text"`
	Type     models.QuestionType `json:"type"`
	Required bool                `json:"required"`
	Choices  []string            `json:"choices,omitempty"`
}

// SurveyDTO represents a survey in API responses
type SurveyDTO struct {
	ID          uint64        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	StartDate   *time.Time    `json:"start_date"`
	EndDate     *time.Time    `json:"end_date"`
	Status      string        `json:"status"`
	Questions   []QuestionDTO `json:"questions,omitempty"`
	Employees   []EmployeeDTO `json:"employees,omitempty"`
}

// Conversion functions

// ToEmployeeDTO converts an Employee model to EmployeeDTO
func ToEmployeeDTO(emp models.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:          emp.ID,
		Name:        emp.Name,
		Username:    emp.Username,
		Designation: emp.Designation,
		Address:     emp.Address,
	}
}

// ToOrganizationDTO converts an Organization model to OrganizationDTO
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:          org.ID,
		Name:        org.Name,
		Location:    org.Location,
		Description: org.Description,
		Status:      org.Status(),
	}
}

// ToQuestionDTO converts a Question model to QuestionDTO
func ToQuestionDTO(q models.Question) QuestionDTO {
	return QuestionDTO{
		ID:       q.ID,
		Text:     q.Text,
		Type:     q.Type,
		Required: q.Required,
		Choices:  q.ChoiceList(),
	}
}

// ToSurveyDTO converts a Survey model to SurveyDTO, including relations
// when preloaded
func ToSurveyDTO(survey models.Survey) SurveyDTO {
	dto := SurveyDTO{
		ID:          survey.ID,
		Name:        survey.Name,
		Description: survey.Description,
		StartDate:   survey.StartDate,
		EndDate:     survey.EndDate,
		Status:      survey.Status.Display(),
	}

	if len(survey.Questions) > 0 {
		dto.Questions = make([]QuestionDTO, len(survey.Questions))
		for i, q := range survey.Questions {
			dto.Questions[i] = ToQuestionDTO(q)
		}
	}

	if len(survey.Employees) > 0 {
		dto.Employees = make([]EmployeeDTO, len(survey.Employees))
		for i, e := range survey.Employees {
			dto.Employees[i] = ToEmployeeDTO(e)
		}
	}

	return dto
}

// ToSurveyDTOs converts a slice of surveys
func ToSurveyDTOs(surveys []models.Survey) []SurveyDTO {
	out := make([]SurveyDTO, len(surveys))
	for i, s := range surveys {
		out[i] = ToSurveyDTO(s)
	}
	return out
}
