package dto

import "github.com/surveyhq/survey-management-api/internal/models"

// DashboardDTO is the employee dashboard payload: the caller's assigned
// surveys partitioned by date window, with completion classification of
// the active ones. The date buckets are independently computed and may
// overlap at window boundaries.
type DashboardDTO struct {
	Employee EmployeeDTO `json:"employee"`

	ActiveSurveys   []SurveyDTO `json:"active_surveys"`
	UpcomingSurveys []SurveyDTO `json:"upcoming_surveys"`
	ExpiredSurveys  []SurveyDTO `json:"expired_surveys"`
	CurrentSurveys  []SurveyDTO `json:"current_surveys"`

	CompletedSurveys  []SurveyDTO `json:"completed_surveys"`
	IncompleteSurveys []SurveyDTO `json:"incomplete_surveys"`
	AssignedSurveys   []SurveyDTO `json:"assigned_surveys"`

	CompletedSurveyCount int `json:"completed_survey_count"`
	PendingSurveyCount   int `json:"pending_survey_count"`
}

// ResponseDTO represents an answer row in API responses
type ResponseDTO struct {
	ID         uint64                `json:"id"`
	EmployeeID uint64                `json:"employee_id"`
	SurveyID   uint64                `json:"survey_id"`
	QuestionID uint64                `json:"question_id"`
	Answer     string                `json:"answer"`
	Status     models.ResponseStatus `json:"status"`
}

// QuestionListDTO is the payload for rendering one survey's questions
// with the caller's existing answers.
type QuestionListDTO struct {
	Survey    SurveyDTO     `json:"survey"`
	Questions []QuestionDTO `json:"questions"`
	Responses []ResponseDTO `json:"responses"`
	Employee  EmployeeDTO   `json:"employee"`
}

// ToResponseDTO converts a Response model to ResponseDTO
func ToResponseDTO(r models.Response) ResponseDTO {
	return ResponseDTO{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		SurveyID:   r.SurveyID,
		QuestionID: r.QuestionID,
		Answer:     r.Answer,
		Status:     r.Status,
	}
}

// ToResponseDTOs converts a slice of responses
func ToResponseDTOs(responses []models.Response) []ResponseDTO {
	out := make([]ResponseDTO, len(responses))
	for i, r := range responses {
		out[i] = ToResponseDTO(r)
	}
	return out
}
