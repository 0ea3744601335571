package models

import "time"

// ResponseStatus tracks a single answer row: draft until the employee
// uses the Finish control, final afterwards. Rows never move back.
type ResponseStatus string

const (
	ResponseDraft ResponseStatus = "draft"
	ResponseFinal ResponseStatus = "final"
)

// Response is one employee's answer to one question within one survey.
// The composite unique index makes concurrent duplicate submissions
// collapse into a single row; inserts use a conflict-ignoring clause so
// the first answer wins.
type Response struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	EmployeeID     uint64         `gorm:"not null;uniqueIndex:idx_responses_employee_survey_question" json:"employee_id"`
	SurveyID       uint64         `gorm:"not null;uniqueIndex:idx_responses_employee_survey_question" json:"survey_id"`
	QuestionID     uint64         `gorm:"not null;uniqueIndex:idx_responses_employee_survey_question" json:"question_id"`
	OrganizationID uint64         `gorm:"not null;index" json:"organization_id"`
	Answer         string         `gorm:"type:text" json:"answer"`
	Status         ResponseStatus `gorm:"type:varchar(10);not null" json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	// Relations
	Employee     Employee     `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Survey       Survey       `gorm:"foreignKey:SurveyID" json:"survey,omitempty"`
	Question     Question     `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}
