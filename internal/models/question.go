package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionTypeText           QuestionType = "text"
	QuestionTypeRadio          QuestionType = "radio"
	QuestionTypeSelect         QuestionType = "select"
	QuestionTypeSelectMultiple QuestionType = "select-multiple"
	QuestionTypeInteger        QuestionType = "integer"
)

// IsChoiceType reports whether the type renders a choice list.
func (t QuestionType) IsChoiceType() bool {
	switch t {
	case QuestionTypeRadio, QuestionTypeSelect, QuestionTypeSelectMultiple:
		return true
	}
	return false
}

type Question struct {
	ID       uint64       `gorm:"primarykey" json:"id"`
	Text     string       `gorm:"type:text;not null" json:"text"`
	Type     QuestionType `gorm:"type:varchar(20);not null;default:'text'" json:"type"`
	Required bool         `gorm:"not null;default:false" json:"required"`
	// Choices is a comma-separated option list, meaningful only for
	// choice types, which need at least two items.
	Choices        string         `gorm:"type:text" json:"choices"`
	OrganizationID uint64         `gorm:"not null;index" json:"organization_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

// ChoiceList splits the comma-separated choices.
func (q Question) ChoiceList() []string {
	if q.Choices == "" {
		return nil
	}
	parts := strings.Split(q.Choices, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
