package models

import "time"

// NotificationKind identifies which reminder scan produced an email.
type NotificationKind string

const (
	NotificationStartTomorrow NotificationKind = "start_tomorrow"
	NotificationStartToday    NotificationKind = "start_today"
	NotificationEndTomorrow   NotificationKind = "end_tomorrow"
	NotificationEnded         NotificationKind = "ended"
)

// NotificationLog records one reminder email. The unique index lets a
// scheduler run repeated on the same day skip pairs it already mailed.
type NotificationLog struct {
	ID         uint64           `gorm:"primarykey" json:"id"`
	SurveyID   uint64           `gorm:"not null;uniqueIndex:idx_notification_once_per_day" json:"survey_id"`
	EmployeeID uint64           `gorm:"not null;uniqueIndex:idx_notification_once_per_day" json:"employee_id"`
	Kind       NotificationKind `gorm:"type:varchar(20);not null;uniqueIndex:idx_notification_once_per_day" json:"kind"`
	SentOn     string           `gorm:"type:varchar(10);not null;uniqueIndex:idx_notification_once_per_day" json:"sent_on"`
	CreatedAt  time.Time        `json:"created_at"`

	Survey   Survey   `gorm:"foreignKey:SurveyID" json:"survey,omitempty"`
	Employee Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}
