package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/surveyhq/survey-management-api/internal/mailer"
	"github.com/surveyhq/survey-management-api/internal/models"
	"github.com/surveyhq/survey-management-api/internal/repository"
)

// NotificationService runs the reminder scans. It is stateless between
// runs except for the notification log, which suppresses duplicate
// sends when a run repeats on the same day.
type NotificationService struct {
	surveyRepo repository.SurveyRepository
	logRepo    repository.NotificationLogRepository
	mail       mailer.Mailer
	baseURL    string
	logger     *zap.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(
	surveyRepo repository.SurveyRepository,
	logRepo repository.NotificationLogRepository,
	mail mailer.Mailer,
	baseURL string,
	logger *zap.Logger,
) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		surveyRepo: surveyRepo,
		logRepo:    logRepo,
		mail:       mail,
		baseURL:    baseURL,
		logger:     logger,
	}
}

const dayFormat = "2006-01-02"

// Run executes the four independent date-window scans against the given
// day. Each scan emails every employee assigned to a matching survey; a
// survey may match several scans on different days. Mail failures are
// logged and skipped, never fatal.
func (s *NotificationService) Run(today time.Time) error {
	day := today.Format(dayFormat)
	tomorrow := today.AddDate(0, 0, 1).Format(dayFormat)

	scans := []struct {
		kind    models.NotificationKind
		list    func() ([]models.Survey, error)
		subject string
		line    string
	}{
		{
			kind:    models.NotificationStartTomorrow,
			list:    func() ([]models.Survey, error) { return s.surveyRepo.ListByStartDate(tomorrow) },
			subject: "You have a new survey coming tomorrow.",
			line:    "You have a new survey coming tomorrow.",
		},
		{
			kind:    models.NotificationStartToday,
			list:    func() ([]models.Survey, error) { return s.surveyRepo.ListByStartDate(day) },
			subject: "You have a new survey in your dashboard.",
			line:    "You have a new survey in your dashboard.",
		},
		{
			kind:    models.NotificationEndTomorrow,
			list:    func() ([]models.Survey, error) { return s.surveyRepo.ListByEndDate(tomorrow) },
			subject: "Survey assigned to you ending tomorrow.",
			line:    "Survey in your dashboard ending tomorrow.",
		},
		{
			kind:    models.NotificationEnded,
			list:    func() ([]models.Survey, error) { return s.surveyRepo.ListByEndDateBefore(day) },
			subject: "Survey assigned to you was ended.",
			line:    "Survey in your dashboard ended.",
		},
	}

	for _, scan := range scans {
		surveys, err := scan.list()
		if err != nil {
			return fmt.Errorf("scan %s failed: %w", scan.kind, err)
		}

		for _, survey := range surveys {
			for _, emp := range survey.Employees {
				s.sendReminder(survey, emp, scan.kind, scan.subject, scan.line, day)
			}
		}
	}

	return nil
}

func (s *NotificationService) sendReminder(survey models.Survey, emp models.Employee, kind models.NotificationKind, subject, line, day string) {
	sent, err := s.logRepo.AlreadySent(survey.ID, emp.ID, kind, day)
	if err != nil {
		s.logger.Error("notification log lookup failed",
			zap.Uint64("survey_id", survey.ID),
			zap.Uint64("employee_id", emp.ID),
			zap.Error(err))
		return
	}
	if sent {
		return
	}

	body := fmt.Sprintf("Hello %s,<br><br>%s<br>"+
		"Please login to survey management and complete your survey: %s/employee/<br><br>"+
		"Thanks,<br>Survey Management Team", emp.Name, line, s.baseURL)

	if err := s.mail.Send(subject, body, emp.Username); err != nil {
		// Not logged as sent, so the next run retries.
		s.logger.Error("reminder email failed",
			zap.String("employee", emp.Username),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return
	}

	if err := s.logRepo.Record(&models.NotificationLog{
		SurveyID:   survey.ID,
		EmployeeID: emp.ID,
		Kind:       kind,
		SentOn:     day,
	}); err != nil {
		s.logger.Error("failed to record notification",
			zap.Uint64("survey_id", survey.ID),
			zap.Uint64("employee_id", emp.ID),
			zap.Error(err))
	}

	s.logger.Info("reminder email sent",
		zap.String("employee", emp.Username),
		zap.String("kind", string(kind)),
		zap.Uint64("survey_id", survey.ID))
}
