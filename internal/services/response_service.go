package services

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/surveyhq/survey-management-api/internal/constants"
	"github.com/surveyhq/survey-management-api/internal/mailer"
	"github.com/surveyhq/survey-management-api/internal/models"
	"github.com/surveyhq/survey-management-api/internal/repository"
)

var ErrQuestionNotInSurvey = errors.New("question does not belong to this survey")

// ResponseService handles the answer submission workflow.
type ResponseService struct {
	surveyRepo   repository.SurveyRepository
	responseRepo repository.ResponseRepository
	mail         mailer.Mailer
	baseURL      string
	logger       *zap.Logger
}

// NewResponseService creates a new ResponseService.
func NewResponseService(
	surveyRepo repository.SurveyRepository,
	responseRepo repository.ResponseRepository,
	mail mailer.Mailer,
	baseURL string,
	logger *zap.Logger,
) *ResponseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseService{
		surveyRepo:   surveyRepo,
		responseRepo: responseRepo,
		mail:         mail,
		baseURL:      baseURL,
		logger:       logger,
	}
}

// SubmitResult reports what one submission did.
type SubmitResult struct {
	Created   int
	Finished  bool
	Responses []models.Response
}

// Submit records one form submission for a survey. Form field names are
// question ids; the anti-forgery token and the submit control are
// skipped. Each non-empty field inserts at most one answer row per
// (employee, survey, question); the first answer wins and later
// submissions for the same question are silently discarded. The Finish
// control finalizes every existing row and completes the survey; any
// other control leaves draft rows and a pending survey.
func (s *ResponseService) Submit(emp *models.Employee, surveyID uint64, form url.Values) (*SubmitResult, error) {
	assigned, err := s.surveyRepo.IsAssigned(surveyID, emp.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check assignment: %w", err)
	}
	if !assigned {
		return nil, ErrSurveyNotFound
	}

	survey, err := s.surveyRepo.FindByID(surveyID, "Questions")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSurveyNotFound
		}
		return nil, fmt.Errorf("failed to find survey: %w", err)
	}

	surveyQuestions := make(map[uint64]struct{}, len(survey.Questions))
	for _, q := range survey.Questions {
		surveyQuestions[q.ID] = struct{}{}
	}

	finish := form.Get(constants.FormFieldSubmitControl) == constants.SubmitControlFinish

	status := models.ResponseDraft
	if finish {
		status = models.ResponseFinal
	}

	created := 0
	for name, values := range form {
		if name == constants.FormFieldCSRFToken || name == constants.FormFieldSubmitControl {
			continue
		}

		questionID, err := strconv.ParseUint(name, 10, 64)
		if err != nil {
			return nil, ErrQuestionNotInSurvey
		}
		if _, ok := surveyQuestions[questionID]; !ok {
			return nil, ErrQuestionNotInSurvey
		}

		answer := joinNonEmpty(values)
		if answer == "" {
			continue
		}

		inserted, err := s.responseRepo.CreateIgnoreDuplicate(&models.Response{
			EmployeeID:     emp.ID,
			SurveyID:       surveyID,
			QuestionID:     questionID,
			OrganizationID: emp.OrganizationID,
			Answer:         answer,
			Status:         status,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to save response: %w", err)
		}
		if inserted {
			created++
		}
	}

	if finish {
		// Reconcile earlier draft rows with the final state and close
		// the survey; the email is best-effort and never rolls back the
		// writes.
		if err := s.responseRepo.Finalize(surveyID, emp.ID); err != nil {
			return nil, fmt.Errorf("failed to finalize submission: %w", err)
		}
		s.sendConfirmation(emp)
	} else if created > 0 {
		if err := s.surveyRepo.SetStatus(surveyID, models.SurveyPending); err != nil {
			return nil, fmt.Errorf("failed to update survey status: %w", err)
		}
	}

	responses, err := s.responseRepo.ListForSubmission(surveyID, emp.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}

	return &SubmitResult{
		Created:   created,
		Finished:  finish,
		Responses: responses,
	}, nil
}

func (s *ResponseService) sendConfirmation(emp *models.Employee) {
	body := fmt.Sprintf("Hi,<br><br>You have completed the survey.<br>%s/employee/", s.baseURL)
	if err := s.mail.Send("Survey Feedback", body, emp.Username); err != nil {
		s.logger.Error("confirmation email failed",
			zap.String("employee", emp.Username), zap.Error(err))
		return
	}
	s.logger.Info("confirmation email sent", zap.String("employee", emp.Username))
}

// joinNonEmpty joins all selected option values for one form field,
// dropping empties, the way multi-select answers are stored.
func joinNonEmpty(values []string) string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, ", ")
}
