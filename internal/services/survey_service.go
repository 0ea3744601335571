package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/surveyhq/survey-management-api/internal/access"
	"github.com/surveyhq/survey-management-api/internal/mailer"
	"github.com/surveyhq/survey-management-api/internal/models"
	"github.com/surveyhq/survey-management-api/internal/repository"
)

var (
	ErrSurveyNotFound        = errors.New("survey not found")
	ErrCrossTenantAssignment = errors.New("one or more assigned ids do not belong to the organization")
)

// Dashboard partitions an employee's assigned surveys by date window
// and classifies the active ones by completion. The date buckets are
// independently computed; expired and active overlap when a survey ends
// today.
type Dashboard struct {
	Active   []models.Survey
	Upcoming []models.Survey
	Expired  []models.Survey
	Current  []models.Survey

	Completed  []models.Survey
	Incomplete []models.Survey
	Assigned   []models.Survey
}

// SurveyService handles the survey catalog: admin-side composition and
// the employee-facing dashboard and question views.
type SurveyService struct {
	surveyRepo   repository.SurveyRepository
	questionRepo repository.QuestionRepository
	employeeRepo repository.EmployeeRepository
	responseRepo repository.ResponseRepository
	mail         mailer.Mailer
	baseURL      string
	logger       *zap.Logger
}

// NewSurveyService creates a new SurveyService.
func NewSurveyService(
	surveyRepo repository.SurveyRepository,
	questionRepo repository.QuestionRepository,
	employeeRepo repository.EmployeeRepository,
	responseRepo repository.ResponseRepository,
	mail mailer.Mailer,
	baseURL string,
	logger *zap.Logger,
) *SurveyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SurveyService{
		surveyRepo:   surveyRepo,
		questionRepo: questionRepo,
		employeeRepo: employeeRepo,
		responseRepo: responseRepo,
		mail:         mail,
		baseURL:      baseURL,
		logger:       logger,
	}
}

// SaveSurveyInput represents input for creating or updating a survey.
type SaveSurveyInput struct {
	Name           string
	Description    string
	StartDate      *time.Time
	EndDate        *time.Time
	QuestionIDs    []uint64
	EmployeeIDs    []uint64
	OrganizationID uint64
}

// CreateSurvey composes a survey for the caller's organization. The
// organization is force-set from the caller, the status starts at
// not_started, and every assigned employee gets an assignment email.
func (s *SurveyService) CreateSurvey(caller access.Caller, input SaveSurveyInput) (*models.Survey, error) {
	orgID := access.ForceOrganization(caller, input.OrganizationID)
	if orgID == 0 {
		return nil, ErrOrganizationRequired
	}

	if err := s.verifyAssignmentOwnership(orgID, input.QuestionIDs, input.EmployeeIDs); err != nil {
		return nil, err
	}

	survey := &models.Survey{
		Name:           input.Name,
		Description:    input.Description,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		Status:         models.SurveyNotStarted,
		OrganizationID: orgID,
	}

	if err := s.surveyRepo.Create(survey, input.QuestionIDs, input.EmployeeIDs); err != nil {
		return nil, fmt.Errorf("failed to create survey: %w", err)
	}

	s.notifyAssignedEmployees(survey, input.EmployeeIDs)

	return s.surveyRepo.FindByID(survey.ID, "Questions", "Employees")
}

// UpdateSurvey updates a survey visible to the caller. Changing the
// assignment invalidates prior completion state, so the status resets
// to not_started; employees newly added by this save are emailed.
func (s *SurveyService) UpdateSurvey(caller access.Caller, surveyID uint64, input SaveSurveyInput) (*models.Survey, error) {
	survey, err := s.surveyRepo.FindScoped(surveyID, access.Scope(access.EntitySurvey, caller), "Employees")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSurveyNotFound
		}
		return nil, fmt.Errorf("failed to find survey: %w", err)
	}

	orgID := access.ForceOrganization(caller, input.OrganizationID)
	if orgID == 0 {
		return nil, ErrOrganizationRequired
	}
	if err := s.verifyAssignmentOwnership(orgID, input.QuestionIDs, input.EmployeeIDs); err != nil {
		return nil, err
	}

	previous := make(map[uint64]struct{}, len(survey.Employees))
	for _, emp := range survey.Employees {
		previous[emp.ID] = struct{}{}
	}
	var added []uint64
	for _, id := range input.EmployeeIDs {
		if _, ok := previous[id]; !ok {
			added = append(added, id)
		}
	}

	survey.Name = input.Name
	survey.Description = input.Description
	survey.StartDate = input.StartDate
	survey.EndDate = input.EndDate
	survey.OrganizationID = orgID
	survey.Status = models.SurveyNotStarted
	survey.Employees = nil
	survey.Questions = nil

	if err := s.surveyRepo.Update(survey, input.QuestionIDs, input.EmployeeIDs); err != nil {
		return nil, fmt.Errorf("failed to update survey: %w", err)
	}

	s.notifyAssignedEmployees(survey, added)

	return s.surveyRepo.FindByID(survey.ID, "Questions", "Employees")
}

// BuildDashboard assembles the employee dashboard.
func (s *SurveyService) BuildDashboard(emp *models.Employee, now time.Time) (*Dashboard, error) {
	surveys, err := s.surveyRepo.ListAssigned(emp.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned surveys: %w", err)
	}

	today := truncateToDay(now)
	dash := &Dashboard{}

	for _, survey := range surveys {
		if survey.StartDate == nil || survey.EndDate == nil {
			continue
		}
		start := truncateToDay(*survey.StartDate)
		end := truncateToDay(*survey.EndDate)

		if !start.After(today) && !end.Before(today) {
			dash.Active = append(dash.Active, survey)
			dash.Current = append(dash.Current, survey)
		}
		if start.After(today) && !end.Before(today) {
			dash.Upcoming = append(dash.Upcoming, survey)
		}
		if start.Before(today) && !end.After(today) {
			dash.Expired = append(dash.Expired, survey)
		}
	}

	for _, survey := range dash.Active {
		state, err := s.ClassifySurvey(survey.ID, emp.ID)
		if err != nil {
			return nil, err
		}
		switch state {
		case CompletionCompleted:
			dash.Completed = append(dash.Completed, survey)
		case CompletionIncomplete:
			dash.Incomplete = append(dash.Incomplete, survey)
		default:
			dash.Assigned = append(dash.Assigned, survey)
		}
	}

	return dash, nil
}

// CompletionState classifies one (employee, survey) pair.
type CompletionState string

const (
	CompletionAssigned   CompletionState = "assigned"
	CompletionIncomplete CompletionState = "incomplete"
	CompletionCompleted  CompletionState = "completed"
)

// ClassifySurvey derives the completion state from the answer rows:
// completed when any row is final, incomplete when rows exist but none
// is final, assigned when no rows exist. Never stored.
func (s *SurveyService) ClassifySurvey(surveyID, employeeID uint64) (CompletionState, error) {
	hasAny, err := s.responseRepo.HasAny(surveyID, employeeID)
	if err != nil {
		return "", fmt.Errorf("failed to count responses: %w", err)
	}
	if !hasAny {
		return CompletionAssigned, nil
	}

	hasFinal, err := s.responseRepo.HasFinal(surveyID, employeeID)
	if err != nil {
		return "", fmt.Errorf("failed to check final responses: %w", err)
	}
	if hasFinal {
		return CompletionCompleted, nil
	}
	return CompletionIncomplete, nil
}

// QuestionList returns a survey's questions and the employee's existing
// answers. The survey must be assigned to the employee.
func (s *SurveyService) QuestionList(emp *models.Employee, surveyID uint64) (*models.Survey, []models.Response, error) {
	assigned, err := s.surveyRepo.IsAssigned(surveyID, emp.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check assignment: %w", err)
	}
	if !assigned {
		return nil, nil, ErrSurveyNotFound
	}

	survey, err := s.surveyRepo.FindByID(surveyID, "Questions")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrSurveyNotFound
		}
		return nil, nil, fmt.Errorf("failed to find survey: %w", err)
	}

	responses, err := s.responseRepo.ListForSubmission(surveyID, emp.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list responses: %w", err)
	}

	return survey, responses, nil
}

// verifyAssignmentOwnership rejects question or employee ids that do
// not belong to the target organization, keeping the pickers tenant
// scoped even against hand-crafted requests.
func (s *SurveyService) verifyAssignmentOwnership(orgID uint64, questionIDs, employeeIDs []uint64) error {
	if len(questionIDs) > 0 {
		count, err := s.questionRepo.CountByIDs(questionIDs, orgID)
		if err != nil {
			return fmt.Errorf("failed to verify questions: %w", err)
		}
		if int(count) != len(uniqueUint64(questionIDs)) {
			return ErrCrossTenantAssignment
		}
	}
	if len(employeeIDs) > 0 {
		count, err := s.employeeRepo.CountByIDs(employeeIDs, orgID)
		if err != nil {
			return fmt.Errorf("failed to verify employees: %w", err)
		}
		if int(count) != len(uniqueUint64(employeeIDs)) {
			return ErrCrossTenantAssignment
		}
	}
	return nil
}

// notifyAssignedEmployees emails each newly assigned employee. Delivery
// is fire-and-forget: failures are logged and the save stands.
func (s *SurveyService) notifyAssignedEmployees(survey *models.Survey, employeeIDs []uint64) {
	for _, id := range employeeIDs {
		emp, err := s.employeeRepo.FindByID(id, func(db *gorm.DB) *gorm.DB { return db })
		if err != nil {
			s.logger.Error("failed to load employee for assignment email",
				zap.Uint64("employee_id", id), zap.Error(err))
			continue
		}

		body := fmt.Sprintf("Hello %s,<br><br>You have been assigned the survey %q.<br>"+
			"Please log in to survey management and complete your survey: %s/employee/<br><br>"+
			"Thanks,<br>Survey Management Team", emp.Name, survey.Name, s.baseURL)

		if err := s.mail.Send("Survey Feedback", body, emp.Username); err != nil {
			s.logger.Error("assignment email failed",
				zap.String("employee", emp.Username),
				zap.Uint64("survey_id", survey.ID),
				zap.Error(err))
			continue
		}
		s.logger.Info("assignment email sent",
			zap.String("employee", emp.Username),
			zap.Uint64("survey_id", survey.ID))
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
