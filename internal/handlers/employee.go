package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/surveyhq/survey-management-api/internal/dto"
	apierrors "github.com/surveyhq/survey-management-api/internal/errors"
	"github.com/surveyhq/survey-management-api/internal/middleware"
	"github.com/surveyhq/survey-management-api/internal/services"
)

// EmployeeHandler serves the employee-facing survey flow: dashboard,
// question list, and answer submission.
type EmployeeHandler struct {
	surveyService   *services.SurveyService
	responseService *services.ResponseService
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(surveyService *services.SurveyService, responseService *services.ResponseService) *EmployeeHandler {
	return &EmployeeHandler{
		surveyService:   surveyService,
		responseService: responseService,
	}
}

// Dashboard lists the caller's assigned surveys bucketed by date window
// with completion classification of the active ones.
func (h *EmployeeHandler) Dashboard(c *gin.Context) {
	emp, ok := middleware.GetEmployee(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	dash, err := h.surveyService.BuildDashboard(&emp, time.Now())
	if err != nil {
		apierrors.InternalError(c, "Failed to build dashboard")
		return
	}

	c.JSON(http.StatusOK, dto.DashboardDTO{
		Employee:             dto.ToEmployeeDTO(emp),
		ActiveSurveys:        dto.ToSurveyDTOs(dash.Active),
		UpcomingSurveys:      dto.ToSurveyDTOs(dash.Upcoming),
		ExpiredSurveys:       dto.ToSurveyDTOs(dash.Expired),
		CurrentSurveys:       dto.ToSurveyDTOs(dash.Current),
		CompletedSurveys:     dto.ToSurveyDTOs(dash.Completed),
		IncompleteSurveys:    dto.ToSurveyDTOs(dash.Incomplete),
		AssignedSurveys:      dto.ToSurveyDTOs(dash.Assigned),
		CompletedSurveyCount: len(dash.Completed),
		PendingSurveyCount:   len(dash.Assigned),
	})
}

// QuestionList renders one survey's questions together with the
// caller's existing answers.
func (h *EmployeeHandler) QuestionList(c *gin.Context) {
	emp, ok := middleware.GetEmployee(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	surveyID, err := strconv.ParseUint(c.Param("survey_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid survey ID")
		return
	}

	survey, responses, err := h.surveyService.QuestionList(&emp, surveyID)
	if err != nil {
		if errors.Is(err, services.ErrSurveyNotFound) {
			apierrors.NotFound(c, "Survey not found")
			return
		}
		apierrors.InternalError(c, "Failed to load questions")
		return
	}

	questions := make([]dto.QuestionDTO, len(survey.Questions))
	for i, q := range survey.Questions {
		questions[i] = dto.ToQuestionDTO(q)
	}

	c.JSON(http.StatusOK, dto.QuestionListDTO{
		Survey:    dto.ToSurveyDTO(*survey),
		Questions: questions,
		Responses: dto.ToResponseDTOs(responses),
		Employee:  dto.ToEmployeeDTO(emp),
	})
}

// Save accepts a form-encoded answer submission and runs the response
// ledger workflow.
func (h *EmployeeHandler) Save(c *gin.Context) {
	emp, ok := middleware.GetEmployee(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	surveyID, err := strconv.ParseUint(c.Param("survey_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid survey ID")
		return
	}

	if err := c.Request.ParseForm(); err != nil {
		apierrors.BadRequest(c, "Invalid form data")
		return
	}

	result, err := h.responseService.Submit(&emp, surveyID, c.Request.PostForm)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSurveyNotFound):
			apierrors.NotFound(c, "Survey not found")
		case errors.Is(err, services.ErrQuestionNotInSurvey):
			apierrors.NotFound(c, "Question not found")
		default:
			apierrors.InternalError(c, "Failed to save responses")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"created":   result.Created,
		"finished":  result.Finished,
		"responses": dto.ToResponseDTOs(result.Responses),
	})
}
