package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/surveyhq/survey-management-api/internal/access"
	"github.com/surveyhq/survey-management-api/internal/dto"
	apierrors "github.com/surveyhq/survey-management-api/internal/errors"
	"github.com/surveyhq/survey-management-api/internal/middleware"
	"github.com/surveyhq/survey-management-api/internal/repository"
	"github.com/surveyhq/survey-management-api/internal/services"
	"github.com/surveyhq/survey-management-api/internal/utils"
	"gorm.io/gorm"
)

// SurveyAdminHandler serves survey administration.
type SurveyAdminHandler struct {
	surveyRepo    repository.SurveyRepository
	questionRepo  repository.QuestionRepository
	employeeRepo  repository.EmployeeRepository
	surveyService *services.SurveyService
}

// NewSurveyAdminHandler creates a new SurveyAdminHandler.
func NewSurveyAdminHandler(
	surveyRepo repository.SurveyRepository,
	questionRepo repository.QuestionRepository,
	employeeRepo repository.EmployeeRepository,
	surveyService *services.SurveyService,
) *SurveyAdminHandler {
	return &SurveyAdminHandler{
		surveyRepo:    surveyRepo,
		questionRepo:  questionRepo,
		employeeRepo:  employeeRepo,
		surveyService: surveyService,
	}
}

// SaveSurveyRequest represents the request body for creating or
// updating a survey. Dates use the YYYY-MM-DD form.
type SaveSurveyRequest struct {
	Name           string   `json:"name" binding:"required"`
	Description    string   `json:"description"`
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
	QuestionIDs    []uint64 `json:"question_ids"`
	EmployeeIDs    []uint64 `json:"employee_ids"`
	OrganizationID uint64   `json:"organization_id"`
}

func (r SaveSurveyRequest) toInput() (services.SaveSurveyInput, error) {
	input := services.SaveSurveyInput{
		Name:           r.Name,
		Description:    r.Description,
		QuestionIDs:    r.QuestionIDs,
		EmployeeIDs:    r.EmployeeIDs,
		OrganizationID: r.OrganizationID,
	}

	if r.StartDate != "" {
		t, err := time.Parse("2006-01-02", r.StartDate)
		if err != nil {
			return input, err
		}
		input.StartDate = &t
	}
	if r.EndDate != "" {
		t, err := time.Parse("2006-01-02", r.EndDate)
		if err != nil {
			return input, err
		}
		input.EndDate = &t
	}
	return input, nil
}

// List returns surveys visible to the caller.
func (h *SurveyAdminHandler) List(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	surveys, total, err := h.surveyRepo.List(access.Scope(access.EntitySurvey, caller), params)
	if err != nil {
		apierrors.InternalError(c, "Failed to list surveys")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"surveys": dto.ToSurveyDTOs(surveys),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// Get returns one survey visible to the caller, with its questions and
// assigned employees.
func (h *SurveyAdminHandler) Get(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid survey ID")
		return
	}

	survey, err := h.surveyRepo.FindScoped(id, access.Scope(access.EntitySurvey, caller), "Questions", "Employees")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Survey not found")
			return
		}
		apierrors.InternalError(c, "Failed to load survey")
		return
	}

	c.JSON(http.StatusOK, dto.ToSurveyDTO(*survey))
}

// Create creates a survey in the caller's organization.
func (h *SurveyAdminHandler) Create(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if !access.Can(access.EntitySurvey, access.OpCreate) {
		apierrors.Forbidden(c, "Operation disabled")
		return
	}

	var req SaveSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, err := req.toInput()
	if err != nil {
		apierrors.BadRequest(c, "Dates must use the YYYY-MM-DD form")
		return
	}

	survey, err := h.surveyService.CreateSurvey(caller, input)
	if err != nil {
		if errors.Is(err, services.ErrCrossTenantAssignment) {
			apierrors.NotFound(c, "One or more assigned ids were not found")
			return
		}
		if errors.Is(err, services.ErrOrganizationRequired) {
			apierrors.BadRequest(c, "An organization must be specified")
			return
		}
		apierrors.InternalError(c, "Failed to create survey")
		return
	}

	c.JSON(http.StatusCreated, dto.ToSurveyDTO(*survey))
}

// Update edits a survey visible to the caller and replaces its
// assignments.
func (h *SurveyAdminHandler) Update(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if !access.Can(access.EntitySurvey, access.OpUpdate) {
		apierrors.Forbidden(c, "Operation disabled")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid survey ID")
		return
	}

	var req SaveSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, err := req.toInput()
	if err != nil {
		apierrors.BadRequest(c, "Dates must use the YYYY-MM-DD form")
		return
	}

	survey, err := h.surveyService.UpdateSurvey(caller, id, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSurveyNotFound):
			apierrors.NotFound(c, "Survey not found")
		case errors.Is(err, services.ErrCrossTenantAssignment):
			apierrors.NotFound(c, "One or more assigned ids were not found")
		case errors.Is(err, services.ErrOrganizationRequired):
			apierrors.BadRequest(c, "An organization must be specified")
		default:
			apierrors.InternalError(c, "Failed to update survey")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToSurveyDTO(*survey))
}

// Delete soft deletes a survey visible to the caller.
func (h *SurveyAdminHandler) Delete(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if !access.Can(access.EntitySurvey, access.OpDelete) {
		apierrors.Forbidden(c, "Operation disabled")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid survey ID")
		return
	}

	if _, err := h.surveyRepo.FindScoped(id, access.Scope(access.EntitySurvey, caller)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Survey not found")
			return
		}
		apierrors.InternalError(c, "Failed to load survey")
		return
	}

	if err := h.surveyRepo.Delete(id); err != nil {
		apierrors.InternalError(c, "Failed to delete survey")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Options returns the questions and employees the caller may assign to
// a survey, already narrowed to the caller's organization so the survey
// form never offers another tenant's rows.
func (h *SurveyAdminHandler) Options(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.FullList(1000)

	questions, _, err := h.questionRepo.List(access.Scope(access.EntityQuestion, caller), params)
	if err != nil {
		apierrors.InternalError(c, "Failed to list questions")
		return
	}
	employees, _, err := h.employeeRepo.List(access.Scope(access.EntityEmployee, caller), params)
	if err != nil {
		apierrors.InternalError(c, "Failed to list employees")
		return
	}

	questionItems := make([]dto.QuestionDTO, len(questions))
	for i, q := range questions {
		questionItems[i] = dto.ToQuestionDTO(q)
	}
	employeeItems := make([]dto.EmployeeDTO, len(employees))
	for i, emp := range employees {
		employeeItems[i] = dto.ToEmployeeDTO(emp)
	}

	c.JSON(http.StatusOK, gin.H{
		"questions": questionItems,
		"employees": employeeItems,
	})
}
