package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/surveyhq/survey-management-api/internal/access"
	"github.com/surveyhq/survey-management-api/internal/dto"
	apierrors "github.com/surveyhq/survey-management-api/internal/errors"
	"github.com/surveyhq/survey-management-api/internal/middleware"
	"github.com/surveyhq/survey-management-api/internal/models"
	"github.com/surveyhq/survey-management-api/internal/repository"
	"github.com/surveyhq/survey-management-api/internal/services"
	"github.com/surveyhq/survey-management-api/internal/utils"
	"gorm.io/gorm"
)

// QuestionAdminHandler serves question administration.
type QuestionAdminHandler struct {
	questionRepo repository.QuestionRepository
	adminService *services.AdminService
	aiService    *services.AIService
}

// NewQuestionAdminHandler creates a new QuestionAdminHandler.
func NewQuestionAdminHandler(questionRepo repository.QuestionRepository, adminService *services.AdminService, aiService *services.AIService) *QuestionAdminHandler {
	return &QuestionAdminHandler{
		questionRepo: questionRepo,
		adminService: adminService,
		aiService:    aiService,
	}
}

// List returns questions visible to the caller.
func (h *QuestionAdminHandler) List(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	questions, total, err := h.questionRepo.List(access.Scope(access.EntityQuestion, caller), params)
	if err != nil {
		apierrors.InternalError(c, "Failed to list questions")
		return
	}

	items := make([]dto.QuestionDTO, len(questions))
	for i, q := range questions {
		items[i] = dto.ToQuestionDTO(q)
	}

	c.JSON(http.StatusOK, gin.H{
		"questions": items,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// Get returns one question visible to the caller.
func (h *QuestionAdminHandler) Get(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid question ID")
		return
	}

	q, err := h.questionRepo.FindByID(id, access.Scope(access.EntityQuestion, caller))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Question not found")
			return
		}
		apierrors.InternalError(c, "Failed to load question")
		return
	}

	c.JSON(http.StatusOK, dto.ToQuestionDTO(*q))
}

// SaveQuestionRequest represents the request body for creating or
// updating a question.
type SaveQuestionRequest struct {
	Text           string `json:"text" binding:"required"`
	Type           string `json:"type"`
	Required       bool   `json:"required"`
	Choices        string `json:"choices"`
	OrganizationID uint64 `json:"organization_id"`
}

// Create creates a question in the caller's organization.
func (h *QuestionAdminHandler) Create(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if !access.Can(access.EntityQuestion, access.OpCreate) {
		apierrors.Forbidden(c, "Operation disabled")
		return
	}

	var req SaveQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	q, err := h.adminService.CreateQuestion(caller, services.SaveQuestionInput{
		Text:           req.Text,
		Type:           models.QuestionType(req.Type),
		Required:       req.Required,
		Choices:        req.Choices,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		if errors.Is(err, services.ErrChoicesRequired) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		if errors.Is(err, services.ErrOrganizationRequired) {
			apierrors.BadRequest(c, "An organization must be specified")
			return
		}
		apierrors.InternalError(c, "Failed to create question")
		return
	}

	c.JSON(http.StatusCreated, dto.ToQuestionDTO(*q))
}

// Update edits a question visible to the caller.
func (h *QuestionAdminHandler) Update(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if !access.Can(access.EntityQuestion, access.OpUpdate) {
		apierrors.Forbidden(c, "Operation disabled")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid question ID")
		return
	}

	var req SaveQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	q, err := h.adminService.UpdateQuestion(caller, id, services.SaveQuestionInput{
		Text:     req.Text,
		Type:     models.QuestionType(req.Type),
		Required: req.Required,
		Choices:  req.Choices,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrQuestionNotVisible):
			apierrors.NotFound(c, "Question not found")
		case errors.Is(err, services.ErrChoicesRequired):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to update question")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToQuestionDTO(*q))
}

// Delete soft deletes a question visible to the caller.
func (h *QuestionAdminHandler) Delete(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if !access.Can(access.EntityQuestion, access.OpDelete) {
		apierrors.Forbidden(c, "Operation disabled")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid question ID")
		return
	}

	if _, err := h.questionRepo.FindByID(id, access.Scope(access.EntityQuestion, caller)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Question not found")
			return
		}
		apierrors.InternalError(c, "Failed to load question")
		return
	}

	if err := h.questionRepo.Delete(id); err != nil {
		apierrors.InternalError(c, "Failed to delete question")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Suggest asks the language model for draft questions based on a free
// text description of what the survey should measure.
func (h *QuestionAdminHandler) Suggest(c *gin.Context) {
	if h.aiService == nil {
		apierrors.ServiceUnavailable(c, "AI suggestions are not configured")
		return
	}

	type SuggestRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	suggestions, err := h.aiService.SuggestQuestionsFromText(c.Request.Context(), req.Text)
	if err != nil {
		apierrors.ServiceUnavailable(c, "Failed to generate suggestions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": suggestions})
}
