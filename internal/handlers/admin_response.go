package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/surveyhq/survey-management-api/internal/access"
	"github.com/surveyhq/survey-management-api/internal/dto"
	apierrors "github.com/surveyhq/survey-management-api/internal/errors"
	"github.com/surveyhq/survey-management-api/internal/middleware"
	"github.com/surveyhq/survey-management-api/internal/repository"
	"github.com/surveyhq/survey-management-api/internal/utils"
)

// ResponseAdminHandler exposes submitted answers to administrators.
// Answer rows are read-only from the console: they are written only by
// the employees who submit them.
type ResponseAdminHandler struct {
	responseRepo repository.ResponseRepository
}

// NewResponseAdminHandler creates a new ResponseAdminHandler.
func NewResponseAdminHandler(responseRepo repository.ResponseRepository) *ResponseAdminHandler {
	return &ResponseAdminHandler{responseRepo: responseRepo}
}

// List returns answer rows visible to the caller.
func (h *ResponseAdminHandler) List(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	responses, total, err := h.responseRepo.List(access.Scope(access.EntityResponse, caller), params)
	if err != nil {
		apierrors.InternalError(c, "Failed to list responses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"responses": dto.ToResponseDTOs(responses),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// Reject answers every write route under /admin/api/responses. The
// capability table grants administrators read access only.
func (h *ResponseAdminHandler) Reject(c *gin.Context) {
	if access.Can(access.EntityResponse, access.OpCreate) ||
		access.Can(access.EntityResponse, access.OpUpdate) ||
		access.Can(access.EntityResponse, access.OpDelete) {
		apierrors.InternalError(c, "Capability table out of sync")
		return
	}
	apierrors.Forbidden(c, "Responses are read-only")
}
