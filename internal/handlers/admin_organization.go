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

// OrganizationAdminHandler serves organization administration.
type OrganizationAdminHandler struct {
	orgRepo      repository.OrganizationRepository
	adminService *services.AdminService
}

// NewOrganizationAdminHandler creates a new OrganizationAdminHandler.
func NewOrganizationAdminHandler(orgRepo repository.OrganizationRepository, adminService *services.AdminService) *OrganizationAdminHandler {
	return &OrganizationAdminHandler{
		orgRepo:      orgRepo,
		adminService: adminService,
	}
}

// List returns organizations visible to the caller.
func (h *OrganizationAdminHandler) List(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	orgs, total, err := h.orgRepo.List(access.Scope(access.EntityOrganization, caller), params)
	if err != nil {
		apierrors.InternalError(c, "Failed to list organizations")
		return
	}

	items := make([]dto.OrganizationDTO, len(orgs))
	for i, org := range orgs {
		items[i] = dto.ToOrganizationDTO(org)
	}

	c.JSON(http.StatusOK, gin.H{
		"organizations": items,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// Get returns one organization visible to the caller.
func (h *OrganizationAdminHandler) Get(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid organization ID")
		return
	}

	org, err := h.orgRepo.FindByID(id, access.Scope(access.EntityOrganization, caller))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Organization not found")
			return
		}
		apierrors.InternalError(c, "Failed to load organization")
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org))
}

// Create creates an organization. Superuser only (route-gated).
func (h *OrganizationAdminHandler) Create(c *gin.Context) {
	if !access.Can(access.EntityOrganization, access.OpCreate) {
		apierrors.Forbidden(c, "Operation disabled")
		return
	}

	type CreateOrganizationRequest struct {
		Name        string `json:"name" binding:"required"`
		Location    string `json:"location"`
		Description string `json:"description"`
	}

	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org := &models.Organization{
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
	}
	if err := h.orgRepo.Create(org); err != nil {
		apierrors.InternalError(c, "Failed to create organization")
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganizationDTO(*org))
}

// Update edits an organization visible to the caller.
func (h *OrganizationAdminHandler) Update(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if !access.Can(access.EntityOrganization, access.OpUpdate) {
		apierrors.Forbidden(c, "Operation disabled")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid organization ID")
		return
	}

	type UpdateOrganizationRequest struct {
		Name        *string `json:"name"`
		Location    *string `json:"location"`
		Description *string `json:"description"`
	}

	var req UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgRepo.FindByID(id, access.Scope(access.EntityOrganization, caller))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Organization not found")
			return
		}
		apierrors.InternalError(c, "Failed to load organization")
		return
	}

	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.Location != nil {
		org.Location = *req.Location
	}
	if req.Description != nil {
		org.Description = *req.Description
	}

	if err := h.orgRepo.Update(org); err != nil {
		apierrors.InternalError(c, "Failed to update organization")
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org))
}

// Archive marks an organization archived, hiding it and its rows from
// every non-superuser query.
func (h *OrganizationAdminHandler) Archive(c *gin.Context) {
	h.setArchived(c, true)
}

// Restore clears the archived flag.
func (h *OrganizationAdminHandler) Restore(c *gin.Context) {
	h.setArchived(c, false)
}

func (h *OrganizationAdminHandler) setArchived(c *gin.Context, archived bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid organization ID")
		return
	}

	if err := h.adminService.SetOrganizationArchived(id, archived); err != nil {
		if errors.Is(err, services.ErrOrganizationNotFound) {
			apierrors.NotFound(c, "Organization not found")
			return
		}
		apierrors.InternalError(c, "Failed to update organization")
		return
	}

	c.JSON(http.StatusOK, gin.H{"archived": archived})
}
