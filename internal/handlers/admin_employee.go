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
	"github.com/surveyhq/survey-management-api/internal/repository"
	"github.com/surveyhq/survey-management-api/internal/services"
	"github.com/surveyhq/survey-management-api/internal/utils"
	"gorm.io/gorm"
)

// EmployeeAdminHandler serves employee administration.
type EmployeeAdminHandler struct {
	employeeRepo repository.EmployeeRepository
	adminService *services.AdminService
}

// NewEmployeeAdminHandler creates a new EmployeeAdminHandler.
func NewEmployeeAdminHandler(employeeRepo repository.EmployeeRepository, adminService *services.AdminService) *EmployeeAdminHandler {
	return &EmployeeAdminHandler{
		employeeRepo: employeeRepo,
		adminService: adminService,
	}
}

// List returns employees visible to the caller.
func (h *EmployeeAdminHandler) List(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	employees, total, err := h.employeeRepo.List(access.Scope(access.EntityEmployee, caller), params)
	if err != nil {
		apierrors.InternalError(c, "Failed to list employees")
		return
	}

	items := make([]dto.EmployeeDTO, len(employees))
	for i, emp := range employees {
		items[i] = dto.ToEmployeeDTO(emp)
	}

	c.JSON(http.StatusOK, gin.H{
		"employees": items,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// Get returns one employee visible to the caller.
func (h *EmployeeAdminHandler) Get(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid employee ID")
		return
	}

	emp, err := h.employeeRepo.FindByID(id, access.Scope(access.EntityEmployee, caller))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Employee not found")
			return
		}
		apierrors.InternalError(c, "Failed to load employee")
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeDTO(*emp))
}

// Create creates an employee in the caller's organization. The response
// carries the generated temporary password once; it is never shown again.
func (h *EmployeeAdminHandler) Create(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if !access.Can(access.EntityEmployee, access.OpCreate) {
		apierrors.Forbidden(c, "Operation disabled")
		return
	}

	type CreateEmployeeRequest struct {
		Name           string `json:"name" binding:"required"`
		Username       string `json:"username" binding:"required,email"`
		Designation    string `json:"designation"`
		Address        string `json:"address"`
		OrganizationID uint64 `json:"organization_id"`
	}

	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	emp, tempPassword, err := h.adminService.CreateEmployee(caller, services.CreateEmployeeInput{
		Name:           req.Name,
		Username:       req.Username,
		Designation:    req.Designation,
		Address:        req.Address,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			apierrors.Conflict(c, "An account with this email already exists")
			return
		}
		if errors.Is(err, services.ErrOrganizationRequired) {
			apierrors.BadRequest(c, "An organization must be specified")
			return
		}
		apierrors.InternalError(c, "Failed to create employee")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"employee":           dto.ToEmployeeDTO(*emp),
		"temporary_password": tempPassword,
	})
}

// Update edits an employee visible to the caller.
func (h *EmployeeAdminHandler) Update(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if !access.Can(access.EntityEmployee, access.OpUpdate) {
		apierrors.Forbidden(c, "Operation disabled")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid employee ID")
		return
	}

	type UpdateEmployeeRequest struct {
		Name        *string `json:"name"`
		Designation *string `json:"designation"`
		Address     *string `json:"address"`
	}

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	emp, err := h.adminService.UpdateEmployee(caller, id, services.UpdateEmployeeInput{
		Name:        req.Name,
		Designation: req.Designation,
		Address:     req.Address,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmployeeNotVisible) {
			apierrors.NotFound(c, "Employee not found")
			return
		}
		apierrors.InternalError(c, "Failed to update employee")
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeDTO(*emp))
}

// Delete soft deletes an employee visible to the caller.
func (h *EmployeeAdminHandler) Delete(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if !access.Can(access.EntityEmployee, access.OpDelete) {
		apierrors.Forbidden(c, "Operation disabled")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid employee ID")
		return
	}

	if _, err := h.employeeRepo.FindByID(id, access.Scope(access.EntityEmployee, caller)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Employee not found")
			return
		}
		apierrors.InternalError(c, "Failed to load employee")
		return
	}

	if err := h.employeeRepo.Delete(id); err != nil {
		apierrors.InternalError(c, "Failed to delete employee")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
