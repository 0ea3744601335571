package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/surveyhq/survey-management-api/internal/constants"
	"github.com/surveyhq/survey-management-api/internal/dto"
	apierrors "github.com/surveyhq/survey-management-api/internal/errors"
	"github.com/surveyhq/survey-management-api/internal/middleware"
	"github.com/surveyhq/survey-management-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Gateway is the entry point for both employee and admin sign-in.
func (h *AuthHandler) Gateway(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":     "Survey Management",
		"login":       "/login/",
		"admin_login": "/admin/login/",
	})
}

// Login authenticates an employee with the credentials provided by the
// admin and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		apierrors.BadRequest(c, "Username and password are required")
		return
	}

	emp, err := h.authService.EmployeeLogin(services.LoginInput{
		Username: username,
		Password: password,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			apierrors.Unauthorized(c, err.Error())
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyUsername, emp.Username)
	session.Set(constants.SessionKeyPrincipal, constants.PrincipalEmployee)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeDTO(*emp))
}

// AdminLogin authenticates an admin console account.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		apierrors.BadRequest(c, "Username and password are required")
		return
	}

	admin, err := h.authService.AdminLogin(services.LoginInput{
		Username: username,
		Password: password,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			apierrors.Unauthorized(c, err.Error())
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyUsername, admin.Username)
	session.Set(constants.SessionKeyPrincipal, constants.PrincipalAdmin)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username":  admin.Username,
		"superuser": admin.Superuser,
	})
}

// Me returns the authenticated employee.
func (h *AuthHandler) Me(c *gin.Context) {
	emp, ok := middleware.GetEmployee(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	c.JSON(http.StatusOK, dto.ToEmployeeDTO(emp))
}

// ChangePassword lets the authenticated employee replace the password
// issued by the admin.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	emp, ok := middleware.GetEmployee(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	current := c.PostForm("current_password")
	next := c.PostForm("new_password")
	if current == "" || next == "" {
		apierrors.BadRequest(c, "Current and new password are required")
		return
	}

	if err := h.authService.ChangePassword(&emp, current, next); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			apierrors.Unauthorized(c, err.Error())
		case errors.Is(err, services.ErrPasswordTooShort):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to change password")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// Logout destroys the session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}
