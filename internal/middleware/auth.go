package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/surveyhq/survey-management-api/internal/access"
	"github.com/surveyhq/survey-management-api/internal/constants"
	"github.com/surveyhq/survey-management-api/internal/database"
	apierrors "github.com/surveyhq/survey-management-api/internal/errors"
	"github.com/surveyhq/survey-management-api/internal/models"
)

// RequireEmployeeAuth checks for an employee session and resolves it to
// the employee record. The session only carries the login identifier;
// the caller value built here is what handlers work with.
func RequireEmployeeAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		principal := session.Get(constants.SessionKeyPrincipal)
		username := session.Get(constants.SessionKeyUsername)

		if username == nil || principal != constants.PrincipalEmployee {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		name, ok := username.(string)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var emp models.Employee
		if err := database.GetDB().Where("username = ?", name).First(&emp).Error; err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyEmployee, emp)
		c.Set(constants.ContextKeyCaller, access.Caller{
			EmployeeID:     emp.ID,
			OrganizationID: emp.OrganizationID,
		})
		c.Next()
	}
}

// GetEmployee retrieves the authenticated employee from context
func GetEmployee(c *gin.Context) (models.Employee, bool) {
	value, exists := c.Get(constants.ContextKeyEmployee)
	if !exists {
		return models.Employee{}, false
	}
	emp, ok := value.(models.Employee)
	return emp, ok
}

// GetCaller retrieves the caller value from context
func GetCaller(c *gin.Context) (access.Caller, bool) {
	value, exists := c.Get(constants.ContextKeyCaller)
	if !exists {
		return access.Caller{}, false
	}
	caller, ok := value.(access.Caller)
	return caller, ok
}
