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

// RequireAdminAuth checks for an admin console session and builds the
// caller value with the account's organization and superuser flag.
func RequireAdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		principal := session.Get(constants.SessionKeyPrincipal)
		username := session.Get(constants.SessionKeyUsername)

		if username == nil || principal != constants.PrincipalAdmin {
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

		var admin models.AdminUser
		if err := database.GetDB().Where("username = ?", name).First(&admin).Error; err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		caller := access.Caller{
			AdminID:   admin.ID,
			Superuser: admin.Superuser,
		}
		if admin.OrganizationID != nil {
			caller.OrganizationID = *admin.OrganizationID
		}

		c.Set(constants.ContextKeyCaller, caller)
		c.Next()
	}
}

// RequireSuperuser gates actions that cross tenant boundaries, such as
// archiving organizations.
func RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := GetCaller(c)
		if !ok || !caller.Superuser {
			apierrors.Forbidden(c, "Superuser privilege required")
			c.Abort()
			return
		}
		c.Next()
	}
}
