package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/surveyhq/survey-management-api/internal/constants"
	"github.com/surveyhq/survey-management-api/internal/database"
	"github.com/surveyhq/survey-management-api/internal/dto"
	"github.com/surveyhq/survey-management-api/internal/models"
	"github.com/surveyhq/survey-management-api/internal/repository"
	"github.com/surveyhq/survey-management-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db      *gorm.DB
	handler *AuthHandler
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Organization{},
		&models.AdminUser{},
		&models.Employee{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	authService := services.NewAuthService(
		repository.NewEmployeeRepository(db),
		repository.NewAdminUserRepository(db),
	)
	handler := NewAuthHandler(authService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:      db,
		handler: handler,
	}
}

func (env authTestEnv) createEmployee(t *testing.T, username, password string, orgID uint64) models.Employee {
	t.Helper()

	hash, err := services.HashPassword(password)
	require.NoError(t, err)

	emp := models.Employee{
		Name:           "Test Employee",
		Username:       username,
		PasswordHash:   hash,
		OrganizationID: orgID,
	}
	require.NoError(t, env.db.Create(&emp).Error)
	return emp
}

func postForm(t *testing.T, r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	org := models.Organization{Name: "Acme"}
	require.NoError(t, env.db.Create(&org).Error)
	env.createEmployee(t, "alice@acme.example", "supersecret", org.ID)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/login/", env.handler.Login)

	w := postForm(t, r, "/login/", url.Values{
		"username": {"alice@acme.example"},
		"password": {"supersecret"},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.EmployeeDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "alice@acme.example", response.Username)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	org := models.Organization{Name: "Acme"}
	require.NoError(t, env.db.Create(&org).Error)
	env.createEmployee(t, "alice@acme.example", "supersecret", org.ID)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/login/", env.handler.Login)

	w := postForm(t, r, "/login/", url.Values{
		"username": {"alice@acme.example"},
		"password": {"wrong"},
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Login_UnknownUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/login/", env.handler.Login)

	w := postForm(t, r, "/login/", url.Values{
		"username": {"nobody@acme.example"},
		"password": {"whatever"},
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_AdminLogin(t *testing.T) {
	env := setupAuthTestEnv(t)

	hash, err := services.HashPassword("adminsecret")
	require.NoError(t, err)
	admin := models.AdminUser{
		Username:     "root",
		PasswordHash: hash,
		Superuser:    true,
	}
	require.NoError(t, env.db.Create(&admin).Error)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/admin/login/", env.handler.AdminLogin)

	w := postForm(t, r, "/admin/login/", url.Values{
		"username": {"root"},
		"password": {"adminsecret"},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "root", response["username"])
	require.Equal(t, true, response["superuser"])
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/logout/", env.handler.Logout)

	w := postForm(t, r, "/logout/", url.Values{})

	require.Equal(t, http.StatusOK, w.Code)
}
