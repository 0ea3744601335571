package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/surveyhq/survey-management-api/internal/constants"
	"github.com/surveyhq/survey-management-api/internal/database"
	"github.com/surveyhq/survey-management-api/internal/dto"
	"github.com/surveyhq/survey-management-api/internal/mailer"
	"github.com/surveyhq/survey-management-api/internal/middleware"
	"github.com/surveyhq/survey-management-api/internal/models"
	"github.com/surveyhq/survey-management-api/internal/repository"
	"github.com/surveyhq/survey-management-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type employeeTestEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	recorder *mailer.Recorder

	org      models.Organization
	employee models.Employee
	password string
}

func setupEmployeeTestEnv(t *testing.T) *employeeTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Organization{},
		&models.AdminUser{},
		&models.Employee{},
		&models.Question{},
		&models.Survey{},
		&models.Response{},
		&models.NotificationLog{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	recorder := &mailer.Recorder{}

	surveyRepo := repository.NewSurveyRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	responseRepo := repository.NewResponseRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)

	authService := services.NewAuthService(employeeRepo, adminRepo)
	surveyService := services.NewSurveyService(surveyRepo, questionRepo, employeeRepo, responseRepo, recorder, "http://test", nil)
	responseService := services.NewResponseService(surveyRepo, responseRepo, recorder, "http://test", nil)

	authHandler := NewAuthHandler(authService)
	employeeHandler := NewEmployeeHandler(surveyService, responseService)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/login/", authHandler.Login)

	authed := r.Group("/")
	authed.Use(middleware.RequireEmployeeAuth())
	{
		authed.POST("/password/", authHandler.ChangePassword)
		authed.GET("/employee/", employeeHandler.Dashboard)
		authed.GET("/que_list/:survey_id", employeeHandler.QuestionList)
		authed.POST("/save/:survey_id", employeeHandler.Save)
	}

	password := "supersecret"
	hash, err := services.HashPassword(password)
	require.NoError(t, err)

	org := models.Organization{Name: "Acme"}
	require.NoError(t, db.Create(&org).Error)

	emp := models.Employee{
		Name:           "Alice",
		Username:       "alice@acme.example",
		PasswordHash:   hash,
		OrganizationID: org.ID,
	}
	require.NoError(t, db.Create(&emp).Error)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return &employeeTestEnv{
		db:       db,
		router:   r,
		recorder: recorder,
		org:      org,
		employee: emp,
		password: password,
	}
}

// login runs the real login route and returns the session cookies for
// subsequent requests.
func (env *employeeTestEnv) login(t *testing.T) []*http.Cookie {
	t.Helper()

	w := postForm(t, env.router, "/login/", url.Values{
		"username": {env.employee.Username},
		"password": {env.password},
	})
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func (env *employeeTestEnv) do(t *testing.T, method, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *employeeTestEnv) createSurvey(t *testing.T, name string, start, end time.Time, questions []models.Question, assignees ...models.Employee) models.Survey {
	t.Helper()

	for i := range questions {
		questions[i].OrganizationID = env.org.ID
		require.NoError(t, env.db.Create(&questions[i]).Error)
	}

	survey := models.Survey{
		Name:           name,
		StartDate:      &start,
		EndDate:        &end,
		Status:         models.SurveyNotStarted,
		OrganizationID: env.org.ID,
		Questions:      questions,
		Employees:      assignees,
	}
	require.NoError(t, env.db.Create(&survey).Error)
	return survey
}

func day(offset int) time.Time {
	return time.Now().AddDate(0, 0, offset)
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func TestEmployeeHandler_Save_FirstWriteWins(t *testing.T) {
	env := setupEmployeeTestEnv(t)
	cookies := env.login(t)

	survey := env.createSurvey(t, "Engagement", day(-1), day(1), []models.Question{
		{Text: "How satisfied are you?", Type: models.QuestionTypeText},
		{Text: "Pick a team", Type: models.QuestionTypeSelect, Choices: "Red,Blue"},
	}, env.employee)

	q1 := survey.Questions[0]
	q2 := survey.Questions[1]

	surveyPath := "/save/" + itoa(survey.ID)
	w := env.do(t, http.MethodPost, surveyPath, url.Values{
		"csrf_token":   {"token"},
		itoa(q1.ID):    {"Very satisfied"},
		"btn_response": {"Save"},
	}, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Created   int               `json:"created"`
		Finished  bool              `json:"finished"`
		Responses []dto.ResponseDTO `json:"responses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Equal(t, 1, result.Created)
	require.False(t, result.Finished)
	require.Len(t, result.Responses, 1)
	require.Equal(t, "Very satisfied", result.Responses[0].Answer)
	require.Equal(t, models.ResponseDraft, result.Responses[0].Status)

	// A partial save marks the survey pending.
	var reloaded models.Survey
	require.NoError(t, env.db.First(&reloaded, survey.ID).Error)
	require.Equal(t, models.SurveyPending, reloaded.Status)

	// Resubmitting the same question is silently discarded; the first
	// answer stands.
	w = env.do(t, http.MethodPost, surveyPath, url.Values{
		itoa(q1.ID): {"Changed my mind"},
		itoa(q2.ID): {"Red", "Blue"},
	}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Equal(t, 1, result.Created)
	require.Len(t, result.Responses, 2)
	require.Equal(t, "Very satisfied", result.Responses[0].Answer)
	require.Equal(t, "Red, Blue", result.Responses[1].Answer)
}

func TestEmployeeHandler_Save_ConcurrentDuplicateDiscarded(t *testing.T) {
	env := setupEmployeeTestEnv(t)
	cookies := env.login(t)

	// The in-memory sqlite database exists per connection; pin the pool
	// to one so both requests see the same data.
	sqlDB, err := env.db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	survey := env.createSurvey(t, "Engagement", day(-1), day(1), []models.Question{
		{Text: "How satisfied are you?", Type: models.QuestionTypeText},
	}, env.employee)
	q1 := survey.Questions[0]

	surveyPath := "/save/" + itoa(survey.ID)
	form := url.Values{
		itoa(q1.ID):    {"Very satisfied"},
		"btn_response": {"Save"},
	}

	// Two submissions race; the conflict-ignoring insert lets exactly
	// one row through.
	var wg sync.WaitGroup
	codes := make([]int, 2)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, surveyPath, strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			for _, c := range cookies {
				req.AddCookie(c)
			}
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, req)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	require.Equal(t, http.StatusOK, codes[0])
	require.Equal(t, http.StatusOK, codes[1])

	var count int64
	require.NoError(t, env.db.Model(&models.Response{}).
		Where("survey_id = ? AND question_id = ?", survey.ID, q1.ID).
		Count(&count).Error)
	require.EqualValues(t, 1, count)

	var response models.Response
	require.NoError(t, env.db.
		Where("survey_id = ? AND question_id = ?", survey.ID, q1.ID).
		First(&response).Error)
	require.Equal(t, "Very satisfied", response.Answer)
}

func TestEmployeeHandler_Save_FinishFinalizes(t *testing.T) {
	env := setupEmployeeTestEnv(t)
	cookies := env.login(t)

	survey := env.createSurvey(t, "Engagement", day(-1), day(1), []models.Question{
		{Text: "Q1", Type: models.QuestionTypeText},
		{Text: "Q2", Type: models.QuestionTypeText},
	}, env.employee)

	q1 := survey.Questions[0]
	q2 := survey.Questions[1]
	surveyPath := "/save/" + itoa(survey.ID)

	// Draft first.
	w := env.do(t, http.MethodPost, surveyPath, url.Values{
		itoa(q1.ID): {"draft answer"},
	}, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	// Finish with the second answer: every row flips final, including
	// the earlier draft, and the survey completes.
	w = env.do(t, http.MethodPost, surveyPath, url.Values{
		itoa(q2.ID): {"final answer"},
		"btn_response": {"Finish"},
	}, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Finished  bool              `json:"finished"`
		Responses []dto.ResponseDTO `json:"responses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.True(t, result.Finished)
	require.Len(t, result.Responses, 2)
	for _, resp := range result.Responses {
		require.Equal(t, models.ResponseFinal, resp.Status)
	}

	var reloaded models.Survey
	require.NoError(t, env.db.First(&reloaded, survey.ID).Error)
	require.Equal(t, models.SurveyCompleted, reloaded.Status)

	// Completion sends a confirmation email.
	sent := env.recorder.Sent()
	require.NotEmpty(t, sent)
	require.Equal(t, "Survey Feedback", sent[len(sent)-1].Subject)
	require.Equal(t, []string{env.employee.Username}, sent[len(sent)-1].To)
}

func TestEmployeeHandler_Save_RejectsForeignQuestion(t *testing.T) {
	env := setupEmployeeTestEnv(t)
	cookies := env.login(t)

	survey := env.createSurvey(t, "Engagement", day(-1), day(1), []models.Question{
		{Text: "Q1", Type: models.QuestionTypeText},
	}, env.employee)

	other := models.Question{Text: "Elsewhere", Type: models.QuestionTypeText, OrganizationID: env.org.ID}
	require.NoError(t, env.db.Create(&other).Error)

	w := env.do(t, http.MethodPost, "/save/"+itoa(survey.ID), url.Values{
		itoa(other.ID): {"should not land"},
	}, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.Response{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestEmployeeHandler_Save_NotAssigned(t *testing.T) {
	env := setupEmployeeTestEnv(t)
	cookies := env.login(t)

	// Survey without an assignment for the caller.
	survey := env.createSurvey(t, "Not yours", day(-1), day(1), []models.Question{
		{Text: "Q1", Type: models.QuestionTypeText},
	})

	w := env.do(t, http.MethodPost, "/save/"+itoa(survey.ID), url.Values{
		itoa(survey.Questions[0].ID): {"answer"},
	}, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestEmployeeHandler_Dashboard_Buckets(t *testing.T) {
	env := setupEmployeeTestEnv(t)
	cookies := env.login(t)

	active := env.createSurvey(t, "Active", day(-1), day(1), nil, env.employee)
	upcoming := env.createSurvey(t, "Upcoming", day(2), day(5), nil, env.employee)
	expired := env.createSurvey(t, "Expired", day(-5), day(-2), nil, env.employee)
	env.createSurvey(t, "Not assigned", day(-1), day(1), nil)

	w := env.do(t, http.MethodGet, "/employee/", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var dash dto.DashboardDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))

	require.Len(t, dash.ActiveSurveys, 1)
	require.Equal(t, active.Name, dash.ActiveSurveys[0].Name)
	require.Len(t, dash.UpcomingSurveys, 1)
	require.Equal(t, upcoming.Name, dash.UpcomingSurveys[0].Name)
	require.Len(t, dash.ExpiredSurveys, 1)
	require.Equal(t, expired.Name, dash.ExpiredSurveys[0].Name)
	require.Len(t, dash.CurrentSurveys, 1)

	// No answers yet: the active survey counts as assigned work.
	require.Len(t, dash.AssignedSurveys, 1)
	require.Empty(t, dash.CompletedSurveys)
	require.Zero(t, dash.CompletedSurveyCount)
	require.Equal(t, 1, dash.PendingSurveyCount)
}

func TestEmployeeHandler_Dashboard_BoundaryDaysOverlap(t *testing.T) {
	env := setupEmployeeTestEnv(t)
	cookies := env.login(t)

	// A survey ending today is both active and expired; the buckets are
	// computed independently.
	env.createSurvey(t, "Ends today", day(-3), day(0), nil, env.employee)

	w := env.do(t, http.MethodGet, "/employee/", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var dash dto.DashboardDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))

	require.Len(t, dash.ActiveSurveys, 1)
	require.Len(t, dash.ExpiredSurveys, 1)
}

func TestEmployeeHandler_QuestionList(t *testing.T) {
	env := setupEmployeeTestEnv(t)
	cookies := env.login(t)

	survey := env.createSurvey(t, "Engagement", day(-1), day(1), []models.Question{
		{Text: "Q1", Type: models.QuestionTypeText},
		{Text: "Q2", Type: models.QuestionTypeRadio, Choices: "Yes,No"},
	}, env.employee)

	// Answer one question first so the list carries it back.
	w := env.do(t, http.MethodPost, "/save/"+itoa(survey.ID), url.Values{
		itoa(survey.Questions[0].ID): {"existing answer"},
	}, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/que_list/"+itoa(survey.ID), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var list dto.QuestionListDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, survey.Name, list.Survey.Name)
	require.Len(t, list.Questions, 2)
	require.Len(t, list.Responses, 1)
	require.Equal(t, "existing answer", list.Responses[0].Answer)
	require.Equal(t, []string{"Yes", "No"}, list.Questions[1].Choices)
}

func TestEmployeeHandler_QuestionList_NotAssigned(t *testing.T) {
	env := setupEmployeeTestEnv(t)
	cookies := env.login(t)

	survey := env.createSurvey(t, "Not yours", day(-1), day(1), []models.Question{
		{Text: "Q1", Type: models.QuestionTypeText},
	})

	w := env.do(t, http.MethodGet, "/que_list/"+itoa(survey.ID), nil, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	env := setupEmployeeTestEnv(t)
	cookies := env.login(t)

	// Too short is rejected.
	w := env.do(t, http.MethodPost, "/password/", url.Values{
		"current_password": {env.password},
		"new_password":     {"short"},
	}, cookies)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Wrong current password is rejected.
	w = env.do(t, http.MethodPost, "/password/", url.Values{
		"current_password": {"not-it"},
		"new_password":     {"replacement1"},
	}, cookies)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/password/", url.Values{
		"current_password": {env.password},
		"new_password":     {"replacement1"},
	}, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	// The old password no longer logs in, the new one does.
	loginW := postForm(t, env.router, "/login/", url.Values{
		"username": {env.employee.Username},
		"password": {env.password},
	})
	require.Equal(t, http.StatusUnauthorized, loginW.Code)

	loginW = postForm(t, env.router, "/login/", url.Values{
		"username": {env.employee.Username},
		"password": {"replacement1"},
	})
	require.Equal(t, http.StatusOK, loginW.Code)
}

func TestEmployeeHandler_RequiresSession(t *testing.T) {
	env := setupEmployeeTestEnv(t)

	w := env.do(t, http.MethodGet, "/employee/", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
