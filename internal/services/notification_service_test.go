package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/surveyhq/survey-management-api/internal/mailer"
	"github.com/surveyhq/survey-management-api/internal/models"
	"github.com/surveyhq/survey-management-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type notificationTestEnv struct {
	db       *gorm.DB
	recorder *mailer.Recorder
	service  *NotificationService

	org models.Organization
}

func setupNotificationTestEnv(t *testing.T) *notificationTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Organization{},
		&models.Employee{},
		&models.Question{},
		&models.Survey{},
		&models.Response{},
		&models.NotificationLog{},
	)
	require.NoError(t, err)

	recorder := &mailer.Recorder{}
	service := NewNotificationService(
		repository.NewSurveyRepository(db),
		repository.NewNotificationLogRepository(db),
		recorder,
		"http://test",
		nil,
	)

	org := models.Organization{Name: "Acme"}
	require.NoError(t, db.Create(&org).Error)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return &notificationTestEnv{
		db:       db,
		recorder: recorder,
		service:  service,
		org:      org,
	}
}

func (env *notificationTestEnv) createEmployee(t *testing.T, username string) models.Employee {
	t.Helper()
	emp := models.Employee{
		Name:           "Employee",
		Username:       username,
		PasswordHash:   "x",
		OrganizationID: env.org.ID,
	}
	require.NoError(t, env.db.Create(&emp).Error)
	return emp
}

func (env *notificationTestEnv) createSurvey(t *testing.T, name string, start, end time.Time, assignees ...models.Employee) models.Survey {
	t.Helper()
	survey := models.Survey{
		Name:           name,
		StartDate:      &start,
		EndDate:        &end,
		Status:         models.SurveyNotStarted,
		OrganizationID: env.org.ID,
		Employees:      assignees,
	}
	require.NoError(t, env.db.Create(&survey).Error)
	return survey
}

var errDelivery = errors.New("smtp down")

func subjects(sent []mailer.SentMessage) []string {
	out := make([]string, len(sent))
	for i, msg := range sent {
		out[i] = msg.Subject
	}
	return out
}

func TestNotificationService_FourScans(t *testing.T) {
	env := setupNotificationTestEnv(t)

	today := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	alice := env.createEmployee(t, "alice@acme.example")
	bob := env.createEmployee(t, "bob@acme.example")

	env.createSurvey(t, "Starts tomorrow", today.AddDate(0, 0, 1), today.AddDate(0, 0, 10), alice, bob)
	env.createSurvey(t, "Starts today", today, today.AddDate(0, 0, 5), alice)
	env.createSurvey(t, "Ends tomorrow", today.AddDate(0, 0, -5), today.AddDate(0, 0, 1), alice)
	env.createSurvey(t, "Already ended", today.AddDate(0, 0, -10), today.AddDate(0, 0, -1), alice)
	// Mid-window: matches no scan.
	env.createSurvey(t, "Mid window", today.AddDate(0, 0, -2), today.AddDate(0, 0, 2), alice)

	require.NoError(t, env.service.Run(today))

	sent := env.recorder.Sent()
	require.Len(t, sent, 5)
	require.ElementsMatch(t, []string{
		"You have a new survey coming tomorrow.",
		"You have a new survey coming tomorrow.",
		"You have a new survey in your dashboard.",
		"Survey assigned to you ending tomorrow.",
		"Survey assigned to you was ended.",
	}, subjects(sent))
}

func TestNotificationService_SameDayRerunSendsNothing(t *testing.T) {
	env := setupNotificationTestEnv(t)

	today := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	alice := env.createEmployee(t, "alice@acme.example")
	env.createSurvey(t, "Starts today", today, today.AddDate(0, 0, 5), alice)

	require.NoError(t, env.service.Run(today))
	require.Len(t, env.recorder.Sent(), 1)

	// A crashed-and-restarted scheduler reruns the same day without
	// mailing anyone twice.
	require.NoError(t, env.service.Run(today.Add(4*time.Hour)))
	require.Len(t, env.recorder.Sent(), 1)
}

func TestNotificationService_EndedScanRepeatsAcrossDays(t *testing.T) {
	env := setupNotificationTestEnv(t)

	today := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	alice := env.createEmployee(t, "alice@acme.example")
	env.createSurvey(t, "Already ended", today.AddDate(0, 0, -10), today.AddDate(0, 0, -1), alice)

	require.NoError(t, env.service.Run(today))
	require.Len(t, env.recorder.Sent(), 1)

	// The ended scan matches again the next day; the per-day log does
	// not suppress it.
	require.NoError(t, env.service.Run(today.AddDate(0, 0, 1)))
	require.Len(t, env.recorder.Sent(), 2)
}

func TestNotificationService_FailedSendRetriesSameDay(t *testing.T) {
	env := setupNotificationTestEnv(t)

	today := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	alice := env.createEmployee(t, "alice@acme.example")
	env.createSurvey(t, "Starts today", today, today.AddDate(0, 0, 5), alice)

	env.recorder.FailWith = errDelivery
	require.NoError(t, env.service.Run(today))

	// The failed delivery was not logged, so the rerun tries again.
	env.recorder.FailWith = nil
	require.NoError(t, env.service.Run(today))

	sent := env.recorder.Sent()
	require.Len(t, sent, 2)

	var logs int64
	require.NoError(t, env.db.Model(&models.NotificationLog{}).Count(&logs).Error)
	require.Equal(t, int64(1), logs)
}
