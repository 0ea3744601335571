// The notifier is a batch binary meant to run once per day from cron.
// It scans survey date windows and emails assigned employees about
// surveys starting, started, ending, and ended.
package main

import (
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/surveyhq/survey-management-api/internal/config"
	"github.com/surveyhq/survey-management-api/internal/database"
	"github.com/surveyhq/survey-management-api/internal/mailer"
	"github.com/surveyhq/survey-management-api/internal/repository"
	"github.com/surveyhq/survey-management-api/internal/services"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := database.Connect(cfg); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	db := database.GetDB()
	surveyRepo := repository.NewSurveyRepository(db)
	logRepo := repository.NewNotificationLogRepository(db)
	mail := mailer.NewSMTPMailer(cfg, logger)

	notifier := services.NewNotificationService(surveyRepo, logRepo, mail, cfg.BaseURL, logger)

	start := time.Now()
	if err := notifier.Run(start); err != nil {
		logger.Fatal("Notification run failed", zap.Error(err))
	}
	logger.Info("Notification run finished", zap.Duration("took", time.Since(start)))
}
