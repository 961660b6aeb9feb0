// Package app wires the store, repositories and services together.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"spellquiz/internal/config"
	"spellquiz/internal/database"
	"spellquiz/internal/repository"
	"spellquiz/internal/service"
	"spellquiz/internal/wordset"
)

// App holds the open database and every service built on it
type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *database.DB

	WordSets  *service.WordSetService
	Practice  *service.PracticeService
	Analytics *service.AnalyticsService
	Sentences *service.SentenceService
	Backup    *service.BackupService
	Email     *service.EmailService
}

// New opens the configured database, applies migrations and builds the
// services. The caller must Close the App.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Info("database connection established", "type", db.Dialect.Name())

	if err := db.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize repositories
	wordSetRepo := repository.NewWordSetRepository(db)
	resultRepo := repository.NewResultRepository(db)
	sentenceRepo := repository.NewSentenceRepository(db)

	email, err := service.NewEmailService(ctx, cfg.Email, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	a := &App{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		WordSets:  service.NewWordSetService(wordSetRepo, resultRepo, logger),
		Analytics: service.NewAnalyticsService(resultRepo, wordSetRepo, cfg.Analytics.DefaultRangeDays, logger),
		Sentences: service.NewSentenceService(sentenceRepo, logger),
		Backup:    service.NewBackupService(wordSetRepo, resultRepo, sentenceRepo, cfg.Database.Type, logger),
		Email:     email,
	}
	a.Practice = service.NewPracticeService(wordset.NewProvider(wordSetRepo, logger), resultRepo, service.PracticeOptions{
		FeedbackDelay: cfg.Quiz.FeedbackDelay,
		Logger:        logger,
	})

	// Seed the default word set
	if _, _, err := a.WordSets.EnsureDefaultWordSet(ctx); err != nil {
		logger.Warn("failed to ensure default word set", "error", err)
	}

	return a, nil
}

// Close waits for background result writes and closes the database
func (a *App) Close() error {
	a.Practice.Wait()
	return a.DB.Close()
}
