// Package bootstrap merakit adapter dari config; dipakai cmd/api dan sirenctl.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	appai "github.com/bryanwahyu/siren-alert/internal/application/ai"
	"github.com/bryanwahyu/siren-alert/internal/config"
	"github.com/bryanwahyu/siren-alert/internal/domain/alerts"
	"github.com/bryanwahyu/siren-alert/internal/domain/cases"
	"github.com/bryanwahyu/siren-alert/internal/domain/failures"
	"github.com/bryanwahyu/siren-alert/internal/domain/recipients"
	"github.com/bryanwahyu/siren-alert/internal/domain/reports"
	"github.com/bryanwahyu/siren-alert/internal/domain/settings"
	"github.com/bryanwahyu/siren-alert/internal/infra/ai/openai"
	"github.com/bryanwahyu/siren-alert/internal/infra/ai/vision"
	"github.com/bryanwahyu/siren-alert/internal/infra/db/memory"
	"github.com/bryanwahyu/siren-alert/internal/infra/db/migrate"
	mysqlp "github.com/bryanwahyu/siren-alert/internal/infra/db/mysql"
	"github.com/bryanwahyu/siren-alert/internal/infra/db/postgres"
	"github.com/bryanwahyu/siren-alert/internal/middleware"
)

// AIService wires the OpenAI analyzer and the Vision OCR client.
// Missing API keys surface as configuration errors on each call.
func AIService(ctx context.Context, cfg *config.Config) (*appai.Service, error) {
	analyzer := openai.NewClient(openai.Config{
		APIKey:      cfg.AI.OpenAIAPIKey,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		BaseURL:     cfg.AI.OpenAIBaseURL,
	})
	ocr, err := vision.NewClient(ctx, vision.Config{
		APIKey:       cfg.AI.VisionAPIKey,
		Endpoint:     cfg.AI.VisionEndpoint,
		LanguageHint: cfg.AI.LanguageHint,
	})
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	if cfg.AI.OpenAIAPIKey == "" {
		log.Printf("ai=warning msg=%q", "OPENAI_API_KEY is not set")
	}
	if cfg.AI.VisionAPIKey == "" {
		log.Printf("ai=warning msg=%q", "GOOGLE_VISION_API_KEY is not set")
	}
	return appai.NewService(analyzer, ocr), nil
}

// OpenDB connects to the SQL database of the configured driver.
func OpenDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	switch cfg.Database.Driver {
	case "mysql":
		return mysqlp.Connect(ctx, cfg.MySQLDSN())
	case "postgres":
		return postgres.Connect(ctx, cfg.PostgresDSN())
	}
	return nil, fmt.Errorf("driver %q has no SQL database", cfg.Database.Driver)
}

// Stores repository set yang dipilih lewat database.driver
type Stores struct {
	Cases      cases.Repository
	Recipients recipients.Repository
	Alerts     alerts.Repository
	Reports    reports.Repository
	Failures   failures.Repository
	Settings   settings.Repository
	Health     middleware.HealthChecker

	close func() error
}

func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStores opens the repositories. SQL drivers are migrated first;
// the memory driver is seeded with sample data.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	if cfg.Database.Driver == "memory" {
		store := memory.NewSeeded()
		log.Printf("db=memory seeded=true")
		return &Stores{
			Cases:      store.Cases(),
			Recipients: store.Recipients(),
			Alerts:     store.Alerts(),
			Reports:    store.Reports(),
			Failures:   store.Failures(),
			Settings:   store.Settings(),
			Health:     store,
		}, nil
	}

	db, err := OpenDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s connect: %w", cfg.Database.Driver, err)
	}
	if _, err := migrate.Up(ctx, db, cfg.Database.Driver); err != nil {
		db.Close()
		return nil, err
	}

	st := &Stores{Health: &middleware.DatabaseHealthChecker{DB: db}, close: db.Close}
	switch cfg.Database.Driver {
	case "mysql":
		r := mysqlp.NewRepositories(db)
		st.Cases, st.Recipients, st.Alerts = r.Cases, r.Recipients, r.Alerts
		st.Reports, st.Failures, st.Settings = r.Reports, r.Failures, r.Settings
	case "postgres":
		r := postgres.NewRepositories(db)
		st.Cases, st.Recipients, st.Alerts = r.Cases, r.Recipients, r.Alerts
		st.Reports, st.Failures, st.Settings = r.Reports, r.Failures, r.Settings
	}
	log.Printf("db=%s host=%s name=%s", cfg.Database.Driver, cfg.Database.Host, cfg.Database.Name)
	return st, nil
}
