package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/bryanwahyu/siren-alert/internal/application"
	appalerts "github.com/bryanwahyu/siren-alert/internal/application/alerts"
	appcases "github.com/bryanwahyu/siren-alert/internal/application/cases"
	appcollector "github.com/bryanwahyu/siren-alert/internal/application/collector"
	appdashboard "github.com/bryanwahyu/siren-alert/internal/application/dashboard"
	apprecipients "github.com/bryanwahyu/siren-alert/internal/application/recipients"
	appsettings "github.com/bryanwahyu/siren-alert/internal/application/settings"
	"github.com/bryanwahyu/siren-alert/internal/bootstrap"
	"github.com/bryanwahyu/siren-alert/internal/config"
	"github.com/bryanwahyu/siren-alert/internal/domain/alerts"
	"github.com/bryanwahyu/siren-alert/internal/domain/cases"
	"github.com/bryanwahyu/siren-alert/internal/infra/collector"
	"github.com/bryanwahyu/siren-alert/internal/infra/httpserver"
	"github.com/bryanwahyu/siren-alert/internal/infra/mailer"
	"github.com/bryanwahyu/siren-alert/internal/infra/scheduler"
	minioStore "github.com/bryanwahyu/siren-alert/internal/infra/storage"
	"github.com/bryanwahyu/siren-alert/internal/middleware"
)

func main() {
	// .env boleh tidak ada; API key juga bisa dari environment langsung
	if err := godotenv.Load(); err == nil {
		log.Printf("env=loaded file=.env")
	}

	// load config
	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// repositories (memory / mysql / postgres + migrasi)
	stores, err := bootstrap.OpenStores(ctx, cfg)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}
	defer stores.Close()

	aiSvc, err := bootstrap.AIService(ctx, cfg)
	if err != nil {
		log.Fatalf("ai init error: %v", err)
	}

	realClock := clockwork.NewRealClock()
	loc := bootstrap.Location(cfg)
	clock := application.ZonedClock{Clock: realClock, Loc: loc}

	checkers := map[string]middleware.HealthChecker{"db": stores.Health}
	dashChecks := map[string]appdashboard.Checker{"db": stores.Health}

	// init minio (opsional)
	var images cases.ImageStore
	if cfg.MinioConfigured() {
		store, err := minioStore.New(ctx, minioStore.Options{
			Endpoint:  cfg.Minio.Endpoint,
			Region:    cfg.Minio.Region,
			Bucket:    cfg.Minio.BucketName,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			UseSSL:    cfg.Minio.UseSSL,
			PublicURL: cfg.Minio.PublicURL,
		})
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		images = store
		checkers["storage"] = store
		dashChecks["storage"] = store
	}

	var mail alerts.Mailer = mailer.LogMailer{}
	if cfg.SMTPConfigured() {
		mail = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		log.Printf("mail=log_only reason=%q", "smtp not configured")
	}
	renderer := mailer.NewTemplateRenderer()

	// init service
	recipientSvc := &apprecipients.Service{Repo: stores.Recipients}
	settingsSvc := &appsettings.Service{Repo: stores.Settings, Renderer: renderer, Clock: clock}
	alertSvc := &appalerts.Service{
		Repo:        stores.Alerts,
		CaseRepo:    stores.Cases,
		ReportRepo:  stores.Reports,
		FailureRepo: stores.Failures,
		Recipients:  recipientSvc,
		Settings:    settingsSvc,
		Renderer:    renderer,
		Mailer:      mail,
		Clock:       clock,
	}
	caseSvc := &appcases.Service{
		Repo:        stores.Cases,
		ReportRepo:  stores.Reports,
		FailureRepo: stores.Failures,
		AI:          aiSvc,
		Images:      images,
		Clock:       clock,
		Model:       cfg.AI.Model,
		OnAnalyzed:  alertSvc.NotifyAnalyzed,
	}
	collectorSvc := &appcollector.Service{
		Sources:     bootstrap.Sources(cfg),
		Repo:        stores.Cases,
		FailureRepo: stores.Failures,
		Settings:    settingsSvc,
		OCR:         aiSvc,
		Images:      &collector.ImageFetcher{Client: collector.DefaultHTTPClient},
		Clock:       clock,
	}
	dashboardSvc := &appdashboard.Service{
		Cases:    stores.Cases,
		Alerts:   stores.Alerts,
		Checkers: dashChecks,
		Clock:    clock,
		Location: loc,
	}

	// scheduler: scrape harian + kirim alert terjadwal
	sched := scheduler.New(realClock, settingsSvc, loc,
		scheduler.Discard(collectorSvc.Sync),
		scheduler.Discard(func(ctx context.Context) (appalerts.DispatchResult, error) {
			return alertSvc.DispatchPending(ctx, 0)
		}),
	)
	go sched.Run(ctx)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate, realClock)
	go limiter.RunCleanup(ctx.Done())

	// init router
	handler := httpserver.NewRouter(httpserver.Services{
		AI:         aiSvc,
		Cases:      caseSvc,
		Recipients: recipientSvc,
		Alerts:     alertSvc,
		Settings:   settingsSvc,
		Dashboard:  dashboardSvc,
		Collector:  collectorSvc,
	}, httpserver.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		APIKeys:        cfg.Auth.APIKeys,
		Limiter:        limiter,
		Checkers:       checkers,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // analisa OCR + LLM bisa lama
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	<-ctx.Done()
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
