package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appai "github.com/bryanwahyu/siren-alert/internal/application/ai"
	appalerts "github.com/bryanwahyu/siren-alert/internal/application/alerts"
	appcases "github.com/bryanwahyu/siren-alert/internal/application/cases"
	appcollector "github.com/bryanwahyu/siren-alert/internal/application/collector"
	appdashboard "github.com/bryanwahyu/siren-alert/internal/application/dashboard"
	apprecipients "github.com/bryanwahyu/siren-alert/internal/application/recipients"
	appsettings "github.com/bryanwahyu/siren-alert/internal/application/settings"
	domai "github.com/bryanwahyu/siren-alert/internal/domain/ai"
	"github.com/bryanwahyu/siren-alert/internal/domain/alerts"
	"github.com/bryanwahyu/siren-alert/internal/domain/cases"
	"github.com/bryanwahyu/siren-alert/internal/domain/recipients"
	"github.com/bryanwahyu/siren-alert/internal/domain/settings"
	"github.com/bryanwahyu/siren-alert/internal/middleware"
)

// Services use case yang dilayani router
type Services struct {
	AI         *appai.Service
	Cases      *appcases.Service
	Recipients *apprecipients.Service
	Alerts     *appalerts.Service
	Settings   *appsettings.Service
	Dashboard  *appdashboard.Service
	Collector  *appcollector.Service
}

// Options middleware dan probe
type Options struct {
	AllowedOrigins []string
	APIKeys        map[string]string
	Limiter        *middleware.RateLimiter // nil = tanpa rate limit
	Checkers       map[string]middleware.HealthChecker
}

type Router struct {
	svc Services
}

func NewRouter(svc Services, opt Options) http.Handler {
	r := &Router{svc: svc}
	mux := chi.NewRouter()

	origins := opt.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.APIKeyAuth(opt.APIKeys))
	if opt.Limiter != nil {
		mux.Use(middleware.RateLimitMiddleware(opt.Limiter))
	}

	mux.Get("/health", middleware.HealthHandler(opt.Checkers))
	mux.Get("/ready", middleware.ReadinessHandler(opt.Checkers))
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/ai/analyze-text", r.wrap(r.handleAnalyzeText))
		rt.Post("/ai/analyze-image", r.wrap(r.handleAnalyzeImage))

		rt.Get("/cases", r.wrap(r.handleListCases))
		rt.Post("/cases/upload", r.wrap(r.handleUploadCase))
		rt.Get("/cases/{id}", r.wrap(r.handleGetCase))
		rt.Post("/cases/{id}/analyze", r.wrap(r.handleAnalyzeCase))
		rt.Get("/cases/{id}/report", r.wrap(r.handleCaseReport))
		rt.Get("/cases/{id}/failures", r.wrap(r.handleCaseFailures))
		rt.Post("/cases/{id}/alert", r.wrap(r.handleSendAlert))

		rt.Get("/recipients", r.wrap(r.handleListRecipients))
		rt.Post("/recipients", r.wrap(r.handleCreateRecipient))
		rt.Put("/recipients/{id}", r.wrap(r.handleUpdateRecipient))
		rt.Delete("/recipients/{id}", r.wrap(r.handleDeleteRecipient))

		rt.Get("/alerts", r.wrap(r.handleListAlerts))
		rt.Get("/alerts/{id}", r.wrap(r.handleGetAlert))
		rt.Post("/alerts/{id}/resend", r.wrap(r.handleResendAlert))

		rt.Get("/settings", r.wrap(r.handleGetSettings))
		rt.Put("/settings", r.wrap(r.handleUpdateSettings))
		rt.Get("/settings/email-preview", r.wrap(r.handleEmailPreview))

		rt.Get("/dashboard", r.wrap(r.handleDashboard))
		rt.Post("/sync", r.wrap(r.handleSync))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status := statusFor(err)
			if status >= http.StatusInternalServerError {
				log.Printf("method=%s path=%s status=%d error=%q", req.Method, req.URL.Path, status, err.Error())
			}
			writeJSON(w, status, map[string]string{"error": err.Error()})
		}
	}
}

// statusFor petakan error domain ke HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, middleware.ErrValidation),
		errors.Is(err, domai.ErrInvalidInput),
		errors.Is(err, recipients.ErrInvalid),
		errors.Is(err, settings.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, cases.ErrNotFound),
		errors.Is(err, recipients.ErrNotFound),
		errors.Is(err, alerts.ErrNotFound):
		return http.StatusNotFound
	// 429 upstream juga Upstream, cek quota lebih dulu
	case errors.Is(err, domai.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, domai.ErrConfiguration):
		return http.StatusServiceUnavailable
	case errors.Is(err, domai.ErrUpstream), errors.Is(err, domai.ErrResponseFormat):
		return http.StatusBadGateway
	case errors.Is(err, domai.ErrEmptyResult):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// maxBodyBytes payload gambar base64 + field lain
const maxBodyBytes = middleware.MaxImageBase64 + 1<<20

func decodeJSON(req *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, req.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", middleware.ErrValidation, err)
	}
	return nil
}

func pathID(req *http.Request) (string, error) {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateID(id); err != nil {
		return "", err
	}
	return id, nil
}

func queryInt(req *http.Request, key string) int {
	n, _ := strconv.Atoi(req.URL.Query().Get(key))
	return n
}

