package httpserver

import (
	"net/http"

	appcases "github.com/bryanwahyu/siren-alert/internal/application/cases"
	apprecipients "github.com/bryanwahyu/siren-alert/internal/application/recipients"
	domai "github.com/bryanwahyu/siren-alert/internal/domain/ai"
	"github.com/bryanwahyu/siren-alert/internal/domain/alerts"
	"github.com/bryanwahyu/siren-alert/internal/domain/cases"
	"github.com/bryanwahyu/siren-alert/internal/domain/recipients"
	"github.com/bryanwahyu/siren-alert/internal/domain/settings"
	"github.com/bryanwahyu/siren-alert/internal/middleware"
)

type imageBody struct {
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Location    string `json:"location"`
}

func (b imageBody) validate() error {
	if err := middleware.ValidateImagePayload(b.ImageBase64); err != nil {
		return err
	}
	return middleware.ValidateMimeType(b.MimeType)
}

// POST /v1/ai/analyze-text
// Body: {"text": "<incident text>"}
func (r *Router) handleAnalyzeText(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(req, &body); err != nil {
		return err
	}
	done := middleware.TrackAnalysis()
	res, err := r.svc.AI.AnalyzeText(req.Context(), body.Text)
	done(err)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// POST /v1/ai/analyze-image
// Body: {"image_base64": "...", "mime_type": "image/png"}
func (r *Router) handleAnalyzeImage(w http.ResponseWriter, req *http.Request) error {
	var body imageBody
	if err := decodeJSON(req, &body); err != nil {
		return err
	}
	if err := body.validate(); err != nil {
		return err
	}
	done := middleware.TrackAnalysis()
	res, err := r.svc.AI.AnalyzeImage(req.Context(), domai.StripDataURL(body.ImageBase64))
	done(err)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// GET /v1/cases?page=&page_size=&q=&status=
func (r *Router) handleListCases(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	list, err := r.svc.Cases.List(req.Context(), cases.Query{
		Page:     queryInt(req, "page"),
		PageSize: queryInt(req, "page_size"),
		Search:   middleware.SanitizeString(q.Get("q")),
		Status:   cases.Status(q.Get("status")),
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// POST /v1/cases/upload
// Body: {"image_base64": "...", "mime_type": "image/jpeg", "location": "..."}
func (r *Router) handleUploadCase(w http.ResponseWriter, req *http.Request) error {
	var body imageBody
	if err := decodeJSON(req, &body); err != nil {
		return err
	}
	if err := body.validate(); err != nil {
		return err
	}
	done := middleware.TrackAnalysis()
	res, err := r.svc.Cases.Upload(req.Context(), appcases.UploadCommand{
		ImageBase64: body.ImageBase64,
		MimeType:    body.MimeType,
		Location:    middleware.SanitizeString(body.Location),
	})
	done(err)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, res)
}

// GET /v1/cases/{id}
func (r *Router) handleGetCase(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	c, err := r.svc.Cases.Get(req.Context(), cases.CaseID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, c)
}

// POST /v1/cases/{id}/analyze
func (r *Router) handleAnalyzeCase(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	done := middleware.TrackAnalysis()
	rep, err := r.svc.Cases.Analyze(req.Context(), cases.CaseID(id))
	done(err)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rep)
}

// GET /v1/cases/{id}/report
func (r *Router) handleCaseReport(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	rep, err := r.svc.Cases.Report(req.Context(), cases.CaseID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rep)
}

// GET /v1/cases/{id}/failures?limit=
func (r *Router) handleCaseFailures(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	list, err := r.svc.Cases.Failures(req.Context(), cases.CaseID(id), middleware.ValidateLimit(queryInt(req, "limit")))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// POST /v1/cases/{id}/alert
// Body: {"group": "안전관리팀"}; group kosong = semua penerima
func (r *Router) handleSendAlert(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	var body struct {
		Group string `json:"group"`
	}
	if req.ContentLength != 0 {
		if err := decodeJSON(req, &body); err != nil {
			return err
		}
	}
	h, err := r.svc.Alerts.SendForCase(req.Context(), cases.CaseID(id), middleware.SanitizeString(body.Group))
	if err != nil {
		return err
	}
	middleware.RecordAlert(h.Status == alerts.StatusSuccess)
	return writeJSON(w, http.StatusCreated, h)
}

// GET /v1/recipients?q=&group=
func (r *Router) handleListRecipients(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	list, err := r.svc.Recipients.List(req.Context(), recipients.Filter{
		Search: middleware.SanitizeString(q.Get("q")),
		Group:  middleware.SanitizeString(q.Get("group")),
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// POST /v1/recipients
func (r *Router) handleCreateRecipient(w http.ResponseWriter, req *http.Request) error {
	var in apprecipients.Input
	if err := decodeJSON(req, &in); err != nil {
		return err
	}
	rc, err := r.svc.Recipients.Create(req.Context(), sanitizeRecipient(in))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, rc)
}

// PUT /v1/recipients/{id}
func (r *Router) handleUpdateRecipient(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	var in apprecipients.Input
	if err := decodeJSON(req, &in); err != nil {
		return err
	}
	rc, err := r.svc.Recipients.Update(req.Context(), recipients.RecipientID(id), sanitizeRecipient(in))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rc)
}

// DELETE /v1/recipients/{id}
func (r *Router) handleDeleteRecipient(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	if err := r.svc.Recipients.Delete(req.Context(), recipients.RecipientID(id)); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func sanitizeRecipient(in apprecipients.Input) apprecipients.Input {
	in.Name = middleware.SanitizeString(in.Name)
	in.Email = middleware.SanitizeString(in.Email)
	in.Group = middleware.SanitizeString(in.Group)
	return in
}

// GET /v1/alerts?page=&page_size=
func (r *Router) handleListAlerts(w http.ResponseWriter, req *http.Request) error {
	list, err := r.svc.Alerts.List(req.Context(), queryInt(req, "page"), queryInt(req, "page_size"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/alerts/{id}
func (r *Router) handleGetAlert(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	h, err := r.svc.Alerts.Get(req.Context(), alerts.AlertID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, h)
}

// POST /v1/alerts/{id}/resend
func (r *Router) handleResendAlert(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	h, err := r.svc.Alerts.Resend(req.Context(), alerts.AlertID(id))
	if err != nil {
		return err
	}
	middleware.RecordAlert(h.Status == alerts.StatusSuccess)
	return writeJSON(w, http.StatusCreated, h)
}

// GET /v1/settings
func (r *Router) handleGetSettings(w http.ResponseWriter, req *http.Request) error {
	st, err := r.svc.Settings.Get(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, st)
}

// PUT /v1/settings
func (r *Router) handleUpdateSettings(w http.ResponseWriter, req *http.Request) error {
	var st settings.Settings
	if err := decodeJSON(req, &st); err != nil {
		return err
	}
	saved, err := r.svc.Settings.Update(req.Context(), st)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, saved)
}

// GET /v1/settings/email-preview
func (r *Router) handleEmailPreview(w http.ResponseWriter, req *http.Request) error {
	p, err := r.svc.Settings.Preview(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, p)
}

// GET /v1/dashboard
func (r *Router) handleDashboard(w http.ResponseWriter, req *http.Request) error {
	sum, err := r.svc.Dashboard.Summary(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, sum)
}

// POST /v1/sync
// Manual sync dari tombol dashboard
func (r *Router) handleSync(w http.ResponseWriter, req *http.Request) error {
	res, err := r.svc.Collector.Sync(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}
