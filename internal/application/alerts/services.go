package alerts

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/bryanwahyu/siren-alert/internal/application"
	"github.com/bryanwahyu/siren-alert/internal/domain/ai"
	domain "github.com/bryanwahyu/siren-alert/internal/domain/alerts"
	"github.com/bryanwahyu/siren-alert/internal/domain/cases"
	"github.com/bryanwahyu/siren-alert/internal/domain/failures"
	"github.com/bryanwahyu/siren-alert/internal/domain/reports"
	"github.com/bryanwahyu/siren-alert/internal/domain/settings"
)

// Directory resolves recipient addresses for a group.
type Directory interface {
	Emails(ctx context.Context, group string) ([]string, error)
}

// SettingsReader current settings (default kalau belum disimpan)
type SettingsReader interface {
	Get(ctx context.Context) (settings.Settings, error)
}

// Service pengiriman dan riwayat alert email
type Service struct {
	Repo        domain.Repository
	CaseRepo    cases.Repository
	ReportRepo  reports.Repository
	FailureRepo failures.Repository
	Recipients  Directory
	Settings    SettingsReader
	Renderer    domain.Renderer
	Mailer      domain.Mailer
	Clock       application.Clock
}

func (s *Service) List(ctx context.Context, page, pageSize int) (domain.PaginatedResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return s.Repo.Paginate(ctx, page, pageSize)
}

func (s *Service) Get(ctx context.Context, id domain.AlertID) (*domain.AlertHistory, error) {
	return s.Repo.Get(ctx, id)
}

// SendForCase mails the latest report of a case to a recipient group.
// Empty group means every recipient. A failed delivery is recorded in the
// history and is not returned as an error.
func (s *Service) SendForCase(ctx context.Context, caseID cases.CaseID, group string) (*domain.AlertHistory, error) {
	c, err := s.CaseRepo.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}
	rep, err := s.ReportRepo.LatestByCase(ctx, string(caseID))
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrInvalidInput, domain.ErrNoReport)
	}
	title := c.Title
	if title == "" {
		title = rep.Result.Title
	}
	details := domain.Details{
		Overview:   rep.Result.Overview,
		LegalBasis: rep.Result.LegalBasis,
		Penalty:    rep.Result.Penalty,
		Prevention: rep.Result.Prevention,
		Checklist:  rep.Result.Checklist,
	}
	return s.deliver(ctx, c, group, title, "", details)
}

// Resend re-delivers a failed history entry as a new entry.
func (s *Service) Resend(ctx context.Context, id domain.AlertID) (*domain.AlertHistory, error) {
	prev, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if prev.Status != domain.StatusFail {
		return nil, fmt.Errorf("%w: %w", ai.ErrInvalidInput, domain.ErrNotResendable)
	}
	if prev.Details == nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrInvalidInput, domain.ErrNoReport)
	}

	var c *cases.Case
	if prev.CaseID != "" {
		c, err = s.CaseRepo.Get(ctx, cases.CaseID(prev.CaseID))
		if err != nil && !errors.Is(err, cases.ErrNotFound) {
			return nil, err
		}
	}
	return s.deliver(ctx, c, prev.Group, "", prev.Subject, *prev.Details)
}

// DispatchResult ringkasan pengiriman terjadwal
type DispatchResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// DispatchPending alerts every completed case that was never alerted.
func (s *Service) DispatchPending(ctx context.Context, limit int) (DispatchResult, error) {
	var res DispatchResult
	pending, err := s.CaseRepo.PendingAlerts(ctx, limit)
	if err != nil {
		return res, err
	}
	for _, c := range pending {
		h, err := s.SendForCase(ctx, c.ID, "")
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			log.Printf("case=%s phase=alert err=%v", c.ID, err)
			res.Failed++
			continue
		}
		if h.Status == domain.StatusSuccess {
			res.Sent++
		} else {
			res.Failed++
		}
	}
	log.Printf("job=dispatch sent=%d failed=%d", res.Sent, res.Failed)
	return res, nil
}

// NotifyAnalyzed mengirim alert langsung bila mode onComplete aktif.
// Error hanya di-log supaya analisis tetap sukses.
func (s *Service) NotifyAnalyzed(ctx context.Context, c *cases.Case) {
	st, err := s.Settings.Get(ctx)
	if err != nil {
		log.Printf("case=%s phase=alert settings_err=%v", c.ID, err)
		return
	}
	if !st.Scheduler.Enabled || st.Scheduler.Mode != settings.ModeOnComplete {
		return
	}
	if _, err := s.SendForCase(ctx, c.ID, ""); err != nil {
		log.Printf("case=%s phase=alert err=%v", c.ID, err)
	}
}

// deliver render, kirim, lalu simpan riwayat
func (s *Service) deliver(ctx context.Context, c *cases.Case, group, title, subject string, details domain.Details) (*domain.AlertHistory, error) {
	to, err := s.Recipients.Emails(ctx, group)
	if err != nil {
		return nil, err
	}
	if len(to) == 0 {
		return nil, fmt.Errorf("%w: %w", ai.ErrInvalidInput, domain.ErrNoRecipients)
	}
	st, err := s.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if subject == "" {
		subject = st.Email.Subject(title)
	}

	email := domain.Email{
		SenderName: st.Email.SenderName,
		Subject:    subject,
		Theme:      string(st.Email.Theme),
		Details:    details,
	}
	h := &domain.AlertHistory{
		ID:          domain.AlertID(uuid.New().String()),
		Group:       group,
		TargetGroup: domain.TargetLabel(group, len(to)),
		Subject:     subject,
		Details:     &details,
	}
	if c != nil {
		h.CaseID = string(c.ID)
		email.CaseTitle = c.Title
		email.CaseDate = c.Date
		email.Location = c.Location
		email.Cause = c.Cause
	}

	html, err := s.Renderer.Render(email)
	if err == nil {
		err = s.Mailer.Send(ctx, domain.Message{From: st.Email.SenderName, To: to, Subject: subject, HTML: html})
	}
	h.SentAt = s.Clock.Now()
	if err != nil {
		h.Status = domain.StatusFail
		h.FailReason = err.Error()
		s.recordFailure(ctx, h, err)
	} else {
		h.Status = domain.StatusSuccess
	}
	if err := s.Repo.Save(ctx, h); err != nil {
		return nil, fmt.Errorf("save alert history: %w", err)
	}
	log.Printf("alert=%s case=%s target=%q status=%s", h.ID, h.CaseID, h.TargetGroup, h.Status)

	if c != nil && h.Status == domain.StatusSuccess {
		at := h.SentAt
		c.AlertedAt = &at
		if err := s.CaseRepo.Save(ctx, c); err != nil {
			log.Printf("case=%s phase=alert save_err=%v", c.ID, err)
		}
	}
	return h, nil
}

func (s *Service) recordFailure(ctx context.Context, h *domain.AlertHistory, cause error) {
	if s.FailureRepo == nil || h.CaseID == "" {
		return
	}
	f := &failures.Failure{
		CaseID:    h.CaseID,
		Phase:     failures.PhaseAlert,
		Message:   cause.Error(),
		CreatedAt: s.Clock.Now(),
	}
	if err := s.FailureRepo.Save(ctx, f); err != nil {
		log.Printf("case=%s phase=alert failure_save_err=%v", h.CaseID, err)
	}
}
