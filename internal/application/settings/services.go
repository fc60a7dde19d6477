package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bryanwahyu/siren-alert/internal/application"
	"github.com/bryanwahyu/siren-alert/internal/domain/ai"
	"github.com/bryanwahyu/siren-alert/internal/domain/alerts"
	domain "github.com/bryanwahyu/siren-alert/internal/domain/settings"
)

// Service pengaturan sistem
type Service struct {
	Repo     domain.Repository
	Renderer alerts.Renderer
	Clock    application.Clock
}

// Get returns the stored settings, or the defaults when none are stored.
func (s *Service) Get(ctx context.Context) (domain.Settings, error) {
	st, err := s.Repo.Load(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	if st == nil {
		return domain.Default(), nil
	}
	return *st, nil
}

// Update validates and stores the whole settings document.
func (s *Service) Update(ctx context.Context, st domain.Settings) (domain.Settings, error) {
	st.Email.SenderName = strings.TrimSpace(st.Email.SenderName)
	st.Email.SubjectPrefix = strings.TrimSpace(st.Email.SubjectPrefix)
	if err := st.Validate(); err != nil {
		if errors.Is(err, domain.ErrInvalid) {
			return domain.Settings{}, fmt.Errorf("%w: %w", ai.ErrInvalidInput, err)
		}
		return domain.Settings{}, err
	}
	st.UpdatedAt = s.Clock.Now()
	if err := s.Repo.Save(ctx, &st); err != nil {
		return domain.Settings{}, err
	}
	return st, nil
}

// Preview email contoh untuk modal preview
type Preview struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Preview renders the alert template with a sample incident.
func (s *Service) Preview(ctx context.Context) (*Preview, error) {
	st, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	e := SampleEmail(st.Email, s.Clock.Now().Format("2006-01-02"))
	html, err := s.Renderer.Render(e)
	if err != nil {
		return nil, err
	}
	return &Preview{Subject: e.Subject, HTML: html}, nil
}

// SampleEmail contoh kasus jatuh dari ketinggian
func SampleEmail(tpl domain.EmailTemplate, date string) alerts.Email {
	title := "고소작업 중 추락 재해"
	return alerts.Email{
		SenderName: tpl.SenderName,
		Subject:    tpl.Subject(title),
		Theme:      string(tpl.Theme),
		CaseTitle:  title,
		CaseDate:   date,
		Location:   "서울시 강남구",
		Cause:      "안전대 미체결",
		Details: alerts.Details{
			Overview:   "건설현장 고소작업 중 안전대 미체결 상태에서 작업발판 단부로 추락",
			LegalBasis: "산업안전보건법 제38조(안전조치)",
			Penalty:    "5년 이하의 징역 또는 5천만원 이하의 벌금",
			Prevention: "고소작업 시 안전대 착용 및 부착설비 설치 철저",
			Checklist:  []string{"안전대 착용 여부 확인", "부착설비 상태 점검", "안전방망 설치 확인"},
		},
	}
}
