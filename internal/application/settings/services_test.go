package settings_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/bryanwahyu/siren-alert/internal/application/settings"
	"github.com/bryanwahyu/siren-alert/internal/domain/ai"
	domain "github.com/bryanwahyu/siren-alert/internal/domain/settings"
	"github.com/bryanwahyu/siren-alert/internal/infra/db/memory"
	"github.com/bryanwahyu/siren-alert/internal/infra/mailer"
)

func newService() *app.Service {
	return &app.Service{
		Repo:     memory.New().Settings(),
		Renderer: mailer.NewTemplateRenderer(),
		Clock:    clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)),
	}
}

func TestGetReturnsDefaults(t *testing.T) {
	st, err := newService().Get(t.Context())
	require.NoError(t, err)
	assert.Equal(t, domain.Default(), st)
}

func TestUpdatePersists(t *testing.T) {
	svc := newService()
	ctx := t.Context()

	in := domain.Default()
	in.Scheduler.Mode = domain.ModeScheduled
	in.Scheduler.SendTime = "18:30"
	in.Email.Theme = domain.ThemeWarning
	in.Email.SubjectPrefix = " [주의] "

	saved, err := svc.Update(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "[주의]", saved.Email.SubjectPrefix)
	assert.Equal(t, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), saved.UpdatedAt)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}

func TestUpdateRejectsInvalid(t *testing.T) {
	mutate := map[string]func(*domain.Settings){
		"mode":        func(s *domain.Settings) { s.Scheduler.Mode = "hourly" },
		"send time":   func(s *domain.Settings) { s.Scheduler.SendTime = "25:00" },
		"scrape time": func(s *domain.Settings) { s.Collection.ScrapeTime = "4pm" },
		"theme":       func(s *domain.Settings) { s.Email.Theme = "neon" },
	}
	for name, fn := range mutate {
		t.Run(name, func(t *testing.T) {
			svc := newService()
			in := domain.Default()
			fn(&in)
			_, err := svc.Update(t.Context(), in)
			assert.ErrorIs(t, err, ai.ErrInvalidInput)
			assert.ErrorIs(t, err, domain.ErrInvalid)

			st, err := svc.Get(t.Context())
			require.NoError(t, err)
			assert.Equal(t, domain.Default(), st)
		})
	}
}

func TestPreviewUsesCurrentTemplate(t *testing.T) {
	svc := newService()
	ctx := t.Context()

	in := domain.Default()
	in.Email.SenderName = "현장 안전팀"
	_, err := svc.Update(ctx, in)
	require.NoError(t, err)

	p, err := svc.Preview(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[긴급 재해 알림] 고소작업 중 추락 재해", p.Subject)
	assert.Contains(t, p.HTML, "현장 안전팀")
	assert.Contains(t, p.HTML, "2024-06-01")
	assert.Contains(t, p.HTML, "안전대 착용 여부 확인")
}

func TestSubjectPrefix(t *testing.T) {
	assert.Equal(t, "제목", domain.EmailTemplate{SubjectPrefix: "  "}.Subject("제목"))
	assert.Equal(t, "[알림] 제목", domain.EmailTemplate{SubjectPrefix: "[알림]"}.Subject("제목"))
}
