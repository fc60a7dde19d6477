package alerts_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/bryanwahyu/siren-alert/internal/application/alerts"
	recipientsapp "github.com/bryanwahyu/siren-alert/internal/application/recipients"
	settingsapp "github.com/bryanwahyu/siren-alert/internal/application/settings"
	"github.com/bryanwahyu/siren-alert/internal/domain/ai"
	domain "github.com/bryanwahyu/siren-alert/internal/domain/alerts"
	"github.com/bryanwahyu/siren-alert/internal/domain/cases"
	"github.com/bryanwahyu/siren-alert/internal/domain/failures"
	"github.com/bryanwahyu/siren-alert/internal/domain/reports"
	"github.com/bryanwahyu/siren-alert/internal/domain/settings"
	"github.com/bryanwahyu/siren-alert/internal/infra/db/memory"
	"github.com/bryanwahyu/siren-alert/internal/infra/mailer"
)

type recordingMailer struct {
	sent []domain.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg domain.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fixture struct {
	svc      *app.Service
	store    *memory.Store
	mailer   *recordingMailer
	settings *settingsapp.Service
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewSeeded()
	now := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)
	m := &recordingMailer{}
	st := &settingsapp.Service{Repo: store.Settings(), Renderer: mailer.NewTemplateRenderer(), Clock: clock}
	svc := &app.Service{
		Repo:        store.Alerts(),
		CaseRepo:    store.Cases(),
		ReportRepo:  store.Reports(),
		FailureRepo: store.Failures(),
		Recipients:  &recipientsapp.Service{Repo: store.Recipients()},
		Settings:    st,
		Renderer:    mailer.NewTemplateRenderer(),
		Mailer:      m,
		Clock:       clock,
	}
	require.NoError(t, store.Reports().Save(t.Context(), &reports.Report{
		ID:     "r1",
		CaseID: "c1",
		Result: ai.AnalysisResult{
			Title:      "비계 붕괴",
			Overview:   "외부 비계 해체 중 붕괴",
			Cause:      "벽이음 조기 철거",
			LegalBasis: "산업안전보건기준에 관한 규칙 제62조",
			Penalty:    "5년 이하의 징역",
			Prevention: "해체 순서 준수",
			Checklist:  []string{"벽이음 확인", "작업발판 고정"},
		},
	}))
	return &fixture{svc: svc, store: store, mailer: m, settings: st, now: now}
}

func TestSendForCaseToGroup(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	h, err := f.svc.SendForCase(ctx, "c1", "안전관리팀")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, h.Status)
	assert.Equal(t, "안전관리팀(2명)", h.TargetGroup)
	assert.Equal(t, "[긴급 재해 알림] 건설현장 비계 붕괴 사고", h.Subject)
	assert.Equal(t, "c1", h.CaseID)
	assert.Equal(t, f.now, h.SentAt)
	assert.Equal(t, []string{"벽이음 확인", "작업발판 고정"}, h.Details.Checklist)

	require.Len(t, f.mailer.sent, 1)
	msg := f.mailer.sent[0]
	assert.ElementsMatch(t, []string{"kim@kosha.or.kr", "park@kosha.or.kr"}, msg.To)
	assert.Equal(t, "KOSHA AI Alert System", msg.From)
	assert.Contains(t, msg.HTML, "외부 비계 해체 중 붕괴")
	assert.Contains(t, msg.HTML, "부산시 해운대구")

	c, err := f.store.Cases().Get(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, c.AlertedAt)
	assert.Equal(t, f.now, *c.AlertedAt)

	stored, err := f.svc.Get(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, h.Subject, stored.Subject)
}

func TestSendForCaseRecordsFailedDelivery(t *testing.T) {
	f := newFixture(t)
	f.mailer.err = errors.New("SMTP Connection Timeout")
	ctx := t.Context()

	h, err := f.svc.SendForCase(ctx, "c1", "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFail, h.Status)
	assert.Equal(t, "SMTP Connection Timeout", h.FailReason)
	assert.Equal(t, "전체(5명)", h.TargetGroup)

	fails, err := f.store.Failures().ListByCase(ctx, "c1", 5)
	require.NoError(t, err)
	require.Len(t, fails, 1)
	assert.Equal(t, failures.PhaseAlert, fails[0].Phase)
}

func TestSendForCaseRequiresReportAndRecipients(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	_, err := f.svc.SendForCase(ctx, "c2", "")
	assert.ErrorIs(t, err, ai.ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrNoReport)

	_, err = f.svc.SendForCase(ctx, "c1", "없는팀")
	assert.ErrorIs(t, err, ai.ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrNoRecipients)

	_, err = f.svc.SendForCase(ctx, "missing", "")
	assert.ErrorIs(t, err, cases.ErrNotFound)
	assert.Empty(t, f.mailer.sent)
}

func TestResendOnlyFailedEntries(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	_, err := f.svc.Resend(ctx, "101")
	assert.ErrorIs(t, err, ai.ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrNotResendable)

	h, err := f.svc.Resend(ctx, "102")
	require.NoError(t, err)
	assert.NotEqual(t, domain.AlertID("102"), h.ID)
	assert.Equal(t, domain.StatusSuccess, h.Status)
	assert.Equal(t, "[주의] 동절기 콘크리트 양생 가스 중독", h.Subject)
	assert.Equal(t, "전체(5명)", h.TargetGroup)
	require.Len(t, f.mailer.sent, 1)
	assert.Contains(t, f.mailer.sent[0].HTML, "환기팬 작동 여부")

	_, err = f.svc.Resend(ctx, "999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDispatchPendingSendsUnalertedCompletedCases(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	require.NoError(t, f.store.Cases().Save(ctx, &cases.Case{ID: "c9", Title: "신규", AnalysisStatus: cases.StatusCompleted, CreatedAt: f.now}))
	require.NoError(t, f.store.Reports().Save(ctx, &reports.Report{ID: "r9", CaseID: "c9", Result: ai.AnalysisResult{Overview: "x", Checklist: []string{}}}))
	require.NoError(t, f.store.Cases().Save(ctx, &cases.Case{ID: "c10", Title: "보고서 없음", AnalysisStatus: cases.StatusCompleted, CreatedAt: f.now}))

	res, err := f.svc.DispatchPending(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, app.DispatchResult{Sent: 1, Failed: 1}, res)

	res, err = f.svc.DispatchPending(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, app.DispatchResult{Sent: 0, Failed: 1}, res)
}

func TestNotifyAnalyzedFollowsSchedulerMode(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	c, err := f.store.Cases().Get(ctx, "c1")
	require.NoError(t, err)

	f.svc.NotifyAnalyzed(ctx, c)
	assert.Len(t, f.mailer.sent, 1)

	st := settings.Default()
	st.Scheduler.Mode = settings.ModeScheduled
	_, err = f.settings.Update(ctx, st)
	require.NoError(t, err)

	f.svc.NotifyAnalyzed(ctx, c)
	assert.Len(t, f.mailer.sent, 1)
}

func TestListPagesHistory(t *testing.T) {
	f := newFixture(t)
	page, err := f.svc.List(t.Context(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
	assert.Len(t, page.Data, 3)
}
