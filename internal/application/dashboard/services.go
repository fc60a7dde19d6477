package dashboard

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/bryanwahyu/siren-alert/internal/application"
	"github.com/bryanwahyu/siren-alert/internal/domain/alerts"
	"github.com/bryanwahyu/siren-alert/internal/domain/cases"
)

const (
	StatusOK       = "정상"
	StatusDegraded = "점검 필요"
	trendDays      = 7
	recentAlerts   = 5
)

// Checker sama dengan middleware.HealthChecker
type Checker interface {
	Check(ctx context.Context) error
}

// Service ringkasan untuk halaman dashboard
type Service struct {
	Cases    cases.Repository
	Alerts   alerts.Repository
	Checkers map[string]Checker
	Clock    application.Clock
	Location *time.Location // zona hari; default lokasi clock
}

// DayCount jumlah case terkumpul per hari
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Summary metrics shown on the dashboard cards and chart.
type Summary struct {
	CollectedToday int64                  `json:"collectedToday"`
	SentToday      int64                  `json:"sentToday"`
	TotalCases     int64                  `json:"totalCases"`
	SystemStatus   string                 `json:"systemStatus"`
	Trend          []DayCount             `json:"trend"`
	RecentAlerts   []*alerts.AlertHistory `json:"recentAlerts"`
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	now := s.Clock.Now()
	if s.Location != nil {
		now = now.In(s.Location)
	}
	from, to := application.DayRange(now)

	collected, err := s.Cases.CountCreated(ctx, from, to)
	if err != nil {
		return nil, err
	}
	sent, err := s.Alerts.CountSent(ctx, from, to)
	if err != nil {
		return nil, err
	}
	page, err := s.Cases.Paginate(ctx, cases.Query{Page: 1, PageSize: 1})
	if err != nil {
		return nil, err
	}

	trend := make([]DayCount, 0, trendDays)
	for i := trendDays - 1; i >= 0; i-- {
		dayStart := from.AddDate(0, 0, -i)
		n, err := s.Cases.CountCreated(ctx, dayStart, dayStart.AddDate(0, 0, 1))
		if err != nil {
			return nil, err
		}
		trend = append(trend, DayCount{Date: dayStart.Format(cases.DateLayout), Count: n})
	}

	recent, err := s.Alerts.Latest(ctx, recentAlerts)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []*alerts.AlertHistory{}
	}

	return &Summary{
		CollectedToday: collected,
		SentToday:      sent,
		TotalCases:     page.Total,
		SystemStatus:   s.systemStatus(ctx),
		Trend:          trend,
		RecentAlerts:   recent,
	}, nil
}

func (s *Service) systemStatus(ctx context.Context) string {
	names := make([]string, 0, len(s.Checkers))
	for name := range s.Checkers {
		names = append(names, name)
	}
	sort.Strings(names)

	status := StatusOK
	for _, name := range names {
		if err := s.Checkers[name].Check(ctx); err != nil {
			log.Printf("check=%s status=unhealthy err=%v", name, err)
			status = StatusDegraded
		}
	}
	return status
}
