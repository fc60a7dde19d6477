package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bryanwahyu/siren-alert/internal/domain/alerts"
	"github.com/bryanwahyu/siren-alert/internal/domain/cases"
	"github.com/bryanwahyu/siren-alert/internal/domain/failures"
	"github.com/bryanwahyu/siren-alert/internal/domain/recipients"
	"github.com/bryanwahyu/siren-alert/internal/domain/reports"
	"github.com/bryanwahyu/siren-alert/internal/domain/settings"
)

// Store keeps every repository in process memory. Used by the "memory"
// database driver and by tests.
type Store struct {
	mu         sync.RWMutex
	cases      map[cases.CaseID]*cases.Case
	recipients map[recipients.RecipientID]*recipients.Recipient
	alerts     map[alerts.AlertID]*alerts.AlertHistory
	reports    []*reports.Report
	failures   []*failures.Failure
	settings   *settings.Settings
	nextID     int64
}

func New() *Store {
	return &Store{
		cases:      map[cases.CaseID]*cases.Case{},
		recipients: map[recipients.RecipientID]*recipients.Recipient{},
		alerts:     map[alerts.AlertID]*alerts.AlertHistory{},
	}
}

func (s *Store) Cases() *CaseRepository           { return &CaseRepository{s} }
func (s *Store) Recipients() *RecipientRepository { return &RecipientRepository{s} }
func (s *Store) Alerts() *AlertRepository         { return &AlertRepository{s} }
func (s *Store) Reports() *ReportRepository       { return &ReportRepository{s} }
func (s *Store) Failures() *FailureRepository     { return &FailureRepository{s} }
func (s *Store) Settings() *SettingsRepository    { return &SettingsRepository{s} }

// Check satisfies the health checker contract.
func (s *Store) Check(ctx context.Context) error { return ctx.Err() }

// ==== cases ====

type CaseRepository struct{ s *Store }

func (r *CaseRepository) Save(_ context.Context, c *cases.Case) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.s.cases[c.ID] = &cp
	return nil
}

func (r *CaseRepository) Get(_ context.Context, id cases.CaseID) (*cases.Case, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.cases[id]
	if !ok {
		return nil, cases.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *CaseRepository) Paginate(_ context.Context, q cases.Query) (cases.PaginatedResult, error) {
	q = q.Normalize()
	r.s.mu.RLock()
	var matched []*cases.Case
	for _, c := range r.s.cases {
		if q.Status != "" && c.AnalysisStatus != q.Status {
			continue
		}
		if q.Search != "" && !strings.Contains(c.Title, q.Search) &&
			!strings.Contains(c.Location, q.Search) && !strings.Contains(c.Cause, q.Search) {
			continue
		}
		cp := *c
		matched = append(matched, &cp)
	}
	r.s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Date != matched[j].Date {
			return matched[i].Date > matched[j].Date
		}
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	start := q.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return cases.NewPaginatedResult(matched[start:end], q, total), nil
}

func (r *CaseRepository) ExistsByHash(_ context.Context, hash string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.cases {
		if hash != "" && c.Hash == hash {
			return true, nil
		}
	}
	return false, nil
}

func (r *CaseRepository) CountCreated(_ context.Context, from, to time.Time) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, c := range r.s.cases {
		if !c.CreatedAt.Before(from) && c.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (r *CaseRepository) PendingAlerts(_ context.Context, limit int) ([]*cases.Case, error) {
	if limit <= 0 {
		limit = 20
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*cases.Case
	for _, c := range r.s.cases {
		if c.AnalysisStatus == cases.StatusCompleted && c.AlertedAt == nil {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ==== recipients ====

type RecipientRepository struct{ s *Store }

func (r *RecipientRepository) Save(_ context.Context, rc *recipients.Recipient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *rc
	r.s.recipients[rc.ID] = &cp
	return nil
}

func (r *RecipientRepository) Get(_ context.Context, id recipients.RecipientID) (*recipients.Recipient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rc, ok := r.s.recipients[id]
	if !ok {
		return nil, recipients.ErrNotFound
	}
	cp := *rc
	return &cp, nil
}

func (r *RecipientRepository) Delete(_ context.Context, id recipients.RecipientID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.recipients[id]; !ok {
		return recipients.ErrNotFound
	}
	delete(r.s.recipients, id)
	return nil
}

func (r *RecipientRepository) List(_ context.Context, f recipients.Filter) ([]*recipients.Recipient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*recipients.Recipient{}
	for _, rc := range r.s.recipients {
		if f.Group != "" && rc.Group != f.Group {
			continue
		}
		if !rc.Matches(f.Search) {
			continue
		}
		cp := *rc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ==== alerts ====

type AlertRepository struct{ s *Store }

func (r *AlertRepository) Save(_ context.Context, a *alerts.AlertHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *a
	r.s.alerts[a.ID] = &cp
	return nil
}

func (r *AlertRepository) Get(_ context.Context, id alerts.AlertID) (*alerts.AlertHistory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.alerts[id]
	if !ok {
		return nil, alerts.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *AlertRepository) sorted() []*alerts.AlertHistory {
	out := make([]*alerts.AlertHistory, 0, len(r.s.alerts))
	for _, a := range r.s.alerts {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].SentAt.After(out[j].SentAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *AlertRepository) Paginate(_ context.Context, page, pageSize int) (alerts.PaginatedResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	r.s.mu.RLock()
	all := r.sorted()
	r.s.mu.RUnlock()

	total := len(all)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return alerts.PaginatedResult{
		Data:       all[start:end],
		Page:       page,
		PageSize:   pageSize,
		Total:      int64(total),
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

func (r *AlertRepository) Latest(_ context.Context, limit int) ([]*alerts.AlertHistory, error) {
	if limit <= 0 {
		limit = 5
	}
	r.s.mu.RLock()
	all := r.sorted()
	r.s.mu.RUnlock()
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *AlertRepository) CountSent(_ context.Context, from, to time.Time) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, a := range r.s.alerts {
		if a.Status == alerts.StatusSuccess && !a.SentAt.Before(from) && a.SentAt.Before(to) {
			n++
		}
	}
	return n, nil
}

// ==== reports ====

type ReportRepository struct{ s *Store }

func (r *ReportRepository) Save(_ context.Context, rp *reports.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *rp
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.s.reports = append(r.s.reports, &cp)
	return nil
}

func (r *ReportRepository) LatestByCase(_ context.Context, caseID string) (*reports.Report, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var latest *reports.Report
	for _, rp := range r.s.reports {
		if rp.CaseID != caseID {
			continue
		}
		if latest == nil || !rp.CreatedAt.Before(latest.CreatedAt) {
			latest = rp
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

// ==== failures ====

type FailureRepository struct{ s *Store }

func (r *FailureRepository) Save(_ context.Context, f *failures.Failure) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextID++
	f.ID = r.s.nextID
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	cp := *f
	r.s.failures = append(r.s.failures, &cp)
	return nil
}

func (r *FailureRepository) ListByCase(_ context.Context, caseID string, limit int) ([]*failures.Failure, error) {
	if limit <= 0 {
		limit = 20
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*failures.Failure{}
	for i := len(r.s.failures) - 1; i >= 0 && len(out) < limit; i-- {
		if f := r.s.failures[i]; f.CaseID == caseID {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ==== settings ====

type SettingsRepository struct{ s *Store }

func (r *SettingsRepository) Load(_ context.Context) (*settings.Settings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.settings == nil {
		return nil, nil
	}
	cp := *r.s.settings
	return &cp, nil
}

func (r *SettingsRepository) Save(_ context.Context, st *settings.Settings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *st
	r.s.settings = &cp
	return nil
}
