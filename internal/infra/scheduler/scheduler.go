package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/bryanwahyu/siren-alert/internal/domain/settings"
)

// SettingsReader current settings
type SettingsReader interface {
	Get(ctx context.Context) (settings.Settings, error)
}

// Job satu pekerjaan terjadwal
type Job func(ctx context.Context) error

// Discard adapts a use case that returns a result into a Job. The use case
// logs its own summary.
func Discard[T any](fn func(ctx context.Context) (T, error)) Job {
	return func(ctx context.Context) error {
		_, err := fn(ctx)
		return err
	}
}

// Scheduler checks the settings every minute and runs the daily collection
// sync and, in scheduled mode, the pending alert dispatch.
type Scheduler struct {
	clock    clockwork.Clock
	settings SettingsReader
	loc      *time.Location
	sync     Job
	dispatch Job

	mu           sync.Mutex
	lastSync     string
	lastDispatch string
}

func New(clock clockwork.Clock, st SettingsReader, loc *time.Location, sync, dispatch Job) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{clock: clock, settings: st, loc: loc, sync: sync, dispatch: dispatch}
}

// Run blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(time.Minute)
	defer ticker.Stop()
	log.Printf("scheduler=started tz=%s", s.loc)
	for {
		select {
		case <-ctx.Done():
			log.Printf("scheduler=stopped")
			return
		case now := <-ticker.Chan():
			s.Tick(ctx, now)
		}
	}
}

// Tick runs whatever job is due at now. A job is due from its configured
// minute until the end of the day and runs at most once per day, so a tick
// missed while another job was running is caught up on the next one.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	st, err := s.settings.Get(ctx)
	if err != nil {
		log.Printf("scheduler=tick settings_err=%v", err)
		return
	}
	now = now.In(s.loc)
	day := now.Format("2006-01-02")
	minute := now.Hour()*60 + now.Minute()

	if due(st.Collection.ScrapeTime, minute) && s.claim(&s.lastSync, day) {
		s.run(ctx, "sync", s.sync)
	}
	if st.Scheduler.Enabled && st.Scheduler.Mode == settings.ModeScheduled &&
		due(st.Scheduler.SendTime, minute) && s.claim(&s.lastDispatch, day) {
		s.run(ctx, "dispatch", s.dispatch)
	}
}

func (s *Scheduler) claim(last *string, day string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if *last == day {
		return false
	}
	*last = day
	return true
}

func (s *Scheduler) run(ctx context.Context, name string, job Job) {
	if job == nil {
		return
	}
	start := s.clock.Now()
	if err := job(ctx); err != nil {
		log.Printf("job=%s status=failed err=%v", name, err)
		return
	}
	log.Printf("job=%s status=done duration_ms=%d", name, s.clock.Since(start).Milliseconds())
}

func due(clock string, minute int) bool {
	m, err := settings.ParseClock(clock)
	return err == nil && minute >= m
}
