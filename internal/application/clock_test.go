package application_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"

	"github.com/bryanwahyu/siren-alert/internal/application"
)

func TestDayRange(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)
	start, end := application.DayRange(time.Date(2024, 2, 29, 23, 59, 0, 0, kst))

	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, kst), start)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, kst), end)
}

func TestZonedClock(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)
	base := clockwork.NewFakeClockAt(time.Date(2023, 10, 26, 20, 30, 0, 0, time.UTC))

	now := application.ZonedClock{Clock: base, Loc: kst}.Now()
	assert.Equal(t, "2023-10-27", now.Format("2006-01-02"))
	assert.True(t, now.Equal(base.Now()))

	assert.Equal(t, time.UTC, application.ZonedClock{Clock: base}.Now().Location())
}
