package application

import "time"

// Clock interface supaya gampang ditest.
// clockwork.Clock juga memenuhi interface ini.
type Clock interface {
	Now() time.Time
}

// SystemClock implementasi default, pakai time.Now()
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ZonedClock Now() dalam zona waktu tertentu (tanggal case, hitungan harian)
type ZonedClock struct {
	Clock Clock
	Loc   *time.Location
}

func (z ZonedClock) Now() time.Time {
	var c Clock = SystemClock{}
	if z.Clock != nil {
		c = z.Clock
	}
	if z.Loc == nil {
		return c.Now()
	}
	return c.Now().In(z.Loc)
}

// DayStart returns midnight of t's day in t's location.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayRange returns [start, end) of the day containing t.
func DayRange(t time.Time) (time.Time, time.Time) {
	start := DayStart(t)
	return start, start.AddDate(0, 0, 1)
}
