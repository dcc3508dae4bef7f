package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2025, time.March, 3, hour, min, 0, 0, time.UTC) // a Monday
}

func TestMatchCronDailyAtSeven(t *testing.T) {
	expr := "0 7 * * *"

	assert.True(t, matchCron(expr, at(7, 0)))
	assert.False(t, matchCron(expr, at(7, 1)))
	assert.False(t, matchCron(expr, at(8, 0)))
	assert.False(t, matchCron(expr, at(6, 59)))
}

func TestMatchCronFieldForms(t *testing.T) {
	// Step: every 15 minutes.
	assert.True(t, matchCron("*/15 * * * *", at(9, 0)))
	assert.True(t, matchCron("*/15 * * * *", at(9, 45)))
	assert.False(t, matchCron("*/15 * * * *", at(9, 20)))

	// Range: business hours only.
	assert.True(t, matchCron("0 9-17 * * *", at(9, 0)))
	assert.True(t, matchCron("0 9-17 * * *", at(17, 0)))
	assert.False(t, matchCron("0 9-17 * * *", at(18, 0)))

	// Day of week: 2025-03-03 is a Monday (weekday 1).
	assert.True(t, matchCron("0 7 * * 1", at(7, 0)))
	assert.False(t, matchCron("0 7 * * 0", at(7, 0)))

	// Day of month and month fields.
	assert.True(t, matchCron("0 7 3 3 *", at(7, 0)))
	assert.False(t, matchCron("0 7 4 3 *", at(7, 0)))
}

func TestMatchCronRejectsMalformed(t *testing.T) {
	assert.False(t, matchCron("", at(7, 0)))
	assert.False(t, matchCron("0 7 * *", at(7, 0)))
	assert.False(t, matchCron("0 7 * * * *", at(7, 0)))
	// A zero step never matches.
	assert.False(t, matchCron("*/0 * * * *", at(7, 0)))
}

func TestIsDueIntervalEntries(t *testing.T) {
	e := &entry{interval: 5 * time.Minute}
	now := at(10, 0)

	// Never run before: due immediately.
	assert.True(t, isDue(e, now))

	e.lastRun = now
	assert.False(t, isDue(e, now.Add(4*time.Minute)))
	assert.True(t, isDue(e, now.Add(5*time.Minute)))
}

func TestIsDueCronEntryIgnoresLastRun(t *testing.T) {
	e := &entry{cronExpr: "0 7 * * *", lastRun: at(7, 0)}

	assert.True(t, isDue(e, at(7, 0)))
	assert.False(t, isDue(e, at(7, 30)))
}

func TestListShowsNameAndFrequency(t *testing.T) {
	regMu.Lock()
	saved := entries
	entries = nil
	regMu.Unlock()
	defer func() {
		regMu.Lock()
		entries = saved
		regMu.Unlock()
	}()

	Cron("0 7 * * *").Name("serviceOrderReminder").WithoutOverlapping().Run(func() {})
	Every(10).Minutes().Name("cacheSweep").Run(func() {})

	got := List()
	assert.Equal(t, []string{
		"serviceOrderReminder  [0 7 * * *]",
		"cacheSweep  [10m0s]",
	}, got)
}
