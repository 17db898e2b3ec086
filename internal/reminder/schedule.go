// Package reminder generates per-day escalating reminder schedules and
// drives their once-only dispatch.
package reminder

import (
	"time"

	"github.com/dailyspark/practiceengine/internal/domain"
)

// ScheduleConfig is the per-user (or global) reminder escalation
// configuration: how soon to nag, how often, and when to back off.
type ScheduleConfig struct {
	Enabled            bool
	Timezone           string
	FirstHour          int
	LastHour           int
	IntervalHours      int
	MaxPerDay          int
	QuietDays          map[time.Weekday]bool
	ShrinkOnEscalation bool
}

// DefaultScheduleConfig returns the documented escalation defaults.
func DefaultScheduleConfig(tz string) ScheduleConfig {
	return ScheduleConfig{
		Enabled:            true,
		Timezone:           tz,
		FirstHour:          9,
		LastHour:           19,
		IntervalHours:      4,
		MaxPerDay:          4,
		ShrinkOnEscalation: true,
	}
}

// Slot is one generated reminder instant before it is persisted.
type Slot struct {
	ScheduledTime   time.Time
	EscalationLevel int
	SparkVariant    domain.SparkVariant
	Tone            domain.Tone
}

// GenerateDay produces the reminder slots for date (YYYY-MM-DD) under cfg.
// Pure function of its inputs — no I/O, no clock reads beyond parsing date.
func GenerateDay(cfg ScheduleConfig, date string) ([]Slot, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil, err
	}
	if cfg.QuietDays[day.Weekday()] {
		return nil, nil
	}

	firstHour, lastHour, interval, maxPerDay := cfg.FirstHour, cfg.LastHour, cfg.IntervalHours, cfg.MaxPerDay
	if interval <= 0 {
		interval = 4
	}
	if maxPerDay <= 0 {
		maxPerDay = 4
	}

	var slots []Slot
	count := 0
	for hour := firstHour; hour <= lastHour && count < maxPerDay && count <= 3; hour += interval {
		i := count
		slots = append(slots, Slot{
			ScheduledTime:   time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, loc),
			EscalationLevel: i,
			SparkVariant:    levelToVariant(i, cfg.ShrinkOnEscalation),
			Tone:            levelToTone(i),
		})
		count++
	}
	return slots, nil
}

// levelToVariant maps an escalation level to a Spark variant.
func levelToVariant(level int, shrinkOnEscalation bool) domain.SparkVariant {
	if !shrinkOnEscalation {
		return domain.VariantFull
	}
	switch level {
	case 0, 1:
		return domain.VariantFull
	case 2:
		return domain.VariantReduced
	default:
		return domain.VariantMinimal
	}
}

// levelToTone maps an escalation level to a reminder tone.
func levelToTone(level int) domain.Tone {
	switch level {
	case 0:
		return domain.ToneEncouraging
	case 1, 2:
		return domain.ToneGentle
	default:
		return domain.ToneLastChance
	}
}

// InQuietWindow reports whether t (already in cfg's timezone) falls
// outside the configured active hours or on a quiet weekday. No
// reminder-creation path in this module calls it; GenerateDay itself
// never emits a slot on a quiet day or outside [FirstHour, LastHour].
func InQuietWindow(cfg ScheduleConfig, t time.Time) bool {
	if cfg.QuietDays[t.Weekday()] {
		return true
	}
	return t.Hour() < cfg.FirstHour || t.Hour() > cfg.LastHour
}
