package reminder

import (
	"context"
	"time"

	"github.com/dailyspark/practiceengine/internal/domain"
	"github.com/dailyspark/practiceengine/internal/errs"
	"github.com/dailyspark/practiceengine/internal/observability"
)

// reminderStore is the subset of *store.Store the dispatcher depends on.
type reminderStore interface {
	DueReminders(ctx context.Context, asOf time.Time) ([]string, error)
	GetReminder(ctx context.Context, id string) (*domain.Reminder, error)
	SaveReminder(ctx context.Context, r *domain.Reminder, expectedVersion *int64) error
	GetDrill(ctx context.Context, id string) (*domain.DailyDrill, error)
}

// Dispatcher pops due reminders and delivers them exactly once.
type Dispatcher struct {
	store    reminderStore
	channels *ChannelRegistry
	log      *observability.Logger
	mtx      *observability.MetricsCollector
}

// NewDispatcher constructs a Dispatcher. log and mtx may be nil.
func NewDispatcher(store reminderStore, channels *ChannelRegistry, log *observability.Logger, mtx *observability.MetricsCollector) *Dispatcher {
	return &Dispatcher{store: store, channels: channels, log: log, mtx: mtx}
}

// Tick pops every reminder due at or before now and attempts delivery,
// returning the count sent and failed. Errors reading an individual
// reminder are logged and skipped rather than aborting the whole tick —
// one bad entry should not block the rest of the batch.
func (d *Dispatcher) Tick(ctx context.Context, now time.Time) (sent, failed int, err error) {
	ids, err := d.store.DueReminders(ctx, now)
	if err != nil {
		return 0, 0, err
	}

	for _, id := range ids {
		outcome, derr := d.dispatchOne(ctx, id)
		if derr != nil {
			if d.log != nil {
				d.log.ReminderEvent("dispatch_error", id, 0, "error", derr.Error())
			}
			continue
		}
		switch outcome {
		case outcomeSent:
			sent++
		case outcomeFailed:
			failed++
		}
	}
	return sent, failed, nil
}

type dispatchOutcome int

const (
	outcomeConsumed dispatchOutcome = iota
	outcomeSent
	outcomeFailed
)

// dispatchOne reloads reminder id, verifies it is still eligible for
// delivery, attempts it, and atomically records the outcome. Reminders
// that are no longer pending, or whose drill has completed or been
// skipped, are silently consumed without dispatch, keeping this idempotent.
func (d *Dispatcher) dispatchOne(ctx context.Context, id string) (dispatchOutcome, error) {
	r, err := d.store.GetReminder(ctx, id)
	if err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			return outcomeConsumed, nil
		}
		return outcomeConsumed, err
	}
	if r.Status != domain.ReminderPending {
		return outcomeConsumed, nil
	}

	drill, err := d.store.GetDrill(ctx, r.DrillID)
	if err != nil && errs.KindOf(err) != errs.KindNotFound {
		return outcomeConsumed, err
	}
	if drill != nil && (drill.Status == domain.DrillCompleted || drill.Status == domain.DrillSkipped) {
		return d.finalize(ctx, r, domain.ReminderCancelled)
	}

	delivered := d.attemptDelivery(ctx, r)

	if delivered {
		return d.finalize(ctx, r, domain.ReminderSent)
	}
	return d.finalize(ctx, r, domain.ReminderFailed)
}

// attemptDelivery tries every configured channel for r, succeeding if at
// least one accepts delivery.
func (d *Dispatcher) attemptDelivery(ctx context.Context, r *domain.Reminder) bool {
	delivered := false
	for _, ch := range r.Channels {
		sender := d.channels.Get(ch)
		if sender == nil {
			continue
		}
		if err := sender.Deliver(ctx, r); err == nil {
			delivered = true
		}
	}
	return delivered
}

// finalize transitions r to status via a CAS-guarded save: if a
// concurrent dispatcher already won the race, the version conflict is
// swallowed — exactly one delivery happens globally.
func (d *Dispatcher) finalize(ctx context.Context, r *domain.Reminder, status domain.ReminderStatus) (dispatchOutcome, error) {
	ev := r.Version
	r.Status = status
	if status == domain.ReminderSent {
		now := time.Now()
		r.SentAt = &now
	}

	if err := d.store.SaveReminder(ctx, r, &ev); err != nil {
		if errs.KindOf(err) == errs.KindVersionConflict {
			return outcomeConsumed, nil
		}
		return outcomeConsumed, err
	}

	if d.log != nil {
		d.log.ReminderEvent(string(status), r.ID, r.EscalationLevel)
	}
	if d.mtx != nil {
		switch status {
		case domain.ReminderSent:
			d.mtx.Increment("reminder_sent")
		case domain.ReminderFailed:
			d.mtx.Increment("reminder_failed")
		}
	}

	switch status {
	case domain.ReminderSent:
		return outcomeSent, nil
	case domain.ReminderFailed:
		return outcomeFailed, nil
	default:
		return outcomeConsumed, nil
	}
}

// Run drives Tick on interval until ctx is cancelled, the same
// ticker-loop idiom used by internal/cache's cleanup task.
func (d *Dispatcher) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _, _ = d.Tick(ctx, time.Now())
		}
	}
}
