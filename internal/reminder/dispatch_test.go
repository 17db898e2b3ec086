package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dailyspark/practiceengine/internal/domain"
	"github.com/dailyspark/practiceengine/internal/errs"
)

type fakeReminderStore struct {
	reminders map[string]*domain.Reminder
	drills    map[string]*domain.DailyDrill
	due       []string
}

func newFakeReminderStore() *fakeReminderStore {
	return &fakeReminderStore{reminders: map[string]*domain.Reminder{}, drills: map[string]*domain.DailyDrill{}}
}

func (f *fakeReminderStore) DueReminders(ctx context.Context, asOf time.Time) ([]string, error) {
	return f.due, nil
}

func (f *fakeReminderStore) GetReminder(ctx context.Context, id string) (*domain.Reminder, error) {
	r, ok := f.reminders[id]
	if !ok {
		return nil, errs.NotFound("reminder %s", id)
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReminderStore) SaveReminder(ctx context.Context, r *domain.Reminder, expectedVersion *int64) error {
	existing := f.reminders[r.ID]
	if existing != nil && expectedVersion != nil && existing.Version != *expectedVersion {
		return errs.New(errs.KindVersionConflict, "stale version")
	}
	r.Version++
	cp := *r
	f.reminders[r.ID] = &cp
	return nil
}

func (f *fakeReminderStore) GetDrill(ctx context.Context, id string) (*domain.DailyDrill, error) {
	d, ok := f.drills[id]
	if !ok {
		return nil, errs.NotFound("drill %s", id)
	}
	return d, nil
}

type fakeDeliverer struct {
	shouldFail bool
	delivered  []string
}

func (f *fakeDeliverer) Deliver(ctx context.Context, r *domain.Reminder) error {
	if f.shouldFail {
		return errors.New("delivery failed")
	}
	f.delivered = append(f.delivered, r.ID)
	return nil
}

func TestDispatcher_DeliversPendingReminder(t *testing.T) {
	store := newFakeReminderStore()
	store.reminders["r1"] = &domain.Reminder{ID: "r1", Status: domain.ReminderPending, DrillID: "d1", Channels: []domain.Channel{domain.ChannelPush}}
	store.due = []string{"r1"}

	channels := NewChannelRegistry()
	push := &fakeDeliverer{}
	channels.Register(domain.ChannelPush, push)

	d := NewDispatcher(store, channels, nil, nil)
	sent, failed, err := d.Tick(context.Background(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if sent != 1 || failed != 0 {
		t.Fatalf("sent=%d failed=%d, want 1,0", sent, failed)
	}
	if store.reminders["r1"].Status != domain.ReminderSent {
		t.Errorf("status = %s, want sent", store.reminders["r1"].Status)
	}
	if store.reminders["r1"].SentAt == nil {
		t.Error("expected sentAt to be set")
	}
	if len(push.delivered) != 1 {
		t.Errorf("delivered = %v, want 1 entry", push.delivered)
	}
}

func TestDispatcher_FailedDeliveryMarksFailed(t *testing.T) {
	store := newFakeReminderStore()
	store.reminders["r1"] = &domain.Reminder{ID: "r1", Status: domain.ReminderPending, DrillID: "d1", Channels: []domain.Channel{domain.ChannelPush}}
	store.due = []string{"r1"}

	channels := NewChannelRegistry()
	channels.Register(domain.ChannelPush, &fakeDeliverer{shouldFail: true})

	d := NewDispatcher(store, channels, nil, nil)
	sent, failed, err := d.Tick(context.Background(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if sent != 0 || failed != 1 {
		t.Fatalf("sent=%d failed=%d, want 0,1", sent, failed)
	}
	if store.reminders["r1"].Status != domain.ReminderFailed {
		t.Errorf("status = %s, want failed", store.reminders["r1"].Status)
	}
}

func TestDispatcher_NonPendingReminderSilentlyConsumed(t *testing.T) {
	store := newFakeReminderStore()
	store.reminders["r1"] = &domain.Reminder{ID: "r1", Status: domain.ReminderCancelled, DrillID: "d1"}
	store.due = []string{"r1"}

	d := NewDispatcher(store, NewChannelRegistry(), nil, nil)
	sent, failed, err := d.Tick(context.Background(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if sent != 0 || failed != 0 {
		t.Errorf("expected no-op for already-cancelled reminder, got sent=%d failed=%d", sent, failed)
	}
	if store.reminders["r1"].Status != domain.ReminderCancelled {
		t.Error("status should be untouched")
	}
}

func TestDispatcher_CompletedDrillConsumesWithoutDispatch(t *testing.T) {
	store := newFakeReminderStore()
	store.reminders["r1"] = &domain.Reminder{ID: "r1", Status: domain.ReminderPending, DrillID: "d1", Channels: []domain.Channel{domain.ChannelPush}}
	store.drills["d1"] = &domain.DailyDrill{ID: "d1", Status: domain.DrillCompleted}
	store.due = []string{"r1"}

	channels := NewChannelRegistry()
	push := &fakeDeliverer{}
	channels.Register(domain.ChannelPush, push)

	d := NewDispatcher(store, channels, nil, nil)
	sent, failed, err := d.Tick(context.Background(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if sent != 0 || failed != 0 {
		t.Errorf("expected consumed without dispatch, got sent=%d failed=%d", sent, failed)
	}
	if len(push.delivered) != 0 {
		t.Error("expected no delivery attempt for a reminder whose drill already completed")
	}
	if store.reminders["r1"].Status != domain.ReminderCancelled {
		t.Errorf("status = %s, want cancelled", store.reminders["r1"].Status)
	}
}

func TestDispatcher_ConcurrentWinnerOnly(t *testing.T) {
	store := newFakeReminderStore()
	store.reminders["r1"] = &domain.Reminder{ID: "r1", Status: domain.ReminderPending, DrillID: "d1", Channels: []domain.Channel{domain.ChannelPush}, Version: 5}
	store.due = []string{"r1"}

	channels := NewChannelRegistry()
	channels.Register(domain.ChannelPush, &fakeDeliverer{})
	d := NewDispatcher(store, channels, nil, nil)

	r, _ := store.GetReminder(context.Background(), "r1")
	outcome, err := d.dispatchOne(context.Background(), r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if outcome != outcomeSent {
		t.Fatalf("outcome = %v, want sent", outcome)
	}

	// Simulate a second worker racing on a stale copy.
	stale := *r
	ev := stale.Version
	stale.Status = domain.ReminderSent
	err = store.SaveReminder(context.Background(), &stale, &ev)
	if errs.KindOf(err) != errs.KindVersionConflict {
		t.Fatalf("expected version conflict on the losing write, got %v", err)
	}
}
