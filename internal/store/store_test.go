package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dailyspark/practiceengine/internal/domain"
	"github.com/dailyspark/practiceengine/internal/errs"
)

func newTestStore() *Store {
	return New(NewMemBackend(), nil, TTLConfig{CompletedGoal: time.Hour, Reminder: time.Hour}, nil, nil)
}

func TestStore_SaveAndGetGoal(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	g := &domain.Goal{ID: "g1", OwnerUserID: "u1", Title: "Learn Go", Status: domain.GoalActive, Priority: 999}
	if err := s.SaveGoal(ctx, g, nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	if g.Version != 1 {
		t.Errorf("version = %d, want 1", g.Version)
	}

	got, err := s.GetGoal(ctx, "g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Learn Go" {
		t.Errorf("title = %q", got.Title)
	}

	ids, err := s.ListUserActiveGoals(ctx, "u1")
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(ids) != 1 || ids[0] != "g1" {
		t.Errorf("active goals = %v", ids)
	}
}

func TestStore_SaveGoal_InvalidData(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	g := &domain.Goal{ID: "", OwnerUserID: "u1", Title: "x", Status: domain.GoalActive, Priority: 1}
	err := s.SaveGoal(ctx, g, nil)
	if errs.KindOf(err) != errs.KindValidation {
		t.Fatalf("err = %v, want VALIDATION_ERROR", err)
	}
}

func TestStore_VersionConflict(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	g := &domain.Goal{ID: "g1", OwnerUserID: "u1", Title: "x", Status: domain.GoalActive, Priority: 1}
	if err := s.SaveGoal(ctx, g, nil); err != nil {
		t.Fatal(err)
	}

	stale := int64(1)
	g2 := &domain.Goal{ID: "g1", OwnerUserID: "u1", Title: "y", Status: domain.GoalActive, Priority: 1}
	if err := s.SaveGoal(ctx, g2, &stale); err != nil {
		t.Fatalf("expected success on matching version: %v", err)
	}

	g3 := &domain.Goal{ID: "g1", OwnerUserID: "u1", Title: "z", Status: domain.GoalActive, Priority: 1}
	if err := s.SaveGoal(ctx, g3, &stale); errs.KindOf(err) != errs.KindVersionConflict {
		t.Fatalf("err = %v, want VERSION_CONFLICT", err)
	}
}

func TestStore_GetGoal_NotFound(t *testing.T) {
	s := newTestStore()
	_, err := s.GetGoal(context.Background(), "missing")
	if errs.KindOf(err) != errs.KindNotFound {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestStore_ActiveGoalIndexUpdatesOnStatusChange(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	g := &domain.Goal{ID: "g1", OwnerUserID: "u1", Title: "x", Status: domain.GoalActive, Priority: 1}
	if err := s.SaveGoal(ctx, g, nil); err != nil {
		t.Fatal(err)
	}

	v := g.Version
	g.Status = domain.GoalCompleted
	if err := s.SaveGoal(ctx, g, &v); err != nil {
		t.Fatal(err)
	}

	ids, _ := s.ListUserActiveGoals(ctx, "u1")
	if len(ids) != 0 {
		t.Errorf("expected no active goals, got %v", ids)
	}
}

func TestStore_CascadeDeleteGoal(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	g := &domain.Goal{ID: "g1", OwnerUserID: "u1", Title: "x", Status: domain.GoalActive, Priority: 1}
	if err := s.SaveGoal(ctx, g, nil); err != nil {
		t.Fatal(err)
	}

	q := &domain.Quest{ID: "q1", GoalID: "g1", Title: "quest", Status: domain.QuestActive, Order: 1}
	if err := s.SaveQuest(ctx, q, nil); err != nil {
		t.Fatal(err)
	}

	sk := &domain.Skill{
		ID: "sk1", QuestID: "q1", GoalID: "g1", UserID: "u1",
		Action: "do it", SuccessSignal: "done", LockedVariables: []string{"x"},
		EstimatedMinutes: 10, Difficulty: domain.DifficultyFoundation, Order: 1,
		MasteryState: domain.MasteryNotStarted,
	}
	if err := s.SaveSkill(ctx, sk, nil); err != nil {
		t.Fatal(err)
	}

	d := &domain.DailyDrill{
		ID: "d1", SkillID: "sk1", UserID: "u1", GoalID: "g1",
		ScheduledDate: "2026-07-29", DayNumber: 1, Status: domain.DrillActive,
		EstimatedMinutes: 10,
	}
	if err := s.SaveDrill(ctx, d, nil); err != nil {
		t.Fatal(err)
	}

	sp := &domain.Spark{
		ID: "sp1", DrillID: "d1", UserID: "u1", Status: domain.SparkPending,
		Variant: domain.VariantFull, EscalationLevel: 0, EstimatedMinutes: 10,
	}
	if err := s.SaveSpark(ctx, sp, nil); err != nil {
		t.Fatal(err)
	}

	r := &domain.Reminder{
		ID: "r1", UserID: "u1", DrillID: "d1", SparkID: "sp1",
		ScheduledTime: time.Now().Add(time.Hour), Status: domain.ReminderPending,
		Channels: []domain.Channel{domain.ChannelPush},
	}
	if err := s.SaveReminder(ctx, r, nil); err != nil {
		t.Fatal(err)
	}

	count, err := s.DeleteGoal(ctx, "g1")
	if err != nil {
		t.Fatalf("cascade delete: %v", err)
	}
	if count != 5 {
		t.Errorf("cascade count = %d, want 5", count)
	}

	if _, err := s.GetGoal(ctx, "g1"); errs.KindOf(err) != errs.KindNotFound {
		t.Error("goal should be gone")
	}
	if _, err := s.GetQuest(ctx, "q1"); errs.KindOf(err) != errs.KindNotFound {
		t.Error("quest should be gone")
	}
	if _, err := s.GetSkill(ctx, "sk1"); errs.KindOf(err) != errs.KindNotFound {
		t.Error("skill should be gone")
	}
	if _, err := s.GetDrill(ctx, "d1"); errs.KindOf(err) != errs.KindNotFound {
		t.Error("drill should be gone")
	}
	if _, err := s.GetSpark(ctx, "sp1"); errs.KindOf(err) != errs.KindNotFound {
		t.Error("spark should be gone")
	}
	if _, err := s.GetReminder(ctx, "r1"); errs.KindOf(err) != errs.KindNotFound {
		t.Error("reminder should be gone")
	}
}

func TestStore_CascadeDeleteIdempotent(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	g := &domain.Goal{ID: "g1", OwnerUserID: "u1", Title: "x", Status: domain.GoalActive, Priority: 1}
	if err := s.SaveGoal(ctx, g, nil); err != nil {
		t.Fatal(err)
	}

	if _, err := s.DeleteGoal(ctx, "g1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.DeleteGoal(ctx, "g1"); err != nil {
		t.Fatalf("second delete should be idempotent, got %v", err)
	}
}

func TestStore_CancelPendingRemindersForSpark(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	r1 := &domain.Reminder{
		ID: "r1", UserID: "u1", DrillID: "d1", SparkID: "sp1",
		ScheduledTime: time.Now().Add(time.Hour), Status: domain.ReminderPending,
		Channels: []domain.Channel{domain.ChannelPush},
	}
	r2 := &domain.Reminder{
		ID: "r2", UserID: "u1", DrillID: "d1", SparkID: "sp1",
		ScheduledTime: time.Now().Add(2 * time.Hour), Status: domain.ReminderPending,
		Channels: []domain.Channel{domain.ChannelEmail},
	}
	if err := s.SaveReminder(ctx, r1, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveReminder(ctx, r2, nil); err != nil {
		t.Fatal(err)
	}

	n, err := s.CancelPendingRemindersForSpark(ctx, "sp1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("cancelled = %d, want 2", n)
	}

	got1, _ := s.GetReminder(ctx, "r1")
	if got1.Status != domain.ReminderCancelled {
		t.Errorf("r1 status = %s", got1.Status)
	}

	due, err := s.DueReminders(ctx, time.Now().Add(3*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 0 {
		t.Errorf("expected no due reminders after cancellation, got %v", due)
	}
}

func TestStore_DueReminders(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	past := &domain.Reminder{
		ID: "r1", UserID: "u1", DrillID: "d1", SparkID: "sp1",
		ScheduledTime: time.Now().Add(-time.Minute), Status: domain.ReminderPending,
		Channels: []domain.Channel{domain.ChannelPush},
	}
	future := &domain.Reminder{
		ID: "r2", UserID: "u1", DrillID: "d1", SparkID: "sp1",
		ScheduledTime: time.Now().Add(time.Hour), Status: domain.ReminderPending,
		Channels: []domain.Channel{domain.ChannelPush},
	}
	if err := s.SaveReminder(ctx, past, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveReminder(ctx, future, nil); err != nil {
		t.Fatal(err)
	}

	due, err := s.DueReminders(ctx, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 1 || due[0] != "r1" {
		t.Errorf("due = %v, want [r1]", due)
	}
}

func TestStore_GoalTTLAppliedOnCompletion(t *testing.T) {
	s := New(NewMemBackend(), nil, TTLConfig{CompletedGoal: 10 * time.Millisecond}, nil, nil)
	ctx := context.Background()

	g := &domain.Goal{ID: "g1", OwnerUserID: "u1", Title: "x", Status: domain.GoalCompleted, Priority: 1, PausedUntil: ""}
	if err := s.SaveGoal(ctx, g, nil); err != nil {
		t.Fatal(err)
	}

	time.Sleep(30 * time.Millisecond)
	if _, err := s.GetGoal(ctx, "g1"); errs.KindOf(err) != errs.KindNotFound {
		t.Fatalf("expected expired goal to read as NOT_FOUND, got %v", err)
	}
}

func TestStore_IntegrityFailureOnTamperedPayload(t *testing.T) {
	backend := NewMemBackend()
	s := New(backend, nil, TTLConfig{}, nil, nil)
	ctx := context.Background()

	g := &domain.Goal{ID: "g1", OwnerUserID: "u1", Title: "x", Status: domain.GoalActive, Priority: 1}
	if err := s.SaveGoal(ctx, g, nil); err != nil {
		t.Fatal(err)
	}

	raw, _, _ := backend.Get(ctx, goalKey("g1"))
	tampered := strings.Replace(raw, `"title":"x"`, `"title":"y"`, 1)
	if err := backend.Set(ctx, goalKey("g1"), tampered); err != nil {
		t.Fatal(err)
	}

	_, err := s.GetGoal(ctx, "g1")
	if err == nil {
		t.Fatal("expected an error reading tampered payload")
	}
}
