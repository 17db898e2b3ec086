// Package scheduler resolves "what to practice today" for a user: the
// current drill and its spark, in the user's timezone, applying priority
// and recency tie-breaks across the user's active goals.
package scheduler

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dailyspark/practiceengine/internal/domain"
	"github.com/dailyspark/practiceengine/internal/errs"
	"github.com/dailyspark/practiceengine/internal/observability"
)

// goalStore is the subset of *store.Store the scheduler depends on.
// Expressed as an interface so tests can substitute a fake without
// pulling in the full persistence layer.
type goalStore interface {
	ListUserActiveGoals(ctx context.Context, userID string) ([]string, error)
	GetGoal(ctx context.Context, id string) (*domain.Goal, error)
	GetSkill(ctx context.Context, id string) (*domain.Skill, error)
	GetDrillByDate(ctx context.Context, goalID, date string) (*domain.DailyDrill, error)
	ListDrillSparks(ctx context.Context, drillID string) ([]string, error)
	GetSpark(ctx context.Context, id string) (*domain.Spark, error)
	SaveSpark(ctx context.Context, sp *domain.Spark, expectedVersion *int64) error
}

// Result is GetTodayForUser's output shape.
type Result struct {
	HasContent bool
	Drill      *domain.DailyDrill
	Spark      *domain.Spark
	Date       string
	Timezone   string
	GoalID     string
	QuestID    string
}

// Scheduler resolves today's practice content per user.
type Scheduler struct {
	store          goalStore
	defaultTZ      string
	defaultMinutes int
	log            *observability.Logger
}

// New constructs a Scheduler. defaultTZ is used when a user has no active
// Goal to source a timezone from (config.General.DefaultTimezone).
// defaultEstimatedMinutes seeds a generated Spark's estimate when the
// drill itself doesn't carry one (falls back to the drill's own minutes
// first). log may be nil.
func New(s goalStore, defaultTZ string, defaultEstimatedMinutes int, log *observability.Logger) *Scheduler {
	return &Scheduler{store: s, defaultTZ: defaultTZ, defaultMinutes: defaultEstimatedMinutes, log: log}
}

// Today resolves the current drill/spark for userID at instant now.
func (sch *Scheduler) Today(ctx context.Context, userID string, now time.Time) (Result, error) {
	goals, err := sch.loadActiveNonPausedGoals(ctx, userID, now)
	if err != nil {
		return Result{}, err
	}
	if len(goals) == 0 {
		return Result{HasContent: false}, nil
	}

	tz := goals[0].Timezone
	if tz == "" {
		tz = sch.defaultTZ
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Result{}, errs.Wrap(errs.KindValidation, err, "invalid timezone %q", tz)
	}
	today := now.In(loc).Format("2006-01-02")

	sortGoalsForResolution(goals)

	for _, g := range goals {
		drill, err := sch.store.GetDrillByDate(ctx, g.ID, today)
		if err != nil {
			if errs.KindOf(err) == errs.KindNotFound {
				continue
			}
			return Result{}, err
		}

		questID, err := sch.questIDForDrill(ctx, drill)
		if err != nil {
			return Result{}, err
		}

		spark, err := sch.resolveSpark(ctx, drill)
		if err != nil {
			return Result{}, err
		}

		return Result{
			HasContent: true,
			Drill:      drill,
			Spark:      spark,
			Date:       today,
			Timezone:   tz,
			GoalID:     g.ID,
			QuestID:    questID,
		}, nil
	}

	return Result{HasContent: false, Date: today, Timezone: tz}, nil
}

// loadActiveNonPausedGoals loads userID's active Goals and filters out
// those whose pausedUntil is still in the future in the user's timezone.
// A Goal whose pausedUntil has already elapsed is returned as eligible —
// the pausedUntil field itself is left untouched; only the Goal state
// machine's resume event clears it.
func (sch *Scheduler) loadActiveNonPausedGoals(ctx context.Context, userID string, now time.Time) ([]*domain.Goal, error) {
	ids, err := sch.store.ListUserActiveGoals(ctx, userID)
	if err != nil {
		return nil, err
	}

	goals := make([]*domain.Goal, 0, len(ids))
	for _, id := range ids {
		g, err := sch.store.GetGoal(ctx, id)
		if err != nil {
			if errs.KindOf(err) == errs.KindNotFound {
				continue
			}
			return nil, err
		}
		if g.Status != domain.GoalActive {
			continue
		}
		if g.PausedUntil != "" {
			tz := g.Timezone
			if tz == "" {
				tz = sch.defaultTZ
			}
			loc, err := time.LoadLocation(tz)
			if err != nil {
				return nil, errs.Wrap(errs.KindValidation, err, "goal %s: invalid timezone %q", g.ID, tz)
			}
			today := now.In(loc).Format("2006-01-02")
			if g.PausedUntil > today {
				continue
			}
		}
		goals = append(goals, g)
	}
	return goals, nil
}

// sortGoalsForResolution orders goals by priority ascending, then
// createdAt ascending, then id ascending — a fully deterministic
// tie-break chain.
func sortGoalsForResolution(goals []*domain.Goal) {
	sort.Slice(goals, func(i, j int) bool {
		a, b := goals[i], goals[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func (sch *Scheduler) questIDForDrill(ctx context.Context, d *domain.DailyDrill) (string, error) {
	sk, err := sch.store.GetSkill(ctx, d.SkillID)
	if err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			return "", nil
		}
		return "", err
	}
	return sk.QuestID, nil
}

// resolveSpark returns the drill's pending Spark, generating and
// persisting a fresh escalation-level-0 Spark if none exists.
func (sch *Scheduler) resolveSpark(ctx context.Context, d *domain.DailyDrill) (*domain.Spark, error) {
	sparkIDs, err := sch.store.ListDrillSparks(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	for _, id := range sparkIDs {
		sp, err := sch.store.GetSpark(ctx, id)
		if err != nil {
			if errs.KindOf(err) == errs.KindNotFound {
				continue
			}
			return nil, err
		}
		if sp.Status == domain.SparkPending {
			return sp, nil
		}
	}

	minutes := d.EstimatedMinutes
	if minutes < 5 {
		minutes = sch.defaultMinutes
	}
	if minutes < 5 {
		minutes = 5
	}
	if minutes > 120 {
		minutes = 120
	}

	sp := &domain.Spark{
		ID:               uuid.New().String(),
		DrillID:          d.ID,
		UserID:           d.UserID,
		Status:           domain.SparkPending,
		Variant:          domain.VariantFull,
		EscalationLevel:  0,
		EstimatedMinutes: minutes,
	}
	if err := sch.store.SaveSpark(ctx, sp, nil); err != nil {
		return nil, err
	}
	if sch.log != nil {
		sch.log.EntityEvent("generate", "spark", sp.ID)
	}
	return sp, nil
}
