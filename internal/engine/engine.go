package engine

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/dailyspark/practiceengine/internal/domain"
	"github.com/dailyspark/practiceengine/internal/errs"
	"github.com/dailyspark/practiceengine/internal/observability"
	"github.com/dailyspark/practiceengine/internal/reminder"
	"github.com/dailyspark/practiceengine/internal/scheduler"
)

// engineStore is the subset of *store.Store the orchestrator depends on,
// narrowed to an interface so tests substitute a fake (same pattern as
// internal/scheduler's goalStore and internal/reminder's reminderStore).
type engineStore interface {
	SaveGoal(ctx context.Context, g *domain.Goal, expectedVersion *int64) error
	GetGoal(ctx context.Context, id string) (*domain.Goal, error)

	SaveQuest(ctx context.Context, q *domain.Quest, expectedVersion *int64) error
	GetQuest(ctx context.Context, id string) (*domain.Quest, error)
	ListGoalQuests(ctx context.Context, goalID string) ([]string, error)

	SaveSkill(ctx context.Context, sk *domain.Skill, expectedVersion *int64) error
	GetSkill(ctx context.Context, id string) (*domain.Skill, error)
	ListQuestSkills(ctx context.Context, questID string) ([]string, error)

	SaveDrill(ctx context.Context, d *domain.DailyDrill, expectedVersion *int64) error
	GetDrill(ctx context.Context, id string) (*domain.DailyDrill, error)
	GetDrillByDate(ctx context.Context, goalID, date string) (*domain.DailyDrill, error)

	SaveSpark(ctx context.Context, sp *domain.Spark, expectedVersion *int64) error
	GetSpark(ctx context.Context, id string) (*domain.Spark, error)
	ListDrillSparks(ctx context.Context, drillID string) ([]string, error)

	SaveReminder(ctx context.Context, r *domain.Reminder, expectedVersion *int64) error
	CancelPendingRemindersForSpark(ctx context.Context, sparkID string) (int, error)
}

// Dependencies holds every subsystem the orchestrator composes. Scheduler,
// Generator, Logger, and Metrics are nil-safe; MasteryThreshold defaults to
// 3 (config.Mastery.Threshold's own default). Reminder *delivery* (the
// Dispatcher's Tick/Run loop) is wired and driven independently — the
// orchestrator only needs to persist the day's Reminder rows, which it
// does directly through Store.
type Dependencies struct {
	Store            engineStore
	Scheduler        *scheduler.Scheduler
	Generator        SkillGenerator
	MasteryThreshold int
	ReminderTZ       string
	Logger           *observability.Logger
	Metrics          *observability.MetricsCollector
}

// Engine is the orchestrator tying the store, scheduler, and reminder
// subsystems together behind one operation set.
type Engine struct {
	deps Dependencies
}

// New constructs an Engine. deps.Generator defaults to
// NewDefaultSkillGenerator(15) if nil; deps.MasteryThreshold defaults to 3.
func New(deps Dependencies) *Engine {
	if deps.Generator == nil {
		deps.Generator = NewDefaultSkillGenerator(15)
	}
	if deps.MasteryThreshold <= 0 {
		deps.MasteryThreshold = 3
	}
	return &Engine{deps: deps}
}

// CreateGoal persists a new Goal at version 1, indexed into userGoals and
// (since a fresh Goal is always active) userActiveGoals — both side
// effects of Store.SaveGoal itself.
func (e *Engine) CreateGoal(ctx context.Context, params CreateGoalParams) (*domain.Goal, error) {
	if params.OwnerUserID == "" || params.Title == "" {
		return nil, errs.New(errs.KindValidation, "createGoal: ownerUserId and title are required")
	}
	priority := params.Priority
	if priority < 1 {
		priority = 1
	}
	g := &domain.Goal{
		ID:          uuid.New().String(),
		OwnerUserID: params.OwnerUserID,
		Title:       params.Title,
		Description: params.Description,
		Status:      domain.GoalActive,
		Priority:    priority,
		Timezone:    params.Timezone,
	}
	if err := e.deps.Store.SaveGoal(ctx, g, nil); err != nil {
		return nil, err
	}
	e.logEntity("create", "goal", g.ID)
	return g, nil
}

// OnGoalCreated persists quests, activates the lowest-order one, generates
// its Skills, creates the initial Spark for the first Skill's first Drill,
// and schedules that Spark's reminders.
func (e *Engine) OnGoalCreated(ctx context.Context, goal *domain.Goal, quests []*domain.Quest) error {
	if len(quests) == 0 {
		return errs.New(errs.KindValidation, "onGoalCreated: at least one quest is required")
	}

	lowest := quests[0]
	for _, q := range quests[1:] {
		if q.Order < lowest.Order {
			lowest = q
		}
	}

	for _, q := range quests {
		q.GoalID = goal.ID
		if q == lowest {
			q.Status = domain.QuestActive
		} else if q.Status == "" {
			q.Status = domain.QuestPending
		}
		if err := e.deps.Store.SaveQuest(ctx, q, nil); err != nil {
			return err
		}
	}

	skills, err := e.deps.Generator.GenerateSkills(ctx, goal, lowest)
	if err != nil {
		return errs.Wrap(errs.KindGenerationFailed, err, "onGoalCreated: skill generation for quest %s", lowest.ID)
	}
	if len(skills) == 0 {
		return errs.New(errs.KindValidation, "onGoalCreated: generator produced no skills for quest %s", lowest.ID)
	}
	for i, sk := range skills {
		sk.QuestID = lowest.ID
		sk.GoalID = goal.ID
		sk.UserID = goal.OwnerUserID
		if sk.Order == 0 {
			sk.Order = i + 1
		}
		if sk.MasteryState == "" {
			sk.MasteryState = domain.MasteryNotStarted
		}
		if err := e.deps.Store.SaveSkill(ctx, sk, nil); err != nil {
			return err
		}
	}

	firstSkill := skills[0]
	tz := goal.Timezone
	if tz == "" {
		tz = e.deps.ReminderTZ
	}
	today := time.Now().UTC().Format("2006-01-02")
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			today = time.Now().In(loc).Format("2006-01-02")
		}
	}

	drill := &domain.DailyDrill{
		ID:               uuid.New().String(),
		SkillID:          firstSkill.ID,
		UserID:           goal.OwnerUserID,
		GoalID:           goal.ID,
		ScheduledDate:    today,
		DayNumber:        1,
		Status:           domain.DrillScheduled,
		Action:           firstSkill.Action,
		PassSignal:       firstSkill.SuccessSignal,
		EstimatedMinutes: firstSkill.EstimatedMinutes,
	}
	if err := e.deps.Store.SaveDrill(ctx, drill, nil); err != nil {
		return err
	}

	spark := &domain.Spark{
		ID:               uuid.New().String(),
		DrillID:          drill.ID,
		UserID:           goal.OwnerUserID,
		Status:           domain.SparkPending,
		Variant:          domain.VariantFull,
		EscalationLevel:  0,
		EstimatedMinutes: drill.EstimatedMinutes,
	}
	if err := e.deps.Store.SaveSpark(ctx, spark, nil); err != nil {
		return err
	}

	e.scheduleReminders(ctx, goal, drill, spark, today, tz)
	e.logEntity("created", "goal", goal.ID)
	return nil
}

// scheduleReminders generates the day's reminder slots and
// persists one Reminder per slot for the given spark. Reminder scheduling
// failures are logged, not fatal — onGoalCreated's entity writes already
// succeeded. A reminder that failed to save is not recreated later.
func (e *Engine) scheduleReminders(ctx context.Context, goal *domain.Goal, drill *domain.DailyDrill, spark *domain.Spark, date, tz string) {
	cfg := reminder.DefaultScheduleConfig(tz)
	slots, err := reminder.GenerateDay(cfg, date)
	if err != nil {
		e.logWarn("reminder schedule generation failed", "goal", goal.ID, "error", err.Error())
		return
	}
	for _, slot := range slots {
		r := &domain.Reminder{
			ID:              uuid.New().String(),
			UserID:          goal.OwnerUserID,
			DrillID:         drill.ID,
			SparkID:         spark.ID,
			ScheduledTime:   slot.ScheduledTime,
			EscalationLevel: slot.EscalationLevel,
			SparkVariant:    slot.SparkVariant,
			Tone:            slot.Tone,
			Status:          domain.ReminderPending,
			Channels:        []domain.Channel{domain.ChannelPush},
		}
		if err := e.deps.Store.SaveReminder(ctx, r, nil); err != nil {
			e.logWarn("reminder save failed", "goal", goal.ID, "error", err.Error())
		}
	}
}

// GetTodayForUser delegates to the composed Scheduler.
func (e *Engine) GetTodayForUser(ctx context.Context, userID string, now time.Time) (scheduler.Result, error) {
	if e.deps.Scheduler == nil {
		return scheduler.Result{}, errs.New(errs.KindValidation, "getTodayForUser: no scheduler configured")
	}
	return e.deps.Scheduler.Today(ctx, userID, now)
}

// MarkSparkComplete transitions Spark to completed and cancels its pending
// reminders. Once every Spark for the Drill is terminal, it records the
// owning Drill's outcome as pass (implicit), runs the mastery update, and
// on mastery advances the Skill, and if the Skill set is exhausted, the
// Quest.
func (e *Engine) MarkSparkComplete(ctx context.Context, sparkID string, actualMinutes *int) (*domain.Spark, error) {
	sp, err := e.deps.Store.GetSpark(ctx, sparkID)
	if err != nil {
		return nil, err
	}
	if err := domain.ApplySparkEvent(sp, "complete"); err != nil {
		return nil, err
	}
	if actualMinutes != nil {
		sp.EstimatedMinutes = *actualMinutes
	}
	if err := e.deps.Store.SaveSpark(ctx, sp, &sp.Version); err != nil {
		return nil, err
	}
	if _, err := e.deps.Store.CancelPendingRemindersForSpark(ctx, sp.ID); err != nil {
		return nil, err
	}

	if err := e.completeDrillIfTerminal(ctx, sp.DrillID, domain.OutcomePass); err != nil {
		return nil, err
	}

	e.logEntity("complete", "spark", sp.ID)
	return sp, nil
}

// SkipSpark transitions Spark to skipped and cancels its pending
// reminders. It does not record a Drill outcome — a skip is the user
// declining one delivery, not necessarily abandoning the drill.
func (e *Engine) SkipSpark(ctx context.Context, sparkID string, reason string) (*domain.Spark, error) {
	sp, err := e.deps.Store.GetSpark(ctx, sparkID)
	if err != nil {
		return nil, err
	}
	if err := domain.ApplySparkEvent(sp, "skip"); err != nil {
		return nil, err
	}
	if err := e.deps.Store.SaveSpark(ctx, sp, &sp.Version); err != nil {
		return nil, err
	}
	if _, err := e.deps.Store.CancelPendingRemindersForSpark(ctx, sp.ID); err != nil {
		return nil, err
	}
	e.logEntity("skip", "spark", sp.ID)
	if reason != "" {
		e.logInfo("spark skipped", "spark", sp.ID, "reason", reason)
	}
	return sp, nil
}

// completeDrillIfTerminal checks whether every Spark attached to drillID
// is now terminal (completed or skipped); if so it records the Drill's
// outcome, updates the owning Skill's mastery, and on mastery progresses
// to the next Skill or completes the Quest.
func (e *Engine) completeDrillIfTerminal(ctx context.Context, drillID string, outcome domain.Outcome) error {
	sparkIDs, err := e.deps.Store.ListDrillSparks(ctx, drillID)
	if err != nil {
		return err
	}
	for _, id := range sparkIDs {
		sp, err := e.deps.Store.GetSpark(ctx, id)
		if err != nil {
			if errs.KindOf(err) == errs.KindNotFound {
				continue
			}
			return err
		}
		if sp.Status == domain.SparkPending {
			return nil // still have outstanding sparks; drill not yet terminal
		}
	}

	drill, err := e.deps.Store.GetDrill(ctx, drillID)
	if err != nil {
		return err
	}
	if drill.Status != domain.DrillActive {
		if err := domain.ActivateDrill(drill); err != nil && errs.KindOf(err) != errs.KindInvalidTransition {
			return err
		}
	}
	if err := domain.RecordDrillOutcome(drill, outcome, "", time.Now().UTC()); err != nil {
		return err
	}
	if err := e.deps.Store.SaveDrill(ctx, drill, &drill.Version); err != nil {
		return err
	}

	sk, err := e.deps.Store.GetSkill(ctx, drill.SkillID)
	if err != nil {
		return err
	}
	domain.UpdateMastery(sk, outcome, e.deps.MasteryThreshold, time.Now().UTC())
	if err := e.deps.Store.SaveSkill(ctx, sk, &sk.Version); err != nil {
		return err
	}

	if sk.MasteryState == domain.MasteryMastered {
		return e.advancePastSkill(ctx, sk)
	}
	return nil
}

// advancePastSkill moves to the next same-Quest Skill (order+1), or
// completes the Quest and activates the next pending one if the Skill set
// is exhausted.
func (e *Engine) advancePastSkill(ctx context.Context, sk *domain.Skill) error {
	skillIDs, err := e.deps.Store.ListQuestSkills(ctx, sk.QuestID)
	if err != nil {
		return err
	}
	var next *domain.Skill
	for _, id := range skillIDs {
		candidate, err := e.deps.Store.GetSkill(ctx, id)
		if err != nil {
			if errs.KindOf(err) == errs.KindNotFound {
				continue
			}
			return err
		}
		if candidate.Order == sk.Order+1 {
			next = candidate
			break
		}
	}
	if next != nil {
		e.logEntity("advance", "skill", next.ID)
		return nil
	}

	quest, err := e.deps.Store.GetQuest(ctx, sk.QuestID)
	if err != nil {
		return err
	}
	if err := domain.ApplyQuestEvent(quest, "complete"); err != nil {
		return err
	}
	if err := e.deps.Store.SaveQuest(ctx, quest, &quest.Version); err != nil {
		return err
	}

	questIDs, err := e.deps.Store.ListGoalQuests(ctx, quest.GoalID)
	if err != nil {
		return err
	}
	var nextQuest *domain.Quest
	for _, id := range questIDs {
		candidate, err := e.deps.Store.GetQuest(ctx, id)
		if err != nil {
			if errs.KindOf(err) == errs.KindNotFound {
				continue
			}
			return err
		}
		if candidate.Status == domain.QuestPending && candidate.Order == quest.Order+1 {
			nextQuest = candidate
			break
		}
	}
	if nextQuest != nil {
		if err := domain.ApplyQuestEvent(nextQuest, "start"); err != nil {
			return err
		}
		if err := e.deps.Store.SaveQuest(ctx, nextQuest, &nextQuest.Version); err != nil {
			return err
		}

		skills, err := e.deps.Generator.GenerateSkills(ctx, &domain.Goal{ID: quest.GoalID, OwnerUserID: sk.UserID}, nextQuest)
		if err != nil {
			return errs.Wrap(errs.KindGenerationFailed, err, "advancePastSkill: skill generation for quest %s", nextQuest.ID)
		}
		for i, newSk := range skills {
			newSk.QuestID = nextQuest.ID
			newSk.GoalID = quest.GoalID
			newSk.UserID = sk.UserID
			if newSk.Order == 0 {
				newSk.Order = i + 1
			}
			if newSk.MasteryState == "" {
				newSk.MasteryState = domain.MasteryNotStarted
			}
			if err := e.deps.Store.SaveSkill(ctx, newSk, nil); err != nil {
				return err
			}
		}
	}
	e.logEntity("complete", "quest", quest.ID)
	return nil
}

// RecordDrillOutcome records a non-implicit Drill outcome — the path
// markSparkComplete doesn't cover, since that operation always implies
// pass. On fail/partial it schedules a retry Drill for the next calendar
// day carrying the prior drill's observation forward as carryForward
// (Open Question resolution, see DESIGN.md); the completed drill itself
// is never mutated again. On pass it runs the same mastery-then-advance
// chain as markSparkComplete.
func (e *Engine) RecordDrillOutcome(ctx context.Context, drillID string, outcome domain.Outcome, observation string) (*domain.DailyDrill, error) {
	drill, err := e.deps.Store.GetDrill(ctx, drillID)
	if err != nil {
		return nil, err
	}
	if drill.Status != domain.DrillActive {
		if err := domain.ActivateDrill(drill); err != nil && errs.KindOf(err) != errs.KindInvalidTransition {
			return nil, err
		}
	}
	if err := domain.RecordDrillOutcome(drill, outcome, observation, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := e.deps.Store.SaveDrill(ctx, drill, &drill.Version); err != nil {
		return nil, err
	}

	sk, err := e.deps.Store.GetSkill(ctx, drill.SkillID)
	if err != nil {
		return nil, err
	}
	domain.UpdateMastery(sk, outcome, e.deps.MasteryThreshold, time.Now().UTC())
	if err := e.deps.Store.SaveSkill(ctx, sk, &sk.Version); err != nil {
		return nil, err
	}

	if drill.RepeatTomorrow {
		if err := e.scheduleRetryDrill(ctx, drill); err != nil {
			return nil, err
		}
	} else if sk.MasteryState == domain.MasteryMastered {
		if err := e.advancePastSkill(ctx, sk); err != nil {
			return nil, err
		}
	}

	e.logEntity("record", "drill", drill.ID)
	return drill, nil
}

// scheduleRetryDrill creates tomorrow's retry Drill for a fail/partial
// outcome. isRetry/retryCount/carryForward let the scheduler and a
// rendered UI distinguish a retry day from a fresh one.
func (e *Engine) scheduleRetryDrill(ctx context.Context, prior *domain.DailyDrill) error {
	parsed, err := time.Parse("2006-01-02", prior.ScheduledDate)
	if err != nil {
		return errs.Wrap(errs.KindValidation, err, "scheduleRetryDrill: invalid scheduledDate %q", prior.ScheduledDate)
	}
	nextDate := parsed.AddDate(0, 0, 1).Format("2006-01-02")

	retry := &domain.DailyDrill{
		ID:               uuid.New().String(),
		WeekPlanID:       prior.WeekPlanID,
		SkillID:          prior.SkillID,
		UserID:           prior.UserID,
		GoalID:           prior.GoalID,
		ScheduledDate:    nextDate,
		DayNumber:        prior.DayNumber + 1,
		Status:           domain.DrillScheduled,
		Action:           prior.Action,
		PassSignal:       prior.PassSignal,
		Constraint:       prior.Constraint,
		EstimatedMinutes: prior.EstimatedMinutes,
		CarryForward:     prior.Observation,
		IsRetry:          true,
		RetryCount:       prior.RetryCount + 1,
	}
	return e.deps.Store.SaveDrill(ctx, retry, nil)
}

// ExpireOverdueDrills transitions each given still-`scheduled` Drill whose
// scheduledDate has passed to `expired` (Open Question resolution: no
// outcome is recorded). Callers (a ticker, typically) supply the set of
// candidate Drill IDs to check — the store has no goal-wide or global
// drill listing to discover them from here.
func (e *Engine) ExpireOverdueDrills(ctx context.Context, drillIDs []string, today string) (int, error) {
	expired := 0
	for _, id := range drillIDs {
		d, err := e.deps.Store.GetDrill(ctx, id)
		if err != nil {
			if errs.KindOf(err) == errs.KindNotFound {
				continue
			}
			return expired, err
		}
		if d.Status != domain.DrillScheduled || d.ScheduledDate >= today {
			continue
		}
		if err := domain.ExpireDrill(d); err != nil {
			return expired, err
		}
		if err := e.deps.Store.SaveDrill(ctx, d, &d.Version); err != nil {
			return expired, err
		}
		expired++
		e.logEntity("expire", "drill", d.ID)
	}
	return expired, nil
}

// RateDifficulty attaches an opaque difficulty rating to a Skill. No
// state transition.
func (e *Engine) RateDifficulty(ctx context.Context, skillID string, rating float64) error {
	sk, err := e.deps.Store.GetSkill(ctx, skillID)
	if err != nil {
		return err
	}
	sk.DifficultyRatings = append(sk.DifficultyRatings, rating)
	return e.deps.Store.SaveSkill(ctx, sk, &sk.Version)
}

// SetGoalPriority clamps priority to >= 1 and persists it.
func (e *Engine) SetGoalPriority(ctx context.Context, goalID string, priority int) (*domain.Goal, error) {
	g, err := e.deps.Store.GetGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if priority < 1 {
		priority = 1
	}
	g.Priority = priority
	if err := e.deps.Store.SaveGoal(ctx, g, &g.Version); err != nil {
		return nil, err
	}
	return g, nil
}

// PauseGoal sets pausedUntil (default 9999-12-31 if omitted), validating
// the YYYY-MM-DD format.
func (e *Engine) PauseGoal(ctx context.Context, goalID string, untilYYYYMMDD string) (*domain.Goal, error) {
	g, err := e.deps.Store.GetGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}
	until := untilYYYYMMDD
	if until == "" {
		until = "9999-12-31"
	}
	if _, err := time.Parse("2006-01-02", until); err != nil {
		return nil, errs.New(errs.KindValidation, "pauseGoal: invalid date %q, want YYYY-MM-DD", until)
	}
	if err := domain.ApplyGoalEvent(g, "pause"); err != nil {
		return nil, err
	}
	g.PausedUntil = until
	if err := e.deps.Store.SaveGoal(ctx, g, &g.Version); err != nil {
		return nil, err
	}
	return g, nil
}

// ResumeGoal transitions a paused Goal back to active and clears
// pausedUntil (domain.ApplyGoalEvent's "resume" event does the clearing).
func (e *Engine) ResumeGoal(ctx context.Context, goalID string) (*domain.Goal, error) {
	g, err := e.deps.Store.GetGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if err := domain.ApplyGoalEvent(g, "resume"); err != nil {
		return nil, err
	}
	if err := e.deps.Store.SaveGoal(ctx, g, &g.Version); err != nil {
		return nil, err
	}
	return g, nil
}

// GetPathProgress aggregates completed/total Quests and Skills for a Goal.
func (e *Engine) GetPathProgress(ctx context.Context, goalID string) (PathProgress, error) {
	questIDs, err := e.deps.Store.ListGoalQuests(ctx, goalID)
	if err != nil {
		return PathProgress{}, err
	}

	progress := PathProgress{GoalID: goalID, TotalQuests: len(questIDs)}
	var ratingSum float64
	var ratingCount int
	var lastActivity *time.Time
	today := time.Now().UTC().Format("2006-01-02")

	for _, qid := range questIDs {
		q, err := e.deps.Store.GetQuest(ctx, qid)
		if err != nil {
			if errs.KindOf(err) == errs.KindNotFound {
				continue
			}
			return PathProgress{}, err
		}
		if q.Status == domain.QuestCompleted {
			progress.CompletedQuests++
		}

		skillIDs, err := e.deps.Store.ListQuestSkills(ctx, qid)
		if err != nil {
			return PathProgress{}, err
		}
		progress.TotalSkills += len(skillIDs)

		for _, sid := range skillIDs {
			sk, err := e.deps.Store.GetSkill(ctx, sid)
			if err != nil {
				if errs.KindOf(err) == errs.KindNotFound {
					continue
				}
				return PathProgress{}, err
			}
			if sk.MasteryState == domain.MasteryMastered {
				progress.CompletedSkills++
				for _, r := range sk.DifficultyRatings {
					ratingSum += r
					ratingCount++
				}
				if sk.LastPracticedAt != nil && (lastActivity == nil || sk.LastPracticedAt.After(*lastActivity)) {
					lastActivity = sk.LastPracticedAt
				}
			}
		}
	}

	if progress.TotalSkills > 0 {
		progress.PercentComplete = int(math.Round(float64(progress.CompletedSkills) / float64(progress.TotalSkills) * 100))
	}
	if ratingCount > 0 {
		avg := ratingSum / float64(ratingCount)
		progress.AverageDifficulty = &avg
	}
	progress.LastActivityAt = lastActivity

	// The store indexes a Drill by (goalId, date) rather than maintaining
	// a goal-wide list of every scheduled Drill, so only today's slot is
	// directly queryable here; daysBehind/estimatedCompletionDate reflect
	// that one Drill rather than a full scan of the Goal's remaining
	// schedule (see DESIGN.md).
	drill, err := e.deps.Store.GetDrillByDate(ctx, goalID, today)
	if err == nil && drill.Status == domain.DrillScheduled && drill.ScheduledDate <= today {
		progress.DaysBehind = 1
		progress.EstimatedCompletionDate = drill.ScheduledDate
	}
	progress.OnTrack = progress.DaysBehind == 0

	return progress, nil
}

func (e *Engine) logEntity(event, entityType, entityID string) {
	if e.deps.Logger != nil {
		e.deps.Logger.EntityEvent(event, entityType, entityID)
	}
}

func (e *Engine) logInfo(msg string, args ...any) {
	if e.deps.Logger != nil {
		e.deps.Logger.Info(msg, args...)
	}
}

func (e *Engine) logWarn(msg string, args ...any) {
	if e.deps.Logger != nil {
		e.deps.Logger.Warn(msg, args...)
	}
}
