package store

import (
	"context"
	"time"

	"github.com/dailyspark/practiceengine/internal/domain"
	"github.com/dailyspark/practiceengine/internal/errs"
	"github.com/dailyspark/practiceengine/internal/observability"
	"github.com/dailyspark/practiceengine/internal/security"
)

// TTLConfig carries the configured lifetimes for terminal entities:
// completed/abandoned Goals and sent/cancelled Reminders carry a
// configurable TTL. A zero Duration means no expiry.
type TTLConfig struct {
	CompletedGoal time.Duration
	Reminder      time.Duration
}

// Store is the encrypted, versioned, indexed persistence layer for every
// domain entity. It composes a raw Backend with envelope sealing/opening,
// secondary index maintenance, cascade delete, and TTL.
type Store struct {
	backend    Backend
	keyManager *security.KeyManager
	ttl        TTLConfig
	log        *observability.Logger
	audit      *security.AuditLogger
}

// New creates a Store over backend. keyManager may be nil to disable
// encryption at rest (not recommended outside tests). log and audit may
// be nil.
func New(backend Backend, keyManager *security.KeyManager, ttl TTLConfig, log *observability.Logger, audit *security.AuditLogger) *Store {
	return &Store{backend: backend, keyManager: keyManager, ttl: ttl, log: log, audit: audit}
}

func (s *Store) logEntity(event, entityType, entityID string) {
	if s.log != nil {
		s.log.EntityEvent(event, entityType, entityID)
	}
}

// ---------------------------------------------------------------------------
// Goal
// ---------------------------------------------------------------------------

// SaveGoal validates and persists g, enforcing optimistic concurrency via
// expectedVersion (nil on create), and maintains userGoals/userActiveGoals.
func (s *Store) SaveGoal(ctx context.Context, g *domain.Goal, expectedVersion *int64) error {
	if err := validateGoal(g); err != nil {
		return err
	}

	now := time.Now().UTC()
	ttl := s.goalTTL(g)

	version, createdAt, err := s.writeEnvelope(ctx, goalKey(g.ID), expectedVersion, g, ttl, now)
	if err != nil {
		return err
	}
	g.Version = version
	g.CreatedAt = createdAt
	g.UpdatedAt = now

	if err := s.backend.SAdd(ctx, userGoalsKey(g.OwnerUserID), g.ID); err != nil {
		return errs.Wrap(errs.KindBackend, err, "index userGoals")
	}
	if g.Status == domain.GoalActive {
		if err := s.backend.SAdd(ctx, userActiveGoalsKey(g.OwnerUserID), g.ID); err != nil {
			return errs.Wrap(errs.KindBackend, err, "index userActiveGoals")
		}
	} else {
		if err := s.backend.SRem(ctx, userActiveGoalsKey(g.OwnerUserID), g.ID); err != nil {
			return errs.Wrap(errs.KindBackend, err, "deindex userActiveGoals")
		}
	}

	s.logEntity("save", "goal", g.ID)
	return nil
}

func (s *Store) goalTTL(g *domain.Goal) time.Duration {
	if g.Status == domain.GoalCompleted || g.Status == domain.GoalAbandoned {
		return s.ttl.CompletedGoal
	}
	return 0
}

// GetGoal loads a Goal by id, or returns KindNotFound.
func (s *Store) GetGoal(ctx context.Context, id string) (*domain.Goal, error) {
	var g domain.Goal
	found, _, err := s.readEnvelope(ctx, goalKey(id), &g)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errs.NotFound("goal %s not found", id)
	}
	return &g, nil
}

// ListUserGoals returns all Goal ids owned by userID.
func (s *Store) ListUserGoals(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.backend.SMembers(ctx, userGoalsKey(userID))
	if err != nil {
		return nil, errs.Wrap(errs.KindBackend, err, "list userGoals")
	}
	return ids, nil
}

// ListUserActiveGoals returns the ids of userID's currently active Goals.
func (s *Store) ListUserActiveGoals(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.backend.SMembers(ctx, userActiveGoalsKey(userID))
	if err != nil {
		return nil, errs.Wrap(errs.KindBackend, err, "list userActiveGoals")
	}
	return ids, nil
}

// DeleteGoal cascades: deletes the Goal and every descendant Quest, Skill,
// Drill, Spark and Reminder, removing all index entries in the same
// operation set. Returns the cascade count — the number of descendant
// entities removed, not counting the Goal itself. Idempotent: re-invoking
// after a partial failure completes the remainder.
func (s *Store) DeleteGoal(ctx context.Context, id string) (int, error) {
	g, err := s.GetGoal(ctx, id)
	if err != nil && errs.KindOf(err) != errs.KindNotFound {
		return 0, err
	}
	count := 0
	if g == nil {
		// Already gone; still sweep any orphaned index members (idempotent cascade).
		return s.cascadeDeleteGoalChildren(ctx, id, "")
	}

	childCount, err := s.cascadeDeleteGoalChildren(ctx, id, g.OwnerUserID)
	if err != nil {
		return count, err
	}
	count += childCount

	if err := s.backend.Delete(ctx, goalKey(id)); err != nil {
		return count, errs.Wrap(errs.KindBackend, err, "delete goal %s", id)
	}
	if err := s.backend.SRem(ctx, userGoalsKey(g.OwnerUserID), id); err != nil {
		return count, errs.Wrap(errs.KindBackend, err, "deindex userGoals")
	}
	if err := s.backend.SRem(ctx, userActiveGoalsKey(g.OwnerUserID), id); err != nil {
		return count, errs.Wrap(errs.KindBackend, err, "deindex userActiveGoals")
	}

	s.logEntity("cascade_delete", "goal", id)
	return count, nil
}

func (s *Store) cascadeDeleteGoalChildren(ctx context.Context, goalID, ownerUserID string) (int, error) {
	count := 0

	questIDs, err := s.backend.SMembers(ctx, goalQuestsKey(goalID))
	if err != nil {
		return count, errs.Wrap(errs.KindBackend, err, "list goalQuests")
	}
	for _, qID := range questIDs {
		n, err := s.deleteQuestCascade(ctx, qID, goalID)
		if err != nil {
			return count, err
		}
		count += n
	}
	if err := s.backend.Delete(ctx, goalQuestsKey(goalID)); err != nil {
		return count, errs.Wrap(errs.KindBackend, err, "clear goalQuests index")
	}

	// goalSkills is denormalized; sweep any stragglers not reached via quests.
	skillIDs, err := s.backend.SMembers(ctx, goalSkillsKey(goalID))
	if err != nil {
		return count, errs.Wrap(errs.KindBackend, err, "list goalSkills")
	}
	for _, skID := range skillIDs {
		n, err := s.deleteSkillCascade(ctx, skID, goalID, "")
		if err != nil {
			return count, err
		}
		count += n
	}
	if err := s.backend.Delete(ctx, goalSkillsKey(goalID)); err != nil {
		return count, errs.Wrap(errs.KindBackend, err, "clear goalSkills index")
	}

	return count, nil
}

// ---------------------------------------------------------------------------
// Quest
// ---------------------------------------------------------------------------

func (s *Store) SaveQuest(ctx context.Context, q *domain.Quest, expectedVersion *int64) error {
	if err := validateQuest(q); err != nil {
		return err
	}
	now := time.Now().UTC()
	version, createdAt, err := s.writeEnvelope(ctx, questKey(q.ID), expectedVersion, q, 0, now)
	if err != nil {
		return err
	}
	q.Version = version
	q.CreatedAt = createdAt
	q.UpdatedAt = now

	if err := s.backend.SAdd(ctx, goalQuestsKey(q.GoalID), q.ID); err != nil {
		return errs.Wrap(errs.KindBackend, err, "index goalQuests")
	}
	s.logEntity("save", "quest", q.ID)
	return nil
}

func (s *Store) GetQuest(ctx context.Context, id string) (*domain.Quest, error) {
	var q domain.Quest
	found, _, err := s.readEnvelope(ctx, questKey(id), &q)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errs.NotFound("quest %s not found", id)
	}
	return &q, nil
}

// ListGoalQuests returns the Quest ids owned by goalID.
func (s *Store) ListGoalQuests(ctx context.Context, goalID string) ([]string, error) {
	ids, err := s.backend.SMembers(ctx, goalQuestsKey(goalID))
	if err != nil {
		return nil, errs.Wrap(errs.KindBackend, err, "list goalQuests")
	}
	return ids, nil
}

func (s *Store) deleteQuestCascade(ctx context.Context, questID, goalID string) (int, error) {
	count := 0
	skillIDs, err := s.backend.SMembers(ctx, questSkillsKey(questID))
	if err != nil {
		return count, errs.Wrap(errs.KindBackend, err, "list questSkills")
	}
	for _, skID := range skillIDs {
		n, err := s.deleteSkillCascade(ctx, skID, goalID, questID)
		if err != nil {
			return count, err
		}
		count += n
	}
	if err := s.backend.Delete(ctx, questSkillsKey(questID)); err != nil {
		return count, errs.Wrap(errs.KindBackend, err, "clear questSkills index")
	}
	if err := s.backend.Delete(ctx, questKey(questID)); err != nil {
		return count, errs.Wrap(errs.KindBackend, err, "delete quest %s", questID)
	}
	if err := s.backend.SRem(ctx, goalQuestsKey(goalID), questID); err != nil {
		return count, errs.Wrap(errs.KindBackend, err, "deindex goalQuests")
	}
	count++
	return count, nil
}

// ---------------------------------------------------------------------------
// Skill
// ---------------------------------------------------------------------------

func (s *Store) SaveSkill(ctx context.Context, sk *domain.Skill, expectedVersion *int64) error {
	if err := validateSkill(sk); err != nil {
		return err
	}
	now := time.Now().UTC()
	version, createdAt, err := s.writeEnvelope(ctx, skillKey(sk.ID), expectedVersion, sk, 0, now)
	if err != nil {
		return err
	}
	sk.Version = version
	sk.CreatedAt = createdAt
	sk.UpdatedAt = now

	if err := s.backend.SAdd(ctx, questSkillsKey(sk.QuestID), sk.ID); err != nil {
		return errs.Wrap(errs.KindBackend, err, "index questSkills")
	}
	if err := s.backend.SAdd(ctx, goalSkillsKey(sk.GoalID), sk.ID); err != nil {
		return errs.Wrap(errs.KindBackend, err, "index goalSkills")
	}
	if err := s.backend.SAdd(ctx, userSkillsKey(sk.UserID), sk.ID); err != nil {
		return errs.Wrap(errs.KindBackend, err, "index userSkills")
	}
	s.logEntity("save", "skill", sk.ID)
	return nil
}

func (s *Store) GetSkill(ctx context.Context, id string) (*domain.Skill, error) {
	var sk domain.Skill
	found, _, err := s.readEnvelope(ctx, skillKey(id), &sk)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errs.NotFound("skill %s not found", id)
	}
	return &sk, nil
}

// ListQuestSkills returns the Skill ids owned by questID.
func (s *Store) ListQuestSkills(ctx context.Context, questID string) ([]string, error) {
	ids, err := s.backend.SMembers(ctx, questSkillsKey(questID))
	if err != nil {
		return nil, errs.Wrap(errs.KindBackend, err, "list questSkills")
	}
	return ids, nil
}

func (s *Store) deleteSkillCascade(ctx context.Context, skillID, goalID, questID string) (int, error) {
	count := 0
	drillIDs, err := s.listSkillDrills(ctx, skillID)
	if err != nil {
		return count, err
	}
	for _, dID := range drillIDs {
		n, err := s.deleteDrillCascade(ctx, dID)
		if err != nil {
			return count, err
		}
		count += n
	}
	if err := s.backend.Delete(ctx, skillDrillsKey(skillID)); err != nil {
		return count, errs.Wrap(errs.KindBackend, err, "clear skillDrills index")
	}

	if sk, err := s.GetSkill(ctx, skillID); err == nil {
		if err := s.backend.SRem(ctx, userSkillsKey(sk.UserID), skillID); err != nil {
			return count, errs.Wrap(errs.KindBackend, err, "deindex userSkills")
		}
	} else if errs.KindOf(err) != errs.KindNotFound {
		return count, err
	}
	if err := s.backend.Delete(ctx, skillKey(skillID)); err != nil {
		return count, errs.Wrap(errs.KindBackend, err, "delete skill %s", skillID)
	}
	if questID != "" {
		if err := s.backend.SRem(ctx, questSkillsKey(questID), skillID); err != nil {
			return count, errs.Wrap(errs.KindBackend, err, "deindex questSkills")
		}
	}
	if err := s.backend.SRem(ctx, goalSkillsKey(goalID), skillID); err != nil {
		return count, errs.Wrap(errs.KindBackend, err, "deindex goalSkills")
	}
	count++
	return count, nil
}

// listSkillDrills returns every Drill id recorded under skillID, via an
// internal skillDrills bookkeeping index distinct from the drill indices
// that key by weekPlan and by goalId+date; cascade delete needs a
// skill-keyed lookup, so one is maintained alongside those.
func (s *Store) listSkillDrills(ctx context.Context, skillID string) ([]string, error) {
	ids, err := s.backend.SMembers(ctx, skillDrillsKey(skillID))
	if err != nil {
		return nil, errs.Wrap(errs.KindBackend, err, "list skillDrills")
	}
	return ids, nil
}

func skillDrillsKey(skillID string) string { return "idx:skillDrills:" + skillID }

// ---------------------------------------------------------------------------
// DailyDrill
// ---------------------------------------------------------------------------

func (s *Store) SaveDrill(ctx context.Context, d *domain.DailyDrill, expectedVersion *int64) error {
	if err := validateDrill(d); err != nil {
		return err
	}
	now := time.Now().UTC()
	version, createdAt, err := s.writeEnvelope(ctx, drillKey(d.ID), expectedVersion, d, 0, now)
	if err != nil {
		return err
	}
	d.Version = version
	d.CreatedAt = createdAt
	d.UpdatedAt = now

	if d.WeekPlanID != "" {
		if err := s.backend.SAdd(ctx, weekDrillsKey(d.WeekPlanID), d.ID); err != nil {
			return errs.Wrap(errs.KindBackend, err, "index weekDrills")
		}
	}
	if err := s.backend.SAdd(ctx, skillDrillsKey(d.SkillID), d.ID); err != nil {
		return errs.Wrap(errs.KindBackend, err, "index skillDrills")
	}
	if err := s.backend.Set(ctx, drillByDateKey(d.GoalID, d.ScheduledDate), d.ID); err != nil {
		return errs.Wrap(errs.KindBackend, err, "index drillByDate")
	}

	switch d.Status {
	case domain.DrillActive:
		if err := s.backend.Set(ctx, userActiveDrillKey(d.UserID), d.ID); err != nil {
			return errs.Wrap(errs.KindBackend, err, "index userActiveDrill")
		}
	case domain.DrillCompleted, domain.DrillSkipped, domain.DrillExpired:
		if err := s.clearActiveDrillIfCurrent(ctx, d.UserID, d.ID); err != nil {
			return err
		}
	}

	s.logEntity("save", "drill", d.ID)
	return nil
}

func (s *Store) clearActiveDrillIfCurrent(ctx context.Context, userID, drillID string) error {
	current, exists, err := s.backend.Get(ctx, userActiveDrillKey(userID))
	if err != nil {
		return errs.Wrap(errs.KindBackend, err, "read userActiveDrill")
	}
	if exists && current == drillID {
		if err := s.backend.Delete(ctx, userActiveDrillKey(userID)); err != nil {
			return errs.Wrap(errs.KindBackend, err, "clear userActiveDrill")
		}
	}
	return nil
}

func (s *Store) GetDrill(ctx context.Context, id string) (*domain.DailyDrill, error) {
	var d domain.DailyDrill
	found, _, err := s.readEnvelope(ctx, drillKey(id), &d)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errs.NotFound("drill %s not found", id)
	}
	return &d, nil
}

// GetDrillByDate returns the drill scheduled for goalID on date (YYYY-MM-DD).
func (s *Store) GetDrillByDate(ctx context.Context, goalID, date string) (*domain.DailyDrill, error) {
	id, exists, err := s.backend.Get(ctx, drillByDateKey(goalID, date))
	if err != nil {
		return nil, errs.Wrap(errs.KindBackend, err, "read drillByDate")
	}
	if !exists {
		return nil, errs.NotFound("no drill scheduled for goal %s on %s", goalID, date)
	}
	return s.GetDrill(ctx, id)
}

// GetUserActiveDrill returns the user's current active drill, if any.
func (s *Store) GetUserActiveDrill(ctx context.Context, userID string) (*domain.DailyDrill, error) {
	id, exists, err := s.backend.Get(ctx, userActiveDrillKey(userID))
	if err != nil {
		return nil, errs.Wrap(errs.KindBackend, err, "read userActiveDrill")
	}
	if !exists {
		return nil, errs.NotFound("no active drill for user %s", userID)
	}
	return s.GetDrill(ctx, id)
}

// ListWeekDrills returns the Drill ids scheduled under weekPlanID.
func (s *Store) ListWeekDrills(ctx context.Context, weekPlanID string) ([]string, error) {
	ids, err := s.backend.SMembers(ctx, weekDrillsKey(weekPlanID))
	if err != nil {
		return nil, errs.Wrap(errs.KindBackend, err, "list weekDrills")
	}
	return ids, nil
}

func (s *Store) deleteDrillCascade(ctx context.Context, drillID string) (int, error) {
	d, err := s.GetDrill(ctx, drillID)
	if err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			return 0, nil
		}
		return 0, err
	}

	sparkIDs, err := s.backend.SMembers(ctx, drillSparksKey(d.ID))
	if err != nil {
		return 0, errs.Wrap(errs.KindBackend, err, "list drill sparks")
	}
	count := 0
	for _, spID := range sparkIDs {
		n, err := s.deleteSparkCascade(ctx, spID, d.ID)
		if err != nil {
			return count, err
		}
		count += n
	}
	if err := s.backend.Delete(ctx, drillSparksKey(d.ID)); err != nil {
		return count, errs.Wrap(errs.KindBackend, err, "clear drillSparks index")
	}

	if err := s.backend.Delete(ctx, drillKey(d.ID)); err != nil {
		return count, errs.Wrap(errs.KindBackend, err, "delete drill %s", d.ID)
	}
	if d.WeekPlanID != "" {
		if err := s.backend.SRem(ctx, weekDrillsKey(d.WeekPlanID), d.ID); err != nil {
			return count, errs.Wrap(errs.KindBackend, err, "deindex weekDrills")
		}
	}
	if err := s.backend.SRem(ctx, skillDrillsKey(d.SkillID), d.ID); err != nil {
		return count, errs.Wrap(errs.KindBackend, err, "deindex skillDrills")
	}
	if err := s.deleteIfMatches(ctx, drillByDateKey(d.GoalID, d.ScheduledDate), d.ID); err != nil {
		return count, err
	}
	if err := s.clearActiveDrillIfCurrent(ctx, d.UserID, d.ID); err != nil {
		return count, err
	}
	count++
	return count, nil
}

func (s *Store) deleteIfMatches(ctx context.Context, key, expectedValue string) error {
	current, exists, err := s.backend.Get(ctx, key)
	if err != nil {
		return errs.Wrap(errs.KindBackend, err, "read %s", key)
	}
	if exists && current == expectedValue {
		if err := s.backend.Delete(ctx, key); err != nil {
			return errs.Wrap(errs.KindBackend, err, "delete %s", key)
		}
	}
	return nil
}

// drillSparksKey backs an internal index of every Spark — pending and
// terminal — under a drill. Cascade delete and ListDrillSparks (which the
// scheduler scans for the pending Spark) both read it; the drill's
// pendingSparkId field is neither set nor read by this store.
func drillSparksKey(drillID string) string { return "idx:drillSparks:" + drillID }

// ---------------------------------------------------------------------------
// Spark
// ---------------------------------------------------------------------------

func (s *Store) SaveSpark(ctx context.Context, sp *domain.Spark, expectedVersion *int64) error {
	if err := validateSpark(sp); err != nil {
		return err
	}
	now := time.Now().UTC()
	version, createdAt, err := s.writeEnvelope(ctx, sparkKey(sp.ID), expectedVersion, sp, 0, now)
	if err != nil {
		return err
	}
	sp.Version = version
	sp.CreatedAt = createdAt
	sp.UpdatedAt = now

	if err := s.backend.SAdd(ctx, drillSparksKey(sp.DrillID), sp.ID); err != nil {
		return errs.Wrap(errs.KindBackend, err, "index drillSparks")
	}
	s.logEntity("save", "spark", sp.ID)
	return nil
}

func (s *Store) GetSpark(ctx context.Context, id string) (*domain.Spark, error) {
	var sp domain.Spark
	found, _, err := s.readEnvelope(ctx, sparkKey(id), &sp)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errs.NotFound("spark %s not found", id)
	}
	return &sp, nil
}

// ListDrillSparks returns every Spark id (any status) recorded under drillID.
func (s *Store) ListDrillSparks(ctx context.Context, drillID string) ([]string, error) {
	ids, err := s.backend.SMembers(ctx, drillSparksKey(drillID))
	if err != nil {
		return nil, errs.Wrap(errs.KindBackend, err, "list drillSparks")
	}
	return ids, nil
}

func (s *Store) deleteSparkCascade(ctx context.Context, sparkID, drillID string) (int, error) {
	reminderIDs, err := s.backend.SMembers(ctx, sparkRemindersKey(sparkID))
	if err != nil {
		return 0, errs.Wrap(errs.KindBackend, err, "list spark reminders")
	}
	count := 0
	for _, rID := range reminderIDs {
		if err := s.deleteReminder(ctx, rID); err != nil {
			return count, err
		}
		count++
	}
	if err := s.backend.Delete(ctx, sparkRemindersKey(sparkID)); err != nil {
		return count, errs.Wrap(errs.KindBackend, err, "clear sparkReminders index")
	}

	if err := s.backend.Delete(ctx, sparkKey(sparkID)); err != nil {
		return count, errs.Wrap(errs.KindBackend, err, "delete spark %s", sparkID)
	}
	if err := s.backend.SRem(ctx, drillSparksKey(drillID), sparkID); err != nil {
		return count, errs.Wrap(errs.KindBackend, err, "deindex drillSparks")
	}
	count++
	return count, nil
}

// sparkRemindersKey, like drillSparksKey, is an internal bookkeeping
// index needed so cascade delete and Spark-completion cancellation can
// find every Reminder for a Spark without scanning the reminderSchedule
// sorted set.
func sparkRemindersKey(sparkID string) string { return "idx:sparkReminders:" + sparkID }

// ---------------------------------------------------------------------------
// Reminder
// ---------------------------------------------------------------------------

func (s *Store) SaveReminder(ctx context.Context, r *domain.Reminder, expectedVersion *int64) error {
	if err := validateReminder(r); err != nil {
		return err
	}
	now := time.Now().UTC()
	ttl := s.reminderTTL(r)

	version, createdAt, err := s.writeEnvelope(ctx, reminderKey(r.ID), expectedVersion, r, ttl, now)
	if err != nil {
		return err
	}
	r.Version = version
	r.CreatedAt = createdAt
	r.UpdatedAt = now

	if err := s.backend.SAdd(ctx, sparkRemindersKey(r.SparkID), r.ID); err != nil {
		return errs.Wrap(errs.KindBackend, err, "index sparkReminders")
	}

	switch r.Status {
	case domain.ReminderPending:
		if err := s.backend.ZAdd(ctx, reminderScheduleKey, float64(r.ScheduledTime.UnixMilli()), r.ID); err != nil {
			return errs.Wrap(errs.KindBackend, err, "index reminderSchedule")
		}
	default:
		if err := s.backend.ZRem(ctx, reminderScheduleKey, r.ID); err != nil {
			return errs.Wrap(errs.KindBackend, err, "deindex reminderSchedule")
		}
	}

	s.logEntity("save", "reminder", r.ID)
	return nil
}

func (s *Store) reminderTTL(r *domain.Reminder) time.Duration {
	if r.Status == domain.ReminderSent || r.Status == domain.ReminderCancelled {
		return s.ttl.Reminder
	}
	return 0
}

func (s *Store) GetReminder(ctx context.Context, id string) (*domain.Reminder, error) {
	var r domain.Reminder
	found, _, err := s.readEnvelope(ctx, reminderKey(id), &r)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errs.NotFound("reminder %s not found", id)
	}
	return &r, nil
}

// ListSparkReminders returns every Reminder id recorded under sparkID.
func (s *Store) ListSparkReminders(ctx context.Context, sparkID string) ([]string, error) {
	ids, err := s.backend.SMembers(ctx, sparkRemindersKey(sparkID))
	if err != nil {
		return nil, errs.Wrap(errs.KindBackend, err, "list sparkReminders")
	}
	return ids, nil
}

// DueReminders returns the ids of all pending reminders scheduled at or
// before asOf, ordered by scheduledTime ascending — all entries with
// score <= now.
func (s *Store) DueReminders(ctx context.Context, asOf time.Time) ([]string, error) {
	ids, err := s.backend.ZRangeByScore(ctx, reminderScheduleKey, 0, float64(asOf.UnixMilli()))
	if err != nil {
		return nil, errs.Wrap(errs.KindBackend, err, "range reminderSchedule")
	}
	return ids, nil
}

func (s *Store) deleteReminder(ctx context.Context, id string) error {
	if err := s.backend.Delete(ctx, reminderKey(id)); err != nil {
		return errs.Wrap(errs.KindBackend, err, "delete reminder %s", id)
	}
	if err := s.backend.ZRem(ctx, reminderScheduleKey, id); err != nil {
		return errs.Wrap(errs.KindBackend, err, "deindex reminderSchedule")
	}
	return nil
}

// CancelPendingRemindersForSpark transitions every still-pending Reminder
// for sparkID to cancelled and removes it from the dispatch schedule.
// Returns the count cancelled.
func (s *Store) CancelPendingRemindersForSpark(ctx context.Context, sparkID string) (int, error) {
	ids, err := s.ListSparkReminders(ctx, sparkID)
	if err != nil {
		return 0, err
	}
	cancelled := 0
	for _, id := range ids {
		r, err := s.GetReminder(ctx, id)
		if err != nil {
			if errs.KindOf(err) == errs.KindNotFound {
				continue
			}
			return cancelled, err
		}
		if r.Status != domain.ReminderPending {
			continue
		}
		r.Status = domain.ReminderCancelled
		ev := r.Version
		if err := s.SaveReminder(ctx, r, &ev); err != nil {
			return cancelled, err
		}
		cancelled++
	}
	return cancelled, nil
}
