package store

import (
	"github.com/dailyspark/practiceengine/internal/domain"
	"github.com/dailyspark/practiceengine/internal/errs"
)

// Each entity rejector enforces the type's field constraints before any
// index or storage mutation runs — invalid writes fail fast rather than
// leaving a partially indexed entity behind.

func validateGoal(g *domain.Goal) error {
	if g.ID == "" {
		return errs.New(errs.KindValidation, "goal: id is required")
	}
	if g.OwnerUserID == "" {
		return errs.New(errs.KindValidation, "goal: ownerUserId is required")
	}
	if len(g.Title) == 0 || len(g.Title) > 500 {
		return errs.New(errs.KindValidation, "goal: title must be 1-500 chars")
	}
	if len(g.Description) > 10000 {
		return errs.New(errs.KindValidation, "goal: description must be <=10000 chars")
	}
	switch g.Status {
	case domain.GoalActive, domain.GoalPaused, domain.GoalCompleted, domain.GoalAbandoned:
	default:
		return errs.New(errs.KindValidation, "goal: invalid status %q", g.Status)
	}
	if g.Priority <= 0 {
		return errs.New(errs.KindValidation, "goal: priority must be positive")
	}
	if (g.Status == domain.GoalPaused) != (g.PausedUntil != "") {
		return errs.New(errs.KindValidation, "goal: status=paused must imply pausedUntil is set, and vice versa")
	}
	return nil
}

func validateQuest(q *domain.Quest) error {
	if q.ID == "" || q.GoalID == "" {
		return errs.New(errs.KindValidation, "quest: id and goalId are required")
	}
	if q.Title == "" {
		return errs.New(errs.KindValidation, "quest: title is required")
	}
	switch q.Status {
	case domain.QuestPending, domain.QuestActive, domain.QuestCompleted, domain.QuestSkipped:
	default:
		return errs.New(errs.KindValidation, "quest: invalid status %q", q.Status)
	}
	if q.Order <= 0 {
		return errs.New(errs.KindValidation, "quest: order must be positive")
	}
	return nil
}

func validateSkill(sk *domain.Skill) error {
	if sk.ID == "" || sk.QuestID == "" || sk.GoalID == "" || sk.UserID == "" {
		return errs.New(errs.KindValidation, "skill: id, questId, goalId, userId are required")
	}
	if sk.Action == "" || sk.SuccessSignal == "" {
		return errs.New(errs.KindValidation, "skill: action and successSignal are required")
	}
	if len(sk.LockedVariables) < 1 {
		return errs.New(errs.KindValidation, "skill: lockedVariables must have at least one entry")
	}
	if sk.EstimatedMinutes <= 0 {
		return errs.New(errs.KindValidation, "skill: estimatedMinutes must be positive")
	}
	switch sk.Difficulty {
	case domain.DifficultyFoundation, domain.DifficultyPractice, domain.DifficultyChallenge:
	default:
		return errs.New(errs.KindValidation, "skill: invalid difficulty %q", sk.Difficulty)
	}
	switch sk.MasteryState {
	case domain.MasteryNotStarted, domain.MasteryPracticing, domain.MasteryMastered:
	default:
		return errs.New(errs.KindValidation, "skill: invalid mastery state %q", sk.MasteryState)
	}
	if sk.PassCount+sk.FailCount < sk.ConsecutivePasses {
		return errs.New(errs.KindValidation, "skill: passCount+failCount must be >= consecutivePasses")
	}
	return nil
}

func validateDrill(d *domain.DailyDrill) error {
	if d.ID == "" || d.SkillID == "" || d.UserID == "" || d.GoalID == "" {
		return errs.New(errs.KindValidation, "drill: id, skillId, userId, goalId are required")
	}
	if d.ScheduledDate == "" || d.DayNumber < 1 {
		return errs.New(errs.KindValidation, "drill: scheduledDate and dayNumber (>=1) are required")
	}
	switch d.Status {
	case domain.DrillScheduled, domain.DrillActive, domain.DrillCompleted, domain.DrillSkipped, domain.DrillExpired:
	default:
		return errs.New(errs.KindValidation, "drill: invalid status %q", d.Status)
	}
	if d.EstimatedMinutes <= 0 {
		return errs.New(errs.KindValidation, "drill: estimatedMinutes must be positive")
	}
	if d.RetryCount < 0 {
		return errs.New(errs.KindValidation, "drill: retryCount must be >= 0")
	}
	if d.Status == domain.DrillCompleted && (d.Outcome == "" || d.CompletedAt == nil) {
		return errs.New(errs.KindValidation, "drill: status=completed requires outcome and completedAt")
	}
	wantRepeat := d.Outcome == domain.OutcomeFail || d.Outcome == domain.OutcomePartial
	if d.Status == domain.DrillCompleted && d.RepeatTomorrow != wantRepeat {
		return errs.New(errs.KindValidation, "drill: repeatTomorrow must equal outcome in {fail,partial}")
	}
	return nil
}

func validateSpark(s *domain.Spark) error {
	if s.ID == "" || s.DrillID == "" || s.UserID == "" {
		return errs.New(errs.KindValidation, "spark: id, drillId, userId are required")
	}
	switch s.Status {
	case domain.SparkPending, domain.SparkCompleted, domain.SparkSkipped:
	default:
		return errs.New(errs.KindValidation, "spark: invalid status %q", s.Status)
	}
	switch s.Variant {
	case domain.VariantFull, domain.VariantReduced, domain.VariantMinimal:
	default:
		return errs.New(errs.KindValidation, "spark: invalid variant %q", s.Variant)
	}
	if s.EscalationLevel < 0 || s.EscalationLevel > 3 {
		return errs.New(errs.KindValidation, "spark: escalationLevel must be in [0,3]")
	}
	if s.EstimatedMinutes < 5 || s.EstimatedMinutes > 120 {
		return errs.New(errs.KindValidation, "spark: estimatedMinutes must be in [5,120]")
	}
	return nil
}

func validateReminder(r *domain.Reminder) error {
	if r.ID == "" || r.UserID == "" || r.DrillID == "" || r.SparkID == "" {
		return errs.New(errs.KindValidation, "reminder: id, userId, drillId, sparkId are required")
	}
	switch r.Status {
	case domain.ReminderPending, domain.ReminderSent, domain.ReminderCancelled, domain.ReminderFailed:
	default:
		return errs.New(errs.KindValidation, "reminder: invalid status %q", r.Status)
	}
	if r.Status == domain.ReminderSent && r.SentAt == nil {
		return errs.New(errs.KindValidation, "reminder: status=sent requires sentAt")
	}
	if len(r.Channels) == 0 {
		return errs.New(errs.KindValidation, "reminder: at least one channel is required")
	}
	return nil
}
