package domain

import (
	"time"

	"github.com/dailyspark/practiceengine/internal/errs"
)

// transitionTable maps a status to the events legal from it and the status
// each event lands on. Unknown events, or events from a status not listed,
// fail with errs.KindInvalidTransition — a closed table instead of scattered
// if-chains, so every legal move is visible in one place.
type transitionTable map[string]map[string]string

var goalTransitions = transitionTable{
	string(GoalActive): {
		"pause":    string(GoalPaused),
		"complete": string(GoalCompleted),
		"abandon":  string(GoalAbandoned),
	},
	string(GoalPaused): {
		"resume":  string(GoalActive),
		"abandon": string(GoalAbandoned),
	},
}

var questTransitions = transitionTable{
	string(QuestPending): {
		"start": string(QuestActive),
		"skip":  string(QuestSkipped),
	},
	string(QuestActive): {
		"complete": string(QuestCompleted),
		"skip":     string(QuestSkipped),
	},
}

var sparkTransitions = transitionTable{
	string(SparkPending): {
		"complete": string(SparkCompleted),
		"skip":     string(SparkSkipped),
	},
}

func allowedEvents(table transitionTable, state string) []string {
	events := table[state]
	out := make([]string, 0, len(events))
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

// ApplyGoalEvent transitions a Goal, mutating it in place on success.
func ApplyGoalEvent(g *Goal, event string) error {
	events, ok := goalTransitions[string(g.Status)]
	if !ok {
		return errs.Transition("goal", event, string(g.Status), nil)
	}
	next, ok := events[event]
	if !ok {
		return errs.Transition("goal", event, string(g.Status), allowedEvents(goalTransitions, string(g.Status)))
	}
	g.Status = GoalStatus(next)
	if event == "resume" {
		g.PausedUntil = ""
	}
	return nil
}

// IsGoalTerminal reports whether the goal is in a terminal status.
func IsGoalTerminal(s GoalStatus) bool {
	return s == GoalCompleted || s == GoalAbandoned
}

// ApplyQuestEvent transitions a Quest, mutating it in place on success.
// Starting a Quest must be paired by the caller with pushing any sibling
// active Quest of the same Goal to a non-active state (policy: pending,
// per DESIGN.md's resolution of the spec's open question) — that
// cross-entity step is the orchestrator's job, not this function's.
func ApplyQuestEvent(q *Quest, event string) error {
	events, ok := questTransitions[string(q.Status)]
	if !ok {
		return errs.Transition("quest", event, string(q.Status), nil)
	}
	next, ok := events[event]
	if !ok {
		return errs.Transition("quest", event, string(q.Status), allowedEvents(questTransitions, string(q.Status)))
	}
	q.Status = QuestStatus(next)
	return nil
}

// IsQuestTerminal reports whether the quest is in a terminal status.
func IsQuestTerminal(s QuestStatus) bool {
	return s == QuestCompleted || s == QuestSkipped
}

// ApplySparkEvent transitions a Spark, mutating it in place on success.
func ApplySparkEvent(s *Spark, event string) error {
	events, ok := sparkTransitions[string(s.Status)]
	if !ok {
		return errs.Transition("spark", event, string(s.Status), nil)
	}
	next, ok := events[event]
	if !ok {
		return errs.Transition("spark", event, string(s.Status), allowedEvents(sparkTransitions, string(s.Status)))
	}
	s.Status = SparkStatus(next)
	return nil
}

// ActivateDrill transitions a scheduled Drill to active.
func ActivateDrill(d *DailyDrill) error {
	if d.Status != DrillScheduled {
		return errs.Transition("drill", "activate", string(d.Status), []string{"activate"})
	}
	d.Status = DrillActive
	return nil
}

// RecordDrillOutcome transitions an active Drill to completed, setting
// outcome/completedAt/repeatTomorrow. The caller is responsible for
// clearing userActiveDrill and cancelling pending reminders for the drill's
// spark — those are store-level side effects, not state here.
func RecordDrillOutcome(d *DailyDrill, outcome Outcome, observation string, now time.Time) error {
	if d.Status != DrillActive {
		return errs.Transition("drill", "record", string(d.Status), []string{"record"})
	}
	d.Status = DrillCompleted
	d.Outcome = outcome
	d.Observation = observation
	d.CompletedAt = &now
	d.RepeatTomorrow = outcome == OutcomeFail || outcome == OutcomePartial
	return nil
}

// ExpireDrill marks a scheduled drill whose date has passed as expired.
// Terminal, but distinct from completed: no outcome is recorded.
func ExpireDrill(d *DailyDrill) error {
	if d.Status != DrillScheduled {
		return errs.Transition("drill", "expire", string(d.Status), []string{"expire"})
	}
	d.Status = DrillExpired
	return nil
}

// IsDrillTerminal reports whether the drill is in a terminal status.
func IsDrillTerminal(s DrillStatus) bool {
	return s == DrillCompleted || s == DrillSkipped || s == DrillExpired
}

// UpdateMastery applies the mastery update on drill completion, mutating
// the skill in place. threshold is the configured consecutivePasses needed
// to reach "mastered" (config.Mastery.Threshold, default 3).
func UpdateMastery(sk *Skill, outcome Outcome, threshold int, now time.Time) {
	switch outcome {
	case OutcomePass:
		sk.PassCount++
		sk.ConsecutivePasses++
		sk.LastPracticedAt = &now
	case OutcomeFail, OutcomePartial:
		sk.FailCount++
		sk.ConsecutivePasses = 0
		sk.LastPracticedAt = &now
	case OutcomeSkipped:
		return
	}

	switch {
	case sk.ConsecutivePasses >= threshold:
		sk.MasteryState = MasteryMastered
	case sk.PassCount > 0 || sk.FailCount > 0:
		sk.MasteryState = MasteryPracticing
	default:
		sk.MasteryState = MasteryNotStarted
	}
}
