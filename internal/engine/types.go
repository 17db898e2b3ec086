// Package engine implements the orchestrator: the public operations that
// compose the store, scheduler, and reminder subsystems while preserving
// invariants across their boundaries. It
// follows the same Dependencies-struct-driven shape used elsewhere in
// this codebase — one method per public operation, early-return on the
// first error.
package engine

import (
	"context"
	"time"

	"github.com/dailyspark/practiceengine/internal/domain"
)

// CreateGoalParams is createGoal's input.
type CreateGoalParams struct {
	OwnerUserID string
	Title       string
	Description string
	Priority    int
	Timezone    string
}

// PathProgress is GetPathProgress's output shape.
type PathProgress struct {
	GoalID                 string
	CompletedQuests        int
	TotalQuests             int
	CompletedSkills        int
	TotalSkills            int
	PercentComplete        int
	OnTrack                bool
	DaysBehind             int
	EstimatedCompletionDate string
	AverageDifficulty      *float64
	LastActivityAt         *time.Time
}

// SkillGenerator produces the Skills for a newly activated Quest. The
// default implementation (see default_generator.go) is a single-skill
// placeholder; a real deployment wires this to internal/curriculum's
// resolved output instead.
type SkillGenerator interface {
	GenerateSkills(ctx context.Context, goal *domain.Goal, quest *domain.Quest) ([]*domain.Skill, error)
}
