package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/dailyspark/practiceengine/internal/domain"
)

// DefaultSkillGenerator produces a single foundation-difficulty Skill per
// Quest when no curriculum-backed generator is configured — enough to
// exercise the full createGoal→onGoalCreated→getTodayForUser path without
// a real LLM call.
type DefaultSkillGenerator struct {
	EstimatedMinutes int
}

// NewDefaultSkillGenerator constructs a DefaultSkillGenerator.
// estimatedMinutes defaults to 15 if non-positive.
func NewDefaultSkillGenerator(estimatedMinutes int) *DefaultSkillGenerator {
	if estimatedMinutes <= 0 {
		estimatedMinutes = 15
	}
	return &DefaultSkillGenerator{EstimatedMinutes: estimatedMinutes}
}

func (g *DefaultSkillGenerator) GenerateSkills(ctx context.Context, goal *domain.Goal, quest *domain.Quest) ([]*domain.Skill, error) {
	sk := &domain.Skill{
		ID:               uuid.New().String(),
		QuestID:          quest.ID,
		GoalID:           goal.ID,
		UserID:           goal.OwnerUserID,
		Action:           "Practice: " + quest.Title,
		SuccessSignal:    "Completed the drill's stated action",
		EstimatedMinutes: g.EstimatedMinutes,
		Difficulty:       domain.DifficultyFoundation,
		Order:            1,
		MasteryState:     domain.MasteryNotStarted,
	}
	return []*domain.Skill{sk}, nil
}
