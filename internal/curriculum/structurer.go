package curriculum

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dailyspark/practiceengine/internal/brain"
	"github.com/dailyspark/practiceengine/internal/budget"
	"github.com/dailyspark/practiceengine/internal/errs"
	"github.com/dailyspark/practiceengine/internal/observability"
	"github.com/dailyspark/practiceengine/internal/security"
)

// Structurer drives the curriculum generation pipeline: prompt
// construction, a single-turn LLM call, tolerant extraction,
// schema/bounds/sequence/prerequisite validation with retry, and
// resource resolution.
type Structurer struct {
	llm       brain.LLMProvider
	router    *brain.ModelRouter
	tracker   *budget.Tracker
	sanitizer *security.Sanitizer
	cfg       Config
	log       *observability.Logger
}

// NewStructurer constructs a Structurer. tracker, sanitizer, and log may
// be nil (budget-unaware routing, no input sanitization, no logging
// respectively).
func NewStructurer(llm brain.LLMProvider, router *brain.ModelRouter, tracker *budget.Tracker, sanitizer *security.Sanitizer, cfg Config, log *observability.Logger) *Structurer {
	return &Structurer{llm: llm, router: router, tracker: tracker, sanitizer: sanitizer, cfg: cfg, log: log}
}

// Generate runs the full pipeline for one goal against the supplied
// verified resources, returning a ResolvedCurriculum or a taxonomized
// error.
func (s *Structurer) Generate(ctx context.Context, goal GoalInput, resources []InputResource, userID string) (*ResolvedCurriculum, error) {
	if s.llm == nil {
		return nil, errs.New(errs.KindValidation, "CLIENT_NOT_INITIALIZED: no LLM provider configured")
	}
	if len(resources) == 0 {
		return nil, errs.New(errs.KindValidation, "NO_RESOURCES: curriculum requires at least one verified resource")
	}
	if goal.DayCount <= 0 {
		return nil, errs.New(errs.KindValidation, "INVALID_DAYS: dayCount must be positive, got %d", goal.DayCount)
	}

	cleanResources, err := s.sanitizeResources(resources)
	if err != nil {
		return nil, err
	}

	userPrompt := BuildUserPrompt(goal, cleanResources)
	model := s.selectModel(goal.DayCount)

	maxRetries := s.cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	var lastErr error
	var resp *brain.LLMResponse
	var rc *rawCurriculum

	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, lastErr = s.call(ctx, model, userPrompt)
		if lastErr != nil {
			if s.log != nil {
				s.log.EntityEvent("curriculum_retry", "curriculum", userID, "attempt", attempt, "error", lastErr.Error())
			}
			continue
		}
		if s.tracker != nil {
			s.tracker.Record(userID, resp.CostUSD)
		}

		rc, lastErr = s.validateOnce(resp.Content, len(cleanResources))
		if lastErr == nil {
			break
		}
		if s.log != nil {
			s.log.EntityEvent("curriculum_retry", "curriculum", userID, "attempt", attempt, "error", lastErr.Error())
		}
	}

	if lastErr != nil {
		return nil, errs.Wrap(errs.KindGenerationFailed, lastErr, "curriculum generation failed after %d attempts", maxRetries+1)
	}

	warnings := append(checkMinutesConsistency(rc), checkContentSanity(rc)...)
	result := resolve(rc, cleanResources, warnings)
	result.ID = uuid.New().String()
	result.GeneratedAt = time.Now()
	result.Model = model
	result.Temperature = s.cfg.Temperature
	result.RequestID = uuid.New().String()
	result.UserID = userID

	return &result, nil
}

// validateOnce runs the retryable validation chain (shape, bounds,
// sequence) followed by the non-retried-differently prerequisite check,
// returning the parsed rawCurriculum on full success.
func (s *Structurer) validateOnce(rawContent string, resourceCount int) (*rawCurriculum, error) {
	jsonText := ExtractJSON(rawContent)
	rc, err := parseRaw(jsonText)
	if err != nil {
		return nil, errs.Wrap(errs.KindValidation, err, "curriculum: malformed JSON")
	}
	if err := validateShape(rc); err != nil {
		return nil, err
	}
	if err := checkResourceBounds(rc, resourceCount); err != nil {
		return nil, err
	}
	if err := checkDaySequence(rc); err != nil {
		return nil, err
	}
	if err := checkPrerequisites(rc); err != nil {
		return nil, err
	}
	return rc, nil
}

func (s *Structurer) call(ctx context.Context, model, userPrompt string) (*brain.LLMResponse, error) {
	req := brain.LLMRequest{
		Messages: []brain.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Model:       model,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	}
	return s.llm.Complete(ctx, req)
}

// selectModel maps day count to a complexity tier and asks the router
// for a model within the remaining budget.
func (s *Structurer) selectModel(dayCount int) string {
	if s.router == nil {
		return s.cfg.Model
	}
	complexity := "moderate"
	switch {
	case dayCount <= 3:
		complexity = "simple"
	case dayCount > 14:
		complexity = "complex"
	}
	remaining := 100.0
	if s.tracker != nil {
		remaining = s.tracker.EffectiveBudget()
	}
	if model := s.router.Select(complexity, remaining); model != "" {
		return model
	}
	return s.cfg.Model
}

// sanitizeResources runs each resource's title through the sanitizer to
// defend the prompt against injected instructions smuggled in resource
// metadata; the other fields (provider, difficulty, topics) pass through
// unchanged. A blocked title aborts generation (hard terminal —
// sanitization rejection is never retried).
func (s *Structurer) sanitizeResources(resources []InputResource) ([]InputResource, error) {
	if s.sanitizer == nil {
		return resources, nil
	}
	cleaned := make([]InputResource, len(resources))
	for i, r := range resources {
		titleResult := s.sanitizer.Sanitize(r.Title)
		if titleResult.Blocked {
			return nil, errs.New(errs.KindValidation, "resource %d title rejected: %s", i+1, titleResult.BlockReason)
		}
		r.Title = titleResult.Clean
		cleaned[i] = r
	}
	return cleaned, nil
}
