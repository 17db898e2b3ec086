// Package curriculum turns a verified resource list into a day-by-day
// learning plan via a single-turn LLM call, validated and retried
// against a fixed schema. The LLM may reference resources only by
// index; it never introduces new URLs, titles, or resources.
package curriculum

import "time"

// InputResource is one verified, pre-vetted learning resource the LLM may
// reference by its 1-based position in the slice passed to Generate.
type InputResource struct {
	Title      string
	Provider   string
	Difficulty string
	Minutes    int
	Topics     []string
}

// GoalInput describes what the curriculum should be built for.
type GoalInput struct {
	Title            string
	Description      string
	DayCount         int
	MinutesPerDay    int
	PriorDifficulty  string // hint only, e.g. an existing mastery signal
}

// DayResource is a resolved reference: the index as emitted by the model,
// plus the actual InputResource it points to.
type DayResource struct {
	Index   int
	Minutes int
	Optional bool
	Focus   string
	Resource InputResource
}

// Exercise is one practice activity within a day.
type Exercise struct {
	Type        string // practice, quiz, project, reflection, discussion
	Description string
	Minutes     int
	Optional    bool
}

// Day is one resolved day of the curriculum.
type Day struct {
	Day              int
	Theme            string
	Objectives       []string
	Resources        []DayResource
	Exercises        []Exercise
	TotalMinutes     int
	Difficulty       string
	PrerequisiteDays []int
	MinutesWarning   string // non-empty if sum(resource+exercise minutes) deviated from TotalMinutes
}

// ResolvedCurriculum is the validated, fully resolved output.
type ResolvedCurriculum struct {
	ID          string
	Title       string
	Description string
	Difficulty  string
	Progression string // flat, gradual, steep
	Days        []Day
	Warnings    []string

	GeneratedAt time.Time
	Model       string
	Temperature float64
	RequestID   string
	UserID      string
}

// Config tunes the generation pipeline.
type Config struct {
	MaxRetries  int
	Model       string
	Temperature float64
	MaxTokens   int // response token cap; a multi-day curriculum document runs long
}

// DefaultConfig returns the documented default retry count, temperature,
// and a token cap generous enough for a multi-week curriculum document.
func DefaultConfig() Config {
	return Config{MaxRetries: 2, Temperature: 0.4, MaxTokens: 8192}
}
