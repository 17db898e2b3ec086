// Package domain holds the practice engine's entity types and their closed
// state-transition tables. Nothing in this package touches storage — it is
// pure data and pure functions, independent of how callers persist it.
package domain

import "time"

type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalPaused    GoalStatus = "paused"
	GoalCompleted GoalStatus = "completed"
	GoalAbandoned GoalStatus = "abandoned"
)

// Goal is the user's stated outcome.
type Goal struct {
	ID          string     `json:"id"`
	OwnerUserID string     `json:"ownerUserId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      GoalStatus `json:"status"`
	Priority    int        `json:"priority"`
	Timezone    string     `json:"timezone"`
	PausedUntil string     `json:"pausedUntil,omitempty"` // YYYY-MM-DD
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Version     int64      `json:"version"`
}

type QuestStatus string

const (
	QuestPending   QuestStatus = "pending"
	QuestActive    QuestStatus = "active"
	QuestCompleted QuestStatus = "completed"
	QuestSkipped   QuestStatus = "skipped"
)

// Quest is an ordered milestone under a Goal.
type Quest struct {
	ID          string      `json:"id"`
	GoalID      string      `json:"goalId"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      QuestStatus `json:"status"`
	Order       int         `json:"order"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Version     int64       `json:"version"`
}

type Difficulty string

const (
	DifficultyFoundation Difficulty = "foundation"
	DifficultyPractice   Difficulty = "practice"
	DifficultyChallenge  Difficulty = "challenge"
)

type Mastery string

const (
	MasteryNotStarted Mastery = "not_started"
	MasteryPracticing Mastery = "practicing"
	MasteryMastered   Mastery = "mastered"
)

// Skill is a unit of practiced capability under a Quest.
type Skill struct {
	ID                string     `json:"id"`
	QuestID           string     `json:"questId"`
	GoalID            string     `json:"goalId"`
	UserID            string     `json:"userId"`
	Action            string     `json:"action"`
	SuccessSignal     string     `json:"successSignal"`
	LockedVariables   []string   `json:"lockedVariables"`
	EstimatedMinutes  int        `json:"estimatedMinutes"`
	Difficulty        Difficulty `json:"difficulty"`
	Order             int        `json:"order"`
	MasteryState      Mastery    `json:"mastery"`
	PassCount         int        `json:"passCount"`
	FailCount         int        `json:"failCount"`
	ConsecutivePasses int        `json:"consecutivePasses"`
	LastPracticedAt   *time.Time `json:"lastPracticedAt,omitempty"`
	DifficultyRatings []float64  `json:"difficultyRatings,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	Version           int64      `json:"version"`
}

type DrillStatus string

const (
	DrillScheduled DrillStatus = "scheduled"
	DrillActive    DrillStatus = "active"
	DrillCompleted DrillStatus = "completed"
	DrillSkipped   DrillStatus = "skipped"
	DrillExpired   DrillStatus = "expired"
)

type Outcome string

const (
	OutcomePass    Outcome = "pass"
	OutcomePartial Outcome = "partial"
	OutcomeFail    Outcome = "fail"
	OutcomeSkipped Outcome = "skipped"
)

// DailyDrill is one scheduled day of practice for a Skill.
type DailyDrill struct {
	ID               string      `json:"id"`
	WeekPlanID       string      `json:"weekPlanId"`
	SkillID          string      `json:"skillId"`
	UserID           string      `json:"userId"`
	GoalID           string      `json:"goalId"`
	ScheduledDate    string      `json:"scheduledDate"` // YYYY-MM-DD
	DayNumber        int         `json:"dayNumber"`
	Status           DrillStatus `json:"status"`
	Action           string      `json:"action"`
	PassSignal       string      `json:"passSignal"`
	Constraint       string      `json:"constraint"`
	EstimatedMinutes int         `json:"estimatedMinutes"`
	Outcome          Outcome     `json:"outcome,omitempty"`
	Observation      string      `json:"observation,omitempty"`
	CarryForward     string      `json:"carryForward,omitempty"`
	IsRetry          bool        `json:"isRetry"`
	RetryCount       int         `json:"retryCount"`
	RepeatTomorrow   bool        `json:"repeatTomorrow"`
	PendingSparkID   string      `json:"pendingSparkId,omitempty"`
	CompletedAt      *time.Time  `json:"completedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	Version          int64       `json:"version"`
}

type SparkStatus string

const (
	SparkPending   SparkStatus = "pending"
	SparkCompleted SparkStatus = "completed"
	SparkSkipped   SparkStatus = "skipped"
)

type SparkVariant string

const (
	VariantFull    SparkVariant = "full"
	VariantReduced SparkVariant = "reduced"
	VariantMinimal SparkVariant = "minimal"
)

// Spark is a delivered prompt for a drill.
type Spark struct {
	ID               string       `json:"id"`
	DrillID          string       `json:"drillId"`
	UserID           string       `json:"userId"`
	Status           SparkStatus  `json:"status"`
	Variant          SparkVariant `json:"variant"`
	EscalationLevel  int          `json:"escalationLevel"`
	EstimatedMinutes int          `json:"estimatedMinutes"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
	Version          int64        `json:"version"`
}

type ReminderStatus string

const (
	ReminderPending   ReminderStatus = "pending"
	ReminderSent      ReminderStatus = "sent"
	ReminderCancelled ReminderStatus = "cancelled"
	ReminderFailed    ReminderStatus = "failed"
)

type Tone string

const (
	ToneEncouraging Tone = "encouraging"
	ToneGentle      Tone = "gentle"
	ToneLastChance  Tone = "last_chance"
)

// Channel is a notification transport, a subset of {push, email, sms}.
type Channel string

const (
	ChannelPush  Channel = "push"
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Reminder is a scheduled outbound nudge.
type Reminder struct {
	ID              string         `json:"id"`
	UserID          string         `json:"userId"`
	DrillID         string         `json:"drillId"`
	SparkID         string         `json:"sparkId"`
	ScheduledTime   time.Time      `json:"scheduledTime"`
	EscalationLevel int            `json:"escalationLevel"`
	SparkVariant    SparkVariant   `json:"sparkVariant"`
	Tone            Tone           `json:"tone"`
	Status          ReminderStatus `json:"status"`
	Channels        []Channel      `json:"channels"`
	SentAt          *time.Time     `json:"sentAt,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	Version         int64          `json:"version"`
}
