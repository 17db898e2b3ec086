package curriculum

import (
	"context"
	"errors"
	"testing"

	"github.com/dailyspark/practiceengine/internal/brain"
)

type fakeProvider struct {
	responses []string
	errs      []error
	calls     int
}

func (f *fakeProvider) Complete(ctx context.Context, req brain.LLMRequest) (*brain.LLMResponse, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	content := ""
	if i < len(f.responses) {
		content = f.responses[i]
	} else if len(f.responses) > 0 {
		content = f.responses[len(f.responses)-1]
	}
	return &brain.LLMResponse{Content: content, Model: "test-model", CostUSD: 0.01}, nil
}

func (f *fakeProvider) Name() string      { return "fake" }
func (f *fakeProvider) Models() []string  { return []string{"test-model"} }

func testResources() []InputResource {
	return []InputResource{
		{Title: "Intro to Go", Provider: "exercism", Difficulty: "beginner", Minutes: 30, Topics: []string{"syntax"}},
		{Title: "Concurrency Patterns", Provider: "gobyexample", Difficulty: "intermediate", Minutes: 45, Topics: []string{"goroutines", "channels"}},
	}
}

const validCurriculumJSON = `{
  "title": "Go Fundamentals",
  "description": "A two day intro",
  "difficulty": "beginner",
  "progression": "gradual",
  "days": [
    {
      "day": 1,
      "theme": "Syntax basics",
      "objectives": ["Learn variables"],
      "resources": [{"index": 1, "minutes": 30}],
      "exercises": [{"type": "practice", "description": "Write a function", "minutes": 15}],
      "totalMinutes": 45,
      "difficulty": "beginner"
    },
    {
      "day": 2,
      "theme": "Concurrency",
      "objectives": ["Understand goroutines"],
      "resources": [{"index": 2, "minutes": 45}],
      "exercises": [{"type": "quiz", "description": "Channel quiz", "minutes": 10}],
      "totalMinutes": 55,
      "difficulty": "intermediate",
      "prerequisiteDays": [1]
    }
  ]
}`

func TestStructurer_Generate_Success(t *testing.T) {
	fp := &fakeProvider{responses: []string{validCurriculumJSON}}
	s := NewStructurer(fp, nil, nil, nil, DefaultConfig(), nil)

	goal := GoalInput{Title: "Learn Go", DayCount: 2, MinutesPerDay: 45}
	rc, err := s.Generate(context.Background(), goal, testResources(), "u1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(rc.Days) != 2 {
		t.Fatalf("days = %d, want 2", len(rc.Days))
	}
	if rc.Days[0].Resources[0].Resource.Title != "Intro to Go" {
		t.Errorf("resolved resource = %+v", rc.Days[0].Resources[0])
	}
	if rc.UserID != "u1" {
		t.Errorf("userID = %s", rc.UserID)
	}
	if fp.calls != 1 {
		t.Errorf("expected 1 LLM call on first-try success, got %d", fp.calls)
	}
}

func TestStructurer_Generate_NoResources(t *testing.T) {
	fp := &fakeProvider{}
	s := NewStructurer(fp, nil, nil, nil, DefaultConfig(), nil)

	_, err := s.Generate(context.Background(), GoalInput{DayCount: 1}, nil, "u1")
	if err == nil {
		t.Fatal("expected NO_RESOURCES error")
	}
}

func TestStructurer_Generate_InvalidDayCount(t *testing.T) {
	fp := &fakeProvider{}
	s := NewStructurer(fp, nil, nil, nil, DefaultConfig(), nil)

	_, err := s.Generate(context.Background(), GoalInput{DayCount: 0}, testResources(), "u1")
	if err == nil {
		t.Fatal("expected INVALID_DAYS error")
	}
}

func TestStructurer_Generate_NilProvider(t *testing.T) {
	s := NewStructurer(nil, nil, nil, nil, DefaultConfig(), nil)
	_, err := s.Generate(context.Background(), GoalInput{DayCount: 1}, testResources(), "u1")
	if err == nil {
		t.Fatal("expected CLIENT_NOT_INITIALIZED error")
	}
}

func TestStructurer_Generate_RetriesOnOutOfBoundsIndex(t *testing.T) {
	badJSON := `{"title":"x","description":"d","difficulty":"beginner","progression":"flat","days":[{"day":1,"theme":"t","objectives":[],"resources":[{"index":99,"minutes":10}],"exercises":[],"totalMinutes":10,"difficulty":"beginner"}]}`
	fp := &fakeProvider{responses: []string{badJSON, validCurriculumJSON}}
	s := NewStructurer(fp, nil, nil, nil, DefaultConfig(), nil)

	goal := GoalInput{Title: "Learn Go", DayCount: 2, MinutesPerDay: 45}
	rc, err := s.Generate(context.Background(), goal, testResources(), "u1")
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if fp.calls != 2 {
		t.Errorf("expected 2 calls (1 retry), got %d", fp.calls)
	}
	if rc.Title != "Go Fundamentals" {
		t.Errorf("title = %s", rc.Title)
	}
}

func TestStructurer_Generate_ExhaustsRetriesReturnsGenerationFailed(t *testing.T) {
	badJSON := `not json at all`
	fp := &fakeProvider{responses: []string{badJSON, badJSON, badJSON}}
	cfg := Config{MaxRetries: 2, Temperature: 0.4}
	s := NewStructurer(fp, nil, nil, nil, cfg, nil)

	_, err := s.Generate(context.Background(), GoalInput{DayCount: 1}, testResources(), "u1")
	if err == nil {
		t.Fatal("expected GENERATION_FAILED after exhausting retries")
	}
	if fp.calls != 3 {
		t.Errorf("expected 3 total attempts (1 + 2 retries), got %d", fp.calls)
	}
}

func TestStructurer_Generate_ProviderErrorIsRetried(t *testing.T) {
	fp := &fakeProvider{
		errs:      []error{errors.New("network blip"), nil},
		responses: []string{"", validCurriculumJSON},
	}
	s := NewStructurer(fp, nil, nil, nil, DefaultConfig(), nil)

	goal := GoalInput{Title: "Learn Go", DayCount: 2, MinutesPerDay: 45}
	_, err := s.Generate(context.Background(), goal, testResources(), "u1")
	if err != nil {
		t.Fatalf("expected transient provider error to be retried past, got %v", err)
	}
}
