package curriculum

import "testing"

func validRaw() *rawCurriculum {
	return &rawCurriculum{
		Title:       "Go Fundamentals",
		Description: "intro",
		Difficulty:  "beginner",
		Progression: "gradual",
		Days: []rawDay{
			{Day: 1, Theme: "t1", Difficulty: "beginner", TotalMinutes: 30,
				Resources: []rawResource{{Index: 1, Minutes: 30}},
				Exercises: []rawExercise{{Type: "practice", Description: "do it", Minutes: 0}},
			},
			{Day: 2, Theme: "t2", Difficulty: "beginner", TotalMinutes: 20,
				Resources:        []rawResource{{Index: 2, Minutes: 20}},
				PrerequisiteDays: []int{1},
			},
		},
	}
}

func TestValidateShape_OK(t *testing.T) {
	if err := validateShape(validRaw()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateShape_MissingTitle(t *testing.T) {
	rc := validRaw()
	rc.Title = ""
	if err := validateShape(rc); err == nil {
		t.Fatal("expected error for missing title")
	}
}

func TestValidateShape_InvalidDifficulty(t *testing.T) {
	rc := validRaw()
	rc.Difficulty = "expert"
	if err := validateShape(rc); err == nil {
		t.Fatal("expected error for invalid difficulty")
	}
}

func TestValidateShape_InvalidExerciseType(t *testing.T) {
	rc := validRaw()
	rc.Days[0].Exercises[0].Type = "homework"
	if err := validateShape(rc); err == nil {
		t.Fatal("expected error for invalid exercise type")
	}
}

func TestValidateShape_NoDays(t *testing.T) {
	rc := validRaw()
	rc.Days = nil
	if err := validateShape(rc); err == nil {
		t.Fatal("expected error for no days")
	}
}

func TestCheckResourceBounds_OutOfRange(t *testing.T) {
	rc := validRaw()
	rc.Days[0].Resources[0].Index = 5
	if err := checkResourceBounds(rc, 2); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
}

func TestCheckResourceBounds_ZeroIndex(t *testing.T) {
	rc := validRaw()
	rc.Days[0].Resources[0].Index = 0
	if err := checkResourceBounds(rc, 2); err == nil {
		t.Fatal("expected error for 0 index (1-based)")
	}
}

func TestCheckResourceBounds_OK(t *testing.T) {
	if err := checkResourceBounds(validRaw(), 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckDaySequence_Duplicate(t *testing.T) {
	rc := validRaw()
	rc.Days[1].Day = 1
	if err := checkDaySequence(rc); err == nil {
		t.Fatal("expected duplicate day error")
	}
}

func TestCheckDaySequence_Gap(t *testing.T) {
	rc := validRaw()
	rc.Days[1].Day = 3
	if err := checkDaySequence(rc); err == nil {
		t.Fatal("expected missing day error")
	}
}

func TestCheckDaySequence_OK(t *testing.T) {
	if err := checkDaySequence(validRaw()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckPrerequisites_NotEarlier(t *testing.T) {
	rc := validRaw()
	rc.Days[1].PrerequisiteDays = []int{2}
	if err := checkPrerequisites(rc); err == nil {
		t.Fatal("expected prerequisite error")
	}
}

func TestCheckPrerequisites_OK(t *testing.T) {
	if err := checkPrerequisites(validRaw()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckMinutesConsistency_WithinTolerance(t *testing.T) {
	rc := validRaw()
	warnings := checkMinutesConsistency(rc)
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}

func TestCheckMinutesConsistency_Deviation(t *testing.T) {
	rc := validRaw()
	rc.Days[0].TotalMinutes = 200
	warnings := checkMinutesConsistency(rc)
	if len(warnings) == 0 {
		t.Fatal("expected a minutes-consistency warning")
	}
}

func TestCheckContentSanity_NonASCII(t *testing.T) {
	rc := validRaw()
	rc.Days[0].Theme = "café break ☃"
	warnings := checkContentSanity(rc)
	if len(warnings) == 0 {
		t.Fatal("expected a content-sanity warning for non-ASCII theme")
	}
}

func TestCheckContentSanity_Clean(t *testing.T) {
	warnings := checkContentSanity(validRaw())
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}

func TestResolve_SortsDaysAndSubstitutesResources(t *testing.T) {
	rc := validRaw()
	rc.Days[0], rc.Days[1] = rc.Days[1], rc.Days[0]

	resources := []InputResource{
		{Title: "First"},
		{Title: "Second"},
	}
	result := resolve(rc, resources, nil)

	if len(result.Days) != 2 {
		t.Fatalf("days = %d", len(result.Days))
	}
	if result.Days[0].Day != 1 || result.Days[1].Day != 2 {
		t.Fatalf("days not sorted: %+v", result.Days)
	}
	if result.Days[0].Resources[0].Resource.Title != "First" {
		t.Errorf("day 1 resource = %+v", result.Days[0].Resources[0])
	}
	if result.Days[1].Resources[0].Resource.Title != "Second" {
		t.Errorf("day 2 resource = %+v", result.Days[1].Resources[0])
	}
}
