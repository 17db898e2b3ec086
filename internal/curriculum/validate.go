package curriculum

import (
	"fmt"
	"sort"
	"unicode"

	"github.com/dailyspark/practiceengine/internal/errs"
)

var validDifficulties = map[string]bool{"beginner": true, "intermediate": true, "advanced": true}
var validProgressions = map[string]bool{"flat": true, "gradual": true, "steep": true}
var validExerciseTypes = map[string]bool{"practice": true, "quiz": true, "project": true, "reflection": true, "discussion": true}

// validateShape enforces the schema beyond what JSON unmarshaling already
// guarantees: enum membership and non-empty structure. A failure here is
// retryable.
func validateShape(rc *rawCurriculum) error {
	if rc.Title == "" {
		return errs.New(errs.KindValidation, "curriculum: title is required")
	}
	if !validDifficulties[rc.Difficulty] {
		return errs.New(errs.KindValidation, "curriculum: invalid difficulty %q", rc.Difficulty)
	}
	if !validProgressions[rc.Progression] {
		return errs.New(errs.KindValidation, "curriculum: invalid progression %q", rc.Progression)
	}
	if len(rc.Days) == 0 {
		return errs.New(errs.KindValidation, "curriculum: no days produced")
	}
	for _, d := range rc.Days {
		if !validDifficulties[d.Difficulty] {
			return errs.New(errs.KindValidation, "curriculum: day %d has invalid difficulty %q", d.Day, d.Difficulty)
		}
		for _, ex := range d.Exercises {
			if !validExerciseTypes[ex.Type] {
				return errs.New(errs.KindValidation, "curriculum: day %d has invalid exercise type %q", d.Day, ex.Type)
			}
		}
	}
	return nil
}

// checkResourceBounds enforces 1 <= index <= len(resources) for every
// referenced resource. Retryable.
func checkResourceBounds(rc *rawCurriculum, resourceCount int) error {
	for _, d := range rc.Days {
		for _, r := range d.Resources {
			if r.Index < 1 || r.Index > resourceCount {
				return errs.New(errs.KindValidation, "curriculum: day %d references out-of-bounds resource index %d (have %d resources)", d.Day, r.Index, resourceCount)
			}
		}
	}
	return nil
}

// checkDaySequence enforces day numbers 1..N, consecutive, no gaps or
// duplicates. Retryable.
func checkDaySequence(rc *rawCurriculum) error {
	seen := make(map[int]bool, len(rc.Days))
	for _, d := range rc.Days {
		if seen[d.Day] {
			return errs.New(errs.KindValidation, "curriculum: duplicate day number %d", d.Day)
		}
		seen[d.Day] = true
	}
	n := len(rc.Days)
	for i := 1; i <= n; i++ {
		if !seen[i] {
			return errs.New(errs.KindValidation, "curriculum: missing day %d (expected 1..%d consecutive)", i, n)
		}
	}
	return nil
}

// checkMinutesConsistency compares sum(resource minutes)+sum(exercise
// minutes) against the day's reported totalMinutes, within a small
// tolerance. Deviations are warnings only — they never fail validation.
func checkMinutesConsistency(rc *rawCurriculum) []string {
	const toleranceMinutes = 5
	var warnings []string
	for _, d := range rc.Days {
		sum := 0
		for _, r := range d.Resources {
			sum += r.Minutes
		}
		for _, ex := range d.Exercises {
			sum += ex.Minutes
		}
		diff := sum - d.TotalMinutes
		if diff < 0 {
			diff = -diff
		}
		if diff > toleranceMinutes {
			warnings = append(warnings, fmt.Sprintf("day %d: resource+exercise minutes (%d) deviates from totalMinutes (%d)", d.Day, sum, d.TotalMinutes))
		}
	}
	return warnings
}

// checkPrerequisites enforces prerequisiteDays[k] < day for every day.
// A violation is a structural error: the model's day numbering is
// otherwise valid but its claimed dependency graph is incoherent. It is
// retried the same way as the other structural checks.
func checkPrerequisites(rc *rawCurriculum) error {
	for _, d := range rc.Days {
		for _, p := range d.PrerequisiteDays {
			if p >= d.Day {
				return errs.New(errs.KindValidation, "curriculum: day %d lists prerequisite day %d, which is not strictly earlier", d.Day, p)
			}
		}
	}
	return nil
}

// checkContentSanity flags non-ASCII-printable content in themes and
// descriptions as warnings, never errors.
func checkContentSanity(rc *rawCurriculum) []string {
	var warnings []string
	check := func(label, s string) {
		if !isASCIIPrintable(s) {
			warnings = append(warnings, fmt.Sprintf("%s contains non-ASCII-printable characters", label))
		}
	}
	check("description", rc.Description)
	for _, d := range rc.Days {
		check(fmt.Sprintf("day %d theme", d.Day), d.Theme)
	}
	return warnings
}

func isASCIIPrintable(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			if r == '\n' || r == '\t' {
				continue
			}
			return false
		}
	}
	return true
}

// resolve converts a validated rawCurriculum into a ResolvedCurriculum,
// substituting each resource index for the actual InputResource.
func resolve(rc *rawCurriculum, resources []InputResource, warnings []string) ResolvedCurriculum {
	days := make([]Day, 0, len(rc.Days))
	sorted := append([]rawDay(nil), rc.Days...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Day < sorted[j].Day })

	for _, d := range sorted {
		dayResources := make([]DayResource, 0, len(d.Resources))
		for _, r := range d.Resources {
			dayResources = append(dayResources, DayResource{
				Index:    r.Index,
				Minutes:  r.Minutes,
				Optional: r.Optional,
				Focus:    r.Focus,
				Resource: resources[r.Index-1],
			})
		}
		exercises := make([]Exercise, 0, len(d.Exercises))
		for _, ex := range d.Exercises {
			exercises = append(exercises, Exercise{Type: ex.Type, Description: ex.Description, Minutes: ex.Minutes, Optional: ex.Optional})
		}
		minutesWarning := ""
		if w := checkMinutesConsistency(&rawCurriculum{Days: []rawDay{d}}); len(w) > 0 {
			minutesWarning = w[0]
		}
		days = append(days, Day{
			Day:              d.Day,
			Theme:            d.Theme,
			Objectives:       d.Objectives,
			Resources:        dayResources,
			Exercises:        exercises,
			TotalMinutes:     d.TotalMinutes,
			Difficulty:       d.Difficulty,
			PrerequisiteDays: d.PrerequisiteDays,
			MinutesWarning:   minutesWarning,
		})
	}

	return ResolvedCurriculum{
		Title:       rc.Title,
		Description: rc.Description,
		Difficulty:  rc.Difficulty,
		Progression: rc.Progression,
		Days:        days,
		Warnings:    warnings,
	}
}
