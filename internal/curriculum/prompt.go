package curriculum

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a curriculum structurer. You will be given a numbered list of ` +
	`verified learning resources and must produce a day-by-day study plan as a ` +
	`single JSON object.

Rules, enforced by post-validation:
- Reference resources ONLY by their given index. Never invent a URL, title, ` +
	`or resource not in the provided list.
- Output days numbered 1..N, consecutive, no gaps or duplicates.
- Output valid JSON only: an object with title, description, ` +
	`difficulty (beginner|intermediate|advanced), progression (flat|gradual|steep), ` +
	`and days[]. Each day has day, theme, objectives[], resources[] ` +
	`{index, minutes, optional?, focus?}, exercises[] ` +
	`{type (practice|quiz|project|reflection|discussion), description, minutes, optional?}, ` +
	`totalMinutes, difficulty, and optional prerequisiteDays[] (each strictly less than its day).
- Do not wrap the JSON in prose or markdown fences.`

// BuildUserPrompt lists resources as "[i] title (provider, difficulty,
// ~Nmin) [— Topics: ...]" starting at index 1, matching the 1-based
// indices the model is asked to reference back in its response.
func BuildUserPrompt(goal GoalInput, resources []InputResource) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Goal: %s\n", goal.Title)
	if goal.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", goal.Description)
	}
	fmt.Fprintf(&b, "Days: %d\nMinutes per day: %d\n\n", goal.DayCount, goal.MinutesPerDay)
	b.WriteString("Available resources:\n")
	for i, r := range resources {
		fmt.Fprintf(&b, "[%d] %s (%s, %s, ~%dmin)", i+1, r.Title, r.Provider, r.Difficulty, r.Minutes)
		if len(r.Topics) > 0 {
			fmt.Fprintf(&b, " — Topics: %s", strings.Join(r.Topics, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}
