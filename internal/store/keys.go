package store

import "fmt"

// Namespaced entity keys: "goal:{id}", "quest:{id}", and so on.
func goalKey(id string) string     { return "goal:" + id }
func questKey(id string) string    { return "quest:" + id }
func skillKey(id string) string    { return "skill:" + id }
func drillKey(id string) string    { return "drill:" + id }
func sparkKey(id string) string    { return "spark:" + id }
func reminderKey(id string) string { return "reminder:" + id }

// Secondary index keys, one function per maintained index.
func userGoalsKey(userID string) string        { return "idx:userGoals:" + userID }
func userActiveGoalsKey(userID string) string  { return "idx:userActiveGoals:" + userID }
func goalQuestsKey(goalID string) string       { return "idx:goalQuests:" + goalID }
func questSkillsKey(questID string) string     { return "idx:questSkills:" + questID }
func goalSkillsKey(goalID string) string       { return "idx:goalSkills:" + goalID }
func userSkillsKey(userID string) string       { return "idx:userSkills:" + userID }
func weekDrillsKey(weekPlanID string) string   { return "idx:weekDrills:" + weekPlanID }
func drillByDateKey(goalID, date string) string {
	return fmt.Sprintf("idx:drillByDate:%s:%s", goalID, date)
}
func userActiveDrillKey(userID string) string { return "idx:userActiveDrill:" + userID }

const reminderScheduleKey = "idx:reminderSchedule"
