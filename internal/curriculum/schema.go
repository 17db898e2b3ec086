package curriculum

import "encoding/json"

// rawCurriculum mirrors the JSON shape the LLM is instructed to emit,
// before any validation or resource resolution.
type rawCurriculum struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Difficulty  string  `json:"difficulty"`
	Progression string  `json:"progression"`
	Days        []rawDay `json:"days"`
}

type rawDay struct {
	Day              int           `json:"day"`
	Theme            string        `json:"theme"`
	Objectives       []string      `json:"objectives"`
	Resources        []rawResource `json:"resources"`
	Exercises        []rawExercise `json:"exercises"`
	TotalMinutes     int           `json:"totalMinutes"`
	Difficulty       string        `json:"difficulty"`
	PrerequisiteDays []int         `json:"prerequisiteDays,omitempty"`
}

type rawResource struct {
	Index    int    `json:"index"`
	Minutes  int    `json:"minutes"`
	Optional bool   `json:"optional,omitempty"`
	Focus    string `json:"focus,omitempty"`
}

type rawExercise struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Minutes     int    `json:"minutes"`
	Optional    bool   `json:"optional,omitempty"`
}

// parseRaw unmarshals extracted JSON text into a rawCurriculum. A JSON
// syntax or shape error here is a retryable schema failure, not a hard
// terminal one.
func parseRaw(jsonText string) (*rawCurriculum, error) {
	var rc rawCurriculum
	if err := json.Unmarshal([]byte(jsonText), &rc); err != nil {
		return nil, err
	}
	return &rc, nil
}
