package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dailyspark/practiceengine/internal/domain"
	"github.com/dailyspark/practiceengine/internal/engine"
	"github.com/dailyspark/practiceengine/internal/errs"
)

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errs.New(errs.KindValidation, "request body required")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.Wrap(errs.KindValidation, err, "invalid json body")
	}
	return nil
}

type createGoalRequest struct {
	OwnerUserID string `json:"ownerUserId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Timezone    string `json:"timezone"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	g, err := s.engine.CreateGoal(r.Context(), engine.CreateGoalParams{
		OwnerUserID: req.OwnerUserID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Timezone:    req.Timezone,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

type questInput struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

type onGoalCreatedRequest struct {
	Goal   *domain.Goal `json:"goal"`
	Quests []questInput `json:"quests"`
}

func (s *Server) handleOnGoalCreated(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("goalId")
	var req onGoalCreatedRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Goal == nil {
		req.Goal = &domain.Goal{ID: goalID}
	} else {
		req.Goal.ID = goalID
	}
	quests := make([]*domain.Quest, len(req.Quests))
	for i, q := range req.Quests {
		quests[i] = &domain.Quest{ID: q.ID, Title: q.Title, Description: q.Description, Order: q.Order}
	}
	if err := s.engine.OnGoalCreated(r.Context(), req.Goal, quests); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

func (s *Server) handleGetPathProgress(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("goalId")
	progress, err := s.engine.GetPathProgress(r.Context(), goalID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

type setPriorityRequest struct {
	Priority int `json:"priority"`
}

func (s *Server) handleSetGoalPriority(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("goalId")
	var req setPriorityRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	g, err := s.engine.SetGoalPriority(r.Context(), goalID, req.Priority)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

type pauseGoalRequest struct {
	Until string `json:"until,omitempty"`
}

func (s *Server) handlePauseGoal(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("goalId")
	var req pauseGoalRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, err)
			return
		}
	}
	g, err := s.engine.PauseGoal(r.Context(), goalID, req.Until)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleResumeGoal(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("goalId")
	g, err := s.engine.ResumeGoal(r.Context(), goalID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleGetTodayForUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	result, err := s.engine.GetTodayForUser(r.Context(), userID, time.Now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type markSparkCompleteRequest struct {
	ActualMinutes *int `json:"actualMinutes,omitempty"`
}

func (s *Server) handleMarkSparkComplete(w http.ResponseWriter, r *http.Request) {
	sparkID := r.PathValue("sparkId")
	var req markSparkCompleteRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, err)
			return
		}
	}
	sp, err := s.engine.MarkSparkComplete(r.Context(), sparkID, req.ActualMinutes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sp)
}

type skipSparkRequest struct {
	Reason string `json:"reason,omitempty"`
}

func (s *Server) handleSkipSpark(w http.ResponseWriter, r *http.Request) {
	sparkID := r.PathValue("sparkId")
	var req skipSparkRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, err)
			return
		}
	}
	sp, err := s.engine.SkipSpark(r.Context(), sparkID, req.Reason)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sp)
}

type recordDrillOutcomeRequest struct {
	Outcome     domain.Outcome `json:"outcome"`
	Observation string         `json:"observation,omitempty"`
}

func (s *Server) handleRecordDrillOutcome(w http.ResponseWriter, r *http.Request) {
	drillID := r.PathValue("drillId")
	var req recordDrillOutcomeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	d, err := s.engine.RecordDrillOutcome(r.Context(), drillID, req.Outcome, req.Observation)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type rateDifficultyRequest struct {
	Rating float64 `json:"rating"`
}

func (s *Server) handleRateDifficulty(w http.ResponseWriter, r *http.Request) {
	skillID := r.PathValue("skillId")
	var req rateDifficultyRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.engine.RateDifficulty(r.Context(), skillID, req.Rating); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
