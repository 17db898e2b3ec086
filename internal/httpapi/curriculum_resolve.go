package httpapi

import (
	"net/http"

	"github.com/dailyspark/practiceengine/internal/curriculum"
	"github.com/dailyspark/practiceengine/internal/errs"
	"github.com/dailyspark/practiceengine/internal/resolver"
)

type generateCurriculumRequest struct {
	Goal      curriculum.GoalInput      `json:"goal"`
	Resources []curriculum.InputResource `json:"resources"`
	UserID    string                     `json:"userId"`
}

func (s *Server) handleGenerateCurriculum(w http.ResponseWriter, r *http.Request) {
	if s.structurer == nil {
		s.writeError(w, errs.New(errs.KindValidation, "curriculum structurer not configured"))
		return
	}
	var req generateCurriculumRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	result, err := s.structurer.Generate(r.Context(), req.Goal, req.Resources, req.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type resolveEntitiesRequest struct {
	Query  string                 `json:"query"`
	Inputs []resolver.TaggedInput `json:"inputs"`
}

func (s *Server) handleResolveEntities(w http.ResponseWriter, r *http.Request) {
	if s.resolver == nil {
		s.writeError(w, errs.New(errs.KindValidation, "entity resolver not configured"))
		return
	}
	var req resolveEntitiesRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	result := s.resolver.ResolveEntities(req.Query, req.Inputs)
	writeJSON(w, http.StatusOK, result)
}
