package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lazypower/keepsharp/internal/model"
)

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	if queryBool(r, "archived") {
		skills, err := s.engine.ArchivedSkills(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, skills)
		return
	}

	skills, err := s.engine.SkillsWithHealth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, skills)
}

func (s *Server) handleCreateSkill(w http.ResponseWriter, r *http.Request) {
	var req model.SkillInput
	if !decodeJSON(w, r, &req) {
		return
	}

	skill, err := s.engine.CreateSkill(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, skill)
}

func (s *Server) handleGetSkill(w http.ResponseWriter, r *http.Request) {
	detail, err := s.engine.Skill(r.Context(), chi.URLParam(r, "skillID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleUpdateSkill(w http.ResponseWriter, r *http.Request) {
	var patch model.SkillPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	skill, err := s.engine.UpdateSkill(r.Context(), chi.URLParam(r, "skillID"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, skill)
}

func (s *Server) handleDeleteSkill(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.DeleteSkill(r.Context(), chi.URLParam(r, "skillID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleLogPractice(w http.ResponseWriter, r *http.Request) {
	var req model.LogInput
	if !decodeJSON(w, r, &req) {
		return
	}

	l, err := s.engine.LogPractice(r.Context(), chi.URLParam(r, "skillID"), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit", 0)
	if !ok || limit < 0 {
		badRequest(w, "limit must be a non-negative integer")
		return
	}

	logs, err := s.engine.Logs(r.Context(), r.URL.Query().Get("skill_id"), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.DeleteLog(r.Context(), chi.URLParam(r, "logID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
