package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mrcaqui/fit-proof-sub000/internal/domain"
)

const dateParam = "2006-01-02"

// ─── Health ─────────────────────────────────────────────────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]interface{}{"status": "ok"}
	if s.health != nil {
		checks := s.health.Statuses()
		body["checks"] = checks
		if !s.health.IsHealthy() {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
		}
	}
	writeJSON(w, status, body)
}

// ─── Profile reads ──────────────────────────────────────────────────────────

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.Profile(chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	sum, err := s.profiles.Summary(chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum.Streak)
}

func (s *Server) handleWeeks(w http.ResponseWriter, r *http.Request) {
	sum, err := s.profiles.Summary(chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"perfect_weeks": sum.Profile.PerfectWeeks,
		"shield_stock":  sum.Profile.ShieldStock,
		"shields_used":  sum.Profile.ShieldsUsed,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.profiles.Summary(chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.profiles.Submissions(chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"submissions": subs})
}

// ─── Submission writes ──────────────────────────────────────────────────────

type submissionRequest struct {
	TargetDate string `json:"target_date"`
	Kind       string `json:"kind"`
	Reps       int    `json:"reps"`
}

func (s *Server) handleApproveSubmission(w http.ResponseWriter, r *http.Request) {
	var req submissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	target, err := time.Parse(dateParam, req.TargetDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "target_date must be YYYY-MM-DD")
		return
	}
	kind := domain.Kind(req.Kind)
	if kind == "" {
		kind = domain.KindVideo
	}

	sub, err := s.profiles.ApproveSubmission(chi.URLParam(r, "userID"), target, kind, req.Reps)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (s *Server) handleRemoveSubmission(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := time.Parse(dateParam, date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	kind := domain.Kind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = domain.KindVideo
	}

	err := s.profiles.RemoveSubmission(chi.URLParam(r, "userID"), date, kind)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": date})
}

// ─── Shields ────────────────────────────────────────────────────────────────

type shieldRequest struct {
	TargetDate string `json:"target_date"`
}

func (s *Server) handleApplyShield(w http.ResponseWriter, r *http.Request) {
	var req shieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	target, err := time.Parse(dateParam, req.TargetDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "target_date must be YYYY-MM-DD")
		return
	}

	if err := s.profiles.ApplyShield(chi.URLParam(r, "userID"), target); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"protected": req.TargetDate})
}

func (s *Server) handleRemoveShield(w http.ResponseWriter, r *http.Request) {
	target, err := time.Parse(dateParam, chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	if err := s.profiles.RemoveShield(chi.URLParam(r, "userID"), target); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"refunded": chi.URLParam(r, "date")})
}

// ─── Recompute ──────────────────────────────────────────────────────────────

func (s *Server) handleRecompute(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.Recompute(chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleRecomputeAll(w http.ResponseWriter, r *http.Request) {
	if err := s.profiles.RecomputeAll("api"); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "recomputed"})
}

// ─── Rules ──────────────────────────────────────────────────────────────────

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.profiles.Rules()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rules": rules})
}

func (s *Server) handleSaveRule(w http.ResponseWriter, r *http.Request) {
	var rule domain.Rule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.profiles.SaveRule(rule); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	if err := s.profiles.DeleteRule(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": chi.URLParam(r, "id")})
}

// ─── Groups ─────────────────────────────────────────────────────────────────

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.profiles.Groups()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"groups": groups})
}

func (s *Server) handleSaveGroup(w http.ResponseWriter, r *http.Request) {
	var g domain.GroupConfig
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.profiles.SaveGroup(g); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := s.profiles.DeleteGroup(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": chi.URLParam(r, "id")})
}

// ─── Settings ───────────────────────────────────────────────────────────────

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.profiles.Settings()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.profiles.SaveSettings(settings); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// ─── Error mapping ──────────────────────────────────────────────────────────

// writeDomainError translates sentinel errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSubmissionNotFound),
		errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrShieldNotFound),
		errors.Is(err, domain.ErrRuleNotFound),
		errors.Is(err, domain.ErrGroupNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrSubmissionExists),
		errors.Is(err, domain.ErrShieldExists),
		errors.Is(err, domain.ErrShieldOnSuccess),
		errors.Is(err, domain.ErrNoShieldStock):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidGroupConfig),
		errors.Is(err, domain.ErrGroupOverlap),
		errors.Is(err, domain.ErrGroupRestOverlap),
		errors.Is(err, domain.ErrUnsupportedCondition):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
