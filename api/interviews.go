package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/twinhire/server/internal/interview"
	"github.com/twinhire/server/pkg/models"
	"github.com/twinhire/server/pkg/repository"
)

type InterviewsHandler struct {
	sessions   repository.SessionRepo
	candidates repository.CandidateRepo
	processor  *interview.Processor
}

func NewInterviewsHandler(sessions repository.SessionRepo, candidates repository.CandidateRepo, processor *interview.Processor) *InterviewsHandler {
	return &InterviewsHandler{sessions: sessions, candidates: candidates, processor: processor}
}

type createSessionRequest struct {
	CandidateID    string  `json:"candidate_id"`
	ExperienceID   *string `json:"experience_id,omitempty"`
	Category       string  `json:"category"`
	JobTitle       string  `json:"job_title,omitempty"`
	Organization   string  `json:"organization,omitempty"`
	StatedDuration string  `json:"stated_duration,omitempty"`
}

type createSessionResponse struct {
	ID string `json:"id"`
}

func (h *InterviewsHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.CandidateID == "" {
		http.Error(w, "candidate_id is required", http.StatusBadRequest)
		return
	}

	switch models.InterviewCategory(req.Category) {
	case models.CategoryJobExperience, models.CategoryWorkStyle, models.CategoryGeneral:
	case "":
		req.Category = string(models.CategoryGeneral)
	default:
		http.Error(w, "unknown category", http.StatusBadRequest)
		return
	}

	cand, err := h.candidates.GetCandidate(r.Context(), req.CandidateID)
	if err != nil {
		writeError(w, err)
		return
	}
	if cand == nil {
		writeError(w, models.ErrCandidateNotFound)
		return
	}

	s := &models.InterviewSession{
		CandidateID:    req.CandidateID,
		ExperienceID:   req.ExperienceID,
		Category:       models.InterviewCategory(req.Category),
		JobTitle:       req.JobTitle,
		Organization:   req.Organization,
		StatedDuration: req.StatedDuration,
		StartedAt:      time.Now().UTC().UnixMilli(),
	}
	id, err := h.sessions.CreateSession(r.Context(), s)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, createSessionResponse{ID: id}, http.StatusCreated)
}

func (h *InterviewsHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s, err := h.sessions.GetSession(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if s == nil {
		writeError(w, models.ErrSessionNotFound)
		return
	}

	writeJSON(w, s, http.StatusOK)
}

// Complete finalizes a session. Enrichment failures degrade the payload but
// the call succeeds whenever the session exists and has not been completed
// before.
func (h *InterviewsHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var payload interview.CompletionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	result, err := h.processor.Complete(r.Context(), id, &payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, result, http.StatusOK)
}
