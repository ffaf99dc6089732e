package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/twinhire/server/internal/profile"
	"github.com/twinhire/server/internal/resume"
	"github.com/twinhire/server/pkg/models"
	"github.com/twinhire/server/pkg/repository"
)

type CandidatesHandler struct {
	candidates repository.CandidateRepo
	aggregator *profile.Service
	ingest     *resume.Service
}

func NewCandidatesHandler(candidates repository.CandidateRepo, aggregator *profile.Service, ingest *resume.Service) *CandidatesHandler {
	return &CandidatesHandler{candidates: candidates, aggregator: aggregator, ingest: ingest}
}

type createCandidateRequest struct {
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Location       string `json:"location,omitempty"`
	Country        string `json:"country,omitempty"`
	JobTitle       string `json:"job_title,omitempty"`
	CurrentCompany string `json:"current_company,omitempty"`
}

type createCandidateResponse struct {
	ID string `json:"id"`
}

func (h *CandidatesHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req createCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	if req.FullName == "" || req.Email == "" || !strings.Contains(req.Email, "@") {
		http.Error(w, "missing fields", http.StatusBadRequest)
		return
	}

	c := &models.Candidate{
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		Location:       req.Location,
		Country:        req.Country,
		JobTitle:       req.JobTitle,
		CurrentCompany: req.CurrentCompany,
	}
	id, err := h.candidates.CreateCandidate(r.Context(), c)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, createCandidateResponse{ID: id}, http.StatusCreated)
}

// GetProfile returns the consolidated view built fresh from the store.
func (h *CandidatesHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	view, err := h.aggregator.Aggregate(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, view, http.StatusOK)
}

// GetFacts answers a free-text query about the candidate; this is what the
// voice agent calls mid-conversation.
func (h *CandidatesHandler) GetFacts(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	query := r.URL.Query().Get("query")
	if strings.TrimSpace(query) == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	view, err := h.aggregator.Aggregate(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, profile.Facts(view, query), http.StatusOK)
}

// ApplyResume stores the output of the external resume parser for the
// candidate, replacing any prior parsed rows.
func (h *CandidatesHandler) ApplyResume(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var parsed resume.ParsedResume
	if err := json.NewDecoder(r.Body).Decode(&parsed); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	rec, err := h.ingest.Apply(r.Context(), id, &parsed)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, rec, http.StatusCreated)
}
