package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/twinhire/server/pkg/models"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("write json response", "err", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain sentinel errors onto HTTP statuses; anything
// unrecognized is a 500 with a generic message.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrCandidateNotFound), errors.Is(err, models.ErrSessionNotFound):
		writeJSON(w, errorResponse{Error: err.Error()}, http.StatusNotFound)
	case errors.Is(err, models.ErrInvalidPayload):
		writeJSON(w, errorResponse{Error: err.Error()}, http.StatusBadRequest)
	case errors.Is(err, models.ErrAlreadyFinalized):
		writeJSON(w, errorResponse{Error: err.Error()}, http.StatusConflict)
	case errors.Is(err, models.ErrDuplicateSkill):
		writeJSON(w, errorResponse{Error: err.Error()}, http.StatusConflict)
	default:
		logger.Error("request failed", "err", err)
		writeJSON(w, errorResponse{Error: "internal server error"}, http.StatusInternalServerError)
	}
}
