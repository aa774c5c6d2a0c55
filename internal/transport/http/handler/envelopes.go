package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/people-registry-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AuthEnvelope wraps login/refresh responses.
type AuthEnvelope struct {
	AccessToken  string         `json:"accessToken,omitempty"`
	RefreshToken string         `json:"refreshToken,omitempty"`
	ExpiresIn    int            `json:"expiresIn,omitempty"`
	Person       *domain.Person `json:"person,omitempty"`
	Error        string         `json:"error,omitempty"`
}

// PaginatedPeopleEnvelope wraps cursor-paginated people list responses.
type PaginatedPeopleEnvelope struct {
	Data       []domain.Person `json:"data"`
	NextCursor string          `json:"nextCursor,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// StatsEnvelope wraps the admin stats endpoint.
type StatsEnvelope struct {
	TotalPeople   int `json:"totalPeople"`
	TotalProjects int `json:"totalProjects"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinel errors to HTTP status codes.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrLocked):
		writeError(w, http.StatusLocked, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
