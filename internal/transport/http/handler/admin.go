package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/people-registry-api/internal/domain"
)

type personCounter interface {
	Count(ctx context.Context) (int, error)
}

type projectLister interface {
	List(ctx context.Context) ([]domain.Project, error)
}

type auditLister interface {
	ListByPerson(ctx context.Context, personID string, limit int32) ([]domain.AuditEvent, error)
}

// AdminHandler serves the admin stats and audit endpoints.
type AdminHandler struct {
	people   personCounter
	projects projectLister
	audits   auditLister
}

func NewAdminHandler(people personCounter, projects projectLister, audits auditLister) *AdminHandler {
	return &AdminHandler{people: people, projects: projects, audits: audits}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	totalPeople, err := h.people.Count(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	projects, err := h.projects.List(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatsEnvelope{
		TotalPeople:   totalPeople,
		TotalProjects: len(projects),
	})
}

// AuditTrail returns a person's security events, most recent first.
func (h *AdminHandler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 100
	}
	events, err := h.audits.ListByPerson(r.Context(), chi.URLParam(r, "id"), int32(limit))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
