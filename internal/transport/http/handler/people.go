package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/people-registry-api/internal/application/person"
	"github.com/people-registry-api/internal/domain"
	"github.com/people-registry-api/internal/pkg/validate"
	"github.com/people-registry-api/internal/transport/http/middleware"
)

// PersonHandler handles people CRUD endpoints.
type PersonHandler struct {
	svc person.Service
}

func NewPersonHandler(svc person.Service) *PersonHandler { return &PersonHandler{svc: svc} }

func (h *PersonHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// Self-registration never grants admin; that flag is set by an existing
	// admin through the update endpoint.
	req.IsAdmin = false
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.svc.Create(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PersonHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	cursor := r.URL.Query().Get("cursor")
	people, next, err := h.svc.List(r.Context(), limit, cursor)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PaginatedPeopleEnvelope{Data: people, NextCursor: next})
}

func (h *PersonHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	targetID := chi.URLParam(r, "id")
	if claims.PersonID != targetID && !claims.IsAdmin {
		writeError(w, http.StatusForbidden, "cannot view another person")
		return
	}
	p, err := h.svc.Get(r.Context(), targetID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PersonHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	targetID := chi.URLParam(r, "id")
	if claims.PersonID != targetID && !claims.IsAdmin {
		writeError(w, http.StatusForbidden, "cannot update another person")
		return
	}
	var req domain.UpdatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !claims.IsAdmin {
		// Privilege and account-state flags are admin-only.
		req.IsAdmin = nil
		req.IsActive = nil
		req.RequirePasswordChange = nil
	}
	p, err := h.svc.Update(r.Context(), targetID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PersonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), claims.PersonID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "person deleted"})
}
