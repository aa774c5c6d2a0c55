package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/people-registry-api/internal/application/subscription"
	"github.com/people-registry-api/internal/domain"
	"github.com/people-registry-api/internal/pkg/validate"
	"github.com/people-registry-api/internal/transport/http/middleware"
)

// SubscriptionHandler handles subscription endpoints.
type SubscriptionHandler struct {
	svc subscription.Service
}

func NewSubscriptionHandler(svc subscription.Service) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PersonID == "" {
		req.PersonID = claims.PersonID
	}
	if req.PersonID != claims.PersonID && !claims.IsAdmin {
		writeError(w, http.StatusForbidden, "cannot subscribe another person")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sub, err := h.svc.Subscribe(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sub, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok || (sub.PersonID != claims.PersonID && !claims.IsAdmin) {
		writeError(w, http.StatusForbidden, "cannot view another person's subscription")
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// ListByPerson serves /people/{id}/subscriptions.
func (h *SubscriptionHandler) ListByPerson(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	personID := chi.URLParam(r, "id")
	if personID != claims.PersonID && !claims.IsAdmin {
		writeError(w, http.StatusForbidden, "cannot view another person's subscriptions")
		return
	}
	subs, err := h.svc.ListByPerson(r.Context(), personID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// ListByProject serves /projects/{id}/subscriptions (admin only, routed).
func (h *SubscriptionHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.ListByProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *SubscriptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sub, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// Cancel soft-deletes the caller's own subscription.
func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	subID := chi.URLParam(r, "id")
	existing, err := h.svc.Get(r.Context(), subID)
	if err != nil {
		httpError(w, err)
		return
	}
	if existing.PersonID != claims.PersonID && !claims.IsAdmin {
		writeError(w, http.StatusForbidden, "cannot cancel another person's subscription")
		return
	}
	sub, err := h.svc.Cancel(r.Context(), subID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *SubscriptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "subscription deleted"})
}
