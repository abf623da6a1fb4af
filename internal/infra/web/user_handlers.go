package web

import (
	"encoding/json"
	"net/http"

	"food-spot-backend/internal/domain/model"
	"food-spot-backend/internal/domain/ports/repository"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleUserList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.UserFilter{
		SearchTerm: q.Get("search"),
		Role:       model.UserRole(q.Get("role")),
	}
	if v := q.Get("isPremium"); v != "" {
		b := v == "true"
		filter.IsPremium = &b
	}
	if v := q.Get("isBlocked"); v != "" {
		b := v == "true"
		filter.IsBlocked = &b
	}

	users, meta, err := s.userUC.List(r.Context(), filter, pageRequest(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: toUserPayloads(users), Meta: meta})
}

func (s *Server) handleUserGet(w http.ResponseWriter, r *http.Request) {
	user, err := s.userUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserPayload(user))
}

type userUpdateRequest struct {
	Name      *string `json:"name"`
	Role      *string `json:"role"`
	IsBlocked *bool   `json:"isBlocked"`
}

func (s *Server) handleUserUpdate(w http.ResponseWriter, r *http.Request) {
	var req userUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	var role *model.UserRole
	if req.Role != nil {
		v := model.UserRole(*req.Role)
		role = &v
	}
	user, err := s.userUC.Update(r.Context(), chi.URLParam(r, "id"), req.Name, role, req.IsBlocked)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserPayload(user))
}

type setPremiumRequest struct {
	IsPremium    bool `json:"isPremium"`
	DurationDays int  `json:"durationDays"`
}

func (s *Server) handleUserSetPremium(w http.ResponseWriter, r *http.Request) {
	var req setPremiumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := s.userUC.SetPremium(r.Context(), chi.URLParam(r, "id"), req.IsPremium, req.DurationDays)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserPayload(user))
}
