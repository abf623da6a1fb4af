package web

import (
	"encoding/json"
	"net/http"

	"food-spot-backend/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (s *Server) handleReviewCreate(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	review, err := s.reviewUC.Create(r.Context(), currentUser(r).ID, chi.URLParam(r, "id"), req.Rating, req.Comment)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReviewPayload(review))
}

func (s *Server) handleReviewList(w http.ResponseWriter, r *http.Request) {
	reviews, meta, err := s.reviewUC.ListForSpot(r.Context(), chi.URLParam(r, "id"), pageRequest(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: toReviewPayloads(reviews), Meta: meta})
}

func (s *Server) handleReviewUpdate(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	review, err := s.reviewUC.Update(r.Context(), currentUser(r), chi.URLParam(r, "id"), req.Rating, req.Comment)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReviewPayload(review))
}

func (s *Server) handleReviewDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.reviewUC.Delete(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type voteRequest struct {
	Type string `json:"type"`
}

func (s *Server) handleVoteCast(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	tally, err := s.voteUC.Cast(r.Context(), currentUser(r).ID, chi.URLParam(r, "id"), model.VoteType(req.Type))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTallyPayload(tally))
}

func (s *Server) handleVoteRetract(w http.ResponseWriter, r *http.Request) {
	tally, err := s.voteUC.Retract(r.Context(), currentUser(r).ID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTallyPayload(tally))
}

func (s *Server) handleVoteTally(w http.ResponseWriter, r *http.Request) {
	tally, err := s.voteUC.Tally(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTallyPayload(tally))
}
