package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"food-spot-backend/internal/domain/model"
	"food-spot-backend/internal/domain/ports/repository"
	"food-spot-backend/internal/usecase"

	"github.com/go-chi/chi/v5"
)

type foodSpotRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Location      string `json:"location"`
	Category      string `json:"category"`
	MinPrice      int64  `json:"minPrice"`
	MaxPrice      int64  `json:"maxPrice"`
	ImageURL      string `json:"imageUrl"`
	IsPremiumOnly bool   `json:"isPremiumOnly"`
}

func (req foodSpotRequest) toInput() usecase.FoodSpotInput {
	return usecase.FoodSpotInput{
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		Category:      req.Category,
		MinPrice:      req.MinPrice,
		MaxPrice:      req.MaxPrice,
		ImageURL:      req.ImageURL,
		IsPremiumOnly: req.IsPremiumOnly,
	}
}

func (s *Server) handleFoodSpotList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	minPrice, _ := strconv.ParseInt(q.Get("minPrice"), 10, 64)
	maxPrice, _ := strconv.ParseInt(q.Get("maxPrice"), 10, 64)
	filter := repository.FoodSpotFilter{
		SearchTerm: q.Get("search"),
		Category:   q.Get("category"),
		Location:   q.Get("location"),
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
	}

	spots, meta, err := s.spotUC.List(r.Context(), currentUser(r), filter, pageRequest(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	data := make([]foodSpotListedPayload, 0, len(spots))
	for _, sp := range spots {
		data = append(data, toFoodSpotListedPayload(sp))
	}
	writeJSON(w, http.StatusOK, listResponse{Data: data, Meta: meta})
}

func (s *Server) handleFoodSpotGet(w http.ResponseWriter, r *http.Request) {
	detail, err := s.spotUC.Get(r.Context(), chi.URLParam(r, "id"), currentUser(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFoodSpotDetailPayload(detail))
}

func (s *Server) handleFoodSpotSubmit(w http.ResponseWriter, r *http.Request) {
	var req foodSpotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	spot, err := s.spotUC.Submit(r.Context(), currentUser(r).ID, req.toInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFoodSpotPayload(spot))
}

func (s *Server) handleFoodSpotUpdate(w http.ResponseWriter, r *http.Request) {
	var req foodSpotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	spot, err := s.spotUC.Update(r.Context(), currentUser(r), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFoodSpotPayload(spot))
}

func (s *Server) handleFoodSpotDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.spotUC.Delete(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFoodSpotPending(w http.ResponseWriter, r *http.Request) {
	spots, meta, err := s.spotUC.ListPending(r.Context(), pageRequest(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	data := make([]foodSpotPayload, 0, len(spots))
	for _, sp := range spots {
		data = append(data, toFoodSpotPayload(sp))
	}
	writeJSON(w, http.StatusOK, listResponse{Data: data, Meta: meta})
}

type approvalRequest struct {
	Status       string `json:"status"`
	AdminComment string `json:"adminComment"`
}

func (s *Server) handleFoodSpotApproval(w http.ResponseWriter, r *http.Request) {
	var req approvalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	status := model.ApprovalStatus(req.Status)
	if status != model.ApprovalStatusApproved && status != model.ApprovalStatusRejected {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "status must be APPROVED or REJECTED"})
		return
	}
	spot, err := s.spotUC.SetApproval(r.Context(), chi.URLParam(r, "id"), status, req.AdminComment)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFoodSpotPayload(spot))
}
