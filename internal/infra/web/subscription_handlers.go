package web

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"food-spot-backend/internal/domain/model"
	"food-spot-backend/internal/domain/ports/repository"
	"food-spot-backend/internal/infra/logging"
	infraredis "food-spot-backend/internal/infra/redis"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handlePlansList(w http.ResponseWriter, r *http.Request) {
	plans := s.subUC.Plans(r.Context())
	data := make([]planPayload, 0, len(plans))
	for _, p := range plans {
		data = append(data, toPlanPayload(p))
	}
	writeJSON(w, http.StatusOK, struct {
		Data []planPayload `json:"data"`
	}{Data: data})
}

func (s *Server) handlePlanGet(w http.ResponseWriter, r *http.Request) {
	plan, err := s.subUC.PlanByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanPayload(*plan))
}

type initiateRequest struct {
	PlanID string `json:"planId"`
}

type initiateResponse struct {
	Payment     paymentPayload `json:"payment"`
	RedirectURL string         `json:"redirectUrl"`
}

func (s *Server) handleSubscriptionInitiate(w http.ResponseWriter, r *http.Request) {
	var req initiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	payment, redirectURL, err := s.subUC.Initiate(r.Context(), currentUser(r).ID, req.PlanID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, initiateResponse{
		Payment:     toPaymentPayload(payment),
		RedirectURL: redirectURL,
	})
}

func (s *Server) handleMyPayments(w http.ResponseWriter, r *http.Request) {
	filter := repository.PaymentFilter{
		Status: model.PaymentStatus(r.URL.Query().Get("status")),
	}
	payments, meta, err := s.paymentUC.ListForUser(r.Context(), currentUser(r).ID, filter, pageRequest(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: toPaymentPayloads(payments), Meta: meta})
}

func (s *Server) handlePaymentGet(w http.ResponseWriter, r *http.Request) {
	payment, err := s.paymentUC.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentPayload(payment))
}

// handleSubscriptionSweep runs the expiry sweep on demand so an operator
// doesn't have to wait for the next scheduled pass.
func (s *Server) handleSubscriptionSweep(w http.ResponseWriter, r *http.Request) {
	revoked, err := s.subUC.SweepExpired(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Revoked int `json:"revoked"`
	}{Revoked: revoked})
}

func (s *Server) handlePaymentList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.PaymentFilter{
		UserID:     q.Get("userId"),
		Status:     model.PaymentStatus(q.Get("status")),
		SearchTerm: q.Get("search"),
	}
	payments, meta, err := s.paymentUC.ListAll(r.Context(), filter, pageRequest(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: toPaymentPayloads(payments), Meta: meta})
}

// callbackRateKey throttles per transaction so a replayed callback can't
// hammer the validator.
func callbackRateKey(r *http.Request) string {
	return infraredis.CallbackKey(r.PostFormValue("tran_id"))
}

// redirectToResult sends the buyer's browser back to the frontend result page.
func (s *Server) redirectToResult(w http.ResponseWriter, r *http.Request, status, transactionID string) {
	q := url.Values{}
	q.Set("status", status)
	if transactionID != "" {
		q.Set("transactionId", transactionID)
	}
	http.Redirect(w, r, strings.TrimSuffix(s.frontendURL, "/")+"/payment/result?"+q.Encode(), http.StatusSeeOther)
}

// handleCallbackSuccess receives the browser form-post after a completed
// checkout. The redirect alone proves nothing: the transaction is settled
// through the same verification path the IPN uses.
func (s *Server) handleCallbackSuccess(w http.ResponseWriter, r *http.Request) {
	tranID := r.PostFormValue("tran_id")
	valID := r.PostFormValue("val_id")
	if tranID == "" {
		s.redirectToResult(w, r, "error", "")
		return
	}

	payment, err := s.subUC.Verify(r.Context(), tranID, valID)
	if err != nil {
		logging.With(r.Context(), s.log).Warn().Err(err).Str("transaction_id", tranID).Msg("success callback verification failed")
		s.redirectToResult(w, r, "pending", tranID)
		return
	}
	if payment.Status == model.PaymentStatusSuccess {
		s.redirectToResult(w, r, "success", tranID)
		return
	}
	s.redirectToResult(w, r, strings.ToLower(string(payment.Status)), tranID)
}

func (s *Server) handleCallbackFail(w http.ResponseWriter, r *http.Request) {
	tranID := r.PostFormValue("tran_id")
	if tranID == "" {
		s.redirectToResult(w, r, "error", "")
		return
	}
	if _, err := s.subUC.Fail(r.Context(), tranID); err != nil {
		logging.With(r.Context(), s.log).Warn().Err(err).Str("transaction_id", tranID).Msg("fail callback error")
	}
	s.redirectToResult(w, r, "failed", tranID)
}

func (s *Server) handleCallbackCancel(w http.ResponseWriter, r *http.Request) {
	tranID := r.PostFormValue("tran_id")
	if tranID == "" {
		s.redirectToResult(w, r, "error", "")
		return
	}
	if _, err := s.subUC.Cancel(r.Context(), tranID); err != nil {
		logging.With(r.Context(), s.log).Warn().Err(err).Str("transaction_id", tranID).Msg("cancel callback error")
	}
	s.redirectToResult(w, r, "cancelled", tranID)
}

// handleIPN is the server-to-server notification. It always answers 200 so
// the gateway stops retrying; the reconciler covers anything left unsettled.
func (s *Server) handleIPN(w http.ResponseWriter, r *http.Request) {
	tranID := r.PostFormValue("tran_id")
	if tranID == "" {
		w.WriteHeader(http.StatusOK)
		return
	}

	status := strings.ToUpper(r.PostFormValue("status"))
	valID := r.PostFormValue("val_id")
	log := logging.With(r.Context(), s.log)

	switch {
	case valID != "":
		if _, err := s.subUC.Verify(r.Context(), tranID, valID); err != nil {
			log.Warn().Err(err).Str("transaction_id", tranID).Msg("IPN verification failed")
		}
	case status == "FAILED":
		if _, err := s.subUC.Fail(r.Context(), tranID); err != nil {
			log.Warn().Err(err).Str("transaction_id", tranID).Msg("IPN fail handling error")
		}
	case status == "CANCELLED":
		if _, err := s.subUC.Cancel(r.Context(), tranID); err != nil {
			log.Warn().Err(err).Str("transaction_id", tranID).Msg("IPN cancel handling error")
		}
	default:
		log.Warn().Str("transaction_id", tranID).Str("status", status).Msg("IPN without validation token ignored")
	}
	w.WriteHeader(http.StatusOK)
}
