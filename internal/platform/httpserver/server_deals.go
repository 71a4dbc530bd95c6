package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	dealerrors "adbroker/contexts/deal-brokerage/deal-service/domain/errors"
	dealhttp "adbroker/contexts/deal-brokerage/deal-service/transport/http"
)

func (s *Server) handleCreateDeal(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req dealhttp.CreateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDealError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}

	resp, err := s.deals.Handler.CreateDealHandler(r.Context(), userID, req)
	if err != nil {
		writeDealDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetDeal(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	resp, err := s.deals.Handler.GetDealHandler(r.Context(), userID, r.PathValue("deal_id"))
	if err != nil {
		writeDealDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListMyDeals(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	resp, err := s.deals.Handler.ListMyDealsHandler(r.Context(), userID)
	if err != nil {
		writeDealDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListCreatives(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	resp, err := s.deals.Handler.ListCreativesHandler(r.Context(), userID, r.PathValue("deal_id"))
	if err != nil {
		writeDealDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAcceptDeal(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	resp, err := s.deals.Handler.AcceptDealHandler(r.Context(), userID, r.PathValue("deal_id"))
	if err != nil {
		writeDealDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRejectDeal(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req dealhttp.RejectDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDealError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}

	resp, err := s.deals.Handler.RejectDealHandler(r.Context(), userID, r.PathValue("deal_id"), req)
	if err != nil {
		writeDealDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	resp, err := s.deals.Handler.MarkPaidHandler(r.Context(), userID, r.PathValue("deal_id"))
	if err != nil {
		writeDealDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitDraft(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req dealhttp.SubmitDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDealError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}

	resp, err := s.deals.Handler.SubmitDraftHandler(r.Context(), userID, r.PathValue("deal_id"), req)
	if err != nil {
		writeDealDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewDraft(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req dealhttp.ReviewDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDealError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}

	resp, err := s.deals.Handler.ReviewDraftHandler(r.Context(), userID, r.PathValue("deal_id"), req)
	if err != nil {
		writeDealDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVerifyPost(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	resp, err := s.deals.Handler.VerifyPostHandler(r.Context(), userID, r.PathValue("deal_id"))
	if err != nil {
		writeDealDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeDealError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required", nil)
		return "", false
	}
	return userID, true
}

func writeDealDomainError(w http.ResponseWriter, err error) {
	var transitionErr *dealerrors.TransitionError
	if errors.As(err, &transitionErr) {
		allowed := make([]string, 0, len(transitionErr.Allowed))
		for _, action := range transitionErr.Allowed {
			allowed = append(allowed, string(action))
		}
		writeDealError(w, http.StatusConflict, "invalid_transition", transitionErr.Error(), allowed)
		return
	}

	switch {
	case errors.Is(err, dealerrors.ErrDealNotFound):
		writeDealError(w, http.StatusNotFound, "deal_not_found", err.Error(), nil)
	case errors.Is(err, dealerrors.ErrChannelNotFound):
		writeDealError(w, http.StatusNotFound, "channel_not_found", err.Error(), nil)
	case errors.Is(err, dealerrors.ErrAdFormatNotFound):
		writeDealError(w, http.StatusNotFound, "ad_format_not_found", err.Error(), nil)
	case errors.Is(err, dealerrors.ErrForbidden):
		writeDealError(w, http.StatusForbidden, "forbidden", err.Error(), nil)
	case errors.Is(err, dealerrors.ErrStaleState):
		writeDealError(w, http.StatusConflict, "stale_state", err.Error(), nil)
	case errors.Is(err, dealerrors.ErrDuplicateDeal):
		writeDealError(w, http.StatusConflict, "duplicate_deal", err.Error(), nil)
	case errors.Is(err, dealerrors.ErrPaymentUnverified):
		writeDealError(w, http.StatusConflict, "payment_unverified", err.Error(), nil)
	case errors.Is(err, dealerrors.ErrPostUnverified):
		writeDealError(w, http.StatusConflict, "post_unverified", err.Error(), nil)
	case errors.Is(err, dealerrors.ErrChannelNotActive):
		writeDealError(w, http.StatusUnprocessableEntity, "channel_not_active", err.Error(), nil)
	case errors.Is(err, dealerrors.ErrOwnChannelDeal):
		writeDealError(w, http.StatusUnprocessableEntity, "own_channel_deal", err.Error(), nil)
	case errors.Is(err, dealerrors.ErrValidation):
		writeDealError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error(), nil)
	case errors.Is(err, dealerrors.ErrExternalService):
		writeDealError(w, http.StatusBadGateway, "external_service_unavailable", err.Error(), nil)
	default:
		writeDealError(w, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}

func writeDealError(w http.ResponseWriter, status int, code string, message string, allowed []string) {
	writeJSON(w, status, dealhttp.ErrorResponse{
		Code:           code,
		Message:        message,
		AllowedActions: allowed,
	})
}
