package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	campaignerrors "adbroker/contexts/deal-brokerage/campaign-service/domain/errors"
	campaignhttp "adbroker/contexts/deal-brokerage/campaign-service/transport/http"
	dealerrors "adbroker/contexts/deal-brokerage/deal-service/domain/errors"
)

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req campaignhttp.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.campaigns.Handler.CreateCampaignHandler(r.Context(), userID, req)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.campaigns.Handler.ListCampaignsHandler(r.Context(), query.Get("advertiser_id"), query.Get("status"))
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaigns.Handler.GetCampaignHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApplyToCampaign(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req campaignhttp.ApplyToCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.campaigns.Handler.ApplyToCampaignHandler(r.Context(), userID, r.PathValue("campaign_id"), req)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	resp, err := s.campaigns.Handler.ListApplicationsHandler(r.Context(), userID, r.PathValue("campaign_id"))
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMyApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	resp, err := s.campaigns.Handler.MyApplicationsHandler(r.Context(), userID)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAcceptApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	resp, err := s.campaigns.Handler.AcceptApplicationHandler(
		r.Context(),
		userID,
		r.PathValue("campaign_id"),
		r.PathValue("application_id"),
	)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRejectApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	resp, err := s.campaigns.Handler.RejectApplicationHandler(
		r.Context(),
		userID,
		r.PathValue("campaign_id"),
		r.PathValue("application_id"),
	)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeCampaignDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, campaignerrors.ErrCampaignNotFound):
		writeCampaignError(w, http.StatusNotFound, "campaign_not_found", err.Error())
	case errors.Is(err, campaignerrors.ErrApplicationNotFound):
		writeCampaignError(w, http.StatusNotFound, "application_not_found", err.Error())
	case errors.Is(err, campaignerrors.ErrForbidden):
		writeCampaignError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, campaignerrors.ErrApplicationDecided):
		writeCampaignError(w, http.StatusConflict, "application_decided", err.Error())
	case errors.Is(err, campaignerrors.ErrDuplicateApplication):
		writeCampaignError(w, http.StatusConflict, "duplicate_application", err.Error())
	case errors.Is(err, campaignerrors.ErrCampaignNotActive):
		writeCampaignError(w, http.StatusUnprocessableEntity, "campaign_not_active", err.Error())
	case errors.Is(err, campaignerrors.ErrOwnCampaignApplication):
		writeCampaignError(w, http.StatusUnprocessableEntity, "own_campaign_application", err.Error())
	case errors.Is(err, campaignerrors.ErrValidation):
		writeCampaignError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
	case errors.Is(err, campaignerrors.ErrDealIntake):
		// Surface what the deal engine objected to; the application was
		// rolled back to pending.
		switch {
		case errors.Is(err, dealerrors.ErrDuplicateDeal):
			writeCampaignError(w, http.StatusConflict, "duplicate_deal", err.Error())
		case errors.Is(err, dealerrors.ErrChannelNotActive):
			writeCampaignError(w, http.StatusUnprocessableEntity, "channel_not_active", err.Error())
		default:
			writeCampaignError(w, http.StatusBadGateway, "deal_intake_failed", err.Error())
		}
	default:
		writeCampaignError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCampaignError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, campaignhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
