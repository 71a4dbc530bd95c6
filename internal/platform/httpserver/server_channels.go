package httpserver

import (
	"errors"
	"net/http"

	channelerrors "adbroker/contexts/deal-brokerage/channel-registry/domain/errors"
	channelhttp "adbroker/contexts/deal-brokerage/channel-registry/transport/http"
)

func (s *Server) handleListChannels(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.channels.Handler.ListChannelsHandler(r.Context(), query.Get("owner_id"), query.Get("status"))
	if err != nil {
		writeChannelDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetChannel(w http.ResponseWriter, r *http.Request) {
	resp, err := s.channels.Handler.GetChannelHandler(r.Context(), r.PathValue("channel_id"))
	if err != nil {
		writeChannelDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAdFormats(w http.ResponseWriter, r *http.Request) {
	resp, err := s.channels.Handler.ListAdFormatsHandler(r.Context(), r.PathValue("channel_id"))
	if err != nil {
		writeChannelDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeChannelDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, channelerrors.ErrChannelNotFound):
		writeChannelError(w, http.StatusNotFound, "channel_not_found", err.Error())
	case errors.Is(err, channelerrors.ErrAdFormatNotFound):
		writeChannelError(w, http.StatusNotFound, "ad_format_not_found", err.Error())
	default:
		writeChannelError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeChannelError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, channelhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
