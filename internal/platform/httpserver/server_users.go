package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	usererrors "adbroker/contexts/identity-access/user-directory/domain/errors"
	userhttp "adbroker/contexts/identity-access/user-directory/transport/http"
)

// handleGetMe resolves the caller from X-Telegram-Id and provisions the user
// record on first contact. Authentication itself happens upstream.
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.Header.Get("X-Telegram-Id"))
	if raw == "" {
		writeUserError(w, http.StatusUnauthorized, "missing_telegram_id", "X-Telegram-Id header is required")
		return
	}
	telegramID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || telegramID <= 0 {
		writeUserError(w, http.StatusBadRequest, "invalid_telegram_id", "X-Telegram-Id must be a positive integer")
		return
	}

	resp, err := s.users.Handler.GetMeHandler(r.Context(), telegramID, r.Header.Get("X-Telegram-Username"))
	if err != nil {
		writeUserDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeUserDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usererrors.ErrUserNotFound):
		writeUserError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, usererrors.ErrValidation):
		writeUserError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
	default:
		writeUserError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeUserError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, userhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
