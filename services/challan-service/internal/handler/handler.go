package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/vasapolrittideah/challan-api/services/challan-service/internal/usecase"
	"github.com/vasapolrittideah/challan-api/shared/response"
	"github.com/vasapolrittideah/challan-api/shared/validator"
)

// HealthChecker reports whether the service's dependencies are reachable.
type HealthChecker func(ctx context.Context) error

type httpHandler struct {
	authUsecase       usecase.AuthUsecase
	submissionUsecase usecase.SubmissionUsecase
	validator         *validator.Validator
	healthCheck       HealthChecker
	maxUploadBytes    int64
}

// decodeAndValidate reads a JSON body into dst and validates it. On failure it writes
// a 400 response and returns false.
func (h *httpHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := response.DecodeJSON(r, dst); err != nil {
		response.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		var verr *validator.ValidationError
		if errors.As(err, &verr) {
			response.WriteError(w, http.StatusBadRequest, verr.Error())
			return false
		}
		hlog.FromRequest(r).Error().Err(err).Msg("failed to validate request")
		response.WriteError(w, http.StatusInternalServerError, "something went wrong")
		return false
	}

	return true
}

func (h *httpHandler) home(w http.ResponseWriter, _ *http.Request) {
	response.WriteJSON(w, http.StatusOK, response.MessageResponse{Message: "Challan service is running"})
}

func (h *httpHandler) health(w http.ResponseWriter, r *http.Request) {
	if h.healthCheck != nil {
		if err := h.healthCheck(r.Context()); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("health check failed")
			response.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}

	response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
