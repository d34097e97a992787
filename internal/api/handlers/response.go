package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/agrievents/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/agrievents/pkg/errors"
)

const genericLoadError = "Failed to load events"

type successResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type searchResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	AIInsights string      `json:"aiInsights"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

func respondWithData(w http.ResponseWriter, data interface{}) {
	respondWithJSON(w, http.StatusOK, successResponse{Success: true, Data: data})
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, errorResponse{Success: false, Error: message})
}

// writeAppError maps an error to its status code and envelope. Details are only
// exposed when exposeDetails is set.
func writeAppError(w http.ResponseWriter, r *http.Request, err error, exposeDetails bool) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewInternalError("Internal server error", err)
	}

	status := http.StatusInternalServerError
	message := appErr.Message
	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		status = http.StatusBadRequest
	case apperrors.ErrorTypeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrorTypeUnauthorized:
		status = http.StatusUnauthorized
	case apperrors.ErrorTypeUnavailable:
		status = http.StatusServiceUnavailable
	case apperrors.ErrorTypeDataUnavailable:
		message = genericLoadError
	case apperrors.ErrorTypeExternal:
	default:
		message = "Internal server error"
	}

	if status >= http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}

	resp := errorResponse{Success: false, Error: message}
	if exposeDetails && status >= http.StatusInternalServerError {
		resp.Details = err.Error()
	}
	respondWithJSON(w, status, resp)
}
