package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"polyglot-hq/hermes/pkg/adapters"
	"polyglot-hq/hermes/pkg/routing"
	"polyglot-hq/hermes/pkg/telemetry/logging"
)

// Error type vocabulary of the API error envelope.
const (
	errTypeInvalidRequest  = "invalid_request"
	errTypeInvalidStrategy = "invalid_strategy"
	errTypeNotInitialized  = "not_initialized"
	errTypeNoProvider      = "no_provider_available"
	errTypeAllFailed       = "all_providers_failed"
	errTypeTimeout         = "timeout"
	errTypeBodyTooLarge    = "body_too_large"
	errTypeInternal        = "internal_error"
)

// apiError is the JSON error envelope every non-2xx response carries.
type apiError struct {
	Error apiErrorBody `json:"error"`
}

type apiErrorBody struct {
	// Type is one of the errType constants.
	Type string `json:"type"`

	// Message is a human-readable description safe to show callers.
	Message string `json:"message"`

	// RequestID correlates the failure with server logs.
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes the error envelope with the given status.
func writeError(w http.ResponseWriter, r *http.Request, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiError{Error: apiErrorBody{
		Type:      errType,
		Message:   message,
		RequestID: logging.GetRequestID(r.Context()),
	}})
}

// writeRoutingError maps a routing or adapter error to an HTTP status and
// writes the envelope. The mapping mirrors the router's error taxonomy:
// caller mistakes are 4xx, fleet conditions are 502/503, and deadline
// overruns are 504.
func writeRoutingError(w http.ResponseWriter, r *http.Request, err error) {
	var invalidReq *adapters.InvalidRequestError
	switch {
	case errors.As(err, &invalidReq):
		writeError(w, r, http.StatusBadRequest, errTypeInvalidRequest, err.Error())
	case errors.Is(err, routing.ErrInvalidStrategy):
		writeError(w, r, http.StatusBadRequest, errTypeInvalidStrategy, err.Error())
	case errors.Is(err, routing.ErrNotInitialized):
		writeError(w, r, http.StatusServiceUnavailable, errTypeNotInitialized, err.Error())
	case errors.Is(err, routing.ErrNoProviderAvailable):
		writeError(w, r, http.StatusServiceUnavailable, errTypeNoProvider, err.Error())
	case errors.Is(err, routing.ErrAllProvidersFailed):
		writeError(w, r, http.StatusBadGateway, errTypeAllFailed, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, errTypeTimeout, "request timed out")
	case errors.Is(err, context.Canceled):
		// The caller is gone; the status is moot but 499-style closes stay
		// out of the 5xx alert budget.
		writeError(w, r, http.StatusBadRequest, errTypeInvalidRequest, "request cancelled")
	default:
		writeError(w, r, http.StatusInternalServerError, errTypeInternal, "an internal error occurred")
	}
}

// writeDecodeError maps a request body decode failure. Oversized bodies
// carry a dedicated type so callers can distinguish them from malformed
// JSON.
func writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeError(w, r, http.StatusRequestEntityTooLarge, errTypeBodyTooLarge,
			"request body exceeds the configured limit")
		return
	}
	writeError(w, r, http.StatusBadRequest, errTypeInvalidRequest,
		"request body is not valid JSON: "+err.Error())
}
