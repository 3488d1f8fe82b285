package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/gramseva/portal/pkg/composables"
	"github.com/gramseva/portal/pkg/configuration"
	"github.com/gramseva/portal/pkg/serrors"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// EnsureRequestID returns the request id header, generating and echoing one when missing.
func EnsureRequestID(w http.ResponseWriter, r *http.Request) string {
	if r == nil {
		return ""
	}
	header := strings.TrimSpace(configuration.Use().RequestIDHeader)
	if header == "" {
		header = "X-Request-ID"
	}

	requestID := strings.TrimSpace(r.Header.Get(header))
	if requestID == "" {
		requestID = strings.TrimSpace(w.Header().Get("X-Request-Id"))
	}
	if requestID == "" {
		requestID = uuid.NewString()
		w.Header().Set(header, requestID)
	}
	return requestID
}

// WriteAPIError writes the standard envelope with the request id in meta.
func WriteAPIError(w http.ResponseWriter, r *http.Request, status int, code, message string, meta map[string]string) {
	out := map[string]string{"request_id": EnsureRequestID(w, r)}
	for k, v := range meta {
		out[k] = v
	}
	if err := WriteError(w, status, code, message, out); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("failed to write error response")
	}
}

// WriteServiceError maps err to a response. A *serrors.ServiceError keeps its
// status and code; anything else is logged and reported as <prefix>_INTERNAL.
func WriteServiceError(w http.ResponseWriter, r *http.Request, prefix string, err error) {
	var svcErr *serrors.ServiceError
	if errors.As(err, &svcErr) {
		WriteAPIError(w, r, svcErr.Status, svcErr.Code, svcErr.Message, svcErr.Meta)
		return
	}
	composables.UseLogger(r.Context()).WithError(err).Error("request failed")
	WriteAPIError(w, r, http.StatusInternalServerError, prefix+"_INTERNAL", "internal error", nil)
}
