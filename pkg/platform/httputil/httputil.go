// Package httputil centralizes JSON response and error envelope writing so
// every handler returns the same shape.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	dErrors "storefront/pkg/domain-errors"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into an HTTP response.
//
// Envelope: {"error": <code>, "error_description": <message>}. The
// description is omitted for internal errors so storage or upstream details
// never leak to clients. Rate-limited responses carry a Retry-After header.
// Upstream 4xx statuses pass through unchanged; upstream 5xx and transport
// failures surface as 502.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := statusFor(code, err)

	if code == dErrors.CodeRateLimited {
		if retryAfter, ok := dErrors.LoadInt(err, dErrors.DetailRetryAfter); ok {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		}
	}

	body := map[string]string{"error": string(code)}
	if code != dErrors.CodeInternal {
		var de *dErrors.Error
		if errors.As(err, &de) {
			body["error_description"] = de.Message
		}
	}
	WriteJSON(w, status, body)
}

func statusFor(code dErrors.Code, err error) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeRateLimited:
		return http.StatusTooManyRequests
	case dErrors.CodeUpstream:
		if s, ok := dErrors.LoadInt(err, dErrors.DetailUpstreamStatus); ok && s >= 400 && s < 500 {
			return s
		}
		return http.StatusBadGateway
	case dErrors.CodeTransport:
		return http.StatusBadGateway
	case dErrors.CodeMissingConfiguration:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
