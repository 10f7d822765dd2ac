// Package httpjson is the JSON request/response layer shared by every
// feature handler: respond helpers, strict body decoding, and the
// mapping from weberr kinds to HTTP status codes.
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies; campaign content is rich text but
// nothing legitimate approaches a megabyte.
const maxBodyBytes = 1 << 20

// Respond writes v as JSON with the given status.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps error kinds onto HTTP statuses. NotFoundOrForbidden
// maps to 404 on purpose; see weberr.
func statusFor(kind weberr.Kind) int {
	switch kind {
	case weberr.Unauthorized:
		return http.StatusUnauthorized
	case weberr.Validation:
		return http.StatusBadRequest
	case weberr.NotFound, weberr.NotFoundOrForbidden:
		return http.StatusNotFound
	case weberr.Forbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error converts err into a JSON error response. Unclassified errors
// are logged with their cause and reported as a generic 500.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	kind := weberr.KindOf(err)
	if kind == weberr.Internal && log != nil {
		log.Error("internal error", zap.Error(err))
	}
	Respond(w, statusFor(kind), errorBody{Error: weberr.Message(err)})
}

// Decode parses the request body into dst, rejecting unknown fields,
// trailing garbage, and oversized bodies. All failures come back as
// Validation errors with a short reason.
func Decode(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return weberr.E(weberr.Validation, "request body is required")
		case strings.Contains(err.Error(), "unknown field"):
			return weberr.E(weberr.Validation, "request contains an unknown field")
		default:
			return weberr.Wrap(weberr.Validation, "malformed request body", err)
		}
	}
	// A second document after the first is a malformed request.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return weberr.E(weberr.Validation, "request body must be a single JSON object")
	}
	return nil
}
