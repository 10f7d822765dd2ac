// Package requestid tags every request with a v4 UUID so log lines for
// one request can be correlated. The id is echoed in the X-Request-ID
// response header; an inbound X-Request-ID from a trusted proxy is
// reused instead of minting a new one.
package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type ctxKey struct{}

// Header is the request/response header carrying the id.
const Header = "X-Request-ID"

// Middleware assigns the request id and stores it in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		ctx := context.WithValue(r.Context(), ctxKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the request id, or "" when the middleware did not
// run (tests hitting handlers directly).
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
