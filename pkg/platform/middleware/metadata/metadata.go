// Package metadata carries inbound request metadata into the request context.
package metadata

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"caseflow/pkg/requestcontext"
)

// HeaderRequestID is read from inbound requests and echoed on responses.
const HeaderRequestID = "X-Request-Id"

const maxRequestIDLength = 128

// RequestID takes the caller's X-Request-Id, or generates one, and stores it
// with requestcontext.WithRequestID. This middleware should be applied early
// in the chain so every log line of the request can carry the ID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(HeaderRequestID))
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
