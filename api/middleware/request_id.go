package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags each request with an id and attaches it to the request
// logger. The id is echoed back so support can correlate a failed booking
// attempt with the server logs.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
