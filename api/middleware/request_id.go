package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Stylish87l/RetailFlow/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID threads a correlation id through the request: the caller's id is
// honored when present, otherwise one is minted. The id is echoed back in the
// response header and attached to the request-scoped logger.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := strings.TrimSpace(r.Header.Get(requestIDHeader))
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
