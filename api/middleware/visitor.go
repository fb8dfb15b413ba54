package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/smokehouse-backend/pkg/logger"
)

// VisitorIDHeader carries the anonymous shopper id that keys carts and the
// age confirmation flag.
const VisitorIDHeader = "X-Visitor-Id"

const maxClientIDLen = 64

// Visitor mints a visitor id when the client did not send a usable one and
// echoes it back so the client can persist it.
func Visitor(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			visitorID := strings.TrimSpace(r.Header.Get(VisitorIDHeader))
			if !validClientID(visitorID) {
				visitorID = uuid.NewString()
			}
			w.Header().Set(VisitorIDHeader, visitorID)

			ctx := WithVisitorID(r.Context(), visitorID)
			if logg != nil {
				ctx = logg.WithVisitorID(ctx, visitorID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validClientID(value string) bool {
	if value == "" || len(value) > maxClientIDLen {
		return false
	}
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
