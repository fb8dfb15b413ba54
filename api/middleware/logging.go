package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/smokehouse-backend/pkg/logger"
)

// quietPrefixes are polled by the platform and logged at debug level.
var quietPrefixes = []string{"/health/", "/metrics"}

// Logging emits one line per finished request. Event streams additionally log
// when they open since they can stay connected for hours.
func Logging(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if logg == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := logg.WithFields(r.Context(), map[string]any{
				"method": r.Method,
				"path":   r.URL.Path,
			})
			stream := strings.Contains(r.Header.Get("Accept"), "text/event-stream")
			if stream {
				logg.Info(ctx, "stream.open")
			}

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r.WithContext(ctx))

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			ctx = logg.WithFields(ctx, map[string]any{
				"route":       routePattern(r),
				"status":      status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			switch {
			case stream:
				logg.Info(ctx, "stream.closed")
			case quietPath(r.URL.Path):
				logg.Debug(ctx, "request.complete")
			default:
				logg.Info(ctx, "request.complete")
			}
		})
	}
}

func quietPath(path string) bool {
	for _, prefix := range quietPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
