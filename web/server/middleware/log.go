package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/felixge/httpsnoop"
)

// Logger logs request details and response metrics. Server errors are logged
// at the warning level.
func Logger(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(next, w, r)

			lvl := slog.LevelInfo
			if m.Code >= http.StatusInternalServerError {
				lvl = slog.LevelWarn
			}

			attrs := []slog.Attr{
				slog.Int("response_code", m.Code),
				slog.Duration("duration", m.Duration),
				slog.Int64("bytes_sent", m.Written),
				slog.String("remote_addr", r.RemoteAddr),
			}
			// The mux sets the pattern of the matched route on the request.
			if r.Pattern != "" {
				attrs = append(attrs, slog.String("route", r.Pattern))
			}
			if ua := r.UserAgent(); ua != "" {
				attrs = append(attrs, slog.String("user_agent", ua))
			}

			logger.LogAttrs(r.Context(), lvl, fmt.Sprintf("%s %s", r.Method, r.URL), attrs...)
		})
	}
}
