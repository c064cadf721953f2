package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/hospadmin/hospital-admin/pkg/logger"
)

const traceHeader = "X-Trace-ID"

// RequestID assigns every request a trace id, honoring one supplied by the
// caller, and binds it to the context logger so each log line carries it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "trace_id", traceID)
		w.Header().Set(traceHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
