package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hospadmin/hospital-admin/pkg/logger"
)

// maskedFields are request fields never written to logs. Besides
// credentials this covers the personnel PII columns (id numbers, phone
// numbers) that HR payloads carry.
var maskedFields = []string{
	"password",
	"old_password",
	"new_password",
	"token",
	"authorization",
	"secret",
	"id_card",
	"phone",
	"emergency_contact_phone",
}

// LoggingMiddleware logs one line per request and one per response. The
// trace id injected by RequestID rides along through the context logger.
func LoggingMiddleware(fallback *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lg := logger.From(r.Context())
			if lg == nil {
				lg = fallback
			}

			lg.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"query", maskedQuery(r.URL.Query()),
				"client_ip", ClientIP(r),
				"user_agent", r.UserAgent(),
				"body", maskedBody(r),
			)

			ww := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(ww, r)

			status := ww.status
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			lg.Log(r.Context(), level, "response",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes", ww.written,
			)
		})
	}
}

// statusWriter records the status code and byte count without buffering
// the response payload.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.written += n
	return n, err
}

func isMasked(name string) bool {
	name = strings.ToLower(name)
	for _, field := range maskedFields {
		if strings.Contains(name, field) {
			return true
		}
	}
	return false
}

func maskedQuery(values map[string][]string) string {
	if len(values) == 0 {
		return ""
	}
	parts := make([]string, 0, len(values))
	for name, vals := range values {
		if isMasked(name) {
			parts = append(parts, name+"=[masked]")
			continue
		}
		parts = append(parts, name+"="+strings.Join(vals, ","))
	}
	return strings.Join(parts, "&")
}

// maskedBody reads and restores the JSON request body, masking sensitive
// fields. Non-JSON bodies are summarized by size only.
func maskedBody(r *http.Request) string {
	if r.Body == nil || r.ContentLength == 0 {
		return ""
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))

	var payload interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "[non-json body]"
	}
	masked, err := json.Marshal(maskValue(payload))
	if err != nil {
		return "[unloggable body]"
	}
	return string(masked)
}

func maskValue(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isMasked(key) {
				out[key] = "[masked]"
				continue
			}
			out[key] = maskValue(value)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = maskValue(item)
		}
		return out
	default:
		return v
	}
}
