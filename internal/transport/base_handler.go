package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/pkg/logger"
)

// Envelope is the wire shape shared by every response.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// PagedResult is the body of every list endpoint.
type PagedResult struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// BaseHandler provides common functionality for HTTP handlers. In
// production mode persistence failures are reported as a generic 500
// instead of surfacing their detailed message.
type BaseHandler struct {
	Logger     *slog.Logger
	production bool
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger, production bool) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg, production: production}
}

func (h *BaseHandler) writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteData writes a success envelope carrying data.
func (h *BaseHandler) WriteData(w http.ResponseWriter, status int, data interface{}) {
	h.writeEnvelope(w, status, Envelope{Status: "success", Data: data})
}

// WriteMessage writes a success envelope carrying only a message.
func (h *BaseHandler) WriteMessage(w http.ResponseWriter, status int, message string) {
	h.writeEnvelope(w, status, Envelope{Status: "success", Message: message})
}

// WriteSuccess writes a success envelope with message and data.
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	h.writeEnvelope(w, status, Envelope{Status: "success", Message: message, Data: data})
}

// WriteError writes an error envelope.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.writeEnvelope(w, status, Envelope{Status: "error", Message: message})
}

// HandleServiceError maps service errors onto the envelope: AppErrors carry
// their own status; anything else is a persistence-level failure reported
// generically in production.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		if appErr.StatusCode >= http.StatusInternalServerError {
			h.Logger.Error("service failure", "error", appErr.Error(), "code", appErr.Code)
			if h.production {
				h.WriteError(w, appErr.StatusCode, "internal server error")
				return
			}
		}
		h.WriteError(w, appErr.StatusCode, appErr.Message)
		return
	}

	h.Logger.Error("unhandled service error", "error", err)
	if h.production {
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	h.WriteError(w, http.StatusInternalServerError, err.Error())
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}

// IDParam parses the {id} route parameter.
func IDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// Pagination parses page/limit query parameters with the list defaults.
func Pagination(r *http.Request) (page, limit int) {
	page, limit = 1, 10
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	return page, limit
}
