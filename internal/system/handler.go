package system

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/hospadmin/hospital-admin/internal/audit"
	"github.com/hospadmin/hospital-admin/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	service *Service
}

func NewHandler(base *transport.BaseHandler, service *Service) *Handler {
	return &Handler{
		BaseHandler: base,
		service:     service,
	}
}

func (h *Handler) ConfigList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ConfigList()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, entries)
}

func (h *Handler) ConfigUpdate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		h.WriteError(w, http.StatusBadRequest, "configuration key is required")
		return
	}

	var body struct {
		ConfigValue *string `json:"config_value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.service.ConfigUpdate(key, body.ConfigValue, audit.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "configuration updated", entry)
}

func (h *Handler) Logs(w http.ResponseWriter, r *http.Request) {
	page, limit := transport.Pagination(r)
	filter := LogFilter{
		Page:     page,
		Limit:    limit,
		Action:   r.URL.Query().Get("action"),
		Resource: r.URL.Query().Get("resource"),
	}
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		if userID, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.UserID = &userID
		}
	}

	views, total, err := h.service.Logs(filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, transport.PagedResult{
		Items: views,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func (h *Handler) CleanupLogs(w http.ResponseWriter, r *http.Request) {
	removed, err := h.service.CleanupLogs(audit.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK,
		fmt.Sprintf("removed %d log entries", removed),
		map[string]int64{"removed": removed})
}

func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Info()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, stats)
}
