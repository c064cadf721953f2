package leave

import (
	"encoding/json"
	"net/http"
	"strconv"

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

func queryID(r *http.Request, name string) *int64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	page, limit := transport.Pagination(r)
	filter := RequestFilter{
		Page:       page,
		Limit:      limit,
		Search:     r.URL.Query().Get("search"),
		EmployeeID: queryID(r, "employee_id"),
		Status:     r.URL.Query().Get("status"),
	}

	views, total, err := h.service.ListRequests(filter)
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

func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	view, err := h.service.GetRequest(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, view)
}

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var dto RequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.service.CreateRequest(dto, audit.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "leave request created", view)
}

func (h *Handler) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var dto RequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.service.UpdateRequest(id, dto, audit.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "leave request updated", view)
}

func (h *Handler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	if err := h.service.DeleteRequest(id, audit.MetaFromRequest(r)); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "leave request withdrawn")
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var dto ApprovalDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.service.Approve(id, dto, audit.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	message := "leave request approved"
	if dto.Status == RequestRejected {
		message = "leave request rejected"
	}
	h.WriteSuccess(w, http.StatusOK, message, view)
}

func (h *Handler) ListCompensatory(w http.ResponseWriter, r *http.Request) {
	page, limit := transport.Pagination(r)
	filter := CompensatoryFilter{
		Page:         page,
		Limit:        limit,
		Search:       r.URL.Query().Get("search"),
		EmployeeID:   queryID(r, "employee_id"),
		DepartmentID: queryID(r, "department_id"),
		Status:       r.URL.Query().Get("status"),
	}

	views, total, err := h.service.ListCompensatory(filter)
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

func (h *Handler) CreateCompensatory(w http.ResponseWriter, r *http.Request) {
	var dto CompensatoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.service.CreateCompensatory(dto, audit.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "compensatory record created", map[string]int64{"id": id})
}

func (h *Handler) UseCompensatory(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	var dto UseCompensatoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.UseCompensatory(id, dto, audit.MetaFromRequest(r)); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "compensatory leave used")
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	filter := StatsFilter{
		DateStart:    r.URL.Query().Get("date_start"),
		DateEnd:      r.URL.Query().Get("date_end"),
		DepartmentID: queryID(r, "department_id"),
	}

	stats, err := h.service.Stats(filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, stats)
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	employeeID, err := transport.IDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	balance, err := h.service.Balance(employeeID, year)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, balance)
}
