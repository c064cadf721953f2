package performance

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

func queryInt(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := transport.Pagination(r)
	filter := ListFilter{
		Page:             page,
		Limit:            limit,
		Search:           r.URL.Query().Get("search"),
		EmployeeID:       queryID(r, "employee_id"),
		DepartmentID:     queryID(r, "department_id"),
		EvaluationPeriod: r.URL.Query().Get("evaluation_period"),
		Year:             queryInt(r, "year"),
		Quarter:          queryInt(r, "quarter"),
		Status:           r.URL.Query().Get("status"),
	}

	views, total, err := h.service.List(filter)
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

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid evaluation id")
		return
	}

	view, err := h.service.GetByID(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, view)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto EvaluationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.service.Create(dto, audit.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "evaluation created", view)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid evaluation id")
		return
	}

	var dto EvaluationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.service.Update(id, dto, audit.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "evaluation updated", view)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid evaluation id")
		return
	}

	if err := h.service.Submit(id, audit.MetaFromRequest(r)); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "evaluation submitted")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid evaluation id")
		return
	}

	if err := h.service.Delete(id, audit.MetaFromRequest(r)); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "evaluation deleted")
}

func (h *Handler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var dto BatchDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	count, err := h.service.CreateBatch(dto, audit.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "evaluation templates created", map[string]int{"created": count})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	filter := StatsFilter{
		Year:         queryInt(r, "year"),
		Quarter:      queryInt(r, "quarter"),
		DepartmentID: queryID(r, "department_id"),
	}

	stats, err := h.service.Stats(filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, stats)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	employeeID, err := transport.IDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	history, err := h.service.History(employeeID, limit)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, history)
}
