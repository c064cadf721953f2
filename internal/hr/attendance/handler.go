package attendance

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

func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	page, limit := transport.Pagination(r)
	filter := RecordFilter{
		Page:         page,
		Limit:        limit,
		Search:       r.URL.Query().Get("search"),
		EmployeeID:   queryID(r, "employee_id"),
		DepartmentID: queryID(r, "department_id"),
		DateStart:    r.URL.Query().Get("date_start"),
		DateEnd:      r.URL.Query().Get("date_end"),
		Status:       r.URL.Query().Get("status"),
	}

	views, total, err := h.service.ListRecords(filter)
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

func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	view, err := h.service.GetRecord(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, view)
}

func (h *Handler) SaveRecord(w http.ResponseWriter, r *http.Request) {
	var dto RecordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, created, err := h.service.SaveRecord(dto, audit.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if created {
		h.WriteSuccess(w, http.StatusCreated, "attendance record created", view)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "attendance record updated", view)
}

func (h *Handler) Punch(w http.ResponseWriter, r *http.Request) {
	var dto PunchDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.Punch(dto, audit.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	message := "clocked in"
	if dto.Type == PunchOut {
		message = "clocked out"
	}
	h.WriteSuccess(w, http.StatusOK, message, result)
}

func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	page, limit := transport.Pagination(r)
	filter := ScheduleFilter{
		Page:         page,
		Limit:        limit,
		Search:       r.URL.Query().Get("search"),
		EmployeeID:   queryID(r, "employee_id"),
		DepartmentID: queryID(r, "department_id"),
		DateStart:    r.URL.Query().Get("date_start"),
		DateEnd:      r.URL.Query().Get("date_end"),
		ShiftType:    r.URL.Query().Get("shift_type"),
	}

	views, total, err := h.service.ListSchedules(filter)
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

func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var dto ScheduleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.service.CreateSchedule(dto, audit.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "schedule created", map[string]int64{"id": id})
}

func (h *Handler) CreateScheduleBatch(w http.ResponseWriter, r *http.Request) {
	var dto ScheduleBatchDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	count, err := h.service.CreateScheduleBatch(dto.Schedules, audit.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "schedules created", map[string]int{"created": count})
}

func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid schedule id")
		return
	}

	var dto ScheduleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.UpdateSchedule(id, dto, audit.MetaFromRequest(r)); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "schedule updated")
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid schedule id")
		return
	}

	if err := h.service.DeleteSchedule(id, audit.MetaFromRequest(r)); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "schedule deleted")
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

func (h *Handler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	employeeID, err := transport.IDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	month, _ := strconv.Atoi(r.URL.Query().Get("month"))

	report, err := h.service.MonthlyReport(employeeID, year, month)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, report)
}
