package salary

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

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

func recordFilter(r *http.Request) RecordFilter {
	page, limit := transport.Pagination(r)
	return RecordFilter{
		Page:       page,
		Limit:      limit,
		Search:     r.URL.Query().Get("search"),
		EmployeeID: queryID(r, "employee_id"),
		Year:       queryInt(r, "year"),
		Month:      queryInt(r, "month"),
	}
}

func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	filter := recordFilter(r)
	views, total, err := h.service.List(filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, transport.PagedResult{
		Items: views,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	})
}

func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	view, err := h.service.GetByID(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, view)
}

func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var dto RecordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.service.Create(dto, audit.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "salary record created", view)
}

func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	var dto RecordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.service.Update(id, dto, audit.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "salary record updated", view)
}

func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	if err := h.service.Pay(id, audit.MetaFromRequest(r)); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "salary record paid")
}

func (h *Handler) BatchPay(w http.ResponseWriter, r *http.Request) {
	var dto BatchPayDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	paid, err := h.service.PayBatch(dto.IDs, audit.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "salary records paid", map[string]int64{"paid": paid})
}

func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	if err := h.service.Delete(id, audit.MetaFromRequest(r)); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "salary record deleted")
}

func (h *Handler) ListBenefits(w http.ResponseWriter, r *http.Request) {
	page, limit := transport.Pagination(r)
	filter := BenefitFilter{
		Page:     page,
		Limit:    limit,
		Search:   r.URL.Query().Get("search"),
		Type:     r.URL.Query().Get("type"),
		IsActive: queryInt(r, "is_active"),
	}

	benefits, total, err := h.service.ListBenefits(filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, transport.PagedResult{
		Items: benefits,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func (h *Handler) CreateBenefit(w http.ResponseWriter, r *http.Request) {
	var dto BenefitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.service.CreateBenefit(dto, audit.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "benefit created", map[string]int64{"id": id})
}

func (h *Handler) UpdateBenefit(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid benefit id")
		return
	}

	var dto BenefitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.UpdateBenefit(id, dto, audit.MetaFromRequest(r)); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "benefit updated")
}

func (h *Handler) ListEmployeeBenefits(w http.ResponseWriter, r *http.Request) {
	page, limit := transport.Pagination(r)
	filter := EmployeeBenefitFilter{
		Page:       page,
		Limit:      limit,
		EmployeeID: queryID(r, "employee_id"),
		BenefitID:  queryID(r, "benefit_id"),
		Status:     r.URL.Query().Get("status"),
	}

	views, total, err := h.service.ListEmployeeBenefits(filter)
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

func (h *Handler) AssignBenefit(w http.ResponseWriter, r *http.Request) {
	var dto AssignBenefitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.service.AssignBenefit(dto, audit.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "benefit assigned", map[string]int64{"id": id})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	filter := StatsFilter{
		Year:  queryInt(r, "year"),
		Month: queryInt(r, "month"),
	}

	stats, err := h.service.Stats(filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, stats)
}

func (h *Handler) Payslip(w http.ResponseWriter, r *http.Request) {
	employeeID, err := transport.IDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	month, _ := strconv.Atoi(r.URL.Query().Get("month"))

	payslip, err := h.service.Payslip(employeeID, year, month)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, payslip)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	filter := recordFilter(r)
	f, err := h.service.ExportXLSX(filter, audit.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("salaries-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := f.WriteTo(w); err != nil {
		h.Logger.Error("failed to stream salary export", "error", err)
	}
}
