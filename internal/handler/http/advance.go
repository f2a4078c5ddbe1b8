package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tablewise/restopay-backend-go/internal/domain/salary"
	"github.com/tablewise/restopay-backend-go/internal/handler/http/response"
)

type AdvanceHandler interface {
	CreateAdvance(w http.ResponseWriter, r *http.Request)
	UpdateAdvance(w http.ResponseWriter, r *http.Request)
	DeleteAdvance(w http.ResponseWriter, r *http.Request)
	ListStaffAdvances(w http.ResponseWriter, r *http.Request)
	GetStaffAdvanceSummary(w http.ResponseWriter, r *http.Request)
}

type advanceHandlerImpl struct {
	salaryService salary.Service
}

func NewAdvanceHandler(salaryService salary.Service) AdvanceHandler {
	return &advanceHandlerImpl{salaryService: salaryService}
}

func (h *advanceHandlerImpl) CreateAdvance(w http.ResponseWriter, r *http.Request) {
	staffID := chi.URLParam(r, "staffID")
	if staffID == "" {
		response.BadRequest(w, "Staff ID is required", nil)
		return
	}

	var req salary.CreateAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.StaffID = staffID

	result, err := h.salaryService.CreateAdvance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Advance payment created", result)
}

func (h *advanceHandlerImpl) UpdateAdvance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Advance ID is required", nil)
		return
	}

	var req salary.UpdateAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.salaryService.UpdateAdvance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *advanceHandlerImpl) DeleteAdvance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Advance ID is required", nil)
		return
	}

	if err := h.salaryService.DeleteAdvance(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Advance payment deleted successfully", nil)
}

func (h *advanceHandlerImpl) ListStaffAdvances(w http.ResponseWriter, r *http.Request) {
	staffID := chi.URLParam(r, "staffID")
	if staffID == "" {
		response.BadRequest(w, "Staff ID is required", nil)
		return
	}

	var filter salary.AdvanceFilter
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status := salary.PaymentStatus(statusStr)
		if !status.IsValid() {
			response.BadRequest(w, "Invalid status", nil)
			return
		}
		filter.Status = &status
	}
	if settledStr := r.URL.Query().Get("settled"); settledStr != "" {
		settled, err := strconv.ParseBool(settledStr)
		if err != nil {
			response.BadRequest(w, "Invalid settled flag", nil)
			return
		}
		filter.Settled = &settled
	}

	result, err := h.salaryService.ListStaffAdvances(r.Context(), staffID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *advanceHandlerImpl) GetStaffAdvanceSummary(w http.ResponseWriter, r *http.Request) {
	staffID := chi.URLParam(r, "staffID")
	if staffID == "" {
		response.BadRequest(w, "Staff ID is required", nil)
		return
	}

	result, err := h.salaryService.GetStaffAdvanceSummary(r.Context(), staffID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
