package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/reconciliation"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
	"github.com/go-chi/chi/v5"
)

type ReconciliationHandler interface {
	Reconcile(w http.ResponseWriter, r *http.Request)
	ListAggregates(w http.ResponseWriter, r *http.Request)
	GetAggregate(w http.ResponseWriter, r *http.Request)
}

type reconciliationHandlerImpl struct {
	reconciliationService reconciliation.ReconciliationService
}

func NewReconciliationHandler(reconciliationService reconciliation.ReconciliationService) ReconciliationHandler {
	return &reconciliationHandlerImpl{reconciliationService: reconciliationService}
}

// Reconcile runs a batch synchronously and reports per-employee outcomes.
// Partial failures still answer 200.
func (h *reconciliationHandlerImpl) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req reconciliation.ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Reconcile decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	p, err := period.Parse(req.Period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reconciliationService.Reconcile(r.Context(), p, req.EmployeeIDs)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Reconciliation completed", reconciliation.NewBatchResponse(result))
}

func (h *reconciliationHandlerImpl) ListAggregates(w http.ResponseWriter, r *http.Request) {
	p, err := period.Parse(chi.URLParam(r, "period"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	aggregates, err := h.reconciliationService.ListAggregates(r.Context(), p)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]reconciliation.AggregateResponse, 0, len(aggregates))
	for _, a := range aggregates {
		result = append(result, reconciliation.NewAggregateResponse(a))
	}
	response.Success(w, result)
}

func (h *reconciliationHandlerImpl) GetAggregate(w http.ResponseWriter, r *http.Request) {
	p, err := period.Parse(chi.URLParam(r, "period"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	aggregate, err := h.reconciliationService.GetAggregate(r.Context(), employeeID, p)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, reconciliation.NewAggregateResponse(aggregate))
}
