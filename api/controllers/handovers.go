package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Stylish87l/RetailFlow/api/responses"
	"github.com/Stylish87l/RetailFlow/api/validators"
	handoversvc "github.com/Stylish87l/RetailFlow/internal/handovers"
	pkgerrors "github.com/Stylish87l/RetailFlow/pkg/errors"
	"github.com/Stylish87l/RetailFlow/pkg/logger"
	"github.com/Stylish87l/RetailFlow/pkg/types"
)

type createHandoverRequest struct {
	ShiftDate      string                  `json:"shift_date" validate:"required"`
	ExpectedAmount string                  `json:"expected_amount" validate:"required"`
	ActualAmount   *string                 `json:"actual_amount,omitempty"`
	Denominations  types.DenominationCount `json:"denominations,omitempty"`
	SupervisorID   *string                 `json:"supervisor_id,omitempty" validate:"omitempty,uuid4"`
	Notes          *string                 `json:"notes,omitempty"`
}

func (req createHandoverRequest) toInput() (handoversvc.CreateHandoverInput, error) {
	shiftDate, err := parseDate(req.ShiftDate)
	if err != nil {
		return handoversvc.CreateHandoverInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shift_date")
	}
	expected, err := decimal.NewFromString(req.ExpectedAmount)
	if err != nil {
		return handoversvc.CreateHandoverInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid expected_amount")
	}
	actual := decimal.Zero
	if req.ActualAmount != nil {
		actual, err = decimal.NewFromString(*req.ActualAmount)
		if err != nil {
			return handoversvc.CreateHandoverInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid actual_amount")
		}
	}
	var supervisorID *uuid.UUID
	if req.SupervisorID != nil {
		parsed, err := uuid.Parse(*req.SupervisorID)
		if err != nil {
			return handoversvc.CreateHandoverInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supervisor id")
		}
		supervisorID = &parsed
	}
	return handoversvc.CreateHandoverInput{
		ShiftDate:      shiftDate,
		ExpectedAmount: expected,
		ActualAmount:   actual,
		Denominations:  req.Denominations,
		SupervisorID:   supervisorID,
		Notes:          req.Notes,
	}, nil
}

type updateHandoverRequest struct {
	ExpectedAmount *string                  `json:"expected_amount,omitempty"`
	ActualAmount   *string                  `json:"actual_amount,omitempty"`
	Denominations  *types.DenominationCount `json:"denominations,omitempty"`
	SupervisorID   *string                  `json:"supervisor_id,omitempty" validate:"omitempty,uuid4"`
	Notes          *string                  `json:"notes,omitempty"`
	IsSubmitted    *bool                    `json:"is_submitted,omitempty"`
}

func (req updateHandoverRequest) toInput() (handoversvc.UpdateHandoverInput, error) {
	input := handoversvc.UpdateHandoverInput{
		Denominations: req.Denominations,
		Notes:         req.Notes,
		IsSubmitted:   req.IsSubmitted,
	}
	if req.ExpectedAmount != nil {
		expected, err := decimal.NewFromString(*req.ExpectedAmount)
		if err != nil {
			return handoversvc.UpdateHandoverInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid expected_amount")
		}
		input.ExpectedAmount = &expected
	}
	if req.ActualAmount != nil {
		actual, err := decimal.NewFromString(*req.ActualAmount)
		if err != nil {
			return handoversvc.UpdateHandoverInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid actual_amount")
		}
		input.ActualAmount = &actual
	}
	if req.SupervisorID != nil {
		parsed, err := uuid.Parse(*req.SupervisorID)
		if err != nil {
			return handoversvc.UpdateHandoverInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supervisor id")
		}
		input.SupervisorID = &parsed
	}
	return input, nil
}

func parseDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// CreateHandover handles POST /api/handovers.
func CreateHandover(svc handoversvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "handover service unavailable"))
			return
		}
		caller, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload createHandoverRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		handover, err := svc.CreateHandover(r.Context(), caller.TenantID, caller.UserID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, handover)
	}
}

// UpdateHandover handles PUT /api/handovers/{id}.
func UpdateHandover(svc handoversvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "handover service unavailable"))
			return
		}
		caller, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		handoverID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid handover id"))
			return
		}
		var payload updateHandoverRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		handover, err := svc.UpdateHandover(r.Context(), caller.TenantID, handoverID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, handover)
	}
}

// ListHandovers handles GET /api/handovers.
func ListHandovers(svc handoversvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "handover service unavailable"))
			return
		}
		caller, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListHandovers(r.Context(), caller.TenantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
