package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Stylish87l/RetailFlow/api/responses"
	"github.com/Stylish87l/RetailFlow/api/validators"
	salereturn "github.com/Stylish87l/RetailFlow/internal/returns"
	"github.com/Stylish87l/RetailFlow/pkg/enums"
	pkgerrors "github.com/Stylish87l/RetailFlow/pkg/errors"
	"github.com/Stylish87l/RetailFlow/pkg/logger"
)

type returnItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type createReturnRequest struct {
	TransactionID string              `json:"transaction_id" validate:"required,uuid4"`
	Reason        string              `json:"reason" validate:"required"`
	RefundAmount  string              `json:"refund_amount" validate:"required"`
	RefundMethod  *string             `json:"refund_method,omitempty"`
	Notes         *string             `json:"notes,omitempty"`
	Items         []returnItemRequest `json:"items,omitempty" validate:"omitempty,dive"`
}

func (req createReturnRequest) toInput() (salereturn.CreateReturnInput, error) {
	transactionID, err := uuid.Parse(req.TransactionID)
	if err != nil {
		return salereturn.CreateReturnInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction id")
	}
	refund, err := decimal.NewFromString(req.RefundAmount)
	if err != nil {
		return salereturn.CreateReturnInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid refund amount")
	}
	var method *enums.PaymentMethod
	if req.RefundMethod != nil {
		parsed, err := enums.ParsePaymentMethod(strings.TrimSpace(*req.RefundMethod))
		if err != nil {
			return salereturn.CreateReturnInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid refund method")
		}
		method = &parsed
	}
	items := make([]salereturn.ReturnItemInput, 0, len(req.Items))
	for _, line := range req.Items {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return salereturn.CreateReturnInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
		}
		items = append(items, salereturn.ReturnItemInput{ProductID: productID, Quantity: line.Quantity})
	}
	return salereturn.CreateReturnInput{
		TransactionID: transactionID,
		Reason:        req.Reason,
		RefundAmount:  refund,
		RefundMethod:  method,
		Notes:         req.Notes,
		Items:         items,
	}, nil
}

// CreateReturn handles POST /api/returns.
func CreateReturn(svc salereturn.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "return service unavailable"))
			return
		}
		caller, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload createReturnRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ret, err := svc.CreateReturn(r.Context(), caller.TenantID, caller.UserID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, ret)
	}
}

// ListReturns handles GET /api/returns.
func ListReturns(svc salereturn.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "return service unavailable"))
			return
		}
		caller, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListReturns(r.Context(), caller.TenantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
