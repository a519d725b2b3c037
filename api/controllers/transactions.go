package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Stylish87l/RetailFlow/api/responses"
	"github.com/Stylish87l/RetailFlow/api/validators"
	checkoutsvc "github.com/Stylish87l/RetailFlow/internal/checkout"
	txnsvc "github.com/Stylish87l/RetailFlow/internal/transactions"
	"github.com/Stylish87l/RetailFlow/pkg/enums"
	pkgerrors "github.com/Stylish87l/RetailFlow/pkg/errors"
	"github.com/Stylish87l/RetailFlow/pkg/logger"
	"github.com/Stylish87l/RetailFlow/pkg/pagination"
)

type checkoutItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	UnitPrice string `json:"unit_price" validate:"required"`
}

type checkoutRequest struct {
	Items         []checkoutItemRequest `json:"items" validate:"required,min=1,dive"`
	CustomerName  *string               `json:"customer_name,omitempty"`
	AttendantID   *string               `json:"attendant_id,omitempty" validate:"omitempty,uuid4"`
	Discount      *string               `json:"discount,omitempty"`
	PaymentMethod string                `json:"payment_method" validate:"required"`
	Notes         *string               `json:"notes,omitempty"`
}

func (req checkoutRequest) toInput() (checkoutsvc.CheckoutInput, error) {
	method, err := enums.ParsePaymentMethod(strings.TrimSpace(req.PaymentMethod))
	if err != nil {
		return checkoutsvc.CheckoutInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
	}

	discount := decimal.Zero
	if req.Discount != nil {
		discount, err = decimal.NewFromString(*req.Discount)
		if err != nil {
			return checkoutsvc.CheckoutInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount")
		}
	}

	var attendantID *uuid.UUID
	if req.AttendantID != nil {
		parsed, err := uuid.Parse(*req.AttendantID)
		if err != nil {
			return checkoutsvc.CheckoutInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid attendant id")
		}
		attendantID = &parsed
	}

	items := make([]checkoutsvc.LineItemInput, 0, len(req.Items))
	for _, line := range req.Items {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return checkoutsvc.CheckoutInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
		}
		unitPrice, err := decimal.NewFromString(line.UnitPrice)
		if err != nil {
			return checkoutsvc.CheckoutInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit price")
		}
		items = append(items, checkoutsvc.LineItemInput{
			ProductID: productID,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
		})
	}

	return checkoutsvc.CheckoutInput{
		Items:         items,
		CustomerName:  req.CustomerName,
		AttendantID:   attendantID,
		Discount:      discount,
		PaymentMethod: method,
		Notes:         req.Notes,
	}, nil
}

// CreateTransaction handles POST /api/transactions.
func CreateTransaction(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		caller, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		txn, err := svc.CreateSale(r.Context(), caller.TenantID, caller.UserID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, txn)
	}
}

// ListTransactions handles GET /api/transactions.
func ListTransactions(svc txnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transaction service unavailable"))
			return
		}
		caller, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListTransactions(r.Context(), caller.TenantID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// GetTransaction handles GET /api/transactions/{id}.
func GetTransaction(svc txnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transaction service unavailable"))
			return
		}
		caller, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction id"))
			return
		}
		txn, err := svc.GetTransaction(r.Context(), caller.TenantID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, txn)
	}
}
