package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Stylish87l/RetailFlow/api/responses"
	"github.com/Stylish87l/RetailFlow/api/validators"
	productsvc "github.com/Stylish87l/RetailFlow/internal/products"
	"github.com/Stylish87l/RetailFlow/pkg/enums"
	pkgerrors "github.com/Stylish87l/RetailFlow/pkg/errors"
	"github.com/Stylish87l/RetailFlow/pkg/logger"
)

// ListProducts handles GET /api/products.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		caller, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListProducts(r.Context(), caller.TenantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

type createProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
	SKU         string  `json:"sku" validate:"required"`
	Barcode     *string `json:"barcode,omitempty"`
	Category    string  `json:"category" validate:"required"`
	Price       string  `json:"price" validate:"required"`
	Cost        *string `json:"cost,omitempty"`
	Stock       int     `json:"stock" validate:"min=0"`
	MinStock    int     `json:"min_stock" validate:"min=0"`
	ImageURL    *string `json:"image_url,omitempty"`
}

func (req createProductRequest) toInput() (productsvc.CreateProductInput, error) {
	category, err := enums.ParseProductCategory(strings.TrimSpace(req.Category))
	if err != nil {
		return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}
	var cost *decimal.Decimal
	if req.Cost != nil {
		parsed, err := decimal.NewFromString(*req.Cost)
		if err != nil {
			return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cost")
		}
		cost = &parsed
	}
	return productsvc.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Barcode:     req.Barcode,
		Category:    category,
		Price:       price,
		Cost:        cost,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		ImageURL:    req.ImageURL,
	}, nil
}

// CreateProduct handles POST /api/products.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		caller, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.CreateProduct(r.Context(), caller.TenantID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	SKU         *string `json:"sku,omitempty"`
	Barcode     *string `json:"barcode,omitempty"`
	Category    *string `json:"category,omitempty"`
	Price       *string `json:"price,omitempty"`
	Cost        *string `json:"cost,omitempty"`
	Stock       *int    `json:"stock,omitempty" validate:"omitempty,min=0"`
	MinStock    *int    `json:"min_stock,omitempty" validate:"omitempty,min=0"`
	ImageURL    *string `json:"image_url,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (req updateProductRequest) toInput() (productsvc.UpdateProductInput, error) {
	input := productsvc.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Barcode:     req.Barcode,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
	}
	if req.Category != nil {
		category, err := enums.ParseProductCategory(strings.TrimSpace(*req.Category))
		if err != nil {
			return productsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		input.Category = &category
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil {
			return productsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
		}
		input.Price = &price
	}
	if req.Cost != nil {
		cost, err := decimal.NewFromString(*req.Cost)
		if err != nil {
			return productsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cost")
		}
		input.Cost = &cost
	}
	return input, nil
}

// UpdateProduct handles PUT /api/products/{id}.
func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		caller, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.UpdateProduct(r.Context(), caller.TenantID, productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct handles DELETE /api/products/{id}.
func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		caller, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		if err := svc.DeleteProduct(r.Context(), caller.TenantID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// ProductByBarcode handles GET /api/products/barcode/{barcode}.
func ProductByBarcode(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		caller, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.GetByBarcode(r.Context(), caller.TenantID, chi.URLParam(r, "barcode"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
