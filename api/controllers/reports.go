package controllers

import (
	"net/http"

	"github.com/Stylish87l/RetailFlow/api/responses"
	"github.com/Stylish87l/RetailFlow/api/validators"
	reportsvc "github.com/Stylish87l/RetailFlow/internal/reports"
	pkgerrors "github.com/Stylish87l/RetailFlow/pkg/errors"
	"github.com/Stylish87l/RetailFlow/pkg/logger"
)

// DashboardKPIs handles GET /api/dashboard/kpis.
func DashboardKPIs(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}
		caller, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		kpis, err := svc.DashboardKPIs(r.Context(), caller.TenantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, kpis)
	}
}

// SalesReport handles GET /api/reports/sales.
func SalesReport(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}
		caller, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		start, err := validators.ParseQueryDate(r, "start_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		end, err := validators.ParseQueryDate(r, "end_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.SalesReport(r.Context(), caller.TenantID, start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
