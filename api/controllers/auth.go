package controllers

import (
	"net/http"

	"github.com/Stylish87l/RetailFlow/api/responses"
	"github.com/Stylish87l/RetailFlow/api/validators"
	authsvc "github.com/Stylish87l/RetailFlow/internal/auth"
	"github.com/Stylish87l/RetailFlow/pkg/db/models"
	pkgerrors "github.com/Stylish87l/RetailFlow/pkg/errors"
	"github.com/Stylish87l/RetailFlow/pkg/logger"
)

type loginRequest struct {
	ShopID   string `json:"shop_id" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token  string         `json:"token"`
	User   *models.User   `json:"user"`
	Tenant *models.Tenant `json:"tenant"`
}

type sessionResponse struct {
	User   *models.User   `json:"user"`
	Tenant *models.Tenant `json:"tenant"`
}

// Login handles POST /api/auth/login.
func Login(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), authsvc.LoginInput{
			ShopID:   payload.ShopID,
			Username: payload.Username,
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, loginResponse{
			Token:  result.Token,
			User:   result.Session.User,
			Tenant: result.Session.Tenant,
		})
	}
}

// Me handles GET /api/auth/me.
func Me(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		caller, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Me(r.Context(), caller.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sessionResponse{User: session.User, Tenant: session.Tenant})
	}
}
