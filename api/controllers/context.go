package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Stylish87l/RetailFlow/api/middleware"
	pkgerrors "github.com/Stylish87l/RetailFlow/pkg/errors"
)

// actor is the authenticated caller resolved from the request context.
type actor struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
}

func actorFromRequest(r *http.Request) (actor, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	tenantID := middleware.TenantIDFromContext(r.Context())
	if tenantID == "" {
		return actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant context missing")
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	tid, err := uuid.Parse(tenantID)
	if err != nil {
		return actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid tenant id")
	}
	return actor{UserID: uid, TenantID: tid}, nil
}
