package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/Stylish87l/RetailFlow/pkg/auth"
	"github.com/Stylish87l/RetailFlow/pkg/config"
	"github.com/Stylish87l/RetailFlow/pkg/db/models"
	pkgerrors "github.com/Stylish87l/RetailFlow/pkg/errors"
	"github.com/Stylish87l/RetailFlow/pkg/security"
)

// Service exposes login and session introspection.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Me(ctx context.Context, userID uuid.UUID) (*Session, error)
	IsUserActive(ctx context.Context, userID string) (bool, error)
}

// LoginInput is the validated login payload. ShopID is the tenant subdomain
// printed on the staff badge, not a UUID.
type LoginInput struct {
	ShopID   string
	Username string
	Password string
}

// LoginResult carries the minted token and the authenticated session.
type LoginResult struct {
	Token   string
	Session Session
}

// Session pairs the user with its tenant.
type Session struct {
	User   *models.User
	Tenant *models.Tenant
}

type TenantReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	FindBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error)
}

type UserReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*models.User, error)
}

type service struct {
	tenants TenantReader
	users   UserReader
	jwtCfg  config.JWTConfig
	now     func() time.Time
}

// NewService constructs the auth service.
func NewService(tenants TenantReader, users UserReader, jwtCfg config.JWTConfig) (Service, error) {
	if tenants == nil {
		return nil, fmt.Errorf("tenant reader required")
	}
	if users == nil {
		return nil, fmt.Errorf("user reader required")
	}
	return &service{tenants: tenants, users: users, jwtCfg: jwtCfg, now: time.Now}, nil
}

var errInvalidCredentials = pkgerrors.New(pkgerrors.CodeValidation, "invalid credentials")

// Login authenticates shop + username + password and mints an access token.
// Unknown shop, unknown user, inactive records, and bad passwords are all
// reported identically so the response leaks nothing about which field failed.
func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	shopID := strings.ToLower(strings.TrimSpace(input.ShopID))
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if shopID == "" || username == "" || input.Password == "" {
		return nil, errInvalidCredentials
	}

	tenant, err := s.tenants.FindBySubdomain(ctx, shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tenant")
	}
	if !tenant.IsActive {
		return nil, errInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, tenant.ID, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.IsActive {
		return nil, errInvalidCredentials
	}
	if !security.VerifyPassword(input.Password, user.PasswordHash) {
		return nil, errInvalidCredentials
	}

	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID:   user.ID,
		TenantID: tenant.ID,
		Role:     user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	return &LoginResult{
		Token:   token,
		Session: Session{User: user, Tenant: tenant},
	}, nil
}

// Me resolves the current user and its tenant from the token subject.
func (s *service) Me(ctx context.Context, userID uuid.UUID) (*Session, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	tenant, err := s.tenants.FindByID(ctx, user.TenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tenant")
	}
	return &Session{User: user, Tenant: tenant}, nil
}

// IsUserActive reports whether the token subject may still use the API.
func (s *service) IsUserActive(ctx context.Context, userID string) (bool, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return false, nil
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsActive, nil
}
