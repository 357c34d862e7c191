// Package identity signs staff in and manages their accounts.
package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	auditapp "github.com/vetclinic/backend/internal/application/audit"
	"github.com/vetclinic/backend/internal/domain/audit"
	"github.com/vetclinic/backend/internal/domain/identity"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/infrastructure/auth"
	"github.com/vetclinic/backend/internal/infrastructure/logger"
)

// AuditModule is the audit log module name for staff accounts
const AuditModule = "Users"

// ErrInvalidCredentials is returned for an unknown email or a wrong password alike
var ErrInvalidCredentials = shared.WrapDomainError("INVALID_CREDENTIALS", "Invalid email or password", shared.ErrUnauthorized)

// AuthService handles staff authentication
type AuthService struct {
	users          identity.UserRepository
	tokens         *auth.JWTService
	eventPublisher shared.EventPublisher
	now            func() time.Time
	logger         *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(users identity.UserRepository, tokens *auth.JWTService, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{users: users, tokens: tokens, now: time.Now, logger: log}
}

// SetEventPublisher sets the publisher for audit events
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Login checks the credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	log := logger.For(ctx, s.logger)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("login for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(req.Password) {
		log.Warn("invalid password", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		log.Warn("login for deactivated account", zap.String("user_id", user.ID.String()))
		return nil, shared.WrapDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated", shared.ErrForbidden)
	}

	token, err := s.tokens.GenerateAccessToken(auth.GenerateTokenInput{
		UserID:      user.ID,
		Username:    user.Username,
		Role:        string(user.Role),
		Permissions: user.Permissions,
	})
	if err != nil {
		log.Error("failed to sign access token", zap.Error(err))
		return nil, err
	}

	user.RecordLoginSuccess(s.now())
	if err := s.users.Update(ctx, user); err != nil {
		// the token is valid either way
		log.Warn("failed to record login", zap.Error(err))
	}
	log.Info("user logged in", zap.String("user_id", user.ID.String()))

	return &LoginResponse{
		AccessToken: token.Token,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		User:        ToUserResponse(user),
	}, nil
}

// CurrentUser returns the account behind the token
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangePassword replaces the caller's password after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.VerifyPassword(req.CurrentPassword) {
		return ErrInvalidCredentials
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	auditapp.Publish(ctx, s.eventPublisher, s.logger,
		audit.NewRecordChanged(audit.ActionUpdate, AuditModule, user.ID, user.Username, userID).
			WithChanges(map[string]interface{}{"operation": "change_password"}))
	return nil
}

// CreateUser registers a staff account with its role's default permissions
func (s *AuthService) CreateUser(ctx context.Context, req CreateUserRequest, actorID uuid.UUID) (*UserResponse, error) {
	if err := shared.RequireActor(actorID); err != nil {
		return nil, err
	}
	user, err := identity.NewUser(req.Username, req.Email, req.FullName, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	user.Phone = strings.TrimSpace(req.Phone)

	exists, err := s.users.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.WrapDomainError(shared.ErrAlreadyExists.Code, "Email already registered", shared.ErrAlreadyExists)
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	auditapp.Publish(ctx, s.eventPublisher, s.logger,
		audit.NewRecordChanged(audit.ActionCreate, AuditModule, user.ID, user.Username, actorID).
			WithChanges(map[string]interface{}{"role": user.Role}))

	resp := ToUserResponse(user)
	return &resp, nil
}
