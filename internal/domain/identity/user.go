package identity

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vetclinic/backend/internal/domain/shared"
)

// Role names a staff role
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleDoctor    Role = "Doctor"
	RoleFrontdesk Role = "Frontdesk"
	RoleEmployee  Role = "Employee"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	_, ok := rolePermissions[r]
	return ok
}

var rolePermissions = map[Role][]string{
	RoleAdmin: {
		"clients.view", "clients.create", "clients.edit", "clients.delete",
		"appointments.view", "appointments.create", "appointments.edit", "appointments.delete",
		"inventory.view", "inventory.create", "inventory.edit", "inventory.delete",
		"invoices.view", "invoices.create", "invoices.edit", "invoices.delete",
		"procurement.view", "procurement.create", "procurement.edit", "procurement.delete",
		"finance.view", "finance.create", "finance.edit", "finance.delete",
		"employees.manage", "audit.view", "reports.view", "users.manage",
	},
	RoleDoctor: {
		"appointments.view", "appointments.edit", "inventory.view",
	},
	RoleFrontdesk: {
		"clients.view", "clients.create", "clients.edit",
		"appointments.view", "appointments.create", "appointments.edit",
		"invoices.view", "invoices.create",
	},
	RoleEmployee: {
		"clients.view", "appointments.view", "inventory.view",
	},
}

// DefaultPermissions returns a copy of the permissions granted to a role
func DefaultPermissions(r Role) []string {
	perms := rolePermissions[r]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// Password cost for bcrypt
const bcryptCost = 12

// User is a staff account that can sign in to the back office
type User struct {
	shared.BaseAggregateRoot
	Username     string
	Email        string
	FullName     string
	Phone        string
	PasswordHash string
	Role         Role
	Permissions  []string
	IsActive     bool
	LastLoginAt  *time.Time
}

// NewUser creates an active user with the role's default permissions
func NewUser(username, email, fullName, password string, role Role) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.WrapDomainError("INVALID_ROLE", "Unknown role", shared.ErrInvalidInput)
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          strings.ToLower(strings.TrimSpace(username)),
		Email:             email,
		FullName:          strings.TrimSpace(fullName),
		PasswordHash:      passwordHash,
		Role:              role,
		Permissions:       DefaultPermissions(role),
		IsActive:          true,
	}, nil
}

// SetPassword replaces the password hash
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = passwordHash
	u.Touch()
	u.IncrementVersion()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// RecordLoginSuccess records a successful login
func (u *User) RecordLoginSuccess(at time.Time) {
	at = at.UTC()
	u.LastLoginAt = &at
	u.Touch()
}

// Deactivate blocks further logins
func (u *User) Deactivate() {
	u.IsActive = false
	u.Touch()
	u.IncrementVersion()
}

// HasPermission reports whether the user holds perm
func (u *User) HasPermission(perm string) bool {
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	letterRegex   = regexp.MustCompile(`[a-zA-Z]`)
	numberRegex   = regexp.MustCompile(`[0-9]`)
)

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return shared.WrapDomainError("INVALID_USERNAME", "Username must be at least 3 characters", shared.ErrInvalidInput)
	}
	if len(username) > 100 {
		return shared.WrapDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters", shared.ErrInvalidInput)
	}
	if !usernameRegex.MatchString(username) {
		return shared.WrapDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, and dots", shared.ErrInvalidInput)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.WrapDomainError("INVALID_PASSWORD", "Password must be at least 8 characters", shared.ErrInvalidInput)
	}
	if len(password) > 72 {
		return shared.WrapDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters", shared.ErrInvalidInput)
	}
	if !letterRegex.MatchString(password) || !numberRegex.MatchString(password) {
		return shared.WrapDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number", shared.ErrInvalidInput)
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.WrapDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters", shared.ErrInvalidInput)
	}
	if !emailRegex.MatchString(email) {
		return shared.WrapDomainError("INVALID_EMAIL", "Invalid email format", shared.ErrInvalidInput)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// UserRepository persists staff accounts
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
}
