package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser("Front.Desk", "Desk@Clinic.ph", "Front Desk", "secret123", RoleFrontdesk)
	require.NoError(t, err)
	assert.Equal(t, "front.desk", u.Username)
	assert.Equal(t, "desk@clinic.ph", u.Email)
	assert.True(t, u.IsActive)
	assert.True(t, u.VerifyPassword("secret123"))
	assert.False(t, u.VerifyPassword("secret124"))
	assert.True(t, u.HasPermission("invoices.create"))
	assert.False(t, u.HasPermission("users.manage"))
}

func TestNewUser_Validation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
		role     Role
	}{
		{"short username", "ab", "a@b.ph", "secret123", RoleAdmin},
		{"bad email", "admin", "nope", "secret123", RoleAdmin},
		{"weak password", "admin", "a@b.ph", "password", RoleAdmin},
		{"unknown role", "admin", "a@b.ph", "secret123", Role("Janitor")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.username, tt.email, "", tt.password, tt.role)
			assert.Error(t, err)
		})
	}
}

func TestUser_SetPasswordAndLogin(t *testing.T) {
	u, err := NewUser("admin", "admin@clinic.ph", "Admin", "secret123", RoleAdmin)
	require.NoError(t, err)

	require.NoError(t, u.SetPassword("another456"))
	assert.True(t, u.VerifyPassword("another456"))
	assert.Equal(t, 2, u.Version)

	at := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	u.RecordLoginSuccess(at)
	require.NotNil(t, u.LastLoginAt)
	assert.Equal(t, at, *u.LastLoginAt)

	u.Deactivate()
	assert.False(t, u.IsActive)
}

func TestDefaultPermissions_ReturnsCopy(t *testing.T) {
	perms := DefaultPermissions(RoleDoctor)
	perms[0] = "tampered"
	assert.NotEqual(t, "tampered", DefaultPermissions(RoleDoctor)[0])
}
