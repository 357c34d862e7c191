package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetclinic/backend/internal/domain/identity"
	"github.com/vetclinic/backend/internal/infrastructure/auth"
	"github.com/vetclinic/backend/internal/interfaces/http/dto"
)

func tokenForRole(t *testing.T, svc *auth.JWTService, role identity.Role) string {
	t.Helper()
	token, err := svc.GenerateAccessToken(auth.GenerateTokenInput{
		UserID:      uuid.New(),
		Username:    string(role),
		Role:        string(role),
		Permissions: identity.DefaultPermissions(role),
	})
	require.NoError(t, err)
	return BearerPrefix + token.Token
}

func TestRequirePermission_ByRole(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)

	tests := []struct {
		role       identity.Role
		permission string
		want       int
	}{
		{identity.RoleAdmin, "finance.view", http.StatusOK},
		{identity.RoleFrontdesk, "invoices.create", http.StatusOK},
		{identity.RoleFrontdesk, "finance.view", http.StatusForbidden},
		{identity.RoleDoctor, "inventory.view", http.StatusOK},
		{identity.RoleEmployee, "procurement.create", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+" "+tt.permission, func(t *testing.T) {
			router := gin.New()
			router.Use(JWTAuthMiddleware(svc))
			router.GET("/guarded", RequirePermission(tt.permission), okHandler)

			rec := serve(router, http.MethodGet, "/guarded", tokenForRole(t, svc, tt.role))

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusForbidden {
				assert.Equal(t, dto.ErrCodeForbidden, errorCode(t, rec))
			}
		})
	}
}

func TestRequirePermission_WithoutClaims(t *testing.T) {
	router := gin.New()
	router.GET("/guarded", RequirePermission("audit.view"), okHandler)

	rec := serve(router, http.MethodGet, "/guarded", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAnyPermission(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	router := gin.New()
	router.Use(JWTAuthMiddleware(svc))
	router.GET("/either", RequireAnyPermission("finance.view", "invoices.view"), okHandler)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/either", tokenForRole(t, svc, identity.RoleFrontdesk)).Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodGet, "/either", tokenForRole(t, svc, identity.RoleDoctor)).Code)
}

func TestRequireRole(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	router := gin.New()
	router.Use(JWTAuthMiddleware(svc))
	router.GET("/admin", RequireRole(string(identity.RoleAdmin)), okHandler)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/admin", tokenForRole(t, svc, identity.RoleAdmin)).Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodGet, "/admin", tokenForRole(t, svc, identity.RoleDoctor)).Code)
}

func TestRequirePermission_OnDenied(t *testing.T) {
	var required []string
	router := gin.New()
	router.GET("/guarded", RequirePermissionWithConfig("users.manage", PermissionConfig{
		OnDenied: func(c *gin.Context, perms []string) {
			required = perms
			c.AbortWithStatus(http.StatusTeapot)
		},
	}), okHandler)

	rec := serve(router, http.MethodGet, "/guarded", "")

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, []string{"users.manage"}, required)
}

func TestHasPermission(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	var canExport, canManage bool
	router := gin.New()
	router.Use(JWTAuthMiddleware(svc))
	router.GET("/check", func(c *gin.Context) {
		canExport = HasPermission(c, "inventory.view")
		canManage = HasPermission(c, "users.manage")
		okHandler(c)
	})

	serve(router, http.MethodGet, "/check", tokenForRole(t, svc, identity.RoleDoctor))

	assert.True(t, canExport)
	assert.False(t, canManage)
}
