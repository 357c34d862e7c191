package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/vetclinic/backend/internal/infrastructure/config"
)

func TestSwaggerProtection(t *testing.T) {
	jwtService := newTestJWTService(time.Hour)
	token, _ := newTestToken(t, jwtService)
	requireToken := JWTAuthMiddleware(jwtService)

	tests := []struct {
		name       string
		cfg        config.SwaggerConfig
		authHeader string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "disabled answers not found",
			cfg:        config.SwaggerConfig{Enabled: false},
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "enabled without restrictions",
			cfg:        config.SwaggerConfig{Enabled: true},
			wantStatus: http.StatusOK,
		},
		{
			// httptest requests come from 192.0.2.1
			name:       "address inside an allowed range",
			cfg:        config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"192.0.2.0/24"}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "exact allowed address",
			cfg:        config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.1", "192.0.2.1"}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "address outside the allow list",
			cfg:        config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8", "not-an-ip"}},
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name:       "auth required and token missing",
			cfg:        config.SwaggerConfig{Enabled: true, RequireAuth: true},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "auth required and token valid",
			cfg:        config.SwaggerConfig{Enabled: true, RequireAuth: true},
			authHeader: BearerPrefix + token,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/swagger/*any", SwaggerProtection(tt.cfg, requireToken), okHandler)

			rec := serve(router, http.MethodGet, "/swagger/index.html", tt.authHeader)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, rec))
			}
		})
	}
}
