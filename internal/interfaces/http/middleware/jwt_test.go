package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetclinic/backend/internal/infrastructure/auth"
	"github.com/vetclinic/backend/internal/infrastructure/config"
	"github.com/vetclinic/backend/internal/infrastructure/logger"
	"github.com/vetclinic/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: expiration,
		Issuer:                "vetclinic-test",
	})
}

func newTestToken(t *testing.T, svc *auth.JWTService) (string, auth.GenerateTokenInput) {
	t.Helper()
	input := auth.GenerateTokenInput{
		UserID:      uuid.New(),
		Username:    "frontdesk1",
		Role:        "Frontdesk",
		Permissions: []string{"invoices.view", "invoices.create"},
	}
	token, err := svc.GenerateAccessToken(input)
	require.NoError(t, err)
	return token.Token, input
}

func okHandler(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) }

func serve(router *gin.Engine, method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set(AuthHeaderKey, authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.False(t, body.Success)
	return body.Error.Code
}

func TestJWTAuthMiddleware_ValidTokenSetsActor(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	token, input := newTestToken(t, svc)

	router := gin.New()
	router.Use(JWTAuthMiddleware(svc))
	router.GET("/api/v1/invoices", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, input.UserID.String(), claims.UserID)
		assert.Equal(t, input.UserID.String(), GetJWTUserID(c))
		assert.Equal(t, "frontdesk1", GetJWTUsername(c))
		assert.Equal(t, "Frontdesk", GetJWTRole(c))
		assert.Equal(t, input.Permissions, GetJWTPermissions(c))
		assert.Equal(t, input.UserID.String(), logger.GetActorID(c.Request.Context()))
		assert.Equal(t, "Frontdesk", logger.GetRole(c.Request.Context()))
		okHandler(c)
	})

	rec := serve(router, http.MethodGet, "/api/v1/invoices", BearerPrefix+token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	expired, _ := newTestToken(t, newTestJWTService(-time.Minute))
	otherIssuer := auth.NewJWTService(config.JWTConfig{
		Secret:                "another-secret-key-at-least-32-chars",
		AccessTokenExpiration: time.Minute,
		Issuer:                "someone-else",
	})
	foreign, _ := newTestToken(t, otherIssuer)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"wrong scheme", "Basic dXNlcjpwYXNz", dto.ErrCodeTokenInvalid},
		{"empty token", BearerPrefix, dto.ErrCodeTokenInvalid},
		{"garbage token", BearerPrefix + "not.a.jwt", dto.ErrCodeTokenInvalid},
		{"expired token", BearerPrefix + expired, dto.ErrCodeTokenExpired},
		{"foreign token", BearerPrefix + foreign, dto.ErrCodeTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(JWTAuthMiddleware(svc))
			router.GET("/api/v1/invoices", okHandler)

			rec := serve(router, http.MethodGet, "/api/v1/invoices", tt.header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
}

func TestJWTAuthMiddleware_DefaultSkipPaths(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	router := gin.New()
	router.Use(JWTAuthMiddleware(svc))
	for _, path := range []string{"/health", "/metrics", "/api/v1/auth/login", "/api/v1/public/appointments"} {
		router.Any(path, okHandler)
	}

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/metrics", "").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/api/v1/auth/login", "").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/api/v1/public/appointments", "").Code)
}

func TestJWTAuthMiddleware_CustomOnError(t *testing.T) {
	var got error
	cfg := DefaultJWTConfig(newTestJWTService(time.Minute))
	cfg.OnError = func(c *gin.Context, err error) {
		got = err
		c.AbortWithStatus(http.StatusTeapot)
	}
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/private", okHandler)

	rec := serve(router, http.MethodGet, "/private", BearerPrefix+"bad")

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.ErrorIs(t, got, auth.ErrInvalidToken)
}

func TestGetters_WithoutAuthentication(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUserID(c))
	assert.Empty(t, GetJWTUsername(c))
	assert.Empty(t, GetJWTRole(c))
	assert.Nil(t, GetJWTPermissions(c))
}

func TestOptionalJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	token, input := newTestToken(t, svc)

	var seen string
	router := gin.New()
	router.Use(OptionalJWTAuthMiddleware(svc))
	router.GET("/maybe", func(c *gin.Context) {
		seen = GetJWTUserID(c)
		okHandler(c)
	})

	rec := serve(router, http.MethodGet, "/maybe", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, seen)

	rec = serve(router, http.MethodGet, "/maybe", BearerPrefix+"bad")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, seen)

	rec = serve(router, http.MethodGet, "/maybe", BearerPrefix+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, input.UserID.String(), seen)
}
