package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vetclinic/backend/internal/bootstrap"
	"github.com/vetclinic/backend/internal/domain/identity"
	"github.com/vetclinic/backend/internal/infrastructure/auth"
	"github.com/vetclinic/backend/internal/infrastructure/config"
	"github.com/vetclinic/backend/internal/infrastructure/metrics"
	"github.com/vetclinic/backend/internal/interfaces/http/dto"
	"github.com/vetclinic/backend/internal/interfaces/http/handler"
	"github.com/vetclinic/backend/internal/interfaces/http/router"
	"github.com/vetclinic/backend/tests/testutil"
)

const testPassword = "clinic-pass-1"

type api struct {
	engine *gin.Engine
}

func newAPI(t *testing.T, configure ...func(*router.Options)) *api {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()

	jwt := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-that-is-long-enough-for-hs256",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "clinic-test",
	})
	testutil.SeedUser(t, db, "admin", testPassword, identity.RoleAdmin)
	testutil.SeedUser(t, db, "desk", testPassword, identity.RoleFrontdesk)

	m := metrics.New()
	services, err := bootstrap.NewServices(ctx, db, bootstrap.Deps{
		Logger:  zap.NewNop(),
		JWT:     jwt,
		Metrics: m,
	})
	require.NoError(t, err)

	opts := router.Options{
		HTTP:        config.HTTPConfig{MaxBodySize: 1 << 20},
		ServiceName: "clinic-test",
		JWT:         jwt,
		Metrics:     m,
		Audit:       services.Audit,
		Logger:      zap.NewNop(),
	}
	for _, fn := range configure {
		fn(&opts)
	}
	engine, stop := router.New(opts, services.Handlers(map[string]handler.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}))
	t.Cleanup(stop)
	return &api{engine: engine}
}

func (a *api) call(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *api) login(t *testing.T, email string) string {
	t.Helper()
	w := a.call(http.MethodPost, "/api/v1/auth/login", "", `{"email":"`+email+`","password":"`+testPassword+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.AccessToken)
	return resp.Data.AccessToken
}

func body(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAPI_HealthAndMetrics(t *testing.T) {
	a := newAPI(t)

	w := a.call(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = a.call(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "clinic_http_requests_total")
}

func TestAPI_RequiresToken(t *testing.T) {
	a := newAPI(t)

	w := a.call(http.MethodGet, "/api/v1/inventory", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, body(t, w).Error.Code)

	w = a.call(http.MethodGet, "/api/v1/inventory", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenInvalid, body(t, w).Error.Code)
}

func TestAPI_LoginRejectsBadPassword(t *testing.T) {
	a := newAPI(t)

	w := a.call(http.MethodPost, "/api/v1/auth/login", "", `{"email":"admin@clinic.test","password":"wrong-pass-9"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", body(t, w).Error.Code)
}

func TestAPI_PermissionsFollowRole(t *testing.T) {
	a := newAPI(t)
	desk := a.login(t, "desk@clinic.test")

	assert.Equal(t, http.StatusForbidden, a.call(http.MethodGet, "/api/v1/finance/expenses", desk, "").Code)
	assert.Equal(t, http.StatusForbidden, a.call(http.MethodGet, "/api/v1/audit-logs", desk, "").Code)
	assert.Equal(t, http.StatusOK, a.call(http.MethodGet, "/api/v1/invoices", desk, "").Code)

	w := a.call(http.MethodGet, "/api/v1/auth/me", desk, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Frontdesk", body(t, w).Data.(map[string]any)["role"])
}

func TestAPI_ChangesAndFailuresAreAudited(t *testing.T) {
	a := newAPI(t)
	admin := a.login(t, "admin@clinic.test")

	w := a.call(http.MethodPost, "/api/v1/inventory", admin,
		`{"code":"SYR-3ML","name":"Syringe 3ml","kind":"Product","unit_price":"12.50","reorder_threshold":20,"initial_quantity":100}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.call(http.MethodPost, "/api/v1/invoices", admin, `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = a.call(http.MethodGet, "/api/v1/audit-logs?module=Inventory&status=SUCCESS", admin, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := body(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)

	w = a.call(http.MethodGet, "/api/v1/audit-logs?module=Invoice&status=FAILED", admin, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp = body(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
}

func TestAPI_PublicBookingNeedsNoToken(t *testing.T) {
	a := newAPI(t)

	w := a.call(http.MethodPost, "/api/v1/public/book-appointment", "", `{"owner_name":"Ana"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", body(t, w).Error.Code)
}

func TestAPI_SupplierLifecycle(t *testing.T) {
	a := newAPI(t)
	admin := a.login(t, "admin@clinic.test")
	desk := a.login(t, "desk@clinic.test")

	w := a.call(http.MethodPost, "/api/v1/suppliers", admin, `{"name":"PetMed Supply","email":"orders@petmed.test"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data struct {
			ID       string `json:"id"`
			IsActive bool   `json:"is_active"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.Data.IsActive)

	w = a.call(http.MethodGet, "/api/v1/suppliers/active", admin, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "PetMed Supply")

	w = a.call(http.MethodGet, "/api/v1/suppliers/"+created.Data.ID, admin, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"purchase_order_count":0`)

	assert.Equal(t, http.StatusForbidden, a.call(http.MethodGet, "/api/v1/suppliers", desk, "").Code)

	assert.Equal(t, http.StatusNoContent, a.call(http.MethodDelete, "/api/v1/suppliers/"+created.Data.ID, admin, "").Code)
	assert.Equal(t, http.StatusNotFound, a.call(http.MethodGet, "/api/v1/suppliers/"+created.Data.ID, admin, "").Code)
}

func TestAPI_FrontdeskConfirmsBookedAppointment(t *testing.T) {
	a := newAPI(t)
	desk := a.login(t, "desk@clinic.test")

	w := a.call(http.MethodPost, "/api/v1/public/book-appointment", "", `{
		"owner_name":"Ana Cruz","owner_email":"ana@example.test","owner_phone":"09171234567",
		"pet_name":"Mochi","pet_species":"Cat","appointment_date":"2030-03-14","appointment_time":"10:30",
		"reason":"Vaccination"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var booked struct {
		Data struct {
			AppointmentID string `json:"appointment_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booked))

	for _, path := range []string{"/api/v1/clients", "/api/v1/patients", "/api/v1/appointments?status=Pending"} {
		w = a.call(http.MethodGet, path, desk, "")
		require.Equal(t, http.StatusOK, w.Code, path)
		meta := body(t, w).Meta
		require.NotNil(t, meta, path)
		assert.EqualValues(t, 1, meta.Total, path)
	}

	w = a.call(http.MethodPut, "/api/v1/appointments/"+booked.Data.AppointmentID+"/status", desk, `{"status":"Confirmed","notes":"called owner"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"Confirmed"`)
	assert.Contains(t, w.Body.String(), `"client_name":"Ana Cruz"`)

	w = a.call(http.MethodPut, "/api/v1/appointments/"+booked.Data.AppointmentID+"/status", desk, `{"status":"Confirmed"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAPI_SwaggerFollowsConfig(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		a := newAPI(t)
		assert.Equal(t, http.StatusNotFound, a.call(http.MethodGet, "/swagger/doc.json", "", "").Code)
	})

	t.Run("open", func(t *testing.T) {
		a := newAPI(t, func(o *router.Options) { o.Swagger = config.SwaggerConfig{Enabled: true} })

		w := a.call(http.MethodGet, "/swagger/doc.json", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		var doc struct {
			BasePath string         `json:"basePath"`
			Paths    map[string]any `json:"paths"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
		assert.Equal(t, "/api/v1", doc.BasePath)
		assert.Contains(t, doc.Paths, "/suppliers/{id}")
		assert.Contains(t, doc.Paths, "/appointments/{id}/status")
		assert.Contains(t, doc.Paths, "/public/book-appointment")
	})

	t.Run("behind sign-in", func(t *testing.T) {
		a := newAPI(t, func(o *router.Options) {
			o.Swagger = config.SwaggerConfig{Enabled: true, RequireAuth: true}
		})

		assert.Equal(t, http.StatusUnauthorized, a.call(http.MethodGet, "/swagger/doc.json", "", "").Code)
		token := a.login(t, "desk@clinic.test")
		assert.Equal(t, http.StatusOK, a.call(http.MethodGet, "/swagger/doc.json", token, "").Code)
	})
}
