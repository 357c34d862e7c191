package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedRouter(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.DebugLevel)
	router := gin.New()
	router.Use(RequestID(), Recovery(zap.New(core)), GinMiddleware(zap.New(core)))
	return router, recorded
}

func requestLog(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	entries := recorded.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	return entries[0]
}

func TestGinMiddleware_LogsRouteAndStatus(t *testing.T) {
	router, recorded := newObservedRouter(t)
	router.POST("/api/v1/invoices/:id", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/42?expand=items", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	entry := requestLog(t, recorded)
	fields := entry.ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	assert.Equal(t, "/api/v1/invoices/:id", fields["route"])
	assert.Equal(t, "/api/v1/invoices/42", fields["path"])
	assert.Equal(t, "expand=items", fields["query"])
	assert.Equal(t, int64(http.StatusCreated), fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestGinMiddleware_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusTooManyRequests, zapcore.WarnLevel},
		{http.StatusInternalServerError, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			router, recorded := newObservedRouter(t)
			router.GET("/x", func(c *gin.Context) { c.Status(tt.status) })

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, tt.level, requestLog(t, recorded).Level)
		})
	}
}

func TestRequestID_KeepsValidInboundID(t *testing.T) {
	router, _ := newObservedRouter(t)
	var seen string
	router.GET("/x", func(c *gin.Context) {
		seen = GetRequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	inbound := uuid.NewString()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, inbound)
	router.ServeHTTP(w, req)

	assert.Equal(t, inbound, seen)
	assert.Equal(t, inbound, w.Header().Get(RequestIDHeader))
}

func TestRequestID_ReplacesMalformedID(t *testing.T) {
	router, _ := newObservedRouter(t)
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	router.ServeHTTP(w, req)

	got := w.Header().Get(RequestIDHeader)
	assert.NotEqual(t, "<script>", got)
	_, err := uuid.Parse(got)
	assert.NoError(t, err)
}

func TestGinMiddleware_LogsActorSetDownstream(t *testing.T) {
	router, recorded := newObservedRouter(t)
	router.GET("/x", func(c *gin.Context) {
		ctx, _ := WithActor(c.Request.Context(), GetGinLogger(c), "user-7", "doctor")
		c.Request = c.Request.WithContext(ctx)
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, "user-7", requestLog(t, recorded).ContextMap()["actor_id"])
}

func TestRecovery(t *testing.T) {
	router, recorded := newObservedRouter(t)
	router.GET("/panic", func(c *gin.Context) { panic("ledger exploded") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"INTERNAL_ERROR"`)
	require.Equal(t, 1, recorded.FilterMessage("Panic recovered").Len())
}

func TestGetGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, GetGinLogger(c))

	l := zap.NewExample()
	c.Set(ginLoggerKey, l)
	assert.Same(t, l, GetGinLogger(c))

	c.Set(ginLoggerKey, "not a logger")
	assert.NotNil(t, GetGinLogger(c))
}
