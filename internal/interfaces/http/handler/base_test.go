package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vetclinic/backend/internal/application/query"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/infrastructure/logger"
	"github.com/vetclinic/backend/internal/interfaces/http/dto"
	"github.com/vetclinic/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

// setActor sets the values the JWT middleware leaves on an authenticated request
func setActor(c *gin.Context, userID uuid.UUID) {
	c.Set(middleware.JWTUserIDKey, userID.String())
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	c, _ := newContext()
	assert.Empty(t, getRequestID(c))

	ctx, _ := logger.WithRequestID(c.Request.Context(), zap.NewNop(), "req-42")
	c.Request = c.Request.WithContext(ctx)
	assert.Equal(t, "req-42", getRequestID(c))
}

func TestActorID(t *testing.T) {
	c, _ := newContext()
	assert.Equal(t, uuid.Nil, actorID(c))

	c.Set(middleware.JWTUserIDKey, "not-a-uuid")
	assert.Equal(t, uuid.Nil, actorID(c))

	id := uuid.New()
	setActor(c, id)
	assert.Equal(t, id, actorID(c))
}

func TestBaseHandler_Success(t *testing.T) {
	h := &BaseHandler{}
	c, w := newContext()

	h.Success(c, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode(t, w).Success)
}

func TestBaseHandler_SuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}

	t.Run("explicit page", func(t *testing.T) {
		c, w := newContext()
		h.SuccessWithMeta(c, []string{"a", "b"}, 45, query.PageQuery{Page: 2, PageSize: 20})

		resp := decode(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(45), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.Page)
		assert.Equal(t, 20, resp.Meta.PageSize)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("defaults are reported", func(t *testing.T) {
		c, w := newContext()
		h.SuccessWithMeta(c, []string{}, 0, query.PageQuery{})

		resp := decode(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, 1, resp.Meta.Page)
		assert.Positive(t, resp.Meta.PageSize)
	})
}

func TestBaseHandler_CreatedAndNoContent(t *testing.T) {
	h := &BaseHandler{}
	router := gin.New()
	router.POST("/items", func(c *gin.Context) { h.Created(c, gin.H{"id": "123"}) })
	router.DELETE("/items", func(c *gin.Context) { h.NoContent(c) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/items", nil))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/items", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestBaseHandler_BadRequestCarriesRequestID(t *testing.T) {
	h := &BaseHandler{}
	c, w := newContext()
	ctx, _ := logger.WithRequestID(c.Request.Context(), zap.NewNop(), "req-7")
	c.Request = c.Request.WithContext(ctx)

	h.BadRequest(c, "Invalid request")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	assert.Equal(t, "req-7", resp.Error.RequestID)
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"already exists", shared.ErrAlreadyExists, http.StatusConflict, "ALREADY_EXISTS"},
		{"invalid input", shared.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
		{"invalid state", shared.ErrInvalidState, http.StatusUnprocessableEntity, "INVALID_STATE"},
		{"insufficient stock", shared.ErrInsufficientStock, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
		{"rate limited", shared.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"duplicate number", shared.ErrDuplicateNumber, http.StatusConflict, "DUPLICATE_DOCUMENT_NUMBER"},
		{"missing actor", shared.ErrMissingActor, http.StatusBadRequest, "MISSING_ACTOR"},
		{
			"wrapped domain error keeps its sentinel status",
			shared.WrapDomainError("PO_NOT_APPROVED", "Purchase order is not approved", shared.ErrInvalidState),
			http.StatusUnprocessableEntity, "PO_NOT_APPROVED",
		},
		{
			"plain error inside fmt wrap",
			fmt.Errorf("load: %w", shared.ErrNotFound),
			http.StatusNotFound, "NOT_FOUND",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newContext()

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestBaseHandler_HandleErrorHidesInternalDetail(t *testing.T) {
	h := &BaseHandler{}
	c, w := newContext()

	h.HandleError(c, errors.New("pq: connection reset by peer"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
	assert.Len(t, c.Errors, 1)
}

func TestBaseHandler_HandleNilError(t *testing.T) {
	h := &BaseHandler{}
	c, w := newContext()

	h.HandleError(c, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestBaseHandler_PathID(t *testing.T) {
	h := &BaseHandler{}
	router := gin.New()
	var got uuid.UUID
	router.GET("/items/:id", func(c *gin.Context) {
		id, ok := h.pathID(c)
		if !ok {
			return
		}
		got = id
		h.Success(c, nil)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/nope", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid id", decode(t, w).Error.Message)

	id := uuid.New()
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/"+id.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, got)
}
