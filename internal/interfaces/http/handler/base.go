// Package handler adapts the application services to gin routes.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vetclinic/backend/internal/application/query"
	"github.com/vetclinic/backend/internal/infrastructure/logger"
	"github.com/vetclinic/backend/internal/interfaces/http/dto"
	"github.com/vetclinic/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	return logger.GetRequestID(c.Request.Context())
}

// actorID is the authenticated user, or uuid.Nil. Services refuse
// mutations without an actor.
func actorID(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(middleware.GetJWTUserID(c))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a page of results. page and pageSize are those the
// listing actually used.
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, q query.PageQuery) {
	f := q.Filter(nil)
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, f.Page, f.PageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	middleware.SetAuditError(c, message)
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// HandleError maps an application error to its response. Internal errors
// are logged with the request and answered with a generic message.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	status, code, message := dto.ErrorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.GetGinLogger(c).Error("request failed", zap.Error(err))
		_ = c.Error(err)
	}
	h.Error(c, status, code, message)
}

// bindJSON binds the body and answers 400 on failure
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.SetAuditError(c, "Request validation failed")
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// bindQuery binds the query string and answers 400 on failure
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// pathID parses the :id parameter and answers 400 when it is not a UUID
func (h *BaseHandler) pathID(c *gin.Context) (uuid.UUID, bool) {
	return h.pathUUID(c, "id")
}

func (h *BaseHandler) pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
