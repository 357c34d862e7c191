package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	auditapp "github.com/vetclinic/backend/internal/application/audit"
	"github.com/vetclinic/backend/internal/interfaces/http/dto"
)

// AuditHandler serves the audit trail
type AuditHandler struct {
	BaseHandler
	audit *auditapp.Service
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(audit *auditapp.Service) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List godoc
// @Summary      List audit entries
// @Description  Newest first
// @Tags         audit
// @Produce      json
// @Param        filter query auditapp.ListQuery false "Filters and paging"
// @Success      200 {object} dto.Response{data=[]auditapp.EntryResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	var q auditapp.ListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	entries, total, err := h.audit.List(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := q.Page()
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(entries, total, page, pageSize))
}

// Get godoc
// @Summary      Get audit entry
// @Tags         audit
// @Produce      json
// @Param        id path string true "Audit entry ID" format(uuid)
// @Success      200 {object} dto.Response{data=auditapp.EntryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /audit-logs/{id} [get]
func (h *AuditHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	entry, err := h.audit.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// ForRecord godoc
// @Summary      Audit history of one record
// @Tags         audit
// @Produce      json
// @Param        recordId path  string true "Record ID" format(uuid)
// @Param        limit    query int    false "Maximum entries"
// @Success      200 {object} dto.Response{data=[]auditapp.EntryResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /audit-logs/records/{recordId} [get]
func (h *AuditHandler) ForRecord(c *gin.Context) {
	recordID, ok := h.pathUUID(c, "recordId")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, total, err := h.audit.ForRecord(c.Request.Context(), recordID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(entries, total, 1, len(entries)))
}
