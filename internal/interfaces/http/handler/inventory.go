package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	invapp "github.com/vetclinic/backend/internal/application/inventory"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InventoryHandler serves the stock item catalog
type InventoryHandler struct {
	BaseHandler
	items *invapp.StockItemService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(items *invapp.StockItemService) *InventoryHandler {
	return &InventoryHandler{items: items}
}

// Create godoc
// @Summary      Create stock item
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body invapp.CreateStockItemRequest true "Request body"
// @Success      201 {object} dto.Response{data=invapp.StockItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory [post]
func (h *InventoryHandler) Create(c *gin.Context) {
	var req invapp.CreateStockItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.items.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// GetByID godoc
// @Summary      Get stock item
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Stock item ID" format(uuid)
// @Success      200 {object} dto.Response{data=invapp.StockItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/{id} [get]
func (h *InventoryHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	item, err := h.items.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// List godoc
// @Summary      List stock items
// @Tags         inventory
// @Produce      json
// @Param        filter query invapp.StockItemListFilter false "Filters and paging"
// @Success      200 {object} dto.Response{data=[]invapp.StockItemResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	var filter invapp.StockItemListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.items.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.PageQuery)
}

// Update godoc
// @Summary      Update stock item
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id      path string                        true "Stock item ID" format(uuid)
// @Param        request body invapp.UpdateStockItemRequest true "Request body"
// @Success      200 {object} dto.Response{data=invapp.StockItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/{id} [put]
func (h *InventoryHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req invapp.UpdateStockItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.items.Update(c.Request.Context(), id, req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete godoc
// @Summary      Delete stock item
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Stock item ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/{id} [delete]
func (h *InventoryHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.items.Delete(c.Request.Context(), id, actorID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// LowStock godoc
// @Summary      List low stock items
// @Description  Items at or below their reorder level
// @Tags         inventory
// @Produce      json
// @Success      200 {object} dto.Response{data=[]invapp.StockItemResponse}
// @Security     BearerAuth
// @Router       /inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *gin.Context) {
	items, err := h.items.LowStock(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// ExportLowStock godoc
// @Summary      Export low stock items
// @Description  Excel workbook of the low stock list. Failures are still answered as JSON.
// @Tags         inventory
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200 {file} file
// @Security     BearerAuth
// @Router       /inventory/low-stock/export [get]
func (h *InventoryHandler) ExportLowStock(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.items.ExportLowStock(c.Request.Context(), &buf); err != nil {
		h.HandleError(c, err)
		return
	}
	filename := fmt.Sprintf("low-stock-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
