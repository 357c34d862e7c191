package handler

import (
	"github.com/gin-gonic/gin"

	procapp "github.com/vetclinic/backend/internal/application/procurement"
)

// SupplierHandler serves supplier records
type SupplierHandler struct {
	BaseHandler
	suppliers *procapp.SupplierService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(suppliers *procapp.SupplierService) *SupplierHandler {
	return &SupplierHandler{suppliers: suppliers}
}

// List godoc
// @Summary      List suppliers
// @Description  Search matches name, contact person and email. Ordered by name unless order_by is given.
// @Tags         suppliers
// @Produce      json
// @Param        search     query string false "Name, contact or email"
// @Param        active     query string false "true or false"
// @Param        page       query int    false "Page number"
// @Param        page_size  query int    false "Page size"
// @Param        order_by   query string false "Sort field"
// @Param        order_dir  query string false "asc or desc"
// @Success      200 {object} dto.Response{data=[]procapp.SupplierResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /suppliers [get]
func (h *SupplierHandler) List(c *gin.Context) {
	var filter procapp.SupplierListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, total, err := h.suppliers.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.PageQuery)
}

// Active godoc
// @Summary      List active suppliers
// @Description  Every active supplier by name, for order entry
// @Tags         suppliers
// @Produce      json
// @Success      200 {object} dto.Response{data=[]procapp.SupplierResponse}
// @Security     BearerAuth
// @Router       /suppliers/active [get]
func (h *SupplierHandler) Active(c *gin.Context) {
	list, err := h.suppliers.Active(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// GetByID godoc
// @Summary      Get supplier
// @Description  The supplier with document counts and its five latest purchase orders and receiving reports
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} dto.Response{data=procapp.SupplierDetailResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /suppliers/{id} [get]
func (h *SupplierHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	supplier, err := h.suppliers.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Create godoc
// @Summary      Create supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        request body procapp.SupplierRequest true "Supplier"
// @Success      201 {object} dto.Response{data=procapp.SupplierResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /suppliers [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	var req procapp.SupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	supplier, err := h.suppliers.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// Update godoc
// @Summary      Update supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id      path string                  true "Supplier ID" format(uuid)
// @Param        request body procapp.SupplierRequest true "Supplier"
// @Success      200 {object} dto.Response{data=procapp.SupplierResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /suppliers/{id} [put]
func (h *SupplierHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req procapp.SupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	supplier, err := h.suppliers.Update(c.Request.Context(), id, req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Delete godoc
// @Summary      Delete supplier
// @Description  Refused with 422 while purchase orders or receiving reports name the supplier
// @Tags         suppliers
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /suppliers/{id} [delete]
func (h *SupplierHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.suppliers.Delete(c.Request.Context(), id, actorID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
