package handler

import (
	"github.com/gin-gonic/gin"

	docapp "github.com/vetclinic/backend/internal/application/document"
)

// DocumentHandler serves invoices, walk-in invoices, purchase orders and
// receiving reports
type DocumentHandler struct {
	BaseHandler
	reconciler *docapp.Reconciler
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(reconciler *docapp.Reconciler) *DocumentHandler {
	return &DocumentHandler{reconciler: reconciler}
}

// CreateInvoice godoc
// @Summary      Create invoice
// @Description  Deducts stock for every line and issues the next invoice number in one transaction
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body docapp.CreateInvoiceRequest true "Request body"
// @Success      201 {object} dto.Response{data=docapp.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *DocumentHandler) CreateInvoice(c *gin.Context) {
	var req docapp.CreateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	inv, err := h.reconciler.CreateInvoice(c.Request.Context(), req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, inv)
}

// GetInvoice godoc
// @Summary      Get invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=docapp.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *DocumentHandler) GetInvoice(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	inv, err := h.reconciler.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// ListInvoices godoc
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        filter query docapp.InvoiceListFilter false "Filters and paging"
// @Success      200 {object} dto.Response{data=[]docapp.InvoiceResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *DocumentHandler) ListInvoices(c *gin.Context) {
	var filter docapp.InvoiceListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	invoices, total, err := h.reconciler.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, filter.PageQuery)
}

// UpdateInvoiceStatus godoc
// @Summary      Change invoice status
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id      path string                            true "Invoice ID" format(uuid)
// @Param        request body docapp.UpdateInvoiceStatusRequest true "Request body"
// @Success      200 {object} dto.Response{data=docapp.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id}/status [put]
func (h *DocumentHandler) UpdateInvoiceStatus(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req docapp.UpdateInvoiceStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	inv, err := h.reconciler.UpdateInvoiceStatus(c.Request.Context(), id, req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// DeleteInvoice godoc
// @Summary      Delete invoice
// @Description  Returns the stock its lines deducted
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id} [delete]
func (h *DocumentHandler) DeleteInvoice(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.reconciler.DeleteInvoice(c.Request.Context(), id, actorID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateWalkInInvoice godoc
// @Summary      Create walk-in invoice
// @Description  Deducts stock for every line
// @Tags         walk-in-invoices
// @Accept       json
// @Produce      json
// @Param        request body docapp.CreateWalkInInvoiceRequest true "Request body"
// @Success      201 {object} dto.Response{data=docapp.WalkInInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /walk-in-invoices [post]
func (h *DocumentHandler) CreateWalkInInvoice(c *gin.Context) {
	var req docapp.CreateWalkInInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	inv, err := h.reconciler.CreateWalkInInvoice(c.Request.Context(), req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, inv)
}

// GetWalkInInvoice godoc
// @Summary      Get walk-in invoice
// @Tags         walk-in-invoices
// @Produce      json
// @Param        id path string true "Walk-in invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=docapp.WalkInInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /walk-in-invoices/{id} [get]
func (h *DocumentHandler) GetWalkInInvoice(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	inv, err := h.reconciler.GetWalkInInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// ListWalkInInvoices godoc
// @Summary      List walk-in invoices
// @Tags         walk-in-invoices
// @Produce      json
// @Param        filter query docapp.WalkInInvoiceListFilter false "Filters and paging"
// @Success      200 {object} dto.Response{data=[]docapp.WalkInInvoiceResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /walk-in-invoices [get]
func (h *DocumentHandler) ListWalkInInvoices(c *gin.Context) {
	var filter docapp.WalkInInvoiceListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	invoices, total, err := h.reconciler.ListWalkInInvoices(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, filter.PageQuery)
}

// UpdateWalkInInvoice godoc
// @Summary      Update walk-in invoice
// @Description  Header fields only. Lines are fixed once issued.
// @Tags         walk-in-invoices
// @Accept       json
// @Produce      json
// @Param        id      path string                            true "Walk-in invoice ID" format(uuid)
// @Param        request body docapp.UpdateWalkInInvoiceRequest true "Request body"
// @Success      200 {object} dto.Response{data=docapp.WalkInInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /walk-in-invoices/{id} [put]
func (h *DocumentHandler) UpdateWalkInInvoice(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req docapp.UpdateWalkInInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	inv, err := h.reconciler.UpdateWalkInInvoice(c.Request.Context(), id, req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// PayWalkInInvoice godoc
// @Summary      Record walk-in payment
// @Tags         walk-in-invoices
// @Accept       json
// @Produce      json
// @Param        id      path string                         true "Walk-in invoice ID" format(uuid)
// @Param        request body docapp.PayWalkInInvoiceRequest true "Request body"
// @Success      200 {object} dto.Response{data=docapp.WalkInInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /walk-in-invoices/{id}/pay [post]
func (h *DocumentHandler) PayWalkInInvoice(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req docapp.PayWalkInInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	inv, err := h.reconciler.PayWalkInInvoice(c.Request.Context(), id, req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// DeleteWalkInInvoice godoc
// @Summary      Delete walk-in invoice
// @Description  Returns the stock its lines deducted
// @Tags         walk-in-invoices
// @Produce      json
// @Param        id path string true "Walk-in invoice ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /walk-in-invoices/{id} [delete]
func (h *DocumentHandler) DeleteWalkInInvoice(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.reconciler.DeleteWalkInInvoice(c.Request.Context(), id, actorID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreatePurchaseOrder godoc
// @Summary      Create purchase order
// @Description  The supplier must exist
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        request body docapp.CreatePurchaseOrderRequest true "Request body"
// @Success      201 {object} dto.Response{data=docapp.PurchaseOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders [post]
func (h *DocumentHandler) CreatePurchaseOrder(c *gin.Context) {
	var req docapp.CreatePurchaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	po, err := h.reconciler.CreatePurchaseOrder(c.Request.Context(), req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, po)
}

// GetPurchaseOrder godoc
// @Summary      Get purchase order
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      200 {object} dto.Response{data=docapp.PurchaseOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders/{id} [get]
func (h *DocumentHandler) GetPurchaseOrder(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	po, err := h.reconciler.GetPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// ListPurchaseOrders godoc
// @Summary      List purchase orders
// @Tags         purchase-orders
// @Produce      json
// @Param        filter query docapp.PurchaseOrderListFilter false "Filters and paging"
// @Success      200 {object} dto.Response{data=[]docapp.PurchaseOrderResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders [get]
func (h *DocumentHandler) ListPurchaseOrders(c *gin.Context) {
	var filter docapp.PurchaseOrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	orders, total, err := h.reconciler.ListPurchaseOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.PageQuery)
}

// UpdatePurchaseOrder godoc
// @Summary      Update purchase order
// @Description  Header fields only
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id      path string                            true "Purchase order ID" format(uuid)
// @Param        request body docapp.UpdatePurchaseOrderRequest true "Request body"
// @Success      200 {object} dto.Response{data=docapp.PurchaseOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders/{id} [put]
func (h *DocumentHandler) UpdatePurchaseOrder(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req docapp.UpdatePurchaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	po, err := h.reconciler.UpdatePurchaseOrder(c.Request.Context(), id, req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// ApprovePurchaseOrder godoc
// @Summary      Approve purchase order
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      200 {object} dto.Response{data=docapp.PurchaseOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/approve [post]
func (h *DocumentHandler) ApprovePurchaseOrder(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	po, err := h.reconciler.ApprovePurchaseOrder(c.Request.Context(), id, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// CancelPurchaseOrder godoc
// @Summary      Cancel purchase order
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      200 {object} dto.Response{data=docapp.PurchaseOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/cancel [post]
func (h *DocumentHandler) CancelPurchaseOrder(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	po, err := h.reconciler.CancelPurchaseOrder(c.Request.Context(), id, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// DeletePurchaseOrder godoc
// @Summary      Delete purchase order
// @Description  Refused while receiving reports reference it
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders/{id} [delete]
func (h *DocumentHandler) DeletePurchaseOrder(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.reconciler.DeletePurchaseOrder(c.Request.Context(), id, actorID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateReceivingReport godoc
// @Summary      Create receiving report
// @Description  Adds stock for every line and updates the received quantities of the purchase order it references. Quantities above the ordered amount are accepted.
// @Tags         receiving-reports
// @Accept       json
// @Produce      json
// @Param        request body docapp.CreateReceivingReportRequest true "Request body"
// @Success      201 {object} dto.Response{data=docapp.ReceivingReportResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /receiving-reports [post]
func (h *DocumentHandler) CreateReceivingReport(c *gin.Context) {
	var req docapp.CreateReceivingReportRequest
	if !h.bindJSON(c, &req) {
		return
	}
	rr, err := h.reconciler.CreateReceivingReport(c.Request.Context(), req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rr)
}

// GetReceivingReport godoc
// @Summary      Get receiving report
// @Tags         receiving-reports
// @Produce      json
// @Param        id path string true "Receiving report ID" format(uuid)
// @Success      200 {object} dto.Response{data=docapp.ReceivingReportResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /receiving-reports/{id} [get]
func (h *DocumentHandler) GetReceivingReport(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	rr, err := h.reconciler.GetReceivingReport(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rr)
}

// ListReceivingReports godoc
// @Summary      List receiving reports
// @Tags         receiving-reports
// @Produce      json
// @Param        filter query docapp.ReceivingReportListFilter false "Filters and paging"
// @Success      200 {object} dto.Response{data=[]docapp.ReceivingReportResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /receiving-reports [get]
func (h *DocumentHandler) ListReceivingReports(c *gin.Context) {
	var filter docapp.ReceivingReportListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	reports, total, err := h.reconciler.ListReceivingReports(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, reports, total, filter.PageQuery)
}

// DeleteReceivingReport godoc
// @Summary      Delete receiving report
// @Description  Takes back the stock it added
// @Tags         receiving-reports
// @Produce      json
// @Param        id path string true "Receiving report ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /receiving-reports/{id} [delete]
func (h *DocumentHandler) DeleteReceivingReport(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.reconciler.DeleteReceivingReport(c.Request.Context(), id, actorID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
