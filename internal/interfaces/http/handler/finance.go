package handler

import (
	"github.com/gin-gonic/gin"

	finapp "github.com/vetclinic/backend/internal/application/finance"
)

// FinanceHandler serves expenses and client credit deposits
type FinanceHandler struct {
	BaseHandler
	expenses *finapp.ExpenseService
	deposits *finapp.CreditDepositService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(expenses *finapp.ExpenseService, deposits *finapp.CreditDepositService) *FinanceHandler {
	return &FinanceHandler{expenses: expenses, deposits: deposits}
}

// CreateExpense godoc
// @Summary      Create expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body finapp.ExpenseRequest true "Request body"
// @Success      201 {object} dto.Response{data=finapp.ExpenseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/expenses [post]
func (h *FinanceHandler) CreateExpense(c *gin.Context) {
	var req finapp.ExpenseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	exp, err := h.expenses.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, exp)
}

// GetExpense godoc
// @Summary      Get expense
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Success      200 {object} dto.Response{data=finapp.ExpenseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/expenses/{id} [get]
func (h *FinanceHandler) GetExpense(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	exp, err := h.expenses.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, exp)
}

// ListExpenses godoc
// @Summary      List expenses
// @Tags         expenses
// @Produce      json
// @Param        filter query finapp.ExpenseListFilter false "Filters and paging"
// @Success      200 {object} dto.Response{data=[]finapp.ExpenseResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/expenses [get]
func (h *FinanceHandler) ListExpenses(c *gin.Context) {
	var filter finapp.ExpenseListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, total, err := h.expenses.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.PageQuery)
}

// UpdateExpense godoc
// @Summary      Update expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id      path string                true "Expense ID" format(uuid)
// @Param        request body finapp.ExpenseRequest true "Request body"
// @Success      200 {object} dto.Response{data=finapp.ExpenseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/expenses/{id} [put]
func (h *FinanceHandler) UpdateExpense(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req finapp.ExpenseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	exp, err := h.expenses.Update(c.Request.Context(), id, req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, exp)
}

// DeleteExpense godoc
// @Summary      Delete expense
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/expenses/{id} [delete]
func (h *FinanceHandler) DeleteExpense(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.expenses.Delete(c.Request.Context(), id, actorID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ExpenseStats godoc
// @Summary      Expense totals
// @Description  Totals by category over an optional date range
// @Tags         expenses
// @Produce      json
// @Param        filter query finapp.StatsQuery false "Filters and paging"
// @Success      200 {object} dto.Response{data=finapp.ExpenseStatsResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/expenses/stats [get]
func (h *FinanceHandler) ExpenseStats(c *gin.Context) {
	var q finapp.StatsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	stats, err := h.expenses.Stats(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// ExpenseCategories godoc
// @Summary      List expense categories
// @Tags         expenses
// @Produce      json
// @Success      200 {object} dto.Response{data=[]string}
// @Security     BearerAuth
// @Router       /finance/expenses/categories [get]
func (h *FinanceHandler) ExpenseCategories(c *gin.Context) {
	h.Success(c, h.expenses.Categories())
}

// CreateDeposit godoc
// @Summary      Create credit deposit
// @Tags         credit-deposits
// @Accept       json
// @Produce      json
// @Param        request body finapp.CreateCreditDepositRequest true "Request body"
// @Success      201 {object} dto.Response{data=finapp.CreditDepositResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/credit-deposits [post]
func (h *FinanceHandler) CreateDeposit(c *gin.Context) {
	var req finapp.CreateCreditDepositRequest
	if !h.bindJSON(c, &req) {
		return
	}
	dep, err := h.deposits.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dep)
}

// GetDeposit godoc
// @Summary      Get credit deposit
// @Tags         credit-deposits
// @Produce      json
// @Param        id path string true "Credit deposit ID" format(uuid)
// @Success      200 {object} dto.Response{data=finapp.CreditDepositResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/credit-deposits/{id} [get]
func (h *FinanceHandler) GetDeposit(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	dep, err := h.deposits.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dep)
}

// ListDeposits godoc
// @Summary      List credit deposits
// @Tags         credit-deposits
// @Produce      json
// @Param        filter query finapp.CreditDepositListFilter false "Filters and paging"
// @Success      200 {object} dto.Response{data=[]finapp.CreditDepositResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/credit-deposits [get]
func (h *FinanceHandler) ListDeposits(c *gin.Context) {
	var filter finapp.CreditDepositListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, total, err := h.deposits.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.PageQuery)
}

// ClientBalance godoc
// @Summary      Client credit balance
// @Tags         credit-deposits
// @Produce      json
// @Param        clientId path string true "Client ID" format(uuid)
// @Success      200 {object} dto.Response{data=finapp.ClientBalanceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/clients/{clientId}/balance [get]
func (h *FinanceHandler) ClientBalance(c *gin.Context) {
	clientID, ok := h.pathUUID(c, "clientId")
	if !ok {
		return
	}
	balance, err := h.deposits.ClientBalance(c.Request.Context(), clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// ApplyDeposit godoc
// @Summary      Apply credit deposit
// @Tags         credit-deposits
// @Accept       json
// @Produce      json
// @Param        id      path string                           true "Credit deposit ID" format(uuid)
// @Param        request body finapp.ApplyCreditDepositRequest true "Request body"
// @Success      200 {object} dto.Response{data=finapp.CreditDepositResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/credit-deposits/{id}/apply [post]
func (h *FinanceHandler) ApplyDeposit(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req finapp.ApplyCreditDepositRequest
	if !h.bindJSON(c, &req) {
		return
	}
	dep, err := h.deposits.Apply(c.Request.Context(), id, req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dep)
}

// RefundDeposit godoc
// @Summary      Refund credit deposit
// @Tags         credit-deposits
// @Produce      json
// @Param        id path string true "Credit deposit ID" format(uuid)
// @Success      200 {object} dto.Response{data=finapp.CreditDepositResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/credit-deposits/{id}/refund [post]
func (h *FinanceHandler) RefundDeposit(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	dep, err := h.deposits.Refund(c.Request.Context(), id, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dep)
}

// DeleteDeposit godoc
// @Summary      Delete credit deposit
// @Tags         credit-deposits
// @Produce      json
// @Param        id path string true "Credit deposit ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/credit-deposits/{id} [delete]
func (h *FinanceHandler) DeleteDeposit(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.deposits.Delete(c.Request.Context(), id, actorID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// DepositStats godoc
// @Summary      Credit deposit totals
// @Tags         credit-deposits
// @Produce      json
// @Param        filter query finapp.StatsQuery false "Filters and paging"
// @Success      200 {object} dto.Response{data=finapp.DepositStatsResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/credit-deposits/stats [get]
func (h *FinanceHandler) DepositStats(c *gin.Context) {
	var q finapp.StatsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	stats, err := h.deposits.Stats(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
