package handler

import (
	"github.com/gin-gonic/gin"

	staffapp "github.com/vetclinic/backend/internal/application/staff"
)

// EmployeeHandler serves employee profiles
type EmployeeHandler struct {
	BaseHandler
	employees *staffapp.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employees *staffapp.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

// Create godoc
// @Summary      Create employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        request body staffapp.CreateEmployeeRequest true "Request body"
// @Success      201 {object} dto.Response{data=staffapp.EmployeeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req staffapp.CreateEmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	emp, err := h.employees.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, emp)
}

// GetByID godoc
// @Summary      Get employee
// @Tags         employees
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Success      200 {object} dto.Response{data=staffapp.EmployeeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /employees/{id} [get]
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	emp, err := h.employees.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, emp)
}

// List godoc
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Param        filter query staffapp.EmployeeListFilter false "Filters and paging"
// @Success      200 {object} dto.Response{data=[]staffapp.EmployeeResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	var filter staffapp.EmployeeListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, total, err := h.employees.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.PageQuery)
}

// Update godoc
// @Summary      Update employee profile
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id      path string                  true "Employee ID" format(uuid)
// @Param        request body staffapp.ProfileRequest true "Request body"
// @Success      200 {object} dto.Response{data=staffapp.EmployeeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req staffapp.ProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	emp, err := h.employees.Update(c.Request.Context(), id, req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, emp)
}

// SetStatus godoc
// @Summary      Set employment status
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id      path string                    true "Employee ID" format(uuid)
// @Param        request body staffapp.SetStatusRequest true "Request body"
// @Success      200 {object} dto.Response{data=staffapp.EmployeeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /employees/{id}/status [put]
func (h *EmployeeHandler) SetStatus(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req staffapp.SetStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	emp, err := h.employees.SetStatus(c.Request.Context(), id, req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, emp)
}

// Deactivate godoc
// @Summary      Deactivate employee
// @Tags         employees
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Success      200 {object} dto.Response{data=staffapp.EmployeeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /employees/{id}/deactivate [post]
func (h *EmployeeHandler) Deactivate(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	emp, err := h.employees.Deactivate(c.Request.Context(), id, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, emp)
}

// Delete godoc
// @Summary      Delete employee
// @Tags         employees
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.employees.Delete(c.Request.Context(), id, actorID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Stats godoc
// @Summary      Employee headcount
// @Tags         employees
// @Produce      json
// @Success      200 {object} dto.Response{data=staffapp.StatsResponse}
// @Security     BearerAuth
// @Router       /employees/stats [get]
func (h *EmployeeHandler) Stats(c *gin.Context) {
	stats, err := h.employees.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Departments godoc
// @Summary      List departments
// @Tags         employees
// @Produce      json
// @Success      200 {object} dto.Response{data=[]string}
// @Security     BearerAuth
// @Router       /employees/departments [get]
func (h *EmployeeHandler) Departments(c *gin.Context) {
	h.Success(c, h.employees.Departments())
}
