package handler

import (
	"github.com/gin-gonic/gin"

	clinicapp "github.com/vetclinic/backend/internal/application/clinic"
)

// ClinicHandler serves the client, patient and appointment records to staff
type ClinicHandler struct {
	BaseHandler
	records *clinicapp.RecordService
}

// NewClinicHandler creates a new ClinicHandler
func NewClinicHandler(records *clinicapp.RecordService) *ClinicHandler {
	return &ClinicHandler{records: records}
}

// ListClients godoc
// @Summary      List clients
// @Description  Search matches name, email and phone
// @Tags         clients
// @Produce      json
// @Param        search     query string false "Name, email or phone"
// @Param        verified   query string false "true or false"
// @Param        page       query int    false "Page number"
// @Param        page_size  query int    false "Page size"
// @Success      200 {object} dto.Response{data=[]clinicapp.ClientResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients [get]
func (h *ClinicHandler) ListClients(c *gin.Context) {
	var filter clinicapp.ClientListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, total, err := h.records.ListClients(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.PageQuery)
}

// GetClient godoc
// @Summary      Get client
// @Description  The client with their pets
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Success      200 {object} dto.Response{data=clinicapp.ClientDetailResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients/{id} [get]
func (h *ClinicHandler) GetClient(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	client, err := h.records.GetClient(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// VerifyClientEmail godoc
// @Summary      Confirm client email
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Success      200 {object} dto.Response{data=clinicapp.ClientResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients/{id}/confirm-email [post]
func (h *ClinicHandler) VerifyClientEmail(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	client, err := h.records.VerifyClientEmail(c.Request.Context(), id, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// ListPatients godoc
// @Summary      List patients
// @Tags         patients
// @Produce      json
// @Param        search     query string false "Name or breed"
// @Param        client_id  query string false "Owner" format(uuid)
// @Param        species    query string false "Species"
// @Param        page       query int    false "Page number"
// @Param        page_size  query int    false "Page size"
// @Success      200 {object} dto.Response{data=[]clinicapp.PatientResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /patients [get]
func (h *ClinicHandler) ListPatients(c *gin.Context) {
	var filter clinicapp.PatientListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, total, err := h.records.ListPatients(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.PageQuery)
}

// GetPatient godoc
// @Summary      Get patient
// @Description  The patient with the owner and latest appointments
// @Tags         patients
// @Produce      json
// @Param        id path string true "Patient ID" format(uuid)
// @Success      200 {object} dto.Response{data=clinicapp.PatientDetailResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /patients/{id} [get]
func (h *ClinicHandler) GetPatient(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	patient, err := h.records.GetPatient(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, patient)
}

// ListAppointments godoc
// @Summary      List appointments
// @Description  Earliest first unless order_dir is given
// @Tags         appointments
// @Produce      json
// @Param        status     query string false "Pending, Confirmed, Completed or Cancelled"
// @Param        patient_id query string false "Patient" format(uuid)
// @Param        from       query string false "From date (YYYY-MM-DD)"
// @Param        to         query string false "To date (YYYY-MM-DD)"
// @Param        page       query int    false "Page number"
// @Param        page_size  query int    false "Page size"
// @Success      200 {object} dto.Response{data=[]clinicapp.AppointmentResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /appointments [get]
func (h *ClinicHandler) ListAppointments(c *gin.Context) {
	var filter clinicapp.AppointmentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, total, err := h.records.ListAppointments(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.PageQuery)
}

// GetAppointment godoc
// @Summary      Get appointment
// @Tags         appointments
// @Produce      json
// @Param        id path string true "Appointment ID" format(uuid)
// @Success      200 {object} dto.Response{data=clinicapp.AppointmentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /appointments/{id} [get]
func (h *ClinicHandler) GetAppointment(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	appt, err := h.records.GetAppointment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appt)
}

// UpdateAppointmentStatus godoc
// @Summary      Change appointment status
// @Description  Pending moves to Confirmed or Cancelled, Confirmed to Completed or Cancelled
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        id      path string                                   true "Appointment ID" format(uuid)
// @Param        request body clinicapp.UpdateAppointmentStatusRequest true "New status"
// @Success      200 {object} dto.Response{data=clinicapp.AppointmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /appointments/{id}/status [put]
func (h *ClinicHandler) UpdateAppointmentStatus(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req clinicapp.UpdateAppointmentStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	appt, err := h.records.UpdateAppointmentStatus(c.Request.Context(), id, req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appt)
}
