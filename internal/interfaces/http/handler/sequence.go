package handler

import (
	"github.com/gin-gonic/gin"

	seqapp "github.com/vetclinic/backend/internal/application/sequence"
)

// SequenceHandler previews document numbers
type SequenceHandler struct {
	BaseHandler
	sequences *seqapp.Service
}

// NewSequenceHandler creates a new SequenceHandler
func NewSequenceHandler(sequences *seqapp.Service) *SequenceHandler {
	return &SequenceHandler{sequences: sequences}
}

// NextNumber godoc
// @Summary      Preview next document number
// @Description  Does not consume the number
// @Tags         sequences
// @Produce      json
// @Param        series path string true "Document series"
// @Success      200 {object} dto.Response{data=seqapp.NextNumberResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sequences/{series}/next [get]
func (h *SequenceHandler) NextNumber(c *gin.Context) {
	next, err := h.sequences.NextNumber(c.Request.Context(), c.Param("series"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, next)
}
