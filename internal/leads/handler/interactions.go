package handler

import (
	"net/http"

	"kam_backend/internal/leads/scheduling"
	"kam_backend/internal/leads/transport"
	"kam_backend/platform/apperr"
	"kam_backend/platform/httpkit"
	"kam_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterInteractionRoutes mounts interaction routes.
func (h *Handler) RegisterInteractionRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.RecordInteraction)
	rg.GET("/:leadId", h.ListInteractions)
}

// RecordInteraction logs a call or email and reschedules the next call.
// POST /api/v1/interactions
func (h *Handler) RecordInteraction(c *gin.Context) {
	var req transport.CreateInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if req.LeadID == uuid.Nil {
		httpkit.HandleError(c, apperr.Validation("leadId is required"))
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.sched.RecordInteraction(c.Request.Context(), scheduling.RecordInteractionInput{
		LeadID:       req.LeadID,
		UserID:       httpkit.ActorID(c),
		Type:         req.Type,
		Notes:        req.Notes,
		Duration:     req.Duration,
		NextCallDate: req.NextCallDate,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// ListInteractions returns a lead's interaction history.
// GET /api/v1/interactions/:leadId
func (h *Handler) ListInteractions(c *gin.Context) {
	leadID, ok := parseLeadID(c, "leadId")
	if !ok {
		return
	}

	result, err := h.sched.ListInteractions(c.Request.Context(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
