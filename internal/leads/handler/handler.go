package handler

import (
	"net/http"

	"kam_backend/internal/leads/contacts"
	"kam_backend/internal/leads/management"
	"kam_backend/internal/leads/scheduling"
	"kam_backend/internal/leads/transport"
	"kam_backend/platform/httpkit"
	"kam_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidLeadID    = "invalid lead id"
)

// Handler serves lead, contact and interaction endpoints.
type Handler struct {
	mgmt     *management.Service
	sched    *scheduling.Service
	contacts *contacts.Service
	val      *validator.Validator
}

// New creates a leads handler.
func New(mgmt *management.Service, sched *scheduling.Service, contactSvc *contacts.Service, val *validator.Validator) *Handler {
	return &Handler{mgmt: mgmt, sched: sched, contacts: contactSvc, val: val}
}

// RegisterRoutes mounts lead routes. The call-planning route is registered
// before /:id so the static segment wins.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/call-planning/today", h.DueToday)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// Create adds a lead.
// POST /api/v1/leads
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
	if !httpkit.BindJSON(c, h.val, &req) {
		return
	}

	result, err := h.mgmt.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// List returns every lead with its contacts.
// GET /api/v1/leads
func (h *Handler) List(c *gin.Context) {
	result, err := h.mgmt.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DueToday returns the leads due for a call today.
// GET /api/v1/leads/call-planning/today
func (h *Handler) DueToday(c *gin.Context) {
	result, err := h.sched.GetLeadsDueToday(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetByID returns one lead.
// GET /api/v1/leads/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseLeadID(c, "id")
	if !ok {
		return
	}

	result, err := h.mgmt.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Update changes lead fields.
// PATCH /api/v1/leads/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseLeadID(c, "id")
	if !ok {
		return
	}

	var req transport.UpdateLeadRequest
	if !httpkit.BindJSON(c, h.val, &req) {
		return
	}

	result, err := h.mgmt.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete removes a lead.
// DELETE /api/v1/leads/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseLeadID(c, "id")
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.mgmt.Delete(c.Request.Context(), id)) {
		return
	}
	httpkit.OK(c, transport.MessageResponse{Message: "Lead deleted successfully"})
}

func parseLeadID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return uuid.Nil, false
	}
	return id, true
}
